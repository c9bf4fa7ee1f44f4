package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/baxromumarov/fundedlist/internal/app"
	"github.com/baxromumarov/fundedlist/internal/config"
	"github.com/baxromumarov/fundedlist/internal/core"
)

var args struct {
	configPath string
	dataDir    string
	siteOutput string
	seed       int64
	noSite     bool
}

var Cmd = &cobra.Command{
	Use:           "fundedlist",
	Short:         "Collect recently funded startups and render the FundedList page",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := Cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	flags := Cmd.PersistentFlags()
	flags.StringVar(&args.configPath, "config", "", "YAML config file (default $"+config.FileEnv+")")
	flags.StringVar(&args.dataDir, "data-dir", "", "directory for companies.json, vcs.json and jobs.json")
	flags.StringVar(&args.siteOutput, "out", "", "path of the rendered index.html")
	flags.Int64Var(&args.seed, "seed", 0, "job generator seed, 0 for time-based")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Fetch all sources, write the JSON files, store history and render the site",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPipeline(cmd, app.Options{Site: !args.noSite, Store: true})
		},
	}
	runCmd.Flags().BoolVar(&args.noSite, "no-site", false, "skip rendering index.html")

	Cmd.AddCommand(
		runCmd,
		&cobra.Command{
			Use:   "companies",
			Short: "Fetch all sources and write the JSON files only",
			RunE: func(cmd *cobra.Command, _ []string) error {
				return runPipeline(cmd, app.Options{})
			},
		},
		&cobra.Command{
			Use:   "vcs",
			Short: "Write the embedded investor list to vcs.json",
			RunE:  runVCs,
		},
		&cobra.Command{
			Use:   "jobs",
			Short: "Regenerate jobs.json for the companies already on disk",
			RunE:  runJobs,
		},
		&cobra.Command{
			Use:   "build",
			Short: "Render index.html from the JSON files on disk",
			RunE:  runBuild,
		},
	)
}

func loadApp(cmd *cobra.Command, opts app.Options) (*app.App, error) {
	cfg, err := config.Load(args.configPath)
	if err != nil {
		return nil, err
	}
	if args.dataDir != "" {
		cfg.DataDir = args.dataDir
	}
	if args.siteOutput != "" {
		cfg.SiteOutput = args.siteOutput
	}
	if cmd.Flags().Changed("seed") {
		cfg.Seed = args.seed
	}
	app.SetupLogger(cfg, os.Stderr)
	return app.New(cmd.Context(), cfg, opts)
}

func runPipeline(cmd *cobra.Command, opts app.Options) error {
	a, err := loadApp(cmd, opts)
	if err != nil {
		return err
	}
	defer a.Close()

	res, err := a.Ingestion.RunOnce(cmd.Context())
	if errors.Is(err, core.ErrNoData) {
		return fmt.Errorf("%w: previous output left in place", err)
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "wrote %d companies, %d investors, %d jobs to %s\n",
		len(res.Companies), len(res.VCs), len(res.Jobs), a.Config.DataDir)
	if len(res.FailedSources) > 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "failed sources: %v\n", res.FailedSources)
	}
	if opts.Site {
		fmt.Fprintf(cmd.OutOrStdout(), "rendered %s\n", a.Renderer.OutPath())
	}
	return nil
}

func runVCs(cmd *cobra.Command, _ []string) error {
	a, err := loadApp(cmd, app.Options{})
	if err != nil {
		return err
	}
	vcs, err := a.WriteVCs()
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %d investors to %s\n", len(vcs), a.Config.DataDir)
	return nil
}

func runJobs(cmd *cobra.Command, _ []string) error {
	a, err := loadApp(cmd, app.Options{})
	if err != nil {
		return err
	}
	jobs, err := a.RefreshJobs(cmd.Context())
	if err != nil {
		return err
	}
	slog.Info("jobs regenerated", "count", len(jobs))
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %d jobs to %s\n", len(jobs), a.Config.DataDir)
	return nil
}

func runBuild(cmd *cobra.Command, _ []string) error {
	a, err := loadApp(cmd, app.Options{})
	if err != nil {
		return err
	}
	snap, err := a.BuildSite()
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "built %s with %d companies, %d investors, %d jobs\n",
		a.Renderer.OutPath(), len(snap.Companies.Companies), len(snap.VCs.VCs), len(snap.Jobs.Jobs))
	return nil
}
