package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Tests here use t.Setenv and therefore cannot run in parallel.

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		FileEnv, "DATA_DIR", "SITE_OUTPUT", "CURATED_PATH", "GALLERY_URL", "YC_API_URL", "USER_AGENT",
		"DATABASE_URL", "PORT", "AI_PROVIDER", "GEMINI_API_KEY", "GEMINI_MODEL", "LOG_LEVEL",
		"FEEDS", "JOB_BOARDS", "YC_LIMIT", "SEED", "SCRAPE_CAREERS", "REFRESH_INTERVAL", "RETENTION",
	} {
		if v, ok := os.LookupEnv(key); ok {
			t.Setenv(key, v)
			require.NoError(t, os.Unsetenv(key))
		}
	}
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "data", cfg.DataDir)
	assert.Equal(t, DefaultFeeds, cfg.Feeds)
	assert.Equal(t, 50, cfg.YCLimit)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 6*time.Hour, cfg.RefreshInterval)
	assert.False(t, cfg.ScrapeCareers)
}

func TestLoad_FileThenEnv(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "fundedlist.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
data_dir: /srv/data
yc_limit: 10
seed: 42
refresh_interval: 30m
scrape_careers: true
feeds:
  - https://example.com/feed
job_boards:
  acme: https://boards.greenhouse.io/acme
`), 0o644))

	t.Setenv("YC_LIMIT", "25")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/srv/data", cfg.DataDir)
	assert.Equal(t, 25, cfg.YCLimit)
	assert.Equal(t, int64(42), cfg.Seed)
	assert.Equal(t, 30*time.Minute, cfg.RefreshInterval)
	assert.True(t, cfg.ScrapeCareers)
	assert.Equal(t, []string{"https://example.com/feed"}, cfg.Feeds)
	assert.Equal(t, "https://boards.greenhouse.io/acme", cfg.JobBoards["acme"])

	level, err := cfg.SlogLevel()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)
}

func TestLoad_FileFromEnv(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "c.yaml")
	require.NoError(t, os.WriteFile(path, []byte("port: \"9000\"\n"), 0o644))
	t.Setenv(FileEnv, path)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "9000", cfg.Port)
}

func TestLoad_DotEnv(t *testing.T) {
	clearEnv(t)
	require.NoError(t, os.WriteFile(".env", []byte("PORT=7070\nFEEDS=https://a.example/rss, https://b.example/rss\n"), 0o644))
	t.Cleanup(func() {
		os.Unsetenv("PORT")
		os.Unsetenv("FEEDS")
	})

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "7070", cfg.Port)
	assert.Equal(t, []string{"https://a.example/rss", "https://b.example/rss"}, cfg.Feeds)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
		want error
	}{
		{"bad feed url", "FEEDS", "not a url", ErrInvalidURL},
		{"bad limit", "YC_LIMIT", "ten", ErrInvalidLimit},
		{"negative limit", "YC_LIMIT", "-1", ErrInvalidLimit},
		{"bad interval", "REFRESH_INTERVAL", "soon", ErrInvalidDuration},
		{"negative retention", "RETENTION", "-1h", ErrInvalidDuration},
		{"unknown provider", "AI_PROVIDER", "oracle", ErrInvalidProvider},
		{"bad log level", "LOG_LEVEL", "loud", ErrInvalidLogLevel},
		{"bad board", "JOB_BOARDS", "acme", ErrInvalidURL},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.val)

			_, err := Load("")
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	clearEnv(t)

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestParseBoards(t *testing.T) {
	boards, err := parseBoards("acme=https://boards.greenhouse.io/acme, globex = https://jobs.lever.co/globex")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"acme":   "https://boards.greenhouse.io/acme",
		"globex": "https://jobs.lever.co/globex",
	}, boards)
}
