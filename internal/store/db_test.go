package store

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baxromumarov/fundedlist/internal/core"
)

func sampleResult() *core.Result {
	return &core.Result{
		Companies: []core.CompanyRecord{
			{ID: "acme", Name: "Acme", Amount: "$12M", Round: "Series A", Category: "ai", Investors: []string{"yc"}, Source: "curated"},
			{ID: "globex", Name: "Globex", Category: "other", Source: "ycombinator"},
		},
		Jobs: []core.JobRecord{
			{ID: 1, CompanyID: "acme", Title: "Backend Engineer", Department: "engineering"},
			{ID: 2, CompanyID: "gone", Title: "Designer", Department: "design"},
		},
		Updated: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestClampLimit(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 20, clampLimit(0, 20, 200))
	assert.Equal(t, 20, clampLimit(-5, 20, 200))
	assert.Equal(t, 50, clampLimit(50, 20, 200))
	assert.Equal(t, 200, clampLimit(1000, 20, 200))
}

func TestFundingRows(t *testing.T) {
	t.Parallel()

	rows := fundingRows(sampleResult())
	require.Len(t, rows, 2)
	assert.Equal(t, "acme", rows[0].CompanyID)
	assert.Equal(t, "$12M", rows[0].Amount)
	assert.Equal(t, []string{"yc"}, rows[0].Investors)
	assert.NotNil(t, rows[1].Investors)
	assert.Empty(t, rows[1].Investors)
}

func TestJobRows(t *testing.T) {
	t.Parallel()

	rows := jobRows(sampleResult())
	require.Len(t, rows, 2)
	assert.Equal(t, "Acme", rows[0].CompanyName)
	assert.Equal(t, "gone", rows[1].CompanyName)
}

func TestEmbeddedSchema(t *testing.T) {
	t.Parallel()

	assert.Contains(t, embeddedSchema, "CREATE TABLE IF NOT EXISTS funding")
	assert.Contains(t, embeddedSchema, "CREATE TABLE IF NOT EXISTS jobs")
}

func TestStore_Postgres(t *testing.T) {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	s, err := NewStore(dsn)
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.RunMigrations(ctx, ""))
	_, err = s.db.ExecContext(ctx, `TRUNCATE funding, jobs`)
	require.NoError(t, err)

	res := sampleResult()
	res.Updated = time.Now().UTC()
	require.NoError(t, s.Publish(ctx, res))

	got, err := s.RecentFunding(ctx, 10, 0)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Acme", got[0].Name)
	assert.Equal(t, []string{"yc"}, got[0].Investors)

	removed, err := s.DeleteOlderThan(ctx, time.Hour)
	require.NoError(t, err)
	assert.Zero(t, removed)

	removed, err = s.DeleteOlderThan(ctx, -time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(4), removed)

	assert.ErrorIs(t, s.Publish(ctx, &core.Result{}), core.ErrNoData)
}
