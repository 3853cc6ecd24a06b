package store

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"leadscout-engine/internal/domain"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, Migrate(db.Pool))
	return db
}

func TestReplaceRunKeepsVisitOrder(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	err := ReplaceRun(ctx, db.Pool, []domain.ContactRecord{
		{Keyword: "k", URL: "https://facebook.com/a", Domain: "facebook.com",
			Emails: []string{"a@x.in", "b@x.in"}, Phones: []string{"+919876543210"}},
		{Keyword: "k", URL: "https://x.com/b", Domain: "x.com"},
	})
	require.NoError(t, err)

	list, err := ListContacts(ctx, db.Pool)
	require.NoError(t, err)
	require.Len(t, list, 2)

	require.Equal(t, "https://facebook.com/a", list[0].URL)
	require.Equal(t, "a@x.in, b@x.in", list[0].Emails)
	require.Equal(t, "+919876543210", list[0].Phones)
	require.NotEmpty(t, list[0].ScrapedAt)

	require.Equal(t, "https://x.com/b", list[1].URL)
	require.Empty(t, list[1].Emails)
	require.Empty(t, list[1].Phones)
}

func TestReplaceRunDropsPreviousRun(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	require.NoError(t, ReplaceRun(ctx, db.Pool, []domain.ContactRecord{
		{Keyword: "old", URL: "https://facebook.com/old", Domain: "facebook.com"},
	}))
	require.NoError(t, ReplaceRun(ctx, db.Pool, []domain.ContactRecord{
		{Keyword: "new", URL: "https://facebook.com/new", Domain: "facebook.com"},
	}))

	list, err := ListContacts(ctx, db.Pool)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, "new", list[0].Keyword)
}

func TestClearContacts(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	require.NoError(t, ReplaceRun(ctx, db.Pool, []domain.ContactRecord{
		{Keyword: "k", URL: "https://facebook.com/a", Domain: "facebook.com"},
	}))
	require.NoError(t, ClearContacts(ctx, db.Pool))

	list, err := ListContacts(ctx, db.Pool)
	require.NoError(t, err)
	require.Empty(t, list)
}

func TestExportCSV(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	require.NoError(t, ReplaceRun(ctx, db.Pool, []domain.ContactRecord{
		{Keyword: "dental lab", URL: "https://facebook.com/a", Domain: "facebook.com",
			Emails: []string{"a@x.in"}, Phones: []string{"+919876543210"}},
	}))

	var sb strings.Builder
	require.NoError(t, ExportCSV(ctx, db.Pool, &sb))

	lines := strings.Split(strings.TrimSpace(sb.String()), "\n")
	require.Len(t, lines, 2)
	require.Equal(t, "keyword,url,domain,emails,phones", lines[0])
	require.Equal(t, "dental lab,https://facebook.com/a,facebook.com,a@x.in,+919876543210", lines[1])
}

func TestMigrateIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, Migrate(db.Pool))
}
