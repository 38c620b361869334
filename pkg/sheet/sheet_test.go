package sheet

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neurostream/intake/pkg/models"
)

var contactHeader = models.Columns(models.KindContact)

func contactRow(name string) []string {
	return []string{"2026-01-02T03:04:05Z", name, "ada@example.com", "", "Hi", "Hello"}
}

func TestMemoryAppendAndCount(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(contactHeader)

	n, err := m.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	require.NoError(t, m.AppendRow(ctx, contactRow("Ada")))
	require.NoError(t, m.AppendRow(ctx, contactRow("Grace")))

	n, err = m.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, "Grace", m.Rows()[1][1])
}

func TestMemoryRejectsWrongWidth(t *testing.T) {
	m := NewMemory(contactHeader)
	err := m.AppendRow(context.Background(), []string{"only", "three", "cells"})
	assert.ErrorIs(t, err, ErrColumnMismatch)
	assert.Empty(t, m.Rows())
}

func TestMemoryRowsAreCopies(t *testing.T) {
	m := NewMemory(contactHeader)
	row := contactRow("Ada")
	require.NoError(t, m.AppendRow(context.Background(), row))

	row[1] = "mutated"
	m.Rows()[0][1] = "mutated again"
	assert.Equal(t, "Ada", m.Rows()[0][1])
}

func TestMemoryConcurrentAppends(t *testing.T) {
	m := NewMemory(contactHeader)
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, m.AppendRow(context.Background(), contactRow("Ada")))
		}()
	}
	wg.Wait()
	assert.Len(t, m.Rows(), 20)
}

func openTestSQLite(t *testing.T) *SQLite {
	t.Helper()
	path := filepath.Join(t.TempDir(), "nested", "intake.db")
	s, err := OpenSQLite(context.Background(), path, TableName(models.KindContact), contactHeader)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSQLiteAppendAndCount(t *testing.T) {
	ctx := context.Background()
	s := openTestSQLite(t)

	require.NoError(t, s.AppendRow(ctx, contactRow("Ada")))
	require.NoError(t, s.AppendRow(ctx, contactRow("Grace")))

	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	rows, err := s.Rows(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, contactRow("Ada"), rows[0])
	assert.Equal(t, "Grace", rows[1][1])
}

func TestSQLiteRejectsWrongWidth(t *testing.T) {
	s := openTestSQLite(t)
	err := s.AppendRow(context.Background(), []string{"x"})
	assert.ErrorIs(t, err, ErrColumnMismatch)
}

func TestSQLiteIsAppendOnly(t *testing.T) {
	ctx := context.Background()
	s := openTestSQLite(t)
	require.NoError(t, s.AppendRow(ctx, contactRow("Ada")))

	_, err := s.DB().ExecContext(ctx, `UPDATE "contact_submissions" SET "Name" = 'Eve'`)
	assert.ErrorContains(t, err, "append-only")

	_, err = s.DB().ExecContext(ctx, `DELETE FROM "contact_submissions"`)
	assert.ErrorContains(t, err, "append-only")

	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestSQLiteReopenKeepsRows(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "intake.db")
	table := TableName(models.KindWaitlist)
	header := models.Columns(models.KindWaitlist)
	row := []string{"2026-01-02T03:04:05Z", "Ada", "Lovelace", "ada@example.com", "AE", "Other", ""}

	s, err := OpenSQLite(ctx, path, table, header)
	require.NoError(t, err)
	require.NoError(t, s.AppendRow(ctx, row))
	require.NoError(t, s.Close())

	s, err = OpenSQLite(ctx, path, table, header)
	require.NoError(t, err)
	defer s.Close()

	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestOpenSQLiteEmptyHeader(t *testing.T) {
	_, err := OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "x.db"), "t", nil)
	assert.Error(t, err)
}
