// Package sheet is the append-only tabular store submissions are written to.
// A sheet only ever grows: there is no update or delete path.
package sheet

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/neurostream/intake/pkg/models"
)

// ErrColumnMismatch is returned when a row does not match the sheet header
var ErrColumnMismatch = errors.New("row does not match sheet columns")

// Sheet defines the interface for an append-only backing store
type Sheet interface {
	// AppendRow adds one row; cells are in header order
	AppendRow(ctx context.Context, row []string) error
	// Count returns the number of data rows, header excluded
	Count(ctx context.Context) (int, error)
}

// TableName returns the per-deployment table identifier for a kind
func TableName(kind models.Kind) string {
	return string(kind) + "_submissions"
}

func checkWidth(header, row []string) error {
	if len(row) != len(header) {
		return fmt.Errorf("%w: got %d cells, want %d", ErrColumnMismatch, len(row), len(header))
	}
	return nil
}

// Memory is an in-process sheet, mainly for tests and local runs
type Memory struct {
	mu     sync.Mutex
	header []string
	rows   [][]string
}

// NewMemory creates an empty sheet with the given header row
func NewMemory(header []string) *Memory {
	return &Memory{header: append([]string(nil), header...)}
}

func (m *Memory) AppendRow(ctx context.Context, row []string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := checkWidth(m.header, row); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows = append(m.rows, append([]string(nil), row...))
	return nil
}

func (m *Memory) Count(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.rows), nil
}

// Rows returns a copy of the data rows in insertion order
func (m *Memory) Rows() [][]string {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([][]string, len(m.rows))
	for i, r := range m.rows {
		out[i] = append([]string(nil), r...)
	}
	return out
}
