// Package repository provides the data access layer for persisted schedules.
package repository

import (
	"context"
	"database/sql"
)

// DB is the minimal database surface the repositories need. Both *sql.DB and
// *sql.Tx satisfy it.
type DB interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// Scanner abstracts sql.Row and sql.Rows for shared scan helpers.
type Scanner interface {
	Scan(dest ...interface{}) error
}

// ListFilter narrows schedule listings.
type ListFilter struct {
	Status    string `json:"status,omitempty"`
	StartDate string `json:"start_date,omitempty"`
	EndDate   string `json:"end_date,omitempty"`
	Offset    int    `json:"offset"`
	Limit     int    `json:"limit"`
}

// DefaultListFilter returns the default paging filter.
func DefaultListFilter() ListFilter {
	return ListFilter{Limit: 20}
}
