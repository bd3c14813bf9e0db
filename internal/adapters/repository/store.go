// Package repository defines the calculation history store interface and errors.
package repository

import (
	"context"

	"github.com/okian/pokecalc/internal/domain/model"
)

// Store persists calculation records.
type Store interface {
	// Save stores a record. Records are immutable; saving an existing ID fails.
	Save(ctx context.Context, rec model.Record) error

	// Get returns the record with id.
	// Returns ErrNotFound if the id is unknown.
	Get(ctx context.Context, id string) (model.Record, error)

	// Recent returns up to n records, newest first.
	// Returns ErrInvalidLimit if n < 1.
	Recent(ctx context.Context, n int) ([]model.Record, error)

	// Count returns the number of records held.
	Count(ctx context.Context) int

	Close() error
}
