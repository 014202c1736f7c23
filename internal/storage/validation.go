// Package storage provides the data persistence layer for the budget ledger.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/toranj-io/daftar/internal/model"
)

// Validation errors.
var (
	ErrNilContext    = errors.New("context cannot be nil")
	ErrEmptyString   = errors.New("string parameter cannot be empty")
	ErrNilParameter  = errors.New("parameter cannot be nil")
	ErrEmptySlice    = errors.New("slice cannot be empty")
	ErrInvalidRecord = errors.New("invalid budget record")
	ErrInvalidNature = errors.New("invalid nature")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateRecords validates a slice of budget records.
func validateRecords(records []model.BudgetRecord) error {
	if records == nil {
		return fmt.Errorf("%w: records", ErrNilParameter)
	}
	if len(records) == 0 {
		return fmt.Errorf("%w: records", ErrEmptySlice)
	}

	for i := range records {
		if err := validateRecord(&records[i]); err != nil {
			return fmt.Errorf("record at index %d: %w", i, err)
		}
	}
	return nil
}

// validateRecord validates a single budget record.
func validateRecord(record *model.BudgetRecord) error {
	if record == nil {
		return fmt.Errorf("%w: record", ErrNilParameter)
	}
	if strings.TrimSpace(record.SubProjectCode) == "" {
		return fmt.Errorf("%w: missing sub-project code", ErrInvalidRecord)
	}
	return nil
}

// validateNature validates a nature lookup row.
func validateNature(nature *model.Nature) error {
	if nature == nil {
		return fmt.Errorf("%w: nature", ErrNilParameter)
	}
	if strings.TrimSpace(nature.Name) == "" {
		return fmt.Errorf("%w: missing name", ErrInvalidNature)
	}
	return nil
}
