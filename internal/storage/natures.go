package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/toranj-io/daftar/internal/common"
	"github.com/toranj-io/daftar/internal/model"
)

// SaveNature inserts a nature lookup row, assigning its ID.
func (s *SQLiteStorage) SaveNature(ctx context.Context, nature *model.Nature) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateNature(nature); err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx, `INSERT INTO natures (name) VALUES (?)`, nature.Name)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return fmt.Errorf("%w: nature %q", common.ErrDuplicateEntry, nature.Name)
		}
		return fmt.Errorf("failed to insert nature: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read nature id: %w", err)
	}
	nature.ID = id
	return nil
}

// GetNatures returns the names from the natures lookup table, sorted.
func (s *SQLiteStorage) GetNatures(ctx context.Context) ([]string, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return s.queryStrings(ctx, `SELECT name FROM natures ORDER BY name`)
}

// GetExecutiveDepts returns the distinct executive departments present in
// the ledger.
func (s *SQLiteStorage) GetExecutiveDepts(ctx context.Context) ([]string, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return s.distinctRecordValues(ctx, "executive_dept")
}

// GetContractStatuses returns the distinct contract statuses present in
// the ledger.
func (s *SQLiteStorage) GetContractStatuses(ctx context.Context) ([]string, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return s.distinctRecordValues(ctx, "contract_status")
}

// GetWorkReferralMethods returns the distinct work referral methods present
// in the ledger.
func (s *SQLiteStorage) GetWorkReferralMethods(ctx context.Context) ([]string, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return s.distinctRecordValues(ctx, "work_referral_method")
}

func (s *SQLiteStorage) distinctRecordValues(ctx context.Context, column string) ([]string, error) {
	query := fmt.Sprintf(`
		SELECT DISTINCT %s FROM budget_records
		WHERE %s IS NOT NULL AND %s != ''
		ORDER BY %s
	`, column, column, column, column)
	return s.queryStrings(ctx, query)
}

func (s *SQLiteStorage) queryStrings(ctx context.Context, query string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query values: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var values []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("failed to scan value: %w", err)
		}
		values = append(values, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate values: %w", err)
	}
	return values, nil
}
