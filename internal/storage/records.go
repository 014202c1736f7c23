package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/toranj-io/daftar/internal/common"
	"github.com/toranj-io/daftar/internal/model"
	"github.com/toranj-io/daftar/internal/service"
)

// recordColumns is the canonical column order used by every record query.
const recordColumns = `sub_project_code, contract_title, contract_number, contract_date,
	contractor, agent, contract_status, executive_dept,
	start_date, end_date, extended_end_date, work_referral_method,
	credit_number, nature,
	total_contract_amount, initial_amount,
	current_year_cash_credit, current_year_non_cash_credit, current_year_total_credit,
	total_credit_from_start, total_invoices_amount, total_work_progress,
	current_year_invoices_amount,
	adjustment_amount, max_required_credit, credit_deficit`

// filterColumns maps canonical field names, as used in filter
// specifications, to their database columns. Only listed fields are
// queryable; anything else is rejected before reaching SQL.
var filterColumns = map[string]string{
	"SubProjectCode":            "sub_project_code",
	"ContractTitle":             "contract_title",
	"ContractNumber":            "contract_number",
	"Contractor":                "contractor",
	"Agent":                     "agent",
	"ContractStatus":            "contract_status",
	"ExecutiveDept":             "executive_dept",
	"WorkReferralMethod":        "work_referral_method",
	"CreditNumber":              "credit_number",
	"Nature":                    "nature",
	"TotalContractAmount":       "total_contract_amount",
	"InitialAmount":             "initial_amount",
	"CurrentYearTotalCredit":    "current_year_total_credit",
	"TotalCreditFromStart":      "total_credit_from_start",
	"TotalInvoicesAmount":       "total_invoices_amount",
	"TotalWorkProgress":         "total_work_progress",
	"CurrentYearInvoicesAmount": "current_year_invoices_amount",
	"AdjustmentAmount":          "adjustment_amount",
	"MaxRequiredCredit":         "max_required_credit",
	"CreditDeficit":             "credit_deficit",
}

// SaveRecord inserts a single budget record.
func (s *SQLiteStorage) SaveRecord(ctx context.Context, record *model.BudgetRecord) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateRecord(record); err != nil {
		return err
	}
	return s.SaveRecords(ctx, []model.BudgetRecord{*record})
}

// SaveRecords inserts multiple budget records in one transaction.
func (s *SQLiteStorage) SaveRecords(ctx context.Context, records []model.BudgetRecord) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateRecords(records); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := s.insertRecordsTx(ctx, tx, records); err != nil {
		return err
	}

	return tx.Commit()
}

func (s *SQLiteStorage) insertRecordsTx(ctx context.Context, tx *sql.Tx, records []model.BudgetRecord) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO budget_records (`+recordColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for i := range records {
		if _, err := stmt.ExecContext(ctx, recordArgs(&records[i])...); err != nil {
			if strings.Contains(err.Error(), "UNIQUE constraint failed") {
				return fmt.Errorf("%w: sub-project code %q", common.ErrDuplicateEntry, records[i].SubProjectCode)
			}
			return fmt.Errorf("failed to insert record %q: %w", records[i].SubProjectCode, err)
		}
	}
	return nil
}

// UpdateRecord rewrites every mutable field of one stored record. The
// sub-project code identifies the row and is never changed.
func (s *SQLiteStorage) UpdateRecord(ctx context.Context, record *model.BudgetRecord) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateRecord(record); err != nil {
		return err
	}
	return s.UpdateRecords(ctx, []model.BudgetRecord{*record})
}

// UpdateRecords rewrites multiple stored records in one transaction.
func (s *SQLiteStorage) UpdateRecords(ctx context.Context, records []model.BudgetRecord) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateRecords(records); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := s.updateRecordsTx(ctx, tx, records); err != nil {
		return err
	}

	return tx.Commit()
}

func (s *SQLiteStorage) updateRecordsTx(ctx context.Context, tx *sql.Tx, records []model.BudgetRecord) error {
	stmt, err := tx.PrepareContext(ctx, `
		UPDATE budget_records SET
			contract_title = ?, contract_number = ?, contract_date = ?,
			contractor = ?, agent = ?, contract_status = ?, executive_dept = ?,
			start_date = ?, end_date = ?, extended_end_date = ?, work_referral_method = ?,
			credit_number = ?, nature = ?,
			total_contract_amount = ?, initial_amount = ?,
			current_year_cash_credit = ?, current_year_non_cash_credit = ?, current_year_total_credit = ?,
			total_credit_from_start = ?, total_invoices_amount = ?, total_work_progress = ?,
			current_year_invoices_amount = ?,
			adjustment_amount = ?, max_required_credit = ?, credit_deficit = ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE sub_project_code = ?
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for i := range records {
		record := &records[i]
		args := recordArgs(record)[1:] // drop the leading code
		args = append(args, record.SubProjectCode)

		res, err := stmt.ExecContext(ctx, args...)
		if err != nil {
			return fmt.Errorf("failed to update record %q: %w", record.SubProjectCode, err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to read update result: %w", err)
		}
		if affected == 0 {
			return fmt.Errorf("%w: sub-project code %q", common.ErrNotFound, record.SubProjectCode)
		}
	}
	return nil
}

// GetAllRecords returns every ledger row ordered by sub-project code.
func (s *SQLiteStorage) GetAllRecords(ctx context.Context) ([]model.BudgetRecord, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT `+recordColumns+`
		FROM budget_records
		ORDER BY sub_project_code
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query records: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return collectRecords(rows)
}

// GetRecordByCode returns the record with the given sub-project code, or
// common.ErrNotFound.
func (s *SQLiteStorage) GetRecordByCode(ctx context.Context, code string) (*model.BudgetRecord, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(code, "code"); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT `+recordColumns+`
		FROM budget_records
		WHERE sub_project_code = ?
	`, code)

	record, err := scanRecord(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: sub-project code %q", common.ErrNotFound, code)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get record: %w", err)
	}
	return record, nil
}

// GetRecordsByCodes bulk-fetches records for the given codes, keyed by
// code. Codes with no ledger row are simply absent from the map.
func (s *SQLiteStorage) GetRecordsByCodes(ctx context.Context, codes []string) (map[string]*model.BudgetRecord, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return s.getRecordsByCodes(ctx, s.db, codes)
}

func (s *SQLiteStorage) getRecordsByCodesTx(ctx context.Context, tx *sql.Tx, codes []string) (map[string]*model.BudgetRecord, error) {
	return s.getRecordsByCodes(ctx, tx, codes)
}

// querier abstracts *sql.DB and *sql.Tx for read paths.
type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func (s *SQLiteStorage) getRecordsByCodes(ctx context.Context, q querier, codes []string) (map[string]*model.BudgetRecord, error) {
	result := make(map[string]*model.BudgetRecord, len(codes))
	if len(codes) == 0 {
		return result, nil
	}

	placeholders := strings.Repeat("?,", len(codes))
	placeholders = placeholders[:len(placeholders)-1]

	args := make([]any, len(codes))
	for i, code := range codes {
		args[i] = code
	}

	rows, err := q.QueryContext(ctx, `
		SELECT `+recordColumns+`
		FROM budget_records
		WHERE sub_project_code IN (`+placeholders+`)
	`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query records by codes: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}
		result[record.SubProjectCode] = record
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate records: %w", err)
	}
	return result, nil
}

// DeleteRecordByCode removes one ledger row. Deleting is an administrative
// operation; the import pipeline never calls it.
func (s *SQLiteStorage) DeleteRecordByCode(ctx context.Context, code string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(code, "code"); err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx, `DELETE FROM budget_records WHERE sub_project_code = ?`, code)
	if err != nil {
		return fmt.Errorf("failed to delete record: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read delete result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: sub-project code %q", common.ErrNotFound, code)
	}
	return nil
}

// QueryRecords applies the store-translatable predicates of a report
// filter and returns matching rows ordered by sub-project code. Amount
// comparisons cast the stored decimal text to REAL; the stored values
// themselves stay exact.
func (s *SQLiteStorage) QueryRecords(ctx context.Context, query service.RecordQuery) ([]model.BudgetRecord, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	var (
		conds []string
		args  []any
	)

	for _, tf := range query.Text {
		col, ok := filterColumns[tf.Field]
		if !ok {
			return nil, fmt.Errorf("unknown filter field %q", tf.Field)
		}
		if strings.TrimSpace(tf.Value) == "" {
			continue
		}
		conds = append(conds, fmt.Sprintf("instr(coalesce(%s, ''), ?) > 0", col))
		args = append(args, tf.Value)
	}

	for _, af := range query.Amounts {
		col, ok := filterColumns[af.Field]
		if !ok {
			return nil, fmt.Errorf("unknown filter field %q", af.Field)
		}
		if af.Min != nil {
			conds = append(conds, fmt.Sprintf("%s IS NOT NULL AND CAST(%s AS REAL) >= ?", col, col))
			args = append(args, af.Min.InexactFloat64())
		}
		if af.Max != nil {
			conds = append(conds, fmt.Sprintf("%s IS NOT NULL AND CAST(%s AS REAL) <= ?", col, col))
			args = append(args, af.Max.InexactFloat64())
		}
	}

	sqlQuery := `SELECT ` + recordColumns + ` FROM budget_records`
	if len(conds) > 0 {
		sqlQuery += " WHERE " + strings.Join(conds, " AND ")
	}
	sqlQuery += " ORDER BY sub_project_code"

	rows, err := s.db.QueryContext(ctx, sqlQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query records: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return collectRecords(rows)
}

// rowScanner abstracts *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func collectRecords(rows *sql.Rows) ([]model.BudgetRecord, error) {
	var records []model.BudgetRecord
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}
		records = append(records, *record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate records: %w", err)
	}
	return records, nil
}

func scanRecord(scanner rowScanner) (*model.BudgetRecord, error) {
	var (
		record model.BudgetRecord

		contractTitle, contractNumber, contractDate        sql.NullString
		contractor, agent, contractStatus, executiveDept   sql.NullString
		startDate, endDate, extendedEndDate                sql.NullString
		workReferralMethod, creditNumber, nature           sql.NullString
		totalContractAmount, initialAmount                 sql.NullString
		currentYearCashCredit, currentYearNonCashCredit    sql.NullString
		currentYearTotalCredit, totalCreditFromStart       sql.NullString
		totalInvoicesAmount, totalWorkProgress             sql.NullString
		currentYearInvoicesAmount                          sql.NullString
		adjustmentAmount, maxRequiredCredit, creditDeficit sql.NullString
	)

	err := scanner.Scan(
		&record.SubProjectCode,
		&contractTitle, &contractNumber, &contractDate,
		&contractor, &agent, &contractStatus, &executiveDept,
		&startDate, &endDate, &extendedEndDate, &workReferralMethod,
		&creditNumber, &nature,
		&totalContractAmount, &initialAmount,
		&currentYearCashCredit, &currentYearNonCashCredit, &currentYearTotalCredit,
		&totalCreditFromStart, &totalInvoicesAmount, &totalWorkProgress,
		&currentYearInvoicesAmount,
		&adjustmentAmount, &maxRequiredCredit, &creditDeficit,
	)
	if err != nil {
		return nil, err
	}

	record.ContractTitle = contractTitle.String
	record.ContractNumber = contractNumber.String
	record.ContractDate = contractDate.String
	record.Contractor = contractor.String
	record.Agent = agent.String
	record.ContractStatus = contractStatus.String
	record.ExecutiveDept = executiveDept.String
	record.StartDate = startDate.String
	record.EndDate = endDate.String
	record.ExtendedEndDate = extendedEndDate.String
	record.WorkReferralMethod = workReferralMethod.String
	record.CreditNumber = creditNumber.String
	record.Nature = nature.String

	for _, pair := range []struct {
		dst **decimal.Decimal
		src sql.NullString
	}{
		{&record.TotalContractAmount, totalContractAmount},
		{&record.InitialAmount, initialAmount},
		{&record.CurrentYearCashCredit, currentYearCashCredit},
		{&record.CurrentYearNonCashCredit, currentYearNonCashCredit},
		{&record.CurrentYearTotalCredit, currentYearTotalCredit},
		{&record.TotalCreditFromStart, totalCreditFromStart},
		{&record.TotalInvoicesAmount, totalInvoicesAmount},
		{&record.TotalWorkProgress, totalWorkProgress},
		{&record.CurrentYearInvoicesAmount, currentYearInvoicesAmount},
		{&record.AdjustmentAmount, adjustmentAmount},
		{&record.MaxRequiredCredit, maxRequiredCredit},
		{&record.CreditDeficit, creditDeficit},
	} {
		d, err := decimalFromNull(pair.src)
		if err != nil {
			return nil, err
		}
		*pair.dst = d
	}

	return &record, nil
}

// recordArgs returns the exec arguments matching recordColumns order.
func recordArgs(record *model.BudgetRecord) []any {
	return []any{
		record.SubProjectCode,
		nullString(record.ContractTitle),
		nullString(record.ContractNumber),
		nullString(record.ContractDate),
		nullString(record.Contractor),
		nullString(record.Agent),
		nullString(record.ContractStatus),
		nullString(record.ExecutiveDept),
		nullString(record.StartDate),
		nullString(record.EndDate),
		nullString(record.ExtendedEndDate),
		nullString(record.WorkReferralMethod),
		nullString(record.CreditNumber),
		nullString(record.Nature),
		decimalToNull(record.TotalContractAmount),
		decimalToNull(record.InitialAmount),
		decimalToNull(record.CurrentYearCashCredit),
		decimalToNull(record.CurrentYearNonCashCredit),
		decimalToNull(record.CurrentYearTotalCredit),
		decimalToNull(record.TotalCreditFromStart),
		decimalToNull(record.TotalInvoicesAmount),
		decimalToNull(record.TotalWorkProgress),
		decimalToNull(record.CurrentYearInvoicesAmount),
		decimalToNull(record.AdjustmentAmount),
		decimalToNull(record.MaxRequiredCredit),
		decimalToNull(record.CreditDeficit),
	}
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func decimalToNull(d *decimal.Decimal) any {
	if d == nil {
		return nil
	}
	return d.String()
}

func decimalFromNull(ns sql.NullString) (*decimal.Decimal, error) {
	if !ns.Valid || strings.TrimSpace(ns.String) == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(ns.String)
	if err != nil {
		return nil, fmt.Errorf("corrupt decimal value %q: %w", ns.String, err)
	}
	return &d, nil
}
