// Package service defines the interfaces between the import/report pipeline
// and its collaborators.
package service

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/toranj-io/daftar/internal/model"
)

// TextFilter is a substring predicate on one text column.
type TextFilter struct {
	Field string
	Value string
}

// AmountFilter bounds one monetary column. Nil bounds are not applied.
type AmountFilter struct {
	Field string
	Min   *decimal.Decimal
	Max   *decimal.Decimal
}

// RecordQuery is the store-translatable half of a report filter: substring
// and range predicates that the storage layer can push into SQL. The
// calendar-dependent contract-date range is deliberately absent; it is
// applied in memory by the report service.
type RecordQuery struct {
	Text    []TextFilter
	Amounts []AmountFilter
}

// IsEmpty reports whether the query has no predicates at all.
func (q RecordQuery) IsEmpty() bool {
	return len(q.Text) == 0 && len(q.Amounts) == 0
}

// Storage defines the contract for the ledger persistence layer.
type Storage interface {
	// Record operations.
	SaveRecord(ctx context.Context, record *model.BudgetRecord) error
	SaveRecords(ctx context.Context, records []model.BudgetRecord) error
	GetAllRecords(ctx context.Context) ([]model.BudgetRecord, error)
	GetRecordByCode(ctx context.Context, code string) (*model.BudgetRecord, error)
	GetRecordsByCodes(ctx context.Context, codes []string) (map[string]*model.BudgetRecord, error)
	UpdateRecord(ctx context.Context, record *model.BudgetRecord) error
	UpdateRecords(ctx context.Context, records []model.BudgetRecord) error
	DeleteRecordByCode(ctx context.Context, code string) error
	QueryRecords(ctx context.Context, query RecordQuery) ([]model.BudgetRecord, error)

	// Distinct-value helpers feeding filter choices.
	GetExecutiveDepts(ctx context.Context) ([]string, error)
	GetContractStatuses(ctx context.Context) ([]string, error)
	GetWorkReferralMethods(ctx context.Context) ([]string, error)
	GetNatures(ctx context.Context) ([]string, error)
	SaveNature(ctx context.Context, nature *model.Nature) error

	// Database management.
	Migrate(ctx context.Context) error
	BeginTx(ctx context.Context) (Transaction, error)
	Close() error
}

// Transaction is the commit unit for one reconciliation pass. All writes
// issued through it become visible together on Commit or not at all.
type Transaction interface {
	Commit() error
	Rollback() error

	GetRecordsByCodes(ctx context.Context, codes []string) (map[string]*model.BudgetRecord, error)
	AddRecords(ctx context.Context, records []model.BudgetRecord) error
	UpdateRecords(ctx context.Context, records []model.BudgetRecord) error
}
