package importer

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/toranj-io/daftar/internal/model"
	"github.com/toranj-io/daftar/internal/service"
)

// Reconciler applies a validated batch to the ledger, deciding per record
// between creation and in-place update.
type Reconciler struct {
	store service.Storage
}

// NewReconciler creates a reconciler over the given store.
func NewReconciler(store service.Storage) *Reconciler {
	return &Reconciler{store: store}
}

// Apply partitions the batch into creates and updates against the current
// ledger state and commits both queues in a single transaction. On any
// failure the transaction is rolled back and the ledger is unchanged.
//
// The returned counts equal the two queue sizes exactly; no record in the
// batch is silently dropped. Records with a blank code are skipped here as
// defense in depth; validation excludes them earlier.
func (r *Reconciler) Apply(ctx context.Context, records []model.BudgetRecord) (inserted, updated int, err error) {
	if len(records) == 0 {
		return 0, 0, nil
	}

	codes := distinctCodes(records)

	tx, err := r.store.BeginTx(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to start import transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	existing, err := tx.GetRecordsByCodes(ctx, codes)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to look up existing records: %w", err)
	}

	var toCreate, toUpdate []model.BudgetRecord
	for i := range records {
		rec := records[i]
		if strings.TrimSpace(rec.SubProjectCode) == "" {
			continue
		}

		if current, ok := existing[rec.SubProjectCode]; ok {
			// Merge onto the stored row so the identity key and any
			// unrelated stored metadata survive.
			merged := *current
			merged.CopyFrom(&rec)
			toUpdate = append(toUpdate, merged)
		} else {
			toCreate = append(toCreate, rec)
		}
	}

	if len(toCreate) > 0 {
		if err = tx.AddRecords(ctx, toCreate); err != nil {
			return 0, 0, fmt.Errorf("failed to insert new records: %w", err)
		}
	}
	if len(toUpdate) > 0 {
		if err = tx.UpdateRecords(ctx, toUpdate); err != nil {
			return 0, 0, fmt.Errorf("failed to update existing records: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return 0, 0, fmt.Errorf("failed to commit import: %w", err)
	}

	slog.Info("Reconciled import batch",
		"inserted", len(toCreate),
		"updated", len(toUpdate))

	return len(toCreate), len(toUpdate), nil
}

func distinctCodes(records []model.BudgetRecord) []string {
	seen := make(map[string]bool, len(records))
	var codes []string
	for i := range records {
		code := records[i].SubProjectCode
		if strings.TrimSpace(code) == "" || seen[code] {
			continue
		}
		seen[code] = true
		codes = append(codes, code)
	}
	return codes
}
