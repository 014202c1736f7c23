package importer

import (
	"context"
	"io"

	"github.com/toranj-io/daftar/internal/excel"
	"github.com/toranj-io/daftar/internal/model"
	"github.com/toranj-io/daftar/internal/service"
)

// Importer is the import operation surface: preview (no commit) and
// import (committed) over spreadsheets or pre-parsed record lists.
type Importer struct {
	reader     *excel.Reader
	reconciler *Reconciler
}

// New creates an importer over the given store.
func New(store service.Storage) *Importer {
	return &Importer{
		reader:     excel.NewReader(),
		reconciler: NewReconciler(store),
	}
}

// Preview runs parse, validate and calculate without touching the store.
// The result carries the same error list an Import would, with zero
// insert/update counts, so diagnostics can be shown before committing.
func (im *Importer) Preview(ctx context.Context, src io.Reader) (*model.ImportResult, error) {
	parsed, err := im.reader.ReadRecords(ctx, src)
	if err != nil {
		return nil, err
	}
	result := prepare(parsed)
	return result, nil
}

// Import parses the spreadsheet and commits the valid records to the
// ledger. A commit failure leaves the ledger unchanged and surfaces as an
// error; counts are only reported after a successful commit.
func (im *Importer) Import(ctx context.Context, src io.Reader) (*model.ImportResult, error) {
	parsed, err := im.reader.ReadRecords(ctx, src)
	if err != nil {
		return nil, err
	}
	return im.ImportRecords(ctx, parsed)
}

// ImportRecords validates, calculates and commits pre-parsed records,
// e.g. rows produced by an earlier calculation step instead of a file.
func (im *Importer) ImportRecords(ctx context.Context, records []model.BudgetRecord) (*model.ImportResult, error) {
	result := prepare(records)

	if len(result.ValidRecords) > 0 {
		inserted, updated, err := im.reconciler.Apply(ctx, result.ValidRecords)
		if err != nil {
			return nil, err
		}
		result.InsertedCount = inserted
		result.UpdatedCount = updated
	}

	return result, nil
}

// prepare runs the shared validate+calculate half of the pipeline.
func prepare(parsed []model.BudgetRecord) *model.ImportResult {
	validation := Validate(parsed)
	Calculate(validation.ValidRecords)

	return &model.ImportResult{
		TotalParsed:  len(parsed),
		TotalValid:   len(validation.ValidRecords),
		Errors:       validation.Errors,
		ValidRecords: validation.ValidRecords,
	}
}
