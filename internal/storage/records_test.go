package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/toranj-io/daftar/internal/common"
	"github.com/toranj-io/daftar/internal/model"
	"github.com/toranj-io/daftar/internal/service"
)

func TestSaveAndGetRecord_RoundTrip(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	amount := decimal.RequireFromString("1234567.89")
	record := model.BudgetRecord{
		SubProjectCode:      "SP-1",
		ContractTitle:       "Road works",
		ContractNumber:      "C-100",
		ContractDate:        "2024-08-28",
		Contractor:          "Acme",
		TotalContractAmount: model.Dec(amount),
		// InitialAmount deliberately absent: nil must survive storage.
	}

	if err := store.SaveRecord(ctx, &record); err != nil {
		t.Fatalf("SaveRecord: %v", err)
	}

	got, err := store.GetRecordByCode(ctx, "SP-1")
	if err != nil {
		t.Fatalf("GetRecordByCode: %v", err)
	}

	if got.ContractTitle != "Road works" || got.ContractDate != "2024-08-28" {
		t.Errorf("text fields drifted: %+v", got)
	}
	if got.TotalContractAmount == nil || !got.TotalContractAmount.Equal(amount) {
		t.Errorf("TotalContractAmount = %v, want %s", got.TotalContractAmount, amount)
	}
	if got.InitialAmount != nil {
		t.Errorf("InitialAmount = %v, want nil (absent is not zero)", got.InitialAmount)
	}
}

func TestSaveRecord_ZeroIsNotAbsent(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	record := model.BudgetRecord{
		SubProjectCode: "SP-1",
		InitialAmount:  model.Dec(decimal.Zero),
	}
	if err := store.SaveRecord(ctx, &record); err != nil {
		t.Fatalf("SaveRecord: %v", err)
	}

	got, err := store.GetRecordByCode(ctx, "SP-1")
	if err != nil {
		t.Fatalf("GetRecordByCode: %v", err)
	}
	if got.InitialAmount == nil || !got.InitialAmount.IsZero() {
		t.Errorf("InitialAmount = %v, want explicit zero", got.InitialAmount)
	}
}

func TestSaveRecords_DuplicateCode(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	records := createTestRecords(1)
	if err := store.SaveRecords(ctx, records); err != nil {
		t.Fatalf("first save: %v", err)
	}

	err := store.SaveRecords(ctx, records)
	if !errors.Is(err, common.ErrDuplicateEntry) {
		t.Errorf("expected ErrDuplicateEntry, got %v", err)
	}
}

func TestGetRecordByCode_NotFound(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()

	_, err := store.GetRecordByCode(context.Background(), "missing")
	if !errors.Is(err, common.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestGetRecordsByCodes(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	if err := store.SaveRecords(ctx, createTestRecords(5)); err != nil {
		t.Fatalf("SaveRecords: %v", err)
	}

	got, err := store.GetRecordsByCodes(ctx, []string{"SP-001", "SP-003", "SP-999"})
	if err != nil {
		t.Fatalf("GetRecordsByCodes: %v", err)
	}

	if len(got) != 2 {
		t.Fatalf("expected 2 records, got %d", len(got))
	}
	if got["SP-001"] == nil || got["SP-003"] == nil {
		t.Errorf("expected SP-001 and SP-003 in result: %v", got)
	}
	if _, ok := got["SP-999"]; ok {
		t.Error("absent code must not appear in result map")
	}
}

func TestGetRecordsByCodes_Empty(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()

	got, err := store.GetRecordsByCodes(context.Background(), nil)
	if err != nil {
		t.Fatalf("GetRecordsByCodes: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected empty map, got %v", got)
	}
}

func TestUpdateRecords(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	records := createTestRecords(2)
	if err := store.SaveRecords(ctx, records); err != nil {
		t.Fatalf("SaveRecords: %v", err)
	}

	records[0].ContractTitle = "Renamed"
	records[0].TotalContractAmount = nil // incoming absent clears the stored amount
	if err := store.UpdateRecords(ctx, records[:1]); err != nil {
		t.Fatalf("UpdateRecords: %v", err)
	}

	got, err := store.GetRecordByCode(ctx, records[0].SubProjectCode)
	if err != nil {
		t.Fatalf("GetRecordByCode: %v", err)
	}
	if got.ContractTitle != "Renamed" {
		t.Errorf("ContractTitle = %q, want Renamed", got.ContractTitle)
	}
	if got.TotalContractAmount != nil {
		t.Errorf("TotalContractAmount = %v, want nil", got.TotalContractAmount)
	}
}

func TestUpdateRecord_NotFound(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()

	record := model.BudgetRecord{SubProjectCode: "missing"}
	err := store.UpdateRecord(context.Background(), &record)
	if !errors.Is(err, common.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteRecordByCode(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	if err := store.SaveRecords(ctx, createTestRecords(1)); err != nil {
		t.Fatalf("SaveRecords: %v", err)
	}
	if err := store.DeleteRecordByCode(ctx, "SP-001"); err != nil {
		t.Fatalf("DeleteRecordByCode: %v", err)
	}

	if _, err := store.GetRecordByCode(ctx, "SP-001"); !errors.Is(err, common.ErrNotFound) {
		t.Errorf("record still present after delete: %v", err)
	}

	if err := store.DeleteRecordByCode(ctx, "SP-001"); !errors.Is(err, common.ErrNotFound) {
		t.Errorf("second delete should report not found, got %v", err)
	}
}

func TestQueryRecords_TextAndAmountFilters(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	records := []model.BudgetRecord{
		{
			SubProjectCode:      "SP-A",
			ContractTitle:       "Road maintenance north",
			TotalContractAmount: model.Dec(decimal.NewFromInt(1000)),
		},
		{
			SubProjectCode:      "SP-B",
			ContractTitle:       "Bridge repair",
			TotalContractAmount: model.Dec(decimal.NewFromInt(5000)),
		},
		{
			SubProjectCode: "SP-C",
			ContractTitle:  "Road resurfacing south",
			// no amount: must never match a bounded amount filter
		},
	}
	if err := store.SaveRecords(ctx, records); err != nil {
		t.Fatalf("SaveRecords: %v", err)
	}

	tests := []struct {
		name      string
		query     service.RecordQuery
		wantCodes []string
	}{
		{
			name:      "no predicates returns everything",
			query:     service.RecordQuery{},
			wantCodes: []string{"SP-A", "SP-B", "SP-C"},
		},
		{
			name: "substring on title",
			query: service.RecordQuery{
				Text: []service.TextFilter{{Field: "ContractTitle", Value: "Road"}},
			},
			wantCodes: []string{"SP-A", "SP-C"},
		},
		{
			name: "amount minimum",
			query: service.RecordQuery{
				Amounts: []service.AmountFilter{{
					Field: "TotalContractAmount",
					Min:   model.Dec(decimal.NewFromInt(2000)),
				}},
			},
			wantCodes: []string{"SP-B"},
		},
		{
			name: "amount range excludes null amounts",
			query: service.RecordQuery{
				Amounts: []service.AmountFilter{{
					Field: "TotalContractAmount",
					Min:   model.Dec(decimal.NewFromInt(0)),
					Max:   model.Dec(decimal.NewFromInt(10000)),
				}},
			},
			wantCodes: []string{"SP-A", "SP-B"},
		},
		{
			name: "combined text and amount",
			query: service.RecordQuery{
				Text: []service.TextFilter{{Field: "ContractTitle", Value: "Road"}},
				Amounts: []service.AmountFilter{{
					Field: "TotalContractAmount",
					Max:   model.Dec(decimal.NewFromInt(2000)),
				}},
			},
			wantCodes: []string{"SP-A"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := store.QueryRecords(ctx, tt.query)
			if err != nil {
				t.Fatalf("QueryRecords: %v", err)
			}
			var codes []string
			for _, r := range got {
				codes = append(codes, r.SubProjectCode)
			}
			if len(codes) != len(tt.wantCodes) {
				t.Fatalf("got codes %v, want %v", codes, tt.wantCodes)
			}
			for i := range codes {
				if codes[i] != tt.wantCodes[i] {
					t.Fatalf("got codes %v, want %v", codes, tt.wantCodes)
				}
			}
		})
	}
}

func TestQueryRecords_UnknownField(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()

	_, err := store.QueryRecords(context.Background(), service.RecordQuery{
		Text: []service.TextFilter{{Field: "DropTable", Value: "x"}},
	})
	if err == nil {
		t.Error("expected error for unknown filter field")
	}
}

func TestNaturesAndDistinctValues(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	for _, name := range []string{"عمرانی", "جاری"} {
		if err := store.SaveNature(ctx, &model.Nature{Name: name}); err != nil {
			t.Fatalf("SaveNature(%q): %v", name, err)
		}
	}
	if err := store.SaveNature(ctx, &model.Nature{Name: "جاری"}); !errors.Is(err, common.ErrDuplicateEntry) {
		t.Errorf("duplicate nature: expected ErrDuplicateEntry, got %v", err)
	}

	natures, err := store.GetNatures(ctx)
	if err != nil {
		t.Fatalf("GetNatures: %v", err)
	}
	if len(natures) != 2 {
		t.Errorf("expected 2 natures, got %v", natures)
	}

	records := []model.BudgetRecord{
		{SubProjectCode: "SP-1", ExecutiveDept: "معاونت فنی", ContractStatus: "فعال"},
		{SubProjectCode: "SP-2", ExecutiveDept: "معاونت فنی", ContractStatus: "خاتمه یافته"},
		{SubProjectCode: "SP-3"},
	}
	if err := store.SaveRecords(ctx, records); err != nil {
		t.Fatalf("SaveRecords: %v", err)
	}

	depts, err := store.GetExecutiveDepts(ctx)
	if err != nil {
		t.Fatalf("GetExecutiveDepts: %v", err)
	}
	if len(depts) != 1 || depts[0] != "معاونت فنی" {
		t.Errorf("GetExecutiveDepts = %v", depts)
	}

	statuses, err := store.GetContractStatuses(ctx)
	if err != nil {
		t.Fatalf("GetContractStatuses: %v", err)
	}
	if len(statuses) != 2 {
		t.Errorf("GetContractStatuses = %v", statuses)
	}
}
