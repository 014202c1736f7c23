// Package importer implements the spreadsheet import pipeline: batch
// validation, derived-field calculation and reconciliation against the
// persisted ledger.
package importer

import (
	"fmt"
	"sort"
	"strings"

	"github.com/toranj-io/daftar/internal/model"
)

// Validate applies the batch-level rules to a parsed batch and partitions
// it into valid records and diagnostics. Rules accumulate rather than
// short-circuit so one pass reports everything wrong with the file. A
// record is either fully valid or fully excluded.
//
// Duplicated codes reject the whole group, not just the later occurrences:
// the source file is wrong and the caller has to fix it, rather than the
// importer silently picking a winner.
func Validate(records []model.BudgetRecord) model.ValidationResult {
	var result model.ValidationResult

	if len(records) == 0 {
		result.Errors = append(result.Errors, "no records found in file")
		return result
	}

	// Rule 1: records without a sub-project code, reported as one count.
	missing := 0
	for i := range records {
		if strings.TrimSpace(records[i].SubProjectCode) == "" {
			missing++
		}
	}
	if missing > 0 {
		result.Errors = append(result.Errors,
			fmt.Sprintf("%d record(s) have no SubProjectCode", missing))
	}

	// Rule 2: duplicated codes within the batch.
	counts := make(map[string]int)
	var order []string
	for i := range records {
		code := records[i].SubProjectCode
		if strings.TrimSpace(code) == "" {
			continue
		}
		if counts[code] == 0 {
			order = append(order, code)
		}
		counts[code]++
	}

	excluded := make(map[string]bool)
	var dups []string
	for _, code := range order {
		if counts[code] > 1 {
			dups = append(dups, fmt.Sprintf("%s x%d", code, counts[code]))
			excluded[code] = true
		}
	}
	if len(dups) > 0 {
		sort.Strings(dups)
		result.Errors = append(result.Errors,
			fmt.Sprintf("duplicate SubProjectCode in file: %s", strings.Join(dups, ", ")))
	}

	// Rule 3: negative monetary values, reported per record.
	for i := range records {
		r := &records[i]
		if r.HasNegativeAmount() {
			result.Errors = append(result.Errors,
				fmt.Sprintf("negative amounts are not allowed for SubProjectCode=%s", r.SubProjectCode))
			excluded[r.SubProjectCode] = true
		}
	}

	// Valid set: everything not excluded above, in original order.
	for i := range records {
		r := records[i]
		if strings.TrimSpace(r.SubProjectCode) == "" {
			continue
		}
		if excluded[r.SubProjectCode] {
			continue
		}
		result.ValidRecords = append(result.ValidRecords, r)
	}

	return result
}
