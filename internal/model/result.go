package model

// ValidationResult partitions an import batch into valid records and
// accumulated diagnostic messages. A record is either fully valid or fully
// excluded; there is no partial validity.
type ValidationResult struct {
	Errors       []string
	ValidRecords []BudgetRecord
}

// HasErrors reports whether any validation rule fired.
func (r *ValidationResult) HasErrors() bool {
	return len(r.Errors) > 0
}

// ImportResult summarizes one import or preview operation. It is transient
// and never persisted. Preview leaves InsertedCount and UpdatedCount at
// zero; after a committed import they equal the reconciliation queue sizes
// exactly.
type ImportResult struct {
	TotalParsed   int
	TotalValid    int
	InsertedCount int
	UpdatedCount  int
	Errors        []string
	ValidRecords  []BudgetRecord
}
