package model

// Nature is a lookup row describing the nature of a contract. The table is
// maintained administratively and feeds report filter choices; budget
// records reference natures by display string, not by ID.
type Nature struct {
	ID   int64
	Name string
}
