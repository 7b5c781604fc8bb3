package models

// Task is one ledger entry. ID is assigned by the ledger.
type Task struct {
	ID        uint64 `json:"id"`
	Content   string `json:"content"`
	Completed bool   `json:"completed"`
}

// Flags is a snapshot of the task service progress indicators.
type Flags struct {
	Loading    bool
	IsAdding   bool
	IsUpdating bool
}

// Busy reports whether any operation is in flight.
func (f Flags) Busy() bool {
	return f.Loading || f.IsAdding || f.IsUpdating
}
