package transaction

import (
	"fmt"
	"time"
)

// Kind values for a transaction. Stored as-is in the type column.
const (
	KindIncome  = "income"
	KindExpense = "expense"
)

type Transaction struct {
	ID          string    `json:"id"` // UUID string
	UserID      int64     `json:"userId"`
	Date        time.Time `json:"date"`
	Amount      float64   `json:"amount"` // positive magnitude; sign is carried by Kind
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Kind        string    `json:"type"` // "income" or "expense"
	Image       *string   `json:"image,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

type CreateTransactionParams struct {
	ID          string
	UserID      int64
	Date        time.Time
	Amount      float64
	Description string
	Category    string
	Kind        string
	Image       *string
}

type UpdateTransactionParams struct {
	Date        *time.Time
	Amount      *float64
	Description *string
	Category    *string
	Kind        *string
	Image       *string
}

// Filter holds the optional list criteria. Zero values mean "not set".
// The owner id is never part of the filter; repositories scope every
// query to the owner unconditionally.
type Filter struct {
	From     time.Time
	To       time.Time
	Category string
	Search   string
}

// Summary is the derived income/expense/balance aggregate over a user's
// full record set. Never persisted.
type Summary struct {
	Income   float64 `json:"income"`
	Expenses float64 `json:"expenses"`
	Balance  float64 `json:"balance"`
}

// ValidationError reports a rejected field value. Handlers map it to 400.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Validate checks the creation params against the record invariants:
// required date, non-empty description and category, a known kind and a
// non-negative amount. Zero amounts are allowed.
func (p CreateTransactionParams) Validate() error {
	if p.Date.IsZero() {
		return &ValidationError{Field: "date", Reason: "is required"}
	}
	if p.Description == "" {
		return &ValidationError{Field: "description", Reason: "is required"}
	}
	if p.Category == "" {
		return &ValidationError{Field: "category", Reason: "is required"}
	}
	if err := validateKind(p.Kind); err != nil {
		return err
	}
	return validateAmount(p.Amount)
}

// Validate checks only the fields an update actually touches. Fields left
// nil keep their stored values and are not re-checked here.
func (p UpdateTransactionParams) Validate() error {
	if p.Date != nil && p.Date.IsZero() {
		return &ValidationError{Field: "date", Reason: "must not be empty"}
	}
	if p.Description != nil && *p.Description == "" {
		return &ValidationError{Field: "description", Reason: "must not be empty"}
	}
	if p.Category != nil && *p.Category == "" {
		return &ValidationError{Field: "category", Reason: "must not be empty"}
	}
	if p.Kind != nil {
		if err := validateKind(*p.Kind); err != nil {
			return err
		}
	}
	if p.Amount != nil {
		return validateAmount(*p.Amount)
	}
	return nil
}

func validateKind(kind string) error {
	if kind != KindIncome && kind != KindExpense {
		return &ValidationError{Field: "type", Reason: `must be "income" or "expense"`}
	}
	return nil
}

func validateAmount(amount float64) error {
	if amount < 0 {
		return &ValidationError{Field: "amount", Reason: "must not be negative"}
	}
	return nil
}
