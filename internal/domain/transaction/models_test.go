package transaction

import (
	"testing"
	"time"
)

func validCreateParams() CreateTransactionParams {
	return CreateTransactionParams{
		ID:          "tx-1",
		UserID:      1,
		Date:        time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC),
		Amount:      50,
		Description: "Lunch",
		Category:    "Food",
		Kind:        KindExpense,
	}
}

func TestCreateParamsValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*CreateTransactionParams)
		wantErr bool
	}{
		{
			name:   "Valid",
			mutate: func(p *CreateTransactionParams) {},
		},
		{
			name:   "Zero Amount Accepted",
			mutate: func(p *CreateTransactionParams) { p.Amount = 0 },
		},
		{
			name:    "Negative Amount",
			mutate:  func(p *CreateTransactionParams) { p.Amount = -0.01 },
			wantErr: true,
		},
		{
			name:    "Missing Date",
			mutate:  func(p *CreateTransactionParams) { p.Date = time.Time{} },
			wantErr: true,
		},
		{
			name:    "Missing Description",
			mutate:  func(p *CreateTransactionParams) { p.Description = "" },
			wantErr: true,
		},
		{
			name:    "Missing Category",
			mutate:  func(p *CreateTransactionParams) { p.Category = "" },
			wantErr: true,
		},
		{
			name:    "Unknown Kind",
			mutate:  func(p *CreateTransactionParams) { p.Kind = "transfer" },
			wantErr: true,
		},
		{
			name:    "Empty Kind",
			mutate:  func(p *CreateTransactionParams) { p.Kind = "" },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := validCreateParams()
			tt.mutate(&params)

			err := params.Validate()
			if tt.wantErr && err == nil {
				t.Error("Validate() expected error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("Validate() unexpected error: %v", err)
			}
			if tt.wantErr {
				if _, ok := err.(*ValidationError); !ok {
					t.Errorf("Validate() returned %T, want *ValidationError", err)
				}
			}
		})
	}
}

func TestUpdateParamsValidate(t *testing.T) {
	strPtr := func(s string) *string { return &s }
	floatPtr := func(f float64) *float64 { return &f }

	tests := []struct {
		name    string
		params  UpdateTransactionParams
		wantErr bool
	}{
		{
			name:   "Empty Update",
			params: UpdateTransactionParams{},
		},
		{
			name:   "Valid Partial",
			params: UpdateTransactionParams{Amount: floatPtr(10), Kind: strPtr(KindIncome)},
		},
		{
			name:    "Negative Amount",
			params:  UpdateTransactionParams{Amount: floatPtr(-5)},
			wantErr: true,
		},
		{
			name:    "Blank Description",
			params:  UpdateTransactionParams{Description: strPtr("")},
			wantErr: true,
		},
		{
			name:    "Blank Category",
			params:  UpdateTransactionParams{Category: strPtr("")},
			wantErr: true,
		},
		{
			name:    "Unknown Kind",
			params:  UpdateTransactionParams{Kind: strPtr("INCOME")},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.params.Validate()
			if tt.wantErr && err == nil {
				t.Error("Validate() expected error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("Validate() unexpected error: %v", err)
			}
		})
	}
}
