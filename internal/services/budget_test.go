package services

import (
	"database/sql"
	"testing"
)

func amounts(values ...string) []sql.NullString {
	out := make([]sql.NullString, len(values))
	for i, v := range values {
		out[i] = sql.NullString{String: v, Valid: true}
	}
	return out
}

func int64Ptr(v int64) *int64 { return &v }

func TestComputeRemainingBudget(t *testing.T) {
	tests := []struct {
		name        string
		budget      *int64
		amounts     []sql.NullString
		wantNet     string
		wantRemain  string
		wantInvalid int
	}{
		{
			name:       "budget_plus_signed_sum",
			budget:     int64Ptr(500),
			amounts:    amounts("-120000", "30000"),
			wantNet:    "-90",
			wantRemain: "410",
		},
		{
			name:       "nil_budget_counts_as_zero",
			budget:     nil,
			amounts:    amounts("-2500"),
			wantNet:    "-2.5",
			wantRemain: "-2.5",
		},
		{
			name:       "no_transactions",
			budget:     int64Ptr(0),
			wantNet:    "0",
			wantRemain: "0",
		},
		{
			name:        "invalid_entries_contribute_zero",
			budget:      int64Ptr(100),
			amounts:     append(amounts("-10000", "abc", "NaN"), sql.NullString{}),
			wantNet:     "-10",
			wantRemain:  "90",
			wantInvalid: 3,
		},
		{
			name:       "sub_unit_precision",
			budget:     int64Ptr(1),
			amounts:    amounts("1", "2", "-4"),
			wantNet:    "-0.001",
			wantRemain: "0.999",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeRemainingBudget(tt.budget, tt.amounts)
			if got.NetTransactions.String() != tt.wantNet {
				t.Errorf("net = %s, want %s", got.NetTransactions, tt.wantNet)
			}
			if got.Remaining.String() != tt.wantRemain {
				t.Errorf("remaining = %s, want %s", got.Remaining, tt.wantRemain)
			}
			if got.InvalidAmounts != tt.wantInvalid {
				t.Errorf("invalid = %d, want %d", got.InvalidAmounts, tt.wantInvalid)
			}
		})
	}
}

func TestComputeRemainingBudget_OrderIndependent(t *testing.T) {
	forward := ComputeRemainingBudget(int64Ptr(250), amounts("-1", "99999", "-45500", "123"))
	reverse := ComputeRemainingBudget(int64Ptr(250), amounts("123", "-45500", "99999", "-1"))
	if !forward.Remaining.Equal(reverse.Remaining) {
		t.Errorf("expected order independence, got %s and %s", forward.Remaining, reverse.Remaining)
	}
}

func TestComputeRemainingBudget_InvalidEqualsValidOnly(t *testing.T) {
	valid := ComputeRemainingBudget(int64Ptr(10), amounts("5000", "-3000"))
	mixed := ComputeRemainingBudget(int64Ptr(10), amounts("5000", "oops", "-3000"))
	if !valid.Remaining.Equal(mixed.Remaining) {
		t.Errorf("expected invalid entry to contribute 0, got %s vs %s", mixed.Remaining, valid.Remaining)
	}
	if mixed.InvalidAmounts != 1 {
		t.Errorf("expected 1 invalid amount, got %d", mixed.InvalidAmounts)
	}
}
