package validator

import (
	"testing"

	"github.com/gin-gonic/gin/binding"
)

type sample struct {
	Currency string `binding:"omitempty,iso4217"`
	Type     string `binding:"omitempty,transaction_type"`
	Role     string `binding:"omitempty,chat_role"`
	Name     string `binding:"omitempty,not_blank"`
}

func init() {
	Register()
}

func TestValidators(t *testing.T) {
	tests := []struct {
		name    string
		in      sample
		wantErr bool
	}{
		{name: "empty", in: sample{}},
		{name: "valid", in: sample{Currency: "USD", Type: "scheduled", Role: "assistant", Name: "Rent"}},
		{name: "lowercase_currency", in: sample{Currency: "usd"}, wantErr: true},
		{name: "unknown_currency", in: sample{Currency: "ZZZ"}, wantErr: true},
		{name: "bad_type", in: sample{Type: "income"}, wantErr: true},
		{name: "bad_role", in: sample{Role: "system"}, wantErr: true},
		{name: "blank_name", in: sample{Name: "   "}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := binding.Validator.ValidateStruct(tt.in)
			if tt.wantErr && err == nil {
				t.Error("expected validation error")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}
