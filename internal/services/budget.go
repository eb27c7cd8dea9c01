package services

import (
	"database/sql"

	"github.com/shopspring/decimal"

	"budgetly/internal/money"
)

// BudgetAggregate is the remaining budget of one account at read time.
// All figures are in display units.
type BudgetAggregate struct {
	Budget          decimal.Decimal
	NetTransactions decimal.Decimal
	Remaining       decimal.Decimal
	// InvalidAmounts counts stored amounts that could not be parsed and
	// contributed nothing.
	InvalidAmounts int
}

// ComputeRemainingBudget adds the signed sum of an account's transaction
// amounts (miliunits) to its budget (display units). A nil budget counts as 0.
// NULL or unparseable amounts are skipped and counted.
func ComputeRemainingBudget(budget *int64, amounts []sql.NullString) BudgetAggregate {
	agg := BudgetAggregate{
		Budget:          decimal.Zero,
		NetTransactions: decimal.Zero,
	}
	if budget != nil {
		agg.Budget = money.FromUnits(*budget)
	}

	for _, raw := range amounts {
		if !raw.Valid {
			agg.InvalidAmounts++
			continue
		}
		amount, err := money.ParseStored(raw.String)
		if err != nil {
			agg.InvalidAmounts++
			continue
		}
		agg.NetTransactions = agg.NetTransactions.Add(amount)
	}

	agg.Remaining = agg.Budget.Add(agg.NetTransactions)
	return agg
}
