package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/google/subcommands"
	"github.com/shopspring/decimal"

	"budgetly/internal/money"
	"budgetly/internal/services"
)

type budgetsCmd struct {
	owner string
	style string
	raw   bool
}

func (*budgetsCmd) Name() string     { return "budgets" }
func (*budgetsCmd) Synopsis() string { return "display an owner's accounts with remaining budgets" }
func (*budgetsCmd) Usage() string {
	return `budgetctl budgets -owner <id> [-style <style>] [-raw]

  Displays the owner's accounts with their budget and remaining budget.
`
}

func (c *budgetsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.owner, "owner", "", "Owner id (required)")
	f.StringVar(&c.style, "style", "auto", "Rendering style (auto, dark, light, notty)")
	f.BoolVar(&c.raw, "raw", false, "Print the markdown without rendering it")
}

func (c *budgetsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.owner == "" {
		fmt.Fprintln(os.Stderr, "Error: -owner is required")
		return subcommands.ExitUsageError
	}

	a, err := openApp()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer a.Close()

	accounts, err := a.accounts.ListAccountsWithBudget(ctx, c.owner)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	md := budgetsMarkdown(accounts, a.cfg.DisplayCurrency)
	if c.raw {
		fmt.Print(md)
		return subcommands.ExitSuccess
	}

	out, err := glamour.Render(md, c.style)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Print(out)
	return subcommands.ExitSuccess
}

// budgetsMarkdown renders the accounts as a markdown table. Absent figures
// are shown as a dash.
func budgetsMarkdown(accounts []services.AccountBudget, currency string) string {
	var b strings.Builder
	b.WriteString("# Budgets\n\n")
	if len(accounts) == 0 {
		b.WriteString("No accounts.\n")
		return b.String()
	}

	b.WriteString("| Account | Budget | Remaining |\n")
	b.WriteString("|:---|---:|---:|\n")
	for _, a := range accounts {
		fmt.Fprintf(&b, "| %s | %s | %s |\n", escapeCell(a.Name), formatFigure(a.Budget, currency), formatFigure(a.RemainingBudget, currency))
	}
	return b.String()
}

func formatFigure(v *float64, currency string) string {
	if v == nil {
		return "-"
	}
	return money.Format(decimal.NewFromFloat(*v), currency)
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
