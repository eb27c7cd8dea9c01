package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/subcommands"

	"budgetly/internal/services"
)

type rolloverCmd struct {
	owner string
	asOf  string
}

func (*rolloverCmd) Name() string     { return "rollover" }
func (*rolloverCmd) Synopsis() string { return "materialize due scheduled transactions" }
func (*rolloverCmd) Usage() string {
	return `budgetctl rollover [-owner <id>] [-as-of <date>]

  Materializes every scheduled transaction that is due, for one owner or for
  all of them. Each due schedule advances by one step per run.
`
}

func (c *rolloverCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.owner, "owner", "", "Only materialize this owner's schedules (defaults to every owner)")
	f.StringVar(&c.asOf, "as-of", "", "Treat schedules due at this date (YYYY-MM-DD or RFC3339) as due (defaults to now)")
}

func (c *rolloverCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	asOf, err := parseAsOf(c.asOf, time.Now())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	a, err := openApp()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer a.Close()

	var result *services.RolloverResult
	if c.owner != "" {
		result, err = a.scheduled.RolloverDue(ctx, c.owner, asOf)
	} else {
		result, err = a.scheduled.RolloverAllDue(ctx, asOf)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	auditUser, action := "pipeline", services.AuditActionRolloverAll
	if c.owner != "" {
		auditUser, action = c.owner, services.AuditActionRollover
	}
	a.audit.Log(auditUser, action, "scheduled_transaction", "", "",
		map[string]interface{}{"as_of": asOf.UTC(), "processed": result.Processed, "failed": result.Failed, "skipped": result.Skipped})

	fmt.Printf("processed %d, failed %d, skipped %d\n", result.Processed, result.Failed, result.Skipped)
	if result.Failed > 0 {
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// parseAsOf accepts an empty value (now), a calendar date or an RFC3339 time.
func parseAsOf(raw string, now time.Time) (time.Time, error) {
	if raw == "" {
		return now, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid -as-of %q: expected YYYY-MM-DD or RFC3339", raw)
	}
	// A bare date covers the whole day.
	return t.Add(24*time.Hour - time.Nanosecond), nil
}
