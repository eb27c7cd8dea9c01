package main

import (
	"strings"
	"testing"
	"time"

	"budgetly/internal/services"
)

func floatPtr(v float64) *float64 { return &v }

func TestBudgetsMarkdown(t *testing.T) {
	md := budgetsMarkdown([]services.AccountBudget{
		{ID: "a", Name: "Groceries", Budget: floatPtr(500), RemainingBudget: floatPtr(410)},
		{ID: "b", Name: "Cash | Wallet", RemainingBudget: floatPtr(-12.5)},
	}, "USD")

	for _, want := range []string{
		"| Groceries | $500.00 | $410.00 |",
		`| Cash \| Wallet | - | -$12.50 |`,
	} {
		if !strings.Contains(md, want) {
			t.Errorf("expected %q in:\n%s", want, md)
		}
	}
}

func TestBudgetsMarkdown_Empty(t *testing.T) {
	md := budgetsMarkdown(nil, "USD")
	if !strings.Contains(md, "No accounts.") {
		t.Errorf("expected empty notice, got:\n%s", md)
	}
	if strings.Contains(md, "| Account |") {
		t.Error("expected no table for an empty listing")
	}
}

func TestParseAsOf(t *testing.T) {
	now := time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC)

	got, err := parseAsOf("", now)
	if err != nil || !got.Equal(now) {
		t.Errorf("expected now, got %v (%v)", got, err)
	}

	got, err = parseAsOf("2026-10-01", now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := time.Date(2026, 10, 1, 23, 59, 59, 999999999, time.UTC); !got.Equal(want) {
		t.Errorf("expected end of day %v, got %v", want, got)
	}

	got, err = parseAsOf("2026-10-01T10:00:00+02:00", now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := time.Date(2026, 10, 1, 8, 0, 0, 0, time.UTC); !got.Equal(want) {
		t.Errorf("expected %v, got %v", want, got)
	}

	if _, err := parseAsOf("yesterday", now); err == nil {
		t.Error("expected an error for an unparseable date")
	}
}
