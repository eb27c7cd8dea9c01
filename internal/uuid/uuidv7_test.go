package uuid

import "testing"

func TestNew(t *testing.T) {
	a := New()
	b := New()

	if !IsValid(a) || !IsValid(b) {
		t.Fatalf("expected valid uuids, got %q and %q", a, b)
	}
	if a == b {
		t.Fatal("expected distinct ids")
	}
	if a[14] != '7' {
		t.Errorf("expected version 7, got %q", a)
	}
}

func TestParse(t *testing.T) {
	t.Run("canonicalizes", func(t *testing.T) {
		got, err := Parse("0190A1B2-C3D4-7E5F-8A9B-0C1D2E3F4A5B")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != "0190a1b2-c3d4-7e5f-8a9b-0c1d2e3f4a5b" {
			t.Errorf("unexpected canonical form %q", got)
		}
	})

	t.Run("rejects_garbage", func(t *testing.T) {
		if _, err := Parse("not-a-uuid"); err == nil {
			t.Fatal("expected error")
		}
		if IsValid("not-a-uuid") {
			t.Fatal("expected invalid")
		}
	})
}
