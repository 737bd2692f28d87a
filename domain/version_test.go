package domain

import "testing"

func TestParseVersionRoundTrip(t *testing.T) {
	cases := []string{"0.0.0", "1.2.3", "10.20.30"}
	for _, s := range cases {
		v, err := ParseVersion(s)
		if err != nil {
			t.Fatalf("ParseVersion(%q) returned error: %v", s, err)
		}
		if got := v.String(); got != s {
			t.Errorf("ParseVersion(%q).String() = %q, want %q", s, got, s)
		}
	}
}

func TestParseVersionRejectsMalformed(t *testing.T) {
	cases := []string{"1.2", "1.2.3.4", "a.b.c", "1.-2.3", "", "1..3"}
	for _, s := range cases {
		if _, err := ParseVersion(s); err == nil {
			t.Errorf("ParseVersion(%q) expected an error, got nil", s)
		}
	}
}

func TestVersionCompareTotalOrder(t *testing.T) {
	a := Version{1, 2, 3}
	b := Version{1, 2, 4}
	c := Version{1, 3, 0}
	d := Version{2, 0, 0}

	if !a.LessThan(b) || !b.LessThan(c) || !c.LessThan(d) {
		t.Fatal("expected a < b < c < d")
	}
	if a.Compare(a) != 0 {
		t.Fatal("expected a.Compare(a) == 0")
	}
	if !d.GreaterThan(a) {
		t.Fatal("expected d > a")
	}
}

func TestVersionMonotonicitySequence(t *testing.T) {
	versions := []string{"1.2.0", "1.3.0", "1.2.5"}
	var latest Version
	for _, s := range versions {
		v, err := ParseVersion(s)
		if err != nil {
			t.Fatal(err)
		}
		if v.GreaterThan(latest) {
			latest = v
		}
	}
	if latest.String() != "1.3.0" {
		t.Fatalf("expected latest 1.3.0, got %s", latest.String())
	}
}
