package compliance

import "testing"

func TestTeachingSite_NextCycles(t *testing.T) {
	s := TeachingSiteNone
	want := []TeachingSite{TeachingSiteCFA, TeachingSiteEnterprise, TeachingSiteMixed, TeachingSiteNone}
	for i, w := range want {
		s = s.Next()
		if s != w {
			t.Fatalf("step %d: got %s want %s", i, s, w)
		}
	}
	if got := TeachingSite("").Next(); got != TeachingSiteCFA {
		t.Fatalf("empty site should behave as NONE, got %s", got)
	}
}

func TestParseTeachingSite(t *testing.T) {
	if s, err := ParseTeachingSite(" enterprise "); err != nil || s != TeachingSiteEnterprise {
		t.Fatalf("unexpected parse: %s %v", s, err)
	}
	if _, err := ParseTeachingSite("garage"); err == nil {
		t.Fatalf("expected error for unknown site")
	}
}

func TestVersionRoundTrip(t *testing.T) {
	if FormatVersion(4) != "v4" {
		t.Fatalf("unexpected format %q", FormatVersion(4))
	}
	n, err := ParseVersion("v3")
	if err != nil || n != 3 {
		t.Fatalf("unexpected parse: %d %v", n, err)
	}
	for _, bad := range []string{"", "v0", "vx", "-1"} {
		if _, err := ParseVersion(bad); err == nil {
			t.Fatalf("expected error for %q", bad)
		}
	}
}
