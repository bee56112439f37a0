package schedule

import "testing"

func TestOverlaps(t *testing.T) {
	cases := []struct {
		name                       string
		s1, e1, s2, e2             string
		want                       bool
	}{
		{"identical windows", "08:00", "14:00", "08:00", "14:00", true},
		{"strict overlap", "08:00", "14:00", "13:00", "18:00", true},
		{"containment", "08:00", "21:00", "09:00", "10:00", true},
		{"disjoint", "08:00", "10:00", "15:00", "18:00", false},
		{"adjacent windows do not overlap", "08:00", "14:00", "14:00", "21:00", false},
		{"adjacent reversed", "14:00", "21:00", "08:00", "14:00", false},
		{"one minute overlap", "08:00", "14:01", "14:00", "21:00", true},
		{"seconds form accepted", "08:00:00", "14:00:00", "13:00:00", "18:00:00", true},
		{"night shift vs morning", "22:00", "06:00", "08:00", "14:00", false},
		{"night shift vs early morning", "22:00", "06:00", "05:00", "09:00", true},
		{"night shift vs late evening", "22:00", "06:00", "20:00", "23:00", true},
		{"two night shifts", "22:00", "06:00", "23:00", "01:00", true},
		{"night shift ends before day shift", "22:00", "06:00", "06:00", "12:00", false},
		{"degenerate window never overlaps", "08:00", "08:00", "00:00", "23:59", false},
		{"malformed start is fail-safe", "8am", "14:00", "08:00", "14:00", false},
		{"malformed end is fail-safe", "08:00", "", "08:00", "14:00", false},
		{"out of range hour is fail-safe", "25:00", "26:00", "08:00", "14:00", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Overlaps(tc.s1, tc.e1, tc.s2, tc.e2); got != tc.want {
				t.Fatalf("Overlaps(%q,%q,%q,%q) = %v, want %v", tc.s1, tc.e1, tc.s2, tc.e2, got, tc.want)
			}
		})
	}
}

// TestOverlapsSymmetry checks that argument order never changes the verdict.
func TestOverlapsSymmetry(t *testing.T) {
	pairs := [][4]string{
		{"08:00", "14:00", "13:00", "18:00"},
		{"08:00", "14:00", "14:00", "21:00"},
		{"22:00", "06:00", "05:00", "09:00"},
		{"08:00", "10:00", "15:00", "18:00"},
		{"00:00", "23:59", "12:00", "12:30"},
	}
	for _, p := range pairs {
		ab := Overlaps(p[0], p[1], p[2], p[3])
		ba := Overlaps(p[2], p[3], p[0], p[1])
		if ab != ba {
			t.Fatalf("asymmetric verdict for %v: %v vs %v", p, ab, ba)
		}
	}
}

// TestOverlapsReflexivity checks that every valid non-degenerate window
// overlaps itself.
func TestOverlapsReflexivity(t *testing.T) {
	windows := [][2]string{
		{"08:00", "14:00"},
		{"00:00", "23:59"},
		{"22:00", "06:00"},
		{"12:30", "12:31"},
	}
	for _, w := range windows {
		if !Overlaps(w[0], w[1], w[0], w[1]) {
			t.Fatalf("window %v does not overlap itself", w)
		}
	}
}

func TestParseMinutes(t *testing.T) {
	if m, ok := parseMinutes("08:30"); !ok || m != 510 {
		t.Fatalf("parseMinutes(08:30) = %d, %v", m, ok)
	}
	if m, ok := parseMinutes("00:00"); !ok || m != 0 {
		t.Fatalf("parseMinutes(00:00) = %d, %v", m, ok)
	}
	if m, ok := parseMinutes("23:59:59"); !ok || m != 1439 {
		t.Fatalf("parseMinutes(23:59:59) = %d, %v", m, ok)
	}
	for _, bad := range []string{"", "24:00", "12", "ab:cd", "12:60"} {
		if _, ok := parseMinutes(bad); ok {
			t.Fatalf("parseMinutes(%q) unexpectedly ok", bad)
		}
	}
}
