package handler

import "testing"

func TestValidateWindow(t *testing.T) {
	cases := []struct {
		name    string
		start   string
		end     string
		wantErr bool
	}{
		{"normal window", "08:00", "14:00", false},
		{"overnight window", "22:00", "06:00", false},
		{"empty window", "09:00", "09:00", true},
		{"malformed start", "8am", "14:00", true},
		{"malformed end", "08:00", "25:00", true},
		{"blank", "", "", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := validateWindow(tc.start, tc.end)
			if (err != nil) != tc.wantErr {
				t.Errorf("validateWindow(%q, %q) error = %v, wantErr %v", tc.start, tc.end, err, tc.wantErr)
			}
		})
	}
}

func TestValidateSeatRange(t *testing.T) {
	seat := func(n uint32) *uint32 { return &n }

	if err := validateSeatRange(nil, 50); err != nil {
		t.Errorf("nil seat should always pass, got %v", err)
	}
	if err := validateSeatRange(seat(1), 50); err != nil {
		t.Errorf("seat 1 of 50 should pass, got %v", err)
	}
	if err := validateSeatRange(seat(50), 50); err != nil {
		t.Errorf("seat 50 of 50 should pass, got %v", err)
	}
	if err := validateSeatRange(seat(51), 50); err == nil {
		t.Error("seat 51 of 50 should fail")
	}
	if err := validateSeatRange(seat(0), 50); err == nil {
		t.Error("seat 0 should fail")
	}
}
