package money

import "testing"

func TestValidateCents(t *testing.T) {
	tests := []struct {
		name    string
		cents   int64
		wantErr bool
	}{
		{"zero is fine", 0, false},
		{"positive is fine", 150, false},
		{"negative is rejected", -1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCents(tt.cents)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateCents(%d) error = %v, wantErr %v", tt.cents, err, tt.wantErr)
			}
		})
	}
}

func TestValidatePositiveCents(t *testing.T) {
	tests := []struct {
		name    string
		cents   int64
		wantErr bool
	}{
		{"zero is rejected", 0, true},
		{"negative is rejected", -5, true},
		{"positive is fine", 1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePositiveCents(tt.cents)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePositiveCents(%d) error = %v, wantErr %v", tt.cents, err, tt.wantErr)
			}
		})
	}
}

func TestFormatCents(t *testing.T) {
	tests := []struct {
		cents int64
		want  string
	}{
		{0, "0.00"},
		{5, "0.05"},
		{150, "1.50"},
		{100, "1.00"},
		{-150, "-1.50"},
		{99999, "999.99"},
	}

	for _, tt := range tests {
		got := FormatCents(tt.cents)
		if got != tt.want {
			t.Errorf("FormatCents(%d) = %q, want %q", tt.cents, got, tt.want)
		}
	}
}
