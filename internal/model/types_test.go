package model

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestPriceToNano(t *testing.T) {
	tests := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{"7167.25", 7167250000000, false},
		{"7167.250000000", 7167250000000, false},
		{"0.000000001", 1, false},
		{"0.0000000019", 1, false}, // truncated
		{"-1.5", -1500000000, false},
		{"0", 0, false},
		{"9223372036.854775807", 9223372036854775807, false},
		{"-9223372036.854775808", -9223372036854775808, false},
		{"9223372036.854775808", 0, true},
		{"10000000000", 0, true},
		{"-10000000000", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			d, err := decimal.NewFromString(tt.in)
			if err != nil {
				t.Fatalf("NewFromString(%q) error = %v", tt.in, err)
			}
			got, err := PriceToNano(d)
			if tt.wantErr {
				if !errors.Is(err, ErrPriceRange) {
					t.Errorf("PriceToNano(%s) error = %v, want ErrPriceRange", tt.in, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("PriceToNano(%s) error = %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("PriceToNano(%s) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}
