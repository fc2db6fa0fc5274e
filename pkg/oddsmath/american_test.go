package oddsmath_test

import (
	"math"
	"testing"

	"github.com/tzsmit/nova-titan-widget-sub003/pkg/oddsmath"
)

func TestAmericanToDecimal(t *testing.T) {
	tests := []struct {
		name     string
		american int
		want     float64
	}{
		{"Even odds +100", 100, 2.0},
		{"Underdog +150", 150, 2.5},
		{"Underdog +200", 200, 3.0},
		{"Favorite -110", -110, 1.909090909},
		{"Favorite -150", -150, 1.666666667},
		{"Favorite -200", -200, 1.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := oddsmath.AmericanToDecimal(tt.american)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if math.Abs(got-tt.want) > 0.0001 {
				t.Errorf("AmericanToDecimal(%d) = %f, want %f", tt.american, got, tt.want)
			}
		})
	}
}

func TestAmericanToDecimalZero(t *testing.T) {
	if _, err := oddsmath.AmericanToDecimal(0); err == nil {
		t.Fatal("expected error for American odds of 0")
	}
}

func TestDecimalToAmerican(t *testing.T) {
	tests := []struct {
		name    string
		decimal float64
		want    int
	}{
		{"Even odds 2.0", 2.0, 100},
		{"Underdog 2.5", 2.5, 150},
		{"Favorite 1.909", 1.909, -110},
		{"Favorite 1.5", 1.5, -200},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := oddsmath.DecimalToAmerican(tt.decimal)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			// Allow ±1 for rounding
			if math.Abs(float64(got-tt.want)) > 2 {
				t.Errorf("DecimalToAmerican(%f) = %d, want %d", tt.decimal, got, tt.want)
			}
		})
	}
}

func TestAmericanToImpliedProbability(t *testing.T) {
	tests := []struct {
		name     string
		american int
		want     float64
	}{
		{"Even odds +100", 100, 0.50},
		{"Favorite -110", -110, 0.5238},
		{"Heavy favorite -200", -200, 0.6667},
		{"Underdog +300", 300, 0.25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := oddsmath.AmericanToImpliedProbability(tt.american)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if math.Abs(got-tt.want) > 0.0001 {
				t.Errorf("AmericanToImpliedProbability(%d) = %f, want %f", tt.american, got, tt.want)
			}
		})
	}
}

func TestCombineDecimal(t *testing.T) {
	tests := []struct {
		name     string
		decimals []float64
		want     float64
	}{
		{"Empty product", nil, 1.0},
		{"Single leg", []float64{2.5}, 2.5},
		{"Two legs -110 and +150", []float64{1.909090909, 2.5}, 4.772727},
		{"Three even legs", []float64{2.0, 2.0, 2.0}, 8.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := oddsmath.CombineDecimal(tt.decimals)
			if math.Abs(got-tt.want) > 0.0001 {
				t.Errorf("CombineDecimal(%v) = %f, want %f", tt.decimals, got, tt.want)
			}
		})
	}
}
