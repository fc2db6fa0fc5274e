package parlay

import (
	"errors"
	"math"
	"testing"
)

func almostEqual(a, b, tolerance float64) bool {
	return math.Abs(a-b) <= tolerance
}

func TestComputeTwoLegFixture(t *testing.T) {
	legs := []Leg{
		{ID: "1", Game: "BOS @ LAL", Selection: "LAL -3.5", AmericanOdds: -110},
		{ID: "2", Game: "BUF @ KC", Selection: "BUF ML", AmericanOdds: 150},
	}

	state, err := Compute(legs, 100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !almostEqual(state.TotalDecimalOdds, 4.7727, 0.0001) {
		t.Errorf("TotalDecimalOdds = %f, want 4.7727", state.TotalDecimalOdds)
	}
	if !almostEqual(state.PotentialPayout, 477.27, 0.01) {
		t.Errorf("PotentialPayout = %f, want 477.27", state.PotentialPayout)
	}
	if !almostEqual(state.ImpliedProbabilityPct, 20.95, 0.01) {
		t.Errorf("ImpliedProbabilityPct = %f, want 20.95", state.ImpliedProbabilityPct)
	}
	if !almostEqual(state.ExpectedValuePct, 377.27, 0.01) {
		t.Errorf("ExpectedValuePct = %f, want 377.27", state.ExpectedValuePct)
	}
}

func TestComputeZeroLegs(t *testing.T) {
	for _, stake := range []float64{0, 25, 100} {
		state, err := Compute(nil, stake)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if state.TotalDecimalOdds != 1.0 {
			t.Errorf("stake %f: TotalDecimalOdds = %f, want 1", stake, state.TotalDecimalOdds)
		}
		if state.PotentialPayout != stake {
			t.Errorf("stake %f: PotentialPayout = %f, want stake", stake, state.PotentialPayout)
		}
		if state.ImpliedProbabilityPct != 100.0 {
			t.Errorf("stake %f: ImpliedProbabilityPct = %f, want 100", stake, state.ImpliedProbabilityPct)
		}
	}
}

func TestComputeZeroStakeEV(t *testing.T) {
	state, err := Compute([]Leg{{Game: "g", Selection: "s", AmericanOdds: 150}}, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if state.ExpectedValuePct != 0 {
		t.Errorf("ExpectedValuePct = %f, want 0 for zero stake", state.ExpectedValuePct)
	}
}

func TestComputeInvalidInputs(t *testing.T) {
	tests := []struct {
		name    string
		legs    []Leg
		stake   float64
		wantErr error
	}{
		{"Zero American odds", []Leg{{Game: "g", Selection: "s", AmericanOdds: 0}}, 100, ErrInvalidOdds},
		{"Negative stake", nil, -5, ErrInvalidStake},
		{"NaN stake", nil, math.NaN(), ErrInvalidStake},
		{"Infinite stake", nil, math.Inf(1), ErrInvalidStake},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compute(tt.legs, tt.stake)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Compute error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestAddLegRejectsDuplicate(t *testing.T) {
	p, err := New(50)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	leg := Leg{
		ID:             "a",
		Game:           "BOS @ LAL",
		Selection:      "LAL ML",
		BetDescription: "Lakers moneyline",
		AmericanOdds:   -140,
	}
	if err := p.AddLeg(leg); err != nil {
		t.Fatalf("first AddLeg failed: %v", err)
	}

	// Same wager identity under a different leg ID and price.
	dup := leg
	dup.ID = "b"
	dup.AmericanOdds = -135

	if err := p.AddLeg(dup); !errors.Is(err, ErrDuplicateLeg) {
		t.Fatalf("second AddLeg error = %v, want ErrDuplicateLeg", err)
	}

	state := p.State()
	if len(state.Legs) != 1 {
		t.Errorf("leg count after duplicate rejection = %d, want 1", len(state.Legs))
	}
	if state.Legs[0].AmericanOdds != -140 {
		t.Error("existing leg must be unchanged after duplicate rejection")
	}
}

func TestAddLegDistinctSelectionsAllowed(t *testing.T) {
	p, _ := New(50)

	a := Leg{ID: "a", Game: "BOS @ LAL", Selection: "LAL ML", BetDescription: "Lakers moneyline", AmericanOdds: -140}
	b := Leg{ID: "b", Game: "BOS @ LAL", Selection: "Over 220.5", BetDescription: "Game total over", AmericanOdds: -110}

	if err := p.AddLeg(a); err != nil {
		t.Fatalf("AddLeg(a) failed: %v", err)
	}
	if err := p.AddLeg(b); err != nil {
		t.Fatalf("AddLeg(b) failed: %v", err)
	}
	if got := len(p.State().Legs); got != 2 {
		t.Errorf("leg count = %d, want 2", got)
	}
}

func TestAddLegRejectsInvalidOddsUnchanged(t *testing.T) {
	p, _ := New(50)
	if err := p.AddLeg(Leg{Game: "g", Selection: "s", AmericanOdds: 0}); !errors.Is(err, ErrInvalidOdds) {
		t.Fatalf("AddLeg error = %v, want ErrInvalidOdds", err)
	}
	if got := len(p.State().Legs); got != 0 {
		t.Errorf("leg count = %d, want 0 after rejected leg", got)
	}
}

func TestRemoveLeg(t *testing.T) {
	p, _ := New(100)
	p.AddLeg(Leg{ID: "a", Game: "g1", Selection: "s1", AmericanOdds: -110})
	p.AddLeg(Leg{ID: "b", Game: "g2", Selection: "s2", AmericanOdds: 150})

	if err := p.RemoveLeg("a"); err != nil {
		t.Fatalf("RemoveLeg failed: %v", err)
	}

	state := p.State()
	if len(state.Legs) != 1 || state.Legs[0].ID != "b" {
		t.Errorf("unexpected legs after removal: %+v", state.Legs)
	}
	if !almostEqual(state.TotalDecimalOdds, 2.5, 0.0001) {
		t.Errorf("TotalDecimalOdds = %f, want 2.5 after removal", state.TotalDecimalOdds)
	}
}

func TestSetStakeRecomputes(t *testing.T) {
	p, _ := New(100)
	p.AddLeg(Leg{ID: "a", Game: "g1", Selection: "s1", AmericanOdds: 100})

	if err := p.SetStake(250); err != nil {
		t.Fatalf("SetStake failed: %v", err)
	}

	state := p.State()
	if !almostEqual(state.PotentialPayout, 500, 0.0001) {
		t.Errorf("PotentialPayout = %f, want 500", state.PotentialPayout)
	}

	if err := p.SetStake(math.NaN()); !errors.Is(err, ErrInvalidStake) {
		t.Errorf("SetStake(NaN) error = %v, want ErrInvalidStake", err)
	}
	if p.State().Stake != 250 {
		t.Error("stake must be unchanged after rejected SetStake")
	}
}

func TestStateCopiesLegs(t *testing.T) {
	p, _ := New(10)
	p.AddLeg(Leg{ID: "a", Game: "g", Selection: "s", AmericanOdds: 100})

	state := p.State()
	state.Legs[0].AmericanOdds = 999

	if p.State().Legs[0].AmericanOdds != 100 {
		t.Error("mutating a returned State must not affect the parlay")
	}
}
