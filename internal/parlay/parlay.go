// Package parlay implements multi-leg wager arithmetic: American-to-decimal
// conversion, combined odds, payout, implied probability and expected value.
// Compute is a pure function; Parlay wraps it with the leg-collection rules.
package parlay

import (
	"errors"
	"fmt"
	"math"

	"github.com/tzsmit/nova-titan-widget-sub003/pkg/oddsmath"
)

var (
	// ErrInvalidOdds rejects a leg carrying American odds of 0.
	ErrInvalidOdds = errors.New("american odds cannot be 0")

	// ErrInvalidStake rejects a negative or non-finite stake.
	ErrInvalidStake = errors.New("stake must be a finite non-negative number")

	// ErrDuplicateLeg rejects a leg already present in the parlay.
	ErrDuplicateLeg = errors.New("leg already in parlay")
)

// Leg is one selection inside a parlay.
type Leg struct {
	ID             string  `json:"id"`
	Game           string  `json:"game"`
	Selection      string  `json:"selection"`
	BetDescription string  `json:"bet_description"`
	AmericanOdds   int     `json:"american_odds"`
	Confidence     float64 `json:"confidence,omitempty"`
}

// sameAs reports whether two legs name the same wager. Identity is the
// (game, selection, bet description) triple, not the leg ID or price.
func (l Leg) sameAs(other Leg) bool {
	return l.Game == other.Game &&
		l.Selection == other.Selection &&
		l.BetDescription == other.BetDescription
}

// State is the computed arithmetic of a parlay. All fields derive from the
// legs and stake; callers never mutate a State.
type State struct {
	Legs                  []Leg   `json:"legs"`
	Stake                 float64 `json:"stake"`
	TotalDecimalOdds      float64 `json:"total_decimal_odds"`
	PotentialPayout       float64 `json:"potential_payout"`
	ImpliedProbabilityPct float64 `json:"implied_probability_pct"`
	ExpectedValuePct      float64 `json:"expected_value_pct"`
}

// Compute derives the full parlay state from legs and a stake. It is pure:
// no I/O and no caching. Zero legs produce the no-op state (decimal odds 1,
// payout equals stake, implied probability 100%).
func Compute(legs []Leg, stake float64) (State, error) {
	if math.IsNaN(stake) || math.IsInf(stake, 0) || stake < 0 {
		return State{}, ErrInvalidStake
	}

	decimals := make([]float64, 0, len(legs))
	for _, leg := range legs {
		d, err := oddsmath.AmericanToDecimal(leg.AmericanOdds)
		if err != nil {
			return State{}, fmt.Errorf("leg %q: %w", leg.Selection, ErrInvalidOdds)
		}
		decimals = append(decimals, d)
	}

	total := oddsmath.CombineDecimal(decimals)
	payout := stake * total

	evPct := 0.0
	if stake > 0 {
		evPct = (payout - stake) / stake * 100.0
	}

	return State{
		Legs:                  legs,
		Stake:                 stake,
		TotalDecimalOdds:      total,
		PotentialPayout:       payout,
		ImpliedProbabilityPct: 100.0 / total,
		ExpectedValuePct:      evPct,
	}, nil
}

// Parlay is a mutable leg collection with its current computed state. Legs
// belong exclusively to the parlay holding them.
type Parlay struct {
	state State
}

// New creates an empty parlay with the given stake.
func New(stake float64) (*Parlay, error) {
	state, err := Compute(nil, stake)
	if err != nil {
		return nil, err
	}
	return &Parlay{state: state}, nil
}

// State returns the current computed state. The legs slice is copied so the
// caller cannot reach into the parlay's own collection.
func (p *Parlay) State() State {
	out := p.state
	out.Legs = append([]Leg(nil), p.state.Legs...)
	return out
}

// AddLeg appends a candidate leg and recomputes. A candidate matching an
// existing leg on (game, selection, bet description) is rejected with
// ErrDuplicateLeg and the parlay is left unchanged.
func (p *Parlay) AddLeg(candidate Leg) error {
	for _, existing := range p.state.Legs {
		if existing.sameAs(candidate) {
			return ErrDuplicateLeg
		}
	}

	next, err := Compute(append(append([]Leg(nil), p.state.Legs...), candidate), p.state.Stake)
	if err != nil {
		return err
	}

	p.state = next
	return nil
}

// RemoveLeg drops the leg with the given ID, if present, and recomputes.
func (p *Parlay) RemoveLeg(legID string) error {
	kept := make([]Leg, 0, len(p.state.Legs))
	for _, leg := range p.state.Legs {
		if leg.ID != legID {
			kept = append(kept, leg)
		}
	}

	next, err := Compute(kept, p.state.Stake)
	if err != nil {
		return err
	}

	p.state = next
	return nil
}

// SetStake updates the stake and recomputes payout and expected value.
func (p *Parlay) SetStake(stake float64) error {
	next, err := Compute(p.state.Legs, stake)
	if err != nil {
		return err
	}

	p.state = next
	return nil
}
