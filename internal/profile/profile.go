// Package profile holds the customer investment profile: the read-only
// structured input that feature engineering and filtering personalize
// against. Numeric fields arrive as spreadsheet-style text ("$600,000",
// "4.5%"); accessors parse on demand and degrade to documented neutral
// defaults instead of failing, so a half-filled profile still scores.
package profile

import (
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/proplens/scout/internal/dataset"
)

// Neutral defaults substituted when a profile field is missing or does
// not parse.
const (
	DefaultPurpose       = "both"
	DefaultRiskTolerance = "medium"
	DefaultTargetYield   = 4.0
	DefaultImportance    = 0.6
)

// CustomerProfile is the full customer input. All sections are
// optional; the zero value scores every suburb with neutral alignment.
type CustomerProfile struct {
	Financial   Financial   `yaml:"financial_profile" json:"financial_profile"`
	Goals       Goals       `yaml:"investment_goals" json:"investment_goals"`
	Preferences Preferences `yaml:"property_preferences" json:"property_preferences"`
	Lifestyle   Lifestyle   `yaml:"lifestyle_factors" json:"lifestyle_factors"`
}

// Financial describes the customer's financial position. Scoring does
// not read these directly; they travel with the profile for reports
// and the advisory collaborator.
type Financial struct {
	AnnualIncome      FlexString `yaml:"annual_income,omitempty" json:"annual_income,omitempty"`
	SavingsForDeposit FlexString `yaml:"savings_for_deposit,omitempty" json:"savings_for_deposit,omitempty"`
	BorrowingCapacity FlexString `yaml:"borrowing_capacity,omitempty" json:"borrowing_capacity,omitempty"`
}

// Goals captures what the customer wants out of the investment.
type Goals struct {
	PrimaryPurpose FlexString `yaml:"primary_purpose,omitempty" json:"primary_purpose,omitempty"` // e.g. "Capital Growth", "Rental Income", "Both"
	TargetYield    FlexString `yaml:"target_yield,omitempty" json:"target_yield,omitempty"`       // percent, "%" suffix tolerated
	RiskTolerance  FlexString `yaml:"risk_tolerance,omitempty" json:"risk_tolerance,omitempty"`   // Low / Medium / High
	Horizon        FlexString `yaml:"investment_horizon,omitempty" json:"investment_horizon,omitempty"`
}

// Preferences narrows the property search.
type Preferences struct {
	PriceRange       PriceRange `yaml:"price_range,omitempty" json:"price_range,omitempty"`
	PreferredSuburbs []string   `yaml:"preferred_suburbs,omitempty" json:"preferred_suburbs,omitempty"`
	PropertyType     FlexString `yaml:"property_type,omitempty" json:"property_type,omitempty"`
}

// PriceRange is the customer's budget band. Values are money text.
type PriceRange struct {
	Min FlexString `yaml:"min,omitempty" json:"min,omitempty"`
	Max FlexString `yaml:"max,omitempty" json:"max,omitempty"`
}

// Lifestyle holds importance ratings (Low/Medium/High) for fixed
// lifestyle factors.
type Lifestyle struct {
	ProximityToCBD    FlexString `yaml:"proximity_to_cbd,omitempty" json:"proximity_to_cbd,omitempty"`
	SchoolQuality     FlexString `yaml:"school_quality,omitempty" json:"school_quality,omitempty"`
	TransportAccess   FlexString `yaml:"transport_access,omitempty" json:"transport_access,omitempty"`
	ShoppingAmenities FlexString `yaml:"shopping_amenities,omitempty" json:"shopping_amenities,omitempty"`
	FutureDevelopment FlexString `yaml:"future_development,omitempty" json:"future_development,omitempty"`
}

// FlexString accepts quoted and unquoted scalars so that profiles can
// write `min: 600000` or `min: "$600,000"` interchangeably.
type FlexString string

// UnmarshalYAML keeps the raw scalar text.
func (f *FlexString) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("expected scalar, got %v", value.Kind)
	}
	*f = FlexString(value.Value)
	return nil
}

// UnmarshalJSON accepts strings, numbers and null.
func (f *FlexString) UnmarshalJSON(data []byte) error {
	s := string(data)
	if s == "null" {
		*f = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		*f = FlexString(str)
		return nil
	}
	*f = FlexString(s)
	return nil
}

// String returns the raw text.
func (f FlexString) String() string {
	return string(f)
}

// Empty reports whether the field was left blank.
func (f FlexString) Empty() bool {
	return strings.TrimSpace(string(f)) == ""
}

// Purpose returns the lowercased primary purpose, "both" when unset.
// Composite weights are chosen by substring match on this value.
func (p *CustomerProfile) Purpose() string {
	if p == nil || p.Goals.PrimaryPurpose.Empty() {
		return DefaultPurpose
	}
	return strings.ToLower(strings.TrimSpace(p.Goals.PrimaryPurpose.String()))
}

// RiskTolerance returns the lowercased risk tolerance, "medium" when
// unset. Unknown values are passed through; the rule filter treats
// anything that is not "low" or "high" as medium.
func (p *CustomerProfile) RiskTolerance() string {
	if p == nil || p.Goals.RiskTolerance.Empty() {
		return DefaultRiskTolerance
	}
	return strings.ToLower(strings.TrimSpace(p.Goals.RiskTolerance.String()))
}

// TargetYield returns the desired rental yield in percent. A blank
// field means the 4.0 default is used as a real target; ok is false
// only when the field holds text that does not parse, in which case
// alignment falls back to the neutral 0.5.
func (p *CustomerProfile) TargetYield() (float64, bool) {
	if p == nil || p.Goals.TargetYield.Empty() {
		return DefaultTargetYield, true
	}
	v, ok := dataset.ParseNumber(p.Goals.TargetYield.String())
	if !ok {
		return 0, false
	}
	return v, true
}

// PriceBand returns the parsed budget band. ok is false when either
// bound is missing or unparseable; callers substitute the neutral 0.5
// alignment and skip the budget filter.
func (p *CustomerProfile) PriceBand() (min, max float64, ok bool) {
	if p == nil {
		return 0, 0, false
	}
	r := p.Preferences.PriceRange
	if r.Min.Empty() || r.Max.Empty() {
		return 0, 0, false
	}
	min, okMin := dataset.ParseNumber(r.Min.String())
	max, okMax := dataset.ParseNumber(r.Max.String())
	if !okMin || !okMax {
		return 0, 0, false
	}
	return min, max, true
}

// PreferredSuburbs returns the cleaned, lowercased suburb preference
// list with blanks removed.
func (p *CustomerProfile) PreferredSuburbs() []string {
	if p == nil {
		return nil
	}
	out := make([]string, 0, len(p.Preferences.PreferredSuburbs))
	for _, s := range p.Preferences.PreferredSuburbs {
		s = strings.ToLower(strings.TrimSpace(s))
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

// lifestyleWeights are the fixed factor weights of the lifestyle
// score. They sum to 1.0.
var lifestyleWeights = []struct {
	factor func(*Lifestyle) FlexString
	weight float64
}{
	{func(l *Lifestyle) FlexString { return l.ProximityToCBD }, 0.3},
	{func(l *Lifestyle) FlexString { return l.SchoolQuality }, 0.2},
	{func(l *Lifestyle) FlexString { return l.TransportAccess }, 0.2},
	{func(l *Lifestyle) FlexString { return l.ShoppingAmenities }, 0.15},
	{func(l *Lifestyle) FlexString { return l.FutureDevelopment }, 0.15},
}

// LifestyleScore folds the importance ratings into one constant in
// [0.3, 1.0]. Unknown or missing ratings count as medium.
func (p *CustomerProfile) LifestyleScore() float64 {
	if p == nil {
		return DefaultImportance
	}
	score := 0.0
	for _, lw := range lifestyleWeights {
		score += importanceValue(lw.factor(&p.Lifestyle)) * lw.weight
	}
	return score
}

func importanceValue(f FlexString) float64 {
	switch strings.ToLower(strings.TrimSpace(f.String())) {
	case "low":
		return 0.3
	case "medium":
		return 0.6
	case "high":
		return 1.0
	default:
		return DefaultImportance
	}
}
