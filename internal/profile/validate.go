package profile

import (
	"fmt"
	"strings"
)

// Warning flags a profile field that will degrade to a default. The
// engine never refuses a profile; warnings exist so the CLI and API
// can tell the customer what was ignored.
type Warning struct {
	Field   string
	Message string
}

func (w Warning) String() string {
	return fmt.Sprintf("%s: %s", w.Field, w.Message)
}

// Warn inspects the profile for fields that will not be honored as
// written. All findings are non-fatal.
func Warn(p *CustomerProfile) []Warning {
	var warnings []Warning
	if p == nil {
		return warnings
	}

	min, max, ok := p.PriceBand()
	if !ok && (!p.Preferences.PriceRange.Min.Empty() || !p.Preferences.PriceRange.Max.Empty()) {
		warnings = append(warnings, Warning{
			Field:   "property_preferences.price_range",
			Message: "could not parse both bounds; budget alignment defaults to 0.5 and the budget filter is skipped",
		})
	}
	if ok && min > max {
		warnings = append(warnings, Warning{
			Field:   "property_preferences.price_range",
			Message: fmt.Sprintf("min %.0f exceeds max %.0f", min, max),
		})
	}

	if _, ok := p.TargetYield(); !ok {
		warnings = append(warnings, Warning{
			Field:   "investment_goals.target_yield",
			Message: "not a number; yield alignment defaults to 0.5",
		})
	}

	switch p.RiskTolerance() {
	case "low", "medium", "high":
	default:
		warnings = append(warnings, Warning{
			Field:   "investment_goals.risk_tolerance",
			Message: fmt.Sprintf("unknown value %q; treated as medium", p.Goals.RiskTolerance.String()),
		})
	}

	for _, lw := range []struct {
		name  string
		value FlexString
	}{
		{"proximity_to_cbd", p.Lifestyle.ProximityToCBD},
		{"school_quality", p.Lifestyle.SchoolQuality},
		{"transport_access", p.Lifestyle.TransportAccess},
		{"shopping_amenities", p.Lifestyle.ShoppingAmenities},
		{"future_development", p.Lifestyle.FutureDevelopment},
	} {
		if lw.value.Empty() {
			continue
		}
		switch strings.ToLower(strings.TrimSpace(lw.value.String())) {
		case "low", "medium", "high":
		default:
			warnings = append(warnings, Warning{
				Field:   "lifestyle_factors." + lw.name,
				Message: fmt.Sprintf("unknown importance %q; treated as medium", lw.value.String()),
			})
		}
	}

	return warnings
}
