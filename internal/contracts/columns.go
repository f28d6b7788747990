package contracts

// Canonical column names for the suburb metrics table.
// Every stage addresses columns through these constants; the ingestion
// collaborator is responsible for mapping source spreadsheets onto them.

// Identity columns (non-numeric).
const (
	ColSuburb = "Suburb"
	ColState  = "State"
)

// Raw market metrics.
const (
	ColMedianPrice          = "Median Price"
	ColMedianRent           = "Median Rent"
	ColRentalYieldHouses    = "Rental Yield on Houses"
	ColRentalYield2BR       = "Rental Yield on 2 BR House"
	ColRentalYield3BR       = "Rental Yield on 3 BR House"
	ColRentalYield4BR       = "Rental Yield on 4 BR House"
	ColGrowth10Yr           = "10 yr Avg. Annual Growth"
	ColPriceChange3Mo       = "3 mos. Change on Median Price"
	ColPriceChange12Mo      = "12 mos. Change on Median Price"
	ColPriceChange36Mo      = "36 mos. Change on Median Price"
	ColSalesDaysOnMarket    = "Sales Days on Market"
	ColDOMChange3Mo         = "3 mos. Change on Sales Days on Market"
	ColDOMChange12Mo        = "12 mos. Change on Sales Days on Market"
	ColStockOnMarketPct     = "Stock on Market Percentage (SOM%)"
	ColVacancyRate          = "Vacancy Rate"
	ColVendorDiscount       = "Avg. Vendor Discount"
	ColInventoryMonths      = "Inventory Levels (Months)"
	ColTotalForSaleListings = "Total For Sale Listings"
	ColBuyerDemand          = "Potential Buyers Demand"
	ColDistanceToCBD        = "Distance (km) to CBD"
)

// Demographic metrics.
const (
	ColPopulation        = "Population"
	ColPopForecast2026   = "LGA Population Forecast 2026"
	ColPopForecast2031   = "LGA Population Forecast 2031"
	ColPopChange10Yr     = "10 Year Population Change"
	ColWeeklyIncome      = "Median weekly household income"
	ColHighIncomePct     = "More than $3000 gross weekly income"
	ColLowIncomePct      = "Less than $650 gross weekly income"
	ColRenterPct         = "Percentage of Renter"
	ColRentAffordablePct = "Households where rent repayments are < 30% of household income"
	ColMortgageStressPct = "Households with mortgage repayments >= 30% of household income"
)

// Derived indicators appended during feature engineering.
const (
	ColAffordabilityIndex       = "Affordability_Index"
	ColDemandSupplyPressure     = "Demand_Supply_Pressure"
	ColInvestmentAttractiveness = "Investment_Attractiveness"
	ColMarketMomentum           = "Market_Momentum"
	ColDemographicStrength      = "Demographic_Strength"
	ColPricePerCapita           = "Price_per_Capita"
)

// Customer alignment columns, recomputed per profile.
const (
	ColBudgetAlignment  = "Budget_Alignment_Score"
	ColYieldPreference  = "Yield_Preference_Score"
	ColSuburbPreference = "Suburb_Preference"
	ColLifestyleScore   = "Lifestyle_Score"
)

// StateNormalizedSuffix marks per-state z-score columns, e.g.
// "Median Price_State_Normalized".
const StateNormalizedSuffix = "_State_Normalized"

// Target identifies one of the three scoring models.
type Target string

const (
	TargetGrowth Target = "growth"
	TargetYield  Target = "yield"
	TargetRisk   Target = "risk"
)

// String returns the target name.
func (t Target) String() string {
	return string(t)
}

// AllTargets returns the three targets in canonical order.
func AllTargets() []Target {
	return []Target{TargetGrowth, TargetYield, TargetRisk}
}

// IsValidTarget checks if a target string is one of growth/yield/risk.
func IsValidTarget(s string) bool {
	for _, t := range AllTargets() {
		if string(t) == s {
			return true
		}
	}
	return false
}
