package contracts

import (
	"encoding/json"
	"testing"
)

func TestSuburbRecord_Metric(t *testing.T) {
	r := NewSuburbRecord("Parramatta", "NSW")
	r.SetMetric(ColMedianPrice, 850000)

	v, ok := r.Metric(ColMedianPrice)
	if !ok {
		t.Fatal("Expected to find Median Price")
	}
	if v != 850000 {
		t.Errorf("Metric() = %v, want 850000", v)
	}

	_, ok = r.Metric(ColVacancyRate)
	if ok {
		t.Error("Expected Vacancy Rate to be missing")
	}

	if got := r.MetricOr(ColVacancyRate, 2.5); got != 2.5 {
		t.Errorf("MetricOr() = %v, want default 2.5", got)
	}
}

func TestSuburbRecord_Clone(t *testing.T) {
	r := NewSuburbRecord("Epping", "VIC")
	r.SetMetric(ColPopulation, 32000)

	c := r.Clone()
	c.SetMetric(ColPopulation, 99999)
	c.SetMetric(ColVacancyRate, 3.1)

	if v, _ := r.Metric(ColPopulation); v != 32000 {
		t.Errorf("Clone mutated original: Population = %v", v)
	}
	if _, ok := r.Metric(ColVacancyRate); ok {
		t.Error("Clone added column to original")
	}
}

func TestSuburbRecord_Key(t *testing.T) {
	a := NewSuburbRecord("Epping", "NSW")
	b := NewSuburbRecord("Epping", "VIC")
	if a.Key() == b.Key() {
		t.Error("Same suburb name in different states must have distinct keys")
	}
}

func TestScoredSuburb_ReasonText(t *testing.T) {
	s := &ScoredSuburb{
		Reasons: []string{"strong growth outlook", "fits budget"},
	}
	if got := s.ReasonText(); got != "strong growth outlook, fits budget" {
		t.Errorf("ReasonText() = %q", got)
	}

	empty := &ScoredSuburb{}
	if got := empty.ReasonText(); got != "" {
		t.Errorf("ReasonText() on empty = %q, want empty", got)
	}
}

func TestShortlist_Empty(t *testing.T) {
	var nilList *Shortlist
	if !nilList.Empty() {
		t.Error("nil shortlist should be empty")
	}

	sl := &Shortlist{Entries: []ScoredSuburb{{Suburb: "Blacktown"}}}
	if sl.Empty() {
		t.Error("non-empty shortlist reported empty")
	}
	if sl.Len() != 1 {
		t.Errorf("Len() = %d, want 1", sl.Len())
	}
}

func TestTarget_Valid(t *testing.T) {
	for _, s := range []string{"growth", "yield", "risk"} {
		if !IsValidTarget(s) {
			t.Errorf("IsValidTarget(%q) = false", s)
		}
	}
	if IsValidTarget("momentum") {
		t.Error("IsValidTarget(momentum) = true")
	}
	if len(AllTargets()) != 3 {
		t.Errorf("AllTargets() returned %d targets", len(AllTargets()))
	}
}

func TestScoredSuburb_JSON(t *testing.T) {
	original := &ScoredSuburb{
		Suburb:       "Parramatta",
		State:        "NSW",
		Rank:         1,
		GrowthScore:  0.81,
		YieldScore:   0.64,
		RiskScore:    0.22,
		OverallScore: 0.84,
		Reasons:      []string{"strong growth outlook", "low market risk"},
		Confidence:   "High",
	}

	data, err := json.Marshal(original)
	if err != nil {
		t.Fatalf("Failed to marshal: %v", err)
	}

	var decoded ScoredSuburb
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Failed to unmarshal: %v", err)
	}

	if decoded.Suburb != original.Suburb {
		t.Errorf("Suburb mismatch: got %s", decoded.Suburb)
	}
	if decoded.OverallScore != original.OverallScore {
		t.Errorf("OverallScore mismatch: got %f", decoded.OverallScore)
	}
	if len(decoded.Reasons) != 2 {
		t.Errorf("Reasons count mismatch: got %d", len(decoded.Reasons))
	}
}
