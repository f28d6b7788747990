package contracts

// SuburbRecord is one row of market statistics for a suburb.
// Identity is the (Suburb, State) pair. Raw metrics are never mutated
// after ingestion; feature engineering appends derived columns only.
type SuburbRecord struct {
	Suburb  string             `json:"suburb"`
	State   string             `json:"state"`
	Region  string             `json:"region,omitempty"`
	Metrics map[string]float64 `json:"metrics"`
}

// NewSuburbRecord creates a record with an empty metrics map.
func NewSuburbRecord(suburb, state string) *SuburbRecord {
	return &SuburbRecord{
		Suburb:  suburb,
		State:   state,
		Metrics: make(map[string]float64),
	}
}

// Metric returns a metric value; ok is false when the column is missing
// for this record.
func (r *SuburbRecord) Metric(name string) (float64, bool) {
	v, ok := r.Metrics[name]
	return v, ok
}

// MetricOr returns a metric value, or def when the column is missing.
func (r *SuburbRecord) MetricOr(name string, def float64) float64 {
	if v, ok := r.Metrics[name]; ok {
		return v
	}
	return def
}

// SetMetric writes a metric value, allocating the map if needed.
func (r *SuburbRecord) SetMetric(name string, value float64) {
	if r.Metrics == nil {
		r.Metrics = make(map[string]float64)
	}
	r.Metrics[name] = value
}

// Key returns the identity key used for deduplication and persistence.
func (r *SuburbRecord) Key() string {
	return r.Suburb + "|" + r.State
}

// Clone returns a deep copy so that feature engineering can append
// columns without touching the caller's table.
func (r *SuburbRecord) Clone() *SuburbRecord {
	out := &SuburbRecord{
		Suburb:  r.Suburb,
		State:   r.State,
		Region:  r.Region,
		Metrics: make(map[string]float64, len(r.Metrics)),
	}
	for k, v := range r.Metrics {
		out.Metrics[k] = v
	}
	return out
}
