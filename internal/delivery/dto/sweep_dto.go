package dto

// SweepReport aggregates the outcome of one reminder or missed-dose sweep.
// Per-group failures never abort the sweep; they are counted here instead.
type SweepReport struct {
	Sent    int `json:"sent"`
	Skipped int `json:"skipped"`
	Failed  int `json:"failed"`
}

// ResolveReport summarizes one schedule resolution for a patient
type ResolveReport struct {
	Created  int `json:"created"`
	Existing int `json:"existing"`
	Skipped  int `json:"skipped"`
}
