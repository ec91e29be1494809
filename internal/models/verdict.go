package models

import "fmt"

// Verdict classifies one segment pair after cross-validation.
type Verdict int

const (
	// VerdictApproved - both transcripts present and similarity met the threshold.
	VerdictApproved Verdict = iota
	// VerdictRejected - both transcripts present but similarity fell short.
	VerdictRejected
	// VerdictInvalid - at least one side missing or empty after normalization.
	VerdictInvalid
)

// String returns the string representation of the verdict.
func (v Verdict) String() string {
	switch v {
	case VerdictApproved:
		return "approved"
	case VerdictRejected:
		return "rejected"
	case VerdictInvalid:
		return "invalid"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", v)
	}
}

// VerdictCounts accumulates per-verdict totals for a directory or a batch.
type VerdictCounts struct {
	Total    int `json:"total_pairs"`
	Approved int `json:"approved_pairs"`
	Rejected int `json:"rejected_pairs"`
	Invalid  int `json:"invalid_pairs"`
}

// Observe records one verdict.
func (c *VerdictCounts) Observe(v Verdict) {
	c.Total++
	switch v {
	case VerdictApproved:
		c.Approved++
	case VerdictRejected:
		c.Rejected++
	case VerdictInvalid:
		c.Invalid++
	}
}

// Merge adds another set of counts into this one.
func (c *VerdictCounts) Merge(other VerdictCounts) {
	c.Total += other.Total
	c.Approved += other.Approved
	c.Rejected += other.Rejected
	c.Invalid += other.Invalid
}

// ApprovalRate returns the approved percentage, rounded to two decimals.
// Zero when no pairs were seen.
func (c VerdictCounts) ApprovalRate() float64 {
	if c.Total == 0 {
		return 0
	}
	rate := float64(c.Approved) / float64(c.Total) * 100
	return float64(int(rate*100+0.5)) / 100
}
