package domain

import "time"

// ReliabilityStatus is the coarse classification of how much of a stored AI
// response could be trusted. It is set by the response parser and tightened
// (never loosened) by the background rescanner.
type ReliabilityStatus string

const (
	StatusOK      ReliabilityStatus = "ok"
	StatusPartial ReliabilityStatus = "partial"
	StatusFailed  ReliabilityStatus = "failed"
	StatusEmpty   ReliabilityStatus = "empty"
)

type AnalysisRecord struct {
	ID                int64
	PlantID           int64
	ScanID            string // correlation id for one capture flow
	RawResponse       string
	ReliabilityStatus ReliabilityStatus
	HealthScore       int
	Summary           string
	CommonName        string
	ScientificName    string
	CreatedAt         time.Time
}
