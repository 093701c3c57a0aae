// Package domain holds the data contracts shared by the extraction pipeline,
// the synthetic generator and every consumer of the transformer dataset.
package domain

import (
	"math"
	"strings"
)

// NominalVoltage is the reference end-of-line voltage for a 230 V network.
const NominalVoltage = 230.0

// DefaultPhaseCount is the phase count assigned to every record. No survey
// column feeds it.
const DefaultPhaseCount = 3

// UnspecifiedLocation is used when a row carries no location text.
const UnspecifiedLocation = "ไม่ระบุสถานที่"

// Load thresholds (percent of rated capacity).
const (
	WarningLoadThreshold  = 80.0
	CriticalLoadThreshold = 100.0
)

// Unbalance issue thresholds: a transformer is flagged when both values are exceeded.
const (
	UnbalanceIssueThreshold     = 50.0
	UnbalanceIssueLoadThreshold = 50.0
)

// TransformerStatus is the maintenance priority derived from peak load.
type TransformerStatus string

const (
	StatusNormal   TransformerStatus = "Normal"
	StatusWarning  TransformerStatus = "Warning"
	StatusCritical TransformerStatus = "Critical"
)

// AllStatuses lists statuses from least to most urgent.
var AllStatuses = []TransformerStatus{StatusNormal, StatusWarning, StatusCritical}

// ParseStatus accepts either the wire value or the upper-case name.
func ParseStatus(s string) (TransformerStatus, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "NORMAL":
		return StatusNormal, true
	case "WARNING":
		return StatusWarning, true
	case "CRITICAL":
		return StatusCritical, true
	}
	return "", false
}

// TransformerRecord is one surveyed distribution transformer.
type TransformerRecord struct {
	ID                 string            `json:"id" db:"id" validate:"required"`
	Location           string            `json:"location" db:"location"`
	RatedCapacityKVA   float64           `json:"kva" db:"kva" validate:"min=0"`
	PeakLoadPercent    float64           `json:"peakLoadPercent" db:"peak_load_percent"`
	EndVoltage         float64           `json:"endVoltage" db:"end_voltage"`
	VoltageDropPercent float64           `json:"voltageDropPercent" db:"voltage_drop_percent"`
	SystemLoss         float64           `json:"systemLoss" db:"system_loss"`
	PhaseCount         int               `json:"phaseCount" db:"phase_count"`
	UnbalancePercent   float64           `json:"unbalancePercent" db:"unbalance_percent"`
	Status             TransformerStatus `json:"status" db:"status"`
}

// HasUnbalanceIssue reports whether the transformer is both unbalanced and
// loaded enough for the unbalance to matter.
func (r TransformerRecord) HasUnbalanceIssue() bool {
	return r.UnbalancePercent > UnbalanceIssueThreshold && r.PeakLoadPercent > UnbalanceIssueLoadThreshold
}

// ClassifyLoad maps a peak load percentage to a status. Both thresholds are
// strict: exactly 80 is Normal and exactly 100 is Warning.
func ClassifyLoad(peakLoadPercent float64) TransformerStatus {
	switch {
	case peakLoadPercent > CriticalLoadThreshold:
		return StatusCritical
	case peakLoadPercent > WarningLoadThreshold:
		return StatusWarning
	default:
		return StatusNormal
	}
}

// VoltageDropPercent returns the drop of endVoltage below nominal, rounded to
// two decimals. Non-positive voltages yield 0.
func VoltageDropPercent(endVoltage float64) float64 {
	if endVoltage <= 0 {
		return 0
	}
	return Round2((NominalVoltage - endVoltage) / NominalVoltage * 100)
}

// Round2 rounds half away from zero to two decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
