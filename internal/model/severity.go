package model

import "strings"

type Severity string

const (
	SevCritical Severity = "CRITICAL"
	SevHigh     Severity = "HIGH"
	SevMedium   Severity = "MEDIUM"
	SevLow      Severity = "LOW"
	SevWarning  Severity = "WARNING"
	SevNote     Severity = "NOTE"
	SevError    Severity = "ERROR"
	SevUnknown  Severity = "UNKNOWN"
)

// NormalizeSeverity maps the mixed severity vocabularies of the code scanning
// and Dependabot APIs onto one set of labels.
func NormalizeSeverity(s string) Severity {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "CRITICAL":
		return SevCritical
	case "HIGH":
		return SevHigh
	case "MEDIUM", "MODERATE":
		return SevMedium
	case "LOW":
		return SevLow
	case "WARNING":
		return SevWarning
	case "NOTE":
		return SevNote
	case "ERROR":
		return SevError
	default:
		return SevUnknown
	}
}

// Rank orders severities from most to least severe for summary sorting.
// Lower rank is more severe.
func (s Severity) Rank() int {
	switch s {
	case SevCritical:
		return 0
	case SevHigh, SevError:
		return 1
	case SevMedium, SevWarning:
		return 2
	case SevLow, SevNote:
		return 3
	default:
		return 4
	}
}
