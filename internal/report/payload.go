package report

import (
	"encoding/json"
	"sort"
	"time"

	"github.com/advanced-security/security-report-action/internal/codescanning"
	"github.com/advanced-security/security-report-action/internal/dependencies"
	"github.com/advanced-security/security-report-action/internal/github"
	"github.com/advanced-security/security-report-action/internal/model"
	"github.com/advanced-security/security-report-action/internal/secretscanning"
)

// Payload is the aggregate handed to the rendering step. It is an opaque
// structured value from the renderer's point of view.
type Payload struct {
	ID          string    `json:"id"`
	GeneratedAt time.Time `json:"generatedAt"`

	GitHub github.Repo `json:"github"`
	Ref    string      `json:"ref"`

	CodeScanning       *codescanning.AnalysisWithSarif `json:"codeScanning,omitempty"`
	CodeScanningOpen   *codescanning.Results           `json:"codeScanningOpen"`
	CodeScanningClosed *codescanning.Results           `json:"codeScanningClosed"`

	Dependencies    []dependencies.DependencySet `json:"dependencies"`
	Vulnerabilities []dependencies.Vulnerability `json:"vulnerabilities"`

	SecretScanning *secretscanning.CollectorResult `json:"secretScanning"`

	Summary Summary `json:"summary"`
}

// SeverityCount is one row of a severity breakdown, ordered most severe first.
type SeverityCount struct {
	Severity model.Severity `json:"severity"`
	Count    int            `json:"count"`
}

// Summary carries the counts the report template leads with.
type Summary struct {
	OpenAlerts           int             `json:"openAlerts"`
	ClosedAlerts         int             `json:"closedAlerts"`
	OpenBySeverity       []SeverityCount `json:"openBySeverity"`
	Vulnerabilities      int             `json:"vulnerabilities"`
	VulnsBySeverity      []SeverityCount `json:"vulnerabilitiesBySeverity"`
	DependencyCount      int             `json:"dependencyCount"`
	OpenSecretAlerts     int             `json:"openSecretAlerts"`
	ResolvedSecretAlerts int             `json:"resolvedSecretAlerts"`
}

// JSON renders the payload as indented JSON.
func (p *Payload) JSON() ([]byte, error) {
	return json.MarshalIndent(p, "", "  ")
}

func buildSummary(p *Payload) Summary {
	s := Summary{
		OpenAlerts:      p.CodeScanningOpen.TotalCount(),
		ClosedAlerts:    p.CodeScanningClosed.TotalCount(),
		Vulnerabilities: len(p.Vulnerabilities),
	}

	openCounts := make(map[model.Severity]int)
	for _, tool := range p.CodeScanningOpen.Tools() {
		for _, alert := range p.CodeScanningOpen.AlertsForTool(tool) {
			openCounts[alert.Severity]++
		}
	}
	s.OpenBySeverity = sortedCounts(openCounts)

	vulnCounts := make(map[model.Severity]int)
	for _, v := range p.Vulnerabilities {
		vulnCounts[v.Severity]++
	}
	s.VulnsBySeverity = sortedCounts(vulnCounts)

	for _, set := range p.Dependencies {
		s.DependencyCount += set.Count
	}
	if p.SecretScanning != nil {
		s.OpenSecretAlerts = len(p.SecretScanning.Open)
		s.ResolvedSecretAlerts = len(p.SecretScanning.Resolved)
	}
	return s
}

func sortedCounts(counts map[model.Severity]int) []SeverityCount {
	rows := make([]SeverityCount, 0, len(counts))
	for severity, count := range counts {
		rows = append(rows, SeverityCount{Severity: severity, Count: count})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Severity.Rank() != rows[j].Severity.Rank() {
			return rows[i].Severity.Rank() < rows[j].Severity.Rank()
		}
		return rows[i].Severity < rows[j].Severity
	})
	return rows
}
