package codescanning

import (
	"time"

	"github.com/advanced-security/security-report-action/internal/model"
)

// alertResponse is the wire shape of one code scanning alert.
type alertResponse struct {
	Number       int        `json:"number"`
	CreatedAt    time.Time  `json:"created_at"`
	State        string     `json:"state"`
	DismissedAt  *time.Time `json:"dismissed_at"`
	DismissedBy  *struct {
		Login string `json:"login"`
	} `json:"dismissed_by"`
	DismissedReason  string `json:"dismissed_reason"`
	DismissedComment string `json:"dismissed_comment"`
	HTMLURL          string `json:"html_url"`
	Rule             struct {
		ID                    string   `json:"id"`
		Name                  string   `json:"name"`
		Severity              string   `json:"severity"`
		SecuritySeverityLevel string   `json:"security_severity_level"`
		Description           string   `json:"description"`
		Tags                  []string `json:"tags"`
	} `json:"rule"`
	Tool struct {
		Name    string `json:"name"`
		Version string `json:"version"`
	} `json:"tool"`
	MostRecentInstance struct {
		Ref     string `json:"ref"`
		State   string `json:"state"`
		Message struct {
			Text string `json:"text"`
		} `json:"message"`
		Location struct {
			Path      string `json:"path"`
			StartLine int    `json:"start_line"`
			EndLine   int    `json:"end_line"`
		} `json:"location"`
	} `json:"most_recent_instance"`
}

// Alert is the normalized record of one code scanning alert. Values are
// immutable once built; Number is unique within a repository.
type Alert struct {
	Number           int            `json:"number"`
	RuleID           string         `json:"ruleId"`
	RuleName         string         `json:"ruleName"`
	RuleDescription  string         `json:"ruleDescription"`
	Severity         model.Severity `json:"severity"`
	SecuritySeverity model.Severity `json:"securitySeverity,omitempty"`
	State            string         `json:"state"`
	ToolName         string         `json:"toolName"`
	Message          string         `json:"message,omitempty"`
	Path             string         `json:"path"`
	StartLine        int            `json:"startLine"`
	EndLine          int            `json:"endLine"`
	URL              string         `json:"url"`
	CreatedAt        time.Time      `json:"createdAt"`
	DismissedAt      *time.Time     `json:"dismissedAt,omitempty"`
	DismissedBy      string         `json:"dismissedBy,omitempty"`
	DismissedReason  string         `json:"dismissedReason,omitempty"`
	DismissedComment string         `json:"dismissedComment,omitempty"`
}

func newAlert(raw alertResponse) Alert {
	a := Alert{
		Number:           raw.Number,
		RuleID:           raw.Rule.ID,
		RuleName:         raw.Rule.Name,
		RuleDescription:  raw.Rule.Description,
		Severity:         model.NormalizeSeverity(raw.Rule.Severity),
		State:            raw.State,
		ToolName:         raw.Tool.Name,
		Message:          raw.MostRecentInstance.Message.Text,
		Path:             raw.MostRecentInstance.Location.Path,
		StartLine:        raw.MostRecentInstance.Location.StartLine,
		EndLine:          raw.MostRecentInstance.Location.EndLine,
		URL:              raw.HTMLURL,
		CreatedAt:        raw.CreatedAt,
		DismissedAt:      raw.DismissedAt,
		DismissedReason:  raw.DismissedReason,
		DismissedComment: raw.DismissedComment,
	}
	if raw.Rule.SecuritySeverityLevel != "" {
		a.SecuritySeverity = model.NormalizeSeverity(raw.Rule.SecuritySeverityLevel)
	}
	if raw.DismissedBy != nil {
		a.DismissedBy = raw.DismissedBy.Login
	}
	return a
}
