package codescanning

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/advanced-security/security-report-action/internal/model"
)

func TestResultsGroupByTool(t *testing.T) {
	results := NewResults()
	results.AddAlert(Alert{Number: 1, ToolName: "CodeQL", Severity: model.SevError})
	results.AddAlert(Alert{Number: 2, ToolName: "ESLint", Severity: model.SevWarning})
	results.AddAlert(Alert{Number: 3, ToolName: "CodeQL", Severity: model.SevError})

	tools := results.Tools()
	if len(tools) != 2 {
		t.Fatalf("tools = %v, want 2 entries", tools)
	}
	if tools[0] != "CodeQL" || tools[1] != "ESLint" {
		t.Errorf("tools = %v, want first-seen order [CodeQL ESLint]", tools)
	}

	if got := len(results.AlertsForTool("CodeQL")); got != 2 {
		t.Errorf("CodeQL bucket = %d alerts, want 2", got)
	}
	if got := len(results.AlertsForTool("ESLint")); got != 1 {
		t.Errorf("ESLint bucket = %d alerts, want 1", got)
	}
	if results.TotalCount() != 3 {
		t.Errorf("total = %d, want 3", results.TotalCount())
	}
}

func TestResultsEmpty(t *testing.T) {
	results := NewResults()

	if got := results.Tools(); len(got) != 0 {
		t.Errorf("tools = %v, want empty", got)
	}
	if results.TotalCount() != 0 {
		t.Errorf("total = %d, want 0", results.TotalCount())
	}
	if got := results.AlertsForTool("CodeQL"); got != nil {
		t.Errorf("unknown tool bucket = %v, want nil", got)
	}
}

func TestResultsMarshalJSON(t *testing.T) {
	results := NewResults()
	results.AddAlert(Alert{Number: 9, ToolName: "CodeQL", RuleID: "java/xss"})

	data, err := json.Marshal(results)
	if err != nil {
		t.Fatal(err)
	}

	body := string(data)
	if !strings.Contains(body, `"totalCount":1`) {
		t.Errorf("payload %s missing totalCount", body)
	}
	if !strings.Contains(body, `"tool":"CodeQL"`) {
		t.Errorf("payload %s missing tool bucket", body)
	}
}
