package codescanning

import "encoding/json"

// Results groups code scanning alerts by originating tool. Every alert lives
// in exactly one tool bucket.
type Results struct {
	order  []string
	byTool map[string][]Alert
}

func NewResults() *Results {
	return &Results{byTool: make(map[string][]Alert)}
}

// AddAlert files an alert under its tool name.
func (r *Results) AddAlert(a Alert) {
	if _, seen := r.byTool[a.ToolName]; !seen {
		r.order = append(r.order, a.ToolName)
	}
	r.byTool[a.ToolName] = append(r.byTool[a.ToolName], a)
}

// Tools returns the distinct tool names observed, in first-seen order.
func (r *Results) Tools() []string {
	tools := make([]string, len(r.order))
	copy(tools, r.order)
	return tools
}

// AlertsForTool returns the alerts recorded for one tool.
func (r *Results) AlertsForTool(tool string) []Alert {
	return r.byTool[tool]
}

// TotalCount returns the number of alerts across all tools.
func (r *Results) TotalCount() int {
	total := 0
	for _, alerts := range r.byTool {
		total += len(alerts)
	}
	return total
}

func (r *Results) MarshalJSON() ([]byte, error) {
	type toolAlerts struct {
		Tool   string  `json:"tool"`
		Alerts []Alert `json:"alerts"`
	}
	payload := struct {
		TotalCount int          `json:"totalCount"`
		Tools      []toolAlerts `json:"tools"`
	}{
		TotalCount: r.TotalCount(),
		Tools:      make([]toolAlerts, 0, len(r.order)),
	}
	for _, tool := range r.order {
		payload.Tools = append(payload.Tools, toolAlerts{Tool: tool, Alerts: r.byTool[tool]})
	}
	return json.Marshal(payload)
}
