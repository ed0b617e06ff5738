package codescanning

import (
	"fmt"

	"github.com/advanced-security/security-report-action/internal/github"
)

// NotEnoughAnalysesError reports that a comparison was requested but fewer
// than two analyses matched the filter.
type NotEnoughAnalysesError struct {
	Repo   github.Repo
	Filter AnalysisFilter
}

func (e *NotEnoughAnalysesError) Error() string {
	return fmt.Sprintf("failed to find two analyses to compare for %s using filter %s", e.Repo, e.Filter)
}

// MissingAnalysisError reports that one side of a comparison could not be
// resolved individually after being listed.
type MissingAnalysisError struct {
	Side       string // "head" or "base"
	AnalysisID int64
	Repo       github.Repo
}

func (e *MissingAnalysisError) Error() string {
	return fmt.Sprintf("failure to resolve a %s analysis for %d on %s", e.Side, e.AnalysisID, e.Repo)
}
