package codescanning

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/advanced-security/security-report-action/internal/github"
)

// CollectorResult is the aggregate of one code scanning collection pass.
// CodeScanning is nil when the repository has no matching analysis.
type CollectorResult struct {
	CodeScanning *AnalysisWithSarif `json:"codeScanning,omitempty"`
	Open         *Results           `json:"open"`
	Closed       *Results           `json:"closed"`
}

// EmptyCollectorResult is the documented default substituted when the code
// scanning branch is disabled by configuration.
func EmptyCollectorResult() *CollectorResult {
	return &CollectorResult{Open: NewResults(), Closed: NewResults()}
}

// Collector fetches the code scanning data set for a repository.
type Collector struct {
	cs     *CodeScanning
	logger *zap.SugaredLogger
}

func NewCollector(client *github.Client, logger *zap.SugaredLogger) *Collector {
	return &Collector{cs: New(client, logger), logger: logger}
}

// Fetch issues the three collection calls concurrently: the latest CodeQL
// analysis with its SARIF payload (optionally pinned to sarifID), the open
// alerts and the dismissed alerts. The join is all-or-nothing; a single
// failure fails the aggregation and the other results are discarded.
func (c *Collector) Fetch(ctx context.Context, repo github.Repo, sarifID string) (*CollectorResult, error) {
	result := &CollectorResult{}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		filter := &AnalysisFilter{ToolName: ToolNameCodeQL, SarifID: sarifID}
		result.CodeScanning, err = c.cs.LatestAnalysisWithSarif(gctx, repo, filter)
		return err
	})
	g.Go(func() (err error) {
		result.Open, err = c.cs.OpenAlerts(gctx, repo)
		return err
	})
	g.Go(func() (err error) {
		result.Closed, err = c.cs.ClosedAlerts(gctx, repo)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if result.Open == nil {
		result.Open = NewResults()
	}
	if result.Closed == nil {
		result.Closed = NewResults()
	}
	return result, nil
}
