package dependencies

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/advanced-security/security-report-action/internal/github"
)

// CollectorResult is the aggregate of one software composition pass.
type CollectorResult struct {
	Dependencies    []DependencySet `json:"dependencies"`
	Vulnerabilities []Vulnerability `json:"vulnerabilities"`
}

// EmptyCollectorResult is the default substituted when the software
// composition branch is disabled by configuration.
func EmptyCollectorResult() *CollectorResult {
	return &CollectorResult{
		Dependencies:    []DependencySet{},
		Vulnerabilities: []Vulnerability{},
	}
}

// Collector fetches the software composition data set for a repository.
type Collector struct {
	deps   *Dependencies
	logger *zap.SugaredLogger
}

func NewCollector(client *github.Client, logger *zap.SugaredLogger) *Collector {
	return &Collector{deps: New(client, logger), logger: logger}
}

// Fetch issues the dependency and vulnerability listings concurrently with an
// all-or-nothing join.
func (c *Collector) Fetch(ctx context.Context, repo github.Repo) (*CollectorResult, error) {
	result := &CollectorResult{}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		result.Dependencies, err = c.deps.AllDependencies(gctx, repo)
		return err
	})
	g.Go(func() (err error) {
		result.Vulnerabilities, err = c.deps.AllVulnerabilities(gctx, repo)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if result.Dependencies == nil {
		result.Dependencies = []DependencySet{}
	}
	if result.Vulnerabilities == nil {
		result.Vulnerabilities = []Vulnerability{}
	}
	return result, nil
}
