// Package secretscanning lists secret scanning alerts for a repository.
package secretscanning

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/advanced-security/security-report-action/internal/github"
)

type alertResponse struct {
	Number     int        `json:"number"`
	State      string     `json:"state"`
	SecretType string     `json:"secret_type"`
	SecretName string     `json:"secret_type_display_name"`
	HTMLURL    string     `json:"html_url"`
	CreatedAt  time.Time  `json:"created_at"`
	ResolvedAt *time.Time `json:"resolved_at"`
	Resolution string     `json:"resolution"`
}

// Alert is one secret scanning alert. The detected secret value itself is
// never fetched or stored.
type Alert struct {
	Number     int        `json:"number"`
	State      string     `json:"state"`
	SecretType string     `json:"secretType"`
	SecretName string     `json:"secretName"`
	URL        string     `json:"url"`
	CreatedAt  time.Time  `json:"createdAt"`
	ResolvedAt *time.Time `json:"resolvedAt,omitempty"`
	Resolution string     `json:"resolution,omitempty"`
}

// CollectorResult is the aggregate of one secret scanning pass.
type CollectorResult struct {
	Open     []Alert `json:"open"`
	Resolved []Alert `json:"resolved"`
}

// EmptyCollectorResult is the default substituted when the secret scanning
// branch is disabled by configuration.
func EmptyCollectorResult() *CollectorResult {
	return &CollectorResult{Open: []Alert{}, Resolved: []Alert{}}
}

// Collector fetches secret scanning alerts for a repository.
type Collector struct {
	client *github.Client
	logger *zap.SugaredLogger
}

func NewCollector(client *github.Client, logger *zap.SugaredLogger) *Collector {
	return &Collector{client: client, logger: logger}
}

// Fetch lists every secret scanning alert and splits it by state. A 404
// (feature disabled or inaccessible) resolves to an empty result.
func (c *Collector) Fetch(ctx context.Context, repo github.Repo) (*CollectorResult, error) {
	path := fmt.Sprintf("repos/%s/%s/secret-scanning/alerts", repo.Owner, repo.Repo)
	raw, err := github.Paginate[alertResponse](ctx, c.client, path, url.Values{})
	if err != nil && !github.IsNotFound(err) {
		return nil, err
	}

	result := EmptyCollectorResult()
	for _, a := range raw {
		alert := Alert{
			Number:     a.Number,
			State:      a.State,
			SecretType: a.SecretType,
			SecretName: a.SecretName,
			URL:        a.HTMLURL,
			CreatedAt:  a.CreatedAt,
			ResolvedAt: a.ResolvedAt,
			Resolution: a.Resolution,
		}
		if a.State == "resolved" {
			result.Resolved = append(result.Resolved, alert)
		} else {
			result.Open = append(result.Open, alert)
		}
	}
	return result, nil
}
