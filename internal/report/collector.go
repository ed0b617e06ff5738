package report

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/advanced-security/security-report-action/internal/codescanning"
	"github.com/advanced-security/security-report-action/internal/config"
	"github.com/advanced-security/security-report-action/internal/dependencies"
	"github.com/advanced-security/security-report-action/internal/github"
	"github.com/advanced-security/security-report-action/internal/secretscanning"
)

// DataCollector assembles the report payload for one repository.
type DataCollector struct {
	client  *github.Client
	logger  *zap.SugaredLogger
	repo    github.Repo
	ref     string
	sarifID string
}

func NewDataCollector(client *github.Client, logger *zap.SugaredLogger, repository, ref, sarifID string) (*DataCollector, error) {
	if client == nil {
		return nil, fmt.Errorf("a GitHub client needs to be provided")
	}
	repo, err := github.ParseRepo(repository)
	if err != nil {
		return nil, err
	}
	if ref == "" {
		return nil, fmt.Errorf("a repository ref must be provided")
	}
	return &DataCollector{
		client:  client,
		logger:  logger,
		repo:    repo,
		ref:     ref,
		sarifID: sarifID,
	}, nil
}

// Payload verifies the repository is accessible and then runs the enabled
// collection branches concurrently. Branches disabled by configuration are
// replaced with their empty defaults without fetching. The join is
// all-or-nothing: one branch failing fails the whole collection, and no
// partial payload is produced.
func (dc *DataCollector) Payload(ctx context.Context, include config.IncludeOptions) (*Payload, error) {
	if err := dc.checkRepository(ctx); err != nil {
		return nil, err
	}

	codeScanningData := codescanning.EmptyCollectorResult()
	scaData := dependencies.EmptyCollectorResult()
	secretsData := secretscanning.EmptyCollectorResult()

	g, gctx := errgroup.WithContext(ctx)
	if include.CodeScanning {
		g.Go(func() (err error) {
			codeScanningData, err = codescanning.NewCollector(dc.client, dc.logger).Fetch(gctx, dc.repo, dc.sarifID)
			return err
		})
	}
	if include.SoftwareCompositionAnalysis {
		g.Go(func() (err error) {
			scaData, err = dependencies.NewCollector(dc.client, dc.logger).Fetch(gctx, dc.repo)
			return err
		})
	}
	if include.SecretScanning {
		g.Go(func() (err error) {
			secretsData, err = secretscanning.NewCollector(dc.client, dc.logger).Fetch(gctx, dc.repo)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	payload := &Payload{
		ID:                 uuid.NewString(),
		GeneratedAt:        time.Now().UTC(),
		GitHub:             dc.repo,
		Ref:                dc.ref,
		CodeScanning:       codeScanningData.CodeScanning,
		CodeScanningOpen:   codeScanningData.Open,
		CodeScanningClosed: codeScanningData.Closed,
		Dependencies:       scaData.Dependencies,
		Vulnerabilities:    scaData.Vulnerabilities,
		SecretScanning:     secretsData,
	}
	payload.Summary = buildSummary(payload)
	return payload, nil
}

func (dc *DataCollector) checkRepository(ctx context.Context) error {
	path := fmt.Sprintf("repos/%s/%s", dc.repo.Owner, dc.repo.Repo)
	if err := dc.client.Get(ctx, path, nil, github.AcceptJSON, nil); err != nil {
		if github.IsNotFound(err) {
			return fmt.Errorf("Not Found, failed to fetch repository information for %s, check that the repository exists and that the provided token has access to it", dc.repo)
		}
		return err
	}
	return nil
}
