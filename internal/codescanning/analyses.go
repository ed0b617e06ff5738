package codescanning

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/advanced-security/security-report-action/internal/github"
	"github.com/advanced-security/security-report-action/internal/sarif"
)

const ToolNameCodeQL = "CodeQL"

// Analysis describes one code scanning analysis run.
type Analysis struct {
	ID           int64     `json:"id"`
	Ref          string    `json:"ref"`
	CommitSHA    string    `json:"commit_sha"`
	AnalysisKey  string    `json:"analysis_key"`
	Environment  string    `json:"environment"`
	Category     string    `json:"category"`
	Error        string    `json:"error"`
	CreatedAt    time.Time `json:"created_at"`
	ResultsCount int       `json:"results_count"`
	RulesCount   int       `json:"rules_count"`
	SarifID      string    `json:"sarif_id"`
	Tool         ToolInfo  `json:"tool"`
	Deletable    bool      `json:"deletable"`
	Warning      string    `json:"warning"`
	URL          string    `json:"url"`
}

type ToolInfo struct {
	Name    string `json:"name"`
	GUID    string `json:"guid"`
	Version string `json:"version"`
}

// AnalysisFilter narrows an analysis listing. ToolName, Ref and SarifID are
// applied by the API; Category has no server-side equivalent and is filtered
// client-side after fetching.
type AnalysisFilter struct {
	ToolName string `json:"toolName,omitempty"`
	Category string `json:"category,omitempty"`
	Ref      string `json:"ref,omitempty"`
	SarifID  string `json:"sarifId,omitempty"`
}

func (f AnalysisFilter) String() string {
	return fmt.Sprintf("{toolName:%q category:%q ref:%q sarifId:%q}", f.ToolName, f.Category, f.Ref, f.SarifID)
}

func (f AnalysisFilter) query() url.Values {
	q := url.Values{}
	if f.ToolName != "" {
		q.Set("tool_name", f.ToolName)
	}
	if f.Ref != "" {
		q.Set("ref", f.Ref)
	}
	if f.SarifID != "" {
		q.Set("sarif_id", f.SarifID)
	}
	return q
}

// AnalysisWithAge wraps an analysis with its age at resolution time.
// AgeInMinutes = floor((now - created_at) / 60000ms); the upstream system
// computed this exact value under the misleading name ageInSeconds.
type AnalysisWithAge struct {
	AgeInMinutes int64    `json:"ageInMinutes"`
	Scan         Analysis `json:"scan"`
}

// AnalysisWithSarif pairs analysis metadata with its full SARIF payload.
type AnalysisWithSarif struct {
	AnalysisWithAge
	Sarif *sarif.Log `json:"sarif"`
}

// AnalysisComparison holds the two resolved sides of a comparison. Head is
// the newer analysis, base the older one.
type AnalysisComparison struct {
	Repo github.Repo       `json:"repo"`
	Head AnalysisWithSarif `json:"head"`
	Base AnalysisWithSarif `json:"base"`
}

// CodeScanning resolves analyses and alerts through the API client.
type CodeScanning struct {
	client *github.Client
	logger *zap.SugaredLogger
	now    func() time.Time
}

func New(client *github.Client, logger *zap.SugaredLogger) *CodeScanning {
	return &CodeScanning{client: client, logger: logger, now: time.Now}
}

// Analyses lists every analysis matching the filter, newest first. The API
// client must return results newest-first (the API default sort); no
// client-side reordering happens here. A 404 resolves to an empty list.
func (cs *CodeScanning) Analyses(ctx context.Context, repo github.Repo, filter *AnalysisFilter) ([]Analysis, error) {
	q := url.Values{}
	if filter != nil {
		q = filter.query()
	}

	path := fmt.Sprintf("repos/%s/%s/code-scanning/analyses", repo.Owner, repo.Repo)
	analyses, err := github.Paginate[Analysis](ctx, cs.client, path, q)
	if err != nil {
		if github.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}

	if filter != nil && filter.Category != "" {
		filtered := analyses[:0]
		for _, a := range analyses {
			if a.Category == filter.Category {
				filtered = append(filtered, a)
			}
		}
		analyses = filtered
	}
	return analyses, nil
}

// LatestAnalysis resolves the most recent analysis matching the filter, or
// nil when none match. Element zero of the listing is taken as latest.
func (cs *CodeScanning) LatestAnalysis(ctx context.Context, repo github.Repo, filter *AnalysisFilter) (*AnalysisWithAge, error) {
	analyses, err := cs.Analyses(ctx, repo, filter)
	if err != nil {
		return nil, err
	}
	return latestAnalysisData(analyses, cs.now()), nil
}

// LatestAnalysisWithSarif resolves the latest analysis and, only when one was
// found, fetches its SARIF payload. Metadata first, payload second: the
// payload fetch is the expensive call and is only worth making once latest is
// known.
func (cs *CodeScanning) LatestAnalysisWithSarif(ctx context.Context, repo github.Repo, filter *AnalysisFilter) (*AnalysisWithSarif, error) {
	latest, err := cs.LatestAnalysis(ctx, repo, filter)
	if err != nil || latest == nil {
		return nil, err
	}

	payload, err := cs.AnalysisSarif(ctx, repo, latest.Scan.ID)
	if err != nil {
		return nil, err
	}
	return &AnalysisWithSarif{AnalysisWithAge: *latest, Sarif: payload}, nil
}

// Analysis fetches one analysis by id; a 404 resolves to nil.
func (cs *CodeScanning) Analysis(ctx context.Context, repo github.Repo, id int64) (*Analysis, error) {
	var analysis Analysis
	path := fmt.Sprintf("repos/%s/%s/code-scanning/analyses/%d", repo.Owner, repo.Repo, id)
	if err := cs.client.Get(ctx, path, nil, github.AcceptJSON, &analysis); err != nil {
		if github.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return &analysis, nil
}

// AnalysisSarif fetches the machine-readable payload of one analysis via
// content negotiation; a 404 resolves to nil.
func (cs *CodeScanning) AnalysisSarif(ctx context.Context, repo github.Repo, id int64) (*sarif.Log, error) {
	var payload sarif.Log
	path := fmt.Sprintf("repos/%s/%s/code-scanning/analyses/%d", repo.Owner, repo.Repo, id)
	if err := cs.client.Get(ctx, path, nil, github.AcceptSarif, &payload); err != nil {
		if github.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return &payload, nil
}

// CompareAnalyses resolves metadata and SARIF payloads for the head and base
// analysis ids. The four fetches run concurrently and join all-or-nothing. A
// head or base that cannot be re-resolved individually is a hard failure
// naming the missing side.
func (cs *CodeScanning) CompareAnalyses(ctx context.Context, repo github.Repo, headID, baseID int64) (*AnalysisComparison, error) {
	var (
		headMeta, baseMeta   *Analysis
		headSarif, baseSarif *sarif.Log
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		headMeta, err = cs.Analysis(gctx, repo, headID)
		return err
	})
	g.Go(func() (err error) {
		headSarif, err = cs.AnalysisSarif(gctx, repo, headID)
		return err
	})
	g.Go(func() (err error) {
		baseMeta, err = cs.Analysis(gctx, repo, baseID)
		return err
	})
	g.Go(func() (err error) {
		baseSarif, err = cs.AnalysisSarif(gctx, repo, baseID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	now := cs.now()
	head := wrapAnalysis(headMeta, now)
	if head == nil {
		return nil, &MissingAnalysisError{Side: "head", AnalysisID: headID, Repo: repo}
	}
	base := wrapAnalysis(baseMeta, now)
	if base == nil {
		return nil, &MissingAnalysisError{Side: "base", AnalysisID: baseID, Repo: repo}
	}

	return &AnalysisComparison{
		Repo: repo,
		Head: AnalysisWithSarif{AnalysisWithAge: *head, Sarif: headSarif},
		Base: AnalysisWithSarif{AnalysisWithAge: *base, Sarif: baseSarif},
	}, nil
}

// CompareLatestAnalyses resolves the two most recent analyses matching the
// filter and compares them, head = result[0], base = result[1].
func (cs *CodeScanning) CompareLatestAnalyses(ctx context.Context, repo github.Repo, filter AnalysisFilter) (*AnalysisComparison, error) {
	analyses, err := cs.Analyses(ctx, repo, &filter)
	if err != nil {
		return nil, err
	}
	if len(analyses) < 2 {
		return nil, &NotEnoughAnalysesError{Repo: repo, Filter: filter}
	}
	return cs.CompareAnalyses(ctx, repo, analyses[0].ID, analyses[1].ID)
}

// OpenAlerts lists the open code scanning alerts grouped by tool.
func (cs *CodeScanning) OpenAlerts(ctx context.Context, repo github.Repo) (*Results, error) {
	return cs.alerts(ctx, repo, "open")
}

// ClosedAlerts lists the dismissed code scanning alerts grouped by tool.
func (cs *CodeScanning) ClosedAlerts(ctx context.Context, repo github.Repo) (*Results, error) {
	return cs.alerts(ctx, repo, "dismissed")
}

func (cs *CodeScanning) alerts(ctx context.Context, repo github.Repo, state string) (*Results, error) {
	q := url.Values{}
	q.Set("state", state)

	path := fmt.Sprintf("repos/%s/%s/code-scanning/alerts", repo.Owner, repo.Repo)
	raw, err := github.Paginate[alertResponse](ctx, cs.client, path, q)
	if err != nil && !github.IsNotFound(err) {
		return nil, err
	}

	results := NewResults()
	for _, alert := range raw {
		results.AddAlert(newAlert(alert))
	}
	return results, nil
}

// latestAnalysisData wraps element zero of a newest-first listing with its
// age. An analysis without a creation timestamp is invalid for latest
// selection and yields nil.
func latestAnalysisData(analyses []Analysis, now time.Time) *AnalysisWithAge {
	if len(analyses) == 0 {
		return nil
	}
	return wrapAnalysis(&analyses[0], now)
}

func wrapAnalysis(a *Analysis, now time.Time) *AnalysisWithAge {
	if a == nil || a.CreatedAt.IsZero() {
		return nil
	}
	return &AnalysisWithAge{
		AgeInMinutes: now.Sub(a.CreatedAt).Milliseconds() / 1000 / 60,
		Scan:         *a,
	}
}
