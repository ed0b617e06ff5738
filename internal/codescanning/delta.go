package codescanning

import "github.com/advanced-security/security-report-action/internal/sarif"

// Delta classifies entities of one category against a head/base pair: added
// is present only in head, removed only in base, existing in both. The three
// sets are disjoint for rules and results; for artifacts see CompareArtifacts.
type Delta struct {
	Added    []string `json:"added"`
	Removed  []string `json:"removed"`
	Existing []string `json:"existing"`
}

// ResultsDelta is the findings classification. Existing and added keep the
// head-side record; removed keeps the base-side record.
type ResultsDelta struct {
	Added    []sarif.Result `json:"added"`
	Removed  []sarif.Result `json:"removed"`
	Existing []sarif.Result `json:"existing"`
}

// AnalysisRef identifies one side of the summary.
type AnalysisRef struct {
	ID      int64  `json:"id"`
	SarifID string `json:"sarifId"`
}

type RulesSide struct {
	Count int          `json:"count"`
	Rules []sarif.Rule `json:"rules"`
}

type ArtifactsSide struct {
	Count     int              `json:"count"`
	Artifacts []sarif.Artifact `json:"artifacts"`
}

type ResultsSide struct {
	Count   int            `json:"count"`
	Results []sarif.Result `json:"results"`
}

type RulesSummary struct {
	Delta Delta     `json:"delta"`
	Head  RulesSide `json:"head"`
	Base  RulesSide `json:"base"`
}

type ArtifactsSummary struct {
	Delta Delta         `json:"delta"`
	Head  ArtifactsSide `json:"head"`
	Base  ArtifactsSide `json:"base"`
}

type ResultsSummary struct {
	Delta ResultsDelta `json:"delta"`
	Head  ResultsSide  `json:"head"`
	Base  ResultsSide  `json:"base"`
}

// DeltaSummary is the full comparison of two analyses across the three
// independent categories. No cross-category invariant is enforced: a removed
// artifact does not force its findings to be removed.
type DeltaSummary struct {
	Head      AnalysisRef      `json:"head"`
	Base      AnalysisRef      `json:"base"`
	Rules     RulesSummary     `json:"rules"`
	Artifacts ArtifactsSummary `json:"artifacts"`
	Results   ResultsSummary   `json:"results"`
}

// GetDeltaSummary computes the rules, artifacts and results deltas between
// the head and base payloads. Pure computation over run zero of each side.
func (c *AnalysisComparison) GetDeltaSummary() DeltaSummary {
	headRun := sarif.FirstRun(c.Head.Sarif)
	baseRun := sarif.FirstRun(c.Base.Sarif)

	headRules := sarif.Rules(headRun.Tool)
	baseRules := sarif.Rules(baseRun.Tool)

	headArtifacts := sarif.Artifacts(headRun)
	baseArtifacts := sarif.Artifacts(baseRun)

	return DeltaSummary{
		Head: AnalysisRef{ID: c.Head.Scan.ID, SarifID: c.Head.Scan.SarifID},
		Base: AnalysisRef{ID: c.Base.Scan.ID, SarifID: c.Base.Scan.SarifID},
		Rules: RulesSummary{
			Delta: CompareRules(headRules, baseRules),
			Head:  RulesSide{Count: len(headRules), Rules: headRules},
			Base:  RulesSide{Count: len(baseRules), Rules: baseRules},
		},
		Artifacts: ArtifactsSummary{
			Delta: CompareArtifacts(headArtifacts, baseArtifacts),
			Head:  ArtifactsSide{Count: len(headArtifacts), Artifacts: headArtifacts},
			Base:  ArtifactsSide{Count: len(baseArtifacts), Artifacts: baseArtifacts},
		},
		Results: ResultsSummary{
			Delta: CompareResults(headRun.Results, baseRun.Results),
			Head:  ResultsSide{Count: len(headRun.Results), Results: headRun.Results},
			Base:  ResultsSide{Count: len(baseRun.Results), Results: baseRun.Results},
		},
	}
}

// CompareRules classifies rule ids. A head id present in base is existing,
// otherwise added; a base id absent from head is removed.
func CompareRules(head, base []sarif.Rule) Delta {
	headIDs := make([]string, len(head))
	for i, r := range head {
		headIDs[i] = r.ID
	}
	baseIDs := make([]string, len(base))
	for i, r := range base {
		baseIDs[i] = r.ID
	}
	return compareIdentifiers(headIDs, baseIDs)
}

// CompareArtifacts classifies artifacts by URI only; the positional index
// does not identify an artifact. The existing set is always the full head
// URI list rather than the true intersection. That is the authoritative
// contract of the upstream system, kept verbatim and pinned by tests; do not
// "fix" it to the intersection.
func CompareArtifacts(head, base []sarif.Artifact) Delta {
	headURIs := make([]string, len(head))
	for i, a := range head {
		headURIs[i] = a.Location.URI
	}
	baseURIs := make([]string, len(base))
	for i, a := range base {
		baseURIs[i] = a.Location.URI
	}

	delta := compareIdentifiers(headURIs, baseURIs)
	delta.Existing = headURIs
	return delta
}

// CompareResults classifies findings by correlation identifier. Correlation
// ids are assumed unique within a side; when duplicates occur, later entries
// overwrite earlier ones in the lookup while classification order follows
// first occurrence.
func CompareResults(head, base []sarif.Result) ResultsDelta {
	headByID, headOrder := resultLookup(head)
	baseByID, baseOrder := resultLookup(base)

	delta := ResultsDelta{
		Added:    []sarif.Result{},
		Removed:  []sarif.Result{},
		Existing: []sarif.Result{},
	}

	for _, id := range headOrder {
		if _, ok := baseByID[id]; ok {
			delta.Existing = append(delta.Existing, headByID[id])
		} else {
			delta.Added = append(delta.Added, headByID[id])
		}
	}
	for _, id := range baseOrder {
		if _, ok := headByID[id]; !ok {
			delta.Removed = append(delta.Removed, baseByID[id])
		}
	}
	return delta
}

func resultLookup(results []sarif.Result) (map[string]sarif.Result, []string) {
	byID := make(map[string]sarif.Result, len(results))
	order := make([]string, 0, len(results))
	for _, r := range results {
		if _, seen := byID[r.CorrelationGUID]; !seen {
			order = append(order, r.CorrelationGUID)
		}
		byID[r.CorrelationGUID] = r
	}
	return byID, order
}

func compareIdentifiers(head, base []string) Delta {
	baseSet := make(map[string]struct{}, len(base))
	for _, id := range base {
		baseSet[id] = struct{}{}
	}
	headSet := make(map[string]struct{}, len(head))
	for _, id := range head {
		headSet[id] = struct{}{}
	}

	delta := Delta{Added: []string{}, Removed: []string{}, Existing: []string{}}
	for _, id := range head {
		if _, ok := baseSet[id]; ok {
			delta.Existing = append(delta.Existing, id)
		} else {
			delta.Added = append(delta.Added, id)
		}
	}
	for _, id := range base {
		if _, ok := headSet[id]; !ok {
			delta.Removed = append(delta.Removed, id)
		}
	}
	return delta
}
