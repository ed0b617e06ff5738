// Package sarif models the subset of SARIF 2.1.0 returned by the code
// scanning analysis endpoint when the machine-readable representation is
// requested.
package sarif

// Log is the top-level SARIF document.
type Log struct {
	Version string `json:"version"`
	Schema  string `json:"$schema,omitempty"`
	Runs    []Run  `json:"runs"`
}

// Run captures one tool execution: the tool definition (driver plus any
// extension packs carrying rules), the scanned artifacts and the results.
type Run struct {
	Tool      Tool       `json:"tool"`
	Artifacts []Artifact `json:"artifacts,omitempty"`
	Results   []Result   `json:"results"`
}

type Tool struct {
	Driver     Driver      `json:"driver"`
	Extensions []Extension `json:"extensions,omitempty"`
}

type Driver struct {
	Name            string `json:"name"`
	Version         string `json:"version,omitempty"`
	SemanticVersion string `json:"semanticVersion,omitempty"`
	Rules           []Rule `json:"rules,omitempty"`
}

// Extension is a rule pack shipped alongside the driver. CodeQL publishes its
// query suites as extensions, so the effective rule catalog of a run is the
// concatenation of every extension's rules.
type Extension struct {
	Name            string `json:"name"`
	SemanticVersion string `json:"semanticVersion,omitempty"`
	Rules           []Rule `json:"rules,omitempty"`
}

type Rule struct {
	ID               string          `json:"id"`
	Name             string          `json:"name,omitempty"`
	ShortDescription *Message        `json:"shortDescription,omitempty"`
	FullDescription  *Message        `json:"fullDescription,omitempty"`
	DefaultLevel     string          `json:"defaultConfiguration,omitempty"`
	Properties       *RuleProperties `json:"properties,omitempty"`
}

type RuleProperties struct {
	ID               string   `json:"id,omitempty"`
	Name             string   `json:"name,omitempty"`
	Kind             string   `json:"kind,omitempty"`
	Precision        string   `json:"precision,omitempty"`
	ProblemSeverity  string   `json:"problem.severity,omitempty"`
	SecuritySeverity string   `json:"security-severity,omitempty"`
	Tags             []string `json:"tags,omitempty"`
}

// IsSecurityRule reports whether the rule is tagged as a security query.
func (r Rule) IsSecurityRule() bool {
	if r.Properties == nil {
		return false
	}
	for _, tag := range r.Properties.Tags {
		if tag == "security" {
			return true
		}
	}
	return false
}

// Result is one finding instance. CorrelationGUID is the tool-assigned
// identifier that stays stable for the same logical finding across runs.
type Result struct {
	RuleID          string     `json:"ruleId"`
	RuleIndex       *int       `json:"ruleIndex,omitempty"`
	CorrelationGUID string     `json:"correlationGuid"`
	GUID            string     `json:"guid,omitempty"`
	Level           string     `json:"level,omitempty"`
	Message         Message    `json:"message"`
	Locations       []Location `json:"locations,omitempty"`
}

type Message struct {
	Text string `json:"text"`
}

type Location struct {
	PhysicalLocation PhysicalLocation `json:"physicalLocation"`
}

type PhysicalLocation struct {
	ArtifactLocation ArtifactLocation `json:"artifactLocation"`
	Region           *Region          `json:"region,omitempty"`
}

type ArtifactLocation struct {
	URI   string `json:"uri"`
	Index *int   `json:"index,omitempty"`
}

type Region struct {
	StartLine   int `json:"startLine,omitempty"`
	StartColumn int `json:"startColumn,omitempty"`
	EndLine     int `json:"endLine,omitempty"`
	EndColumn   int `json:"endColumn,omitempty"`
}

// Artifact is one scanned file location.
type Artifact struct {
	Location ArtifactLocation `json:"location"`
}
