// Package dependencies collects the software composition side of a report:
// the dependency inventory from the dependency graph SBOM and the open
// vulnerability alerts from Dependabot.
package dependencies

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/advanced-security/security-report-action/internal/github"
	"github.com/advanced-security/security-report-action/internal/model"
)

// Dependency is one package from the repository's dependency inventory.
type Dependency struct {
	Name      string `json:"name"`
	Version   string `json:"version,omitempty"`
	Ecosystem string `json:"ecosystem,omitempty"`
	License   string `json:"license,omitempty"`
}

// DependencySet groups dependencies under one inventory source.
type DependencySet struct {
	Name         string       `json:"name"`
	Count        int          `json:"count"`
	Dependencies []Dependency `json:"dependencies"`
}

// Vulnerability is one Dependabot alert.
type Vulnerability struct {
	Number         int            `json:"number"`
	State          string         `json:"state"`
	PackageName    string         `json:"packageName"`
	Ecosystem      string         `json:"ecosystem"`
	ManifestPath   string         `json:"manifestPath"`
	Severity       model.Severity `json:"severity"`
	GHSAID         string         `json:"ghsaId,omitempty"`
	CVEID          string         `json:"cveId,omitempty"`
	Summary        string         `json:"summary"`
	VersionRange   string         `json:"versionRange,omitempty"`
	FirstPatched   string         `json:"firstPatched,omitempty"`
	URL            string         `json:"url"`
	CreatedAt      time.Time      `json:"createdAt"`
	DismissedAt    *time.Time     `json:"dismissedAt,omitempty"`
	DismissReason  string         `json:"dismissReason,omitempty"`
	DismissComment string         `json:"dismissComment,omitempty"`
}

type sbomResponse struct {
	SBOM struct {
		Name     string `json:"name"`
		Packages []struct {
			Name         string `json:"name"`
			Version      string `json:"versionInfo"`
			LicenseDecl  string `json:"licenseDeclared"`
			ExternalRefs []struct {
				Type    string `json:"referenceType"`
				Locator string `json:"referenceLocator"`
			} `json:"externalRefs"`
		} `json:"packages"`
	} `json:"sbom"`
}

type dependabotAlertResponse struct {
	Number     int    `json:"number"`
	State      string `json:"state"`
	Dependency struct {
		Package struct {
			Ecosystem string `json:"ecosystem"`
			Name      string `json:"name"`
		} `json:"package"`
		ManifestPath string `json:"manifest_path"`
	} `json:"dependency"`
	SecurityAdvisory struct {
		GHSAID   string `json:"ghsa_id"`
		CVEID    string `json:"cve_id"`
		Summary  string `json:"summary"`
		Severity string `json:"severity"`
	} `json:"security_advisory"`
	SecurityVulnerability struct {
		Severity               string `json:"severity"`
		VulnerableVersionRange string `json:"vulnerable_version_range"`
		FirstPatchedVersion    *struct {
			Identifier string `json:"identifier"`
		} `json:"first_patched_version"`
	} `json:"security_vulnerability"`
	HTMLURL          string     `json:"html_url"`
	CreatedAt        time.Time  `json:"created_at"`
	DismissedAt      *time.Time `json:"dismissed_at"`
	DismissedReason  string     `json:"dismissed_reason"`
	DismissedComment string     `json:"dismissed_comment"`
}

// Dependencies fetches dependency and vulnerability data for a repository.
type Dependencies struct {
	client *github.Client
	logger *zap.SugaredLogger
}

func New(client *github.Client, logger *zap.SugaredLogger) *Dependencies {
	return &Dependencies{client: client, logger: logger}
}

// AllDependencies fetches the SBOM and folds its packages into dependency
// sets keyed by ecosystem. A 404 (dependency graph disabled) resolves to an
// empty inventory.
func (d *Dependencies) AllDependencies(ctx context.Context, repo github.Repo) ([]DependencySet, error) {
	var sbom sbomResponse
	path := fmt.Sprintf("repos/%s/%s/dependency-graph/sbom", repo.Owner, repo.Repo)
	if err := d.client.Get(ctx, path, nil, github.AcceptJSON, &sbom); err != nil {
		if github.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}

	grouped := make(map[string][]Dependency)
	var order []string
	for _, pkg := range sbom.SBOM.Packages {
		dep := Dependency{Name: pkg.Name, Version: pkg.Version}
		if pkg.LicenseDecl != "" && pkg.LicenseDecl != "NOASSERTION" {
			dep.License = pkg.LicenseDecl
		}
		for _, ref := range pkg.ExternalRefs {
			if ref.Type == "purl" {
				dep.Ecosystem = purlEcosystem(ref.Locator)
				break
			}
		}
		key := dep.Ecosystem
		if key == "" {
			key = "unknown"
		}
		if _, seen := grouped[key]; !seen {
			order = append(order, key)
		}
		grouped[key] = append(grouped[key], dep)
	}

	sets := make([]DependencySet, 0, len(order))
	for _, key := range order {
		sets = append(sets, DependencySet{
			Name:         key,
			Count:        len(grouped[key]),
			Dependencies: grouped[key],
		})
	}
	return sets, nil
}

// AllVulnerabilities lists every Dependabot alert for the repository. A 404
// (alerts disabled or inaccessible) resolves to an empty list.
func (d *Dependencies) AllVulnerabilities(ctx context.Context, repo github.Repo) ([]Vulnerability, error) {
	q := url.Values{}
	q.Set("state", "open")

	path := fmt.Sprintf("repos/%s/%s/dependabot/alerts", repo.Owner, repo.Repo)
	raw, err := github.Paginate[dependabotAlertResponse](ctx, d.client, path, q)
	if err != nil {
		if github.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}

	vulnerabilities := make([]Vulnerability, 0, len(raw))
	for _, alert := range raw {
		v := Vulnerability{
			Number:         alert.Number,
			State:          alert.State,
			PackageName:    alert.Dependency.Package.Name,
			Ecosystem:      alert.Dependency.Package.Ecosystem,
			ManifestPath:   alert.Dependency.ManifestPath,
			Severity:       model.NormalizeSeverity(alert.SecurityVulnerability.Severity),
			GHSAID:         alert.SecurityAdvisory.GHSAID,
			CVEID:          alert.SecurityAdvisory.CVEID,
			Summary:        alert.SecurityAdvisory.Summary,
			VersionRange:   alert.SecurityVulnerability.VulnerableVersionRange,
			URL:            alert.HTMLURL,
			CreatedAt:      alert.CreatedAt,
			DismissedAt:    alert.DismissedAt,
			DismissReason:  alert.DismissedReason,
			DismissComment: alert.DismissedComment,
		}
		if alert.SecurityVulnerability.FirstPatchedVersion != nil {
			v.FirstPatched = alert.SecurityVulnerability.FirstPatchedVersion.Identifier
		}
		vulnerabilities = append(vulnerabilities, v)
	}
	return vulnerabilities, nil
}

// purlEcosystem extracts the package type from a purl such as
// pkg:npm/lodash@4.17.21.
func purlEcosystem(purl string) string {
	trimmed := strings.TrimPrefix(purl, "pkg:")
	if idx := strings.IndexByte(trimmed, '/'); idx > 0 {
		return trimmed[:idx]
	}
	return ""
}
