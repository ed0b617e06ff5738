package report

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/advanced-security/security-report-action/internal/config"
	"github.com/advanced-security/security-report-action/internal/github"
)

// GeneratorConfig assembles everything a report run needs.
type GeneratorConfig struct {
	Repository string
	Ref        string
	SarifID    string

	Client *github.Client

	OutputDirectory string
	Format          string // "html", "json" or "all"

	Include config.IncludeOptions

	Logger *zap.SugaredLogger
}

// Generator drives one report run: collect, render, write.
type Generator struct {
	cfg GeneratorConfig
}

func NewGenerator(cfg GeneratorConfig) *Generator {
	return &Generator{cfg: cfg}
}

// Run collects the payload and writes the report files, returning the path of
// the primary output. Failures are logged and returned; no partial report is
// written on failure.
func (g *Generator) Run(ctx context.Context) (string, error) {
	cfg := g.cfg

	collector, err := NewDataCollector(cfg.Client, cfg.Logger, cfg.Repository, cfg.Ref, cfg.SarifID)
	if err != nil {
		return "", err
	}

	payload, err := collector.Payload(ctx, cfg.Include)
	if err != nil {
		cfg.Logger.Errorf("report generation failed: %v", err)
		return "", err
	}

	if err := os.MkdirAll(cfg.OutputDirectory, 0o755); err != nil {
		return "", fmt.Errorf("creating output directory %s: %w", cfg.OutputDirectory, err)
	}

	var primary string

	if cfg.Format == "json" || cfg.Format == "all" {
		data, err := payload.JSON()
		if err != nil {
			return "", fmt.Errorf("marshaling report payload: %w", err)
		}
		jsonPath := filepath.Join(cfg.OutputDirectory, "summary.json")
		if err := os.WriteFile(jsonPath, data, 0o644); err != nil {
			return "", fmt.Errorf("writing %s: %w", jsonPath, err)
		}
		primary = jsonPath
	}

	if cfg.Format == "html" || cfg.Format == "all" {
		html, err := Render(payload)
		if err != nil {
			return "", fmt.Errorf("rendering report: %w", err)
		}
		htmlPath := filepath.Join(cfg.OutputDirectory, "summary.html")
		if err := os.WriteFile(htmlPath, html, 0o644); err != nil {
			return "", fmt.Errorf("writing %s: %w", htmlPath, err)
		}
		primary = htmlPath
	}

	if primary == "" {
		return "", fmt.Errorf("unsupported report format: %s", cfg.Format)
	}
	return primary, nil
}
