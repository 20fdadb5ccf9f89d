package config

import (
	"fmt"
	"strings"
)

// IssueSeverity represents the severity of a configuration issue.
type IssueSeverity string

const (
	// SeverityError blocks execution.
	SeverityError IssueSeverity = "error"
	// SeverityWarning is surfaced but does not block execution.
	SeverityWarning IssueSeverity = "warning"
)

// Issue describes a single validation finding.
//
// Path is a dotted path into the config (e.g. "storage.kind").
type Issue struct {
	Severity IssueSeverity
	Path     string
	Message  string
}

func (i Issue) Error() string {
	return fmt.Sprintf("%s at %s: %s", i.Severity, i.Path, i.Message)
}

// Errors returns only the blocking issues.
func Errors(issues []Issue) []Issue {
	var out []Issue
	for _, iss := range issues {
		if iss.Severity == SeverityError {
			out = append(out, iss)
		}
	}
	return out
}

// Validate performs static checks over cfg. knownKinds lists the registered
// storage kinds; pass nil to skip that check.
func Validate(cfg Config, knownKinds []string) []Issue {
	var issues []Issue

	if strings.TrimSpace(cfg.Job) == "" {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "job",
			Message:  "job is empty; metrics will be pushed without a job label",
		})
	}
	issues = append(issues, validateParser(cfg.Parser)...)
	issues = append(issues, validateStorage(cfg.Storage, knownKinds)...)
	issues = append(issues, validateRuntime(cfg.Runtime)...)
	issues = append(issues, validateMetrics(cfg.Metrics)...)
	return issues
}

func validateParser(p Parser) []Issue {
	var issues []Issue
	if v, ok := p.Options["comma"]; ok {
		s, isString := v.(string)
		if !isString || len([]rune(s)) != 1 {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     "parser.options.comma",
				Message:  fmt.Sprintf("comma must be a single character, got %v", v),
			})
		}
	}
	for src, dst := range p.Options.StringMap("header_map") {
		if strings.TrimSpace(dst) == "" {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     "parser.options.header_map",
				Message:  fmt.Sprintf("header %q maps to an empty column name", src),
			})
		}
	}
	return issues
}

func validateStorage(s Storage, knownKinds []string) []Issue {
	var issues []Issue

	if strings.TrimSpace(s.Kind) == "" {
		return append(issues, Issue{
			Severity: SeverityError,
			Path:     "storage.kind",
			Message:  "storage.kind must not be empty",
		})
	}
	if knownKinds != nil && !contains(knownKinds, s.Kind) {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "storage.kind",
			Message:  fmt.Sprintf("unknown storage kind %q (registered: %s)", s.Kind, strings.Join(knownKinds, ", ")),
		})
	}
	if strings.TrimSpace(s.DSN) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "storage.dsn",
			Message:  "storage.dsn must not be empty",
		})
	}
	if !s.AutoCreateTables {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "storage.auto_create_tables",
			Message:  "tables are not created automatically; they must already exist",
		})
	}
	return issues
}

func validateRuntime(r RuntimeConfig) []Issue {
	if r.ExportWorkers < 0 {
		return []Issue{{
			Severity: SeverityError,
			Path:     "runtime.export_workers",
			Message:  "export_workers must not be negative",
		}}
	}
	if r.ExportWorkers == 0 {
		return []Issue{{
			Severity: SeverityWarning,
			Path:     "runtime.export_workers",
			Message:  "export_workers=0; tables will be exported one at a time",
		}}
	}
	return nil
}

func validateMetrics(m Metrics) []Issue {
	switch strings.ToLower(m.Backend) {
	case "", "none":
	case "prom", "prometheus", "pushgateway":
		if m.PushgatewayURL == "" {
			return []Issue{{
				Severity: SeverityWarning,
				Path:     "metrics.pushgateway_url",
				Message:  "prometheus backend without pushgateway_url; http://localhost:9091 is used",
			}}
		}
	case "datadog", "dogstatsd":
		if m.DatadogAddr == "" {
			return []Issue{{
				Severity: SeverityWarning,
				Path:     "metrics.datadog_addr",
				Message:  "datadog backend without datadog_addr; 127.0.0.1:8125 is used",
			}}
		}
	default:
		return []Issue{{
			Severity: SeverityError,
			Path:     "metrics.backend",
			Message:  fmt.Sprintf("unknown metrics backend %q", m.Backend),
		}}
	}
	return nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
