// Package config defines the JSON-serializable configuration of the corpis
// CLI. A config file is optional; every field has a default and the common
// ones can be overridden from the environment or flags.
//
// Example:
//
//	{
//	  "job":     "corpis",
//	  "parser":  { "options": { "comma": ";", "header_map": { "ФИО сотрудника": "фио" } } },
//	  "storage": { "kind": "postgres", "dsn": "postgres://corpis@localhost/corpis", "auto_create_tables": true },
//	  "runtime": { "export_workers": 4 },
//	  "metrics": { "backend": "prom", "pushgateway_url": "http://localhost:9091" }
//	}
package config

import "encoding/json"

// Config is the top-level object decoded from a config file.
type Config struct {
	// Job labels metrics and log lines.
	Job string `json:"job"`

	// Parser tunes the table readers.
	Parser Parser `json:"parser"`

	// Storage selects the entity store backend.
	Storage Storage `json:"storage"`

	Runtime RuntimeConfig `json:"runtime"`
	Metrics Metrics       `json:"metrics"`
}

// Parser carries reader options. Recognised keys:
//
//	comma (string), lazy_quotes (bool), header_map (object: source header -> column)
type Parser struct {
	Options Options `json:"options"`
}

// Storage selects the entity store.
type Storage struct {
	// Kind is a registered storage kind: sqlite, postgres, pq, mysql, mssql.
	Kind string `json:"kind"`

	// DSN is the backend specific connection string.
	DSN string `json:"dsn"`

	// AutoCreateTables creates missing tables before import or export.
	AutoCreateTables bool `json:"auto_create_tables"`
}

// RuntimeConfig controls concurrency.
type RuntimeConfig struct {
	// ExportWorkers bounds how many tables export-all writes at once.
	ExportWorkers int `json:"export_workers"`
}

// Metrics selects the metrics backend.
type Metrics struct {
	// Backend is "none", "prom" or "datadog".
	Backend        string `json:"backend"`
	PushgatewayURL string `json:"pushgateway_url"`
	DatadogAddr    string `json:"datadog_addr"`
}

// Default returns the configuration used when no file is given: a local
// SQLite database that is created on first use.
func Default() Config {
	return Config{
		Job:     "corpis",
		Parser:  Parser{Options: Options{}},
		Storage: Storage{Kind: "sqlite", DSN: "file:corpis.db", AutoCreateTables: true},
		Runtime: RuntimeConfig{ExportWorkers: 4},
		Metrics: Metrics{Backend: "none"},
	}
}

// Options is a small helper to fetch typed values from arbitrary JSON maps.
// It performs only minimal type coercion and returns the provided default
// when a key is absent or of an unexpected type.
type Options map[string]any

// String returns the string value for key or def if key is missing or not a string.
func (o Options) String(key, def string) string {
	if v, ok := o[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return def
}

// Bool returns the bool value for key or def if key is missing or not a bool.
func (o Options) Bool(key string, def bool) bool {
	if v, ok := o[key]; ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return def
}

// Int returns the int value for key or def. JSON numbers decode as float64,
// which is accepted and truncated.
func (o Options) Int(key string, def int) int {
	if v, ok := o[key]; ok {
		switch n := v.(type) {
		case float64:
			return int(n)
		case int:
			return n
		}
	}
	return def
}

// Rune returns the first rune of a string value for key, or def if key is
// missing or empty.
func (o Options) Rune(key string, def rune) rune {
	if v, ok := o[key]; ok {
		if s, ok := v.(string); ok && len(s) > 0 {
			return []rune(s)[0]
		}
	}
	return def
}

// StringMap returns a map[string]string for key when the value is an object.
// Non-string values are ignored; a missing key yields an empty map.
func (o Options) StringMap(key string) map[string]string {
	res := map[string]string{}
	if v, ok := o[key]; ok {
		switch m := v.(type) {
		case map[string]any:
			for k, vv := range m {
				if s, ok := vv.(string); ok {
					res[k] = s
				}
			}
		case map[string]string:
			for k, s := range m {
				res[k] = s
			}
		}
	}
	return res
}

// UnmarshalJSON decodes a missing or null object to an empty, non-nil map.
func (o *Options) UnmarshalJSON(b []byte) error {
	var tmp map[string]any
	if len(b) == 0 || string(b) == "null" {
		*o = Options{}
		return nil
	}
	if err := json.Unmarshal(b, &tmp); err != nil {
		return err
	}
	*o = Options(tmp)
	return nil
}
