// Package config loads request-collection files for the run command.
// Collections are JSON or YAML documents naming environments, requests,
// and suites of requests.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config represents the top-level collection file
type Config struct {
	Environments map[string]Environment `json:"environments" yaml:"environments"`
	Requests     map[string]Request     `json:"requests" yaml:"requests"`
	Suites       map[string]Suite       `json:"suites" yaml:"suites"`
}

// Environment represents an environment configuration
type Environment struct {
	BaseURL string            `json:"baseUrl" yaml:"baseUrl"`
	Headers map[string]string `json:"headers,omitempty" yaml:"headers,omitempty"`
	Vars    map[string]string `json:"variables,omitempty" yaml:"variables,omitempty"`
}

// Request represents a single request in a collection
type Request struct {
	URL          string            `json:"url" yaml:"url"`
	Method       string            `json:"method" yaml:"method"`
	Headers      map[string]string `json:"headers,omitempty" yaml:"headers,omitempty"`
	Cookies      map[string]string `json:"cookies,omitempty" yaml:"cookies,omitempty"`
	Query        map[string]string `json:"query,omitempty" yaml:"query,omitempty"`
	Fragment     string            `json:"fragment,omitempty" yaml:"fragment,omitempty"`
	Body         string            `json:"body,omitempty" yaml:"body,omitempty"`
	Form         map[string]string `json:"form,omitempty" yaml:"form,omitempty"`
	ExpectStatus int               `json:"expectStatus,omitempty" yaml:"expectStatus,omitempty"`
	Extract      map[string]string `json:"extract,omitempty" yaml:"extract,omitempty"`
	Schema       string            `json:"schema,omitempty" yaml:"schema,omitempty"`
}

// Suite represents an ordered list of requests executed together
type Suite struct {
	Requests []string          `json:"requests" yaml:"requests"`
	Vars     map[string]string `json:"variables,omitempty" yaml:"variables,omitempty"`
}

// Load loads a collection file, choosing the parser by file extension
// (.yaml/.yml for YAML, anything else JSON).
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("collection file not found: %s", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading collection file: %w", err)
	}

	var config Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("error parsing collection file: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("error parsing collection file: %w", err)
		}
	}

	if err := Validate(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// ExpandVars replaces {{name}} placeholders in input with values from vars
func ExpandVars(input string, vars map[string]string) string {
	result := input
	for key, value := range vars {
		result = strings.ReplaceAll(result, "{{"+key+"}}", value)
	}
	return result
}

// ExpandVarsInMap replaces {{name}} placeholders in every map value
func ExpandVarsInMap(input map[string]string, vars map[string]string) map[string]string {
	result := make(map[string]string, len(input))
	for key, value := range input {
		result[key] = ExpandVars(value, vars)
	}
	return result
}

// MergeVars merges two variable maps, with the second taking precedence
func MergeVars(base, override map[string]string) map[string]string {
	result := make(map[string]string, len(base)+len(override))
	for key, value := range base {
		result[key] = value
	}
	for key, value := range override {
		result[key] = value
	}
	return result
}
