package config

import (
	"fmt"
	"strings"

	yaml "gopkg.in/yaml.v2"
)

// DefaultBranchName is used when the configuration doesn't set branch-name
const DefaultBranchName = "main"

// Configuration is the step configuration file read from the source repository
type Configuration struct {
	RepoName   string `yaml:"repo-name"`
	OutputFile string `yaml:"output-file"`
	RecordFile string `yaml:"record-file"`
	BranchName string `yaml:"branch-name,omitempty"`

	// When holds an optional expression that has to evaluate to true for the record to be written
	When string `yaml:"when,omitempty"`
}

// ConfigurationError is returned when the configuration document is malformed or misses a required key
type ConfigurationError struct {
	Key    string
	Reason string
}

func (e *ConfigurationError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("%v %v", e.Key, e.Reason)
	}
	return e.Reason
}

// ParseConfiguration parses and validates the configuration document
func ParseConfiguration(text string) (config Configuration, err error) {

	var document interface{}
	if err = yaml.Unmarshal([]byte(text), &document); err != nil {
		return config, &ConfigurationError{Reason: fmt.Sprintf("configuration is not valid yaml: %v", err)}
	}

	if _, ok := document.(map[interface{}]interface{}); !ok {
		return config, &ConfigurationError{Reason: fmt.Sprintf("configuration should be a mapping, got %v", describe(document))}
	}

	if err = yaml.Unmarshal([]byte(text), &config); err != nil {
		return config, &ConfigurationError{Reason: fmt.Sprintf("configuration has unexpected values: %v", err)}
	}

	if err = config.Validate(); err != nil {
		return config, err
	}

	return config, nil
}

// Validate checks that all required keys are set
func (c Configuration) Validate() error {

	required := []struct {
		key   string
		value string
	}{
		{"repo-name", c.RepoName},
		{"output-file", c.OutputFile},
		{"record-file", c.RecordFile},
	}

	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return &ConfigurationError{Key: r.key, Reason: "missing from config file"}
		}
	}

	// both files go into one commit, so they can't share a path
	if strings.Trim(c.RecordFile, "/") == strings.Trim(c.OutputFile, "/") {
		return &ConfigurationError{Key: "output-file", Reason: fmt.Sprintf("can't be the same file as record-file %v", c.RecordFile)}
	}

	return nil
}

// BranchNameOrDefault returns the branch to commit to
func (c Configuration) BranchNameOrDefault() string {
	if c.BranchName != "" {
		return c.BranchName
	}
	return DefaultBranchName
}

func describe(document interface{}) string {
	switch document.(type) {
	case nil:
		return "an empty document"
	case []interface{}:
		return "a list"
	default:
		return fmt.Sprintf("a scalar of type %T", document)
	}
}
