package config

import (
	"fmt"
	"strings"
)

// StepInputs are the values handed to the step by the ci system
type StepInputs struct {
	RepoToken         string
	ConfigurationPath string
	ImageTag          string
	TargetToken       string

	// GitSource is the git host of the source repository, like github.com
	GitSource string
	// SourceOwner and SourceRepo point at the repository holding the configuration file; without an owner the token's user is assumed
	SourceOwner string
	SourceRepo  string
	// GitBranch is the branch being built, exposed to when expressions
	GitBranch string
	// PullRequestNumber enables a summary comment on that pull request when larger than zero
	PullRequestNumber int
}

// MissingInputError is returned when a required step input is absent
type MissingInputError struct {
	Input string
}

func (e *MissingInputError) Error() string {
	return fmt.Sprintf("Input required and not supplied: %v", e.Input)
}

// Validate checks that all required inputs have a value
func (i StepInputs) Validate() error {

	required := []struct {
		input string
		value string
	}{
		{"repo-token", i.RepoToken},
		{"configuration-path", i.ConfigurationPath},
		{"image-tag", i.ImageTag},
		{"target-token", i.TargetToken},
		{"source-repo", i.SourceRepo},
	}

	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return &MissingInputError{Input: r.input}
		}
	}

	return nil
}

// SourceRepoFullName returns owner/name when the owner is known, otherwise just the name
func (i StepInputs) SourceRepoFullName() string {
	if i.SourceOwner != "" {
		return i.SourceOwner + "/" + i.SourceRepo
	}
	return i.SourceRepo
}

// PipelineName returns source/owner/name as used to restrict secrets to a pipeline; it's empty while any part is unknown
func (i StepInputs) PipelineName() string {
	if i.GitSource == "" || i.SourceOwner == "" || i.SourceRepo == "" {
		return ""
	}
	return fmt.Sprintf("%v/%v/%v", i.GitSource, i.SourceOwner, i.SourceRepo)
}
