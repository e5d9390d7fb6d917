package github

import (
	"encoding/base64"
	"strings"

	contracts "github.com/estafette/estafette-ci-contracts"
	"github.com/pkg/errors"
)

// User is the account a token acts as
type User struct {
	Login string `json:"login"`
	ID    int64  `json:"id"`
}

// FileContent is a file as returned by the contents api
type FileContent struct {
	Type     string `json:"type"`
	Path     string `json:"path"`
	SHA      string `json:"sha"`
	Encoding string `json:"encoding"`
	Content  string `json:"content"`
}

// Decode returns the file's text, undoing the transport encoding
func (fc FileContent) Decode() (string, error) {
	switch fc.Encoding {
	case "base64":
		// the api wraps base64 content at 60 characters
		data, err := base64.StdEncoding.DecodeString(strings.NewReplacer("\n", "", "\r", "").Replace(fc.Content))
		if err != nil {
			return "", errors.Wrapf(err, "Failed decoding base64 content of %v", fc.Path)
		}
		return string(data), nil
	case "", "utf-8":
		return fc.Content, nil
	default:
		return "", errors.Errorf("Content of %v has unsupported encoding %v", fc.Path, fc.Encoding)
	}
}

// BranchHead is the commit a branch points at; for a branch that doesn't exist yet it is the head of the default branch and Exists is false
type BranchHead struct {
	Branch string
	SHA    string
	Exists bool
}

// CommitChanges are files written in a single commit, keyed by path
type CommitChanges struct {
	Message string
	Files   map[string]string
}

// Commit is a commit created through the git data api
type Commit struct {
	SHA     string              `json:"sha"`
	HTMLURL string              `json:"html_url"`
	Message string              `json:"message"`
	Author  contracts.GitAuthor `json:"author"`
}

// GitCommit returns the commit summary as used across estafette
func (c Commit) GitCommit() contracts.GitCommit {
	return contracts.GitCommit{
		Message: c.Message,
		Author:  c.Author,
	}
}

// IssueComment is a comment on an issue or pull request
type IssueComment struct {
	ID   int64  `json:"id"`
	Body string `json:"body"`
	User User   `json:"user"`
}

// Repository holds the repository fields needed to branch off
type Repository struct {
	Name          string `json:"name"`
	FullName      string `json:"full_name"`
	DefaultBranch string `json:"default_branch"`
}

type reference struct {
	Ref    string `json:"ref"`
	Object struct {
		SHA string `json:"sha"`
	} `json:"object"`
}

type gitCommit struct {
	SHA  string `json:"sha"`
	Tree struct {
		SHA string `json:"sha"`
	} `json:"tree"`
}

type tree struct {
	SHA string `json:"sha"`
}

type treeEntry struct {
	Path    string `json:"path"`
	Mode    string `json:"mode"`
	Type    string `json:"type"`
	Content string `json:"content"`
}

type createTreeParams struct {
	BaseTree string      `json:"base_tree"`
	Tree     []treeEntry `json:"tree"`
}

type createCommitParams struct {
	Message string   `json:"message"`
	Tree    string   `json:"tree"`
	Parents []string `json:"parents"`
}

type createRefParams struct {
	Ref string `json:"ref"`
	SHA string `json:"sha"`
}

type updateRefParams struct {
	SHA   string `json:"sha"`
	Force bool   `json:"force"`
}
