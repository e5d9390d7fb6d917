package repository

import (
	"context"
	"strings"

	"github.com/estafette/estafette-extension-image-record/clients/github"
	"github.com/opentracing/opentracing-go"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// Content is the outcome of fetching a file; Found is false when the file doesn't exist, which is different from an empty file
type Content struct {
	Text  string
	SHA   string
	Found bool
}

// Service reads from and commits to repositories with the identity of a single token
//go:generate mockgen -package=repository -destination ./mock.go -source=service.go
type Service interface {
	FetchContent(ctx context.Context, repo, path, ref string) (content Content, err error)
	ResolveBranch(ctx context.Context, repo, branch string) (head github.BranchHead, err error)
	CommitFiles(ctx context.Context, repo string, head github.BranchHead, message string, files map[string]string) (commit github.Commit, err error)
	UpsertPullRequestComment(ctx context.Context, repo string, number int, marker, body string) (err error)
}

// NewService returns a new repository.Service
func NewService(ctx context.Context, githubClient github.Client) (Service, error) {
	return &service{
		githubClient: githubClient,
	}, nil
}

type service struct {
	githubClient github.Client
}

func (s *service) FetchContent(ctx context.Context, repo, path, ref string) (content Content, err error) {

	span, ctx := opentracing.StartSpanFromContext(ctx, "FetchContent")
	defer span.Finish()
	span.SetTag("path", path)

	owner, name, err := s.resolveRepo(ctx, repo)
	if err != nil {
		return
	}

	fileContent, err := s.githubClient.GetContent(ctx, owner, name, path, ref)
	if errors.Is(err, github.ErrNotFound) {
		log.Warn().Msgf("File %v does not exist in %v/%v", path, owner, name)
		return Content{Found: false}, nil
	}
	if err != nil {
		log.Error().Err(err).Msgf("Fetching %v from %v/%v failed", path, owner, name)
		return
	}

	text, err := fileContent.Decode()
	if err != nil {
		log.Error().Err(err).Msgf("Decoding %v from %v/%v failed", path, owner, name)
		return
	}

	return Content{
		Text:  text,
		SHA:   fileContent.SHA,
		Found: true,
	}, nil
}

func (s *service) ResolveBranch(ctx context.Context, repo, branch string) (head github.BranchHead, err error) {

	span, ctx := opentracing.StartSpanFromContext(ctx, "ResolveBranch")
	defer span.Finish()
	span.SetTag("branch", branch)

	owner, name, err := s.resolveRepo(ctx, repo)
	if err != nil {
		return
	}

	head, err = s.githubClient.GetBranchHead(ctx, owner, name, branch)
	if err != nil {
		return head, errors.Wrapf(err, "Resolving branch %v of %v/%v failed", branch, owner, name)
	}

	return head, nil
}

func (s *service) CommitFiles(ctx context.Context, repo string, head github.BranchHead, message string, files map[string]string) (commit github.Commit, err error) {

	span, ctx := opentracing.StartSpanFromContext(ctx, "CommitFiles")
	defer span.Finish()
	span.SetTag("branch", head.Branch)

	owner, name, err := s.resolveRepo(ctx, repo)
	if err != nil {
		return
	}

	log.Info().Msgf("Committing %v files to branch %v of %v/%v on top of %v", len(files), head.Branch, owner, name, head.SHA)

	commit, err = s.githubClient.CommitFiles(ctx, owner, name, head, []github.CommitChanges{
		{
			Message: message,
			Files:   files,
		},
	})
	if err != nil {
		return commit, errors.Wrapf(err, "Committing to branch %v of %v/%v failed", head.Branch, owner, name)
	}

	return commit, nil
}

func (s *service) UpsertPullRequestComment(ctx context.Context, repo string, number int, marker, body string) (err error) {

	span, ctx := opentracing.StartSpanFromContext(ctx, "UpsertPullRequestComment")
	defer span.Finish()

	owner, name, err := s.resolveRepo(ctx, repo)
	if err != nil {
		return
	}

	user, err := s.githubClient.GetAuthenticatedUser(ctx)
	if err != nil {
		return
	}

	comments, err := s.githubClient.ListIssueComments(ctx, owner, name, number)
	if err != nil {
		return
	}

	// update the comment placed by an earlier run if there is one
	for _, c := range comments {
		if c.User.Login == user.Login && strings.HasPrefix(c.Body, marker) {
			log.Info().Msgf("Updating comment %v on %v/%v#%v", c.ID, owner, name, number)
			_, err = s.githubClient.UpdateIssueComment(ctx, owner, name, c.ID, body)
			return
		}
	}

	log.Info().Msgf("Creating comment on %v/%v#%v", owner, name, number)
	_, err = s.githubClient.CreateIssueComment(ctx, owner, name, number, body)

	return
}

// resolveRepo returns owner and name for repo; without an owner/ prefix the repository is assumed to belong to the token's user
func (s *service) resolveRepo(ctx context.Context, repo string) (owner, name string, err error) {

	repo = strings.Trim(repo, "/")
	if repo == "" {
		return "", "", errors.New("Repository name is empty")
	}

	if i := strings.Index(repo, "/"); i >= 0 {
		return repo[:i], repo[i+1:], nil
	}

	user, err := s.githubClient.GetAuthenticatedUser(ctx)
	if err != nil {
		return "", "", err
	}

	return user.Login, repo, nil
}
