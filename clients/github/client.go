package github

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"io/ioutil"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/opentracing-contrib/go-stdlib/nethttp"
	"github.com/opentracing/opentracing-go"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/sethgrid/pester"
)

// DefaultAPIBaseURL points at the public github api
const DefaultAPIBaseURL = "https://api.github.com"

// Client talks to the github api on behalf of a single token
//go:generate mockgen -package=github -destination ./mock.go -source=client.go
type Client interface {
	GetAuthenticatedUser(ctx context.Context) (user User, err error)
	GetContent(ctx context.Context, owner, repo, path, ref string) (content FileContent, err error)
	GetBranchHead(ctx context.Context, owner, repo, branch string) (head BranchHead, err error)
	CommitFiles(ctx context.Context, owner, repo string, head BranchHead, changes []CommitChanges) (commit Commit, err error)
	ListIssueComments(ctx context.Context, owner, repo string, number int) (comments []IssueComment, err error)
	CreateIssueComment(ctx context.Context, owner, repo string, number int, body string) (comment IssueComment, err error)
	UpdateIssueComment(ctx context.Context, owner, repo string, commentID int64, body string) (comment IssueComment, err error)
}

// NewClient returns a new github.Client
func NewClient(apiBaseURL, token string) (Client, error) {

	if token == "" {
		return nil, errors.New("Token is empty, a github token is needed to call the api")
	}
	if apiBaseURL == "" {
		apiBaseURL = DefaultAPIBaseURL
	}

	return &client{
		apiBaseURL: strings.TrimSuffix(apiBaseURL, "/"),
		token:      token,
		maxRetries: 3,
		timeout:    time.Second * 60,
	}, nil
}

type client struct {
	apiBaseURL string
	token      string
	maxRetries int
	timeout    time.Duration
}

func (c *client) GetAuthenticatedUser(ctx context.Context) (user User, err error) {

	span, ctx := opentracing.StartSpanFromContext(ctx, "GetAuthenticatedUser")
	defer span.Finish()

	err = c.callAPI(ctx, http.MethodGet, "/user", nil, &user)
	if err != nil {
		return user, errors.Wrap(err, "Failed retrieving authenticated user")
	}

	return user, nil
}

func (c *client) GetContent(ctx context.Context, owner, repo, path, ref string) (content FileContent, err error) {

	span, ctx := opentracing.StartSpanFromContext(ctx, "GetContent")
	defer span.Finish()
	span.SetTag("repo", fmt.Sprintf("%v/%v", owner, repo))
	span.SetTag("path", path)

	// without ref the api reads from the default branch
	contentPath := fmt.Sprintf("/repos/%v/%v/contents/%v", url.PathEscape(owner), url.PathEscape(repo), escapePath(path))
	if ref != "" {
		span.SetTag("ref", ref)
		contentPath += "?ref=" + url.QueryEscape(ref)
	}

	err = c.callAPI(ctx, http.MethodGet, contentPath, nil, &content)
	if err != nil {
		return content, errors.Wrapf(err, "Failed retrieving content of %v from %v/%v", path, owner, repo)
	}

	if content.Type != "" && content.Type != "file" {
		return content, errors.Errorf("Path %v in %v/%v is a %v, not a file", path, owner, repo, content.Type)
	}

	return content, nil
}

func (c *client) GetBranchHead(ctx context.Context, owner, repo, branch string) (head BranchHead, err error) {

	span, ctx := opentracing.StartSpanFromContext(ctx, "GetBranchHead")
	defer span.Finish()
	span.SetTag("repo", fmt.Sprintf("%v/%v", owner, repo))
	span.SetTag("branch", branch)

	head = BranchHead{
		Branch: branch,
		Exists: true,
	}

	head.SHA, err = c.getRef(ctx, owner, repo, branch)
	if err == nil {
		return head, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return head, err
	}

	// a missing branch starts at the head of the default branch
	repository, err := c.getRepository(ctx, owner, repo)
	if err != nil {
		return head, err
	}
	log.Info().Msgf("Branch %v does not exist in %v/%v, it will be created from %v", branch, owner, repo, repository.DefaultBranch)

	head.Exists = false
	head.SHA, err = c.getRef(ctx, owner, repo, repository.DefaultBranch)
	if err != nil {
		return head, err
	}

	return head, nil
}

func (c *client) CommitFiles(ctx context.Context, owner, repo string, head BranchHead, changes []CommitChanges) (commit Commit, err error) {

	span, ctx := opentracing.StartSpanFromContext(ctx, "CommitFiles")
	defer span.Finish()
	span.SetTag("repo", fmt.Sprintf("%v/%v", owner, repo))
	span.SetTag("branch", head.Branch)

	if len(changes) == 0 {
		return commit, errors.New("No changes to commit")
	}
	if head.Branch == "" || head.SHA == "" {
		return commit, errors.Errorf("Branch head for %v/%v is incomplete", owner, repo)
	}

	parentSHA := head.SHA
	for _, change := range changes {
		if len(change.Files) == 0 {
			return commit, errors.Errorf("Commit '%v' has no files", change.Message)
		}

		var baseTreeSHA, treeSHA string
		baseTreeSHA, err = c.getCommitTree(ctx, owner, repo, parentSHA)
		if err != nil {
			return
		}

		treeSHA, err = c.createTree(ctx, owner, repo, baseTreeSHA, change.Files)
		if err != nil {
			return
		}

		commit, err = c.createCommit(ctx, owner, repo, change.Message, treeSHA, parentSHA)
		if err != nil {
			return
		}

		parentSHA = commit.SHA
	}

	// both fail if another commit landed on the branch after head was read
	if head.Exists {
		err = c.updateBranch(ctx, owner, repo, head.Branch, commit.SHA)
	} else {
		err = c.createBranch(ctx, owner, repo, head.Branch, commit.SHA)
	}
	if err != nil {
		return
	}

	return commit, nil
}

func (c *client) ListIssueComments(ctx context.Context, owner, repo string, number int) (comments []IssueComment, err error) {

	span, ctx := opentracing.StartSpanFromContext(ctx, "ListIssueComments")
	defer span.Finish()

	comments = make([]IssueComment, 0)
	for page := 1; ; page++ {
		var pageComments []IssueComment
		err = c.callAPI(ctx, http.MethodGet, fmt.Sprintf("/repos/%v/%v/issues/%v/comments?per_page=100&page=%v", url.PathEscape(owner), url.PathEscape(repo), number, page), nil, &pageComments)
		if err != nil {
			return comments, errors.Wrapf(err, "Failed listing comments for %v/%v#%v", owner, repo, number)
		}

		comments = append(comments, pageComments...)

		if len(pageComments) < 100 {
			break
		}
	}

	return comments, nil
}

func (c *client) CreateIssueComment(ctx context.Context, owner, repo string, number int, body string) (comment IssueComment, err error) {

	span, ctx := opentracing.StartSpanFromContext(ctx, "CreateIssueComment")
	defer span.Finish()

	params := struct {
		Body string `json:"body"`
	}{body}

	err = c.callAPI(ctx, http.MethodPost, fmt.Sprintf("/repos/%v/%v/issues/%v/comments", url.PathEscape(owner), url.PathEscape(repo), number), params, &comment)
	if err != nil {
		return comment, errors.Wrapf(err, "Failed creating comment on %v/%v#%v", owner, repo, number)
	}

	return comment, nil
}

func (c *client) UpdateIssueComment(ctx context.Context, owner, repo string, commentID int64, body string) (comment IssueComment, err error) {

	span, ctx := opentracing.StartSpanFromContext(ctx, "UpdateIssueComment")
	defer span.Finish()

	params := struct {
		Body string `json:"body"`
	}{body}

	err = c.callAPI(ctx, http.MethodPatch, fmt.Sprintf("/repos/%v/%v/issues/comments/%v", url.PathEscape(owner), url.PathEscape(repo), commentID), params, &comment)
	if err != nil {
		return comment, errors.Wrapf(err, "Failed updating comment %v in %v/%v", commentID, owner, repo)
	}

	return comment, nil
}

func (c *client) getRepository(ctx context.Context, owner, repo string) (repository Repository, err error) {

	err = c.callAPI(ctx, http.MethodGet, fmt.Sprintf("/repos/%v/%v", url.PathEscape(owner), url.PathEscape(repo)), nil, &repository)
	if err != nil {
		return repository, errors.Wrapf(err, "Failed retrieving repository %v/%v", owner, repo)
	}
	if repository.DefaultBranch == "" {
		return repository, errors.Errorf("Repository %v/%v has no default branch", owner, repo)
	}

	return repository, nil
}

func (c *client) getRef(ctx context.Context, owner, repo, branch string) (sha string, err error) {

	var ref reference
	err = c.callAPI(ctx, http.MethodGet, fmt.Sprintf("/repos/%v/%v/git/ref/heads/%v", url.PathEscape(owner), url.PathEscape(repo), escapePath(branch)), nil, &ref)
	if err != nil {
		return "", errors.Wrapf(err, "Failed retrieving head of branch %v in %v/%v", branch, owner, repo)
	}

	return ref.Object.SHA, nil
}

func (c *client) getCommitTree(ctx context.Context, owner, repo, commitSHA string) (treeSHA string, err error) {

	var gc gitCommit
	err = c.callAPI(ctx, http.MethodGet, fmt.Sprintf("/repos/%v/%v/git/commits/%v", url.PathEscape(owner), url.PathEscape(repo), commitSHA), nil, &gc)
	if err != nil {
		return "", errors.Wrapf(err, "Failed retrieving commit %v in %v/%v", commitSHA, owner, repo)
	}

	return gc.Tree.SHA, nil
}

func (c *client) createTree(ctx context.Context, owner, repo, baseTreeSHA string, files map[string]string) (treeSHA string, err error) {

	// sort paths so the request is the same for the same set of files
	paths := make([]string, 0, len(files))
	for p := range files {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	params := createTreeParams{
		BaseTree: baseTreeSHA,
		Tree:     make([]treeEntry, 0, len(paths)),
	}
	for _, p := range paths {
		params.Tree = append(params.Tree, treeEntry{
			Path:    strings.TrimPrefix(p, "/"),
			Mode:    "100644",
			Type:    "blob",
			Content: files[p],
		})
	}

	var t tree
	err = c.callAPI(ctx, http.MethodPost, fmt.Sprintf("/repos/%v/%v/git/trees", url.PathEscape(owner), url.PathEscape(repo)), params, &t)
	if err != nil {
		return "", errors.Wrapf(err, "Failed creating tree in %v/%v", owner, repo)
	}

	return t.SHA, nil
}

func (c *client) createCommit(ctx context.Context, owner, repo, message, treeSHA, parentSHA string) (commit Commit, err error) {

	params := createCommitParams{
		Message: message,
		Tree:    treeSHA,
		Parents: []string{parentSHA},
	}

	err = c.callAPI(ctx, http.MethodPost, fmt.Sprintf("/repos/%v/%v/git/commits", url.PathEscape(owner), url.PathEscape(repo)), params, &commit)
	if err != nil {
		return commit, errors.Wrapf(err, "Failed creating commit in %v/%v", owner, repo)
	}

	return commit, nil
}

func (c *client) createBranch(ctx context.Context, owner, repo, branch, sha string) (err error) {

	params := createRefParams{
		Ref: "refs/heads/" + branch,
		SHA: sha,
	}

	err = c.callAPI(ctx, http.MethodPost, fmt.Sprintf("/repos/%v/%v/git/refs", url.PathEscape(owner), url.PathEscape(repo)), params, nil)
	if err != nil {
		return errors.Wrapf(err, "Failed creating branch %v in %v/%v", branch, owner, repo)
	}

	return nil
}

func (c *client) updateBranch(ctx context.Context, owner, repo, branch, sha string) (err error) {

	// without force the update is rejected unless it fast-forwards
	params := updateRefParams{
		SHA:   sha,
		Force: false,
	}

	err = c.callAPI(ctx, http.MethodPatch, fmt.Sprintf("/repos/%v/%v/git/refs/heads/%v", url.PathEscape(owner), url.PathEscape(repo), escapePath(branch)), params, nil)
	if err != nil {
		return errors.Wrapf(err, "Failed updating branch %v in %v/%v", branch, owner, repo)
	}

	return nil
}

func (c *client) callAPI(ctx context.Context, method, path string, params interface{}, result interface{}) (err error) {

	span, ctx := opentracing.StartSpanFromContext(ctx, "CallGithubAPI")
	defer span.Finish()

	requestURL := c.apiBaseURL + path
	span.SetTag("url", requestURL)
	span.SetTag("method", method)

	var requestBody io.Reader
	if params != nil {
		data, err := json.Marshal(params)
		if err != nil {
			return errors.Wrapf(err, "Failed marshalling request body for %v %v", method, requestURL)
		}
		requestBody = bytes.NewReader(data)
	}

	// create client, in order to add headers
	pesterClient := pester.NewExtendedClient(&http.Client{Transport: &nethttp.Transport{}})
	pesterClient.MaxRetries = c.maxRetriesFor(method)
	pesterClient.Backoff = pester.ExponentialJitterBackoff
	pesterClient.KeepLog = true
	pesterClient.Timeout = c.timeout

	request, err := http.NewRequest(method, requestURL, requestBody)
	if err != nil {
		return err
	}

	// add tracing context
	request = request.WithContext(opentracing.ContextWithSpan(ctx, span))

	// collect additional information on setting up connections
	request, ht := nethttp.TraceRequest(span.Tracer(), request)
	defer ht.Finish()

	// add headers
	request.Header.Add("Authorization", fmt.Sprintf("token %v", c.token))
	request.Header.Add("Accept", "application/vnd.github.v3+json")
	if requestBody != nil {
		request.Header.Add("Content-Type", "application/json")
	}

	// perform actual request
	response, err := pesterClient.Do(request)
	if err != nil {
		log.Debug().Str("logs", pesterClient.LogString()).Msgf("Request %v %v failed", method, requestURL)
		return errors.Wrapf(err, "Failed performing request %v %v", method, requestURL)
	}
	defer response.Body.Close()

	body, err := ioutil.ReadAll(response.Body)
	if err != nil {
		return errors.Wrapf(err, "Failed reading response body of %v %v", method, requestURL)
	}

	if response.StatusCode < 200 || response.StatusCode > 299 {
		return newAPIError(method, requestURL, response.StatusCode, body)
	}

	if result != nil && len(body) > 0 {
		if err = json.Unmarshal(body, result); err != nil {
			return errors.Wrapf(err, "Failed unmarshalling response body of %v %v", method, requestURL)
		}
	}

	return nil
}

// maxRetriesFor only allows retries for reads; a write that timed out may have been applied and retrying it would report a conflict with itself
func (c *client) maxRetriesFor(method string) int {
	if method == http.MethodGet {
		return c.maxRetries
	}
	return 1
}

func escapePath(path string) string {
	segments := strings.Split(strings.TrimPrefix(path, "/"), "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return strings.Join(segments, "/")
}
