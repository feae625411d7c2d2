package testhelpers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"slices"
	"strconv"
	"sync"
	"testing"

	"github.com/google/go-github/v62/github"

	ghpkg "st.dev/st/internal/github"
)

// MockGitHubServerConfig configures and records the behavior of a mock GitHub server
type MockGitHubServerConfig struct {
	mu sync.Mutex

	// PRs maps pull request numbers to their current state
	PRs map[int]*github.PullRequest
	// CreatedPRs stores PRs that were created, in order
	CreatedPRs []*github.PullRequest
	// BaseUpdates records every PATCH that changed a base branch
	BaseUpdates map[int][]string
	// Labels are the repository's labels
	Labels []string
	// AddedLabels and AddedAssignees record issue mutations
	AddedLabels    map[int][]string
	AddedAssignees map[int][]string
	// Comments maps comment ids to comments; CommentIssues maps them to PR numbers
	Comments      map[int64]*github.IssueComment
	CommentIssues map[int64]int
	// ErrorResponses maps "METHOD /path" to a status code to return instead
	ErrorResponses map[string]int
	// Owner and Repo for the mock server
	Owner string
	Repo  string

	nextPR      int
	nextComment int64
}

// NewMockGitHubServerConfig creates a new mock server config with defaults
func NewMockGitHubServerConfig() *MockGitHubServerConfig {
	return &MockGitHubServerConfig{
		PRs:            make(map[int]*github.PullRequest),
		BaseUpdates:    make(map[int][]string),
		AddedLabels:    make(map[int][]string),
		AddedAssignees: make(map[int][]string),
		Comments:       make(map[int64]*github.IssueComment),
		CommentIssues:  make(map[int64]int),
		ErrorResponses: make(map[string]int),
		Owner:          "owner",
		Repo:           "repo",
		nextPR:         100,
		nextComment:    5000,
	}
}

// AddPR registers an existing pull request.
func (c *MockGitHubServerConfig) AddPR(number int, head, base, headSHA, state string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.PRs[number] = &github.PullRequest{
		Number: github.Int(number),
		State:  github.String(state),
		Head:   &github.PullRequestBranch{Ref: github.String(head), SHA: github.String(headSHA)},
		Base:   &github.PullRequestBranch{Ref: github.String(base)},
	}
}

// SetHeadSHA simulates a push to a pull request's head branch.
func (c *MockGitHubServerConfig) SetHeadSHA(number int, sha string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if pr := c.PRs[number]; pr != nil {
		pr.Head.SHA = github.String(sha)
	}
}

// SetState sets a pull request's state ("open" or "closed").
func (c *MockGitHubServerConfig) SetState(number int, state string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if pr := c.PRs[number]; pr != nil {
		pr.State = github.String(state)
	}
}

// CommentBodies returns the bodies of comments posted on a pull request,
// ordered by comment id.
func (c *MockGitHubServerConfig) CommentBodies(number int) []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	var ids []int64
	for id, issue := range c.CommentIssues {
		if issue == number {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)
	bodies := make([]string, 0, len(ids))
	for _, id := range ids {
		bodies = append(bodies, c.Comments[id].GetBody())
	}
	return bodies
}

// NewMockGitHubServer creates an httptest server that mocks the GitHub API
// endpoints st uses.
func NewMockGitHubServer(t *testing.T, config *MockGitHubServerConfig) *httptest.Server {
	if config == nil {
		config = NewMockGitHubServerConfig()
	}

	base := "/repos/" + config.Owner + "/" + config.Repo
	mux := http.NewServeMux()

	handle := func(pattern string, fn func(w http.ResponseWriter, r *http.Request)) {
		mux.HandleFunc(pattern, func(w http.ResponseWriter, r *http.Request) {
			config.mu.Lock()
			defer config.mu.Unlock()
			if status, ok := config.ErrorResponses[r.Method+" "+r.URL.Path]; ok {
				writeJSON(w, status, map[string]string{"message": http.StatusText(status)})
				return
			}
			fn(w, r)
		})
	}

	handle("GET "+base+"/pulls/{number}", func(w http.ResponseWriter, r *http.Request) {
		pr := config.PRs[pathInt(r, "number")]
		if pr == nil {
			writeJSON(w, http.StatusNotFound, map[string]string{"message": "Not Found"})
			return
		}
		writeJSON(w, http.StatusOK, pr)
	})

	handle("POST "+base+"/pulls", func(w http.ResponseWriter, r *http.Request) {
		var newPR github.NewPullRequest
		if err := json.NewDecoder(r.Body).Decode(&newPR); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		config.nextPR++
		number := config.nextPR
		pr := &github.PullRequest{
			Number:  github.Int(number),
			State:   github.String("open"),
			Title:   newPR.Title,
			Body:    newPR.Body,
			Head:    &github.PullRequestBranch{Ref: newPR.Head},
			Base:    &github.PullRequestBranch{Ref: newPR.Base},
			Draft:   newPR.Draft,
			HTMLURL: github.String(fmt.Sprintf("https://github.com/%s/%s/pull/%d", config.Owner, config.Repo, number)),
		}
		config.PRs[number] = pr
		config.CreatedPRs = append(config.CreatedPRs, pr)
		writeJSON(w, http.StatusCreated, pr)
	})

	handle("PATCH "+base+"/pulls/{number}", func(w http.ResponseWriter, r *http.Request) {
		number := pathInt(r, "number")
		pr := config.PRs[number]
		if pr == nil {
			writeJSON(w, http.StatusNotFound, map[string]string{"message": "Not Found"})
			return
		}
		// The API sends simple fields like {"base": "branch-name"}
		var update struct {
			Title *string `json:"title,omitempty"`
			Body  *string `json:"body,omitempty"`
			Base  *string `json:"base,omitempty"`
			State *string `json:"state,omitempty"`
		}
		if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if update.Title != nil {
			pr.Title = update.Title
		}
		if update.Body != nil {
			pr.Body = update.Body
		}
		if update.State != nil {
			pr.State = update.State
		}
		if update.Base != nil {
			pr.Base = &github.PullRequestBranch{Ref: update.Base}
			config.BaseUpdates[number] = append(config.BaseUpdates[number], *update.Base)
		}
		writeJSON(w, http.StatusOK, pr)
	})

	handle("GET "+base+"/labels", func(w http.ResponseWriter, _ *http.Request) {
		labels := make([]*github.Label, 0, len(config.Labels))
		for _, name := range config.Labels {
			labels = append(labels, &github.Label{Name: github.String(name)})
		}
		writeJSON(w, http.StatusOK, labels)
	})

	handle("POST "+base+"/issues/{number}/labels", func(w http.ResponseWriter, r *http.Request) {
		var labels []string
		if err := json.NewDecoder(r.Body).Decode(&labels); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		number := pathInt(r, "number")
		config.AddedLabels[number] = append(config.AddedLabels[number], labels...)
		out := make([]*github.Label, 0, len(labels))
		for _, name := range labels {
			out = append(out, &github.Label{Name: github.String(name)})
		}
		writeJSON(w, http.StatusOK, out)
	})

	handle("POST "+base+"/issues/{number}/assignees", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Assignees []string `json:"assignees"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		number := pathInt(r, "number")
		config.AddedAssignees[number] = append(config.AddedAssignees[number], body.Assignees...)
		writeJSON(w, http.StatusCreated, &github.Issue{Number: github.Int(number)})
	})

	handle("POST "+base+"/issues/{number}/comments", func(w http.ResponseWriter, r *http.Request) {
		var comment github.IssueComment
		if err := json.NewDecoder(r.Body).Decode(&comment); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		config.nextComment++
		comment.ID = github.Int64(config.nextComment)
		config.Comments[comment.GetID()] = &comment
		config.CommentIssues[comment.GetID()] = pathInt(r, "number")
		writeJSON(w, http.StatusCreated, &comment)
	})

	handle("PATCH "+base+"/issues/comments/{id}", func(w http.ResponseWriter, r *http.Request) {
		id := int64(pathInt(r, "id"))
		existing := config.Comments[id]
		if existing == nil {
			writeJSON(w, http.StatusNotFound, map[string]string{"message": "Not Found"})
			return
		}
		var comment github.IssueComment
		if err := json.NewDecoder(r.Body).Decode(&comment); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		existing.Body = comment.Body
		writeJSON(w, http.StatusOK, existing)
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

// NewMockGitHubClient creates a Host backed by a mock server
func NewMockGitHubClient(t *testing.T, config *MockGitHubServerConfig) *ghpkg.Client {
	server := NewMockGitHubServer(t, config)
	client := github.NewClient(nil)
	baseURL, _ := url.Parse(server.URL + "/")
	client.BaseURL = baseURL
	client.UploadURL = baseURL
	return ghpkg.NewClient(client, config.Owner, config.Repo)
}

func pathInt(r *http.Request, name string) int {
	n, _ := strconv.Atoi(r.PathValue(name))
	return n
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
