package github

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// newTestClient returns a client pointed at a fake GitHub API. Handlers are
// registered on the returned mux under the /api/v3 prefix.
func newTestClient(t *testing.T) (*Client, *http.ServeMux, *httptest.Server) {
	t.Helper()

	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	client, err := NewClient("test-token", "owner/repo", zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, client.WithEnterpriseURL(srv.URL))

	return client, mux, srv
}

func TestNewClientInvalidRepoName(t *testing.T) {
	tests := []struct {
		name string
		repo string
	}{
		{name: "No slash", repo: "just-a-name"},
		{name: "Empty owner", repo: "/repo"},
		{name: "Empty repo", repo: "owner/"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewClient("token", tt.repo, zap.NewNop())
			assert.Error(t, err)
		})
	}
}

func TestAddLabels(t *testing.T) {
	client, mux, _ := newTestClient(t)

	var gotLabels []string
	mux.HandleFunc("/api/v3/repos/owner/repo/issues/7/labels", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotLabels))
		fmt.Fprint(w, `[{"name":"copilot-report"},{"name":"in-progress"}]`)
	})

	err := client.AddLabels(context.Background(), 7, "copilot-report", "in-progress")
	require.NoError(t, err)
	assert.Equal(t, []string{"copilot-report", "in-progress"}, gotLabels)
}

func TestRemoveLabel(t *testing.T) {
	client, mux, _ := newTestClient(t)

	var called bool
	mux.HandleFunc("/api/v3/repos/owner/repo/issues/7/labels/in-progress", func(w http.ResponseWriter, r *http.Request) {
		called = true
		assert.Equal(t, http.MethodDelete, r.Method)
	})

	err := client.RemoveLabel(context.Background(), 7, "in-progress")
	require.NoError(t, err)
	assert.True(t, called)
}

func TestRemoveLabelNotPresent(t *testing.T) {
	client, mux, _ := newTestClient(t)

	mux.HandleFunc("/api/v3/repos/owner/repo/issues/7/labels/in-progress", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"message":"Label does not exist"}`)
	})

	// A label that is already gone should not fail the run.
	err := client.RemoveLabel(context.Background(), 7, "in-progress")
	assert.NoError(t, err)
}

func TestAssign(t *testing.T) {
	client, mux, _ := newTestClient(t)

	mux.HandleFunc("/api/v3/repos/owner/repo/issues/7/assignees", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)

		var body struct {
			Assignees []string `json:"assignees"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, []string{"octocat"}, body.Assignees)

		fmt.Fprint(w, `{"number":7}`)
	})

	err := client.Assign(context.Background(), 7, "octocat")
	assert.NoError(t, err)
}

func TestComment(t *testing.T) {
	client, mux, _ := newTestClient(t)

	var gotBody string
	mux.HandleFunc("/api/v3/repos/owner/repo/issues/7/comments", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)

		var body struct {
			Body string `json:"body"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		gotBody = body.Body

		w.WriteHeader(http.StatusCreated)
		fmt.Fprint(w, `{"id":1}`)
	})

	err := client.Comment(context.Background(), 7, "report table here")
	require.NoError(t, err)
	assert.Equal(t, "report table here", gotBody)
}

func TestCloseIssue(t *testing.T) {
	client, mux, _ := newTestClient(t)

	mux.HandleFunc("/api/v3/repos/owner/repo/issues/7", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)

		var body struct {
			State string `json:"state"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "closed", body.State)

		fmt.Fprint(w, `{"number":7,"state":"closed"}`)
	})

	err := client.CloseIssue(context.Background(), 7)
	assert.NoError(t, err)
}

func TestOrgClientRejectsIssueOps(t *testing.T) {
	client := NewOrgClient("token", zap.NewNop())

	err := client.AddLabels(context.Background(), 7, "copilot-report")
	assert.Error(t, err)

	err = client.Comment(context.Background(), 7, "hello")
	assert.Error(t, err)
}
