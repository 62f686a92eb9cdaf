package export

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"pichacka/internal/core"
)

const (
	DefaultGitHubAPI = "https://api.github.com"
	DefaultBranch    = "main"
)

// GitHubTarget names the repository and credential for one export.
type GitHubTarget struct {
	Owner   string `json:"owner"`
	Repo    string `json:"repo"`
	Token   string `json:"token"`
	Message string `json:"message"`
}

// ErrMissingTarget is returned when owner, repo or token is empty.
var ErrMissingTarget = errors.New("missing token, repo or owner")

// UpstreamError carries a non-2xx GitHub response.
type UpstreamError struct {
	Status  int
	Details json.RawMessage
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("github responded %d", e.Status)
}

type GitHubExporter struct {
	client *http.Client
	apiURL string
	branch string
	loc    *time.Location
}

// NewGitHubExporter posts to apiURL (DefaultGitHubAPI when empty) on branch.
func NewGitHubExporter(client *http.Client, apiURL, branch string, loc *time.Location) *GitHubExporter {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	if apiURL == "" {
		apiURL = DefaultGitHubAPI
	}
	if branch == "" {
		branch = DefaultBranch
	}
	if loc == nil {
		loc = time.Local
	}
	return &GitHubExporter{client: client, apiURL: strings.TrimRight(apiURL, "/"), branch: branch, loc: loc}
}

// FileName returns the repository path for a snapshot taken at t.
func FileName(t time.Time) string {
	ts := strings.NewReplacer(":", "-", ".", "-").Replace(t.UTC().Format(isoMillis))
	return "export_" + ts + ".json"
}

// DefaultMessage is the commit message used when the caller gives none.
func DefaultMessage(t time.Time) string {
	return "Export dat z aplikace Píchačka - " + core.FormatCzechDate(t)
}

type putContentRequest struct {
	Message string `json:"message"`
	Content string `json:"content"`
	Branch  string `json:"branch"`
}

type putContentResponse struct {
	Content *struct {
		HTMLURL *string `json:"html_url"`
	} `json:"content"`
}

// Export commits snap as a new file in the target repository and returns
// the file's html_url, which GitHub may omit.
func (g *GitHubExporter) Export(ctx context.Context, target GitHubTarget, snap Snapshot, now time.Time) (*string, error) {
	if strings.TrimSpace(target.Owner) == "" || strings.TrimSpace(target.Repo) == "" || strings.TrimSpace(target.Token) == "" {
		return nil, ErrMissingTarget
	}

	doc, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal snapshot: %w", err)
	}

	message := target.Message
	if message == "" {
		message = DefaultMessage(now.In(g.loc))
	}
	body, err := json.Marshal(putContentRequest{
		Message: message,
		Content: base64.StdEncoding.EncodeToString(doc),
		Branch:  g.branch,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/repos/%s/%s/contents/%s",
		g.apiURL, url.PathEscape(target.Owner), url.PathEscape(target.Repo), FileName(now))
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "token "+target.Token)
	req.Header.Set("Accept", "application/vnd.github.v3+json")
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("put contents: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		slog.WarnContext(ctx, "GitHub export rejected",
			"status", resp.StatusCode,
			"owner", target.Owner,
			"repo", target.Repo)
		return nil, &UpstreamError{Status: resp.StatusCode, Details: asJSON(raw)}
	}

	var out putContentResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	slog.InfoContext(ctx, "Exported snapshot to GitHub",
		"owner", target.Owner,
		"repo", target.Repo,
		"work_logs", len(snap.WorkLogs),
		"finances", len(snap.Finances),
		"debts", len(snap.Debts))

	if out.Content == nil {
		return nil, nil
	}
	return out.Content.HTMLURL, nil
}

// asJSON passes valid JSON through and wraps anything else as a JSON string.
func asJSON(raw []byte) json.RawMessage {
	if len(bytes.TrimSpace(raw)) > 0 && json.Valid(raw) {
		return json.RawMessage(raw)
	}
	b, _ := json.Marshal(string(raw))
	return b
}
