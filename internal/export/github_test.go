package export

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"pichacka/internal/ledger"
	"pichacka/internal/ledger/memory"
)

func seededSnapshot(t *testing.T, now time.Time) Snapshot {
	t.Helper()
	ctx := context.Background()
	store := memory.New()
	if _, err := ledger.SeedDemo(ctx, store, now); err != nil {
		t.Fatalf("seed: %v", err)
	}
	snap, err := TakeSnapshot(ctx, store, now)
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	return snap
}

func TestFileNameAndMessage(t *testing.T) {
	ts := time.Date(2026, 10, 17, 12, 34, 56, 789_000_000, time.UTC)
	if got := FileName(ts); got != "export_2026-10-17T12-34-56-789Z.json" {
		t.Fatalf("unexpected file name %q", got)
	}
	if got := DefaultMessage(ts); got != "Export dat z aplikace Píchačka - 17. 10. 2026" {
		t.Fatalf("unexpected message %q", got)
	}
}

func TestGitHubExporter_Export(t *testing.T) {
	now := time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)
	snap := seededSnapshot(t, now)

	var (
		gotMethod, gotPath, gotAuth, gotAccept string
		gotBody                                putContentRequest
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod, gotPath = r.Method, r.URL.Path
		gotAuth, gotAccept = r.Header.Get("Authorization"), r.Header.Get("Accept")
		b, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(b, &gotBody)
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"content":{"html_url":"https://github.com/marie/zaloha/blob/main/x.json"}}`))
	}))
	defer srv.Close()

	g := NewGitHubExporter(srv.Client(), srv.URL, "", time.UTC)
	url, err := g.Export(context.Background(), GitHubTarget{Owner: "marie", Repo: "zaloha", Token: "ghp_test"}, snap, now)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if url == nil || *url != "https://github.com/marie/zaloha/blob/main/x.json" {
		t.Fatalf("unexpected url %v", url)
	}
	if gotMethod != http.MethodPut || gotPath != "/repos/marie/zaloha/contents/export_2026-10-17T12-00-00-000Z.json" {
		t.Fatalf("unexpected request %s %s", gotMethod, gotPath)
	}
	if gotAuth != "token ghp_test" || gotAccept != "application/vnd.github.v3+json" {
		t.Fatalf("unexpected headers auth=%q accept=%q", gotAuth, gotAccept)
	}
	if gotBody.Branch != "main" || gotBody.Message != "Export dat z aplikace Píchačka - 17. 10. 2026" {
		t.Fatalf("unexpected body %+v", gotBody)
	}

	doc, err := base64.StdEncoding.DecodeString(gotBody.Content)
	if err != nil {
		t.Fatalf("content is not base64: %v", err)
	}
	var decoded Snapshot
	if err := json.Unmarshal(doc, &decoded); err != nil {
		t.Fatalf("content is not a snapshot: %v", err)
	}
	if decoded.ExportDate != "2026-10-17T12:00:00.000Z" {
		t.Fatalf("unexpected exportDate %q", decoded.ExportDate)
	}
	if len(decoded.WorkLogs) != len(snap.WorkLogs) || len(decoded.Finances) != 3 || len(decoded.Debts) != 3 {
		t.Fatalf("snapshot did not round-trip: %d/%d/%d", len(decoded.WorkLogs), len(decoded.Finances), len(decoded.Debts))
	}
	for i, d := range decoded.Debts {
		if d.ID != snap.Debts[i].ID || !d.RemainingAmount.Equal(snap.Debts[i].RemainingAmount) {
			t.Fatalf("debt %d differs: %+v vs %+v", i, d, snap.Debts[i])
		}
	}
	if !decoded.WorkLogs[0].StartTime.Equal(snap.WorkLogs[0].StartTime) || !decoded.WorkLogs[0].Earnings.Equal(snap.WorkLogs[0].Earnings) {
		t.Fatalf("work log differs: %+v vs %+v", decoded.WorkLogs[0], snap.WorkLogs[0])
	}
}

func TestGitHubExporter_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"Bad credentials"}`))
	}))
	defer srv.Close()

	g := NewGitHubExporter(srv.Client(), srv.URL, "main", time.UTC)
	_, err := g.Export(context.Background(), GitHubTarget{Owner: "o", Repo: "r", Token: "bad"}, Snapshot{}, time.Now())

	var upstream *UpstreamError
	if !errors.As(err, &upstream) {
		t.Fatalf("expected UpstreamError, got %v", err)
	}
	if upstream.Status != http.StatusUnauthorized || string(upstream.Details) != `{"message":"Bad credentials"}` {
		t.Fatalf("unexpected upstream error %+v", upstream)
	}
}

func TestGitHubExporter_MissingTargetAndTransport(t *testing.T) {
	g := NewGitHubExporter(nil, "http://127.0.0.1:1", "main", time.UTC)
	for _, target := range []GitHubTarget{{Repo: "r", Token: "t"}, {Owner: "o", Token: "t"}, {Owner: "o", Repo: "r"}} {
		if _, err := g.Export(context.Background(), target, Snapshot{}, time.Now()); !errors.Is(err, ErrMissingTarget) {
			t.Fatalf("expected ErrMissingTarget for %+v, got %v", target, err)
		}
	}

	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()
	g = NewGitHubExporter(&http.Client{Timeout: time.Second}, srv.URL, "main", time.UTC)
	_, err := g.Export(context.Background(), GitHubTarget{Owner: "o", Repo: "r", Token: "t"}, Snapshot{}, time.Now())
	var upstream *UpstreamError
	if err == nil || errors.As(err, &upstream) {
		t.Fatalf("expected transport error, got %v", err)
	}
}

func TestAsJSON(t *testing.T) {
	if got := string(asJSON([]byte(`{"a":1}`))); got != `{"a":1}` {
		t.Fatalf("valid JSON changed: %s", got)
	}
	if got := string(asJSON([]byte("Bad Gateway"))); got != `"Bad Gateway"` {
		t.Fatalf("plain text not wrapped: %s", got)
	}
}
