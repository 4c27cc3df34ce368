package render

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestHTTPClient_SubmitRender_Success(t *testing.T) {
	var receivedReq Request
	var receivedAuth string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/render" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if r.Method != http.MethodPost {
			t.Errorf("unexpected method: %s", r.Method)
		}
		receivedAuth = r.Header.Get("Authorization")
		if r.Header.Get("X-Reelbeat-Request-Id") == "" {
			t.Error("missing request id header")
		}

		body, _ := io.ReadAll(r.Body)
		json.Unmarshal(body, &receivedReq)

		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]string{"job_id": "job-42"})
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL, "test-token", testLogger())

	jobID, err := client.SubmitRender(context.Background(), Request{
		Sequence: []Segment{
			{Kind: SegmentClip, URL: "file:///a.mp4", Start: 0, Duration: 2},
			{Kind: SegmentBlack, Start: 2, Duration: 1},
		},
		Duration:   3,
		Resolution: "1080p",
		FPS:        30,
		Format:     "mp4",
		Quality:    "high",
	})
	if err != nil {
		t.Fatalf("SubmitRender() error = %v", err)
	}
	if jobID != "job-42" {
		t.Errorf("jobID = %q, want job-42", jobID)
	}
	if receivedAuth != "Bearer test-token" {
		t.Errorf("auth = %q, want Bearer test-token", receivedAuth)
	}
	if len(receivedReq.Sequence) != 2 {
		t.Errorf("sequence length = %d, want 2", len(receivedReq.Sequence))
	}
}

func TestHTTPClient_SubmitRender_MissingJobID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{})
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL, "", testLogger())
	if _, err := client.SubmitRender(context.Background(), Request{}); err == nil {
		t.Fatal("expected error for empty job id")
	}
}

func TestHTTPClient_RenderStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/render/job-42" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(Status{Stage: StageCompleted, Progress: 100, VideoURL: "https://cdn/x.mp4"})
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL, "", testLogger())
	status, err := client.RenderStatus(context.Background(), "job-42")
	if err != nil {
		t.Fatalf("RenderStatus() error = %v", err)
	}
	if status.Stage != StageCompleted || status.VideoURL == "" {
		t.Errorf("status = %+v, want completed with url", status)
	}
}

func TestHTTPClient_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`{"detail":"overloaded"}`))
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL, "", testLogger())
	_, err := client.RenderStatus(context.Background(), "job-1")
	if err == nil {
		t.Fatal("expected error for 503 response")
	}

	var svcErr *ServiceError
	if !errors.As(err, &svcErr) {
		t.Fatalf("error type = %T, want *ServiceError", err)
	}
	if !svcErr.IsRetryable() {
		t.Error("503 should be retryable")
	}
}

func TestServiceError_IsRetryable(t *testing.T) {
	if !(&ServiceError{StatusCode: http.StatusInternalServerError}).IsRetryable() {
		t.Error("500 should be retryable")
	}
	if (&ServiceError{StatusCode: http.StatusBadRequest}).IsRetryable() {
		t.Error("400 should not be retryable")
	}
}

func TestStubClient_CompletesOnSecondPoll(t *testing.T) {
	stub := NewStubClient(testLogger())

	jobID, err := stub.SubmitRender(context.Background(), Request{Duration: 5})
	if err != nil {
		t.Fatalf("SubmitRender() error = %v", err)
	}

	first, _ := stub.RenderStatus(context.Background(), jobID)
	if first.Stage != StageRendering {
		t.Errorf("first poll stage = %s, want rendering", first.Stage)
	}
	second, _ := stub.RenderStatus(context.Background(), jobID)
	if second.Stage != StageCompleted || second.VideoURL == "" {
		t.Errorf("second poll = %+v, want completed with url", second)
	}
}
