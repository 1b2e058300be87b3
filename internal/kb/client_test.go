// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package kb

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write temp file: %v", err)
	}
	return path
}

// =============================================================================
// FOLDER TESTS
// =============================================================================

func TestCreateFolder(t *testing.T) {
	var gotAuth, gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path

		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("bad request body: %v", err)
		}
		if body["name"] != "research" {
			t.Errorf("folder name = %q, want research", body["name"])
		}

		json.NewEncoder(w).Encode(Folder{ID: "f-123", Name: "research"})
	}))
	defer server.Close()

	client := NewClient(server.URL, "tok-abc")
	folder, err := client.CreateFolder(context.Background(), "research")
	if err != nil {
		t.Fatalf("CreateFolder failed: %v", err)
	}

	if folder.ID != "f-123" {
		t.Errorf("folder ID = %q, want f-123", folder.ID)
	}
	if gotPath != "/knowledge-base/folders" {
		t.Errorf("path = %q", gotPath)
	}
	if gotAuth != "Bearer tok-abc" {
		t.Errorf("authorization = %q", gotAuth)
	}
}

func TestCreateFolderWithoutToken(t *testing.T) {
	client := NewClient("http://localhost:1", "")
	if _, err := client.CreateFolder(context.Background(), "x"); !errors.Is(err, ErrNotConfigured) {
		t.Errorf("expected ErrNotConfigured, got %v", err)
	}
}

func TestServerDetailSurfacesInError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"detail": "folder name already taken"})
	}))
	defer server.Close()

	client := NewClient(server.URL, "tok")
	_, err := client.CreateFolder(context.Background(), "dup")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "folder name already taken") {
		t.Errorf("error %q missing server detail", err)
	}
}

func TestGenericMessageWhenDetailMissing(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("not json"))
	}))
	defer server.Close()

	client := NewClient(server.URL, "tok")
	_, err := client.CreateFolder(context.Background(), "x")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "500") {
		t.Errorf("error %q missing status code", err)
	}
}

func TestUnauthorizedMapsToAuthFailed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"detail": "token expired"})
	}))
	defer server.Close()

	client := NewClient(server.URL, "stale")
	_, err := client.CreateFolder(context.Background(), "x")
	if !errors.Is(err, ErrAuthFailed) {
		t.Errorf("expected ErrAuthFailed, got %v", err)
	}
}

// =============================================================================
// UPLOAD TESTS
// =============================================================================

func TestUploadFilesBatchContinuesPastFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("bad multipart form: %v", err)
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		f, header, err := r.FormFile("file")
		if err != nil {
			t.Errorf("missing file part: %v", err)
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		f.Close()

		// Reject one specific file to prove the batch keeps going.
		if header.Filename == "bad.txt" {
			w.WriteHeader(http.StatusUnprocessableEntity)
			json.NewEncoder(w).Encode(map[string]string{"detail": "unsupported content"})
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	good1 := writeTempFile(t, "a.txt", "alpha")
	bad := writeTempFile(t, "bad.txt", "beta")
	good2 := writeTempFile(t, "c.txt", "gamma")

	client := NewClient(server.URL, "tok")
	report, err := client.UploadFiles(context.Background(), "f-1", []string{good1, bad, good2})
	if err != nil {
		t.Fatalf("UploadFiles: %v", err)
	}

	if report.Succeeded != 2 {
		t.Errorf("succeeded = %d, want 2", report.Succeeded)
	}
	if report.Failed != 1 {
		t.Errorf("failed = %d, want 1", report.Failed)
	}
	if err := report.Failures[bad]; err == nil || !strings.Contains(err.Error(), "unsupported content") {
		t.Errorf("failure for bad file = %v", err)
	}
}

func TestUploadFilesMissingFileCountsAsFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewClient(server.URL, "tok")
	report, err := client.UploadFiles(context.Background(), "f-1", []string{"/nonexistent/file.txt"})
	if err != nil {
		t.Fatalf("UploadFiles: %v", err)
	}

	if report.Succeeded != 0 || report.Failed != 1 {
		t.Errorf("report = %+v, want 0 succeeded / 1 failed", report)
	}
}

func TestUploadFilesCanceledContextFailsRemaining(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	a := writeTempFile(t, "a.txt", "alpha")
	b := writeTempFile(t, "b.txt", "beta")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := NewClient(server.URL, "tok")
	report, err := client.UploadFiles(ctx, "f-1", []string{a, b})

	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if report.Succeeded != 0 || report.Failed != 2 {
		t.Errorf("report = %+v, want 0 succeeded / 2 failed", report)
	}
	for _, path := range []string{a, b} {
		if report.Failures[path] == nil {
			t.Errorf("missing failure entry for %s", path)
		}
	}
}

func TestUploadReportSummary(t *testing.T) {
	clean := UploadReport{Succeeded: 3}
	if got := clean.Summary(); got != "uploaded 3 files" {
		t.Errorf("summary = %q", got)
	}

	mixed := UploadReport{Succeeded: 2, Failed: 1}
	if got := mixed.Summary(); got != "uploaded 2 files (1 failed)" {
		t.Errorf("summary = %q", got)
	}
}

// =============================================================================
// GIT CLONE TESTS
// =============================================================================

func TestCloneGitRepo(t *testing.T) {
	var gotBody map[string]string
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	client := NewClient(server.URL, "tok")
	err := client.CloneGitRepo(context.Background(), "f-9", "https://example.com/repo.git", "main")
	if err != nil {
		t.Fatalf("CloneGitRepo failed: %v", err)
	}

	if gotPath != "/knowledge-base/folders/f-9/clone-git-repo" {
		t.Errorf("path = %q", gotPath)
	}
	if gotBody["git_url"] != "https://example.com/repo.git" {
		t.Errorf("git_url = %q", gotBody["git_url"])
	}
	if gotBody["branch"] != "main" {
		t.Errorf("branch = %q", gotBody["branch"])
	}
}

func TestCloneGitRepoOmitsEmptyBranch(t *testing.T) {
	var gotBody map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	client := NewClient(server.URL, "tok")
	if err := client.CloneGitRepo(context.Background(), "f-9", "https://example.com/r.git", ""); err != nil {
		t.Fatalf("CloneGitRepo failed: %v", err)
	}

	if _, present := gotBody["branch"]; present {
		t.Error("empty branch should be omitted from the payload")
	}
}
