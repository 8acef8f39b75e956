package ytdl_test

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

	"ytsync/internal/services"
	"ytsync/internal/services/ytdl"
)

func newTestClient(t *testing.T, handler http.Handler) (*ytdl.Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	client, err := ytdl.New(server.URL, "test-key")
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	return client, server
}

func TestLoginStoresToken(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/auth/login" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if r.URL.Query().Get("apiKey") != "test-key" {
			t.Errorf("apiKey param missing, query = %q", r.URL.RawQuery)
		}
		var creds map[string]string
		if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
			t.Errorf("decode credentials: %v", err)
		}
		if creds["username"] != "alice" || creds["password"] != "hunter2" {
			t.Errorf("credentials = %v", creds)
		}
		json.NewEncoder(w).Encode(map[string]string{"token": "jwt-abc"})
	}))

	if err := client.Login(context.Background(), "alice", "hunter2"); err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if client.Token() != "jwt-abc" {
		t.Fatalf("Token() = %q, want jwt-abc", client.Token())
	}
}

func TestLoginEmptyTokenIsAuthError(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"token": ""})
	}))

	err := client.Login(context.Background(), "alice", "hunter2")
	if !errors.Is(err, services.ErrAuth) {
		t.Fatalf("Login error = %v, want ErrAuth", err)
	}
	if !services.Fatal(err) {
		t.Fatalf("auth failures must be fatal: %v", err)
	}
}

func TestLoginServerError(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad credentials", http.StatusUnauthorized)
	}))

	err := client.Login(context.Background(), "alice", "wrong")
	if !errors.Is(err, services.ErrAuth) {
		t.Fatalf("Login error = %v, want ErrAuth", err)
	}
	if !strings.Contains(err.Error(), "401") {
		t.Fatalf("error %q does not carry the status code", err)
	}
}

func TestListReturnsFiles(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/getMp3s" {
			t.Errorf("path = %q", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]any{"mp3s": []map[string]string{
			{"uid": "a1", "title": "Song A.mp3", "path": "Song A.mp3"},
			{"uid": "b2", "title": "Song B.mp3", "path": "Song B.mp3"},
		}})
	}))

	files, err := client.List(context.Background())
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("len(files) = %d, want 2", len(files))
	}
	if files[0].UID != "a1" || files[0].Title != "Song A.mp3" {
		t.Fatalf("first file = %+v", files[0])
	}
}

func TestListSendsTokenAfterLogin(t *testing.T) {
	var sawJWT string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/auth/login":
			json.NewEncoder(w).Encode(map[string]string{"token": "jwt-abc"})
		case "/api/getMp3s":
			sawJWT = r.URL.Query().Get("jwt")
			json.NewEncoder(w).Encode(map[string]any{"mp3s": []ytdl.RemoteFile{}})
		}
	}))

	if err := client.Login(context.Background(), "alice", "hunter2"); err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if _, err := client.List(context.Background()); err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if sawJWT != "jwt-abc" {
		t.Fatalf("jwt param = %q, want jwt-abc", sawJWT)
	}
}

func TestListWithoutLoginOmitsToken(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := r.URL.Query()["jwt"]; ok {
			t.Error("jwt param sent without login")
		}
		json.NewEncoder(w).Encode(map[string]any{"mp3s": []ytdl.RemoteFile{}})
	}))

	files, err := client.List(context.Background())
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(files) != 0 {
		t.Fatalf("len(files) = %d, want 0", len(files))
	}
}

func TestListTransportFailureIsListingError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	client, err := ytdl.New(server.URL, "test-key")
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	server.Close()

	_, err = client.List(context.Background())
	if !errors.Is(err, services.ErrListing) {
		t.Fatalf("List error = %v, want ErrListing", err)
	}
	if !services.Fatal(err) {
		t.Fatalf("listing failures must be fatal: %v", err)
	}
}

func TestDownloadWritesWholeFile(t *testing.T) {
	const payload = "ID3 fake audio bytes"
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/downloadFileFromServer" {
			t.Errorf("path = %q", r.URL.Path)
		}
		var req map[string]string
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req["uid"] != "a1" || req["type"] != "audio" {
			t.Errorf("request body = %v", req)
		}
		w.Write([]byte(payload))
	}))

	dir := t.TempDir()
	dest := filepath.Join(dir, "Song A.mp3")
	file := ytdl.RemoteFile{UID: "a1", Title: "Song A.mp3", Path: "Song A.mp3"}
	if err := client.Download(context.Background(), file, dest); err != nil {
		t.Fatalf("Download returned error: %v", err)
	}

	data, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("read destination: %v", err)
	}
	if string(data) != payload {
		t.Fatalf("destination content = %q, want %q", data, payload)
	}
	assertNoPartials(t, dir)
}

func TestDownloadAbortedStreamLeavesNoDestination(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Length", "1000")
		w.Write([]byte("short"))
	}))

	dir := t.TempDir()
	dest := filepath.Join(dir, "Song A.mp3")
	file := ytdl.RemoteFile{UID: "a1"}
	err := client.Download(context.Background(), file, dest)
	if !errors.Is(err, services.ErrTransient) {
		t.Fatalf("Download error = %v, want ErrTransient", err)
	}
	if _, statErr := os.Stat(dest); !os.IsNotExist(statErr) {
		t.Fatalf("partial download visible at destination (stat err = %v)", statErr)
	}
	assertNoPartials(t, dir)
}

func TestDownloadServerErrorCarriesUID(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))

	dest := filepath.Join(t.TempDir(), "missing.mp3")
	err := client.Download(context.Background(), ytdl.RemoteFile{UID: "zz9"}, dest)
	if !errors.Is(err, services.ErrTransient) {
		t.Fatalf("Download error = %v, want ErrTransient", err)
	}
	if !strings.Contains(err.Error(), "zz9") {
		t.Fatalf("error %q does not carry the file uid", err)
	}
	if _, statErr := os.Stat(dest); !os.IsNotExist(statErr) {
		t.Fatal("destination created despite server error")
	}
}

func TestDeletePostsUID(t *testing.T) {
	var deleted []string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/deleteFile" {
			t.Errorf("path = %q", r.URL.Path)
		}
		var req map[string]string
		json.NewDecoder(r.Body).Decode(&req)
		deleted = append(deleted, req["uid"])
	}))

	if err := client.Delete(context.Background(), ytdl.RemoteFile{UID: "a1"}); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if len(deleted) != 1 || deleted[0] != "a1" {
		t.Fatalf("deleted = %v, want [a1]", deleted)
	}
}

func TestDeleteServerError(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))

	err := client.Delete(context.Background(), ytdl.RemoteFile{UID: "a1"})
	if !errors.Is(err, services.ErrTransient) {
		t.Fatalf("Delete error = %v, want ErrTransient", err)
	}
}

func TestRemoteFileName(t *testing.T) {
	if got := (ytdl.RemoteFile{UID: "a1", Title: "Song"}).Name(); got != "Song" {
		t.Fatalf("Name() = %q, want Song", got)
	}
	if got := (ytdl.RemoteFile{UID: "a1"}).Name(); got != "a1" {
		t.Fatalf("Name() = %q, want a1", got)
	}
}

func assertNoPartials(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".partial") {
			t.Fatalf("stray partial file left behind: %s", entry.Name())
		}
	}
}
