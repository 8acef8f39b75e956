package plex_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"ytsync/internal/services/plex"
)

func TestRefreshHitsSectionEndpoint(t *testing.T) {
	var gotPath, gotToken string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotToken = r.Header.Get("X-Plex-Token")
	}))
	defer server.Close()

	client, err := plex.New(server.URL, "plex-token")
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if err := client.Refresh(context.Background(), "4"); err != nil {
		t.Fatalf("Refresh returned error: %v", err)
	}
	if gotPath != "/library/sections/4/refresh" {
		t.Fatalf("path = %q", gotPath)
	}
	if gotToken != "plex-token" {
		t.Fatalf("token header = %q", gotToken)
	}
}

func TestRefreshNon2xxFails(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
	}))
	defer server.Close()

	client, err := plex.New(server.URL, "plex-token")
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if err := client.Refresh(context.Background(), "4"); err == nil {
		t.Fatal("expected error for non-2xx refresh response")
	}
}

func TestRefreshRequiresSectionID(t *testing.T) {
	client, err := plex.New("https://plex.example.com", "plex-token")
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if err := client.Refresh(context.Background(), " "); err == nil {
		t.Fatal("expected error for empty section id")
	}
}

func TestSectionsParsesMediaContainer(t *testing.T) {
	const payload = `<?xml version="1.0" encoding="UTF-8"?>
<MediaContainer size="2">
  <Directory key="1" type="movie" title="Movies"/>
  <Directory key="4" type="artist" title="Music"/>
  <Directory key="" type="show" title="Broken"/>
</MediaContainer>`

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/library/sections" {
			t.Errorf("path = %q", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/xml")
		w.Write([]byte(payload))
	}))
	defer server.Close()

	client, err := plex.New(server.URL, "plex-token")
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	sections, err := client.Sections(context.Background())
	if err != nil {
		t.Fatalf("Sections returned error: %v", err)
	}
	if len(sections) != 2 {
		t.Fatalf("len(sections) = %d, want 2 (entries without keys skipped)", len(sections))
	}
	if sections[1].ID != "4" || sections[1].Title != "Music" || sections[1].Type != "artist" {
		t.Fatalf("music section = %+v", sections[1])
	}
}

func TestNewValidation(t *testing.T) {
	if _, err := plex.New("", "token"); err == nil {
		t.Fatal("expected error for empty base url")
	}
	if _, err := plex.New("https://plex.example.com", ""); err == nil {
		t.Fatal("expected error for empty token")
	}
}
