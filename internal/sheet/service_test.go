package sheet

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"gridchat/internal/config"
)

func testServer(t *testing.T, hits *int, payload string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*hits++
		if r.URL.Path != "/sheets/track-1" {
			http.NotFound(w, r)
			return
		}
		if r.Header.Get("Authorization") != "Bearer bot-key" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(payload))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestGetTableDecodesRemote(t *testing.T) {
	hits := 0
	srv := testServer(t, &hits, `{"rows":[{"file":"alpha"}]}`)

	s := NewService(config.SheetConfig{BaseURL: srv.URL}, nil)
	table, err := s.GetTable(context.Background(), "track-1", "bot-key", false)
	if err != nil {
		t.Fatalf("GetTable: %v", err)
	}
	wrapped, ok := table.(map[string]interface{})
	if !ok {
		t.Fatalf("expected decoded object, got %T", table)
	}
	rows, ok := wrapped["rows"].([]interface{})
	if !ok || len(rows) != 1 {
		t.Fatalf("rows not decoded: %v", wrapped)
	}
	if hits != 1 {
		t.Fatalf("expected one remote hit, got %d", hits)
	}
}

func TestGetTableWithoutCacheAlwaysFetches(t *testing.T) {
	hits := 0
	srv := testServer(t, &hits, `{"rows":[]}`)

	s := NewService(config.SheetConfig{BaseURL: srv.URL}, nil)
	for i := 0; i < 3; i++ {
		if _, err := s.GetTable(context.Background(), "track-1", "bot-key", false); err != nil {
			t.Fatalf("GetTable #%d: %v", i, err)
		}
	}
	if hits != 3 {
		t.Fatalf("nil cache must fetch every call, got %d hits", hits)
	}
}

func TestGetTableRequiresSheetID(t *testing.T) {
	s := NewService(config.SheetConfig{BaseURL: "http://unused"}, nil)
	if _, err := s.GetTable(context.Background(), "", "", false); err == nil {
		t.Fatal("expected error for empty sheet id")
	}
}

func TestGetTableRemoteError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	s := NewService(config.SheetConfig{BaseURL: srv.URL}, nil)
	if _, err := s.GetTable(context.Background(), "track-1", "", false); err == nil {
		t.Fatal("expected error for upstream failure")
	}
}

func TestGetTableRejectsMalformedJSON(t *testing.T) {
	hits := 0
	srv := testServer(t, &hits, `{"rows": [`)

	s := NewService(config.SheetConfig{BaseURL: srv.URL}, nil)
	if _, err := s.GetTable(context.Background(), "track-1", "bot-key", false); err == nil {
		t.Fatal("expected decode error")
	}
}
