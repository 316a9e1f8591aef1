package db

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

type sheetsFake struct {
	rows     [][]string
	getCalls int
	requests []*http.Request
	bodies   []sheets.ValueRange
	status   int
}

func (f *sheetsFake) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.requests = append(f.requests, r)
	if f.status != 0 {
		w.WriteHeader(f.status)
		_, _ = w.Write([]byte(`{"error":{"code":400,"message":"bad request"}}`))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	switch r.Method {
	case http.MethodGet:
		f.getCalls++
		_ = json.NewEncoder(w).Encode(map[string]any{
			"range":          "RedditLinks!A1:D10",
			"majorDimension": "ROWS",
			"values":         f.rows,
		})
	case http.MethodPut, http.MethodPost:
		var body sheets.ValueRange
		_ = json.NewDecoder(r.Body).Decode(&body)
		f.bodies = append(f.bodies, body)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"spreadsheetId": "sheet-id",
			"updates":       map[string]any{"updatedRange": "RedditLinks!A2:D3", "updatedRows": len(body.Values)},
		})
	}
}

func newTestSheetsSink(t *testing.T, fake *sheetsFake) *SheetsSink {
	t.Helper()
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	svc, err := sheets.NewService(context.Background(),
		option.WithEndpoint(srv.URL+"/"),
		option.WithHTTPClient(srv.Client()))
	if err != nil {
		t.Fatalf("sheets.NewService error: %v", err)
	}
	return NewSheetsSink(svc.Spreadsheets.Values, "sheet-id", "RedditLinks!A:D", "RedditLinks!A1:D1")
}

func TestSheetsSinkReadRows(t *testing.T) {
	fake := &sheetsFake{rows: [][]string{{"Date", "Title", "Link", "Type"}, {"2024-01-01 00:00:00", "t", "l", "Saved"}}}
	sink := newTestSheetsSink(t, fake)

	rows, err := sink.ReadRows(context.Background())
	if err != nil {
		t.Fatalf("ReadRows error: %v", err)
	}
	if len(rows) != 2 || rows[1][0] != "2024-01-01 00:00:00" {
		t.Fatalf("rows = %v", rows)
	}
	if got := fake.requests[0].URL.Path; !strings.Contains(got, "/v4/spreadsheets/sheet-id/values/") {
		t.Fatalf("path = %q", got)
	}
}

func TestSheetsSinkWriteHeader(t *testing.T) {
	fake := &sheetsFake{}
	sink := newTestSheetsSink(t, fake)

	if err := sink.WriteHeader(context.Background(), []string{"Date", "Title", "Link", "Type"}); err != nil {
		t.Fatalf("WriteHeader error: %v", err)
	}
	req := fake.requests[0]
	if req.Method != http.MethodPut {
		t.Fatalf("method = %s, want PUT", req.Method)
	}
	if got := req.URL.Query().Get("valueInputOption"); got != "RAW" {
		t.Fatalf("valueInputOption = %q, want RAW", got)
	}
	if !strings.HasSuffix(req.URL.Path, "RedditLinks!A1:D1") {
		t.Fatalf("path = %q, want header range", req.URL.Path)
	}
	if len(fake.bodies) != 1 || len(fake.bodies[0].Values) != 1 || fake.bodies[0].Values[0][0] != "Date" {
		t.Fatalf("bodies = %+v", fake.bodies)
	}
}

func TestSheetsSinkAppendRows(t *testing.T) {
	fake := &sheetsFake{}
	sink := newTestSheetsSink(t, fake)

	rows := [][]string{
		{"2024-01-01 00:00:00", "a", "la", "Saved"},
		{"2024-01-02 00:00:00", "b", "lb", "Upvoted"},
	}
	if err := sink.AppendRows(context.Background(), rows); err != nil {
		t.Fatalf("AppendRows error: %v", err)
	}

	if len(fake.requests) != 1 {
		t.Fatalf("requests = %d, want a single batch call", len(fake.requests))
	}
	req := fake.requests[0]
	if req.Method != http.MethodPost || !strings.HasSuffix(req.URL.Path, ":append") {
		t.Fatalf("%s %s, want POST ...:append", req.Method, req.URL.Path)
	}
	q := req.URL.Query()
	if q.Get("valueInputOption") != "RAW" || q.Get("insertDataOption") != "INSERT_ROWS" {
		t.Fatalf("query = %v", q)
	}
	if got := fake.bodies[0].Values; len(got) != 2 || got[1][1] != "b" {
		t.Fatalf("appended values = %v", got)
	}
}

func TestSheetsSinkReadError(t *testing.T) {
	fake := &sheetsFake{status: http.StatusBadRequest}
	sink := newTestSheetsSink(t, fake)

	if _, err := sink.ReadRows(context.Background()); err == nil {
		t.Fatal("ReadRows error = nil, want failure")
	}
}
