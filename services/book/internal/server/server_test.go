package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"bookshelf/pkg/domain"
	"bookshelf/pkg/store"
	"bookshelf/services/book/internal/app"
	"bookshelf/services/book/internal/authclient"
)

const testToken = "valid-token"

// fakeAuthServer accepts exactly testToken and counts verify calls.
func fakeAuthServer(t *testing.T, verifyCalls *int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/verify" || r.Method != http.MethodPost {
			http.NotFound(w, r)
			return
		}
		if verifyCalls != nil {
			atomic.AddInt32(verifyCalls, 1)
		}
		w.Header().Set("Content-Type", "application/json")
		if r.Header.Get("Authorization") != "Bearer "+testToken {
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]any{"valid": false, "message": "invalid or expired token"})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"valid": true, "user_id": "user-1", "username": "alice",
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestServer(t *testing.T, bookStore store.BookStore, verifyCalls *int32) *httptest.Server {
	t.Helper()
	authSrv := fakeAuthServer(t, verifyCalls)
	appCore, err := app.New(app.Config{Store: bookStore})
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	srv := httptest.NewServer(New(Config{
		App:  appCore,
		Auth: authclient.NewClient(authSrv.URL),
	}).Router())
	t.Cleanup(srv.Close)
	return srv
}

func doAuthed(t *testing.T, method, url string, payload any) *http.Response {
	t.Helper()
	var body *bytes.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		body = bytes.NewReader(raw)
	} else {
		body = bytes.NewReader(nil)
	}
	req, err := http.NewRequest(method, url, body)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Authorization", "Bearer "+testToken)
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	return resp
}

func TestBookCRUDRoundTrip(t *testing.T) {
	srv := newTestServer(t, store.NewMemoryBookStore(), nil)

	// Add.
	resp := doAuthed(t, http.MethodPost, srv.URL+"/books", map[string]any{
		"title": "Dune", "author": "Herbert", "year": 1965,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("add expected 201, got %d", resp.StatusCode)
	}
	var added struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&added); err != nil {
		t.Fatalf("decode add response: %v", err)
	}
	resp.Body.Close()
	if added.ID == "" {
		t.Fatalf("expected generated id")
	}

	// Get.
	resp = doAuthed(t, http.MethodGet, srv.URL+"/books/"+added.ID, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get expected 200, got %d", resp.StatusCode)
	}
	var book domain.Book
	if err := json.NewDecoder(resp.Body).Decode(&book); err != nil {
		t.Fatalf("decode book: %v", err)
	}
	resp.Body.Close()
	if book.Title != "Dune" || book.Author != "Herbert" || book.Year == nil || *book.Year != 1965 {
		t.Fatalf("unexpected book: %+v", book)
	}

	// List.
	resp = doAuthed(t, http.MethodGet, srv.URL+"/books", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list expected 200, got %d", resp.StatusCode)
	}
	var books []domain.Book
	if err := json.NewDecoder(resp.Body).Decode(&books); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	resp.Body.Close()
	if len(books) != 1 || books[0].ID != added.ID {
		t.Fatalf("unexpected list: %+v", books)
	}

	// Delete, then get again.
	resp = doAuthed(t, http.MethodDelete, srv.URL+"/books/"+added.ID, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("delete expected 200, got %d", resp.StatusCode)
	}
	resp.Body.Close()
	resp = doAuthed(t, http.MethodGet, srv.URL+"/books/"+added.ID, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("get after delete expected 404, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestBookEndpointsRejectMalformedID(t *testing.T) {
	srv := newTestServer(t, store.NewMemoryBookStore(), nil)

	resp := doAuthed(t, http.MethodGet, srv.URL+"/books/not-a-uuid", nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("get expected 400, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	resp = doAuthed(t, http.MethodDelete, srv.URL+"/books/not-a-uuid", nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("delete expected 400, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestAddBookRejectsMissingFields(t *testing.T) {
	srv := newTestServer(t, store.NewMemoryBookStore(), nil)
	resp := doAuthed(t, http.MethodPost, srv.URL+"/books", map[string]any{"title": "Dune"})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing author, got %d", resp.StatusCode)
	}
}

type failingBookStore struct {
	store.BookStore
	calls int32
}

func (f *failingBookStore) ListBooks() ([]domain.Book, error) {
	atomic.AddInt32(&f.calls, 1)
	return f.BookStore.ListBooks()
}

func TestUnauthorizedRequestsNeverTouchStore(t *testing.T) {
	bookStore := &failingBookStore{BookStore: store.NewMemoryBookStore()}
	var verifyCalls int32
	srv := newTestServer(t, bookStore, &verifyCalls)

	// Missing header.
	resp, err := http.Get(srv.URL + "/books")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("missing header expected 401, got %d", resp.StatusCode)
	}
	if atomic.LoadInt32(&verifyCalls) != 0 {
		t.Fatalf("verify should not be called without a bearer header")
	}

	// Garbled token.
	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/books", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("garbled token expected 401, got %d", resp.StatusCode)
	}

	if atomic.LoadInt32(&bookStore.calls) != 0 {
		t.Fatalf("store must not be touched by unauthorized requests")
	}
}
