package store

import (
	"testing"
	"time"

	"bookshelf/pkg/domain"
)

func TestMemoryUserStoreRoundTrip(t *testing.T) {
	s := NewMemoryUserStore()
	user := domain.User{
		ID:        "user-1",
		Username:  "alice",
		Email:     "a@x.com",
		CreatedAt: time.Now().UTC(),
	}
	if err := s.SaveUser(user); err != nil {
		t.Fatalf("save user: %v", err)
	}

	if ok, _ := s.HasUsername("alice"); !ok {
		t.Fatalf("expected username to exist")
	}
	if ok, _ := s.HasUserEmail("a@x.com"); !ok {
		t.Fatalf("expected email to exist")
	}
	if ok, _ := s.HasUsername("bob"); ok {
		t.Fatalf("unexpected username match")
	}

	got, ok, err := s.GetUserByUsername("alice")
	if err != nil || !ok {
		t.Fatalf("get by username: ok=%v err=%v", ok, err)
	}
	if got.ID != "user-1" {
		t.Fatalf("unexpected user: %+v", got)
	}

	s.DeleteUser("user-1")
	if _, ok, _ := s.GetUserByID("user-1"); ok {
		t.Fatalf("expected user gone after delete")
	}
	if ok, _ := s.HasUsername("alice"); ok {
		t.Fatalf("expected username index cleared")
	}
}

func TestMemoryBookStoreRoundTripAndOrder(t *testing.T) {
	s := NewMemoryBookStore()
	year := 1965
	first := domain.Book{ID: "b1", Title: "Dune", Author: "Herbert", Year: &year}
	second := domain.Book{ID: "b2", Title: "Hyperion", Author: "Simmons"}
	if err := s.SaveBook(first); err != nil {
		t.Fatalf("save first: %v", err)
	}
	if err := s.SaveBook(second); err != nil {
		t.Fatalf("save second: %v", err)
	}

	books, err := s.ListBooks()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(books) != 2 || books[0].ID != "b1" || books[1].ID != "b2" {
		t.Fatalf("unexpected list: %+v", books)
	}

	got, ok, _ := s.GetBook("b1")
	if !ok || got.Title != "Dune" || got.Year == nil || *got.Year != 1965 {
		t.Fatalf("unexpected book: %+v ok=%v", got, ok)
	}

	deleted, err := s.DeleteBook("b1")
	if err != nil || !deleted {
		t.Fatalf("delete: deleted=%v err=%v", deleted, err)
	}
	if _, ok, _ := s.GetBook("b1"); ok {
		t.Fatalf("expected book gone after delete")
	}
	deleted, _ = s.DeleteBook("b1")
	if deleted {
		t.Fatalf("second delete should report nothing removed")
	}
}
