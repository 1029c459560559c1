package store

import (
	"sync"

	"bookshelf/pkg/domain"
)

// MemoryUserStore keeps users in-process. Used in tests.
type MemoryUserStore struct {
	mu       sync.RWMutex
	users    map[string]domain.User // user ID -> user
	username map[string]string      // username -> user ID
	email    map[string]string      // email -> user ID
}

// NewMemoryUserStore initializes an empty in-memory user store.
func NewMemoryUserStore() *MemoryUserStore {
	return &MemoryUserStore{
		users:    make(map[string]domain.User),
		username: make(map[string]string),
		email:    make(map[string]string),
	}
}

// SaveUser stores a user record.
func (m *MemoryUserStore) SaveUser(u domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[u.ID] = u
	m.username[u.Username] = u.ID
	m.email[u.Email] = u.ID
	return nil
}

// HasUsername checks if a username exists.
func (m *MemoryUserStore) HasUsername(username string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.username[username]
	return ok, nil
}

// HasUserEmail checks if an email exists.
func (m *MemoryUserStore) HasUserEmail(email string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.email[email]
	return ok, nil
}

// GetUserByUsername looks up a user by username.
func (m *MemoryUserStore) GetUserByUsername(username string) (domain.User, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	id, ok := m.username[username]
	if !ok {
		return domain.User{}, false, nil
	}
	u, ok := m.users[id]
	return u, ok, nil
}

// GetUserByID returns a user by ID.
func (m *MemoryUserStore) GetUserByID(id string) (domain.User, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[id]
	return u, ok, nil
}

// DeleteUser removes a user. Only tests use this, to model accounts that
// disappear between token issuance and verification.
func (m *MemoryUserStore) DeleteUser(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return
	}
	delete(m.users, id)
	delete(m.username, u.Username)
	delete(m.email, u.Email)
}

// MemoryBookStore keeps books in-process in insertion order. Used in tests.
type MemoryBookStore struct {
	mu    sync.RWMutex
	books map[string]domain.Book
	order []string
}

// NewMemoryBookStore initializes an empty in-memory book store.
func NewMemoryBookStore() *MemoryBookStore {
	return &MemoryBookStore{books: make(map[string]domain.Book)}
}

// SaveBook stores a book record and tracks insertion order.
func (m *MemoryBookStore) SaveBook(b domain.Book) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.books[b.ID]; !exists {
		m.order = append(m.order, b.ID)
	}
	m.books[b.ID] = b
	return nil
}

// ListBooks returns books in insertion order.
func (m *MemoryBookStore) ListBooks() ([]domain.Book, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	res := make([]domain.Book, 0, len(m.order))
	for _, id := range m.order {
		if b, ok := m.books[id]; ok {
			res = append(res, b)
		}
	}
	return res, nil
}

// GetBook retrieves a book by ID.
func (m *MemoryBookStore) GetBook(id string) (domain.Book, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	b, ok := m.books[id]
	return b, ok, nil
}

// DeleteBook removes a book, reporting whether it existed.
func (m *MemoryBookStore) DeleteBook(id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.books[id]; !ok {
		return false, nil
	}
	delete(m.books, id)
	filtered := m.order[:0]
	for _, item := range m.order {
		if item != id {
			filtered = append(filtered, item)
		}
	}
	m.order = filtered
	return true, nil
}
