package store

import (
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"bookshelf/pkg/domain"
)

func openGorm(dsn string) (*gorm.DB, error) {
	gormLog := gormlogger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		gormlogger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{Logger: gormLog})
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	return db, nil
}

// GormUserStore implements UserStore using GORM + Postgres.
type GormUserStore struct {
	db *gorm.DB
}

// NewGormUserStore opens the credential database and migrates the user table.
func NewGormUserStore(dsn string) (*GormUserStore, error) {
	db, err := openGorm(dsn)
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&UserModel{}); err != nil {
		return nil, fmt.Errorf("auto migrate users: %w", err)
	}
	return &GormUserStore{db: db}, nil
}

// SaveUser inserts a user. Unique indexes on username and email back up the
// duplicate checks done before insert.
func (s *GormUserStore) SaveUser(u domain.User) error {
	model := userToModel(u)
	return s.db.Create(&model).Error
}

// HasUsername checks if a username exists.
func (s *GormUserStore) HasUsername(username string) (bool, error) {
	var count int64
	if err := s.db.Model(&UserModel{}).Where("username = ?", username).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// HasUserEmail checks if an email exists.
func (s *GormUserStore) HasUserEmail(email string) (bool, error) {
	var count int64
	if err := s.db.Model(&UserModel{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// GetUserByUsername looks up a user by username.
func (s *GormUserStore) GetUserByUsername(username string) (domain.User, bool, error) {
	var model UserModel
	if err := s.db.Where("username = ?", username).First(&model).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return domain.User{}, false, nil
		}
		return domain.User{}, false, err
	}
	return userFromModel(model), true, nil
}

// GetUserByID returns a user by ID.
func (s *GormUserStore) GetUserByID(id string) (domain.User, bool, error) {
	var model UserModel
	if err := s.db.First(&model, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return domain.User{}, false, nil
		}
		return domain.User{}, false, err
	}
	return userFromModel(model), true, nil
}

// GormBookStore implements BookStore using GORM + Postgres.
type GormBookStore struct {
	db *gorm.DB
}

// NewGormBookStore opens the catalog database and migrates the book table.
func NewGormBookStore(dsn string) (*GormBookStore, error) {
	db, err := openGorm(dsn)
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&BookModel{}); err != nil {
		return nil, fmt.Errorf("auto migrate books: %w", err)
	}
	return &GormBookStore{db: db}, nil
}

// SaveBook inserts a book record.
func (s *GormBookStore) SaveBook(b domain.Book) error {
	model := bookToModel(b)
	return s.db.Create(&model).Error
}

// ListBooks returns all books ordered by created_at.
func (s *GormBookStore) ListBooks() ([]domain.Book, error) {
	var models []BookModel
	if err := s.db.Order("created_at ASC").Find(&models).Error; err != nil {
		return nil, err
	}
	res := make([]domain.Book, 0, len(models))
	for _, m := range models {
		res = append(res, bookFromModel(m))
	}
	return res, nil
}

// GetBook retrieves a book by ID.
func (s *GormBookStore) GetBook(id string) (domain.Book, bool, error) {
	var model BookModel
	if err := s.db.First(&model, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return domain.Book{}, false, nil
		}
		return domain.Book{}, false, err
	}
	return bookFromModel(model), true, nil
}

// DeleteBook removes a book, reporting whether a row was deleted.
func (s *GormBookStore) DeleteBook(id string) (bool, error) {
	res := s.db.Delete(&BookModel{}, "id = ?", id)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func userToModel(u domain.User) UserModel {
	return UserModel{
		ID:           u.ID,
		Username:     u.Username,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		CreatedAt:    u.CreatedAt,
	}
}

func userFromModel(m UserModel) domain.User {
	return domain.User{
		ID:           m.ID,
		Username:     m.Username,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		CreatedAt:    m.CreatedAt,
	}
}

func bookToModel(b domain.Book) BookModel {
	return BookModel{
		ID:        b.ID,
		Title:     b.Title,
		Author:    b.Author,
		Year:      b.Year,
		CreatedAt: b.CreatedAt,
	}
}

func bookFromModel(m BookModel) domain.Book {
	return domain.Book{
		ID:        m.ID,
		Title:     m.Title,
		Author:    m.Author,
		Year:      m.Year,
		CreatedAt: m.CreatedAt,
	}
}
