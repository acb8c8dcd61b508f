package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"inventindia-system/models"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

var (
	ErrUsernameTooShort = errors.New("username must be at least 3 characters")
	ErrInvalidEmail     = errors.New("email address is not valid")
	ErrEmailTaken       = errors.New("email is already registered")
	ErrUserNotFound     = errors.New("user not found")
)

type UserService struct {
	DB   *gorm.DB
	RDB  *redis.Client // optional online-user set
	Live *LiveStatsService
}

func NewUserService(db *gorm.DB, rdb *redis.Client, live *LiveStatsService) *UserService {
	return &UserService{DB: db, RDB: rdb, Live: live}
}

// Register creates a new identity, appends it to the registered-users list
// and initializes its zeroed progress record.
func (s *UserService) Register(username, email string) (*models.User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(strings.ToLower(email))
	if len(username) < 3 {
		return nil, ErrUsernameTooShort
	}
	if !strings.Contains(email, "@") || strings.HasPrefix(email, "@") || strings.HasSuffix(email, "@") {
		return nil, ErrInvalidEmail
	}

	var count int64
	if err := s.DB.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrEmailTaken
	}

	profileSlug, err := s.uniqueSlug(username)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	user := models.User{
		ID:        uuid.NewString(),
		Username:  username,
		Slug:      profileSlug,
		Email:     email,
		JoinDate:  now,
		LastLogin: now,
		IsOnline:  true,
	}
	if err := s.DB.Create(&user).Error; err != nil {
		return nil, err
	}

	// Every logged-in user has exactly one progress record
	if _, err := ensureProgressRecord(s.DB, user.ID); err != nil {
		return nil, err
	}

	s.markOnline(user.ID)
	if s.Live != nil {
		s.Live.NoteLogin(true)
	}

	log.Printf("✅ Registered explorer %s (%s)", user.Username, user.ID)
	return &user, nil
}

// Login looks up an identity by email or username, marks it online and makes
// sure its progress record exists.
func (s *UserService) Login(identifier string) (*models.User, error) {
	identifier = strings.TrimSpace(identifier)

	var user models.User
	err := s.DB.Where("email = ? OR username = ?", strings.ToLower(identifier), identifier).
		First(&user).Error
	if err == gorm.ErrRecordNotFound {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	user.LastLogin = time.Now()
	user.IsOnline = true
	if err := s.DB.Save(&user).Error; err != nil {
		return nil, err
	}
	if _, err := ensureProgressRecord(s.DB, user.ID); err != nil {
		return nil, err
	}

	s.markOnline(user.ID)
	if s.Live != nil {
		s.Live.NoteLogin(false)
	}
	return &user, nil
}

// DemoLogin creates (or revives) the fixed demo identity.
func (s *UserService) DemoLogin() (*models.User, error) {
	var user models.User
	err := s.DB.Where("id = ?", models.DemoUserID).First(&user).Error
	if err == gorm.ErrRecordNotFound {
		user = models.NewDemoUser()
		if err := s.DB.Create(&user).Error; err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, err
	} else {
		user.LastLogin = time.Now()
		user.IsOnline = true
		if err := s.DB.Save(&user).Error; err != nil {
			return nil, err
		}
	}

	if _, err := ensureProgressRecord(s.DB, user.ID); err != nil {
		return nil, err
	}
	s.markOnline(user.ID)
	if s.Live != nil {
		s.Live.NoteLogin(false)
	}
	return &user, nil
}

// Logout clears the online flag. Progress is untouched; there is no
// account-deletion path.
func (s *UserService) Logout(userID string) error {
	res := s.DB.Model(&models.User{}).Where("id = ?", userID).Update("is_online", false)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrUserNotFound
	}
	if s.RDB != nil {
		if err := s.RDB.SRem(context.Background(), OnlineUsersKey, userID).Err(); err != nil {
			log.Printf("⚠️ online set remove failed for %s: %v", userID, err)
		}
	}
	if s.Live != nil {
		s.Live.NoteLogout()
	}
	return nil
}

// GetUser fetches one identity by ID.
func (s *UserService) GetUser(userID string) (*models.User, error) {
	var user models.User
	err := s.DB.Where("id = ?", userID).First(&user).Error
	if err == gorm.ErrRecordNotFound {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// ListUsers returns every registered identity in registration order, the
// iteration order aggregators rely on.
func (s *UserService) ListUsers() ([]models.User, error) {
	var users []models.User
	err := s.DB.Order("created_at ASC").Find(&users).Error
	return users, err
}

// SearchUsers filters the registered-users list by a case-insensitive
// username/email substring. The limit is capped at 100.
func (s *UserService) SearchUsers(query string, limit int) ([]models.User, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	var users []models.User
	db := s.DB.Model(&models.User{}).Limit(limit)
	if query != "" {
		searchTerm := "%" + strings.ToLower(strings.TrimSpace(query)) + "%"
		db = db.Where(
			"LOWER(username) LIKE ? OR LOWER(email) LIKE ?",
			searchTerm, searchTerm,
		)
	}
	if err := db.Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (s *UserService) markOnline(userID string) {
	if s.RDB == nil {
		return
	}
	if err := s.RDB.SAdd(context.Background(), OnlineUsersKey, userID).Err(); err != nil {
		log.Printf("⚠️ online set add failed for %s: %v", userID, err)
	}
}

// uniqueSlug derives a profile slug from the username, suffixing a short
// token when the plain form is taken.
func (s *UserService) uniqueSlug(username string) (string, error) {
	base := slug.Make(username)
	if base == "" {
		base = "explorer"
	}
	var count int64
	if err := s.DB.Model(&models.User{}).Where("slug = ?", base).Count(&count).Error; err != nil {
		return "", err
	}
	if count == 0 {
		return base, nil
	}
	return fmt.Sprintf("%s-%s", base, uuid.NewString()[:8]), nil
}
