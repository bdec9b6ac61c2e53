package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/maculado/companion/internal/models"
)

var (
	// ErrDuplicateLogin is returned when a registration reuses a login.
	ErrDuplicateLogin = errors.New("login already exists")
	// ErrInvalidCredentials covers both unknown login and wrong password, so
	// callers cannot enumerate accounts.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrNotFound is returned by lookups for missing rows.
	ErrNotFound = errors.New("not found")
)

// IdentityService owns user accounts and credentials.
type IdentityService struct {
	db *gorm.DB
}

func NewIdentityService(db *gorm.DB) *IdentityService {
	return &IdentityService{db: db}
}

// CreateUser registers an account with a bcrypt credential and the default role.
func (s *IdentityService) CreateUser(ctx context.Context, fullName, login, password string) error {
	digest, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user := models.User{
		FullName: strings.TrimSpace(fullName),
		Login:    strings.TrimSpace(login),
		Password: string(digest),
		Role:     models.RoleUser,
	}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		if isDuplicateErr(err) {
			return ErrDuplicateLogin
		}
		return err
	}
	return nil
}

// Authenticate verifies credentials and returns the account's full name.
// Legacy credentials (sha256 hex or plaintext, from before the scheme change)
// are verified with their old scheme and upgraded to bcrypt in place on the
// first successful login.
func (s *IdentityService) Authenticate(ctx context.Context, login, password string) (string, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("login = ?", login).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", err
	}

	stored := user.Password
	switch {
	case strings.HasPrefix(stored, "$2"):
		if bcrypt.CompareHashAndPassword([]byte(stored), []byte(password)) != nil {
			return "", ErrInvalidCredentials
		}
	case isSHA256Hex(stored):
		sum := sha256.Sum256([]byte(password))
		if hex.EncodeToString(sum[:]) != stored {
			return "", ErrInvalidCredentials
		}
		if err := s.upgradeCredential(ctx, user.ID, password); err != nil {
			return "", err
		}
	default:
		if stored != password {
			return "", ErrInvalidCredentials
		}
		if err := s.upgradeCredential(ctx, user.ID, password); err != nil {
			return "", err
		}
	}
	return user.FullName, nil
}

func (s *IdentityService) upgradeCredential(ctx context.Context, userID uint, password string) error {
	digest, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", userID).
		Update("password", string(digest)).Error
}

// LookupRole returns the role stored for a login.
func (s *IdentityService) LookupRole(ctx context.Context, login string) (string, error) {
	var user models.User
	err := s.db.WithContext(ctx).Select("role").Where("login = ?", login).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrNotFound
		}
		return "", err
	}
	return user.Role, nil
}

// FullName returns the display name for a login.
func (s *IdentityService) FullName(ctx context.Context, login string) (string, error) {
	var user models.User
	err := s.db.WithContext(ctx).Select("full_name").Where("login = ?", login).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrNotFound
		}
		return "", err
	}
	return user.FullName, nil
}

// Exists reports whether a login still resolves to an account. Used by the
// session middleware to invalidate sessions for removed accounts.
func (s *IdentityService) Exists(ctx context.Context, login string) bool {
	var count int64
	s.db.WithContext(ctx).Model(&models.User{}).Where("login = ?", login).Count(&count)
	return count > 0
}

func isSHA256Hex(s string) bool {
	if len(s) != 64 {
		return false
	}
	_, err := hex.DecodeString(s)
	return err == nil
}

// isDuplicateErr matches unique-constraint violations across sqlite and postgres.
func isDuplicateErr(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique") || strings.Contains(msg, "duplicate")
}
