package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"testing"

	"github.com/maculado/companion/internal/models"
)

func TestCreateUserAndAuthenticate(t *testing.T) {
	db := setupTestDB(t, t.Name())
	svc := NewIdentityService(db)
	ctx := context.Background()

	if err := svc.CreateUser(ctx, "Jane Doe", "jane", "let-me-in"); err != nil {
		t.Fatalf("create: %v", err)
	}

	name, err := svc.Authenticate(ctx, "jane", "let-me-in")
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if name != "Jane Doe" {
		t.Fatalf("expected full name got %q", name)
	}

	if _, err := svc.Authenticate(ctx, "jane", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials got %v", err)
	}
	if _, err := svc.Authenticate(ctx, "nobody", "let-me-in"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown login got %v", err)
	}
}

func TestCreateUserDuplicateLogin(t *testing.T) {
	db := setupTestDB(t, t.Name())
	svc := NewIdentityService(db)
	ctx := context.Background()

	if err := svc.CreateUser(ctx, "Jane Doe", "jane", "a"); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := svc.CreateUser(ctx, "Other Jane", "jane", "b"); !errors.Is(err, ErrDuplicateLogin) {
		t.Fatalf("expected ErrDuplicateLogin got %v", err)
	}
}

func TestAuthenticateUpgradesLegacySHA256(t *testing.T) {
	db := setupTestDB(t, t.Name())
	svc := NewIdentityService(db)
	ctx := context.Background()

	sum := sha256.Sum256([]byte("old-secret"))
	legacy := models.User{
		FullName: "Old Timer",
		Login:    "elder",
		Password: hex.EncodeToString(sum[:]),
		Role:     models.RoleUser,
	}
	if err := db.Create(&legacy).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}

	if _, err := svc.Authenticate(ctx, "elder", "old-secret"); err != nil {
		t.Fatalf("legacy authenticate: %v", err)
	}

	var u models.User
	db.Where("login = ?", "elder").First(&u)
	if !strings.HasPrefix(u.Password, "$2") {
		t.Fatalf("credential not upgraded to bcrypt: %q", u.Password[:4])
	}
	// The upgraded credential keeps working.
	if _, err := svc.Authenticate(ctx, "elder", "old-secret"); err != nil {
		t.Fatalf("post-upgrade authenticate: %v", err)
	}
	if _, err := svc.Authenticate(ctx, "elder", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials got %v", err)
	}
}

func TestAuthenticateUpgradesLegacyPlaintext(t *testing.T) {
	db := setupTestDB(t, t.Name())
	svc := NewIdentityService(db)
	ctx := context.Background()

	legacy := models.User{FullName: "Old Timer", Login: "elder", Password: "plain", Role: models.RoleUser}
	if err := db.Create(&legacy).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}

	if _, err := svc.Authenticate(ctx, "elder", "plain"); err != nil {
		t.Fatalf("legacy authenticate: %v", err)
	}
	var u models.User
	db.Where("login = ?", "elder").First(&u)
	if !strings.HasPrefix(u.Password, "$2") {
		t.Fatalf("credential not upgraded to bcrypt")
	}
}

func TestLookupRoleAndExists(t *testing.T) {
	db := setupTestDB(t, t.Name())
	svc := NewIdentityService(db)
	ctx := context.Background()

	if err := svc.CreateUser(ctx, "Jane Doe", "jane", "x"); err != nil {
		t.Fatalf("create: %v", err)
	}
	role, err := svc.LookupRole(ctx, "jane")
	if err != nil || role != models.RoleUser {
		t.Fatalf("expected default role got %q (%v)", role, err)
	}
	if _, err := svc.LookupRole(ctx, "nobody"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound got %v", err)
	}

	if !svc.Exists(ctx, "jane") {
		t.Fatal("expected jane to exist")
	}
	if svc.Exists(ctx, "nobody") {
		t.Fatal("expected nobody to not exist")
	}
}
