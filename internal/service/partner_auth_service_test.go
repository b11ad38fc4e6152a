package service

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/partnerdesk/partnerdesk/internal/config"
	"github.com/partnerdesk/partnerdesk/internal/constants"
	"github.com/partnerdesk/partnerdesk/internal/models"
	"github.com/partnerdesk/partnerdesk/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func TestRegisterWithoutReferralCode(t *testing.T) {
	svc, db := setupPartnerAuthServiceTest(t)

	user, token, expiresAt, err := svc.Register(PartnerRegisterInput{
		Email:    "Fresh.Partner@Example.COM",
		Password: "Partner12345",
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if user.Email != "fresh.partner@example.com" {
		t.Fatalf("expected normalized email, got %q", user.Email)
	}
	if user.ParentPartnerID != nil {
		t.Fatalf("expected root partner, got parent %v", user.ParentPartnerID)
	}
	if user.DisplayName != "fresh.partner" {
		t.Fatalf("expected display name derived from email, got %q", user.DisplayName)
	}
	if len(user.ReferralCode) == 0 {
		t.Fatalf("expected a referral code allocated")
	}
	if token == "" || !expiresAt.After(time.Now()) {
		t.Fatalf("expected a live session token, got %q until %v", token, expiresAt)
	}

	claims, err := svc.ParsePartnerJWT(token)
	if err != nil {
		t.Fatalf("parse token failed: %v", err)
	}
	if claims.UserID != user.ID || claims.Email != user.Email {
		t.Fatalf("expected claims for user %d, got %+v", user.ID, claims)
	}

	var count int64
	if err := db.Model(&models.User{}).Count(&count).Error; err != nil {
		t.Fatalf("count users failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected a single user row, got %d", count)
	}
}

func TestRegisterWithReferralCodeLinksUpline(t *testing.T) {
	svc, db := setupPartnerAuthServiceTest(t)

	parent, _, _, err := svc.Register(PartnerRegisterInput{
		Email:    "introducer@example.com",
		Password: "Partner12345",
	})
	if err != nil {
		t.Fatalf("register parent failed: %v", err)
	}

	child, _, _, err := svc.Register(PartnerRegisterInput{
		Email:        "introduced@example.com",
		Password:     "Partner12345",
		ReferralCode: parent.ReferralCode,
	})
	if err != nil {
		t.Fatalf("register child failed: %v", err)
	}
	if child.ParentPartnerID == nil || *child.ParentPartnerID != parent.ID {
		t.Fatalf("expected child linked under %d, got %v", parent.ID, child.ParentPartnerID)
	}

	var parentRow models.User
	if err := db.First(&parentRow, parent.ID).Error; err != nil {
		t.Fatalf("reload parent failed: %v", err)
	}
	if child.PartnerLevel != parentRow.PartnerLevel+1 {
		t.Fatalf("expected child level %d, got %d", parentRow.PartnerLevel+1, child.PartnerLevel)
	}

	// Registration primes the upline cache that commission splits read.
	var rows []models.PartnerHierarchy
	if err := db.Where("child_id = ?", child.ID).Find(&rows).Error; err != nil {
		t.Fatalf("load cache rows failed: %v", err)
	}
	if len(rows) != 1 || rows[0].ParentID != parent.ID || rows[0].Level != 1 {
		t.Fatalf("expected one level-1 cache row to %d, got %+v", parent.ID, rows)
	}
}

func TestRegisterRejectsBadInput(t *testing.T) {
	svc, db := setupPartnerAuthServiceTest(t)

	if _, _, _, err := svc.Register(PartnerRegisterInput{Email: "not-an-email", Password: "Partner12345"}); !errors.Is(err, ErrInvalidEmail) {
		t.Fatalf("expected ErrInvalidEmail, got %v", err)
	}
	if _, _, _, err := svc.Register(PartnerRegisterInput{Email: "weak@example.com", Password: "short"}); !errors.Is(err, ErrPasswordPolicy) {
		t.Fatalf("expected ErrPasswordPolicy, got %v", err)
	}
	if _, _, _, err := svc.Register(PartnerRegisterInput{
		Email:        "orphan@example.com",
		Password:     "Partner12345",
		ReferralCode: "NOSUCH01",
	}); !errors.Is(err, ErrReferralCodeInvalid) {
		t.Fatalf("expected ErrReferralCodeInvalid, got %v", err)
	}

	parent, _, _, err := svc.Register(PartnerRegisterInput{Email: "taken@example.com", Password: "Partner12345"})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if _, _, _, err := svc.Register(PartnerRegisterInput{Email: "Taken@example.com", Password: "Partner12345"}); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}

	// A disabled introducer cannot vouch for new partners.
	if err := db.Model(&models.User{}).Where("id = ?", parent.ID).
		Update("status", constants.UserStatusDisabled).Error; err != nil {
		t.Fatalf("disable parent failed: %v", err)
	}
	if _, _, _, err := svc.Register(PartnerRegisterInput{
		Email:        "hopeful@example.com",
		Password:     "Partner12345",
		ReferralCode: parent.ReferralCode,
	}); !errors.Is(err, ErrReferralCodeInvalid) {
		t.Fatalf("expected ErrReferralCodeInvalid for disabled introducer, got %v", err)
	}
}

func TestPartnerLogin(t *testing.T) {
	svc, db := setupPartnerAuthServiceTest(t)

	registered, _, _, err := svc.Register(PartnerRegisterInput{Email: "login@example.com", Password: "Partner12345"})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	user, token, _, err := svc.Login("Login@Example.com", "Partner12345")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if user.ID != registered.ID || token == "" {
		t.Fatalf("expected session for user %d, got %d", registered.ID, user.ID)
	}
	if user.LastLoginAt == nil {
		t.Fatalf("expected last login recorded")
	}

	if _, _, _, err := svc.Login("login@example.com", "wrong-password"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, _, _, err := svc.Login("nobody@example.com", "Partner12345"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown email, got %v", err)
	}

	if err := db.Model(&models.User{}).Where("id = ?", registered.ID).
		Update("status", constants.UserStatusDisabled).Error; err != nil {
		t.Fatalf("disable user failed: %v", err)
	}
	if _, _, _, err := svc.Login("login@example.com", "Partner12345"); !errors.Is(err, ErrUserDisabled) {
		t.Fatalf("expected ErrUserDisabled, got %v", err)
	}
}

func TestPartnerChangePasswordRevokesTokens(t *testing.T) {
	svc, _ := setupPartnerAuthServiceTest(t)

	user, _, _, err := svc.Register(PartnerRegisterInput{Email: "rotate@example.com", Password: "Partner12345"})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	if err := svc.ChangePassword(user.ID, "wrong-old", "Partner67890"); !errors.Is(err, ErrInvalidPassword) {
		t.Fatalf("expected ErrInvalidPassword, got %v", err)
	}
	if err := svc.ChangePassword(user.ID, "Partner12345", "short"); !errors.Is(err, ErrPasswordPolicy) {
		t.Fatalf("expected ErrPasswordPolicy, got %v", err)
	}
	if err := svc.ChangePassword(user.ID, "Partner12345", "Partner67890"); err != nil {
		t.Fatalf("change password failed: %v", err)
	}

	rotated, err := svc.GetPartner(user.ID)
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if rotated.TokenVersion != user.TokenVersion+1 {
		t.Fatalf("expected token version bump, got %d", rotated.TokenVersion)
	}
	if rotated.TokenInvalidBefore == nil {
		t.Fatalf("expected token invalidation timestamp set")
	}

	if _, _, _, err := svc.Login("rotate@example.com", "Partner12345"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected old password rejected, got %v", err)
	}
	if _, _, _, err := svc.Login("rotate@example.com", "Partner67890"); err != nil {
		t.Fatalf("login with new password failed: %v", err)
	}
}

func TestUpdateBankDetails(t *testing.T) {
	svc, _ := setupPartnerAuthServiceTest(t)

	user, _, _, err := svc.Register(PartnerRegisterInput{Email: "payee@example.com", Password: "Partner12345"})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	updated, err := svc.UpdateBankDetails(user.ID, BankDetailsInput{
		BankName:          " Monzo ",
		BankAccountName:   "P Payee",
		BankAccountNumber: "12345678",
		BankSortCode:      "04-00-04",
	})
	if err != nil {
		t.Fatalf("update bank details failed: %v", err)
	}
	if updated.BankName != "Monzo" {
		t.Fatalf("expected trimmed bank name, got %q", updated.BankName)
	}
	if updated.BankAccountNumber != "12345678" || updated.BankSortCode != "04-00-04" {
		t.Fatalf("expected account details stored, got %+v", updated)
	}

	if _, err := svc.UpdateBankDetails(9999, BankDetailsInput{}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown partner, got %v", err)
	}
}

func setupPartnerAuthServiceTest(t *testing.T) (*PartnerAuthService, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:partner_auth_service_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.PartnerHierarchy{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}

	cfg := &config.Config{}
	cfg.UserJWT.SecretKey = "partner-auth-test-secret-key-0123456789"
	cfg.UserJWT.ExpireHours = 1
	cfg.Security.PasswordPolicy = config.PasswordPolicyConfig{
		MinLength:     8,
		RequireUpper:  true,
		RequireLower:  true,
		RequireNumber: true,
	}

	userRepo := repository.NewUserRepository(db)
	hierarchySvc := NewHierarchyService(repository.NewHierarchyRepository(db), userRepo)
	return NewPartnerAuthService(cfg, userRepo, hierarchySvc), db
}
