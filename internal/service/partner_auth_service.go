package service

import (
	"context"
	"crypto/rand"
	"errors"
	"math/big"
	"net/mail"
	"strings"
	"time"

	"github.com/partnerdesk/partnerdesk/internal/cache"
	"github.com/partnerdesk/partnerdesk/internal/config"
	"github.com/partnerdesk/partnerdesk/internal/constants"
	"github.com/partnerdesk/partnerdesk/internal/models"
	"github.com/partnerdesk/partnerdesk/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const (
	referralCodeLength = 8
	// Ambiguous characters removed so codes survive being read aloud.
	referralCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
)

// PartnerAuthService handles partner registration and sign-in.
type PartnerAuthService struct {
	cfg          *config.Config
	userRepo     repository.UserRepository
	hierarchySvc *HierarchyService
}

// NewPartnerAuthService creates a partner auth service.
func NewPartnerAuthService(cfg *config.Config, userRepo repository.UserRepository, hierarchySvc *HierarchyService) *PartnerAuthService {
	return &PartnerAuthService{
		cfg:          cfg,
		userRepo:     userRepo,
		hierarchySvc: hierarchySvc,
	}
}

// PartnerJWTClaims is the partner token payload.
type PartnerJWTClaims struct {
	UserID       uint   `json:"user_id"`
	Email        string `json:"email"`
	TokenVersion uint64 `json:"token_version"`
	jwt.RegisteredClaims
}

// GeneratePartnerJWT signs a partner session token.
func (s *PartnerAuthService) GeneratePartnerJWT(user *models.User) (string, time.Time, error) {
	expireHours := s.cfg.UserJWT.ExpireHours
	if expireHours <= 0 {
		expireHours = 72
	}
	expiresAt := time.Now().Add(time.Duration(expireHours) * time.Hour)
	claims := PartnerJWTClaims{
		UserID:       user.ID,
		Email:        user.Email,
		TokenVersion: user.TokenVersion,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.cfg.UserJWT.SecretKey))
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

// ParsePartnerJWT validates and decodes a partner session token.
func (s *PartnerAuthService) ParsePartnerJWT(tokenString string) (*PartnerJWTClaims, error) {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	claims := &PartnerJWTClaims{}
	token, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.UserJWT.SecretKey), nil
	})
	if err != nil {
		return nil, err
	}
	if claims, ok := token.Claims.(*PartnerJWTClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, errors.New("invalid token")
}

// PartnerRegisterInput carries a signup request.
type PartnerRegisterInput struct {
	Email        string
	Password     string
	DisplayName  string
	Phone        string
	ReferralCode string // referral code of the introducing partner, optional
}

// Register creates a partner account. A supplied referral code links the
// new partner under its owner, which is what later gives that owner a
// share of the new partner's deals.
func (s *PartnerAuthService) Register(input PartnerRegisterInput) (*models.User, string, time.Time, error) {
	normalized, err := normalizeEmail(input.Email)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	if err := validatePassword(s.cfg.Security.PasswordPolicy, input.Password); err != nil {
		return nil, "", time.Time{}, err
	}

	exist, err := s.userRepo.GetByEmail(normalized)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	if exist != nil {
		return nil, "", time.Time{}, ErrEmailTaken
	}

	var parentID *uint
	partnerLevel := 0
	if code := strings.TrimSpace(input.ReferralCode); code != "" {
		parent, err := s.userRepo.GetByReferralCode(strings.ToUpper(code))
		if err != nil {
			return nil, "", time.Time{}, err
		}
		if parent == nil || parent.Status != constants.UserStatusActive {
			return nil, "", time.Time{}, ErrReferralCodeInvalid
		}
		parentID = &parent.ID
		partnerLevel = parent.PartnerLevel + 1
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", time.Time{}, err
	}

	displayName := strings.TrimSpace(input.DisplayName)
	if displayName == "" {
		displayName = resolveNameFromEmail(normalized)
	}

	user := &models.User{
		Email:           normalized,
		PasswordHash:    string(hashedPassword),
		DisplayName:     displayName,
		Phone:           strings.TrimSpace(input.Phone),
		ParentPartnerID: parentID,
		PartnerLevel:    partnerLevel,
		Status:          constants.UserStatusActive,
	}

	// Retry on the rare referral code collision.
	for attempt := 0; attempt < 3; attempt++ {
		code, err := generateReferralCode()
		if err != nil {
			return nil, "", time.Time{}, err
		}
		user.ReferralCode = code
		if err := s.userRepo.Create(user); err != nil {
			if isUniqueViolation(err) && user.ID == 0 {
				continue
			}
			return nil, "", time.Time{}, err
		}
		break
	}
	if user.ID == 0 {
		return nil, "", time.Time{}, errors.New("referral code allocation failed")
	}

	if err := s.hierarchySvc.RebuildForUser(user.ID); err != nil {
		return nil, "", time.Time{}, err
	}

	token, expiresAt, err := s.GeneratePartnerJWT(user)
	if err != nil {
		return nil, "", time.Time{}, err
	}

	now := time.Now()
	user.LastLoginAt = &now
	if err := s.userRepo.Update(user); err != nil {
		return nil, "", time.Time{}, err
	}
	_ = cache.SetUserAuthState(context.Background(), cache.BuildUserAuthState(user))

	return user, token, expiresAt, nil
}

// Login authenticates a partner and issues a session token.
func (s *PartnerAuthService) Login(email, password string) (*models.User, string, time.Time, error) {
	normalized, err := normalizeEmail(email)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	user, err := s.userRepo.GetByEmail(normalized)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	if user == nil {
		return nil, "", time.Time{}, ErrInvalidCredentials
	}
	if strings.ToLower(user.Status) != constants.UserStatusActive {
		return nil, "", time.Time{}, ErrUserDisabled
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", time.Time{}, ErrInvalidCredentials
	}

	token, expiresAt, err := s.GeneratePartnerJWT(user)
	if err != nil {
		return nil, "", time.Time{}, err
	}

	now := time.Now()
	user.LastLoginAt = &now
	if err := s.userRepo.Update(user); err != nil {
		return nil, "", time.Time{}, err
	}
	_ = cache.SetUserAuthState(context.Background(), cache.BuildUserAuthState(user))

	return user, token, expiresAt, nil
}

// ChangePassword rotates a partner password and revokes existing tokens.
func (s *PartnerAuthService) ChangePassword(userID uint, oldPassword, newPassword string) error {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrNotFound
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(oldPassword)); err != nil {
		return ErrInvalidPassword
	}
	if err := validatePassword(s.cfg.Security.PasswordPolicy, newPassword); err != nil {
		return err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	user.PasswordHash = string(hashed)
	now := time.Now()
	user.TokenVersion++
	user.TokenInvalidBefore = &now
	if err := s.userRepo.Update(user); err != nil {
		return err
	}
	_ = cache.SetUserAuthState(context.Background(), cache.BuildUserAuthState(user))
	return nil
}

// BankDetailsInput carries payout account details.
type BankDetailsInput struct {
	BankName          string
	BankAccountName   string
	BankAccountNumber string
	BankSortCode      string
}

// UpdateBankDetails stores the account commission payouts go to.
func (s *PartnerAuthService) UpdateBankDetails(userID uint, input BankDetailsInput) (*models.User, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotFound
	}

	user.BankName = strings.TrimSpace(input.BankName)
	user.BankAccountName = strings.TrimSpace(input.BankAccountName)
	user.BankAccountNumber = strings.TrimSpace(input.BankAccountNumber)
	user.BankSortCode = strings.TrimSpace(input.BankSortCode)
	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

// GetPartner loads a partner by id.
func (s *PartnerAuthService) GetPartner(userID uint) (*models.User, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotFound
	}
	return user, nil
}

func normalizeEmail(email string) (string, error) {
	trimmed := strings.ToLower(strings.TrimSpace(email))
	if _, err := mail.ParseAddress(trimmed); err != nil {
		return "", ErrInvalidEmail
	}
	return trimmed, nil
}

func resolveNameFromEmail(email string) string {
	if at := strings.Index(email, "@"); at > 0 {
		return email[:at]
	}
	return email
}

// generateReferralCode builds a short shareable partner code.
func generateReferralCode() (string, error) {
	var builder strings.Builder
	max := big.NewInt(int64(len(referralCodeAlphabet)))
	for i := 0; i < referralCodeLength; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		builder.WriteByte(referralCodeAlphabet[n.Int64()])
	}
	return builder.String(), nil
}
