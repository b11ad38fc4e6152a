package service

import "errors"

// Sentinel errors shared across services. Handlers map these onto
// business codes and i18n keys.
var (
	ErrNotFound           = errors.New("record not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidPassword    = errors.New("invalid password")
	ErrPasswordPolicy     = errors.New("password does not meet policy")
	ErrUserDisabled       = errors.New("account disabled")
	ErrEmailTaken         = errors.New("email already registered")

	ErrReferralCodeInvalid  = errors.New("referral code invalid")
	ErrParentSameAsReferrer = errors.New("partner cannot be their own parent")
	ErrHierarchyCycle       = errors.New("partner hierarchy cycle detected")

	ErrDealStageInvalid = errors.New("deal stage invalid")
	ErrStatusInvalid    = errors.New("status value invalid")
	ErrMessageEmpty     = errors.New("message body empty")

	ErrDealNotEligible      = errors.New("deal not eligible for commission")
	ErrDuplicateCommission  = errors.New("commission already exists for deal")
	ErrInvalidAmount        = errors.New("commission amount must be positive")
	ErrNoBeneficiary        = errors.New("deal has no referrer to pay")
	ErrPaymentNotApproved   = errors.New("payment has not been approved")
	ErrPaymentStatusInvalid = errors.New("payment status does not allow this transition")
)
