package public

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/partnerdesk/partnerdesk/internal/http/response"
	"github.com/partnerdesk/partnerdesk/internal/models"
	"github.com/partnerdesk/partnerdesk/internal/service"
)

type PartnerRegisterRequest struct {
	Email        string `json:"email" binding:"required"`
	Password     string `json:"password" binding:"required"`
	DisplayName  string `json:"display_name"`
	Phone        string `json:"phone"`
	ReferralCode string `json:"referral_code"`
}

type PartnerAuthResponse struct {
	Token     string       `json:"token"`
	Partner   *models.User `json:"partner"`
	ExpiresAt time.Time    `json:"expires_at"`
}

// PartnerRegister creates a partner account, optionally linked under the
// owner of the supplied referral code.
func (h *Handler) PartnerRegister(c *gin.Context) {
	var req PartnerRegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	user, token, expiresAt, err := h.PartnerAuthService.Register(service.PartnerRegisterInput{
		Email:        req.Email,
		Password:     req.Password,
		DisplayName:  req.DisplayName,
		Phone:        req.Phone,
		ReferralCode: req.ReferralCode,
	})
	if err != nil {
		respondPartnerAuthError(c, err)
		return
	}

	response.Success(c, PartnerAuthResponse{Token: token, Partner: user, ExpiresAt: expiresAt})
}

type PartnerLoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// PartnerLogin authenticates a partner and issues a JWT.
func (h *Handler) PartnerLogin(c *gin.Context) {
	var req PartnerLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	user, token, expiresAt, err := h.PartnerAuthService.Login(req.Email, req.Password)
	if err != nil {
		respondPartnerAuthError(c, err)
		return
	}

	response.Success(c, PartnerAuthResponse{Token: token, Partner: user, ExpiresAt: expiresAt})
}

// PartnerProfile returns the authenticated partner.
func (h *Handler) PartnerProfile(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}

	user, err := h.PartnerAuthService.GetPartner(userID)
	if err != nil {
		respondPartnerAuthError(c, err)
		return
	}

	response.Success(c, user)
}

type PartnerChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required"`
}

// PartnerChangePassword rotates the partner password and revokes old tokens.
func (h *Handler) PartnerChangePassword(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}

	var req PartnerChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	if err := h.PartnerAuthService.ChangePassword(userID, req.OldPassword, req.NewPassword); err != nil {
		respondPartnerAuthError(c, err)
		return
	}

	response.Success(c, nil)
}

type BankDetailsRequest struct {
	BankName          string `json:"bank_name" binding:"required"`
	BankAccountName   string `json:"bank_account_name" binding:"required"`
	BankAccountNumber string `json:"bank_account_number" binding:"required"`
	BankSortCode      string `json:"bank_sort_code" binding:"required"`
}

// UpdateBankDetails stores the payout account for the partner.
func (h *Handler) UpdateBankDetails(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}

	var req BankDetailsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	user, err := h.PartnerAuthService.UpdateBankDetails(userID, service.BankDetailsInput{
		BankName:          req.BankName,
		BankAccountName:   req.BankAccountName,
		BankAccountNumber: req.BankAccountNumber,
		BankSortCode:      req.BankSortCode,
	})
	if err != nil {
		respondPartnerAuthError(c, err)
		return
	}

	response.Success(c, user)
}
