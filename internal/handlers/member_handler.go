package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Arrties/backend/internal/auth"
	"github.com/Arrties/backend/internal/services"
)

type MemberHandler struct {
	memberService *services.MemberService
}

func NewMemberHandler(memberService *services.MemberService) *MemberHandler {
	return &MemberHandler{memberService: memberService}
}

type signUpRequest struct {
	Username  string `json:"username" binding:"required"`
	LoginID   string `json:"login_id" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
	Telephone string `json:"telephone"`
}

// Join registers a collector account
func (h *MemberHandler) Join(c *gin.Context) {
	var req signUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	member, err := h.memberService.SaveUser(c.Request.Context(), services.SignUpInput{
		Username:  req.Username,
		LoginID:   req.LoginID,
		Email:     req.Email,
		Password:  req.Password,
		Telephone: req.Telephone,
	})
	if err != nil {
		h.renderError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    member,
	})
}

// JoinArtist registers an artist account
func (h *MemberHandler) JoinArtist(c *gin.Context) {
	var req struct {
		signUpRequest
		Education   string `json:"education"`
		History     string `json:"history"`
		Description string `json:"description"`
		Instagram   string `json:"instagram"`
		Behance     string `json:"behance"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	member, err := h.memberService.SaveArtist(c.Request.Context(), services.ArtistSignUpInput{
		SignUpInput: services.SignUpInput{
			Username:  req.Username,
			LoginID:   req.LoginID,
			Email:     req.Email,
			Password:  req.Password,
			Telephone: req.Telephone,
		},
		Education:   req.Education,
		History:     req.History,
		Description: req.Description,
		Instagram:   req.Instagram,
		Behance:     req.Behance,
	})
	if err != nil {
		h.renderError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    member,
	})
}

// Login verifies credentials and issues tokens
func (h *MemberHandler) Login(c *gin.Context) {
	var req struct {
		LoginID  string `json:"login_id" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tokens, err := h.memberService.Login(c.Request.Context(), req.LoginID, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrMemberNotFound) || errors.Is(err, services.ErrPasswordMismatch) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid login id or password"})
			return
		}
		h.renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    tokens,
	})
}

// Refresh reissues an access token from a refresh token
func (h *MemberHandler) Refresh(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	accessToken, err := h.memberService.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		if errors.Is(err, services.ErrInvalidToken) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired refresh token"})
			return
		}
		h.renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    gin.H{"access_token": accessToken},
	})
}

// Logout revokes the current access token
func (h *MemberHandler) Logout(c *gin.Context) {
	authHeader := c.GetHeader("Authorization")

	const prefix = "Bearer "
	if !strings.HasPrefix(authHeader, prefix) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Authorization header required"})
		return
	}
	token := strings.TrimPrefix(authHeader, prefix)

	if err := h.memberService.Logout(c.Request.Context(), token); err != nil {
		if errors.Is(err, services.ErrInvalidToken) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}
		h.renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// GetMe returns the authenticated member
func (h *MemberHandler) GetMe(c *gin.Context) {
	memberID, ok := auth.GetMemberID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	member, err := h.memberService.GetByID(c.Request.Context(), memberID)
	if err != nil {
		h.renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    member,
	})
}

// FindLoginID recovers a login id from e-mail and username
func (h *MemberHandler) FindLoginID(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Username string `json:"username" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	loginID, err := h.memberService.FindLoginID(c.Request.Context(), req.Email, req.Username)
	if err != nil {
		if errors.Is(err, services.ErrUsernameMismatch) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Username does not match"})
			return
		}
		h.renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    gin.H{"login_id": loginID},
	})
}

// ResetPassword issues a temporary password and mails it
func (h *MemberHandler) ResetPassword(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required,email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.memberService.ResetPassword(c.Request.Context(), req.Email); err != nil {
		h.renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// ChangePassword sets a new password for the authenticated member
func (h *MemberHandler) ChangePassword(c *gin.Context) {
	memberID, ok := auth.GetMemberID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req struct {
		Password string `json:"password" binding:"required,min=8"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.memberService.ChangePassword(c.Request.Context(), memberID, req.Password); err != nil {
		h.renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// UpdateProfile updates the authenticated member's profile
func (h *MemberHandler) UpdateProfile(c *gin.Context) {
	memberID, ok := auth.GetMemberID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req struct {
		Username    string `json:"username"`
		Email       string `json:"email"`
		Telephone   string `json:"telephone"`
		Image       string `json:"image"`
		Education   string `json:"education"`
		History     string `json:"history"`
		Description string `json:"description"`
		Instagram   string `json:"instagram"`
		Behance     string `json:"behance"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	member, err := h.memberService.UpdateProfile(c.Request.Context(), memberID, services.ProfileUpdateInput{
		Username:    req.Username,
		Email:       req.Email,
		Telephone:   req.Telephone,
		Image:       req.Image,
		Education:   req.Education,
		History:     req.History,
		Description: req.Description,
		Instagram:   req.Instagram,
		Behance:     req.Behance,
	})
	if err != nil {
		h.renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    member,
	})
}

// CheckLoginID reports whether a login id is already taken
func (h *MemberHandler) CheckLoginID(c *gin.Context) {
	loginID := c.Query("login_id")
	if loginID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "login_id is required"})
		return
	}

	duplicate, err := h.memberService.IsDuplicateLoginID(c.Request.Context(), loginID)
	if err != nil {
		h.renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"duplicate": duplicate,
	})
}

// CheckEmail reports whether an email is already taken
func (h *MemberHandler) CheckEmail(c *gin.Context) {
	email := c.Query("email")
	if email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email is required"})
		return
	}

	duplicate, err := h.memberService.IsDuplicateEmail(c.Request.Context(), email)
	if err != nil {
		h.renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"duplicate": duplicate,
	})
}

// SendEmailVerification mails a verification code
func (h *MemberHandler) SendEmailVerification(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required,email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.memberService.SendEmailVerification(c.Request.Context(), req.Email); err != nil {
		h.renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// ConfirmEmailVerification checks a verification code
func (h *MemberHandler) ConfirmEmailVerification(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required,email"`
		Code  string `json:"code" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	verified, err := h.memberService.VerifyEmailCode(c.Request.Context(), req.Email, req.Code)
	if err != nil {
		h.renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"verified": verified,
	})
}

func (h *MemberHandler) renderError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrMemberNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Member not found"})
	case errors.Is(err, services.ErrDuplicateLoginID):
		c.JSON(http.StatusConflict, gin.H{"error": "Login id already exists"})
	case errors.Is(err, services.ErrDuplicateEmail):
		c.JSON(http.StatusConflict, gin.H{"error": "Email already exists"})
	case errors.Is(err, services.ErrStoreUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Temporarily unavailable, please retry"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process member request"})
	}
}
