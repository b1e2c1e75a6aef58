package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/google/uuid"

	"github.com/Arrties/backend/internal/auth"
	"github.com/Arrties/backend/internal/models"
)

// TokenStore keeps refresh tokens, the logout blacklist and e-mail
// verification codes, each with an explicit TTL.
type TokenStore interface {
	SaveRefreshToken(ctx context.Context, memberID uint, token string, ttl time.Duration) error
	GetRefreshToken(ctx context.Context, memberID uint) (string, error)
	DeleteRefreshToken(ctx context.Context, memberID uint) error
	BlacklistToken(ctx context.Context, token string, ttl time.Duration) error
	SaveEmailCode(ctx context.Context, email, code string) error
	ConsumeEmailCode(ctx context.Context, email, code string) (bool, error)
}

// MailSender sends the transactional mail the member flows need
type MailSender interface {
	SendVerificationCode(to, code string) error
	SendResetPassword(to, password string) error
}

// MemberService handles accounts: signup, login, tokens, passwords and
// profile updates.
type MemberService struct {
	db     *gorm.DB
	tokens TokenStore
	mailer MailSender
}

// NewMemberService creates a new MemberService
func NewMemberService(db *gorm.DB, tokens TokenStore, mailer MailSender) *MemberService {
	return &MemberService{db: db, tokens: tokens, mailer: mailer}
}

// SignUpInput carries the fields shared by user and artist signup
type SignUpInput struct {
	Username  string
	LoginID   string
	Email     string
	Password  string
	Telephone string
}

// ArtistSignUpInput adds the artist profile to SignUpInput
type ArtistSignUpInput struct {
	SignUpInput
	Education   string
	History     string
	Description string
	Instagram   string
	Behance     string
}

// TokenPair is issued on login
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// SaveUser registers a collector account
func (s *MemberService) SaveUser(ctx context.Context, input SignUpInput) (*models.Member, error) {
	if err := s.checkDuplicates(ctx, input.LoginID, input.Email); err != nil {
		return nil, err
	}

	hashed, err := hashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	member := &models.Member{
		Username:  input.Username,
		LoginID:   input.LoginID,
		Email:     input.Email,
		Password:  hashed,
		Telephone: input.Telephone,
		Role:      models.MemberRoleUser,
	}

	if err := s.db.WithContext(ctx).Create(member).Error; err != nil {
		return nil, storeErr(err)
	}

	log.Printf("[MemberService] New member registered: %s (ID: %d)", member.LoginID, member.ID)
	return member, nil
}

// SaveArtist registers an artist account with its profile
func (s *MemberService) SaveArtist(ctx context.Context, input ArtistSignUpInput) (*models.Member, error) {
	if err := s.checkDuplicates(ctx, input.LoginID, input.Email); err != nil {
		return nil, err
	}

	hashed, err := hashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	member := &models.Member{
		Username:    input.Username,
		LoginID:     input.LoginID,
		Email:       input.Email,
		Password:    hashed,
		Telephone:   input.Telephone,
		Role:        models.MemberRoleArtist,
		Education:   input.Education,
		History:     input.History,
		Description: input.Description,
		Instagram:   input.Instagram,
		Behance:     input.Behance,
	}

	if err := s.db.WithContext(ctx).Create(member).Error; err != nil {
		return nil, storeErr(err)
	}

	log.Printf("[MemberService] New artist registered: %s (ID: %d)", member.LoginID, member.ID)
	return member, nil
}

// Login verifies credentials and issues an access/refresh token pair. The
// refresh token is stored server-side for its full lifetime.
func (s *MemberService) Login(ctx context.Context, loginID, password string) (*TokenPair, error) {
	var member models.Member
	if err := s.db.WithContext(ctx).Where("login_id = ?", loginID).First(&member).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrMemberNotFound
		}
		return nil, storeErr(err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(member.Password), []byte(password)); err != nil {
		return nil, ErrPasswordMismatch
	}

	accessToken, err := auth.GenerateAccessToken(&member)
	if err != nil {
		return nil, err
	}
	refreshToken, err := auth.GenerateRefreshToken(&member)
	if err != nil {
		return nil, err
	}

	if err := s.tokens.SaveRefreshToken(ctx, member.ID, refreshToken, auth.RefreshTokenTTL); err != nil {
		return nil, storeErr(err)
	}

	return &TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// Refresh reissues an access token from a valid, still-stored refresh token
func (s *MemberService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	claims, err := auth.ValidateToken(refreshToken)
	if err != nil {
		return "", ErrInvalidToken
	}

	stored, err := s.tokens.GetRefreshToken(ctx, claims.MemberID)
	if err != nil {
		return "", storeErr(err)
	}
	if stored == "" || stored != refreshToken {
		return "", ErrInvalidToken
	}

	member, err := s.GetByID(ctx, claims.MemberID)
	if err != nil {
		return "", err
	}

	return auth.GenerateAccessToken(member)
}

// Logout blacklists the access token for its remaining lifetime and drops
// the member's refresh token.
func (s *MemberService) Logout(ctx context.Context, accessToken string) error {
	claims, err := auth.ValidateToken(accessToken)
	if err != nil {
		return ErrInvalidToken
	}

	if err := s.tokens.BlacklistToken(ctx, accessToken, auth.RemainingTTL(claims)); err != nil {
		return storeErr(err)
	}
	if err := s.tokens.DeleteRefreshToken(ctx, claims.MemberID); err != nil {
		return storeErr(err)
	}
	return nil
}

// FindLoginID recovers a member's login id from their e-mail, verifying the
// username matches
func (s *MemberService) FindLoginID(ctx context.Context, email, username string) (string, error) {
	var member models.Member
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&member).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return "", ErrMemberNotFound
		}
		return "", storeErr(err)
	}

	if member.Username != username {
		return "", ErrUsernameMismatch
	}

	return member.LoginID, nil
}

// ResetPassword issues a temporary 8-character password and mails it
func (s *MemberService) ResetPassword(ctx context.Context, email string) error {
	const passwordLength = 8

	var member models.Member
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&member).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return ErrMemberNotFound
		}
		return storeErr(err)
	}

	password := uuid.New().String()[:passwordLength]
	hashed, err := hashPassword(password)
	if err != nil {
		return err
	}

	if err := s.db.WithContext(ctx).Model(&member).Update("password", hashed).Error; err != nil {
		return storeErr(err)
	}

	if err := s.mailer.SendResetPassword(member.Email, password); err != nil {
		log.Printf("[MemberService] Failed to mail reset password to %s: %v", member.Email, err)
	}

	return nil
}

// ChangePassword sets a new password for a logged-in member
func (s *MemberService) ChangePassword(ctx context.Context, memberID uint, password string) error {
	member, err := s.GetByID(ctx, memberID)
	if err != nil {
		return err
	}

	hashed, err := hashPassword(password)
	if err != nil {
		return err
	}

	if err := s.db.WithContext(ctx).Model(member).Update("password", hashed).Error; err != nil {
		return storeErr(err)
	}
	return nil
}

// ProfileUpdateInput carries optional profile fields; blank values are left
// untouched
type ProfileUpdateInput struct {
	Username    string
	Email       string
	Telephone   string
	Image       string
	Education   string
	History     string
	Description string
	Instagram   string
	Behance     string
}

// UpdateProfile applies the non-blank fields of input to a member
func (s *MemberService) UpdateProfile(ctx context.Context, memberID uint, input ProfileUpdateInput) (*models.Member, error) {
	member, err := s.GetByID(ctx, memberID)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(input.Email) != "" && input.Email != member.Email {
		duplicate, err := s.IsDuplicateEmail(ctx, input.Email)
		if err != nil {
			return nil, err
		}
		if duplicate {
			return nil, ErrDuplicateEmail
		}
		member.Email = input.Email
	}

	setIfPresent(&member.Username, input.Username)
	setIfPresent(&member.Telephone, input.Telephone)
	setIfPresent(&member.Image, input.Image)
	setIfPresent(&member.Education, input.Education)
	setIfPresent(&member.History, input.History)
	setIfPresent(&member.Description, input.Description)
	setIfPresent(&member.Instagram, input.Instagram)
	setIfPresent(&member.Behance, input.Behance)

	if err := s.db.WithContext(ctx).Save(member).Error; err != nil {
		return nil, storeErr(err)
	}
	return member, nil
}

// SendEmailVerification stores a short-lived verification code and mails it
func (s *MemberService) SendEmailVerification(ctx context.Context, email string) error {
	code := strings.ToUpper(uuid.New().String()[:6])

	if err := s.tokens.SaveEmailCode(ctx, email, code); err != nil {
		return storeErr(err)
	}

	if err := s.mailer.SendVerificationCode(email, code); err != nil {
		return fmt.Errorf("failed to send verification code: %w", err)
	}
	return nil
}

// VerifyEmailCode checks and consumes a verification code
func (s *MemberService) VerifyEmailCode(ctx context.Context, email, code string) (bool, error) {
	ok, err := s.tokens.ConsumeEmailCode(ctx, email, code)
	if err != nil {
		return false, storeErr(err)
	}
	return ok, nil
}

// GetByID retrieves a member by their ID
func (s *MemberService) GetByID(ctx context.Context, memberID uint) (*models.Member, error) {
	var member models.Member
	if err := s.db.WithContext(ctx).Where("id = ?", memberID).First(&member).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrMemberNotFound
		}
		return nil, storeErr(err)
	}
	return &member, nil
}

// IsDuplicateLoginID reports whether a login id is already taken
func (s *MemberService) IsDuplicateLoginID(ctx context.Context, loginID string) (bool, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Member{}).
		Where("login_id = ?", loginID).Count(&count).Error; err != nil {
		return false, storeErr(err)
	}
	return count > 0, nil
}

// IsDuplicateEmail reports whether an email is already taken
func (s *MemberService) IsDuplicateEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Member{}).
		Where("email = ?", email).Count(&count).Error; err != nil {
		return false, storeErr(err)
	}
	return count > 0, nil
}

func (s *MemberService) checkDuplicates(ctx context.Context, loginID, email string) error {
	duplicate, err := s.IsDuplicateLoginID(ctx, loginID)
	if err != nil {
		return err
	}
	if duplicate {
		return ErrDuplicateLoginID
	}

	duplicate, err = s.IsDuplicateEmail(ctx, email)
	if err != nil {
		return err
	}
	if duplicate {
		return ErrDuplicateEmail
	}
	return nil
}

func hashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}

func setIfPresent(dst *string, value string) {
	if strings.TrimSpace(value) != "" {
		*dst = value
	}
}
