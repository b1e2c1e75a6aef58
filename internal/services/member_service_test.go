package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/Arrties/backend/internal/auth"
	"github.com/Arrties/backend/internal/models"
)

// fakeTokenStore is an in-memory TokenStore for tests
type fakeTokenStore struct {
	mu            sync.Mutex
	refreshTokens map[uint]string
	blacklisted   map[string]bool
	emailCodes    map[string]string
}

func newFakeTokenStore() *fakeTokenStore {
	return &fakeTokenStore{
		refreshTokens: make(map[uint]string),
		blacklisted:   make(map[string]bool),
		emailCodes:    make(map[string]string),
	}
}

func (f *fakeTokenStore) SaveRefreshToken(ctx context.Context, memberID uint, token string, ttl time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.refreshTokens[memberID] = token
	return nil
}

func (f *fakeTokenStore) GetRefreshToken(ctx context.Context, memberID uint) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.refreshTokens[memberID], nil
}

func (f *fakeTokenStore) DeleteRefreshToken(ctx context.Context, memberID uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.refreshTokens, memberID)
	return nil
}

func (f *fakeTokenStore) BlacklistToken(ctx context.Context, token string, ttl time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.blacklisted[token] = true
	return nil
}

func (f *fakeTokenStore) SaveEmailCode(ctx context.Context, email, code string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.emailCodes[email] = code
	return nil
}

func (f *fakeTokenStore) ConsumeEmailCode(ctx context.Context, email, code string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.emailCodes[email] != code {
		return false, nil
	}
	delete(f.emailCodes, email)
	return true, nil
}

// fakeMailer records outgoing mail
type fakeMailer struct {
	verificationCodes map[string]string
	resetPasswords    map[string]string
}

func newFakeMailer() *fakeMailer {
	return &fakeMailer{
		verificationCodes: make(map[string]string),
		resetPasswords:    make(map[string]string),
	}
}

func (f *fakeMailer) SendVerificationCode(to, code string) error {
	f.verificationCodes[to] = code
	return nil
}

func (f *fakeMailer) SendResetPassword(to, password string) error {
	f.resetPasswords[to] = password
	return nil
}

func newTestMemberService(t *testing.T) (*MemberService, *fakeTokenStore, *fakeMailer) {
	t.Helper()
	auth.InitJWT("test-secret")
	db := setupTestDB(t)
	tokens := newFakeTokenStore()
	mailer := newFakeMailer()
	return NewMemberService(db, tokens, mailer), tokens, mailer
}

func TestSaveUserAndDuplicates(t *testing.T) {
	service, _, _ := newTestMemberService(t)
	ctx := context.Background()

	input := SignUpInput{
		Username: "Jane",
		LoginID:  "jane01",
		Email:    "jane@example.com",
		Password: "secret-password",
	}

	member, err := service.SaveUser(ctx, input)
	if err != nil {
		t.Fatalf("SaveUser failed: %v", err)
	}
	if member.Role != models.MemberRoleUser {
		t.Errorf("expected ROLE_USER, got %s", member.Role)
	}
	if member.Password == input.Password {
		t.Error("password stored in plain text")
	}

	_, err = service.SaveUser(ctx, SignUpInput{
		Username: "Other", LoginID: "jane01", Email: "other@example.com", Password: "x-password",
	})
	if !errors.Is(err, ErrDuplicateLoginID) {
		t.Fatalf("expected ErrDuplicateLoginID, got %v", err)
	}

	_, err = service.SaveUser(ctx, SignUpInput{
		Username: "Other", LoginID: "other01", Email: "jane@example.com", Password: "x-password",
	})
	if !errors.Is(err, ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}
}

func TestSaveArtistKeepsProfile(t *testing.T) {
	service, _, _ := newTestMemberService(t)

	member, err := service.SaveArtist(context.Background(), ArtistSignUpInput{
		SignUpInput: SignUpInput{
			Username: "Ko", LoginID: "ko-art", Email: "ko@example.com", Password: "secret-password",
		},
		Education: "MFA",
		Instagram: "@ko",
	})
	if err != nil {
		t.Fatalf("SaveArtist failed: %v", err)
	}
	if member.Role != models.MemberRoleArtist {
		t.Errorf("expected ROLE_ARTIST, got %s", member.Role)
	}
	if member.Education != "MFA" || member.Instagram != "@ko" {
		t.Errorf("artist profile not persisted: %+v", member)
	}
}

func TestLoginAndRefresh(t *testing.T) {
	service, tokens, _ := newTestMemberService(t)
	ctx := context.Background()

	member, err := service.SaveUser(ctx, SignUpInput{
		Username: "Jane", LoginID: "jane01", Email: "jane@example.com", Password: "secret-password",
	})
	if err != nil {
		t.Fatalf("SaveUser failed: %v", err)
	}

	if _, err := service.Login(ctx, "jane01", "wrong-password"); !errors.Is(err, ErrPasswordMismatch) {
		t.Fatalf("expected ErrPasswordMismatch, got %v", err)
	}
	if _, err := service.Login(ctx, "nobody", "secret-password"); !errors.Is(err, ErrMemberNotFound) {
		t.Fatalf("expected ErrMemberNotFound, got %v", err)
	}

	pair, err := service.Login(ctx, "jane01", "secret-password")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		t.Fatal("expected both tokens issued")
	}
	if tokens.refreshTokens[member.ID] != pair.RefreshToken {
		t.Error("refresh token not stored")
	}

	accessToken, err := service.Refresh(ctx, pair.RefreshToken)
	if err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}
	claims, err := auth.ValidateToken(accessToken)
	if err != nil {
		t.Fatalf("reissued token invalid: %v", err)
	}
	if claims.MemberID != member.ID {
		t.Errorf("expected member %d in claims, got %d", member.ID, claims.MemberID)
	}

	if _, err := service.Refresh(ctx, "not-a-token"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestLogoutBlacklistsToken(t *testing.T) {
	service, tokens, _ := newTestMemberService(t)
	ctx := context.Background()

	member, err := service.SaveUser(ctx, SignUpInput{
		Username: "Jane", LoginID: "jane01", Email: "jane@example.com", Password: "secret-password",
	})
	if err != nil {
		t.Fatalf("SaveUser failed: %v", err)
	}

	pair, err := service.Login(ctx, "jane01", "secret-password")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	if err := service.Logout(ctx, pair.AccessToken); err != nil {
		t.Fatalf("Logout failed: %v", err)
	}
	if !tokens.blacklisted[pair.AccessToken] {
		t.Error("access token not blacklisted")
	}
	if tokens.refreshTokens[member.ID] != "" {
		t.Error("refresh token not deleted")
	}

	// The dropped refresh token no longer reissues access tokens.
	if _, err := service.Refresh(ctx, pair.RefreshToken); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken after logout, got %v", err)
	}
}

func TestResetPassword(t *testing.T) {
	service, _, mailer := newTestMemberService(t)
	ctx := context.Background()

	member, err := service.SaveUser(ctx, SignUpInput{
		Username: "Jane", LoginID: "jane01", Email: "jane@example.com", Password: "secret-password",
	})
	if err != nil {
		t.Fatalf("SaveUser failed: %v", err)
	}

	if err := service.ResetPassword(ctx, "jane@example.com"); err != nil {
		t.Fatalf("ResetPassword failed: %v", err)
	}

	mailed := mailer.resetPasswords["jane@example.com"]
	if len(mailed) != 8 {
		t.Fatalf("expected 8-character temporary password, got %q", mailed)
	}

	updated, err := service.GetByID(ctx, member.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(updated.Password), []byte(mailed)); err != nil {
		t.Error("stored password does not match the mailed one")
	}

	if err := service.ResetPassword(ctx, "unknown@example.com"); !errors.Is(err, ErrMemberNotFound) {
		t.Fatalf("expected ErrMemberNotFound, got %v", err)
	}
}

func TestEmailVerificationRoundTrip(t *testing.T) {
	service, _, mailer := newTestMemberService(t)
	ctx := context.Background()

	if err := service.SendEmailVerification(ctx, "jane@example.com"); err != nil {
		t.Fatalf("SendEmailVerification failed: %v", err)
	}

	code := mailer.verificationCodes["jane@example.com"]
	if code == "" {
		t.Fatal("no verification code mailed")
	}

	ok, err := service.VerifyEmailCode(ctx, "jane@example.com", "wrong")
	if err != nil {
		t.Fatalf("VerifyEmailCode failed: %v", err)
	}
	if ok {
		t.Error("wrong code accepted")
	}

	ok, err = service.VerifyEmailCode(ctx, "jane@example.com", code)
	if err != nil {
		t.Fatalf("VerifyEmailCode failed: %v", err)
	}
	if !ok {
		t.Error("correct code rejected")
	}

	// Codes are single-use.
	ok, _ = service.VerifyEmailCode(ctx, "jane@example.com", code)
	if ok {
		t.Error("consumed code accepted again")
	}
}

func TestUpdateProfileSkipsBlankFields(t *testing.T) {
	service, _, _ := newTestMemberService(t)
	ctx := context.Background()

	member, err := service.SaveArtist(ctx, ArtistSignUpInput{
		SignUpInput: SignUpInput{
			Username: "Ko", LoginID: "ko-art", Email: "ko@example.com", Password: "secret-password",
		},
		Education: "MFA",
	})
	if err != nil {
		t.Fatalf("SaveArtist failed: %v", err)
	}

	updated, err := service.UpdateProfile(ctx, member.ID, ProfileUpdateInput{
		Instagram: "@ko",
	})
	if err != nil {
		t.Fatalf("UpdateProfile failed: %v", err)
	}
	if updated.Instagram != "@ko" {
		t.Errorf("expected instagram updated, got %q", updated.Instagram)
	}
	if updated.Education != "MFA" || updated.Username != "Ko" {
		t.Errorf("blank fields must stay untouched: %+v", updated)
	}

	// Changing e-mail to one already in use is rejected.
	if _, err := service.SaveUser(ctx, SignUpInput{
		Username: "Jane", LoginID: "jane01", Email: "jane@example.com", Password: "secret-password",
	}); err != nil {
		t.Fatalf("SaveUser failed: %v", err)
	}
	_, err = service.UpdateProfile(ctx, member.ID, ProfileUpdateInput{Email: "jane@example.com"})
	if !errors.Is(err, ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}
}
