package auth

import (
	"context"
	"errors"
	"fmt"
	"log"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/sharath018/event-management-backend/config"
	"github.com/sharath018/event-management-backend/internal/auditlog"
	"github.com/sharath018/event-management-backend/internal/policy"
	"github.com/sharath018/event-management-backend/utils"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = fmt.Errorf("%w: invalid credentials", policy.ErrUnauthenticated)
	ErrInvalidToken       = fmt.Errorf("%w: invalid or expired token", policy.ErrUnauthenticated)
	ErrAccountInactive    = fmt.Errorf("%w: your account is inactive", policy.ErrUnauthenticated)
)

const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"

	resetTokenPrefix = "reset_token:"
	revokedPrefix    = "revoked_jti:"
	resetTokenTTL    = 15 * time.Minute
	minPasswordLen   = 8
)

var usernamePattern = regexp.MustCompile(`^[\w.@+-]{1,150}$`)

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// Claims is the JWT payload for both token types.
type Claims struct {
	UserID uint   `json:"user_id"`
	Role   string `json:"role"`
	Type   string `json:"typ"`
	jwt.RegisteredClaims
}

type Service interface {
	Register(ctx context.Context, in RegisterInput, ip string) (*User, error)
	Login(ctx context.Context, in LoginInput, ip string) (*TokenPair, *User, error)
	Refresh(ctx context.Context, refreshToken string) (*TokenPair, error)
	Logout(ctx context.Context, refreshToken string, ip string) error
	GetUserByID(ctx context.Context, userID uint) (*User, error)

	// Authenticate resolves a bearer access token to an active user.
	Authenticate(ctx context.Context, accessToken string) (*User, error)

	// Password reset methods
	RequestPasswordReset(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, newPassword string, ip string) error
}

type service struct {
	repo          Repository
	tokens        utils.TokenStore
	mailer        utils.Mailer
	AuditSvc      auditlog.Service
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	now           func() time.Time
}

func NewService(r Repository, tokens utils.TokenStore, mailer utils.Mailer, auditSvc auditlog.Service, cfg *config.Config) Service {
	return &service{
		repo:          r,
		tokens:        tokens,
		mailer:        mailer,
		AuditSvc:      auditSvc,
		accessSecret:  []byte(cfg.JWTAccessSecret),
		refreshSecret: []byte(cfg.JWTRefreshSecret),
		accessTTL:     cfg.AccessTTL(),
		refreshTTL:    cfg.RefreshTTL(),
		now:           time.Now,
	}
}

// =============================
// Register
// =============================

type RegisterInput struct {
	Username string
	Email    string
	Password string
}

func (s *service) Register(ctx context.Context, in RegisterInput, ip string) (*User, error) {
	username := strings.TrimSpace(in.Username)
	email := strings.ToLower(strings.TrimSpace(in.Email))

	if !usernamePattern.MatchString(username) {
		return nil, policy.Invalid("username", "Enter a valid username. Letters, digits and @/./+/-/_ only.")
	}
	if !strings.Contains(email, "@") {
		return nil, policy.Invalid("email", "Enter a valid email address.")
	}
	if len(in.Password) < minPasswordLen {
		return nil, policy.Invalid("password", fmt.Sprintf("Password must be at least %d characters.", minPasswordLen))
	}

	role, err := s.repo.FindRoleByName(ctx, RoleUser)
	if err != nil {
		return nil, fmt.Errorf("default role: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		RoleID:       role.ID,
		Status:       StatusActive,
	}
	err = s.repo.Create(ctx, user)
	user.Role = *role
	auditlog.Record(ctx, s.AuditSvc, user.ID, 0, auditlog.ActionUserRegistered,
		map[string]interface{}{"username": username}, ip, err)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// =============================
// Login
// =============================

type LoginInput struct {
	// Login is a username or an email address.
	Login    string
	Password string
}

func (s *service) Login(ctx context.Context, in LoginInput, ip string) (*TokenPair, *User, error) {
	user, err := s.repo.FindByLogin(ctx, in.Login)
	if err != nil {
		if errors.Is(err, policy.ErrNotFound) {
			err = ErrInvalidCredentials
		}
		auditlog.Record(ctx, s.AuditSvc, 0, 0, auditlog.ActionLoginFailed,
			map[string]interface{}{"login": in.Login}, ip, err)
		return nil, nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		auditlog.Record(ctx, s.AuditSvc, user.ID, 0, auditlog.ActionLoginFailed,
			map[string]interface{}{"login": in.Login}, ip, ErrInvalidCredentials)
		return nil, nil, ErrInvalidCredentials
	}
	if user.Status != StatusActive {
		auditlog.Record(ctx, s.AuditSvc, user.ID, 0, auditlog.ActionLoginFailed,
			map[string]interface{}{"login": in.Login}, ip, ErrAccountInactive)
		return nil, nil, ErrAccountInactive
	}

	pair, err := s.issuePair(user)
	if err != nil {
		return nil, nil, err
	}

	now := s.now()
	if err := s.repo.TouchLastLogin(ctx, user.ID, now); err != nil {
		log.Printf("⚠️ last login not updated for user %d: %v", user.ID, err)
	}
	user.LastLoginAt = &now

	auditlog.Record(ctx, s.AuditSvc, user.ID, 0, auditlog.ActionLoginSuccess, nil, ip, nil)
	return pair, user, nil
}

// =============================
// Tokens
// =============================

func (s *service) issuePair(user *User) (*TokenPair, error) {
	access, err := s.sign(user, tokenTypeAccess, s.accessTTL, s.accessSecret)
	if err != nil {
		return nil, err
	}
	refresh, err := s.sign(user, tokenTypeRefresh, s.refreshTTL, s.refreshSecret)
	if err != nil {
		return nil, err
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func (s *service) sign(user *User, typ string, ttl time.Duration, secret []byte) (string, error) {
	now := s.now()
	claims := Claims{
		UserID: user.ID,
		Role:   user.Role.RoleName,
		Type:   typ,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   strconv.FormatUint(uint64(user.ID), 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

func (s *service) parse(raw string, typ string, secret []byte) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil || !token.Valid || claims.Type != typ || claims.UserID == 0 {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func (s *service) Authenticate(ctx context.Context, accessToken string) (*User, error) {
	claims, err := s.parse(accessToken, tokenTypeAccess, s.accessSecret)
	if err != nil {
		return nil, err
	}
	user, err := s.repo.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, policy.ErrNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	if user.Status != StatusActive {
		return nil, ErrAccountInactive
	}
	return user, nil
}

// =============================
// Refresh
// =============================

// Refresh rotates the refresh token: the presented one is revoked and a new
// pair is issued.
func (s *service) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := s.parseLiveRefresh(ctx, refreshToken)
	if err != nil {
		return nil, err
	}

	user, err := s.repo.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, policy.ErrNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	if user.Status != StatusActive {
		return nil, ErrAccountInactive
	}

	if err := s.revoke(ctx, claims); err != nil {
		return nil, err
	}
	return s.issuePair(user)
}

// =============================
// Logout
// =============================

func (s *service) Logout(ctx context.Context, refreshToken string, ip string) error {
	claims, err := s.parseLiveRefresh(ctx, refreshToken)
	if err != nil {
		return err
	}
	err = s.revoke(ctx, claims)
	auditlog.Record(ctx, s.AuditSvc, claims.UserID, 0, auditlog.ActionLogout, nil, ip, err)
	return err
}

func (s *service) parseLiveRefresh(ctx context.Context, raw string) (*Claims, error) {
	claims, err := s.parse(raw, tokenTypeRefresh, s.refreshSecret)
	if err != nil {
		return nil, err
	}
	_, err = s.tokens.Get(ctx, revokedPrefix+claims.ID)
	switch {
	case err == nil:
		return nil, ErrInvalidToken
	case errors.Is(err, utils.ErrTokenNotFound):
		return claims, nil
	default:
		return nil, err
	}
}

func (s *service) revoke(ctx context.Context, claims *Claims) error {
	ttl := claims.ExpiresAt.Sub(s.now())
	if ttl <= 0 {
		return nil
	}
	return s.tokens.Set(ctx, revokedPrefix+claims.ID, strconv.FormatUint(uint64(claims.UserID), 10), ttl)
}

// =============================
// Forgot Password
// =============================

// RequestPasswordReset never reports whether the email is registered.
func (s *service) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := s.repo.FindByEmail(ctx, email)
	if errors.Is(err, policy.ErrNotFound) {
		log.Printf("ℹ️ password reset requested for unknown email")
		return nil
	}
	if err != nil {
		return err
	}

	resetToken := uuid.NewString()
	if err := s.tokens.Set(ctx, resetTokenPrefix+resetToken, strconv.FormatUint(uint64(user.ID), 10), resetTokenTTL); err != nil {
		return fmt.Errorf("could not save reset token: %w", err)
	}

	if err := s.mailer.SendResetLink(user.Email, resetToken); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

func (s *service) ResetPassword(ctx context.Context, token, newPassword string, ip string) error {
	if len(newPassword) < minPasswordLen {
		return policy.Invalid("new_password", fmt.Sprintf("Password must be at least %d characters.", minPasswordLen))
	}

	key := resetTokenPrefix + token
	val, err := s.tokens.Get(ctx, key)
	if errors.Is(err, utils.ErrTokenNotFound) {
		return policy.Invalid("token", "Invalid or expired token.")
	}
	if err != nil {
		return err
	}

	userID, err := strconv.ParseUint(val, 10, 32)
	if err != nil {
		return policy.Invalid("token", "Invalid token data.")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	err = s.repo.UpdatePassword(ctx, uint(userID), string(hash))
	auditlog.Record(ctx, s.AuditSvc, uint(userID), 0, auditlog.ActionPasswordReset, nil, ip, err)
	if err != nil {
		return err
	}

	if err := s.tokens.Delete(ctx, key); err != nil {
		log.Printf("⚠️ reset token cleanup failed: %v", err)
	}
	return nil
}

// =============================
// Get User By ID
// =============================

func (s *service) GetUserByID(ctx context.Context, userID uint) (*User, error) {
	return s.repo.FindByID(ctx, userID)
}
