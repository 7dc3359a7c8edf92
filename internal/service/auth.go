package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/amniuelmohamed/freshconcept/internal/auth/token"
	"github.com/amniuelmohamed/freshconcept/internal/repository"
	"github.com/amniuelmohamed/freshconcept/internal/security"
	"github.com/amniuelmohamed/freshconcept/internal/support/hash"
)

const (
	loginAttemptLimit  = 5
	loginAttemptWindow = 15 * time.Minute
)

// LoginInput carries one login attempt.
type LoginInput struct {
	Email     string
	Password  string
	IP        string
	UserAgent string
}

// AuthResult bundles the issued token pair with the resolved identity.
type AuthResult struct {
	AccessToken      string
	AccessExpiresIn  int64
	RefreshToken     string
	RefreshExpiresAt int64
	Identity         *Identity
}

// AuthService implements login, refresh, and logout for both account kinds.
type AuthService interface {
	Login(ctx context.Context, input LoginInput) (*AuthResult, error)
	Refresh(ctx context.Context, refreshToken, ip, userAgent string) (*AuthResult, error)
	Logout(ctx context.Context, refreshToken string) error
}

// AuthOptions configure token lifetimes.
type AuthOptions struct {
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

type authService struct {
	accounts   repository.AccountRepository
	tokens     repository.TokenRepository
	loginLogs  repository.LoginLogRepository
	identity   IdentityService
	hasher     hash.Hasher
	manager    *token.Manager
	limiter    *security.RateLimiter
	audit      security.Recorder
	logger     *slog.Logger
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

// NewAuthService wires the authentication flow.
func NewAuthService(
	accounts repository.AccountRepository,
	tokens repository.TokenRepository,
	loginLogs repository.LoginLogRepository,
	identity IdentityService,
	hasher hash.Hasher,
	manager *token.Manager,
	limiter *security.RateLimiter,
	audit security.Recorder,
	logger *slog.Logger,
	opts AuthOptions,
) AuthService {
	accessTTL := opts.AccessTTL
	if accessTTL <= 0 {
		accessTTL = time.Hour
	}
	refreshTTL := opts.RefreshTTL
	if refreshTTL <= 0 {
		refreshTTL = 30 * 24 * time.Hour
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &authService{
		accounts:   accounts,
		tokens:     tokens,
		loginLogs:  loginLogs,
		identity:   identity,
		hasher:     hasher,
		manager:    manager,
		limiter:    limiter,
		audit:      audit,
		logger:     logger,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}
}

func (s *authService) Login(ctx context.Context, input LoginInput) (*AuthResult, error) {
	if input.Email == "" || input.Password == "" {
		return nil, ErrInvalidCredentials
	}

	if s.limiter != nil {
		key := "login:" + input.Email + ":" + input.IP
		result, err := s.limiter.Allow(ctx, key, loginAttemptLimit, loginAttemptWindow)
		if err != nil {
			return nil, err
		}
		if !result.Allowed {
			s.recordLogin(ctx, nil, input, false, "rate_limited")
			return nil, ErrRateLimited
		}
	}

	account, err := s.accounts.FindByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.recordLogin(ctx, nil, input, false, "unknown_email")
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := s.hasher.Compare(account.Password, input.Password); err != nil {
		if errors.Is(err, hash.ErrPasswordMismatch) {
			s.recordLogin(ctx, &account.ID, input, false, "bad_password")
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !account.Active {
		s.recordLogin(ctx, &account.ID, input, false, "disabled")
		return nil, ErrAccountDisabled
	}

	if s.hasher.NeedsRehash(account.Password) {
		if rehashed, err := s.hasher.Hash(input.Password); err == nil {
			account.Password = rehashed
			account.UpdatedAt = s.now().Unix()
			if err := s.accounts.Update(ctx, account); err != nil {
				s.logger.Warn("password rehash persist failed", "account_id", account.ID, "error", err)
			}
		}
	}

	result, err := s.issueTokens(ctx, account.ID, input.IP, input.UserAgent)
	if err != nil {
		return nil, err
	}

	now := s.now().Unix()
	if err := s.accounts.UpdateLastLogin(ctx, account.ID, now); err != nil {
		s.logger.Warn("last login update failed", "account_id", account.ID, "error", err)
	}
	s.recordLogin(ctx, &account.ID, input, true, "")
	if s.audit != nil {
		s.audit.Record(ctx, security.Event{
			Kind:      "auth.login",
			ActorID:   strconv.FormatInt(account.ID, 10),
			IP:        input.IP,
			UserAgent: input.UserAgent,
		})
	}
	if s.limiter != nil {
		s.limiter.Reset(ctx, "login:"+input.Email+":"+input.IP)
	}
	return result, nil
}

func (s *authService) Refresh(ctx context.Context, refreshToken, ip, userAgent string) (*AuthResult, error) {
	if refreshToken == "" {
		return nil, ErrInvalidRefreshToken
	}
	stored, err := s.tokens.FindByRefreshToken(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidRefreshToken
		}
		return nil, err
	}
	if stored.RefreshExpiresAt <= s.now().Unix() {
		_ = s.tokens.DeleteByRefreshToken(ctx, refreshToken)
		return nil, ErrInvalidRefreshToken
	}

	// Rotate: the presented refresh token is single use.
	if err := s.tokens.DeleteByRefreshToken(ctx, refreshToken); err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	return s.issueTokens(ctx, stored.AccountID, ip, userAgent)
}

func (s *authService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return ErrInvalidRefreshToken
	}
	if err := s.tokens.DeleteByRefreshToken(ctx, refreshToken); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrInvalidRefreshToken
		}
		return err
	}
	return nil
}

func (s *authService) issueTokens(ctx context.Context, accountID int64, ip, userAgent string) (*AuthResult, error) {
	identity, err := s.identity.Resolve(ctx, accountID)
	if err != nil {
		return nil, err
	}

	sessionID := uuid.NewString()
	signed, _, err := s.manager.Issue(token.IssueInput{
		Subject:     strconv.FormatInt(identity.AccountID, 10),
		AccountKind: identity.Kind,
		RoleID:      identity.RoleID,
		SessionID:   sessionID,
		TTL:         s.accessTTL,
	})
	if err != nil {
		return nil, err
	}

	now := s.now()
	refresh := &repository.AccessToken{
		AccountID:        identity.AccountID,
		RefreshToken:     uuid.NewString(),
		RefreshExpiresAt: now.Add(s.refreshTTL).Unix(),
		IP:               ip,
		UserAgent:        userAgent,
		CreatedAt:        now.Unix(),
	}
	if _, err := s.tokens.Create(ctx, refresh); err != nil {
		return nil, fmt.Errorf("persist refresh token: %w", err)
	}

	return &AuthResult{
		AccessToken:      signed,
		AccessExpiresIn:  int64(s.accessTTL.Seconds()),
		RefreshToken:     refresh.RefreshToken,
		RefreshExpiresAt: refresh.RefreshExpiresAt,
		Identity:         identity,
	}, nil
}

func (s *authService) recordLogin(ctx context.Context, accountID *int64, input LoginInput, success bool, reason string) {
	entry := &repository.LoginLog{
		AccountID: accountID,
		Email:     input.Email,
		IP:        input.IP,
		UserAgent: input.UserAgent,
		Success:   success,
		Reason:    reason,
		CreatedAt: s.now().Unix(),
	}
	if err := s.loginLogs.Create(ctx, entry); err != nil {
		s.logger.Warn("login log write failed", "email", input.Email, "error", err)
	}
}
