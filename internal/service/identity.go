package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/amniuelmohamed/freshconcept/internal/cache"
	"github.com/amniuelmohamed/freshconcept/internal/repository"
)

const identityCacheTTL = 2 * time.Minute

// Identity is the resolved view of an authenticated account: who they are,
// what they may do, and on which weekdays their company receives deliveries.
type Identity struct {
	AccountID    int64    `json:"account_id"`
	UUID         string   `json:"uuid"`
	Email        string   `json:"email"`
	Kind         string   `json:"kind"`
	RoleID       int64    `json:"role_id"`
	CompanyName  string   `json:"company_name"`
	Locale       string   `json:"locale"`
	WebhookURL   string   `json:"webhook_url"`
	Permissions  []string `json:"permissions"`
	DeliveryDays []string `json:"delivery_days"`
}

// Can reports whether the identity carries the permission.
func (i *Identity) Can(permission string) bool {
	if i == nil {
		return false
	}
	return slices.Contains(i.Permissions, permission)
}

// IdentityService resolves account identities for request guards.
type IdentityService interface {
	Resolve(ctx context.Context, accountID int64) (*Identity, error)
	Invalidate(ctx context.Context, accountID int64)
	InvalidateRole(ctx context.Context, roleID int64)
}

type identityService struct {
	accounts repository.AccountRepository
	roles    repository.RoleRepository
	cache    cache.Store
}

// NewIdentityService builds the resolver with a cache namespace so hot
// request paths do not hit the database for every guard check.
func NewIdentityService(accounts repository.AccountRepository, roles repository.RoleRepository, store cache.Store) IdentityService {
	var ns cache.Store
	if store != nil {
		ns = store.Namespace("identity")
	}
	return &identityService{accounts: accounts, roles: roles, cache: ns}
}

// accountFragment is the cached slice of an account row. The password hash
// never enters the cache. Active is cached too and re-checked on every
// resolve, so disabling an account takes effect within the account TTL.
type accountFragment struct {
	ID          int64  `json:"id"`
	UUID        string `json:"uuid"`
	Email       string `json:"email"`
	Kind        string `json:"kind"`
	RoleID      int64  `json:"role_id"`
	CompanyName string `json:"company_name"`
	Locale      string `json:"locale"`
	WebhookURL  string `json:"webhook_url"`
	Active      bool   `json:"active"`
}

// roleFragment is the cached slice of a role row, keyed by role id so a
// role edit invalidates every account sharing it at once.
type roleFragment struct {
	ID           int64    `json:"id"`
	Permissions  []string `json:"permissions"`
	DeliveryDays []string `json:"delivery_days"`
}

// Resolve composes the identity from two cache fragments: the account under
// account:<id> and the role under role:<id>. Keeping them separate means
// InvalidateRole reaches every identity built on that role without tracking
// which accounts use it.
func (s *identityService) Resolve(ctx context.Context, accountID int64) (*Identity, error) {
	account, err := s.lookupAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if !account.Active {
		return nil, ErrAccountDisabled
	}

	role, err := s.lookupRole(ctx, account.RoleID)
	if err != nil {
		return nil, err
	}

	return &Identity{
		AccountID:    account.ID,
		UUID:         account.UUID,
		Email:        account.Email,
		Kind:         account.Kind,
		RoleID:       role.ID,
		CompanyName:  account.CompanyName,
		Locale:       account.Locale,
		WebhookURL:   account.WebhookURL,
		Permissions:  role.Permissions,
		DeliveryDays: role.DeliveryDays,
	}, nil
}

func (s *identityService) lookupAccount(ctx context.Context, accountID int64) (*accountFragment, error) {
	key := fmt.Sprintf("account:%d", accountID)
	if s.cache != nil {
		var cached accountFragment
		if ok, err := s.cache.GetJSON(ctx, key, &cached); err == nil && ok {
			return &cached, nil
		}
	}

	account, err := s.accounts.FindByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUnauthorized
		}
		return nil, err
	}

	fragment := &accountFragment{
		ID:          account.ID,
		UUID:        account.UUID,
		Email:       account.Email,
		Kind:        account.Kind,
		RoleID:      account.RoleID,
		CompanyName: account.CompanyName,
		Locale:      account.Locale,
		WebhookURL:  account.WebhookURL,
		Active:      account.Active,
	}
	if s.cache != nil {
		s.cache.SetJSON(ctx, key, fragment, identityCacheTTL)
	}
	return fragment, nil
}

func (s *identityService) lookupRole(ctx context.Context, roleID int64) (*roleFragment, error) {
	key := fmt.Sprintf("role:%d", roleID)
	if s.cache != nil {
		var cached roleFragment
		if ok, err := s.cache.GetJSON(ctx, key, &cached); err == nil && ok {
			return &cached, nil
		}
	}

	role, err := s.roles.FindByID(ctx, roleID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUnauthorized
		}
		return nil, err
	}

	fragment := &roleFragment{
		ID:           role.ID,
		Permissions:  role.Permissions,
		DeliveryDays: role.DeliveryDays,
	}
	if s.cache != nil {
		s.cache.SetJSON(ctx, key, fragment, identityCacheTTL)
	}
	return fragment, nil
}

func (s *identityService) Invalidate(ctx context.Context, accountID int64) {
	if s.cache == nil {
		return
	}
	s.cache.Delete(ctx, fmt.Sprintf("account:%d", accountID))
}

// InvalidateRole drops the cached role fragment after a role edit, so the
// next resolve of any account on the role re-reads permissions and delivery
// days from the store.
func (s *identityService) InvalidateRole(ctx context.Context, roleID int64) {
	if s.cache == nil {
		return
	}
	s.cache.Delete(ctx, fmt.Sprintf("role:%d", roleID))
}
