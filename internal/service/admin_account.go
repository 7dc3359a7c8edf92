package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/amniuelmohamed/freshconcept/internal/repository"
	"github.com/amniuelmohamed/freshconcept/internal/schedule"
	"github.com/amniuelmohamed/freshconcept/internal/support/hash"
)

// AccountInput carries the admin create/update payload for an account.
type AccountInput struct {
	Email       string
	Password    string
	Kind        string
	RoleID      int64
	CompanyName string
	ContactName string
	Phone       string
	Locale      string
	WebhookURL  string
	Active      bool
}

// RoleInput carries the admin create/update payload for a role.
type RoleInput struct {
	Name         string
	Kind         string
	Permissions  []string
	DeliveryDays []string
}

// AccountPage is one page of account listings.
type AccountPage struct {
	Accounts []*repository.Account
	Total    int64
}

// AdminAccountService manages accounts and roles from the back office.
type AdminAccountService interface {
	Accounts(ctx context.Context, filter repository.AccountFilter) (*AccountPage, error)
	Account(ctx context.Context, id int64) (*repository.Account, error)
	CreateAccount(ctx context.Context, input AccountInput) (*repository.Account, error)
	UpdateAccount(ctx context.Context, id int64, input AccountInput) (*repository.Account, error)
	DeleteAccount(ctx context.Context, id int64) error

	Roles(ctx context.Context, kind string) ([]*repository.Role, error)
	CreateRole(ctx context.Context, input RoleInput) (*repository.Role, error)
	UpdateRole(ctx context.Context, id int64, input RoleInput) (*repository.Role, error)
	DeleteRole(ctx context.Context, id int64) error
}

type adminAccountService struct {
	accounts repository.AccountRepository
	roles    repository.RoleRepository
	tokens   repository.TokenRepository
	identity IdentityService
	hasher   hash.Hasher
	now      func() time.Time
}

// NewAdminAccountService wires account and role management.
func NewAdminAccountService(
	accounts repository.AccountRepository,
	roles repository.RoleRepository,
	tokens repository.TokenRepository,
	identity IdentityService,
	hasher hash.Hasher,
) AdminAccountService {
	return &adminAccountService{
		accounts: accounts,
		roles:    roles,
		tokens:   tokens,
		identity: identity,
		hasher:   hasher,
		now:      time.Now,
	}
}

func (s *adminAccountService) Accounts(ctx context.Context, filter repository.AccountFilter) (*AccountPage, error) {
	if filter.Limit <= 0 || filter.Limit > 200 {
		filter.Limit = 50
	}
	accounts, err := s.accounts.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.accounts.Count(ctx, filter)
	if err != nil {
		return nil, err
	}
	return &AccountPage{Accounts: accounts, Total: total}, nil
}

func (s *adminAccountService) Account(ctx context.Context, id int64) (*repository.Account, error) {
	account, err := s.accounts.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return account, nil
}

func (s *adminAccountService) CreateAccount(ctx context.Context, input AccountInput) (*repository.Account, error) {
	if err := s.validateAccountInput(ctx, input, true); err != nil {
		return nil, err
	}
	if _, err := s.accounts.FindByEmail(ctx, input.Email); err == nil {
		return nil, ErrEmailExists
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	hashed, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	now := s.now().Unix()
	locale := input.Locale
	if locale == "" {
		locale = "en-US"
	}
	account := &repository.Account{
		UUID:        uuid.NewString(),
		Email:       strings.TrimSpace(input.Email),
		Password:    hashed,
		Kind:        input.Kind,
		RoleID:      input.RoleID,
		CompanyName: strings.TrimSpace(input.CompanyName),
		ContactName: strings.TrimSpace(input.ContactName),
		Phone:       strings.TrimSpace(input.Phone),
		Locale:      locale,
		WebhookURL:  strings.TrimSpace(input.WebhookURL),
		Active:      input.Active,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	return s.accounts.Create(ctx, account)
}

func (s *adminAccountService) UpdateAccount(ctx context.Context, id int64, input AccountInput) (*repository.Account, error) {
	if err := s.validateAccountInput(ctx, input, false); err != nil {
		return nil, err
	}
	account, err := s.accounts.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if existing, err := s.accounts.FindByEmail(ctx, input.Email); err == nil && existing.ID != id {
		return nil, ErrEmailExists
	} else if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	account.Email = strings.TrimSpace(input.Email)
	account.Kind = input.Kind
	account.RoleID = input.RoleID
	account.CompanyName = strings.TrimSpace(input.CompanyName)
	account.ContactName = strings.TrimSpace(input.ContactName)
	account.Phone = strings.TrimSpace(input.Phone)
	if input.Locale != "" {
		account.Locale = input.Locale
	}
	account.WebhookURL = strings.TrimSpace(input.WebhookURL)
	account.Active = input.Active
	if input.Password != "" {
		hashed, err := s.hasher.Hash(input.Password)
		if err != nil {
			return nil, err
		}
		account.Password = hashed
	}
	account.UpdatedAt = s.now().Unix()

	if err := s.accounts.Update(ctx, account); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !account.Active {
		// Disabled accounts lose their sessions immediately.
		if err := s.tokens.DeleteByAccount(ctx, account.ID); err != nil {
			return nil, err
		}
	}
	s.identity.Invalidate(ctx, account.ID)
	return account, nil
}

func (s *adminAccountService) DeleteAccount(ctx context.Context, id int64) error {
	if err := s.tokens.DeleteByAccount(ctx, id); err != nil {
		return err
	}
	if err := s.accounts.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	s.identity.Invalidate(ctx, id)
	return nil
}

func (s *adminAccountService) Roles(ctx context.Context, kind string) ([]*repository.Role, error) {
	return s.roles.List(ctx, kind)
}

func (s *adminAccountService) CreateRole(ctx context.Context, input RoleInput) (*repository.Role, error) {
	if err := validateRoleInput(input); err != nil {
		return nil, err
	}
	now := s.now().Unix()
	role := &repository.Role{
		Name:         strings.TrimSpace(input.Name),
		Kind:         input.Kind,
		Permissions:  input.Permissions,
		DeliveryDays: input.DeliveryDays,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	return s.roles.Create(ctx, role)
}

func (s *adminAccountService) UpdateRole(ctx context.Context, id int64, input RoleInput) (*repository.Role, error) {
	if err := validateRoleInput(input); err != nil {
		return nil, err
	}
	role, err := s.roles.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	role.Name = strings.TrimSpace(input.Name)
	role.Kind = input.Kind
	role.Permissions = input.Permissions
	role.DeliveryDays = input.DeliveryDays
	role.UpdatedAt = s.now().Unix()
	if err := s.roles.Update(ctx, role); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	s.identity.InvalidateRole(ctx, role.ID)
	return role, nil
}

func (s *adminAccountService) DeleteRole(ctx context.Context, id int64) error {
	roleID := id
	count, err := s.accounts.Count(ctx, repository.AccountFilter{RoleID: &roleID})
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrInvalidInput
	}
	if err := s.roles.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

func (s *adminAccountService) validateAccountInput(ctx context.Context, input AccountInput, creating bool) error {
	if strings.TrimSpace(input.Email) == "" {
		return ErrInvalidInput
	}
	if creating && input.Password == "" {
		return ErrInvalidInput
	}
	if input.Kind != repository.AccountKindClient && input.Kind != repository.AccountKindEmployee {
		return ErrInvalidInput
	}
	role, err := s.roles.FindByID(ctx, input.RoleID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrInvalidInput
		}
		return err
	}
	if role.Kind != input.Kind {
		return ErrInvalidInput
	}
	return nil
}

// validateRoleInput checks the role shape. Client roles must carry at least
// one valid weekday; employee roles never carry delivery days.
func validateRoleInput(input RoleInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return ErrInvalidInput
	}
	switch input.Kind {
	case repository.AccountKindClient:
		if _, err := schedule.ParseDaySet(input.DeliveryDays); err != nil {
			var dayErr *schedule.InvalidDeliveryDayError
			if errors.As(err, &dayErr) {
				return fmt.Errorf("%w: %s", ErrInvalidDeliveryDay, dayErr.Value)
			}
			return fmt.Errorf("%w: %v", ErrInvalidDeliveryDay, err)
		}
	case repository.AccountKindEmployee:
		if len(input.DeliveryDays) > 0 {
			return ErrInvalidInput
		}
	default:
		return ErrInvalidInput
	}
	return nil
}
