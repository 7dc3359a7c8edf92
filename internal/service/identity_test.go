package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amniuelmohamed/freshconcept/internal/cache"
	"github.com/amniuelmohamed/freshconcept/internal/repository"
)

type stubAccountRepo struct {
	accounts map[int64]*repository.Account
	finds    int
}

func newStubAccountRepo() *stubAccountRepo {
	return &stubAccountRepo{accounts: make(map[int64]*repository.Account)}
}

func (r *stubAccountRepo) FindByID(_ context.Context, id int64) (*repository.Account, error) {
	r.finds++
	account, ok := r.accounts[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *account
	return &copied, nil
}

func (r *stubAccountRepo) FindByEmail(_ context.Context, _ string) (*repository.Account, error) {
	return nil, repository.ErrNotFound
}

func (r *stubAccountRepo) Create(_ context.Context, account *repository.Account) (*repository.Account, error) {
	r.accounts[account.ID] = account
	return account, nil
}

func (r *stubAccountRepo) Update(_ context.Context, account *repository.Account) error {
	r.accounts[account.ID] = account
	return nil
}

func (r *stubAccountRepo) UpdateLastLogin(_ context.Context, _ int64, _ int64) error { return nil }

func (r *stubAccountRepo) List(_ context.Context, _ repository.AccountFilter) ([]*repository.Account, error) {
	return nil, nil
}

func (r *stubAccountRepo) Count(_ context.Context, _ repository.AccountFilter) (int64, error) {
	return 0, nil
}

func (r *stubAccountRepo) Delete(_ context.Context, id int64) error {
	delete(r.accounts, id)
	return nil
}

type stubRoleRepo struct {
	roles map[int64]*repository.Role
	finds int
}

func newStubRoleRepo() *stubRoleRepo {
	return &stubRoleRepo{roles: make(map[int64]*repository.Role)}
}

func (r *stubRoleRepo) FindByID(_ context.Context, id int64) (*repository.Role, error) {
	r.finds++
	role, ok := r.roles[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *role
	return &copied, nil
}

func (r *stubRoleRepo) List(_ context.Context, _ string) ([]*repository.Role, error) {
	return nil, nil
}

func (r *stubRoleRepo) Create(_ context.Context, role *repository.Role) (*repository.Role, error) {
	r.roles[role.ID] = role
	return role, nil
}

func (r *stubRoleRepo) Update(_ context.Context, role *repository.Role) error {
	r.roles[role.ID] = role
	return nil
}

func (r *stubRoleRepo) Delete(_ context.Context, id int64) error {
	delete(r.roles, id)
	return nil
}

func newIdentityFixture() (*stubAccountRepo, *stubRoleRepo, IdentityService) {
	accounts := newStubAccountRepo()
	roles := newStubRoleRepo()
	accounts.accounts[7] = &repository.Account{
		ID: 7, UUID: "acct-7", Email: "buyer@fresh.example", Kind: repository.AccountKindEmployee,
		RoleID: 3, CompanyName: "Fresh Bistro", Active: true,
	}
	roles.roles[3] = &repository.Role{
		ID: 3, Name: "ops", Kind: repository.AccountKindEmployee,
		Permissions:  []string{PermOrdersManage},
		DeliveryDays: []string{"monday", "thursday"},
	}
	store := cache.NewStore(cache.Options{DefaultTTL: time.Minute, Prefix: "test"})
	return accounts, roles, NewIdentityService(accounts, roles, store)
}

func TestResolveComposesAccountAndRole(t *testing.T) {
	_, _, svc := newIdentityFixture()

	identity, err := svc.Resolve(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, int64(3), identity.RoleID)
	assert.True(t, identity.Can(PermOrdersManage))
	assert.Equal(t, []string{"monday", "thursday"}, identity.DeliveryDays)
}

func TestResolveCachesLookups(t *testing.T) {
	accounts, roles, svc := newIdentityFixture()
	ctx := context.Background()

	_, err := svc.Resolve(ctx, 7)
	require.NoError(t, err)
	_, err = svc.Resolve(ctx, 7)
	require.NoError(t, err)

	assert.Equal(t, 1, accounts.finds)
	assert.Equal(t, 1, roles.finds)
}

func TestInvalidateRoleDropsRevokedPermission(t *testing.T) {
	_, roles, svc := newIdentityFixture()
	ctx := context.Background()

	identity, err := svc.Resolve(ctx, 7)
	require.NoError(t, err)
	require.True(t, identity.Can(PermOrdersManage))

	roles.roles[3].Permissions = []string{PermCatalogManage}
	roles.roles[3].DeliveryDays = []string{"friday"}
	svc.InvalidateRole(ctx, 3)

	identity, err = svc.Resolve(ctx, 7)
	require.NoError(t, err)
	assert.False(t, identity.Can(PermOrdersManage))
	assert.True(t, identity.Can(PermCatalogManage))
	assert.Equal(t, []string{"friday"}, identity.DeliveryDays)
}

func TestInvalidateAccountDropsDisabledAccount(t *testing.T) {
	accounts, _, svc := newIdentityFixture()
	ctx := context.Background()

	_, err := svc.Resolve(ctx, 7)
	require.NoError(t, err)

	accounts.accounts[7].Active = false
	svc.Invalidate(ctx, 7)

	_, err = svc.Resolve(ctx, 7)
	assert.ErrorIs(t, err, ErrAccountDisabled)
}

func TestResolveUnknownAccountUnauthorized(t *testing.T) {
	_, _, svc := newIdentityFixture()

	_, err := svc.Resolve(context.Background(), 99)
	assert.ErrorIs(t, err, ErrUnauthorized)
}
