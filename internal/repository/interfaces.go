package repository

import "context"

// Store exposes one repository per aggregate root.
type Store interface {
	Accounts() AccountRepository
	Roles() RoleRepository
	Categories() CategoryRepository
	Products() ProductRepository
	Carts() CartRepository
	Orders() OrderRepository
	Settings() SettingRepository
	Tokens() TokenRepository
	LoginLogs() LoginLogRepository
}

// AccountRepository defines access to client and employee accounts.
type AccountRepository interface {
	FindByID(ctx context.Context, id int64) (*Account, error)
	FindByEmail(ctx context.Context, email string) (*Account, error)
	Create(ctx context.Context, account *Account) (*Account, error)
	Update(ctx context.Context, account *Account) error
	UpdateLastLogin(ctx context.Context, id int64, at int64) error
	List(ctx context.Context, filter AccountFilter) ([]*Account, error)
	Count(ctx context.Context, filter AccountFilter) (int64, error)
	Delete(ctx context.Context, id int64) error
}

// RoleRepository manages roles, their permissions, and delivery days.
type RoleRepository interface {
	FindByID(ctx context.Context, id int64) (*Role, error)
	List(ctx context.Context, kind string) ([]*Role, error)
	Create(ctx context.Context, role *Role) (*Role, error)
	Update(ctx context.Context, role *Role) error
	Delete(ctx context.Context, id int64) error
}

// CategoryRepository manages catalog categories.
type CategoryRepository interface {
	List(ctx context.Context, visibleOnly bool) ([]*Category, error)
	FindByID(ctx context.Context, id int64) (*Category, error)
	Create(ctx context.Context, category *Category) (*Category, error)
	Update(ctx context.Context, category *Category) error
	Delete(ctx context.Context, id int64) error
	Sort(ctx context.Context, ids []int64, updatedAt int64) error
}

// ProductRepository manages catalog products.
type ProductRepository interface {
	Search(ctx context.Context, filter ProductFilter) ([]*Product, error)
	Count(ctx context.Context, filter ProductFilter) (int64, error)
	FindByID(ctx context.Context, id int64) (*Product, error)
	FindBySKU(ctx context.Context, sku string) (*Product, error)
	FindByIDs(ctx context.Context, ids []int64) ([]*Product, error)
	Create(ctx context.Context, product *Product) (*Product, error)
	Update(ctx context.Context, product *Product) error
	Delete(ctx context.Context, id int64) error
}

// CartRepository manages per-client persistent carts.
type CartRepository interface {
	ListByAccount(ctx context.Context, accountID int64) ([]*CartItem, error)
	Upsert(ctx context.Context, item *CartItem) error
	Remove(ctx context.Context, accountID, productID int64) error
	Clear(ctx context.Context, accountID int64) error
}

// OrderRepository manages orders and their item snapshots. Status changes go
// through UpdateStatusIf, a conditional write that only applies when the
// current status matches the expected one.
type OrderRepository interface {
	Create(ctx context.Context, order *Order, items []*OrderItem) (*Order, error)
	FindByID(ctx context.Context, id int64) (*Order, error)
	ItemsByOrderID(ctx context.Context, orderID int64) ([]*OrderItem, error)
	List(ctx context.Context, filter OrderFilter) ([]*Order, error)
	Count(ctx context.Context, filter OrderFilter) (int64, error)
	ListPendingScheduled(ctx context.Context) ([]*Order, error)
	UpdateStatusIf(ctx context.Context, id int64, from, to OrderStatus, updatedAt int64) (bool, error)
	CountByStatus(ctx context.Context) ([]OrderStatusCount, error)
}

// SettingRepository manages organization settings.
type SettingRepository interface {
	Get(ctx context.Context, key string) (*Setting, error)
	Upsert(ctx context.Context, setting *Setting) error
	List(ctx context.Context) ([]Setting, error)
	ListByCategory(ctx context.Context, category string) ([]Setting, error)
}

// TokenRepository manages refresh tokens.
type TokenRepository interface {
	Create(ctx context.Context, token *AccessToken) (*AccessToken, error)
	FindByRefreshToken(ctx context.Context, refreshToken string) (*AccessToken, error)
	DeleteByRefreshToken(ctx context.Context, refreshToken string) error
	DeleteByAccount(ctx context.Context, accountID int64) error
	DeleteExpired(ctx context.Context, nowUnix int64) (int64, error)
}

// LoginLogRepository stores login attempts.
type LoginLogRepository interface {
	Create(ctx context.Context, log *LoginLog) error
	DeleteByRetentionDays(ctx context.Context, days int) (int64, error)
}
