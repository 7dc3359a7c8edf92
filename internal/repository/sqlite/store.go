package sqlite

import (
	"database/sql"

	"github.com/amniuelmohamed/freshconcept/internal/repository"
)

// Store wires SQLite-backed repository implementations.
type Store struct {
	db         *sql.DB
	accounts   repository.AccountRepository
	roles      repository.RoleRepository
	categories repository.CategoryRepository
	products   repository.ProductRepository
	carts      repository.CartRepository
	orders     repository.OrderRepository
	settings   repository.SettingRepository
	tokens     repository.TokenRepository
	loginLogs  repository.LoginLogRepository
}

// NewStore constructs a SQLite-backed repository store.
func NewStore(db *sql.DB) *Store {
	return &Store{
		db:         db,
		accounts:   &accountRepo{db: db},
		roles:      &roleRepo{db: db},
		categories: &categoryRepo{db: db},
		products:   &productRepo{db: db},
		carts:      &cartRepo{db: db},
		orders:     &orderRepo{db: db},
		settings:   &settingRepo{db: db},
		tokens:     &tokenRepo{db: db},
		loginLogs:  &loginLogRepo{db: db},
	}
}

func (s *Store) Accounts() repository.AccountRepository {
	return s.accounts
}

func (s *Store) Roles() repository.RoleRepository {
	return s.roles
}

func (s *Store) Categories() repository.CategoryRepository {
	return s.categories
}

func (s *Store) Products() repository.ProductRepository {
	return s.products
}

func (s *Store) Carts() repository.CartRepository {
	return s.carts
}

func (s *Store) Orders() repository.OrderRepository {
	return s.orders
}

func (s *Store) Settings() repository.SettingRepository {
	return s.settings
}

func (s *Store) Tokens() repository.TokenRepository {
	return s.tokens
}

func (s *Store) LoginLogs() repository.LoginLogRepository {
	return s.loginLogs
}
