package repository

// AccountKind separates purchasing clients from portal employees.
const (
	AccountKindClient   = "client"
	AccountKindEmployee = "employee"
)

// OrderStatus enumerates the order lifecycle states.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// Valid reports whether the status is one of the known lifecycle states.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// Account models a portal login: a client company buyer or an employee.
type Account struct {
	ID          int64
	UUID        string
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
	LastLoginAt int64
	CreatedAt   int64
	UpdatedAt   int64
}

// Role groups permissions and, for client roles, the weekly delivery days.
type Role struct {
	ID           int64
	Name         string
	Kind         string
	Permissions  []string
	DeliveryDays []string
	CreatedAt    int64
	UpdatedAt    int64
}

// Category is a catalog grouping for products.
type Category struct {
	ID        int64
	Name      string
	Sort      int64
	Visible   bool
	CreatedAt int64
	UpdatedAt int64
}

// Product is a sellable catalog item. Description holds sanitized HTML.
type Product struct {
	ID          int64
	CategoryID  int64
	SKU         string
	Name        string
	Description string
	Unit        string
	PriceCents  int64
	InStock     bool
	Visible     bool
	Sort        int64
	CreatedAt   int64
	UpdatedAt   int64
}

// CartItem is one product line in a client's persistent cart.
type CartItem struct {
	AccountID int64
	ProductID int64
	Quantity  int64
	UpdatedAt int64
}

// Order is a submitted purchase tied to one client account. DeliveryDate is
// a calendar date in YYYY-MM-DD form; nil means not yet scheduled.
type Order struct {
	ID           int64
	Reference    string
	AccountID    int64
	Status       OrderStatus
	DeliveryDate *string
	Note         string
	TotalCents   int64
	CreatedAt    int64
	UpdatedAt    int64
}

// OrderItem snapshots a product line at submission time.
type OrderItem struct {
	ID         int64
	OrderID    int64
	ProductID  int64
	Name       string
	Unit       string
	PriceCents int64
	Quantity   int64
}

// Setting mirrors the organization settings KV rows.
type Setting struct {
	Key       string
	Value     string
	Category  string
	UpdatedAt int64
}

// AccessToken stores refresh session metadata.
type AccessToken struct {
	ID               int64
	AccountID        int64
	RefreshToken     string
	RefreshExpiresAt int64
	IP               string
	UserAgent        string
	CreatedAt        int64
}

// LoginLog captures a single login attempt for auditing purposes.
type LoginLog struct {
	ID        int64
	AccountID *int64
	Email     string
	IP        string
	UserAgent string
	Success   bool
	Reason    string
	CreatedAt int64
}

// OrderStatusCount aggregates order totals per status for dashboards.
type OrderStatusCount struct {
	Status OrderStatus
	Count  int64
}
