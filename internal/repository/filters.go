package repository

// ProductFilter narrows product searches.
type ProductFilter struct {
	CategoryID  *int64
	Query       string
	VisibleOnly bool
	InStockOnly bool
	Limit       int
	Offset      int
}

// OrderFilter narrows order listings. Dates are YYYY-MM-DD bounds on the
// delivery date, inclusive.
type OrderFilter struct {
	AccountID    *int64
	Status       *OrderStatus
	DeliveryFrom string
	DeliveryTo   string
	Limit        int
	Offset       int
}

// AccountFilter narrows account listings.
type AccountFilter struct {
	Kind   string
	Query  string
	RoleID *int64
	Limit  int
	Offset int
}
