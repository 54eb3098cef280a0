package models

// Roles a user can hold. Role defaults to "user" for plain customers.
const (
	RoleAdmin       = "admin"
	RoleSeller      = "seller"
	RoleDeliveryman = "deliveryman"
	RoleUser        = "user"
)

// User represents an account in the system.
// It maps to the `users` table in SQLite. Wallet is nil when the user has none.
type User struct {
	ID       int64   `db:"id" json:"id"`
	Username string  `db:"username" json:"username"`
	Role     string  `db:"role" json:"role"`
	Wallet   *Wallet `json:"wallet,omitempty"`
}

// Shop belongs to a seller.
type Shop struct {
	ID       int64 `db:"id" json:"id"`
	SellerID int64 `db:"seller_id" json:"seller_id"`
}
