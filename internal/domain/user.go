package domain

const (
	RoleCustomer = "CUSTOMER"
	RoleStaff    = "STAFF"
	RoleAdmin    = "ADMIN"
)

type User struct {
	ID         string  `db:"id" json:"id"`
	Email      string  `db:"email" json:"email"`
	Name       string  `db:"name" json:"name"`
	Hash       string  `db:"password_hash" json:"-"`
	Role       string  `db:"role" json:"role"`
	TotalSpent float64 `db:"total_spent" json:"totalSpent"`
	OrderCount int     `db:"order_count" json:"orderCount"`
}

// IsStaff is true for accounts allowed to drive order fulfilment.
func (u *User) IsStaff() bool {
	return u != nil && (u.Role == RoleStaff || u.Role == RoleAdmin)
}

func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}
