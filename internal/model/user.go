package model

// User is an admin-panel account. Password holds the bcrypt hash and is
// never serialized.
type User struct {
	ID       int64  `db:"id" json:"id"`
	Email    string `db:"email" json:"email"`
	Password string `db:"password" json:"-"`
	Name     string `db:"name" json:"name"`
	Role     string `db:"role" json:"role"`
}
