package models

// AdminUser is the session payload written under the adminUser key after a
// successful admin login.
type AdminUser struct {
	ID    int    `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

// RecordUser is the shape the record API returns from /users.
type RecordUser struct {
	ID       int    `json:"id"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Role     string `json:"role"`
}
