package models

// User roles and account states. Account management itself lives
// elsewhere; this service only needs to know who can receive
// notifications and who counts as an administrator.
const (
	RoleAdmin = "ADMIN"
	RoleUser  = "USER"

	AccountActive = "ACTIVE"
)

// User is a notification recipient.
type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	Status   string `json:"status"`
}
