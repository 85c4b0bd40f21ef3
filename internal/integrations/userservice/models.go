package userservice

// Роли пользователей платформы
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// User модель пользователя из UserService
type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"` // admin | user
	IsActive bool   `json:"is_active"`
}

// IsAdmin возвращает true, если пользователь обладает административными правами
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// ErrorResponse модель ошибки от UserService
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
