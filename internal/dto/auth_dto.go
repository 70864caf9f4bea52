package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type CreateUserRequest struct {
	Username string `json:"username"  validate:"required,min=3"`
	FullName string `json:"full_name" validate:"required"`
	Password string `json:"password"  validate:"required,min=6"`
	Role     string `json:"role"      validate:"required,oneof=admin operator"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type LoginResponse struct {
	User      UserResponse `json:"user"`
	CsrfToken string       `json:"csrf_token"`
	ExpiresIn int          `json:"expires_in"`
}

type UserResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
	Active   bool   `json:"active"`
}
