package dto

// swagger:model dto.RegisterRequest
type RegisterRequest struct {
	Username string `json:"username" validate:"max=80" example:"alice"`
	Email    string `json:"email" validate:"max=120" example:"alice@example.com"`
	// bcrypt 只使用前 72 bytes
	Password string `json:"password" validate:"max=72" example:"Secret123!"`
}

// swagger:model dto.LoginRequest
type LoginRequest struct {
	Username string `json:"username" example:"alice"`
	Password string `json:"password" example:"Secret123!"`
}

// swagger:model dto.LoginResponse
type LoginResponse struct {
	Token string `json:"token"`
	Role  string `json:"role" example:"user"`
}
