package dto

// SignupRequest registra una farmacia nueva con su primera sucursal y el
// usuario administrador, todo en una sola transacción.
type SignupRequest struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Password     string `json:"password"`
	PharmacyName string `json:"pharmacyName"`
	BranchName   string `json:"branchName"`
	BranchCode   string `json:"branchCode"`
}

// LoginRequest credenciales de inicio de sesión.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	DeviceID string `json:"deviceId,omitempty"`
}

// UserResponse representación pública de un usuario (sin hash).
type UserResponse struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Role       string `json:"role"`
	PharmacyID string `json:"pharmacyId"`
	BranchID   string `json:"branchId,omitempty"`
}

// LoginResponse token de acceso más el usuario autenticado.
type LoginResponse struct {
	AccessToken string       `json:"accessToken"`
	User        UserResponse `json:"user"`
}
