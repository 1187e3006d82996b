package jwt

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims incluye los claims estándar JWT más los campos propios de la aplicación.
// Se añade Role para que el middleware RBAC pueda tomar decisiones sin consultar la DB.
type Claims struct {
	jwt.RegisteredClaims
	UserID     string `json:"user_id"`
	PharmacyID string `json:"pharmacy_id"`
	BranchID   string `json:"branch_id,omitempty"`
	Role       string `json:"role"` // "admin" | "pharmacist" | "cashier"
}

// GenerateInput parámetros para emitir un token.
type GenerateInput struct {
	Secret     string
	UserID     string
	PharmacyID string
	BranchID   string
	Role       string
	Issuer     string
	ExpMinutes int
}

// Generate genera un token JWT firmado con userID, pharmacyID, branchID y role.
func Generate(in GenerateInput) (string, error) {
	if in.Secret == "" {
		return "", fmt.Errorf("jwt: secret vacío")
	}
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    in.Issuer,
			Subject:   in.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(in.ExpMinutes) * time.Minute)),
		},
		UserID:     in.UserID,
		PharmacyID: in.PharmacyID,
		BranchID:   in.BranchID,
		Role:       in.Role,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(in.Secret))
}

// Parse valida el token y devuelve los claims de la aplicación.
// Retorna error si el token es inválido, expirado o tiene firma incorrecta.
func Parse(secret, tokenString string) (*Claims, error) {
	if secret == "" {
		return nil, fmt.Errorf("jwt: secret vacío")
	}
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("método de firma inesperado: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("claims inválidos")
	}
	return claims, nil
}
