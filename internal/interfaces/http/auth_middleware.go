package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/tu-usuario/farmasync-api/internal/application/dto"
	"github.com/tu-usuario/farmasync-api/internal/domain/entity"
	"github.com/tu-usuario/farmasync-api/pkg/jwt"
)

// Locals keys para la identidad autenticada en Fiber.
const (
	LocalUserID     = "user_id"
	LocalPharmacyID = "pharmacy_id"
	LocalBranchID   = "branch_id"
	LocalRole       = "role"
)

// AuthMiddleware valida el Bearer Token JWT y extrae la identidad a c.Locals.
func AuthMiddleware(jwtSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "Authorization header requerido"})
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "formato: Bearer <token>"})
		}
		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "token vacío"})
		}
		claims, err := jwt.Parse(jwtSecret, tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token inválido o expirado"})
		}
		c.Locals(LocalUserID, claims.UserID)
		c.Locals(LocalPharmacyID, claims.PharmacyID)
		c.Locals(LocalBranchID, claims.BranchID)
		c.Locals(LocalRole, claims.Role)
		return c.Next()
	}
}

// RequireRole exige que el usuario autenticado tenga uno de los roles dados.
// Se monta después de AuthMiddleware.
func RequireRole(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role := GetRole(c)
		for _, r := range roles {
			if role == r {
				return c.Next()
			}
		}
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "rol sin permiso para esta operación"})
	}
}

// GetUserID devuelve el UserID del contexto (después del middleware de auth).
func GetUserID(c *fiber.Ctx) string {
	return localString(c, LocalUserID)
}

// GetPharmacyID devuelve el PharmacyID del contexto.
func GetPharmacyID(c *fiber.Ctx) string {
	return localString(c, LocalPharmacyID)
}

// GetBranchID devuelve el BranchID del contexto (vacío = toda la farmacia).
func GetBranchID(c *fiber.Ctx) string {
	return localString(c, LocalBranchID)
}

// GetRole devuelve el rol del contexto.
func GetRole(c *fiber.Ctx) string {
	return localString(c, LocalRole)
}

// GetScope arma el scope de la petición autenticada.
func GetScope(c *fiber.Ctx) entity.Scope {
	return entity.Scope{
		PharmacyID: GetPharmacyID(c),
		BranchID:   GetBranchID(c),
		ActorID:    GetUserID(c),
	}
}

func localString(c *fiber.Ctx, key string) string {
	v := c.Locals(key)
	if v == nil {
		return ""
	}
	s, _ := v.(string)
	return s
}
