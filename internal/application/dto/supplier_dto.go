package dto

import "github.com/tu-usuario/farmasync-api/internal/domain/entity"

// SupplierRequest cuerpo para crear o editar un proveedor.
type SupplierRequest struct {
	Name        string `json:"name"`
	ContactName string `json:"contactName,omitempty"`
	Phone       string `json:"phone,omitempty"`
	Email       string `json:"email,omitempty"`
}

// SupplierResponse representación de un proveedor en respuestas.
type SupplierResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	ContactName string `json:"contactName,omitempty"`
	Phone       string `json:"phone,omitempty"`
	Email       string `json:"email,omitempty"`
}

// ToSupplierResponse convierte la entidad a su representación HTTP.
func ToSupplierResponse(s *entity.Supplier) *SupplierResponse {
	return &SupplierResponse{
		ID:          s.ID,
		Name:        s.Name,
		ContactName: s.ContactName,
		Phone:       s.Phone,
		Email:       s.Email,
	}
}
