package models

// TenantRecord represents a tenant as supplied by the tenants feed
// Only used to label per-tenant arrears
type TenantRecord struct {
	ID    string `json:"id" db:"id" validate:"required"`
	Name  string `json:"name" db:"name"`
	Email string `json:"email,omitempty" db:"email"`
	Phone string `json:"phone,omitempty" db:"phone"`
}

// DisplayName returns the tenant name, falling back to the id
func (t *TenantRecord) DisplayName() string {
	if t.Name != "" {
		return t.Name
	}
	return t.ID
}
