// Package manager provides the Manager catalog.
// Managers are responsible for warehouse sections and authorize inbound
// orders and section-level reports.
package manager

import (
	"context"
	"regexp"

	"freshstock/internal/core/apperror"
	"freshstock/internal/core/entity"
)

var emailRe = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// Manager represents a warehouse section manager.
type Manager struct {
	entity.Catalog

	Username string `db:"username" json:"username"`
	Email    string `db:"email" json:"email"`
}

// NewManager creates a new Manager.
func NewManager(code, name, username, email string) *Manager {
	return &Manager{
		Catalog:  entity.NewCatalog(code, name),
		Username: username,
		Email:    email,
	}
}

// Validate implements entity.Validatable interface.
func (m *Manager) Validate(ctx context.Context) error {
	if err := m.Catalog.Validate(ctx); err != nil {
		return err
	}

	if m.Username == "" {
		return apperror.NewValidation("username is required").
			WithDetail("field", "username")
	}

	if m.Email != "" && !emailRe.MatchString(m.Email) {
		return apperror.NewValidation("invalid email").
			WithDetail("field", "email").
			WithDetail("value", m.Email)
	}

	return nil
}
