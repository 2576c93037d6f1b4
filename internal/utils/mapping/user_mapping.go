package mapping

import (
	"github.com/kassatrack/cash_report_app/internal/core/domain"
	"github.com/kassatrack/cash_report_app/internal/models"
)

// ToDomainUser converts a user row plus its location assignments.
func ToDomainUser(m models.User, locations []string) domain.User {
	return domain.User{
		UserID:      m.UserID,
		Username:    m.Username,
		Role:        m.Role,
		IsActive:    m.IsActive,
		DeviceLimit: m.DeviceLimit,
		Locations:   locations,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

// ToModelUser converts a domain user with credentials to its row shape.
func ToModelUser(d domain.UserCredentials) models.User {
	return models.User{
		UserID:       d.UserID,
		Username:     d.Username,
		PasswordHash: d.PasswordHash,
		Role:         d.Role,
		IsActive:     d.IsActive,
		DeviceLimit:  d.DeviceLimit,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}
