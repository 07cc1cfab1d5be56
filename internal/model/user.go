// internal/model/user.go
package model

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleVolunteer    Role = "volunteer"
	RoleOrganization Role = "organization"
)

func (r Role) Valid() bool {
	return r == RoleVolunteer || r == RoleOrganization
}

type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Name         string    `gorm:"type:text;not null" json:"name"`
	Email        string    `gorm:"type:text;uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"type:text;not null" json:"-"`
	Role         Role      `gorm:"type:user_role;not null;default:'volunteer'" json:"role"`
	Phone        string    `gorm:"type:text" json:"phone,omitempty"`
	Location     string    `gorm:"type:text" json:"location,omitempty"`
	Bio          string    `gorm:"type:text" json:"bio,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (u *User) IsOrganization() bool {
	return u.Role == RoleOrganization
}

func (u *User) IsVolunteer() bool {
	return u.Role == RoleVolunteer
}
