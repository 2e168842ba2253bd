package model

import (
	"time"
)

// User roles. A user carries exactly one role for its lifetime.
const (
	RoleTenantUser = "tenant_user"
	RoleSuperAdmin = "super_admin"
)

type User struct {
	ID           uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	Name         string    `json:"name" gorm:"not null;size:100"`
	Email        string    `json:"email" gorm:"not null;uniqueIndex;size:255"`
	Phone        string    `json:"phone" gorm:"not null;size:20"`
	Tenant       string    `json:"tenant" gorm:"not null;index;size:100"`
	PasswordHash string    `json:"-" gorm:"not null;size:255"`
	Role         string    `json:"role" gorm:"not null;default:tenant_user;size:20"`
	CreatedAt    time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt    time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleSuperAdmin
}

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Tenant   string `json:"tenant"`
	Password string `json:"password"`
}

type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type UserResponse struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Tenant    string    `json:"tenant"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

func (u *User) ToResponse() UserResponse {
	return UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Phone:     u.Phone,
		Tenant:    u.Tenant,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
}
