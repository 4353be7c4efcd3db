package models

import (
	"encoding/json"
	"strings"
	"time"

	"gorm.io/datatypes"
)

type PrincipalKind string

const (
	KindDocente PrincipalKind = "docente"
	KindAluno   PrincipalKind = "aluno"
)

func (k PrincipalKind) Valid() bool {
	return k == KindDocente || k == KindAluno
}

type Role string

const (
	RoleDocente Role = "docente"
	RoleAdmin   Role = "admin"
)

type Lecturer struct {
	ID           string         `json:"id" gorm:"primaryKey;size:36"`
	Nome         string         `json:"nome" gorm:"not null;size:200"`
	Email        string         `json:"email" gorm:"uniqueIndex;not null;size:255"`
	Departamento string         `json:"departamento" gorm:"size:200"`
	SenhaHash    string         `json:"-" gorm:"column:senha_hash;not null;size:100"`
	Roles        datatypes.JSON `json:"roles" gorm:"type:jsonb"` // []Role

	PasswordResetTokenHash *string    `json:"-" gorm:"size:64;index"`
	PasswordResetExpiresAt *time.Time `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Lecturer) TableName() string {
	return "docentes"
}

// RoleList decodes the jsonb role column. A row with a missing or corrupt
// column still yields the baseline "docente" role.
func (l *Lecturer) RoleList() []string {
	var roles []string
	if len(l.Roles) > 0 {
		if err := json.Unmarshal(l.Roles, &roles); err == nil && len(roles) > 0 {
			return roles
		}
	}
	return []string{string(RoleDocente)}
}

func (l *Lecturer) HasRole(role Role) bool {
	for _, r := range l.RoleList() {
		if r == string(role) {
			return true
		}
	}
	return false
}

// NormalizeEmail lowercases and trims an address. Uniqueness is
// case-insensitive, so every lookup and insert goes through this.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
