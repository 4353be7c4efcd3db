package models

import "time"

type Student struct {
	ID              string `json:"id" gorm:"primaryKey;size:36"`
	Nome            string `json:"nome" gorm:"not null;size:200"`
	Email           string `json:"email" gorm:"uniqueIndex;not null;size:255"`
	NumeroEstudante string `json:"numero_estudante" gorm:"column:numero_estudante;uniqueIndex;not null;size:50"`
	SenhaHash       string `json:"-" gorm:"column:senha_hash;not null;size:100"`

	PasswordResetTokenHash *string    `json:"-" gorm:"size:64;index"`
	PasswordResetExpiresAt *time.Time `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Student) TableName() string {
	return "alunos"
}
