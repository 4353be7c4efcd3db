package models

import "time"

// ===== PUBLIC VIEWS =====
// Wire-level shapes returned to the frontend. Password hashes and reset
// state never appear here.

type LecturerView struct {
	ID           string    `json:"id"`
	Nome         string    `json:"nome"`
	Email        string    `json:"email"`
	Departamento string    `json:"departamento,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

type LecturerRef struct {
	ID   string `json:"id"`
	Nome string `json:"nome"`
}

type StudentView struct {
	ID              string    `json:"id"`
	Nome            string    `json:"nome"`
	Email           string    `json:"email"`
	NumeroEstudante string    `json:"numero_estudante"`
	CreatedAt       time.Time `json:"created_at"`
}

type StudentRef struct {
	ID              string `json:"id"`
	Nome            string `json:"nome"`
	NumeroEstudante string `json:"numero_estudante"`
}

// ProposalView is a proposal with its references resolved to names, the
// equivalent of the original API's populated projections.
type ProposalView struct {
	ID                 string         `json:"id"`
	Titulo             string         `json:"titulo"`
	DescricaoObjetivos string         `json:"descricao_objetivos"`
	Orientador         LecturerRef    `json:"orientador"`
	Coorientadores     []LecturerRef  `json:"coorientadores"`
	Alunos             []StudentRef   `json:"alunos"`
	PalavrasChave      []string       `json:"palavras_chave"`
	Status             ProposalStatus `json:"status"`
	CreatedAt          time.Time      `json:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at"`
}

func (l *Lecturer) View() LecturerView {
	return LecturerView{
		ID:           l.ID,
		Nome:         l.Nome,
		Email:        l.Email,
		Departamento: l.Departamento,
		CreatedAt:    l.CreatedAt,
	}
}

func (l *Lecturer) Ref() LecturerRef {
	return LecturerRef{ID: l.ID, Nome: l.Nome}
}

func (s *Student) View() StudentView {
	return StudentView{
		ID:              s.ID,
		Nome:            s.Nome,
		Email:           s.Email,
		NumeroEstudante: s.NumeroEstudante,
		CreatedAt:       s.CreatedAt,
	}
}

func (s *Student) Ref() StudentRef {
	return StudentRef{ID: s.ID, Nome: s.Nome, NumeroEstudante: s.NumeroEstudante}
}
