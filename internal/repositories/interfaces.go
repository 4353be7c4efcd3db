package repositories

import "github.com/TMS-2025/proposal-service/internal/models"

// ===== SHARED FILTER STRUCTS =====

type LecturerFilters struct {
	Nome         string `json:"nome"`
	Email        string `json:"email"`
	Departamento string `json:"departamento"`
	Query        string `json:"q"` // matches nome, email or departamento
	Limit        int    `json:"limit"`
	Offset       int    `json:"offset"`
	// NoPagination returns every matching row; the handler then emits a bare
	// array instead of a page envelope.
	NoPagination bool `json:"-"`
}

type StudentFilters struct {
	Query  string `json:"q"`
	Limit  int    `json:"limit"`
	Offset int    `json:"offset"`
}

// ProposalScope restricts a listing to what the calling principal may see:
// docentes see proposals they supervise or co-supervise, alunos see
// proposals they are associated with. Admin sees everything.
type ProposalScope struct {
	Kind      models.PrincipalKind
	SubjectID string
	Admin     bool
}

type ProposalFilters struct {
	Titulo     string `json:"titulo"`
	Autor      string `json:"autor"`      // aluno name
	Orientador string `json:"orientador"` // supervisor name
	Query      string `json:"q"`          // matches titulo, orientador or aluno names
	Limit      int    `json:"limit"`
	Offset     int    `json:"offset"`
}
