package validator

// RegisterDocenteRequest represents the request structure for lecturer registration
type RegisterDocenteRequest struct {
	Nome         string `json:"nome" validate:"required,nome"`
	Email        string `json:"email" validate:"required,email"`
	Senha        string `json:"senha" validate:"required,senha"`
	Departamento string `json:"departamento" validate:"omitempty,max=200"`
}

// RegisterAlunoRequest represents the request structure for student registration
type RegisterAlunoRequest struct {
	Nome            string `json:"nome" validate:"required,nome"`
	Email           string `json:"email" validate:"required,email"`
	Senha           string `json:"senha" validate:"required,senha"`
	NumeroEstudante string `json:"numero_estudante" validate:"required,numero_estudante"`
}

// LoginRequest represents the request structure for authentication
type LoginRequest struct {
	Email string `json:"email" validate:"required,email"`
	Senha string `json:"senha" validate:"required"`
	Tipo  string `json:"tipo" validate:"required,tipo_utilizador"`
}

// ForgotPasswordRequest starts a password recovery flow. Tipo is optional;
// without it both account kinds are probed.
type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
	Tipo  string `json:"tipo" validate:"omitempty,tipo_utilizador"`
}

// ResetPasswordRequest completes a password recovery flow
type ResetPasswordRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Token       string `json:"token" validate:"required"`
	Tipo        string `json:"tipo" validate:"required,tipo_utilizador"`
	NewPassword string `json:"newPassword" validate:"required,senha"`
}

// ProposalCreateRequest represents the request structure for creating proposals
type ProposalCreateRequest struct {
	Titulo             string   `json:"titulo" validate:"required,proposta_titulo"`
	DescricaoObjetivos string   `json:"descricao_objetivos" validate:"required,max=5000"`
	// Orientador is honored only for admins; everyone else supervises
	// their own proposals.
	Orientador         string   `json:"orientador"`
	Coorientadores     []string `json:"coorientadores"`
	Alunos             []string `json:"alunos"`
	PalavrasChave      []string `json:"palavras_chave"`
	Status             string   `json:"status" validate:"omitempty,proposta_status"`
}

// ProposalUpdateRequest represents the request structure for updating proposals.
// Nil slices mean the field is untouched; empty slices clear it.
type ProposalUpdateRequest struct {
	Titulo             *string   `json:"titulo" validate:"omitempty,proposta_titulo"`
	DescricaoObjetivos *string   `json:"descricao_objetivos" validate:"omitempty,max=5000"`
	Coorientadores     *[]string `json:"coorientadores"`
	Alunos             *[]string `json:"alunos"`
	PalavrasChave      *[]string `json:"palavras_chave"`
	Status             *string   `json:"status" validate:"omitempty,proposta_status"`
}

// DocenteUpdateRequest represents a lecturer profile update
type DocenteUpdateRequest struct {
	Nome         *string `json:"nome" validate:"omitempty,nome"`
	Departamento *string `json:"departamento" validate:"omitempty,max=200"`
}

// AlunoUpdateRequest represents a student profile update
type AlunoUpdateRequest struct {
	Nome *string `json:"nome" validate:"omitempty,nome"`
}
