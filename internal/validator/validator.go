package validator

import (
	"fmt"
	"strings"

	"github.com/TMS-2025/proposal-service/internal/models"
	"github.com/go-playground/validator/v10"
)

// ValidationError represents a single field-level validation failure.
type ValidationError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
	Rule    string      `json:"rule,omitempty"`
}

type ValidationErrors []ValidationError

func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return "validation failed"
	}
	if len(ve) == 1 {
		return fmt.Sprintf("validation failed: %s %s", ve[0].Field, ve[0].Message)
	}
	return fmt.Sprintf("validation failed: %d field errors", len(ve))
}

// Validator is the entry point handed to services.
type Validator struct {
	business *BusinessValidator
}

func New() *Validator {
	return &Validator{business: NewBusinessValidator()}
}

func (v *Validator) GetBusinessValidator() *BusinessValidator {
	return v.business
}

// Validate validates any struct against its validate tags
func (v *Validator) Validate(s interface{}) ValidationErrors {
	return v.business.Validate(s)
}

// BusinessValidator handles struct and business rule validation
type BusinessValidator struct {
	validate *validator.Validate
}

// NewBusinessValidator creates a new business validator
func NewBusinessValidator() *BusinessValidator {
	validate := validator.New()

	bv := &BusinessValidator{validate: validate}
	bv.registerBusinessRules()

	return bv
}

// Validate validates any struct against its validate tags
func (bv *BusinessValidator) Validate(s interface{}) ValidationErrors {
	err := bv.validate.Struct(s)
	if err != nil {
		return bv.toValidationErrors(err)
	}
	return nil
}

// ValidateProposalCreate validates proposal creation business rules
func (bv *BusinessValidator) ValidateProposalCreate(req *ProposalCreateRequest) ValidationErrors {
	var errors ValidationErrors

	errors = append(errors, bv.Validate(req)...)
	errors = append(errors, validateIDList("coorientadores", req.Coorientadores)...)
	errors = append(errors, validateIDList("alunos", req.Alunos)...)
	errors = append(errors, validateKeywords(req.PalavrasChave)...)

	return errors
}

// ValidateProposalUpdate validates proposal update business rules
func (bv *BusinessValidator) ValidateProposalUpdate(req *ProposalUpdateRequest) ValidationErrors {
	var errors ValidationErrors

	errors = append(errors, bv.Validate(req)...)
	if req.Coorientadores != nil {
		errors = append(errors, validateIDList("coorientadores", *req.Coorientadores)...)
	}
	if req.Alunos != nil {
		errors = append(errors, validateIDList("alunos", *req.Alunos)...)
	}
	if req.PalavrasChave != nil {
		errors = append(errors, validateKeywords(*req.PalavrasChave)...)
	}

	return errors
}

// registerBusinessRules registers custom business rule validators
func (bv *BusinessValidator) registerBusinessRules() {
	// Person and proposal titles (1-200 characters, non-blank)
	bv.validate.RegisterValidation("nome", func(fl validator.FieldLevel) bool {
		nome := strings.TrimSpace(fl.Field().String())
		return len(nome) >= 1 && len(nome) <= 200
	})

	bv.validate.RegisterValidation("proposta_titulo", func(fl validator.FieldLevel) bool {
		titulo := strings.TrimSpace(fl.Field().String())
		return len(titulo) >= 3 && len(titulo) <= 200
	})

	// Passwords must carry at least 8 characters
	bv.validate.RegisterValidation("senha", func(fl validator.FieldLevel) bool {
		return len(fl.Field().String()) >= 8
	})

	// Student numbers are 4-20 alphanumeric characters
	bv.validate.RegisterValidation("numero_estudante", func(fl validator.FieldLevel) bool {
		numero := fl.Field().String()
		if len(numero) < 4 || len(numero) > 20 {
			return false
		}
		for _, r := range numero {
			isDigit := r >= '0' && r <= '9'
			isLetter := (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
			if !isDigit && !isLetter {
				return false
			}
		}
		return true
	})

	bv.validate.RegisterValidation("proposta_status", func(fl validator.FieldLevel) bool {
		return models.ProposalStatus(fl.Field().String()).Valid()
	})

	bv.validate.RegisterValidation("tipo_utilizador", func(fl validator.FieldLevel) bool {
		return models.PrincipalKind(fl.Field().String()).Valid()
	})
}

func validateIDList(field string, ids []string) ValidationErrors {
	var errors ValidationErrors

	if len(ids) > 20 {
		errors = append(errors, ValidationError{
			Field:   field,
			Message: "cannot reference more than 20 entries",
			Value:   len(ids),
			Rule:    "business_logic",
		})
	}

	for i, id := range ids {
		if strings.TrimSpace(id) == "" {
			errors = append(errors, ValidationError{
				Field:   fmt.Sprintf("%s[%d]", field, i),
				Message: "identifier cannot be empty",
				Value:   id,
				Rule:    "business_logic",
			})
		}
	}

	return errors
}

func validateKeywords(keywords []string) ValidationErrors {
	var errors ValidationErrors

	if len(keywords) > 10 {
		errors = append(errors, ValidationError{
			Field:   "palavras_chave",
			Message: "cannot have more than 10 keywords",
			Value:   len(keywords),
			Rule:    "business_logic",
		})
	}

	for i, kw := range keywords {
		trimmed := strings.TrimSpace(kw)
		if trimmed == "" {
			errors = append(errors, ValidationError{
				Field:   fmt.Sprintf("palavras_chave[%d]", i),
				Message: "keyword cannot be empty",
				Value:   kw,
				Rule:    "business_logic",
			})
		} else if len(trimmed) > 50 {
			errors = append(errors, ValidationError{
				Field:   fmt.Sprintf("palavras_chave[%d]", i),
				Message: "keyword must not exceed 50 characters",
				Value:   kw,
				Rule:    "business_logic",
			})
		}
	}

	return errors
}

func (bv *BusinessValidator) toValidationErrors(err error) ValidationErrors {
	var errors ValidationErrors

	fieldErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return ValidationErrors{{Field: "request", Message: err.Error()}}
	}

	for _, fe := range fieldErrors {
		errors = append(errors, ValidationError{
			Field:   fe.Field(),
			Message: getErrorMessage(fe),
			Value:   fe.Value(),
			Rule:    fe.Tag(),
		})
	}

	return errors
}

// getErrorMessage returns user-friendly error messages
func getErrorMessage(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return fmt.Sprintf("must be at least %s", err.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", err.Param())
	case "nome":
		return "must be between 1 and 200 characters"
	case "proposta_titulo":
		return "must be between 3 and 200 characters"
	case "senha":
		return "must be at least 8 characters"
	case "numero_estudante":
		return "must be 4 to 20 letters or digits"
	case "proposta_status":
		return "must be publica or privada"
	case "tipo_utilizador":
		return "must be docente or aluno"
	default:
		return fmt.Sprintf("validation failed for rule '%s'", err.Tag())
	}
}
