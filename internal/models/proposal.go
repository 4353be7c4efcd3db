package models

import (
	"encoding/json"
	"strings"
	"time"

	"gorm.io/datatypes"
)

type ProposalStatus string

const (
	ProposalPublica ProposalStatus = "publica"
	ProposalPrivada ProposalStatus = "privada"
)

func (s ProposalStatus) Valid() bool {
	return s == ProposalPublica || s == ProposalPrivada
}

type Proposal struct {
	ID                  string         `json:"id" gorm:"primaryKey;size:36"`
	Titulo              string         `json:"titulo" gorm:"not null;size:300;index"`
	DescricaoObjetivos  string         `json:"descricao_objetivos" gorm:"column:descricao_objetivos;type:text;not null"`
	OrientadorID        string         `json:"orientador_id" gorm:"column:orientador_id;not null;size:36;index"`
	Coorientadores      datatypes.JSON `json:"coorientadores" gorm:"type:jsonb"`  // []string of docente ids
	Alunos              datatypes.JSON `json:"alunos" gorm:"type:jsonb"`          // []string of aluno ids
	PalavrasChave       datatypes.JSON `json:"palavras_chave" gorm:"type:jsonb"`  // []string
	Status              ProposalStatus `json:"status" gorm:"default:publica;index"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Orientador *Lecturer `json:"orientador,omitempty" gorm:"foreignKey:OrientadorID"`
}

func (Proposal) TableName() string {
	return "propostas"
}

func (p *Proposal) CoorientadorIDs() []string {
	return decodeIDList(p.Coorientadores)
}

func (p *Proposal) AlunoIDs() []string {
	return decodeIDList(p.Alunos)
}

func (p *Proposal) Keywords() []string {
	return decodeIDList(p.PalavrasChave)
}

// IsOwner reports whether the docente is the primary supervisor.
// Co-supervisors are deliberately not owners.
func (p *Proposal) IsOwner(docenteID string) bool {
	return p.OrientadorID == docenteID
}

func (p *Proposal) HasAluno(alunoID string) bool {
	for _, id := range p.AlunoIDs() {
		if id == alunoID {
			return true
		}
	}
	return false
}

func (p *Proposal) HasCoorientador(docenteID string) bool {
	for _, id := range p.CoorientadorIDs() {
		if id == docenteID {
			return true
		}
	}
	return false
}

func decodeIDList(raw datatypes.JSON) []string {
	if len(raw) == 0 {
		return nil
	}
	var out []string
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil
	}
	return out
}

// UniqueTrimmed dedupes a string list preserving order, dropping blanks.
// Mirrors the normalization the store applies to id and keyword lists.
func UniqueTrimmed(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, v := range in {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

func EncodeList(in []string) datatypes.JSON {
	if in == nil {
		in = []string{}
	}
	raw, _ := json.Marshal(in)
	return datatypes.JSON(raw)
}
