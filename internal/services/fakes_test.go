package services

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/TMS-2025/proposal-service/internal/mailer"
	"github.com/TMS-2025/proposal-service/internal/models"
	"github.com/TMS-2025/proposal-service/internal/repositories"
	"gorm.io/gorm"
)

// In-memory repository used by the service tests.

type fakeRepository struct {
	lecturers *fakeLecturerRepo
	students  *fakeStudentRepo
	proposals *fakeProposalRepo
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		lecturers: &fakeLecturerRepo{rows: map[string]*models.Lecturer{}},
		students:  &fakeStudentRepo{rows: map[string]*models.Student{}},
		proposals: &fakeProposalRepo{rows: map[string]*models.Proposal{}},
	}
}

func (r *fakeRepository) Lecturer() repositories.LecturerRepository { return r.lecturers }
func (r *fakeRepository) Student() repositories.StudentRepository   { return r.students }
func (r *fakeRepository) Proposal() repositories.ProposalRepository { return r.proposals }

func (r *fakeRepository) WithTransaction(ctx context.Context, fn func(repositories.Repository) error) error {
	return fn(r)
}

func (r *fakeRepository) Ping(ctx context.Context) error { return nil }
func (r *fakeRepository) Close() error                   { return nil }

// ===== LECTURERS =====

type fakeLecturerRepo struct {
	mu   sync.Mutex
	rows map[string]*models.Lecturer
}

func (f *fakeLecturerRepo) Create(ctx context.Context, lecturer *models.Lecturer) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, row := range f.rows {
		if row.Email == lecturer.Email {
			return gorm.ErrDuplicatedKey
		}
	}
	cp := *lecturer
	cp.CreatedAt = time.Now()
	f.rows[lecturer.ID] = &cp
	return nil
}

func (f *fakeLecturerRepo) Update(ctx context.Context, lecturer *models.Lecturer) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.rows[lecturer.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	cp := *lecturer
	f.rows[lecturer.ID] = &cp
	return nil
}

func (f *fakeLecturerRepo) GetByID(ctx context.Context, id string) (*models.Lecturer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	row, ok := f.rows[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *row
	return &cp, nil
}

func (f *fakeLecturerRepo) GetByEmail(ctx context.Context, email string) (*models.Lecturer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, row := range f.rows {
		if row.Email == models.NormalizeEmail(email) {
			cp := *row
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeLecturerRepo) GetByIDs(ctx context.Context, ids []string) ([]*models.Lecturer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.Lecturer
	for _, id := range ids {
		if row, ok := f.rows[id]; ok {
			cp := *row
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeLecturerRepo) List(ctx context.Context, filters repositories.LecturerFilters) ([]*models.Lecturer, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.Lecturer
	for _, row := range f.rows {
		if filters.Nome != "" && !strings.Contains(strings.ToLower(row.Nome), strings.ToLower(filters.Nome)) {
			continue
		}
		cp := *row
		out = append(out, &cp)
	}
	total := int64(len(out))
	if !filters.NoPagination && filters.Limit > 0 {
		out = paginate(out, filters.Offset, filters.Limit)
	}
	return out, total, nil
}

func (f *fakeLecturerRepo) ExistsAll(ctx context.Context, ids []string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, id := range ids {
		if _, ok := f.rows[id]; !ok {
			return false, nil
		}
	}
	return true, nil
}

func (f *fakeLecturerRepo) SetResetToken(ctx context.Context, id, tokenHash string, expiresAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	row, ok := f.rows[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	exp := expiresAt
	row.PasswordResetTokenHash = &tokenHash
	row.PasswordResetExpiresAt = &exp
	return nil
}

func (f *fakeLecturerRepo) ConsumeResetToken(ctx context.Context, id, tokenHash, newSenhaHash string, now time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	row, ok := f.rows[id]
	if !ok {
		return false, nil
	}
	if row.PasswordResetTokenHash == nil || *row.PasswordResetTokenHash != tokenHash {
		return false, nil
	}
	if row.PasswordResetExpiresAt == nil || !row.PasswordResetExpiresAt.After(now) {
		return false, nil
	}
	row.SenhaHash = newSenhaHash
	row.PasswordResetTokenHash = nil
	row.PasswordResetExpiresAt = nil
	return true, nil
}

// ===== STUDENTS =====

type fakeStudentRepo struct {
	mu   sync.Mutex
	rows map[string]*models.Student
}

func (f *fakeStudentRepo) Create(ctx context.Context, student *models.Student) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, row := range f.rows {
		if row.Email == student.Email || row.NumeroEstudante == student.NumeroEstudante {
			return gorm.ErrDuplicatedKey
		}
	}
	cp := *student
	cp.CreatedAt = time.Now()
	f.rows[student.ID] = &cp
	return nil
}

func (f *fakeStudentRepo) Update(ctx context.Context, student *models.Student) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.rows[student.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	cp := *student
	f.rows[student.ID] = &cp
	return nil
}

func (f *fakeStudentRepo) GetByID(ctx context.Context, id string) (*models.Student, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	row, ok := f.rows[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *row
	return &cp, nil
}

func (f *fakeStudentRepo) GetByEmail(ctx context.Context, email string) (*models.Student, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, row := range f.rows {
		if row.Email == models.NormalizeEmail(email) {
			cp := *row
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeStudentRepo) GetByNumeroEstudante(ctx context.Context, numero string) (*models.Student, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, row := range f.rows {
		if row.NumeroEstudante == numero {
			cp := *row
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeStudentRepo) GetByIDs(ctx context.Context, ids []string) ([]*models.Student, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.Student
	for _, id := range ids {
		if row, ok := f.rows[id]; ok {
			cp := *row
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeStudentRepo) List(ctx context.Context, filters repositories.StudentFilters) ([]*models.Student, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.Student
	for _, row := range f.rows {
		cp := *row
		out = append(out, &cp)
	}
	total := int64(len(out))
	if filters.Limit > 0 {
		out = paginate(out, filters.Offset, filters.Limit)
	}
	return out, total, nil
}

func (f *fakeStudentRepo) ExistsAll(ctx context.Context, ids []string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, id := range ids {
		if _, ok := f.rows[id]; !ok {
			return false, nil
		}
	}
	return true, nil
}

func (f *fakeStudentRepo) SetResetToken(ctx context.Context, id, tokenHash string, expiresAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	row, ok := f.rows[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	exp := expiresAt
	row.PasswordResetTokenHash = &tokenHash
	row.PasswordResetExpiresAt = &exp
	return nil
}

func (f *fakeStudentRepo) ConsumeResetToken(ctx context.Context, id, tokenHash, newSenhaHash string, now time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	row, ok := f.rows[id]
	if !ok {
		return false, nil
	}
	if row.PasswordResetTokenHash == nil || *row.PasswordResetTokenHash != tokenHash {
		return false, nil
	}
	if row.PasswordResetExpiresAt == nil || !row.PasswordResetExpiresAt.After(now) {
		return false, nil
	}
	row.SenhaHash = newSenhaHash
	row.PasswordResetTokenHash = nil
	row.PasswordResetExpiresAt = nil
	return true, nil
}

// ===== PROPOSALS =====

type fakeProposalRepo struct {
	mu   sync.Mutex
	rows map[string]*models.Proposal
}

func (f *fakeProposalRepo) Create(ctx context.Context, proposal *models.Proposal) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *proposal
	cp.CreatedAt = time.Now()
	cp.UpdatedAt = cp.CreatedAt
	f.rows[proposal.ID] = &cp
	return nil
}

func (f *fakeProposalRepo) GetByID(ctx context.Context, id string) (*models.Proposal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	row, ok := f.rows[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *row
	return &cp, nil
}

func (f *fakeProposalRepo) Update(ctx context.Context, proposal *models.Proposal) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.rows[proposal.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	cp := *proposal
	cp.UpdatedAt = time.Now()
	f.rows[proposal.ID] = &cp
	return nil
}

func (f *fakeProposalRepo) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.rows[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(f.rows, id)
	return nil
}

func (f *fakeProposalRepo) List(ctx context.Context, scope repositories.ProposalScope, filters repositories.ProposalFilters) ([]*models.Proposal, int64, error) {
	visible, err := f.ListAll(ctx, scope, filters)
	if err != nil {
		return nil, 0, err
	}
	total := int64(len(visible))
	if filters.Limit > 0 {
		visible = paginate(visible, filters.Offset, filters.Limit)
	}
	return visible, total, nil
}

func (f *fakeProposalRepo) ListAll(ctx context.Context, scope repositories.ProposalScope, filters repositories.ProposalFilters) ([]*models.Proposal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.Proposal
	for _, row := range f.rows {
		if !scope.Admin {
			switch scope.Kind {
			case models.KindDocente:
				if row.OrientadorID != scope.SubjectID && !row.HasCoorientador(scope.SubjectID) {
					continue
				}
			case models.KindAluno:
				if !row.HasAluno(scope.SubjectID) {
					continue
				}
			}
		}
		if filters.Titulo != "" && !strings.Contains(strings.ToLower(row.Titulo), strings.ToLower(filters.Titulo)) {
			continue
		}
		cp := *row
		out = append(out, &cp)
	}
	return out, nil
}

func paginate[T any](in []T, offset, limit int) []T {
	if offset >= len(in) {
		return nil
	}
	end := offset + limit
	if end > len(in) {
		end = len(in)
	}
	return in[offset:end]
}

// ===== MAIL CAPTURE =====

type captureSender struct {
	mu   sync.Mutex
	sent []mailer.Message
}

func (c *captureSender) Send(ctx context.Context, msg mailer.Message) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sent = append(c.sent, msg)
	return nil
}

func (c *captureSender) messages() []mailer.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]mailer.Message, len(c.sent))
	copy(out, c.sent)
	return out
}
