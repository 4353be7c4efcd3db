package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/TMS-2025/proposal-service/internal/auth"
	"github.com/TMS-2025/proposal-service/internal/events"
	"github.com/TMS-2025/proposal-service/internal/models"
	"github.com/TMS-2025/proposal-service/internal/validator"
	"github.com/google/uuid"
)

func newPasswordService(t *testing.T) (PasswordService, *fakeRepository, *captureSender, *events.MockEventPublisher) {
	t.Helper()
	repo := newFakeRepository()
	sender := &captureSender{}
	publisher := events.NewMockEventPublisher(nil)
	svc := NewPasswordService(repo, testLogger(), validator.New(), sender, publisher, "http://localhost:9000")
	return svc, repo, sender, publisher
}

func seedDocente(t *testing.T, repo *fakeRepository, email, senha string) *models.Lecturer {
	t.Helper()
	hash, err := auth.HashPassword(senha)
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}
	docente := &models.Lecturer{
		ID:        uuid.New().String(),
		Nome:      "Maria Silva",
		Email:     models.NormalizeEmail(email),
		SenhaHash: hash,
		Roles:     models.EncodeList([]string{"docente"}),
	}
	if err := repo.lecturers.Create(context.Background(), docente); err != nil {
		t.Fatalf("seed failed: %v", err)
	}
	return docente
}

// extractResetToken pulls the token out of the emailed recovery link.
func extractResetToken(t *testing.T, body string) string {
	t.Helper()
	idx := strings.Index(body, "token=")
	if idx < 0 {
		t.Fatalf("no token in mail body: %q", body)
	}
	rest := body[idx+len("token="):]
	if amp := strings.IndexAny(rest, "&\n"); amp >= 0 {
		rest = rest[:amp]
	}
	return rest
}

func TestForgotUnknownEmailSendsNothing(t *testing.T) {
	svc, _, sender, _ := newPasswordService(t)

	if err := svc.Forgot(context.Background(), &ForgotPasswordRequest{Email: "ghost@uni.pt"}); err != nil {
		t.Fatalf("expected nil for unknown email, got %v", err)
	}
	if got := len(sender.messages()); got != 0 {
		t.Errorf("expected no mail, got %d", got)
	}
}

func TestForgotThenResetFlow(t *testing.T) {
	svc, repo, sender, publisher := newPasswordService(t)
	ctx := context.Background()

	docente := seedDocente(t, repo, "maria@uni.pt", "senhaantiga1")

	if err := svc.Forgot(ctx, &ForgotPasswordRequest{Email: "maria@uni.pt", Tipo: "docente"}); err != nil {
		t.Fatalf("forgot failed: %v", err)
	}

	msgs := sender.messages()
	if len(msgs) != 1 {
		t.Fatalf("expected 1 mail, got %d", len(msgs))
	}
	if msgs[0].ToEmail != "maria@uni.pt" {
		t.Errorf("mail went to %q", msgs[0].ToEmail)
	}
	token := extractResetToken(t, msgs[0].Text)
	if len(token) != 64 {
		t.Fatalf("expected 64-char token in link, got %d chars", len(token))
	}

	err := svc.Reset(ctx, &ResetPasswordRequest{
		Email:       "maria@uni.pt",
		Token:       token,
		Tipo:        "docente",
		NewPassword: "senhanova123",
	})
	if err != nil {
		t.Fatalf("reset failed: %v", err)
	}

	// New password is installed, old one no longer verifies.
	stored, err := repo.lecturers.GetByID(ctx, docente.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if !auth.CheckPassword(stored.SenhaHash, "senhanova123") {
		t.Error("new password does not verify")
	}
	if auth.CheckPassword(stored.SenhaHash, "senhaantiga1") {
		t.Error("old password still verifies")
	}

	evts := publisher.GetPublishedEvents()
	if len(evts) != 1 || evts[0].Type != events.TypePasswordReset {
		t.Errorf("expected one password reset event, got %v", evts)
	}
}

func TestResetTokenIsSingleUse(t *testing.T) {
	svc, repo, sender, _ := newPasswordService(t)
	ctx := context.Background()

	seedDocente(t, repo, "maria@uni.pt", "senhaantiga1")
	if err := svc.Forgot(ctx, &ForgotPasswordRequest{Email: "maria@uni.pt", Tipo: "docente"}); err != nil {
		t.Fatalf("forgot failed: %v", err)
	}
	token := extractResetToken(t, sender.messages()[0].Text)

	req := &ResetPasswordRequest{Email: "maria@uni.pt", Token: token, Tipo: "docente", NewPassword: "senhanova123"}
	if err := svc.Reset(ctx, req); err != nil {
		t.Fatalf("first reset failed: %v", err)
	}

	req.NewPassword = "outranova123"
	if err := svc.Reset(ctx, req); !errors.Is(err, ErrResetTokenInvalid) {
		t.Errorf("expected ErrResetTokenInvalid on replay, got %v", err)
	}
}

func TestResetFailuresAreUniform(t *testing.T) {
	svc, repo, sender, _ := newPasswordService(t)
	ctx := context.Background()

	docente := seedDocente(t, repo, "maria@uni.pt", "senhaantiga1")
	if err := svc.Forgot(ctx, &ForgotPasswordRequest{Email: "maria@uni.pt", Tipo: "docente"}); err != nil {
		t.Fatalf("forgot failed: %v", err)
	}
	token := extractResetToken(t, sender.messages()[0].Text)

	cases := []struct {
		name string
		req  ResetPasswordRequest
	}{
		{"unknown account", ResetPasswordRequest{Email: "ghost@uni.pt", Token: token, Tipo: "docente", NewPassword: "senhanova123"}},
		{"wrong token", ResetPasswordRequest{Email: "maria@uni.pt", Token: strings.Repeat("0", 64), Tipo: "docente", NewPassword: "senhanova123"}},
		{"wrong tipo", ResetPasswordRequest{Email: "maria@uni.pt", Token: token, Tipo: "aluno", NewPassword: "senhanova123"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := svc.Reset(ctx, &tc.req); !errors.Is(err, ErrResetTokenInvalid) {
				t.Errorf("expected ErrResetTokenInvalid, got %v", err)
			}
		})
	}

	// Expired token collapses to the same error.
	t.Run("expired token", func(t *testing.T) {
		hash := auth.HashResetToken(token)
		past := time.Now().Add(-time.Minute)
		if err := repo.lecturers.SetResetToken(ctx, docente.ID, hash, past); err != nil {
			t.Fatalf("seed expiry failed: %v", err)
		}
		err := svc.Reset(ctx, &ResetPasswordRequest{Email: "maria@uni.pt", Token: token, Tipo: "docente", NewPassword: "senhanova123"})
		if !errors.Is(err, ErrResetTokenInvalid) {
			t.Errorf("expected ErrResetTokenInvalid, got %v", err)
		}
	})
}

func TestForgotWithoutTipoProbesBothKinds(t *testing.T) {
	svc, repo, sender, _ := newPasswordService(t)
	ctx := context.Background()

	hash, _ := auth.HashPassword("supersecreta1")
	aluno := &models.Student{
		ID:              uuid.New().String(),
		Nome:            "Joao",
		Email:           "joao@uni.pt",
		NumeroEstudante: "a12345",
		SenhaHash:       hash,
	}
	if err := repo.students.Create(ctx, aluno); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	if err := svc.Forgot(ctx, &ForgotPasswordRequest{Email: "joao@uni.pt"}); err != nil {
		t.Fatalf("forgot failed: %v", err)
	}

	msgs := sender.messages()
	if len(msgs) != 1 {
		t.Fatalf("expected 1 mail, got %d", len(msgs))
	}
	if !strings.Contains(msgs[0].Text, "tipo=aluno") {
		t.Errorf("expected aluno recovery link, got %q", msgs[0].Text)
	}
}
