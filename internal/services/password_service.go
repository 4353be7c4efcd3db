package services

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/TMS-2025/proposal-service/internal/auth"
	"github.com/TMS-2025/proposal-service/internal/events"
	"github.com/TMS-2025/proposal-service/internal/mailer"
	"github.com/TMS-2025/proposal-service/internal/models"
	"github.com/TMS-2025/proposal-service/internal/repositories"
	"github.com/TMS-2025/proposal-service/internal/validator"
)

// resetAccount is the slice of a docente or aluno row the recovery flow
// needs; both kinds are handled through it.
type resetAccount struct {
	ID    string
	Nome  string
	Email string
	Kind  models.PrincipalKind
}

type passwordService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
	sender    mailer.Sender
	publisher events.EventPublisher
	appURL    string
}

func NewPasswordService(repo repositories.Repository, logger *slog.Logger, validator *validator.Validator, sender mailer.Sender, publisher events.EventPublisher, appURL string) PasswordService {
	return &passwordService{
		repo:      repo,
		logger:    logger,
		validator: validator,
		sender:    sender,
		publisher: publisher,
		appURL:    appURL,
	}
}

func (s *passwordService) Forgot(ctx context.Context, req *ForgotPasswordRequest) error {
	if errs := s.validator.Validate(req); len(errs) > 0 {
		return errs
	}

	email := models.NormalizeEmail(req.Email)

	account, err := s.findAccount(ctx, email, req.Tipo)
	if err != nil {
		s.logger.Error("Failed to look up recovery account", "error", err)
		return nil
	}
	if account == nil {
		// Unknown address gets the same outward behavior as a known one.
		return nil
	}

	token, err := auth.NewResetToken()
	if err != nil {
		s.logger.Error("Failed to generate reset token", "error", err)
		return nil
	}

	tokenHash := auth.HashResetToken(token)
	expiresAt := auth.ResetExpiry(time.Now())

	if err := s.storeResetToken(ctx, account, tokenHash, expiresAt); err != nil {
		s.logger.Error("Failed to store reset token", "error", err)
		return nil
	}

	resetLink := fmt.Sprintf("%s/reset-password?token=%s&email=%s&tipo=%s",
		s.appURL, token, url.QueryEscape(account.Email), account.Kind)

	msg := mailer.Message{
		ToEmail: account.Email,
		ToName:  account.Nome,
		Subject: "Recuperação de palavra-passe",
		Text: fmt.Sprintf("Olá %s,\n\nPara redefinir a palavra-passe, abre este link (válido por 30 minutos):\n%s\n\nSe não foste tu, ignora este email.",
			account.Nome, resetLink),
		HTML: fmt.Sprintf("<p>Olá %s,</p><p>Para redefinir a palavra-passe, clica no link (válido por <b>30 minutos</b>):</p><p><a href=%q>%s</a></p><p>Se não foste tu, ignora este email.</p>",
			account.Nome, resetLink, resetLink),
	}

	if err := s.sender.Send(ctx, msg); err != nil {
		s.logger.Error("Failed to send recovery email", "error", err)
	}

	return nil
}

func (s *passwordService) Reset(ctx context.Context, req *ResetPasswordRequest) error {
	if errs := s.validator.Validate(req); len(errs) > 0 {
		return errs
	}

	email := models.NormalizeEmail(req.Email)

	account, err := s.findAccount(ctx, email, req.Tipo)
	if err != nil {
		return fmt.Errorf("failed to look up account: %w", err)
	}
	if account == nil {
		return ErrResetTokenInvalid
	}

	newHash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	tokenHash := auth.HashResetToken(req.Token)

	ok, err := s.consumeResetToken(ctx, account, tokenHash, newHash)
	if err != nil {
		return fmt.Errorf("failed to consume reset token: %w", err)
	}
	if !ok {
		return ErrResetTokenInvalid
	}

	s.logger.Info("Password reset completed", "kind", account.Kind, "subject_id", account.ID)

	if err := s.publisher.Publish(ctx, events.NewEvent(events.TypePasswordReset, map[string]string{
		"subject_id": account.ID,
		"tipo":       string(account.Kind),
	})); err != nil {
		s.logger.Error("Failed to publish password reset event", "error", err)
	}

	return nil
}

// findAccount resolves an address to an account. Without a tipo hint,
// docentes are probed before alunos, matching the recovery link format.
func (s *passwordService) findAccount(ctx context.Context, email, tipo string) (*resetAccount, error) {
	if tipo == "" || tipo == string(models.KindDocente) {
		docente, err := s.repo.Lecturer().GetByEmail(ctx, email)
		if err == nil {
			return &resetAccount{ID: docente.ID, Nome: docente.Nome, Email: docente.Email, Kind: models.KindDocente}, nil
		}
		if !repositories.IsNotFoundError(err) {
			return nil, err
		}
		if tipo == string(models.KindDocente) {
			return nil, nil
		}
	}

	if tipo == "" || tipo == string(models.KindAluno) {
		aluno, err := s.repo.Student().GetByEmail(ctx, email)
		if err == nil {
			return &resetAccount{ID: aluno.ID, Nome: aluno.Nome, Email: aluno.Email, Kind: models.KindAluno}, nil
		}
		if !repositories.IsNotFoundError(err) {
			return nil, err
		}
	}

	return nil, nil
}

func (s *passwordService) storeResetToken(ctx context.Context, account *resetAccount, tokenHash string, expiresAt time.Time) error {
	if account.Kind == models.KindDocente {
		return s.repo.Lecturer().SetResetToken(ctx, account.ID, tokenHash, expiresAt)
	}
	return s.repo.Student().SetResetToken(ctx, account.ID, tokenHash, expiresAt)
}

func (s *passwordService) consumeResetToken(ctx context.Context, account *resetAccount, tokenHash, newHash string) (bool, error) {
	now := time.Now()
	if account.Kind == models.KindDocente {
		return s.repo.Lecturer().ConsumeResetToken(ctx, account.ID, tokenHash, newHash, now)
	}
	return s.repo.Student().ConsumeResetToken(ctx, account.ID, tokenHash, newHash, now)
}
