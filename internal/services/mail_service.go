// services/mail_service.go
package services

import (
	"bytes"
	"context"
	"strings"
	"text/template"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"cozyminds/internal/metrics"
	"cozyminds/internal/models/db_models"
	"cozyminds/internal/models/request_models"
	"cozyminds/internal/models/response_models"
	"cozyminds/internal/repositories"
	"cozyminds/pkg/utils"
)

const (
	MailKindWelcome   = "welcome"
	MailKindBroadcast = "broadcast"
)

type IMailService interface {
	SendWelcomeMail(ctx context.Context, account *db_models.Account) error
	Broadcast(ctx context.Context, request request_models.BroadcastMailRequest) (*response_models.BroadcastResponse, error)
	ListMail(ctx context.Context, accountID string) ([]response_models.MailResponse, error)
	MarkRead(ctx context.Context, mailID, accountID string) error
	DeleteForRecipient(ctx context.Context, mailID, accountID string) error
}

// MailConfig holds branding for generated mail.
type MailConfig struct {
	AppName    string
	SenderName string
}

func DefaultMailConfig() MailConfig {
	return MailConfig{AppName: "Cozy Minds", SenderName: db_models.DefaultMailSender}
}

type inAppMailService struct {
	cfg        MailConfig
	mailRepo   repositories.MailRepository
	calendar   Calendar
	metrics    *metrics.Metrics
	logger     *zap.Logger
	titleTpl   *template.Template
	welcomeTpl *template.Template
}

func NewMailService(
	cfg MailConfig,
	mailRepo repositories.MailRepository,
	calendar Calendar,
	m *metrics.Metrics,
	logger *zap.Logger,
) IMailService {
	return &inAppMailService{
		cfg:        cfg,
		mailRepo:   mailRepo,
		calendar:   calendar,
		metrics:    m,
		logger:     logger,
		titleTpl:   template.Must(template.New("welcomeTitle").Parse(welcomeTitleTemplate)),
		welcomeTpl: template.Must(template.New("welcome").Parse(welcomeTemplate)),
	}
}

// ------------------- Rendering -------------------

type WelcomeData struct {
	Nickname string
	AppName  string
	Year     int
}

const welcomeTitleTemplate = "Welcome to {{.AppName}}"

const welcomeTemplate = `Hi {{.Nickname}},

Welcome to {{.AppName}}! This is your quiet corner to write down how you feel, one day at a time.

A few things to get you started:
- Write a journal entry each day to build your streak.
- Visit every day to earn coins and move your story forward.
- Spend coins in the shop on themes, stickers and more.

Take it slow and be kind to yourself.

The {{.AppName}} Team, {{.Year}}`

func (s *inAppMailService) renderWelcome(account *db_models.Account) (string, string, error) {
	data := WelcomeData{
		Nickname: account.Nickname,
		AppName:  s.cfg.AppName,
		Year:     s.calendar.Now().In(s.calendar.Location).Year(),
	}

	var title, body bytes.Buffer
	if err := s.titleTpl.Execute(&title, data); err != nil {
		return "", "", err
	}
	if err := s.welcomeTpl.Execute(&body, data); err != nil {
		return "", "", err
	}
	return title.String(), body.String(), nil
}

// ------------------- Public API -------------------

func (s *inAppMailService) SendWelcomeMail(ctx context.Context, account *db_models.Account) error {
	title, body, err := s.renderWelcome(account)
	if err != nil {
		s.metrics.MailFailed(MailKindWelcome)
		return err
	}

	mail := &db_models.Mail{
		Sender:  s.cfg.SenderName,
		Title:   title,
		Content: body,
		Date:    s.calendar.Now(),
	}
	if err := s.mailRepo.CreateFor(ctx, mail, []uuid.UUID{account.ID}); err != nil {
		s.metrics.MailFailed(MailKindWelcome)
		return dbErr(err)
	}
	s.metrics.MailSent(MailKindWelcome)
	return nil
}

func (s *inAppMailService) Broadcast(ctx context.Context, request request_models.BroadcastMailRequest) (*response_models.BroadcastResponse, error) {
	title := strings.TrimSpace(request.Title)
	content := strings.TrimSpace(request.Content)
	if title == "" || content == "" {
		return nil, utils.ErrValidationFailed
	}
	sender := strings.TrimSpace(request.Sender)
	if sender == "" {
		sender = s.cfg.SenderName
	}

	mail := &db_models.Mail{
		Sender:  sender,
		Title:   title,
		Content: content,
		Date:    s.calendar.Now(),
	}
	delivered, err := s.mailRepo.Broadcast(ctx, mail)
	if err != nil {
		s.metrics.MailFailed(MailKindBroadcast)
		return nil, dbErr(err)
	}

	s.metrics.MailSent(MailKindBroadcast)
	s.logger.Info("broadcast mail sent", zap.String("mail_id", mail.ID.String()), zap.Int64("recipients", delivered))
	return &response_models.BroadcastResponse{MailID: mail.ID.String(), Recipients: delivered}, nil
}

func (s *inAppMailService) ListMail(ctx context.Context, accountID string) ([]response_models.MailResponse, error) {
	rows, err := s.mailRepo.ListForAccount(ctx, accountID)
	if err != nil {
		return nil, dbErr(err)
	}

	out := make([]response_models.MailResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, response_models.MailResponse{
			ID:      r.ID.String(),
			Sender:  r.Sender,
			Title:   r.Title,
			Content: r.Content,
			Date:    utils.FormatRFC3339(r.Date, s.calendar.Location),
			Read:    r.Read,
		})
	}
	return out, nil
}

// recipientError tells a missing mail apart from a mail addressed to somebody else.
func (s *inAppMailService) recipientError(ctx context.Context, mailID string) error {
	exists, err := s.mailRepo.Exists(ctx, mailID)
	if err != nil {
		return dbErr(err)
	}
	if !exists {
		return utils.ErrMailNotFound
	}
	return utils.ErrNotRecipient
}

func (s *inAppMailService) MarkRead(ctx context.Context, mailID, accountID string) error {
	if _, err := uuid.Parse(mailID); err != nil {
		return utils.ErrMailNotFound
	}
	ok, err := s.mailRepo.MarkRead(ctx, mailID, accountID, s.calendar.Now())
	if err != nil {
		return dbErr(err)
	}
	if !ok {
		return s.recipientError(ctx, mailID)
	}
	return nil
}

func (s *inAppMailService) DeleteForRecipient(ctx context.Context, mailID, accountID string) error {
	if _, err := uuid.Parse(mailID); err != nil {
		return utils.ErrMailNotFound
	}
	removed, collapsed, err := s.mailRepo.DeleteForRecipient(ctx, mailID, accountID)
	if err != nil {
		return dbErr(err)
	}
	if !removed {
		return s.recipientError(ctx, mailID)
	}
	if collapsed {
		s.logger.Debug("mail removed after last recipient deleted it", zap.String("mail_id", mailID))
	}
	return nil
}
