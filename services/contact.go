package services

import (
	"context"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/rpupo63/portfolio-backend/database"
	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rpupo63/portfolio-backend/models"
)

const notifyTimeout = 10 * time.Second

var validate = errs.NewValidator()

// Notification is a message for the site owner in both rich and plain form.
type Notification struct {
	Subject string
	HTML    string
	Text    string
	ReplyTo string
}

// Notifier tells the site owner about something. Delivery is best-effort.
type Notifier interface {
	Name() string
	Notify(ctx context.Context, msg Notification) error
}

type ContactInput struct {
	Name    string `json:"name" validate:"required,min=2,max=100"`
	Email   string `json:"email" validate:"required,email,max=254"`
	Message string `json:"message" validate:"required,min=10,max=5000"`
}

type ContactService struct {
	store     database.ContactStore
	notifiers []Notifier
	now       func() time.Time
	logger    zerolog.Logger
}

func NewContactService(store database.ContactStore, notifiers ...Notifier) *ContactService {
	return &ContactService{
		store:     store,
		notifiers: notifiers,
		now:       time.Now,
		logger:    log.With().Str("component", "contactService").Logger(),
	}
}

// Submit stores the message, then notifies the owner. Notification failures are logged
// and never fail the submission.
func (s *ContactService) Submit(ctx context.Context, in ContactInput) (*models.ContactMessage, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	in.Message = strings.TrimSpace(in.Message)
	if err := errs.FromValidator(validate.Struct(&in)); err != nil {
		return nil, err
	}

	msg := &models.ContactMessage{
		Name:        in.Name,
		Email:       in.Email,
		Message:     in.Message,
		SubmittedAt: s.now().UTC(),
	}
	if err := s.store.Insert(ctx, msg); err != nil {
		return nil, err
	}
	s.logger.Info().Str("messageId", msg.ID).Msg("contact message stored")

	s.notify(ctx, msg)
	return msg, nil
}

func (s *ContactService) notify(ctx context.Context, msg *models.ContactMessage) {
	if len(s.notifiers) == 0 {
		return
	}

	n := contactNotification(msg)
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), notifyTimeout)
	defer cancel()

	var g errgroup.Group
	for _, notifier := range s.notifiers {
		g.Go(func() error {
			if err := notifier.Notify(ctx, n); err != nil {
				s.logger.Warn().Err(err).Str("notifier", notifier.Name()).Str("messageId", msg.ID).Msg("contact notification failed")
			}
			return nil
		})
	}
	_ = g.Wait()
}

func contactNotification(msg *models.ContactMessage) Notification {
	subject := fmt.Sprintf("New contact message from %s", msg.Name)
	body := fmt.Sprintf(
		"<p><strong>%s</strong> &lt;%s&gt; wrote:</p><p>%s</p>",
		html.EscapeString(msg.Name),
		html.EscapeString(msg.Email),
		strings.ReplaceAll(html.EscapeString(msg.Message), "\n", "<br>"),
	)
	text := fmt.Sprintf("Portfolio contact from %s (%s): %s", msg.Name, msg.Email, msg.Message)
	return Notification{Subject: subject, HTML: body, Text: text, ReplyTo: msg.Email}
}

// List returns stored messages, newest first.
func (s *ContactService) List(ctx context.Context, limit int) ([]*models.ContactMessage, error) {
	return s.store.List(ctx, limit)
}
