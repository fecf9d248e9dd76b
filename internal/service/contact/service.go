package contact

import (
	"context"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"

	"petrugs-storefront/internal/catalog"
	"petrugs-storefront/internal/domain"
	"petrugs-storefront/internal/logging"
)

type Store interface {
	Create(ctx context.Context, m domain.ContactMessage) (*domain.ContactMessage, error)
	ListRecent(ctx context.Context, limit int) ([]domain.ContactMessage, error)
}

// RecentLimit is the default and maximum number of messages Recent returns.
const RecentLimit = 50

// Notifier is told about every stored message. Delivery is best effort.
type Notifier interface {
	ContactCreated(ctx context.Context, m domain.ContactMessage, traceID string) error
}

type Service struct {
	store    Store
	notifier Notifier
	logger   *slog.Logger
}

// New accepts a nil notifier when notifications are disabled.
func New(store Store, notifier Notifier, logger *slog.Logger) *Service {
	return &Service{
		store:    store,
		notifier: notifier,
		logger:   logging.OrDiscard(logger).With("component", "contact_service"),
	}
}

type Input struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"required,email"`
	Subject string `json:"subject"`
	Message string `json:"message" binding:"required"`
}

func (in Input) normalize() (domain.ContactMessage, error) {
	m := domain.ContactMessage{
		Name:    strings.TrimSpace(in.Name),
		Email:   strings.TrimSpace(in.Email),
		Subject: strings.TrimSpace(in.Subject),
		Message: strings.TrimSpace(in.Message),
	}
	switch {
	case m.Name == "":
		return m, fmt.Errorf("%w: name required", domain.ErrInvalidInput)
	case m.Email == "":
		return m, fmt.Errorf("%w: email required", domain.ErrInvalidInput)
	case m.Message == "":
		return m, fmt.Errorf("%w: message required", domain.ErrInvalidInput)
	}
	if _, err := mail.ParseAddress(m.Email); err != nil {
		return m, fmt.Errorf("%w: invalid email", domain.ErrInvalidInput)
	}
	return m, nil
}

// Submit stores the message and then notifies. Store failures are returned
// wrapped in catalog.ErrDataServiceUnavailable; notify failures are only logged.
func (s *Service) Submit(ctx context.Context, in Input) (*domain.ContactMessage, error) {
	m, err := in.normalize()
	if err != nil {
		return nil, err
	}
	saved, err := s.store.Create(ctx, m)
	if err != nil {
		s.logger.Error("store contact message", "error", err)
		return nil, fmt.Errorf("%w: %w", catalog.ErrDataServiceUnavailable, err)
	}
	if s.notifier != nil {
		if err := s.notifier.ContactCreated(ctx, *saved, logging.TraceID(ctx)); err != nil {
			s.logger.Warn("notify contact message", "id", saved.ID, "error", err)
		}
	}
	return saved, nil
}

// Recent returns the newest messages first. limit is clamped to (0, RecentLimit].
func (s *Service) Recent(ctx context.Context, limit int) ([]domain.ContactMessage, error) {
	if limit <= 0 || limit > RecentLimit {
		limit = RecentLimit
	}
	messages, err := s.store.ListRecent(ctx, limit)
	if err != nil {
		s.logger.Error("list contact messages", "error", err)
		return nil, fmt.Errorf("%w: %w", catalog.ErrDataServiceUnavailable, err)
	}
	return messages, nil
}
