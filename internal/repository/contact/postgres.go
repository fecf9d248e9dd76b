package contact

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"petrugs-storefront/internal/domain"
	"petrugs-storefront/internal/logging"
)

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

func NewPostgres(pool *pgxpool.Pool, logger *slog.Logger) Repository {
	return &postgresRepo{pool: pool, logger: logging.OrDiscard(logger).With("component", "contact_repo")}
}

func (r *postgresRepo) Create(ctx context.Context, m domain.ContactMessage) (*domain.ContactMessage, error) {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	row := r.pool.QueryRow(ctx, `
INSERT INTO contact_messages (id, name, email, subject, message)
VALUES ($1, $2, $3, NULLIF($4, ''), $5)
RETURNING id::text, name, email, COALESCE(subject, ''), message, created_at`,
		m.ID, m.Name, m.Email, m.Subject, m.Message)

	var out domain.ContactMessage
	if err := row.Scan(&out.ID, &out.Name, &out.Email, &out.Subject, &out.Message, &out.CreatedAt); err != nil {
		r.logger.Error("insert contact message", "email", m.Email, "error", err)
		return nil, fmt.Errorf("insert contact message: %w", err)
	}
	r.logger.Info("stored contact message", "id", out.ID)
	return &out, nil
}

func (r *postgresRepo) ListRecent(ctx context.Context, limit int) ([]domain.ContactMessage, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.pool.Query(ctx, `
SELECT id::text, name, email, COALESCE(subject, ''), message, created_at
FROM contact_messages
ORDER BY created_at DESC, id ASC
LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("list contact messages: %w", err)
	}
	defer rows.Close()

	out := []domain.ContactMessage{}
	for rows.Next() {
		var m domain.ContactMessage
		if err := rows.Scan(&m.ID, &m.Name, &m.Email, &m.Subject, &m.Message, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan contact message: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
