// Package postgres реализует хранилище токенов в PostgreSQL.
// Используется вместо файлового хранилища, когда задан DATABASE_URI.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rozabot/skladstat/internal/domain"
)

// TokenRepository реализует domain.TokenRepository поверх таблицы user_tokens.
type TokenRepository struct {
	db DBTX
}

// NewTokenRepository создает новый TokenRepository
func NewTokenRepository(db DBTX) *TokenRepository {
	return &TokenRepository{db: db}
}

// Get возвращает запись пользователя
func (r *TokenRepository) Get(ctx context.Context, userID int64) (*domain.UserRecord, error) {
	rec := &domain.UserRecord{}
	var lastActivity, updatedAt *time.Time

	err := r.db.QueryRow(ctx,
		`SELECT moysklad_token, username, first_name, last_name,
		        organization_name, organization_inn, organization_email,
		        last_activity, updated_at
		 FROM user_tokens
		 WHERE user_id = $1`,
		userID,
	).Scan(&rec.Token, &rec.Username, &rec.FirstName, &rec.LastName,
		&rec.OrgName, &rec.OrgINN, &rec.OrgEmail,
		&lastActivity, &updatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("repository: failed to get user %d: %w", userID, err)
	}

	if lastActivity != nil {
		rec.LastActivity = *lastActivity
	}
	if updatedAt != nil {
		rec.UpdatedAt = *updatedAt
	}
	return rec, nil
}

// Set сохраняет запись пользователя целиком
func (r *TokenRepository) Set(ctx context.Context, userID int64, rec *domain.UserRecord) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO user_tokens (user_id, moysklad_token, username, first_name, last_name,
		                          organization_name, organization_inn, organization_email,
		                          last_activity, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, now())
		 ON CONFLICT (user_id) DO UPDATE SET
		     moysklad_token = EXCLUDED.moysklad_token,
		     username = EXCLUDED.username,
		     first_name = EXCLUDED.first_name,
		     last_name = EXCLUDED.last_name,
		     organization_name = EXCLUDED.organization_name,
		     organization_inn = EXCLUDED.organization_inn,
		     organization_email = EXCLUDED.organization_email,
		     last_activity = EXCLUDED.last_activity,
		     updated_at = now()`,
		userID, rec.Token, rec.Username, rec.FirstName, rec.LastName,
		rec.OrgName, rec.OrgINN, rec.OrgEmail, nullableTime(rec.LastActivity),
	)
	if err != nil {
		return fmt.Errorf("repository: failed to save user %d: %w", userID, err)
	}
	return nil
}

// Delete удаляет токен и поля организации, профиль пользователя остается
func (r *TokenRepository) Delete(ctx context.Context, userID int64) error {
	_, err := r.db.Exec(ctx,
		`UPDATE user_tokens
		 SET moysklad_token = '',
		     organization_name = '',
		     organization_inn = '',
		     organization_email = '',
		     updated_at = now()
		 WHERE user_id = $1`,
		userID,
	)
	if err != nil {
		return fmt.Errorf("repository: failed to unlink user %d: %w", userID, err)
	}
	return nil
}

// Touch обновляет профиль и время последней активности.
// Пустые значения не затирают сохраненные.
func (r *TokenRepository) Touch(ctx context.Context, userID int64, username, firstName, lastName string) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO user_tokens (user_id, username, first_name, last_name, last_activity)
		 VALUES ($1, $2, $3, $4, now())
		 ON CONFLICT (user_id) DO UPDATE SET
		     username = COALESCE(NULLIF(EXCLUDED.username, ''), user_tokens.username),
		     first_name = COALESCE(NULLIF(EXCLUDED.first_name, ''), user_tokens.first_name),
		     last_name = COALESCE(NULLIF(EXCLUDED.last_name, ''), user_tokens.last_name),
		     last_activity = now()`,
		userID, username, firstName, lastName,
	)
	if err != nil {
		return fmt.Errorf("repository: failed to touch user %d: %w", userID, err)
	}
	return nil
}

// ListLinked возвращает всех пользователей с привязанным токеном
func (r *TokenRepository) ListLinked(ctx context.Context) ([]domain.LinkedUser, error) {
	rows, err := r.db.Query(ctx,
		`SELECT user_id, username, first_name, last_name, organization_name, last_activity
		 FROM user_tokens
		 WHERE moysklad_token <> ''
		 ORDER BY user_id`,
	)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to list linked users: %w", err)
	}
	defer rows.Close()

	var linked []domain.LinkedUser
	for rows.Next() {
		var u domain.LinkedUser
		var lastActivity *time.Time
		if err := rows.Scan(&u.UserID, &u.Username, &u.FirstName, &u.LastName, &u.OrgName, &lastActivity); err != nil {
			return nil, fmt.Errorf("repository: failed to scan linked user: %w", err)
		}
		if lastActivity != nil {
			u.LastActivity = *lastActivity
		}
		linked = append(linked, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: failed to iterate linked users: %w", err)
	}
	return linked, nil
}

func nullableTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
