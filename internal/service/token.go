package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rozabot/skladstat/internal/domain"
	"go.uber.org/zap"
)

// SourceFactory создает источник данных МойСклад для заданного токена
type SourceFactory func(token string) domain.DataSource

// минимальная длина токена МойСклад после очистки
const minTokenLength = 50

// символы, которые пользователи копируют вместе с токеном
const tokenJunk = "[](){}<>\"'`"

// TokenService управляет привязкой токенов МойСклад к пользователям чата
type TokenService struct {
	store       domain.TokenRepository
	sources     SourceFactory
	globalToken string
	logger      *zap.Logger
}

// NewTokenService создает новый TokenService.
// globalToken используется как запасной для пользователей без своего токена,
// пустая строка отключает запасной вариант.
func NewTokenService(store domain.TokenRepository, sources SourceFactory, globalToken string, logger *zap.Logger) *TokenService {
	return &TokenService{
		store:       store,
		sources:     sources,
		globalToken: globalToken,
		logger:      logger,
	}
}

// CleanToken убирает мусор вокруг скопированного токена и проверяет форму.
// Пробелы и переводы строк внутри токена (перенос при вставке) тоже
// удаляются. Живая проверка токена остается за Link.
func CleanToken(raw string) (string, error) {
	token := strings.Join(strings.Fields(raw), "")
	token = strings.Trim(token, tokenJunk)

	if len(token) < minTokenLength {
		return "", domain.ErrTokenTooShort
	}

	segments := strings.Split(token, ".")
	if len(segments) != 3 {
		return "", domain.ErrTokenMalformed
	}
	for _, seg := range segments {
		if seg == "" {
			return "", domain.ErrTokenMalformed
		}
	}
	return token, nil
}

// Link проверяет токен живым запросом к МойСклад и сохраняет его вместе
// с данными организации. Форма токена проверяется до любого сетевого вызова.
func (s *TokenService) Link(ctx context.Context, userID int64, raw string) (*domain.Organization, error) {
	token, err := CleanToken(raw)
	if err != nil {
		return nil, err
	}

	org, err := s.sources(token).OrganizationInfo(ctx)
	if err != nil {
		return nil, fmt.Errorf("service: token verification failed: %w", err)
	}

	rec, err := s.store.Get(ctx, userID)
	if err != nil {
		if !errors.Is(err, domain.ErrUserNotFound) {
			return nil, fmt.Errorf("service: failed to load user %d: %w", userID, err)
		}
		rec = &domain.UserRecord{}
	}
	rec.Token = token
	rec.OrgName = org.Name
	rec.OrgINN = org.INN
	rec.OrgEmail = org.Email

	if err := s.store.Set(ctx, userID, rec); err != nil {
		return nil, fmt.Errorf("service: failed to save token for user %d: %w", userID, err)
	}

	s.logger.Info("token linked",
		zap.Int64("user_id", userID),
		zap.String("organization", org.Name),
	)
	return org, nil
}

// Unlink удаляет токен пользователя, профиль остается
func (s *TokenService) Unlink(ctx context.Context, userID int64) error {
	if err := s.store.Delete(ctx, userID); err != nil {
		return fmt.Errorf("service: failed to unlink user %d: %w", userID, err)
	}
	s.logger.Info("token unlinked", zap.Int64("user_id", userID))
	return nil
}

// Profile возвращает сохраненную запись пользователя
func (s *TokenService) Profile(ctx context.Context, userID int64) (*domain.UserRecord, error) {
	return s.store.Get(ctx, userID)
}

// Touch обновляет профиль и время последней активности пользователя
func (s *TokenService) Touch(ctx context.Context, userID int64, username, firstName, lastName string) error {
	return s.store.Touch(ctx, userID, username, firstName, lastName)
}

// ListLinked возвращает пользователей с привязанным токеном
func (s *TokenService) ListLinked(ctx context.Context) ([]domain.LinkedUser, error) {
	return s.store.ListLinked(ctx)
}

// Resolve возвращает источник данных для пользователя: его собственный
// токен, иначе общий токен, иначе domain.ErrNoToken.
func (s *TokenService) Resolve(ctx context.Context, userID int64) (domain.DataSource, error) {
	rec, err := s.store.Get(ctx, userID)
	if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
		return nil, fmt.Errorf("service: failed to load user %d: %w", userID, err)
	}
	if rec != nil && rec.Token != "" {
		return s.sources(rec.Token), nil
	}
	if s.globalToken != "" {
		return s.sources(s.globalToken), nil
	}
	return nil, domain.ErrNoToken
}
