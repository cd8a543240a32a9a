// Package tokenfile реализует файловое хранилище токенов: один JSON-объект,
// ключ — идентификатор пользователя чата, файл переписывается целиком при
// каждом изменении. Единственный писатель обеспечивается мьютексом процесса.
package tokenfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/rozabot/skladstat/internal/domain"
	"go.uber.org/zap"
)

// Store реализует domain.TokenRepository поверх плоского JSON-файла
type Store struct {
	path   string
	mu     sync.Mutex
	logger *zap.Logger
}

// NewStore создает хранилище по указанному пути.
// Файл создается при первой записи.
func NewStore(path string, logger *zap.Logger) *Store {
	return &Store{path: path, logger: logger}
}

// Get возвращает запись пользователя
func (s *Store) Get(_ context.Context, userID int64) (*domain.UserRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load()
	if err != nil {
		return nil, err
	}
	rec, ok := records[key(userID)]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return rec, nil
}

// Set сохраняет запись пользователя целиком
func (s *Store) Set(_ context.Context, userID int64, rec *domain.UserRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load()
	if err != nil {
		return err
	}
	updated := *rec
	updated.UpdatedAt = time.Now()
	records[key(userID)] = &updated

	return s.save(records)
}

// Delete удаляет токен и поля организации, профиль пользователя остается
func (s *Store) Delete(_ context.Context, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load()
	if err != nil {
		return err
	}
	rec, ok := records[key(userID)]
	if !ok {
		return nil
	}
	rec.Token = ""
	rec.OrgName = ""
	rec.OrgINN = ""
	rec.OrgEmail = ""
	rec.UpdatedAt = time.Now()

	return s.save(records)
}

// Touch обновляет профиль и время последней активности
func (s *Store) Touch(_ context.Context, userID int64, username, firstName, lastName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load()
	if err != nil {
		return err
	}
	rec, ok := records[key(userID)]
	if !ok {
		rec = &domain.UserRecord{}
		records[key(userID)] = rec
	}
	if username != "" {
		rec.Username = username
	}
	if firstName != "" {
		rec.FirstName = firstName
	}
	if lastName != "" {
		rec.LastName = lastName
	}
	rec.LastActivity = time.Now()

	return s.save(records)
}

// ListLinked возвращает всех пользователей с привязанным токеном
func (s *Store) ListLinked(_ context.Context) ([]domain.LinkedUser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load()
	if err != nil {
		return nil, err
	}

	var linked []domain.LinkedUser
	for k, rec := range records {
		if rec.Token == "" {
			continue
		}
		userID, err := strconv.ParseInt(k, 10, 64)
		if err != nil {
			s.logger.Warn("skipping malformed user id in token file", zap.String("key", k))
			continue
		}
		linked = append(linked, domain.LinkedUser{
			UserID:       userID,
			Username:     rec.Username,
			FirstName:    rec.FirstName,
			LastName:     rec.LastName,
			OrgName:      rec.OrgName,
			LastActivity: rec.LastActivity,
		})
	}
	sort.Slice(linked, func(i, j int) bool { return linked[i].UserID < linked[j].UserID })
	return linked, nil
}

func (s *Store) load() (map[string]*domain.UserRecord, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return make(map[string]*domain.UserRecord), nil
		}
		return nil, fmt.Errorf("tokenfile: failed to read %s: %w", s.path, err)
	}

	records := make(map[string]*domain.UserRecord)
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("tokenfile: failed to parse %s: %w", s.path, err)
	}
	return records, nil
}

func (s *Store) save(records map[string]*domain.UserRecord) error {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("tokenfile: failed to marshal records: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("tokenfile: failed to write %s: %w", s.path, err)
	}
	return nil
}

func key(userID int64) string {
	return strconv.FormatInt(userID, 10)
}
