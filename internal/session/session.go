// Package session хранит идентичность пользователя одной браузерной сессии.
package session

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/freelance-web/internal/models"
)

// Gateway часть API клиента, нужная сессии.
type Gateway interface {
	Me(ctx context.Context) (*models.Identity, error)
	Login(ctx context.Context, creds models.Credentials) (*models.Identity, error)
	Logout(ctx context.Context) error
}

// Session держит текущего пользователя или его отсутствие.
// Меняется только через Set и Clear (и операции, которые их вызывают).
type Session struct {
	mu       sync.RWMutex
	identity *models.Identity
	gw       Gateway
	log      *logrus.Entry
}

// New создаёт анонимную сессию.
func New(gw Gateway, log *logrus.Entry) *Session {
	return &Session{gw: gw, log: log}
}

// Identity возвращает копию пользователя или nil для анонима.
func (s *Session) Identity() *models.Identity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.identity.Clone()
}

// Authenticated сообщает, есть ли пользователь.
func (s *Session) Authenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.identity != nil
}

// Role роль пользователя или пустая строка.
func (s *Session) Role() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.identity.Role()
}

// Set заменяет пользователя копией id.
func (s *Session) Set(id *models.Identity) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.identity = id.Clone()
}

// Clear делает сессию анонимной.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.identity = nil
}

// Refresh перечитывает пользователя с бэкенда. Любая ошибка (401/403, сеть)
// означает анонима и наружу не отдаётся.
func (s *Session) Refresh(ctx context.Context) {
	id, err := s.gw.Me(ctx)
	if err != nil {
		s.log.WithError(err).Debug("session: пользователь не аутентифицирован")
		s.Clear()
		return
	}
	s.Set(id)
}

// Login открывает сессию на бэкенде и сохраняет пользователя из ответа.
func (s *Session) Login(ctx context.Context, creds models.Credentials) (*models.Identity, error) {
	id, err := s.gw.Login(ctx, creds)
	if err != nil {
		return nil, err
	}
	s.Set(id)
	s.log.WithField("user_id", id.ID).Info("session: вход выполнен")
	return id.Clone(), nil
}

// Logout закрывает сессию на бэкенде, не дожидаясь успеха, и очищает пользователя.
func (s *Session) Logout(ctx context.Context) {
	if err := s.gw.Logout(ctx); err != nil {
		s.log.WithError(err).Debug("session: logout на бэкенде не удался")
	}
	s.Clear()
}

// Greeting приветствие для шапки: имя или логин.
func (s *Session) Greeting() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.identity == nil {
		return ""
	}
	return "Welcome, " + s.identity.DisplayName() + "!"
}
