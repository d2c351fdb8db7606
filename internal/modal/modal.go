// Package modal управляет плоским набором именованных модальных окон одной сессии.
package modal

import (
	"sync"

	"github.com/ignatzorin/freelance-web/internal/pkg/apperror"
)

// Имена окон.
const (
	Login       = "login-modal"
	Register    = "register-modal"
	Apply       = "apply-modal"
	JobPost     = "job-post-modal"
	ProfileEdit = "profile-edit-modal"
)

// EscapeKey клавиша, закрывающая все окна.
const EscapeKey = "Escape"

// Names все известные окна в порядке отрисовки.
var Names = []string{Login, Register, Apply, JobPost, ProfileEdit}

// Manager хранит флаг видимости для каждого окна. Стека нет: несколько окон
// могут быть открыты одновременно, одно окно по соглашению.
type Manager struct {
	mu      sync.RWMutex
	visible map[string]bool
}

// NewManager создаёт менеджер со всеми окнами закрытыми.
func NewManager() *Manager {
	m := &Manager{visible: make(map[string]bool, len(Names))}
	for _, n := range Names {
		m.visible[n] = false
	}
	return m
}

// Known сообщает, существует ли окно name.
func Known(name string) bool {
	for _, n := range Names {
		if n == name {
			return true
		}
	}
	return false
}

// Show открывает окно.
func (m *Manager) Show(name string) error {
	return m.set(name, true)
}

// Close закрывает окно.
func (m *Manager) Close(name string) error {
	return m.set(name, false)
}

func (m *Manager) set(name string, v bool) error {
	if !Known(name) {
		return apperror.ErrUnknownModal
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.visible[name] = v
	return nil
}

// CloseAll закрывает все окна.
func (m *Manager) CloseAll() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for n := range m.visible {
		m.visible[n] = false
	}
}

// Visible видимо ли окно.
func (m *Manager) Visible(name string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.visible[name]
}

// BackdropClick клик по затемнению окна name закрывает только его.
func (m *Manager) BackdropClick(name string) error {
	return m.Close(name)
}

// Key обрабатывает нажатие клавиши. Escape закрывает все окна, остальное игнорируется.
func (m *Manager) Key(key string) bool {
	if key != EscapeKey {
		return false
	}
	m.CloseAll()
	return true
}

// Snapshot копия флагов видимости.
func (m *Manager) Snapshot() map[string]bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]bool, len(m.visible))
	for k, v := range m.visible {
		out[k] = v
	}
	return out
}
