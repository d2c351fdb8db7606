// Package notice хранит временные уведомления сессии. Каждое уведомление
// снимается само через заданное время.
package notice

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/freelance-web/internal/goroutine"
	"github.com/ignatzorin/freelance-web/internal/view"
)

// Виды уведомлений; совпадают с css-классом "<kind>-message".
const (
	KindSuccess = "success"
	KindError   = "error"
	KindInfo    = "info"
)

// Board список активных уведомлений.
type Board struct {
	mu     sync.Mutex
	ttl    time.Duration
	items  []view.Notice
	timers map[string]*time.Timer
}

// NewBoard создаёт доску с временем жизни ttl.
func NewBoard(ttl time.Duration) *Board {
	if ttl <= 0 {
		ttl = 3 * time.Second
	}
	return &Board{ttl: ttl, timers: make(map[string]*time.Timer)}
}

// Push добавляет уведомление и возвращает его id.
func (b *Board) Push(kind, text string) string {
	id := uuid.NewString()

	b.mu.Lock()
	defer b.mu.Unlock()
	b.items = append(b.items, view.Notice{ID: id, Kind: kind, Text: text})
	b.timers[id] = goroutine.AfterFunc(b.ttl, func() { b.Dismiss(id) })
	return id
}

// Success короткая форма Push(KindSuccess, text).
func (b *Board) Success(text string) string {
	return b.Push(KindSuccess, text)
}

// Error короткая форма Push(KindError, text).
func (b *Board) Error(text string) string {
	return b.Push(KindError, text)
}

// Dismiss снимает уведомление досрочно.
func (b *Board) Dismiss(id string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if t, ok := b.timers[id]; ok {
		t.Stop()
		delete(b.timers, id)
	}
	for i, n := range b.items {
		if n.ID == id {
			b.items = append(b.items[:i], b.items[i+1:]...)
			return
		}
	}
}

// Active копия активных уведомлений в порядке появления.
func (b *Board) Active() []view.Notice {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]view.Notice(nil), b.items...)
}

// Clear снимает все уведомления и останавливает таймеры.
func (b *Board) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for id, t := range b.timers {
		t.Stop()
		delete(b.timers, id)
	}
	b.items = nil
}
