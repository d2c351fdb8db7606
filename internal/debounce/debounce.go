// Package debounce пропускает только последний вызов в серии, разделённой
// паузой короче заданной.
package debounce

import (
	"context"
	"sync"
	"time"

	"github.com/ignatzorin/freelance-web/internal/pkg/apperror"
)

// ErrSuperseded вызов вытеснен более новым с тем же ключом.
var ErrSuperseded = apperror.New(apperror.ErrCodeStale, "debounce: вызов вытеснен более новым")

// Debouncer считает вызовы по ключам.
type Debouncer struct {
	wait time.Duration

	mu  sync.Mutex
	seq map[string]uint64
}

// New создаёт debouncer с паузой wait.
func New(wait time.Duration) *Debouncer {
	return &Debouncer{wait: wait, seq: make(map[string]uint64)}
}

// Settle ждёт паузу и возвращает nil, если за это время не было нового вызова с key.
// Иначе ErrSuperseded. Отмена ctx возвращает ctx.Err().
func (d *Debouncer) Settle(ctx context.Context, key string) error {
	d.mu.Lock()
	d.seq[key]++
	mine := d.seq[key]
	d.mu.Unlock()

	timer := time.NewTimer(d.wait)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.seq[key] != mine {
		return ErrSuperseded
	}
	delete(d.seq, key)
	return nil
}
