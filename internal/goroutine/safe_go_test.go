package goroutine

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type recordingLogger struct {
	mu   sync.Mutex
	msgs []string
}

func (l *recordingLogger) Errorf(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.msgs = append(l.msgs, fmt.Sprintf(format, args...))
}

func (l *recordingLogger) count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.msgs)
}

func TestSafeGo_RecoversPanic(t *testing.T) {
	log := &recordingLogger{}
	rh := NewRecoveryHandler(log)

	rh.SafeGo(func() { panic("boom") })

	assert.Eventually(t, func() bool { return log.count() == 1 }, time.Second, 5*time.Millisecond)
}

func TestAfterFunc_RunsOnceAndCanBeStopped(t *testing.T) {
	rh := NewRecoveryHandler(&recordingLogger{})

	var mu sync.Mutex
	calls := 0
	rh.AfterFunc(10*time.Millisecond, func() {
		mu.Lock()
		calls++
		mu.Unlock()
	})
	stopped := rh.AfterFunc(10*time.Millisecond, func() {
		mu.Lock()
		calls += 100
		mu.Unlock()
	})
	assert.True(t, stopped.Stop())

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return calls == 1
	}, time.Second, 5*time.Millisecond)
}
