package goroutine

import (
	"runtime/debug"
	"time"

	"github.com/ignatzorin/freelance-web/internal/logger"
)

// Logger интерфейс для логирования ошибок
type Logger interface {
	Errorf(format string, args ...interface{})
}

// RecoveryHandler обрабатывает panic в горутинах и отложенных колбэках
type RecoveryHandler struct {
	logger Logger
}

// NewRecoveryHandler создает новый обработчик
func NewRecoveryHandler(logger Logger) *RecoveryHandler {
	return &RecoveryHandler{logger: logger}
}

// SafeGo запускает горутину с обработкой panic
func (rh *RecoveryHandler) SafeGo(fn func()) {
	go rh.run(fn)
}

// AfterFunc вызывает fn через d в отдельной горутине с обработкой panic.
// Возвращённый таймер можно остановить, как у time.AfterFunc.
func (rh *RecoveryHandler) AfterFunc(d time.Duration, fn func()) *time.Timer {
	return time.AfterFunc(d, func() { rh.run(fn) })
}

func (rh *RecoveryHandler) run(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			rh.logger.Errorf("Panic in goroutine: %v\nStack trace:\n%s", r, debug.Stack())
		}
	}()
	fn()
}

// DefaultRecoveryHandler - глобальный обработчик, пишет в общий logrus логгер
var DefaultRecoveryHandler = NewRecoveryHandler(logger.Log)

// SafeGo - упрощенная функция для запуска безопасной горутины
func SafeGo(fn func()) {
	DefaultRecoveryHandler.SafeGo(fn)
}

// AfterFunc - упрощенная функция для безопасного отложенного вызова
func AfterFunc(d time.Duration, fn func()) *time.Timer {
	return DefaultRecoveryHandler.AfterFunc(d, fn)
}
