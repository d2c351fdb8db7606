package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	"github.com/ignatzorin/freelance-web/internal/dto"
	"github.com/ignatzorin/freelance-web/internal/pkg/apperror"
	"github.com/ignatzorin/freelance-web/internal/workspace"
)

// MsgTooManySubmits уведомление сессии, упёршейся в лимит.
const MsgTooManySubmits = "Too many attempts. Please wait a moment and try again."

// SubmitLimit считает отправки форм отдельно для каждой сессии и каждого
// маршрута: частый вход не мешает опубликовать вакансию.
type SubmitLimit struct {
	instance *limiter.Limiter
}

// NewSubmitLimit создаёт лимит в памяти. По умолчанию 10 отправок в минуту.
func NewSubmitLimit(limit int64, period time.Duration) *SubmitLimit {
	if limit <= 0 {
		limit = 10
	}
	if period <= 0 {
		period = time.Minute
	}
	rate := limiter.Rate{Period: period, Limit: limit}
	return &SubmitLimit{instance: limiter.New(memory.NewStore(), rate)}
}

// Middleware отклоняет отправку сверх лимита с 429 и оставляет сессии
// уведомление, которое появится на следующей странице.
func (l *SubmitLimit) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ws := workspaceOf(c)

		state, err := l.instance.Get(c, submitKey(c, ws))
		if err != nil {
			_ = c.Error(apperror.Wrap(err, apperror.ErrCodeInternal, "middleware: лимит отправок недоступен"))
			c.Abort()
			return
		}
		writeLimitHeaders(c, state)

		if !state.Reached {
			c.Next()
			return
		}

		if ws != nil {
			ws.Notices.Error(MsgTooManySubmits)
		}
		c.Header("Retry-After", strconv.FormatInt(retryAfter(state.Reset, time.Now()), 10))
		c.AbortWithStatusJSON(http.StatusTooManyRequests, dto.ErrorResponse{
			Error: "слишком много запросов, попробуйте позже",
		})
	}
}

func workspaceOf(c *gin.Context) *workspace.Workspace {
	v, ok := c.Get(ContextWorkspaceKey)
	if !ok {
		return nil
	}
	ws, _ := v.(*workspace.Workspace)
	return ws
}

// submitKey ключ лимита: сессия и шаблон маршрута, без сессии IP.
func submitKey(c *gin.Context, ws *workspace.Workspace) string {
	owner := "ip:" + c.ClientIP()
	if ws != nil {
		owner = "ws:" + ws.ID
	}
	return owner + "|" + c.FullPath()
}

func writeLimitHeaders(c *gin.Context, state limiter.Context) {
	c.Header("X-RateLimit-Limit", strconv.FormatInt(state.Limit, 10))
	c.Header("X-RateLimit-Remaining", strconv.FormatInt(state.Remaining, 10))
	c.Header("X-RateLimit-Reset", strconv.FormatInt(state.Reset, 10))
}

// retryAfter секунды до сброса окна, не меньше одной.
func retryAfter(reset int64, now time.Time) int64 {
	if d := reset - now.Unix(); d > 1 {
		return d
	}
	return 1
}
