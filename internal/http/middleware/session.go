package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/freelance-web/internal/workspace"
)

// ContextWorkspaceKey ключ рабочего пространства в gin.Context.
const ContextWorkspaceKey = "workspace"

// CookieOptions параметры cookie браузерной сессии.
type CookieOptions struct {
	Name   string
	Secure bool
}

// SessionMiddleware находит рабочее пространство по cookie. Если cookie нет,
// она невалидна или пространство уже убрано, заводит новое и выдаёт новую cookie.
func SessionMiddleware(store *workspace.Store, tokens *workspace.TokenManager, cookie CookieOptions) gin.HandlerFunc {
	return func(c *gin.Context) {
		ws := lookup(c, store, tokens, cookie.Name)
		if ws == nil {
			created, err := store.Create()
			if err != nil {
				_ = c.Error(err)
				c.Abort()
				return
			}
			ws = created
		}

		// Cookie продлевается вместе с пространством.
		token, exp, err := tokens.Issue(ws.ID)
		if err != nil {
			_ = c.Error(err)
			c.Abort()
			return
		}
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(cookie.Name, token, int(time.Until(exp).Seconds()), "/", "", cookie.Secure, true)

		c.Set(ContextWorkspaceKey, ws)
		c.Next()
	}
}

func lookup(c *gin.Context, store *workspace.Store, tokens *workspace.TokenManager, name string) *workspace.Workspace {
	raw, err := c.Cookie(name)
	if err != nil || raw == "" {
		return nil
	}
	id, err := tokens.Parse(raw)
	if err != nil {
		return nil
	}
	ws, ok := store.Get(id)
	if !ok {
		return nil
	}
	return ws
}
