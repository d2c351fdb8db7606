package common

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"
	"golang.org/x/net/html"

	"github.com/ignatzorin/freelance-web/internal/dto"
	"github.com/ignatzorin/freelance-web/internal/http/middleware"
	"github.com/ignatzorin/freelance-web/internal/view"
	"github.com/ignatzorin/freelance-web/internal/workspace"
)

// HeaderRequestedWith заголовок, которым скрипт страницы помечает свои запросы.
const HeaderRequestedWith = "X-Requested-With"

var (
	// ErrWorkspaceNotFound is returned when the session middleware did not run
	ErrWorkspaceNotFound = errors.New("рабочее пространство не найдено в контексте")

	// ErrInvalidID is returned when an id parameter is not a positive integer
	ErrInvalidID = errors.New("неверный формат id")
)

// CurrentWorkspace extracts the browser workspace from Gin context
func CurrentWorkspace(c *gin.Context) (*workspace.Workspace, error) {
	raw, exists := c.Get(middleware.ContextWorkspaceKey)
	if !exists {
		return nil, ErrWorkspaceNotFound
	}

	ws, ok := raw.(*workspace.Workspace)
	if !ok || ws == nil {
		return nil, ErrWorkspaceNotFound
	}

	return ws, nil
}

// ParseIDParam parses a positive integer id from URL parameter
func ParseIDParam(c *gin.Context, paramName string) (int64, error) {
	param := c.Param(paramName)
	if param == "" {
		return 0, fmt.Errorf("параметр %s отсутствует", paramName)
	}

	id, err := strconv.ParseInt(param, 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrInvalidID
	}

	return id, nil
}

// RespondError sends a standardized error response
func RespondError(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, dto.ErrorResponse{Error: message})
}

// RespondHTML renders a node tree as text/html
func RespondHTML(c *gin.Context, statusCode int, n *html.Node) {
	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Header("Cache-Control", "no-store")
	c.Status(statusCode)
	if err := view.Render(c.Writer, n); err != nil {
		_ = c.Error(err)
	}
}

// IsFetch reports whether the request came from the page script
func IsFetch(c *gin.Context) bool {
	return c.GetHeader(HeaderRequestedWith) == "fetch"
}

// SeeOther redirects a form post with 303 so that reload does not resubmit
func SeeOther(c *gin.Context, location string) {
	c.Redirect(http.StatusSeeOther, location)
}

// Back returns the same-origin path of the Referer or fallback
func Back(c *gin.Context, fallback string) string {
	ref := c.GetHeader("Referer")
	if ref == "" {
		return fallback
	}
	u, err := url.Parse(ref)
	if err != nil || (u.Host != "" && u.Host != c.Request.Host) {
		return fallback
	}
	if u.Path == "" || u.Path[0] != '/' {
		return fallback
	}
	back := u.Path
	if u.RawQuery != "" {
		back += "?" + u.RawQuery
	}
	return back
}

// Done finishes a UI action: the page script gets 204, a plain form post goes back
func Done(c *gin.Context) {
	if IsFetch(c) {
		c.Status(http.StatusNoContent)
		return
	}
	SeeOther(c, Back(c, "/"))
}
