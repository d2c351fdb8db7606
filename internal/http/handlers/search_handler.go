package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/freelance-web/internal/debounce"
	"github.com/ignatzorin/freelance-web/internal/dto"
	"github.com/ignatzorin/freelance-web/internal/http/handlers/common"
)

const searchKey = "search"

// SearchHandler живой поиск публичной страницы.
type SearchHandler struct{}

// NewSearchHandler создаёт хэндлер.
func NewSearchHandler() *SearchHandler {
	return &SearchHandler{}
}

// Search обрабатывает GET /search. Ждёт паузу ввода; если за это время пришёл
// более новый запрос той же сессии, отвечает 204 и скрипт ничего не меняет.
func (h *SearchHandler) Search(c *gin.Context) {
	ws, ok := currentWorkspace(c)
	if !ok {
		return
	}

	var search dto.SearchForm
	if err := c.ShouldBindQuery(&search); err != nil {
		common.RespondError(c, http.StatusBadRequest, "некорректные параметры поиска")
		return
	}

	ctx := c.Request.Context()
	if err := ws.Search.Settle(ctx, searchKey); err != nil {
		if !errors.Is(err, debounce.ErrSuperseded) {
			ws.Log.WithError(err).Debug("handlers: поиск отменён")
		}
		c.Status(http.StatusNoContent)
		return
	}

	common.RespondHTML(c, http.StatusOK, jobsFragment(ctx, ws, search))
}
