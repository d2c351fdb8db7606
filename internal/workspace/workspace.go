// Package workspace собирает состояние одной браузерной сессии: клиент API со
// своими куками, пользователя, кабинет, формы, окна и уведомления.
package workspace

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/freelance-web/internal/api"
	"github.com/ignatzorin/freelance-web/internal/dashboard"
	"github.com/ignatzorin/freelance-web/internal/debounce"
	"github.com/ignatzorin/freelance-web/internal/forms"
	"github.com/ignatzorin/freelance-web/internal/logger"
	"github.com/ignatzorin/freelance-web/internal/modal"
	"github.com/ignatzorin/freelance-web/internal/models"
	"github.com/ignatzorin/freelance-web/internal/notice"
	"github.com/ignatzorin/freelance-web/internal/session"
	"github.com/ignatzorin/freelance-web/internal/view"
)

// Options параметры, общие для всех сессий.
type Options struct {
	BackendURL     string
	BackendTimeout time.Duration
	CSRFCookieName string
	NoticeTTL      time.Duration
	SearchDebounce time.Duration
}

// Workspace состояние одной браузерной сессии.
type Workspace struct {
	ID        string
	Client    *api.Client
	Session   *session.Session
	Dashboard *dashboard.Controller
	Forms     *forms.Controller
	Modals    *modal.Manager
	Notices   *notice.Board
	Search    *debounce.Debouncer
	Log       *logrus.Entry
}

// New собирает пустое анонимное рабочее пространство.
func New(id string, opts Options) (*Workspace, error) {
	log := logger.WithSession(id)

	client, err := api.NewClient(api.Options{
		BaseURL:        opts.BackendURL,
		Timeout:        opts.BackendTimeout,
		CSRFCookieName: opts.CSRFCookieName,
		Log:            log.WithField("component", "api"),
	})
	if err != nil {
		return nil, err
	}

	w := &Workspace{
		ID:      id,
		Client:  client,
		Session: session.New(client, log.WithField("component", "session")),
		Modals:  modal.NewManager(),
		Notices: notice.NewBoard(opts.NoticeTTL),
		Search:  debounce.New(opts.SearchDebounce),
		Log:     log,
	}
	w.Dashboard = dashboard.NewController(client, w.Session, log.WithField("component", "dashboard"))
	w.Forms = forms.NewController(forms.Deps{
		Gateway:  client,
		Session:  w.Session,
		Sections: w.Dashboard,
		Modals:   w.Modals,
		Notices:  w.Notices,
		Log:      log.WithField("component", "forms"),
	})
	return w, nil
}

// Chrome общие данные страницы для текущего состояния.
func (w *Workspace) Chrome(categories []models.Category) view.Chrome {
	return view.Chrome{
		Viewer:     w.Session.Identity(),
		Greeting:   w.Session.Greeting(),
		Modals:     w.Modals.Snapshot(),
		Notices:    w.Notices.Active(),
		Banners:    w.Forms.Banners(),
		Values:     w.Forms.Values(),
		Categories: categories,
	}
}

// Close останавливает таймеры уведомлений.
func (w *Workspace) Close() {
	w.Notices.Clear()
}
