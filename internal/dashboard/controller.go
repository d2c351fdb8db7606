// Package dashboard управляет разделами личного кабинета: активная секция,
// заголовок, меню и область контента. Каждая загрузка несёт номер поколения,
// результат устаревшей загрузки отбрасывается.
package dashboard

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/sirupsen/logrus"
	"golang.org/x/net/html"

	"github.com/ignatzorin/freelance-web/internal/api"
	"github.com/ignatzorin/freelance-web/internal/modal"
	"github.com/ignatzorin/freelance-web/internal/models"
	"github.com/ignatzorin/freelance-web/internal/pkg/apperror"
	"github.com/ignatzorin/freelance-web/internal/view"
)

// Секции кабинета.
const (
	SectionOverview     = "overview"
	SectionJobs         = "jobs"
	SectionApplications = "applications"
	SectionFreelancers  = "freelancers"
	SectionProfile      = "profile"
	SectionMessages     = "messages"
)

// Gateway данные бэкенда, нужные секциям.
type Gateway interface {
	Jobs(ctx context.Context, q api.JobsQuery) ([]models.Job, error)
	Applications(ctx context.Context) ([]models.Application, error)
	FreelancerProfiles(ctx context.Context) ([]models.FreelancerProfile, error)
	AccountProfile(ctx context.Context) (*models.AccountProfile, error)
}

// Viewer источник текущего пользователя.
type Viewer interface {
	Identity() *models.Identity
}

// State снимок кабинета для рендера.
type State struct {
	Section    string
	Title      string
	Filter     string
	Menu       []view.MenuItem
	Actions    []view.Action
	Content    *html.Node
	Generation uint64
}

type loader func(ctx context.Context, viewer *models.Identity, filter string) (*html.Node, error)

// Controller конечный автомат секций одной браузерной сессии.
type Controller struct {
	gw     Gateway
	viewer Viewer
	log    *logrus.Entry

	gen atomic.Uint64

	mu      sync.RWMutex
	section string
	title   string
	filter  string
	menu    []view.MenuItem
	actions []view.Action
	content *html.Node

	loaders map[string]loader
}

// NewController создаёт кабинет в секции overview без загруженного контента.
func NewController(gw Gateway, viewer Viewer, log *logrus.Entry) *Controller {
	c := &Controller{
		gw:      gw,
		viewer:  viewer,
		log:     log,
		section: SectionOverview,
		title:   view.SectionTitle(SectionOverview),
		content: view.LoadingTable(),
	}
	c.loaders = map[string]loader{
		SectionOverview:     c.loadOverview,
		SectionJobs:         c.loadJobs,
		SectionApplications: c.loadApplications,
		SectionFreelancers:  c.loadFreelancers,
		SectionProfile:      c.loadProfile,
		SectionMessages:     c.loadMessages,
	}
	return c
}

// Navigate переключает секцию и загружает её. Если пока шла загрузка началась
// другая, возвращает apperror.ErrStale и ничего не меняет.
func (c *Controller) Navigate(ctx context.Context, name, filter string) (State, error) {
	viewer := c.viewer.Identity()

	// Поколение берётся под mu: кто позже занял блокировку, тот и актуален.
	c.mu.Lock()
	gen := c.gen.Add(1)
	c.section = name
	c.filter = filter
	c.title = view.SectionTitle(name)
	c.menu = Menu(viewer, name)
	c.actions = Actions(viewer)
	c.content = view.LoadingTable()
	c.mu.Unlock()

	content := c.load(ctx, name, viewer, filter)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gen.Load() != gen {
		c.log.WithFields(logrus.Fields{"section": name, "generation": gen}).Debug("dashboard: результат устарел")
		return State{}, apperror.ErrStale
	}
	c.content = content
	return c.snapshot(gen), nil
}

// Refresh перезагружает текущую секцию с прежним фильтром. Если кабинет
// ещё не открывали, ничего не загружает.
func (c *Controller) Refresh(ctx context.Context) (State, error) {
	if c.gen.Load() == 0 {
		return c.State(), nil
	}
	c.mu.RLock()
	name, filter := c.section, c.filter
	c.mu.RUnlock()
	return c.Navigate(ctx, name, filter)
}

// Open показывает секцию name после изменения её данных. Фильтр сохраняется,
// если секция уже открыта. До первого открытия кабинета ничего не делает.
func (c *Controller) Open(ctx context.Context, name string) (State, error) {
	if c.gen.Load() == 0 {
		return c.State(), nil
	}
	c.mu.RLock()
	filter := ""
	if c.section == name {
		filter = c.filter
	}
	c.mu.RUnlock()
	return c.Navigate(ctx, name, filter)
}

// State текущий снимок. Контент копируется.
func (c *Controller) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snapshot(c.gen.Load())
}

// Section активная секция.
func (c *Controller) Section() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.section
}

func (c *Controller) snapshot(gen uint64) State {
	return State{
		Section:    c.section,
		Title:      c.title,
		Filter:     c.filter,
		Menu:       append([]view.MenuItem(nil), c.menu...),
		Actions:    append([]view.Action(nil), c.actions...),
		Content:    view.Clone(c.content),
		Generation: gen,
	}
}

// load вызывает загрузчик секции. Ошибки и panic превращаются в заглушку.
func (c *Controller) load(ctx context.Context, name string, viewer *models.Identity, filter string) (content *html.Node) {
	fn, ok := c.loaders[name]
	if !ok {
		return view.NotAvailable()
	}

	defer func() {
		if r := recover(); r != nil {
			c.log.WithFields(logrus.Fields{"section": name, "panic": fmt.Sprint(r)}).Error("dashboard: panic при загрузке секции")
			content = view.ErrorPlaceholder()
		}
	}()

	node, err := fn(ctx, viewer, filter)
	if err != nil {
		c.log.WithError(err).WithField("section", name).Error("dashboard: ошибка загрузки секции")
		return view.ErrorPlaceholder()
	}
	return node
}

// Menu боковое меню роли с одним активным пунктом.
func Menu(viewer *models.Identity, active string) []view.MenuItem {
	var items []view.MenuItem
	switch {
	case viewer.IsFreelancer():
		items = []view.MenuItem{
			{Section: SectionOverview, Label: "Overview"},
			{Section: SectionApplications, Label: "My Applications"},
			{Section: SectionJobs, Label: "Browse Jobs"},
			{Section: SectionProfile, Label: "Profile"},
			{Section: SectionMessages, Label: "Messages"},
		}
	case viewer.IsRecruiter():
		items = []view.MenuItem{
			{Section: SectionOverview, Label: "Overview"},
			{Section: SectionJobs, Label: "My Jobs"},
			{Section: SectionApplications, Label: "Applications"},
			{Section: SectionFreelancers, Label: "Browse Freelancers"},
			{Section: SectionProfile, Label: "Profile"},
			{Section: SectionMessages, Label: "Messages"},
		}
	}
	for i := range items {
		items[i].Active = items[i].Section == active
	}
	return items
}

// Actions кнопки шапки кабинета.
func Actions(viewer *models.Identity) []view.Action {
	switch {
	case viewer.IsFreelancer():
		return []view.Action{
			{Label: "Find Jobs", Section: SectionJobs, Primary: true},
			{Label: "Edit Profile", Modal: modal.ProfileEdit},
		}
	case viewer.IsRecruiter():
		return []view.Action{
			{Label: "Post Job", Modal: modal.JobPost, Primary: true},
			{Label: "Edit Profile", Modal: modal.ProfileEdit},
		}
	default:
		return nil
	}
}
