package handlers_test

import (
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	"github.com/ignatzorin/freelance-web/internal/api"
	"github.com/ignatzorin/freelance-web/internal/api/apitest"
	"github.com/ignatzorin/freelance-web/internal/config"
	"github.com/ignatzorin/freelance-web/internal/http/handlers"
	"github.com/ignatzorin/freelance-web/internal/http/middleware"
	"github.com/ignatzorin/freelance-web/internal/http/router"
	"github.com/ignatzorin/freelance-web/internal/logger"
	"github.com/ignatzorin/freelance-web/internal/models"
	"github.com/ignatzorin/freelance-web/internal/view/viewtest"
	"github.com/ignatzorin/freelance-web/internal/workspace"
)

const cookieName = "fw_session"

type site struct {
	t       *testing.T
	backend *apitest.Backend
	server  *httptest.Server
	client  *http.Client
}

type reply struct {
	status   int
	body     string
	location string
	header   http.Header
}

// newSite поднимает веб-клиент поверх фейкового бэкенда. Браузер хранит cookie
// и не следует редиректам.
func newSite(t *testing.T, tweak func(cfg *config.Config)) *site {
	t.Helper()
	gin.SetMode(gin.TestMode)
	gin.DefaultWriter = io.Discard
	logger.Discard()

	backend := apitest.New(t)
	cfg := &config.Config{
		Env:             "test",
		BackendURL:      backend.URL(),
		BackendTimeout:  2 * time.Second,
		SessionSecret:   strings.Repeat("s", 32),
		SessionTTL:      time.Hour,
		SessionCookie:   cookieName,
		CSRFCookieName:  "csrftoken",
		NoticeTTL:       time.Hour,
		SearchDebounce:  10 * time.Millisecond,
		RateLimitLimit:  1000,
		RateLimitPeriod: time.Minute,
	}
	if tweak != nil {
		tweak(cfg)
	}

	opts := workspace.Options{
		BackendURL:     cfg.BackendURL,
		BackendTimeout: cfg.BackendTimeout,
		CSRFCookieName: cfg.CSRFCookieName,
		NoticeTTL:      cfg.NoticeTTL,
		SearchDebounce: cfg.SearchDebounce,
	}
	store := workspace.NewStore(cfg.SessionTTL, func(id string) (*workspace.Workspace, error) {
		return workspace.New(id, opts)
	})
	t.Cleanup(store.Close)

	health, err := api.NewClient(api.Options{BaseURL: cfg.BackendURL, Timeout: cfg.BackendTimeout})
	require.NoError(t, err)

	engine := router.SetupRouter(cfg, store, workspace.NewTokenManager(cfg.SessionSecret, cfg.SessionTTL),
		handlers.NewPageHandler(),
		handlers.NewSearchHandler(),
		handlers.NewAuthHandler(store),
		handlers.NewFormHandler(),
		handlers.NewApplicationHandler(),
		handlers.NewUIHandler(),
		handlers.NewHealthHandler(health),
	)
	server := httptest.NewServer(engine)
	t.Cleanup(server.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)

	return &site{
		t:       t,
		backend: backend,
		server:  server,
		client: &http.Client{
			Jar:     jar,
			Timeout: 5 * time.Second,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

func (s *site) do(req *http.Request) reply {
	s.t.Helper()
	resp, err := s.client.Do(req)
	require.NoError(s.t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(s.t, err)
	return reply{status: resp.StatusCode, body: string(body), location: resp.Header.Get("Location"), header: resp.Header}
}

func (s *site) get(path string) reply {
	s.t.Helper()
	req, err := http.NewRequest(http.MethodGet, s.server.URL+path, nil)
	require.NoError(s.t, err)
	return s.do(req)
}

// post отправляет форму так, как её отправил бы браузер со страницы referer.
func (s *site) post(path, referer string, form url.Values) reply {
	s.t.Helper()
	req, err := http.NewRequest(http.MethodPost, s.server.URL+path, strings.NewReader(form.Encode()))
	require.NoError(s.t, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Referer", s.server.URL+referer)
	return s.do(req)
}

// fetch запрос скрипта страницы.
func (s *site) fetch(path string) reply {
	s.t.Helper()
	req, err := http.NewRequest(http.MethodPost, s.server.URL+path, nil)
	require.NoError(s.t, err)
	req.Header.Set("X-Requested-With", "fetch")
	return s.do(req)
}

func (s *site) page(path string) *html.Node {
	s.t.Helper()
	r := s.get(path)
	require.Equal(s.t, http.StatusOK, r.status, r.body)
	return viewtest.Parse(s.t, r.body)
}

func (s *site) login(username string) {
	s.t.Helper()
	r := s.post("/auth/login", "/", url.Values{"username": {username}, "password": {"secret"}})
	require.Equal(s.t, http.StatusSeeOther, r.status)
}

func modalVisible(doc *html.Node, name string) bool {
	m := viewtest.ByID(doc, name)
	return m != nil && viewtest.HasClass(m, "show")
}

func TestSite_LoginAndLogout(t *testing.T) {
	s := newSite(t, nil)
	s.backend.AddUser(models.Identity{Username: "anna", FirstName: "Anna", UserType: models.UserTypeFreelancer}, "secret")

	doc := s.page("/")
	assert.Empty(t, viewtest.ByClass(doc, "user-greeting"))

	r := s.post("/auth/login", "/", url.Values{"username": {"anna"}, "password": {"secret"}})
	require.Equal(t, http.StatusSeeOther, r.status)
	assert.Equal(t, "/", r.location)

	doc = s.page("/")
	greeting := viewtest.ByClass(doc, "user-greeting")
	require.Len(t, greeting, 1)
	assert.Equal(t, "Welcome, Anna!", viewtest.TextOf(greeting[0]))
	assert.Equal(t, "Login successful!", viewtest.TextOf(viewtest.ByID(doc, "notices")))

	r = s.post("/auth/logout", "/dashboard/", nil)
	require.Equal(t, http.StatusSeeOther, r.status)
	assert.Equal(t, "/", r.location)

	doc = s.page("/")
	assert.Empty(t, viewtest.ByClass(doc, "user-greeting"))
	assert.Empty(t, viewtest.TextOf(viewtest.ByID(doc, "notices")))

	r = s.get("/dashboard/")
	assert.Equal(t, http.StatusFound, r.status)
	assert.Equal(t, "/", r.location)
}

func TestSite_LoginFailureKeepsModalWithBanner(t *testing.T) {
	s := newSite(t, nil)

	require.Equal(t, http.StatusSeeOther, s.post("/ui/modals/login-modal/show", "/", nil).status)
	r := s.post("/auth/login", "/", url.Values{"username": {"ghost"}, "password": {"nope"}})
	require.Equal(t, http.StatusSeeOther, r.status)

	doc := s.page("/")
	assert.True(t, modalVisible(doc, "login-modal"))
	form := viewtest.ByID(doc, "login-form")
	require.NotNil(t, form)
	banners := viewtest.ByClass(form, "error-message")
	require.Len(t, banners, 1)
	assert.Equal(t, "Invalid credentials", viewtest.TextOf(banners[0]))
	assert.Equal(t, "ghost", viewtest.Attr(viewtest.ByAttr(form, "name", "username")[0], "value"))
	assert.Empty(t, viewtest.Attr(viewtest.ByAttr(form, "name", "password")[0], "value"))
}

func TestSite_PostFixedJob(t *testing.T) {
	s := newSite(t, nil)
	rec := s.backend.AddUser(models.Identity{Username: "acme", UserType: models.UserTypeRecruiter}, "secret")
	cat := s.backend.AddCategory("Design")
	s.login("acme")

	r := s.get("/dashboard/sections/jobs")
	require.Equal(t, http.StatusOK, r.status)
	assert.Contains(t, r.body, "No Jobs Posted")

	require.Equal(t, http.StatusNoContent, s.fetch("/ui/modals/job-post-modal/show").status)

	r = s.post("/forms/jobs", "/dashboard/?section=jobs", url.Values{
		"title":            {"Landing page"},
		"description":      {"One page site"},
		"category_id":      {strconv.FormatInt(cat.ID, 10)},
		"job_type":         {models.JobTypeFixed},
		"experience_level": {models.ExperienceLevelIntermediate},
		"budget_min":       {"100"},
		"budget_max":       {"500"},
		"hourly_rate_min":  {"20"},
	})
	require.Equal(t, http.StatusSeeOther, r.status)
	assert.Equal(t, "/dashboard/?view=current", r.location)

	jobs := s.backend.Jobs()
	require.Len(t, jobs, 1)
	assert.Equal(t, models.Decimal("100.00"), jobs[0].BudgetMin)
	assert.Equal(t, models.Decimal("500.00"), jobs[0].BudgetMax)
	assert.Empty(t, jobs[0].HourlyRateMin)
	assert.Equal(t, rec.ID, jobs[0].Recruiter.ID)

	doc := s.page(r.location)
	assert.False(t, modalVisible(doc, "job-post-modal"))
	content := viewtest.ByID(doc, "dashboard-content")
	require.NotNil(t, content)
	assert.Contains(t, viewtest.TextOf(content), "Landing page")
	assert.Equal(t, "jobs", viewtest.Attr(viewtest.ByID(doc, "dashboard-body"), "data-active-section"))
}

func TestSite_ProfileInvalidEmailShowsSingleBanner(t *testing.T) {
	s := newSite(t, nil)
	s.backend.AddUser(models.Identity{Username: "anna", Email: "anna@example.com", UserType: models.UserTypeFreelancer}, "secret")
	s.login("anna")

	require.Equal(t, http.StatusSeeOther, s.post("/ui/modals/profile-edit-modal/show", "/", nil).status)
	r := s.post("/forms/profile", "/", url.Values{
		"first_name": {"Anna"},
		"email":      {"not-an-email"},
		"skills":     {"Go"},
	})
	require.Equal(t, http.StatusSeeOther, r.status)
	assert.Equal(t, 0, s.backend.Calls("/accounts/freelancer-profiles/"))

	doc := s.page("/")
	assert.True(t, modalVisible(doc, "profile-edit-modal"))
	banners := viewtest.ByClass(doc, "error-message")
	require.Len(t, banners, 1)
	assert.Contains(t, viewtest.TextOf(banners[0]), "invalid")

	email := viewtest.ByAttr(viewtest.ByID(doc, "profile-edit-form"), "name", "email")
	require.Len(t, email, 1)
	assert.Equal(t, "not-an-email", viewtest.Attr(email[0], "value"))
}

func TestSite_StaleSectionLoadGets204(t *testing.T) {
	s := newSite(t, nil)
	s.backend.AddUser(models.Identity{Username: "acme", UserType: models.UserTypeRecruiter}, "secret")
	s.login("acme")
	s.backend.Delay("/applications/applications/", 300*time.Millisecond)

	slow := make(chan reply, 1)
	go func() { slow <- s.get("/dashboard/sections/applications") }()

	require.Eventually(t, func() bool {
		return s.backend.Calls("/applications/applications/") > 0
	}, time.Second, 5*time.Millisecond)

	fast := s.get("/dashboard/sections/profile")
	require.Equal(t, http.StatusOK, fast.status)

	stale := <-slow
	assert.Equal(t, http.StatusNoContent, stale.status)
	assert.Empty(t, stale.body)

	doc := s.page("/dashboard/?view=current")
	assert.Equal(t, "profile", viewtest.Attr(viewtest.ByID(doc, "dashboard-body"), "data-active-section"))
}

func TestSite_DuplicateSubmitGets409(t *testing.T) {
	s := newSite(t, nil)
	s.backend.AddUser(models.Identity{Username: "acme", UserType: models.UserTypeRecruiter}, "secret")
	cat := s.backend.AddCategory("Design")
	s.login("acme")
	s.backend.Delay("/jobs/jobs/", 300*time.Millisecond)

	form := url.Values{
		"title":       {"Logo"},
		"description": {"Vector logo"},
		"category_id": {strconv.FormatInt(cat.ID, 10)},
		"job_type":    {models.JobTypeFixed},
		"budget_min":  {"50"},
	}

	first := make(chan reply, 1)
	go func() { first <- s.post("/forms/jobs", "/", form) }()

	require.Eventually(t, func() bool {
		return s.backend.Calls("/jobs/jobs/") > 0
	}, time.Second, 5*time.Millisecond)

	second := s.post("/forms/jobs", "/", form)
	assert.Equal(t, http.StatusConflict, second.status)
	assert.Equal(t, http.StatusSeeOther, (<-first).status)
	assert.Len(t, s.backend.Jobs(), 1)
}

func TestSite_SearchIsDebounced(t *testing.T) {
	s := newSite(t, func(cfg *config.Config) { cfg.SearchDebounce = 300 * time.Millisecond })
	s.backend.AddJob(models.Job{Title: "Go backend", Description: "API", JobType: models.JobTypeHourly})
	s.backend.AddJob(models.Job{Title: "Figma mockups", Description: "UI", JobType: models.JobTypeFixed})
	s.page("/")

	var (
		wg    sync.WaitGroup
		early reply
	)
	wg.Add(1)
	go func() {
		defer wg.Done()
		early = s.get("/search?q=g")
	}()
	time.Sleep(50 * time.Millisecond)
	late := s.get("/search?q=figma")
	wg.Wait()

	assert.Equal(t, http.StatusNoContent, early.status)
	require.Equal(t, http.StatusOK, late.status)
	doc := viewtest.Parse(t, late.body)
	assert.Equal(t, []string{"Figma mockups"}, viewtest.Texts(viewtest.ByClass(doc, "job-title")))
	assert.Equal(t, 1, s.backend.Calls("/jobs/search/"))
}

func TestSite_SearchWithoutMatches(t *testing.T) {
	s := newSite(t, nil)
	s.backend.AddJob(models.Job{Title: "Go backend", JobType: models.JobTypeHourly})

	r := s.get("/search?q=cobol")
	require.Equal(t, http.StatusOK, r.status)
	assert.Contains(t, r.body, "No jobs found")

	s.backend.Fail("/jobs/search/", http.StatusInternalServerError, map[string]string{"detail": "boom"})
	r = s.get("/search?q=go")
	require.Equal(t, http.StatusOK, r.status)
	assert.Contains(t, r.body, "Search failed")
}

func TestSite_HomeRendersJobsAndFreelancers(t *testing.T) {
	s := newSite(t, nil)
	u := s.backend.AddUser(models.Identity{Username: "bob", FirstName: "Bob", UserType: models.UserTypeFreelancer}, "secret")
	s.backend.SetFreelancerProfile(u.ID, models.FreelancerProfile{Skills: "Go, SQL", HourlyRate: "40.00"})
	s.backend.AddCategory("Web")
	s.backend.AddJob(models.Job{Title: "Go backend", JobType: models.JobTypeHourly, HourlyRateMin: "20.00", HourlyRateMax: "40.00"})

	doc := s.page("/")
	assert.Len(t, viewtest.ByClass(doc, "job-card"), 1)
	assert.Len(t, viewtest.ByClass(doc, "freelancer-card"), 1)
	assert.Contains(t, viewtest.TextOf(viewtest.ByID(doc, "category-filter")), "Web")

	s.backend.Fail("/jobs/jobs/", http.StatusBadGateway, map[string]string{"detail": "down"})
	doc = s.page("/")
	assert.Equal(t, "Failed to load jobs", viewtest.TextOf(viewtest.ByID(doc, "jobs-container")))
}

func TestSite_ModalsFollowUIActions(t *testing.T) {
	s := newSite(t, nil)

	r := s.post("/ui/modals/login-modal/show", "/?q=go", nil)
	require.Equal(t, http.StatusSeeOther, r.status)
	assert.Equal(t, "/?q=go", r.location)

	// показ другого окна закрывает предыдущее
	require.Equal(t, http.StatusNoContent, s.fetch("/ui/modals/register-modal/show").status)
	doc := s.page("/")
	assert.False(t, modalVisible(doc, "login-modal"))
	assert.True(t, modalVisible(doc, "register-modal"))

	require.Equal(t, http.StatusNoContent, s.fetch("/ui/modals/register-modal/backdrop").status)
	assert.False(t, modalVisible(s.page("/"), "register-modal"))

	require.Equal(t, http.StatusNoContent, s.fetch("/ui/modals/login-modal/show").status)
	require.Equal(t, http.StatusNoContent, s.fetch("/ui/keys/Enter").status)
	assert.True(t, modalVisible(s.page("/"), "login-modal"))
	require.Equal(t, http.StatusNoContent, s.fetch("/ui/keys/Escape").status)
	assert.False(t, modalVisible(s.page("/"), "login-modal"))

	assert.Equal(t, http.StatusNotFound, s.fetch("/ui/modals/settings-modal/show").status)
}

func TestSite_ApplyButton(t *testing.T) {
	s := newSite(t, nil)
	job := s.backend.AddJob(models.Job{Title: "Go backend", JobType: models.JobTypeHourly})
	s.backend.AddUser(models.Identity{Username: "anna", UserType: models.UserTypeFreelancer}, "secret")
	id := strconv.FormatInt(job.ID, 10)

	assert.Equal(t, http.StatusBadRequest, s.post("/ui/apply/abc", "/", nil).status)

	require.Equal(t, http.StatusSeeOther, s.post("/ui/apply/"+id, "/", nil).status)
	assert.True(t, modalVisible(s.page("/"), "login-modal"))

	s.login("anna")
	require.Equal(t, http.StatusSeeOther, s.post("/ui/apply/"+id, "/", nil).status)
	doc := s.page("/")
	assert.True(t, modalVisible(doc, "apply-modal"))
	jobID := viewtest.ByAttr(viewtest.ByID(doc, "apply-form"), "name", "job_id")
	require.Len(t, jobID, 1)
	assert.Equal(t, id, viewtest.Attr(jobID[0], "value"))

	r := s.post("/forms/apply", "/", url.Values{"job_id": {id}, "cover_letter": {"Hire me"}, "proposed_rate": {"30"}})
	require.Equal(t, http.StatusSeeOther, r.status)
	apps := s.backend.Applications()
	require.Len(t, apps, 1)
	assert.Equal(t, "Hire me", apps[0].CoverLetter)
	assert.False(t, modalVisible(s.page("/"), "apply-modal"))
}

func TestSite_ApplicationRowActions(t *testing.T) {
	s := newSite(t, nil)
	rec := s.backend.AddUser(models.Identity{Username: "acme", UserType: models.UserTypeRecruiter}, "secret")
	fl := s.backend.AddUser(models.Identity{Username: "anna", UserType: models.UserTypeFreelancer}, "secret")
	job := s.backend.AddJob(models.Job{Title: "Go backend", JobType: models.JobTypeFixed, Recruiter: models.Ref{ID: rec.ID, Name: "acme"}})
	app := s.backend.AddApplication(job.ID, fl.ID, models.ApplicationStatusPending)
	s.login("acme")

	r := s.get("/dashboard/?section=applications")
	require.Equal(t, http.StatusOK, r.status)

	path := "/applications/" + strconv.FormatInt(app.ID, 10) + "/status"
	r = s.post(path, "/dashboard/?section=applications", url.Values{"status": {models.ApplicationStatusAccepted}})
	require.Equal(t, http.StatusSeeOther, r.status)
	assert.Equal(t, "/dashboard/?view=current", r.location)
	assert.Equal(t, models.ApplicationStatusAccepted, s.backend.Applications()[0].Status)

	doc := s.page(r.location)
	assert.Contains(t, viewtest.TextOf(viewtest.ByID(doc, "notices")), "Application accepted!")

	assert.Equal(t, http.StatusBadRequest, s.post("/applications/0/status", "/", nil).status)
}

func TestSite_SessionCookie(t *testing.T) {
	s := newSite(t, nil)

	req, err := http.NewRequest(http.MethodGet, s.server.URL+"/", nil)
	require.NoError(t, err)
	req.AddCookie(&http.Cookie{Name: cookieName, Value: "garbage"})
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	var issued *http.Cookie
	for _, c := range resp.Cookies() {
		if c.Name == cookieName {
			issued = c
		}
	}
	require.NotNil(t, issued)
	assert.NotEqual(t, "garbage", issued.Value)
	assert.True(t, issued.HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, issued.SameSite)
}

func TestSite_RateLimitOnSubmits(t *testing.T) {
	s := newSite(t, func(cfg *config.Config) { cfg.RateLimitLimit = 1 })

	first := s.post("/auth/login", "/", url.Values{"username": {"x"}, "password": {"y"}})
	assert.Equal(t, http.StatusSeeOther, first.status)
	second := s.post("/auth/login", "/", url.Values{"username": {"x"}, "password": {"y"}})
	assert.Equal(t, http.StatusTooManyRequests, second.status)
	assert.NotEmpty(t, second.header.Get("Retry-After"))
	assert.Equal(t, "0", second.header.Get("X-RateLimit-Remaining"))

	// другой маршрут считается отдельно
	register := s.post("/auth/register", "/", url.Values{"username": {"x"}})
	assert.Equal(t, http.StatusSeeOther, register.status)

	// просмотр страниц не ограничен, уведомление о лимите видно на странице
	assert.Contains(t, viewtest.TextOf(viewtest.ByID(s.page("/"), "notices")), middleware.MsgTooManySubmits)
}

func TestHealth(t *testing.T) {
	s := newSite(t, nil)

	r := s.get("/health")
	require.Equal(t, http.StatusOK, r.status)
	assert.Contains(t, r.body, `"status":"healthy"`)

	s.backend.Fail("/jobs/categories/", http.StatusInternalServerError, map[string]string{"detail": "down"})
	r = s.get("/health")
	assert.Equal(t, http.StatusServiceUnavailable, r.status)
	assert.Contains(t, r.body, `"status":"unhealthy"`)
}
