// Package apitest поднимает in-memory реализацию REST бэкенда маркетплейса для тестов.
// Сессии хранятся в куке sessionid, мутирующие запросы авторизованных пользователей
// требуют заголовок X-CSRFToken, совпадающий с кукой csrftoken.
package apitest

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ignatzorin/freelance-web/internal/dto"
	"github.com/ignatzorin/freelance-web/internal/models"
)

const (
	sessionCookie = "sessionid"
	csrfCookie    = "csrftoken"
	csrfHeader    = "X-CSRFToken"
	ctxUserKey    = "apitest.user"
)

type userRecord struct {
	identity models.Identity
	password string
}

type failure struct {
	status int
	body   interface{}
}

// Backend фейковый бэкенд. Все методы безопасны для конкурентного вызова.
type Backend struct {
	Server *httptest.Server

	mu          sync.Mutex
	nextID      int64
	users       map[int64]*userRecord
	sessions    map[string]int64
	csrf        map[string]string
	categories  []models.Category
	jobs        []models.Job
	apps        []models.Application
	freelancers map[int64]*models.FreelancerProfile
	recruiters  map[int64]*models.RecruiterProfile

	calls    map[string]int
	delays   map[string]time.Duration
	failures map[string]failure
}

// New запускает сервер и закрывает его по окончании теста.
func New(t testing.TB) *Backend {
	t.Helper()
	gin.SetMode(gin.TestMode)

	b := &Backend{
		nextID:      1,
		users:       make(map[int64]*userRecord),
		sessions:    make(map[string]int64),
		csrf:        make(map[string]string),
		freelancers: make(map[int64]*models.FreelancerProfile),
		recruiters:  make(map[int64]*models.RecruiterProfile),
		calls:       make(map[string]int),
		delays:      make(map[string]time.Duration),
		failures:    make(map[string]failure),
	}
	b.Server = httptest.NewServer(b.routes())
	t.Cleanup(b.Server.Close)
	return b
}

// URL адрес API, который передаётся клиенту как BACKEND_URL.
func (b *Backend) URL() string {
	return b.Server.URL + "/api"
}

func (b *Backend) id() int64 {
	id := b.nextID
	b.nextID++
	return id
}

// AddUser регистрирует пользователя напрямую, минуя /accounts/register/.
func (b *Backend) AddUser(u models.Identity, password string) models.Identity {
	b.mu.Lock()
	defer b.mu.Unlock()
	u.ID = b.id()
	if u.DateJoined == "" {
		u.DateJoined = time.Now().UTC().Format(time.RFC3339)
	}
	b.users[u.ID] = &userRecord{identity: u, password: password}
	return u
}

// AddCategory добавляет категорию в справочник.
func (b *Backend) AddCategory(name string) models.Category {
	b.mu.Lock()
	defer b.mu.Unlock()
	cat := models.Category{ID: b.id(), Name: name}
	b.categories = append(b.categories, cat)
	return cat
}

// AddJob добавляет вакансию; пустые статус и дата заполняются.
func (b *Backend) AddJob(j models.Job) models.Job {
	b.mu.Lock()
	defer b.mu.Unlock()
	j.ID = b.id()
	if j.Status == "" {
		j.Status = models.JobStatusOpen
	}
	if j.CreatedAt == "" {
		j.CreatedAt = time.Now().UTC().Format(time.RFC3339)
	}
	b.jobs = append([]models.Job{j}, b.jobs...)
	return j
}

// AddApplication добавляет отклик фрилансера на вакансию jobID.
func (b *Backend) AddApplication(jobID, freelancerID int64, status string) models.Application {
	b.mu.Lock()
	defer b.mu.Unlock()
	job := b.findJob(jobID)
	rec := b.users[freelancerID]
	app := models.Application{
		ID:          b.id(),
		CoverLetter: "I can do it",
		Status:      status,
		AppliedAt:   time.Now().UTC().Format(time.RFC3339),
	}
	if job != nil {
		cp := *job
		app.Job = &cp
	}
	if rec != nil {
		app.Freelancer = rec.identity.Clone()
	}
	b.apps = append([]models.Application{app}, b.apps...)
	return app
}

// SetFreelancerProfile сохраняет профиль фрилансера userID.
func (b *Backend) SetFreelancerProfile(userID int64, p models.FreelancerProfile) models.FreelancerProfile {
	b.mu.Lock()
	defer b.mu.Unlock()
	p.ID = b.id()
	b.freelancers[userID] = &p
	return p
}

// SetRecruiterProfile сохраняет профиль заказчика userID.
func (b *Backend) SetRecruiterProfile(userID int64, p models.RecruiterProfile) models.RecruiterProfile {
	b.mu.Lock()
	defer b.mu.Unlock()
	p.ID = b.id()
	b.recruiters[userID] = &p
	return p
}

// Jobs снимок вакансий.
func (b *Backend) Jobs() []models.Job {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]models.Job(nil), b.jobs...)
}

// Applications снимок откликов.
func (b *Backend) Applications() []models.Application {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]models.Application(nil), b.apps...)
}

// User возвращает пользователя по id.
func (b *Backend) User(id int64) (models.Identity, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	rec, ok := b.users[id]
	if !ok {
		return models.Identity{}, false
	}
	return rec.identity, true
}

// FreelancerProfile возвращает профиль фрилансера userID.
func (b *Backend) FreelancerProfile(userID int64) (models.FreelancerProfile, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	p, ok := b.freelancers[userID]
	if !ok {
		return models.FreelancerProfile{}, false
	}
	return *p, true
}

// RecruiterProfile возвращает профиль заказчика userID.
func (b *Backend) RecruiterProfile(userID int64) (models.RecruiterProfile, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	p, ok := b.recruiters[userID]
	if !ok {
		return models.RecruiterProfile{}, false
	}
	return *p, true
}

// Calls сколько раз вызывался path (относительно /api, например "/jobs/jobs/").
func (b *Backend) Calls(path string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.calls[path]
}

// Delay задерживает ответы на path.
func (b *Backend) Delay(path string, d time.Duration) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.delays[path] = d
}

// Fail заставляет path отвечать status с телом body. status 0 снимает сбой.
func (b *Backend) Fail(path string, status int, body interface{}) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if status == 0 {
		delete(b.failures, path)
		return
	}
	b.failures[path] = failure{status: status, body: body}
}

func (b *Backend) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), b.hooks(), b.session())

	api := r.Group("/api")

	accounts := api.Group("/accounts")
	accounts.POST("/login/", b.login)
	accounts.POST("/register/", b.register)
	accounts.POST("/logout/", b.requireAuth, b.logout)
	accounts.GET("/users/me/", b.requireAuth, b.me)
	accounts.PATCH("/users/me/", b.requireAuth, b.updateMe)
	accounts.GET("/profile/", b.requireAuth, b.profile)
	accounts.GET("/freelancer-profiles/", b.listFreelancers)
	accounts.POST("/freelancer-profiles/", b.requireAuth, b.createFreelancerProfile)
	accounts.PATCH("/freelancer-profiles/:id/", b.requireAuth, b.updateFreelancerProfile)
	accounts.GET("/recruiter-profiles/", b.listRecruiters)
	accounts.POST("/recruiter-profiles/", b.requireAuth, b.createRecruiterProfile)
	accounts.PATCH("/recruiter-profiles/:id/", b.requireAuth, b.updateRecruiterProfile)

	jobs := api.Group("/jobs")
	jobs.GET("/categories/", b.listCategories)
	jobs.GET("/jobs/", b.listJobs)
	jobs.POST("/jobs/", b.requireAuth, b.createJob)
	jobs.GET("/search/", b.searchJobs)

	apps := api.Group("/applications")
	apps.GET("/applications/", b.requireAuth, b.listApplications)
	apps.POST("/applications/", b.requireAuth, b.createApplication)
	apps.POST("/applications/:id/update_status/", b.requireAuth, b.updateStatus)
	apps.POST("/applications/:id/withdraw/", b.requireAuth, b.withdraw)

	return r
}

// hooks считает вызовы и применяет заданные задержки и сбои.
func (b *Backend) hooks() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := strings.TrimPrefix(c.Request.URL.Path, "/api")

		b.mu.Lock()
		b.calls[path]++
		delay := b.delays[path]
		fail, failing := b.failures[path]
		b.mu.Unlock()

		if delay > 0 {
			select {
			case <-time.After(delay):
			case <-c.Request.Context().Done():
				c.Abort()
				return
			}
		}
		if failing {
			c.AbortWithStatusJSON(fail.status, fail.body)
			return
		}
		c.Next()
	}
}

// session находит пользователя по куке и проверяет CSRF на изменяющих запросах.
func (b *Backend) session() gin.HandlerFunc {
	return func(c *gin.Context) {
		sid, err := c.Cookie(sessionCookie)
		if err != nil || sid == "" {
			c.Next()
			return
		}

		b.mu.Lock()
		userID, ok := b.sessions[sid]
		token := b.csrf[sid]
		var ident models.Identity
		if rec, found := b.users[userID]; ok && found {
			ident = rec.identity
		} else {
			ok = false
		}
		b.mu.Unlock()

		if !ok {
			c.Next()
			return
		}

		if isMutating(c.Request.Method) && c.GetHeader(csrfHeader) != token {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"detail": "CSRF Failed: CSRF token missing or incorrect."})
			return
		}

		c.Set(ctxUserKey, ident)
		c.Next()
	}
}

func (b *Backend) requireAuth(c *gin.Context) {
	if _, ok := c.Get(ctxUserKey); !ok {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"detail": "Authentication credentials were not provided."})
		return
	}
	c.Next()
}

func currentUser(c *gin.Context) (models.Identity, bool) {
	raw, ok := c.Get(ctxUserKey)
	if !ok {
		return models.Identity{}, false
	}
	u, ok := raw.(models.Identity)
	return u, ok
}

func isMutating(method string) bool {
	return method != http.MethodGet && method != http.MethodHead && method != http.MethodOptions
}

func (b *Backend) login(c *gin.Context) {
	var creds models.Credentials
	if err := c.ShouldBindJSON(&creds); err != nil || creds.Username == "" || creds.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"non_field_errors": []string{"Must include username and password"}})
		return
	}

	b.mu.Lock()
	var found *userRecord
	for _, rec := range b.users {
		if rec.identity.Username == creds.Username && rec.password == creds.Password {
			found = rec
			break
		}
	}
	if found == nil {
		b.mu.Unlock()
		c.JSON(http.StatusBadRequest, gin.H{"non_field_errors": []string{"Invalid credentials"}})
		return
	}
	sid := uuid.NewString()
	token := strings.ReplaceAll(uuid.NewString(), "-", "")
	b.sessions[sid] = found.identity.ID
	b.csrf[sid] = token
	ident := found.identity
	b.mu.Unlock()

	c.SetCookie(sessionCookie, sid, 0, "/", "", false, true)
	c.SetCookie(csrfCookie, token, 0, "/", "", false, false)
	c.JSON(http.StatusOK, dto.AuthResponse{Message: "Login successful", User: &ident})
}

func (b *Backend) register(c *gin.Context) {
	var reg models.Registration
	if err := c.ShouldBindJSON(&reg); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "JSON parse error"})
		return
	}

	errs := orderedErrors{}
	if reg.Username == "" {
		errs.add("username", "This field is required.")
	}
	if !validEmail(reg.Email) {
		errs.add("email", "Enter a valid email address.")
	}
	if reg.Password == "" {
		errs.add("password", "This field is required.")
	}
	if _, ok := models.ValidUserTypes[reg.UserType]; !ok {
		errs.add("user_type", fmt.Sprintf("\"%s\" is not a valid choice.", reg.UserType))
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	for _, rec := range b.users {
		if rec.identity.Username == reg.Username && reg.Username != "" {
			errs.add("username", "A user with that username already exists.")
		}
	}
	if errs.empty() && reg.Password != reg.PasswordConfirm {
		errs.add("non_field_errors", "Passwords don't match")
	}
	if !errs.empty() {
		c.Data(http.StatusBadRequest, "application/json", errs.json())
		return
	}

	ident := models.Identity{
		ID:         b.id(),
		Username:   reg.Username,
		Email:      reg.Email,
		FirstName:  reg.FirstName,
		LastName:   reg.LastName,
		UserType:   reg.UserType,
		DateJoined: time.Now().UTC().Format(time.RFC3339),
	}
	b.users[ident.ID] = &userRecord{identity: ident, password: reg.Password}
	c.JSON(http.StatusCreated, dto.AuthResponse{Message: "User created successfully", User: &ident})
}

func (b *Backend) logout(c *gin.Context) {
	sid, _ := c.Cookie(sessionCookie)
	b.mu.Lock()
	delete(b.sessions, sid)
	delete(b.csrf, sid)
	b.mu.Unlock()
	c.SetCookie(sessionCookie, "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Logout successful"})
}

func (b *Backend) me(c *gin.Context) {
	u, _ := currentUser(c)
	c.JSON(http.StatusOK, u)
}

func (b *Backend) updateMe(c *gin.Context) {
	u, _ := currentUser(c)
	var p dto.UserUpdatePayload
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "JSON parse error"})
		return
	}
	if p.Email != "" && !validEmail(p.Email) {
		c.JSON(http.StatusBadRequest, gin.H{"email": []string{"invalid"}})
		return
	}

	b.mu.Lock()
	rec := b.users[u.ID]
	rec.identity.FirstName = p.FirstName
	rec.identity.LastName = p.LastName
	if p.Email != "" {
		rec.identity.Email = p.Email
	}
	rec.identity.Phone = p.Phone
	rec.identity.Bio = p.Bio
	rec.identity.Location = p.Location
	rec.identity.Website = p.Website
	updated := rec.identity
	b.mu.Unlock()

	c.JSON(http.StatusOK, updated)
}

func (b *Backend) profile(c *gin.Context) {
	u, _ := currentUser(c)
	b.mu.Lock()
	defer b.mu.Unlock()

	var profile interface{}
	switch u.UserType {
	case models.UserTypeFreelancer:
		if p, ok := b.freelancers[u.ID]; ok {
			cp := *p
			cp.User = u.Clone()
			profile = cp
		}
	case models.UserTypeRecruiter:
		if p, ok := b.recruiters[u.ID]; ok {
			cp := *p
			cp.User = u.Clone()
			profile = cp
		}
	}
	c.JSON(http.StatusOK, gin.H{"user": u, "profile": profile})
}

func (b *Backend) listFreelancers(c *gin.Context) {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]models.FreelancerProfile, 0, len(b.freelancers))
	for userID, p := range b.freelancers {
		cp := *p
		if rec, ok := b.users[userID]; ok {
			cp.User = rec.identity.Clone()
		}
		out = append(out, cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	c.JSON(http.StatusOK, out)
}

func (b *Backend) listRecruiters(c *gin.Context) {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]models.RecruiterProfile, 0, len(b.recruiters))
	for userID, p := range b.recruiters {
		cp := *p
		if rec, ok := b.users[userID]; ok {
			cp.User = rec.identity.Clone()
		}
		out = append(out, cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	c.JSON(http.StatusOK, out)
}

func (b *Backend) createFreelancerProfile(c *gin.Context) {
	u, _ := currentUser(c)
	var p dto.FreelancerProfilePayload
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "JSON parse error"})
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, exists := b.freelancers[u.ID]; exists {
		c.JSON(http.StatusBadRequest, gin.H{"user": []string{"freelancer profile with this user already exists."}})
		return
	}
	profile := &models.FreelancerProfile{ID: b.id()}
	applyFreelancer(profile, p)
	b.freelancers[u.ID] = profile
	c.JSON(http.StatusCreated, profile)
}

func (b *Backend) updateFreelancerProfile(c *gin.Context) {
	u, _ := currentUser(c)
	id, _ := strconv.ParseInt(c.Param("id"), 10, 64)
	var p dto.FreelancerProfilePayload
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "JSON parse error"})
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	profile, ok := b.freelancers[u.ID]
	if !ok || profile.ID != id {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Not found."})
		return
	}
	applyFreelancer(profile, p)
	c.JSON(http.StatusOK, profile)
}

func applyFreelancer(profile *models.FreelancerProfile, p dto.FreelancerProfilePayload) {
	profile.Skills = p.Skills
	profile.PortfolioURL = p.PortfolioURL
	if p.HourlyRate != nil {
		profile.HourlyRate = models.Decimal(*p.HourlyRate)
	} else {
		profile.HourlyRate = ""
	}
	if p.ExperienceYears != nil {
		profile.ExperienceYears = *p.ExperienceYears
	}
}

func (b *Backend) createRecruiterProfile(c *gin.Context) {
	u, _ := currentUser(c)
	var p dto.RecruiterProfilePayload
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "JSON parse error"})
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, exists := b.recruiters[u.ID]; exists {
		c.JSON(http.StatusBadRequest, gin.H{"user": []string{"recruiter profile with this user already exists."}})
		return
	}
	profile := &models.RecruiterProfile{
		ID:                 b.id(),
		CompanyName:        p.CompanyName,
		CompanySize:        p.CompanySize,
		Industry:           p.Industry,
		CompanyDescription: p.CompanyDescription,
	}
	b.recruiters[u.ID] = profile
	c.JSON(http.StatusCreated, profile)
}

func (b *Backend) updateRecruiterProfile(c *gin.Context) {
	u, _ := currentUser(c)
	id, _ := strconv.ParseInt(c.Param("id"), 10, 64)
	var p dto.RecruiterProfilePayload
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "JSON parse error"})
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	profile, ok := b.recruiters[u.ID]
	if !ok || profile.ID != id {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Not found."})
		return
	}
	profile.CompanyName = p.CompanyName
	profile.CompanySize = p.CompanySize
	profile.Industry = p.Industry
	profile.CompanyDescription = p.CompanyDescription
	c.JSON(http.StatusOK, profile)
}

func (b *Backend) listCategories(c *gin.Context) {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := append([]models.Category{}, b.categories...)
	c.JSON(http.StatusOK, out)
}

func (b *Backend) listJobs(c *gin.Context) {
	u, authed := currentUser(c)
	myJobs := c.Query("my_jobs") == "true"

	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]models.Job, 0, len(b.jobs))
	for _, j := range b.jobs {
		if myJobs && (!authed || j.Recruiter.ID != u.ID) {
			continue
		}
		if s := c.Query("status"); s != "" && j.Status != s {
			continue
		}
		out = append(out, j)
	}
	c.JSON(http.StatusOK, out)
}

func (b *Backend) searchJobs(c *gin.Context) {
	var q dto.SearchForm
	_ = c.ShouldBindQuery(&q)

	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]models.Job, 0)
	for _, j := range b.jobs {
		if j.Status != models.JobStatusOpen || !j.Matches(q.Q) {
			continue
		}
		if q.Category != "" && strconv.FormatInt(j.Category.ID, 10) != q.Category {
			continue
		}
		if q.JobType != "" && j.JobType != q.JobType {
			continue
		}
		if q.ExperienceLevel != "" && j.ExperienceLevel != q.ExperienceLevel {
			continue
		}
		out = append(out, j)
	}
	c.JSON(http.StatusOK, out)
}

func (b *Backend) createJob(c *gin.Context) {
	u, _ := currentUser(c)
	var p dto.JobPayload
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "JSON parse error"})
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	errs := orderedErrors{}
	if strings.TrimSpace(p.Title) == "" {
		errs.add("title", "This field is required.")
	}
	if strings.TrimSpace(p.Description) == "" {
		errs.add("description", "This field is required.")
	}
	var category *models.Category
	if p.CategoryID != nil {
		for i := range b.categories {
			if b.categories[i].ID == *p.CategoryID {
				category = &b.categories[i]
			}
		}
	}
	if category == nil {
		errs.add("category_id", "This field is required.")
	}
	if _, ok := models.ValidJobTypes[p.JobType]; !ok {
		errs.add("job_type", fmt.Sprintf("\"%s\" is not a valid choice.", p.JobType))
	}
	if !errs.empty() {
		c.Data(http.StatusBadRequest, "application/json", errs.json())
		return
	}

	job := models.Job{
		ID:              b.id(),
		Title:           p.Title,
		Description:     p.Description,
		Category:        models.Ref{ID: category.ID, Name: category.Name},
		CategoryID:      category.ID,
		Recruiter:       models.Ref{ID: u.ID, Name: u.Username},
		JobType:         p.JobType,
		BudgetMin:       decimal(p.BudgetMin),
		BudgetMax:       decimal(p.BudgetMax),
		HourlyRateMin:   decimal(p.HourlyRateMin),
		HourlyRateMax:   decimal(p.HourlyRateMax),
		ExperienceLevel: p.ExperienceLevel,
		SkillsRequired:  p.SkillsRequired,
		Deadline:        p.Deadline,
		Status:          models.JobStatusOpen,
		CreatedAt:       time.Now().UTC().Format(time.RFC3339),
	}
	b.jobs = append([]models.Job{job}, b.jobs...)
	c.JSON(http.StatusCreated, job)
}

func (b *Backend) listApplications(c *gin.Context) {
	u, _ := currentUser(c)
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]models.Application, 0)
	for _, a := range b.apps {
		switch u.UserType {
		case models.UserTypeFreelancer:
			if a.Freelancer != nil && a.Freelancer.ID == u.ID {
				out = append(out, a)
			}
		case models.UserTypeRecruiter:
			if a.Job != nil && a.Job.Recruiter.ID == u.ID {
				out = append(out, a)
			}
		}
	}
	c.JSON(http.StatusOK, out)
}

func (b *Backend) createApplication(c *gin.Context) {
	u, _ := currentUser(c)
	var p dto.ApplicationPayload
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "JSON parse error"})
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	errs := orderedErrors{}
	var job *models.Job
	if p.JobID != nil {
		job = b.findJob(*p.JobID)
	}
	if job == nil {
		errs.add("job_id", "This field is required.")
	}
	if strings.TrimSpace(p.CoverLetter) == "" {
		errs.add("cover_letter", "This field is required.")
	}
	if job != nil {
		for _, a := range b.apps {
			if a.Job != nil && a.Job.ID == job.ID && a.Freelancer != nil && a.Freelancer.ID == u.ID {
				errs.add("non_field_errors", "The fields job, freelancer must make a unique set.")
				break
			}
		}
	}
	if !errs.empty() {
		c.Data(http.StatusBadRequest, "application/json", errs.json())
		return
	}

	jobCopy := *job
	app := models.Application{
		ID:                b.id(),
		Job:               &jobCopy,
		Freelancer:        u.Clone(),
		CoverLetter:       p.CoverLetter,
		EstimatedDuration: p.EstimatedDuration,
		Status:            models.ApplicationStatusPending,
		AppliedAt:         time.Now().UTC().Format(time.RFC3339),
	}
	if p.ProposedRate != nil {
		app.ProposedRate = models.Decimal(*p.ProposedRate)
	}
	b.apps = append([]models.Application{app}, b.apps...)
	c.JSON(http.StatusCreated, app)
}

func (b *Backend) updateStatus(c *gin.Context) {
	u, _ := currentUser(c)
	id, _ := strconv.ParseInt(c.Param("id"), 10, 64)
	var p dto.StatusPayload
	_ = c.ShouldBindJSON(&p)

	b.mu.Lock()
	defer b.mu.Unlock()
	app := b.findApplication(id)
	if app == nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Not found."})
		return
	}
	if u.UserType != models.UserTypeRecruiter || app.Job == nil || app.Job.Recruiter.ID != u.ID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Permission denied"})
		return
	}
	switch p.Status {
	case models.ApplicationStatusPending, models.ApplicationStatusAccepted, models.ApplicationStatusRejected:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status"})
		return
	}
	app.Status = p.Status
	if p.Status == models.ApplicationStatusAccepted {
		if job := b.findJob(app.Job.ID); job != nil {
			job.Status = models.JobStatusInProgress
			app.Job.Status = job.Status
		}
	}
	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Application " + p.Status})
}

func (b *Backend) withdraw(c *gin.Context) {
	u, _ := currentUser(c)
	id, _ := strconv.ParseInt(c.Param("id"), 10, 64)

	b.mu.Lock()
	defer b.mu.Unlock()
	app := b.findApplication(id)
	if app == nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Not found."})
		return
	}
	if app.Freelancer == nil || app.Freelancer.ID != u.ID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Permission denied"})
		return
	}
	app.Status = models.ApplicationStatusWithdrawn
	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Application withdrawn"})
}

func (b *Backend) findJob(id int64) *models.Job {
	for i := range b.jobs {
		if b.jobs[i].ID == id {
			return &b.jobs[i]
		}
	}
	return nil
}

func (b *Backend) findApplication(id int64) *models.Application {
	for i := range b.apps {
		if b.apps[i].ID == id {
			return &b.apps[i]
		}
	}
	return nil
}

func decimal(f *float64) models.Decimal {
	if f == nil {
		return ""
	}
	return models.Decimal(strconv.FormatFloat(*f, 'f', 2, 64))
}

func validEmail(email string) bool {
	at := strings.Index(email, "@")
	return at > 0 && strings.Contains(email[at+1:], ".") && !strings.HasSuffix(email, ".")
}
