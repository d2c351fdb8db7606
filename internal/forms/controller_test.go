package forms

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/freelance-web/internal/api"
	"github.com/ignatzorin/freelance-web/internal/api/apitest"
	"github.com/ignatzorin/freelance-web/internal/dashboard"
	"github.com/ignatzorin/freelance-web/internal/dto"
	"github.com/ignatzorin/freelance-web/internal/logger"
	"github.com/ignatzorin/freelance-web/internal/modal"
	"github.com/ignatzorin/freelance-web/internal/models"
	"github.com/ignatzorin/freelance-web/internal/notice"
	"github.com/ignatzorin/freelance-web/internal/pkg/apperror"
	"github.com/ignatzorin/freelance-web/internal/session"
	"github.com/ignatzorin/freelance-web/internal/view/viewtest"
)

type harness struct {
	backend *apitest.Backend
	session *session.Session
	dash    *dashboard.Controller
	modals  *modal.Manager
	notices *notice.Board
	forms   *Controller
}

func quietLog() *logrus.Entry {
	l := logrus.New()
	l.SetLevel(logrus.PanicLevel)
	return logrus.NewEntry(l)
}

// newHarness собирает контроллер поверх фейкового бэкенда. При непустом
// login пользователь уже вошёл.
func newHarness(t *testing.T, backend *apitest.Backend, login string) *harness {
	t.Helper()
	logger.Discard()

	client, err := api.NewClient(api.Options{BaseURL: backend.URL(), Timeout: 2 * time.Second})
	require.NoError(t, err)

	h := &harness{
		backend: backend,
		session: session.New(client, quietLog()),
		modals:  modal.NewManager(),
		notices: notice.NewBoard(time.Hour),
	}
	h.dash = dashboard.NewController(client, h.session, quietLog())
	h.forms = NewController(Deps{
		Gateway:  client,
		Session:  h.session,
		Sections: h.dash,
		Modals:   h.modals,
		Notices:  h.notices,
		Log:      quietLog(),
	})

	if login != "" {
		_, err := h.session.Login(context.Background(), models.Credentials{Username: login, Password: "secret"})
		require.NoError(t, err)
	}
	return h
}

func itoa(n int64) string { return strconv.FormatInt(n, 10) }

func (h *harness) lastNotice(t *testing.T) string {
	t.Helper()
	active := h.notices.Active()
	require.NotEmpty(t, active)
	return active[len(active)-1].Text
}

func TestPostJob_FixedBudgetRefreshesSection(t *testing.T) {
	backend := apitest.New(t)
	backend.AddUser(models.Identity{Username: "acme", UserType: models.UserTypeRecruiter}, "secret")
	cat := backend.AddCategory("Development")
	h := newHarness(t, backend, "acme")
	ctx := context.Background()

	_, err := h.dash.Navigate(ctx, dashboard.SectionJobs, "")
	require.NoError(t, err)
	require.NoError(t, h.modals.Show(modal.JobPost))

	err = h.forms.PostJob(ctx, dto.JobPostForm{
		Title:       "Landing page",
		Description: "One page site",
		CategoryID:  itoa(cat.ID),
		JobType:     models.JobTypeFixed,
		BudgetMin:   "100",
		BudgetMax:   "500",
	})
	require.NoError(t, err)

	assert.False(t, h.modals.Visible(modal.JobPost))
	assert.Equal(t, MsgJobPostedOK, h.lastNotice(t))
	assert.Empty(t, h.forms.Banners())

	jobs := backend.Jobs()
	require.Len(t, jobs, 1)
	assert.Equal(t, models.Decimal("100.00"), jobs[0].BudgetMin)
	assert.Equal(t, models.Decimal("500.00"), jobs[0].BudgetMax)
	assert.Equal(t, models.Decimal(""), jobs[0].HourlyRateMin)

	doc := viewtest.RenderNode(t, h.dash.State().Content)
	assert.Contains(t, viewtest.TextOf(doc), "Landing page")
}

func TestPostJob_FromOverviewOpensJobsSection(t *testing.T) {
	backend := apitest.New(t)
	backend.AddUser(models.Identity{Username: "acme", UserType: models.UserTypeRecruiter}, "secret")
	h := newHarness(t, backend, "acme")
	ctx := context.Background()

	_, err := h.dash.Navigate(ctx, dashboard.SectionOverview, "")
	require.NoError(t, err)

	require.NoError(t, h.forms.PostJob(ctx, dto.JobPostForm{
		Title:       "Landing page",
		Description: "One page site",
		JobType:     models.JobTypeFixed,
		BudgetMin:   "100",
		BudgetMax:   "500",
	}))

	state := h.dash.State()
	assert.Equal(t, dashboard.SectionJobs, state.Section)
	assert.Contains(t, viewtest.TextOf(viewtest.RenderNode(t, state.Content)), "Landing page")
}

func TestPostJob_DashboardNotOpenedStaysUntouched(t *testing.T) {
	backend := apitest.New(t)
	backend.AddUser(models.Identity{Username: "acme", UserType: models.UserTypeRecruiter}, "secret")
	h := newHarness(t, backend, "acme")

	require.NoError(t, h.forms.PostJob(context.Background(), dto.JobPostForm{
		Title:     "Landing page",
		JobType:   models.JobTypeFixed,
		BudgetMin: "100",
	}))

	assert.Equal(t, 1, backend.Calls("/jobs/jobs/"))
	assert.Equal(t, dashboard.SectionOverview, h.dash.State().Section)
}

func TestPostJob_ValidationErrorSetsSingleBanner(t *testing.T) {
	backend := apitest.New(t)
	backend.AddUser(models.Identity{Username: "acme", UserType: models.UserTypeRecruiter}, "secret")
	h := newHarness(t, backend, "acme")
	require.NoError(t, h.modals.Show(modal.JobPost))

	err := h.forms.PostJob(context.Background(), dto.JobPostForm{JobType: models.JobTypeFixed})
	require.Error(t, err)
	assert.True(t, apperror.IsValidation(err))

	banners := h.forms.Banners()
	require.Len(t, banners, 1)
	assert.NotEmpty(t, banners[dto.FormJobPost])
	assert.True(t, h.modals.Visible(modal.JobPost))
	assert.Equal(t, models.JobTypeFixed, h.forms.Values().Job.JobType)

	err = h.forms.PostJob(context.Background(), dto.JobPostForm{Title: "x", JobType: models.JobTypeFixed})
	require.Error(t, err)
	assert.Len(t, h.forms.Banners(), 1)
}

func TestPostJob_RejectsDuplicateSubmit(t *testing.T) {
	backend := apitest.New(t)
	backend.AddUser(models.Identity{Username: "acme", UserType: models.UserTypeRecruiter}, "secret")
	cat := backend.AddCategory("Development")
	h := newHarness(t, backend, "acme")
	backend.Delay("/jobs/jobs/", 100*time.Millisecond)

	form := dto.JobPostForm{Title: "T", Description: "D", CategoryID: itoa(cat.ID), JobType: models.JobTypeFixed, BudgetMin: "1", BudgetMax: "2"}

	var wg sync.WaitGroup
	errs := make([]error, 2)
	wg.Add(1)
	go func() {
		defer wg.Done()
		errs[0] = h.forms.PostJob(context.Background(), form)
	}()
	require.Eventually(t, func() bool { return h.forms.Busy(dto.FormJobPost) }, time.Second, time.Millisecond)
	errs[1] = h.forms.PostJob(context.Background(), form)
	wg.Wait()

	assert.NoError(t, errs[0])
	assert.True(t, apperror.IsBusy(errs[1]))
	assert.Len(t, backend.Jobs(), 1)
	assert.False(t, h.forms.Busy(dto.FormJobPost))
}

func TestPostJob_RequiresRecruiter(t *testing.T) {
	backend := apitest.New(t)
	backend.AddUser(models.Identity{Username: "anna", UserType: models.UserTypeFreelancer}, "secret")
	h := newHarness(t, backend, "anna")

	err := h.forms.PostJob(context.Background(), dto.JobPostForm{Title: "T"})
	assert.True(t, apperror.IsForbidden(err))
	assert.Equal(t, 0, backend.Calls("/jobs/jobs/"))
}

func TestUpdateProfile_InvalidEmailShowsOneBanner(t *testing.T) {
	backend := apitest.New(t)
	backend.AddUser(models.Identity{Username: "anna", Email: "anna@example.com", UserType: models.UserTypeFreelancer}, "secret")
	h := newHarness(t, backend, "anna")
	require.NoError(t, h.modals.Show(modal.ProfileEdit))

	err := h.forms.UpdateProfile(context.Background(), dto.ProfileForm{FirstName: "Anna", Email: "not-an-email"})
	require.Error(t, err)

	banners := h.forms.Banners()
	require.Len(t, banners, 1)
	assert.Contains(t, banners[dto.FormProfile], "invalid")
	assert.True(t, h.modals.Visible(modal.ProfileEdit))
	assert.Equal(t, "anna@example.com", h.session.Identity().Email)
	assert.Equal(t, 0, backend.Calls("/accounts/freelancer-profiles/"))
}

func TestUpdateProfile_CreatesThenPatchesRoleProfile(t *testing.T) {
	backend := apitest.New(t)
	anna := backend.AddUser(models.Identity{Username: "anna", Email: "anna@example.com", UserType: models.UserTypeFreelancer}, "secret")
	h := newHarness(t, backend, "anna")
	ctx := context.Background()

	_, err := h.dash.Navigate(ctx, dashboard.SectionOverview, "")
	require.NoError(t, err)

	form := dto.ProfileForm{FirstName: "Anna", Email: "anna@example.com", Skills: "Go, SQL", HourlyRate: "45", ExperienceYears: "4"}
	require.NoError(t, h.forms.UpdateProfile(ctx, form))
	state := h.dash.State()
	assert.Equal(t, dashboard.SectionProfile, state.Section)
	assert.Contains(t, viewtest.TextOf(viewtest.RenderNode(t, state.Content)), "Go, SQL")

	assert.Equal(t, "Welcome, Anna!", h.session.Greeting())
	assert.Equal(t, MsgProfileOK, h.lastNotice(t))
	profile, ok := backend.FreelancerProfile(anna.ID)
	require.True(t, ok)
	assert.Equal(t, "Go, SQL", profile.Skills)
	assert.Equal(t, 4, profile.ExperienceYears)

	form.Skills = "Go"
	require.NoError(t, h.forms.UpdateProfile(ctx, form))
	again, ok := backend.FreelancerProfile(anna.ID)
	require.True(t, ok)
	assert.Equal(t, profile.ID, again.ID)
	assert.Equal(t, "Go", again.Skills)
	assert.Equal(t, 1, backend.Calls("/accounts/freelancer-profiles/"))
}

func TestPrefillProfile(t *testing.T) {
	backend := apitest.New(t)
	acme := backend.AddUser(models.Identity{Username: "acme", FirstName: "Ann", UserType: models.UserTypeRecruiter}, "secret")
	backend.SetRecruiterProfile(acme.ID, models.RecruiterProfile{CompanyName: "Acme", Industry: "Retail"})
	h := newHarness(t, backend, "acme")

	require.NoError(t, h.forms.PrefillProfile(context.Background()))
	v := h.forms.Values().Profile
	assert.Equal(t, "Ann", v.FirstName)
	assert.Equal(t, "Acme", v.CompanyName)
	assert.Equal(t, "Retail", v.Industry)
	assert.Empty(t, v.Skills)
}

func TestLogin_FailureBanner(t *testing.T) {
	backend := apitest.New(t)
	backend.AddUser(models.Identity{Username: "anna", UserType: models.UserTypeFreelancer}, "secret")
	h := newHarness(t, backend, "")
	require.NoError(t, h.modals.Show(modal.Login))

	err := h.forms.Login(context.Background(), dto.LoginForm{Username: "anna", Password: "wrong"})
	require.Error(t, err)
	assert.Equal(t, "Invalid credentials", h.forms.Banners()[dto.FormLogin])
	assert.Equal(t, "anna", h.forms.Values().Login.Username)
	assert.Empty(t, h.forms.Values().Login.Password)

	require.NoError(t, h.forms.Login(context.Background(), dto.LoginForm{Username: "anna", Password: "secret"}))
	assert.Empty(t, h.forms.Banners())
	assert.False(t, h.modals.Visible(modal.Login))
	assert.Equal(t, MsgLoginOK, h.lastNotice(t))
	assert.True(t, h.session.Authenticated())
}

func TestRegister_OpensLoginModal(t *testing.T) {
	backend := apitest.New(t)
	h := newHarness(t, backend, "")
	require.NoError(t, h.modals.Show(modal.Register))

	err := h.forms.Register(context.Background(), dto.RegisterForm{
		Username: "bob", Email: "bob@example.com", Password: "pw123456", PasswordConfirm: "pw123456",
		UserType: models.UserTypeFreelancer,
	})
	require.NoError(t, err)

	assert.False(t, h.modals.Visible(modal.Register))
	assert.True(t, h.modals.Visible(modal.Login))
	assert.Equal(t, MsgRegisterOK, h.lastNotice(t))
	assert.Equal(t, "bob", h.forms.Values().Login.Username)
	assert.False(t, h.session.Authenticated())
}

func TestRegister_PasswordsAreNotKept(t *testing.T) {
	backend := apitest.New(t)
	h := newHarness(t, backend, "")

	err := h.forms.Register(context.Background(), dto.RegisterForm{Username: "bob", Email: "bad", Password: "a", PasswordConfirm: "a", UserType: models.UserTypeFreelancer})
	require.Error(t, err)

	v := h.forms.Values().Register
	assert.Equal(t, "bob", v.Username)
	assert.Empty(t, v.Password)
	assert.Empty(t, v.PasswordConfirm)
	assert.Contains(t, h.forms.Banners()[dto.FormRegister], "Enter a valid email address.")
}

func TestOpenApply_Gating(t *testing.T) {
	backend := apitest.New(t)
	backend.AddUser(models.Identity{Username: "anna", UserType: models.UserTypeFreelancer}, "secret")
	backend.AddUser(models.Identity{Username: "acme", UserType: models.UserTypeRecruiter}, "secret")

	anon := newHarness(t, backend, "")
	anon.forms.OpenApply(7)
	assert.True(t, anon.modals.Visible(modal.Login))
	assert.False(t, anon.modals.Visible(modal.Apply))

	rec := newHarness(t, backend, "acme")
	rec.forms.OpenApply(7)
	assert.False(t, rec.modals.Visible(modal.Apply))
	assert.Equal(t, MsgFreelancersOnly, rec.lastNotice(t))

	fl := newHarness(t, backend, "anna")
	fl.forms.OpenApply(7)
	assert.True(t, fl.modals.Visible(modal.Apply))
	assert.Equal(t, "7", fl.forms.Values().Apply.JobID)
}

func TestApply_AndWithdraw(t *testing.T) {
	backend := apitest.New(t)
	anna := backend.AddUser(models.Identity{Username: "anna", UserType: models.UserTypeFreelancer}, "secret")
	acme := backend.AddUser(models.Identity{Username: "acme", UserType: models.UserTypeRecruiter}, "secret")
	job := backend.AddJob(models.Job{Title: "API", Recruiter: models.Ref{ID: acme.ID}, JobType: models.JobTypeFixed})
	h := newHarness(t, backend, "anna")
	ctx := context.Background()

	h.forms.OpenApply(job.ID)
	require.NoError(t, h.forms.Apply(ctx, dto.ApplyForm{JobID: itoa(job.ID), CoverLetter: "Hi", ProposedRate: "40"}))
	assert.False(t, h.modals.Visible(modal.Apply))
	assert.Equal(t, MsgApplyOK, h.lastNotice(t))

	apps := backend.Applications()
	require.Len(t, apps, 1)
	assert.Equal(t, anna.ID, apps[0].Freelancer.ID)

	require.NoError(t, h.forms.Withdraw(ctx, apps[0].ID))
	assert.Equal(t, "Application withdrawn!", h.lastNotice(t))
	assert.Equal(t, models.ApplicationStatusWithdrawn, backend.Applications()[0].Status)
}

func TestSetApplicationStatus(t *testing.T) {
	backend := apitest.New(t)
	anna := backend.AddUser(models.Identity{Username: "anna", UserType: models.UserTypeFreelancer}, "secret")
	acme := backend.AddUser(models.Identity{Username: "acme", UserType: models.UserTypeRecruiter}, "secret")
	job := backend.AddJob(models.Job{Title: "API", Recruiter: models.Ref{ID: acme.ID}, JobType: models.JobTypeFixed})
	app := backend.AddApplication(job.ID, anna.ID, models.ApplicationStatusPending)
	h := newHarness(t, backend, "acme")
	ctx := context.Background()

	err := h.forms.SetApplicationStatus(ctx, app.ID, models.ApplicationStatusWithdrawn)
	assert.True(t, apperror.IsForbidden(err))

	_, err = h.dash.Navigate(ctx, dashboard.SectionOverview, "")
	require.NoError(t, err)

	require.NoError(t, h.forms.SetApplicationStatus(ctx, app.ID, models.ApplicationStatusAccepted))
	assert.Equal(t, "Application accepted!", h.lastNotice(t))
	assert.Equal(t, dashboard.SectionApplications, h.dash.State().Section)
	assert.Equal(t, models.ApplicationStatusAccepted, backend.Applications()[0].Status)

	backend.Fail("/applications/applications/"+itoa(app.ID)+"/update_status/", http.StatusBadRequest, map[string]string{"error": "Only pending applications can be updated"})
	err = h.forms.SetApplicationStatus(ctx, app.ID, models.ApplicationStatusRejected)
	require.Error(t, err)
	assert.Equal(t, MsgStatusFailed, h.lastNotice(t))
}

func TestMessage(t *testing.T) {
	fields := apperror.FromUpstream(http.StatusBadRequest, "Bad Request", []apperror.FieldError{
		{Field: "title", Messages: []string{"This field is required."}},
		{Field: "email", Messages: []string{"invalid"}},
	})
	assert.Equal(t, "This field is required. invalid", Message(fields, "x"))

	detail := apperror.FromUpstream(http.StatusForbidden, "Not allowed", nil)
	assert.Equal(t, "Not allowed", Message(detail, "x"))

	transport := apperror.New(apperror.ErrCodeTransport, "api: запрос не выполнен")
	assert.Equal(t, fallbackNetwork, Message(transport, "x"))

	assert.Equal(t, "x", Message(assert.AnError, "x"))
}
