package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/freelance-web/internal/api/apitest"
	"github.com/ignatzorin/freelance-web/internal/dto"
	"github.com/ignatzorin/freelance-web/internal/logger"
	"github.com/ignatzorin/freelance-web/internal/models"
	"github.com/ignatzorin/freelance-web/internal/pkg/apperror"
)

func newTestClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	logger.Discard()
	c, err := NewClient(Options{BaseURL: baseURL, Timeout: 2 * time.Second})
	require.NoError(t, err)
	return c
}

func TestNewClient_RejectsRelativeURL(t *testing.T) {
	_, err := NewClient(Options{BaseURL: "/api"})
	assert.Error(t, err)
}

func TestClient_LoginThenMe(t *testing.T) {
	backend := apitest.New(t)
	backend.AddUser(models.Identity{Username: "anna", FirstName: "Anna", UserType: models.UserTypeFreelancer}, "secret")
	c := newTestClient(t, backend.URL())
	ctx := context.Background()

	_, err := c.Me(ctx)
	require.Error(t, err)
	assert.True(t, apperror.IsUpstream(err))
	assert.True(t, apperror.IsForbidden(err))

	user, err := c.Login(ctx, models.Credentials{Username: "anna", Password: "secret"})
	require.NoError(t, err)
	assert.Equal(t, "anna", user.Username)
	assert.NotEmpty(t, c.CSRFToken())

	me, err := c.Me(ctx)
	require.NoError(t, err)
	assert.Equal(t, user.ID, me.ID)
}

func TestClient_MutatingRequestCarriesCSRF(t *testing.T) {
	backend := apitest.New(t)
	backend.AddUser(models.Identity{Username: "anna", Email: "anna@example.com", UserType: models.UserTypeFreelancer}, "secret")
	c := newTestClient(t, backend.URL())
	ctx := context.Background()

	_, err := c.Login(ctx, models.Credentials{Username: "anna", Password: "secret"})
	require.NoError(t, err)

	// бэкенд отвечает 403 на PATCH без корректного X-CSRFToken
	updated, err := c.UpdateMe(ctx, dto.UserUpdatePayload{FirstName: "Anya", Email: "anya@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "Anya", updated.FirstName)
}

func TestClient_CSRFHeaderOnlyOnCredentialedWrites(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var mu sync.Mutex
	seen := map[string]string{}
	cookies := map[string]string{}

	r := gin.New()
	r.POST("/api/accounts/login/", func(c *gin.Context) {
		c.SetCookie("csrftoken", "tok123", 0, "/", "", false, false)
		c.SetCookie("sessionid", "sess", 0, "/", "", false, true)
		c.JSON(http.StatusOK, gin.H{"message": "ok", "user": gin.H{"id": 1, "username": "u"}})
	})
	record := func(c *gin.Context) {
		mu.Lock()
		seen[c.Request.Method+" "+c.Request.URL.Path] = c.GetHeader(CSRFHeader)
		cookies[c.Request.Method+" "+c.Request.URL.Path] = c.GetHeader("Cookie")
		mu.Unlock()
		c.JSON(http.StatusOK, []interface{}{})
	}
	r.GET("/api/jobs/categories/", record)
	r.GET("/api/applications/applications/", record)
	r.POST("/api/applications/applications/:id/withdraw/", record)
	srv := httptest.NewServer(r)
	defer srv.Close()

	c := newTestClient(t, srv.URL+"/api")
	ctx := context.Background()
	_, err := c.Login(ctx, models.Credentials{Username: "u", Password: "p"})
	require.NoError(t, err)

	_, err = c.Categories(ctx)
	require.NoError(t, err)
	_, err = c.Applications(ctx)
	require.NoError(t, err)
	require.NoError(t, c.WithdrawApplication(ctx, 7))

	mu.Lock()
	defer mu.Unlock()
	assert.Empty(t, seen["GET /api/jobs/categories/"])
	assert.Empty(t, cookies["GET /api/jobs/categories/"], "анонимный запрос не должен нести куки")
	assert.Empty(t, seen["GET /api/applications/applications/"])
	assert.Contains(t, cookies["GET /api/applications/applications/"], "sessionid=sess")
	assert.Equal(t, "tok123", seen["POST /api/applications/applications/7/withdraw/"])
}

func TestClient_FieldErrorsKeepBackendOrder(t *testing.T) {
	backend := apitest.New(t)
	c := newTestClient(t, backend.URL())

	_, err := c.Register(context.Background(), models.Registration{
		Email:    "not-an-email",
		UserType: models.UserTypeFreelancer,
	})
	require.Error(t, err)

	appErr, ok := apperror.As(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, appErr.UpstreamStatus)
	assert.True(t, apperror.IsValidation(err))
	require.Len(t, appErr.Fields, 3)
	assert.Equal(t, "username", appErr.Fields[0].Field)
	assert.Equal(t, "email", appErr.Fields[1].Field)
	assert.Equal(t, "password", appErr.Fields[2].Field)
	assert.Equal(t, "This field is required. Enter a valid email address. This field is required.", appErr.Flatten())
}

func TestClient_SearchEncodesTypedQuery(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var rawQuery string
	r := gin.New()
	r.GET("/api/jobs/search/", func(c *gin.Context) {
		rawQuery = c.Request.URL.RawQuery
		c.JSON(http.StatusOK, []gin.H{{"id": 3, "title": "Go dev", "category": "Dev", "budget_min": "10.00"}})
	})
	srv := httptest.NewServer(r)
	defer srv.Close()

	c := newTestClient(t, srv.URL+"/api")
	jobs, err := c.SearchJobs(context.Background(), dto.SearchForm{Q: "go dev", Category: "2", JobType: models.JobTypeHourly})
	require.NoError(t, err)

	assert.Equal(t, "category=2&job_type=hourly&q=go+dev", rawQuery)
	require.Len(t, jobs, 1)
	assert.Equal(t, "Dev", jobs[0].Category.Name)
	assert.Equal(t, models.Decimal("10.00"), jobs[0].BudgetMin)
}

func TestClient_MyJobsIsCredentialed(t *testing.T) {
	backend := apitest.New(t)
	rec := backend.AddUser(models.Identity{Username: "rita", UserType: models.UserTypeRecruiter}, "pw")
	other := backend.AddUser(models.Identity{Username: "otto", UserType: models.UserTypeRecruiter}, "pw")
	backend.AddJob(models.Job{Title: "Mine", Recruiter: models.Ref{ID: rec.ID, Name: rec.Username}, JobType: models.JobTypeFixed})
	backend.AddJob(models.Job{Title: "Theirs", Recruiter: models.Ref{ID: other.ID, Name: other.Username}, JobType: models.JobTypeFixed})

	c := newTestClient(t, backend.URL())
	ctx := context.Background()
	_, err := c.Login(ctx, models.Credentials{Username: "rita", Password: "pw"})
	require.NoError(t, err)

	all, err := c.Jobs(ctx, JobsQuery{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	mine, err := c.Jobs(ctx, JobsQuery{MyJobs: true})
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "Mine", mine[0].Title)
}

func TestClient_AccountProfileDecodesVariant(t *testing.T) {
	backend := apitest.New(t)
	u := backend.AddUser(models.Identity{Username: "rita", UserType: models.UserTypeRecruiter}, "pw")
	backend.SetRecruiterProfile(u.ID, models.RecruiterProfile{CompanyName: "Acme"})

	c := newTestClient(t, backend.URL())
	ctx := context.Background()
	_, err := c.Login(ctx, models.Credentials{Username: "rita", Password: "pw"})
	require.NoError(t, err)

	acc, err := c.AccountProfile(ctx)
	require.NoError(t, err)
	rp, ok := acc.Profile.(*models.RecruiterProfile)
	require.True(t, ok)
	assert.Equal(t, "Acme", rp.CompanyName)
	assert.NotZero(t, rp.ProfileID())
}

func TestClient_SaveProfileCreatesThenPatches(t *testing.T) {
	backend := apitest.New(t)
	u := backend.AddUser(models.Identity{Username: "anna", UserType: models.UserTypeFreelancer}, "pw")
	c := newTestClient(t, backend.URL())
	ctx := context.Background()
	_, err := c.Login(ctx, models.Credentials{Username: "anna", Password: "pw"})
	require.NoError(t, err)

	rate := "40"
	require.NoError(t, c.SaveFreelancerProfile(ctx, 0, dto.FreelancerProfilePayload{Skills: "Go", HourlyRate: &rate}))
	created, ok := backend.FreelancerProfile(u.ID)
	require.True(t, ok)
	assert.Equal(t, 1, backend.Calls("/accounts/freelancer-profiles/"))

	require.NoError(t, c.SaveFreelancerProfile(ctx, created.ID, dto.FreelancerProfilePayload{Skills: "Go, SQL", HourlyRate: &rate}))
	updated, _ := backend.FreelancerProfile(u.ID)
	assert.Equal(t, "Go, SQL", updated.Skills)
	assert.Equal(t, created.ID, updated.ID)
}

func TestClient_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := newTestClient(t, url+"/api")
	_, err := c.Categories(context.Background())
	require.Error(t, err)
	assert.True(t, apperror.IsTransport(err))
	assert.False(t, apperror.IsUpstream(err))
}

func TestUpstreamError_UsesDetailMessage(t *testing.T) {
	err := upstreamError(http.StatusForbidden, []byte(`{"detail": "Authentication credentials were not provided."}`))
	assert.Equal(t, "Authentication credentials were not provided.", err.Message)
	assert.Equal(t, apperror.ErrCodeForbidden, err.Code)
	assert.Equal(t, "Authentication credentials were not provided.", err.Flatten())
}

func TestParseFieldErrors_NestedAndNonObject(t *testing.T) {
	fields := parseFieldErrors([]byte(`{"b": ["two", "three"], "a": {"y": "inner-y", "x": ["inner-x"]}}`))
	require.Len(t, fields, 2)
	assert.Equal(t, "b", fields[0].Field)
	assert.Equal(t, []string{"two", "three"}, fields[0].Messages)
	assert.Equal(t, []string{"inner-x", "inner-y"}, fields[1].Messages)

	fields = parseFieldErrors([]byte(`["just one"]`))
	require.Len(t, fields, 1)
	assert.Equal(t, "", fields[0].Field)

	assert.Nil(t, parseFieldErrors([]byte("<html>oops</html>")))
}
