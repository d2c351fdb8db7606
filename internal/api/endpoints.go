package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/ignatzorin/freelance-web/internal/dto"
	"github.com/ignatzorin/freelance-web/internal/models"
)

const (
	pathMe                 = "/accounts/users/me/"
	pathLogin              = "/accounts/login/"
	pathRegister           = "/accounts/register/"
	pathLogout             = "/accounts/logout/"
	pathProfile            = "/accounts/profile/"
	pathFreelancerProfiles = "/accounts/freelancer-profiles/"
	pathRecruiterProfiles  = "/accounts/recruiter-profiles/"
	pathCategories         = "/jobs/categories/"
	pathJobs               = "/jobs/jobs/"
	pathSearch             = "/jobs/search/"
	pathApplications       = "/applications/applications/"
)

// JobsQuery фильтр списка вакансий. MyJobs требует авторизации.
type JobsQuery struct {
	MyJobs bool `url:"my_jobs,omitempty"`
}

// Me возвращает текущего пользователя. Аноним получает ошибку с UpstreamStatus 401/403.
func (c *Client) Me(ctx context.Context) (*models.Identity, error) {
	var out models.Identity
	if err := c.do(ctx, request{method: http.MethodGet, path: pathMe, credentials: true}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateMe частично обновляет пользователя и возвращает свежую копию.
func (c *Client) UpdateMe(ctx context.Context, payload dto.UserUpdatePayload) (*models.Identity, error) {
	var out models.Identity
	if err := c.do(ctx, request{method: http.MethodPatch, path: pathMe, body: payload, credentials: true}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Login открывает сессию на бэкенде.
func (c *Client) Login(ctx context.Context, creds models.Credentials) (*models.Identity, error) {
	var out dto.AuthResponse
	if err := c.do(ctx, request{method: http.MethodPost, path: pathLogin, body: creds, credentials: true}, &out); err != nil {
		return nil, err
	}
	if out.User == nil {
		return nil, fmt.Errorf("api: ответ логина без пользователя")
	}
	return out.User, nil
}

// Register создаёт аккаунт. Сессию не открывает.
func (c *Client) Register(ctx context.Context, reg models.Registration) (*models.Identity, error) {
	var out dto.AuthResponse
	if err := c.do(ctx, request{method: http.MethodPost, path: pathRegister, body: reg, credentials: true}, &out); err != nil {
		return nil, err
	}
	return out.User, nil
}

// Logout закрывает сессию на бэкенде.
func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, request{method: http.MethodPost, path: pathLogout, credentials: true}, nil)
}

// AccountProfile возвращает пользователя вместе с ролевым профилем.
func (c *Client) AccountProfile(ctx context.Context) (*models.AccountProfile, error) {
	var out models.AccountProfile
	if err := c.do(ctx, request{method: http.MethodGet, path: pathProfile, credentials: true}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// FreelancerProfiles публичный список фрилансеров.
func (c *Client) FreelancerProfiles(ctx context.Context) ([]models.FreelancerProfile, error) {
	var out []models.FreelancerProfile
	if err := c.do(ctx, request{method: http.MethodGet, path: pathFreelancerProfiles}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SaveFreelancerProfile обновляет профиль (PATCH по id) или создаёт его, если id нет.
func (c *Client) SaveFreelancerProfile(ctx context.Context, id int64, payload dto.FreelancerProfilePayload) error {
	return c.saveProfile(ctx, pathFreelancerProfiles, id, payload)
}

// SaveRecruiterProfile обновляет или создаёт профиль заказчика.
func (c *Client) SaveRecruiterProfile(ctx context.Context, id int64, payload dto.RecruiterProfilePayload) error {
	return c.saveProfile(ctx, pathRecruiterProfiles, id, payload)
}

func (c *Client) saveProfile(ctx context.Context, collection string, id int64, payload interface{}) error {
	if id > 0 {
		path := fmt.Sprintf("%s%d/", collection, id)
		return c.do(ctx, request{method: http.MethodPatch, path: path, body: payload, credentials: true}, nil)
	}
	return c.do(ctx, request{method: http.MethodPost, path: collection, body: payload, credentials: true}, nil)
}

// Categories справочник категорий.
func (c *Client) Categories(ctx context.Context) ([]models.Category, error) {
	var out []models.Category
	if err := c.do(ctx, request{method: http.MethodGet, path: pathCategories}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Jobs список вакансий; q.MyJobs переключает на вакансии текущего заказчика.
func (c *Client) Jobs(ctx context.Context, q JobsQuery) ([]models.Job, error) {
	r := request{method: http.MethodGet, path: pathJobs}
	if q.MyJobs {
		r.query = q
		r.credentials = true
	}
	var out []models.Job
	if err := c.do(ctx, r, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateJob публикует вакансию.
func (c *Client) CreateJob(ctx context.Context, payload dto.JobPayload) (*models.Job, error) {
	var out models.Job
	if err := c.do(ctx, request{method: http.MethodPost, path: pathJobs, body: payload, credentials: true}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SearchJobs фильтрованный поиск открытых вакансий.
func (c *Client) SearchJobs(ctx context.Context, params dto.SearchForm) ([]models.Job, error) {
	var out []models.Job
	if err := c.do(ctx, request{method: http.MethodGet, path: pathSearch, query: params}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Applications отклики: свои для фрилансера, на свои вакансии для заказчика.
func (c *Client) Applications(ctx context.Context) ([]models.Application, error) {
	var out []models.Application
	if err := c.do(ctx, request{method: http.MethodGet, path: pathApplications, credentials: true}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Apply создаёт отклик.
func (c *Client) Apply(ctx context.Context, payload dto.ApplicationPayload) (*models.Application, error) {
	var out models.Application
	if err := c.do(ctx, request{method: http.MethodPost, path: pathApplications, body: payload, credentials: true}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateApplicationStatus принимает или отклоняет отклик.
func (c *Client) UpdateApplicationStatus(ctx context.Context, id int64, status string) error {
	path := fmt.Sprintf("%s%d/update_status/", pathApplications, id)
	return c.do(ctx, request{method: http.MethodPost, path: path, body: dto.StatusPayload{Status: status}, credentials: true}, nil)
}

// WithdrawApplication отзывает отклик фрилансера.
func (c *Client) WithdrawApplication(ctx context.Context, id int64) error {
	path := fmt.Sprintf("%s%d/withdraw/", pathApplications, id)
	return c.do(ctx, request{method: http.MethodPost, path: path, credentials: true}, nil)
}
