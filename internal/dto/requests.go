package dto

import (
	"strconv"
	"strings"
)

// LoginForm is the browser login form
type LoginForm struct {
	Username string `form:"username"`
	Password string `form:"password"`
}

// RegisterForm is the browser registration form
type RegisterForm struct {
	Username        string `form:"username"`
	Email           string `form:"email"`
	Password        string `form:"password"`
	PasswordConfirm string `form:"password_confirm"`
	FirstName       string `form:"first_name"`
	LastName        string `form:"last_name"`
	UserType        string `form:"user_type"`
}

// ApplyForm is the job application form
type ApplyForm struct {
	JobID             string `form:"job_id"`
	CoverLetter       string `form:"cover_letter"`
	ProposedRate      string `form:"proposed_rate"`
	EstimatedDuration string `form:"estimated_duration"`
}

// JobPostForm is the recruiter job posting form.
// Budget and hourly groups are both rendered, job_type decides which one is sent.
type JobPostForm struct {
	Title           string `form:"title"`
	Description     string `form:"description"`
	CategoryID      string `form:"category_id"`
	JobType         string `form:"job_type"`
	ExperienceLevel string `form:"experience_level"`
	SkillsRequired  string `form:"skills_required"`
	Deadline        string `form:"deadline"`
	BudgetMin       string `form:"budget_min"`
	BudgetMax       string `form:"budget_max"`
	HourlyRateMin   string `form:"hourly_rate_min"`
	HourlyRateMax   string `form:"hourly_rate_max"`
}

// ProfileForm is the profile edit form. Only the group matching the user type is sent.
type ProfileForm struct {
	FirstName string `form:"first_name"`
	LastName  string `form:"last_name"`
	Email     string `form:"email"`
	Phone     string `form:"phone"`
	Bio       string `form:"bio"`
	Location  string `form:"location"`
	Website   string `form:"website"`

	Skills          string `form:"skills"`
	HourlyRate      string `form:"hourly_rate"`
	ExperienceYears string `form:"experience_years"`
	PortfolioURL    string `form:"portfolio_url"`

	CompanyName        string `form:"company_name"`
	CompanySize        string `form:"company_size"`
	Industry           string `form:"industry"`
	CompanyDescription string `form:"company_description"`
}

// SearchForm is the public job search; also encoded into the backend query string
type SearchForm struct {
	Q               string `form:"q" url:"q,omitempty"`
	Category        string `form:"category" url:"category,omitempty"`
	JobType         string `form:"job_type" url:"job_type,omitempty"`
	ExperienceLevel string `form:"experience_level" url:"experience_level,omitempty"`
}

// JobPayload is sent to POST /jobs/jobs/
type JobPayload struct {
	Title           string   `json:"title"`
	Description     string   `json:"description"`
	CategoryID      *int64   `json:"category_id"`
	JobType         string   `json:"job_type"`
	ExperienceLevel string   `json:"experience_level"`
	SkillsRequired  string   `json:"skills_required"`
	Deadline        *string  `json:"deadline"`
	BudgetMin       *float64 `json:"budget_min,omitempty"`
	BudgetMax       *float64 `json:"budget_max,omitempty"`
	HourlyRateMin   *float64 `json:"hourly_rate_min,omitempty"`
	HourlyRateMax   *float64 `json:"hourly_rate_max,omitempty"`
}

// UserUpdatePayload is sent to PATCH /accounts/users/me/
type UserUpdatePayload struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Bio       string `json:"bio"`
	Location  string `json:"location"`
	Website   string `json:"website"`
}

// FreelancerProfilePayload is sent to the freelancer profile endpoint
type FreelancerProfilePayload struct {
	Skills          string  `json:"skills"`
	HourlyRate      *string `json:"hourly_rate"`
	ExperienceYears *int    `json:"experience_years,omitempty"`
	PortfolioURL    string  `json:"portfolio_url"`
}

// RecruiterProfilePayload is sent to the recruiter profile endpoint
type RecruiterProfilePayload struct {
	CompanyName        string `json:"company_name"`
	CompanySize        string `json:"company_size"`
	Industry           string `json:"industry"`
	CompanyDescription string `json:"company_description"`
}

// ApplicationPayload is sent to POST /applications/applications/
type ApplicationPayload struct {
	JobID             *int64  `json:"job_id"`
	CoverLetter       string  `json:"cover_letter"`
	ProposedRate      *string `json:"proposed_rate"`
	EstimatedDuration string  `json:"estimated_duration"`
}

// StatusPayload is sent to the update_status action
type StatusPayload struct {
	Status string `json:"status"`
}

// OptionalInt parses an integer field; empty or invalid input yields nil
func OptionalInt(v string) *int64 {
	n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
	if err != nil {
		return nil
	}
	return &n
}

// OptionalFloat parses a decimal field; empty or invalid input yields nil
func OptionalFloat(v string) *float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return nil
	}
	return &f
}

// OptionalString returns nil for blank input
func OptionalString(v string) *string {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	return &v
}
