package view

import (
	"strconv"

	"golang.org/x/net/html"

	"github.com/ignatzorin/freelance-web/internal/dto"
	"github.com/ignatzorin/freelance-web/internal/models"
)

// ErrorBanner единственный баннер ошибки формы.
func ErrorBanner(message string) *html.Node {
	if message == "" {
		return nil
	}
	return Div("error-message", Text(message))
}

func form(id dto.FormID, action, banner string, children ...*html.Node) *html.Node {
	f := El("form", A("id", string(id), "method", "post", "action", action, "data-form", string(id)),
		ErrorBanner(banner),
	)
	Append(f, children...)
	return f
}

func field(label string, control *html.Node) *html.Node {
	return Div("form-group",
		El("label", nil, Text(label)),
		control,
	)
}

func input(typ, name, value string, extra ...string) *html.Node {
	attrs := A("type", typ, "name", name, "value", value)
	attrs = append(attrs, A(extra...)...)
	return El("input", attrs)
}

func textarea(name, value string) *html.Node {
	return El("textarea", A("name", name, "rows", "4"), Text(value))
}

type option struct {
	value, label string
}

func selectBox(name, id, selected string, opts []option) *html.Node {
	attrs := A("name", name)
	if id != "" {
		attrs = append(attrs, A("id", id)...)
	}
	s := El("select", attrs)
	for _, o := range opts {
		a := A("value", o.value)
		if o.value == selected {
			a = append(a, html.Attribute{Key: "selected"})
		}
		Append(s, El("option", a, Text(o.label)))
	}
	return s
}

func submit(label string) *html.Node {
	return El("button", A("type", "submit", "class", "btn-primary", "data-submit", "true"), Text(label))
}

// LoginForm форма входа.
func LoginForm(v dto.LoginForm, banner string) *html.Node {
	return form(dto.FormLogin, "/auth/login", banner,
		field("Username", input("text", "username", v.Username, "required", "required")),
		field("Password", input("password", "password", "", "required", "required")),
		submit("Login"),
		El("p", A("class", "modal-switch"), Text("Don't have an account? "),
			ModalButton("link-btn", "Sign up", "register-modal")),
	)
}

// RegisterForm форма регистрации.
func RegisterForm(v dto.RegisterForm, banner string) *html.Node {
	return form(dto.FormRegister, "/auth/register", banner,
		field("Username", input("text", "username", v.Username, "required", "required")),
		field("Email", input("email", "email", v.Email, "required", "required")),
		field("First Name", input("text", "first_name", v.FirstName)),
		field("Last Name", input("text", "last_name", v.LastName)),
		field("I am a", selectBox("user_type", "", v.UserType, []option{
			{"", "Select type"},
			{models.UserTypeFreelancer, "Freelancer"},
			{models.UserTypeRecruiter, "Recruiter"},
		})),
		field("Password", input("password", "password", "", "required", "required")),
		field("Confirm Password", input("password", "password_confirm", "", "required", "required")),
		submit("Sign Up"),
	)
}

// ApplyForm форма отклика на вакансию.
func ApplyForm(v dto.ApplyForm, banner string) *html.Node {
	return form(dto.FormApply, "/forms/apply", banner,
		input("hidden", "job_id", v.JobID),
		field("Cover Letter", textarea("cover_letter", v.CoverLetter)),
		field("Proposed Rate ($)", input("number", "proposed_rate", v.ProposedRate, "step", "0.01")),
		field("Estimated Duration", input("text", "estimated_duration", v.EstimatedDuration)),
		submit("Submit Application"),
	)
}

// JobFieldsVisible какая группа бюджета видима для job_type. Пустой и неизвестный тип
// показывают бюджет фиксированной цены.
func JobFieldsVisible(jobType string) (budget, hourly bool) {
	if jobType == models.JobTypeHourly {
		return false, true
	}
	return true, false
}

// JobPostForm форма публикации вакансии. Обе группы бюджета рендерятся,
// видимость переключается по job_type.
func JobPostForm(v dto.JobPostForm, categories []models.Category, banner string) *html.Node {
	cats := []option{{"", "Select category"}}
	for _, c := range categories {
		cats = append(cats, option{strconv.FormatInt(c.ID, 10), c.Name})
	}
	showBudget, showHourly := JobFieldsVisible(v.JobType)

	return form(dto.FormJobPost, "/forms/jobs", banner,
		field("Job Title", input("text", "title", v.Title, "required", "required")),
		field("Description", textarea("description", v.Description)),
		field("Category", selectBox("category_id", "job-category", v.CategoryID, cats)),
		field("Job Type", selectBox("job_type", "job-type", v.JobType, []option{
			{"", "Select type"},
			{models.JobTypeFixed, "Fixed Price"},
			{models.JobTypeHourly, "Hourly"},
		})),
		El("div", A("id", "budget-fields", "class", "form-row", "style", display(showBudget)),
			field("Min Budget ($)", input("number", "budget_min", v.BudgetMin, "step", "0.01")),
			field("Max Budget ($)", input("number", "budget_max", v.BudgetMax, "step", "0.01")),
		),
		El("div", A("id", "hourly-fields", "class", "form-row", "style", display(showHourly)),
			field("Min Hourly Rate ($)", input("number", "hourly_rate_min", v.HourlyRateMin, "step", "0.01")),
			field("Max Hourly Rate ($)", input("number", "hourly_rate_max", v.HourlyRateMax, "step", "0.01")),
		),
		field("Experience Level", selectBox("experience_level", "", v.ExperienceLevel, []option{
			{models.ExperienceLevelBeginner, "Beginner"},
			{models.ExperienceLevelIntermediate, "Intermediate"},
			{models.ExperienceLevelExpert, "Expert"},
		})),
		field("Skills Required (comma separated)", input("text", "skills_required", v.SkillsRequired)),
		field("Deadline", input("date", "deadline", v.Deadline)),
		submit("Post Job"),
	)
}

func display(visible bool) string {
	if visible {
		return "display: flex"
	}
	return "display: none"
}

// ProfileForm форма редактирования профиля. Рендерится только группа полей роли.
func ProfileForm(v dto.ProfileForm, userType, banner string) *html.Node {
	var role *html.Node
	switch userType {
	case models.UserTypeFreelancer:
		role = El("fieldset", A("id", "freelancer-fields"),
			field("Skills", input("text", "skills", v.Skills)),
			field("Hourly Rate ($)", input("number", "hourly_rate", v.HourlyRate, "step", "0.01")),
			field("Years of Experience", input("number", "experience_years", v.ExperienceYears)),
			field("Portfolio URL", input("url", "portfolio_url", v.PortfolioURL)),
		)
	case models.UserTypeRecruiter:
		role = El("fieldset", A("id", "recruiter-fields"),
			field("Company Name", input("text", "company_name", v.CompanyName)),
			field("Company Size", input("text", "company_size", v.CompanySize)),
			field("Industry", input("text", "industry", v.Industry)),
			field("Company Description", textarea("company_description", v.CompanyDescription)),
		)
	}

	return form(dto.FormProfile, "/forms/profile", banner,
		field("First Name", input("text", "first_name", v.FirstName)),
		field("Last Name", input("text", "last_name", v.LastName)),
		field("Email", input("text", "email", v.Email)),
		field("Phone", input("text", "phone", v.Phone)),
		field("Location", input("text", "location", v.Location)),
		field("Website", input("text", "website", v.Website)),
		field("Bio", textarea("bio", v.Bio)),
		role,
		submit("Save Changes"),
	)
}
