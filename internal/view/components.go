package view

import (
	"strconv"

	"golang.org/x/net/html"

	"github.com/ignatzorin/freelance-web/internal/models"
)

// Тексты пустых состояний и заглушек.
const (
	TextLoading          = "Loading..."
	TextErrorLoading     = "Error loading content"
	TextNotAvailable     = "Content not available"
	TextNoJobsFound      = "No jobs found"
	TextSearchFailed     = "Search failed"
	TextJobsFailed       = "Failed to load jobs"
	TextNoFreelancers    = "No freelancers available at the moment."
	TextFreelancersError = "Unable to load freelancers. Please try again later."
	TextMessagesSoon     = "Messaging functionality will be available soon."
)

// LoadingTable заглушка, которую секция показывает пока грузится.
func LoadingTable() *html.Node {
	return Div("loading-table", Text(TextLoading))
}

// Loading строчная заглушка публичной страницы.
func Loading(text string) *html.Node {
	return Div("loading", Text(text))
}

// ErrorPlaceholder заглушка при ошибке загрузки секции.
func ErrorPlaceholder() *html.Node {
	return Div("empty-state", Text(TextErrorLoading))
}

// NotAvailable заглушка неизвестной секции.
func NotAvailable() *html.Node {
	return Div("empty-state", Text(TextNotAvailable))
}

// EmptyState пустой список с необязательной кнопкой действия.
func EmptyState(title, text string, cta *html.Node) *html.Node {
	return Div("empty-state",
		El("h3", nil, Text(title)),
		El("p", nil, Text(text)),
		cta,
	)
}

// SectionLink кнопка перехода в секцию дашборда.
func SectionLink(class, label, section string) *html.Node {
	return El("a", A("href", "/dashboard/?section="+section, "class", class, "data-section", section), Text(label))
}

// ModalButton кнопка, открывающая модальное окно. Без скрипта работает как POST форма.
func ModalButton(class, label, modal string) *html.Node {
	return El("form", A("method", "post", "action", "/ui/modals/"+modal+"/show", "class", "inline-form"),
		El("button", A("type", "submit", "class", class, "data-modal-open", modal), Text(label)),
	)
}

// BrowseJobsCTA действие пустого состояния для фрилансера.
func BrowseJobsCTA() *html.Node {
	return SectionLink("btn-primary", "Browse Jobs", "jobs")
}

// PostJobCTA действие пустого состояния для заказчика.
func PostJobCTA(label string) *html.Node {
	return ModalButton("btn-primary", label, "job-post-modal")
}

// JobCard карточка вакансии. Кнопка зависит от роли зрителя.
func JobCard(j models.Job, viewer *models.Identity) *html.Node {
	label := "View Details"
	if viewer.IsFreelancer() {
		label = "Apply Now"
	}
	id := strconv.FormatInt(j.ID, 10)

	skills := El("div", A("class", "job-skills"))
	for _, s := range Skills(j.SkillsRequired, JobCardSkills) {
		Append(skills, Span("skill-tag", Text(s)))
	}

	return El("div", A("class", "job-card", "data-job-id", id),
		Div("job-header",
			El("h3", A("class", "job-title"), Text(j.Title)),
			Div("job-meta",
				Span("", Text(orDefault(j.Recruiter.Name, "Company"))),
				Span("", Text("Remote")),
				Span("", Text(j.JobType)),
			),
		),
		El("p", A("class", "job-description"), Text(j.Description)),
		Div("job-budget", Text(Budget(j))),
		skills,
		Div("job-footer",
			Span("job-date", Text(FormatDate(j.CreatedAt))),
			El("form", A("method", "post", "action", "/ui/apply/"+id, "class", "inline-form"),
				El("button", A("type", "submit", "class", "btn-primary"), Text(label)),
			),
		),
	)
}

// JobsGrid сетка карточек.
func JobsGrid(jobs []models.Job, viewer *models.Identity) *html.Node {
	grid := Div("jobs-grid")
	for i := range jobs {
		Append(grid, JobCard(jobs[i], viewer))
	}
	return grid
}

// JobsTable таблица вакансий заказчика. counts число откликов по id вакансии.
func JobsTable(jobs []models.Job, counts map[int64]int) *html.Node {
	body := El("tbody", nil)
	for _, j := range jobs {
		Append(body, El("tr", A("data-job-id", strconv.FormatInt(j.ID, 10)),
			El("td", nil, El("strong", nil, Text(j.Title))),
			El("td", nil, Text(j.JobType)),
			El("td", nil, Text(Budget(j))),
			El("td", nil, Span(StatusClass(j.Status), Text(j.Status))),
			El("td", nil, Text(strconv.Itoa(counts[j.ID]))),
		))
	}
	return El("table", A("class", "data-table"),
		El("thead", nil, El("tr", nil,
			El("th", nil, Text("Title")),
			El("th", nil, Text("Type")),
			El("th", nil, Text("Budget")),
			El("th", nil, Text("Status")),
			El("th", nil, Text("Applications")),
		)),
		body,
	)
}

// ApplicationsTable таблица откликов. Колонки и действия зависят от роли зрителя.
func ApplicationsTable(apps []models.Application, viewer *models.Identity) *html.Node {
	counterpart := "Freelancer"
	if viewer.IsFreelancer() {
		counterpart = "Company"
	}
	body := El("tbody", nil)
	for i := range apps {
		Append(body, ApplicationRow(apps[i], viewer))
	}
	return El("table", A("class", "data-table"),
		El("thead", nil, El("tr", nil,
			El("th", nil, Text("Job")),
			El("th", nil, Text(counterpart)),
			El("th", nil, Text("Applied")),
			El("th", nil, Text("Status")),
			El("th", nil, Text("Actions")),
		)),
		body,
	)
}

// ApplicationRow строка отклика. Accept/Reject только заказчику на pending,
// Withdraw только фрилансеру на pending.
func ApplicationRow(a models.Application, viewer *models.Identity) *html.Node {
	id := strconv.FormatInt(a.ID, 10)

	jobTitle := "Job"
	company := ""
	if a.Job != nil {
		jobTitle = orDefault(a.Job.Title, "Job")
		company = a.Job.Recruiter.Name
	}
	var who string
	if viewer.IsFreelancer() {
		who = orDefault(company, "Company")
	} else {
		who = orDefault(a.Freelancer.DisplayName(), "Freelancer")
	}

	actions := El("td", A("class", "row-actions"))
	role := viewer.Role()
	if models.CanTransitionApplication(role, a.Status, models.ApplicationStatusAccepted) {
		Append(actions,
			statusButton(id, models.ApplicationStatusAccepted, "action-btn success", "Accept"),
			statusButton(id, models.ApplicationStatusRejected, "action-btn danger", "Reject"),
		)
	}
	if models.CanTransitionApplication(role, a.Status, models.ApplicationStatusWithdrawn) {
		Append(actions, El("form", A("method", "post", "action", "/applications/"+id+"/withdraw", "class", "inline-form"),
			El("button", A("type", "submit", "class", "action-btn danger"), Text("Withdraw")),
		))
	}

	return El("tr", A("class", "application-row", "data-application-id", id),
		El("td", nil, El("strong", nil, Text(jobTitle))),
		El("td", nil, Text(who)),
		El("td", nil, Text(FormatDate(a.AppliedAt))),
		El("td", nil, Span(StatusClass(a.Status), Text(a.Status))),
		actions,
	)
}

func statusButton(id, status, class, label string) *html.Node {
	return El("form", A("method", "post", "action", "/applications/"+id+"/status", "class", "inline-form"),
		El("input", A("type", "hidden", "name", "status", "value", status)),
		El("button", A("type", "submit", "class", class), Text(label)),
	)
}

// FreelancerCard карточка исполнителя.
func FreelancerCard(p models.FreelancerProfile) *html.Node {
	name := orDefault(p.User.FullName(), "Freelancer")
	skills := Skills(p.Skills, FreelancerCardSkills)
	title := "Professional"
	if len(skills) > 0 {
		title = skills[0]
	}
	rate := "N/A"
	if p.HourlyRate != "" {
		rate = "$" + p.HourlyRate.String() + "/hr"
	}
	value, label := Rating(p.Rating)

	tags := Div("freelancer-skills")
	for _, s := range skills {
		Append(tags, Span("skill-tag", Text(s)))
	}

	return Div("freelancer-card",
		El("h3", A("class", "freelancer-name"), Text(name)),
		El("p", A("class", "freelancer-title"), Text(title)),
		Div("freelancer-rating",
			Span("stars", Text(Stars(value))),
			Span("", Text("("+label+")")),
		),
		tags,
		Div("freelancer-rate", Text(rate)),
	)
}

// FreelancersGrid сетка карточек исполнителей, не больше limit (limit < 0 без ограничения).
func FreelancersGrid(list []models.FreelancerProfile, limit int) *html.Node {
	grid := Div("freelancers-grid")
	for i := range list {
		if limit >= 0 && i >= limit {
			break
		}
		Append(grid, FreelancerCard(list[i]))
	}
	return grid
}

// StatCard плитка счётчика.
func StatCard(tone, number, label string) *html.Node {
	return Div("stat-card",
		Div("stat-icon "+tone),
		Div("stat-number", Text(number)),
		Div("stat-label", Text(label)),
	)
}

// StatsGrid группа плиток.
func StatsGrid(cards ...*html.Node) *html.Node {
	return Div("stats-grid", cards...)
}

// Panel блок дашборда с заголовком.
func Panel(title string, body *html.Node) *html.Node {
	return Div("dashboard-content",
		El("h3", nil, Text(title)),
		body,
	)
}

// SectionSearch поле фильтрации вакансий внутри секции.
func SectionSearch(term string) *html.Node {
	return El("form", A("method", "get", "action", "/dashboard/", "class", "search-container", "data-section-filter", "jobs"),
		El("input", A("type", "hidden", "name", "section", "value", "jobs")),
		Div("search-box",
			El("input", A("type", "text", "name", "q", "value", term, "placeholder", "Search jobs...", "class", "section-search")),
		),
	)
}

// MessagesStub секция сообщений.
func MessagesStub() *html.Node {
	return EmptyState("Messages", TextMessagesSoon, nil)
}

// ProfileView карточка профиля. Вариант выбирается по типу профиля.
func ProfileView(acc models.AccountProfile) *html.Node {
	u := acc.User
	header := Div("profile-header",
		Div("profile-info",
			El("h2", nil, Text(orDefault(u.FullName(), u.Username))),
			El("p", nil, Text(u.Email)),
			Span("user-type-badge", Text(u.UserType)),
		),
	)
	contact := Div("detail-group",
		El("h3", nil, Text("Contact Information")),
		detail("Phone", orDefault(u.Phone, "Not provided")),
		detail("Location", orDefault(u.Location, "Not provided")),
		detail("Website", orDefault(u.Website, "Not provided")),
		detail("Bio", orDefault(u.Bio, "Not provided")),
	)

	var role *html.Node
	switch p := acc.Profile.(type) {
	case *models.FreelancerProfile:
		rate := "Not set"
		if p.HourlyRate != "" {
			rate = p.HourlyRate.String()
		}
		_, rating := Rating(p.Rating)
		role = Div("detail-group",
			El("h3", nil, Text("Professional Information")),
			detail("Skills", orDefault(p.Skills, "Not provided")),
			detail("Hourly Rate", "$"+rate),
			detail("Experience", strconv.Itoa(p.ExperienceYears)+" years"),
			detail("Portfolio", orDefault(p.PortfolioURL, "Not provided")),
			detail("Rating", rating+"/5"),
		)
	case *models.RecruiterProfile:
		verified := "No"
		if p.Verified {
			verified = "Yes"
		}
		role = Div("detail-group",
			El("h3", nil, Text("Company Information")),
			detail("Company", orDefault(p.CompanyName, "Not provided")),
			detail("Industry", orDefault(p.Industry, "Not provided")),
			detail("Company Size", orDefault(p.CompanySize, "Not provided")),
			detail("Verified", verified),
		)
	}

	return Div("profile-section",
		header,
		Div("profile-details", contact, role),
		ModalButton("btn-secondary", "Edit Profile", "profile-edit-modal"),
	)
}

func detail(label, value string) *html.Node {
	return Div("detail-item",
		Span("detail-label", Text(label+":")),
		Span("detail-value", Text(value)),
	)
}
