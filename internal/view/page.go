package view

import (
	"strconv"

	"golang.org/x/net/html"

	"github.com/ignatzorin/freelance-web/internal/dto"
	"github.com/ignatzorin/freelance-web/internal/modal"
	"github.com/ignatzorin/freelance-web/internal/models"
)

// MenuItem пункт бокового меню дашборда.
type MenuItem struct {
	Section string
	Label   string
	Active  bool
}

// Action кнопка в шапке дашборда: переход в секцию или открытие окна.
type Action struct {
	Label   string
	Section string
	Modal   string
	Primary bool
}

// Notice всплывающее уведомление.
type Notice struct {
	ID   string
	Kind string
	Text string
}

// Chrome общее для всех страниц: навигация, уведомления, окна и формы.
type Chrome struct {
	Viewer     *models.Identity
	Greeting   string
	Modals     map[string]bool
	Notices    []Notice
	Banners    map[dto.FormID]string
	Values     dto.FormValues
	Categories []models.Category
}

// HomeData публичная страница.
type HomeData struct {
	Chrome
	Search      dto.SearchForm
	Jobs        *html.Node
	Freelancers *html.Node
}

// DashboardData страница дашборда.
type DashboardData struct {
	Chrome
	Section string
	Title   string
	Menu    []MenuItem
	Actions []Action
	Content *html.Node
}

func layout(page string, c Chrome, main *html.Node) *html.Node {
	return Document(El("html", A("lang", "en"),
		El("head", nil,
			El("meta", A("charset", "utf-8")),
			El("meta", A("name", "viewport", "content", "width=device-width, initial-scale=1")),
			El("title", nil, Text("FreelanceHub")),
		),
		El("body", A("data-page", page),
			navbar(c),
			Notices(c.Notices),
			main,
			Modals(c),
			El("script", nil, Text(pageScript)),
		),
	))
}

func navbar(c Chrome) *html.Node {
	auth := El("div", A("class", "nav-auth", "id", "nav-auth"))
	if c.Viewer == nil {
		Append(auth,
			ModalButton("btn-secondary", "Login", modal.Login),
			ModalButton("btn-primary", "Sign Up", modal.Register),
		)
	} else {
		Append(auth, Div("user-menu",
			Span("user-greeting", Text(c.Greeting)),
			El("a", A("href", "/dashboard/", "class", "btn-secondary"), Text("Dashboard")),
			El("form", A("method", "post", "action", "/auth/logout", "class", "inline-form"),
				El("button", A("type", "submit", "class", "btn-primary"), Text("Logout")),
			),
		))
	}
	return El("nav", A("class", "navbar"),
		Div("nav-container",
			El("a", A("href", "/", "class", "nav-logo"), Text("FreelanceHub")),
			El("div", A("class", "nav-menu"),
				El("a", A("href", "/#jobs", "class", "nav-link"), Text("Find Work")),
				El("a", A("href", "/#freelancers", "class", "nav-link"), Text("Find Talent")),
			),
			auth,
		),
	)
}

// Notices контейнер уведомлений.
func Notices(list []Notice) *html.Node {
	box := El("div", A("id", "notices", "class", "notices"))
	for _, n := range list {
		Append(box, El("div", A("class", n.Kind+"-message", "data-notice", n.ID), Text(n.Text)))
	}
	return box
}

// Modal оболочка окна. Клик по затемнению и крестик закрывают его.
func Modal(name, title string, visible bool, body *html.Node) *html.Node {
	class := "modal"
	if visible {
		class = "modal show"
	}
	return El("div", A("id", name, "class", class, "data-modal", name),
		Div("modal-content",
			El("form", A("method", "post", "action", "/ui/modals/"+name+"/close", "class", "inline-form modal-close-form"),
				El("button", A("type", "submit", "class", "close", "data-modal-close", name), Text("×")),
			),
			El("h2", nil, Text(title)),
			body,
		),
	)
}

// Modals все окна страницы в текущем состоянии видимости.
func Modals(c Chrome) *html.Node {
	v := c.Values
	return El("div", A("id", "modals"),
		Modal(modal.Login, "Login", c.Modals[modal.Login], LoginForm(v.Login, c.Banners[dto.FormLogin])),
		Modal(modal.Register, "Sign Up", c.Modals[modal.Register], RegisterForm(v.Register, c.Banners[dto.FormRegister])),
		Modal(modal.Apply, "Apply for Job", c.Modals[modal.Apply], ApplyForm(v.Apply, c.Banners[dto.FormApply])),
		If(c.Viewer.IsRecruiter(),
			Modal(modal.JobPost, "Post a New Job", c.Modals[modal.JobPost], JobPostForm(v.Job, c.Categories, c.Banners[dto.FormJobPost]))),
		If(c.Viewer != nil,
			Modal(modal.ProfileEdit, "Edit Profile", c.Modals[modal.ProfileEdit], ProfileForm(v.Profile, c.Viewer.Role(), c.Banners[dto.FormProfile]))),
	)
}

// HomePage публичная страница: поиск, вакансии, фрилансеры.
func HomePage(d HomeData) *html.Node {
	cats := []option{{"", "All Categories"}}
	for _, c := range d.Categories {
		cats = append(cats, option{strconv.FormatInt(c.ID, 10), c.Name})
	}

	search := El("form", A("id", "job-search-form", "method", "get", "action", "/", "class", "search-container"),
		Div("search-box",
			El("input", A("type", "text", "id", "job-search", "name", "q", "value", d.Search.Q, "placeholder", "Search for jobs...")),
		),
		Div("filters",
			selectBox("category", "category-filter", d.Search.Category, cats),
			selectBox("job_type", "job-type-filter", d.Search.JobType, []option{
				{"", "All Types"},
				{models.JobTypeFixed, "Fixed Price"},
				{models.JobTypeHourly, "Hourly"},
			}),
			selectBox("experience_level", "experience-filter", d.Search.ExperienceLevel, []option{
				{"", "All Levels"},
				{models.ExperienceLevelBeginner, "Beginner"},
				{models.ExperienceLevelIntermediate, "Intermediate"},
				{models.ExperienceLevelExpert, "Expert"},
			}),
			El("button", A("type", "submit", "class", "btn-primary"), Text("Search")),
		),
	)

	main := El("main", nil,
		El("section", A("class", "hero"),
			El("h1", nil, Text("Find the perfect freelance services for your business")),
			search,
		),
		El("section", A("id", "jobs", "class", "jobs-section"),
			El("h2", nil, Text("Latest Jobs")),
			El("div", A("id", "jobs-container"), d.Jobs),
		),
		El("section", A("id", "freelancers", "class", "freelancers-section"),
			El("h2", nil, Text("Top Freelancers")),
			El("div", A("id", "freelancers-container"), d.Freelancers),
		),
	)
	return layout("home", d.Chrome, main)
}

// DashboardBody меню и область контента. Возвращается и как фрагмент при смене секции.
func DashboardBody(d DashboardData) *html.Node {
	menu := El("nav", A("class", "sidebar-menu", "id", "sidebar-menu"))
	for _, item := range d.Menu {
		class := "sidebar-item"
		if item.Active {
			class += " active"
		}
		Append(menu, El("a", A("href", "/dashboard/?section="+item.Section, "class", class, "data-section", item.Section), Text(item.Label)))
	}

	actions := Div("dashboard-actions")
	for _, a := range d.Actions {
		class := "btn-secondary"
		if a.Primary {
			class = "btn-primary"
		}
		if a.Modal != "" {
			Append(actions, ModalButton(class, a.Label, a.Modal))
		} else {
			Append(actions, SectionLink(class, a.Label, a.Section))
		}
	}

	return El("div", A("id", "dashboard-body", "class", "dashboard-layout", "data-active-section", d.Section),
		El("aside", A("class", "sidebar"), menu),
		El("div", A("class", "dashboard-main"),
			Div("dashboard-header",
				El("h1", A("id", "dashboard-title"), Text(d.Title)),
				actions,
			),
			El("div", A("id", "dashboard-content"), d.Content),
		),
	)
}

// DashboardPage полная страница дашборда.
func DashboardPage(d DashboardData) *html.Node {
	return layout("dashboard", d.Chrome, El("main", A("class", "dashboard"), DashboardBody(d)))
}
