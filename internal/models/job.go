package models

import "strings"

// Job описывает вакансию. Бюджет заполнен для fixed, ставка для hourly.
type Job struct {
	ID              int64   `json:"id"`
	Title           string  `json:"title"`
	Description     string  `json:"description"`
	Category        Ref     `json:"category"`
	CategoryID      int64   `json:"category_id,omitempty"`
	Recruiter       Ref     `json:"recruiter"`
	JobType         string  `json:"job_type"`
	BudgetMin       Decimal `json:"budget_min"`
	BudgetMax       Decimal `json:"budget_max"`
	HourlyRateMin   Decimal `json:"hourly_rate_min"`
	HourlyRateMax   Decimal `json:"hourly_rate_max"`
	ExperienceLevel string  `json:"experience_level"`
	SkillsRequired  string  `json:"skills_required"`
	Deadline        *string `json:"deadline,omitempty"`
	Status          string  `json:"status"`
	CreatedAt       string  `json:"created_at"`
}

// Matches проверяет вхождение term (без учёта регистра) в заголовок, описание или навыки.
func (j *Job) Matches(term string) bool {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return true
	}
	return strings.Contains(strings.ToLower(j.Title), term) ||
		strings.Contains(strings.ToLower(j.Description), term) ||
		strings.Contains(strings.ToLower(j.SkillsRequired), term)
}

// SplitSkills разбивает строку навыков через запятую, обрезает пробелы и выкидывает пустые.
func SplitSkills(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	skills := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			skills = append(skills, s)
		}
	}
	return skills
}

// Application описывает отклик фрилансера на вакансию.
type Application struct {
	ID                int64     `json:"id"`
	Job               *Job      `json:"job"`
	Freelancer        *Identity `json:"freelancer"`
	CoverLetter       string    `json:"cover_letter"`
	ProposedRate      Decimal   `json:"proposed_rate"`
	EstimatedDuration string    `json:"estimated_duration"`
	Status            string    `json:"status"`
	AppliedAt         string    `json:"applied_at"`
}

// IsPending сообщает, ждёт ли отклик решения.
func (a *Application) IsPending() bool {
	return a.Status == ApplicationStatusPending
}

// CountApplications считает отклики с указанным статусом.
func CountApplications(apps []Application, status string) int {
	n := 0
	for i := range apps {
		if apps[i].Status == status {
			n++
		}
	}
	return n
}

// CountJobs считает вакансии с указанным статусом.
func CountJobs(jobs []Job, status string) int {
	n := 0
	for i := range jobs {
		if jobs[i].Status == status {
			n++
		}
	}
	return n
}
