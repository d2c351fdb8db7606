package view

import (
	"math"
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/ignatzorin/freelance-web/internal/models"
)

// Лимиты отображения навыков.
const (
	JobCardSkills        = 5
	FreelancerCardSkills = 3
	HomeFreelancers      = 6
	RecentApplications   = 5
)

// Budget строка бюджета: fixed "$min - $max", иначе "$min - $max/hr".
func Budget(j models.Job) string {
	if j.JobType == models.JobTypeFixed {
		return "$" + j.BudgetMin.String() + " - $" + j.BudgetMax.String()
	}
	return "$" + j.HourlyRateMin.String() + " - $" + j.HourlyRateMax.String() + "/hr"
}

// Stars floor(r) закрашенных и остаток пустых звёзд, всего пять. r зажимается в [0,5].
func Stars(r float64) string {
	if math.IsNaN(r) || r < 0 {
		r = 0
	}
	if r > 5 {
		r = 5
	}
	full := int(math.Floor(r))
	return strings.Repeat("★", full) + strings.Repeat("☆", 5-full)
}

// Skills делит строку навыков и обрезает до max. Исходные данные не меняются.
func Skills(raw string, max int) []string {
	skills := models.SplitSkills(raw)
	if max >= 0 && len(skills) > max {
		skills = skills[:max]
	}
	return skills
}

// FormatDate "Jan 2, 2006". Неразборчивая дата возвращается как есть.
func FormatDate(raw string) string {
	if raw == "" {
		return ""
	}
	layouts := []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05.999999", "2006-01-02"}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format("Jan 2, 2006")
		}
	}
	return raw
}

// SectionTitle имя секции с заглавной первой буквой.
func SectionTitle(name string) string {
	if name == "" {
		return ""
	}
	r, size := utf8.DecodeRuneInString(name)
	return string(unicode.ToUpper(r)) + name[size:]
}

// Rating значение рейтинга с одним знаком после запятой.
func Rating(d models.Decimal) (float64, string) {
	f, ok := d.Float()
	if !ok {
		f = 0
	}
	return f, strconv.FormatFloat(f, 'f', 1, 64)
}

// StatusClass css-класс бейджа статуса: in_progress -> in-progress.
func StatusClass(status string) string {
	return "status-badge " + strings.ReplaceAll(status, "_", "-")
}

func orDefault(v, fallback string) string {
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	return v
}
