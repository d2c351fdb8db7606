package forms

import (
	"strconv"
	"strings"

	"github.com/ignatzorin/freelance-web/internal/dto"
	"github.com/ignatzorin/freelance-web/internal/models"
)

// BuildJobPayload собирает вакансию. Для hourly отправляется ставка,
// для остальных типов (и пустого) бюджет.
func BuildJobPayload(v dto.JobPostForm) dto.JobPayload {
	p := dto.JobPayload{
		Title:           strings.TrimSpace(v.Title),
		Description:     strings.TrimSpace(v.Description),
		CategoryID:      dto.OptionalInt(v.CategoryID),
		JobType:         v.JobType,
		ExperienceLevel: v.ExperienceLevel,
		SkillsRequired:  strings.TrimSpace(v.SkillsRequired),
		Deadline:        dto.OptionalString(v.Deadline),
	}
	if v.JobType == models.JobTypeHourly {
		p.HourlyRateMin = dto.OptionalFloat(v.HourlyRateMin)
		p.HourlyRateMax = dto.OptionalFloat(v.HourlyRateMax)
	} else {
		p.BudgetMin = dto.OptionalFloat(v.BudgetMin)
		p.BudgetMax = dto.OptionalFloat(v.BudgetMax)
	}
	return p
}

// BuildApplicationPayload собирает отклик.
func BuildApplicationPayload(v dto.ApplyForm) dto.ApplicationPayload {
	return dto.ApplicationPayload{
		JobID:             dto.OptionalInt(v.JobID),
		CoverLetter:       strings.TrimSpace(v.CoverLetter),
		ProposedRate:      dto.OptionalString(v.ProposedRate),
		EstimatedDuration: strings.TrimSpace(v.EstimatedDuration),
	}
}

// BuildUserPayload общие поля пользователя.
func BuildUserPayload(v dto.ProfileForm) dto.UserUpdatePayload {
	return dto.UserUpdatePayload{
		FirstName: strings.TrimSpace(v.FirstName),
		LastName:  strings.TrimSpace(v.LastName),
		Email:     strings.TrimSpace(v.Email),
		Phone:     strings.TrimSpace(v.Phone),
		Bio:       strings.TrimSpace(v.Bio),
		Location:  strings.TrimSpace(v.Location),
		Website:   strings.TrimSpace(v.Website),
	}
}

// BuildFreelancerPayload поля профиля фрилансера.
func BuildFreelancerPayload(v dto.ProfileForm) dto.FreelancerProfilePayload {
	p := dto.FreelancerProfilePayload{
		Skills:       strings.TrimSpace(v.Skills),
		HourlyRate:   dto.OptionalString(v.HourlyRate),
		PortfolioURL: strings.TrimSpace(v.PortfolioURL),
	}
	if n, err := strconv.Atoi(strings.TrimSpace(v.ExperienceYears)); err == nil {
		p.ExperienceYears = &n
	}
	return p
}

// BuildRecruiterPayload поля профиля заказчика.
func BuildRecruiterPayload(v dto.ProfileForm) dto.RecruiterProfilePayload {
	return dto.RecruiterProfilePayload{
		CompanyName:        strings.TrimSpace(v.CompanyName),
		CompanySize:        strings.TrimSpace(v.CompanySize),
		Industry:           strings.TrimSpace(v.Industry),
		CompanyDescription: strings.TrimSpace(v.CompanyDescription),
	}
}

// ProfileFormFrom значения формы профиля из ответа /accounts/profile/.
func ProfileFormFrom(acc *models.AccountProfile) dto.ProfileForm {
	if acc == nil {
		return dto.ProfileForm{}
	}
	u := acc.User
	v := dto.ProfileForm{
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		Phone:     u.Phone,
		Bio:       u.Bio,
		Location:  u.Location,
		Website:   u.Website,
	}

	switch p := acc.Profile.(type) {
	case *models.FreelancerProfile:
		v.Skills = p.Skills
		v.HourlyRate = p.HourlyRate.String()
		v.PortfolioURL = p.PortfolioURL
		if p.ExperienceYears > 0 {
			v.ExperienceYears = strconv.Itoa(p.ExperienceYears)
		}
	case *models.RecruiterProfile:
		v.CompanyName = p.CompanyName
		v.CompanySize = p.CompanySize
		v.Industry = p.Industry
		v.CompanyDescription = p.CompanyDescription
	}
	return v
}
