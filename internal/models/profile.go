package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Profile ролевой профиль. Реализации: *FreelancerProfile и *RecruiterProfile.
// Разбор по типу выполняется через type switch, наличие полей не угадывается.
type Profile interface {
	ProfileType() string
	ProfileID() int64
}

// FreelancerProfile профиль исполнителя.
type FreelancerProfile struct {
	ID                int64     `json:"id,omitempty"`
	User              *Identity `json:"user,omitempty"`
	Skills            string    `json:"skills"`
	HourlyRate        Decimal   `json:"hourly_rate"`
	ExperienceYears   int       `json:"experience_years"`
	PortfolioURL      string    `json:"portfolio_url"`
	Rating            Decimal   `json:"rating"`
	CompletedProjects int       `json:"completed_projects"`
}

// ProfileType реализует Profile.
func (p *FreelancerProfile) ProfileType() string { return UserTypeFreelancer }

// ProfileID реализует Profile.
func (p *FreelancerProfile) ProfileID() int64 { return p.ID }

// RecruiterProfile профиль заказчика.
type RecruiterProfile struct {
	ID                 int64     `json:"id,omitempty"`
	User               *Identity `json:"user,omitempty"`
	CompanyName        string    `json:"company_name"`
	CompanySize        string    `json:"company_size"`
	Industry           string    `json:"industry"`
	CompanyDescription string    `json:"company_description"`
	Verified           bool      `json:"verified"`
}

// ProfileType реализует Profile.
func (p *RecruiterProfile) ProfileType() string { return UserTypeRecruiter }

// ProfileID реализует Profile.
func (p *RecruiterProfile) ProfileID() int64 { return p.ID }

// AccountProfile составной ответ /accounts/profile/: пользователь плюс ровно один ролевой профиль.
type AccountProfile struct {
	User    Identity
	Profile Profile
}

// UnmarshalJSON выбирает вариант профиля по user.user_type. Отсутствующий профиль
// превращается в пустой вариант нужного типа.
func (a *AccountProfile) UnmarshalJSON(b []byte) error {
	var raw struct {
		User    Identity        `json:"user"`
		Profile json.RawMessage `json:"profile"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	profile, err := DecodeProfile(raw.User.UserType, raw.Profile)
	if err != nil {
		return err
	}

	a.User = raw.User
	a.Profile = profile
	return nil
}

// MarshalJSON собирает ответ в той же форме, что отдаёт бэкенд.
func (a AccountProfile) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		User    Identity `json:"user"`
		Profile Profile  `json:"profile"`
	}{User: a.User, Profile: a.Profile})
}

// DecodeProfile разбирает ролевой профиль для userType.
func DecodeProfile(userType string, raw json.RawMessage) (Profile, error) {
	empty := len(bytes.TrimSpace(raw)) == 0 || string(bytes.TrimSpace(raw)) == "null"

	switch userType {
	case UserTypeFreelancer:
		p := &FreelancerProfile{}
		if !empty {
			if err := json.Unmarshal(raw, p); err != nil {
				return nil, fmt.Errorf("models: профиль фрилансера: %w", err)
			}
		}
		return p, nil
	case UserTypeRecruiter:
		p := &RecruiterProfile{}
		if !empty {
			if err := json.Unmarshal(raw, p); err != nil {
				return nil, fmt.Errorf("models: профиль заказчика: %w", err)
			}
		}
		return p, nil
	default:
		return nil, fmt.Errorf("models: неизвестный тип пользователя %q", userType)
	}
}
