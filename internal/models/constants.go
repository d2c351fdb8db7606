package models

// UserType константы ролей пользователя
const (
	UserTypeFreelancer = "freelancer"
	UserTypeRecruiter  = "recruiter"
)

// JobType константы типов оплаты вакансии
const (
	JobTypeFixed  = "fixed"
	JobTypeHourly = "hourly"
)

// JobStatus константы статусов вакансии
const (
	JobStatusOpen       = "open"
	JobStatusInProgress = "in_progress"
	JobStatusCompleted  = "completed"
	JobStatusCancelled  = "cancelled"
)

// ApplicationStatus константы статусов отклика
const (
	ApplicationStatusPending   = "pending"
	ApplicationStatusAccepted  = "accepted"
	ApplicationStatusRejected  = "rejected"
	ApplicationStatusWithdrawn = "withdrawn"
)

// ExperienceLevel константы уровней опыта
const (
	ExperienceLevelBeginner     = "beginner"
	ExperienceLevelIntermediate = "intermediate"
	ExperienceLevelExpert       = "expert"
)

// ValidUserTypes список валидных ролей
var ValidUserTypes = map[string]struct{}{
	UserTypeFreelancer: {},
	UserTypeRecruiter:  {},
}

// ValidJobTypes список валидных типов оплаты
var ValidJobTypes = map[string]struct{}{
	JobTypeFixed:  {},
	JobTypeHourly: {},
}

// ValidExperienceLevels список валидных уровней опыта
var ValidExperienceLevels = map[string]struct{}{
	ExperienceLevelBeginner:     {},
	ExperienceLevelIntermediate: {},
	ExperienceLevelExpert:       {},
}

// applicationTransitions описывает допустимые переходы статуса отклика и роль, которая их выполняет.
var applicationTransitions = map[string]map[string]string{
	ApplicationStatusPending: {
		ApplicationStatusAccepted:  UserTypeRecruiter,
		ApplicationStatusRejected:  UserTypeRecruiter,
		ApplicationStatusWithdrawn: UserTypeFreelancer,
	},
}

// CanTransitionApplication сообщает, может ли пользователь с ролью role перевести отклик из from в to.
// accepted, rejected и withdrawn терминальны.
func CanTransitionApplication(role, from, to string) bool {
	targets, ok := applicationTransitions[from]
	if !ok {
		return false
	}
	owner, ok := targets[to]
	return ok && owner == role
}
