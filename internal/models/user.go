package models

import "strings"

// Identity описывает аутентифицированного пользователя, как его отдаёт /accounts/users/me/.
type Identity struct {
	ID         int64  `json:"id"`
	Username   string `json:"username"`
	Email      string `json:"email"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	UserType   string `json:"user_type"`
	Phone      string `json:"phone"`
	Bio        string `json:"bio"`
	Location   string `json:"location"`
	Website    string `json:"website"`
	DateJoined string `json:"date_joined,omitempty"`
}

// DisplayName возвращает имя, если оно задано, иначе логин.
func (i *Identity) DisplayName() string {
	if i == nil {
		return ""
	}
	if i.FirstName != "" {
		return i.FirstName
	}
	return i.Username
}

// FullName склеивает имя и фамилию.
func (i *Identity) FullName() string {
	if i == nil {
		return ""
	}
	return strings.TrimSpace(i.FirstName + " " + i.LastName)
}

// IsFreelancer проверяет роль фрилансера.
func (i *Identity) IsFreelancer() bool {
	return i != nil && i.UserType == UserTypeFreelancer
}

// IsRecruiter проверяет роль заказчика.
func (i *Identity) IsRecruiter() bool {
	return i != nil && i.UserType == UserTypeRecruiter
}

// Role возвращает роль или пустую строку для анонима.
func (i *Identity) Role() string {
	if i == nil {
		return ""
	}
	return i.UserType
}

// Clone возвращает независимую копию.
func (i *Identity) Clone() *Identity {
	if i == nil {
		return nil
	}
	cp := *i
	return &cp
}

// Credentials данные формы входа.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Registration данные формы регистрации.
type Registration struct {
	Username        string `json:"username"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"password_confirm"`
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	UserType        string `json:"user_type"`
}
