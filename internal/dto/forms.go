package dto

// FormID идентификатор формы; совпадает с id элемента form на странице.
type FormID string

const (
	FormLogin    FormID = "login-form"
	FormRegister FormID = "register-form"
	FormApply    FormID = "apply-form"
	FormJobPost  FormID = "job-post-form"
	FormProfile  FormID = "profile-edit-form"
	// FormApplication действия над строкой отклика (accept/reject/withdraw).
	FormApplication FormID = "application-actions"
)

// FormValues последние отправленные значения форм для повторного показа.
type FormValues struct {
	Login    LoginForm
	Register RegisterForm
	Apply    ApplyForm
	Job      JobPostForm
	Profile  ProfileForm
}
