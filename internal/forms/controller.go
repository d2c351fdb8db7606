// Package forms отправляет формы сайта на бэкенд и держит их состояние:
// последние значения, баннер ошибки и признак отправки.
package forms

import (
	"context"
	"strconv"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/freelance-web/internal/dashboard"
	"github.com/ignatzorin/freelance-web/internal/dto"
	"github.com/ignatzorin/freelance-web/internal/modal"
	"github.com/ignatzorin/freelance-web/internal/models"
	"github.com/ignatzorin/freelance-web/internal/pkg/apperror"
)

// Тексты уведомлений.
const (
	MsgLoginOK         = "Login successful!"
	MsgRegisterOK      = "Registration successful! Please log in."
	MsgApplyOK         = "Application submitted successfully!"
	MsgJobPostedOK     = "Job posted successfully!"
	MsgProfileOK       = "Profile updated successfully!"
	MsgStatusFailed    = "Failed to update application"
	MsgFreelancersOnly = "Only freelancers can apply to jobs."
)

// Тексты баннеров, когда бэкенд не прислал своих сообщений.
const (
	fallbackLogin    = "Login failed"
	fallbackRegister = "Registration failed"
	fallbackApply    = "Failed to submit application"
	fallbackJob      = "Failed to post job"
	fallbackProfile  = "Failed to update profile"
	fallbackNetwork  = "Network error. Please try again."
)

// Gateway операции записи API клиента.
type Gateway interface {
	Register(ctx context.Context, reg models.Registration) (*models.Identity, error)
	Apply(ctx context.Context, payload dto.ApplicationPayload) (*models.Application, error)
	CreateJob(ctx context.Context, payload dto.JobPayload) (*models.Job, error)
	UpdateMe(ctx context.Context, payload dto.UserUpdatePayload) (*models.Identity, error)
	AccountProfile(ctx context.Context) (*models.AccountProfile, error)
	SaveFreelancerProfile(ctx context.Context, id int64, payload dto.FreelancerProfilePayload) error
	SaveRecruiterProfile(ctx context.Context, id int64, payload dto.RecruiterProfilePayload) error
	UpdateApplicationStatus(ctx context.Context, id int64, status string) error
	WithdrawApplication(ctx context.Context, id int64) error
}

// Session пользователь браузерной сессии.
type Session interface {
	Identity() *models.Identity
	Set(id *models.Identity)
	Login(ctx context.Context, creds models.Credentials) (*models.Identity, error)
}

// Sections кабинет, который перезагружается после успешной записи.
type Sections interface {
	Refresh(ctx context.Context) (dashboard.State, error)
	Open(ctx context.Context, name string) (dashboard.State, error)
}

// Notices доска уведомлений.
type Notices interface {
	Success(text string) string
	Error(text string) string
}

// Controller состояние форм одной браузерной сессии.
type Controller struct {
	gw       Gateway
	session  Session
	sections Sections
	modals   *modal.Manager
	notices  Notices
	log      *logrus.Entry

	mu       sync.Mutex
	inflight map[dto.FormID]bool
	banners  map[dto.FormID]string
	values   dto.FormValues
}

// Deps зависимости контроллера.
type Deps struct {
	Gateway  Gateway
	Session  Session
	Sections Sections
	Modals   *modal.Manager
	Notices  Notices
	Log      *logrus.Entry
}

// NewController собирает контроллер форм.
func NewController(d Deps) *Controller {
	return &Controller{
		gw:       d.Gateway,
		session:  d.Session,
		sections: d.Sections,
		modals:   d.Modals,
		notices:  d.Notices,
		log:      d.Log,
		inflight: make(map[dto.FormID]bool),
		banners:  make(map[dto.FormID]string),
	}
}

// begin помечает форму отправляемой. Повторная отправка до end получает ErrBusy.
func (c *Controller) begin(id dto.FormID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.inflight[id] {
		return apperror.ErrBusy
	}
	c.inflight[id] = true
	return nil
}

func (c *Controller) end(id dto.FormID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.inflight, id)
}

// Busy сообщает, отправляется ли форма сейчас.
func (c *Controller) Busy(id dto.FormID) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inflight[id]
}

// Banners копия баннеров ошибок по формам.
func (c *Controller) Banners() map[dto.FormID]string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[dto.FormID]string, len(c.banners))
	for k, v := range c.banners {
		out[k] = v
	}
	return out
}

// Values последние значения форм.
func (c *Controller) Values() dto.FormValues {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.values
}

// ClearBanner убирает баннер формы.
func (c *Controller) ClearBanner(id dto.FormID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.banners, id)
}

func (c *Controller) update(fn func(v *dto.FormValues)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fn(&c.values)
}

// fail заменяет баннер формы текстом ошибки.
func (c *Controller) fail(id dto.FormID, err error, fallback string) {
	msg := Message(err, fallback)

	c.mu.Lock()
	c.banners[id] = msg
	c.mu.Unlock()

	c.log.WithError(err).WithField("form", string(id)).Warn("forms: отправка не удалась")
}

// succeed убирает баннер, закрывает окно формы и показывает уведомление.
func (c *Controller) succeed(id dto.FormID, window, notice string) {
	c.ClearBanner(id)
	if window != "" {
		_ = c.modals.Close(window)
	}
	c.notices.Success(notice)
}

// refresh перезагружает открытую секцию кабинета. Вытеснение новой
// навигацией ошибкой не считается.
func (c *Controller) refresh(ctx context.Context) {
	if c.sections == nil {
		return
	}
	if _, err := c.sections.Refresh(ctx); err != nil && !apperror.IsStale(err) {
		c.log.WithError(err).Warn("forms: не удалось обновить секцию")
	}
}

// open переводит кабинет в секцию, данные которой изменила запись.
func (c *Controller) open(ctx context.Context, section string) {
	if c.sections == nil {
		return
	}
	if _, err := c.sections.Open(ctx, section); err != nil && !apperror.IsStale(err) {
		c.log.WithError(err).WithField("section", section).Warn("forms: не удалось открыть секцию")
	}
}

// Message текст баннера для ошибки записи: сообщения полей через пробел,
// иначе сообщение бэкенда, иначе fallback.
func Message(err error, fallback string) string {
	appErr, ok := apperror.As(err)
	if !ok {
		return fallback
	}
	if msg := appErr.Flatten(); msg != "" {
		return msg
	}
	if appErr.Code == apperror.ErrCodeTransport {
		return fallbackNetwork
	}
	if appErr.UpstreamStatus != 0 && appErr.Message != "" {
		return appErr.Message
	}
	return fallback
}

// Login входит под учётными данными формы.
func (c *Controller) Login(ctx context.Context, v dto.LoginForm) error {
	if err := c.begin(dto.FormLogin); err != nil {
		return err
	}
	defer c.end(dto.FormLogin)

	c.update(func(fv *dto.FormValues) { fv.Login = dto.LoginForm{Username: v.Username} })

	creds := models.Credentials{Username: strings.TrimSpace(v.Username), Password: v.Password}
	if _, err := c.session.Login(ctx, creds); err != nil {
		c.fail(dto.FormLogin, err, fallbackLogin)
		return err
	}

	c.update(func(fv *dto.FormValues) { fv.Login = dto.LoginForm{} })
	c.succeed(dto.FormLogin, modal.Login, MsgLoginOK)
	return nil
}

// Register создаёт пользователя и открывает окно входа.
func (c *Controller) Register(ctx context.Context, v dto.RegisterForm) error {
	if err := c.begin(dto.FormRegister); err != nil {
		return err
	}
	defer c.end(dto.FormRegister)

	kept := v
	kept.Password, kept.PasswordConfirm = "", ""
	c.update(func(fv *dto.FormValues) { fv.Register = kept })

	reg := models.Registration{
		Username:        strings.TrimSpace(v.Username),
		Email:           strings.TrimSpace(v.Email),
		Password:        v.Password,
		PasswordConfirm: v.PasswordConfirm,
		FirstName:       strings.TrimSpace(v.FirstName),
		LastName:        strings.TrimSpace(v.LastName),
		UserType:        v.UserType,
	}
	if _, err := c.gw.Register(ctx, reg); err != nil {
		c.fail(dto.FormRegister, err, fallbackRegister)
		return err
	}

	c.update(func(fv *dto.FormValues) {
		fv.Register = dto.RegisterForm{}
		fv.Login = dto.LoginForm{Username: reg.Username}
	})
	c.succeed(dto.FormRegister, modal.Register, MsgRegisterOK)
	_ = c.modals.Show(modal.Login)
	return nil
}

// OpenApply реакция на кнопку вакансии: аноним видит окно входа, заказчик
// уведомление, фрилансер окно отклика на jobID.
func (c *Controller) OpenApply(jobID int64) {
	viewer := c.session.Identity()
	switch {
	case viewer == nil:
		_ = c.modals.Show(modal.Login)
	case !viewer.IsFreelancer():
		c.notices.Error(MsgFreelancersOnly)
	default:
		c.ClearBanner(dto.FormApply)
		c.update(func(fv *dto.FormValues) {
			fv.Apply = dto.ApplyForm{JobID: strconv.FormatInt(jobID, 10)}
		})
		_ = c.modals.Show(modal.Apply)
	}
}

// Apply отправляет отклик фрилансера.
func (c *Controller) Apply(ctx context.Context, v dto.ApplyForm) error {
	if err := c.begin(dto.FormApply); err != nil {
		return err
	}
	defer c.end(dto.FormApply)

	if viewer := c.session.Identity(); !viewer.IsFreelancer() {
		c.notices.Error(MsgFreelancersOnly)
		return apperror.ErrForbidden
	}

	c.update(func(fv *dto.FormValues) { fv.Apply = v })
	if _, err := c.gw.Apply(ctx, BuildApplicationPayload(v)); err != nil {
		c.fail(dto.FormApply, err, fallbackApply)
		return err
	}

	c.update(func(fv *dto.FormValues) { fv.Apply = dto.ApplyForm{} })
	c.succeed(dto.FormApply, modal.Apply, MsgApplyOK)
	c.refresh(ctx)
	return nil
}

// PostJob публикует вакансию заказчика.
func (c *Controller) PostJob(ctx context.Context, v dto.JobPostForm) error {
	if err := c.begin(dto.FormJobPost); err != nil {
		return err
	}
	defer c.end(dto.FormJobPost)

	if viewer := c.session.Identity(); !viewer.IsRecruiter() {
		return apperror.ErrForbidden
	}

	c.update(func(fv *dto.FormValues) { fv.Job = v })
	if _, err := c.gw.CreateJob(ctx, BuildJobPayload(v)); err != nil {
		c.fail(dto.FormJobPost, err, fallbackJob)
		return err
	}

	c.update(func(fv *dto.FormValues) { fv.Job = dto.JobPostForm{} })
	c.succeed(dto.FormJobPost, modal.JobPost, MsgJobPostedOK)
	c.open(ctx, dashboard.SectionJobs)
	return nil
}

// PrefillProfile заполняет форму профиля текущими данными с бэкенда.
func (c *Controller) PrefillProfile(ctx context.Context) error {
	acc, err := c.gw.AccountProfile(ctx)
	if err != nil {
		return err
	}
	v := ProfileFormFrom(acc)
	c.update(func(fv *dto.FormValues) { fv.Profile = v })
	return nil
}

// UpdateProfile сохраняет пользователя, затем ролевой профиль.
func (c *Controller) UpdateProfile(ctx context.Context, v dto.ProfileForm) error {
	if err := c.begin(dto.FormProfile); err != nil {
		return err
	}
	defer c.end(dto.FormProfile)

	viewer := c.session.Identity()
	if viewer == nil {
		return apperror.ErrUnauthenticated
	}

	c.update(func(fv *dto.FormValues) { fv.Profile = v })

	updated, err := c.gw.UpdateMe(ctx, BuildUserPayload(v))
	if err != nil {
		c.fail(dto.FormProfile, err, fallbackProfile)
		return err
	}
	c.session.Set(updated)

	if err := c.saveRoleProfile(ctx, updated, v); err != nil {
		c.fail(dto.FormProfile, err, fallbackProfile)
		return err
	}

	c.succeed(dto.FormProfile, modal.ProfileEdit, MsgProfileOK)
	c.open(ctx, dashboard.SectionProfile)
	return nil
}

func (c *Controller) saveRoleProfile(ctx context.Context, viewer *models.Identity, v dto.ProfileForm) error {
	var id int64
	acc, err := c.gw.AccountProfile(ctx)
	if err != nil && !apperror.IsUpstream(err) {
		return err
	}
	if acc != nil && acc.Profile != nil {
		id = acc.Profile.ProfileID()
	}

	switch {
	case viewer.IsFreelancer():
		return c.gw.SaveFreelancerProfile(ctx, id, BuildFreelancerPayload(v))
	case viewer.IsRecruiter():
		return c.gw.SaveRecruiterProfile(ctx, id, BuildRecruiterPayload(v))
	default:
		return nil
	}
}

// SetApplicationStatus принимает или отклоняет отклик.
func (c *Controller) SetApplicationStatus(ctx context.Context, id int64, status string) error {
	viewer := c.session.Identity()
	if !models.CanTransitionApplication(viewer.Role(), models.ApplicationStatusPending, status) ||
		status == models.ApplicationStatusWithdrawn {
		c.notices.Error(MsgStatusFailed)
		return apperror.ErrForbidden
	}
	return c.applicationAction(ctx, status, func() error {
		return c.gw.UpdateApplicationStatus(ctx, id, status)
	})
}

// Withdraw отзывает отклик фрилансера.
func (c *Controller) Withdraw(ctx context.Context, id int64) error {
	viewer := c.session.Identity()
	if !models.CanTransitionApplication(viewer.Role(), models.ApplicationStatusPending, models.ApplicationStatusWithdrawn) {
		c.notices.Error(MsgStatusFailed)
		return apperror.ErrForbidden
	}
	return c.applicationAction(ctx, models.ApplicationStatusWithdrawn, func() error {
		return c.gw.WithdrawApplication(ctx, id)
	})
}

func (c *Controller) applicationAction(ctx context.Context, status string, call func() error) error {
	if err := c.begin(dto.FormApplication); err != nil {
		return err
	}
	defer c.end(dto.FormApplication)

	if err := call(); err != nil {
		c.log.WithError(err).WithField("status", status).Warn("forms: статус отклика не обновлён")
		c.notices.Error(MsgStatusFailed)
		return err
	}

	c.notices.Success("Application " + status + "!")
	c.open(ctx, dashboard.SectionApplications)
	return nil
}
