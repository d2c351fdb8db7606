package dashboard

import (
	"context"
	"fmt"
	"runtime/debug"
	"strconv"
	"sync"

	"golang.org/x/net/html"

	"github.com/ignatzorin/freelance-web/internal/api"
	"github.com/ignatzorin/freelance-web/internal/goroutine"
	"github.com/ignatzorin/freelance-web/internal/models"
	"github.com/ignatzorin/freelance-web/internal/pkg/apperror"
	"github.com/ignatzorin/freelance-web/internal/view"
)

// tolerate превращает ответ бэкенда с кодом не 2xx в пустой список.
// Транспортные ошибки и ошибки разбора остаются ошибками.
func tolerate[T any](items []T, err error) ([]T, error) {
	if err != nil && apperror.IsUpstream(err) {
		return nil, nil
	}
	return items, err
}

// parallel запускает fns одновременно и ждёт все. Возвращает первую ошибку.
// Panic в ветке становится ошибкой RENDER_ERROR.
func (c *Controller) parallel(fns ...func() error) error {
	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		first error
	)
	for _, fn := range fns {
		fn := fn
		wg.Add(1)
		goroutine.SafeGo(func() {
			defer wg.Done()
			if err := c.guard(fn); err != nil {
				mu.Lock()
				if first == nil {
					first = err
				}
				mu.Unlock()
			}
		})
	}
	wg.Wait()
	return first
}

func (c *Controller) guard(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			c.log.WithField("stack", string(debug.Stack())).Errorf("dashboard: panic в параллельной загрузке: %v", r)
			err = apperror.New(apperror.ErrCodeRender, fmt.Sprintf("dashboard: panic: %v", r))
		}
	}()
	return fn()
}

func (c *Controller) loadOverview(ctx context.Context, viewer *models.Identity, _ string) (*html.Node, error) {
	switch {
	case viewer.IsFreelancer():
		return c.freelancerOverview(ctx, viewer)
	case viewer.IsRecruiter():
		return c.recruiterOverview(ctx, viewer)
	default:
		return nil, apperror.ErrUnauthenticated
	}
}

func (c *Controller) freelancerOverview(ctx context.Context, viewer *models.Identity) (*html.Node, error) {
	var (
		apps []models.Application
		rate = "0"
	)
	err := c.parallel(
		func() (err error) {
			apps, err = tolerate(c.gw.Applications(ctx))
			return err
		},
		func() error {
			acc, err := c.gw.AccountProfile(ctx)
			if err != nil {
				if apperror.IsUpstream(err) {
					return nil
				}
				return err
			}
			if p, ok := acc.Profile.(*models.FreelancerProfile); ok && p.HourlyRate != "" {
				rate = p.HourlyRate.String()
			}
			return nil
		},
	)
	if err != nil {
		return nil, err
	}

	stats := view.StatsGrid(
		view.StatCard("primary", strconv.Itoa(len(apps)), "Total Applications"),
		view.StatCard("warning", strconv.Itoa(models.CountApplications(apps, models.ApplicationStatusPending)), "Pending"),
		view.StatCard("success", strconv.Itoa(models.CountApplications(apps, models.ApplicationStatusAccepted)), "Accepted"),
		view.StatCard("info", "$"+rate, "Hourly Rate"),
	)

	var recent *html.Node
	if len(apps) == 0 {
		recent = view.EmptyState("No Applications Yet", "Start applying to jobs to see your applications here.", view.BrowseJobsCTA())
	} else {
		recent = view.ApplicationsTable(head(apps, view.RecentApplications), viewer)
	}
	return view.Fragment(stats, view.Panel("Recent Applications", recent)), nil
}

func (c *Controller) recruiterOverview(ctx context.Context, viewer *models.Identity) (*html.Node, error) {
	var (
		jobs []models.Job
		apps []models.Application
	)
	err := c.parallel(
		func() (err error) {
			jobs, err = tolerate(c.gw.Jobs(ctx, api.JobsQuery{MyJobs: true}))
			return err
		},
		func() (err error) {
			apps, err = tolerate(c.gw.Applications(ctx))
			return err
		},
	)
	if err != nil {
		return nil, err
	}

	stats := view.StatsGrid(
		view.StatCard("primary", strconv.Itoa(len(jobs)), "Jobs Posted"),
		view.StatCard("success", strconv.Itoa(models.CountJobs(jobs, models.JobStatusOpen)), "Active Jobs"),
		view.StatCard("info", strconv.Itoa(len(apps)), "Total Applications"),
		view.StatCard("warning", strconv.Itoa(models.CountApplications(apps, models.ApplicationStatusPending)), "Pending Review"),
	)

	var recent *html.Node
	if len(apps) == 0 {
		recent = view.EmptyState("No Applications Yet", "Post jobs to start receiving applications.", view.PostJobCTA("Post a Job"))
	} else {
		recent = view.ApplicationsTable(head(apps, view.RecentApplications), viewer)
	}
	return view.Fragment(stats, view.Panel("Recent Applications", recent)), nil
}

func (c *Controller) loadJobs(ctx context.Context, viewer *models.Identity, filter string) (*html.Node, error) {
	if viewer.IsRecruiter() {
		return c.recruiterJobs(ctx)
	}

	jobs, err := tolerate(c.gw.Jobs(ctx, api.JobsQuery{}))
	if err != nil {
		return nil, err
	}
	matched := jobs[:0:0]
	for i := range jobs {
		if jobs[i].Matches(filter) {
			matched = append(matched, jobs[i])
		}
	}

	var list *html.Node
	if len(matched) == 0 {
		list = view.EmptyState("No Jobs Available", "Check back later for new opportunities.", nil)
	} else {
		list = view.JobsGrid(matched, viewer)
	}
	return view.Fragment(view.SectionSearch(filter), list), nil
}

func (c *Controller) recruiterJobs(ctx context.Context) (*html.Node, error) {
	var (
		jobs []models.Job
		apps []models.Application
	)
	err := c.parallel(
		func() (err error) {
			jobs, err = tolerate(c.gw.Jobs(ctx, api.JobsQuery{MyJobs: true}))
			return err
		},
		func() (err error) {
			apps, err = tolerate(c.gw.Applications(ctx))
			return err
		},
	)
	if err != nil {
		return nil, err
	}

	if len(jobs) == 0 {
		return view.EmptyState("No Jobs Posted", "Start posting jobs to find talented freelancers.", view.PostJobCTA("Post Your First Job")), nil
	}

	counts := make(map[int64]int, len(jobs))
	for _, a := range apps {
		if a.Job != nil {
			counts[a.Job.ID]++
		}
	}
	return view.JobsTable(jobs, counts), nil
}

func (c *Controller) loadApplications(ctx context.Context, viewer *models.Identity, _ string) (*html.Node, error) {
	apps, err := tolerate(c.gw.Applications(ctx))
	if err != nil {
		return nil, err
	}
	if len(apps) == 0 {
		return view.EmptyState("No Applications", "Applications will appear here when available.", nil), nil
	}
	return view.ApplicationsTable(apps, viewer), nil
}

func (c *Controller) loadFreelancers(ctx context.Context, _ *models.Identity, _ string) (*html.Node, error) {
	list, err := tolerate(c.gw.FreelancerProfiles(ctx))
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return view.EmptyState("No Freelancers Found", "Check back later for available freelancers.", nil), nil
	}
	return view.FreelancersGrid(list, -1), nil
}

func (c *Controller) loadProfile(ctx context.Context, viewer *models.Identity, _ string) (*html.Node, error) {
	acc, err := c.gw.AccountProfile(ctx)
	if err != nil {
		if !apperror.IsUpstream(err) {
			return nil, err
		}
		acc = emptyAccount(viewer)
	}
	return view.ProfileView(*acc), nil
}

// emptyAccount пустая карточка профиля, когда бэкенд его не отдал.
func emptyAccount(viewer *models.Identity) *models.AccountProfile {
	acc := &models.AccountProfile{}
	if viewer == nil {
		return acc
	}
	acc.User = *viewer
	acc.Profile, _ = models.DecodeProfile(viewer.UserType, nil)
	return acc
}

func (c *Controller) loadMessages(context.Context, *models.Identity, string) (*html.Node, error) {
	return view.MessagesStub(), nil
}

func head[T any](items []T, n int) []T {
	if len(items) > n {
		return items[:n]
	}
	return items
}
