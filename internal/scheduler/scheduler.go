package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/Kuldeep2963/TeleCore-Backend-sub002/internal/clock"
	"github.com/Kuldeep2963/TeleCore-Backend-sub002/internal/config"
	invoicedomain "github.com/Kuldeep2963/TeleCore-Backend-sub002/internal/invoice/domain"
	"github.com/Kuldeep2963/TeleCore-Backend-sub002/internal/observability/metrics"
)

// Scheduler drives the daily invoice lifecycle jobs. All cron
// expressions are evaluated in the configured billing timezone, so "1
// AM" means 1 AM civil time regardless of the host clock.
type Scheduler struct {
	cron *cron.Cron
	log  *zap.Logger
	clk  clock.Clock
	cfg  config.SchedulerConfig
	met  *metrics.LifecycleMetrics

	invoiceSvc invoicedomain.Service
}

type Params struct {
	fx.In

	Log        *zap.Logger
	Clock      clock.Clock
	Cfg        config.Config
	Metrics    *metrics.LifecycleMetrics `optional:"true"`
	InvoiceSvc invoicedomain.Service
}

func New(p Params) (*Scheduler, error) {
	location, err := time.LoadLocation(p.Cfg.Scheduler.Timezone)
	if err != nil {
		return nil, err
	}

	return &Scheduler{
		cron: cron.New(cron.WithLocation(location)),
		log:  p.Log.Named("scheduler"),
		clk:  p.Clock,
		cfg:  p.Cfg.Scheduler,
		met:  p.Metrics,

		invoiceSvc: p.InvoiceSvc,
	}, nil
}

// Start registers the three lifecycle jobs and begins the cron loop.
func (s *Scheduler) Start(ctx context.Context) error {
	if s.cfg.Disabled {
		s.log.Info("scheduler disabled")
		return nil
	}

	jobs := []struct {
		name string
		spec string
		run  func(context.Context) error
	}{
		{"invoice_generation", s.cfg.GenerateSpec, s.runGeneration},
		{"overdue_check", s.cfg.OverdueSpec, s.runOverdueCheck},
		{"due_soon_reminders", s.cfg.DueSoonSpec, s.runDueSoonReminders},
	}
	for _, job := range jobs {
		job := job
		_, err := s.cron.AddFunc(job.spec, func() {
			start := time.Now()
			if err := job.run(context.Background()); err != nil {
				s.log.Error("scheduled job failed",
					zap.String("job", job.name),
					zap.Error(err),
				)
			}
			s.met.ObserveJobDuration(job.name, time.Since(start))
		})
		if err != nil {
			return err
		}
		s.log.Info("scheduled job registered",
			zap.String("job", job.name),
			zap.String("spec", job.spec),
		)
	}

	s.cron.Start()
	return nil
}

// Stop halts the cron loop and waits for in-flight jobs to finish.
func (s *Scheduler) Stop(ctx context.Context) error {
	done := s.cron.Stop().Done()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Scheduler) runGeneration(ctx context.Context) error {
	result, err := s.invoiceSvc.GenerateMonthly(ctx, s.clk.Now())
	if err != nil {
		return err
	}
	s.log.Info("invoice generation completed",
		zap.String("period", result.Period),
		zap.Int("created", result.Created),
		zap.Int("skipped", result.Skipped),
		zap.Int("failed", result.Failed),
	)
	return nil
}

func (s *Scheduler) runOverdueCheck(ctx context.Context) error {
	result, err := s.invoiceSvc.MarkOverdue(ctx, s.clk.Now())
	if err != nil {
		return err
	}
	s.log.Info("overdue check completed",
		zap.Int("transitioned", result.Transitioned),
		zap.Int("notified", result.Notified),
	)
	return nil
}

func (s *Scheduler) runDueSoonReminders(ctx context.Context) error {
	sent, err := s.invoiceSvc.SendDueSoonReminders(ctx, s.clk.Now())
	if err != nil {
		return err
	}
	s.log.Info("due soon reminders completed", zap.Int("sent", sent))
	return nil
}
