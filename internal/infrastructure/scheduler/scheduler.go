package scheduler

import (
	"context"
	"crypto-price-bot/internal/infrastructure/config"
	"crypto-price-bot/internal/infrastructure/logging"
	"crypto-price-bot/internal/infrastructure/metrics"
	"fmt"
	"sync"
	"sync/atomic"
	"time"
	_ "time/tzdata"

	"github.com/robfig/cron/v3"
)

// Nombres de jobs para logs y métricas
const (
	JobHealthCheck = "health_check"
	JobBackupCheck = "backup_check"

	DefaultJobTimeout = 50 * time.Second
)

// Job es una tarea de mantenimiento; recibe un contexto con el timeout del job
type Job func(ctx context.Context)

// Scheduler corre el chequeo de keys y el chequeo de respaldo en segundo plano
type Scheduler struct {
	cron        *cron.Cron
	enabled     bool
	jobTimeout  time.Duration
	checkOnBoot bool
	healthCheck Job
	backupCheck Job

	// healthRunning garantiza un único chequeo de keys en curso
	healthRunning atomic.Bool
	wg            sync.WaitGroup
}

// New registra los jobs según la configuración. backupCheck nil deshabilita el job de respaldo.
// Deshabilitado no agenda nada, pero TriggerHealthCheck y StartupCheck siguen funcionando.
func New(cfg config.SchedulerConfig, healthCheck, backupCheck Job) (*Scheduler, error) {
	location := time.UTC
	if cfg.Timezone != "" {
		loc, err := time.LoadLocation(cfg.Timezone)
		if err != nil {
			return nil, fmt.Errorf("invalid scheduler timezone %q: %w", cfg.Timezone, err)
		}
		location = loc
	}

	logger := cronLogger{}
	s := &Scheduler{
		cron: cron.New(
			cron.WithLocation(location),
			cron.WithLogger(logger),
			cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
		),
		enabled:     cfg.Enabled,
		jobTimeout:  cfg.JobTimeout,
		checkOnBoot: cfg.CheckOnStartup,
		healthCheck: healthCheck,
		backupCheck: backupCheck,
	}
	if s.jobTimeout <= 0 {
		s.jobTimeout = DefaultJobTimeout
	}

	if !cfg.Enabled {
		return s, nil
	}

	if healthCheck != nil {
		if _, err := s.cron.AddFunc(cfg.HealthCheckSpec, func() { s.runHealthCheck(JobHealthCheck) }); err != nil {
			return nil, fmt.Errorf("invalid health check schedule %q: %w", cfg.HealthCheckSpec, err)
		}
	}
	if backupCheck != nil {
		if _, err := s.cron.AddFunc(cfg.BackupCheckSpec, func() { s.run(JobBackupCheck, backupCheck) }); err != nil {
			return nil, fmt.Errorf("invalid backup check schedule %q: %w", cfg.BackupCheckSpec, err)
		}
	}

	return s, nil
}

// StartupCheck corre el chequeo de keys una vez, de forma síncrona, si check_on_startup está activo
func (s *Scheduler) StartupCheck() {
	if s.checkOnBoot && s.healthCheck != nil {
		s.runHealthCheck(JobHealthCheck + "_startup")
	}
}

// Start arranca el scheduler en sus propias goroutines
func (s *Scheduler) Start() {
	if !s.enabled {
		logging.Info(context.Background(), "Maintenance scheduler disabled", logging.Fields{
			logging.FieldComponent: "scheduler",
		})
		return
	}
	logging.Info(context.Background(), "Maintenance scheduler started", logging.Fields{
		"jobs":                 len(s.cron.Entries()),
		"job_timeout":          s.jobTimeout.String(),
		logging.FieldComponent: "scheduler",
	})
	s.cron.Start()
}

// TriggerHealthCheck lanza un chequeo de keys fuera de agenda.
// Retorna false si ya hay uno en curso. No bloquea.
func (s *Scheduler) TriggerHealthCheck() bool {
	if s.healthCheck == nil || !s.healthRunning.CompareAndSwap(false, true) {
		return false
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer s.healthRunning.Store(false)
		defer func() {
			if r := recover(); r != nil {
				logging.Error(context.Background(), "Triggered health check panicked", logging.Fields{
					"panic": fmt.Sprint(r),
				})
			}
		}()
		s.run(JobHealthCheck+"_triggered", s.healthCheck)
	}()
	return true
}

// Stop detiene el scheduler y espera los jobs en curso hasta que ctx venza
func (s *Scheduler) Stop(ctx context.Context) error {
	cronDone := s.cron.Stop()

	done := make(chan struct{})
	go func() {
		<-cronDone.Done()
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		logging.Info(ctx, "Maintenance scheduler stopped", nil)
		return nil
	case <-ctx.Done():
		return fmt.Errorf("scheduler stop: %w", ctx.Err())
	}
}

func (s *Scheduler) runHealthCheck(name string) {
	if !s.healthRunning.CompareAndSwap(false, true) {
		logging.Debug(context.Background(), "Health check already running, skipped", logging.Fields{
			"job": name,
		})
		return
	}
	defer s.healthRunning.Store(false)
	s.run(name, s.healthCheck)
}

// run ejecuta un job con su timeout
func (s *Scheduler) run(name string, job Job) {
	ctx, cancel := context.WithTimeout(context.Background(), s.jobTimeout)
	defer cancel()
	ctx = logging.WithRequestID(ctx, logging.GenerateJobID(name))

	start := time.Now()
	metrics.RecordSchedulerJobRun(name)
	job(ctx)

	logging.Debug(ctx, "Maintenance job finished", logging.Fields{
		"job":                 name,
		logging.FieldDuration: float64(time.Since(start).Nanoseconds()) / 1e6,
	})
}
