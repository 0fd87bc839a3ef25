package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/jhoicas/hrms-api/internal/application/ports"
	"github.com/jhoicas/hrms-api/pkg/logger"
)

// Job tarea periódica.
type Job interface {
	Name() string
	Execute(ctx context.Context) error
}

// Scheduler dispara jobs con expresiones cron. Cada ejecución toma un lock por nombre de job
// para que varias réplicas no corran el mismo job a la vez.
type Scheduler struct {
	cron    *cron.Cron
	locker  ports.Locker
	log     *logger.Logger
	lockTTL time.Duration
	timeout time.Duration
	ctx     context.Context
	cancel  context.CancelFunc
}

// New crea el scheduler en la zona horaria indicada.
func New(loc *time.Location, locker ports.Locker, log *logger.Logger) *Scheduler {
	log = log.Component("scheduler")
	clog := cronLogger{log: log}
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		cron: cron.New(
			cron.WithLocation(loc),
			cron.WithLogger(clog),
			cron.WithChain(cron.Recover(clog), cron.SkipIfStillRunning(clog)),
		),
		locker:  locker,
		log:     log,
		lockTTL: 30 * time.Minute,
		timeout: 25 * time.Minute,
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Add registra job con la expresión spec (formato de 5 campos).
func (s *Scheduler) Add(spec string, job Job) error {
	_, err := s.cron.AddFunc(spec, func() { s.run(job) })
	if err != nil {
		return err
	}
	s.log.Info().Str("job", job.Name()).Str("schedule", spec).Msg("job programado")
	return nil
}

// Start arranca el scheduler en segundo plano.
func (s *Scheduler) Start() { s.cron.Start() }

// Stop detiene nuevas ejecuciones, cancela las que están en curso y espera a que terminen.
func (s *Scheduler) Stop() {
	done := s.cron.Stop()
	s.cancel()
	<-done.Done()
}

func (s *Scheduler) run(job Job) {
	ctx, cancel := context.WithTimeout(s.ctx, s.timeout)
	defer cancel()

	log := s.log.With().Str("job", job.Name()).Logger()
	unlock, ok, err := s.locker.TryLock(ctx, "job:"+job.Name(), s.lockTTL)
	if err != nil {
		log.Error().Err(err).Msg("no se pudo tomar el lock del job")
		return
	}
	if !ok {
		log.Info().Msg("job en curso en otra instancia, se omite")
		return
	}
	defer unlock()

	start := time.Now()
	if err := job.Execute(ctx); err != nil {
		log.Error().Err(err).Dur("elapsed", time.Since(start)).Msg("job fallido")
		return
	}
	log.Debug().Dur("elapsed", time.Since(start)).Msg("job completado")
}

// cronLogger adapta el logger de la aplicación a cron.Logger.
type cronLogger struct {
	log *logger.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debug().Fields(keysAndValues).Msg("cron: " + msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Error().Err(err).Fields(keysAndValues).Msg("cron: " + msg)
}
