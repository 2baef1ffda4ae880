package bootstrap

import (
	"io"
	"os"
	"path/filepath"

	"github.com/yuqie6/AccomTrack/internal/eventbus"
	"github.com/yuqie6/AccomTrack/internal/pkg/config"
	"github.com/yuqie6/AccomTrack/internal/repository"
	"github.com/yuqie6/AccomTrack/internal/service"
)

// Core holds the store, repositories and services shared by every entry point.
type Core struct {
	Cfg       *config.Config
	DB        *repository.Database
	Events    *eventbus.Hub
	LogCloser io.Closer

	Repos struct {
		Classes        *repository.ClassRepository
		Students       *repository.StudentRepository
		Accommodations *repository.AccommodationRepository
		Enrollments    *repository.EnrollmentRepository
		Periods        *repository.PeriodRepository
		ServiceLogs    *repository.ServiceLogRepository
	}

	Services struct {
		Roster   *service.RosterService
		Tracking *service.TrackingService
		Export   *service.ExportService
	}
}

// NewCore loads config, sets up logging and opens (migrating) the store.
func NewCore(cfgPath string) (*Core, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}
	logCloser, err := config.SetupLogger(config.LoggerOptions{
		Level:     cfg.App.LogLevel,
		Path:      cfg.App.LogPath,
		Component: filepath.Base(os.Args[0]),
	})
	if err != nil {
		return nil, err
	}

	c, err := NewCoreFromConfig(cfg)
	if err != nil {
		if logCloser != nil {
			_ = logCloser.Close()
		}
		return nil, err
	}
	c.LogCloser = logCloser
	return c, nil
}

// NewCoreFromConfig wires everything from an already loaded config. Migrations run
// before any repository exists; a migration failure returns the error and no Core.
func NewCoreFromConfig(cfg *config.Config) (*Core, error) {
	db, err := repository.NewDatabase(cfg.Storage.DBPath, cfg.Storage.BusyTimeoutMs)
	if err != nil {
		return nil, err
	}

	c := &Core{Cfg: cfg, DB: db, Events: eventbus.NewHub()}

	c.Repos.Classes = repository.NewClassRepository(db.DB)
	c.Repos.Students = repository.NewStudentRepository(db.DB)
	c.Repos.Accommodations = repository.NewAccommodationRepository(db.DB)
	c.Repos.Enrollments = repository.NewEnrollmentRepository(db.DB)
	c.Repos.Periods = repository.NewPeriodRepository(db.DB)
	c.Repos.ServiceLogs = repository.NewServiceLogRepository(db.DB)

	c.Services.Roster = service.NewRosterService(
		c.Repos.Classes,
		c.Repos.Students,
		c.Repos.Enrollments,
		c.Repos.Accommodations,
	)
	c.Services.Tracking = service.NewTrackingService(
		c.Repos.Classes,
		c.Repos.Enrollments,
		c.Repos.Accommodations,
		c.Repos.ServiceLogs,
		c.Repos.Periods,
		c.Events,
		&service.TrackingServiceConfig{WeekDays: cfg.Tracking.WeekDays},
	)
	c.Services.Export = service.NewExportService(
		c.Services.Roster,
		c.Services.Tracking,
		c.Repos.Students,
		cfg.Export.CheckMark,
	)
	return c, nil
}

// Close releases the store and the log file.
func (c *Core) Close() error {
	if c == nil {
		return nil
	}
	var dbErr error
	if c.DB != nil {
		dbErr = c.DB.Close()
	}
	if c.LogCloser != nil {
		_ = c.LogCloser.Close()
	}
	return dbErr
}
