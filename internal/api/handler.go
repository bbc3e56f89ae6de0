package api

import (
	"errors"
	"time"

	"github.com/terraincognita07/sleeptrack/internal/auth"
	"github.com/terraincognita07/sleeptrack/internal/db"
	"github.com/terraincognita07/sleeptrack/internal/i18n"
	"github.com/terraincognita07/sleeptrack/internal/services"
	"gorm.io/gorm"
)

type Options struct {
	Location *time.Location
	I18n     *i18n.Manager
	Verifier auth.Verifier
	// Issuer is set only when accounts are managed locally. A nil Issuer
	// disables the /api/auth account routes.
	Issuer            *auth.TokenIssuer
	AllowRegistration bool
	AttemptsPerMinute int
}

type Handler struct {
	db                *gorm.DB
	location          *time.Location
	i18n              *i18n.Manager
	verifier          auth.Verifier
	issuer            *auth.TokenIssuer
	allowRegistration bool
	now               func() time.Time

	repositories     *db.Repositories
	sleepService     *services.SleepService
	goalService      *services.GoalService
	dashboardService *services.DashboardService
	profileService   *services.ProfileService
	authService      *services.AuthService

	authLimiter *attemptLimiter
}

func NewHandler(database *gorm.DB, opts Options) (*Handler, error) {
	if database == nil {
		return nil, errors.New("database is required")
	}
	if opts.Verifier == nil {
		return nil, errors.New("token verifier is required")
	}
	if opts.I18n == nil {
		return nil, errors.New("i18n manager is required")
	}
	location := opts.Location
	if location == nil {
		location = time.UTC
	}

	handler := &Handler{
		db:                database,
		location:          location,
		i18n:              opts.I18n,
		verifier:          opts.Verifier,
		issuer:            opts.Issuer,
		allowRegistration: opts.AllowRegistration,
		now:               time.Now,
		authLimiter:       newAttemptLimiter(opts.AttemptsPerMinute),
	}
	return handler.withDependencies(database), nil
}

func (handler *Handler) withDependencies(database *gorm.DB) *Handler {
	handler.repositories = db.NewRepositories(database)
	handler.sleepService = services.NewSleepService(handler.repositories.SleepLogs)
	handler.goalService = services.NewGoalService(handler.repositories.Goals)
	handler.dashboardService = services.NewDashboardService(handler.sleepService, handler.goalService)
	handler.profileService = services.NewProfileService(handler.repositories.Profiles)
	handler.authService = services.NewAuthService(handler.repositories.Users)
	return handler
}

func (handler *Handler) localAccounts() bool {
	return handler.issuer != nil
}
