package router

import (
	"devcamp-api/internal/application"
	"devcamp-api/internal/container"
	"devcamp-api/internal/domain/repository"
	pginfra "devcamp-api/internal/infrastructure/postgres"
	handlers "devcamp-api/internal/interface/http"
	"devcamp-api/internal/router/modules"
	"devcamp-api/pkg/helpers"
)

type ModuleDeps struct {
	Users     repository.UserRepository
	Bootcamps repository.BootcampRepository
	Courses   repository.CourseRepository

	Auth            *handlers.AuthHandler
	BootcampHandler *handlers.BootcampHandler
	CourseHandler   *handlers.CourseHandler
	UserHandler     *handlers.UserHandler
}

func buildDeps() ModuleDeps {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	pool := container.GetPGPool()

	users := pginfra.NewUserRepository(pool)
	bootcamps := pginfra.NewBootcampRepository(pool)
	courses := pginfra.NewCourseRepository(pool)

	authSvc := application.NewAuthService(
		users,
		container.GetTokens(),
		container.GetMailgun(),
		container.GetRabbitPub(),
		logger,
		cfg.AppName,
		cfg.APIBaseURL+"/api/v1/auth/resetpassword",
		cfg.ResetTokenTTL,
	)

	bootcampSvc := &application.BootcampService{
		Bootcamps: bootcamps,
		Geo:       container.GetGeocoder(),
		Redis:     container.GetRedis(),
		Logger:    logger,
		ES:        container.GetES(),
		ESIndex:   cfg.ESBootcampsIndex,
		GCS:       container.GetGCS(),
		GCSBucket: cfg.GCSBucket,
		MaxUpload: cfg.MaxFileUploadBytes,
	}

	courseSvc := &application.CourseService{
		Courses:   courses,
		Bootcamps: bootcamps,
	}

	userSvc := &application.UserService{Users: users}

	cookies := helpers.NewCookie(cfg.CookieDomain, cfg.CookieSecure)

	return ModuleDeps{
		Users:     users,
		Bootcamps: bootcamps,
		Courses:   courses,

		Auth:            handlers.NewAuthHandler(authSvc, cookies, logger),
		BootcampHandler: handlers.NewBootcampHandler(bootcampSvc, logger),
		CourseHandler:   handlers.NewCourseHandler(courseSvc, logger),
		UserHandler:     handlers.NewUserHandler(userSvc, logger),
	}
}

// InitModules builds every module's dependency graph from the container
// singletons and registers the modules with the registry. Called once at
// startup.
func InitModules(r *Registry) {
	deps := buildDeps()
	tokens := container.GetTokens()

	r.Add(modules.NewAuthModule(deps.Auth, tokens, deps.Users))
	r.Add(modules.NewBootcampModule(deps.BootcampHandler, deps.CourseHandler, tokens, deps.Users))
	r.Add(modules.NewCourseModule(deps.CourseHandler, tokens, deps.Users))
	r.Add(modules.NewUserModule(deps.UserHandler, tokens, deps.Users))
}
