package main

import (
	"context"
	"craftsite/docs" //this is required to generate swagger docs
	"craftsite/internal/auth"
	"craftsite/internal/mailer"
	"craftsite/internal/ratelimiter"
	"craftsite/internal/slugs"
	"craftsite/internal/store"
	"errors"
	"expvar"
	"fmt"

	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"
)

type application struct {
	config        config
	store         store.Storage
	logger        *zap.SugaredLogger
	mailer        mailer.Client
	authenticator auth.Authenticator
	rateLimiter   ratelimiter.Limiter
	slugs         *slugs.Encoder
}

type config struct {
	addr        string
	db          dbConfig
	env         string
	apiURL      string
	mail        mailConfig
	frontendURL string
	auth        authConfig
	rateLimiter ratelimiter.Config
}

type authConfig struct {
	basic basicConfig
	token tokenConfig
}
type tokenConfig struct {
	refreshSecret   string
	secret          string
	accessTokenExp  time.Duration
	refreshTokenExp time.Duration
	iss             string
}
type basicConfig struct {
	user string
	pass string
}

type mailConfig struct {
	exp       time.Duration
	fromEmail string
	smtp      smtpConfig
}

type smtpConfig struct {
	host     string
	port     int
	username string
	password string
}

type dbConfig struct {
	addr        string
	maxConns    int32
	maxIdleTime string
}

func (app *application) mount() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300, // Maximum value not ignored by any of major browsers
	}))

	//Set a timeout value on the request context (ctx), that will signal through ctx.Done() that the request has timed out and further processing should be stopped
	r.Use(middleware.Timeout(60 * time.Second))

	r.Route("/v1", func(r chi.Router) {
		r.With(app.BasicAuthMiddleware()).Get("/health", app.healthCheckHandler)
		docsURL := fmt.Sprintf("%s/swagger/doc.json", app.config.addr)
		r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL(docsURL)))

		r.With(app.BasicAuthMiddleware()).Get("/debug/vars", expvar.Handler().ServeHTTP)

		// Reviewer-facing routes: unauthenticated, the token in the URL is
		// the only credential. Rate limited because they are an open surface.
		r.Route("/reviews", func(r chi.Router) {
			r.Use(app.RateLimiterMiddleware)
			r.Get("/{token}", app.verifyReviewTokenHandler)
			r.Post("/{token}", app.submitReviewHandler)
		})

		// Public profile pages
		r.Get("/profiles/{slug}", app.getPublicProfileHandler)

		// Route that does NOT require authentication
		r.Put("/users/activate/{token}", app.activateUserHandler)

		// Tenant dashboard routes
		r.Group(func(r chi.Router) {
			r.Use(app.AuthTokenMiddleware)

			r.Post("/users/logout", app.logoutHandler)

			r.Route("/profile", func(r chi.Router) {
				r.Post("/", app.createProfileHandler)
				r.Get("/", app.getOwnProfileHandler)
				r.Put("/", app.updateProfileHandler)
			})

			r.Route("/projects", func(r chi.Router) {
				r.Post("/", app.createProjectHandler)
				r.Get("/", app.listProjectsHandler)
				r.Put("/{projectID}", app.updateProjectHandler)
				r.Delete("/{projectID}", app.deleteProjectHandler)
			})

			r.Route("/review-requests", func(r chi.Router) {
				r.Post("/", app.createReviewRequestHandler)
				r.Get("/", app.listReviewRequestsHandler)
			})

			r.Route("/testimonials", func(r chi.Router) {
				r.Get("/", app.listTestimonialsHandler)
				r.Patch("/{testimonialID}/publish", app.publishTestimonialHandler)
				r.Patch("/{testimonialID}/unpublish", app.unpublishTestimonialHandler)
				r.Delete("/{testimonialID}", app.deleteTestimonialHandler)
			})

			// Admin routes: RequireAdmin is the single authorization check
			// for privileged operations.
			r.Route("/admin", func(r chi.Router) {
				r.Use(app.RequireAdmin)
				r.Get("/users", app.adminListUsersHandler)
				r.Post("/users/{userID}/roles", app.adminAssignRoleHandler)
				r.Delete("/users/{userID}/roles/{roleID}", app.adminRemoveRoleHandler)
			})
		})

		// Public routes
		r.Route("/authentication", func(r chi.Router) {
			r.Post("/user", app.registerUserHandler)
			r.Post("/token", app.createTokenHandler)
			r.Post("/refresh", app.refreshTokenHandler)
		})
	})
	return r
}

func (app *application) run(mux http.Handler) error {
	// Docs
	docs.SwaggerInfo.Version = version
	docs.SwaggerInfo.Host = app.config.apiURL
	docs.SwaggerInfo.BasePath = "/v1"

	srv := &http.Server{
		Addr:         app.config.addr,
		Handler:      mux,
		WriteTimeout: time.Second * 30,
		ReadTimeout:  time.Second * 10,
		IdleTimeout:  time.Minute,
	}

	// Implementing graceful shutdown
	shutdown := make(chan error)

	go func() {
		quit := make(chan os.Signal, 1)

		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		s := <-quit

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		app.logger.Infow("signal caught", "signal", s.String())

		shutdown <- srv.Shutdown(ctx)
	}()

	app.logger.Infow("server has started", "addr", app.config.addr, "env", app.config.env)

	err := srv.ListenAndServe()
	if !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	err = <-shutdown
	if err != nil {
		return err
	}

	app.logger.Infow("server has stopped", "addr", app.config.addr, "env", app.config.env)

	return nil
}
