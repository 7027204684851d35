package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	accountapp "github.com/monicaDelao/brokerx/internal/application/account"
	"github.com/monicaDelao/brokerx/internal/application/registration"
	"github.com/monicaDelao/brokerx/internal/application/session"
	"github.com/monicaDelao/brokerx/internal/application/status"
	"github.com/monicaDelao/brokerx/internal/application/verification"
	"github.com/monicaDelao/brokerx/internal/config"
	"github.com/monicaDelao/brokerx/internal/domain"
	jwtinfra "github.com/monicaDelao/brokerx/internal/infrastructure/jwt"
	"github.com/monicaDelao/brokerx/internal/infrastructure/smtp"
	"github.com/monicaDelao/brokerx/internal/infrastructure/sns"
	"github.com/monicaDelao/brokerx/internal/transport/http/handler"
	appmiddleware "github.com/monicaDelao/brokerx/internal/transport/http/middleware"
	"golang.org/x/time/rate"
)

// Deps holds all infrastructure dependencies for the router.
type Deps struct {
	AccountRepo      AccountRepository
	SessionRepo      SessionRepository
	StatusRepo       StatusRepository
	NotificationRepo NotificationRepository
	VerifySessions   VerificationSessions
	Audit            AuditRecorder
	Mailer           smtp.Mailer
	SMSSender        sns.SMSSender
	JWTProvider      *jwtinfra.Provider
}

// NewRouter builds and returns the application router.
func NewRouter(cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	var authMw func(http.Handler) http.Handler
	if deps.JWTProvider != nil {
		authMw = appmiddleware.Auth(deps.JWTProvider)
	} else {
		authMw = func(next http.Handler) http.Handler { return next }
	}

	// 5 requests/second, burst of 10. Applied to registration, code
	// submission and login so code guessing stays impractical.
	sensitiveRL := appmiddleware.NewRateLimiter(rate.Limit(5), 10)

	regSvc := registration.NewService(registration.ServiceDeps{
		AccountRepo: deps.AccountRepo,
		Sessions:    deps.VerifySessions,
		Mailer:      deps.Mailer,
		SMSSender:   deps.SMSSender,
		DeliveryLog: deps.NotificationRepo,
	})
	verifySvc := verification.NewService(verification.ServiceDeps{
		AccountRepo: deps.AccountRepo,
		Sessions:    deps.VerifySessions,
		Audit:       deps.Audit,
	})
	sessionSvc := session.NewService(session.ServiceDeps{
		AccountRepo: deps.AccountRepo,
		SessionRepo: deps.SessionRepo,
		JWTProvider: deps.JWTProvider,
		RefreshDur:  cfg.RefreshExpiry,
	})
	accountSvc := accountapp.NewService(accountapp.ServiceDeps{
		AccountRepo: deps.AccountRepo,
		SessionRepo: deps.SessionRepo,
		DeliveryLog: deps.NotificationRepo,
	})
	statusSvc := status.NewService(deps.StatusRepo)

	healthH := handler.NewHealthHandler()
	accountH := handler.NewAccountHandler(regSvc, accountSvc)
	verifyH := handler.NewVerificationHandler(verifySvc)
	sessionH := handler.NewSessionHandler(sessionSvc)
	statusH := handler.NewStatusHandler(statusSvc)

	r.Route("/v1", func(r chi.Router) {
		// Public routes (no auth)
		r.Get("/health-check/{action}", healthH.Ping)
		r.Post("/health-check/{action}", healthH.Ping)

		r.With(sensitiveRL.Limit).Post("/accounts", accountH.Register)
		r.With(sensitiveRL.Limit).Post("/verify/email", verifyH.SubmitEmailCode)
		r.With(sensitiveRL.Limit).Get("/verify/email", verifyH.VerifyEmailLink)
		r.With(sensitiveRL.Limit).Post("/verify/otp", verifyH.SubmitOTP)
		r.With(sensitiveRL.Limit).Post("/sessions/login", sessionH.Login)
		r.Post("/sessions/refresh", sessionH.Refresh)

		// Authenticated routes
		r.Group(func(r chi.Router) {
			r.Use(authMw)

			r.Get("/sessions", sessionH.GetCurrent)
			r.Post("/sessions/logout", sessionH.Logout)

			r.Get("/accounts/{id}", accountH.Get)
			r.Put("/accounts/{id}", accountH.Update)
			r.Post("/accounts/change-password", accountH.ChangePassword)

			r.Get("/statuses", statusH.List)
			r.Get("/statuses/{id}", statusH.Get)

			// Admin-only routes
			r.Group(func(r chi.Router) {
				r.Use(appmiddleware.RequireRole(domain.RoleAdmin))

				r.Get("/accounts", accountH.List)
				r.Delete("/accounts/{id}", accountH.Delete)
				r.Get("/accounts/{id}/deliveries", accountH.Deliveries)

				r.Post("/statuses", statusH.Create)
				r.Put("/statuses/{id}", statusH.Update)
				r.Delete("/statuses/{id}", statusH.Delete)
			})
		})
	})

	return r
}
