package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/bastionlabs/adminauth/internal/adminauth/cache"
	"github.com/bastionlabs/adminauth/internal/adminauth/service"
	"github.com/bastionlabs/adminauth/internal/adminauth/store"
	"github.com/bastionlabs/adminauth/pkg/httpx"
	"github.com/bastionlabs/adminauth/pkg/slogx"

	_ "github.com/bastionlabs/adminauth/api/adminauth" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store store.Store
	cache *cache.Cache

	GuardService       *service.GuardService
	SecondFactor       *service.SecondFactorService
	ConfirmService     *service.ConfirmService
	ResetService       *service.ResetService
	UnlockService      *service.UnlockService
	SessionService     *service.SessionService
	MaintenanceService *service.MaintenanceService
}

func NewRouter(
	buildVersion string,
	st store.Store,
	c *cache.Cache,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		cache:        c,
		logger:       logger,
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerLogin()
	r.registerSecondFactor()
	r.registerConfirm()
	r.registerReset()
	r.registerUnlock()
	r.registerSession()
	r.registerMaintenance()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			Admin Authentication Service API
//	@version		0.1.0
//	@description	Account security backend for the admin surface: rate-limited login,
//	@description	machine fingerprint checks, emailed second factor codes, and the
//	@description	token flows for email confirmation, password reset, and account unlock.
//
//	@contact.name				BastionLabs Team
//	@contact.url				https://github.com/bastionlabs/adminauth
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Session token. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerLogin() {
	h := &LoginHandler{GuardService: r.GuardService}

	// POST /login - strict rate limit (credential attempts)
	r.Mux.Handle("POST /v1/login",
		httpx.Chain(http.HandlerFunc(h.HandleLogin),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	// POST /login/mfa - strict rate limit (code guesses)
	r.Mux.Handle("POST /v1/login/mfa",
		httpx.Chain(http.HandlerFunc(h.HandleMFA),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
}

func (r *Router) registerSecondFactor() {
	h := &SecondFactorHandler{
		SecondFactor: r.SecondFactor,
		Store:        r.store,
	}

	// POST /2fa/send - strict rate limit (mail fan-out)
	r.Mux.Handle("POST /v1/2fa/send",
		httpx.Chain(http.HandlerFunc(h.HandleSend),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	// POST /2fa/verify - strict rate limit (code guesses)
	r.Mux.Handle("POST /v1/2fa/verify",
		httpx.Chain(http.HandlerFunc(h.HandleVerify),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
}

func (r *Router) registerConfirm() {
	h := &ConfirmHandler{ConfirmService: r.ConfirmService}

	r.Mux.Handle("POST /v1/confirm",
		httpx.Chain(http.HandlerFunc(h.HandleSend),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
	r.Mux.Handle("GET /v1/confirm/{token}",
		httpx.Chain(http.HandlerFunc(h.HandleConfirm),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerReset() {
	h := &ResetHandler{ResetService: r.ResetService}

	r.Mux.Handle("POST /v1/reset",
		httpx.Chain(http.HandlerFunc(h.HandleRequest),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
	r.Mux.Handle("GET /v1/reset/{token}",
		httpx.Chain(http.HandlerFunc(h.HandleConfirm),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)
	r.Mux.Handle("POST /v1/reset/{token}",
		httpx.Chain(http.HandlerFunc(h.HandleReset),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
}

func (r *Router) registerUnlock() {
	h := &UnlockHandler{UnlockService: r.UnlockService}

	r.Mux.Handle("POST /v1/unlock",
		httpx.Chain(http.HandlerFunc(h.HandleRequest),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
	r.Mux.Handle("GET /v1/unlock/{token}",
		httpx.Chain(http.HandlerFunc(h.HandleConfirm),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)
	r.Mux.Handle("POST /v1/unlock/{token}",
		httpx.Chain(http.HandlerFunc(h.HandleUnlock),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
}

func (r *Router) registerSession() {
	h := &SessionHandler{SessionService: r.SessionService}

	// GET /session - verify the bearer token, lenient limit
	r.Mux.Handle("GET /v1/session",
		httpx.Chain(http.HandlerFunc(h.HandleVerify),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)

	// DELETE /session - logout, lenient limit
	r.Mux.Handle("DELETE /v1/session",
		httpx.Chain(http.HandlerFunc(h.HandleDestroy),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}

func (r *Router) registerMaintenance() {
	h := &MaintenanceHandler{
		MaintenanceService: r.MaintenanceService,
		SessionService:     r.SessionService,
	}

	// POST /maintenance - authenticated manual trigger, moderate limit
	r.Mux.Handle("POST /v1/maintenance",
		httpx.Chain(http.HandlerFunc(h.HandleRun),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerSystem() {
	// Health check endpoints - lenient rate limits (monitoring systems may poll frequently)
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store, r.cache),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}
