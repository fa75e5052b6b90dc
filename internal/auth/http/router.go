package http

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aussiebroadwan/greencity/internal/auth/service"
	"github.com/aussiebroadwan/greencity/pkg/httpx"
	"github.com/aussiebroadwan/greencity/pkg/jwtx"
	"github.com/aussiebroadwan/greencity/pkg/slogx"

	_ "github.com/aussiebroadwan/greencity/api/auth" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Limits are the rate limit profiles applied per route.
type Limits struct {
	Strict   httpx.RateLimitConfig
	Moderate httpx.RateLimitConfig
	Lenient  httpx.RateLimitConfig
	Public   httpx.RateLimitConfig
}

// DefaultLimits reads the RATELIMIT_* overrides from the environment as it
// is now, so call it after any .env file has been loaded.
func DefaultLimits() Limits {
	return Limits{
		Strict:   httpx.ParseRateLimitFromEnv("STRICT", httpx.StrictLimit),
		Moderate: httpx.ParseRateLimitFromEnv("MODERATE", httpx.ModerateLimit),
		Lenient:  httpx.ParseRateLimitFromEnv("LENIENT", httpx.LenientLimit),
		Public:   httpx.ParseRateLimitFromEnv("PUBLIC", httpx.PublicLimit),
	}
}

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	keys         *jwtx.KeyManager
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger
	db           Pinger

	Policy *httpx.Policy
	CORS   httpx.CORSConfig
	Limits Limits

	OwnSecurityService *service.OwnSecurityService
	UserService        *service.UserService
	KeyRotationService *service.KeyRotationService
}

func NewRouter(
	keys *jwtx.KeyManager,
	buildVersion string,
	db Pinger,
	logger *slog.Logger,
) *Router {
	return &Router{
		Mux:          http.NewServeMux(),
		keys:         keys,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		db:           db,
		logger:       logger,
		Policy:       NewPolicy(),
		Limits:       DefaultLimits(),
	}
}

// ApplyRoutes registers every handler and builds the global middleware
// chain. Set Policy, CORS and Limits before calling it.
func (r *Router) ApplyRoutes() {
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
		httpx.CORSMiddleware(r.CORS),
		trimTrailingSlash,
		httpx.AuthnMiddleware(r.keys.Verifier),
		r.Policy.Middleware(),
	}

	r.registerOwnSecurity()
	r.registerUsers()
	r.registerKeyRotation()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			GreenCity User Service API
//	@version		0.1.0
//	@description	Own-credential sign up and sign in, single-use refresh tokens and role gated account administration.
//	@description
//	@description				Access tokens are signed with the keys published at /.well-known/jwks.json.
//
//	@contact.name				AussieBroadWAN Team
//	@contact.url				https://github.com/aussiebroadwan/greencity
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
//	@description				JWT access token. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

// trimTrailingSlash routes "/user/" like "/user"; the policy already
// ignores trailing slashes, so the mux must too.
func trimTrailingSlash(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p := r.URL.Path
		if len(p) > 1 && strings.HasSuffix(p, "/") && !strings.HasPrefix(p, "/swagger/") {
			r2 := r.Clone(r.Context())
			r2.URL.Path = strings.TrimRight(p, "/")
			if r2.URL.Path == "" {
				r2.URL.Path = "/"
			}
			r2.URL.RawPath = ""
			r = r2
		}
		next.ServeHTTP(w, r)
	})
}

func (r *Router) registerOwnSecurity() {
	h := &OwnSecurityHandler{OwnSecurity: r.OwnSecurityService, Users: r.UserService}

	// Credential endpoints: strict, keyed by address and account so one
	// client cannot spray a single mailbox.
	r.Mux.Handle("POST /ownSecurity/signIn",
		httpx.Chain(http.HandlerFunc(h.HandleSignIn),
			httpx.RateLimitByIPAndJSONField(r.Limits.Strict, "email"),
		),
	)
	r.Mux.Handle("POST /ownSecurity/signUp",
		httpx.Chain(http.HandlerFunc(h.HandleSignUp),
			httpx.RateLimitByIP(r.Limits.Strict),
		),
	)
	r.Mux.Handle("GET /ownSecurity/restorePassword",
		httpx.Chain(http.HandlerFunc(h.HandleRestorePassword),
			httpx.RateLimitByIPAndQuery(r.Limits.Strict, "email"),
		),
	)

	r.Mux.Handle("GET /ownSecurity/updateAccessToken",
		httpx.Chain(http.HandlerFunc(h.HandleUpdateAccessToken),
			httpx.RateLimitByIP(r.Limits.Moderate),
		),
	)
	r.Mux.Handle("POST /ownSecurity/updatePassword",
		httpx.Chain(http.HandlerFunc(h.HandleUpdatePassword),
			httpx.RateLimitByIP(r.Limits.Moderate),
		),
	)
	r.Mux.Handle("GET /ownSecurity/verifyEmail",
		httpx.Chain(http.HandlerFunc(h.HandleVerifyEmail),
			httpx.RateLimitByIP(r.Limits.Moderate),
		),
	)

	// Authenticated password management, limited per user.
	r.Mux.Handle("PUT /ownSecurity/changePassword",
		httpx.Chain(http.HandlerFunc(h.HandleUpdateCurrentPassword),
			httpx.RateLimitByUser(r.Limits.Moderate),
		),
	)
	r.Mux.Handle("POST /ownSecurity/set-password",
		httpx.Chain(http.HandlerFunc(h.HandleSetPassword),
			httpx.RateLimitByUser(r.Limits.Moderate),
		),
	)
	r.Mux.Handle("POST /user/changePassword",
		httpx.Chain(http.HandlerFunc(h.HandleChangePassword),
			httpx.RateLimitByUser(r.Limits.Moderate),
		),
	)
	r.Mux.Handle("GET /ownSecurity/password-status",
		httpx.Chain(http.HandlerFunc(h.HandlePasswordStatus),
			httpx.RateLimitByUser(r.Limits.Lenient),
		),
	)

	r.Mux.Handle("POST /ownSecurity/sign-up-employee",
		httpx.Chain(http.HandlerFunc(h.HandleSignUpEmployee),
			httpx.RateLimitByUser(r.Limits.Lenient),
		),
	)
	r.Mux.Handle("POST /ownSecurity/register",
		httpx.Chain(http.HandlerFunc(h.HandleRegister),
			httpx.RateLimitByUser(r.Limits.Lenient),
		),
	)
}

func (r *Router) registerUsers() {
	h := &UsersHandler{Users: r.UserService}
	lenient := httpx.RateLimitByUser(r.Limits.Lenient)

	r.Mux.Handle("GET /user", httpx.Chain(http.HandlerFunc(h.HandleCurrentUser), lenient))
	r.Mux.Handle("GET /user/lang", httpx.Chain(http.HandlerFunc(h.HandleLanguage), lenient))
	r.Mux.Handle("GET /user/roles", httpx.Chain(http.HandlerFunc(h.HandleRoles), lenient))
	r.Mux.Handle("PATCH /user/status", httpx.Chain(http.HandlerFunc(h.HandleUpdateStatus), lenient))
	r.Mux.Handle("PATCH /user/{id}/role", httpx.Chain(http.HandlerFunc(h.HandleUpdateRole), lenient))
	r.Mux.Handle("PUT /user/deactivate", httpx.Chain(http.HandlerFunc(h.HandleDeactivate), lenient))
	r.Mux.Handle("PUT /user/activate", httpx.Chain(http.HandlerFunc(h.HandleActivate), lenient))
	r.Mux.Handle("GET /user/reasons", httpx.Chain(http.HandlerFunc(h.HandleReasons), lenient))
	r.Mux.Handle("PUT /user/deactivateAll", httpx.Chain(http.HandlerFunc(h.HandleDeactivateAll), lenient))

	r.Mux.Handle("GET /user/activatedUsersAmount",
		httpx.Chain(http.HandlerFunc(h.HandleActivatedUsersAmount),
			httpx.RateLimitByIP(r.Limits.Public),
		),
	)
}

func (r *Router) registerKeyRotation() {
	// Ephemeral mode rotates in memory only; persistent mode also writes
	// the keys to the store.
	h := &KeyRotationHandler{KeyRotationService: r.KeyRotationService}
	limit := httpx.RateLimitByUser(r.Limits.Moderate)

	r.Mux.Handle("POST /management/keys/rotate", httpx.Chain(http.HandlerFunc(h.HandleRotate), limit))
	r.Mux.Handle("GET /management/keys", httpx.Chain(http.HandlerFunc(h.HandleListKeys), limit))
	r.Mux.Handle("POST /management/keys/{kid}/retire", httpx.Chain(http.HandlerFunc(h.HandleRetireKey), limit))
}

func (r *Router) registerSystem() {
	// Monitoring may poll often.
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(r.Limits.Lenient),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.db, r.keys),
			httpx.RateLimitByIP(r.Limits.Lenient),
		),
	)
	r.Mux.Handle("GET /.well-known/jwks.json",
		httpx.Chain(JWKSHandler(r.keys.KeySet),
			httpx.RateLimitByIP(r.Limits.Public),
		),
	)
}
