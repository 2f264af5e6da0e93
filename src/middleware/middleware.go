package middleware

import (
	"net/http"
	"strings"
	"time"

	"ganak-service/src/auth"
	"ganak-service/src/config"
	errors "ganak-service/src/error"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
)

type Middleware struct {
	Config *config.Config
	CORS   CORSPolicy
}

// NewMiddleware creates a new instance of Middleware with the normalized CORS policy
func NewMiddleware(cfg *config.Config) *Middleware {
	policy, warnings := NewCORSPolicy(cfg.CORS).Normalize()
	for _, w := range warnings {
		cfg.Logger.Warn("⚠️ CORS: " + w)
	}
	return &Middleware{
		Config: cfg,
		CORS:   policy,
	}
}

// SetupMiddleware sets up all global middleware
func (m *Middleware) SetupMiddleware(mux *chi.Mux) {
	mux.Use(m.CORSMiddleware())
	mux.Use(middleware.Heartbeat("/ping"))
	mux.Use(middleware.RequestID)
	mux.Use(middleware.RealIP)
	mux.Use(middleware.Recoverer)
	mux.Use(middleware.Logger)

	if m.Config.RateLimitPerMinute > 0 {
		mux.Use(m.RateLimiterMiddleware())
	}

	m.Config.Logger.Info("✅ Middleware initialized successfully")
}

// CORSMiddleware returns the cors.Handler middleware for the normalized policy
func (m *Middleware) CORSMiddleware() func(http.Handler) http.Handler {
	m.Config.Logger.Info("✅ CORS middleware initialized with allowed origins: " + strings.Join(m.CORS.AllowedOrigins, ", "))
	return m.CORS.Handler()
}

// RateLimiterMiddleware limits each IP to the configured requests per minute
func (m *Middleware) RateLimiterMiddleware() func(http.Handler) http.Handler {
	return httprate.LimitByIP(m.Config.RateLimitPerMinute, time.Minute)
}

// StrictRateLimiter guards endpoints that send mail or check one-time codes.
func (m *Middleware) StrictRateLimiter() func(http.Handler) http.Handler {
	return httprate.LimitByIP(10, 15*time.Minute)
}

// Authenticate rejects requests without a valid bearer token and stores the
// token subject in the request context.
func (m *Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenStr, err := auth.BearerToken(r.Header.Get("Authorization"))
		if err != nil {
			msg := errors.ErrAuthorizationInvalid
			if err == auth.ErrTokenMissing {
				msg = errors.ErrAuthorizationHeader
			}
			w.Header().Set("WWW-Authenticate", "Bearer")
			http.Error(w, msg, http.StatusUnauthorized)
			return
		}

		userID, err := auth.ParseToken(tokenStr, m.Config.JWTSecret)
		if err != nil {
			w.Header().Set("WWW-Authenticate", "Bearer")
			http.Error(w, errors.ErrTokenInvalid, http.StatusUnauthorized)
			m.Config.Logger.Warn("Rejected token: " + err.Error())
			return
		}

		next.ServeHTTP(w, r.WithContext(auth.WithUserID(r.Context(), userID)))
	})
}
