package api

import (
	"net/http"
	"time"

	// This blank import is required by swaggo to find the API definitions.
	_ "spareeye/backend/docs"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	httpSwagger "github.com/swaggo/http-swagger"

	"spareeye/backend/internal/auth"
)

// Handlers groups every HTTP handler the router mounts.
type Handlers struct {
	Requests *RequestHandler
	Users    *UserHandler
	Settings *SettingsHandler
	Speech   *SpeechHandler
	// Uploads serves stored images under /uploads/.
	Uploads http.Handler
}

// RouterOptions holds the cross-cutting HTTP settings.
type RouterOptions struct {
	Tokens             *auth.TokenManager
	AllowedOrigins     []string
	RateLimitPerMinute int
}

// NewRouter creates and configures a new chi router with all the application's routes.
func NewRouter(h Handlers, opts RouterOptions) *chi.Mux {
	r := chi.NewRouter()

	// --- Global Middleware ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// --- Public Routes ---
	r.Get("/api/swagger/*", httpSwagger.WrapHandler)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	if h.Uploads != nil {
		r.Method(http.MethodGet, "/uploads/*", h.Uploads)
		r.Method(http.MethodHead, "/uploads/*", h.Uploads)
	}

	// --- API Version 1 Routes ---
	r.Route("/api/v1", func(r chi.Router) {
		if opts.RateLimitPerMinute > 0 {
			r.Use(httprate.LimitByIP(opts.RateLimitPerMinute, time.Minute))
		}

		// --- Auth ---
		r.Group(func(r chi.Router) {
			r.Use(middleware.Timeout(60 * time.Second))
			r.Post("/auth/sign-up", h.Users.HandleSignUp)
			r.Post("/auth/sign-in", h.Users.HandleSignIn)
		})

		r.Group(func(r chi.Router) {
			r.Use(Authenticate(opts.Tokens))

			// Plain JSON routes get a request timeout so connections can't hang.
			r.Group(func(r chi.Router) {
				r.Use(middleware.Timeout(60 * time.Second))

				// --- Profile & Users ---
				r.Get("/profile", h.Users.HandleGetProfile)
				r.Put("/profile/change-password", h.Users.HandleChangePassword)
				r.Get("/users", h.Users.HandleListUsers)
				r.Get("/users/{userID}", h.Users.HandleGetUser)

				// --- Settings ---
				r.Get("/settings/{userID}", h.Settings.HandleGetSettings)
				r.Put("/settings/{userID}", h.Settings.HandleUpdateSettings)

				// --- Requests ---
				r.Post("/requests", h.Requests.HandleCreateRequest)
				r.Get("/requests", h.Requests.HandleListRequests)
				r.Get("/requests/{requestID}", h.Requests.HandleGetRequest)
				r.Put("/requests/{requestID}", h.Requests.HandleUpdateRequest)
				r.Delete("/requests/{requestID}", h.Requests.HandleDeleteRequest)
			})

			// Uploads and provider calls are bounded by their own limits and
			// upstream timeouts, so they must NOT have the request timeout.
			r.Group(func(r chi.Router) {
				r.Post("/requests/uploads/images", h.Requests.HandleUploadImages)
				r.Post("/requests/analyze", h.Requests.HandleAnalyze)
				r.Post("/tts", h.Speech.HandleTextToSpeech)
			})
		})
	})

	return r
}
