package router

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/baechuer/course-feedback/internal/domain"
	"github.com/baechuer/course-feedback/internal/transport/http/middleware"
	"github.com/baechuer/course-feedback/internal/transport/http/response"
)

type HealthHandler interface {
	Root(w http.ResponseWriter, r *http.Request)
	Healthz(w http.ResponseWriter, r *http.Request)
	Readyz(w http.ResponseWriter, r *http.Request)
}

type AuthHandler interface {
	Signup(w http.ResponseWriter, r *http.Request)
	Login(w http.ResponseWriter, r *http.Request)
	ChangePassword(w http.ResponseWriter, r *http.Request)
}

type ProfileHandler interface {
	Me(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	UploadPic(w http.ResponseWriter, r *http.Request)
	ChangePassword(w http.ResponseWriter, r *http.Request)
}

type AdminHandler interface {
	Stats(w http.ResponseWriter, r *http.Request)
	Students(w http.ResponseWriter, r *http.Request)
	Block(w http.ResponseWriter, r *http.Request)
	Unblock(w http.ResponseWriter, r *http.Request)
	DeleteStudent(w http.ResponseWriter, r *http.Request)
	Trends(w http.ResponseWriter, r *http.Request)
}

type CourseHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	Create(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
}

type FeedbackHandler interface {
	Submit(w http.ResponseWriter, r *http.Request)
	My(w http.ResponseWriter, r *http.Request)
	Edit(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
	All(w http.ResponseWriter, r *http.Request)
	Export(w http.ResponseWriter, r *http.Request)
}

type DevHandler interface {
	MakeAdmin(w http.ResponseWriter, r *http.Request)
}

type Deps struct {
	Health   HealthHandler
	Auth     AuthHandler
	Profile  ProfileHandler
	Admin    AdminHandler
	Courses  CourseHandler
	Feedback FeedbackHandler
	// Dev routes are mounted only when Dev is set.
	Dev DevHandler

	AuthMW  func(http.Handler) http.Handler
	AdminMW func(http.Handler) http.Handler

	CORSOrigins []string

	// Per-route limits backed by Redis; nil disables the route limit.
	RLSignup   func(http.Handler) http.Handler
	RLLogin    func(http.Handler) http.Handler
	RLPassword func(http.Handler) http.Handler

	// IPLimit applies an in-process per-IP limit to the whole API when > 0.
	// It is the fallback used when Redis is not configured.
	IPLimit  int
	IPWindow time.Duration
}

func New(deps Deps) (http.Handler, error) {
	switch {
	case deps.Health == nil:
		return nil, fmt.Errorf("nil Health handler")
	case deps.Auth == nil:
		return nil, fmt.Errorf("nil Auth handler")
	case deps.Profile == nil:
		return nil, fmt.Errorf("nil Profile handler")
	case deps.Admin == nil:
		return nil, fmt.Errorf("nil Admin handler")
	case deps.Courses == nil:
		return nil, fmt.Errorf("nil Courses handler")
	case deps.Feedback == nil:
		return nil, fmt.Errorf("nil Feedback handler")
	case deps.AuthMW == nil:
		return nil, fmt.Errorf("nil Auth middleware")
	case deps.AdminMW == nil:
		return nil, fmt.Errorf("nil Admin middleware")
	}

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(middleware.Metrics)
	r.Use(middleware.AccessLog)
	r.Use(cors.Handler(corsOptions(deps.CORSOrigins)))

	r.Get("/", deps.Health.Root)
	r.Get("/healthz", deps.Health.Healthz)
	r.Get("/readyz", deps.Health.Readyz)
	r.Handle("/metrics", promhttp.Handler())

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		response.WriteError(w, r, domain.New(domain.KindNotFound, "route_not_found", "Route not found"))
	})

	r.Route("/api", func(r chi.Router) {
		if deps.IPLimit > 0 {
			r.Use(ipLimiter(deps.IPLimit, deps.IPWindow))
		}

		r.Route("/auth", func(r chi.Router) {
			r.With(optional(deps.RLSignup)...).Post("/signup", deps.Auth.Signup)
			r.With(optional(deps.RLLogin)...).Post("/login", deps.Auth.Login)
			r.With(append([]func(http.Handler) http.Handler{deps.AuthMW}, optional(deps.RLPassword)...)...).
				Put("/change-password", deps.Auth.ChangePassword)
		})

		r.Route("/profile", func(r chi.Router) {
			r.Use(deps.AuthMW)
			r.Get("/me", deps.Profile.Me)
			r.Put("/me", deps.Profile.Update)
			r.Post("/upload-pic", deps.Profile.UploadPic)
			r.With(optional(deps.RLPassword)...).Post("/change-password", deps.Profile.ChangePassword)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(deps.AuthMW)
			r.Use(deps.AdminMW)
			r.Get("/stats", deps.Admin.Stats)
			r.Get("/students", deps.Admin.Students)
			r.Put("/students/{id}/block", deps.Admin.Block)
			r.Put("/students/{id}/unblock", deps.Admin.Unblock)
			r.Delete("/students/{id}", deps.Admin.DeleteStudent)
			r.Get("/feedback-trends", deps.Admin.Trends)
		})

		r.Route("/courses", func(r chi.Router) {
			r.Use(deps.AuthMW)
			r.Get("/", deps.Courses.List)
			r.With(deps.AdminMW).Post("/", deps.Courses.Create)
			r.With(deps.AdminMW).Delete("/{id}", deps.Courses.Delete)
		})

		r.Route("/feedback", func(r chi.Router) {
			r.Use(deps.AuthMW)
			r.Post("/", deps.Feedback.Submit)
			r.Get("/my", deps.Feedback.My)
			r.With(deps.AdminMW).Get("/all", deps.Feedback.All)
			r.With(deps.AdminMW).Get("/export", deps.Feedback.Export)
			r.Put("/{id}", deps.Feedback.Edit)
			r.Delete("/{id}", deps.Feedback.Delete)
		})

		if deps.Dev != nil {
			r.Put("/dev/make-admin/{email}", deps.Dev.MakeAdmin)
		}
	})

	return r, nil
}

func corsOptions(origins []string) cors.Options {
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", middleware.HeaderXRequestID},
		ExposedHeaders: []string{middleware.HeaderXRequestID, "Retry-After", "Content-Disposition"},
		MaxAge:         300,
	}
}

func ipLimiter(limit int, window time.Duration) func(http.Handler) http.Handler {
	if window <= 0 {
		window = time.Minute
	}
	return httprate.Limit(
		limit,
		window,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			response.WriteError(w, r, domain.ErrRateLimited("ip"))
		}),
	)
}

// optional drops a nil middleware so it can be passed to chi's With.
func optional(mw func(http.Handler) http.Handler) []func(http.Handler) http.Handler {
	if mw == nil {
		return nil
	}
	return []func(http.Handler) http.Handler{mw}
}
