package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	auth "github.com/mind-engage/progress-tracker/internal/auth/middleware"
	"github.com/mind-engage/progress-tracker/internal/config"
	"github.com/mind-engage/progress-tracker/internal/rbac"
	"github.com/mind-engage/progress-tracker/internal/report"
	"github.com/mind-engage/progress-tracker/internal/reportlog"
	"github.com/mind-engage/progress-tracker/internal/storage"
)

// Deps wires the router. Recorder and Blobs are nil when the archive is off.
type Deps struct {
	Config   *config.Config
	Builder  *report.Builder
	Auth     *auth.AuthService
	Recorder *reportlog.Recorder
	Blobs    storage.BlobStore
	Logger   *zap.Logger
}

func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, RequestLogger(d.Logger), middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	maxBody := d.Config.HTTP.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = 1 << 20
	}
	r.Use(middleware.RequestSize(maxBody))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   d.Config.CORSOrigins(),
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	var arc Archiver
	if d.Recorder != nil {
		arc = d.Recorder
	}

	r.Get("/bands", BandsHandler())
	r.Get("/config", FormConfigHandler(d.Builder))

	// online mode: generating a report needs a token with report:generate
	r.Group(func(gr chi.Router) {
		if d.Config.Mode == config.ModeOnline {
			gr.Use(auth.JWTMiddleware(d.Auth), rbac.Require(rbac.PermReportGenerate))
		}
		gr.Post("/reports", GenerateReportHandler(d.Builder, arc, d.Logger))
		gr.Post("/reports/xlsx", ExportReportHandler(d.Builder, arc, d.Logger))
	})

	if d.Config.RequireAuth() {
		r.Post("/auth/login", auth.LoginHandler(d.Auth, d.Config.Auth.AdminUser, d.Config.Auth.AdminPassHash))
	}

	if d.Recorder != nil {
		r.Group(func(pr chi.Router) {
			pr.Use(auth.JWTMiddleware(d.Auth))
			pr.With(rbac.Require(rbac.PermReportLogView)).
				Get("/reports/log", ReportLogHandler(d.Recorder.Repo(), d.Logger))
			if d.Blobs != nil {
				pr.Route("/exports", func(er chi.Router) {
					er.Use(rbac.Require(rbac.PermReportExport))
					MountExports(er, d.Blobs, d.Logger)
				})
			}
		})
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })
	return r
}
