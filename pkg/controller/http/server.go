package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/secmon-lab/riskscope/pkg/usecase"
	"github.com/secmon-lab/riskscope/pkg/utils/logging"
)

const DefaultCORSOrigin = "http://localhost:3000"

type Server struct {
	router      *chi.Mux
	uc          *usecase.UseCases
	version     string
	corsOrigins []string
}

type Options func(*Server)

// WithCORSOrigins sets the origins allowed to call the API from a browser
func WithCORSOrigins(origins []string) Options {
	return func(s *Server) {
		s.corsOrigins = origins
	}
}

func WithVersion(version string) Options {
	return func(s *Server) {
		s.version = version
	}
}

func New(uc *usecase.UseCases, opts ...Options) *Server {
	r := chi.NewRouter()

	s := &Server{
		router:      r,
		uc:          uc,
		version:     "dev",
		corsOrigins: []string{DefaultCORSOrigin},
	}
	for _, opt := range opts {
		opt(s)
	}

	r.Use(middleware.RequestID)
	r.Use(accessLogger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.corsOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/", s.rootHandler)
	r.Get("/health", healthHandler)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/guidewords", s.listGuidewords)

		r.Route("/situations", func(r chi.Router) {
			r.Post("/", s.createSituation)
			r.Get("/", s.listSituations)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.getSituation)
				r.Delete("/", s.deleteSituation)
				r.Post("/identify-risks", s.identifyRisks)
				r.Get("/risks", s.listRisks)
				r.Get("/report", s.getReport)
				r.Post("/export", s.exportReport)
			})
		})

		r.Route("/risks/{id}", func(r chi.Router) {
			r.Post("/evaluate", s.evaluateRisk)
			r.Get("/evaluation", s.getEvaluation)
		})

		r.Route("/evaluations", func(r chi.Router) {
			// meta routes first so "meta" is never taken as an evaluation ID
			r.Post("/meta/{meta_id}/generate-countermeasures", s.generateFromMeta)
			r.Get("/meta/{meta_id}/countermeasures", s.listCountermeasuresByMeta)

			r.Post("/{id}/generate-countermeasures", s.generateCountermeasures)
			r.Get("/{id}/countermeasures", s.listCountermeasures)
			r.Post("/{id}/generate-meta-countermeasures", s.generateMetaCountermeasures)
			r.Get("/{id}/meta-countermeasures", s.listMetaCountermeasures)
		})
	})

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// accessLogger logs every request and puts a request-scoped logger into the context
func accessLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		logger := logging.Default().With("request_id", middleware.GetReqID(r.Context()))
		ctx := logging.With(r.Context(), logger)

		defer func() {
			logger.Info("access",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"remote", r.RemoteAddr,
				"user_agent", r.UserAgent(),
			)
		}()

		next.ServeHTTP(ww, r.WithContext(ctx))
	})
}
