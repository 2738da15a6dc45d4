package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/nguyentantai21042004/meeting-minutes/internal/intake"
	"github.com/nguyentantai21042004/meeting-minutes/internal/logger"
	"github.com/nguyentantai21042004/meeting-minutes/internal/orchestrator"
	"github.com/nguyentantai21042004/meeting-minutes/internal/report"
)

type Deps struct {
	Sources      intake.Store
	Reports      report.Store
	Orchestrator orchestrator.Orchestrator
}

type Options struct {
	Addr        string
	TLSCertFile string
	TLSKeyFile  string
	// MaxUploadBytes caps one multipart upload. Zero means 512 MiB.
	MaxUploadBytes int64
}

type implServer struct {
	deps   Deps
	opts   Options
	logger logger.Logger
	router chi.Router
	srv    *http.Server
}

// New wires the routes. The server does not listen until Start.
func New(deps Deps, opts Options, log logger.Logger) Server {
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = 512 << 20
	}
	s := &implServer{
		deps:   deps,
		opts:   opts,
		logger: log,
	}
	s.router = s.routes()
	s.srv = &http.Server{
		Addr:              opts.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

func (s *implServer) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "ngrok-skip-browser-warning"},
		MaxAge:         300,
	}))

	r.Get("/healthz", s.health)

	r.Route("/whispers", func(wr chi.Router) {
		wr.Post("/upload", s.upload)
		wr.Get("/sessions", s.listSessions)
		wr.Post("/sessions/{sessionID}/process", s.process)
	})

	r.Route("/reports", func(rr chi.Router) {
		rr.Get("/me", s.reportsForParticipant)
		rr.Get("/list", s.listReports)
		rr.Post("/insert", s.insertReport)
		rr.Put("/update/{id}", s.updateReport)
		rr.Delete("/delete/{id}", s.deleteReport)
		rr.Get("/{id}", s.getReport)
	})
	return r
}
