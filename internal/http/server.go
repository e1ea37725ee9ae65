package http

import (
	"net/http"

	"github.com/RodolfoRXXX/project-voley-sub000/internal/config"
	"github.com/RodolfoRXXX/project-voley-sub000/internal/http/handlers"
	"github.com/RodolfoRXXX/project-voley-sub000/internal/metrics"
	"github.com/RodolfoRXXX/project-voley-sub000/internal/notifier"
	"github.com/RodolfoRXXX/project-voley-sub000/internal/processor"
	"github.com/RodolfoRXXX/project-voley-sub000/internal/pubsub"
	"github.com/RodolfoRXXX/project-voley-sub000/internal/roster"
)

func NewServer(store roster.RosterStore, metricsSvc metrics.Metrics, metricsHandler http.Handler, cfg config.Config, notifier notifier.Notifier, processor *processor.Processor, pubsub pubsub.PubSubClient) *Server {
	server := &Server{
		Store:          store,
		Metrics:        metricsSvc,
		MetricsHandler: metricsHandler,
		Cfg:            cfg,
		Notifier:       notifier,
		Processor:      processor,
		Router:         http.NewServeMux(),
		pubsub:         pubsub,
	}

	server.routes()
	return server
}

func (s *Server) routes() {
	// All handlers are wrapped with middleware using the Chain helper.
	// This makes it easy to add more middlewares in the future, like an authentication middleware.
	s.Router.Handle("/metrics", s.MetricsHandler)
	s.Router.Handle("/health", Chain(handlers.HealthCheckHandler(s.Store), paramsMiddleware))
	s.Router.Handle("/clear", Chain(handlers.ClearStoreHandler(s.Store), paramsMiddleware))
	s.Router.Handle("/groups", Chain(handlers.CreateGroupHandler(s.Store), paramsMiddleware))
	s.Router.Handle("/players", Chain(handlers.UpsertPlayerHandler(s.Store), paramsMiddleware))
	s.Router.Handle("/matches", Chain(handlers.ListMatchesHandler(s.Store), paramsMiddleware))
	s.Router.Handle("/matches/create", Chain(handlers.CreateMatchHandler(s.Processor), paramsMiddleware))
	s.Router.Handle("/matches/join", Chain(handlers.JoinHandler(s.Processor), paramsMiddleware))
	s.Router.Handle("/matches/withdraw", Chain(handlers.WithdrawHandler(s.Processor), paramsMiddleware))
	s.Router.Handle("/matches/close", Chain(handlers.CloseMatchHandler(s.Processor), paramsMiddleware))
	s.Router.Handle("/matches/reopen", Chain(handlers.ReopenMatchHandler(s.Processor), paramsMiddleware))
	s.Router.Handle("/matches/cancel", Chain(handlers.CancelMatchHandler(s.Processor), paramsMiddleware))
	s.Router.Handle("/matches/teams", Chain(handlers.TeamsHandler(s.Processor, s.Store), paramsMiddleware))
	s.Router.Handle("/participations/payment", Chain(handlers.PaymentHandler(s.Processor), paramsMiddleware))
	s.Router.Handle("/sweep", Chain(handlers.SweepHandler(s.Processor), paramsMiddleware))
	s.Router.Handle("/pubsub/roster-recalc", Chain(handlers.RecalculateHandler(s.Processor, s.pubsub), paramsMiddleware))
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}
