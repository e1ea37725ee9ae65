package http

import (
	"net/http"

	"github.com/RodolfoRXXX/project-voley-sub000/internal/config"
	"github.com/RodolfoRXXX/project-voley-sub000/internal/metrics"
	"github.com/RodolfoRXXX/project-voley-sub000/internal/notifier"
	"github.com/RodolfoRXXX/project-voley-sub000/internal/processor"
	"github.com/RodolfoRXXX/project-voley-sub000/internal/pubsub"
	"github.com/RodolfoRXXX/project-voley-sub000/internal/roster"
)

type Server struct {
	Store          roster.RosterStore
	Metrics        metrics.Metrics
	MetricsHandler http.Handler
	Cfg            config.Config
	Notifier       notifier.Notifier
	Processor      *processor.Processor
	Router         *http.ServeMux
	pubsub         pubsub.PubSubClient
}
