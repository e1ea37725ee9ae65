package handlers

import (
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"

	"github.com/RodolfoRXXX/project-voley-sub000/internal/processor"
	"github.com/RodolfoRXXX/project-voley-sub000/internal/pubsub"
	"github.com/charmbracelet/log"
)

// RecalculateHandler consumes pubsub push deliveries for recalc-requested
// events and re-runs replacement and allocation for the affected match. This
// is the retry path for work skipped on a busy lease; successful runs never
// publish this topic, so a delivery cannot schedule its own successor.
func RecalculateHandler(proc *processor.Processor, pubsubClient pubsub.PubSubClient) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bodyBytes, err := io.ReadAll(r.Body)
		if err != nil {
			log.Error("Failed to read request body", "error", err)
			http.Error(w, "Failed to read request body", http.StatusInternalServerError)
			return
		}
		log.Debug("Received roster event message", "body", string(bodyBytes))

		// Decode the incoming JSON's base64 `data` field.
		var pubsubMsg struct {
			Subscription string `json:"subscription"`
			Message      struct {
				Data string `json:"data"`
			} `json:"message"`
		}

		if err := json.Unmarshal(bodyBytes, &pubsubMsg); err != nil {
			log.Error("Failed to unmarshal wrapper JSON", "error", err)
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}

		rawData, err := base64.StdEncoding.DecodeString(pubsubMsg.Message.Data)
		if err != nil {
			log.Error("Failed to decode base64 data", "error", err)
			http.Error(w, "Invalid base64 data", http.StatusBadRequest)
			return
		}
		isDryRun := IsDryRunFromContext(r)
		event := pubsub.RosterEvent{}
		if err := pubsubClient.ProcessMessage(rawData, &event); err != nil {
			http.Error(w, "Invalid message payload", http.StatusBadRequest)
			return
		}
		if err := proc.RecalculateRoster(event.MatchID, event.Position, isDryRun); err != nil {
			// Returning a non-2xx here makes pubsub redeliver the message.
			log.Error("Failed to recalculate roster", "error", err, "matchID", event.MatchID)
			http.Error(w, "Failed to recalculate roster", http.StatusInternalServerError)
			return
		}
		w.Write([]byte("OK"))
	}
}
