package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/RodolfoRXXX/project-voley-sub000/internal/processor"
	"github.com/charmbracelet/log"
)

// SweepHandler triggers a deadline sweep on demand. The same sweep also runs
// on the background scheduler, this endpoint exists for Cloud Scheduler style
// setups and manual runs.
func SweepHandler(proc *processor.Processor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Info("Starting deadline sweep...")
		isDryRun := IsDryRunFromContext(r)

		proc.SweepDeadlines(time.Now(), isDryRun)

		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "Deadline sweep completed.")
		log.Info("Deadline sweep finished.")
	}
}
