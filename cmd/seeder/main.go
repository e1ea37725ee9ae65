package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	_ "github.com/tursodatabase/libsql-client-go/libsql"
)

// Simplified config loading for the script
func loadConfig() map[string]string {
	err := godotenv.Load()
	if err != nil {
		log.Warn("No .env file found, reading from environment variables")
	}

	config := make(map[string]string)
	required := []string{"TURSO_PRIMARY_URL", "TURSO_AUTH_TOKEN"}

	for _, key := range required {
		if value, ok := os.LookupEnv(key); ok {
			config[key] = value
		} else {
			log.Fatalf("Error: Required environment variable %s is not set.", key)
		}
	}
	return config
}

type seedPlayer struct {
	id         string
	name       string
	commitment float64
	positions  []string
}

func main() {
	log.Info("Starting database seeder...")
	cfg := loadConfig()

	// Connect directly to the primary database
	dbURL := fmt.Sprintf("%s?authToken=%s", cfg["TURSO_PRIMARY_URL"], cfg["TURSO_AUTH_TOKEN"])
	db, err := sql.Open("libsql", dbURL)
	if err != nil {
		log.Fatalf("Failed to open primary database: %s", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatalf("Failed to connect to primary database: %s", err)
	}
	log.Info("Successfully connected to the primary database.")

	groupID := "seed-group"
	adminID := "seed-admin"
	_, err = db.Exec("INSERT OR IGNORE INTO groups (id, name, admin_id, total_matches_played) VALUES (?, ?, ?, 0)",
		groupID, "Seeder Volley Group", adminID)
	if err != nil {
		log.Fatalf("Failed to insert group: %s", err)
	}

	players := []seedPlayer{
		{"seed-admin", "Seeder Admin", 5, []string{"setter"}},
		{"seed-player-1", "Seeder Player A", 4, []string{"outside", "opposite"}},
		{"seed-player-2", "Seeder Player B", 3, []string{"middle"}},
		{"seed-player-3", "Seeder Player C", 2, []string{"outside"}},
		{"seed-player-4", "Seeder Player D", 6, []string{"libero", "outside"}},
		{"seed-player-5", "Seeder Player E", 1, []string{"setter", "opposite"}},
	}
	for _, p := range players {
		prefs, _ := json.Marshal(p.positions)
		_, err := db.Exec("INSERT OR IGNORE INTO players (id, name, commitment, preferred_positions_json) VALUES (?, ?, ?, ?)",
			p.id, p.name, p.commitment, string(prefs))
		if err != nil {
			log.Fatalf("Failed to insert player %s: %s", p.name, err)
		}
	}
	log.Info("Ensured seed players exist.", "count", len(players))

	quotas, _ := json.Marshal(map[string]int{"setter": 1, "outside": 2, "middle": 2, "opposite": 1})
	startTime := time.Now().Add(72 * time.Hour)
	matchID := uuid.NewString()
	_, err = db.Exec(`INSERT INTO matches (id, group_id, state, start_time, quotas_json, subs_capacity, team_count, deadline_processed, lock_owner, lock_expires_at, created_at)
		VALUES (?, ?, 'OPEN', ?, ?, 2, 2, 0, '', 0, ?)`,
		matchID, groupID, startTime.Unix(), string(quotas), time.Now().Unix())
	if err != nil {
		log.Fatalf("Failed to insert match: %s", err)
	}

	log.Info("Seeding complete.", "matchID", matchID, "startTime", startTime)
}
