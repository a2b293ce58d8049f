package main

import (
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/matchfit/backend/internal/achievements"
	"github.com/matchfit/backend/internal/config"
	"github.com/matchfit/backend/internal/demo"
	"github.com/matchfit/backend/internal/storage"
	"github.com/matchfit/backend/internal/training"
	"github.com/matchfit/backend/internal/ws"
)

func main() {
	demoMode := flag.Bool("demo", false, "Seed a demo player with training history")
	configPath := flag.String("config", "config.yaml", "Path to config file")
	port := flag.Int("port", 0, "Override server port")
	flag.Parse()

	// .env is optional; environment variables win either way.
	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *port > 0 {
		cfg.Server.Port = *port
	}

	db, err := storage.Open(config.DatabaseDSN())
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	engine := achievements.NewEngine(db, db, db)
	workflow := training.NewWorkflow(db, engine)
	broadcaster := ws.NewBroadcaster()

	workflow.OnUnlock(func(playerID string, def achievements.Definition) {
		log.Printf("Player %s unlocked %s (+%d XP)", playerID, def.ID, def.XPReward)
		broadcaster.AnnounceUnlock(ws.AchievementUnlockedPayload{
			PlayerID:    playerID,
			ID:          def.ID,
			Name:        def.Name,
			Description: def.Description,
			Icon:        def.Icon,
			Category:    string(def.Category),
			XPReward:    def.XPReward,
		})
	})

	if *demoMode {
		log.Println("Starting in demo mode")
		if _, err := demo.Seed(db, workflow); err != nil {
			log.Fatalf("Failed to seed demo data: %v", err)
		}
	}

	server := ws.NewServer(db, workflow, broadcaster, cfg.Server.AllowedOrigins, cfg.Auth.Token)
	mux := http.NewServeMux()
	server.SetupRoutes(mux)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Println("Shutting down...")
		db.Close()
		os.Exit(0)
	}()

	if err := ws.ListenAndServe(cfg.Server.Host, cfg.Server.Port, mux); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
