package main

import (
	"log"

	"github.com/hillview/occupancy-backend-go/internal/api"
	"github.com/hillview/occupancy-backend-go/internal/config"
	"github.com/hillview/occupancy-backend-go/internal/database"

	// Import analyzer packages to register them
	_ "github.com/hillview/occupancy-backend-go/internal/analysis/occupancy"
)

func main() {
	cfg := config.Load()

	if err := database.Init(database.Config{Path: cfg.DBPath}); err != nil {
		log.Fatal("Failed to initialize database:", err)
	}
	defer database.Close()

	router := api.SetupRouter(cfg, database.GetDB())

	log.Printf("Server starting on port %s", cfg.Port)
	if err := router.Run(cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
