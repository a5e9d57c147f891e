package main

import (
	"log"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"github.com/jo-hoe/shelfintake/internal/backend"
	"github.com/jo-hoe/shelfintake/internal/backend/database"
)

func getConfigPath() string {
	// First check if config path is provided via environment variable
	if configPath := os.Getenv("CONFIG_PATH"); configPath != "" {
		return configPath
	}

	// Default to config/collector.yaml in current working directory
	cwd, err := os.Getwd()
	if err != nil {
		panic(err)
	}
	return filepath.Join(cwd, "config", "collector.yaml")
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using system environment variables")
	}

	// Load configuration
	configPath := getConfigPath()
	config, err := backend.LoadConfig(configPath)
	if err != nil {
		log.Printf("failed to load config from %s: %v", configPath, err)
		panic(err)
	}

	databaseService, err := database.NewDatabase(config.Database.Type, config.Database.ConnectionString)
	if err != nil {
		log.Printf("failed to initialize database: %v", err)
		panic(err)
	}
	defer func() {
		if err := databaseService.Close(); err != nil {
			log.Printf("database close error: %v", err)
		}
	}()

	// Start the collection endpoint
	apiService := backend.NewAPIService(config.Port, config.MaxRow, databaseService)
	apiService.Start()
}
