package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/jo-hoe/shelfintake/internal/common"
	"github.com/jo-hoe/shelfintake/internal/core"
	"github.com/jo-hoe/shelfintake/internal/frontend"
)

func getConfigPath() string {
	// First check if config path is provided via environment variable
	if configPath := os.Getenv("CONFIG_PATH"); configPath != "" {
		return configPath
	}

	// Default to config/config.yaml in current working directory
	cwd, err := os.Getwd()
	if err != nil {
		panic(err)
	}
	return filepath.Join(cwd, "config", "config.yaml")
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using system environment variables")
	}

	// Load configuration
	configPath := getConfigPath()
	config, err := core.LoadConfig(configPath)
	if err != nil {
		log.Printf("failed to load config from %s: %v", configPath, err)
		panic(err)
	}

	intakeService, err := core.NewIntakeServiceFromConfig(config)
	if err != nil {
		log.Printf("failed to initialize intake service: %v", err)
		panic(err)
	}

	loadCtx, cancelLoad := context.WithTimeout(context.Background(), config.RequestTimeout)
	if notification := intakeService.Load(loadCtx); notification != nil {
		log.Printf("initial load: %s: %s", notification.Title, notification.Message)
	}
	cancelLoad()

	server := common.NewEchoServer("/probe")
	frontendService := frontend.NewFrontendService(intakeService)
	frontendService.SetRoutes(server)

	portString := fmt.Sprintf(":%d", config.Port)

	// Start HTTP server in a goroutine to allow graceful shutdown
	go func() {
		if err := server.Start(portString); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("http server error: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Printf("shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Printf("server shutdown error: %v", err)
	}

	if err := intakeService.Close(); err != nil {
		log.Printf("intake service close error: %v", err)
	}
}
