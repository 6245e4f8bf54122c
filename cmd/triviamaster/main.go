package main

import (
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"triviamaster/internal/game"
	"triviamaster/internal/httpapi"
	"triviamaster/internal/stats"
)

func main() {
	_ = godotenv.Load()

	cfg := configFromEnv()
	agg := stats.NewAggregator()
	bank := game.NewBank(game.DefaultQuestions)

	srv, err := game.NewServer(cfg, bank, agg)
	if err != nil {
		fmt.Printf("Error starting server: %v\n", err)
		os.Exit(1)
	}

	// Operator-facing statistics endpoint.
	http.HandleFunc("/api/stats", httpapi.WithCORS(httpapi.ServeStats(agg)))
	go func() {
		port := os.Getenv("PORT")
		if port == "" {
			port = "8080"
		}
		_ = http.ListenAndServe(":"+port, nil)
	}()

	fmt.Printf("Server started, listening on IP address %s, port %d\n", cfg.Host, srv.Port())
	srv.Run()
}

func configFromEnv() game.Config {
	cfg := game.DefaultConfig()
	cfg.ServerName = envString("SERVER_NAME", cfg.ServerName)
	cfg.Host = envString("HOST", cfg.Host)
	cfg.DiscoveryPort = envInt("DISCOVERY_PORT", cfg.DiscoveryPort)
	cfg.StreamPortLow = envInt("STREAM_PORT_LOW", cfg.StreamPortLow)
	cfg.StreamPortHigh = envInt("STREAM_PORT_HIGH", cfg.StreamPortHigh)
	cfg.JoinIdle = envDuration("JOIN_IDLE", cfg.JoinIdle)
	cfg.RoundLength = envDuration("ROUND_LENGTH", cfg.RoundLength)
	return cfg
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
