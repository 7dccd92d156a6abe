package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the relay server.
type Config struct {
	// Addr is the listen address for the HTTP server, e.g. ":5000".
	Addr string
	// SendBuffer is the size of each client's outbound message buffer.
	// When a client's buffer is full, further messages to it are dropped.
	SendBuffer int
}

const (
	defaultAddr       = ":5000"
	defaultSendBuffer = 256
)

// New loads configuration from environment variables.
func New() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	cfg := &Config{
		Addr:       defaultAddr,
		SendBuffer: defaultSendBuffer,
	}

	if addr := os.Getenv("RELAY_ADDR"); addr != "" {
		cfg.Addr = addr
	}

	if buf := os.Getenv("RELAY_SEND_BUFFER"); buf != "" {
		n, err := strconv.Atoi(buf)
		if err != nil || n <= 0 {
			log.Fatalf("RELAY_SEND_BUFFER must be a positive integer, got %q", buf)
		}
		cfg.SendBuffer = n
	}

	return cfg
}
