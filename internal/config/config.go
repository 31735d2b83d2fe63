package config

import (
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

type ServerConfig struct {
	Port string
}

type HTTPConfig struct {
	Addr string
}

type RegistryConfig struct {
	DefaultRooms []string
}

type ArchiveConfig struct {
	LogPath      string
	KafkaBrokers []string
	KafkaTopic   string
}

// Init loads variables from a .env file when one is present. System
// environment variables always win.
func Init() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}
}

func Server() *ServerConfig {
	return &ServerConfig{
		Port: getEnv("APP_PORT", ":50000"),
	}
}

func HTTP() *HTTPConfig {
	return &HTTPConfig{
		Addr: getEnv("HTTP_ADDR", ":8080"),
	}
}

func Registry() *RegistryConfig {
	rooms := strings.Split(getEnv("CHAT_ROOMS", "general,PSPRO,DEINT,PMDMO,ACDAT"), ",")
	for i := range rooms {
		rooms[i] = strings.TrimSpace(rooms[i])
	}
	return &RegistryConfig{
		DefaultRooms: rooms,
	}
}

func Archive() *ArchiveConfig {
	// CHAT_LOG set to the empty string disables the transcript, so an
	// unset variable must be told apart from an empty one.
	logPath, ok := os.LookupEnv("CHAT_LOG")
	if !ok {
		logPath = "chat.txt"
	}

	cfg := &ArchiveConfig{
		LogPath:    logPath,
		KafkaTopic: getEnv("KAFKA_TOPIC", "chat-transcript"),
	}
	if broker := os.Getenv("KAFKA_BROKER"); broker != "" {
		cfg.KafkaBrokers = []string{broker}
	}
	return cfg
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
