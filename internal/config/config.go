package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Server   ServerConfig
	JWT      JWTConfig
	Admin    AdminConfig
	Matching MatchingConfig
	MongoDB  MongoDBConfig
	InfluxDB InfluxDBConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port string
	Host string
}

// JWTConfig holds JWT-related configuration
type JWTConfig struct {
	Secret string
}

// AdminConfig guards the manual-review resolve endpoint
type AdminConfig struct {
	APIKey string
}

// MatchingConfig holds nearby-feed parameters
type MatchingConfig struct {
	RadiusKm float64
}

// MongoDBConfig holds MongoDB connection details for the archive (optional)
type MongoDBConfig struct {
	URI        string
	Host       string
	Port       string
	Database   string
	Username   string
	Password   string
	AuthSource string
}

// InfluxDBConfig holds InfluxDB connection details for event metrics (optional)
type InfluxDBConfig struct {
	URL    string
	Token  string
	Org    string
	Bucket string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if file doesn't exist)
	_ = godotenv.Load()

	radiusKm, err := strconv.ParseFloat(getEnv("MATCHING_RADIUS_KM", "5"), 64)
	if err != nil || radiusKm <= 0 {
		return nil, fmt.Errorf("MATCHING_RADIUS_KM must be a positive number")
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "8080"),
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
		},
		JWT: JWTConfig{
			Secret: getEnv("JWT_SECRET", "your-secret-key-change-in-production"),
		},
		Admin: AdminConfig{
			APIKey: getEnv("ADMIN_API_KEY", ""),
		},
		Matching: MatchingConfig{
			RadiusKm: radiusKm,
		},
		MongoDB: MongoDBConfig{
			URI:        getEnv("MONGODB_URI", ""),
			Host:       getEnv("MONGODB_HOST", ""),
			Port:       getEnv("MONGODB_PORT", "27017"),
			Database:   getEnv("MONGODB_DATABASE", "runam"),
			Username:   getEnv("MONGODB_USERNAME", ""),
			Password:   getEnv("MONGODB_PASSWORD", ""),
			AuthSource: getEnv("MONGODB_AUTH_SOURCE", "admin"),
		},
		InfluxDB: InfluxDBConfig{
			URL:    getEnv("INFLUXDB2_URL", ""),
			Token:  getEnv("INFLUXDB2_TOKEN", ""),
			Org:    getEnv("INFLUXDB2_ORG", ""),
			Bucket: getEnv("INFLUXDB2_BUCKET", ""),
		},
	}

	// InfluxDB is optional, but a partial configuration is a mistake
	if cfg.InfluxDB.URL != "" {
		if cfg.InfluxDB.Token == "" {
			return nil, fmt.Errorf("INFLUXDB2_TOKEN is required when INFLUXDB2_URL is set")
		}
		if cfg.InfluxDB.Org == "" {
			return nil, fmt.Errorf("INFLUXDB2_ORG is required when INFLUXDB2_URL is set")
		}
		if cfg.InfluxDB.Bucket == "" {
			return nil, fmt.Errorf("INFLUXDB2_BUCKET is required when INFLUXDB2_URL is set")
		}
	}

	return cfg, nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
