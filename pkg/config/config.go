package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	BackendRealtime  = "realtime"
	BackendFirestore = "firestore"
	BackendMemory    = "memory"
)

type Config struct {
	ServerPort  string
	Environment string

	FirebaseProject            string
	FirebaseDatabaseURL        string
	FirebaseAPIKey             string
	FirebaseServiceAccountJSON string
	FirebaseServiceAccountPath string

	StoreBackend  string
	StorageBucket string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	CacheTTL      time.Duration

	RateLimitPerSecond      int
	RatingReconcileSchedule string
}

func Load() (*Config, error) {
	godotenv.Load()

	config := &Config{
		ServerPort:  getEnv("SERVER_PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),

		FirebaseProject:            getEnv("FIREBASE_PROJECT_ID", ""),
		FirebaseDatabaseURL:        getEnv("FIREBASE_DATABASE_URL", ""),
		FirebaseAPIKey:             getEnv("FIREBASE_API_KEY", ""),
		FirebaseServiceAccountJSON: getEnv("FIREBASE_SERVICE_ACCOUNT_JSON", ""),
		FirebaseServiceAccountPath: getEnv("FIREBASE_SERVICE_ACCOUNT_PATH", ""),

		StoreBackend:  getEnv("STORE_BACKEND", BackendRealtime),
		StorageBucket: getEnv("STORAGE_BUCKET", ""),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvAsInt("REDIS_DB", 0),
		CacheTTL:      getEnvAsDuration("CACHE_TTL", time.Minute),

		RateLimitPerSecond:      getEnvAsInt("RATE_LIMIT_PER_SECOND", 20),
		RatingReconcileSchedule: getEnv("RATING_RECONCILE_SCHEDULE", ""),
	}

	return config, nil
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// UsesFirebase reports whether Firebase should be initialised: always for
// the Firebase backends, and for the memory backend when credentials are set.
func (c *Config) UsesFirebase() bool {
	return c.StoreBackend != BackendMemory || c.HasFirebaseCredentials()
}

func (c *Config) HasFirebaseCredentials() bool {
	return c.FirebaseServiceAccountJSON != "" || c.FirebaseServiceAccountPath != ""
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		intValue, err := strconv.Atoi(value)
		if err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		d, err := time.ParseDuration(value)
		if err == nil {
			return d
		}
	}
	return defaultValue
}
