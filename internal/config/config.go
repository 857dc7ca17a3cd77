package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

// JWTConfig defines issuer/secret pair for auth verification.
type JWTConfig struct {
	Issuer string
	Secret []byte
}

// Config holds runtime configuration shared across the application.
type Config struct {
	Addr                    string
	MongoURI                string
	MongoDatabase           string
	CompanyCollection       string
	ReviewCollection        string
	ReviewHistoryCollection string
	Timeout                 time.Duration
	Timezone                string
	ServerLog               *log.Logger
	JWTConfigs              []JWTConfig
	JWTAudience             string
	AnonymizationSalt       string
	CrawlerUserAgents       []string
	AllowedOrigins          []string
	ReviewSubmitPerMinute   int
	ReviewSubmitBurst       int
}

// Load reads environment variables and returns a fully populated Config.
func Load() Config {
	timeout := 10 * time.Second
	if v := os.Getenv("MONGO_CONNECT_TIMEOUT"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			timeout = parsed
		}
	}

	// ソルトは空文字でもよいが、未設定はプロセス再起動で匿名化結果が
	// 揺れる事故につながるため明示を必須にする。
	salt, ok := os.LookupEnv("ANONYMIZATION_SALT")
	if !ok {
		log.Fatal("ANONYMIZATION_SALT must be configured (empty value is allowed)")
	}

	var jwtConfigs []JWTConfig
	if secret := strings.TrimSpace(os.Getenv("AUTH_GOOGLE_JWT_SECRET")); secret != "" {
		jwtConfigs = append(jwtConfigs, JWTConfig{
			Issuer: envOrDefault("AUTH_GOOGLE_JWT_ISSUER", "workvoice-auth"),
			Secret: []byte(secret),
		})
	}
	if secret := strings.TrimSpace(os.Getenv("AUTH_LINE_JWT_SECRET")); secret != "" {
		jwtConfigs = append(jwtConfigs, JWTConfig{
			Issuer: envOrDefault("AUTH_LINE_JWT_ISSUER", "auth-line"),
			Secret: []byte(secret),
		})
	}

	if len(jwtConfigs) == 0 {
		log.Fatal("JWT secrets not configured. Set AUTH_GOOGLE_JWT_SECRET or AUTH_LINE_JWT_SECRET.")
	}

	jwtAudience := strings.TrimSpace(os.Getenv("AUTH_JWT_AUDIENCE"))

	submitPerMinute := parsePositiveInt("REVIEW_SUBMIT_PER_MINUTE", 3)
	submitBurst := parsePositiveInt("REVIEW_SUBMIT_BURST", 3)

	cfg := Config{
		Addr:                    envOrDefault("HTTP_ADDR", ":8080"),
		MongoURI:                envOrDefault("MONGO_URI", "mongodb://mongo:27017"),
		MongoDatabase:           envOrDefault("MONGO_DB", "workvoice"),
		CompanyCollection:       envOrDefault("COMPANY_COLLECTION", "companies"),
		ReviewCollection:        envOrDefault("REVIEW_COLLECTION", "reviews"),
		ReviewHistoryCollection: envOrDefault("REVIEW_HISTORY_COLLECTION", "review_histories"),
		Timeout:                 timeout,
		Timezone:                envOrDefault("TIMEZONE", "Asia/Tokyo"),
		ServerLog:               log.New(os.Stdout, "[workvoice-api] ", log.LstdFlags|log.Lshortfile),
		JWTConfigs:              jwtConfigs,
		JWTAudience:             jwtAudience,
		AnonymizationSalt:       salt,
		CrawlerUserAgents:       parseList("CRAWLER_USER_AGENTS", defaultCrawlerUserAgents()),
		AllowedOrigins:          parseList("API_ALLOWED_ORIGINS", []string{"*"}),
		ReviewSubmitPerMinute:   submitPerMinute,
		ReviewSubmitBurst:       submitBurst,
	}

	cfg.ServerLog.Printf("loaded config: db=%q reviews=%q companies=%q histories=%q", cfg.MongoDatabase, cfg.ReviewCollection, cfg.CompanyCollection, cfg.ReviewHistoryCollection)

	return cfg
}

func defaultCrawlerUserAgents() []string {
	return []string{"googlebot", "bingbot", "yandexbot", "duckduckbot", "baiduspider"}
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parsePositiveInt(key string, fallback int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil || parsed <= 0 {
		return fallback
	}
	return parsed
}

func parseList(key string, fallback []string) []string {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}

	parts := strings.Split(raw, ",")
	values := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part != "" {
			values = append(values, part)
		}
	}

	if len(values) == 0 {
		return fallback
	}
	return values
}
