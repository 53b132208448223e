package config

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/Anuj-gif-web/helpunity-backend/services"
	"github.com/Anuj-gif-web/helpunity-backend/session"
	"github.com/Anuj-gif-web/helpunity-backend/store"
)

// Config carries the runtime settings plus the shared dependencies the
// controllers receive.
type Config struct {
	Port           string
	DBName         string
	JWTSecret      string
	AccessTokenTTL time.Duration
	VerifyTokenTTL time.Duration
	AppBaseURL     string
	AllowedOrigins []string

	MongoClient *mongo.Client
	Store       store.DocumentStore
	Logger      *zap.Logger

	Gate       *session.Gate
	Social     *services.SocialGraph
	Engagement *services.Engagement
	Registrar  *services.Registrar
	Payments   services.PaymentProvider
}

// Load reads the environment (a .env file is honored when present),
// connects Mongo, and wires the shared services.
func Load() (*Config, error) {
	_ = godotenv.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	stripeKey := os.Getenv("STRIPE_SECRET_KEY")
	if stripeKey == "" {
		return nil, fmt.Errorf("STRIPE_SECRET_KEY is required")
	}

	cfg := &Config{
		Port:           envOr("PORT", "8080"),
		DBName:         envOr("DB_NAME", "helpunity"),
		JWTSecret:      jwtSecret,
		AccessTokenTTL: 24 * time.Hour,
		VerifyTokenTTL: 48 * time.Hour,
		AppBaseURL:     envOr("APP_BASE_URL", "http://localhost:8080"),
		AllowedOrigins: strings.Split(envOr("ALLOWED_ORIGINS", "http://localhost:19006"), ","),
		Logger:         logger,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(envOr("MONGODB_URI", "mongodb://localhost:27017")))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	cfg.MongoClient = client
	cfg.Store = store.NewMongo(client, cfg.DBName)

	cfg.Gate = session.NewGate(
		session.StoreProfiles{Store: cfg.Store},
		session.NewMemoryCache(),
		logger,
	)
	cfg.Social = services.NewSocialGraph(cfg.Store, logger)
	cfg.Engagement = services.NewEngagement(cfg.Store, logger)
	cfg.Registrar = services.NewRegistrar(cfg.Store, logger)
	cfg.Payments = services.NewStripeProvider(
		stripeKey,
		envOr("STRIPE_REFRESH_URL", cfg.AppBaseURL+"/payments/refresh"),
		envOr("STRIPE_RETURN_URL", cfg.AppBaseURL+"/payments/return"),
	)

	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
