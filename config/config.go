package config

import (
	"github.com/kelseyhightower/envconfig"
	log "github.com/sirupsen/logrus"
)

var AppCfg AppConfig

type AppConfig struct {
	Port         string `envconfig:"PORT" default:"8080"`
	JWTAccessKey string `envconfig:"JWT_ACCESS_KEY" default:""`

	DBHost     string `envconfig:"DB_HOST" default:"localhost"`
	DBPort     string `envconfig:"DB_PORT" default:"3306"`
	DBUser     string `envconfig:"DB_USER" default:"root"`
	DBPassword string `envconfig:"DB_PASSWORD" default:""`
	DBName     string `envconfig:"DB_NAME" default:"luckyvista"`

	// Sentiment classifier artifacts. When either file is missing or fails
	// to load the service runs on the keyword heuristic instead.
	ModelPath      string `envconfig:"MODEL_PATH" default:"models/sentiment_model.json"`
	VectorizerPath string `envconfig:"VECTORIZER_PATH" default:"models/vectorizer.json"`

	// Optional redis cache for classification results.
	RedisAddr     string `envconfig:"REDIS_ADDR" default:""`
	RedisPassword string `envconfig:"REDIS_PASSWORD" default:""`

	AdminEmail    string `envconfig:"ADMIN_EMAIL" default:"admin@luckyvista.io"`
	AdminPassword string `envconfig:"ADMIN_PASSWORD" default:""`

	CORSOrigins []string `envconfig:"CORS_ORIGINS" default:"http://localhost:3000,http://localhost:5173"`
}

func (cfg *AppConfig) LoadConfig() {
	err := envconfig.Process("", cfg)
	if err != nil {
		log.WithError(err).Error("load env err")
	}
}
