package app

import (
	"strings"

	"github.com/sableworks/vaultbreak-backend/internal/logger"
	"github.com/sableworks/vaultbreak-backend/internal/utils"
)

type Config struct {
	ServiceName  string
	Environment  string
	Version      string
	Port         string
	MediaDir     string
	AllowOrigins []string
}

func LoadConfig(log *logger.Logger) Config {
	serviceName := utils.GetEnv("SERVICE_NAME", "vaultbreak-backend", log)
	environment := utils.GetEnv("ENVIRONMENT", "development", log)
	version := utils.GetEnv("SERVICE_VERSION", "dev", log)
	port := utils.GetEnv("PORT", "8080", log)
	mediaDir := utils.GetEnv("MEDIA_DIR", "./media", log)

	var origins []string
	rawOrigins := utils.GetEnv("CORS_ALLOW_ORIGINS", "", log)
	for _, origin := range strings.Split(rawOrigins, ",") {
		origin = strings.TrimSpace(origin)
		if origin != "" {
			origins = append(origins, origin)
		}
	}

	return Config{
		ServiceName:  serviceName,
		Environment:  environment,
		Version:      version,
		Port:         port,
		MediaDir:     mediaDir,
		AllowOrigins: origins,
	}
}
