package config

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	Server    Server
	Classroom Classroom
	Redis     Redis
	JWTSecret string
}

type Server struct {
	Port string
}

// Classroom points at the remote classroom API the portal fronts.
type Classroom struct {
	BaseURL        string
	TimeoutSeconds int
}

// Redis backs the durable answer mirror. An empty Addr falls back to the
// in-process mirror (answers then survive reloads of the view, not restarts).
type Redis struct {
	Addr     string
	Password string
	DB       int
}

func NewConfig() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")

	viper.AutomaticEnv()

	viper.SetDefault("SERVER_PORT", "8090")
	viper.SetDefault("CLASSROOM_TIMEOUT_SECONDS", 15)

	if err := viper.ReadInConfig(); err != nil {
		log.Warn().Err(err).Msg("Error reading config file")
	}

	var config Config

	config.Server.Port = viper.GetString("SERVER_PORT")
	config.Classroom.BaseURL = viper.GetString("CLASSROOM_API_URL")
	config.Classroom.TimeoutSeconds = viper.GetInt("CLASSROOM_TIMEOUT_SECONDS")
	config.Redis.Addr = viper.GetString("REDIS_ADDR")
	config.Redis.Password = viper.GetString("REDIS_PASSWORD")
	config.Redis.DB = viper.GetInt("REDIS_DB")
	config.JWTSecret = viper.GetString("JWT_SECRET")

	log.Info().Str("port", config.Server.Port).Str("classroom_api", config.Classroom.BaseURL).Msg("Config loaded")
	return &config, nil
}
