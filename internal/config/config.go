package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	LogLevel     string        `yaml:"log-level" env-default:"info"`
	Server       Server        `yaml:"server"`
	PlayerName   string        `yaml:"player-name" env:"PLAYER_NAME" env-default:"gopher"`
	TickInterval time.Duration `yaml:"tick-interval" env-default:"100ms"`
}

type Server struct {
	Host string `yaml:"host" env:"SERVER_HOST" env-default:"127.0.0.1"`
	Port string `yaml:"port" env:"SERVER_PORT" env-default:"12345"`
}

// MustLoad - load all configurations in config.yml file.
func MustLoad(path string) *Config {
	config := &Config{}

	if err := cleanenv.ReadConfig(path, config); err != nil {
		panic(fmt.Errorf("unable to load config file: %w", err))
	}

	return config
}

func (that *Server) GetServerAddr() string {
	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}
