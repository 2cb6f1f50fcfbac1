package stats

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"lavka-main/internal/app"
)

type Config struct {
	CfgDB           app.ConfigDB    `yaml:"db"`
	CfgKafka        app.ConfigKafka `yaml:"kafka"`
	MaxOpenConns    int             `yaml:"max_open_conns"`
	RedisAddr       string          `yaml:"redis_addr"`
	Secret          string          `yaml:"secret"`
	ServerPort      string          `yaml:"srv_port"`
	SessionDuration time.Duration   `yaml:"session_duration"`
}

func NewConfig(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var cfg Config
	if err := yaml.NewDecoder(file).Decode(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
