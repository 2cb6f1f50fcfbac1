package app

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	CfgDB           ConfigDB      `yaml:"db"`
	CfgES           ConfigES      `yaml:"es"`
	CfgKafka        ConfigKafka   `yaml:"kafka"`
	ETLInterval     time.Duration `yaml:"etl_search_interval"`
	MaxOpenConns    int           `yaml:"max_open_conns"`
	RedisAddr       string        `yaml:"redis_addr"`
	Secret          string        `yaml:"secret"`
	ServerPort      string        `yaml:"srv_port"`
	SessionDuration time.Duration `yaml:"session_duration"`
}

type ConfigDB struct {
	Login    string `yaml:"login"`
	Password string `yaml:"password"`
	Port     uint   `yaml:"port"`
	Database string `yaml:"database"`
	Host     string `yaml:"host"`
}

type ConfigES struct {
	Addresses []string `yaml:"addresses"`
	Index     string   `yaml:"index"`
}

type ConfigKafka struct {
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`
	GroupID string   `yaml:"group_id"`
}

func NewConfig(configPath string) (*Config, error) {
	cfg, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	var c Config
	err = yaml.Unmarshal(cfg, &c)
	if err != nil {
		return nil, err
	}

	return &c, nil
}
