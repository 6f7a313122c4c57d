package config

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/CIDgravity/snakelet"
)

// config structure
type Config struct {
	API     APIConfig     `mapstructure:"API"`
	Github  GithubConfig  `mapstructure:"GITHUB"`
	Tasks   TasksConfig   `mapstructure:"TASKS"`
	Logs    LogsConfig    `mapstructure:"LOGS"`
	Profile ProfileConfig `mapstructure:"PROFILE"`
}

type APIConfig struct {
	ListenPort string `mapstructure:"ListenPort"`
}

type GithubConfig struct {
	Username        string `mapstructure:"Username"`
	Token           string `mapstructure:"Token"`
	RepositoryLimit int    `mapstructure:"RepositoryLimit"`
}

type TasksConfig struct {
	MaxParallelTasksAllowed int `mapstructure:"MaxParallelTasksAllowed"`
}

type LogsConfig struct {
	Level            string `mapstructure:"Level"` // error | warn | info | debug - case insensitive
	OutputLogsAsJSON bool   `mapstructure:"OutputLogsAsJson"`
}

// ProfileConfig holds the static bio displayed by the portfolio frontend
type ProfileConfig struct {
	Name     string `mapstructure:"Name"`
	Role     string `mapstructure:"Role"`
	Bio      string `mapstructure:"Bio"`
	Location string `mapstructure:"Location"`
	Email    string `mapstructure:"Email"`
	Website  string `mapstructure:"Website"`
	Linkedin string `mapstructure:"Linkedin"`
}

// Load
func Load() (*Config, error) {
	dir, err := filepath.Abs(filepath.Dir(os.Args[0]))

	if err != nil {
		return nil, err
	}

	// check config file exists
	configFilePath := dir + "/config/config.toml"

	if _, err := os.Stat(dir + "/config/config.toml"); errors.Is(err, os.ErrNotExist) {
		if _, err := os.Stat("config/config.toml"); errors.Is(err, os.ErrNotExist) {
			return nil, err
		} else {
			configFilePath = "config/config.toml"
		}
	}

	// load default and config file content
	cfg := GetDefault()
	_, err = snakelet.InitAndLoad(cfg, configFilePath)

	if err != nil {
		return nil, err
	}

	// the username and token can also come from the environment
	// this avoid committing personal values inside the config file
	if username := os.Getenv("GITHUB_USERNAME"); username != "" {
		cfg.Github.Username = username
	}

	if token := os.Getenv("GITHUB_TOKEN"); token != "" {
		cfg.Github.Token = token
	}

	return cfg, nil
}

// GetDefault
func GetDefault() *Config {
	return &Config{
		API: APIConfig{
			ListenPort: "5000",
		},
		Github: GithubConfig{
			RepositoryLimit: 40,
		},
		Tasks: TasksConfig{
			MaxParallelTasksAllowed: 8,
		},
		Logs: LogsConfig{
			Level:            "debug",
			OutputLogsAsJSON: false,
		},
	}
}
