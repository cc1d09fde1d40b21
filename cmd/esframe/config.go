package main

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Environment variables read by LoadConfig
const (
	AddressesEnv = "ESFRAME_ADDRESSES"
	UsernameEnv  = "ESFRAME_USERNAME"
	PasswordEnv  = "ESFRAME_PASSWORD"
	APIKeyEnv    = "ESFRAME_API_KEY"
	CloudIDEnv   = "ESFRAME_CLOUD_ID"
	LogLevelEnv  = "ESFRAME_LOG_LEVEL"
)

// Config holds the connection settings of the CLI
type Config struct {
	Addresses []string
	Username  string
	Password  string
	APIKey    string
	CloudID   string
	LogLevel  string

	// Files, MappingFile and FieldCapsFile select offline JSON Lines data instead of a cluster
	Files         string
	MappingFile   string
	FieldCapsFile string
}

// LoadConfig reads Config from the environment, after loading envFile into it if
// that file exists. Variables already set in the environment take precedence
// over the file.
func LoadConfig(envFile string) (*Config, error) {
	if envFile != "" {
		if _, err := os.Stat(envFile); err == nil {
			if err := godotenv.Load(envFile); err != nil {
				return nil, err
			}
		} else if !os.IsNotExist(err) {
			return nil, err
		}
	}
	conf := &Config{
		Username: os.Getenv(UsernameEnv),
		Password: os.Getenv(PasswordEnv),
		APIKey:   os.Getenv(APIKeyEnv),
		CloudID:  os.Getenv(CloudIDEnv),
		LogLevel: os.Getenv(LogLevelEnv),
	}
	if addresses := os.Getenv(AddressesEnv); addresses != "" {
		for _, addr := range strings.Split(addresses, ",") {
			if addr = strings.TrimSpace(addr); addr != "" {
				conf.Addresses = append(conf.Addresses, addr)
			}
		}
	}
	if conf.LogLevel == "" {
		conf.LogLevel = "warn"
	}
	return conf, nil
}
