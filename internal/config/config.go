package config

import (
	"log"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// envBindings maps every configuration key to its environment variable
var envBindings = map[string]string{
	"server.port":       "PORT",
	"server.public_url": "PUBLIC_URL",

	"bridge.work_dir":    "BRIDGE_WORK_DIR",
	"bridge.binary_path": "BRIDGE_BINARY_PATH",
	"bridge.input_path":  "BRIDGE_INPUT_PATH",
	"bridge.output_path": "BRIDGE_OUTPUT_PATH",
	"bridge.timeout":     "BRIDGE_TIMEOUT",
	"bridge.verbose":     "BRIDGE_VERBOSE",
	"bridge.lock_key":    "BRIDGE_LOCK_KEY",
	"bridge.lock_ttl":    "BRIDGE_LOCK_TTL",
	"bridge.lock_wait":   "BRIDGE_LOCK_WAIT",

	"settlement.mode":            "SETTLEMENT_MODE",
	"settlement.network":         "SETTLEMENT_NETWORK",
	"settlement.asset":           "SETTLEMENT_ASSET",
	"settlement.wallet_address":  "PAYROLL_WALLET_ADDRESS",
	"settlement.initial_balance": "SETTLEMENT_INITIAL_BALANCE",
	"settlement.gateway_url":     "SETTLEMENT_GATEWAY_URL",
	"settlement.api_key":         "SETTLEMENT_GATEWAY_API_KEY",
	"settlement.timeout":         "SETTLEMENT_GATEWAY_TIMEOUT",

	"database.enabled":  "DATABASE_ENABLED",
	"database.host":     "DATABASE_HOST",
	"database.port":     "DATABASE_PORT",
	"database.user":     "DATABASE_USER",
	"database.password": "DATABASE_PASSWORD",
	"database.name":     "DATABASE_NAME",
	"database.ssl_mode": "DATABASE_SSL_MODE",

	"redis.enabled":  "REDIS_ENABLED",
	"redis.host":     "REDIS_HOST",
	"redis.port":     "REDIS_PORT",
	"redis.password": "REDIS_PASSWORD",
	"redis.db":       "REDIS_DB",

	"jwt.secret_key": "JWT_SECRET_KEY",
}

// Load reads the optional dotenv file at path and binds the environment.
// Environment variables win over the file.
func Load(path string) {
	if path != "" {
		viper.SetConfigFile(path)
		viper.SetConfigType("env")
	}
	viper.AutomaticEnv()

	for key, env := range envBindings {
		viper.BindEnv(key, env)
	}

	if path == "" {
		return
	}
	if err := viper.ReadInConfig(); err != nil {
		log.Printf("Config file not found, using defaults: %v", err)
		return
	}

	// dotenv entries arrive keyed by their variable name
	for key, env := range envBindings {
		if _, set := os.LookupEnv(env); set {
			continue
		}
		if name := strings.ToLower(env); viper.InConfig(name) {
			viper.Set(key, viper.Get(name))
		}
	}
}

// BridgeConfig locates the calculation engine and its handover files
type BridgeConfig struct {
	WorkDir    string
	BinaryPath string
	InputPath  string
	OutputPath string
	Timeout    time.Duration
	Verbose    bool
}

func LoadBridgeConfig() *BridgeConfig {
	viper.SetDefault("bridge.work_dir", ".")
	viper.SetDefault("bridge.binary_path", "")
	viper.SetDefault("bridge.input_path", "")
	viper.SetDefault("bridge.output_path", "")
	viper.SetDefault("bridge.timeout", 30*time.Second)
	viper.SetDefault("bridge.verbose", false)

	return &BridgeConfig{
		WorkDir:    viper.GetString("bridge.work_dir"),
		BinaryPath: viper.GetString("bridge.binary_path"),
		InputPath:  viper.GetString("bridge.input_path"),
		OutputPath: viper.GetString("bridge.output_path"),
		Timeout:    viper.GetDuration("bridge.timeout"),
		Verbose:    viper.GetBool("bridge.verbose"),
	}
}

// ServerConfig holds the HTTP listener settings
type ServerConfig struct {
	Port      string
	PublicURL string
	JWTSecret string
}

func LoadServerConfig() *ServerConfig {
	viper.SetDefault("server.port", "8080")
	viper.SetDefault("server.public_url", "")
	viper.SetDefault("jwt.secret_key", "")

	cfg := &ServerConfig{
		Port:      viper.GetString("server.port"),
		PublicURL: viper.GetString("server.public_url"),
		JWTSecret: viper.GetString("jwt.secret_key"),
	}
	if cfg.PublicURL == "" {
		cfg.PublicURL = "http://localhost:" + cfg.Port
	}
	return cfg
}
