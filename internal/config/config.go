package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config represents the SDK configuration
type Config struct {
	// Network settings
	Network string `mapstructure:"network" yaml:"network"`
	RPCUrl  string `mapstructure:"rpc_url" yaml:"rpc_url"`
	WSUrl   string `mapstructure:"ws_url" yaml:"ws_url"`

	// Wallet settings
	PrivateKey string `mapstructure:"private_key" yaml:"private_key"`

	// Trading settings
	Trading TradingConfig `mapstructure:"trading" yaml:"trading"`

	// Metadata upload settings
	Metadata MetadataConfig `mapstructure:"metadata" yaml:"metadata"`

	// Logging settings
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`
}

// TradingConfig contains trade construction and submission settings
type TradingConfig struct {
	SlippageBP        uint64 `mapstructure:"slippage_bp" yaml:"slippage_bp"`
	PriorityFee       uint64 `mapstructure:"priority_fee" yaml:"priority_fee"` // Micro-lamports per compute unit
	Commitment        string `mapstructure:"commitment" yaml:"commitment"`
	Finality          string `mapstructure:"finality" yaml:"finality"`
	ConfirmTimeoutSec int    `mapstructure:"confirm_timeout_sec" yaml:"confirm_timeout_sec"`
}

// MetadataConfig contains metadata upload settings
type MetadataConfig struct {
	Endpoint   string `mapstructure:"endpoint" yaml:"endpoint"`
	TimeoutSec int    `mapstructure:"timeout_sec" yaml:"timeout_sec"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// Load reads configuration from an optional YAML file and PUMPSDK_*
// environment variables, applying defaults for anything unset
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetEnvPrefix("PUMPSDK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Endpoints follow the network unless set explicitly.
	if cfg.RPCUrl == "" {
		cfg.RPCUrl = RPCEndpoint(cfg.Network)
	}
	if cfg.WSUrl == "" {
		cfg.WSUrl = WSEndpoint(cfg.Network)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("network", "mainnet")

	v.SetDefault("trading.slippage_bp", DefaultSlippageBP)
	v.SetDefault("trading.priority_fee", 0)
	v.SetDefault("trading.commitment", DefaultCommitment)
	v.SetDefault("trading.finality", DefaultFinality)
	v.SetDefault("trading.confirm_timeout_sec", DefaultConfirmTimeoutSec)

	v.SetDefault("metadata.endpoint", PumpIPFSEndpoint)
	v.SetDefault("metadata.timeout_sec", 60)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "")
}

// Validate rejects configurations no component can run with
func (c *Config) Validate() error {
	if c.Network != "mainnet" && c.Network != "devnet" {
		return fmt.Errorf("invalid network %q: must be mainnet or devnet", c.Network)
	}
	if c.Trading.SlippageBP > 10_000 {
		return fmt.Errorf("invalid slippage %d: must be at most 10000 basis points", c.Trading.SlippageBP)
	}
	if c.Trading.ConfirmTimeoutSec <= 0 {
		return fmt.Errorf("confirm timeout must be positive, got %d", c.Trading.ConfirmTimeoutSec)
	}
	return nil
}
