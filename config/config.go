package config

import (
	"errors"
	"strings"
	"time"

	viper2 "github.com/spf13/viper"
	"github.com/ssbcDeploy/commoncon"
)

type Config struct {
	Log       LogConfig       `mapstructure:"log"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Chain     ChainConfig     `mapstructure:"chain"`
	Deploy    DeployConfig    `mapstructure:"deploy"`
	CrowdFund CrowdFundConfig `mapstructure:"crowdfund"`
	Server    ServerConfig    `mapstructure:"server"`
}

type LogConfig struct {
	Level string `mapstructure:"level"` // debug, info, warning, error
}

type StorageConfig struct {
	Backend       string `mapstructure:"backend"` // leveldb 或 redis
	LevelDBPath   string `mapstructure:"leveldb_path"`
	RedisAddr     string `mapstructure:"redis_addr"`
	RedisPassword string `mapstructure:"redis_password"`
	RedisDB       int    `mapstructure:"redis_db"`
	RedisPrefix   string `mapstructure:"redis_prefix"`
}

type ChainConfig struct {
	BlockInterval time.Duration `mapstructure:"block_interval"`
}

type DeployConfig struct {
	ConfirmTimeout time.Duration `mapstructure:"confirm_timeout"`
	KeyFile        string        `mapstructure:"key_file"`
}

type CrowdFundConfig struct {
	TokenAddress string `mapstructure:"token_address"`
}

type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

func setDefaults(v *viper2.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("storage.backend", commoncon.BackendLevelDB)
	v.SetDefault("storage.leveldb_path", "levelDB/db/path/ssbc")
	v.SetDefault("storage.redis_addr", "127.0.0.1:6379")
	v.SetDefault("storage.redis_password", "")
	v.SetDefault("storage.redis_db", 0)
	v.SetDefault("storage.redis_prefix", "ssbc:")
	v.SetDefault("chain.block_interval", time.Second)
	v.SetDefault("deploy.confirm_timeout", 30*time.Second)
	v.SetDefault("deploy.key_file", "")
	v.SetDefault("crowdfund.token_address", "")
	v.SetDefault("server.addr", "127.0.0.1:8080")
}

// Load 读取配置文件，file 为空时只使用默认值和 SSBC_ 前缀的环境变量
func Load(file string) (Config, error) {
	viper := viper2.New()
	setDefaults(viper)
	viper.SetEnvPrefix("ssbc")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if file != "" {
		viper.SetConfigFile(file)
		if err := viper.ReadInConfig(); err != nil {
			return Config{}, err
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	switch c.Storage.Backend {
	case commoncon.BackendLevelDB:
		if c.Storage.LevelDBPath == "" {
			return errors.New("storage.leveldb_path is empty")
		}
	case commoncon.BackendRedis:
		if c.Storage.RedisAddr == "" {
			return errors.New("storage.redis_addr is empty")
		}
	default:
		return errors.New("storage.backend must be leveldb or redis")
	}
	if c.Chain.BlockInterval <= 0 {
		return errors.New("chain.block_interval must be positive")
	}
	if c.Deploy.ConfirmTimeout <= 0 {
		return errors.New("deploy.confirm_timeout must be positive")
	}
	return nil
}
