package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudflare/cfssl/log"
	"github.com/spf13/cobra"
	"github.com/ssbcDeploy/chain"
	"github.com/ssbcDeploy/commoncon"
	"github.com/ssbcDeploy/config"
	"github.com/ssbcDeploy/levelDB"
	"github.com/ssbcDeploy/redis"
	"github.com/ssbcDeploy/storage"
)

var (
	configFile string
	cfg        config.Config
)

var rootCmd = &cobra.Command{
	Use:           "ssbcDeploy",
	Short:         "Deploy ownership-gated custody contracts to the local ledger",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configFile)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		return setLogLevel(cfg.Log.Level)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "config/config.yaml", "config file (empty for defaults only)")
	rootCmd.AddCommand(accountCmd, deployCmd, withdrawCmd, showCmd, serveCmd)
}

// Execute 运行命令行，返回的错误由 main 输出并以非零状态退出
func Execute() error {
	return rootCmd.ExecuteContext(context.Background())
}

func setLogLevel(level string) error {
	switch strings.ToLower(level) {
	case "debug":
		log.Level = log.LevelDebug
	case "info", "":
		log.Level = log.LevelInfo
	case "warning", "warn":
		log.Level = log.LevelWarning
	case "error":
		log.Level = log.LevelError
	default:
		return fmt.Errorf("unknown log level %q", level)
	}
	return nil
}

// 按配置打开存储和账本，调用方负责 closeFn
func openLedger(ctx context.Context) (*chain.Ledger, func(), error) {
	var (
		store storage.Store
		err   error
	)
	switch cfg.Storage.Backend {
	case commoncon.BackendRedis:
		store, err = redis.NewStore(ctx, redis.Options{
			Addr:     cfg.Storage.RedisAddr,
			Password: cfg.Storage.RedisPassword,
			DB:       cfg.Storage.RedisDB,
			Prefix:   cfg.Storage.RedisPrefix,
		})
	default:
		store, err = levelDB.InitDB(cfg.Storage.LevelDBPath)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("open %s storage: %w", cfg.Storage.Backend, err)
	}

	l, err := chain.NewLedger(ctx, store, chain.WithBlockInterval(cfg.Chain.BlockInterval))
	if err != nil {
		_ = store.Close()
		return nil, nil, err
	}
	l.Start()
	return l, func() {
		_ = l.Close()
		_ = store.Close()
	}, nil
}
