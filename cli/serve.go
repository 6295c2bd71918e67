package cli

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/cloudflare/cfssl/log"
	"github.com/spf13/cobra"
	"github.com/ssbcDeploy/client"
	"golang.org/x/sync/errgroup"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the local ledger with its HTTP API",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		l, closeFn, err := openLedger(ctx)
		if err != nil {
			return err
		}
		defer closeFn()

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			return client.ListenRequest(gctx, cfg.Server.Addr, l)
		})
		g.Go(func() error {
			<-gctx.Done()
			log.Info("正在关闭账本")
			return l.Close()
		})
		err = g.Wait()
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	},
}
