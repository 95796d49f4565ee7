package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dronenav/humanpred/app"
	"github.com/dronenav/humanpred/config"
	"github.com/dronenav/humanpred/infra/logger"
)

var predictCmd = &cobra.Command{
	Use:   "predict",
	Short: "Run the prediction engine against a live pose stream",
	RunE:  runPredict,
}

func runPredict(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	svc, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := svc.Close(); err != nil {
			logger.New("main").Errorf("service close: %v", err)
		}
	}()
	return svc.Run(ctx)
}
