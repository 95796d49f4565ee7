package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dronenav/humanpred/simulator"
)

var scenarioPath string

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Publish a simulated pedestrian walk over MQTT",
	RunE:  runSimulate,
}

func init() {
	simulateCmd.Flags().StringVarP(&scenarioPath, "scenario", "s", "scenario.yaml", "scenario file")
}

func runSimulate(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sc, err := simulator.LoadScenario(scenarioPath)
	if err != nil {
		return fmt.Errorf("load scenario: %w", err)
	}
	if sc.Broker == "" {
		return fmt.Errorf("scenario: broker is required for MQTT simulation")
	}
	em, err := simulator.NewMQTTEmitter(sc.Broker, sc.HumanID)
	if err != nil {
		return fmt.Errorf("mqtt emitter: %w", err)
	}
	defer em.Close()

	if err := simulator.NewRunner(sc, em).Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
