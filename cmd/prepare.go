package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/gridmate/gridmate/app"
	"github.com/gridmate/gridmate/config"
	"github.com/gridmate/gridmate/core/automation"
	"github.com/gridmate/gridmate/core/model"
	"github.com/gridmate/gridmate/infra/logger"
)

var prepareYes bool

var prepareCmd = &cobra.Command{
	Use:   "prepare",
	Short: "Switch off non-essential devices before an outage",
	RunE:  prepare,
}

func init() {
	prepareCmd.Flags().BoolVarP(&prepareYes, "yes", "y", false, "skip the confirmation prompt")
	rootCmd.AddCommand(prepareCmd)
}

// promptConfirm asks on stdin before any device is switched off.
type promptConfirm struct{}

func (promptConfirm) Confirm(targets []model.Device) bool {
	fmt.Printf("About to switch off %d device(s):\n", len(targets))
	for _, d := range targets {
		fmt.Println(deviceLine(d))
	}
	fmt.Print("Proceed? [y/N] ")
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}

func prepare(cmd *cobra.Command, args []string) error {
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
			logger.New("prepare-command").Errorf("service close: %v", err)
		}
	}()

	if !prepareYes {
		svc.SetConfirmer(promptConfirm{})
	}
	if err := svc.LoadPreferences(ctx); err != nil {
		return err
	}
	res, err := svc.Prepare(ctx)
	if err != nil {
		return err
	}

	switch res.Outcome {
	case automation.OutcomePrepared:
		fmt.Printf("Switched off %d device(s), skipped %d.\n", len(res.TurnedOff), len(res.Skipped))
	case automation.OutcomeNothingActive:
		fmt.Println("No devices are on.")
	case automation.OutcomeOnlyEssentialActive:
		fmt.Println("Only essential or protected devices are on; nothing to do.")
	case automation.OutcomeCancelled:
		fmt.Println("Cancelled.")
	}
	return nil
}
