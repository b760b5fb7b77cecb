package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/gridmate/gridmate/app"
	"github.com/gridmate/gridmate/config"
	"github.com/gridmate/gridmate/infra/logger"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Print the current outage estimate and usage summary",
	RunE:  status,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func status(cmd *cobra.Command, args []string) error {
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
			logger.New("status-command").Errorf("service close: %v", err)
		}
	}()

	if err := svc.LoadPreferences(ctx); err != nil {
		return err
	}
	svc.Refresh(ctx)
	st := svc.State()

	fmt.Printf("Stage %d (%s)\n", st.Outage.Stage, st.Outage.Source)
	if st.Outage.NextSlot != nil {
		w := st.Outage.NextSlot
		fmt.Printf("Next outage: %s - %s (%d min away)\n",
			w.Start.Format(time.Kitchen), w.End.Format(time.Kitchen),
			w.MinutesUntil(time.Now()))
		fmt.Println(w.Note)
	} else {
		fmt.Println("No outage expected.")
	}

	fmt.Printf("\n%s\n", usageLine(st.Stats))
	fmt.Printf("Estimated monthly cost: %d\n", st.Stats.MonthlyCostEstimate)
	fmt.Printf("Efficiency: %s\n", st.Stats.EfficiencyRating)

	for _, a := range st.Actions {
		if a.Message != "" {
			fmt.Printf("\n%s\n", a.Message)
			continue
		}
		fmt.Printf("\nRecommended: %s (%s)\n", a.Kind, a.Reason)
		for _, d := range a.Devices {
			fmt.Println(deviceLine(d))
		}
	}
	return nil
}
