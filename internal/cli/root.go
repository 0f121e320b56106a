// Package cli implements crimectl, the operator command line for the
// crime insights service.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"crime-insights-go/internal/config"
	"crime-insights-go/internal/logger"
	"crime-insights-go/internal/processor"
	"crime-insights-go/internal/store"
)

var (
	cfg     *config.Config
	log     *logger.Logger
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "crimectl",
	Short: "Operator CLI for the crime insights service",
	Long: `crimectl seeds and imports incident data, scores CSV files offline,
prints dataset statistics and writes the student training script.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if cfg, err = config.Load(); err != nil {
			return err
		}
		if verbose {
			log = logger.New()
		} else {
			log = logger.Discard()
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log to stdout")
	rootCmd.AddCommand(seedCmd(), importCmd(), predictCmd(), statsCmd(), scriptCmd(), tokenCmd())
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// openService connects to the configured store. Predictions run without
// the artificial delay.
func openService(ctx context.Context) (*processor.Service, func(), error) {
	db, err := store.Open(ctx, cfg.DBDriver, cfg.DBDSN, log)
	if err != nil {
		return nil, nil, err
	}
	svc := processor.New(db, processor.Options{}, log)
	return svc, func() { _ = db.Close() }, nil
}
