package cli

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"crime-insights-go/internal/aggregator"
	"crime-insights-go/internal/auth"
	"crime-insights-go/internal/dataset"
	"crime-insights-go/internal/tutorial"
)

func seedCmd() *cobra.Command {
	var count int
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Fill an empty store with synthetic incidents",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, closeFn, err := openService(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()
			if count <= 0 {
				count = cfg.SeedCount
			}
			n, err := svc.SeedIfEmpty(cmd.Context(), count)
			if err != nil {
				return err
			}
			if n == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "store already has incidents, nothing seeded")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "seeded %d incidents\n", n)
			return nil
		},
	}
	cmd.Flags().IntVarP(&count, "count", "n", 0, "number of incidents (default SEED_COUNT)")
	return cmd
}

func importCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <workbook.xlsx>",
		Short: "Import incidents from an exported workbook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			incidents, err := dataset.LoadIncidentsXLSX(f)
			if err != nil {
				return err
			}
			svc, closeFn, err := openService(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()
			n, err := svc.ImportIncidents(cmd.Context(), incidents)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d incidents\n", n)
			return nil
		},
	}
}

func predictCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "predict <queries.csv>",
		Short: "Score every row of a CSV file and write the prediction export",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			svc, closeFn, err := openService(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()
			preds, err := svc.PredictBatch(cmd.Context(), string(raw))
			if err != nil {
				return err
			}
			return writeTo(cmd.OutOrStdout(), out, func(w io.Writer) error {
				return dataset.WritePredictionsCSV(w, preds)
			})
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default stdout)")
	return cmd
}

func statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print the dashboard tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, closeFn, err := openService(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()
			d, err := svc.RefreshDashboard(cmd.Context())
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintf(w, "incidents\t%d\nlocations\t%d\ncrime types\t%d\n",
				d.Overview.TotalIncidents, d.Overview.UniqueLocations, d.Overview.UniqueTypes)
			printTable(w, "crime type", d.ByType)
			printTable(w, "location", d.ByLocation)
			printTable(w, "severity", d.BySeverity)
			printTable(w, "month", d.ByMonth)
			fmt.Fprintf(w, "\ninsight\t%s\n", d.Insight.Insight)
			return w.Flush()
		},
	}
}

func printTable(w io.Writer, title string, rows []aggregator.Bucket) {
	fmt.Fprintf(w, "\n%s\tcount\n", title)
	for _, b := range rows {
		fmt.Fprintf(w, "%s\t%d\n", b.Name, b.Count)
	}
}

func scriptCmd() *cobra.Command {
	var out string
	p := tutorial.DefaultParams()
	cmd := &cobra.Command{
		Use:   "script",
		Short: "Write the step-by-step Python training script",
		RunE: func(cmd *cobra.Command, args []string) error {
			script, err := tutorial.Script(p)
			if err != nil {
				return err
			}
			return writeTo(cmd.OutOrStdout(), out, func(w io.Writer) error {
				_, err := io.WriteString(w, script+"\n")
				return err
			})
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default stdout)")
	cmd.Flags().StringVar(&p.Dataset, "dataset", p.Dataset, "CSV file the script loads")
	cmd.Flags().Float64Var(&p.TestSize, "test-size", p.TestSize, "fraction held out for testing")
	cmd.Flags().IntVar(&p.RandomState, "random-state", p.RandomState, "random_state passed to scikit-learn")
	return cmd
}

func tokenCmd() *cobra.Command {
	var (
		userID string
		email  string
		ttl    time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a bearer token for saving predictions",
		RunE: func(cmd *cobra.Command, args []string) error {
			if userID == "" {
				return fmt.Errorf("--user is required")
			}
			a := auth.NewAuthenticator(cfg.JWTSecret, cfg.JWTIssuer)
			token, err := a.Issue(auth.User{ID: userID, Email: email}, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().StringVar(&userID, "user", "", "user id (token subject)")
	cmd.Flags().StringVar(&email, "email", "", "user email")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "token lifetime")
	return cmd
}

// writeTo writes to path, or to stdout when path is empty.
func writeTo(stdout io.Writer, path string, write func(io.Writer) error) error {
	if path == "" {
		return write(stdout)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
