// healthctl is a small CLI client for the Health ToGo server: per-metric
// daily series, summaries, blood pressure, and CSV export to a local file.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/Foia65/healthtogo/internal/client"
)

var (
	serverURL string
	apiKey    string
	startDate string
	endDate   string
	allData   bool
)

func main() {
	// Optional .env next to the binary; real env vars win.
	_ = godotenv.Load()

	root := &cobra.Command{
		Use:   "healthctl",
		Short: "Query and export Health ToGo daily metrics",
	}

	root.PersistentFlags().StringVar(&serverURL, "server", envOr("HEALTHTOGO_SERVER", "http://localhost:8080"), "server URL")
	root.PersistentFlags().StringVar(&apiKey, "api-key", os.Getenv("HEALTHTOGO_AUTH_API_KEY"), "API key")
	root.PersistentFlags().StringVar(&startDate, "start", "", "start date (YYYY-MM-DD)")
	root.PersistentFlags().StringVar(&endDate, "end", "", "end date (YYYY-MM-DD)")
	root.PersistentFlags().BoolVar(&allData, "all", false, "fetch all recorded history")

	root.AddCommand(metricsCmd(), dailyCmd(), summaryCmd(), bpCmd(), exportCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func newClient() *client.Client {
	return client.New(serverURL, apiKey)
}

func query() client.Query {
	return client.Query{Start: startDate, End: endDate, All: allData}
}

func metricsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "metrics",
		Short: "List supported metrics",
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := newClient().Catalog()
			if err != nil {
				return err
			}
			for _, e := range entries {
				fmt.Printf("%-26s %-10s %s (%s)\n", e.ID, e.Kind, e.Label, e.Unit)
			}
			return nil
		},
	}
}

func dailyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "daily <metric>",
		Short: "Show the per-day series for a metric",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := newClient().Daily(args[0], query())
			if err != nil {
				return err
			}
			fmt.Printf("%s (%s) — %s\n", result.Label, result.Unit, result.DateRange)
			if len(result.Points) == 0 {
				fmt.Println(result.Message)
				return nil
			}
			for _, p := range result.Points {
				fmt.Printf("%s  %g\n", p.Day.Format("2006-01-02"), p.Value)
			}
			return nil
		},
	}
}

func summaryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "summary <metric>",
		Short: "Show the summary for a metric",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sum, err := newClient().Summary(args[0], query())
			if err != nil {
				return err
			}
			fmt.Println("Date Range:", sum.DateRange)
			if sum.Total != nil {
				fmt.Printf("Total: %g\n", *sum.Total)
			}
			fmt.Printf("Average (active days): %g\n", sum.AvgDaily)
			fmt.Println("Active Days:", sum.ActiveDays)
			if sum.Min != nil && sum.Max != nil {
				fmt.Printf("Range: %g - %g\n", *sum.Min, *sum.Max)
			}
			return nil
		},
	}
}

func bpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "bp",
		Short: "Show paired blood pressure readings",
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := newClient().BloodPressure(query())
			if err != nil {
				return err
			}
			if len(result.Points) == 0 {
				fmt.Println(result.Message)
				return nil
			}
			for _, p := range result.Points {
				fmt.Printf("%s  %s\n", p.Day.Format("2006-01-02"), p.Reading)
			}
			sum := result.Summary
			if sum.AvgSystolic != nil && sum.AvgDiastolic != nil {
				fmt.Printf("Average: %d/%d mmHg over %d readings\n",
					*sum.AvgSystolic, *sum.AvgDiastolic, sum.TotalReadings)
			}
			return nil
		},
	}
}

func exportCmd() *cobra.Command {
	var outDir string
	cmd := &cobra.Command{
		Use:   "export <metric>",
		Short: "Export a metric's daily series as CSV (premium)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filename, body, err := newClient().ExportCSV(args[0], query())
			if err != nil {
				return err
			}
			path := filename
			if outDir != "" {
				if err := os.MkdirAll(outDir, 0o755); err != nil {
					return fmt.Errorf("creating output dir: %w", err)
				}
				path = outDir + string(os.PathSeparator) + filename
			}
			if err := os.WriteFile(path, body, 0o644); err != nil {
				return fmt.Errorf("writing %s: %w", path, err)
			}
			fmt.Println("Wrote", path)
			return nil
		},
	}
	cmd.Flags().StringVarP(&outDir, "out", "o", "", "output directory")
	return cmd
}
