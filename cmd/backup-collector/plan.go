package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/raoulx24/backup-collector/internal/collector"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Print the monthly and yearly retention sets without copying",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		ctx, cancel := signalContext()
		defer cancel()

		sum, err := a.collector.Plan(ctx)
		printPlan(cmd.OutOrStdout(), sum)
		return err
	},
}

func init() {
	rootCmd.AddCommand(planCmd)
}

func printPlan(out io.Writer, sum collector.Summary) {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SERVER\tSOURCE\tPERIOD\tSNAPSHOT")
	for _, p := range sum.Plans {
		for _, n := range p.Monthly {
			fmt.Fprintf(tw, "%s\t%s\tmonthly\t%s\n", p.Server, p.Source, n)
		}
		for _, n := range p.Yearly {
			fmt.Fprintf(tw, "%s\t%s\tyearly\t%s\n", p.Server, p.Source, n)
		}
	}
	tw.Flush()

	fmt.Fprintf(out, "\n%d monthly, %d yearly", sum.Monthly, sum.Yearly)
	for kind, n := range sum.Events {
		fmt.Fprintf(out, ", %d %s", n, kind)
	}
	fmt.Fprintln(out)
}
