package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/cakeshop/app/apiclient"
	"github.com/shashiranjanraj/cakeshop/app/dashboard"
	"github.com/shashiranjanraj/cakeshop/app/report"
	"github.com/shashiranjanraj/cakeshop/config"
)

type reportOptions struct {
	server   string
	username string
	password string
	month    string
	status   string
	search   string
	csvPath  string
}

var reportOpts reportOptions

// cakeshop report
var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print the revenue summary of a running server and optionally export orders as CSV",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Load(); err != nil {
			return err
		}
		ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
		defer cancel()
		opts := reportOpts.withConfigDefaults()
		return runReport(ctx, apiclient.New(opts.server, nil), opts, cmd.OutOrStdout())
	},
}

func init() {
	f := reportCmd.Flags()
	f.StringVar(&reportOpts.server, "server", "", "base URL of the cakeshop API (default http://localhost:$APP_PORT)")
	f.StringVar(&reportOpts.username, "username", "", "admin username (default $ADMIN_USERNAME)")
	f.StringVar(&reportOpts.password, "password", "", "admin password (default $ADMIN_PASSWORD)")
	f.StringVar(&reportOpts.month, "month", "", "only orders created in this month (YYYY-MM)")
	f.StringVar(&reportOpts.status, "status", dashboard.AllStatuses, "status filter for the CSV export")
	f.StringVar(&reportOpts.search, "search", "", "search filter for the CSV export")
	f.StringVar(&reportOpts.csvPath, "csv", "", "write the selected orders to this CSV file")
}

// withConfigDefaults fills the connection flags left empty from config, so
// secrets never appear as flag defaults in --help.
func (o reportOptions) withConfigDefaults() reportOptions {
	if o.server == "" {
		o.server = "http://localhost:" + config.AppPort()
	}
	if o.username == "" {
		o.username = config.AdminUsername()
	}
	if o.password == "" {
		o.password = config.AdminPassword()
	}
	return o
}

func runReport(ctx context.Context, c *apiclient.Client, o reportOptions, out io.Writer) error {
	var month *report.Month
	if o.month != "" {
		m, err := report.ParseMonth(o.month)
		if err != nil {
			return err
		}
		month = &m
	}

	if _, err := c.Login(ctx, o.username, o.password); err != nil {
		return fmt.Errorf("login: %w", err)
	}
	board := dashboard.New(c)
	if err := board.Refresh(ctx); err != nil {
		return fmt.Errorf("fetch orders: %w", err)
	}

	sum := board.Summary()
	title := "All orders"
	if month != nil {
		sum = board.MonthSummary(*month)
		title = "Orders in " + month.String()
	}
	if err := printSummary(out, title, sum); err != nil {
		return err
	}

	if o.csvPath == "" {
		return nil
	}
	return exportCSV(board, o, month, out)
}

func printSummary(out io.Writer, title string, s report.Summary) error {
	fmt.Fprintln(out, title)
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Total orders\t%d\n", s.TotalOrders)

	statuses := make([]string, 0, len(s.Counts))
	for status := range s.Counts {
		statuses = append(statuses, status)
	}
	sort.Strings(statuses)
	for _, status := range statuses {
		fmt.Fprintf(w, "  %s\t%d\n", status, s.Counts[status])
	}

	fmt.Fprintf(w, "Gross\t%s\n", report.Money(s.Gross))
	fmt.Fprintf(w, "Cancelled\t- %s\n", report.Money(s.CancelledAmount))
	fmt.Fprintf(w, "Net revenue\t%s\n", report.Money(s.Net))
	return w.Flush()
}

func exportCSV(board *dashboard.Dashboard, o reportOptions, month *report.Month, out io.Writer) error {
	f, err := os.Create(o.csvPath)
	if err != nil {
		return err
	}
	defer f.Close()

	if month != nil {
		ok, err := board.ExportMonthCSV(f, *month)
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintf(out, "No orders in %s; %s left empty\n", month, o.csvPath)
			return nil
		}
	} else if err := board.ExportCSV(f, dashboard.Filter{Status: o.status, Query: o.search}); err != nil {
		return err
	}

	fmt.Fprintf(out, "Wrote %s\n", o.csvPath)
	return f.Close()
}
