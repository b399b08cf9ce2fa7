// Command cakeshop runs the cake shop API and its maintenance tasks.
//
//	cakeshop serve              # start the HTTP (and optional gRPC) server
//	cakeshop migrate            # run pending migrations
//	cakeshop migrate:rollback
//	cakeshop migrate:status
//	cakeshop seed               # admin account and a starter catalog
//	cakeshop route:list
//	cakeshop report --month 2026-02 --csv orders.csv
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	// Migrations register themselves in init().
	_ "github.com/shashiranjanraj/cakeshop/database/migrations"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "cakeshop",
	Short:         "Cake shop ordering backend",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	// Server
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(routeListCmd)

	// Database
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(migrateRollbackCmd)
	rootCmd.AddCommand(migrateStatusCmd)
	rootCmd.AddCommand(seedCmd)

	// Admin
	rootCmd.AddCommand(reportCmd)
}
