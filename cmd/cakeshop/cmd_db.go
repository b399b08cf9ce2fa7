package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/cakeshop/config"
	"github.com/shashiranjanraj/cakeshop/database/seeders"
	"github.com/shashiranjanraj/cakeshop/pkg/database"
	"github.com/shashiranjanraj/cakeshop/pkg/migration"
)

// bootDB loads config and opens the database connection.
func bootDB() error {
	if err := config.Load(); err != nil {
		return err
	}
	return database.Connect()
}

func runner() *migration.Runner {
	r := migration.New(database.DB)
	r.Out = os.Stdout
	return r
}

// cakeshop migrate
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run all pending database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := bootDB(); err != nil {
			return err
		}
		defer database.Close()
		fmt.Println("Running migrations…")
		return runner().Run()
	},
}

// cakeshop migrate:rollback
var migrateRollbackCmd = &cobra.Command{
	Use:   "migrate:rollback",
	Short: "Rollback the last batch of migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := bootDB(); err != nil {
			return err
		}
		defer database.Close()
		fmt.Println("Rolling back last batch…")
		return runner().Rollback()
	},
}

// cakeshop migrate:status
var migrateStatusCmd = &cobra.Command{
	Use:   "migrate:status",
	Short: "Show the status of each migration",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := bootDB(); err != nil {
			return err
		}
		defer database.Close()
		return runner().Status()
	},
}

// cakeshop seed [name...]
var seedCmd = &cobra.Command{
	Use:   "seed [name...]",
	Short: "Run database seeders (all of them when no name is given)",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := bootDB(); err != nil {
			return err
		}
		defer database.Close()
		fmt.Println("Running seeders…")
		return seeders.Run(database.DB, os.Stdout, args...)
	},
}
