// Package seeders fills a fresh database with the admin account and a small
// sample catalog. Seeders register themselves from init and run in
// registration order:
//
//	cakeshop seed            # every seeder
//	cakeshop seed catalog    # only the named ones
package seeders

import (
	"fmt"
	"io"
	"time"

	"gorm.io/gorm"
)

// SeederFunc inserts seed rows through db, which is a transaction.
type SeederFunc func(db *gorm.DB) error

type seeder struct {
	name string
	fn   SeederFunc
}

// registry is only written from init functions.
var registry []seeder

// Register appends a seeder. Call it from init.
func Register(name string, fn SeederFunc) {
	registry = append(registry, seeder{name: name, fn: fn})
}

// Names lists the registered seeders in run order.
func Names() []string {
	names := make([]string, len(registry))
	for i, s := range registry {
		names[i] = s.name
	}
	return names
}

// RunAll runs every registered seeder.
func RunAll(db *gorm.DB, out io.Writer) error {
	return Run(db, out)
}

// Run executes the named seeders, or all of them when names is empty. Each
// seeder runs in its own transaction, so a failure leaves no partial rows
// and stops the run. An unknown name fails before anything runs.
func Run(db *gorm.DB, out io.Writer, names ...string) error {
	selected, err := pick(names)
	if err != nil {
		return err
	}
	if len(selected) == 0 {
		fmt.Fprintln(out, "  (no seeders registered)")
		return nil
	}

	for _, s := range selected {
		fmt.Fprintf(out, "  • %-10s ", s.name)
		start := time.Now()
		if err := db.Transaction(func(tx *gorm.DB) error { return s.fn(tx) }); err != nil {
			fmt.Fprintln(out, "FAILED")
			return fmt.Errorf("seeder %q: %w", s.name, err)
		}
		fmt.Fprintf(out, "done (%s)\n", time.Since(start).Round(time.Millisecond))
	}
	return nil
}

func pick(names []string) ([]seeder, error) {
	if len(names) == 0 {
		return registry, nil
	}
	byName := make(map[string]seeder, len(registry))
	for _, s := range registry {
		byName[s.name] = s
	}
	out := make([]seeder, 0, len(names))
	for _, n := range names {
		s, ok := byName[n]
		if !ok {
			return nil, fmt.Errorf("unknown seeder %q (have %v)", n, Names())
		}
		out = append(out, s)
	}
	return out, nil
}
