package commands

import (
	"database/sql"
	"fmt"
	"stockalert/internal/components/chrono"
	"stockalert/internal/components/telemetry"
	"stockalert/internal/monitor"
	"stockalert/internal/notifier"
	"stockalert/internal/resolver"
	"stockalert/internal/snapshotstore"
	"stockalert/internal/snapshotstore/db"
	"stockalert/lib/sqliteutil"
)

// app holds everything a check cycle needs, close must be called when done.
type app struct {
	config  Config
	db      *sql.DB
	store   snapshotstore.Store
	clock   chrono.API
	tel     telemetry.API
	monitor monitor.Monitor
}

func openStore(config Config, clock chrono.API, tel telemetry.API) (*sql.DB, snapshotstore.Store, error) {
	database, err := sqliteutil.OpenDB(db.Schema, config.Database.Location, config.Database.AuthToken)
	if err != nil {
		return nil, nil, err
	}
	return database, snapshotstore.NewSQLStore(database, clock, tel), nil
}

func newApp(config Config) (app, error) {
	tel := telemetry.SlogAPI{}

	clock, err := chrono.NewStandardImpl(config.Timezone)
	if err != nil {
		return app{}, fmt.Errorf("load timezone: %w", err)
	}

	notify, err := notifier.FromConfig(config.Notifier, tel)
	if err != nil {
		return app{}, err
	}

	opts, err := config.ResolverOptions()
	if err != nil {
		return app{}, err
	}
	resolvers, err := resolver.NewRegistry(opts, tel)
	if err != nil {
		return app{}, err
	}

	database, store, err := openStore(config, clock, tel)
	if err != nil {
		return app{}, err
	}

	return app{
		config: config,
		db:     database,
		store:  store,
		clock:  clock,
		tel:    tel,
		monitor: monitor.New(
			config.Targets,
			store,
			resolvers,
			notify,
			tel,
			clock,
			monitor.Options{Concurrency: config.Concurrency},
		),
	}, nil
}

func (a app) close() {
	a.db.Close()
}
