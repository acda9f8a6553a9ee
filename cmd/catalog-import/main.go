// Command catalog-import loads a term's sections, in the class search
// backend's JSON format, into the Postgres catalog. The server reads them
// back when started with backend.source=postgres.
//
// Usage:
//
//	catalog-import -term 202031 -file sections.json
package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/autoscheduler/autoscheduler/internal/catalog"
	"github.com/autoscheduler/autoscheduler/internal/config"
	"github.com/autoscheduler/autoscheduler/internal/platform/logger"
	"github.com/autoscheduler/autoscheduler/internal/platform/postgres"
	"github.com/autoscheduler/autoscheduler/internal/store"
	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver
)

func main() {
	termCode := flag.String("term", "", "six-digit term code, e.g. 202031")
	file := flag.String("file", "-", "sections JSON file, - for stdin")
	configFile := flag.String("config", "", "optional config file")
	logLevel := flag.String("log-level", "info", "log level")
	flag.Parse()

	log := logger.New(os.Stderr, *logLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, log, *configFile, *termCode, *file); err != nil {
		log.Error("catalog import failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, log *slog.Logger, configFile, termCode, file string) error {
	if termCode == "" {
		return fmt.Errorf("-term is required")
	}

	dbCfg, err := config.LoadDatabase(configFile)
	if err != nil {
		return err
	}

	sections, err := readSections(file)
	if err != nil {
		return err
	}

	db, err := sql.Open("pgx", dbCfg.URL)
	if err != nil {
		return fmt.Errorf("failed to open database connection: %w", err)
	}
	defer func() { _ = db.Close() }()

	if err := postgres.Migrate(ctx, db, log); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	var importer store.CatalogStore = postgres.NewPostgresCatalogStore(db, log)
	return importer.ImportSections(ctx, termCode, sections)
}

func readSections(file string) ([]catalog.RawSection, error) {
	var r io.Reader = os.Stdin
	if file != "-" {
		f, err := os.Open(file)
		if err != nil {
			return nil, fmt.Errorf("opening sections file: %w", err)
		}
		defer func() { _ = f.Close() }()
		r = f
	}
	return catalog.DecodeSections(r)
}
