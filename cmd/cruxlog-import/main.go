package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/meltforce/cruxlog/internal/config"
	"github.com/meltforce/cruxlog/internal/ingest"
	"github.com/meltforce/cruxlog/internal/ingest/croxlog"
	"github.com/meltforce/cruxlog/internal/ingest/csvlog"
	"github.com/meltforce/cruxlog/internal/models"
	"github.com/meltforce/cruxlog/internal/storage"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	importPath := flag.String("path", "", "path to export directory or single export file (required)")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	if *importPath == "" {
		fmt.Fprintf(os.Stderr, "Usage: cruxlog-import -config config.yaml -path /path/to/exports\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	dsn := cfg.Database.DSN()
	if err := storage.RunMigrations(dsn, "migrations"); err != nil {
		log.Error("migration failed", "error", err)
		os.Exit(1)
	}
	log.Info("migrations applied")

	ctx := context.Background()
	db, err := storage.New(ctx, dsn)
	if err != nil {
		log.Error("failed to connect database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	log.Info("database connected")

	uid, err := db.GetOrCreateUser(ctx, "local", "Local Dev User")
	if err != nil {
		log.Error("failed to resolve user", "error", err)
		os.Exit(1)
	}

	files, err := collectFiles(*importPath)
	if err != nil {
		log.Error("failed to scan imports", "path", *importPath, "error", err)
		os.Exit(1)
	}
	if len(files) == 0 {
		log.Info("nothing to import", "path", *importPath)
		return
	}

	jsonProvider := croxlog.NewProvider(db, log)
	csvProvider := csvlog.NewProvider(db, log)

	total := &ingest.Result{}
	failed := 0
	for _, path := range files {
		result, err := importFile(ctx, path, uid, jsonProvider, csvProvider)
		if err != nil {
			log.Error("import failed", "file", path, "error", err)
			failed++
			continue
		}
		log.Info("imported", "file", filepath.Base(path),
			"routes", result.RoutesInserted,
			"attempts", result.AttemptsInserted,
			"rejected", result.RoutesRejected,
		)
		total.RoutesReceived += result.RoutesReceived
		total.RoutesInserted += result.RoutesInserted
		total.RoutesSkipped += result.RoutesSkipped
		total.RoutesRejected += result.RoutesRejected
		total.AttemptsReceived += result.AttemptsReceived
		total.AttemptsInserted += result.AttemptsInserted
		total.AttemptsSkipped += result.AttemptsSkipped
	}

	log.Info("import complete",
		"files", len(files),
		"failed", failed,
		"routes_inserted", total.RoutesInserted,
		"routes_skipped", total.RoutesSkipped,
		"routes_rejected", total.RoutesRejected,
		"attempts_inserted", total.AttemptsInserted,
		"attempts_skipped", total.AttemptsSkipped,
	)
	if failed > 0 {
		os.Exit(1)
	}
}

// collectFiles returns the export files under path, or path itself when it
// names a single file.
func collectFiles(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{path}, nil
	}

	var files []string
	err = filepath.WalkDir(path, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		ext := strings.ToLower(filepath.Ext(p))
		if ext == ".json" || ext == ".csv" {
			files = append(files, p)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

func importFile(ctx context.Context, path string, uid int, jsonProvider *croxlog.Provider, csvProvider *csvlog.Provider) (*ingest.Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if strings.ToLower(filepath.Ext(path)) == ".csv" {
		return csvProvider.Ingest(ctx, f, uid)
	}

	var payload models.ExportPayload
	if err := json.NewDecoder(f).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", filepath.Base(path), err)
	}
	return jsonProvider.Ingest(ctx, &payload, uid)
}
