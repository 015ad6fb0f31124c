package upload

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Stats tracks upload progress.
type Stats struct {
	FilesTotal    int
	FilesUploaded int
	FilesSkipped  int
	FilesErrored  int

	RoutesInserted   int64
	AttemptsInserted int64
	RoutesRejected   int
}

// Uploader walks an export directory, deduplicates against the state
// database, and POSTs new files to the cruxlog server.
type Uploader struct {
	client    *Client
	state     *StateDB
	exportDir string
	dryRun    bool
	log       *slog.Logger
	stats     Stats
}

// New creates a new Uploader.
func New(client *Client, state *StateDB, exportDir string, dryRun bool, log *slog.Logger) *Uploader {
	return &Uploader{
		client:    client,
		state:     state,
		exportDir: exportDir,
		dryRun:    dryRun,
		log:       log,
	}
}

// Run executes the upload pipeline: scan, dedupe, send, mark.
func (u *Uploader) Run() (*Stats, error) {
	files, err := u.scan()
	if err != nil {
		return &u.stats, err
	}
	u.stats.FilesTotal = len(files)

	for _, relPath := range files {
		if err := u.processFile(relPath); err != nil {
			u.log.Error("upload failed", "file", relPath, "error", err)
			u.stats.FilesErrored++
		}
	}

	return &u.stats, nil
}

// scan collects export files (.json and .csv) relative to the export dir,
// sorted for deterministic upload order.
func (u *Uploader) scan() ([]string, error) {
	var files []string
	err := filepath.WalkDir(u.exportDir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		ext := strings.ToLower(filepath.Ext(path))
		if ext != ".json" && ext != ".csv" {
			return nil
		}
		rel, err := filepath.Rel(u.exportDir, path)
		if err != nil {
			return err
		}
		files = append(files, rel)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", u.exportDir, err)
	}
	sort.Strings(files)
	return files, nil
}

func (u *Uploader) processFile(relPath string) error {
	fullPath := filepath.Join(u.exportDir, relPath)

	info, err := os.Stat(fullPath)
	if err != nil {
		return err
	}
	hash, err := HashFile(fullPath)
	if err != nil {
		return fmt.Errorf("hashing: %w", err)
	}

	uploaded, err := u.state.IsUploaded(relPath, info.Size(), hash)
	if err != nil {
		return fmt.Errorf("state lookup: %w", err)
	}
	if uploaded {
		u.stats.FilesSkipped++
		return nil
	}

	if u.dryRun {
		u.log.Info("would upload", "file", relPath, "size", info.Size())
		u.stats.FilesUploaded++
		return nil
	}

	data, err := os.ReadFile(fullPath)
	if err != nil {
		return err
	}

	result, err := u.client.SendFile(relPath, data)
	if err != nil {
		return err
	}
	u.stats.RoutesInserted += result.RoutesInserted
	u.stats.AttemptsInserted += result.AttemptsInserted
	u.stats.RoutesRejected += result.RoutesRejected

	if err := u.state.MarkUploaded(relPath, info.Size(), hash); err != nil {
		return fmt.Errorf("marking uploaded: %w", err)
	}

	u.log.Info("uploaded", "file", relPath,
		"routes", result.RoutesInserted,
		"attempts", result.AttemptsInserted,
		"rejected", result.RoutesRejected,
	)
	u.stats.FilesUploaded++
	return nil
}
