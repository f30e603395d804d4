package services

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"vgsales/internal/infrastructure"
	api "vgsales/pkg/contracts/api/v1"
)

const (
	// DefaultTailLines is the line count of Tail when none is given.
	DefaultTailLines = 200
	// DefaultKeepDays is the retention of Prune when none is given.
	DefaultKeepDays = 30
)

// LogService lists, reads and prunes the application log files.
type LogService struct {
	dir    string
	now    func() time.Time
	logger *slog.Logger
}

// NewLogService creates a log service over dir.
func NewLogService(dir string, logger *slog.Logger) *LogService {
	if logger == nil {
		logger = infrastructure.GetLogger()
	}
	return &LogService{
		dir:    dir,
		now:    time.Now,
		logger: logger.With(slog.String("service", "logs")),
	}
}

func isLogFile(name string) bool {
	return strings.Contains(strings.ToLower(name), ".log")
}

// List returns the log files, newest first.
func (s *LogService) List(ctx context.Context) ([]api.LogFile, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []api.LogFile{}, nil
		}
		return nil, fmt.Errorf("read log directory: %w", err)
	}

	files := make([]api.LogFile, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !isLogFile(e.Name()) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		files = append(files, api.LogFile{Name: e.Name(), Size: info.Size(), Modified: info.ModTime()})
	}
	sort.Slice(files, func(i, j int) bool {
		if !files[i].Modified.Equal(files[j].Modified) {
			return files[i].Modified.After(files[j].Modified)
		}
		return files[i].Name < files[j].Name
	})
	return files, nil
}

// resolve maps a file name to a path inside the log directory.
func (s *LogService) resolve(name string) (string, error) {
	if name == "" || name == "." || name != filepath.Base(name) ||
		strings.Contains(name, "..") || strings.ContainsAny(name, `/\`) || !isLogFile(name) {
		return "", fmt.Errorf("%w: %q", ErrInvalidLogName, name)
	}
	return filepath.Join(s.dir, name), nil
}

// Tail returns the last n lines of a log file. n <= 0 selects DefaultTailLines.
func (s *LogService) Tail(ctx context.Context, name string, n int) (api.LogTail, error) {
	path, err := s.resolve(name)
	if err != nil {
		return api.LogTail{}, err
	}
	if n <= 0 {
		n = DefaultTailLines
	}

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return api.LogTail{}, fmt.Errorf("%w: %s", ErrLogNotFound, name)
		}
		return api.LogTail{}, fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()

	ring := make([]string, 0, n)
	start := 0
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		if len(ring) < n {
			ring = append(ring, scanner.Text())
			continue
		}
		ring[start] = scanner.Text()
		start = (start + 1) % n
	}
	if err := scanner.Err(); err != nil {
		return api.LogTail{}, fmt.Errorf("read log file: %w", err)
	}

	lines := make([]string, 0, len(ring))
	lines = append(lines, ring[start:]...)
	lines = append(lines, ring[:start]...)
	return api.LogTail{Name: name, Lines: lines}, nil
}

// Prune deletes log files last modified more than keepDays ago.
// keepDays <= 0 selects DefaultKeepDays.
func (s *LogService) Prune(ctx context.Context, keepDays int) (api.PruneResult, error) {
	if keepDays <= 0 {
		keepDays = DefaultKeepDays
	}
	files, err := s.List(ctx)
	if err != nil {
		return api.PruneResult{}, err
	}

	cutoff := s.now().Add(-time.Duration(keepDays) * 24 * time.Hour)
	result := api.PruneResult{Removed: []string{}, KeepDays: keepDays}
	for _, f := range files {
		if !f.Modified.Before(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(s.dir, f.Name)); err != nil {
			s.logger.WarnContext(ctx, "Failed to remove old log file",
				slog.String("file", f.Name),
				slog.String("error", err.Error()))
			continue
		}
		result.Removed = append(result.Removed, f.Name)
	}

	s.logger.InfoContext(ctx, "Old log files pruned",
		slog.Int("removed", len(result.Removed)),
		slog.Int("keep_days", keepDays))
	return result, nil
}
