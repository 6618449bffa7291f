package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Paths holds the resolved, absolute locations the application reads and writes.
type Paths struct {
	WorkDir    string
	Source     string
	ReportsDir string
	LogsDir    string
}

// ResolvePaths turns the configured paths into absolute ones. Relative paths
// resolve against the working directory.
func ResolvePaths(cfg *Config) (*Paths, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}
	abs := func(p string) string {
		if filepath.IsAbs(p) {
			return filepath.Clean(p)
		}
		return filepath.Join(wd, p)
	}
	return &Paths{
		WorkDir:    wd,
		Source:     abs(cfg.Data.Source),
		ReportsDir: abs(cfg.Paths.ReportsDir),
		LogsDir:    abs(cfg.Paths.LogsDir),
	}, nil
}

// EnsureDirectories creates the output directories if they don't exist
func (p *Paths) EnsureDirectories() error {
	for _, dir := range []string{p.ReportsDir, p.LogsDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
		slog.Debug("Ensured directory exists", slog.String("directory", dir))
	}
	return nil
}

// GetReportPath returns the full path for a report file
func (p *Paths) GetReportPath(filename string) string {
	return filepath.Join(p.ReportsDir, filename)
}

// GetReportPathForRun returns a timestamped report file name, e.g.
// perfil_bad_label_20250102_150405.csv.
func (p *Paths) GetReportPathForRun(prefix, ext string, at time.Time) string {
	name := fmt.Sprintf("%s_%s.%s", prefix, at.Format("20060102_150405"), strings.TrimPrefix(ext, "."))
	return p.GetReportPath(name)
}

// GetLogPath returns the full path for a log file
func (p *Paths) GetLogPath(filename string) string {
	return filepath.Join(p.LogsDir, filename)
}

// FileExists checks if a file exists
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}

// LogPathResolution logs the resolved paths
func (p *Paths) LogPathResolution(logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("Path resolution summary",
		slog.Group("paths",
			slog.String("work_dir", p.WorkDir),
			slog.String("source", p.Source),
			slog.String("reports", p.ReportsDir),
			slog.String("logs", p.LogsDir),
		),
		slog.Bool("source_exists", FileExists(p.Source)))
}
