// Package storage writes agent deliverables to the output directory.
package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"bizauto-agents/internal/common/logger"
	"bizauto-agents/internal/common/metrics"
	"bizauto-agents/internal/models"
)

// Writer persists deliverables under a per-request subdirectory of the
// configured output root.
type Writer struct {
	outputDir string
	logger    logger.Logger
}

func NewWriter(outputDir string, log logger.Logger) *Writer {
	return &Writer{
		outputDir: outputDir,
		logger:    log.WithFields(map[string]interface{}{"component": "storage"}),
	}
}

// OutputDir returns the configured output root.
func (w *Writer) OutputDir() string {
	return w.outputDir
}

// WriteJSON marshals v with indentation and writes it as <name>.json.
func (w *Writer) WriteJSON(requestID, name string, v interface{}) (models.Deliverable, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return models.Deliverable{}, fmt.Errorf("marshal %s: %w", name, err)
	}
	return w.writeFile(requestID, name, "json", data)
}

// WriteCSV writes a header row followed by records as <name>.csv.
func (w *Writer) WriteCSV(requestID, name string, header []string, records [][]string) (models.Deliverable, error) {
	var sb strings.Builder
	cw := csv.NewWriter(&sb)
	if len(header) > 0 {
		if err := cw.Write(header); err != nil {
			return models.Deliverable{}, fmt.Errorf("write csv header: %w", err)
		}
	}
	if err := cw.WriteAll(records); err != nil {
		return models.Deliverable{}, fmt.Errorf("write csv records: %w", err)
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return models.Deliverable{}, fmt.Errorf("flush csv: %w", err)
	}
	return w.writeFile(requestID, name, "csv", []byte(sb.String()))
}

// WriteMarkdown writes content as <name>.md.
func (w *Writer) WriteMarkdown(requestID, name, content string) (models.Deliverable, error) {
	return w.writeFile(requestID, name, "md", []byte(content))
}

func (w *Writer) writeFile(requestID, name, format string, data []byte) (models.Deliverable, error) {
	dir := filepath.Join(w.outputDir, sanitize(requestID))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return models.Deliverable{}, fmt.Errorf("create output dir %s: %w", dir, err)
	}

	path := filepath.Join(dir, fmt.Sprintf("%s.%s", sanitize(name), format))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return models.Deliverable{}, fmt.Errorf("write %s: %w", path, err)
	}

	metrics.DeliverablesWritten.WithLabelValues(format).Inc()
	w.logger.Debug("Deliverable written", map[string]interface{}{
		"path":   path,
		"format": format,
		"bytes":  len(data),
	})

	return models.Deliverable{Name: name, Path: path, Format: format}, nil
}

// sanitize keeps file and directory names to a safe character set.
func sanitize(s string) string {
	var sb strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			sb.WriteRune(r)
		default:
			sb.WriteRune('_')
		}
	}
	if sb.Len() == 0 {
		return "unnamed"
	}
	return sb.String()
}
