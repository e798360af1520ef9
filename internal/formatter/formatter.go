// package formatter provides functions to export the practice log to various formats (CSV, Markdown, plain text, JSON)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/desertthunder/souffle/internal/models"
	"github.com/desertthunder/souffle/internal/repositories"
	"github.com/desertthunder/souffle/internal/shared"
)

// Supported export formats
const (
	FormatCSV      = "csv"
	FormatMarkdown = "markdown"
	FormatText     = "txt"
	FormatJSON     = "json"
)

// PracticeLog is the exported view of the local practice history.
type PracticeLog struct {
	Records []*models.PracticeRecord
	Stats   *repositories.PracticeStats // optional
}

// PracticeRow is the flat, serialisable form of a [models.PracticeRecord].
type PracticeRow struct {
	ID        string    `json:"id"`
	StartedAt time.Time `json:"started_at"`
	Exercise  string    `json:"exercise"`
	RemoteID  string    `json:"exercise_id"`
	Pattern   string    `json:"pattern"`
	Cycles    int       `json:"cycles"`
	Seconds   int       `json:"duration_seconds"`
	Synced    bool      `json:"synced"`
}

// Rows flattens the log's records.
func (l PracticeLog) Rows() []PracticeRow {
	rows := make([]PracticeRow, 0, len(l.Records))
	for _, r := range l.Records {
		ex := r.Exercise()
		rows = append(rows, PracticeRow{
			ID:        r.ID(),
			StartedAt: r.StartedAt(),
			Exercise:  ex.Name,
			RemoteID:  ex.ID,
			Pattern:   ex.Pattern(),
			Cycles:    r.Cycles(),
			Seconds:   r.DurationSeconds(),
			Synced:    r.Synced(),
		})
	}
	return rows
}

// ExportToCSV converts the log to CSV with columns: ID, Date, Exercise, Exercise ID, Pattern, Cycles, Duration, Synced
func ExportToCSV(l PracticeLog) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Date", "Exercise", "Exercise ID", "Pattern", "Cycles", "Duration", "Synced"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, row := range l.Rows() {
		record := []string{
			row.ID,
			row.StartedAt.Format(time.RFC3339),
			row.Exercise,
			row.RemoteID,
			row.Pattern,
			strconv.Itoa(row.Cycles),
			strconv.Itoa(row.Seconds),
			strconv.FormatBool(row.Synced),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown renders the log as a Markdown report, with a summary section when stats are present
func ExportToMarkdown(l PracticeLog) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString("# Practice log\n\n")

	if s := l.Stats; s != nil {
		buf.WriteString(fmt.Sprintf("**Sessions**: %d\n", s.Sessions))
		buf.WriteString(fmt.Sprintf("**Time practised**: %s\n", shared.FormatClock(s.TotalSeconds)))
		buf.WriteString(fmt.Sprintf("**Cycles**: %d\n", s.TotalCycles))
		if s.LastPractice != nil {
			buf.WriteString(fmt.Sprintf("**Last practice**: %s\n", s.LastPractice.Format("2006-01-02 15:04")))
		}
		buf.WriteString("\n")

		if len(s.ByExercise) > 0 {
			buf.WriteString("## By exercise\n\n")
			for _, name := range sortedKeys(s.ByExercise) {
				buf.WriteString(fmt.Sprintf("- %s: %d\n", name, s.ByExercise[name]))
			}
			buf.WriteString("\n")
		}
	}

	buf.WriteString("## Sessions\n\n")
	if len(l.Records) == 0 {
		buf.WriteString("_No sessions recorded._\n")
		return buf.Bytes(), nil
	}

	buf.WriteString("| Date | Exercise | Pattern | Cycles | Duration | Synced |\n")
	buf.WriteString("|---|---|---|---|---|---|\n")
	for _, row := range l.Rows() {
		synced := ""
		if row.Synced {
			synced = "yes"
		}
		buf.WriteString(fmt.Sprintf("| %s | %s | %s | %d | %s | %s |\n",
			row.StartedAt.Format("2006-01-02 15:04"), row.Exercise, row.Pattern, row.Cycles,
			shared.FormatClock(row.Seconds), synced))
	}

	return buf.Bytes(), nil
}

// ExportToText converts the log to plain text format
func ExportToText(l PracticeLog) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Sessions: %d\n", len(l.Records)))
	if l.Stats != nil {
		buf.WriteString(fmt.Sprintf("Time practised: %s\n", shared.FormatClock(l.Stats.TotalSeconds)))
	}
	buf.WriteString("\n")

	for i, row := range l.Rows() {
		buf.WriteString(fmt.Sprintf("%d. %s  %s (%s) %d cycles, %s\n", i+1,
			row.StartedAt.Format("2006-01-02 15:04"), row.Exercise, row.Pattern, row.Cycles,
			shared.FormatClock(row.Seconds)))
	}

	return buf.Bytes(), nil
}

// ExportToJSON renders the rows and stats as indented JSON
func ExportToJSON(l PracticeLog) ([]byte, error) {
	payload := struct {
		Stats   *repositories.PracticeStats `json:"stats,omitempty"`
		Records []PracticeRow               `json:"records"`
	}{Stats: l.Stats, Records: l.Rows()}
	return shared.MarshalJSON(payload, true)
}

// Export dispatches on format.
func Export(l PracticeLog, format string) ([]byte, error) {
	switch format {
	case FormatCSV:
		return ExportToCSV(l)
	case FormatMarkdown, "md":
		return ExportToMarkdown(l)
	case FormatText, "text":
		return ExportToText(l)
	case FormatJSON, "":
		return ExportToJSON(l)
	default:
		return nil, fmt.Errorf("%w: unknown format %q (want csv, markdown, txt or json)", shared.ErrInvalidFlag, format)
	}
}

// DefaultFilename returns practice_log with the extension for format.
func DefaultFilename(format string) string {
	switch format {
	case FormatCSV:
		return "practice_log.csv"
	case FormatMarkdown, "md":
		return "practice_log.md"
	case FormatText, "text":
		return "practice_log.txt"
	default:
		return "practice_log.json"
	}
}

// WriteExport renders the log in format to w.
func WriteExport(w io.Writer, l PracticeLog, format string) error {
	data, err := Export(l, format)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}
	return nil
}

// WriteExportFile writes the log in format to path, creating parent directories.
//
// Defaults to [DefaultFilename] in the working directory.
func WriteExportFile(l PracticeLog, format, path string) (string, error) {
	if path == "" {
		path = DefaultFilename(format)
	}

	data, err := Export(l, format)
	if err != nil {
		return "", err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", fmt.Errorf("failed to create directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write export file: %w", err)
	}
	return path, nil
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
