package formatter

import (
	"bytes"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/desertthunder/souffle/internal/breath"
	"github.com/desertthunder/souffle/internal/models"
	"github.com/desertthunder/souffle/internal/repositories"
	"github.com/desertthunder/souffle/internal/shared"
	th "github.com/desertthunder/souffle/internal/testing"
)

func testLog() PracticeLog {
	started := time.Date(2025, 5, 4, 7, 30, 0, 0, time.UTC)

	preset, _ := breath.Preset("default-748")
	first := models.NewPracticeRecord(1, preset, 4, 76, started)
	first.SetID("rec-1")

	second := models.NewPracticeRecord(2, breath.Exercise{
		ID: "64a1", Name: "Cohérence cardiaque", InhaleSeconds: 5, ExhaleSeconds: 5,
	}, 12, 125, started.Add(-24*time.Hour))
	second.SetID("rec-2")
	second.SetSynced(true)

	return PracticeLog{
		Records: []*models.PracticeRecord{first, second},
		Stats: &repositories.PracticeStats{
			Sessions:     2,
			TotalSeconds: 201,
			TotalCycles:  16,
			ByExercise:   map[string]int{"Exercice 7-4-8": 1, "Cohérence cardiaque": 1},
			LastPractice: &started,
		},
	}
}

func TestExporters(t *testing.T) {
	l := testLog()

	t.Run("ExportToCSV", func(t *testing.T) {
		data, err := ExportToCSV(l)
		if err != nil {
			t.Fatalf("ExportToCSV failed: %v", err)
		}

		output := string(data)
		if !strings.Contains(output, "ID,Date,Exercise,Exercise ID,Pattern,Cycles,Duration,Synced") {
			t.Errorf("CSV missing headers, got: %s", output)
		}
		if !strings.Contains(output, "rec-1,2025-05-04T07:30:00Z,Exercice 7-4-8,default-748,7-4-8,4,76,false") {
			t.Errorf("CSV missing first record, got: %s", output)
		}
		if !strings.Contains(output, "5-5,12,125,true") {
			t.Errorf("CSV missing second record, got: %s", output)
		}
	})

	t.Run("ExportToMarkdown", func(t *testing.T) {
		data, err := ExportToMarkdown(l)
		if err != nil {
			t.Fatalf("ExportToMarkdown failed: %v", err)
		}

		output := string(data)
		for _, want := range []string{
			"# Practice log",
			"**Sessions**: 2",
			"**Time practised**: 03:21",
			"- Cohérence cardiaque: 1",
			"| 2025-05-04 07:30 | Exercice 7-4-8 | 7-4-8 | 4 | 01:16 |  |",
			"| Cohérence cardiaque | 5-5 | 12 | 02:05 | yes |",
		} {
			if !strings.Contains(output, want) {
				t.Errorf("Markdown missing %q, got:\n%s", want, output)
			}
		}

		t.Run("without stats or records", func(t *testing.T) {
			data, err := ExportToMarkdown(PracticeLog{})
			if err != nil {
				t.Fatalf("ExportToMarkdown failed: %v", err)
			}
			output := string(data)
			if strings.Contains(output, "**Sessions**") {
				t.Error("summary should be omitted without stats")
			}
			if !strings.Contains(output, "_No sessions recorded._") {
				t.Errorf("expected empty marker, got:\n%s", output)
			}
		})
	})

	t.Run("ExportToText", func(t *testing.T) {
		data, err := ExportToText(l)
		if err != nil {
			t.Fatalf("ExportToText failed: %v", err)
		}

		output := string(data)
		if !strings.Contains(output, "Sessions: 2") {
			t.Errorf("text missing session count, got: %s", output)
		}
		if !strings.Contains(output, "1. 2025-05-04 07:30  Exercice 7-4-8 (7-4-8) 4 cycles, 01:16") {
			t.Errorf("text missing first line, got: %s", output)
		}
	})

	t.Run("ExportToJSON", func(t *testing.T) {
		data, err := ExportToJSON(l)
		if err != nil {
			t.Fatalf("ExportToJSON failed: %v", err)
		}

		var decoded struct {
			Stats   repositories.PracticeStats `json:"stats"`
			Records []PracticeRow              `json:"records"`
		}
		if err := json.Unmarshal(data, &decoded); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if decoded.Stats.Sessions != 2 || len(decoded.Records) != 2 {
			t.Errorf("unexpected payload: %+v", decoded)
		}
		if decoded.Records[1].Pattern != "5-5" || !decoded.Records[1].Synced {
			t.Errorf("unexpected second row: %+v", decoded.Records[1])
		}
	})

	t.Run("Export rejects unknown format", func(t *testing.T) {
		if _, err := Export(l, "xml"); !errors.Is(err, shared.ErrInvalidFlag) {
			t.Errorf("expected ErrInvalidFlag, got %v", err)
		}
	})
}

func TestDefaultFilename(t *testing.T) {
	tests := map[string]string{
		FormatCSV:      "practice_log.csv",
		FormatMarkdown: "practice_log.md",
		"md":           "practice_log.md",
		FormatText:     "practice_log.txt",
		FormatJSON:     "practice_log.json",
		"":             "practice_log.json",
	}
	for format, want := range tests {
		if got := DefaultFilename(format); got != want {
			t.Errorf("DefaultFilename(%q) = %q, want %q", format, got, want)
		}
	}
}

func TestWriters(t *testing.T) {
	l := testLog()

	t.Run("WriteExport", func(t *testing.T) {
		var buf bytes.Buffer
		if err := WriteExport(&buf, l, FormatCSV); err != nil {
			t.Fatalf("WriteExport failed: %v", err)
		}
		if !strings.HasPrefix(buf.String(), "ID,Date") {
			t.Errorf("unexpected output: %s", buf.String())
		}

		t.Run("WriterError", func(t *testing.T) {
			if err := WriteExport(&th.FWriter{}, l, FormatText); err == nil {
				t.Error("expected write error")
			}
		})
	})

	t.Run("WriteExportFile", func(t *testing.T) {
		t.Run("WithDefaultPath", func(t *testing.T) {
			tempDir := t.TempDir()
			originalDir := th.MustGetwd(t)
			th.MustChdir(t, tempDir)
			defer th.MustChdir(t, originalDir)

			path, err := WriteExportFile(l, FormatMarkdown, "")
			if err != nil {
				t.Fatalf("WriteExportFile failed: %v", err)
			}
			if path != "practice_log.md" {
				t.Errorf("expected default path, got %s", path)
			}
			th.AssertFileExists(t, filepath.Join(tempDir, "practice_log.md"))
		})

		t.Run("WithCustomPath", func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "exports", "log.txt")

			got, err := WriteExportFile(l, FormatText, path)
			if err != nil {
				t.Fatalf("WriteExportFile failed: %v", err)
			}
			if got != path {
				t.Errorf("expected %s, got %s", path, got)
			}
			th.AssertDirExists(t, filepath.Dir(path))
			if content := th.MustReadFile(t, path); !strings.Contains(content, "Sessions: 2") {
				t.Errorf("unexpected file content: %s", content)
			}
		})

		t.Run("UnknownFormat", func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "log.xml")
			if _, err := WriteExportFile(l, "xml", path); !errors.Is(err, shared.ErrInvalidFlag) {
				t.Errorf("expected ErrInvalidFlag, got %v", err)
			}
		})
	})
}
