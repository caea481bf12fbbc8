// package formatter exports the state document to JSON, CSV, and Markdown
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/desertthunder/fithub/internal/models"
	"github.com/desertthunder/fithub/internal/shared"
	"github.com/desertthunder/fithub/internal/stats"
)

// Format names an export encoding.
type Format string

const (
	FormatJSON     Format = "json"
	FormatCSV      Format = "csv"
	FormatMarkdown Format = "md"
)

// Formats lists every supported export format.
func Formats() []Format { return []Format{FormatJSON, FormatCSV, FormatMarkdown} }

// ParseFormat accepts a format name or a common alias.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "json":
		return FormatJSON, nil
	case "csv":
		return FormatCSV, nil
	case "md", "markdown":
		return FormatMarkdown, nil
	}
	return "", fmt.Errorf("%w: unknown export format %q", shared.ErrInvalidArgument, s)
}

// Export encodes the state in the given format.
func Export(s models.AppState, f Format) ([]byte, error) {
	switch f {
	case FormatJSON:
		return ExportToJSON(s)
	case FormatCSV:
		return ExportToCSV(s)
	case FormatMarkdown:
		return ExportToMarkdown(s)
	}
	return nil, fmt.Errorf("%w: unknown export format %q", shared.ErrInvalidArgument, f)
}

// ExportToJSON returns the indented state document.
func ExportToJSON(s models.AppState) ([]byte, error) {
	return shared.MarshalJSON(s.Normalize(), true)
}

var csvHeaders = []string{"Collection", "ID", "Name", "Reps", "Weight", "Calories", "Protein", "Target", "Current", "Unit", "Date"}

// ExportToCSV flattens every collection into one table with a leading Collection column.
func ExportToCSV(s models.AppState) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(csvHeaders); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	var records [][]string
	for _, w := range s.Workouts {
		records = append(records, []string{
			models.Workouts.String(), w.ID, w.Name, strconv.Itoa(w.Reps), formatFloat(w.Weight), "", "", "", "", "", w.Date,
		})
	}
	for _, f := range s.Foods {
		records = append(records, []string{
			models.Foods.String(), f.ID, f.Name, "", "", formatFloat(f.Calories), formatFloat(f.Protein), "", "", "", f.Date,
		})
	}
	for _, g := range s.Goals {
		records = append(records, []string{
			models.Goals.String(), g.ID, g.Name, "", "", "", "", formatFloat(g.Target), formatFloat(g.Current), g.Unit, "",
		})
	}

	for _, record := range records {
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

// ExportToMarkdown renders a readable report with a summary and one section per collection.
func ExportToMarkdown(s models.AppState) ([]byte, error) {
	var buf bytes.Buffer
	d := stats.ComputeIn(s, time.UTC)

	buf.WriteString("# FitHub Export\n\n")
	if s.User != nil {
		buf.WriteString(fmt.Sprintf("**User**: %s <%s>\n", s.User.Name, s.User.Email))
	}
	buf.WriteString(fmt.Sprintf("**Streak**: %d days\n", s.Streak))
	buf.WriteString(fmt.Sprintf("**Calories**: %s kcal\n", formatFloat(d.TotalCalories)))
	buf.WriteString(fmt.Sprintf("**Goal Progress**: %d%%\n\n", int(d.GoalProgress*100)))

	buf.WriteString("## Workouts\n\n")
	if len(s.Workouts) == 0 {
		buf.WriteString("_None_\n")
	}
	for i, w := range s.Workouts {
		buf.WriteString(fmt.Sprintf("%d. %s - %d reps @ %s kg%s\n", i+1, w.Name, w.Reps, formatFloat(w.Weight), dateSuffix(w.Date)))
	}

	buf.WriteString("\n## Nutrition\n\n")
	if len(s.Foods) == 0 {
		buf.WriteString("_None_\n")
	}
	for i, f := range s.Foods {
		buf.WriteString(fmt.Sprintf("%d. %s - %s kcal, %sg protein%s\n", i+1, f.Name, formatFloat(f.Calories), formatFloat(f.Protein), dateSuffix(f.Date)))
	}

	buf.WriteString("\n## Goals\n\n")
	if len(s.Goals) == 0 {
		buf.WriteString("_None_\n")
	}
	for i, g := range s.Goals {
		buf.WriteString(fmt.Sprintf("%d. %s - %s/%s %s (%d%%)\n", i+1, g.Name, formatFloat(g.Current), formatFloat(g.Target), g.Unit, int(g.Progress()*100)))
	}

	return buf.Bytes(), nil
}

// DefaultFilename returns a timestamped export filename.
func DefaultFilename(f Format, now time.Time) string {
	return fmt.Sprintf("fithub-export-%s.%s", now.UTC().Format("20060102-150405"), f)
}

// WriteExport encodes the state and writes it to path.
//
// An empty path writes [DefaultFilename] into the working directory. Parent directories are created.
func WriteExport(s models.AppState, f Format, path string) (string, error) {
	if path == "" {
		path = DefaultFilename(f, time.Now())
	}

	data, err := Export(s, f)
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

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func dateSuffix(date string) string {
	t, err := models.ParseDate(date)
	if err != nil {
		return ""
	}
	return " (" + t.UTC().Format("Jan 2, 2006") + ")"
}
