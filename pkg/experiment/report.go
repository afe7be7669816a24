package experiment

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Report is everything a reporting sink needs from one run.
type Report struct {
	RunID     string
	Name      string
	DoorCount int
	Trials    int
	Seed      int64
	StartedAt time.Time
	Summaries []Summary // in agent selection order
}

// WinRates maps agent name to win rate (0..1).
func (r Report) WinRates() map[string]float64 {
	out := make(map[string]float64, len(r.Summaries))
	for _, s := range r.Summaries {
		out[s.Agent] = s.WinRate
	}
	return out
}

// AsciiBarChart draws one bar per agent, one block per two percentage points.
func AsciiBarChart(r Report) string {
	width := 0
	for _, s := range r.Summaries {
		if len(s.Agent) > width {
			width = len(s.Agent)
		}
	}
	lines := make([]string, 0, len(r.Summaries))
	for _, s := range r.Summaries {
		pct := s.WinRate * 100
		bar := strings.Repeat("█", int(pct/2))
		lines = append(lines, fmt.Sprintf("%-*s | %s %.1f%%", width, s.Agent, bar, pct))
	}
	return strings.Join(lines, "\n")
}

// WriteMarkdown renders the report as a markdown section.
func WriteMarkdown(w io.Writer, r Report) error {
	p := message.NewPrinter(language.English)
	lines := []string{
		"# Monty Hall Simulation Results",
		fmt.Sprintf("**Date:** %s", r.StartedAt.Format("2006-01-02 15:04:05")),
		fmt.Sprintf("**Run:** %s", r.RunID),
		fmt.Sprintf("**Seed:** %d", r.Seed),
		fmt.Sprintf("**Doors:** %d", r.DoorCount),
		p.Sprintf("**Total Games per Agent:** %d", r.Trials),
		"",
		"## Win Rates",
		"",
		"```\n" + AsciiBarChart(r) + "\n```",
		"",
	}
	_, err := io.WriteString(w, strings.Join(lines, "\n"))
	return err
}

// WriteMarkdownFile writes the report to path, appending when appendMode is set.
func WriteMarkdownFile(path string, r Report, appendMode bool) error {
	flags := os.O_CREATE | os.O_WRONLY | os.O_TRUNC
	if appendMode {
		flags = os.O_CREATE | os.O_WRONLY | os.O_APPEND
	}
	f, err := os.OpenFile(path, flags, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open results file: %w", err)
	}
	if err := WriteMarkdown(f, r); err != nil {
		f.Close()
		return fmt.Errorf("failed to write results file: %w", err)
	}
	return f.Close()
}

var csvHeader = []string{"RunID", "Agent", "Doors", "Trials", "Wins", "WinRate", "MeanScore", "CILow", "CIHigh"}

// WriteCSV writes one row per agent.
func WriteCSV(w io.Writer, r Report) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, s := range r.Summaries {
		row := []string{
			r.RunID,
			s.Agent,
			strconv.Itoa(r.DoorCount),
			strconv.Itoa(s.Trials),
			strconv.Itoa(s.Wins),
			strconv.FormatFloat(s.WinRate, 'f', 4, 64),
			strconv.FormatFloat(s.MeanScore, 'f', 2, 64),
			strconv.FormatFloat(s.CILow, 'f', 4, 64),
			strconv.FormatFloat(s.CIHigh, 'f', 4, 64),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteCSVFile writes the CSV report to path.
func WriteCSVFile(path string, r Report) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create stats file: %w", err)
	}
	if err := WriteCSV(f, r); err != nil {
		f.Close()
		return fmt.Errorf("failed to write stats file: %w", err)
	}
	return f.Close()
}

// FormatText renders a console summary with locale-grouped numbers.
func FormatText(r Report, tag language.Tag) string {
	p := message.NewPrinter(tag)
	var b strings.Builder
	p.Fprintf(&b, "=== %s: %d doors, %d games per agent ===\n", r.Name, r.DoorCount, r.Trials)
	for _, s := range r.Summaries {
		p.Fprintf(&b, "%s: Total games: %d, Wins: %d, Win Rate: %.2f%%\n",
			s.Agent, s.Trials, s.Wins, s.WinRate*100)
	}
	return b.String()
}
