package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/urfave/cli/v2"

	"github.com/tylium-run/oc-cli/internal/waiter"
)

var (
	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	addStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("10"))

	delStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9"))
)

// waitReport is the structured outcome emitted under --json.
type waitReport struct {
	SessionID string        `json:"sessionID"`
	Status    waiter.Status `json:"status"`
	Error     string        `json:"error,omitempty"`
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// newTable returns a tabwriter for aligned command output.
func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
}

// formatTime renders a server millisecond timestamp for table output.
func formatTime(ms float64) string {
	if ms == 0 {
		return "-"
	}
	return time.UnixMilli(int64(ms)).Local().Format("2006-01-02 15:04")
}

// readPrompt resolves the prompt text: a --file value overrides positional
// arguments, and piped stdin serves as the fallback when neither is given.
func readPrompt(c *cli.Context) (string, error) {
	var prompt string

	if c.Args().Len() > 0 {
		prompt = strings.Join(c.Args().Slice(), " ")
	}

	if file := c.String("file"); file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("read prompt file: %w", err)
		}
		prompt = string(data)
	}

	if prompt == "" {
		stat, err := os.Stdin.Stat()
		if err == nil && (stat.Mode()&os.ModeCharDevice) == 0 {
			data, err := io.ReadAll(os.Stdin)
			if err != nil {
				return "", fmt.Errorf("read stdin: %w", err)
			}
			prompt = string(data)
		}
	}

	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "", fmt.Errorf("no prompt provided (use an argument, --file, or stdin)")
	}
	return prompt, nil
}
