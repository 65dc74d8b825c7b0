// Package report prints the status messages shown after an image build.
//
// The text form is always exactly three lines: a completion notice, an
// instruction line, and the `docker run` command to copy. The lines do not
// depend on whether the build succeeded.
package report

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/mmr-tortoise/tarkov-build/internal/i18n"
	"github.com/mmr-tortoise/tarkov-build/internal/model"
)

// Printer writes status messages in a fixed language.
type Printer struct {
	out  io.Writer
	lang string
}

// NewPrinter creates a Printer writing to out. An unknown lang falls back
// to the default language.
func NewPrinter(out io.Writer, lang string) *Printer {
	return &Printer{out: out, lang: i18n.Normalize(lang)}
}

// Lines returns the status lines for hint, in print order.
func (p *Printer) Lines(hint model.RunHint) []string {
	return []string{
		i18n.T(p.lang, i18n.KeyBuildComplete),
		i18n.T(p.lang, i18n.KeyRunInstructions),
		hint.Command(),
	}
}

// PrintText writes the status lines, one per line.
func (p *Printer) PrintText(hint model.RunHint) error {
	for _, line := range p.Lines(hint) {
		if _, err := fmt.Fprintln(p.out, line); err != nil {
			return err
		}
	}
	return nil
}

// Summary is the JSON form of a build report.
type Summary struct {
	Image      string   `json:"image"`
	Backend    string   `json:"backend"`
	Built      bool     `json:"built"`
	Error      string   `json:"error,omitempty"`
	DurationMs int64    `json:"durationMs"`
	RunCommand string   `json:"runCommand"`
	Messages   []string `json:"messages"`
}

// PrintJSON writes a single indented JSON object describing the build.
func (p *Printer) PrintJSON(result *model.BuildResult, hint model.RunHint) error {
	summary := Summary{
		Image:      result.Image.String(),
		Backend:    result.Backend,
		Built:      result.Succeeded(),
		DurationMs: result.Duration.Milliseconds(),
		RunCommand: hint.Command(),
		Messages:   p.Lines(hint),
	}
	if result.Err != nil {
		summary.Error = result.Err.Error()
	}

	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(p.out, string(data))
	return err
}
