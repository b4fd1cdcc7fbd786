// Package printer renders API resources for the terminal: an outline of
// "* Label: value" records, or indented JSON.
package printer

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// Format selects how records are written
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

const tabWidth = 8

// ParseFormat parses an --output value
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatText, FormatJSON:
		return f, nil
	case "":
		return FormatText, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want text or json)", s)
	}
}

// Printer writes records to w
type Printer struct {
	w       io.Writer
	format  Format
	width   int
	heading lipgloss.Style
	styled  bool
}

// Option configures a Printer
type Option func(*Printer)

// WithWidth truncates long values to fit n columns. Zero disables truncation.
func WithWidth(n int) Option {
	return func(p *Printer) { p.width = n }
}

// New creates a printer. When w is a terminal and NO_COLOR is unset, record
// headings are bold and long values are cut to the terminal width.
func New(w io.Writer, format Format, opts ...Option) *Printer {
	p := &Printer{w: w, format: format}

	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		if width, _, err := term.GetSize(int(f.Fd())); err == nil {
			p.width = width
		}
		if !termenv.EnvNoColor() {
			r := lipgloss.NewRenderer(w)
			r.SetColorProfile(termenv.EnvColorProfile())
			p.heading = r.NewStyle().Bold(true)
			p.styled = true
		}
	}

	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Format returns the output format
func (p *Printer) Format() Format {
	return p.format
}

// Writer returns the underlying writer
func (p *Printer) Writer() io.Writer {
	return p.w
}

// Printf writes a free-form line. It is dropped in JSON mode so the output
// stays parseable.
func (p *Printer) Printf(format string, args ...interface{}) {
	if p.format == FormatJSON {
		return
	}
	fmt.Fprintf(p.w, format, args...)
}

// JSON writes v as indented JSON
func (p *Printer) JSON(v interface{}) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	_, err = fmt.Fprintf(p.w, "%s\n", b)
	return err
}

func prefix(level int) string {
	if level == 0 {
		return "* "
	}
	return strings.Repeat("\t", level) + "- "
}

func (p *Printer) line(level int, text string) {
	if level == 0 && p.styled {
		text = p.heading.Render(text)
	}
	fmt.Fprintf(p.w, "%s%s\n", prefix(level), text)
}

// Field writes "Label: value". Zero values are skipped.
func (p *Printer) Field(label string, value interface{}, level int) {
	s, ok := format(value)
	if !ok {
		return
	}
	p.line(level, label+": "+s)
}

// Long is Field for values that may not fit on a line, like HTML snippets
func (p *Printer) Long(label, value string, level int) {
	if value == "" {
		return
	}
	if p.width > 0 {
		used := level*tabWidth + runewidth.StringWidth(prefix(level)+label+": ")
		if room := p.width - used; room > 0 {
			value = runewidth.Truncate(value, room, "…")
		}
	}
	p.line(level, label+": "+value)
}

// Section writes a heading for the nested fields that follow
func (p *Printer) Section(label string, level int) {
	p.line(level, label+":")
}

// List writes a heading followed by one item per line a level deeper.
// Empty lists are skipped.
func (p *Printer) List(label string, values []string, level int) {
	if len(values) == 0 {
		return
	}
	p.Section(label, level)
	for _, v := range values {
		p.line(level+1, v)
	}
}

// Int64List is List for numeric IDs
func (p *Printer) Int64List(label string, values []int64, level int) {
	p.List(label, int64Strings(values), level)
}

func int64Strings(values []int64) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = strconv.FormatInt(v, 10)
	}
	return out
}

func format(value interface{}) (string, bool) {
	switch v := value.(type) {
	case nil:
		return "", false
	case string:
		return v, v != ""
	case int:
		return strconv.Itoa(v), v != 0
	case int32:
		return strconv.FormatInt(int64(v), 10), v != 0
	case int64:
		return strconv.FormatInt(v, 10), v != 0
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), v != 0
	case bool:
		return strconv.FormatBool(v), v
	case fmt.Stringer:
		s := v.String()
		return s, s != ""
	default:
		return fmt.Sprint(v), true
	}
}
