// Package cli contains a github.com/apex/log handler for terminals.
//
// Besides regular entries, the handler renders "typed" entries, i.e.,
// entries with a "type" field: "table" draws the fields in a box and
// "section_title" draws the message as a title.
package cli

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/apex/log"
	"github.com/fatih/color"
	colorable "github.com/mattn/go-colorable"
)

// Default handler outputting to stderr.
var Default = New(os.Stderr)

var bold = color.New(color.Bold)

// Colors mapping.
var Colors = [...]*color.Color{
	log.DebugLevel: color.New(color.FgWhite),
	log.InfoLevel:  color.New(color.FgBlue),
	log.WarnLevel:  color.New(color.FgYellow),
	log.ErrorLevel: color.New(color.FgRed),
	log.FatalLevel: color.New(color.FgRed),
}

// Strings mapping.
var Strings = [...]string{
	log.DebugLevel: "•",
	log.InfoLevel:  "•",
	log.WarnLevel:  "•",
	log.ErrorLevel: "⨯",
	log.FatalLevel: "⨯",
}

// Handler implementation.
type Handler struct {
	mu      sync.Mutex
	Writer  io.Writer
	Padding int
}

var _ log.Handler = &Handler{}

// New handler.
func New(w io.Writer) *Handler {
	if f, ok := w.(*os.File); ok {
		return &Handler{
			Writer:  colorable.NewColorable(f),
			Padding: 3,
		}
	}

	return &Handler{
		Writer:  w,
		Padding: 3,
	}
}

func logSectionTitle(w io.Writer, title string) error {
	colWidth := max(24, EscapeAwareRuneCountInString(title))
	fmt.Fprint(w, "┏"+strings.Repeat("━", colWidth+2)+"┓\n")
	fmt.Fprintf(w, "┃ %s ┃\n", RightPad(title, colWidth))
	fmt.Fprint(w, "┗"+strings.Repeat("━", colWidth+2)+"┛\n")
	return nil
}

// sortedNames returns the field names in lexicographic order.
func sortedNames(fields log.Fields) []string {
	names := fields.Names()
	sort.Strings(names)
	return names
}

func logTable(w io.Writer, f log.Fields) error {
	color := color.New(color.FgBlue)

	var lines []string
	colWidth := 0
	for _, name := range sortedNames(f) {
		if name == "type" {
			continue
		}
		line := fmt.Sprintf("%s: %v", color.Sprint(name), f.Get(name))
		lineLength := EscapeAwareRuneCountInString(line)
		lines = append(lines, line)
		if colWidth < lineLength {
			colWidth = lineLength
		}
	}

	fmt.Fprint(w, "┏"+strings.Repeat("━", colWidth+2)+"┓\n")
	for _, line := range lines {
		fmt.Fprintf(w, "┃ %s ┃\n", RightPad(line, colWidth))
	}
	fmt.Fprint(w, "┗"+strings.Repeat("━", colWidth+2)+"┛\n")
	return nil
}

// TypedLog is used for handling special "typed" logs to the CLI
func (h *Handler) TypedLog(t string, e *log.Entry) error {
	switch t {
	case "table":
		return logTable(h.Writer, e.Fields)
	case "section_title":
		return logSectionTitle(h.Writer, e.Message)
	default:
		return h.DefaultLog(e)
	}
}

// DefaultLog is the default way of printing out logs
func (h *Handler) DefaultLog(e *log.Entry) error {
	color := Colors[e.Level]
	level := Strings[e.Level]

	s := color.Sprintf("%s %-25s", bold.Sprintf("%*s", h.Padding+1, level), e.Message)
	for _, name := range sortedNames(e.Fields) {
		if name == "source" || name == "type" {
			continue
		}
		s += fmt.Sprintf(" %s=%v", color.Sprint(name), e.Fields.Get(name))
	}
	_, err := fmt.Fprintln(h.Writer, s)
	return err
}

// HandleLog implements log.Handler.
func (h *Handler) HandleLog(e *log.Entry) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	t, isTyped := e.Fields["type"].(string)
	if isTyped {
		return h.TypedLog(t, e)
	}

	return h.DefaultLog(e)
}
