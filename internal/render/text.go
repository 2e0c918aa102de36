package render

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"

	"EconDash/internal/calculator"
	"EconDash/internal/model"
	"EconDash/internal/view"
)

const (
	ansiReset  = "\033[0m"
	ansiBold   = "\033[1m"
	ansiRed    = "\033[31m"
	ansiGreen  = "\033[32m"
	ansiYellow = "\033[33m"
	ansiDim    = "\033[2m"
)

// DefaultTableRows is how many trailing rows a chart table shows.
const DefaultTableRows = 6

// Text renders views as plain terminal text.
type Text struct {
	Color      bool
	TableRows  int
	SparkWidth int
	Now        func() time.Time
}

// NewText returns a renderer for w. Colour is enabled only when w is a
// terminal and NO_COLOR is unset.
func NewText(w io.Writer) *Text {
	t := &Text{TableRows: DefaultTableRows, SparkWidth: 40, Now: time.Now}
	if f, ok := w.(*os.File); ok && os.Getenv("NO_COLOR") == "" {
		t.Color = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return t
}

func (t *Text) paint(code, s string) string {
	if !t.Color {
		return s
	}
	return code + s + ansiReset
}

// Chart renders one chart view in its current state.
func (t *Text) Chart(spec view.ChartSpec, st view.State[view.ChartData]) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s  [%s]\n", t.paint(ansiBold, spec.Title), st.Period)
	if spec.Subtitle != "" {
		fmt.Fprintf(&b, "%s\n", t.paint(ansiDim, spec.Subtitle))
	}

	switch st.Status {
	case view.Idle:
		b.WriteString("not loaded\n")
		return b.String()
	case view.Loading:
		b.WriteString(t.paint(ansiYellow, "loading...") + "\n")
		return b.String()
	case view.Failed:
		fmt.Fprintf(&b, "%s %s\n", t.paint(ansiRed, "error:"), st.Message)
		fmt.Fprintf(&b, "retry with: econdash show %s\n", spec.Name)
		return b.String()
	}

	data := st.Data
	if len(data.Rows) == 0 {
		b.WriteString("no data to display\n")
		return b.String()
	}

	nameWidth := 0
	for _, s := range data.Series {
		nameWidth = max(nameWidth, len([]rune(s.Name)))
	}
	for _, s := range data.Series {
		col := calculator.Column(data.Rows, s.Key)
		values := make([]float64, len(col))
		for i, p := range col {
			values[i] = p.Value
		}
		last := "-"
		if len(values) > 0 {
			last = Value(values[len(values)-1], s.Unit)
		}
		fmt.Fprintf(&b, "  %s %s %s\n", padRight(s.Name, nameWidth), Sparkline(values, t.SparkWidth), last)
	}
	b.WriteString("\n")
	b.WriteString(t.table(data))

	if len(data.Insights) > 0 {
		b.WriteString("\n")
		for _, in := range data.Insights {
			b.WriteString("  " + t.insight(in) + "\n")
		}
	}
	return b.String()
}

// table prints the trailing rows with one column per series. A series
// without an observation on a row's date prints as "-".
func (t *Text) table(data view.ChartData) string {
	rows := data.Rows
	if n := t.TableRows; n > 0 && len(rows) > n {
		rows = rows[len(rows)-n:]
	}
	widths := make([]int, len(data.Series))
	cells := make([][]string, len(rows))
	for i, s := range data.Series {
		widths[i] = len(s.Code)
	}
	for r, row := range rows {
		cells[r] = make([]string, len(data.Series))
		for i, s := range data.Series {
			c := "-"
			if v, ok := row.Value(s.Key); ok {
				c = Value(v, s.Unit)
			}
			cells[r][i] = c
			widths[i] = max(widths[i], len(c))
		}
	}

	var b strings.Builder
	b.WriteString("  " + padRight("date", len(model.DateLayout)))
	for i, s := range data.Series {
		b.WriteString("  " + padLeft(s.Code, widths[i]))
	}
	b.WriteString("\n")
	for r, row := range rows {
		b.WriteString("  " + row.Date.String())
		for i := range data.Series {
			b.WriteString("  " + padLeft(cells[r][i], widths[i]))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (t *Text) insight(in view.Insight) string {
	s := fmt.Sprintf("%s: %s (%s)", in.Label, Number(in.Value, in.Unit), in.Date)
	switch in.Trend {
	case calculator.TrendUp:
		s += " " + t.paint(ansiGreen, "▲ up")
	case calculator.TrendDown:
		s += " " + t.paint(ansiRed, "▼ down")
	case calculator.TrendStable:
		s += " " + t.paint(ansiDim, "● stable")
	}
	if in.Note != "" {
		s += ", " + in.Note
	}
	return s
}

// Summary renders the quick metrics and the per-category detail groups.
func (t *Text) Summary(st view.State[view.SummaryData]) string {
	var b strings.Builder
	b.WriteString(t.paint(ansiBold, "Key Indicators") + "\n")
	switch st.Status {
	case view.Idle:
		b.WriteString("not loaded\n")
		return b.String()
	case view.Loading:
		b.WriteString(t.paint(ansiYellow, "loading...") + "\n")
		return b.String()
	case view.Failed:
		fmt.Fprintf(&b, "%s %s\n", t.paint(ansiRed, "error:"), st.Message)
		return b.String()
	}
	if len(st.Data.Metrics) == 0 && len(st.Data.Groups) == 0 {
		b.WriteString("no data to display\n")
		return b.String()
	}
	for _, m := range st.Data.Metrics {
		fmt.Fprintf(&b, "  %s %s  %s\n", padRight(m.Label, 20), padLeft(Value(m.Value, m.Unit), 12), t.paint(ansiDim, m.Date.String()))
	}
	for _, g := range st.Data.Groups {
		fmt.Fprintf(&b, "\n%s\n", t.paint(ansiBold, g.Title))
		for _, e := range g.Entries {
			fmt.Fprintf(&b, "  %s %s  %s\n", padRight(e.Label, 32), padLeft(Value(e.Value, e.Unit), 14), t.paint(ansiDim, e.Date.String()))
		}
	}
	return b.String()
}

// Analysis renders the AI panel.
func (t *Text) Analysis(st view.State[*model.Analysis]) string {
	var b strings.Builder
	b.WriteString(t.paint(ansiBold, "AI Economic Analysis") + "\n")
	switch st.Status {
	case view.Idle:
		b.WriteString("no analysis generated yet\n")
	case view.Loading:
		b.WriteString(t.paint(ansiYellow, "generating analysis...") + "\n")
	case view.Failed:
		fmt.Fprintf(&b, "%s %s\n", t.paint(ansiRed, "error:"), st.Message)
		b.WriteString("retry with: econdash analyze\n")
	case view.Loaded:
		a := st.Data
		if a == nil {
			b.WriteString("no data to display\n")
			break
		}
		fmt.Fprintf(&b, "\nSummary\n%s\n\nOutlook\n%s\n", a.Summary, a.Outlook)
		if a.Model != "" {
			b.WriteString("\n" + t.paint(ansiDim, "model: "+a.Model) + "\n")
		}
	}
	return b.String()
}

// Header renders the title line with the last refresh time.
func (t *Text) Header(h *view.Header) string {
	line := t.paint(ansiBold, h.Title)
	if ts, ok := h.LastUpdated(); ok {
		line += fmt.Sprintf("  last updated %s (%s)", ts.Format("2006-01-02 15:04:05"), humanize.RelTime(ts, t.Now(), "ago", "from now"))
	}
	return line + "\n"
}
