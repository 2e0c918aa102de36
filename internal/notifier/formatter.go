package notifier

import (
	"fmt"
	"html"
	"strings"
	"time"

	"EconDash/internal/calculator"
	"EconDash/internal/dashboard"
	"EconDash/internal/model"
	"EconDash/internal/render"
	"EconDash/internal/view"
)

var trendMarks = map[calculator.Trend]string{
	calculator.TrendUp:     "📈",
	calculator.TrendDown:   "📉",
	calculator.TrendStable: "➖",
}

// FormatDigest formats the whole dashboard into one Telegram message.
func FormatDigest(d *dashboard.Dashboard, now time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📊 <b>%s</b> | %s\n\n", html.EscapeString(d.Header.Title), now.Format("2006-01-02"))
	b.WriteString(FormatSummary(d.Summary.State()))
	for _, cv := range d.Charts() {
		b.WriteString("\n")
		b.WriteString(FormatChart(cv.Spec(), cv.State()))
	}
	return b.String()
}

// FormatSummary formats the quick metrics.
func FormatSummary(st view.State[view.SummaryData]) string {
	var b strings.Builder
	b.WriteString("<b>Key Indicators</b>\n")
	switch st.Status {
	case view.Failed:
		fmt.Fprintf(&b, "❌ %s\n", html.EscapeString(st.Message))
		return b.String()
	case view.Loaded:
	default:
		b.WriteString("not loaded\n")
		return b.String()
	}
	if len(st.Data.Metrics) == 0 {
		b.WriteString("no data\n")
	}
	for _, m := range st.Data.Metrics {
		fmt.Fprintf(&b, "%s: %s (%s)\n", html.EscapeString(m.Label), render.Value(m.Value, m.Unit), m.Date)
	}
	if st.Data.UpdatedAt != "" {
		fmt.Fprintf(&b, "updated %s\n", st.Data.UpdatedAt)
	}
	return b.String()
}

// FormatChart formats the insights of one chart view.
func FormatChart(spec view.ChartSpec, st view.State[view.ChartData]) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<b>%s</b> [%s]\n", html.EscapeString(spec.Title), st.Period)
	switch st.Status {
	case view.Failed:
		fmt.Fprintf(&b, "❌ %s\n", html.EscapeString(st.Message))
		return b.String()
	case view.Loaded:
	default:
		b.WriteString("not loaded\n")
		return b.String()
	}
	if len(st.Data.Rows) == 0 {
		b.WriteString("no data to display\n")
		return b.String()
	}
	for _, in := range st.Data.Insights {
		line := fmt.Sprintf("%s: %s", html.EscapeString(in.Label), render.Number(in.Value, in.Unit))
		if mark, ok := trendMarks[in.Trend]; ok {
			line += " " + mark
		}
		if in.Note != "" {
			line += " (" + html.EscapeString(in.Note) + ")"
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}

// FormatAnalysis formats the AI narrative.
func FormatAnalysis(st view.State[*model.Analysis]) string {
	switch st.Status {
	case view.Failed:
		return "❌ " + html.EscapeString(st.Message)
	case view.Loaded:
		if st.Data == nil {
			return "no analysis available"
		}
		return fmt.Sprintf("🤖 <b>Economic Analysis</b>\n\n<b>Summary</b>\n%s\n\n<b>Outlook</b>\n%s",
			html.EscapeString(st.Data.Summary), html.EscapeString(st.Data.Outlook))
	default:
		return "no analysis available"
	}
}
