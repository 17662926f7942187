package cli

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/Veraticus/conchis/internal/model"
)

// FormatResult renders the outcome of a remote call.
func FormatResult(r model.ClassificationResult) string {
	var lines []string
	if r.Success {
		if r.Category != nil {
			lines = append(lines, FormatSuccess("Remote category: ")+FormatCategory(*r.Category))
		} else {
			lines = append(lines, FormatSuccess("Remote call succeeded"))
		}
		if r.Summary != "" {
			lines = append(lines, "  "+r.Summary)
		}
	} else {
		lines = append(lines, FormatError("Remote call failed: "+r.ErrorMessage))
	}

	detail := fmt.Sprintf("  %s latency, $%.6f", r.Latency.Round(time.Millisecond), r.EstimatedCost)
	if r.RequestID != "" {
		detail += ", request " + r.RequestID
	}
	lines = append(lines, SubtleStyle.Render(detail))
	return strings.Join(lines, "\n")
}

// FormatRateLimited explains a denied remote call.
func FormatRateLimited(wait time.Duration) string {
	return FormatWarning(fmt.Sprintf("%s Rate limited: next remote request allowed in %.1fs", ClockIcon, wait.Seconds()))
}

// FormatNotConfigured explains a remote call skipped for lack of a key.
func FormatNotConfigured() string {
	return FormatWarning(KeyIcon + " No API key configured. Run: conchis key set")
}

// FormatStats renders usage counters as a boxed table.
func FormatStats(s model.UsageStats) string {
	rows := [][2]string{
		{"Requests today", fmt.Sprintf("%d", s.RequestsToday)},
		{"Errors today", fmt.Sprintf("%d", s.ErrorsToday)},
		{"Requests this month", fmt.Sprintf("%d", s.RequestsThisMonth)},
		{"Cost this month", fmt.Sprintf("$%.4f", s.CostThisMonth)},
	}
	last := "never"
	if s.LastRequestTime != nil {
		last = s.LastRequestTime.Local().Format("2006-01-02 15:04:05")
	}
	rows = append(rows, [2]string{"Last request", last})
	if s.LastError != "" {
		rows = append(rows, [2]string{"Last error", errorStyle.Render(s.LastError)})
	}

	lines := make([]string, 0, len(rows))
	for _, row := range rows {
		lines = append(lines, labelStyle.Render(row[0])+row[1])
	}
	return renderBox(ChartIcon+" Usage", strings.Join(lines, "\n"))
}

// FormatGroups renders group suggestions with the clipping each member
// refers to.
func FormatGroups(groups []model.GroupSuggestion, clippings []string) string {
	var b strings.Builder
	for _, g := range groups {
		b.WriteString(boldStyle.Render(g.Label) + SubtleStyle.Render(fmt.Sprintf(" (%d)", len(g.Members))) + "\n")
		for _, m := range g.Members {
			preview := ""
			if m >= 0 && m < len(clippings) {
				preview = previewLine(clippings[m], 60)
			}
			fmt.Fprintf(&b, "  %s %s\n", SubtleStyle.Render(fmt.Sprintf("[%d]", m)), preview)
		}
	}
	return b.String()
}

// FormatPrompts renders prompt entries under a header row, each with its
// library index.
func FormatPrompts(entries []model.PromptEntry, indices []int) string {
	var b strings.Builder
	b.WriteString(headerStyle.Render(fmt.Sprintf("%4s %s", "#", "Prompt")) + "\n")
	for i, e := range entries {
		index := i
		if indices != nil {
			index = indices[i]
		}
		tags := ""
		if len(e.Tags) > 0 {
			tags = " " + infoStyle.Render("#"+strings.Join(e.Tags, " #"))
		}
		fmt.Fprintf(&b, "%s %s%s\n", SubtleStyle.Render(fmt.Sprintf("%3d.", index)), previewLine(e.Text, 70), tags)
	}
	return b.String()
}

// FormatTagCounts renders tag usage sorted by count, then name.
func FormatTagCounts(counts map[string]int) string {
	tags := make([]string, 0, len(counts))
	for tag := range counts {
		tags = append(tags, tag)
	}
	sort.Slice(tags, func(i, j int) bool {
		if counts[tags[i]] != counts[tags[j]] {
			return counts[tags[i]] > counts[tags[j]]
		}
		return tags[i] < tags[j]
	})

	parts := make([]string, 0, len(tags))
	for _, tag := range tags {
		parts = append(parts, fmt.Sprintf("#%s (%d)", tag, counts[tag]))
	}
	return strings.Join(parts, "  ")
}

func previewLine(s string, limit int) string {
	s = strings.Join(strings.Fields(s), " ")
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-1]) + "…"
}
