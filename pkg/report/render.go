package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"commentary-check/config"
	"commentary-check/pkg/model"

	"github.com/charmbracelet/lipgloss"
	"github.com/pkg/errors"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// Group 一个分类下的问题，超过 topN 的部分只保留数量
type Group struct {
	Category  model.Category
	Total     int
	Findings  []model.Finding
	Remaining int
}

// MoreMarker 被截断部分的提示
func (g Group) MoreMarker() string {
	if g.Remaining <= 0 {
		return ""
	}
	return fmt.Sprintf("...and %d more", g.Remaining)
}

// GroupByCategory 按分类分组，问题多的分类在前，数量相同按名称排序
func GroupByCategory(findings []model.Finding, topN int) []Group {
	index := make(map[model.Category]int)
	var groups []Group
	for _, f := range findings {
		i, ok := index[f.Category]
		if !ok {
			i = len(groups)
			index[f.Category] = i
			groups = append(groups, Group{Category: f.Category})
		}
		g := &groups[i]
		g.Total++
		if topN <= 0 || len(g.Findings) < topN {
			g.Findings = append(g.Findings, f)
		} else {
			g.Remaining++
		}
	}
	sort.SliceStable(groups, func(i, j int) bool {
		if groups[i].Total != groups[j].Total {
			return groups[i].Total > groups[j].Total
		}
		return groups[i].Category < groups[j].Category
	})
	return groups
}

// RenderOptions 控制输出细节
type RenderOptions struct {
	TopN  int
	Color bool
}

// Render 按格式输出报告
func Render(w io.Writer, r *model.QualityReport, format string, opts RenderOptions) error {
	switch format {
	case config.FormatText, "":
		return renderText(w, r, opts)
	case config.FormatJSON:
		return renderJSON(w, r)
	case config.FormatMarkdown:
		_, err := io.WriteString(w, Markdown(r, opts.TopN))
		return err
	case config.FormatHTML:
		return renderHTML(w, r, opts.TopN)
	}
	return errors.Errorf("不支持的报告格式: %s", format)
}

// RenderBytes 渲染到内存，用于原子写文件
func RenderBytes(r *model.QualityReport, format string, opts RenderOptions) ([]byte, error) {
	var buf bytes.Buffer
	if err := Render(&buf, r, format, opts); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

type textStyles struct {
	title    lipgloss.Style
	category lipgloss.Style
	muted    lipgloss.Style
	severity map[model.Severity]lipgloss.Style
}

func newTextStyles(color bool) textStyles {
	if !color {
		plain := lipgloss.NewStyle()
		return textStyles{title: plain, category: plain, muted: plain, severity: map[model.Severity]lipgloss.Style{}}
	}
	return textStyles{
		title:    lipgloss.NewStyle().Bold(true),
		category: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#2196F3")),
		muted:    lipgloss.NewStyle().Foreground(lipgloss.Color("#8a8f98")),
		severity: map[model.Severity]lipgloss.Style{
			model.SeverityCritical: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#e53935")),
			model.SeverityHigh:     lipgloss.NewStyle().Foreground(lipgloss.Color("#ff8a65")),
			model.SeverityMedium:   lipgloss.NewStyle().Foreground(lipgloss.Color("#FFC107")),
			model.SeverityLow:      lipgloss.NewStyle().Foreground(lipgloss.Color("#8BC34A")),
		},
	}
}

func (s textStyles) sev(v model.Severity) string {
	if style, ok := s.severity[v]; ok {
		return style.Render(string(v))
	}
	return string(v)
}

func renderText(w io.Writer, r *model.QualityReport, opts RenderOptions) error {
	s := newTextStyles(opts.Color)
	var b strings.Builder

	fmt.Fprintln(&b, s.title.Render("Commentary Quality Report"))
	fmt.Fprintf(&b, "Run:       %s\n", r.RunID)
	fmt.Fprintf(&b, "Generated: %s\n", r.GeneratedAt.Format("2006-01-02 15:04:05"))
	if r.Preset != "" {
		fmt.Fprintf(&b, "Preset:    %s\n", r.Preset)
	}
	fmt.Fprintf(&b, "Scanned: %d  Clean: %d  Flagged: %d  Skipped (deleted): %d  Malformed: %d\n",
		r.TotalRecordsScanned, r.CleanRecords, r.FlaggedRecords, r.SkippedDeleted, r.MalformedRecords)
	fmt.Fprintf(&b, "Pass rate: %s\n", r.PassRateString())
	if len(r.DisabledRules) > 0 {
		fmt.Fprintf(&b, "Disabled rules: %s\n", strings.Join(r.DisabledRules, ", "))
	}

	fmt.Fprintln(&b)
	fmt.Fprintln(&b, s.title.Render("By severity"))
	for _, sev := range model.Severities {
		fmt.Fprintf(&b, "  %-8s %d\n", string(sev)+":", r.BySeverity[sev])
	}

	groups := GroupByCategory(r.Findings, opts.TopN)
	if len(groups) > 0 {
		fmt.Fprintln(&b)
		fmt.Fprintln(&b, s.title.Render("By category"))
		for _, g := range groups {
			fmt.Fprintf(&b, "  %s: %d\n", g.Category, g.Total)
		}
	}
	for _, g := range groups {
		fmt.Fprintln(&b)
		fmt.Fprintln(&b, s.category.Render(fmt.Sprintf("[%s] %d", g.Category, g.Total)))
		for _, f := range g.Findings {
			fmt.Fprintf(&b, "  - %s [%s] %s @%s: %s\n", f.ArticleID.Key(), s.sev(f.Severity), f.Rule, f.Location, f.Description)
			if f.Suggestion != "" {
				fmt.Fprintf(&b, "    %s\n", s.muted.Render("→ "+f.Suggestion))
			}
		}
		if marker := g.MoreMarker(); marker != "" {
			fmt.Fprintf(&b, "  %s\n", s.muted.Render(marker))
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// jsonReport JSON 输出附带格式化后的通过率
type jsonReport struct {
	*model.QualityReport
	PassRate string `json:"passRate"`
}

func renderJSON(w io.Writer, r *model.QualityReport) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(jsonReport{QualityReport: r, PassRate: r.PassRateString()})
}

// Markdown 生成 Markdown 报告，HTML 报告也由它转换
func Markdown(r *model.QualityReport, topN int) string {
	var b strings.Builder
	fmt.Fprintln(&b, "# Commentary Quality Report")
	fmt.Fprintln(&b)
	fmt.Fprintf(&b, "- Run: `%s`\n", r.RunID)
	fmt.Fprintf(&b, "- Generated: %s\n", r.GeneratedAt.Format("2006-01-02 15:04:05"))
	if r.Preset != "" {
		fmt.Fprintf(&b, "- Preset: %s\n", r.Preset)
	}
	fmt.Fprintf(&b, "- Scanned: %d\n", r.TotalRecordsScanned)
	fmt.Fprintf(&b, "- Clean: %d\n", r.CleanRecords)
	fmt.Fprintf(&b, "- Flagged: %d\n", r.FlaggedRecords)
	fmt.Fprintf(&b, "- Skipped (deleted): %d\n", r.SkippedDeleted)
	fmt.Fprintf(&b, "- Malformed: %d\n", r.MalformedRecords)
	fmt.Fprintf(&b, "- Pass rate: **%s**\n", r.PassRateString())
	if len(r.DisabledRules) > 0 {
		fmt.Fprintf(&b, "- Disabled rules: %s\n", strings.Join(r.DisabledRules, ", "))
	}

	fmt.Fprintln(&b)
	fmt.Fprintln(&b, "## By severity")
	fmt.Fprintln(&b)
	fmt.Fprintln(&b, "| Severity | Count |")
	fmt.Fprintln(&b, "|---|---|")
	for _, sev := range model.Severities {
		fmt.Fprintf(&b, "| %s | %d |\n", sev, r.BySeverity[sev])
	}

	for _, g := range GroupByCategory(r.Findings, topN) {
		fmt.Fprintln(&b)
		fmt.Fprintf(&b, "## %s (%d)\n", g.Category, g.Total)
		fmt.Fprintln(&b)
		fmt.Fprintln(&b, "| Article | Severity | Rule | Location | Description |")
		fmt.Fprintln(&b, "|---|---|---|---|---|")
		for _, f := range g.Findings {
			fmt.Fprintf(&b, "| %s | %s | %s | %s | %s |\n",
				f.ArticleID.Key(), f.Severity, f.Rule, f.Location, escapeCell(f.Description))
		}
		if marker := g.MoreMarker(); marker != "" {
			fmt.Fprintln(&b)
			fmt.Fprintf(&b, "_%s_\n", marker)
		}
	}
	return b.String()
}

func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}

const htmlHead = `<!DOCTYPE html>
<html lang="ja">
<head>
<meta charset="utf-8">
<title>Commentary Quality Report</title>
<style>
body { font-family: sans-serif; margin: 2em; }
table { border-collapse: collapse; }
th, td { border: 1px solid #dce0e5; padding: 4px 8px; text-align: left; }
</style>
</head>
<body>
`

func renderHTML(w io.Writer, r *model.QualityReport, topN int) error {
	md := goldmark.New(goldmark.WithExtensions(extension.Table))
	var body bytes.Buffer
	if err := md.Convert([]byte(Markdown(r, topN)), &body); err != nil {
		return errors.Wrap(err, "Markdown 转换 HTML 失败")
	}
	if _, err := io.WriteString(w, htmlHead); err != nil {
		return err
	}
	if _, err := body.WriteTo(w); err != nil {
		return err
	}
	_, err := io.WriteString(w, "</body>\n</html>\n")
	return err
}
