package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"commentary-check/config"
	"commentary-check/pkg/loader"
	"commentary-check/pkg/model"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func record(article string) *model.ArticleRecord {
	return &model.ArticleRecord{ID: model.ArticleID{Category: "civil", Law: "minpou", Base: article}}
}

func finding(article, rule string, sev model.Severity, cat model.Category) model.Finding {
	return model.Finding{
		ArticleID:   model.ArticleID{Category: "civil", Law: "minpou", Base: article},
		Rule:        rule,
		Severity:    sev,
		Category:    cat,
		Description: rule + " on " + article,
		Location:    model.FieldStylizedCommentary,
	}
}

func TestAggregator_PassRate(t *testing.T) {
	a := NewAggregator()
	for i := 1; i <= 10; i++ {
		var findings []model.Finding
		if i > 3 {
			findings = []model.Finding{finding(fmt.Sprint(i), "min-length", model.SeverityMedium, model.CategoryLength)}
		}
		a.Add(record(fmt.Sprint(i)), findings)
	}
	deleted := record("11")
	deleted.IsDeleted = true
	a.Add(deleted, nil)

	r := a.Report(Options{})
	assert.Equal(t, 10, r.TotalRecordsScanned)
	assert.Equal(t, 3, r.CleanRecords)
	assert.Equal(t, 7, r.FlaggedRecords)
	assert.Equal(t, 1, r.SkippedDeleted)
	assert.Equal(t, "30.0%", r.PassRateString())
	assert.Equal(t, 7, r.BySeverity[model.SeverityMedium])
	assert.Equal(t, 7, r.ByCategory[model.CategoryLength])
	assert.NotEmpty(t, r.RunID)
	assert.False(t, r.GeneratedAt.IsZero())
}

func TestAggregator_EmptyRun(t *testing.T) {
	r := NewAggregator().Report(Options{})
	assert.Equal(t, "0.0%", r.PassRateString())
	assert.Empty(t, r.Findings)
}

func TestAggregator_Malformed(t *testing.T) {
	a := NewAggregator()
	a.AddMalformed(&loader.MalformedRecordError{
		Path:      "civil/minpou/3.yaml",
		ArticleID: model.ArticleID{Category: "civil", Law: "minpou", Base: "3"},
		Reason:    "缺少 article 字段",
	})

	r := a.Report(Options{})
	assert.Equal(t, 1, r.TotalRecordsScanned)
	assert.Equal(t, 1, r.FlaggedRecords)
	assert.Equal(t, 1, r.MalformedRecords)
	require.Len(t, r.Findings, 1)
	assert.Equal(t, model.SeverityCritical, r.Findings[0].Severity)
	assert.Equal(t, model.CategoryOther, r.Findings[0].Category)
	assert.Equal(t, model.FieldRecord, r.Findings[0].Location)
}

func TestAggregator_MergeIsOrderIndependent(t *testing.T) {
	order := map[string]int{"persona-pronoun": 1, "min-length": 2}
	build := func(first, second []int) *model.QualityReport {
		parts := []*Aggregator{NewAggregator(), NewAggregator()}
		for i, articles := range [][]int{first, second} {
			for _, n := range articles {
				id := fmt.Sprint(n)
				parts[i].Add(record(id), []model.Finding{
					finding(id, "min-length", model.SeverityMedium, model.CategoryLength),
					finding(id, "persona-pronoun", model.SeverityHigh, model.CategoryPersona),
				})
			}
		}
		total := NewAggregator()
		for _, p := range parts {
			total.Merge(p)
		}
		return total.Report(Options{RuleOrder: order})
	}

	a := build([]int{10, 2}, []int{1, 714})
	b := build([]int{714, 1}, []int{2, 10})
	if diff := cmp.Diff(a.Findings, b.Findings); diff != "" {
		t.Errorf("findings differ (-a +b):\n%s", diff)
	}
	require.Len(t, a.Findings, 8)
	assert.Equal(t, "1", a.Findings[0].ArticleID.Base)
	assert.Equal(t, "persona-pronoun", a.Findings[0].Rule)
	assert.Equal(t, "min-length", a.Findings[1].Rule)
	assert.Equal(t, "2", a.Findings[2].ArticleID.Base)
	assert.Equal(t, "714", a.Findings[7].ArticleID.Base)
}

func TestGroupByCategory_TopN(t *testing.T) {
	var findings []model.Finding
	for i := 1; i <= 15; i++ {
		findings = append(findings, finding(fmt.Sprint(i), "commercial-vocabulary", model.SeverityMedium, model.CategoryCommercial))
	}
	findings = append(findings, finding("1", "min-length", model.SeverityMedium, model.CategoryLength))

	groups := GroupByCategory(findings, 10)
	require.Len(t, groups, 2)
	assert.Equal(t, model.CategoryCommercial, groups[0].Category)
	assert.Equal(t, 15, groups[0].Total)
	assert.Len(t, groups[0].Findings, 10)
	assert.Equal(t, "...and 5 more", groups[0].MoreMarker())
	assert.Empty(t, groups[1].MoreMarker())
}

func testReport() *model.QualityReport {
	a := NewAggregator()
	for i := 1; i <= 15; i++ {
		id := fmt.Sprint(i)
		a.Add(record(id), []model.Finding{finding(id, "commercial-vocabulary", model.SeverityMedium, model.CategoryCommercial)})
	}
	for i := 16; i <= 20; i++ {
		a.Add(record(fmt.Sprint(i)), nil)
	}
	return a.Report(Options{Preset: config.PresetStrict, GeneratedAt: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)})
}

func TestRender_Text(t *testing.T) {
	data, err := RenderBytes(testReport(), config.FormatText, RenderOptions{TopN: 10})
	require.NoError(t, err)
	out := string(data)
	assert.Contains(t, out, "Pass rate: 25.0%")
	assert.Contains(t, out, "[commercial-vocabulary] 15")
	assert.Contains(t, out, "...and 5 more")
	assert.Equal(t, 10, strings.Count(out, "  - civil/minpou/"))
}

func TestRender_Markdown(t *testing.T) {
	data, err := RenderBytes(testReport(), config.FormatMarkdown, RenderOptions{TopN: 10})
	require.NoError(t, err)
	out := string(data)
	assert.Contains(t, out, "## commercial-vocabulary (15)")
	assert.Contains(t, out, "_...and 5 more_")
	assert.Contains(t, out, "| medium | 15 |")
}

func TestRender_HTML(t *testing.T) {
	data, err := RenderBytes(testReport(), config.FormatHTML, RenderOptions{TopN: 10})
	require.NoError(t, err)
	out := string(data)
	assert.True(t, strings.HasPrefix(out, "<!DOCTYPE html>"))
	assert.Contains(t, out, "<table>")
	assert.Contains(t, out, "...and 5 more")
}

func TestRender_JSON(t *testing.T) {
	data, err := RenderBytes(testReport(), config.FormatJSON, RenderOptions{TopN: 10})
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "25.0%", decoded["passRate"])
	assert.EqualValues(t, 20, decoded["totalRecordsScanned"])
	// JSON 输出不截断
	assert.Len(t, decoded["findings"], 15)
}

func TestRender_UnknownFormat(t *testing.T) {
	_, err := RenderBytes(testReport(), "pdf", RenderOptions{})
	assert.Error(t, err)
}

func TestWriteFile_Atomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "reports", "quality.md")

	require.NoError(t, WriteFile(path, []byte("first")))
	require.NoError(t, WriteFile(path, []byte("second")))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary files must not be left behind")
}

func TestWriteFile_MissingParentIsNotAFile(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	err := WriteFile(filepath.Join(blocker, "report.txt"), []byte("data"))
	assert.Error(t, err)
	_, statErr := os.Stat(filepath.Join(blocker, "report.txt"))
	assert.Error(t, statErr)
}
