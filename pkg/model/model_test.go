package model

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArticleID_String(t *testing.T) {
	base := ArticleID{Category: "civil", Law: "minpou", Base: "714"}
	branch := ArticleID{Category: "civil", Law: "minpou", Base: "714", Branch: "2"}

	assert.Equal(t, "714", base.String())
	assert.Equal(t, "714-2", branch.String())
	assert.Equal(t, "civil/minpou/714-2", branch.Key())
	assert.False(t, base.IsBranch())
	assert.True(t, branch.IsBranch())
	assert.NotEqual(t, base.Key(), branch.Key())
}

func TestArticleID_Less(t *testing.T) {
	id := func(cat, law, base, branch string) ArticleID {
		return ArticleID{Category: cat, Law: law, Base: base, Branch: branch}
	}
	ids := []ArticleID{
		id("civil", "minpou", "附則", ""),
		id("criminal", "keihou", "1", ""),
		id("civil", "minpou", "714", "10"),
		id("civil", "minpou", "714", "2"),
		id("civil", "minpou", "714", ""),
		id("civil", "minpou", "10", ""),
		id("civil", "minpou", "9", ""),
		id("civil", "chihou", "100", ""),
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].Less(ids[j]) })

	want := []string{
		"civil/chihou/100",
		"civil/minpou/9",
		"civil/minpou/10",
		"civil/minpou/714",
		"civil/minpou/714-2",
		"civil/minpou/714-10",
		"civil/minpou/附則",
		"criminal/keihou/1",
	}
	got := make([]string, 0, len(ids))
	for _, i := range ids {
		got = append(got, i.Key())
	}
	assert.Equal(t, want, got)
}

func TestRecordHelpers(t *testing.T) {
	rec := &ArticleRecord{StylizedCommentary: []string{"一", " ", "二"}}
	assert.Equal(t, "一\n \n二", rec.JoinedText(FieldStylizedCommentary))
	assert.Equal(t, []string{"一", "二"}, NonBlank(rec.StylizedCommentary))
	assert.True(t, IsEmpty([]string{"", "\t"}))
	assert.True(t, IsEmpty(nil))
	assert.False(t, IsEmpty(rec.StylizedCommentary))
	assert.Nil(t, rec.Field(FieldRecord))
}

func TestSeverity(t *testing.T) {
	assert.True(t, SeverityCritical.AtLeast(SeverityHigh))
	assert.True(t, SeverityHigh.AtLeast(SeverityHigh))
	assert.False(t, SeverityLow.AtLeast(SeverityMedium))

	s, ok := ParseSeverity("medium")
	assert.True(t, ok)
	assert.Equal(t, SeverityMedium, s)
	_, ok = ParseSeverity("urgent")
	assert.False(t, ok)
}

func TestQualityReport_PassRate(t *testing.T) {
	r := &QualityReport{TotalRecordsScanned: 10, CleanRecords: 3}
	assert.Equal(t, "30.0%", r.PassRateString())

	r = &QualityReport{TotalRecordsScanned: 3, CleanRecords: 2}
	assert.Equal(t, "66.7%", r.PassRateString())

	assert.Equal(t, "0.0%", (&QualityReport{}).PassRateString())
}

func TestQualityReport_HasAtLeast(t *testing.T) {
	r := &QualityReport{Findings: []Finding{{Severity: SeverityMedium}}}
	assert.True(t, r.HasAtLeast(SeverityLow))
	assert.True(t, r.HasAtLeast(SeverityMedium))
	assert.False(t, r.HasAtLeast(SeverityHigh))
}

func TestNewFindingRow(t *testing.T) {
	f := Finding{
		ArticleID:   ArticleID{Category: "civil", Law: "minpou", Base: "714", Branch: "2"},
		Rule:        "branch-numbering",
		Severity:    SeverityCritical,
		Category:    CategoryNumbering,
		Description: "第714条のみ",
		Location:    FieldStylizedCommentary,
		Suggestion:  "修正してください",
	}
	row := NewFindingRow("run-1", f)
	assert.Equal(t, "run-1", row.RunID)
	assert.Equal(t, "civil/minpou/714-2", row.ArticleKey)
	assert.Equal(t, "714-2", row.Article)
	assert.Equal(t, "critical", row.Severity)
	assert.Equal(t, "numbering-accuracy", row.IssueType)
	assert.Equal(t, "第714条のみ", row.Detail.Text("description"))

	rows := NewFindingRows(&QualityReport{RunID: "run-2", Findings: []Finding{f, f}})
	require.Len(t, rows, 2)
	assert.Equal(t, "run-2", rows[1].RunID)
}

func TestJSONDetail_ValueAndScan(t *testing.T) {
	d := JSONDetail{Data: map[string]interface{}{"description": "説明"}}
	v, err := d.Value()
	require.NoError(t, err)
	assert.Equal(t, `{"description":"説明"}`, v)

	var scanned JSONDetail
	require.NoError(t, scanned.Scan([]byte(`{"suggestion":"直す"}`)))
	assert.Equal(t, "直す", scanned.Text("suggestion"))

	require.NoError(t, scanned.Scan("not json"))
	assert.Equal(t, "not json", scanned.Raw)
	assert.Empty(t, scanned.Text("suggestion"))

	require.NoError(t, scanned.Scan(nil))
	v, err = scanned.Value()
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestNewQualityRun(t *testing.T) {
	r := &QualityReport{RunID: "r", TotalRecordsScanned: 4, CleanRecords: 1, FlaggedRecords: 3, Findings: make([]Finding, 5)}
	run := NewQualityRun(r)
	assert.Equal(t, 5, run.FindingCount)
	assert.InDelta(t, 25.0, run.PassRate, 0.001)
}
