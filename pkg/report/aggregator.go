package report

import (
	"math"
	"sort"
	"time"

	"commentary-check/pkg/loader"
	"commentary-check/pkg/model"

	"github.com/google/uuid"
)

// RuleMalformedRecord 无法解析的记录产生的问题使用的规则名
const RuleMalformedRecord = "malformed-record"

// Aggregator 累计检查结果。单个 Aggregator 不是并发安全的，
// 每个 worker 持有自己的实例，结束后通过 Merge 合并
type Aggregator struct {
	scanned   int
	skipped   int
	clean     int
	flagged   int
	malformed int
	findings  []model.Finding
}

func NewAggregator() *Aggregator {
	return &Aggregator{}
}

// Add 记录一条条文及其问题，删除条文只计入跳过数
func (a *Aggregator) Add(rec *model.ArticleRecord, findings []model.Finding) {
	if rec.IsDeleted {
		a.AddSkipped(rec)
		return
	}
	a.scanned++
	if len(findings) == 0 {
		a.clean++
		return
	}
	a.flagged++
	a.findings = append(a.findings, findings...)
}

func (a *Aggregator) AddSkipped(*model.ArticleRecord) {
	a.skipped++
}

// AddMalformed 格式错误的记录计入已扫描与有问题，并产生一条 critical 问题
func (a *Aggregator) AddMalformed(err *loader.MalformedRecordError) {
	a.scanned++
	a.flagged++
	a.malformed++
	a.findings = append(a.findings, model.Finding{
		ArticleID:   err.ArticleID,
		Rule:        RuleMalformedRecord,
		Severity:    model.SeverityCritical,
		Category:    model.CategoryOther,
		Description: err.Error(),
		Location:    model.FieldRecord,
		Suggestion:  "YAML の構造と article フィールドを確認してください。",
	})
}

// Merge 合并另一个 worker 的部分结果
func (a *Aggregator) Merge(other *Aggregator) {
	a.scanned += other.scanned
	a.skipped += other.skipped
	a.clean += other.clean
	a.flagged += other.flagged
	a.malformed += other.malformed
	a.findings = append(a.findings, other.findings...)
}

// Scanned 已扫描的条文数（不含删除条文）
func (a *Aggregator) Scanned() int {
	return a.scanned
}

// Options 生成报告时需要的运行信息
type Options struct {
	Preset        string
	RuleOrder     map[string]int // 规则名 -> 注册顺序
	DisabledRules []string
	GeneratedAt   time.Time
}

// Report 生成最终报告，问题按条号、等级、规则顺序稳定排序
func (a *Aggregator) Report(opts Options) *model.QualityReport {
	findings := make([]model.Finding, len(a.findings))
	copy(findings, a.findings)
	SortFindings(findings, opts.RuleOrder)

	generatedAt := opts.GeneratedAt
	if generatedAt.IsZero() {
		generatedAt = time.Now()
	}
	r := &model.QualityReport{
		RunID:               uuid.NewString(),
		GeneratedAt:         generatedAt,
		Preset:              opts.Preset,
		TotalRecordsScanned: a.scanned,
		SkippedDeleted:      a.skipped,
		CleanRecords:        a.clean,
		FlaggedRecords:      a.flagged,
		MalformedRecords:    a.malformed,
		Findings:            findings,
		BySeverity:          make(map[model.Severity]int),
		ByCategory:          make(map[model.Category]int),
		DisabledRules:       opts.DisabledRules,
	}
	for _, f := range findings {
		r.BySeverity[f.Severity]++
		r.ByCategory[f.Category]++
	}
	return r
}

// SortFindings 按条号、等级、规则注册顺序排序，未注册的规则排在最后
func SortFindings(findings []model.Finding, ruleOrder map[string]int) {
	rank := func(name string) int {
		if i, ok := ruleOrder[name]; ok {
			return i
		}
		return math.MaxInt
	}
	sort.SliceStable(findings, func(i, j int) bool {
		a, b := findings[i], findings[j]
		if a.ArticleID != b.ArticleID {
			return a.ArticleID.Less(b.ArticleID)
		}
		if a.Severity.Rank() != b.Severity.Rank() {
			return a.Severity.Rank() < b.Severity.Rank()
		}
		return rank(a.Rule) < rank(b.Rule)
	})
}
