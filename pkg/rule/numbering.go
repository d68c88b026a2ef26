package rule

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"commentary-check/pkg/model"
)

// 全角数字转半角，条号与年份统一按半角比较
var digitReplacer = strings.NewReplacer(
	"０", "0", "１", "1", "２", "2", "３", "3", "４", "4",
	"５", "5", "６", "6", "７", "7", "８", "8", "９", "9",
)

func normalizeDigits(s string) string {
	return digitReplacer.Replace(s)
}

// BranchNumberingRule 枝番条文的解说只提到基础条号（第714条），从未提到第714条の2 / 第714-2条，
// 多半是从相邻条文复制过来的
type BranchNumberingRule struct {
	meta
}

func NewBranchNumberingRule() *BranchNumberingRule {
	return &BranchNumberingRule{
		meta: meta{name: NameBranchNumbering, category: model.CategoryNumbering, severity: model.SeverityCritical},
	}
}

func (r *BranchNumberingRule) Evaluate(rec *model.ArticleRecord) []model.Finding {
	if !rec.ID.IsBranch() {
		return nil
	}
	text := normalizeDigits(rec.JoinedText(model.FieldStylizedCommentary))
	base := regexp.QuoteMeta(rec.ID.Base)
	// 先尝试 条の{n}，再尝试单独的 条；[-－−ー]{n}条 为连字符写法
	pattern := regexp.MustCompile(`第` + base + `(?:条の(\d+)|条|[-－−ー](\d+)条)`)

	var bare, qualified bool
	for _, m := range pattern.FindAllStringSubmatch(text, -1) {
		switch {
		case m[1] == rec.ID.Branch || m[2] == rec.ID.Branch:
			qualified = true
		case m[1] == "" && m[2] == "":
			bare = true
		}
	}
	if !bare || qualified {
		return nil
	}
	return []model.Finding{r.finding(rec, model.FieldStylizedCommentary,
		fmt.Sprintf("第%s条の%sの解説ですが、「第%s条」のみが言及されています。別の条文の解説と混同している可能性があります。",
			rec.ID.Base, rec.ID.Branch, rec.ID.Base),
		fmt.Sprintf("条番号を「第%s条の%s」に修正し、内容が本条に対応しているか確認してください。", rec.ID.Base, rec.ID.Branch))}
}

var yearPattern = regexp.MustCompile(`([0-9]{3,4})\s*年`)

// SuspiciousYearRule 提到与该法律制定年代明显不符的年份
type SuspiciousYearRule struct {
	meta
	years map[string][]int
}

func NewSuspiciousYearRule(years map[string][]int) *SuspiciousYearRule {
	return &SuspiciousYearRule{
		meta:  meta{name: NameSuspiciousYear, category: model.CategoryHallucinationRisk, severity: model.SeverityHigh},
		years: years,
	}
}

func (r *SuspiciousYearRule) Evaluate(rec *model.ArticleRecord) []model.Finding {
	denied := r.years[rec.ID.Law]
	if len(denied) == 0 {
		return nil
	}
	text := normalizeDigits(rec.JoinedText(model.FieldStylizedCommentary))
	mentioned := make(map[int]bool)
	for _, loc := range yearPattern.FindAllStringSubmatchIndex(text, -1) {
		start, end := loc[2], loc[3]
		// 前面紧跟数字时不是年份，如 "21945年" 中的 1945
		if start > 0 && isASCIIDigit(text[start-1]) {
			continue
		}
		if year, err := strconv.Atoi(text[start:end]); err == nil {
			mentioned[year] = true
		}
	}
	var findings []model.Finding
	for _, year := range denied {
		if !mentioned[year] {
			continue
		}
		findings = append(findings, r.finding(rec, model.FieldStylizedCommentary,
			fmt.Sprintf("%d年への言及があります。この法律の制定時期と整合しない可能性があります。", year),
			"年号・日付が正確か、原典で確認してください。"))
		// 同一年份只报告一次
		mentioned[year] = false
	}
	return findings
}

func isASCIIDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

var (
	amountPattern = regexp.MustCompile(`[0-9]+(?:,[0-9]{3})*(?:万|億|兆)?円`)
	periodPattern = regexp.MustCompile(`[0-9]+(?:年|ヶ月|か月|ヵ月|カ月|箇月|月|日|週間)`)
	periodUnits   = strings.NewReplacer("か月", "ヶ月", "ヵ月", "ヶ月", "カ月", "ヶ月", "箇月", "ヶ月")
)

// extractFigures 按出现顺序去重返回金额与期间
func extractFigures(text string) []string {
	text = normalizeDigits(text)
	var out []string
	seen := make(map[string]bool)
	add := func(s string) {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	for _, m := range amountPattern.FindAllString(text, -1) {
		add(strings.ReplaceAll(m, ",", ""))
	}
	for _, m := range periodPattern.FindAllString(text, -1) {
		add(periodUnits.Replace(m))
	}
	return out
}

// FigureConsistencyRule 标准语解说中的金额、期间在大阪弁解说中缺失。
// 只有两边都含有数字时才比较
type FigureConsistencyRule struct {
	meta
}

func NewFigureConsistencyRule() *FigureConsistencyRule {
	return &FigureConsistencyRule{
		meta: meta{name: NameFigureConsistency, category: model.CategoryNumbering, severity: model.SeverityHigh},
	}
}

func (r *FigureConsistencyRule) Evaluate(rec *model.ArticleRecord) []model.Finding {
	source := extractFigures(rec.JoinedText(model.FieldCommentary))
	if len(source) == 0 {
		return nil
	}
	target := extractFigures(rec.JoinedText(model.FieldStylizedCommentary))
	if len(target) == 0 {
		return nil
	}
	present := make(map[string]bool, len(target))
	for _, f := range target {
		present[f] = true
	}
	var findings []model.Finding
	for _, f := range source {
		if present[f] {
			continue
		}
		findings = append(findings, r.finding(rec, model.FieldStylizedCommentary,
			fmt.Sprintf("標準語の解説にある「%s」が大阪弁の解説に見当たりません。", f),
			"金額・期間が標準語の解説と一致しているか確認してください。"))
	}
	return findings
}

var articleRefPattern = regexp.MustCompile(`第([0-9]+)条`)

// selfReferenceThreshold 引用条号超过该数量才判断
const selfReferenceThreshold = 3

// SelfReferenceRule 解说大量引用其他条号却从不提及本条
type SelfReferenceRule struct {
	meta
}

func NewSelfReferenceRule() *SelfReferenceRule {
	return &SelfReferenceRule{
		meta: meta{name: NameSelfReference, category: model.CategoryNumbering, severity: model.SeverityHigh},
	}
}

func (r *SelfReferenceRule) Evaluate(rec *model.ArticleRecord) []model.Finding {
	text := normalizeDigits(rec.JoinedText(model.FieldStylizedCommentary))
	matches := articleRefPattern.FindAllStringSubmatch(text, -1)
	if len(matches) <= selfReferenceThreshold {
		return nil
	}
	var others []string
	seen := make(map[string]bool)
	for _, m := range matches {
		if m[1] == rec.ID.Base {
			return nil
		}
		if !seen[m[1]] {
			seen[m[1]] = true
			others = append(others, "第"+m[1]+"条")
		}
	}
	return []model.Finding{r.finding(rec, model.FieldStylizedCommentary,
		fmt.Sprintf("他の条文（%s）への言及が%d回ありますが、本条（第%s条）への言及がありません。",
			strings.Join(others, "、"), len(matches), rec.ID.Base),
		"本条の内容を解説しているか確認してください。")}
}
