package rule

import (
	"fmt"
	"unicode/utf8"

	"commentary-check/pkg/model"
)

// MinLengthRule 段落以换行拼接后的字数下限
type MinLengthRule struct {
	meta
	minLength int
}

func NewMinLengthRule(minLength int) *MinLengthRule {
	return &MinLengthRule{
		meta:      meta{name: NameMinLength, category: model.CategoryLength, severity: model.SeverityMedium},
		minLength: minLength,
	}
}

func (r *MinLengthRule) Evaluate(rec *model.ArticleRecord) []model.Finding {
	length := utf8.RuneCountInString(rec.JoinedText(model.FieldStylizedCommentary))
	if length >= r.minLength {
		return nil
	}
	return []model.Finding{r.finding(rec, model.FieldStylizedCommentary,
		fmt.Sprintf("解説が短すぎます（%d文字）。%d文字以上の詳細な解説が推奨されます。", length, r.minLength),
		"具体例や背景説明を追加して、より詳細な解説にしてください。")}
}

// MinParagraphsRule 非空段落数下限
type MinParagraphsRule struct {
	meta
	minParagraphs int
}

func NewMinParagraphsRule(minParagraphs int) *MinParagraphsRule {
	return &MinParagraphsRule{
		meta:          meta{name: NameMinParagraphs, category: model.CategoryStructure, severity: model.SeverityMedium},
		minParagraphs: minParagraphs,
	}
}

func (r *MinParagraphsRule) Evaluate(rec *model.ArticleRecord) []model.Finding {
	count := len(model.NonBlank(rec.StylizedCommentary))
	if count >= r.minParagraphs {
		return nil
	}
	return []model.Finding{r.finding(rec, model.FieldStylizedCommentary,
		fmt.Sprintf("段落数%d（%d未満）", count, r.minParagraphs),
		"導入・具体例・まとめの段落に分けて構成してください。")}
}

// StylizedTextEmptyRule 原文存在但大阪弁译文为空
type StylizedTextEmptyRule struct {
	meta
}

func NewStylizedTextEmptyRule() *StylizedTextEmptyRule {
	return &StylizedTextEmptyRule{
		meta: meta{name: NameStylizedTextEmpty, category: model.CategoryEmptyField, severity: model.SeverityMedium},
	}
}

func (r *StylizedTextEmptyRule) Evaluate(rec *model.ArticleRecord) []model.Finding {
	if model.IsEmpty(rec.OriginalText) || !model.IsEmpty(rec.StylizedText) {
		return nil
	}
	return []model.Finding{r.finding(rec, model.FieldStylizedText,
		"osakaText が空です",
		"原文に対応する大阪弁訳を追加してください。")}
}

// emptyCommentaryRule 大阪弁解说为空时由引擎直接产生，不参与常规规则列表
var emptyCommentaryRule = meta{
	name:     NameEmptyCommentary,
	category: model.CategoryEmptyField,
	severity: model.SeverityHigh,
}

func emptyCommentaryFinding(rec *model.ArticleRecord) model.Finding {
	return emptyCommentaryRule.finding(rec, model.FieldStylizedCommentary,
		"要改善: commentaryOsaka が空です",
		"大阪弁の解説を追加してください。")
}
