package rule

import (
	"commentary-check/pkg/model"
)

// 规则名称
const (
	NameEmptyCommentary     = "empty-commentary"
	NamePersonaPronoun      = "persona-pronoun"
	NameCommercialVocab     = "commercial-vocabulary"
	NamePlaceholderName     = "placeholder-name"
	NameMinLength           = "min-length"
	NameMinParagraphs       = "min-paragraphs"
	NameExamplePresence     = "example-presence"
	NameRepeatedFiller      = "repeated-filler"
	NameBranchNumbering     = "branch-numbering"
	NameGenericCommentary   = "generic-commentary"
	NameSuspiciousYear      = "suspicious-year"
	NameStylizedTextEmpty   = "stylized-text-empty"
	NameHallucinationPhrase = "hallucination-phrase"
	NameFigureConsistency   = "figure-consistency"
	NameSelfReference       = "self-reference"
)

// Rule 纯函数规则：同一条记录多次评估结果必须完全一致
type Rule interface {
	Name() string
	Category() model.Category
	Severity() model.Severity
	Evaluate(rec *model.ArticleRecord) []model.Finding
}

// meta 规则的固定属性
type meta struct {
	name     string
	category model.Category
	severity model.Severity
}

func (m meta) Name() string {
	return m.name
}

func (m meta) Category() model.Category {
	return m.category
}

func (m meta) Severity() model.Severity {
	return m.severity
}

func (m meta) finding(rec *model.ArticleRecord, location model.Field, description, suggestion string) model.Finding {
	return model.Finding{
		ArticleID:   rec.ID,
		Rule:        m.name,
		Severity:    m.severity,
		Category:    m.category,
		Description: description,
		Location:    location,
		Suggestion:  suggestion,
	}
}
