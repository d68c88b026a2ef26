package rule

import (
	"fmt"
	"strings"

	"commentary-check/pkg/model"
)

// 大阪弁正文与大阪弁解说都要检查的字段
var stylizedFields = []model.Field{model.FieldStylizedCommentary, model.FieldStylizedText}

// TermRule 检查固定词表，每个词在每个字段中最多报告一次
type TermRule struct {
	meta
	fields     []model.Field
	terms      []string
	matcher    contextMatcher
	describe   func(term, context string) string
	suggestion func(term string) string
}

func (r *TermRule) Evaluate(rec *model.ArticleRecord) []model.Finding {
	var findings []model.Finding
	for _, field := range r.fields {
		text := []rune(rec.JoinedText(field))
		if len(text) == 0 {
			continue
		}
		for _, term := range r.terms {
			if term == "" {
				continue
			}
			start, found := r.matcher.firstViolation(text, term)
			if !found {
				continue
			}
			ctx := excerpt(text, start, start+len([]rune(term)), r.matcher.window)
			findings = append(findings, r.finding(rec, field, r.describe(term, ctx), r.suggestion(term)))
		}
	}
	return findings
}

// NewPersonaRule 男性第一人称、粗鲁语气
func NewPersonaRule(terms, allowList []string, window int) *TermRule {
	return &TermRule{
		meta:    meta{name: NamePersonaPronoun, category: model.CategoryPersona, severity: model.SeverityHigh},
		fields:  stylizedFields,
		terms:   terms,
		matcher: contextMatcher{window: window, allowList: allowList, mode: allowCovering},
		describe: func(term, ctx string) string {
			return fmt.Sprintf("男性表現「%s」が使用されています（…%s…）。春日歩先生は女性なので、一人称は使わないか「わたし」のみを使用してください。", term, ctx)
		},
		suggestion: func(string) string {
			return "男性表現を削除してください。"
		},
	}
}

// NewCommercialRule 商人表现，窗口内出现法律术语搭配（時効の利益、利益相反 等）时豁免
func NewCommercialRule(terms, allowList []string, window int) *TermRule {
	return &TermRule{
		meta:    meta{name: NameCommercialVocab, category: model.CategoryCommercial, severity: model.SeverityMedium},
		fields:  stylizedFields,
		terms:   terms,
		matcher: contextMatcher{window: window, allowList: allowList, mode: allowNearby},
		describe: func(term, ctx string) string {
			return fmt.Sprintf("商人表現「%s」が使用されています（…%s…）。教育者らしい表現に置き換えてください。", term, ctx)
		},
		suggestion: func(term string) string {
			return fmt.Sprintf("「%s」を適切な表現に置き換えてください。例：投資→力を注ぐ、利益→メリット・良いこと", term)
		},
	}
}

// NewPlaceholderRule 不恰当的占位人名
func NewPlaceholderRule(names []string, window int) *TermRule {
	return &TermRule{
		meta:    meta{name: NamePlaceholderName, category: model.CategoryPlaceholderName, severity: model.SeverityMedium},
		fields:  []model.Field{model.FieldStylizedCommentary},
		terms:   names,
		matcher: contextMatcher{window: window},
		describe: func(term, ctx string) string {
			return fmt.Sprintf("不適切な登場人物名「%s」が使用されています（…%s…）。", term, ctx)
		},
		suggestion: func(string) string {
			return "「太郎さん」「花子さん」「A社」「B銀行」などの分かりやすい名前に変更してください。"
		},
	}
}

// NewHallucinationPhraseRule 过度断言与虚构法院
func NewHallucinationPhraseRule(phrases, allowList []string, window int) *TermRule {
	return &TermRule{
		meta:    meta{name: NameHallucinationPhrase, category: model.CategoryHallucinationRisk, severity: model.SeverityHigh},
		fields:  []model.Field{model.FieldStylizedCommentary},
		terms:   phrases,
		matcher: contextMatcher{window: window, allowList: allowList, mode: allowCovering},
		describe: func(term, ctx string) string {
			return fmt.Sprintf("根拠のない断定または架空の可能性がある表現「%s」が使用されています（…%s…）。", term, ctx)
		},
		suggestion: func(string) string {
			return "より控えめで具体的な表現に修正し、実在する判例・制度か確認してください。"
		},
	}
}

// ExamplePresenceRule 解说中至少要有一个举例标记
type ExamplePresenceRule struct {
	meta
	markers []string
}

func NewExamplePresenceRule(markers []string) *ExamplePresenceRule {
	return &ExamplePresenceRule{
		meta:    meta{name: NameExamplePresence, category: model.CategoryExample, severity: model.SeverityMedium},
		markers: markers,
	}
}

func (r *ExamplePresenceRule) Evaluate(rec *model.ArticleRecord) []model.Finding {
	text := rec.JoinedText(model.FieldStylizedCommentary)
	for _, marker := range r.markers {
		if marker != "" && strings.Contains(text, marker) {
			return nil
		}
	}
	return []model.Finding{r.finding(rec, model.FieldStylizedCommentary,
		fmt.Sprintf("具体例なし（%s のいずれも含まれていません）", strings.Join(r.markers, "・")),
		"「例えばな、」で始まる身近な具体例を追加してください。")}
}

// RepeatedFillerRule 口头禅重复，大阪弁正文与解说分别计数
type RepeatedFillerRule struct {
	meta
	phrase   string
	maxCount int
}

func NewRepeatedFillerRule(phrase string, maxCount int) *RepeatedFillerRule {
	return &RepeatedFillerRule{
		meta:     meta{name: NameRepeatedFiller, category: model.CategoryRepetition, severity: model.SeverityLow},
		phrase:   phrase,
		maxCount: maxCount,
	}
}

func (r *RepeatedFillerRule) Evaluate(rec *model.ArticleRecord) []model.Finding {
	if r.phrase == "" {
		return nil
	}
	var findings []model.Finding
	for _, field := range stylizedFields {
		count := strings.Count(rec.JoinedText(field), r.phrase)
		if count < r.maxCount {
			continue
		}
		findings = append(findings, r.finding(rec, field,
			fmt.Sprintf("「%s」多用: %d回", r.phrase, count),
			fmt.Sprintf("「%s」は1回までにしてください。", r.phrase)))
	}
	return findings
}

// GenericCommentaryRule 模板化的套话，大阪弁解说与标准语解说都检查
type GenericCommentaryRule struct {
	meta
	phrases []string
}

func NewGenericCommentaryRule(phrases []string) *GenericCommentaryRule {
	return &GenericCommentaryRule{
		meta:    meta{name: NameGenericCommentary, category: model.CategoryGeneric, severity: model.SeverityMedium},
		phrases: phrases,
	}
}

func (r *GenericCommentaryRule) Evaluate(rec *model.ArticleRecord) []model.Finding {
	var findings []model.Finding
	for _, field := range []model.Field{model.FieldStylizedCommentary, model.FieldCommentary} {
		text := rec.JoinedText(field)
		if text == "" {
			continue
		}
		for _, phrase := range r.phrases {
			if phrase == "" || !strings.Contains(text, phrase) {
				continue
			}
			findings = append(findings, r.finding(rec, field,
				fmt.Sprintf("汎用的すぎる表現「%s」が含まれています。この条文に特化した具体的な解説が必要です。", phrase),
				"この条文の内容に即した、より具体的な解説に書き換えてください。"))
		}
	}
	return findings
}
