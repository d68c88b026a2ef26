package model

// Severity 问题的处理优先级，每条规则固定，不随内容变化
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
)

// Severities 按优先级从高到低
var Severities = []Severity{SeverityCritical, SeverityHigh, SeverityMedium, SeverityLow}

// Rank 数值越小越紧急，未知等级排最后
func (s Severity) Rank() int {
	for i, v := range Severities {
		if v == s {
			return i
		}
	}
	return len(Severities)
}

// AtLeast s 是否不低于 threshold
func (s Severity) AtLeast(threshold Severity) bool {
	return s.Rank() <= threshold.Rank()
}

// ParseSeverity 解析等级字符串
func ParseSeverity(v string) (Severity, bool) {
	for _, s := range Severities {
		if string(s) == v {
			return s, true
		}
	}
	return "", false
}

// Category 问题分类
type Category string

const (
	CategoryPersona           Category = "persona-consistency"
	CategoryCommercial        Category = "commercial-vocabulary"
	CategoryPlaceholderName   Category = "placeholder-name"
	CategoryLength            Category = "length"
	CategoryStructure         Category = "structure"
	CategoryExample           Category = "example"
	CategoryRepetition        Category = "repetition"
	CategoryNumbering         Category = "numbering-accuracy"
	CategoryGeneric           Category = "generic-commentary"
	CategoryHallucinationRisk Category = "hallucination-risk"
	CategoryEmptyField        Category = "empty-field"
	CategoryOther             Category = "other"
)

// Field 触发问题的字段位置
type Field string

const (
	FieldOriginalText       Field = "originalText"
	FieldCommentary         Field = "commentary"
	FieldStylizedText       Field = "osakaText"
	FieldStylizedCommentary Field = "commentaryOsaka"
	FieldRecord             Field = "record"
)

// Finding 单条检查结果，创建后不再修改
type Finding struct {
	ArticleID   ArticleID `json:"articleId"`
	Rule        string    `json:"rule"`
	Severity    Severity  `json:"severity"`
	Category    Category  `json:"category"`
	Description string    `json:"description"` // 包含问题片段
	Location    Field     `json:"location"`
	Suggestion  string    `json:"suggestion,omitempty"`
}
