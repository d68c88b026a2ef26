package config

import (
	"github.com/pkg/errors"
)

// 报告输出格式
const (
	FormatText     = "text"
	FormatJSON     = "json"
	FormatMarkdown = "markdown"
	FormatHTML     = "html"
)

type ReportConfig struct {
	TopN   int    `json:"topN" yaml:"topN"`     // 每个分类最多列出的条数
	Format string `json:"format" yaml:"format"` // text | json | markdown | html
	Output string `json:"output" yaml:"output"` // 为空时只打印到控制台
	Color  bool   `json:"color" yaml:"color"`   // 控制台输出是否着色
}

func (r *ReportConfig) Validate() []error {
	var errs = make([]error, 0)
	if r.TopN < 1 {
		errs = append(errs, errors.Errorf("topN 必须大于 0"))
	}
	switch r.Format {
	case FormatText, FormatJSON, FormatMarkdown, FormatHTML:
	default:
		errs = append(errs, errors.Errorf("不支持的报告格式: %s", r.Format))
	}
	return errs
}

func NewDefaultReportConfig() *ReportConfig {
	return &ReportConfig{
		TopN:   10,
		Format: FormatText,
	}
}
