package config

import (
	"sort"

	"github.com/pkg/errors"
)

// 阈值预设。历史脚本中 300 字 / 3 段与 200 字 / 2 段两套标准并存
const (
	PresetStrict  = "strict"
	PresetRelaxed = "relaxed"
)

// Thresholds 长度与段落数下限
type Thresholds struct {
	MinLength     int
	MinParagraphs int
}

var presets = map[string]Thresholds{
	PresetStrict:  {MinLength: 300, MinParagraphs: 3},
	PresetRelaxed: {MinLength: 200, MinParagraphs: 2},
}

// PresetNames 返回全部预设名称
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// RulesConfig 规则阈值与词表。MinLength / MinParagraphs 为 0 时取预设值
type RulesConfig struct {
	Preset                 string           `json:"preset" yaml:"preset"`
	MinLength              int              `json:"minLength" yaml:"minLength"`
	MinParagraphs          int              `json:"minParagraphs" yaml:"minParagraphs"`
	FillerMaxCount         int              `json:"fillerMaxCount" yaml:"fillerMaxCount"`
	ContextWindow          int              `json:"contextWindow" yaml:"contextWindow"`
	PersonaTerms           []string         `json:"personaTerms" yaml:"personaTerms"`
	PersonaAllowList       []string         `json:"personaAllowList" yaml:"personaAllowList"`
	CommercialTerms        []string         `json:"commercialTerms" yaml:"commercialTerms"`
	CommercialAllowList    []string         `json:"commercialAllowList" yaml:"commercialAllowList"`
	PlaceholderNames       []string         `json:"placeholderNames" yaml:"placeholderNames"`
	ExampleMarkers         []string         `json:"exampleMarkers" yaml:"exampleMarkers"`
	FillerPhrase           string           `json:"fillerPhrase" yaml:"fillerPhrase"`
	GenericPhrases         []string         `json:"genericPhrases" yaml:"genericPhrases"`
	HallucinationPhrases   []string         `json:"hallucinationPhrases" yaml:"hallucinationPhrases"`
	HallucinationAllowList []string         `json:"hallucinationAllowList" yaml:"hallucinationAllowList"`
	SuspiciousYears        map[string][]int `json:"suspiciousYears" yaml:"suspiciousYears"` // 法律 ID -> 与制定年代不符的年份
	Disabled               []string         `json:"disabled" yaml:"disabled"`               // 停用的规则名
}

func (r *RulesConfig) Validate() []error {
	var errs = make([]error, 0)
	if _, ok := presets[r.Preset]; !ok {
		errs = append(errs, errors.Errorf("未知的规则预设: %s", r.Preset))
	}
	if r.MinLength < 0 {
		errs = append(errs, errors.Errorf("minLength 不能为负数"))
	}
	if r.MinParagraphs < 0 {
		errs = append(errs, errors.Errorf("minParagraphs 不能为负数"))
	}
	if r.FillerMaxCount < 1 {
		errs = append(errs, errors.Errorf("fillerMaxCount 必须大于 0"))
	}
	if r.ContextWindow < 0 {
		errs = append(errs, errors.Errorf("contextWindow 不能为负数"))
	}
	return errs
}

// Thresholds 合并预设与显式覆盖后的阈值
func (r *RulesConfig) Thresholds() Thresholds {
	t, ok := presets[r.Preset]
	if !ok {
		t = presets[PresetStrict]
	}
	if r.MinLength > 0 {
		t.MinLength = r.MinLength
	}
	if r.MinParagraphs > 0 {
		t.MinParagraphs = r.MinParagraphs
	}
	return t
}

// IsDisabled 规则是否被配置停用
func (r *RulesConfig) IsDisabled(name string) bool {
	for _, d := range r.Disabled {
		if d == name {
			return true
		}
	}
	return false
}

func NewDefaultRulesConfig() *RulesConfig {
	return &RulesConfig{
		Preset:         PresetStrict,
		FillerMaxCount: 2,
		ContextWindow:  10,
		// 春日歩先生是女性，不使用男性第一人称和粗鲁语气
		PersonaTerms:     []string{"わいら", "わい", "おんどれ", "わし", "ワイ", "ワシ", "あほんだら"},
		PersonaAllowList: []string{"わいら", "かわい", "こわい", "わいわい", "ワイワイ", "ワイン", "ワイヤ", "ワシントン", "わしょ"},
		CommercialTerms:  []string{"利益", "商売", "投資", "儲け", "ビジネス", "取引"},
		CommercialAllowList: []string{
			"時効の利益", "利益相反", "現存利益", "期限の利益", "不当利得",
			"取引の安全", "取引所", "商売人",
		},
		PlaceholderNames: []string{"HHH", "XXX", "甲", "乙", "丙"},
		ExampleMarkers:   []string{"例えば", "たとえば", "考えてみ"},
		FillerPhrase:     "知らんけど",
		GenericPhrases: []string{
			"この条文は、会社法上の重要な事項について定めた規定です",
			"本条の目的は、会社の運営における法秩序を確保し",
			"実務上、この規定は株式会社の設立・運営・組織変更等の重要な場面で適用されます",
			"ほんでな、この条文が定めてるのは具体的にはこういうことやねん。",
			"これな、刑事訴訟の手続きで大事な条文やねん。",
			"この規定があることで、被告人の権利が守られてるっていうわけやねん。",
			"実際の裁判では、こういうルールをきっちり守って進めていくんやな。",
			"こういう細かい手続きの積み重ねが、公正な裁判を支えてるんやで。",
			"法律って難しそうに見えるけど、一つ一つ理解していけば、ちゃんと筋が通ってるんや。",
		},
		HallucinationPhrases:   []string{"よくある", "一般的に", "絶対", "必ず", "大阪地裁", "大阪高裁"},
		HallucinationAllowList: []string{"絶対に必", "必ずしも"},
		SuspiciousYears: map[string][]int{
			"constitution":     {1945, 1948},
			"us_constitution":  {1776},
			"german_basic_law": {1948},
		},
	}
}
