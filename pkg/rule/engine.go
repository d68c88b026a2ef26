package rule

import (
	"sort"
	"sync"

	"commentary-check/config"
	"commentary-check/pkg/model"

	"go.uber.org/zap"
)

// Engine 按注册顺序执行规则。规则发生 panic 时记录日志并在本次运行剩余部分停用该规则
type Engine struct {
	rules []Rule

	mu       sync.RWMutex
	disabled map[string]bool
}

func NewEngine(rules ...Rule) *Engine {
	return &Engine{
		rules:    rules,
		disabled: make(map[string]bool),
	}
}

// NewDefaultEngine 按配置构建全部内置规则，跳过配置中停用的规则
func NewDefaultEngine(cfg *config.RulesConfig) *Engine {
	return NewEngine(DefaultRules(cfg)...)
}

// DefaultRules 内置规则，顺序即报告中的规则顺序
func DefaultRules(cfg *config.RulesConfig) []Rule {
	t := cfg.Thresholds()
	all := []Rule{
		NewPersonaRule(cfg.PersonaTerms, cfg.PersonaAllowList, cfg.ContextWindow),
		NewCommercialRule(cfg.CommercialTerms, cfg.CommercialAllowList, cfg.ContextWindow),
		NewPlaceholderRule(cfg.PlaceholderNames, cfg.ContextWindow),
		NewMinLengthRule(t.MinLength),
		NewMinParagraphsRule(t.MinParagraphs),
		NewExamplePresenceRule(cfg.ExampleMarkers),
		NewRepeatedFillerRule(cfg.FillerPhrase, cfg.FillerMaxCount),
		NewBranchNumberingRule(),
		NewGenericCommentaryRule(cfg.GenericPhrases),
		NewSuspiciousYearRule(cfg.SuspiciousYears),
		NewStylizedTextEmptyRule(),
		NewHallucinationPhraseRule(cfg.HallucinationPhrases, cfg.HallucinationAllowList, cfg.ContextWindow),
		NewFigureConsistencyRule(),
		NewSelfReferenceRule(),
	}
	rules := make([]Rule, 0, len(all))
	for _, r := range all {
		if cfg.IsDisabled(r.Name()) {
			continue
		}
		rules = append(rules, r)
	}
	return rules
}

// Rules 已注册的规则
func (e *Engine) Rules() []Rule {
	return e.rules
}

// Order 规则名到注册顺序的映射，空字段规则排在最前
func (e *Engine) Order() map[string]int {
	order := make(map[string]int, len(e.rules)+1)
	order[NameEmptyCommentary] = 0
	for i, r := range e.rules {
		order[r.Name()] = i + 1
	}
	return order
}

// Evaluate 对一条记录执行全部规则。删除条文不产生任何问题；
// 大阪弁解说为空时只产生一条问题，其余规则不再执行
func (e *Engine) Evaluate(rec *model.ArticleRecord) []model.Finding {
	if rec == nil || rec.IsDeleted {
		return nil
	}
	if model.IsEmpty(rec.StylizedCommentary) {
		return []model.Finding{emptyCommentaryFinding(rec)}
	}
	var findings []model.Finding
	for _, r := range e.rules {
		if e.isDisabled(r.Name()) {
			continue
		}
		findings = append(findings, e.safeEvaluate(r, rec)...)
	}
	return findings
}

func (e *Engine) safeEvaluate(r Rule, rec *model.ArticleRecord) (findings []model.Finding) {
	defer func() {
		if p := recover(); p != nil {
			zap.S().Errorf("规则 %s 在 %s 上执行失败，本次运行停用该规则: %v", r.Name(), rec.ID.Key(), p)
			e.disable(r.Name())
			findings = nil
		}
	}()
	return r.Evaluate(rec)
}

func (e *Engine) isDisabled(name string) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.disabled[name]
}

func (e *Engine) disable(name string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.disabled[name] = true
}

// DisabledRules 运行中因 panic 被停用的规则，按名称排序
func (e *Engine) DisabledRules() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	names := make([]string, 0, len(e.disabled))
	for name := range e.disabled {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
