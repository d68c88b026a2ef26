package model

import (
	"fmt"
	"time"
)

// QualityReport 一次检查运行的汇总结果
type QualityReport struct {
	RunID               string           `json:"runId"`
	GeneratedAt         time.Time        `json:"generatedAt"`
	Preset              string           `json:"preset,omitempty"`
	TotalRecordsScanned int              `json:"totalRecordsScanned"`
	SkippedDeleted      int              `json:"skippedDeleted"`
	CleanRecords        int              `json:"cleanRecords"`
	FlaggedRecords      int              `json:"flaggedRecords"`
	MalformedRecords    int              `json:"malformedRecords"`
	Findings            []Finding        `json:"findings"`
	BySeverity          map[Severity]int `json:"bySeverity"`
	ByCategory          map[Category]int `json:"byCategory"`
	DisabledRules       []string         `json:"disabledRules,omitempty"`
}

// PassRate 无问题条文占已扫描条文的百分比
func (r *QualityReport) PassRate() float64 {
	if r.TotalRecordsScanned == 0 {
		return 0
	}
	return float64(r.CleanRecords) / float64(r.TotalRecordsScanned) * 100
}

// PassRateString 保留一位小数，如 "30.0%"
func (r *QualityReport) PassRateString() string {
	return fmt.Sprintf("%.1f%%", r.PassRate())
}

// HasAtLeast 是否存在不低于指定等级的问题
func (r *QualityReport) HasAtLeast(threshold Severity) bool {
	for _, f := range r.Findings {
		if f.Severity.AtLeast(threshold) {
			return true
		}
	}
	return false
}
