package model

import "time"

// QualityRun 表示一次检查运行的摘要，存储到 DuckDB
type QualityRun struct {
	RunID          string    `json:"run_id"`
	GeneratedAt    time.Time `json:"generated_at"`
	Preset         string    `json:"preset"`
	Scanned        int       `json:"scanned"`
	SkippedDeleted int       `json:"skipped_deleted"`
	Clean          int       `json:"clean"`
	Flagged        int       `json:"flagged"`
	Malformed      int       `json:"malformed"`
	FindingCount   int       `json:"finding_count"`
	PassRate       float64   `json:"pass_rate"`
}

// TableName 指定表名
func (QualityRun) TableName() string {
	return "quality_run"
}

// NewQualityRun 由报告生成运行摘要
func NewQualityRun(r *QualityReport) QualityRun {
	return QualityRun{
		RunID:          r.RunID,
		GeneratedAt:    r.GeneratedAt,
		Preset:         r.Preset,
		Scanned:        r.TotalRecordsScanned,
		SkippedDeleted: r.SkippedDeleted,
		Clean:          r.CleanRecords,
		Flagged:        r.FlaggedRecords,
		Malformed:      r.MalformedRecords,
		FindingCount:   len(r.Findings),
		PassRate:       r.PassRate(),
	}
}
