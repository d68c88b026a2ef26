package model

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"gorm.io/gorm"
)

// FindingRow 表示 tbl_quality_finding 表，用于把检查结果发布到 MySQL
type FindingRow struct {
	ID         uint           `gorm:"primarykey" json:"id"`
	RunID      string         `gorm:"column:runId;size:36;index" json:"run_id"`
	ArticleKey string         `gorm:"column:articleKey;size:255;index" json:"article_key"`
	Category   string         `gorm:"column:lawCategory;size:64" json:"category"`
	Law        string         `gorm:"column:law;size:64;index" json:"law"`
	Article    string         `gorm:"column:article;size:32" json:"article"`
	Rule       string         `gorm:"column:rule;size:64" json:"rule"`
	Severity   string         `gorm:"column:severity;size:16;index" json:"severity"`
	IssueType  string         `gorm:"column:issueType;size:64" json:"issue_type"`
	Location   string         `gorm:"column:location;size:32" json:"location"`
	Detail     JSONDetail     `gorm:"type:text" json:"detail"` // 描述与修改建议
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

// TableName 指定表名
func (FindingRow) TableName() string {
	return "tbl_quality_finding"
}

// NewFindingRow 由 Finding 构造数据库行
func NewFindingRow(runID string, f Finding) FindingRow {
	return FindingRow{
		RunID:      runID,
		ArticleKey: f.ArticleID.Key(),
		Category:   f.ArticleID.Category,
		Law:        f.ArticleID.Law,
		Article:    f.ArticleID.String(),
		Rule:       f.Rule,
		Severity:   string(f.Severity),
		IssueType:  string(f.Category),
		Location:   string(f.Location),
		Detail: JSONDetail{Data: map[string]interface{}{
			"description": f.Description,
			"suggestion":  f.Suggestion,
		}},
	}
}

// NewFindingRows 报告中全部问题对应的数据库行
func NewFindingRows(r *QualityReport) []FindingRow {
	rows := make([]FindingRow, 0, len(r.Findings))
	for _, f := range r.Findings {
		rows = append(rows, NewFindingRow(r.RunID, f))
	}
	return rows
}

// JSONDetail 以 JSON 文本存储的附加信息
type JSONDetail struct {
	Data map[string]interface{} `json:"-"`
	Raw  string                 `json:"-"`
}

// Value 实现 driver.Valuer 接口
func (j JSONDetail) Value() (driver.Value, error) {
	if j.Raw != "" {
		return j.Raw, nil
	}
	if j.Data != nil {
		bytes, err := json.Marshal(j.Data)
		if err != nil {
			return nil, err
		}
		return string(bytes), nil
	}
	return nil, nil
}

// Scan 实现 sql.Scanner 接口，解析失败时保留原始字符串
func (j *JSONDetail) Scan(value interface{}) error {
	if value == nil {
		j.Data = nil
		j.Raw = ""
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return nil
	}

	j.Raw = string(bytes)
	var data map[string]interface{}
	if err := json.Unmarshal(bytes, &data); err != nil {
		j.Data = nil
		return nil
	}
	j.Data = data
	return nil
}

// MarshalJSON 实现 json.Marshaler 接口
func (j JSONDetail) MarshalJSON() ([]byte, error) {
	if j.Data != nil {
		return json.Marshal(j.Data)
	}
	if j.Raw != "" {
		return []byte(j.Raw), nil
	}
	return []byte("{}"), nil
}

// UnmarshalJSON 实现 json.Unmarshaler 接口
func (j *JSONDetail) UnmarshalJSON(data []byte) error {
	j.Raw = string(data)
	var m map[string]interface{}
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	j.Data = m
	return nil
}

// Text 取出指定键的字符串值
func (j *JSONDetail) Text(key string) string {
	if j.Data == nil {
		return ""
	}
	s, _ := j.Data[key].(string)
	return s
}
