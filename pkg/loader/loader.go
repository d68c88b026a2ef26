package loader

import (
	"fmt"
	"regexp"
	"strings"

	"commentary-check/pkg/model"

	"github.com/pkg/errors"
	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"
)

// RecordRef 一条记录在存储中的位置，分类与法律由目录结构决定
type RecordRef struct {
	Category string
	Law      string
	Stem     string // 文件名去掉扩展名，如 "714-2"
	Path     string
}

// MalformedRecordError 记录结构无法解析或缺少条号
type MalformedRecordError struct {
	Path      string
	ArticleID model.ArticleID // 尽量从文件名推断，便于报告定位
	Reason    string
	Err       error
}

func (e *MalformedRecordError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("记录格式错误 %s: %s: %v", e.Path, e.Reason, e.Err)
	}
	return fmt.Sprintf("记录格式错误 %s: %s", e.Path, e.Reason)
}

func (e *MalformedRecordError) Unwrap() error {
	return e.Err
}

var (
	// 714 / 714-2 / 714の2
	articleNumberRegex = regexp.MustCompile(`^(\d+)(?:\s*[-のー－−]\s*(\d+))?$`)
	branchStemRegex    = regexp.MustCompile(`^(\d+)-(\d+)$`)
)

// Parse 将一条 YAML 记录解析为 ArticleRecord，不修改输入
func Parse(ref RecordRef, data []byte) (*model.ArticleRecord, error) {
	fallbackID := RefID(ref)

	var raw map[string]interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, &MalformedRecordError{Path: ref.Path, ArticleID: fallbackID, Reason: "YAML 解析失败", Err: err}
	}
	if raw == nil {
		return nil, &MalformedRecordError{Path: ref.Path, ArticleID: fallbackID, Reason: "文档为空或顶层不是映射"}
	}

	articleValue, ok := raw["article"]
	if !ok || articleValue == nil {
		return nil, &MalformedRecordError{Path: ref.Path, ArticleID: fallbackID, Reason: "缺少 article 字段"}
	}
	article, err := cast.ToStringE(articleValue)
	if err != nil {
		return nil, &MalformedRecordError{Path: ref.Path, ArticleID: fallbackID, Reason: "article 字段类型错误", Err: err}
	}
	article = strings.TrimSpace(article)
	if article == "" {
		return nil, &MalformedRecordError{Path: ref.Path, ArticleID: fallbackID, Reason: "article 字段为空"}
	}

	record := &model.ArticleRecord{
		ID:         parseArticleID(ref, article),
		SourcePath: ref.Path,
	}

	if record.Title, err = optionalString(raw, "title"); err != nil {
		return nil, malformedField(ref, record.ID, "title", err)
	}
	if record.TitleStylized, err = optionalString(raw, "titleOsaka"); err != nil {
		return nil, malformedField(ref, record.ID, "titleOsaka", err)
	}

	fields := []struct {
		key    string
		target *[]string
	}{
		{"originalText", &record.OriginalText},
		{"commentary", &record.Commentary},
		{"osakaText", &record.StylizedText},
		{"commentaryOsaka", &record.StylizedCommentary},
	}
	for _, f := range fields {
		paragraphs, err := toParagraphs(raw[f.key])
		if err != nil {
			return nil, malformedField(ref, record.ID, f.key, err)
		}
		*f.target = paragraphs
	}

	deleted, err := deletedFlag(raw)
	if err != nil {
		return nil, malformedField(ref, record.ID, "isDeleted", err)
	}
	record.IsDeleted = deleted || isDeletedText(record.OriginalText)
	return record, nil
}

func malformedField(ref RecordRef, id model.ArticleID, key string, err error) error {
	return &MalformedRecordError{Path: ref.Path, ArticleID: id, Reason: fmt.Sprintf("字段 %s 格式错误", key), Err: err}
}

// parseArticleID 枝番优先取 article 字段，其次取文件名
func parseArticleID(ref RecordRef, article string) model.ArticleID {
	id := model.ArticleID{Category: ref.Category, Law: ref.Law, Base: article}
	m := articleNumberRegex.FindStringSubmatch(article)
	if m == nil {
		return id
	}
	id.Base, id.Branch = m[1], m[2]
	if id.Branch == "" {
		if sm := branchStemRegex.FindStringSubmatch(ref.Stem); sm != nil && sm[1] == id.Base {
			id.Branch = sm[2]
		}
	}
	return id
}

// RefID 由文件名推断条号，用于排序和无法解析的记录
func RefID(ref RecordRef) model.ArticleID {
	return parseArticleID(ref, ref.Stem)
}

func optionalString(raw map[string]interface{}, key string) (string, error) {
	v, ok := raw[key]
	if !ok || v == nil {
		return "", nil
	}
	return cast.ToStringE(v)
}

// toParagraphs 字段可以是字符串列表或单个字符串
func toParagraphs(v interface{}) ([]string, error) {
	switch val := v.(type) {
	case nil:
		return nil, nil
	case string:
		if strings.TrimSpace(val) == "" {
			return nil, nil
		}
		return []string{val}, nil
	case []interface{}:
		out := make([]string, 0, len(val))
		for i, item := range val {
			if item == nil {
				out = append(out, "")
				continue
			}
			if _, isMap := item.(map[string]interface{}); isMap {
				return nil, errors.Errorf("第 %d 段不是字符串", i+1)
			}
			if _, isList := item.([]interface{}); isList {
				return nil, errors.Errorf("第 %d 段不是字符串", i+1)
			}
			s, err := cast.ToStringE(item)
			if err != nil {
				return nil, errors.Errorf("第 %d 段: %v", i+1, err)
			}
			out = append(out, s)
		}
		return out, nil
	}
	return nil, errors.Errorf("不支持的类型 %T", v)
}

func deletedFlag(raw map[string]interface{}) (bool, error) {
	for _, key := range []string{"isDeleted", "deleted"} {
		if v, ok := raw[key]; ok && v != nil {
			return cast.ToBoolE(v)
		}
	}
	return false, nil
}

// isDeletedText 原文仅为「削除」
func isDeletedText(original []string) bool {
	return len(original) == 1 && strings.TrimSpace(original[0]) == model.DeletedMarker
}
