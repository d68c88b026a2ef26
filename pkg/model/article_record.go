package model

import (
	"fmt"
	"strconv"
	"strings"
)

// DeletedMarker 原文只有这一段时表示该条已删除
const DeletedMarker = "削除"

// ArticleID 条文的复合主键：分类 / 法律 / 条号（可带枝番）
type ArticleID struct {
	Category string `json:"category" yaml:"category"`
	Law      string `json:"law" yaml:"law"`
	Base     string `json:"base" yaml:"base"`                         // 条号，如 "714"
	Branch   string `json:"branch,omitempty" yaml:"branch,omitempty"` // 枝番，如 "2"，无则为空
}

// String 渲染条号，枝番条文为 "714-2"，普通条文为 "714"
func (id ArticleID) String() string {
	if id.Branch == "" {
		return id.Base
	}
	return id.Base + "-" + id.Branch
}

// Key 返回全局唯一键 category/law/article
func (id ArticleID) Key() string {
	return fmt.Sprintf("%s/%s/%s", id.Category, id.Law, id.String())
}

// IsBranch 是否为枝番条文
func (id ArticleID) IsBranch() bool {
	return id.Branch != ""
}

// Less 排序：分类、法律、数字条号、数字枝番（无枝番在前），非数字条号（附則等）排在最后按字典序
func (id ArticleID) Less(other ArticleID) bool {
	if id.Category != other.Category {
		return id.Category < other.Category
	}
	if id.Law != other.Law {
		return id.Law < other.Law
	}
	if c := compareNumeric(id.Base, other.Base); c != 0 {
		return c < 0
	}
	return compareNumeric(id.Branch, other.Branch) < 0
}

// compareNumeric 数字优先比较，空串最小，非数字排在数字之后
func compareNumeric(a, b string) int {
	if a == b {
		return 0
	}
	if a == "" {
		return -1
	}
	if b == "" {
		return 1
	}
	ai, aErr := strconv.Atoi(a)
	bi, bErr := strconv.Atoi(b)
	switch {
	case aErr == nil && bErr == nil:
		if ai < bi {
			return -1
		}
		if ai > bi {
			return 1
		}
		return 0
	case aErr == nil:
		return -1
	case bErr == nil:
		return 1
	}
	return strings.Compare(a, b)
}

// ArticleRecord 一条法律条文的全部内容（原文、标准语解说、大阪弁译文与解说）
type ArticleRecord struct {
	ID                 ArticleID `json:"id"`
	Title              string    `json:"title,omitempty"`
	TitleStylized      string    `json:"titleOsaka,omitempty"`
	OriginalText       []string  `json:"originalText"`    // 原文，只读
	Commentary         []string  `json:"commentary"`      // 标准语解说
	StylizedText       []string  `json:"osakaText"`       // 大阪弁译文
	StylizedCommentary []string  `json:"commentaryOsaka"` // 大阪弁解说，规则检查的主要对象
	IsDeleted          bool      `json:"isDeleted"`       // 删除条文不参与任何规则
	SourcePath         string    `json:"sourcePath,omitempty"`
}

// Field 返回指定位置的段落
func (r *ArticleRecord) Field(f Field) []string {
	switch f {
	case FieldOriginalText:
		return r.OriginalText
	case FieldCommentary:
		return r.Commentary
	case FieldStylizedText:
		return r.StylizedText
	case FieldStylizedCommentary:
		return r.StylizedCommentary
	}
	return nil
}

// JoinedText 段落以换行拼接后的全文
func (r *ArticleRecord) JoinedText(f Field) string {
	return strings.Join(r.Field(f), "\n")
}

// NonBlank 过滤掉空白段落
func NonBlank(paragraphs []string) []string {
	out := make([]string, 0, len(paragraphs))
	for _, p := range paragraphs {
		if strings.TrimSpace(p) != "" {
			out = append(out, p)
		}
	}
	return out
}

// IsEmpty 字段不存在或全部为空白段落
func IsEmpty(paragraphs []string) bool {
	return len(NonBlank(paragraphs)) == 0
}
