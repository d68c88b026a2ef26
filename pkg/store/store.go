package store

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"commentary-check/pkg/loader"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// 与条文同目录但不是条文的文件
var nonArticleFiles = map[string]bool{
	"law_metadata.yaml":    true,
	"chapters.yaml":        true,
	"famous_articles.yaml": true,
}

// DirStore 基于目录的条文存储：<root>/<category>/<law>/<article>.yaml
type DirStore struct {
	root       string
	categories map[string]bool
	laws       map[string]bool
}

func NewDirStore(root string, categories, laws []string) *DirStore {
	return &DirStore{
		root:       root,
		categories: toSet(categories),
		laws:       toSet(laws),
	}
}

func toSet(values []string) map[string]bool {
	if len(values) == 0 {
		return nil
	}
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	return set
}

// List 枚举全部条文文件并按条号排序，目录不可读时直接返回错误
func (s *DirStore) List() ([]loader.RecordRef, error) {
	info, err := os.Stat(s.root)
	if err != nil {
		return nil, errors.Wrapf(err, "无法访问条文目录 %s", s.root)
	}
	if !info.IsDir() {
		return nil, errors.Errorf("%s 不是目录", s.root)
	}

	pattern := filepath.Join(s.root, "**", "*.yaml")
	matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFailOnIOErrors(), doublestar.WithFilesOnly())
	if err != nil {
		return nil, errors.Wrapf(err, "枚举条文文件失败 %s", pattern)
	}

	refs := make([]loader.RecordRef, 0, len(matches))
	for _, match := range matches {
		rel, err := filepath.Rel(s.root, match)
		if err != nil {
			return nil, errors.Wrapf(err, "计算相对路径失败 %s", match)
		}
		parts := strings.Split(filepath.ToSlash(rel), "/")
		// 只接受 category/law/article.yaml 三层结构
		if len(parts) != 3 || nonArticleFiles[parts[2]] {
			continue
		}
		category, law, name := parts[0], parts[1], parts[2]
		if s.categories != nil && !s.categories[category] {
			continue
		}
		if s.laws != nil && !s.laws[law] {
			continue
		}
		refs = append(refs, loader.RecordRef{
			Category: category,
			Law:      law,
			Stem:     strings.TrimSuffix(name, filepath.Ext(name)),
			Path:     match,
		})
	}

	sort.SliceStable(refs, func(i, j int) bool {
		return loader.RefID(refs[i]).Less(loader.RefID(refs[j]))
	})
	zap.S().Debugf("条文目录 %s 共 %d 个文件", s.root, len(refs))
	return refs, nil
}

// Read 读取单个条文文件，读取失败属于存储层错误
func (s *DirStore) Read(ref loader.RecordRef) ([]byte, error) {
	data, err := os.ReadFile(ref.Path)
	if err != nil {
		return nil, errors.Wrapf(err, "读取条文文件失败 %s", ref.Path)
	}
	return data, nil
}
