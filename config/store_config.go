package config

import (
	"os"

	"github.com/pkg/errors"
)

// StoreConfig 条文 YAML 目录，结构为 <root>/<category>/<law>/<article>.yaml
type StoreConfig struct {
	Root       string   `json:"root" yaml:"root"`
	Categories []string `json:"categories" yaml:"categories"` // 为空表示全部分类
	Laws       []string `json:"laws" yaml:"laws"`             // 为空表示全部法律
	Workers    int      `json:"workers" yaml:"workers"`       // 并行检查的 worker 数
}

func (s *StoreConfig) Validate() []error {
	var errs = make([]error, 0)
	if s.Root == "" {
		errs = append(errs, errors.Errorf("条文目录不能为空"))
		return errs
	}
	info, err := os.Stat(s.Root)
	if err != nil {
		errs = append(errs, errors.Errorf("无法访问条文目录 %s: %v", s.Root, err))
	} else if !info.IsDir() {
		errs = append(errs, errors.Errorf("条文目录 %s 不是目录", s.Root))
	}
	if s.Workers < 1 {
		errs = append(errs, errors.Errorf("workers 必须大于 0"))
	}
	return errs
}

func NewDefaultStoreConfig() *StoreConfig {
	return &StoreConfig{
		Root:    "./src/data/laws",
		Workers: 4,
	}
}
