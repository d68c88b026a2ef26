package config

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// MemoryDBPath 使用内存库，历史只在本次进程内可见
const MemoryDBPath = ":memory:"

// DuckDBConfig 检查历史库，配置中出现该段即启用
type DuckDBConfig struct {
	DBPath string `json:"dbPath" yaml:"dbPath"` // 历史库文件路径，":memory:" 表示内存库
}

func (d *DuckDBConfig) Validate() []error {
	var errs = make([]error, 0)
	if d.DBPath == "" {
		errs = append(errs, errors.Errorf("DuckDB 数据库路径不能为空"))
		return errs
	}
	if d.InMemory() {
		return errs
	}

	if info, err := os.Stat(d.DBPath); err == nil && info.IsDir() {
		errs = append(errs, errors.Errorf("DuckDB 数据库路径是一个目录: %s", d.DBPath))
		return errs
	}

	// 确保目录存在
	dir := filepath.Dir(d.DBPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		errs = append(errs, errors.Errorf("创建 DuckDB 目录失败: %v", err))
	}

	return errs
}

// InMemory 是否使用内存库
func (d *DuckDBConfig) InMemory() bool {
	return d.DBPath == MemoryDBPath
}

// SameFile 判断 path 是否与历史库指向同一个文件，报告输出不能覆盖历史库
func (d *DuckDBConfig) SameFile(path string) bool {
	if path == "" || d.DBPath == "" || d.InMemory() {
		return false
	}
	a, err := filepath.Abs(d.DBPath)
	if err != nil {
		return false
	}
	b, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	return a == b
}

func NewDefaultDuckDBConfig() *DuckDBConfig {
	return &DuckDBConfig{
		DBPath: "./data/quality_history.duckdb",
	}
}

// DSN 内存库对应空 DSN
func (d *DuckDBConfig) DSN() string {
	if d.InMemory() {
		return ""
	}
	return d.DBPath
}
