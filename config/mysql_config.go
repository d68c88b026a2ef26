package config

import (
	"github.com/pkg/errors"
)

// MySQLConfig 检查结果发布库，Replicas 用于只读查询
type MySQLConfig struct {
	DSN          string   `json:"dsn" yaml:"dsn"`
	Replicas     []string `json:"replicas" yaml:"replicas"`
	MaxIdleConns int      `json:"maxIdleConns" yaml:"maxIdleConns"`
	MaxOpenConns int      `json:"maxOpenConns" yaml:"maxOpenConns"`
	BatchSize    int      `json:"batchSize" yaml:"batchSize"`
}

func (m *MySQLConfig) Validate() []error {
	var errs = make([]error, 0)
	if m.DSN == "" {
		errs = append(errs, errors.Errorf("MySQL DSN 不能为空"))
	}
	if m.BatchSize < 1 {
		errs = append(errs, errors.Errorf("MySQL batchSize 必须大于 0"))
	}
	return errs
}

func NewDefaultMySQLConfig() *MySQLConfig {
	return &MySQLConfig{
		MaxIdleConns: 5,
		MaxOpenConns: 20,
		BatchSize:    100,
	}
}
