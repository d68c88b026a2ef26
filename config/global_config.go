package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

type IConfig interface {
	Validate() []error
}

type GlobalConfig struct {
	StoreConfig  *StoreConfig  `json:"store" yaml:"store"`
	RulesConfig  *RulesConfig  `json:"rules" yaml:"rules"`
	ReportConfig *ReportConfig `json:"report" yaml:"report"`
	DuckDBConfig *DuckDBConfig `json:"duckdb" yaml:"duckdb"`
	MySQLConfig  *MySQLConfig  `json:"mysql" yaml:"mysql"`
}

func (g *GlobalConfig) Validate() []error {
	var errs = make([]error, 0)
	if g.StoreConfig != nil {
		errs = append(errs, g.StoreConfig.Validate()...)
	}
	if g.RulesConfig != nil {
		errs = append(errs, g.RulesConfig.Validate()...)
	}
	if g.ReportConfig != nil {
		errs = append(errs, g.ReportConfig.Validate()...)
	}
	if g.DuckDBConfig != nil {
		errs = append(errs, g.DuckDBConfig.Validate()...)
	}
	if g.MySQLConfig != nil {
		errs = append(errs, g.MySQLConfig.Validate()...)
	}
	if g.DuckDBConfig != nil && g.ReportConfig != nil && g.DuckDBConfig.SameFile(g.ReportConfig.Output) {
		errs = append(errs, errors.Errorf("报告输出路径与 DuckDB 历史库相同: %s", g.ReportConfig.Output))
	}
	return errs
}

// NewDefaultGlobalConfig DuckDB 与 MySQL 默认不启用
func NewDefaultGlobalConfig() *GlobalConfig {
	return &GlobalConfig{
		StoreConfig:  NewDefaultStoreConfig(),
		RulesConfig:  NewDefaultRulesConfig(),
		ReportConfig: NewDefaultReportConfig(),
	}
}

// Load 路径为空时使用默认配置，否则从磁盘读取
func Load(configFilePath string) (*GlobalConfig, error) {
	if configFilePath == "" {
		return NewDefaultGlobalConfig(), nil
	}
	return TryLoadFromDisk(configFilePath)
}

func TryLoadFromDisk(configFilePath string) (*GlobalConfig, error) {
	_, err := os.Stat(configFilePath)
	if err != nil {
		return nil, err
	}
	dir, file := filepath.Split(configFilePath)
	fileType := filepath.Ext(file)
	v := viper.New()
	v.AddConfigPath(dir)
	v.SetConfigName(strings.TrimSuffix(file, fileType))
	v.SetConfigType(strings.TrimPrefix(fileType, "."))
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	if err := v.ReadInConfig(); err != nil {
		if errors.As(err, &viper.ConfigFileNotFoundError{}) {
			return nil, err
		}
		return nil, errors.Errorf("解析配置文件错误:%s", err.Error())
	}
	cfg := NewDefaultGlobalConfig()
	if err := v.Unmarshal(cfg, func(config *mapstructure.DecoderConfig) {
		config.TagName = strings.TrimPrefix(fileType, ".")
	}); err != nil {
		return nil, err
	}
	// 配置文件中出现的可选段落补齐默认值
	if cfg.DuckDBConfig != nil && cfg.DuckDBConfig.DBPath == "" {
		cfg.DuckDBConfig.DBPath = NewDefaultDuckDBConfig().DBPath
	}
	if cfg.MySQLConfig != nil && cfg.MySQLConfig.BatchSize == 0 {
		cfg.MySQLConfig.BatchSize = NewDefaultMySQLConfig().BatchSize
	}
	return cfg, nil
}
