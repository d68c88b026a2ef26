package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRulesConfig_Thresholds(t *testing.T) {
	cfg := NewDefaultRulesConfig()
	assert.Equal(t, Thresholds{MinLength: 300, MinParagraphs: 3}, cfg.Thresholds())

	cfg.Preset = PresetRelaxed
	assert.Equal(t, Thresholds{MinLength: 200, MinParagraphs: 2}, cfg.Thresholds())

	cfg.MinLength = 250
	assert.Equal(t, Thresholds{MinLength: 250, MinParagraphs: 2}, cfg.Thresholds())

	assert.Equal(t, []string{PresetRelaxed, PresetStrict}, PresetNames())
}

func TestRulesConfig_Validate(t *testing.T) {
	cfg := NewDefaultRulesConfig()
	assert.Empty(t, cfg.Validate())

	cfg.Preset = "lenient"
	cfg.FillerMaxCount = 0
	cfg.MinLength = -1
	assert.Len(t, cfg.Validate(), 3)
}

func TestRulesConfig_IsDisabled(t *testing.T) {
	cfg := NewDefaultRulesConfig()
	cfg.Disabled = []string{"min-length"}
	assert.True(t, cfg.IsDisabled("min-length"))
	assert.False(t, cfg.IsDisabled("example-presence"))
}

func TestReportConfig_Validate(t *testing.T) {
	cfg := NewDefaultReportConfig()
	assert.Empty(t, cfg.Validate())

	cfg.Format = "pdf"
	cfg.TopN = 0
	assert.Len(t, cfg.Validate(), 2)
}

func TestStoreConfig_Validate(t *testing.T) {
	cfg := NewDefaultStoreConfig()
	cfg.Root = t.TempDir()
	assert.Empty(t, cfg.Validate())

	cfg.Root = filepath.Join(cfg.Root, "missing")
	assert.Len(t, cfg.Validate(), 1)

	cfg.Root = ""
	assert.Len(t, cfg.Validate(), 1)
}

func TestMySQLConfig_Validate(t *testing.T) {
	cfg := NewDefaultMySQLConfig()
	assert.Len(t, cfg.Validate(), 1)
	cfg.DSN = "user:pass@tcp(localhost:3306)/laws"
	assert.Empty(t, cfg.Validate())
}

func TestDuckDBConfig_Validate(t *testing.T) {
	dir := t.TempDir()
	cfg := &DuckDBConfig{DBPath: filepath.Join(dir, "history", "runs.duckdb")}
	assert.Empty(t, cfg.Validate())
	assert.DirExists(t, filepath.Join(dir, "history"))
	assert.Equal(t, cfg.DBPath, cfg.DSN())

	cfg.DBPath = dir
	assert.Len(t, cfg.Validate(), 1)

	cfg.DBPath = ""
	assert.Len(t, cfg.Validate(), 1)

	cfg.DBPath = MemoryDBPath
	assert.Empty(t, cfg.Validate())
	assert.True(t, cfg.InMemory())
	assert.Equal(t, "", cfg.DSN())
}

func TestGlobalConfig_ReportOutputMustNotOverwriteHistory(t *testing.T) {
	dir := t.TempDir()
	cfg := NewDefaultGlobalConfig()
	cfg.StoreConfig.Root = dir
	cfg.DuckDBConfig = &DuckDBConfig{DBPath: filepath.Join(dir, "runs.duckdb")}

	cfg.ReportConfig.Output = filepath.Join(dir, "report.md")
	assert.Empty(t, cfg.Validate())

	cfg.ReportConfig.Output = filepath.Join(dir, ".", "runs.duckdb")
	errs := cfg.Validate()
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), "DuckDB")

	cfg.DuckDBConfig.DBPath = MemoryDBPath
	cfg.ReportConfig.Output = MemoryDBPath
	assert.Empty(t, cfg.Validate())
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, PresetStrict, cfg.RulesConfig.Preset)
	assert.Equal(t, 10, cfg.ReportConfig.TopN)
	assert.Nil(t, cfg.DuckDBConfig)
	assert.Nil(t, cfg.MySQLConfig)
}

func TestTryLoadFromDisk(t *testing.T) {
	dir := t.TempDir()
	root := filepath.Join(dir, "laws")
	require.NoError(t, os.MkdirAll(root, 0o755))
	historyPath := filepath.Join(dir, "history", "runs.duckdb")

	content := `
store:
  root: ` + root + `
  workers: 8
  laws: [minpou]
rules:
  preset: relaxed
  disabled: [example-presence]
report:
  topN: 5
  format: markdown
duckdb:
  dbPath: ` + historyPath + `
mysql:
  dsn: user:pass@tcp(localhost:3306)/laws
`
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := TryLoadFromDisk(path)
	require.NoError(t, err)
	assert.Empty(t, cfg.Validate())

	assert.Equal(t, root, cfg.StoreConfig.Root)
	assert.Equal(t, 8, cfg.StoreConfig.Workers)
	assert.Equal(t, []string{"minpou"}, cfg.StoreConfig.Laws)
	assert.Equal(t, PresetRelaxed, cfg.RulesConfig.Preset)
	assert.Equal(t, 200, cfg.RulesConfig.Thresholds().MinLength)
	assert.True(t, cfg.RulesConfig.IsDisabled("example-presence"))
	// 未出现在文件中的词表保持默认值
	assert.Contains(t, cfg.RulesConfig.CommercialAllowList, "時効の利益")
	assert.Equal(t, 5, cfg.ReportConfig.TopN)
	assert.Equal(t, FormatMarkdown, cfg.ReportConfig.Format)
	require.NotNil(t, cfg.DuckDBConfig)
	assert.Equal(t, historyPath, cfg.DuckDBConfig.DBPath)
	require.NotNil(t, cfg.MySQLConfig)
	assert.Equal(t, 100, cfg.MySQLConfig.BatchSize)
}

func TestTryLoadFromDisk_Missing(t *testing.T) {
	_, err := TryLoadFromDisk(filepath.Join(t.TempDir(), "none.yaml"))
	assert.Error(t, err)
}
