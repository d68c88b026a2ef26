package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"commentary-check/pkg/rule"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestRulesCommand(t *testing.T) {
	out, err := execute(t, "rules", "--preset", "relaxed")
	require.NoError(t, err)
	assert.Contains(t, out, "preset: relaxed (minLength=200, minParagraphs=2)")
	assert.Contains(t, out, rule.NameEmptyCommentary)
	assert.Contains(t, out, rule.NameBranchNumbering)
	assert.Contains(t, out, "critical")
}

func TestRulesCommand_UnknownPreset(t *testing.T) {
	_, err := execute(t, "rules", "--preset", "lenient")
	assert.Error(t, err)
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "commit")
}

// check 子命令会注册信号处理，每个进程只能执行一次
func TestCheckCommand_FailOn(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "civil", "minpou")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	record := "article: \"714-2\"\n" +
		"originalText:\n  - \"本文\"\n" +
		"osakaText:\n  - \"大阪弁の本文\"\n" +
		"commentaryOsaka:\n  - \"第714条によれば、責任を負うんや。\"\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "714-2.yaml"), []byte(record), 0o644))

	output := filepath.Join(t.TempDir(), "report.json")
	_, err := execute(t, "check", "--root", root, "--format", "json", "--output", output, "--workers", "2", "--fail-on", "critical")
	require.Error(t, err)

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	var decoded struct {
		TotalRecordsScanned int            `json:"totalRecordsScanned"`
		BySeverity          map[string]int `json:"bySeverity"`
		PassRate            string         `json:"passRate"`
	}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, 1, decoded.TotalRecordsScanned)
	assert.Equal(t, 1, decoded.BySeverity["critical"])
	assert.Equal(t, "0.0%", decoded.PassRate)
}
