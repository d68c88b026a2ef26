package cmd

import (
	"fmt"

	"commentary-check/config"
	"commentary-check/pkg/model"
	"commentary-check/pkg/rule"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func NewRulesCommand() *cobra.Command {
	var configFilePath string
	var preset string

	cmd := &cobra.Command{
		Use:   "rules",
		Short: "列出当前配置下启用的规则",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configFilePath)
			if err != nil {
				return errors.Wrap(err, "读取本地配置文件错误")
			}
			if preset != "" {
				cfg.RulesConfig.Preset = preset
			}
			if errs := cfg.RulesConfig.Validate(); len(errs) > 0 {
				return errs[0]
			}

			t := cfg.RulesConfig.Thresholds()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "preset: %s (minLength=%d, minParagraphs=%d)\n\n", cfg.RulesConfig.Preset, t.MinLength, t.MinParagraphs)

			tbl := table.New().
				Border(lipgloss.NormalBorder()).
				Headers("RULE", "CATEGORY", "SEVERITY").
				Row(rule.NameEmptyCommentary, string(model.CategoryEmptyField), string(model.SeverityHigh))
			for _, r := range rule.NewDefaultEngine(cfg.RulesConfig).Rules() {
				tbl.Row(r.Name(), string(r.Category()), string(r.Severity()))
			}
			fmt.Fprintln(out, tbl.String())
			if len(cfg.RulesConfig.Disabled) > 0 {
				fmt.Fprintf(out, "\ndisabled: %v\n", cfg.RulesConfig.Disabled)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&configFilePath, "config", "c", "", "配置文件路径")
	cmd.Flags().StringVar(&preset, "preset", "", "阈值预设: strict | relaxed")
	return cmd
}
