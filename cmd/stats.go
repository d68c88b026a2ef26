package cmd

import (
	"fmt"
	"strconv"

	"commentary-check/config"
	"commentary-check/pkg/db"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func NewStatsCommand() *cobra.Command {
	var configFilePath string
	var duckDBPath string
	var limit int

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "查看 DuckDB 中保存的检查历史",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configFilePath)
			if err != nil {
				return errors.Wrap(err, "读取本地配置文件错误")
			}
			if duckDBPath != "" {
				cfg.DuckDBConfig = &config.DuckDBConfig{DBPath: duckDBPath}
			}
			if cfg.DuckDBConfig == nil {
				return errors.New("DuckDB 配置未设置，请使用 --duckdb 指定历史库")
			}
			if errs := cfg.DuckDBConfig.Validate(); len(errs) > 0 {
				return errs[0]
			}

			if err := db.InitDuckDB(cfg.DuckDBConfig); err != nil {
				return errors.Wrap(err, "DuckDB 连接错误")
			}
			defer db.CloseDuckDB()

			ctx := cmd.Context()
			history := db.NewHistoryStore(db.GetDuckDB())
			runs, err := history.RecentRuns(ctx, limit)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(runs) == 0 {
				fmt.Fprintln(out, "没有检查历史")
				return nil
			}

			tbl := table.New().
				Border(lipgloss.NormalBorder()).
				Headers("RUN", "GENERATED", "PRESET", "SCANNED", "CLEAN", "FLAGGED", "FINDINGS", "PASS RATE")
			for _, run := range runs {
				tbl.Row(
					run.RunID,
					run.GeneratedAt.Format("2006-01-02 15:04:05"),
					run.Preset,
					strconv.Itoa(run.Scanned),
					strconv.Itoa(run.Clean),
					strconv.Itoa(run.Flagged),
					strconv.Itoa(run.FindingCount),
					fmt.Sprintf("%.1f%%", run.PassRate),
				)
			}
			fmt.Fprintln(out, tbl.String())

			latest := runs[0]
			counts, err := history.CountByCategory(ctx, latest.RunID)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "\n最近一次运行 %s 的分类统计:\n", latest.RunID)
			for _, c := range counts {
				fmt.Fprintf(out, "  %s: %d\n", c.Category, c.Count)
			}

			if cfg.MySQLConfig == nil {
				return nil
			}
			if err := db.InitTiDB(cfg); err != nil {
				return errors.Wrap(err, "MySQL 数据库连接错误")
			}
			published, err := db.NewFindingPublisher(db.GetTiDB(), cfg.MySQLConfig.BatchSize).CountByRun(ctx, latest.RunID)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "已发布到 MySQL: %d/%d\n", published, latest.FindingCount)
			return nil
		},
	}

	cmd.Flags().StringVarP(&configFilePath, "config", "c", "", "配置文件路径")
	cmd.Flags().StringVar(&duckDBPath, "duckdb", "", "DuckDB 历史库路径")
	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "显示最近多少次运行")
	return cmd
}
