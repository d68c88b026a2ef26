package cmd

import (
	"commentary-check/config"
	"commentary-check/pkg/db"
	"commentary-check/pkg/model"
	"commentary-check/pkg/rule"
	"commentary-check/pkg/service"
	"commentary-check/pkg/signals"
	"commentary-check/pkg/store"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type checkFlags struct {
	configFilePath string
	root           string
	categories     []string
	laws           []string
	preset         string
	workers        int
	topN           int
	format         string
	output         string
	duckDBPath     string
	publish        bool
	failOn         string
}

func NewCheckCommand() *cobra.Command {
	var f checkFlags

	cmd := &cobra.Command{
		Use:   "check",
		Short: "检查条文的大阪弁解说",
		Long:  "遍历 <root>/<category>/<law>/*.yaml，对每条解说执行全部规则并输出质量报告",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadCheckConfig(cmd, &f)
			if err != nil {
				return err
			}

			var failOn model.Severity
			if f.failOn != "" {
				sev, ok := model.ParseSeverity(f.failOn)
				if !ok {
					return errors.Errorf("未知的等级: %s", f.failOn)
				}
				failOn = sev
			}

			ctx := signals.SetupSignalHandler()

			sinks, err := buildSinks(cfg, f.publish)
			if err != nil {
				return err
			}
			defer db.CloseDuckDB()

			dirStore := store.NewDirStore(cfg.StoreConfig.Root, cfg.StoreConfig.Categories, cfg.StoreConfig.Laws)
			engine := rule.NewDefaultEngine(cfg.RulesConfig)
			checkService := service.NewCheckService(dirStore, engine, cfg.RulesConfig.Preset, sinks...)

			r, err := checkService.Run(ctx, service.Options{
				Workers: cfg.StoreConfig.Workers,
				TopN:    cfg.ReportConfig.TopN,
				Format:  cfg.ReportConfig.Format,
				Output:  cfg.ReportConfig.Output,
				Color:   cfg.ReportConfig.Color,
				Stdout:  cmd.OutOrStdout(),
			})
			if err != nil {
				return err
			}
			if failOn != "" && r.HasAtLeast(failOn) {
				return errors.Errorf("存在 %s 及以上等级的问题", failOn)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&f.configFilePath, "config", "c", "", "配置文件路径，为空时使用默认配置")
	cmd.Flags().StringVar(&f.root, "root", "", "条文目录")
	cmd.Flags().StringSliceVar(&f.categories, "category", nil, "只检查指定分类，可重复")
	cmd.Flags().StringSliceVar(&f.laws, "law", nil, "只检查指定法律，可重复")
	cmd.Flags().StringVar(&f.preset, "preset", "", "阈值预设: strict | relaxed")
	cmd.Flags().IntVarP(&f.workers, "workers", "w", 0, "并行 worker 数")
	cmd.Flags().IntVar(&f.topN, "top-n", 0, "每个分类最多列出的问题数")
	cmd.Flags().StringVarP(&f.format, "format", "f", "", "报告格式: text | json | markdown | html")
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "报告输出文件，为空时打印到控制台")
	cmd.Flags().StringVar(&f.duckDBPath, "duckdb", "", "把本次结果保存到 DuckDB 历史库")
	cmd.Flags().BoolVar(&f.publish, "publish", false, "把问题发布到 MySQL（需要配置 mysql 段）")
	cmd.Flags().StringVar(&f.failOn, "fail-on", "", "存在不低于该等级的问题时以非零状态退出")
	return cmd
}

// loadCheckConfig 读取配置文件，再用显式指定的命令行参数覆盖
func loadCheckConfig(cmd *cobra.Command, f *checkFlags) (*config.GlobalConfig, error) {
	cfg, err := config.Load(f.configFilePath)
	if err != nil {
		return nil, errors.Wrap(err, "读取本地配置文件错误")
	}

	flags := cmd.Flags()
	if flags.Changed("root") {
		cfg.StoreConfig.Root = f.root
	}
	if flags.Changed("category") {
		cfg.StoreConfig.Categories = f.categories
	}
	if flags.Changed("law") {
		cfg.StoreConfig.Laws = f.laws
	}
	if flags.Changed("workers") {
		cfg.StoreConfig.Workers = f.workers
	}
	if flags.Changed("preset") {
		cfg.RulesConfig.Preset = f.preset
	}
	if flags.Changed("top-n") {
		cfg.ReportConfig.TopN = f.topN
	}
	if flags.Changed("format") {
		cfg.ReportConfig.Format = f.format
	}
	if flags.Changed("output") {
		cfg.ReportConfig.Output = f.output
	}
	if flags.Changed("duckdb") {
		cfg.DuckDBConfig = &config.DuckDBConfig{DBPath: f.duckDBPath}
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		for _, e := range errs {
			zap.S().Errorf("配置验证错误: %v", e)
		}
		return nil, errors.Errorf("本地配置文件验证错误，共 %d 处", len(errs))
	}
	if f.publish && cfg.MySQLConfig == nil {
		return nil, errors.New("--publish 需要在配置文件中设置 mysql 段")
	}
	return cfg, nil
}

func buildSinks(cfg *config.GlobalConfig, publish bool) ([]service.Sink, error) {
	var sinks []service.Sink
	if cfg.DuckDBConfig != nil {
		if err := db.InitDuckDB(cfg.DuckDBConfig); err != nil {
			return nil, errors.Wrap(err, "DuckDB 连接错误")
		}
		sinks = append(sinks, db.NewHistoryStore(db.GetDuckDB()))
	}
	if publish {
		if err := db.InitTiDB(cfg); err != nil {
			return nil, errors.Wrap(err, "MySQL 数据库连接错误")
		}
		sinks = append(sinks, db.NewFindingPublisher(db.GetTiDB(), cfg.MySQLConfig.BatchSize))
	}
	return sinks, nil
}
