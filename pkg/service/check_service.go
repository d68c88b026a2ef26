package service

import (
	"context"
	"io"
	"sync/atomic"
	"time"

	"commentary-check/pkg/loader"
	"commentary-check/pkg/model"
	"commentary-check/pkg/report"
	"commentary-check/pkg/rule"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// 每处理这么多条记录输出一次进度
const progressInterval = 100

// RecordStore 条文存储
type RecordStore interface {
	List() ([]loader.RecordRef, error)
	Read(ref loader.RecordRef) ([]byte, error)
}

// Sink 报告生成后的下游，如 DuckDB 历史库、MySQL 发布库
type Sink interface {
	Name() string
	Save(ctx context.Context, r *model.QualityReport) error
}

// Options 一次检查运行的参数
type Options struct {
	Workers int
	TopN    int
	Format  string
	Output  string // 为空时写到 Stdout
	Color   bool
	Stdout  io.Writer
}

type CheckService struct {
	store     RecordStore
	engine    *rule.Engine
	processor *RecordProcessor
	preset    string
	sinks     []Sink
}

func NewCheckService(store RecordStore, engine *rule.Engine, preset string, sinks ...Sink) *CheckService {
	return &CheckService{
		store:     store,
		engine:    engine,
		processor: NewRecordProcessor(engine),
		preset:    preset,
		sinks:     sinks,
	}
}

// Check 遍历全部记录并汇总报告。存储层的读取错误会中止整个运行，
// 格式错误的记录只计为一条问题
func (s *CheckService) Check(ctx context.Context, workers int) (*model.QualityReport, error) {
	startTime := time.Now()
	refs, err := s.store.List()
	if err != nil {
		return nil, errors.Wrap(err, "枚举条文失败")
	}
	if workers < 1 {
		workers = 1
	}
	zap.S().Infof("共 %d 个条文文件，%d 个 worker", len(refs), workers)

	g, gctx := errgroup.WithContext(ctx)
	jobs := make(chan loader.RecordRef)
	g.Go(func() error {
		defer close(jobs)
		for _, ref := range refs {
			select {
			case jobs <- ref:
			case <-gctx.Done():
				return gctx.Err()
			}
		}
		return nil
	})

	var done atomic.Int64
	partials := make([]*report.Aggregator, workers)
	for i := range partials {
		agg := report.NewAggregator()
		partials[i] = agg
		g.Go(func() error {
			for ref := range jobs {
				if err := s.checkOne(ref, agg); err != nil {
					return err
				}
				if n := done.Add(1); n%progressInterval == 0 {
					zap.S().Infof("已检查 %d/%d", n, len(refs))
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	total := report.NewAggregator()
	for _, p := range partials {
		total.Merge(p)
	}
	r := total.Report(report.Options{
		Preset:        s.preset,
		RuleOrder:     s.engine.Order(),
		DisabledRules: s.engine.DisabledRules(),
	})
	zap.S().Infof("检查完成: 扫描 %d 条, 通过 %d 条, 有问题 %d 条, 跳过删除条文 %d 条, 通过率 %s",
		r.TotalRecordsScanned, r.CleanRecords, r.FlaggedRecords, r.SkippedDeleted, r.PassRateString())
	zap.S().Infof("耗时：%s", time.Since(startTime))
	return r, nil
}

func (s *CheckService) checkOne(ref loader.RecordRef, agg *report.Aggregator) error {
	data, err := s.store.Read(ref)
	if err != nil {
		return err
	}
	processed, err := s.processor.Process(ref, data)
	if err != nil {
		return err
	}
	switch {
	case processed.Malformed != nil:
		zap.S().Warnf("%v", processed.Malformed)
		agg.AddMalformed(processed.Malformed)
	case processed.Record.IsDeleted:
		zap.S().Debugf("%s 已删除，跳过", processed.Record.ID.Key())
		agg.AddSkipped(processed.Record)
	default:
		agg.Add(processed.Record, processed.Findings)
	}
	return nil
}

// Run 检查、输出报告并交给下游。报告文件原子写入；
// 下游失败不影响报告本身，但会作为错误返回
func (s *CheckService) Run(ctx context.Context, opts Options) (*model.QualityReport, error) {
	r, err := s.Check(ctx, opts.Workers)
	if err != nil {
		return nil, err
	}

	data, err := report.RenderBytes(r, opts.Format, report.RenderOptions{TopN: opts.TopN, Color: opts.Color && opts.Output == ""})
	if err != nil {
		return r, err
	}
	if opts.Output != "" {
		if err := report.WriteFile(opts.Output, data); err != nil {
			return r, err
		}
		zap.S().Infof("报告已写入 %s", opts.Output)
	} else if opts.Stdout != nil {
		if _, err := opts.Stdout.Write(data); err != nil {
			return r, errors.Wrap(err, "输出报告失败")
		}
	}

	var sinkErr error
	for _, sink := range s.sinks {
		if err := sink.Save(ctx, r); err != nil {
			zap.S().Errorf("保存到 %s 失败: %v", sink.Name(), err)
			if sinkErr == nil {
				sinkErr = errors.Wrapf(err, "保存到 %s 失败", sink.Name())
			}
			continue
		}
		zap.S().Infof("运行 %s 已保存到 %s", r.RunID, sink.Name())
	}
	return r, sinkErr
}
