package db

import (
	"context"
	"database/sql"

	"commentary-check/pkg/model"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// HistoryStore 把每次检查的摘要和问题明细保存到 DuckDB，用于跨运行对比
type HistoryStore struct {
	conn *sql.DB
}

func NewHistoryStore(conn *sql.DB) *HistoryStore {
	return &HistoryStore{conn: conn}
}

func (s *HistoryStore) Name() string {
	return "duckdb"
}

// createTables 创建历史表，已存在时保留数据
func (s *HistoryStore) createTables(ctx context.Context) error {
	if s.conn == nil {
		return errors.New("DuckDB 连接未初始化")
	}

	statements := []string{
		`CREATE TABLE IF NOT EXISTS quality_run (
			run_id VARCHAR PRIMARY KEY,
			generated_at TIMESTAMP,
			preset VARCHAR,
			scanned INTEGER,
			skipped_deleted INTEGER,
			clean INTEGER,
			flagged INTEGER,
			malformed INTEGER,
			finding_count INTEGER,
			pass_rate DOUBLE
		)`,
		`CREATE TABLE IF NOT EXISTS quality_finding (
			run_id VARCHAR,
			article_key VARCHAR,
			category VARCHAR,
			law VARCHAR,
			article VARCHAR,
			rule VARCHAR,
			severity VARCHAR,
			issue_type VARCHAR,
			location VARCHAR,
			description VARCHAR,
			suggestion VARCHAR
		)`,
	}
	for _, stmt := range statements {
		if _, err := s.conn.ExecContext(ctx, stmt); err != nil {
			return errors.Wrap(err, "创建历史表失败")
		}
	}
	return nil
}

// Save 在一个事务中写入运行摘要与全部问题
func (s *HistoryStore) Save(ctx context.Context, r *model.QualityReport) error {
	if err := s.createTables(ctx); err != nil {
		return err
	}

	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "开启事务失败")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	run := model.NewQualityRun(r)
	_, err = tx.ExecContext(ctx, `
		INSERT INTO quality_run (run_id, generated_at, preset, scanned, skipped_deleted, clean, flagged, malformed, finding_count, pass_rate)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.RunID, run.GeneratedAt, run.Preset, run.Scanned, run.SkippedDeleted,
		run.Clean, run.Flagged, run.Malformed, run.FindingCount, run.PassRate,
	)
	if err != nil {
		return errors.Wrap(err, "写入运行摘要失败")
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO quality_finding (run_id, article_key, category, law, article, rule, severity, issue_type, location, description, suggestion)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return errors.Wrap(err, "准备插入语句失败")
	}
	defer stmt.Close()

	for _, f := range r.Findings {
		_, err = stmt.ExecContext(ctx,
			r.RunID, f.ArticleID.Key(), f.ArticleID.Category, f.ArticleID.Law, f.ArticleID.String(),
			f.Rule, string(f.Severity), string(f.Category), string(f.Location), f.Description, f.Suggestion,
		)
		if err != nil {
			return errors.Wrapf(err, "写入问题失败 %s", f.ArticleID.Key())
		}
	}

	if err = tx.Commit(); err != nil {
		return errors.Wrap(err, "提交事务失败")
	}
	zap.S().Debugf("运行 %s 已写入 DuckDB，问题 %d 条", r.RunID, len(r.Findings))
	return nil
}

// RecentRuns 最近的运行摘要，按生成时间倒序
func (s *HistoryStore) RecentRuns(ctx context.Context, limit int) ([]model.QualityRun, error) {
	if err := s.createTables(ctx); err != nil {
		return nil, err
	}

	rows, err := s.conn.QueryContext(ctx, `
		SELECT run_id, generated_at, preset, scanned, skipped_deleted, clean, flagged, malformed, finding_count, pass_rate
		FROM quality_run
		ORDER BY generated_at DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, errors.Wrap(err, "查询运行历史失败")
	}
	defer rows.Close()

	var runs []model.QualityRun
	for rows.Next() {
		var run model.QualityRun
		var preset sql.NullString
		if err := rows.Scan(&run.RunID, &run.GeneratedAt, &preset, &run.Scanned, &run.SkippedDeleted,
			&run.Clean, &run.Flagged, &run.Malformed, &run.FindingCount, &run.PassRate); err != nil {
			return nil, errors.Wrap(err, "扫描运行记录失败")
		}
		if preset.Valid {
			run.Preset = preset.String
		}
		runs = append(runs, run)
	}
	return runs, errors.Wrap(rows.Err(), "遍历运行记录失败")
}

// CategoryCount 某次运行中一个分类的问题数
type CategoryCount struct {
	Category string
	Count    int64
}

// CountByCategory 统计某次运行各分类的问题数，数量多的在前
func (s *HistoryStore) CountByCategory(ctx context.Context, runID string) ([]CategoryCount, error) {
	if err := s.createTables(ctx); err != nil {
		return nil, err
	}

	rows, err := s.conn.QueryContext(ctx, `
		SELECT issue_type, COUNT(*) AS n
		FROM quality_finding
		WHERE run_id = ?
		GROUP BY issue_type
		ORDER BY n DESC, issue_type`, runID)
	if err != nil {
		return nil, errors.Wrap(err, "统计分类失败")
	}
	defer rows.Close()

	var counts []CategoryCount
	for rows.Next() {
		var c CategoryCount
		if err := rows.Scan(&c.Category, &c.Count); err != nil {
			return nil, errors.Wrap(err, "扫描分类统计失败")
		}
		counts = append(counts, c)
	}
	return counts, errors.Wrap(rows.Err(), "遍历分类统计失败")
}

// FindingCount 获取某次运行已保存的问题数量
func (s *HistoryStore) FindingCount(ctx context.Context, runID string) (int64, error) {
	if err := s.createTables(ctx); err != nil {
		return 0, err
	}

	var count int64
	err := s.conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM quality_finding WHERE run_id = ?", runID).Scan(&count)
	if err != nil {
		return 0, errors.Wrap(err, "查询数量失败")
	}
	return count, nil
}
