package db

import (
	"context"
	"sync"
	"time"

	"commentary-check/config"
	"commentary-check/pkg/model"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/plugin/dbresolver"
)

var tiDB *gorm.DB
var tiDBOnce sync.Once

// InitTiDB 初始化发布库连接，配置了 replicas 时读请求走只读副本
func InitTiDB(cfg *config.GlobalConfig) error {
	if cfg.MySQLConfig == nil {
		return errors.New("MySQL 配置未设置")
	}
	var err error
	tiDBOnce.Do(func() {
		tiDB, err = OpenMySQL(cfg.MySQLConfig)
		if err != nil {
			zap.S().Errorf("连接 MySQL 失败: %v", err)
			return
		}
		zap.S().Debug("MySQL 初始化完成...")
	})
	return err
}

// OpenMySQL 按配置打开 gorm 连接
func OpenMySQL(cfg *config.MySQLConfig) (*gorm.DB, error) {
	conn, err := gorm.Open(mysql.Open(cfg.DSN), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, errors.Wrap(err, "打开 MySQL 失败")
	}

	if len(cfg.Replicas) > 0 {
		replicas := make([]gorm.Dialector, 0, len(cfg.Replicas))
		for _, dsn := range cfg.Replicas {
			replicas = append(replicas, mysql.Open(dsn))
		}
		if err := conn.Use(dbresolver.Register(dbresolver.Config{
			Replicas: replicas,
			Policy:   dbresolver.RandomPolicy{},
		})); err != nil {
			return nil, errors.Wrap(err, "注册只读副本失败")
		}
	}

	sqlDB, err := conn.DB()
	if err != nil {
		return nil, errors.Wrap(err, "获取底层连接失败")
	}
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(time.Hour)
	return conn, nil
}

// GetTiDB 获取发布库连接
func GetTiDB() *gorm.DB {
	return tiDB
}

// FindingPublisher 把检查问题写入 tbl_quality_finding，供编辑后台查询
type FindingPublisher struct {
	conn      *gorm.DB
	batchSize int
}

func NewFindingPublisher(conn *gorm.DB, batchSize int) *FindingPublisher {
	if batchSize < 1 {
		batchSize = 100
	}
	return &FindingPublisher{conn: conn, batchSize: batchSize}
}

func (p *FindingPublisher) Name() string {
	return "mysql"
}

// Save 分批写入本次运行的全部问题
func (p *FindingPublisher) Save(ctx context.Context, r *model.QualityReport) error {
	if p.conn == nil {
		return errors.New("MySQL 连接未初始化")
	}
	conn := p.conn.WithContext(ctx)
	if err := conn.AutoMigrate(&model.FindingRow{}); err != nil {
		return errors.Wrap(err, "同步 tbl_quality_finding 表结构失败")
	}

	rows := model.NewFindingRows(r)
	if len(rows) == 0 {
		return nil
	}
	if err := conn.CreateInBatches(rows, p.batchSize).Error; err != nil {
		return errors.Wrapf(err, "发布运行 %s 的问题失败", r.RunID)
	}
	zap.S().Infof("已发布 %d 条问题到 MySQL（运行 %s）", len(rows), r.RunID)
	return nil
}

// CountByRun 从只读副本统计某次运行已发布的问题数
func (p *FindingPublisher) CountByRun(ctx context.Context, runID string) (int64, error) {
	if p.conn == nil {
		return 0, errors.New("MySQL 连接未初始化")
	}
	var count int64
	err := p.conn.WithContext(ctx).
		Clauses(dbresolver.Read).
		Model(&model.FindingRow{}).
		Where("runId = ?", runID).
		Count(&count).Error
	if err != nil {
		return 0, errors.Wrap(err, "查询已发布问题数失败")
	}
	return count, nil
}
