package storage

import (
	"time"

	"github.com/samber/lo"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/itqwq/chartkite/model"
)

// candleRow 归档表的一行。标的加交易日做联合主键,重复写入
// 同一根 K 线时直接覆盖,多次刷新不会堆出重复数据。
type candleRow struct {
	Symbol    string    `gorm:"primaryKey;size:16"`
	Time      time.Time `gorm:"primaryKey"`
	Open      float64
	High      float64
	Low       float64
	Close     float64
	Volume    float64
	UpdatedAt time.Time
}

func (candleRow) TableName() string {
	return "candles"
}

// SQL 基于 gorm 的 K 线归档,方言由调用方注入,平时用 sqlite
// 单文件就够了。
type SQL struct {
	db *gorm.DB
}

// FromSQL 打开数据库连接并自动建表。
func FromSQL(dialect gorm.Dialector, opts ...gorm.Option) (History, error) {
	db, err := gorm.Open(dialect, opts...)
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := db.AutoMigrate(&candleRow{}); err != nil {
		return nil, err
	}

	return &SQL{db: db}, nil
}

// SaveCandles 批量写入,主键冲突时更新价格和成交量。
func (s *SQL) SaveCandles(candles []model.Candle) error {
	if len(candles) == 0 {
		return nil
	}

	rows := lo.Map(candles, func(c model.Candle, _ int) candleRow {
		return candleRow{
			Symbol:    c.Symbol,
			Time:      c.Time,
			Open:      c.Open,
			High:      c.High,
			Low:       c.Low,
			Close:     c.Close,
			Volume:    c.Volume,
			UpdatedAt: time.Now().UTC(),
		}
	})

	result := s.db.Clauses(clause.OnConflict{UpdateAll: true}).Create(&rows)
	return result.Error
}

// Candles 读出归档并按过滤条件筛选,结果按时间升序。
func (s *SQL) Candles(filters ...CandleFilter) ([]model.Candle, error) {
	var rows []candleRow
	result := s.db.Order("time asc").Find(&rows)
	if result.Error != nil {
		return nil, result.Error
	}

	candles := lo.Map(rows, func(r candleRow, _ int) model.Candle {
		return model.Candle{
			Symbol:    r.Symbol,
			Time:      r.Time.UTC(),
			UpdatedAt: r.UpdatedAt.UTC(),
			Open:      r.Open,
			High:      r.High,
			Low:       r.Low,
			Close:     r.Close,
			Volume:    r.Volume,
			Complete:  true,
		}
	})

	return lo.Filter(candles, func(c model.Candle, _ int) bool {
		for _, filter := range filters {
			if !filter(c) {
				return false
			}
		}
		return true
	}), nil
}

func (s *SQL) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
