package storage

import (
	"encoding/json"
	"time"

	"github.com/tidwall/buntdb"

	"github.com/itqwq/chartkite/model"
)

// Bunt 基于 buntdb 的 K 线缓存。
// 整段日线序列化成一条 JSON 记录,过期交给 buntdb 自带的 TTL
// 机制处理:到期后 Get 自然未命中,调用方就去数据源重新拉。
type Bunt struct {
	db *buntdb.DB
}

// FromMemory 纯内存缓存,进程退出即消失,测试和一次性脚本用。
func FromMemory() (Cache, error) {
	return newBunt(":memory:")
}

// FromFile 落盘的缓存,重启后仍然有效(未过期的部分)。
func FromFile(file string) (Cache, error) {
	return newBunt(file)
}

func newBunt(sourceFile string) (Cache, error) {
	db, err := buntdb.Open(sourceFile)
	if err != nil {
		return nil, err
	}
	return &Bunt{db: db}, nil
}

// Get 读取某个标的的缓存 K 线。过期或不存在都算未命中,
// 不是错误。
func (b *Bunt) Get(symbol string) ([]model.Candle, bool, error) {
	var candles []model.Candle
	found := false

	err := b.db.View(func(tx *buntdb.Tx) error {
		value, err := tx.Get(symbol)
		if err == buntdb.ErrNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		if err := json.Unmarshal([]byte(value), &candles); err != nil {
			return err
		}
		found = true
		return nil
	})
	if err != nil {
		return nil, false, err
	}

	return candles, found, nil
}

// Set 整段覆盖缓存,并设置过期时间。
func (b *Bunt) Set(symbol string, candles []model.Candle, ttl time.Duration) error {
	content, err := json.Marshal(candles)
	if err != nil {
		return err
	}

	return b.db.Update(func(tx *buntdb.Tx) error {
		var opts *buntdb.SetOptions
		if ttl > 0 {
			opts = &buntdb.SetOptions{Expires: true, TTL: ttl}
		}
		_, _, err := tx.Set(symbol, string(content), opts)
		return err
	})
}

func (b *Bunt) Close() error {
	return b.db.Close()
}
