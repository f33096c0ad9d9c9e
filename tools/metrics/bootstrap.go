// Package metrics 提供收益率统计工具,给命令行报告用。
// 指标库只负责算序列,这里把序列变成可下结论的数字。
package metrics

import (
	"math"
	"sort"

	"github.com/samber/lo"
	"gonum.org/v1/gonum/stat"
)

// DailyReturns 由收盘价序列计算逐日简单收益率。n根K线产出n-1个收益率,
// 前一日收盘为0时跳过该点。
func DailyReturns(close []float64) []float64 {
	if len(close) < 2 {
		return nil
	}

	returns := make([]float64, 0, len(close)-1)
	for i := 1; i < len(close); i++ {
		if close[i-1] == 0 {
			continue
		}
		returns = append(returns, close[i]/close[i-1]-1)
	}
	return returns
}

// MaxDrawdown 计算收盘价序列的最大回撤,返回正数比例,如0.18表示-18%。
// 空序列或全零序列返回0。
func MaxDrawdown(close []float64) float64 {
	peak := math.Inf(-1)
	maxDD := 0.0
	for _, price := range close {
		if price > peak {
			peak = price
		}
		if peak > 0 {
			if dd := (peak - price) / peak; dd > maxDD {
				maxDD = dd
			}
		}
	}
	return maxDD
}

// BootstrapInterval 保存自助法估计的结果:统计量的均值、标准偏差
// 和给定置信度下的区间上下界。
type BootstrapInterval struct {
	Lower  float64
	Upper  float64
	StdDev float64
	Mean   float64
}

// Bootstrap 用自助法(有放回重抽样)估计统计量的置信区间。
// values是原始样本(通常是逐日收益率),measure对每个重抽样本计算统计量,
// sampleSize是重抽样次数,confidence是置信度(如0.95)。
// 样本不足约一年的日线时,区间会明显偏宽,这正是该方法的意义:
// 它不假设收益率服从任何分布。
func Bootstrap(values []float64, measure func([]float64) float64, sampleSize int,
	confidence float64) BootstrapInterval {
	var data []float64

	// 每轮抽出与原样本等长的新样本,算一次统计量
	for i := 0; i < sampleSize; i++ {
		samples := make([]float64, len(values))
		for j := 0; j < len(values); j++ {
			samples[j] = lo.Sample(values)
		}
		data = append(data, measure(samples))
	}

	tail := 1 - confidence
	sort.Float64s(data)
	mean, stdDev := stat.MeanStdDev(data, nil)
	upper := stat.Quantile(1-tail/2, stat.LinInterp, data, nil)
	lower := stat.Quantile(tail/2, stat.LinInterp, data, nil)

	return BootstrapInterval{
		Lower:  lower,
		Upper:  upper,
		StdDev: stdDev,
		Mean:   mean,
	}
}
