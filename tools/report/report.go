// Package report 把若干股票的历史行情汇总成终端文本报告:
// 一张统计表、收益率分布直方图,以及每只股票平均日收益的置信区间。
package report

import (
	"bytes"
	"fmt"
	"io"
	"strconv"

	"github.com/aybabtme/uniplot/histogram"
	"github.com/olekukonko/tablewriter"
	"gonum.org/v1/gonum/stat"

	"github.com/itqwq/chartkite/indicator"
	"github.com/itqwq/chartkite/model"
	"github.com/itqwq/chartkite/tools/metrics"
)

// bootstrapSamples 是自助法的重抽样次数,足够让区间稳定又不至于太慢
const bootstrapSamples = 1000

// Summary 为每只股票输出一行统计,然后打印全体日收益率的分布直方图
// 和逐只股票的95%置信区间。数据帧为空的股票跳过。
func Summary(w io.Writer, dfs []*model.Dataframe) error {
	buffer := bytes.NewBuffer(nil)
	table := tablewriter.NewWriter(buffer)
	table.SetHeader([]string{"Symbol", "Bars", "Close", "Day %", "Period %", "HV20 %", "Max DD %", "Avg Vol"})
	table.SetColumnAlignment([]int{
		tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_RIGHT,
		tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_RIGHT,
		tablewriter.ALIGN_RIGHT,
	})

	allReturns := make([]float64, 0)
	type symbolReturns struct {
		symbol  string
		returns []float64
	}
	perSymbol := make([]symbolReturns, 0, len(dfs))

	for _, df := range dfs {
		n := df.Len()
		if n == 0 {
			continue
		}

		returns := metrics.DailyReturns(df.Close)
		allReturns = append(allReturns, returns...)
		perSymbol = append(perSymbol, symbolReturns{symbol: df.Symbol, returns: returns})

		dayChange := 0.0
		if len(returns) > 0 {
			dayChange = returns[len(returns)-1] * 100
		}
		periodChange := 0.0
		if df.Close[0] != 0 {
			periodChange = (df.Close[n-1]/df.Close[0] - 1) * 100
		}

		hv20 := "-"
		if hv := indicator.HV(df.Close, 20); len(hv) > 0 {
			hv20 = fmt.Sprintf("%.1f", hv[len(hv)-1])
		}

		table.Append([]string{
			df.Symbol,
			strconv.Itoa(n),
			fmt.Sprintf("%.2f", df.Close[n-1]),
			fmt.Sprintf("%+.2f", dayChange),
			fmt.Sprintf("%+.2f", periodChange),
			hv20,
			fmt.Sprintf("%.1f", metrics.MaxDrawdown(df.Close)*100),
			fmt.Sprintf("%.0f", stat.Mean(df.Volume, nil)),
		})
	}
	table.Render()

	if _, err := fmt.Fprintln(w, buffer.String()); err != nil {
		return err
	}

	if len(allReturns) == 0 {
		return nil
	}

	fmt.Fprintln(w, "------ DAILY RETURN DISTRIBUTION -------")
	returnsPercent := make([]float64, 0, len(allReturns))
	for _, p := range allReturns {
		returnsPercent = append(returnsPercent, p*100)
	}
	hist := histogram.Hist(15, returnsPercent)
	if err := histogram.Fprint(w, hist, histogram.Linear(10)); err != nil {
		return err
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "------ CONFIDENCE INTERVAL (95%) - MEAN DAILY RETURN -------")
	for _, s := range perSymbol {
		if len(s.returns) == 0 {
			continue
		}
		interval := metrics.Bootstrap(s.returns, func(samples []float64) float64 {
			return stat.Mean(samples, nil)
		}, bootstrapSamples, 0.95)
		fmt.Fprintf(w, "%s: %.3f%% (%.3f%% ~ %.3f%%)\n",
			s.symbol, interval.Mean*100, interval.Lower*100, interval.Upper*100)
	}

	return nil
}
