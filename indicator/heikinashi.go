package indicator

import "github.com/itqwq/chartkite/model"

// HeikinAshi 把一段普通 K 线整体转换成平均足(Heikin-Ashi)序列。
// 平均足通过对开收价做平滑,把连续的小阴小阳合并成颜色一致的
// 长串,趋势段看起来更"干净",常用来过滤震荡噪音。
// 转换依赖前一根平均足的结果,必须从头按顺序重算:同样的输入
// 永远得到同样的输出,但对已转换的序列再做一次并不会还原。
// 输入为空时返回空的序列。
func HeikinAshi(df *model.Dataframe) *model.Dataframe {
	out := &model.Dataframe{
		Symbol:   df.Symbol,
		Metadata: make(map[string]model.Series[float64]),
	}

	ha := model.NewHeikinAshi()
	for i := range df.Close {
		c := model.Candle{
			Symbol: df.Symbol,
			Time:   df.Time[i],
			Open:   df.Open[i],
			High:   df.High[i],
			Low:    df.Low[i],
			Close:  df.Close[i],
			Volume: df.Volume[i],
		}
		out.Push(c.ToHeikinAshi(ha))
	}

	return out
}
