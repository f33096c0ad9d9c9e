package model

import (
	"strconv"
	"strings"

	"golang.org/x/exp/constraints"
)

// Series 是时间序列数据的泛型切片，约束为可比较排序的类型，
// 实际使用中基本都是Series[float64]。
type Series[T constraints.Ordered] []T

// Values 返回序列中的所有值
func (s Series[T]) Values() []T {
	return s
}

// Length 返回序列中值的数量
func (s Series[T]) Length() int {
	return len(s)
}

// Last 返回序列倒数第position个值，Last(0)即最后一个值
func (s Series[T]) Last(position int) T {
	return s[len(s)-1-position]
}

// LastValues 返回序列最后size个值；序列不足size时返回整个序列
func (s Series[T]) LastValues(size int) []T {
	if l := len(s); l > size {
		return s[l-size:]
	}
	return s
}

// Crossover 判断序列是否在最后一根K线上向上穿越参考序列，
// 即当前值高于参考值而前一个值不高于。常用于金叉判定。
func (s Series[T]) Crossover(ref Series[T]) bool {
	return s.Last(0) > ref.Last(0) && s.Last(1) <= ref.Last(1)
}

// Crossunder 判断序列是否在最后一根K线上向下穿越参考序列，死叉判定
func (s Series[T]) Crossunder(ref Series[T]) bool {
	return s.Last(0) <= ref.Last(0) && s.Last(1) > ref.Last(1)
}

// Cross 判断两个序列在最后一根K线上是否发生了任意方向的交叉
func (s Series[T]) Cross(ref Series[T]) bool {
	return s.Crossover(ref) || s.Crossunder(ref)
}

// NumDecPlaces 返回一个float64值的小数位数
func NumDecPlaces(v float64) int64 {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	i := strings.IndexByte(s, '.')
	if i > -1 {
		return int64(len(s) - i - 1)
	}
	return 0
}
