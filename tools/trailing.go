package tools

// DrawdownTracker 跟踪价格从最近高点回落的幅度,回落超过阈值时报警。
// 告警调度器把它接在收盘价序列上,就得到一个简易的回撤提醒。
type DrawdownTracker struct {
	peak      float64 // 启动以来的最高价
	threshold float64 // 触发阈值,如0.1表示回撤10%
	active    bool
}

// NewDrawdownTracker 创建一个回撤跟踪器,threshold为触发比例
func NewDrawdownTracker(threshold float64) *DrawdownTracker {
	return &DrawdownTracker{threshold: threshold}
}

// Start 以当前价格为初始高点启动跟踪
func (t *DrawdownTracker) Start(current float64) {
	t.peak = current
	t.active = true
}

// Stop 停止跟踪
func (t *DrawdownTracker) Stop() {
	t.active = false
}

// Active 返回是否正在跟踪
func (t DrawdownTracker) Active() bool {
	return t.active
}

// Drawdown 返回当前价格相对高点的回撤比例
func (t DrawdownTracker) Drawdown(current float64) float64 {
	if t.peak <= 0 {
		return 0
	}
	return (t.peak - current) / t.peak
}

// Update 喂入最新价格。创新高时上移高点并返回false;
// 回撤达到阈值时返回true,由调用方决定是否继续跟踪。
func (t *DrawdownTracker) Update(current float64) bool {
	if !t.active {
		return false
	}

	if current > t.peak {
		t.peak = current
		return false
	}

	return t.Drawdown(current) >= t.threshold
}
