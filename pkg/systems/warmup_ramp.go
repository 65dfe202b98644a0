package systems

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// WarmupRamp 预热曲线
//
// 大批量请求到达后，速率系数在 duration 秒内从 0 线性升到 1，
// 之后保持 1，直到 Cancel（积压清空）
type WarmupRamp struct {
	duration float64
	elapsed  float64
	active   bool
	tween    *gween.Tween
}

// NewWarmupRamp 创建预热曲线，seconds <= 0 表示关闭预热
func NewWarmupRamp(seconds float64) *WarmupRamp {
	r := &WarmupRamp{duration: seconds}
	if seconds > 0 {
		r.tween = gween.New(0, 1, float32(seconds), ease.Linear)
	}
	return r
}

// Enabled 是否启用了预热
func (r *WarmupRamp) Enabled() bool {
	return r.tween != nil
}

// Trigger 开始一次预热（从 0 开始计时）
func (r *WarmupRamp) Trigger() {
	r.active = true
	r.elapsed = 0
	if r.tween != nil {
		r.tween.Reset()
	}
}

// Cancel 结束预热
func (r *WarmupRamp) Cancel() {
	r.active = false
	r.elapsed = 0
}

// Active 是否处于预热期
func (r *WarmupRamp) Active() bool {
	return r.active
}

// Elapsed 本次预热已经过的时间（秒）
func (r *WarmupRamp) Elapsed() float64 {
	return r.elapsed
}

// Advance 推进预热时间
func (r *WarmupRamp) Advance(dt float64) {
	if r.active && dt > 0 {
		r.elapsed += dt
	}
}

// Factor 当前速率系数 clamp01(elapsed/duration)，未预热或未启用时为 1
func (r *WarmupRamp) Factor() float64 {
	if !r.active || r.tween == nil {
		return 1
	}
	if r.elapsed >= r.duration {
		return 1
	}
	current, _ := r.tween.Set(float32(r.elapsed))
	return clamp01(float64(current))
}

// clamp01 将值限制在 [0, 1]
func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// lerp 线性插值
func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}
