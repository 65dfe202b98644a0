package systems

import (
	"math"

	"github.com/decker502/spawner/pkg/config"
)

// AdaptiveRateLimiter 自适应信用值限速器
//
// 每放行一个敌人消耗 1 点信用值。信用值按有效速率上限再生，
// 并被限制在 min(maxCredit, effectiveCap) 以内：
//   - 负载缩放：在场敌人越多，有效上限越低，最低为配置上限的 50%
//   - 预热：积压首次超过 capPerSecond 时，有效上限从 0 线性升回，
//     积压清空前保持预热状态
//
// 计算顺序：再生 → 负载缩放钳制 → 预热钳制
type AdaptiveRateLimiter struct {
	capPerSecond        float64
	maxCredit           float64
	halfRateActiveCount int

	credits      float64
	effectiveCap float64
	ramp         *WarmupRamp // 处于预热期即 ramp.Active()
}

// NewAdaptiveRateLimiter 根据速率配置创建限速器，初始信用值遵循 ResetCredits 策略
func NewAdaptiveRateLimiter(cfg config.RateLimitConfig) *AdaptiveRateLimiter {
	l := &AdaptiveRateLimiter{
		capPerSecond:        cfg.CapPerSecond,
		maxCredit:           cfg.MaxCredit,
		halfRateActiveCount: cfg.HalfRateActiveCount,
		ramp:                NewWarmupRamp(cfg.WarmupSeconds),
	}
	l.Reset(cfg.ResetCredits)
	return l
}

// ObserveBacklog 根据当前积压长度更新预热状态
//
// 积压首次超过 capPerSecond 时触发预热；积压清空时结束预热，
// 之后的新一批大请求会再次触发
func (l *AdaptiveRateLimiter) ObserveBacklog(pending int) {
	if pending <= 0 {
		if l.ramp.Active() {
			l.ramp.Cancel()
		}
		return
	}

	if !l.ramp.Active() && float64(pending) > l.capPerSecond {
		l.ramp.Trigger()
	}
}

// Regenerate 再生信用值
//
// 参数：
//
//	dt - 帧间隔（秒），非正数或 NaN 视为 0
//	activeEntityCount - 当前在场的敌人数量
//
// 返回：
//
//	本帧可用的信用值
func (l *AdaptiveRateLimiter) Regenerate(dt float64, activeEntityCount int) float64 {
	if !(dt > 0) || math.IsInf(dt, 0) {
		dt = 0
	}

	l.ramp.Advance(dt)

	loadCap := l.capPerSecond * l.loadFactor(activeEntityCount)
	warmCap := loadCap * l.ramp.Factor()

	l.credits += warmCap * dt
	l.credits = math.Min(l.credits, math.Min(l.maxCredit, loadCap))
	l.credits = math.Min(l.credits, math.Min(l.maxCredit, warmCap))
	if l.credits < 0 {
		l.credits = 0
	}

	l.effectiveCap = warmCap
	return l.credits
}

// loadFactor 负载缩放系数：lerp(1.0, 0.5, clamp01(active/halfRateActiveCount))
func (l *AdaptiveRateLimiter) loadFactor(active int) float64 {
	if active <= 0 || l.halfRateActiveCount <= 0 {
		return 1
	}
	t := clamp01(float64(active) / float64(l.halfRateActiveCount))
	return lerp(1.0, 0.5, t)
}

// TrySpend 尝试消耗 1 点信用值，信用值不足 1 时返回 false
func (l *AdaptiveRateLimiter) TrySpend() bool {
	if l.credits < 1 {
		return false
	}
	l.credits--
	return true
}

// Reset 重置信用值与预热状态
//
// 参数：
//
//	policy - config.ResetCreditsFull 恢复满额，config.ResetCreditsEmpty 清零
func (l *AdaptiveRateLimiter) Reset(policy string) {
	l.ramp.Cancel()
	l.effectiveCap = l.capPerSecond

	if policy == config.ResetCreditsEmpty {
		l.credits = 0
		return
	}
	l.credits = l.fullCredits()
}

// SetCapPerSecond 运行时调整速率上限，信用值按新上限重新钳制
func (l *AdaptiveRateLimiter) SetCapPerSecond(capPerSecond float64) {
	if !(capPerSecond > 0) {
		return
	}
	l.capPerSecond = capPerSecond
	if l.effectiveCap > capPerSecond {
		l.effectiveCap = capPerSecond
	}
	l.credits = math.Min(l.credits, math.Min(l.maxCredit, l.effectiveCap))
}

func (l *AdaptiveRateLimiter) fullCredits() float64 {
	return math.Min(l.maxCredit, l.capPerSecond)
}

// Credits 当前信用值
func (l *AdaptiveRateLimiter) Credits() float64 { return l.credits }

// CapPerSecond 配置的速率上限
func (l *AdaptiveRateLimiter) CapPerSecond() float64 { return l.capPerSecond }

// MaxCredit 信用值累积上限
func (l *AdaptiveRateLimiter) MaxCredit() float64 { return l.maxCredit }

// EffectiveCap 最近一次再生时的有效速率上限
func (l *AdaptiveRateLimiter) EffectiveCap() float64 { return l.effectiveCap }

// BurstActive 是否处于预热期
func (l *AdaptiveRateLimiter) BurstActive() bool { return l.ramp.Active() }

// WarmupProgress 预热进度 0~1，未在预热时为 1
func (l *AdaptiveRateLimiter) WarmupProgress() float64 {
	if !l.ramp.Active() {
		return 1
	}
	return l.ramp.Factor()
}
