package systems

import (
	"log"
	"math"
	"math/rand"

	"github.com/decker502/spawner/pkg/config"
	"github.com/decker502/spawner/pkg/types"
)

// EdgeGeometry 出生边几何
//
// 出生边位于视口右侧：rightX = 视口中心X + 半高*宽高比 + edgeOffsetX，
// 垂直跨度为视口上下边界各减去 padding。
//
// 正交半高在第一次拿到有效视口时记录为基准，之后镜头缩放不会改变出生坐标；
// 尺寸变化（HandleResize）只重新读取宽高比与视口位置。
// 没有视口时退回以锚点为中心的合成范围，只输出一次警告。
type EdgeGeometry struct {
	provider ViewportProvider
	cfg      config.PlacementConfig

	rightX float64
	minY   float64
	maxY   float64

	baselineCaptured   bool
	baselineHalfHeight float64

	usingFallback  bool
	warnedFallback bool
}

// NewEdgeGeometry 创建出生边几何并立即计算一次
//
// 参数：
//
//	provider - 视口提供者，可为 nil（使用合成范围）
//	cfg - 出生点配置（padding、最小跨度、偏移、合成范围）
func NewEdgeGeometry(provider ViewportProvider, cfg config.PlacementConfig) *EdgeGeometry {
	g := &EdgeGeometry{
		provider: provider,
		cfg:      cfg,
	}
	g.Recompute()
	return g
}

// Recompute 重新计算出生边
func (g *EdgeGeometry) Recompute() {
	vp, ok := g.viewport()
	if !ok {
		g.applyFallback()
		return
	}

	if !g.baselineCaptured {
		g.baselineHalfHeight = vp.HalfHeight
		g.baselineCaptured = true
		log.Printf("[EdgeGeometry] Captured baseline half-height %.2f (aspect %.3f)", vp.HalfHeight, vp.Aspect)
	}

	half := g.baselineHalfHeight
	g.usingFallback = false
	g.apply(
		vp.X+half*vp.Aspect+g.cfg.EdgeOffsetX,
		vp.Y-half+g.cfg.EdgePadding,
		vp.Y+half-g.cfg.EdgePadding,
	)
}

// viewport 读取视口，非法值（非正数、NaN、Inf）视为没有视口
func (g *EdgeGeometry) viewport() (Viewport, bool) {
	if g.provider == nil {
		return Viewport{}, false
	}
	vp, ok := g.provider.Viewport()
	if !ok {
		return Viewport{}, false
	}
	for _, v := range []float64{vp.HalfHeight, vp.Aspect, vp.X, vp.Y} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return Viewport{}, false
		}
	}
	if vp.HalfHeight <= 0 || vp.Aspect <= 0 {
		return Viewport{}, false
	}
	return vp, true
}

func (g *EdgeGeometry) applyFallback() {
	if !g.warnedFallback {
		log.Printf("[EdgeGeometry] WARNING: No viewport available, using fallback range centered on anchor (%.1f, %.1f) ±%.1f",
			g.cfg.AnchorX, g.cfg.AnchorY, g.cfg.FallbackHalfSpan)
		g.warnedFallback = true
	}
	g.usingFallback = true
	g.apply(
		g.cfg.AnchorX,
		g.cfg.AnchorY-g.cfg.FallbackHalfSpan,
		g.cfg.AnchorY+g.cfg.FallbackHalfSpan,
	)
}

// apply 写入结果，跨度不足 minSpan 时以中心向两侧撑开
func (g *EdgeGeometry) apply(rightX, minY, maxY float64) {
	if maxY-minY < g.cfg.MinSpan {
		center := (minY + maxY) / 2
		minY = center - g.cfg.MinSpan/2
		maxY = center + g.cfg.MinSpan/2
	}
	g.rightX = rightX
	g.minY = minY
	g.maxY = maxY
}

// RightX 出生边的X坐标
func (g *EdgeGeometry) RightX() float64 { return g.rightX }

// MinY 出生边下界
func (g *EdgeGeometry) MinY() float64 { return g.minY }

// MaxY 出生边上界
func (g *EdgeGeometry) MaxY() float64 { return g.maxY }

// Span 垂直跨度
func (g *EdgeGeometry) Span() float64 { return g.maxY - g.minY }

// BaselineCaptured 是否已记录基准半高
func (g *EdgeGeometry) BaselineCaptured() bool { return g.baselineCaptured }

// UsingFallback 当前是否使用合成范围
func (g *EdgeGeometry) UsingFallback() bool { return g.usingFallback }

// PointAt 出生边上归一化位置 t 对应的点，t 被限制在 [0,1]
func (g *EdgeGeometry) PointAt(t float64) types.Point {
	return types.Point{X: g.rightX, Y: lerp(g.minY, g.maxY, clamp01(t))}
}

// ClampY 将 Y 限制在出生边范围内
func (g *EdgeGeometry) ClampY(y float64) float64 {
	return math.Max(g.minY, math.Min(g.maxY, y))
}

// RandomPoint 出生边上均匀随机的一个点
func (g *EdgeGeometry) RandomPoint(rng *rand.Rand) types.Point {
	return types.Point{X: g.rightX, Y: g.minY + rng.Float64()*g.Span()}
}
