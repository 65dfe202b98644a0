package systems

import (
	"bytes"
	"log"
	"math"
	"math/rand"
	"strings"
	"testing"

	"github.com/decker502/spawner/pkg/config"
)

func geometryConfig() config.PlacementConfig {
	cfg := config.DefaultSpawnerConfig().Placement
	cfg.EdgePadding = 0.5
	cfg.MinSpan = 1
	cfg.EdgeOffsetX = 1
	cfg.AnchorX = 10
	cfg.AnchorY = 2
	cfg.FallbackHalfSpan = 4
	return cfg
}

// TestEdgeGeometryFromViewport 测试由视口计算出生边
func TestEdgeGeometryFromViewport(t *testing.T) {
	tests := []struct {
		name       string
		vp         Viewport
		expectX    float64
		expectMinY float64
		expectMaxY float64
	}{
		{
			name:       "原点视口",
			vp:         Viewport{HalfHeight: 5, Aspect: 2},
			expectX:    11,
			expectMinY: -4.5,
			expectMaxY: 4.5,
		},
		{
			name:       "偏移视口",
			vp:         Viewport{HalfHeight: 5, Aspect: 1.5, X: 3, Y: -2},
			expectX:    3 + 7.5 + 1,
			expectMinY: -6.5,
			expectMaxY: 2.5,
		},
		{
			name:       "视口过小时撑开到最小跨度",
			vp:         Viewport{HalfHeight: 0.3, Aspect: 1},
			expectX:    1.3,
			expectMinY: -0.5,
			expectMaxY: 0.5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewEdgeGeometry(&fakeViewport{vp: tt.vp, ok: true}, geometryConfig())

			if g.UsingFallback() {
				t.Fatal("Expected viewport-based geometry")
			}
			if !g.BaselineCaptured() {
				t.Error("Expected baseline to be captured")
			}
			if math.Abs(g.RightX()-tt.expectX) > 1e-9 {
				t.Errorf("Expected rightX %.3f, got %.3f", tt.expectX, g.RightX())
			}
			if math.Abs(g.MinY()-tt.expectMinY) > 1e-9 || math.Abs(g.MaxY()-tt.expectMaxY) > 1e-9 {
				t.Errorf("Expected y range [%.3f, %.3f], got [%.3f, %.3f]",
					tt.expectMinY, tt.expectMaxY, g.MinY(), g.MaxY())
			}
			if g.Span() < 1-1e-9 {
				t.Errorf("Span %.3f below minSpan", g.Span())
			}
		})
	}
}

// TestEdgeGeometryBaselineIgnoresZoom 测试镜头缩放不改变出生坐标，尺寸变化只更新宽高比与位置
func TestEdgeGeometryBaselineIgnoresZoom(t *testing.T) {
	provider := &fakeViewport{vp: Viewport{HalfHeight: 5, Aspect: 2}, ok: true}
	g := NewEdgeGeometry(provider, geometryConfig())
	beforeX, beforeMin, beforeMax := g.RightX(), g.MinY(), g.MaxY()

	provider.vp.HalfHeight = 2.5 // 放大镜头
	g.Recompute()
	if g.RightX() != beforeX || g.MinY() != beforeMin || g.MaxY() != beforeMax {
		t.Errorf("Zoom changed geometry: x=%.2f y=[%.2f, %.2f]", g.RightX(), g.MinY(), g.MaxY())
	}

	provider.vp.Aspect = 1
	provider.vp.Y = 1
	g.Recompute()
	if math.Abs(g.RightX()-6) > 1e-9 {
		t.Errorf("Expected rightX 6 after aspect change, got %.3f", g.RightX())
	}
	if math.Abs(g.MinY()-(-3.5)) > 1e-9 || math.Abs(g.MaxY()-5.5) > 1e-9 {
		t.Errorf("Expected y range [-3.5, 5.5], got [%.3f, %.3f]", g.MinY(), g.MaxY())
	}
}

// TestEdgeGeometryFallback 测试没有视口时使用合成范围并只警告一次
func TestEdgeGeometryFallback(t *testing.T) {
	var buf bytes.Buffer
	prev := log.Writer()
	log.SetOutput(&buf)
	defer log.SetOutput(prev)

	g := NewEdgeGeometry(nil, geometryConfig())
	g.Recompute()
	g.Recompute()

	if !g.UsingFallback() {
		t.Fatal("Expected fallback geometry without a viewport")
	}
	if g.BaselineCaptured() {
		t.Error("Fallback must not capture a baseline")
	}
	if g.RightX() != 10 || g.MinY() != -2 || g.MaxY() != 6 {
		t.Errorf("Expected x=10 y=[-2, 6], got x=%.2f y=[%.2f, %.2f]", g.RightX(), g.MinY(), g.MaxY())
	}
	if n := strings.Count(buf.String(), "No viewport available"); n != 1 {
		t.Errorf("Expected exactly one fallback warning, got %d", n)
	}
}

// TestEdgeGeometryInvalidViewport 测试非法视口视为没有视口，之后视口可用时恢复
func TestEdgeGeometryInvalidViewport(t *testing.T) {
	tests := []struct {
		name string
		vp   Viewport
		ok   bool
	}{
		{name: "提供者报告不可用", vp: Viewport{HalfHeight: 5, Aspect: 2}, ok: false},
		{name: "半高为零", vp: Viewport{HalfHeight: 0, Aspect: 2}, ok: true},
		{name: "宽高比为负", vp: Viewport{HalfHeight: 5, Aspect: -1}, ok: true},
		{name: "半高为 NaN", vp: Viewport{HalfHeight: math.NaN(), Aspect: 2}, ok: true},
		{name: "位置为 Inf", vp: Viewport{HalfHeight: 5, Aspect: 2, X: math.Inf(1)}, ok: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider := &fakeViewport{vp: tt.vp, ok: tt.ok}
			g := NewEdgeGeometry(provider, geometryConfig())
			if !g.UsingFallback() {
				t.Fatal("Expected fallback geometry for invalid viewport")
			}

			provider.vp = Viewport{HalfHeight: 5, Aspect: 2}
			provider.ok = true
			g.Recompute()
			if g.UsingFallback() {
				t.Error("Expected viewport geometry once the viewport is valid")
			}
			if g.RightX() != 11 {
				t.Errorf("Expected rightX 11, got %.3f", g.RightX())
			}
		})
	}
}

// TestEdgeGeometryPointAt 测试归一化位置与钳制
func TestEdgeGeometryPointAt(t *testing.T) {
	g := NewEdgeGeometry(&fakeViewport{vp: Viewport{HalfHeight: 5, Aspect: 2}, ok: true}, geometryConfig())

	tests := []struct {
		t        float64
		expected float64
	}{
		{t: 0, expected: -4.5},
		{t: 0.5, expected: 0},
		{t: 1, expected: 4.5},
		{t: -3, expected: -4.5},
		{t: 7, expected: 4.5},
	}
	for _, tt := range tests {
		p := g.PointAt(tt.t)
		if p.X != g.RightX() || math.Abs(p.Y-tt.expected) > 1e-9 {
			t.Errorf("PointAt(%.1f): expected (%.1f, %.2f), got (%.2f, %.2f)", tt.t, g.RightX(), tt.expected, p.X, p.Y)
		}
	}

	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 1000; i++ {
		p := g.RandomPoint(rng)
		if p.X != g.RightX() || p.Y < g.MinY() || p.Y > g.MaxY() {
			t.Fatalf("Random point (%.2f, %.2f) outside edge", p.X, p.Y)
		}
	}
}
