package app

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/decker502/spawner/pkg/components"
	"github.com/decker502/spawner/pkg/ecs"
	"github.com/decker502/spawner/pkg/entities"
	"github.com/decker502/spawner/pkg/systems"
	"github.com/decker502/spawner/pkg/types"
)

var (
	edgeColor = color.RGBA{R: 90, G: 110, B: 140, A: 255}
	slotColor = color.RGBA{R: 200, G: 200, B: 80, A: 255}

	// 按出生点策略区分敌人颜色
	modeColors = map[types.PlacementMode]color.RGBA{
		types.PlacementModeDirect:     {R: 230, G: 120, B: 90, A: 255},
		types.PlacementModeLane:       {R: 120, G: 200, B: 120, A: 255},
		types.PlacementModeEdgeSlot:   {R: 110, G: 160, B: 240, A: 255},
		types.PlacementModeNormalized: {R: 200, G: 130, B: 230, A: 255},
		types.PlacementModeFallback:   {R: 240, G: 60, B: 60, A: 255},
	}
)

// drawSpawnEdge 绘制出生边与槽位
func drawSpawnEdge(screen *ebiten.Image, s *systems.AdmissionScheduler) {
	g := s.Geometry()
	x := float32(g.RightX())
	vector.StrokeLine(screen, x, float32(g.MinY()), x, float32(g.MaxY()), 2, edgeColor, true)

	slots := s.EdgeSlots()
	for i := 0; i < slots.Len(); i++ {
		p := slots.At(i)
		vector.DrawFilledRect(screen, float32(p.X)-3, float32(p.Y)-3, 6, 6, slotColor, true)
	}
}

// drawEnemies 绘制所有敌人
func drawEnemies(screen *ebiten.Image, em *ecs.EntityManager) {
	ids := ecs.GetEntitiesWith3[
		*components.EnemyComponent,
		*components.PositionComponent,
		*components.PlacementComponent,
	](em)

	for _, id := range ids {
		pos, _ := ecs.GetComponent[*components.PositionComponent](em, id)
		placement, _ := ecs.GetComponent[*components.PlacementComponent](em, id)

		size := float32(8)
		if col, ok := ecs.GetComponent[*components.CollisionComponent](em, id); ok && col.Radius > 0 {
			size = float32(col.Radius)
		}
		vector.DrawFilledRect(screen, float32(pos.X)-size/2, float32(pos.Y)-size/2, size, size, modeColors[placement.Mode], false)
	}
}

// drawStats 绘制调度器统计
func drawStats(screen *ebiten.Image, scheduler *systems.AdmissionScheduler, factory *entities.EnemyFactory) {
	stats := scheduler.GetStats()
	g := scheduler.Geometry()
	edge := "viewport"
	if g.UsingFallback() {
		edge = "fallback"
	}
	warmup := "off"
	if stats.BurstActive {
		warmup = fmt.Sprintf("%.0f%%", stats.WarmupProgress*100)
	}

	lines := []string{
		fmt.Sprintf("TPS: %.1f", ebiten.ActualTPS()),
		fmt.Sprintf("Pending: %d", stats.PendingCount),
		fmt.Sprintf("Credits: %.2f", stats.CurrentCredits),
		fmt.Sprintf("Cap: %.0f/s  Effective: %.1f/s", stats.CapPerSecond, stats.EffectiveCap),
		fmt.Sprintf("Realized: %.0f/s  Last tick: %d / %d", stats.RealizedRatePerSecond, stats.ProcessedLastTick, scheduler.MaxPerTick()),
		fmt.Sprintf("Active: %d / %d  Warmup: %s", stats.ActiveCount, factory.Capacity(), warmup),
		fmt.Sprintf("Released: %d  Failed: %d  Cleared: %d", stats.TotalReleased, stats.TotalFailed, stats.TotalCleared),
		fmt.Sprintf("Edge: x=%.0f y=[%.0f, %.0f] (%s)  Slots: %d", g.RightX(), g.MinY(), g.MaxY(), edge, scheduler.EdgeSlots().Len()),
		"[B] burst  [R] new run  [+/-] cap  [[/]] slots  [F11] fullscreen",
	}
	for i, line := range lines {
		ebitenutil.DebugPrintAt(screen, line, 10, 10+i*16)
	}
}
