package app

import (
	"log"

	"github.com/decker502/spawner/pkg/config"
	"github.com/decker502/spawner/pkg/entities"
	"github.com/decker502/spawner/pkg/systems"
	"github.com/decker502/spawner/pkg/types"
)

var burstEnemyTypes = []string{"basic", "conehead", "buckethead", "flag"}

// availableBurstTypes 过滤出工厂已注册的批量入队类型
// 一个都没有时原样返回，放行时由工厂报告未知类型
func availableBurstTypes(factory *entities.EnemyFactory) []string {
	available := make([]string, 0, len(burstEnemyTypes))
	for _, name := range burstEnemyTypes {
		if factory.HasType(name) {
			available = append(available, name)
		}
	}
	if len(available) == 0 {
		log.Printf("[App] Warning: none of %v registered, burst spawns will fail", burstEnemyTypes)
		return burstEnemyTypes
	}
	return available
}

// enqueueMixedBurst 入队 n 个请求
//
// round 决定出生点策略：轮转槽位、归一化位置、行锚点（没有行时退回轮转槽位）、
// 出生边中点的直接坐标
func enqueueMixedBurst(s *systems.AdmissionScheduler, lanes []config.LaneAnchorConfig, enemyTypes []string, round, n int) int {
	g := s.Geometry()
	accepted := 0

	for i := 0; i < n; i++ {
		desc := types.EnemyDescriptor{Type: enemyTypes[i%len(enemyTypes)]}

		var ok bool
		switch round % 4 {
		case 0:
			ok = s.EnqueueEdgeSlot(desc, systems.NextEdgeSlot, nil)
		case 1:
			ok = s.EnqueueNormalizedEdge(desc, float64(i%21)/20, nil)
		case 2:
			if len(lanes) == 0 {
				ok = s.EnqueueEdgeSlot(desc, systems.NextEdgeSlot, nil)
				break
			}
			overrides := &entities.EnemyOverrides{SpeedScale: 1.5}
			ok = s.EnqueueLane(desc, lanes[i%len(lanes)].ID, overrides, nil)
		case 3:
			mid := types.Point{X: g.RightX(), Y: (g.MinY() + g.MaxY()) / 2}
			ok = s.EnqueueDirect(desc, mid, nil, nil)
		}
		if ok {
			accepted++
		}
	}
	return accepted
}
