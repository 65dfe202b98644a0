package systems

import (
	"github.com/decker502/spawner/pkg/spatial"
	"github.com/decker502/spawner/pkg/types"
)

// EntityWorld 基于敌人网格索引的世界查询
//
// 索引由 EnemyFactory 在创建与回收时维护，EnemyMovementSystem 同步移动后的位置。
// 重叠检测只检查查询点附近的格子，单次查询不分配内存。
type EntityWorld struct {
	index *spatial.Grid
}

// NewEntityWorld 创建世界查询
//
// 参数：
//
//	index - 在场敌人的网格索引，通常为 EnemyFactory.Index()
func NewEntityWorld(index *spatial.Grid) *EntityWorld {
	return &EntityWorld{index: index}
}

// ActiveEntityCount 当前在场的敌人数量
func (w *EntityWorld) ActiveEntityCount() int {
	return w.index.Len()
}

// Overlaps 半径 radius 范围内（严格小于）是否有敌人
func (w *EntityWorld) Overlaps(pos types.Point, radius float64) bool {
	return w.index.AnyWithin(pos.X, pos.Y, radius)
}
