// Package spatial 提供敌人位置的均匀网格索引
//
// 网格按 (floor(x/cellSize), floor(y/cellSize)) 分桶，只保存有实体的格子，
// 因此世界坐标没有边界限制。半径查询只检查覆盖查询圆外接正方形的格子，
// 开销与附近的实体数量相关，与在场总数无关。
package spatial

import (
	"math"

	"github.com/decker502/spawner/pkg/ecs"
)

type cellKey struct {
	cx, cy int
}

type entry struct {
	id   ecs.EntityID
	x, y float64
}

// Grid 均匀网格索引
//
// 只在模拟线程上访问，不加锁
type Grid struct {
	cellSize float64
	cells    map[cellKey][]entry
	where    map[ecs.EntityID]cellKey
}

// NewGrid 创建网格索引
//
// 参数：
//
//	cellSize - 格子边长，非正数或非有限值时使用 1
func NewGrid(cellSize float64) *Grid {
	if !(cellSize > 0) || math.IsInf(cellSize, 0) {
		cellSize = 1
	}
	return &Grid{
		cellSize: cellSize,
		cells:    make(map[cellKey][]entry),
		where:    make(map[ecs.EntityID]cellKey),
	}
}

// Len 已索引的实体数量
func (g *Grid) Len() int { return len(g.where) }

func (g *Grid) key(x, y float64) cellKey {
	return cellKey{
		cx: int(math.Floor(x / g.cellSize)),
		cy: int(math.Floor(y / g.cellSize)),
	}
}

// Insert 加入实体；已存在时等同于 Move
func (g *Grid) Insert(id ecs.EntityID, x, y float64) {
	if _, ok := g.where[id]; ok {
		g.Move(id, x, y)
		return
	}
	k := g.key(x, y)
	g.cells[k] = append(g.cells[k], entry{id: id, x: x, y: y})
	g.where[id] = k
}

// Move 更新实体位置，跨格子时换桶；未索引的实体被忽略
func (g *Grid) Move(id ecs.EntityID, x, y float64) {
	old, ok := g.where[id]
	if !ok {
		return
	}

	k := g.key(x, y)
	if k == old {
		bucket := g.cells[k]
		for i := range bucket {
			if bucket[i].id == id {
				bucket[i].x, bucket[i].y = x, y
				return
			}
		}
		return
	}

	g.removeFrom(old, id)
	g.cells[k] = append(g.cells[k], entry{id: id, x: x, y: y})
	g.where[id] = k
}

// Remove 删除实体；未索引的实体被忽略
func (g *Grid) Remove(id ecs.EntityID) {
	k, ok := g.where[id]
	if !ok {
		return
	}
	g.removeFrom(k, id)
	delete(g.where, id)
}

// removeFrom 交换删除，保持桶内紧凑
func (g *Grid) removeFrom(k cellKey, id ecs.EntityID) {
	bucket := g.cells[k]
	for i := range bucket {
		if bucket[i].id != id {
			continue
		}
		last := len(bucket) - 1
		bucket[i] = bucket[last]
		bucket = bucket[:last]
		if len(bucket) == 0 {
			delete(g.cells, k)
		} else {
			g.cells[k] = bucket
		}
		return
	}
}

// Clear 清空索引
func (g *Grid) Clear() {
	clear(g.cells)
	clear(g.where)
}

// AnyWithin 距 (x, y) 严格小于 radius 的范围内是否有实体
//
// 不分配内存
func (g *Grid) AnyWithin(x, y, radius float64) bool {
	if !(radius > 0) || len(g.where) == 0 {
		return false
	}
	radiusSq := radius * radius

	lo := g.key(x-radius, y-radius)
	hi := g.key(x+radius, y+radius)

	// 覆盖的格子比非空格子还多时直接遍历非空格子
	span := (float64(hi.cx-lo.cx) + 1) * (float64(hi.cy-lo.cy) + 1)
	if span > float64(len(g.cells)) {
		for _, bucket := range g.cells {
			for _, e := range bucket {
				dx, dy := e.x-x, e.y-y
				if dx*dx+dy*dy < radiusSq {
					return true
				}
			}
		}
		return false
	}

	for cx := lo.cx; cx <= hi.cx; cx++ {
		for cy := lo.cy; cy <= hi.cy; cy++ {
			for _, e := range g.cells[cellKey{cx: cx, cy: cy}] {
				dx, dy := e.x-x, e.y-y
				if dx*dx+dy*dy < radiusSq {
					return true
				}
			}
		}
	}
	return false
}
