package spatial

import (
	"math/rand"
	"testing"

	"github.com/decker502/spawner/pkg/ecs"
)

// TestGridAnyWithin 测试半径查询（严格小于）
func TestGridAnyWithin(t *testing.T) {
	g := NewGrid(10)
	g.Insert(1, 0, 0)
	g.Insert(2, 95, -42)

	tests := []struct {
		name     string
		x, y     float64
		radius   float64
		expected bool
	}{
		{name: "同一格子内", x: 3, y: 4, radius: 6, expected: true},
		{name: "相邻格子内", x: -9, y: 0, radius: 10, expected: true},
		{name: "恰好在边界上不算重叠", x: 10, y: 0, radius: 10, expected: false},
		{name: "负坐标格子", x: 95, y: -40, radius: 3, expected: true},
		{name: "远处没有实体", x: 500, y: 500, radius: 10, expected: false},
		{name: "半径为零", x: 0, y: 0, radius: 0, expected: false},
		{name: "半径远大于格子", x: 1e6, y: 0, radius: 1e7, expected: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := g.AnyWithin(tt.x, tt.y, tt.radius); got != tt.expected {
				t.Errorf("AnyWithin(%.1f, %.1f, %.1f) = %v, expected %v", tt.x, tt.y, tt.radius, got, tt.expected)
			}
		})
	}
}

// TestGridMoveAndRemove 测试移动换桶与删除
func TestGridMoveAndRemove(t *testing.T) {
	g := NewGrid(10)
	g.Insert(1, 5, 5)
	g.Insert(2, 6, 5)

	// 同一格子内移动
	g.Move(1, 8, 8)
	if g.AnyWithin(5, 5, 0.5) || !g.AnyWithin(8, 8, 0.5) {
		t.Error("Expected entity 1 to move from (5, 5) to (8, 8)")
	}

	// 跨格子移动
	g.Move(1, 35, 5)
	if !g.AnyWithin(35, 5, 0.5) {
		t.Error("Expected entity 1 at (35, 5)")
	}
	if g.AnyWithin(8, 8, 0.5) {
		t.Error("Expected old position to be empty")
	}

	g.Remove(2)
	g.Remove(2) // 重复删除被忽略
	g.Move(2, 0, 0) // 未索引的实体被忽略
	if g.Len() != 1 || g.AnyWithin(0, 0, 1) {
		t.Errorf("Expected only entity 1 indexed, len=%d", g.Len())
	}
	if g.AnyWithin(6, 5, 1) {
		t.Error("Removed entity must not be found")
	}

	// 重复插入等同于移动
	g.Insert(1, -20, -20)
	if g.Len() != 1 || !g.AnyWithin(-20, -20, 0.5) {
		t.Error("Expected re-insert to move the entity")
	}

	g.Clear()
	if g.Len() != 0 || g.AnyWithin(-20, -20, 100) {
		t.Error("Expected empty grid after Clear")
	}
}

// TestGridMatchesLinearScan 随机数据下与线性扫描结果一致
func TestGridMatchesLinearScan(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	g := NewGrid(18)

	type point struct{ x, y float64 }
	points := make(map[ecs.EntityID]point)
	for i := 1; i <= 500; i++ {
		id := ecs.EntityID(i)
		p := point{x: rng.Float64()*800 - 100, y: rng.Float64()*600 - 100}
		points[id] = p
		g.Insert(id, p.x, p.y)
	}
	// 部分移动、部分删除
	for i := 1; i <= 500; i += 3 {
		id := ecs.EntityID(i)
		p := point{x: points[id].x - rng.Float64()*60, y: points[id].y}
		points[id] = p
		g.Move(id, p.x, p.y)
	}
	for i := 2; i <= 500; i += 7 {
		id := ecs.EntityID(i)
		delete(points, id)
		g.Remove(id)
	}

	for i := 0; i < 2000; i++ {
		x, y := rng.Float64()*900-150, rng.Float64()*700-150
		r := rng.Float64() * 40

		expected := false
		for _, p := range points {
			if (p.x-x)*(p.x-x)+(p.y-y)*(p.y-y) < r*r {
				expected = true
				break
			}
		}
		if got := g.AnyWithin(x, y, r); got != expected {
			t.Fatalf("AnyWithin(%.2f, %.2f, %.2f) = %v, linear scan says %v", x, y, r, got, expected)
		}
	}
}

// TestGridAnyWithinAllocs 查询不分配内存
func TestGridAnyWithinAllocs(t *testing.T) {
	g := NewGrid(18)
	for i := 0; i < 2000; i++ {
		g.Insert(ecs.EntityID(i+1), float64(i%40)*20, float64(i/40)*12)
	}

	allocs := testing.AllocsPerRun(100, func() {
		_ = g.AnyWithin(400, 300, 18)
	})
	if allocs != 0 {
		t.Errorf("Expected 0 allocs per query, got %.1f", allocs)
	}
}

// BenchmarkGridAnyWithin 2000 个实体时的单次查询开销
func BenchmarkGridAnyWithin(b *testing.B) {
	g := NewGrid(18)
	for i := 0; i < 2000; i++ {
		g.Insert(ecs.EntityID(i+1), float64(i%40)*20, float64(i/40)*12)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = g.AnyWithin(770, float64(i%600), 18)
	}
}
