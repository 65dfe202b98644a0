package systems

import "github.com/decker502/spawner/pkg/types"

// EdgeSlotTable 出生边上均匀分布的固定槽位
//
// Rebuild 是 O(n) 的，只能在帧外显式调用，放行循环内只读
type EdgeSlotTable struct {
	slots []types.Point
	next  int
}

// NewEdgeSlotTable 按几何创建 n 个槽位
func NewEdgeSlotTable(n int, g *EdgeGeometry) *EdgeSlotTable {
	t := &EdgeSlotTable{}
	t.Rebuild(n, g)
	return t
}

// Rebuild 重新分配槽位：n == 1 时取中点，否则包含两端点均匀分布
// n < 1 按 1 处理；轮转游标回到 0
func (t *EdgeSlotTable) Rebuild(n int, g *EdgeGeometry) {
	if n < 1 {
		n = 1
	}
	if cap(t.slots) >= n {
		t.slots = t.slots[:n]
	} else {
		t.slots = make([]types.Point, n)
	}

	for i := range t.slots {
		y := (g.MinY() + g.MaxY()) / 2
		if n > 1 {
			y = g.MinY() + g.Span()*float64(i)/float64(n-1)
		}
		t.slots[i] = types.Point{X: g.RightX(), Y: y}
	}
	t.next = 0
}

// Len 槽位数量
func (t *EdgeSlotTable) Len() int {
	return len(t.slots)
}

// At 返回第 i 个槽位，越界时取模（入队后槽位表可能被缩小）
func (t *EdgeSlotTable) At(i int) types.Point {
	n := len(t.slots)
	i %= n
	if i < 0 {
		i += n
	}
	return t.slots[i]
}

// Next 返回游标处的槽位并前进一格
func (t *EdgeSlotTable) Next() (int, types.Point) {
	i := t.next
	t.next = (t.next + 1) % len(t.slots)
	return i, t.slots[i]
}

// Cursor 下一次 Next 将返回的槽位索引
func (t *EdgeSlotTable) Cursor() int {
	return t.next
}

// ResetCursor 游标回到第一个槽位
func (t *EdgeSlotTable) ResetCursor() {
	t.next = 0
}
