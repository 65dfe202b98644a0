package components

// PositionComponent 实体的世界坐标
type PositionComponent struct {
	X float64
	Y float64
}

// VelocityComponent 实体速度（世界单位/秒）
// 负 VX 表示从右向左移动
type VelocityComponent struct {
	VX float64
	VY float64
}
