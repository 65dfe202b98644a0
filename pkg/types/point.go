// Package types 定义共享的基础类型
package types

import "math"

// Point 世界坐标中的一个点
type Point struct {
	X float64
	Y float64
}

// IsFinite 坐标是否为有限值（NaN/Inf 视为非法输入）
func (p Point) IsFinite() bool {
	return !math.IsNaN(p.X) && !math.IsNaN(p.Y) && !math.IsInf(p.X, 0) && !math.IsInf(p.Y, 0)
}
