package app

import "github.com/decker502/spawner/pkg/systems"

// screenViewport 屏幕像素即世界坐标的正交视口
type screenViewport struct {
	width  float64
	height float64
}

// Viewport 实现 systems.ViewportProvider
func (v *screenViewport) Viewport() (systems.Viewport, bool) {
	if v.width <= 0 || v.height <= 0 {
		return systems.Viewport{}, false
	}
	return systems.Viewport{
		HalfHeight: v.height / 2,
		Aspect:     v.width / v.height,
		X:          v.width / 2,
		Y:          v.height / 2,
	}, true
}

// resize 更新尺寸，返回尺寸是否变化
func (v *screenViewport) resize(width, height float64) bool {
	if v.width == width && v.height == height {
		return false
	}
	v.width = width
	v.height = height
	return true
}
