package config

// 800x600 屏幕视口下的草坪网格（像素），行锚点取每行中心
const (
	screenHeight      = 600.0
	screenLaneCount   = 5
	screenLaneTopY    = 72.0
	screenLaneHeight  = 100.0
	screenLaneAnchorX = 770.0
)

// DefaultScreenSpawnerConfig 像素坐标下的默认配置，与 data/spawner.yaml 一致
//
// DefaultSpawnerConfig 的出生点参数是抽象世界单位，放到 800x600 的屏幕视口上时
// 探测半径远小于敌人半径。没有配置文件可读时（移动端、路径为空或文件不存在），
// 演示程序与压力测试工具使用此配置。
func DefaultScreenSpawnerConfig() *SpawnerConfig {
	cfg := DefaultSpawnerConfig()
	cfg.Placement = PlacementConfig{
		ProbeAttempts:    8,
		ProbeRadius:      18,
		ProbeStep:        22,
		EdgePadding:      40,
		MinSpan:          40,
		EdgeOffsetX:      -30,
		SlotCount:        10,
		FallbackHalfSpan: 250,
		AnchorX:          screenLaneAnchorX,
		AnchorY:          screenHeight / 2,
	}

	cfg.Lanes = make([]LaneAnchorConfig, 0, screenLaneCount)
	for i := 0; i < screenLaneCount; i++ {
		cfg.Lanes = append(cfg.Lanes, LaneAnchorConfig{
			ID: i + 1,
			X:  screenLaneAnchorX,
			Y:  screenLaneTopY + screenLaneHeight*float64(i) + screenLaneHeight/2,
		})
	}
	return cfg
}
