package components

import "github.com/decker502/spawner/pkg/types"

// EnemyComponent 敌人标记组件
//
// 由敌人工厂在放行时添加；在场敌人数量（负载缩放的输入）
// 即拥有该组件的实体数量
type EnemyComponent struct {
	// Type 敌人类型，如 "basic", "conehead"
	Type string

	// Variant 变体（皮肤/精英等），可为空
	Variant string

	// Health 当前生命值
	Health int

	// Overrides 生成请求携带的平衡性覆盖数据，原样透传
	Overrides any

	// Sequence 生成请求的入队序号，用于追踪放行顺序
	Sequence uint64
}

// PlacementComponent 记录实体是如何被放置的（调试与测试用）
type PlacementComponent struct {
	Mode types.PlacementMode

	// Attempts 探测次数（0 表示未探测，如行锚点）
	Attempts int

	// Requested 探测前的基准点
	Requested types.Point
}
