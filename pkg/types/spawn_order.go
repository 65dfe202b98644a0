package types

// PlacementMode 实际采用的出生点策略
type PlacementMode int

const (
	PlacementModeDirect PlacementMode = iota
	PlacementModeLane
	PlacementModeEdgeSlot
	PlacementModeNormalized
	PlacementModeFallback // 所有探测都重叠，退回出生边上的随机点
)

// String 返回策略名（日志用）
func (m PlacementMode) String() string {
	switch m {
	case PlacementModeDirect:
		return "direct"
	case PlacementModeLane:
		return "lane"
	case PlacementModeEdgeSlot:
		return "edge-slot"
	case PlacementModeNormalized:
		return "normalized"
	case PlacementModeFallback:
		return "fallback"
	default:
		return "unknown"
	}
}

// SpawnOrder 交给生成工厂的一次生成指令
//
// Descriptor 与 Position 决定创建什么、放在哪里；
// 其余字段原样透传，供工厂记录或应用
type SpawnOrder struct {
	Descriptor EnemyDescriptor
	Position   Point

	// Overrides 请求携带的平衡性覆盖数据，调度器不做修改
	Overrides any

	// Sequence 请求的入队序号
	Sequence uint64

	// Mode 实际采用的出生点策略
	Mode PlacementMode

	// Attempts 重叠探测次数（行锚点为 0）
	Attempts int

	// Requested 探测前的基准点
	Requested Point
}
