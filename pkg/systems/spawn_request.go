package systems

import (
	"github.com/decker502/spawner/pkg/ecs"
	"github.com/decker502/spawner/pkg/types"
)

// NextEdgeSlot 传给 EnqueueEdgeSlot 表示使用轮转的下一个槽位
const NextEdgeSlot = -1

// PlacementKind 生成请求的出生点策略（封闭集合）
type PlacementKind int

const (
	PlacementDirect     PlacementKind = iota // 明确的世界坐标
	PlacementLane                            // 行锚点
	PlacementEdgeSlot                        // 指定出生边槽位
	PlacementNextSlot                        // 轮转的下一个槽位
	PlacementNormalized                      // 出生边上的归一化位置 t ∈ [0,1]
)

// Placement 出生点策略及其参数，只有 Kind 对应的字段有意义
type Placement struct {
	Kind  PlacementKind
	Point types.Point // PlacementDirect
	Lane  int         // PlacementLane
	Slot  int         // PlacementEdgeSlot
	T     float64     // PlacementNormalized
}

// SpawnResult 生成结果，通过请求的回调返回
//
// OK 为 false 时 Entity 为 0（工厂耗尽或创建失败），请求已被消费，不会重试
type SpawnResult struct {
	Entity   ecs.EntityID
	OK       bool
	Position types.Point
	Sequence uint64
	Err      error
}

// SpawnCallback 生成完成回调
type SpawnCallback func(result SpawnResult)

// SpawnRequest 一个待放行的生成请求，入队后不可修改
type SpawnRequest struct {
	Descriptor types.EnemyDescriptor
	Placement  Placement
	Overrides  any
	Callback   SpawnCallback
	Sequence   uint64
}

// SpawnFactory 生成工厂（外部协作者）
//
// 返回 0 表示没有可用实例（如对象池耗尽），可以被重复调用
type SpawnFactory interface {
	Create(order types.SpawnOrder) (ecs.EntityID, error)
}

// WorldQuery 世界状态查询（外部协作者），两个方法都必须是纯查询
type WorldQuery interface {
	// ActiveEntityCount 当前在场的敌人数量，每帧调用一次
	ActiveEntityCount() int

	// Overlaps 以 pos 为圆心、radius 为半径的范围内是否已有敌人
	Overlaps(pos types.Point, radius float64) bool
}

// Viewport 正交视口状态
type Viewport struct {
	HalfHeight float64 // 正交半高（世界单位）
	Aspect     float64 // 宽高比 width/height
	X          float64 // 视口中心X（世界坐标）
	Y          float64 // 视口中心Y（世界坐标）
}

// ViewportProvider 视口提供者，构造时注入，只在启动和尺寸变化时读取
type ViewportProvider interface {
	Viewport() (Viewport, bool)
}

// SchedulerStats 调度器统计快照
type SchedulerStats struct {
	PendingCount          int
	CurrentCredits        float64
	CapPerSecond          float64
	RealizedRatePerSecond float64

	EffectiveCap      float64 // 负载缩放与预热之后的当前速率上限
	ActiveCount       int     // 本帧读取的在场敌人数量
	BurstActive       bool    // 是否处于预热期
	WarmupProgress    float64 // 预热进度 0~1，未预热时为 1
	ProcessedLastTick int

	TotalReleased int // 工厂成功创建的数量
	TotalFailed   int // 工厂返回空结果的数量
	TotalRejected int // 入队时因请求非法被丢弃的数量
	TotalCleared  int // ResetForNewRun 丢弃的待处理数量
}
