package systems

import (
	"math/rand"

	"github.com/decker502/spawner/pkg/config"
	"github.com/decker502/spawner/pkg/types"
)

// Resolution 出生点计算结果
type Resolution struct {
	Position  types.Point
	Mode      types.PlacementMode
	Attempts  int         // 重叠探测次数，行锚点为 0
	Requested types.Point // 探测前的基准点
}

// PlacementResolver 将生成请求的出生点策略转换为世界坐标
//
// 重叠探测的代价有上限：最多 attempts 次查询。第 0 次检测基准点，
// 第 i 次在基准点上下交替偏移 step*i（+step, -2step, +3step, ...）。
// 全部重叠时退回出生边上的均匀随机点，接受可能的重叠以保证前进。
type PlacementResolver struct {
	geometry *EdgeGeometry
	slots    *EdgeSlotTable
	world    WorldQuery
	lanes    map[int]types.Point
	rng      *rand.Rand

	attempts int
	radius   float64
	step     float64
}

// NewPlacementResolver 创建出生点计算器
//
// 参数：
//
//	geometry - 出生边几何
//	slots - 出生边槽位表
//	world - 世界查询，可为 nil（视为永不重叠）
//	cfg - 探测参数
//	rng - 随机回退点使用的随机源
func NewPlacementResolver(geometry *EdgeGeometry, slots *EdgeSlotTable, world WorldQuery, cfg config.PlacementConfig, rng *rand.Rand) *PlacementResolver {
	return &PlacementResolver{
		geometry: geometry,
		slots:    slots,
		world:    world,
		lanes:    make(map[int]types.Point),
		rng:      rng,
		attempts: cfg.ProbeAttempts,
		radius:   cfg.ProbeRadius,
		step:     cfg.ProbeStep,
	}
}

// RegisterLane 注册行锚点（关卡初始化时调用）
func (r *PlacementResolver) RegisterLane(id int, anchor types.Point) {
	r.lanes[id] = anchor
}

// HasLane 行是否已注册
func (r *PlacementResolver) HasLane(id int) bool {
	_, ok := r.lanes[id]
	return ok
}

// LaneCount 已注册的行数量
func (r *PlacementResolver) LaneCount() int {
	return len(r.lanes)
}

// Resolve 计算请求的出生点
func (r *PlacementResolver) Resolve(p Placement) Resolution {
	switch p.Kind {
	case PlacementDirect:
		return r.probe(p.Point, false, types.PlacementModeDirect)

	case PlacementLane:
		anchor, ok := r.lanes[p.Lane]
		if !ok {
			// 入队时已校验，行锚点不会被移除
			return r.fallback(anchor)
		}
		return Resolution{Position: anchor, Mode: types.PlacementModeLane, Requested: anchor}

	case PlacementEdgeSlot:
		return r.probe(r.slots.At(p.Slot), true, types.PlacementModeEdgeSlot)

	case PlacementNextSlot:
		_, base := r.slots.Next()
		return r.probe(base, true, types.PlacementModeEdgeSlot)

	case PlacementNormalized:
		return r.probe(r.geometry.PointAt(p.T), true, types.PlacementModeNormalized)
	}

	return r.fallback(types.Point{X: r.geometry.RightX()})
}

// probe 重叠探测
//
// onEdge 为 true 时基准点先限制在出生边范围内，超出 [minY, maxY] 的候选点
// 直接跳过、不消耗查询次数；偏移超过出生边跨度后两侧都不会再有候选点，探测结束。
// Attempts 为实际执行的重叠查询次数，不超过 attempts。
func (r *PlacementResolver) probe(base types.Point, onEdge bool, mode types.PlacementMode) Resolution {
	if onEdge {
		base.Y = r.geometry.ClampY(base.Y)
	}
	span := r.geometry.Span()

	queries := 0
	for i := 0; queries < r.attempts; i++ {
		candidate := base
		if i > 0 {
			offset := r.step * float64(i)
			if onEdge && offset > span {
				break
			}
			if i%2 == 0 {
				offset = -offset
			}
			candidate.Y += offset
		}
		if onEdge && (candidate.Y < r.geometry.MinY() || candidate.Y > r.geometry.MaxY()) {
			continue
		}

		queries++
		if !r.overlaps(candidate) {
			return Resolution{Position: candidate, Mode: mode, Attempts: queries, Requested: base}
		}
	}

	res := r.fallback(base)
	res.Attempts = queries
	return res
}

func (r *PlacementResolver) fallback(base types.Point) Resolution {
	return Resolution{
		Position:  r.geometry.RandomPoint(r.rng),
		Mode:      types.PlacementModeFallback,
		Requested: base,
	}
}

func (r *PlacementResolver) overlaps(p types.Point) bool {
	if r.world == nil {
		return false
	}
	return r.world.Overlaps(p, r.radius)
}
