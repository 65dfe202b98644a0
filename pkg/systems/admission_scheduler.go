package systems

import (
	"fmt"
	"log"
	"math"
	"math/rand"
	"time"

	"github.com/decker502/spawner/pkg/config"
	"github.com/decker502/spawner/pkg/types"
)

// realizedRateWindow 实际放行速率的统计窗口（秒）
const realizedRateWindow = 1.0

// AdmissionScheduler 敌人生成准入调度器
//
// 职责：
//   - 接收生产者（波次逻辑、压力测试工具）的生成请求，按 FIFO 排队
//   - 每帧按信用值预算与单帧上限放行请求
//   - 为放行的请求计算出生点并调用生成工厂
//
// 架构说明：
//   - 由模拟的顶层上下文持有并注入到生产者，不是全局单例
//   - Enqueue* 与 Update 都在模拟线程上调用，不加锁
//   - 同一帧内在 Update 之前入队的请求对本帧可见
type AdmissionScheduler struct {
	factory SpawnFactory
	world   WorldQuery

	queue     *SpawnRequestQueue
	limiter   *AdaptiveRateLimiter
	geometry  *EdgeGeometry
	slots     *EdgeSlotTable
	placement *PlacementResolver

	maxPerTick   int
	resetCredits string
	verbose      bool

	nextSequence uint64

	activeCount       int
	processedLastTick int

	// 实际速率：窗口内累计放行数，每满 1 秒发布一次
	rateWindowElapsed float64
	rateWindowCount   int
	realizedRate      float64

	totalReleased int
	totalFailed   int
	totalRejected int
	totalCleared  int

	failStreak int
}

// NewAdmissionScheduler 创建调度器
//
// 参数：
//
//	cfg - 调度器配置，nil 时使用默认配置
//	factory - 生成工厂（必需）
//	world - 世界查询，可为 nil（在场数量视为 0，且永不重叠）
//	viewport - 视口提供者，可为 nil（使用合成范围）
//
// 返回：
//
//	*AdmissionScheduler - 调度器实例
//	error - 配置非法或缺少工厂时返回错误
func NewAdmissionScheduler(cfg *config.SpawnerConfig, factory SpawnFactory, world WorldQuery, viewport ViewportProvider) (*AdmissionScheduler, error) {
	if cfg == nil {
		cfg = config.DefaultSpawnerConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid spawner config: %w", err)
	}
	if factory == nil {
		return nil, fmt.Errorf("spawn factory cannot be nil")
	}

	seed := cfg.Placement.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	geometry := NewEdgeGeometry(viewport, cfg.Placement)
	slots := NewEdgeSlotTable(cfg.Placement.SlotCount, geometry)

	s := &AdmissionScheduler{
		factory:      factory,
		world:        world,
		queue:        NewSpawnRequestQueue(),
		limiter:      NewAdaptiveRateLimiter(cfg.RateLimit),
		geometry:     geometry,
		slots:        slots,
		placement:    NewPlacementResolver(geometry, slots, world, cfg.Placement, rand.New(rand.NewSource(seed))),
		maxPerTick:   cfg.RateLimit.MaxPerTick,
		resetCredits: cfg.RateLimit.ResetCredits,
		verbose:      cfg.Verbose,
	}

	for _, lane := range cfg.Lanes {
		s.RegisterLane(lane.ID, types.Point{X: lane.X, Y: lane.Y})
	}

	log.Printf("[AdmissionScheduler] Initialized: cap=%.1f/s, maxCredit=%.1f, maxPerTick=%d, edge x=%.1f y=[%.1f, %.1f], slots=%d, lanes=%d",
		s.limiter.CapPerSecond(), s.limiter.MaxCredit(), s.maxPerTick,
		geometry.RightX(), geometry.MinY(), geometry.MaxY(), slots.Len(), s.placement.LaneCount())

	return s, nil
}

// EnqueueDirect 以明确的世界坐标入队（放行时做重叠探测）
//
// 返回：
//
//	true 表示已入队，false 表示请求非法被丢弃
func (s *AdmissionScheduler) EnqueueDirect(desc types.EnemyDescriptor, pos types.Point, overrides any, callback SpawnCallback) bool {
	if !pos.IsFinite() {
		return s.reject(desc, fmt.Sprintf("non-finite position (%v, %v)", pos.X, pos.Y))
	}
	return s.enqueue(desc, Placement{Kind: PlacementDirect, Point: pos}, overrides, callback)
}

// EnqueueLane 以行锚点入队（不做重叠探测）
func (s *AdmissionScheduler) EnqueueLane(desc types.EnemyDescriptor, laneID int, overrides any, callback SpawnCallback) bool {
	if !s.placement.HasLane(laneID) {
		return s.reject(desc, fmt.Sprintf("unknown lane %d", laneID))
	}
	return s.enqueue(desc, Placement{Kind: PlacementLane, Lane: laneID}, overrides, callback)
}

// EnqueueEdgeSlot 以出生边槽位入队
//
// 参数：
//
//	slotIndex - 槽位索引，NextEdgeSlot 表示放行时取轮转的下一个槽位
func (s *AdmissionScheduler) EnqueueEdgeSlot(desc types.EnemyDescriptor, slotIndex int, callback SpawnCallback) bool {
	if slotIndex == NextEdgeSlot {
		return s.enqueue(desc, Placement{Kind: PlacementNextSlot}, nil, callback)
	}
	if slotIndex < 0 || slotIndex >= s.slots.Len() {
		return s.reject(desc, fmt.Sprintf("edge slot %d out of range [0, %d)", slotIndex, s.slots.Len()))
	}
	return s.enqueue(desc, Placement{Kind: PlacementEdgeSlot, Slot: slotIndex}, nil, callback)
}

// EnqueueNormalizedEdge 以出生边上的归一化位置入队，t 超出 [0,1] 时被钳制
func (s *AdmissionScheduler) EnqueueNormalizedEdge(desc types.EnemyDescriptor, t float64, callback SpawnCallback) bool {
	if math.IsNaN(t) || math.IsInf(t, 0) {
		return s.reject(desc, fmt.Sprintf("non-finite edge position t=%v", t))
	}
	return s.enqueue(desc, Placement{Kind: PlacementNormalized, T: clamp01(t)}, nil, callback)
}

func (s *AdmissionScheduler) enqueue(desc types.EnemyDescriptor, placement Placement, overrides any, callback SpawnCallback) bool {
	if !desc.IsValid() {
		return s.reject(desc, "empty enemy type")
	}

	s.queue.Push(&SpawnRequest{
		Descriptor: desc,
		Placement:  placement,
		Overrides:  overrides,
		Callback:   callback,
		Sequence:   s.nextSequence,
	})
	s.nextSequence++
	return true
}

func (s *AdmissionScheduler) reject(desc types.EnemyDescriptor, reason string) bool {
	s.totalRejected++
	log.Printf("[AdmissionScheduler] WARNING: Dropped malformed spawn request (enemy=%q): %s", desc.String(), reason)
	return false
}

// Update 每帧调用一次
//
// 流程：
//  1. 读取在场敌人数量
//  2. 更新预热状态并再生信用值
//  3. 在队列非空、信用值 >= 1、未达单帧上限时逐个放行
//  4. 更新实际速率统计
//
// 参数：
//
//	dt - 帧间隔（秒），非正数、NaN 或 Inf 时本帧不做任何事
func (s *AdmissionScheduler) Update(dt float64) {
	if !(dt > 0) || math.IsInf(dt, 0) {
		return
	}

	active := 0
	if s.world != nil {
		active = s.world.ActiveEntityCount()
	}
	s.activeCount = active

	s.limiter.ObserveBacklog(s.queue.Len())
	s.limiter.Regenerate(dt, active)

	processed := 0
	for processed < s.maxPerTick && s.queue.Len() > 0 {
		if !s.limiter.TrySpend() {
			break
		}
		req, _ := s.queue.PopFront()
		s.release(req)
		processed++
	}
	s.processedLastTick = processed

	if s.queue.Len() == 0 {
		s.limiter.ObserveBacklog(0)
	}

	s.updateRealizedRate(dt, processed)
}

// release 放行一个请求：计算出生点、调用工厂、回调结果
// 工厂返回空结果时请求仍视为已消费（信用值已扣除），不重试
func (s *AdmissionScheduler) release(req *SpawnRequest) {
	res := s.placement.Resolve(req.Placement)

	id, err := s.factory.Create(types.SpawnOrder{
		Descriptor: req.Descriptor,
		Position:   res.Position,
		Overrides:  req.Overrides,
		Sequence:   req.Sequence,
		Mode:       res.Mode,
		Attempts:   res.Attempts,
		Requested:  res.Requested,
	})

	result := SpawnResult{
		Entity:   id,
		OK:       err == nil && id != 0,
		Position: res.Position,
		Sequence: req.Sequence,
		Err:      err,
	}
	if !result.OK {
		result.Entity = 0
	}

	if result.OK {
		s.totalReleased++
		if s.failStreak > 0 {
			log.Printf("[AdmissionScheduler] Spawn factory recovered after %d empty results", s.failStreak)
			s.failStreak = 0
		}
		if s.verbose {
			log.Printf("[AdmissionScheduler] Released #%d %s -> entity %d at (%.1f, %.1f) via %s (%d probes)",
				req.Sequence, req.Descriptor.String(), id, res.Position.X, res.Position.Y, res.Mode, res.Attempts)
		}
	} else {
		s.totalFailed++
		s.failStreak++
		if s.failStreak == 1 {
			log.Printf("[AdmissionScheduler] WARNING: Spawn factory returned no instance for #%d %s: %v",
				req.Sequence, req.Descriptor.String(), err)
		}
	}

	if req.Callback != nil {
		req.Callback(result)
	}
}

func (s *AdmissionScheduler) updateRealizedRate(dt float64, processed int) {
	s.rateWindowElapsed += dt
	s.rateWindowCount += processed

	// 容差避免 60 次 1/60 累加后略小于 1.0
	for s.rateWindowElapsed >= realizedRateWindow-1e-9 {
		s.realizedRate = float64(s.rateWindowCount) / realizedRateWindow
		s.rateWindowCount = 0
		s.rateWindowElapsed -= realizedRateWindow
	}
}

// ResetForNewRun 新一局开始：丢弃所有待处理请求（不调用回调），
// 按策略重置信用值并清除预热状态
func (s *AdmissionScheduler) ResetForNewRun() {
	dropped := s.queue.Clear()
	s.totalCleared += dropped

	s.limiter.Reset(s.resetCredits)
	s.slots.ResetCursor()

	s.processedLastTick = 0
	s.rateWindowElapsed = 0
	s.rateWindowCount = 0
	s.realizedRate = 0
	s.failStreak = 0

	if dropped > 0 {
		log.Printf("[AdmissionScheduler] Reset for new run: dropped %d pending requests", dropped)
	}
}

// GetStats 返回统计快照
func (s *AdmissionScheduler) GetStats() SchedulerStats {
	return SchedulerStats{
		PendingCount:          s.queue.Len(),
		CurrentCredits:        s.limiter.Credits(),
		CapPerSecond:          s.limiter.CapPerSecond(),
		RealizedRatePerSecond: s.realizedRate,
		EffectiveCap:          s.limiter.EffectiveCap(),
		ActiveCount:           s.activeCount,
		BurstActive:           s.limiter.BurstActive(),
		WarmupProgress:        s.limiter.WarmupProgress(),
		ProcessedLastTick:     s.processedLastTick,
		TotalReleased:         s.totalReleased,
		TotalFailed:           s.totalFailed,
		TotalRejected:         s.totalRejected,
		TotalCleared:          s.totalCleared,
	}
}

// RegisterLane 注册行锚点（关卡初始化时调用）
func (s *AdmissionScheduler) RegisterLane(id int, anchor types.Point) {
	s.placement.RegisterLane(id, anchor)
}

// ResizeEdgeSlots 显式调整出生边槽位数量（O(n)，不要在 Update 中调用）
func (s *AdmissionScheduler) ResizeEdgeSlots(n int) error {
	if n < 1 {
		return fmt.Errorf("edge slot count must be >= 1, got %d", n)
	}
	s.slots.Rebuild(n, s.geometry)
	return nil
}

// HandleResize 视口尺寸变化时调用：重新计算出生边并按原数量重建槽位
func (s *AdmissionScheduler) HandleResize() {
	s.geometry.Recompute()
	s.slots.Rebuild(s.slots.Len(), s.geometry)
	log.Printf("[AdmissionScheduler] Viewport resized: edge x=%.1f y=[%.1f, %.1f]",
		s.geometry.RightX(), s.geometry.MinY(), s.geometry.MaxY())
}

// SetCapPerSecond 运行时调整速率上限
func (s *AdmissionScheduler) SetCapPerSecond(capPerSecond float64) error {
	if !(capPerSecond > 0) || math.IsInf(capPerSecond, 0) {
		return fmt.Errorf("capPerSecond must be a positive finite number, got %v", capPerSecond)
	}
	s.limiter.SetCapPerSecond(capPerSecond)
	return nil
}

// Geometry 返回出生边几何（只读使用）
func (s *AdmissionScheduler) Geometry() *EdgeGeometry {
	return s.geometry
}

// EdgeSlots 返回出生边槽位表（只读使用）
func (s *AdmissionScheduler) EdgeSlots() *EdgeSlotTable {
	return s.slots
}

// MaxPerTick 单帧处理上限
func (s *AdmissionScheduler) MaxPerTick() int {
	return s.maxPerTick
}
