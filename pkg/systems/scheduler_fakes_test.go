package systems

import (
	"errors"

	"github.com/decker502/spawner/pkg/config"
	"github.com/decker502/spawner/pkg/ecs"
	"github.com/decker502/spawner/pkg/types"
)

var errFakePoolExhausted = errors.New("fake pool exhausted")

// fakeFactory 记录收到的生成指令，capacity > 0 时超出容量返回空结果
type fakeFactory struct {
	orders   []types.SpawnOrder
	capacity int
	nextID   ecs.EntityID
}

func (f *fakeFactory) Create(order types.SpawnOrder) (ecs.EntityID, error) {
	f.orders = append(f.orders, order)
	if f.capacity > 0 && int(f.nextID) >= f.capacity {
		return 0, errFakePoolExhausted
	}
	f.nextID++
	return f.nextID, nil
}

func (f *fakeFactory) sequences() []uint64 {
	seqs := make([]uint64, 0, len(f.orders))
	for _, o := range f.orders {
		seqs = append(seqs, o.Sequence)
	}
	return seqs
}

// fakeWorld 在场数量固定，occupied 决定某点是否重叠；queries 记录所有被查询的点
type fakeWorld struct {
	active   int
	occupied func(p types.Point) bool
	queries  []types.Point
}

func (w *fakeWorld) ActiveEntityCount() int {
	return w.active
}

func (w *fakeWorld) Overlaps(pos types.Point, radius float64) bool {
	w.queries = append(w.queries, pos)
	if w.occupied == nil {
		return false
	}
	return w.occupied(pos)
}

func allOccupied(types.Point) bool { return true }

// fakeViewport 可在测试中随时修改的视口
type fakeViewport struct {
	vp Viewport
	ok bool
}

func (v *fakeViewport) Viewport() (Viewport, bool) {
	return v.vp, v.ok
}

// testConfig 返回确定性的测试配置：固定种子，关闭预热与负载缩放
func testConfig() *config.SpawnerConfig {
	cfg := config.DefaultSpawnerConfig()
	cfg.RateLimit.WarmupSeconds = 0
	cfg.RateLimit.HalfRateActiveCount = 0
	cfg.Placement.Seed = 42
	cfg.Placement.AnchorX = 10
	cfg.Placement.AnchorY = 0
	cfg.Placement.FallbackHalfSpan = 5
	return cfg
}

func basicEnemy() types.EnemyDescriptor {
	return types.EnemyDescriptor{Type: "basic"}
}

// runTicks 以固定 dt 更新 n 帧，返回每帧处理数量
func runTicks(s *AdmissionScheduler, n int, dt float64) []int {
	processed := make([]int, 0, n)
	for i := 0; i < n; i++ {
		s.Update(dt)
		processed = append(processed, s.GetStats().ProcessedLastTick)
	}
	return processed
}

func sum(values []int) int {
	total := 0
	for _, v := range values {
		total += v
	}
	return total
}
