// cmd/stress_spawn/main.go
// 生成调度器压力测试工具（无窗口）
//
// 用法：
//   go run cmd/stress_spawn/main.go --count=1000 --seconds=10
//   go run cmd/stress_spawn/main.go --count=5000 --metrics-addr=:9100 --realtime

package main

import (
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/decker502/spawner/pkg/config"
	"github.com/decker502/spawner/pkg/ecs"
	"github.com/decker502/spawner/pkg/entities"
	"github.com/decker502/spawner/pkg/metrics"
	"github.com/decker502/spawner/pkg/systems"
	"github.com/decker502/spawner/pkg/types"
)

var (
	configPath  = flag.String("config", "data/spawner.yaml", "调度器配置文件路径")
	enemyStats  = flag.String("enemies", "data/enemy_stats.yaml", "敌人属性文件路径")
	count       = flag.Int("count", 1000, "一次性入队的请求数量")
	seconds     = flag.Float64("seconds", 10, "模拟时长（秒）")
	tps         = flag.Int("tps", 60, "每秒模拟帧数")
	capacity    = flag.Int("capacity", 0, "敌人对象池容量，0 表示不限制")
	metricsAddr = flag.String("metrics-addr", "", "Prometheus 指标监听地址，如 :9100（为空则不启动）")
	realtime    = flag.Bool("realtime", false, "按真实时间推进（便于抓取指标）")
	verbose     = flag.Bool("verbose", false, "输出每一次放行的日志")
)

// staticViewport 固定 800x600 的屏幕视口
type staticViewport struct {
	width, height float64
}

func (v staticViewport) Viewport() (systems.Viewport, bool) {
	return systems.Viewport{
		HalfHeight: v.height / 2,
		Aspect:     v.width / v.height,
		X:          v.width / 2,
		Y:          v.height / 2,
	}, true
}

func main() {
	flag.Parse()

	if *tps <= 0 || *seconds <= 0 || *count < 0 {
		fmt.Fprintln(os.Stderr, "tps 与 seconds 必须为正数，count 不能为负数")
		os.Exit(2)
	}

	cfg, err := config.LoadSpawnerConfig(*configPath)
	if err != nil {
		log.Printf("[StressSpawn] Warning: %v (using defaults)", err)
		cfg = config.DefaultScreenSpawnerConfig()
	}
	cfg.Verbose = cfg.Verbose || *verbose

	enemyTypes := entities.DefaultEnemyTypes()
	if stats, err := config.LoadEnemyStats(*enemyStats); err != nil {
		log.Printf("[StressSpawn] Warning: %v (using built-in enemy types)", err)
	} else {
		enemyTypes = entities.EnemyTypesFromStats(stats)
	}

	em := ecs.NewEntityManager()
	factory := entities.NewEnemyFactory(em, enemyTypes, *capacity)
	world := systems.NewEntityWorld(factory.Index())
	viewport := staticViewport{width: 800, height: 600}

	scheduler, err := systems.NewAdmissionScheduler(cfg, factory, world, viewport)
	if err != nil {
		log.Fatalf("[StressSpawn] Failed to create scheduler: %v", err)
	}
	movement := systems.NewEnemyMovementSystem(em, factory, 0)

	snapshot := &metrics.SnapshotSource{}
	if *metricsAddr != "" {
		startMetricsServer(*metricsAddr, snapshot)
	}

	enqueueMixed(scheduler, factory, cfg, *count)
	log.Printf("[StressSpawn] Enqueued %d requests (pending=%d, rejected=%d)",
		*count, scheduler.GetStats().PendingCount, scheduler.GetStats().TotalRejected)

	dt := 1.0 / float64(*tps)
	totalTicks := int(*seconds * float64(*tps))

	var ticker *time.Ticker
	if *realtime {
		ticker = time.NewTicker(time.Second / time.Duration(*tps))
		defer ticker.Stop()
	}

	log.Printf("[StressSpawn] Edge x=%.1f y=[%.1f, %.1f] fallback=%v, %d slots, max %d per tick",
		scheduler.Geometry().RightX(), scheduler.Geometry().MinY(), scheduler.Geometry().MaxY(),
		scheduler.Geometry().UsingFallback(), scheduler.EdgeSlots().Len(), scheduler.MaxPerTick())

	fmt.Printf("%6s %8s %8s %8s %8s %8s %8s %8s\n",
		"time", "pending", "credits", "eff/s", "real/s", "active", "released", "failed")

	for tick := 1; tick <= totalTicks; tick++ {
		if ticker != nil {
			<-ticker.C
		}

		scheduler.Update(dt)
		movement.Update(dt)
		snapshot.Store(scheduler.GetStats())

		if tick%*tps == 0 {
			s := scheduler.GetStats()
			fmt.Printf("%5.1fs %8d %8.2f %8.1f %8.1f %8d %8d %8d\n",
				float64(tick)*dt, s.PendingCount, s.CurrentCredits, s.EffectiveCap,
				s.RealizedRatePerSecond, s.ActiveCount, s.TotalReleased, s.TotalFailed)
		}
	}

	s := scheduler.GetStats()
	fmt.Printf("\n完成: released=%d failed=%d rejected=%d pending=%d live=%d\n",
		s.TotalReleased, s.TotalFailed, s.TotalRejected, s.PendingCount, factory.Live())
}

// enqueueMixed 按各种出生点策略轮流入队
func enqueueMixed(s *systems.AdmissionScheduler, factory *entities.EnemyFactory, cfg *config.SpawnerConfig, n int) {
	var enemyTypes []string
	for _, name := range []string{"basic", "conehead", "buckethead", "flag"} {
		if factory.HasType(name) {
			enemyTypes = append(enemyTypes, name)
		}
	}
	if len(enemyTypes) == 0 {
		log.Fatalf("[StressSpawn] None of the stress enemy types are registered")
	}
	slotCount := s.EdgeSlots().Len()
	g := s.Geometry()

	for i := 0; i < n; i++ {
		desc := types.EnemyDescriptor{Type: enemyTypes[i%len(enemyTypes)]}

		switch i % 5 {
		case 0:
			if len(cfg.Lanes) > 0 {
				s.EnqueueLane(desc, cfg.Lanes[i%len(cfg.Lanes)].ID, nil, nil)
				continue
			}
			fallthrough
		case 1:
			s.EnqueueEdgeSlot(desc, i%slotCount, nil)
		case 2:
			s.EnqueueEdgeSlot(desc, systems.NextEdgeSlot, nil)
		case 3:
			s.EnqueueNormalizedEdge(desc, float64(i%11)/10, nil)
		case 4:
			// 同一点的直接请求依靠重叠探测错开
			s.EnqueueDirect(desc, types.Point{X: g.RightX(), Y: (g.MinY() + g.MaxY()) / 2}, nil, nil)
		}
	}
}

// startMetricsServer 在后台提供 /metrics
func startMetricsServer(addr string, source metrics.StatsSource) {
	registry := prometheus.NewRegistry()
	registry.MustRegister(metrics.NewSpawnerCollector(source))

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	go func() {
		log.Printf("[StressSpawn] Serving metrics on %s/metrics", addr)
		if err := http.ListenAndServe(addr, mux); err != nil {
			log.Printf("[StressSpawn] Metrics server stopped: %v", err)
		}
	}()
}
