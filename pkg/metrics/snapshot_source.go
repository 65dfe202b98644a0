package metrics

import (
	"sync"

	"github.com/decker502/spawner/pkg/systems"
)

// SnapshotSource 帧间统计快照
//
// 模拟线程每帧调用 Store，HTTP 抓取线程通过 GetStats 读取，
// 调度器本身因此无需加锁
type SnapshotSource struct {
	mu    sync.RWMutex
	stats systems.SchedulerStats
}

// Store 保存一份快照（模拟线程调用）
func (s *SnapshotSource) Store(stats systems.SchedulerStats) {
	s.mu.Lock()
	s.stats = stats
	s.mu.Unlock()
}

// GetStats 返回最近一份快照
func (s *SnapshotSource) GetStats() systems.SchedulerStats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stats
}
