// Package metrics 将调度器统计导出为 Prometheus 指标
package metrics

import (
	"github.com/decker502/spawner/pkg/systems"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "spawner"

// StatsSource 统计来源，*systems.AdmissionScheduler 实现了该接口
type StatsSource interface {
	GetStats() systems.SchedulerStats
}

// SpawnerCollector 在每次抓取时读取一次统计快照
//
// 调度器不加锁，抓取应在模拟线程上进行，
// 或者像 cmd/stress_spawn 那样通过 SnapshotSource 读取帧间快照
type SpawnerCollector struct {
	source StatsSource

	pending      *prometheus.Desc
	credits      *prometheus.Desc
	capPerSecond *prometheus.Desc
	realizedRate *prometheus.Desc
	effectiveCap *prometheus.Desc
	activeCount  *prometheus.Desc
	burstActive  *prometheus.Desc
	released     *prometheus.Desc
	failed       *prometheus.Desc
	rejected     *prometheus.Desc
	cleared      *prometheus.Desc
}

// NewSpawnerCollector 创建收集器
func NewSpawnerCollector(source StatsSource) *SpawnerCollector {
	desc := func(name, help string) *prometheus.Desc {
		return prometheus.NewDesc(prometheus.BuildFQName(namespace, "", name), help, nil, nil)
	}
	return &SpawnerCollector{
		source:       source,
		pending:      desc("pending_requests", "Spawn requests waiting in the queue."),
		credits:      desc("credits", "Currently spendable spawn credits."),
		capPerSecond: desc("cap_per_second", "Configured release ceiling per second."),
		realizedRate: desc("realized_rate_per_second", "Releases counted in the last full second."),
		effectiveCap: desc("effective_cap_per_second", "Release ceiling after load scaling and warmup."),
		activeCount:  desc("active_entities", "Active enemies observed on the last tick."),
		burstActive:  desc("warmup_active", "1 while the warmup ramp is active."),
		released:     desc("released_total", "Requests the spawn factory turned into entities."),
		failed:       desc("failed_total", "Requests consumed with an empty factory result."),
		rejected:     desc("rejected_total", "Malformed requests dropped at enqueue."),
		cleared:      desc("cleared_total", "Pending requests dropped by run resets."),
	}
}

// Describe 实现 prometheus.Collector
func (c *SpawnerCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.pending
	ch <- c.credits
	ch <- c.capPerSecond
	ch <- c.realizedRate
	ch <- c.effectiveCap
	ch <- c.activeCount
	ch <- c.burstActive
	ch <- c.released
	ch <- c.failed
	ch <- c.rejected
	ch <- c.cleared
}

// Collect 实现 prometheus.Collector
func (c *SpawnerCollector) Collect(ch chan<- prometheus.Metric) {
	s := c.source.GetStats()

	burst := 0.0
	if s.BurstActive {
		burst = 1
	}

	ch <- prometheus.MustNewConstMetric(c.pending, prometheus.GaugeValue, float64(s.PendingCount))
	ch <- prometheus.MustNewConstMetric(c.credits, prometheus.GaugeValue, s.CurrentCredits)
	ch <- prometheus.MustNewConstMetric(c.capPerSecond, prometheus.GaugeValue, s.CapPerSecond)
	ch <- prometheus.MustNewConstMetric(c.realizedRate, prometheus.GaugeValue, s.RealizedRatePerSecond)
	ch <- prometheus.MustNewConstMetric(c.effectiveCap, prometheus.GaugeValue, s.EffectiveCap)
	ch <- prometheus.MustNewConstMetric(c.activeCount, prometheus.GaugeValue, float64(s.ActiveCount))
	ch <- prometheus.MustNewConstMetric(c.burstActive, prometheus.GaugeValue, burst)
	ch <- prometheus.MustNewConstMetric(c.released, prometheus.CounterValue, float64(s.TotalReleased))
	ch <- prometheus.MustNewConstMetric(c.failed, prometheus.CounterValue, float64(s.TotalFailed))
	ch <- prometheus.MustNewConstMetric(c.rejected, prometheus.CounterValue, float64(s.TotalRejected))
	ch <- prometheus.MustNewConstMetric(c.cleared, prometheus.CounterValue, float64(s.TotalCleared))
}
