package game

import (
	"fmt"
	"log"

	"github.com/decker502/spawner/pkg/config"
	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"
)

// SpawnerTuning 运行时调整过的调度器参数
// nil 字段表示未调整，沿用配置文件的值
type SpawnerTuning struct {
	CapPerSecond        *float64 `yaml:"capPerSecond,omitempty"`
	MaxPerTick          *int     `yaml:"maxPerTick,omitempty"`
	WarmupSeconds       *float64 `yaml:"warmupSeconds,omitempty"`
	HalfRateActiveCount *int     `yaml:"halfRateActiveCount,omitempty"`
}

// 存储路径常量
const (
	spawnerObject   = "spawner"
	spawnerProperty = "tuning"
)

// SpawnerSettingsManager 调度器参数持久化管理器
//
// 使用 gdata 跨平台存储，数据格式为 YAML；
// gdataManager 为 nil 时进入降级模式，只在内存中保存
type SpawnerSettingsManager struct {
	gdataManager *gdata.Manager
	tuning       *SpawnerTuning
}

// NewSpawnerSettingsManager 创建参数管理器并尝试加载已保存的参数
//
// 参数：
//   - gdataManager: gdata 跨平台存储管理器，可为 nil
//
// 返回：
//   - *SpawnerSettingsManager: 管理器实例（加载失败时使用空参数，不影响创建）
func NewSpawnerSettingsManager(gdataManager *gdata.Manager) *SpawnerSettingsManager {
	sm := &SpawnerSettingsManager{
		gdataManager: gdataManager,
		tuning:       &SpawnerTuning{},
	}

	if err := sm.Load(); err != nil {
		log.Printf("[SpawnerSettingsManager] Warning: Failed to load tuning: %v (using config values)", err)
	}

	return sm
}

// OpenGdataManager 打开 gdata 存储，失败时返回 nil（降级模式）
func OpenGdataManager(appName string) *gdata.Manager {
	manager, err := gdata.Open(gdata.Config{
		AppName: appName,
	})
	if err != nil {
		log.Printf("[SpawnerSettingsManager] Warning: gdata unavailable: %v (tuning will not persist)", err)
		return nil
	}
	return manager
}

// Load 从 gdata 加载参数
func (sm *SpawnerSettingsManager) Load() error {
	sm.tuning = &SpawnerTuning{}

	if sm.gdataManager == nil {
		return nil
	}
	if !sm.gdataManager.ObjectPropExists(spawnerObject, spawnerProperty) {
		return nil
	}

	data, err := sm.gdataManager.LoadObjectProp(spawnerObject, spawnerProperty)
	if err != nil {
		return fmt.Errorf("failed to load spawner tuning: %w", err)
	}

	var loaded SpawnerTuning
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		return fmt.Errorf("failed to unmarshal spawner tuning: %w", err)
	}

	sm.tuning = &loaded
	log.Printf("[SpawnerSettingsManager] Tuning loaded successfully")
	return nil
}

// Save 保存参数到 gdata，降级模式下直接返回 nil
func (sm *SpawnerSettingsManager) Save() error {
	if sm.gdataManager == nil {
		return nil
	}

	data, err := yaml.Marshal(sm.tuning)
	if err != nil {
		return fmt.Errorf("failed to marshal spawner tuning: %w", err)
	}

	if err := sm.gdataManager.SaveObjectProp(spawnerObject, spawnerProperty, data); err != nil {
		return fmt.Errorf("failed to save spawner tuning: %w", err)
	}

	log.Printf("[SpawnerSettingsManager] Tuning saved successfully")
	return nil
}

// GetTuning 获取当前参数
func (sm *SpawnerSettingsManager) GetTuning() *SpawnerTuning {
	return sm.tuning
}

// SetCapPerSecond 记录速率上限（需调用 Save 持久化）
func (sm *SpawnerSettingsManager) SetCapPerSecond(v float64) {
	sm.tuning.CapPerSecond = &v
}

// SetMaxPerTick 记录单帧上限（需调用 Save 持久化）
func (sm *SpawnerSettingsManager) SetMaxPerTick(v int) {
	sm.tuning.MaxPerTick = &v
}

// SetWarmupSeconds 记录预热时长（需调用 Save 持久化）
func (sm *SpawnerSettingsManager) SetWarmupSeconds(v float64) {
	sm.tuning.WarmupSeconds = &v
}

// SetHalfRateActiveCount 记录半速在场数量（需调用 Save 持久化）
func (sm *SpawnerSettingsManager) SetHalfRateActiveCount(v int) {
	sm.tuning.HalfRateActiveCount = &v
}

// Clear 清除所有调整（需调用 Save 持久化）
func (sm *SpawnerSettingsManager) Clear() {
	sm.tuning = &SpawnerTuning{}
}

// ApplyTo 将已调整的参数覆盖到配置副本上并验证
//
// 返回：
//   - *config.SpawnerConfig: 覆盖后的新配置（不修改传入的配置）
//   - error: 覆盖后的配置非法时返回错误
func (sm *SpawnerSettingsManager) ApplyTo(cfg *config.SpawnerConfig) (*config.SpawnerConfig, error) {
	merged := *cfg
	merged.Lanes = append([]config.LaneAnchorConfig(nil), cfg.Lanes...)

	t := sm.tuning
	if t.CapPerSecond != nil {
		merged.RateLimit.CapPerSecond = *t.CapPerSecond
	}
	if t.MaxPerTick != nil {
		merged.RateLimit.MaxPerTick = *t.MaxPerTick
	}
	if t.WarmupSeconds != nil {
		merged.RateLimit.WarmupSeconds = *t.WarmupSeconds
	}
	if t.HalfRateActiveCount != nil {
		merged.RateLimit.HalfRateActiveCount = *t.HalfRateActiveCount
	}

	if err := merged.Validate(); err != nil {
		return nil, fmt.Errorf("tuned spawner config is invalid: %w", err)
	}
	return &merged, nil
}
