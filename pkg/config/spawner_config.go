package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// 每局重置时的信用值策略
const (
	ResetCreditsFull  = "full"  // 重置为满额（min(maxCredit, capPerSecond)）
	ResetCreditsEmpty = "empty" // 重置为 0，从零开始积累
)

// SpawnerConfig 敌人生成调度器配置
//
// 配置文件位置: data/spawner.yaml
// 未在文件中出现的字段保留 DefaultSpawnerConfig 的默认值
type SpawnerConfig struct {
	// RateLimit 放行速率控制
	RateLimit RateLimitConfig `yaml:"rateLimit"`

	// Placement 出生点计算与重叠探测
	Placement PlacementConfig `yaml:"placement"`

	// Lanes 关卡固定的行锚点（行生成策略直接使用，不做探测）
	Lanes []LaneAnchorConfig `yaml:"lanes"`

	// Verbose 是否输出每一次放行的调试日志
	Verbose bool `yaml:"verbose"`
}

// RateLimitConfig 速率限制配置
type RateLimitConfig struct {
	// CapPerSecond 每秒最多放行的敌人数量（配置上限）
	CapPerSecond float64 `yaml:"capPerSecond"`

	// MaxCredit 信用值累积上限，防止长时间空闲后的补偿性爆发
	MaxCredit float64 `yaml:"maxCredit"`

	// MaxPerTick 单帧处理上限，保证最坏情况下的帧耗时
	MaxPerTick int `yaml:"maxPerTick"`

	// HalfRateActiveCount 在场敌人达到该数量时速率降到 50%
	// 0 表示关闭负载缩放
	HalfRateActiveCount int `yaml:"halfRateActiveCount"`

	// WarmupSeconds 大批量入队后的预热时长（秒），0 表示关闭预热
	WarmupSeconds float64 `yaml:"warmupSeconds"`

	// ResetCredits 新一局开始时的信用值策略："full" 或 "empty"
	ResetCredits string `yaml:"resetCredits"`
}

// PlacementConfig 出生点配置
type PlacementConfig struct {
	// ProbeAttempts 重叠探测的最大尝试次数（含基准点）
	ProbeAttempts int `yaml:"probeAttempts"`

	// ProbeRadius 重叠检测半径（世界单位）
	ProbeRadius float64 `yaml:"probeRadius"`

	// ProbeStep 每次探测的垂直步长，第 i 次偏移 step*i
	ProbeStep float64 `yaml:"probeStep"`

	// EdgePadding 出生边上下两端各留出的空白
	EdgePadding float64 `yaml:"edgePadding"`

	// MinSpan 出生边的最小垂直跨度，防止视口退化时塌缩成一个点
	MinSpan float64 `yaml:"minSpan"`

	// EdgeOffsetX 出生边相对视口右边缘的水平偏移（正值在屏幕外）
	EdgeOffsetX float64 `yaml:"edgeOffsetX"`

	// SlotCount 出生边上均匀分布的槽位数量
	SlotCount int `yaml:"slotCount"`

	// FallbackHalfSpan 无视口时使用的合成范围半高
	FallbackHalfSpan float64 `yaml:"fallbackHalfSpan"`

	// AnchorX, AnchorY 调度器自身的锚点（无视口时合成范围的中心）
	AnchorX float64 `yaml:"anchorX"`
	AnchorY float64 `yaml:"anchorY"`

	// Seed 随机回退点使用的种子，0 表示使用当前时间
	Seed int64 `yaml:"seed"`
}

// LaneAnchorConfig 行锚点
type LaneAnchorConfig struct {
	ID int     `yaml:"id"`
	X  float64 `yaml:"x"`
	Y  float64 `yaml:"y"`
}

// DefaultSpawnerConfig 返回默认配置
func DefaultSpawnerConfig() *SpawnerConfig {
	return &SpawnerConfig{
		RateLimit: RateLimitConfig{
			CapPerSecond:        100,
			MaxCredit:           100,
			MaxPerTick:          32,
			HalfRateActiveCount: 200,
			WarmupSeconds:       1.5,
			ResetCredits:        ResetCreditsFull,
		},
		Placement: PlacementConfig{
			ProbeAttempts:    8,
			ProbeRadius:      0.5,
			ProbeStep:        0.6,
			EdgePadding:      0.5,
			MinSpan:          1.0,
			EdgeOffsetX:      1.0,
			SlotCount:        8,
			FallbackHalfSpan: 4.0,
		},
	}
}

// LoadSpawnerConfig 从 YAML 文件加载调度器配置
//
// 参数:
//   - path: 配置文件路径（如 "data/spawner.yaml"）
//
// 返回:
//   - *SpawnerConfig: 在默认值基础上覆盖文件内容后的配置
//   - error: 读取、解析或验证失败时返回错误
func LoadSpawnerConfig(path string) (*SpawnerConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read spawner config: %w", err)
	}
	return ParseSpawnerConfig(data)
}

// ParseSpawnerConfig 解析 YAML 数据
func ParseSpawnerConfig(data []byte) (*SpawnerConfig, error) {
	cfg := DefaultSpawnerConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse spawner config YAML: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid spawner config: %w", err)
	}

	return cfg, nil
}

// Validate 验证配置有效性
func (c *SpawnerConfig) Validate() error {
	if err := c.RateLimit.Validate(); err != nil {
		return err
	}
	if err := c.Placement.Validate(); err != nil {
		return err
	}

	seen := make(map[int]bool, len(c.Lanes))
	for _, lane := range c.Lanes {
		if seen[lane.ID] {
			return fmt.Errorf("duplicate lane id %d", lane.ID)
		}
		seen[lane.ID] = true
	}

	return nil
}

// Validate 验证速率配置
func (c RateLimitConfig) Validate() error {
	if c.CapPerSecond <= 0 {
		return fmt.Errorf("rateLimit.capPerSecond must be > 0, got %.2f", c.CapPerSecond)
	}
	// 放行一个敌人需要 1 点信用值，上限小于 1 将永远无法放行
	if c.MaxCredit < 1 {
		return fmt.Errorf("rateLimit.maxCredit must be >= 1, got %.2f", c.MaxCredit)
	}
	if c.MaxPerTick < 1 {
		return fmt.Errorf("rateLimit.maxPerTick must be >= 1, got %d", c.MaxPerTick)
	}
	if c.HalfRateActiveCount < 0 {
		return fmt.Errorf("rateLimit.halfRateActiveCount must be >= 0, got %d", c.HalfRateActiveCount)
	}
	if c.WarmupSeconds < 0 {
		return fmt.Errorf("rateLimit.warmupSeconds must be >= 0, got %.2f", c.WarmupSeconds)
	}
	switch c.ResetCredits {
	case ResetCreditsFull, ResetCreditsEmpty:
	default:
		return fmt.Errorf("rateLimit.resetCredits must be %q or %q, got %q",
			ResetCreditsFull, ResetCreditsEmpty, c.ResetCredits)
	}
	return nil
}

// Validate 验证出生点配置
func (c PlacementConfig) Validate() error {
	if c.ProbeAttempts < 1 {
		return fmt.Errorf("placement.probeAttempts must be >= 1, got %d", c.ProbeAttempts)
	}
	if c.ProbeRadius < 0 {
		return fmt.Errorf("placement.probeRadius must be >= 0, got %.2f", c.ProbeRadius)
	}
	if c.ProbeStep <= 0 {
		return fmt.Errorf("placement.probeStep must be > 0, got %.2f", c.ProbeStep)
	}
	if c.EdgePadding < 0 {
		return fmt.Errorf("placement.edgePadding must be >= 0, got %.2f", c.EdgePadding)
	}
	if c.MinSpan <= 0 {
		return fmt.Errorf("placement.minSpan must be > 0, got %.2f", c.MinSpan)
	}
	if c.SlotCount < 1 {
		return fmt.Errorf("placement.slotCount must be >= 1, got %d", c.SlotCount)
	}
	if c.FallbackHalfSpan <= 0 {
		return fmt.Errorf("placement.fallbackHalfSpan must be > 0, got %.2f", c.FallbackHalfSpan)
	}
	return nil
}
