package config

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

// EnemyStats 单个敌人类型的属性配置
type EnemyStats struct {
	BaseHealth int     `yaml:"baseHealth"` // 默认生命值
	Speed      float64 `yaml:"speed"`      // 移动速度（世界单位/秒）
	Radius     float64 `yaml:"radius"`     // 碰撞半径
}

// EnemyStatsConfig 敌人属性配置文件结构
//
// 配置文件位置: data/enemy_stats.yaml
type EnemyStatsConfig struct {
	Enemies map[string]EnemyStats `yaml:"enemies"` // 敌人类型到属性的映射
}

// LoadEnemyStats 从 YAML 文件加载敌人属性配置
// 参数：
//
//	path - 配置文件路径（相对或绝对路径）
//
// 返回：
//
//	*EnemyStatsConfig - 解析后的配置对象
//	error - 如果文件读取或解析失败，返回错误信息
func LoadEnemyStats(path string) (*EnemyStatsConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read enemy stats file %s: %w", path, err)
	}
	return ParseEnemyStats(data)
}

// ParseEnemyStats 解析 YAML 数据
func ParseEnemyStats(data []byte) (*EnemyStatsConfig, error) {
	var config EnemyStatsConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse enemy stats YAML: %w", err)
	}

	if err := validateEnemyStats(&config); err != nil {
		return nil, fmt.Errorf("invalid enemy stats: %w", err)
	}

	return &config, nil
}

// validateEnemyStats 验证敌人属性配置的完整性和合法性
func validateEnemyStats(config *EnemyStatsConfig) error {
	if len(config.Enemies) == 0 {
		return fmt.Errorf("at least one enemy type is required")
	}

	for enemyType, stats := range config.Enemies {
		if enemyType == "" {
			return fmt.Errorf("enemy type name cannot be empty")
		}

		if stats.BaseHealth <= 0 {
			return fmt.Errorf("enemy %s: baseHealth must be positive, got %d", enemyType, stats.BaseHealth)
		}

		if stats.Speed < 0 || math.IsNaN(stats.Speed) || math.IsInf(stats.Speed, 0) {
			return fmt.Errorf("enemy %s: speed must be a finite non-negative number, got %v", enemyType, stats.Speed)
		}

		if stats.Radius < 0 || math.IsNaN(stats.Radius) || math.IsInf(stats.Radius, 0) {
			return fmt.Errorf("enemy %s: radius must be a finite non-negative number, got %v", enemyType, stats.Radius)
		}
	}

	return nil
}

// GetEnemyStats 获取指定敌人类型的属性
// 如果类型不存在，返回 nil 和 false
func (c *EnemyStatsConfig) GetEnemyStats(enemyType string) (*EnemyStats, bool) {
	stats, ok := c.Enemies[enemyType]
	if !ok {
		return nil, false
	}
	return &stats, true
}
