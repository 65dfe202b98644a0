package entities

import (
	"errors"
	"fmt"
	"log"

	"github.com/decker502/spawner/pkg/components"
	"github.com/decker502/spawner/pkg/config"
	"github.com/decker502/spawner/pkg/ecs"
	"github.com/decker502/spawner/pkg/spatial"
	"github.com/decker502/spawner/pkg/types"
)

var (
	// ErrPoolExhausted 在场敌人已达到对象池容量
	ErrPoolExhausted = errors.New("enemy pool exhausted")

	// ErrUnknownEnemyType 未注册的敌人类型
	ErrUnknownEnemyType = errors.New("unknown enemy type")
)

// EnemyTypeConfig 敌人类型参数
type EnemyTypeConfig struct {
	Health int     // 默认生命值
	Speed  float64 // 移动速度（世界单位/秒），向左移动
	Radius float64 // 碰撞半径
}

// EnemyOverrides 平衡性覆盖数据
//
// 生成请求的 overrides 为 EnemyOverrides 或 *EnemyOverrides 时工厂会应用它，
// 其他类型只原样记录在 EnemyComponent.Overrides 上
type EnemyOverrides struct {
	Health     int     // > 0 时覆盖默认生命值
	SpeedScale float64 // > 0 时缩放移动速度
}

// DefaultEnemyTypes 默认的敌人类型表
func DefaultEnemyTypes() map[string]EnemyTypeConfig {
	return map[string]EnemyTypeConfig{
		"basic":      {Health: 270, Speed: 23, Radius: 18},
		"conehead":   {Health: 640, Speed: 23, Radius: 18},
		"buckethead": {Health: 1370, Speed: 23, Radius: 18},
		"flag":       {Health: 270, Speed: 37, Radius: 18},
	}
}

// EnemyTypesFromStats 将属性配置转换为工厂使用的类型表
func EnemyTypesFromStats(stats *config.EnemyStatsConfig) map[string]EnemyTypeConfig {
	enemyTypes := make(map[string]EnemyTypeConfig, len(stats.Enemies))
	for name, s := range stats.Enemies {
		enemyTypes[name] = EnemyTypeConfig{
			Health: s.BaseHealth,
			Speed:  s.Speed,
			Radius: s.Radius,
		}
	}
	return enemyTypes
}

// EnemyFactory 敌人工厂
//
// 实现调度器的 SpawnFactory：在 EntityManager 中创建敌人实体。
// capacity 模拟对象池容量，在场数量达到上限时返回 ErrPoolExhausted。
// 工厂同时维护在场敌人的网格索引，移动系统负责同步位置变化。
type EnemyFactory struct {
	entityManager *ecs.EntityManager
	types         map[string]EnemyTypeConfig
	index         *spatial.Grid
	capacity      int
	live          int
}

// NewEnemyFactory 创建敌人工厂
//
// 参数:
//   - em: 实体管理器
//   - enemyTypes: 敌人类型表，nil 时使用 DefaultEnemyTypes
//   - capacity: 对象池容量，<= 0 表示不限制
func NewEnemyFactory(em *ecs.EntityManager, enemyTypes map[string]EnemyTypeConfig, capacity int) *EnemyFactory {
	if enemyTypes == nil {
		enemyTypes = DefaultEnemyTypes()
	}
	return &EnemyFactory{
		entityManager: em,
		types:         enemyTypes,
		index:         spatial.NewGrid(maxRadius(enemyTypes)),
		capacity:      capacity,
	}
}

// maxRadius 类型表中最大的碰撞半径，作为网格格子边长
func maxRadius(enemyTypes map[string]EnemyTypeConfig) float64 {
	r := 0.0
	for _, t := range enemyTypes {
		r = max(r, t.Radius)
	}
	return r
}

// Create 创建一个敌人实体
//
// 返回:
//   - ecs.EntityID: 创建的实体ID，失败时为 0
//   - error: ErrUnknownEnemyType 或 ErrPoolExhausted
func (f *EnemyFactory) Create(order types.SpawnOrder) (ecs.EntityID, error) {
	typeCfg, ok := f.types[order.Descriptor.Type]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownEnemyType, order.Descriptor.Type)
	}
	if f.capacity > 0 && f.live >= f.capacity {
		return 0, ErrPoolExhausted
	}

	health := typeCfg.Health
	speed := typeCfg.Speed
	if ov, ok := asEnemyOverrides(order.Overrides); ok {
		if ov.Health > 0 {
			health = ov.Health
		}
		if ov.SpeedScale > 0 {
			speed *= ov.SpeedScale
		}
	}

	entityID := f.entityManager.CreateEntity()

	ecs.AddComponent(f.entityManager, entityID, &components.PositionComponent{
		X: order.Position.X,
		Y: order.Position.Y,
	})
	ecs.AddComponent(f.entityManager, entityID, &components.VelocityComponent{
		VX: -speed, // 从右向左
	})
	ecs.AddComponent(f.entityManager, entityID, &components.CollisionComponent{
		Radius: typeCfg.Radius,
	})
	ecs.AddComponent(f.entityManager, entityID, &components.EnemyComponent{
		Type:      order.Descriptor.Type,
		Variant:   order.Descriptor.Variant,
		Health:    health,
		Overrides: order.Overrides,
		Sequence:  order.Sequence,
	})
	ecs.AddComponent(f.entityManager, entityID, &components.PlacementComponent{
		Mode:      order.Mode,
		Attempts:  order.Attempts,
		Requested: order.Requested,
	})

	f.index.Insert(entityID, order.Position.X, order.Position.Y)
	f.live++
	return entityID, nil
}

// Despawn 标记敌人实体待删除并归还对象池容量
//
// 实体在下一次 RemoveMarkedEntities 时真正删除；非敌人实体被忽略
func (f *EnemyFactory) Despawn(id ecs.EntityID) {
	if !ecs.HasComponent[*components.EnemyComponent](f.entityManager, id) {
		return
	}
	ecs.RemoveComponent[*components.EnemyComponent](f.entityManager, id)
	f.entityManager.DestroyEntity(id)
	f.index.Remove(id)
	f.live--
}

// Reset 新一局开始时删除所有敌人并清空计数
func (f *EnemyFactory) Reset() {
	for _, id := range ecs.GetEntitiesWith1[*components.EnemyComponent](f.entityManager) {
		f.entityManager.DestroyEntity(id)
	}
	removed := f.entityManager.RemoveMarkedEntities()
	f.index.Clear()
	f.live = 0
	log.Printf("[EnemyFactory] Reset: removed %d enemies", len(removed))
}

// Live 当前在场的敌人数量（按工厂计数）
func (f *EnemyFactory) Live() int {
	return f.live
}

// Index 在场敌人的网格索引
func (f *EnemyFactory) Index() *spatial.Grid {
	return f.index
}

// Capacity 对象池容量，0 表示不限制
func (f *EnemyFactory) Capacity() int {
	return f.capacity
}

// HasType 类型是否已注册
func (f *EnemyFactory) HasType(enemyType string) bool {
	_, ok := f.types[enemyType]
	return ok
}

func asEnemyOverrides(v any) (EnemyOverrides, bool) {
	switch ov := v.(type) {
	case EnemyOverrides:
		return ov, true
	case *EnemyOverrides:
		if ov != nil {
			return *ov, true
		}
	}
	return EnemyOverrides{}, false
}
