package entities

import (
	"errors"
	"testing"

	"github.com/decker502/spawner/pkg/components"
	"github.com/decker502/spawner/pkg/config"
	"github.com/decker502/spawner/pkg/ecs"
	"github.com/decker502/spawner/pkg/types"
)

func order(enemyType string, x, y float64) types.SpawnOrder {
	return types.SpawnOrder{
		Descriptor: types.EnemyDescriptor{Type: enemyType},
		Position:   types.Point{X: x, Y: y},
	}
}

// TestEnemyFactoryCreate 测试创建敌人实体及其组件
func TestEnemyFactoryCreate(t *testing.T) {
	em := ecs.NewEntityManager()
	f := NewEnemyFactory(em, nil, 0)

	o := order("conehead", 700, 222)
	o.Descriptor.Variant = "elite"
	o.Sequence = 17
	o.Mode = types.PlacementModeEdgeSlot
	o.Attempts = 2
	o.Requested = types.Point{X: 700, Y: 200}

	id, err := f.Create(o)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if id == 0 {
		t.Fatal("Expected a valid entity id")
	}

	pos, ok := ecs.GetComponent[*components.PositionComponent](em, id)
	if !ok || pos.X != 700 || pos.Y != 222 {
		t.Errorf("Unexpected position %+v", pos)
	}
	vel, ok := ecs.GetComponent[*components.VelocityComponent](em, id)
	if !ok || vel.VX != -23 || vel.VY != 0 {
		t.Errorf("Unexpected velocity %+v", vel)
	}
	col, ok := ecs.GetComponent[*components.CollisionComponent](em, id)
	if !ok || col.Radius != 18 {
		t.Errorf("Unexpected collision %+v", col)
	}
	enemy, ok := ecs.GetComponent[*components.EnemyComponent](em, id)
	if !ok || enemy.Type != "conehead" || enemy.Variant != "elite" || enemy.Health != 640 || enemy.Sequence != 17 {
		t.Errorf("Unexpected enemy component %+v", enemy)
	}
	placement, ok := ecs.GetComponent[*components.PlacementComponent](em, id)
	if !ok || placement.Mode != types.PlacementModeEdgeSlot || placement.Attempts != 2 || placement.Requested.Y != 200 {
		t.Errorf("Unexpected placement component %+v", placement)
	}

	if f.Live() != 1 {
		t.Errorf("Expected 1 live enemy, got %d", f.Live())
	}
}

// TestEnemyFactoryOverrides 测试平衡性覆盖
func TestEnemyFactoryOverrides(t *testing.T) {
	tests := []struct {
		name       string
		overrides  any
		wantHealth int
		wantVX     float64
	}{
		{name: "无覆盖", overrides: nil, wantHealth: 270, wantVX: -23},
		{name: "值类型", overrides: EnemyOverrides{Health: 50}, wantHealth: 50, wantVX: -23},
		{name: "指针类型", overrides: &EnemyOverrides{SpeedScale: 2}, wantHealth: 270, wantVX: -46},
		{name: "空指针", overrides: (*EnemyOverrides)(nil), wantHealth: 270, wantVX: -23},
		{name: "未知类型原样记录", overrides: map[string]int{"health": 1}, wantHealth: 270, wantVX: -23},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			em := ecs.NewEntityManager()
			f := NewEnemyFactory(em, nil, 0)

			o := order("basic", 0, 0)
			o.Overrides = tt.overrides
			id, err := f.Create(o)
			if err != nil {
				t.Fatalf("Create failed: %v", err)
			}

			enemy, _ := ecs.GetComponent[*components.EnemyComponent](em, id)
			vel, _ := ecs.GetComponent[*components.VelocityComponent](em, id)
			if enemy.Health != tt.wantHealth {
				t.Errorf("Expected health %d, got %d", tt.wantHealth, enemy.Health)
			}
			if vel.VX != tt.wantVX {
				t.Errorf("Expected VX %.1f, got %.1f", tt.wantVX, vel.VX)
			}
			if tt.overrides != nil && enemy.Overrides == nil {
				t.Error("Expected overrides to be recorded on the enemy")
			}
		})
	}
}

// TestEnemyFactoryErrors 测试未知类型与对象池耗尽
func TestEnemyFactoryErrors(t *testing.T) {
	em := ecs.NewEntityManager()
	f := NewEnemyFactory(em, nil, 2)

	if _, err := f.Create(order("dragon", 0, 0)); !errors.Is(err, ErrUnknownEnemyType) {
		t.Errorf("Expected ErrUnknownEnemyType, got %v", err)
	}

	first, _ := f.Create(order("basic", 0, 0))
	if _, err := f.Create(order("basic", 1, 0)); err != nil {
		t.Fatalf("Second create failed: %v", err)
	}

	id, err := f.Create(order("basic", 2, 0))
	if !errors.Is(err, ErrPoolExhausted) || id != 0 {
		t.Errorf("Expected ErrPoolExhausted with id 0, got id=%d err=%v", id, err)
	}
	if em.EntityCount() != 2 {
		t.Errorf("Failed creates must not leave entities behind, got %d", em.EntityCount())
	}

	f.Despawn(first)
	f.Despawn(first) // 重复回收被忽略
	em.RemoveMarkedEntities()
	if f.Live() != 1 {
		t.Fatalf("Expected 1 live enemy after despawn, got %d", f.Live())
	}
	if _, err := f.Create(order("basic", 3, 0)); err != nil {
		t.Errorf("Expected capacity to be returned, got %v", err)
	}
}

// TestEnemyFactoryReset 测试重置删除所有敌人但保留其他实体
func TestEnemyFactoryReset(t *testing.T) {
	em := ecs.NewEntityManager()
	f := NewEnemyFactory(em, map[string]EnemyTypeConfig{"imp": {Health: 10, Speed: 5, Radius: 1}}, 0)

	if !f.HasType("imp") || f.HasType("basic") {
		t.Fatal("Expected custom type table to replace the defaults")
	}

	for i := 0; i < 4; i++ {
		if _, err := f.Create(order("imp", float64(i), 0)); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}
	other := em.CreateEntity()

	f.Reset()
	if f.Live() != 0 {
		t.Errorf("Expected 0 live enemies, got %d", f.Live())
	}
	if n := ecs.CountEntitiesWith1[*components.EnemyComponent](em); n != 0 {
		t.Errorf("Expected no enemy entities, got %d", n)
	}
	if !em.Exists(other) {
		t.Error("Reset must not remove non-enemy entities")
	}
}

// TestEnemyTypesFromStats 测试由属性配置构建类型表
func TestEnemyTypesFromStats(t *testing.T) {
	stats := &config.EnemyStatsConfig{Enemies: map[string]config.EnemyStats{
		"runner": {BaseHealth: 90, Speed: 60, Radius: 12},
	}}
	f := NewEnemyFactory(ecs.NewEntityManager(), EnemyTypesFromStats(stats), 0)

	if !f.HasType("runner") || f.HasType("basic") {
		t.Fatal("Expected type table built from stats only")
	}
	id, err := f.Create(order("runner", 0, 0))
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	vel, _ := ecs.GetComponent[*components.VelocityComponent](f.entityManager, id)
	if vel.VX != -60 {
		t.Errorf("Expected VX -60, got %.1f", vel.VX)
	}
}
