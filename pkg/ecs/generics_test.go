package ecs

import "testing"

func TestGenericComponentAccess(t *testing.T) {
	em := NewEntityManager()
	id := em.CreateEntity()

	AddComponent(em, id, &testPositionComponent{X: 3, Y: 4})

	pos, ok := GetComponent[*testPositionComponent](em, id)
	if !ok {
		t.Fatal("Generic GetComponent should find the component")
	}
	if pos.X != 3 || pos.Y != 4 {
		t.Errorf("Expected (3, 4), got (%f, %f)", pos.X, pos.Y)
	}

	// 泛型版本与反射版本使用同一个 key
	if !em.HasComponent(id, typeOf[*testPositionComponent]()) {
		t.Error("Reflect HasComponent should see a component added generically")
	}

	RemoveComponent[*testPositionComponent](em, id)
	if HasComponent[*testPositionComponent](em, id) {
		t.Error("Component should be removed")
	}
}

func TestGenericQueries(t *testing.T) {
	em := NewEntityManager()

	for i := 0; i < 5; i++ {
		id := em.CreateEntity()
		AddComponent(em, id, &testPositionComponent{X: float64(i)})
		if i%2 == 0 {
			AddComponent(em, id, &testEnemyComponent{Type: "basic"})
		}
	}

	tests := []struct {
		name     string
		got      int
		expected int
	}{
		{name: "单组件查询", got: len(GetEntitiesWith1[*testPositionComponent](em)), expected: 5},
		{name: "双组件查询", got: len(GetEntitiesWith2[*testPositionComponent, *testEnemyComponent](em)), expected: 3},
		{name: "计数查询", got: CountEntitiesWith1[*testEnemyComponent](em), expected: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.expected {
				t.Errorf("Expected %d, got %d", tt.expected, tt.got)
			}
		})
	}
}

// BenchmarkCountEntitiesWith1 每帧统计在场敌人数量的开销
func BenchmarkCountEntitiesWith1(b *testing.B) {
	em := NewEntityManager()
	for i := 0; i < 2000; i++ {
		id := em.CreateEntity()
		AddComponent(em, id, &testEnemyComponent{})
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = CountEntitiesWith1[*testEnemyComponent](em)
	}
}
