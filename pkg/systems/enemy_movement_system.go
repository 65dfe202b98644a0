package systems

import (
	"github.com/decker502/spawner/pkg/components"
	"github.com/decker502/spawner/pkg/ecs"
	"github.com/decker502/spawner/pkg/entities"
)

// EnemyMovementSystem 敌人移动系统
//
// 按速度移动敌人并同步工厂的网格索引，越过终点线（killLineX）的敌人
// 被回收到工厂，使在场数量有升有降，负载缩放得以生效
type EnemyMovementSystem struct {
	entityManager *ecs.EntityManager
	factory       *entities.EnemyFactory
	killLineX     float64
}

// NewEnemyMovementSystem 创建敌人移动系统
func NewEnemyMovementSystem(em *ecs.EntityManager, factory *entities.EnemyFactory, killLineX float64) *EnemyMovementSystem {
	return &EnemyMovementSystem{
		entityManager: em,
		factory:       factory,
		killLineX:     killLineX,
	}
}

// Update 移动敌人并回收越线的敌人
//
// 返回：
//
//	本帧回收的敌人数量
func (s *EnemyMovementSystem) Update(dt float64) int {
	entityIDs := ecs.GetEntitiesWith3[
		*components.EnemyComponent,
		*components.PositionComponent,
		*components.VelocityComponent,
	](s.entityManager)

	despawned := 0
	for _, id := range entityIDs {
		pos, _ := ecs.GetComponent[*components.PositionComponent](s.entityManager, id)
		vel, _ := ecs.GetComponent[*components.VelocityComponent](s.entityManager, id)

		pos.X += vel.VX * dt
		pos.Y += vel.VY * dt

		if pos.X < s.killLineX {
			s.factory.Despawn(id)
			despawned++
			continue
		}
		s.factory.Index().Move(id, pos.X, pos.Y)
	}

	s.entityManager.RemoveMarkedEntities()
	return despawned
}
