package components

// CollisionComponent 定义实体的圆形碰撞范围
// 出生点探测（重叠检测）使用该半径判断两个敌人是否挤在一起
type CollisionComponent struct {
	Radius float64 // 碰撞半径（世界单位）
}
