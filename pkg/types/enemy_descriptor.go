package types

// EnemyDescriptor 敌人描述（类型/变体引用）
//
// 调度器只检查描述是否合法，不解释其含义，由生成工厂决定如何创建实体
type EnemyDescriptor struct {
	Type    string `yaml:"type"`    // 敌人类型，如 "basic"，不能为空
	Variant string `yaml:"variant"` // 变体，可为空
}

// IsValid 描述是否合法（类型不能为空）
func (d EnemyDescriptor) IsValid() bool {
	return d.Type != ""
}

// String 返回 "type" 或 "type/variant"
func (d EnemyDescriptor) String() string {
	if d.Variant == "" {
		return d.Type
	}
	return d.Type + "/" + d.Variant
}
