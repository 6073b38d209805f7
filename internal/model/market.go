package model

// MarketRole 目标角色的市场统计，外部数据源，可能滞后
type MarketRole struct {
	BaseModel
	Role        string  `gorm:"size:100;unique;not null" json:"role"`
	AvgSalary   float64 `gorm:"default:0" json:"avgSalary"`
	DemandIndex float64 `gorm:"default:0" json:"demandIndex"` // 0-1
}

func (MarketRole) TableName() string {
	return "market_roles"
}

// MarketSkill 角色下的热门技能及出现频率
type MarketSkill struct {
	BaseModel
	MarketRoleID uint    `gorm:"index;type:bigint unsigned" json:"marketRoleId"`
	Skill        string  `gorm:"size:100;not null" json:"skill"`
	Frequency    float64 `gorm:"default:0" json:"frequency"` // 0-1，出现在职位要求中的占比
}

func (MarketSkill) TableName() string {
	return "market_skills"
}
