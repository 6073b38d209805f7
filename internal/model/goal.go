package model

import "time"

// CareerGoal 学习者的职业目标，目标角色用于匹配市场技能数据
type CareerGoal struct {
	BaseModel
	UserID     uint      `gorm:"index;type:bigint unsigned" json:"userId"`
	Title      string    `gorm:"size:255;not null" json:"title"`
	TargetRole string    `gorm:"size:100;not null" json:"targetRole"`
	IsPrimary  bool      `gorm:"default:false" json:"isPrimary"`
	TargetDate time.Time `gorm:"type:datetime" json:"targetDate"`
}

func (CareerGoal) TableName() string {
	return "career_goals"
}
