package database

import (
	"edu_insight_backend/internal/config"
	"edu_insight_backend/internal/model"
	"fmt"
	"log"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.DBName,
		cfg.Charset,
		cfg.ParseTime,
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})

	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

	err = db.AutoMigrate(
		&model.User{},
		&model.CareerGoal{},
		&model.BehaviorSignal{},
		&model.CurriculumNode{},
		&model.UserNodeProgress{},
		&model.MarketRole{},
		&model.MarketSkill{},
	)

	if err != nil {
		return nil, err
	}

	log.Println("Database migration completed")

	// 默认市场角色数据：为空时插入基础角色，避免首个缺口分析空转
	var roleCount int64
	db.Model(&model.MarketRole{}).Count(&roleCount)
	if roleCount == 0 {
		defaultRoles := []struct {
			role   model.MarketRole
			skills []model.MarketSkill
		}{
			{
				role: model.MarketRole{Role: "backend-developer", AvgSalary: 18000, DemandIndex: 0.82},
				skills: []model.MarketSkill{
					{Skill: "SQL", Frequency: 0.75},
					{Skill: "API设计", Frequency: 0.68},
					{Skill: "并发编程", Frequency: 0.55},
					{Skill: "缓存", Frequency: 0.42},
				},
			},
			{
				role: model.MarketRole{Role: "data-engineer", AvgSalary: 21000, DemandIndex: 0.74},
				skills: []model.MarketSkill{
					{Skill: "SQL", Frequency: 0.88},
					{Skill: "数据建模", Frequency: 0.62},
					{Skill: "流处理", Frequency: 0.47},
				},
			},
			{
				role: model.MarketRole{Role: "frontend-developer", AvgSalary: 15000, DemandIndex: 0.66},
				skills: []model.MarketSkill{
					{Skill: "JavaScript", Frequency: 0.91},
					{Skill: "组件化", Frequency: 0.58},
					{Skill: "状态管理", Frequency: 0.44},
				},
			},
		}
		for _, entry := range defaultRoles {
			r := entry.role
			if err := db.Create(&r).Error; err != nil {
				continue
			}
			for _, s := range entry.skills {
				s.MarketRoleID = r.ID
				db.Create(&s)
			}
		}
	}

	return db, nil
}
