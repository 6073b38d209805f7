package repository

import (
	"edu_insight_backend/internal/model"

	"gorm.io/gorm"
)

type MarketRepository struct {
	DB *gorm.DB
}

func NewMarketRepository(db *gorm.DB) *MarketRepository {
	return &MarketRepository{DB: db}
}

func (r *MarketRepository) FindRole(role string) (*model.MarketRole, error) {
	var m model.MarketRole
	err := r.DB.Where("role = ?", role).First(&m).Error
	return &m, err
}

// GetTopSkills 按频率倒序返回角色的热门技能
func (r *MarketRepository) GetTopSkills(role string) ([]model.MarketSkill, error) {
	m, err := r.FindRole(role)
	if err != nil {
		return nil, err
	}
	var skills []model.MarketSkill
	err = r.DB.Where("market_role_id = ?", m.ID).
		Order("frequency desc").Find(&skills).Error
	return skills, err
}

func (r *MarketRepository) ListRoles() ([]model.MarketRole, error) {
	var ms []model.MarketRole
	err := r.DB.Order("role asc").Find(&ms).Error
	return ms, err
}

func (r *MarketRepository) UpsertRole(role *model.MarketRole, skills []model.MarketSkill) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		var existing model.MarketRole
		err := tx.Where("role = ?", role.Role).First(&existing).Error
		if err == gorm.ErrRecordNotFound {
			if err := tx.Create(role).Error; err != nil {
				return err
			}
			existing = *role
		} else if err != nil {
			return err
		} else {
			existing.AvgSalary = role.AvgSalary
			existing.DemandIndex = role.DemandIndex
			if err := tx.Save(&existing).Error; err != nil {
				return err
			}
		}

		if err := tx.Where("market_role_id = ?", existing.ID).
			Delete(&model.MarketSkill{}).Error; err != nil {
			return err
		}
		for i := range skills {
			skills[i].MarketRoleID = existing.ID
			if err := tx.Create(&skills[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
