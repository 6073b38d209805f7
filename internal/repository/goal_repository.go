package repository

import (
	"edu_insight_backend/internal/model"

	"gorm.io/gorm"
)

type GoalRepository struct {
	DB *gorm.DB
}

func NewGoalRepository(db *gorm.DB) *GoalRepository {
	return &GoalRepository{DB: db}
}

func (r *GoalRepository) Create(goal *model.CareerGoal) error {
	return r.DB.Create(goal).Error
}

func (r *GoalRepository) FindByID(id uint) (*model.CareerGoal, error) {
	var g model.CareerGoal
	err := r.DB.First(&g, id).Error
	return &g, err
}

// ListByUser 主目标排在最前，其余按创建时间排列
func (r *GoalRepository) ListByUser(userID uint) ([]model.CareerGoal, error) {
	var gs []model.CareerGoal
	err := r.DB.Where("user_id = ?", userID).
		Order("is_primary desc, created_at asc").Find(&gs).Error
	return gs, err
}

func (r *GoalRepository) Update(goal *model.CareerGoal) error {
	return r.DB.Save(goal).Error
}

func (r *GoalRepository) Delete(userID, id uint) error {
	return r.DB.Where("user_id = ? AND id = ?", userID, id).
		Delete(&model.CareerGoal{}).Error
}

// SetPrimary 将指定目标设为主目标，同时清除其它目标的主标记
func (r *GoalRepository) SetPrimary(userID, id uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.CareerGoal{}).Where("user_id = ?", userID).
			Update("is_primary", false).Error; err != nil {
			return err
		}
		return tx.Model(&model.CareerGoal{}).Where("user_id = ? AND id = ?", userID, id).
			Update("is_primary", true).Error
	})
}
