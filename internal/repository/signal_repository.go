package repository

import (
	"edu_insight_backend/internal/model"

	"gorm.io/gorm"
)

type SignalRepository struct {
	DB *gorm.DB
}

func NewSignalRepository(db *gorm.DB) *SignalRepository {
	return &SignalRepository{DB: db}
}

func (r *SignalRepository) Create(signal *model.BehaviorSignal) error {
	return r.DB.Create(signal).Error
}

// GetRecent 按时间倒序取最近 limit 条信号，信号历史的有界窗口
func (r *SignalRepository) GetRecent(userID uint, courseID string, limit int) ([]model.BehaviorSignal, error) {
	var signals []model.BehaviorSignal
	err := r.DB.Where("user_id = ? AND course_id = ?", userID, courseID).
		Order("timestamp desc").Limit(limit).Find(&signals).Error
	return signals, err
}

func (r *SignalRepository) CountByUser(userID uint, courseID string) (int64, error) {
	var count int64
	err := r.DB.Model(&model.BehaviorSignal{}).
		Where("user_id = ? AND course_id = ?", userID, courseID).Count(&count).Error
	return count, err
}
