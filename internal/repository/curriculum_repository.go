package repository

import (
	"edu_insight_backend/internal/model"
	"time"

	"gorm.io/gorm"
)

type CurriculumRepository struct {
	DB *gorm.DB
}

func NewCurriculumRepository(db *gorm.DB) *CurriculumRepository {
	return &CurriculumRepository{DB: db}
}

func (r *CurriculumRepository) CreateNode(node *model.CurriculumNode) error {
	return r.DB.Create(node).Error
}

func (r *CurriculumRepository) FindNodeByID(id string) (*model.CurriculumNode, error) {
	var n model.CurriculumNode
	err := r.DB.Where("id = ?", id).First(&n).Error
	return &n, err
}

func (r *CurriculumRepository) ListNodes(courseID string) ([]model.CurriculumNode, error) {
	var ns []model.CurriculumNode
	query := r.DB.Model(&model.CurriculumNode{})
	if courseID != "" {
		query = query.Where("course_id = ?", courseID)
	}
	err := query.Order("tier asc, created_at asc").Find(&ns).Error
	return ns, err
}

func (r *CurriculumRepository) UpdateNode(node *model.CurriculumNode) error {
	return r.DB.Save(node).Error
}

func (r *CurriculumRepository) DeleteNode(id string) error {
	return r.DB.Where("id = ?", id).Delete(&model.CurriculumNode{}).Error
}

// GetSuccessors 图谱邻接查询：前置列表中包含 nodeID 的节点即为其直接后继
// 前置关系存为 JSON 列，用 JSON_CONTAINS 匹配
func (r *CurriculumRepository) GetSuccessors(nodeID string) ([]model.CurriculumNode, error) {
	var ns []model.CurriculumNode
	err := r.DB.Where("JSON_CONTAINS(prerequisites, JSON_QUOTE(?))", nodeID).
		Order("tier asc").Find(&ns).Error
	return ns, err
}

func (r *CurriculumRepository) StartNode(userID uint, nodeID string) error {
	progress := &model.UserNodeProgress{
		UserID:    userID,
		NodeID:    nodeID,
		Status:    model.ProgressInProgress,
		StartedAt: time.Now(),
	}
	// 已有记录则保持原状态，避免把已完成的节点改回进行中
	return r.DB.Where("user_id = ? AND node_id = ?", userID, nodeID).
		FirstOrCreate(progress).Error
}

func (r *CurriculumRepository) CompleteNode(userID uint, nodeID string) error {
	now := time.Now()
	var existing model.UserNodeProgress
	err := r.DB.Where("user_id = ? AND node_id = ?", userID, nodeID).First(&existing).Error
	if err == gorm.ErrRecordNotFound {
		return r.DB.Create(&model.UserNodeProgress{
			UserID:      userID,
			NodeID:      nodeID,
			Status:      model.ProgressCompleted,
			StartedAt:   now,
			CompletedAt: &now,
		}).Error
	}
	if err != nil {
		return err
	}
	existing.Status = model.ProgressCompleted
	existing.CompletedAt = &now
	return r.DB.Save(&existing).Error
}

func (r *CurriculumRepository) GetProgress(userID uint) ([]model.UserNodeProgress, error) {
	var ps []model.UserNodeProgress
	err := r.DB.Where("user_id = ?", userID).Find(&ps).Error
	return ps, err
}

// CountCompletedSince 统计 since 之后完成的节点数，用于学习速度估计
func (r *CurriculumRepository) CountCompletedSince(userID uint, since time.Time) (int64, error) {
	var count int64
	err := r.DB.Model(&model.UserNodeProgress{}).
		Where("user_id = ? AND status = ? AND completed_at >= ?", userID, model.ProgressCompleted, since).
		Count(&count).Error
	return count, err
}
