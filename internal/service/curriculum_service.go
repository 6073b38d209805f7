package service

import (
	"edu_insight_backend/internal/model"
	"edu_insight_backend/internal/repository"
	"edu_insight_backend/internal/util"

	"gorm.io/gorm"
)

type CurriculumService struct {
	CurriculumRepo *repository.CurriculumRepository
}

func NewCurriculumService(curriculumRepo *repository.CurriculumRepository) *CurriculumService {
	return &CurriculumService{CurriculumRepo: curriculumRepo}
}

func (s *CurriculumService) CreateNode(node *model.CurriculumNode) error {
	if node.ID == "" {
		node.ID = model.GenerateUUID()
	}
	if node.Tier < 1 {
		node.Tier = 1
	}
	return s.CurriculumRepo.CreateNode(node)
}

func (s *CurriculumService) GetNode(id string) (*model.CurriculumNode, error) {
	node, err := s.CurriculumRepo.FindNodeByID(id)
	if err == gorm.ErrRecordNotFound {
		return nil, util.ErrNodeNotFound
	}
	return node, err
}

func (s *CurriculumService) ListNodes(courseID string) ([]model.CurriculumNode, error) {
	return s.CurriculumRepo.ListNodes(courseID)
}

func (s *CurriculumService) UpdateNode(node *model.CurriculumNode) error {
	if _, err := s.GetNode(node.ID); err != nil {
		return err
	}
	return s.CurriculumRepo.UpdateNode(node)
}

func (s *CurriculumService) DeleteNode(id string) error {
	if _, err := s.GetNode(id); err != nil {
		return err
	}
	return s.CurriculumRepo.DeleteNode(id)
}

func (s *CurriculumService) GetSuccessors(nodeID string) ([]model.CurriculumNode, error) {
	if _, err := s.GetNode(nodeID); err != nil {
		return nil, err
	}
	return s.CurriculumRepo.GetSuccessors(nodeID)
}

func (s *CurriculumService) StartNode(userID uint, nodeID string) error {
	if _, err := s.GetNode(nodeID); err != nil {
		return err
	}
	return s.CurriculumRepo.StartNode(userID, nodeID)
}

func (s *CurriculumService) CompleteNode(userID uint, nodeID string) error {
	if _, err := s.GetNode(nodeID); err != nil {
		return err
	}
	return s.CurriculumRepo.CompleteNode(userID, nodeID)
}

func (s *CurriculumService) GetProgress(userID uint) ([]model.UserNodeProgress, error) {
	return s.CurriculumRepo.GetProgress(userID)
}
