package service

import (
	"edu_insight_backend/internal/model"
	"edu_insight_backend/internal/repository"
	"edu_insight_backend/internal/util"

	"gorm.io/gorm"
)

type GoalService struct {
	GoalRepo *repository.GoalRepository
}

func NewGoalService(goalRepo *repository.GoalRepository) *GoalService {
	return &GoalService{GoalRepo: goalRepo}
}

func (s *GoalService) CreateGoal(goal *model.CareerGoal) error {
	existing, err := s.GoalRepo.ListByUser(goal.UserID)
	if err != nil {
		return err
	}
	// 首个目标自动设为主目标
	if len(existing) == 0 {
		goal.IsPrimary = true
	}
	if err := s.GoalRepo.Create(goal); err != nil {
		return err
	}
	if goal.IsPrimary {
		return s.GoalRepo.SetPrimary(goal.UserID, goal.ID)
	}
	return nil
}

func (s *GoalService) ListGoals(userID uint) ([]model.CareerGoal, error) {
	return s.GoalRepo.ListByUser(userID)
}

func (s *GoalService) UpdateGoal(userID, goalID uint, title, targetRole string) (*model.CareerGoal, error) {
	goal, err := s.ownedGoal(userID, goalID)
	if err != nil {
		return nil, err
	}
	if title != "" {
		goal.Title = title
	}
	if targetRole != "" {
		goal.TargetRole = targetRole
	}
	return goal, s.GoalRepo.Update(goal)
}

func (s *GoalService) DeleteGoal(userID, goalID uint) error {
	if _, err := s.ownedGoal(userID, goalID); err != nil {
		return err
	}
	return s.GoalRepo.Delete(userID, goalID)
}

func (s *GoalService) SetPrimaryGoal(userID, goalID uint) error {
	if _, err := s.ownedGoal(userID, goalID); err != nil {
		return err
	}
	return s.GoalRepo.SetPrimary(userID, goalID)
}

func (s *GoalService) ownedGoal(userID, goalID uint) (*model.CareerGoal, error) {
	goal, err := s.GoalRepo.FindByID(goalID)
	if err == gorm.ErrRecordNotFound {
		return nil, util.ErrGoalNotFound
	}
	if err != nil {
		return nil, err
	}
	if goal.UserID != userID {
		return nil, util.ErrPermissionDenied
	}
	return goal, nil
}
