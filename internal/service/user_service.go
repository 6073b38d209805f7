package service

import (
	"edu_insight_backend/internal/model"
	"edu_insight_backend/internal/repository"
	"edu_insight_backend/internal/util"

	"gorm.io/gorm"
)

type UserService struct {
	UserRepo *repository.UserRepository
}

func NewUserService(userRepo *repository.UserRepository) *UserService {
	return &UserService{UserRepo: userRepo}
}

func (s *UserService) GetUser(userID uint) (*model.User, error) {
	user, err := s.UserRepo.FindByID(userID)
	if err == gorm.ErrRecordNotFound {
		return nil, util.ErrUserNotFound
	}
	return user, err
}

func (s *UserService) UpdateProfile(userID uint, name string) (*model.User, error) {
	user, err := s.GetUser(userID)
	if err != nil {
		return nil, err
	}
	if name != "" {
		user.Name = name
	}
	return user, s.UserRepo.Update(user)
}

// UpdateStudyHours 每周可投入学时，路径周数估算依赖该值
func (s *UserService) UpdateStudyHours(userID uint, hours int) error {
	if hours < 1 {
		hours = 1
	}
	if hours > 80 {
		hours = 80
	}
	return s.UserRepo.UpdateStudyHours(userID, hours)
}
