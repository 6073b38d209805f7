package service

import (
	"edu_insight_backend/internal/model"
	"edu_insight_backend/internal/repository"
	"edu_insight_backend/internal/util"

	"gorm.io/gorm"
)

type MarketService struct {
	MarketRepo *repository.MarketRepository
}

func NewMarketService(marketRepo *repository.MarketRepository) *MarketService {
	return &MarketService{MarketRepo: marketRepo}
}

func (s *MarketService) ListRoles() ([]model.MarketRole, error) {
	return s.MarketRepo.ListRoles()
}

func (s *MarketService) GetRoleSkills(role string) ([]model.MarketSkill, error) {
	skills, err := s.MarketRepo.GetTopSkills(role)
	if err == gorm.ErrRecordNotFound {
		return nil, util.ErrRoleNotFound
	}
	return skills, err
}

// UpsertRole 全量替换角色的技能需求快照
func (s *MarketService) UpsertRole(role *model.MarketRole, skills []model.MarketSkill) error {
	for i := range skills {
		if skills[i].Frequency < 0 {
			skills[i].Frequency = 0
		}
		if skills[i].Frequency > 1 {
			skills[i].Frequency = 1
		}
	}
	return s.MarketRepo.UpsertRole(role, skills)
}
