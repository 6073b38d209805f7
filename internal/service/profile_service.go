package service

import (
	"edu_insight_backend/internal/model"
	"edu_insight_backend/internal/repository"
	"time"
)

const velocityLookback = 28 * 24 * time.Hour

// LearnerProfile 预测与路径生成共用的学习者画像快照
type LearnerProfile struct {
	User               *model.User
	Goals              []model.CareerGoal
	Completed          map[string]bool
	InProgress         []string
	CompletedCount     int
	CompletionsPerWeek float64 // 0 表示速度未知
	HoursPerWeek       int
}

type ProfileService struct {
	UserRepo       *repository.UserRepository
	GoalRepo       *repository.GoalRepository
	CurriculumRepo *repository.CurriculumRepository
}

func NewProfileService(
	userRepo *repository.UserRepository,
	goalRepo *repository.GoalRepository,
	curriculumRepo *repository.CurriculumRepository,
) *ProfileService {
	return &ProfileService{
		UserRepo:       userRepo,
		GoalRepo:       goalRepo,
		CurriculumRepo: curriculumRepo,
	}
}

// BuildProfile 组装画像，学习速度取最近 4 周的节点完成数折算到每周
func (s *ProfileService) BuildProfile(userID uint) (*LearnerProfile, error) {
	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		return nil, err
	}

	goals, err := s.GoalRepo.ListByUser(userID)
	if err != nil {
		return nil, err
	}

	progress, err := s.CurriculumRepo.GetProgress(userID)
	if err != nil {
		return nil, err
	}

	completed := CompletedNodeSet(progress)
	var inProgress []string
	for _, p := range progress {
		if p.Status == model.ProgressInProgress {
			inProgress = append(inProgress, p.NodeID)
		}
	}

	recent, err := s.CurriculumRepo.CountCompletedSince(userID, time.Now().Add(-velocityLookback))
	if err != nil {
		return nil, err
	}

	return &LearnerProfile{
		User:               user,
		Goals:              goals,
		Completed:          completed,
		InProgress:         inProgress,
		CompletedCount:     len(completed),
		CompletionsPerWeek: float64(recent) / 4,
		HoursPerWeek:       user.StudyHoursPerWeek,
	}, nil
}
