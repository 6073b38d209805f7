package service

import (
	"edu_insight_backend/internal/model"
	"edu_insight_backend/internal/repository"
	"edu_insight_backend/pkg/logger"
	"sort"

	"go.uber.org/zap"
)

const (
	skillPointsPerCompletion = 25.0
	skillLevelCap            = 100.0
	requiredLevelScale       = 80.0

	criticalGapThreshold  = 50.0
	importantGapThreshold = 25.0

	maxRelatedNodes  = 3
	hoursPerGapPoint = 0.5
)

type SkillGapService struct {
	GoalRepo       *repository.GoalRepository
	CurriculumRepo *repository.CurriculumRepository
	MarketRepo     *repository.MarketRepository
}

func NewSkillGapService(
	goalRepo *repository.GoalRepository,
	curriculumRepo *repository.CurriculumRepository,
	marketRepo *repository.MarketRepository,
) *SkillGapService {
	return &SkillGapService{
		GoalRepo:       goalRepo,
		CurriculumRepo: curriculumRepo,
		MarketRepo:     marketRepo,
	}
}

// AnalyzeGaps 对比已掌握技能与目标角色的市场要求
// 无目标或市场数据不可用时返回全零分析，从不报错给调用方
func (s *SkillGapService) AnalyzeGaps(userID uint) (*model.SkillGapAnalysis, error) {
	goals, err := s.GoalRepo.ListByUser(userID)
	if err != nil {
		return nil, err
	}

	primary := PrimaryGoal(goals)
	if primary == nil {
		return emptyGapAnalysis(""), nil
	}

	nodes, err := s.CurriculumRepo.ListNodes("")
	if err != nil {
		return nil, err
	}
	progress, err := s.CurriculumRepo.GetProgress(userID)
	if err != nil {
		return nil, err
	}
	completed := CompletedNodeSet(progress)

	marketSkills, err := s.MarketRepo.GetTopSkills(primary.TargetRole)
	if err != nil {
		logger.Log.Warn("market data unavailable, skipping gap analysis",
			zap.String("role", primary.TargetRole), zap.Error(err))
		return emptyGapAnalysis(primary.TargetRole), nil
	}

	return ComputeSkillGaps(primary.TargetRole, nodes, completed, marketSkills), nil
}

// PrimaryGoal 首个标记为主目标的目标，否则取列表中的第一个
func PrimaryGoal(goals []model.CareerGoal) *model.CareerGoal {
	for i := range goals {
		if goals[i].IsPrimary {
			return &goals[i]
		}
	}
	if len(goals) > 0 {
		return &goals[0]
	}
	return nil
}

// CompletedNodeSet 进度记录中已完成节点的 ID 集合
func CompletedNodeSet(progress []model.UserNodeProgress) map[string]bool {
	set := make(map[string]bool)
	for _, p := range progress {
		if p.Status == model.ProgressCompleted {
			set[p.NodeID] = true
		}
	}
	return set
}

// ComputeSkillGaps 纯函数版本的缺口计算，便于确定性测试
func ComputeSkillGaps(
	targetRole string,
	nodes []model.CurriculumNode,
	completed map[string]bool,
	marketSkills []model.MarketSkill,
) *model.SkillGapAnalysis {
	// 每完成一个教某技能的节点记 25 分，封顶 100，简单证据累积
	current := make(map[string]float64)
	for _, n := range nodes {
		if !completed[n.ID] {
			continue
		}
		for _, skill := range n.Skills {
			current[skill] += skillPointsPerCompletion
			if current[skill] > skillLevelCap {
				current[skill] = skillLevelCap
			}
		}
	}

	required := make(map[string]float64)
	for _, ms := range marketSkills {
		required[ms.Skill] = ms.Frequency * requiredLevelScale
	}

	var gaps []model.SkillGap
	var totalGap float64
	for skill, req := range required {
		gap := req - current[skill]
		if gap <= 0 {
			continue
		}
		totalGap += gap
		gaps = append(gaps, model.SkillGap{
			Skill:         skill,
			CurrentLevel:  current[skill],
			RequiredLevel: req,
			GapSize:       gap,
			Priority:      gapPriority(gap),
			RelatedNodes:  relatedNodesFor(skill, nodes, completed),
		})
	}
	sort.SliceStable(gaps, func(i, j int) bool {
		return gaps[i].GapSize > gaps[j].GapSize
	})

	overall := 0.0
	if len(required) > 0 {
		overall = totalGap / (float64(len(required)) * skillLevelCap) * 100
	}

	return &model.SkillGapAnalysis{
		TargetRole:           targetRole,
		CurrentSkills:        current,
		RequiredSkills:       required,
		Gaps:                 gaps,
		OverallGapScore:      overall,
		EstimatedTimeToClose: totalGap * hoursPerGapPoint,
	}
}

func gapPriority(gap float64) model.GapPriority {
	switch {
	case gap > criticalGapThreshold:
		return model.GapCritical
	case gap > importantGapThreshold:
		return model.GapImportant
	default:
		return model.GapNiceToHave
	}
}

// relatedNodesFor 教该技能且未完成的节点，低阶优先，最多 3 个
func relatedNodesFor(skill string, nodes []model.CurriculumNode, completed map[string]bool) []string {
	var candidates []model.CurriculumNode
	for _, n := range nodes {
		if completed[n.ID] {
			continue
		}
		for _, s := range n.Skills {
			if s == skill {
				candidates = append(candidates, n)
				break
			}
		}
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Tier < candidates[j].Tier
	})
	if len(candidates) > maxRelatedNodes {
		candidates = candidates[:maxRelatedNodes]
	}
	ids := make([]string, len(candidates))
	for i, n := range candidates {
		ids[i] = n.ID
	}
	return ids
}

func emptyGapAnalysis(role string) *model.SkillGapAnalysis {
	return &model.SkillGapAnalysis{
		TargetRole:     role,
		CurrentSkills:  map[string]float64{},
		RequiredSkills: map[string]float64{},
		Gaps:           []model.SkillGap{},
	}
}
