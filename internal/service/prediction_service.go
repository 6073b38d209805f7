package service

import (
	"edu_insight_backend/internal/model"
	"edu_insight_backend/internal/repository"
	"edu_insight_backend/pkg/logger"
	"fmt"

	"go.uber.org/zap"
)

// 预测因子权重，总和为 1，顺序即输出顺序
var predictionWeights = []struct {
	name   string
	weight float64
}{
	{"skill_match", 0.30},
	{"prerequisite_completion", 0.25},
	{"learning_velocity", 0.15},
	{"difficulty_match", 0.15},
	{"time_available", 0.10},
	{"interest_alignment", 0.05},
}

type PredictionService struct {
	Profile        *ProfileService
	CurriculumRepo *repository.CurriculumRepository
	MarketRepo     *repository.MarketRepository
}

func NewPredictionService(
	profile *ProfileService,
	curriculumRepo *repository.CurriculumRepository,
	marketRepo *repository.MarketRepository,
) *PredictionService {
	return &PredictionService{
		Profile:        profile,
		CurriculumRepo: curriculumRepo,
		MarketRepo:     marketRepo,
	}
}

// Predict 估计学习者完成指定节点的概率与耗时
func (s *PredictionService) Predict(userID uint, nodeID string) (*model.CompletionPrediction, error) {
	profile, err := s.Profile.BuildProfile(userID)
	if err != nil {
		return nil, err
	}

	node, err := s.CurriculumRepo.FindNodeByID(nodeID)
	if err != nil {
		return nil, err
	}

	nodes, err := s.CurriculumRepo.ListNodes("")
	if err != nil {
		return nil, err
	}

	goalSkills := s.goalSkillSet(profile)

	return ComputePrediction(profile, node, nodes, goalSkills), nil
}

// goalSkillSet 主目标角色的市场技能集合，市场数据不可用时返回 nil（因子退化为中性）
func (s *PredictionService) goalSkillSet(profile *LearnerProfile) map[string]bool {
	primary := PrimaryGoal(profile.Goals)
	if primary == nil {
		return nil
	}
	skills, err := s.MarketRepo.GetTopSkills(primary.TargetRole)
	if err != nil {
		logger.Log.Warn("market data unavailable for interest alignment",
			zap.String("role", primary.TargetRole), zap.Error(err))
		return nil
	}
	set := make(map[string]bool, len(skills))
	for _, ms := range skills {
		set[ms.Skill] = true
	}
	return set
}

// ComputePrediction 纯函数的完成度预测
// 对匹配技能单调递增，对未满足前置单调递减，概率始终落在 [0,1]
func ComputePrediction(
	profile *LearnerProfile,
	node *model.CurriculumNode,
	allNodes []model.CurriculumNode,
	goalSkills map[string]bool,
) *model.CompletionPrediction {
	byID := make(map[string]model.CurriculumNode, len(allNodes))
	for _, n := range allNodes {
		byID[n.ID] = n
	}

	current := currentSkillLevels(allNodes, profile.Completed)

	values := map[string]float64{}
	descriptions := map[string]string{}

	// skill_match：节点技能的平均已掌握程度
	if len(node.Skills) == 0 {
		values["skill_match"] = 0.5
		descriptions["skill_match"] = "节点未声明技能，按中性处理"
	} else {
		sum := 0.0
		for _, skill := range node.Skills {
			sum += current[skill] / skillLevelCap
		}
		values["skill_match"] = sum / float64(len(node.Skills))
		descriptions["skill_match"] = fmt.Sprintf("对节点 %d 项技能的平均掌握度", len(node.Skills))
	}

	// prerequisite_completion：已满足前置的占比
	var unmet []string
	if len(node.Prerequisites) == 0 {
		values["prerequisite_completion"] = 1
		descriptions["prerequisite_completion"] = "无前置要求"
	} else {
		met := 0
		for _, pre := range node.Prerequisites {
			if profile.Completed[pre] {
				met++
			} else {
				unmet = append(unmet, pre)
			}
		}
		values["prerequisite_completion"] = float64(met) / float64(len(node.Prerequisites))
		descriptions["prerequisite_completion"] = fmt.Sprintf("%d/%d 个前置节点已完成", met, len(node.Prerequisites))
	}

	// learning_velocity：近 4 周完成速度，未知时中性
	if profile.CompletionsPerWeek > 0 {
		v := profile.CompletionsPerWeek / 2
		if v > 1 {
			v = 1
		}
		values["learning_velocity"] = v
		descriptions["learning_velocity"] = fmt.Sprintf("近期每周完成约 %.1f 个节点", profile.CompletionsPerWeek)
	} else {
		values["learning_velocity"] = 0.5
		descriptions["learning_velocity"] = "暂无完成记录，速度未知"
	}

	// difficulty_match：节点层级与学习者当前层级的贴合度
	learnerTier := averageCompletedTier(allNodes, profile.Completed)
	tierDiff := float64(node.Tier) - learnerTier
	if tierDiff < 0 {
		tierDiff = -tierDiff
	}
	dm := 1 - tierDiff/3
	if dm < 0 {
		dm = 0
	}
	values["difficulty_match"] = dm
	descriptions["difficulty_match"] = fmt.Sprintf("节点层级 %d，学习者当前约 %.1f", node.Tier, learnerTier)

	// time_available：每周可用时间对节点预计耗时的覆盖度
	hours := profile.HoursPerWeek
	if hours <= 0 {
		hours = defaultHoursPerWeek
	}
	if node.EstimatedHours <= 0 {
		values["time_available"] = 1
		descriptions["time_available"] = "节点无预计耗时"
	} else {
		ta := float64(hours) / node.EstimatedHours
		if ta > 1 {
			ta = 1
		}
		values["time_available"] = ta
		descriptions["time_available"] = fmt.Sprintf("每周 %d 小时对比预计 %.1f 小时", hours, node.EstimatedHours)
	}

	// interest_alignment：节点技能是否服务于主目标角色
	switch {
	case goalSkills == nil:
		values["interest_alignment"] = 0.5
		descriptions["interest_alignment"] = "无职业目标或市场数据，按中性处理"
	case intersects(node.Skills, goalSkills):
		values["interest_alignment"] = 1
		descriptions["interest_alignment"] = "节点技能命中目标角色要求"
	default:
		values["interest_alignment"] = 0.3
		descriptions["interest_alignment"] = "节点技能与目标角色关联较弱"
	}

	probability := 0.0
	factors := make([]model.PredictionFactor, 0, len(predictionWeights))
	for _, pw := range predictionWeights {
		v := values[pw.name]
		probability += pw.weight * v
		factors = append(factors, model.PredictionFactor{
			Name:        pw.name,
			Weight:      pw.weight,
			Value:       v,
			Impact:      (v - 0.5) * pw.weight,
			Description: descriptions[pw.name],
		})
	}
	probability = clamp01(probability)

	confidence := 0.3
	volume := float64(profile.CompletedCount) / 10
	if volume > 1 {
		volume = 1
	}
	confidence += 0.4 * volume
	if profile.CompletionsPerWeek > 0 {
		confidence += 0.3
	}
	confidence = clamp01(confidence)

	var failures []string
	for _, pre := range unmet {
		title := pre
		if n, ok := byID[pre]; ok {
			title = n.Title
		}
		failures = append(failures, fmt.Sprintf("前置节点未完成: %s", title))
	}
	if values["difficulty_match"] < 0.5 {
		failures = append(failures, "节点难度与当前水平跨度过大")
	}
	if values["time_available"] < 0.5 {
		failures = append(failures, "预计耗时超出每周学习时间预算")
	}

	return &model.CompletionPrediction{
		NodeID:              node.ID,
		Probability:         probability,
		Confidence:          confidence,
		EstimatedHours:      node.EstimatedHours * (1.5 - 0.5*probability),
		Factors:             factors,
		UnmetPrerequisites:  unmet,
		LikelyFailurePoints: failures,
	}
}

// currentSkillLevels 与缺口分析共用的证据累积规则
func currentSkillLevels(nodes []model.CurriculumNode, completed map[string]bool) map[string]float64 {
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
	return current
}

func averageCompletedTier(nodes []model.CurriculumNode, completed map[string]bool) float64 {
	sum, count := 0.0, 0
	for _, n := range nodes {
		if completed[n.ID] {
			sum += float64(n.Tier)
			count++
		}
	}
	if count == 0 {
		return 1
	}
	return sum / float64(count)
}

func intersects(skills []string, set map[string]bool) bool {
	for _, s := range skills {
		if set[s] {
			return true
		}
	}
	return false
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
