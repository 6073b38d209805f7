package service

import (
	"edu_insight_backend/internal/model"
	"edu_insight_backend/internal/repository"
	"edu_insight_backend/pkg/logger"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	defaultHoursPerWeek = 10

	baseCareerAccelerator = 0.95
	baseSkillGapCloser    = 0.88
	baseContinuation      = 0.85
	baseQuickWins         = 0.72
	baseExpertTrack       = 0.65

	quickWinMaxHours      = 4.0
	quickWinLimit         = 8
	careerPathLimit       = 6
	continuationSuccessor = 5
	expertTrackGate       = 20

	unalignedGoalFloor = 0.3
)

// strategyInput 各策略共享的只读输入
type strategyInput struct {
	profile    *LearnerProfile
	nodes      []model.CurriculumNode
	byID       map[string]model.CurriculumNode
	gaps       *model.SkillGapAnalysis
	roleSkills map[string]bool // 主目标角色的市场技能，nil 表示不可用
}

// pathStrategy 单个推荐策略：纯函数，候选为空时返回 nil
type pathStrategy struct {
	name string
	base float64
	fn   func(in *strategyInput) *model.PathRecommendation
}

type PathService struct {
	Profile        *ProfileService
	CurriculumRepo *repository.CurriculumRepository
	MarketRepo     *repository.MarketRepository
	SkillGap       *SkillGapService

	strategies []pathStrategy
}

func NewPathService(
	profile *ProfileService,
	curriculumRepo *repository.CurriculumRepository,
	marketRepo *repository.MarketRepository,
	skillGap *SkillGapService,
) *PathService {
	s := &PathService{
		Profile:        profile,
		CurriculumRepo: curriculumRepo,
		MarketRepo:     marketRepo,
		SkillGap:       skillGap,
	}
	// 策略表：新增策略只需追加一项，生成顺序即并列时的稳定顺序
	s.strategies = []pathStrategy{
		{"career_accelerator", baseCareerAccelerator, careerAcceleratorPath},
		{"skill_gap_closer", baseSkillGapCloser, skillGapCloserPath},
		{"quick_wins", baseQuickWins, quickWinsPath},
		{"expert_track", baseExpertTrack, expertTrackPath},
		{"continuation", baseContinuation, continuationPath},
	}
	return s
}

// GetRecommendations 运行全部策略并按最优度降序返回非空候选路径
// 单个策略依赖的外部数据失效时只跳过该策略，不中断整个请求
func (s *PathService) GetRecommendations(userID uint) ([]model.PathRecommendation, error) {
	profile, err := s.Profile.BuildProfile(userID)
	if err != nil {
		return nil, err
	}

	nodes, err := s.CurriculumRepo.ListNodes("")
	if err != nil {
		return nil, err
	}

	in := &strategyInput{
		profile: profile,
		nodes:   nodes,
		byID:    nodeIndex(nodes),
	}

	if gaps, err := s.SkillGap.AnalyzeGaps(userID); err != nil {
		logger.Log.Warn("gap analysis failed, skipping gap-closing strategy", zap.Error(err))
	} else {
		in.gaps = gaps
	}

	if primary := PrimaryGoal(profile.Goals); primary != nil {
		if skills, err := s.MarketRepo.GetTopSkills(primary.TargetRole); err != nil {
			logger.Log.Warn("market data unavailable, skipping career strategy",
				zap.String("role", primary.TargetRole), zap.Error(err))
		} else {
			set := make(map[string]bool, len(skills))
			for _, ms := range skills {
				set[ms.Skill] = true
			}
			in.roleSkills = set
		}
	}

	goalSkillSets := s.goalSkillSets(profile.Goals)

	now := time.Now()
	var result []model.PathRecommendation
	for _, strat := range s.strategies {
		rec := strat.fn(in)
		if rec == nil || len(rec.NodeIDs) == 0 {
			continue
		}
		finalizePath(rec, strat.base, profile, in.byID, goalSkillSets, now)
		result = append(result, *rec)
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Optimality > result[j].Optimality
	})
	return result, nil
}

// goalSkillSets 每个目标对应的市场技能集合，查询失败的目标按不支持处理
func (s *PathService) goalSkillSets(goals []model.CareerGoal) map[string]map[string]bool {
	sets := make(map[string]map[string]bool, len(goals))
	for _, g := range goals {
		skills, err := s.MarketRepo.GetTopSkills(g.TargetRole)
		if err != nil {
			continue
		}
		set := make(map[string]bool, len(skills))
		for _, ms := range skills {
			set[ms.Skill] = true
		}
		sets[g.Title] = set
	}
	return sets
}

// careerAcceleratorPath 职业加速：命中目标角色技能的节点，
// 前置已满足的排在前面，技能匹配数高者优先，低阶优先兜底
func careerAcceleratorPath(in *strategyInput) *model.PathRecommendation {
	if in.roleSkills == nil {
		return nil
	}

	type scored struct {
		node    model.CurriculumNode
		matches int
		met     bool
	}
	var candidates []scored
	for _, n := range in.nodes {
		if in.profile.Completed[n.ID] {
			continue
		}
		matches := 0
		for _, skill := range n.Skills {
			if in.roleSkills[skill] {
				matches++
			}
		}
		if matches == 0 {
			continue
		}
		candidates = append(candidates, scored{
			node:    n,
			matches: matches,
			met:     prerequisitesMet(n, in.profile.Completed),
		})
	}
	if len(candidates) == 0 {
		return nil
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.met != b.met {
			return a.met
		}
		as, bs := a.matches, b.matches
		if a.met {
			as *= 2
		}
		if b.met {
			bs *= 2
		}
		if as != bs {
			return as > bs
		}
		return a.node.Tier < b.node.Tier
	})
	if len(candidates) > careerPathLimit {
		candidates = candidates[:careerPathLimit]
	}

	rec := &model.PathRecommendation{
		Name:        "职业加速路径",
		Description: "围绕主目标角色的市场技能要求挑选内容",
	}
	for _, c := range candidates {
		rec.NodeIDs = append(rec.NodeIDs, c.node.ID)
		rec.Reasoning = append(rec.Reasoning,
			fmt.Sprintf("《%s》命中目标角色 %d 项技能要求", c.node.Title, c.matches))
	}
	return rec
}

// skillGapCloserPath 缺口闭合：关键与重要缺口挂载节点的并集
func skillGapCloserPath(in *strategyInput) *model.PathRecommendation {
	if in.gaps == nil {
		return nil
	}

	rec := &model.PathRecommendation{
		Name:        "技能补缺路径",
		Description: "优先补齐与目标角色差距最大的技能",
	}
	seen := make(map[string]bool)
	for _, gap := range in.gaps.Gaps {
		if gap.Priority != model.GapCritical && gap.Priority != model.GapImportant {
			continue
		}
		for _, id := range gap.RelatedNodes {
			if seen[id] {
				continue
			}
			seen[id] = true
			rec.NodeIDs = append(rec.NodeIDs, id)
			if n, ok := in.byID[id]; ok {
				rec.Reasoning = append(rec.Reasoning,
					fmt.Sprintf("《%s》用于弥补技能 %s 的 %.0f 分缺口", n.Title, gap.Skill, gap.GapSize))
			}
		}
	}
	if len(rec.NodeIDs) == 0 {
		return nil
	}
	return rec
}

// quickWinsPath 快速收获：前置就绪且 4 小时内可完成的节点，耗时升序取前 8
func quickWinsPath(in *strategyInput) *model.PathRecommendation {
	var candidates []model.CurriculumNode
	for _, n := range in.nodes {
		if in.profile.Completed[n.ID] {
			continue
		}
		if n.EstimatedHours <= 0 || n.EstimatedHours > quickWinMaxHours {
			continue
		}
		if !prerequisitesMet(n, in.profile.Completed) {
			continue
		}
		candidates = append(candidates, n)
	}
	if len(candidates) == 0 {
		return nil
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].EstimatedHours < candidates[j].EstimatedHours
	})
	if len(candidates) > quickWinLimit {
		candidates = candidates[:quickWinLimit]
	}

	rec := &model.PathRecommendation{
		Name:        "快速收获路径",
		Description: "短时间内即可完成的就绪内容，维持学习节奏",
	}
	for _, n := range candidates {
		rec.NodeIDs = append(rec.NodeIDs, n.ID)
		rec.Reasoning = append(rec.Reasoning,
			fmt.Sprintf("《%s》预计 %.1f 小时即可完成", n.Title, n.EstimatedHours))
	}
	return rec
}

// expertTrackPath 进阶路线：完成量达到门槛后才提供的高难度内容
func expertTrackPath(in *strategyInput) *model.PathRecommendation {
	if in.profile.CompletedCount < expertTrackGate {
		return nil
	}

	var candidates []model.CurriculumNode
	for _, n := range in.nodes {
		if in.profile.Completed[n.ID] {
			continue
		}
		if n.Difficulty != model.DifficultyAdvanced && n.Difficulty != model.DifficultyExpert {
			continue
		}
		if len(n.Prerequisites) == 0 || !prerequisitesMet(n, in.profile.Completed) {
			continue
		}
		candidates = append(candidates, n)
	}
	if len(candidates) == 0 {
		return nil
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Tier < candidates[j].Tier
	})

	rec := &model.PathRecommendation{
		Name:        "专家进阶路径",
		Description: "面向高级学习者的深水区内容",
	}
	for _, n := range candidates {
		rec.NodeIDs = append(rec.NodeIDs, n.ID)
		rec.Reasoning = append(rec.Reasoning,
			fmt.Sprintf("《%s》为 %s 难度且前置全部就绪", n.Title, n.Difficulty))
	}
	return rec
}

// continuationPath 顺势延续：进行中的节点加上其已解锁的直接后继
func continuationPath(in *strategyInput) *model.PathRecommendation {
	if len(in.profile.InProgress) == 0 {
		return nil
	}

	rec := &model.PathRecommendation{
		Name:        "顺势延续路径",
		Description: "先收尾进行中的内容，再顺着图谱推进",
	}
	seen := make(map[string]bool)
	for _, id := range in.profile.InProgress {
		if seen[id] {
			continue
		}
		seen[id] = true
		rec.NodeIDs = append(rec.NodeIDs, id)
		if n, ok := in.byID[id]; ok {
			rec.Reasoning = append(rec.Reasoning, fmt.Sprintf("《%s》已经开始，优先完成", n.Title))
		}
	}

	successors := 0
	for _, id := range in.profile.InProgress {
		if successors >= continuationSuccessor {
			break
		}
		for _, n := range in.nodes {
			if successors >= continuationSuccessor {
				break
			}
			if seen[n.ID] || in.profile.Completed[n.ID] {
				continue
			}
			if !containsID(n.Prerequisites, id) {
				continue
			}
			if !prerequisitesMetOrInProgress(n, in.profile) {
				continue
			}
			seen[n.ID] = true
			successors++
			rec.NodeIDs = append(rec.NodeIDs, n.ID)
			rec.Reasoning = append(rec.Reasoning, fmt.Sprintf("《%s》是当前内容的直接后继", n.Title))
		}
	}
	return rec
}

// finalizePath 统一补齐路径的聚合指标并计算最优度
func finalizePath(
	rec *model.PathRecommendation,
	base float64,
	profile *LearnerProfile,
	byID map[string]model.CurriculumNode,
	goalSkillSets map[string]map[string]bool,
	now time.Time,
) {
	rec.ID = uuid.New().String()
	rec.NodeIDs = dedupeIDs(rec.NodeIDs)

	skillSet := make(map[string]bool)
	var totalHours, tierSum float64
	tierCount := 0
	for _, id := range rec.NodeIDs {
		n, ok := byID[id]
		if !ok {
			continue
		}
		totalHours += n.EstimatedHours
		tierSum += float64(n.Tier)
		tierCount++
		for _, skill := range n.Skills {
			if !skillSet[skill] {
				skillSet[skill] = true
				rec.SkillsGained = append(rec.SkillsGained, skill)
			}
		}
	}
	rec.TotalHours = totalHours

	for _, g := range profile.Goals {
		if set, ok := goalSkillSets[g.Title]; ok && intersects(rec.SkillsGained, set) {
			rec.SupportsGoals = append(rec.SupportsGoals, g.Title)
		}
	}

	if len(profile.Goals) > 0 && len(rec.SupportsGoals) > 0 {
		rec.GoalAlignment = float64(len(rec.SupportsGoals)) / float64(len(profile.Goals))
		if rec.GoalAlignment > 1 {
			rec.GoalAlignment = 1
		}
	} else {
		rec.GoalAlignment = unalignedGoalFloor
	}

	hoursPerWeek := profile.HoursPerWeek
	if hoursPerWeek <= 0 {
		hoursPerWeek = defaultHoursPerWeek
	}
	rec.WeeksNeeded = int(math.Ceil(totalHours / float64(hoursPerWeek)))
	if rec.WeeksNeeded < 1 {
		rec.WeeksNeeded = 1
	}
	rec.ExpectedCompletionDate = now.AddDate(0, 0, rec.WeeksNeeded*7)

	if tierCount > 0 {
		rec.Difficulty = difficultyBucket(tierSum / float64(tierCount))
	} else {
		rec.Difficulty = string(model.DifficultyBeginner)
	}

	// 有界混合：目标无关的路径不会仅靠基础分压过对齐目标的路径
	rec.Optimality = base * (rec.GoalAlignment + 0.5) / 1.5
}

func difficultyBucket(meanTier float64) string {
	switch {
	case meanTier <= 1.5:
		return string(model.DifficultyBeginner)
	case meanTier <= 2.5:
		return string(model.DifficultyIntermediate)
	case meanTier <= 3.5:
		return string(model.DifficultyAdvanced)
	default:
		return string(model.DifficultyExpert)
	}
}

func nodeIndex(nodes []model.CurriculumNode) map[string]model.CurriculumNode {
	byID := make(map[string]model.CurriculumNode, len(nodes))
	for _, n := range nodes {
		byID[n.ID] = n
	}
	return byID
}

func prerequisitesMet(n model.CurriculumNode, completed map[string]bool) bool {
	for _, pre := range n.Prerequisites {
		if !completed[pre] {
			return false
		}
	}
	return true
}

// prerequisitesMetOrInProgress 延续策略里，父节点本身还在进行中也视为解锁
func prerequisitesMetOrInProgress(n model.CurriculumNode, profile *LearnerProfile) bool {
	inProgress := make(map[string]bool, len(profile.InProgress))
	for _, id := range profile.InProgress {
		inProgress[id] = true
	}
	for _, pre := range n.Prerequisites {
		if !profile.Completed[pre] && !inProgress[pre] {
			return false
		}
	}
	return true
}

func containsID(list model.StringList, id string) bool {
	for _, v := range list {
		if v == id {
			return true
		}
	}
	return false
}

func dedupeIDs(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := ids[:0]
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
