package service

import (
	"edu_insight_backend/internal/model"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strategyInputFor(profile *LearnerProfile, nodes []model.CurriculumNode) *strategyInput {
	return &strategyInput{
		profile: profile,
		nodes:   nodes,
		byID:    nodeIndex(nodes),
	}
}

func TestQuickWinsPath(t *testing.T) {
	nodes := []model.CurriculumNode{
		hourNode("long", 1, 12, nil, "Go"),
		hourNode("locked", 1, 2, []string{"missing"}, "Go"),
		hourNode("q3", 1, 3, nil, "Go"),
		hourNode("q1", 1, 1, nil, "Go"),
		hourNode("q2", 1, 2, nil, "Go"),
		hourNode("done", 1, 1, nil, "Go"),
	}
	in := strategyInputFor(testProfile(map[string]bool{"done": true}, 0, 10), nodes)

	rec := quickWinsPath(in)

	require.NotNil(t, rec)
	// 耗时升序，排除超过 4 小时、前置未满足和已完成的节点
	assert.Equal(t, []string{"q1", "q2", "q3"}, rec.NodeIDs)
}

func TestQuickWinsPathLimit(t *testing.T) {
	var nodes []model.CurriculumNode
	for i := 0; i < quickWinLimit+4; i++ {
		nodes = append(nodes, hourNode(fmt.Sprintf("n%d", i), 1, 1+float64(i)*0.1, nil, "Go"))
	}
	in := strategyInputFor(testProfile(nil, 0, 10), nodes)

	rec := quickWinsPath(in)

	require.NotNil(t, rec)
	assert.Len(t, rec.NodeIDs, quickWinLimit)
}

func TestExpertTrackGate(t *testing.T) {
	prereq := hourNode("base", 1, 2, nil, "Go")
	adv := hourNode("adv", 3, 8, []string{"base"}, "Go")
	adv.Difficulty = model.DifficultyAdvanced
	nodes := []model.CurriculumNode{prereq, adv}

	few := map[string]bool{"base": true}
	in := strategyInputFor(testProfile(few, 0, 10), nodes)
	assert.Nil(t, expertTrackPath(in))

	// 达到完成量门槛后解锁
	many := map[string]bool{"base": true}
	for i := 0; i < expertTrackGate; i++ {
		many[fmt.Sprintf("x%d", i)] = true
	}
	in = strategyInputFor(testProfile(many, 1, 10), nodes)
	rec := expertTrackPath(in)
	require.NotNil(t, rec)
	assert.Equal(t, []string{"adv"}, rec.NodeIDs)
}

func TestCareerAcceleratorPath(t *testing.T) {
	nodes := []model.CurriculumNode{
		hourNode("locked", 2, 4, []string{"missing"}, "Go", "SQL"),
		hourNode("ready1", 1, 4, nil, "Go"),
		hourNode("ready2", 1, 4, nil, "Go", "SQL"),
		hourNode("offtopic", 1, 4, nil, "Painting"),
	}
	in := strategyInputFor(testProfile(nil, 0, 10), nodes)
	in.roleSkills = map[string]bool{"Go": true, "SQL": true}

	rec := careerAcceleratorPath(in)

	require.NotNil(t, rec)
	// 前置就绪优先，匹配数高者在前，不相关节点不入选
	assert.Equal(t, []string{"ready2", "ready1", "locked"}, rec.NodeIDs)
	assert.Len(t, rec.Reasoning, 3)
}

func TestCareerAcceleratorPathRequiresMarketData(t *testing.T) {
	in := strategyInputFor(testProfile(nil, 0, 10), []model.CurriculumNode{
		hourNode("n1", 1, 2, nil, "Go"),
	})
	assert.Nil(t, careerAcceleratorPath(in))
}

func TestSkillGapCloserPath(t *testing.T) {
	nodes := []model.CurriculumNode{
		hourNode("k1", 1, 3, nil, "Kubernetes"),
		hourNode("s1", 1, 3, nil, "SQL"),
	}
	in := strategyInputFor(testProfile(nil, 0, 10), nodes)
	in.gaps = &model.SkillGapAnalysis{
		Gaps: []model.SkillGap{
			{Skill: "Kubernetes", GapSize: 60, Priority: model.GapCritical, RelatedNodes: []string{"k1"}},
			{Skill: "SQL", GapSize: 30, Priority: model.GapImportant, RelatedNodes: []string{"s1", "k1"}},
			{Skill: "CSS", GapSize: 10, Priority: model.GapNiceToHave, RelatedNodes: []string{"c1"}},
		},
	}

	rec := skillGapCloserPath(in)

	require.NotNil(t, rec)
	// 关键与重要缺口的节点并集，nice-to-have 不入选，重复节点只出现一次
	assert.Equal(t, []string{"k1", "s1"}, rec.NodeIDs)
}

func TestSkillGapCloserPathNoAnalysis(t *testing.T) {
	in := strategyInputFor(testProfile(nil, 0, 10), nil)
	assert.Nil(t, skillGapCloserPath(in))
}

func TestContinuationPath(t *testing.T) {
	nodes := []model.CurriculumNode{
		hourNode("wip", 1, 3, nil, "Go"),
		hourNode("next", 2, 3, []string{"wip"}, "Go"),
		hourNode("far", 3, 3, []string{"next"}, "Go"),
	}
	profile := testProfile(nil, 0, 10)
	profile.InProgress = []string{"wip"}
	in := strategyInputFor(profile, nodes)

	rec := continuationPath(in)

	require.NotNil(t, rec)
	// 进行中的排最前，后继紧随其后；far 的前置 next 既未完成也不在进行中
	assert.Equal(t, []string{"wip", "next"}, rec.NodeIDs)
}

func TestContinuationPathNothingInProgress(t *testing.T) {
	in := strategyInputFor(testProfile(nil, 0, 10), nil)
	assert.Nil(t, continuationPath(in))
}

func TestFinalizePathAggregates(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	nodes := []model.CurriculumNode{
		hourNode("n1", 1, 6, nil, "Go"),
		hourNode("n2", 2, 9, nil, "Go", "SQL"),
	}
	byID := nodeIndex(nodes)

	profile := testProfile(nil, 0, 10)
	profile.Goals = []model.CareerGoal{{Title: "后端工程师", TargetRole: "backend-developer"}}
	goalSets := map[string]map[string]bool{
		"后端工程师": {"Go": true},
	}

	rec := &model.PathRecommendation{NodeIDs: []string{"n1", "n2", "n1"}}
	finalizePath(rec, baseCareerAccelerator, profile, byID, goalSets, now)

	assert.NotEmpty(t, rec.ID)
	assert.Equal(t, []string{"n1", "n2"}, rec.NodeIDs) // 去重
	assert.InDelta(t, 15.0, rec.TotalHours, 0.001)
	assert.ElementsMatch(t, []string{"Go", "SQL"}, rec.SkillsGained)
	assert.Equal(t, []string{"后端工程师"}, rec.SupportsGoals)
	assert.InDelta(t, 1.0, rec.GoalAlignment, 0.001)
	assert.Equal(t, 2, rec.WeeksNeeded) // ceil(15/10)
	assert.Equal(t, now.AddDate(0, 0, 14), rec.ExpectedCompletionDate)
	assert.Equal(t, string(model.DifficultyBeginner), rec.Difficulty) // 平均层级 1.5
	assert.InDelta(t, baseCareerAccelerator, rec.Optimality, 0.001)   // (1+0.5)/1.5 = 1
}

func TestFinalizePathUnalignedFloor(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	nodes := []model.CurriculumNode{hourNode("n1", 1, 2, nil, "Go")}

	profile := testProfile(nil, 0, 10)
	rec := &model.PathRecommendation{NodeIDs: []string{"n1"}}
	finalizePath(rec, baseQuickWins, profile, nodeIndex(nodes), nil, now)

	// 无目标时对齐度取下限，最优度相应折减
	assert.InDelta(t, unalignedGoalFloor, rec.GoalAlignment, 0.001)
	assert.InDelta(t, baseQuickWins*(unalignedGoalFloor+0.5)/1.5, rec.Optimality, 0.001)
	assert.Equal(t, 1, rec.WeeksNeeded)
}

// 目标对齐的低基础分策略可以胜过不对齐的高基础分策略
func TestOptimalityOrdering(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	nodes := []model.CurriculumNode{
		hourNode("a", 1, 2, nil, "Go"),
		hourNode("b", 1, 2, nil, "Painting"),
	}
	byID := nodeIndex(nodes)

	profile := testProfile(nil, 0, 10)
	profile.Goals = []model.CareerGoal{{Title: "g", TargetRole: "backend-developer"}}
	goalSets := map[string]map[string]bool{"g": {"Go": true}}

	aligned := &model.PathRecommendation{NodeIDs: []string{"a"}}
	finalizePath(aligned, baseExpertTrack, profile, byID, goalSets, now)

	unaligned := &model.PathRecommendation{NodeIDs: []string{"b"}}
	finalizePath(unaligned, baseCareerAccelerator, profile, byID, goalSets, now)

	assert.Greater(t, aligned.Optimality, unaligned.Optimality)
}

func TestDedupeIDs(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, dedupeIDs([]string{"a", "b", "a", "c", "b"}))
	assert.Empty(t, dedupeIDs(nil))
}
