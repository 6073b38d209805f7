package service

import (
	"edu_insight_backend/internal/model"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func node(id string, tier int, skills ...string) model.CurriculumNode {
	return model.CurriculumNode{
		UUIDBase: model.UUIDBase{ID: id},
		Title:    id,
		Tier:     tier,
		Skills:   skills,
	}
}

func TestComputeSkillGapsNoProgress(t *testing.T) {
	nodes := []model.CurriculumNode{
		node("n1", 1, "SQL"),
		node("n2", 2, "SQL"),
	}
	market := []model.MarketSkill{
		{Skill: "SQL", Frequency: 0.5},
	}

	analysis := ComputeSkillGaps("data-engineer", nodes, map[string]bool{}, market)

	require.Len(t, analysis.Gaps, 1)
	gap := analysis.Gaps[0]
	assert.Equal(t, "SQL", gap.Skill)
	assert.Equal(t, 0.0, gap.CurrentLevel)
	assert.InDelta(t, 40.0, gap.RequiredLevel, 0.001) // 0.5 * 80
	assert.InDelta(t, 40.0, gap.GapSize, 0.001)
	assert.Equal(t, model.GapImportant, gap.Priority)
	assert.Equal(t, []string{"n1", "n2"}, gap.RelatedNodes)
	assert.InDelta(t, 20.0, analysis.EstimatedTimeToClose, 0.001) // 40 * 0.5h
}

func TestComputeSkillGapsEvidenceAccumulation(t *testing.T) {
	nodes := []model.CurriculumNode{
		node("n1", 1, "Go"),
		node("n2", 2, "Go"),
		node("n3", 2, "Go"),
		node("n4", 3, "Go"),
		node("n5", 3, "Go"),
	}
	market := []model.MarketSkill{
		{Skill: "Go", Frequency: 1.0},
	}

	// 两个完成节点各记 25 分
	completed := map[string]bool{"n1": true, "n2": true}
	analysis := ComputeSkillGaps("backend-developer", nodes, completed, market)
	require.Len(t, analysis.Gaps, 1)
	assert.InDelta(t, 50.0, analysis.Gaps[0].CurrentLevel, 0.001)
	assert.InDelta(t, 30.0, analysis.Gaps[0].GapSize, 0.001)

	// 五个完成节点封顶 100，缺口消失
	for _, n := range nodes {
		completed[n.ID] = true
	}
	analysis = ComputeSkillGaps("backend-developer", nodes, completed, market)
	assert.InDelta(t, 100.0, analysis.CurrentSkills["Go"], 0.001)
	assert.Empty(t, analysis.Gaps)
}

func TestGapPriorityThresholds(t *testing.T) {
	assert.Equal(t, model.GapCritical, gapPriority(51))
	assert.Equal(t, model.GapImportant, gapPriority(50))
	assert.Equal(t, model.GapImportant, gapPriority(26))
	assert.Equal(t, model.GapNiceToHave, gapPriority(25))
	assert.Equal(t, model.GapNiceToHave, gapPriority(1))
}

func TestComputeSkillGapsOrderingAndRelatedNodes(t *testing.T) {
	nodes := []model.CurriculumNode{
		node("adv", 3, "Kubernetes"),
		node("mid", 2, "Kubernetes"),
		node("basic", 1, "Kubernetes"),
		node("extra", 4, "Kubernetes"),
		node("sql1", 1, "SQL"),
	}
	market := []model.MarketSkill{
		{Skill: "Kubernetes", Frequency: 0.9}, // 缺口 72
		{Skill: "SQL", Frequency: 0.4},        // 缺口 32
	}

	analysis := ComputeSkillGaps("platform-engineer", nodes, map[string]bool{}, market)

	require.Len(t, analysis.Gaps, 2)
	// 缺口大的排前
	assert.Equal(t, "Kubernetes", analysis.Gaps[0].Skill)
	assert.Equal(t, model.GapCritical, analysis.Gaps[0].Priority)
	// 相关节点低阶优先且最多 3 个
	assert.Equal(t, []string{"basic", "mid", "adv"}, analysis.Gaps[0].RelatedNodes)
}

func TestComputeSkillGapsOverallScore(t *testing.T) {
	nodes := []model.CurriculumNode{node("n1", 1, "Go")}
	market := []model.MarketSkill{
		{Skill: "Go", Frequency: 1.0},  // 缺口 80
		{Skill: "SQL", Frequency: 0.5}, // 缺口 40
	}

	analysis := ComputeSkillGaps("backend-developer", nodes, map[string]bool{}, market)

	// (80+40) / (2*100) * 100
	assert.InDelta(t, 60.0, analysis.OverallGapScore, 0.001)
}

func TestPrimaryGoal(t *testing.T) {
	assert.Nil(t, PrimaryGoal(nil))

	goals := []model.CareerGoal{
		{Title: "a", TargetRole: "x"},
		{Title: "b", TargetRole: "y", IsPrimary: true},
	}
	g := PrimaryGoal(goals)
	require.NotNil(t, g)
	assert.Equal(t, "b", g.Title)

	// 无主目标时取第一个
	goals[1].IsPrimary = false
	assert.Equal(t, "a", PrimaryGoal(goals).Title)
}

func TestCompletedNodeSet(t *testing.T) {
	progress := []model.UserNodeProgress{
		{NodeID: "n1", Status: model.ProgressCompleted},
		{NodeID: "n2", Status: model.ProgressInProgress},
		{NodeID: "n3", Status: model.ProgressCompleted},
	}
	set := CompletedNodeSet(progress)
	assert.Equal(t, map[string]bool{"n1": true, "n3": true}, set)
}
