package service

import (
	"edu_insight_backend/internal/model"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testProfile(completed map[string]bool, velocity float64, hours int) *LearnerProfile {
	if completed == nil {
		completed = map[string]bool{}
	}
	return &LearnerProfile{
		User:               &model.User{StudyHoursPerWeek: hours},
		Completed:          completed,
		CompletedCount:     len(completed),
		CompletionsPerWeek: velocity,
		HoursPerWeek:       hours,
	}
}

func hourNode(id string, tier int, hours float64, prereqs []string, skills ...string) model.CurriculumNode {
	n := node(id, tier, skills...)
	n.EstimatedHours = hours
	n.Prerequisites = prereqs
	return n
}

func TestComputePredictionProbabilityBounds(t *testing.T) {
	nodes := []model.CurriculumNode{
		hourNode("n1", 1, 2, nil, "Go"),
		hourNode("target", 4, 100, []string{"p1", "p2", "p3"}, "Kubernetes"),
	}
	target := nodes[1]

	// 最差情况：零进度、前置全缺、时间不足
	worst := ComputePrediction(testProfile(nil, 0, 1), &target, nodes, map[string]bool{})
	assert.GreaterOrEqual(t, worst.Probability, 0.0)
	assert.LessOrEqual(t, worst.Probability, 1.0)

	// 最好情况也不会越界
	all := map[string]bool{"n1": true, "p1": true, "p2": true, "p3": true}
	easy := hourNode("easy", 1, 1, nil, "Go")
	best := ComputePrediction(testProfile(all, 3, 40), &easy, nodes, map[string]bool{"Go": true})
	assert.GreaterOrEqual(t, best.Probability, 0.0)
	assert.LessOrEqual(t, best.Probability, 1.0)
	assert.Greater(t, best.Probability, worst.Probability)
}

// 前置完成得越多，概率单调不降
func TestComputePredictionMonotonicPrerequisites(t *testing.T) {
	nodes := []model.CurriculumNode{
		hourNode("p1", 1, 2, nil, "Go"),
		hourNode("p2", 1, 2, nil, "Go"),
		hourNode("target", 2, 4, []string{"p1", "p2"}, "Go"),
	}
	target := nodes[2]

	prev := -1.0
	for _, completed := range []map[string]bool{
		{},
		{"p1": true},
		{"p1": true, "p2": true},
	} {
		p := ComputePrediction(testProfile(completed, 1, 10), &target, nodes, nil)
		assert.GreaterOrEqual(t, p.Probability, prev)
		prev = p.Probability
	}
}

func TestComputePredictionFactors(t *testing.T) {
	nodes := []model.CurriculumNode{
		hourNode("target", 1, 5, nil, "Go"),
	}
	target := nodes[0]

	p := ComputePrediction(testProfile(nil, 0, 10), &target, nodes, nil)

	require.Len(t, p.Factors, 6)
	totalWeight := 0.0
	sum := 0.0
	for _, f := range p.Factors {
		totalWeight += f.Weight
		sum += f.Weight * f.Value
		assert.InDelta(t, (f.Value-0.5)*f.Weight, f.Impact, 0.0001)
	}
	assert.InDelta(t, 1.0, totalWeight, 0.0001)
	assert.InDelta(t, sum, p.Probability, 0.0001)

	// 无前置时该因子满值
	for _, f := range p.Factors {
		if f.Name == "prerequisite_completion" {
			assert.Equal(t, 1.0, f.Value)
		}
		// 目标技能集不可用时兴趣因子中性
		if f.Name == "interest_alignment" {
			assert.Equal(t, 0.5, f.Value)
		}
	}
}

func TestComputePredictionUnmetPrerequisites(t *testing.T) {
	nodes := []model.CurriculumNode{
		hourNode("p1", 1, 2, nil, "Go"),
		hourNode("target", 2, 4, []string{"p1", "ghost"}, "Go"),
	}
	target := nodes[1]

	p := ComputePrediction(testProfile(map[string]bool{"p1": true}, 1, 10), &target, nodes, nil)

	assert.Equal(t, []string{"ghost"}, p.UnmetPrerequisites)
	require.NotEmpty(t, p.LikelyFailurePoints)
	assert.Contains(t, p.LikelyFailurePoints[0], "ghost")
}

func TestComputePredictionEstimatedHours(t *testing.T) {
	nodes := []model.CurriculumNode{hourNode("target", 1, 10, nil)}
	target := nodes[0]

	p := ComputePrediction(testProfile(nil, 0, 10), &target, nodes, nil)

	// 估时随概率降低而放大，始终在 1.0x 到 1.5x 之间
	assert.GreaterOrEqual(t, p.EstimatedHours, 10.0)
	assert.LessOrEqual(t, p.EstimatedHours, 15.0)
}

func TestComputePredictionConfidence(t *testing.T) {
	nodes := []model.CurriculumNode{hourNode("target", 1, 2, nil)}
	target := nodes[0]

	// 零历史：只有基线置信度
	cold := ComputePrediction(testProfile(nil, 0, 10), &target, nodes, nil)
	assert.InDelta(t, 0.3, cold.Confidence, 0.0001)

	// 足量完成记录加已知速度
	completed := map[string]bool{}
	for i := 0; i < 10; i++ {
		completed[string(rune('a'+i))] = true
	}
	warm := ComputePrediction(testProfile(completed, 2, 10), &target, nodes, nil)
	assert.InDelta(t, 1.0, warm.Confidence, 0.0001)
}
