package service

import (
	"edu_insight_backend/internal/model"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quizSignal(correct, total int, sectionID string, ts time.Time) model.BehaviorSignal {
	return model.BehaviorSignal{
		UserID:         1,
		CourseID:       "go-basics",
		SectionID:      sectionID,
		Type:           model.SignalQuiz,
		Timestamp:      ts,
		CorrectAnswers: correct,
		TotalQuestions: total,
		AttemptsUsed:   1,
		TimeSpentMs:    total * expectedMsPerQuestion,
	}
}

func TestComputeComprehensionEmptyHistory(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	m := ComputeComprehension(1, "go-basics", nil, now)

	require.NotNil(t, m)
	assert.Equal(t, uint(1), m.UserID)
	assert.Equal(t, "go-basics", m.CourseID)
	assert.Equal(t, DefaultSignalScore, m.Overall.Score)
	assert.Equal(t, model.LevelIntermediate, m.Overall.Level)
	assert.Equal(t, 0.0, m.Overall.Confidence)
	assert.Equal(t, 0, m.SignalCount)
	assert.Empty(t, m.Sections)
}

func TestComputeComprehensionDeterministic(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	signals := []model.BehaviorSignal{
		quizSignal(9, 10, "s1", now.Add(-time.Hour)),
		quizSignal(5, 10, "s2", now.Add(-2*time.Hour)),
		quizSignal(7, 10, "s1", now.Add(-3*time.Hour)),
	}

	a := ComputeComprehension(1, "go-basics", signals, now)
	b := ComputeComprehension(1, "go-basics", signals, now)

	assert.Equal(t, a, b)
}

func TestComputeComprehensionLevels(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	strong := []model.BehaviorSignal{
		quizSignal(10, 10, "s1", now.Add(-time.Hour)),
		quizSignal(9, 10, "s1", now.Add(-2*time.Hour)),
	}
	m := ComputeComprehension(1, "c", strong, now)
	assert.Equal(t, model.LevelAdvanced, m.Overall.Level)
	assert.Greater(t, m.Overall.Score, 75.0)

	weak := []model.BehaviorSignal{
		quizSignal(2, 10, "s1", now.Add(-time.Hour)),
		quizSignal(3, 10, "s1", now.Add(-2*time.Hour)),
	}
	m = ComputeComprehension(1, "c", weak, now)
	assert.Equal(t, model.LevelBeginner, m.Overall.Level)
	assert.Less(t, m.Overall.Score, 45.0)
}

// 新信号的权重应高于一周前的同类信号
func TestComputeComprehensionTimeDecay(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	recentGood := []model.BehaviorSignal{
		quizSignal(10, 10, "s1", now.Add(-time.Hour)),
		quizSignal(0, 10, "s1", now.Add(-10*24*time.Hour)),
	}
	m := ComputeComprehension(1, "c", recentGood, now)

	recentBad := []model.BehaviorSignal{
		quizSignal(0, 10, "s1", now.Add(-time.Hour)),
		quizSignal(10, 10, "s1", now.Add(-10*24*time.Hour)),
	}
	m2 := ComputeComprehension(1, "c", recentBad, now)

	// 同样的信号集合，分数由近期表现主导
	assert.Greater(t, m.Overall.Score, 50.0)
	assert.Less(t, m2.Overall.Score, 50.0)
}

func TestDecayFactor(t *testing.T) {
	assert.InDelta(t, 1.0, decayFactor(0), 0.001)
	assert.InDelta(t, 0.65, decayFactor(decayWindow/2), 0.001)
	assert.InDelta(t, 0.3, decayFactor(decayWindow), 0.001)
	// 永不低于下限
	assert.InDelta(t, 0.3, decayFactor(100*24*time.Hour), 0.001)
	// 未来时间戳按零龄处理
	assert.InDelta(t, 1.0, decayFactor(-time.Hour), 0.001)
}

func TestComputeComprehensionConfidence(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	// 10 条刚产生的信号：数据量与新鲜度都拉满
	var signals []model.BehaviorSignal
	for i := 0; i < 10; i++ {
		signals = append(signals, quizSignal(8, 10, "s1", now.Add(-time.Duration(i)*time.Minute)))
	}
	m := ComputeComprehension(1, "c", signals, now)
	assert.InDelta(t, 1.0, m.Overall.Confidence, 0.01)

	// 单条一周前的信号：置信度只剩数据量部分的一小截
	old := []model.BehaviorSignal{quizSignal(8, 10, "s1", now.Add(-decayWindow))}
	m = ComputeComprehension(1, "c", old, now)
	assert.InDelta(t, 0.06, m.Overall.Confidence, 0.01)
}

func TestComputeComprehensionSections(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	signals := []model.BehaviorSignal{
		quizSignal(10, 10, "s1", now.Add(-time.Hour)),
		quizSignal(2, 10, "s2", now.Add(-2*time.Hour)),
		quizSignal(9, 10, "s1", now.Add(-3*time.Hour)),
	}

	m := ComputeComprehension(1, "c", signals, now)

	require.Len(t, m.Sections, 2)
	assert.Equal(t, 2, m.Sections["s1"].SignalCount)
	assert.Equal(t, 1, m.Sections["s2"].SignalCount)
	assert.Greater(t, m.Sections["s1"].Score, m.Sections["s2"].Score)
}

func TestComputeComprehensionHistoryLimit(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	var signals []model.BehaviorSignal
	for i := 0; i < HistoryLimit+50; i++ {
		signals = append(signals, quizSignal(8, 10, "s1", now.Add(-time.Duration(i)*time.Minute)))
	}

	m := ComputeComprehension(1, "c", signals, now)
	assert.Equal(t, HistoryLimit, m.SignalCount)
}

func TestSectionIDOf(t *testing.T) {
	explicit := model.BehaviorSignal{SectionID: "s9", Type: model.SignalPlayground, PlaygroundID: "pg-section-3"}
	assert.Equal(t, "s9", SectionIDOf(&explicit))

	// 旧数据：只有 playground 标识里嵌着章节令牌
	legacy := model.BehaviorSignal{Type: model.SignalPlayground, PlaygroundID: "intro-section_3-run"}
	assert.Equal(t, "section-3", SectionIDOf(&legacy))

	none := model.BehaviorSignal{Type: model.SignalQuiz}
	assert.Equal(t, "", SectionIDOf(&none))
}
