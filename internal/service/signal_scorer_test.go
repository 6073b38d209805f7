package service

import (
	"edu_insight_backend/internal/model"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScoreQuiz(t *testing.T) {
	tests := []struct {
		name   string
		signal model.BehaviorSignal
		want   float64
	}{
		{
			name: "满分一次通过",
			signal: model.BehaviorSignal{
				Type:           model.SignalQuiz,
				CorrectAnswers: 10,
				TotalQuestions: 10,
				AttemptsUsed:   1,
				TimeSpentMs:    240000,
			},
			want: 100,
		},
		{
			name: "低正确率多次尝试",
			signal: model.BehaviorSignal{
				Type:           model.SignalQuiz,
				CorrectAnswers: 4,
				TotalQuestions: 10,
				AttemptsUsed:   3,
				TimeSpentMs:    300000,
			},
			want: 20,
		},
		{
			name: "答得过快按乱猜扣分",
			signal: model.BehaviorSignal{
				Type:           model.SignalQuiz,
				CorrectAnswers: 10,
				TotalQuestions: 10,
				AttemptsUsed:   1,
				TimeSpentMs:    60000, // 预期 300000ms 的 20%
			},
			want: 90,
		},
		{
			name: "超时三倍以上轻微扣分",
			signal: model.BehaviorSignal{
				Type:           model.SignalQuiz,
				CorrectAnswers: 8,
				TotalQuestions: 10,
				AttemptsUsed:   1,
				TimeSpentMs:    1000000,
			},
			want: 75,
		},
		{
			name: "显式预期时间优先于默认值",
			signal: model.BehaviorSignal{
				Type:           model.SignalQuiz,
				CorrectAnswers: 10,
				TotalQuestions: 10,
				AttemptsUsed:   1,
				TimeSpentMs:    20000,
				ExpectedTimeMs: 100000, // ratio 0.2 < 0.3
			},
			want: 90,
		},
		{
			name:   "无题目返回中性分",
			signal: model.BehaviorSignal{Type: model.SignalQuiz},
			want:   DefaultSignalScore,
		},
		{
			name: "惩罚叠加不会低于零",
			signal: model.BehaviorSignal{
				Type:           model.SignalQuiz,
				CorrectAnswers: 0,
				TotalQuestions: 10,
				AttemptsUsed:   9,
				TimeSpentMs:    1000,
			},
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, ScoreSignal(&tt.signal), 0.001)
		})
	}
}

func TestScorePlayground(t *testing.T) {
	tests := []struct {
		name   string
		signal model.BehaviorSignal
		want   float64
	}{
		{
			name: "全部运行成功加修改奖励",
			signal: model.BehaviorSignal{
				Type:           model.SignalPlayground,
				RunCount:       4,
				SuccessfulRuns: 4,
				Modifications:  3,
			},
			want: 100, // 100 + 6 截断到 100
		},
		{
			name: "高错误率拉低得分",
			signal: model.BehaviorSignal{
				Type:           model.SignalPlayground,
				RunCount:       10,
				SuccessfulRuns: 2,
				ErrorCount:     10,
			},
			want: 0, // 20 - 30 截断到 0
		},
		{
			name: "修改奖励封顶 10 分",
			signal: model.BehaviorSignal{
				Type:           model.SignalPlayground,
				RunCount:       2,
				SuccessfulRuns: 1,
				Modifications:  20,
			},
			want: 60,
		},
		{
			name:   "未运行返回中性分",
			signal: model.BehaviorSignal{Type: model.SignalPlayground},
			want:   DefaultSignalScore,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, ScoreSignal(&tt.signal), 0.001)
		})
	}
}

func TestScoreVideo(t *testing.T) {
	tests := []struct {
		name   string
		signal model.BehaviorSignal
		want   float64
	}{
		{
			name: "完整观看",
			signal: model.BehaviorSignal{
				Type:              model.SignalVideo,
				WatchedPercentage: 100,
				PlaybackSpeed:     1,
			},
			want: 100,
		},
		{
			name: "回看惩罚封顶 15 分",
			signal: model.BehaviorSignal{
				Type:              model.SignalVideo,
				WatchedPercentage: 90,
				Rewinds:           10,
				PlaybackSpeed:     1,
			},
			want: 75,
		},
		{
			name: "慢速播放额外扣分",
			signal: model.BehaviorSignal{
				Type:              model.SignalVideo,
				WatchedPercentage: 80,
				PlaybackSpeed:     0.5,
			},
			want: 75,
		},
		{
			name: "频繁暂停与跳段",
			signal: model.BehaviorSignal{
				Type:              model.SignalVideo,
				WatchedPercentage: 70,
				Pauses:            12,
				SkippedSegments:   2,
				PlaybackSpeed:     1,
			},
			want: 56, // 70 - 4 - 10
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, ScoreSignal(&tt.signal), 0.001)
		})
	}
}

func TestScoreSectionTime(t *testing.T) {
	// 10 秒内离开且完成度不足一半按跳读处理
	skim := model.BehaviorSignal{
		Type:                 model.SignalSectionTime,
		CompletionPercentage: 30,
		TimeSpentMs:          5000,
	}
	assert.InDelta(t, 10.0, ScoreSignal(&skim), 0.001)

	revisit := model.BehaviorSignal{
		Type:                 model.SignalSectionTime,
		CompletionPercentage: 90,
		TimeSpentMs:          60000,
		RevisitCount:         4,
	}
	assert.InDelta(t, 80.0, ScoreSignal(&revisit), 0.001)
}

func TestScoreErrorPattern(t *testing.T) {
	syntax := model.BehaviorSignal{
		Type:          model.SignalErrorPattern,
		ErrorType:     "syntax",
		RepeatedCount: 2,
	}
	assert.InDelta(t, 60.0, ScoreSignal(&syntax), 0.001)

	runtime := model.BehaviorSignal{
		Type:          model.SignalErrorPattern,
		ErrorType:     "runtime",
		RepeatedCount: 1,
	}
	assert.InDelta(t, 80.0, ScoreSignal(&runtime), 0.001)
}

func TestScoreNavigation(t *testing.T) {
	forward := model.BehaviorSignal{
		Type:              model.SignalNavigation,
		PreviousSectionMs: 60000,
	}
	assert.InDelta(t, 80.0, ScoreSignal(&forward), 0.001)

	backwardQuick := model.BehaviorSignal{
		Type:              model.SignalNavigation,
		Backward:          true,
		PreviousSectionMs: 2000,
	}
	assert.InDelta(t, 55.0, ScoreSignal(&backwardQuick), 0.001)
}

func TestScoreSignalUnknownType(t *testing.T) {
	s := model.BehaviorSignal{Type: "mystery"}
	assert.Equal(t, DefaultSignalScore, ScoreSignal(&s))
}

// 极端输入下得分始终落在 0-100 区间
func TestScoreSignalBounds(t *testing.T) {
	extremes := []model.BehaviorSignal{
		{Type: model.SignalQuiz, CorrectAnswers: 100, TotalQuestions: 1, AttemptsUsed: 1},
		{Type: model.SignalQuiz, CorrectAnswers: 0, TotalQuestions: 100, AttemptsUsed: 50, TimeSpentMs: 1},
		{Type: model.SignalPlayground, RunCount: 1, SuccessfulRuns: 1, Modifications: 1000},
		{Type: model.SignalPlayground, RunCount: 1, ErrorCount: 1000},
		{Type: model.SignalVideo, WatchedPercentage: 100, Rewinds: 1000, Pauses: 1000, SkippedSegments: 1000},
		{Type: model.SignalSectionTime, CompletionPercentage: 0, RevisitCount: 100, TimeSpentMs: 1},
		{Type: model.SignalErrorPattern, ErrorType: "syntax", RepeatedCount: 100},
		{Type: model.SignalNavigation, Backward: true, PreviousSectionMs: 1},
	}
	for i := range extremes {
		score := ScoreSignal(&extremes[i])
		assert.GreaterOrEqual(t, score, 0.0)
		assert.LessOrEqual(t, score, 100.0)
	}
}
