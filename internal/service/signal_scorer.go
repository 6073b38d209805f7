package service

import (
	"edu_insight_backend/internal/model"
)

const (
	// DefaultSignalScore 无数据或未知信号类型时的中性得分
	DefaultSignalScore = 50.0

	expectedMsPerQuestion = 30000
)

// SignalTypeWeights 各信号类型参与综合评分的权重
var SignalTypeWeights = map[model.SignalType]float64{
	model.SignalQuiz:         0.35,
	model.SignalPlayground:   0.25,
	model.SignalVideo:        0.15,
	model.SignalSectionTime:  0.15,
	model.SignalNavigation:   0.05,
	model.SignalErrorPattern: 0.05,
}

// ScoreSignal 将单个行为信号转换为 0-100 的子分数
// 纯函数，只读取信号字段，未知类型返回中性分而不是错误
func ScoreSignal(s *model.BehaviorSignal) float64 {
	switch s.Type {
	case model.SignalQuiz:
		return scoreQuiz(s)
	case model.SignalPlayground:
		return scorePlayground(s)
	case model.SignalVideo:
		return scoreVideo(s)
	case model.SignalSectionTime:
		return scoreSectionTime(s)
	case model.SignalErrorPattern:
		return scoreErrorPattern(s)
	case model.SignalNavigation:
		return scoreNavigation(s)
	default:
		return DefaultSignalScore
	}
}

func scoreQuiz(s *model.BehaviorSignal) float64 {
	if s.TotalQuestions <= 0 {
		return DefaultSignalScore
	}
	accuracy := float64(s.CorrectAnswers) / float64(s.TotalQuestions) * 100

	attemptPenalty := 0.0
	if s.AttemptsUsed > 1 {
		attemptPenalty = float64(s.AttemptsUsed-1) * 10
	}

	expected := s.ExpectedTimeMs
	if expected <= 0 {
		expected = s.TotalQuestions * expectedMsPerQuestion
	}

	// 过快视为乱猜，过慢视为挣扎
	timeAdjustment := 0.0
	if s.TimeSpentMs > 0 && expected > 0 {
		ratio := float64(s.TimeSpentMs) / float64(expected)
		if ratio < 0.3 {
			timeAdjustment = -10
		} else if ratio > 3.0 {
			timeAdjustment = -5
		}
	}

	return clampScore(accuracy - attemptPenalty + timeAdjustment)
}

func scorePlayground(s *model.BehaviorSignal) float64 {
	successRate := DefaultSignalScore
	errorPenalty := 0.0
	if s.RunCount > 0 {
		successRate = float64(s.SuccessfulRuns) / float64(s.RunCount) * 100
		errorPenalty = float64(s.ErrorCount) / float64(s.RunCount) * 30
	}

	modificationBonus := float64(s.Modifications) * 2
	if modificationBonus > 10 {
		modificationBonus = 10
	}

	return clampScore(successRate + modificationBonus - errorPenalty)
}

func scoreVideo(s *model.BehaviorSignal) float64 {
	rewindPenalty := float64(s.Rewinds) * 3
	if rewindPenalty > 15 {
		rewindPenalty = 15
	}

	pausePenalty := 0.0
	if s.Pauses > 10 {
		pausePenalty = float64(s.Pauses-10) * 2
	}

	skipPenalty := float64(s.SkippedSegments) * 5

	score := s.WatchedPercentage - rewindPenalty - pausePenalty - skipPenalty
	if s.PlaybackSpeed > 0 && s.PlaybackSpeed < 1 {
		score -= 5
	}

	return clampScore(score)
}

func scoreSectionTime(s *model.BehaviorSignal) float64 {
	score := s.CompletionPercentage

	if s.RevisitCount > 2 {
		score -= 5 * float64(s.RevisitCount-2)
	}

	// 10 秒内离开且完成度不足一半，按跳读处理
	if s.TimeSpentMs < 10000 && s.CompletionPercentage < 50 {
		score -= 20
	}

	return clampScore(score)
}

func scoreErrorPattern(s *model.BehaviorSignal) float64 {
	typePenalty := 0.0
	switch s.ErrorType {
	case "syntax":
		typePenalty = 10
	case "runtime":
		typePenalty = 5
	}

	return clampScore(100 - float64(s.RepeatedCount)*15 - typePenalty)
}

func scoreNavigation(s *model.BehaviorSignal) float64 {
	score := 80.0
	if s.Backward {
		score -= 15
	}
	if s.PreviousSectionMs > 0 && s.PreviousSectionMs < 5000 {
		score -= 10
	}
	return clampScore(score)
}

func clampScore(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
