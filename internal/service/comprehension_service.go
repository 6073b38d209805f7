package service

import (
	"edu_insight_backend/internal/model"
	"edu_insight_backend/internal/repository"
	"edu_insight_backend/pkg/logger"
	"edu_insight_backend/pkg/monitoring"
	"regexp"
	"time"

	"go.uber.org/zap"
)

const (
	// HistoryLimit 信号历史上限，超出后最旧的信号不再参与计算
	HistoryLimit = 200
	// ScoringWindow 参与加权评分的最近信号条数
	ScoringWindow = 50

	decayWindow = 7 * 24 * time.Hour
	decayFloor  = 0.3

	advancedThreshold     = 75.0
	intermediateThreshold = 45.0

	// 子分数低于该值记为一次挣扎，高于恢复阈值则认为内容起了作用
	struggleThreshold = 45.0
	recoveryThreshold = 60.0
)

// 旧数据的 playground 标识中嵌有章节令牌，仅作为缺失 SectionID 时的回退
var playgroundSectionPattern = regexp.MustCompile(`section[-_]([A-Za-z0-9]+)`)

type ComprehensionService struct {
	SignalRepo *repository.SignalRepository
	Collective *CollectiveService
}

func NewComprehensionService(signalRepo *repository.SignalRepository, collective *CollectiveService) *ComprehensionService {
	return &ComprehensionService{
		SignalRepo: signalRepo,
		Collective: collective,
	}
}

// Record 记录一条行为信号并重算理解度模型
// 集体模式贡献是尽力而为的，失败只记日志，不影响调用方
func (s *ComprehensionService) Record(signal *model.BehaviorSignal) (*model.ComprehensionModel, error) {
	if signal.Timestamp.IsZero() {
		signal.Timestamp = time.Now()
	}

	if err := s.SignalRepo.Create(signal); err != nil {
		return nil, err
	}
	monitoring.SignalCounter.WithLabelValues(string(signal.Type)).Inc()

	history, err := s.SignalRepo.GetRecent(signal.UserID, signal.CourseID, HistoryLimit)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	m := ComputeComprehension(signal.UserID, signal.CourseID, history, now)

	if s.Collective != nil {
		s.contribute(signal, history, m, now)
	}

	return m, nil
}

// GetComprehension 读取理解度模型，无数据时返回中性默认值，从不报错
func (s *ComprehensionService) GetComprehension(userID uint, courseID string) (*model.ComprehensionModel, error) {
	history, err := s.SignalRepo.GetRecent(userID, courseID, HistoryLimit)
	if err != nil {
		logger.Log.Warn("failed to load signal history, returning neutral model",
			zap.Uint("userId", userID), zap.String("courseId", courseID), zap.Error(err))
		history = nil
	}
	return ComputeComprehension(userID, courseID, history, time.Now()), nil
}

// contribute 将本次信号折叠进课程的集体模式存储
func (s *ComprehensionService) contribute(signal *model.BehaviorSignal, history []model.BehaviorSignal, m *model.ComprehensionModel, now time.Time) {
	counts := make(map[string]int)
	for i := range history {
		counts[string(history[i].Type)]++
	}
	var struggles []string
	for id, sec := range m.Sections {
		if sec.Score < struggleThreshold {
			struggles = append(struggles, id)
		}
	}

	fp := model.LearnerFingerprint{
		UserID:         signal.UserID,
		SignalCounts:   counts,
		AverageScore:   m.Overall.Score,
		StruggleTopics: struggles,
		UpdatedAt:      now,
	}
	if err := s.Collective.AddOrUpdateFingerprint(signal.CourseID, fp); err != nil {
		logger.Log.Warn("fingerprint contribution failed", zap.Error(err))
	}

	score := ScoreSignal(signal)
	sectionID := SectionIDOf(signal)

	if score < struggleThreshold && sectionID != "" {
		pattern := model.LearningPattern{
			SectionID:     sectionID,
			Topic:         signal.Topic,
			StruggleCount: 1,
			LastSeen:      now,
		}
		if err := s.Collective.AddLearningPattern(signal.CourseID, pattern); err != nil {
			logger.Log.Warn("pattern contribution failed", zap.Error(err))
		}
	}

	// 上一条同章节信号是挣扎、这一条明显好转，说明其间的内容起了补救作用
	if score >= recoveryThreshold && sectionID != "" {
		if prev := previousInSection(history, signal, sectionID); prev != nil {
			prevScore := ScoreSignal(prev)
			if prevScore < struggleThreshold {
				hc := model.HelpfulContent{
					ContentID:        contentIDOf(signal),
					SlotType:         string(signal.Type),
					SectionID:        sectionID,
					Topic:            signal.Topic,
					ImprovementScore: score - prevScore,
					HelpCount:        1,
					RecordedAt:       now,
				}
				if err := s.Collective.RecordHelpfulContent(signal.CourseID, signal.UserID, hc); err != nil {
					logger.Log.Warn("helpful content contribution failed", zap.Error(err))
				}
			}
		}
	}
}

// previousInSection 在历史中找同章节的上一条信号（history 按时间倒序）
func previousInSection(history []model.BehaviorSignal, current *model.BehaviorSignal, sectionID string) *model.BehaviorSignal {
	for i := range history {
		if history[i].ID == current.ID {
			continue
		}
		if !history[i].Timestamp.After(current.Timestamp) && SectionIDOf(&history[i]) == sectionID {
			return &history[i]
		}
	}
	return nil
}

func contentIDOf(s *model.BehaviorSignal) string {
	switch s.Type {
	case model.SignalPlayground:
		return s.PlaygroundID
	case model.SignalVideo:
		return s.VideoID
	default:
		return s.SectionID
	}
}

// SectionIDOf 信号的章节归属：显式 SectionID 优先，旧 playground 标识做模式回退
func SectionIDOf(s *model.BehaviorSignal) string {
	if s.SectionID != "" {
		return s.SectionID
	}
	if s.Type == model.SignalPlayground && s.PlaygroundID != "" {
		if m := playgroundSectionPattern.FindStringSubmatch(s.PlaygroundID); m != nil {
			return "section-" + m[1]
		}
	}
	return ""
}

// ComputeComprehension 由信号历史纯函数推导理解度模型
// signals 按时间倒序排列，相同输入总是得到相同结果
func ComputeComprehension(userID uint, courseID string, signals []model.BehaviorSignal, now time.Time) *model.ComprehensionModel {
	if len(signals) > HistoryLimit {
		signals = signals[:HistoryLimit]
	}

	overall := computeScore(signals, now)

	sections := make(map[string]model.SectionComprehension)
	bySection := make(map[string][]model.BehaviorSignal)
	for i := range signals {
		id := SectionIDOf(&signals[i])
		if id == "" {
			continue
		}
		bySection[id] = append(bySection[id], signals[i])
	}
	for id, subset := range bySection {
		sections[id] = model.SectionComprehension{
			SectionID:          id,
			ComprehensionScore: computeScore(subset, now),
			SignalCount:        len(subset),
		}
	}

	return &model.ComprehensionModel{
		UserID:      userID,
		CourseID:    courseID,
		Overall:     overall,
		Sections:    sections,
		SignalCount: len(signals),
	}
}

// computeScore 对一组信号（按时间倒序）做置信度加权评分
func computeScore(signals []model.BehaviorSignal, now time.Time) model.ComprehensionScore {
	window := signals
	if len(window) > ScoringWindow {
		window = window[:ScoringWindow]
	}

	var weightedSum, totalWeight float64
	for i := range window {
		w := SignalTypeWeights[window[i].Type] * decayFactor(now.Sub(window[i].Timestamp))
		weightedSum += ScoreSignal(&window[i]) * w
		totalWeight += w
	}

	score := DefaultSignalScore
	if totalWeight > 0 {
		score = weightedSum / totalWeight
	}

	confidence := 0.0
	if len(signals) > 0 {
		volume := float64(len(signals)) / 10
		if volume > 1 {
			volume = 1
		}
		freshness := 1 - now.Sub(signals[0].Timestamp).Seconds()/decayWindow.Seconds()
		if freshness < 0 {
			freshness = 0
		}
		confidence = 0.6*volume + 0.4*freshness
	}

	return model.ComprehensionScore{
		Level:       levelFor(score),
		Score:       score,
		Confidence:  confidence,
		LastUpdated: now,
	}
}

// decayFactor 时间衰减：一周以上的信号趋向 30% 权重，但永不归零
func decayFactor(age time.Duration) float64 {
	if age < 0 {
		age = 0
	}
	f := 1 - age.Seconds()/decayWindow.Seconds()*0.7
	if f < decayFloor {
		return decayFloor
	}
	return f
}

func levelFor(score float64) model.ComprehensionLevel {
	switch {
	case score >= advancedThreshold:
		return model.LevelAdvanced
	case score >= intermediateThreshold:
		return model.LevelIntermediate
	default:
		return model.LevelBeginner
	}
}
