package model

import "time"

// LearnerFingerprint 单个学习者近期信号形态的摘要，按 UserID 在课程内唯一
type LearnerFingerprint struct {
	UserID         uint           `json:"userId"`
	SignalCounts   map[string]int `json:"signalCounts"`
	AverageScore   float64        `json:"averageScore"`
	StruggleTopics []string       `json:"struggleTopics"`
	UpdatedAt      time.Time      `json:"updatedAt"`
}

// RecoveryContent 挣扎之后起到补救作用的内容记录
type RecoveryContent struct {
	ContentID      string  `json:"contentId"`
	SlotType       string  `json:"slotType"`
	HelpedCount    int     `json:"helpedCount"`
	AvgImprovement float64 `json:"avgImprovement"`
}

// LearningPattern 某 (章节, 主题) 上的群体挣扎统计，按 (SectionID, Topic) 唯一
type LearningPattern struct {
	SectionID        string            `json:"sectionId"`
	Topic            string            `json:"topic"`
	StruggleCount    int               `json:"struggleCount"`
	LastSeen         time.Time         `json:"lastSeen"`
	RecoveryContents []RecoveryContent `json:"recoveryContents,omitempty"`
}

// HelpfulContent 某学习者桶内按 (SlotType, SectionID, Topic) 唯一的有效内容记录
type HelpfulContent struct {
	ContentID        string    `json:"contentId"`
	SlotType         string    `json:"slotType"`
	SectionID        string    `json:"sectionId"`
	Topic            string    `json:"topic"`
	ImprovementScore float64   `json:"improvementScore"`
	HelpCount        int       `json:"helpCount"`
	RecordedAt       time.Time `json:"recordedAt"`
}

// CollectivePatterns 单门课程的共享聚合，所有学习者共同贡献
type CollectivePatterns struct {
	CourseID       string                    `json:"courseId"`
	Fingerprints   []LearnerFingerprint      `json:"fingerprints"`
	Patterns       []LearningPattern         `json:"patterns"`
	HelpfulByUser  map[uint][]HelpfulContent `json:"helpfulByUser"`
	LearnerCount   int                       `json:"learnerCount"`
	LastAggregated time.Time                 `json:"lastAggregated"`
}

// VersionedPatterns 持久化的带版本封装 {data, version}
type VersionedPatterns struct {
	Data    CollectivePatterns `json:"data"`
	Version int                `json:"version"`
}

func NewCollectivePatterns(courseID string) *CollectivePatterns {
	return &CollectivePatterns{
		CourseID:      courseID,
		Fingerprints:  []LearnerFingerprint{},
		Patterns:      []LearningPattern{},
		HelpfulByUser: map[uint][]HelpfulContent{},
	}
}
