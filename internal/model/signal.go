package model

import "time"

type SignalType string

const (
	SignalQuiz         SignalType = "quiz"
	SignalPlayground   SignalType = "playground"
	SignalVideo        SignalType = "video"
	SignalSectionTime  SignalType = "sectionTime"
	SignalErrorPattern SignalType = "errorPattern"
	SignalNavigation   SignalType = "navigation"
)

// BehaviorSignal 学习行为信号，追加式写入，写入后不可修改
// 按 Type 区分变体，各变体只使用自己的字段
type BehaviorSignal struct {
	UUIDBase
	UserID    uint       `gorm:"index:idx_signal_user_course" json:"userId"`
	CourseID  string     `gorm:"size:64;index:idx_signal_user_course" json:"courseId"`
	SectionID string     `gorm:"size:64;index" json:"sectionId"`
	Topic     string     `gorm:"size:100" json:"topic,omitempty"`
	Type      SignalType `gorm:"size:20;not null" json:"type"`
	Timestamp time.Time  `gorm:"index" json:"timestamp"`

	// quiz
	CorrectAnswers int `gorm:"default:0" json:"correctAnswers,omitempty"`
	TotalQuestions int `gorm:"default:0" json:"totalQuestions,omitempty"`
	AttemptsUsed   int `gorm:"default:0" json:"attemptsUsed,omitempty"`
	TimeSpentMs    int `gorm:"default:0" json:"timeSpentMs,omitempty"` // quiz 与 sectionTime 共用
	ExpectedTimeMs int `gorm:"default:0" json:"expectedTimeMs,omitempty"`

	// playground
	PlaygroundID   string `gorm:"size:128" json:"playgroundId,omitempty"`
	RunCount       int    `gorm:"default:0" json:"runCount,omitempty"`
	SuccessfulRuns int    `gorm:"default:0" json:"successfulRuns,omitempty"`
	Modifications  int    `gorm:"default:0" json:"modifications,omitempty"`
	ErrorCount     int    `gorm:"default:0" json:"errorCount,omitempty"`

	// video
	VideoID           string  `gorm:"size:128" json:"videoId,omitempty"`
	WatchedPercentage float64 `gorm:"default:0" json:"watchedPercentage,omitempty"`
	Rewinds           int     `gorm:"default:0" json:"rewinds,omitempty"`
	Pauses            int     `gorm:"default:0" json:"pauses,omitempty"`
	SkippedSegments   int     `gorm:"default:0" json:"skippedSegments,omitempty"`
	PlaybackSpeed     float64 `gorm:"default:1" json:"playbackSpeed,omitempty"`

	// sectionTime
	CompletionPercentage float64 `gorm:"default:0" json:"completionPercentage,omitempty"`
	RevisitCount         int     `gorm:"default:0" json:"revisitCount,omitempty"`

	// errorPattern
	ErrorType     string `gorm:"size:40" json:"errorType,omitempty"`
	RepeatedCount int    `gorm:"default:0" json:"repeatedCount,omitempty"`

	// navigation
	FromSection       string `gorm:"size:64" json:"fromSection,omitempty"`
	ToSection         string `gorm:"size:64" json:"toSection,omitempty"`
	Backward          bool   `gorm:"default:false" json:"backward,omitempty"`
	PreviousSectionMs int    `gorm:"default:0" json:"previousSectionMs,omitempty"`
}

func (BehaviorSignal) TableName() string {
	return "behavior_signals"
}
