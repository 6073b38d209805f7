package model

import "time"

type ComprehensionLevel string

const (
	LevelBeginner     ComprehensionLevel = "beginner"
	LevelIntermediate ComprehensionLevel = "intermediate"
	LevelAdvanced     ComprehensionLevel = "advanced"
)

// ComprehensionScore 单个理解度得分
type ComprehensionScore struct {
	Level       ComprehensionLevel `json:"level"`
	Score       float64            `json:"score"`      // 0-100
	Confidence  float64            `json:"confidence"` // 0-1
	LastUpdated time.Time          `json:"lastUpdated"`
}

// SectionComprehension 章节粒度的理解度，只统计归属该章节的信号
type SectionComprehension struct {
	SectionID string `json:"sectionId"`
	ComprehensionScore
	SignalCount int `json:"signalCount"`
}

// ComprehensionModel 学习者在某门课程下的理解度模型
// 每次均由信号历史纯函数重算，不做增量覆盖
type ComprehensionModel struct {
	UserID      uint                            `json:"userId"`
	CourseID    string                          `json:"courseId"`
	Overall     ComprehensionScore              `json:"overall"`
	Sections    map[string]SectionComprehension `json:"sections"`
	SignalCount int                             `json:"signalCount"`
}
