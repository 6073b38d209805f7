package model

import "time"

type NodeDifficulty string

const (
	DifficultyBeginner     NodeDifficulty = "beginner"
	DifficultyIntermediate NodeDifficulty = "intermediate"
	DifficultyAdvanced     NodeDifficulty = "advanced"
	DifficultyExpert       NodeDifficulty = "expert"
)

// CurriculumNode 课程图谱节点，前置关系以节点 ID 列表存储
type CurriculumNode struct {
	UUIDBase
	CourseID       string         `gorm:"size:64;index" json:"courseId"`
	Title          string         `gorm:"size:255;not null" json:"title"`
	Description    string         `gorm:"type:text" json:"description"`
	Skills         StringList     `gorm:"type:json" json:"skills"`
	Tier           int            `gorm:"default:1" json:"tier"`
	Difficulty     NodeDifficulty `gorm:"size:20;default:'beginner'" json:"difficulty"`
	EstimatedHours float64        `gorm:"default:1" json:"estimatedHours"`
	Prerequisites  StringList     `gorm:"type:json" json:"prerequisites"`
}

func (CurriculumNode) TableName() string {
	return "curriculum_nodes"
}

type ProgressStatus string

const (
	ProgressInProgress ProgressStatus = "in_progress"
	ProgressCompleted  ProgressStatus = "completed"
)

// UserNodeProgress 学习者与节点的进度记录，(UserID, NodeID) 唯一
type UserNodeProgress struct {
	BaseModel
	UserID      uint           `gorm:"uniqueIndex:idx_user_node;type:bigint unsigned" json:"userId"`
	NodeID      string         `gorm:"uniqueIndex:idx_user_node;size:36" json:"nodeId"`
	Status      ProgressStatus `gorm:"size:20;default:'in_progress'" json:"status"`
	StartedAt   time.Time      `json:"startedAt"`
	CompletedAt *time.Time     `json:"completedAt,omitempty"`
}

func (UserNodeProgress) TableName() string {
	return "user_node_progress"
}
