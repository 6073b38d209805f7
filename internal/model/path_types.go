package model

import "time"

// PathRecommendation 一条候选学习路径，生成后只参与排序，不再修改
type PathRecommendation struct {
	ID                     string    `json:"id"`
	Name                   string    `json:"name"`
	Description            string    `json:"description"`
	NodeIDs                []string  `json:"nodeIds"`
	TotalHours             float64   `json:"totalHours"`
	Difficulty             string    `json:"difficulty"`
	GoalAlignment          float64   `json:"goalAlignment"` // 0-1
	Optimality             float64   `json:"optimality"`    // 0-1
	SupportsGoals          []string  `json:"supportsGoals"`
	SkillsGained           []string  `json:"skillsGained"`
	Reasoning              []string  `json:"reasoning"`
	WeeksNeeded            int       `json:"weeksNeeded"`
	ExpectedCompletionDate time.Time `json:"expectedCompletionDate"`
}
