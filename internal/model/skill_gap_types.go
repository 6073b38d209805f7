package model

type GapPriority string

const (
	GapCritical   GapPriority = "critical"
	GapImportant  GapPriority = "important"
	GapNiceToHave GapPriority = "nice-to-have"
)

// SkillGap 单项技能缺口
type SkillGap struct {
	Skill         string      `json:"skill"`
	CurrentLevel  float64     `json:"currentLevel"`
	RequiredLevel float64     `json:"requiredLevel"`
	GapSize       float64     `json:"gapSize"`
	Priority      GapPriority `json:"priority"`
	RelatedNodes  []string    `json:"relatedNodes"`
}

// SkillGapAnalysis 技能缺口分析，按需派生，不落库
type SkillGapAnalysis struct {
	TargetRole          string             `json:"targetRole"`
	CurrentSkills       map[string]float64 `json:"currentSkills"`
	RequiredSkills      map[string]float64 `json:"requiredSkills"`
	Gaps                []SkillGap         `json:"gaps"`
	OverallGapScore     float64            `json:"overallGapScore"`     // 0-100
	EstimatedTimeToClose float64           `json:"estimatedTimeToClose"` // 小时
}
