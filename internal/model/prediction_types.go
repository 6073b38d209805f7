package model

// PredictionFactor 完成度预测中的单个加权因子
type PredictionFactor struct {
	Name        string  `json:"name"`
	Weight      float64 `json:"weight"`
	Value       float64 `json:"value"`  // 0-1
	Impact      float64 `json:"impact"` // 带符号，相对中性值的贡献
	Description string  `json:"description"`
}

// CompletionPrediction 某内容节点的完成度预测
type CompletionPrediction struct {
	NodeID              string             `json:"nodeId"`
	Probability         float64            `json:"probability"` // 0-1
	Confidence          float64            `json:"confidence"`  // 0-1
	EstimatedHours      float64            `json:"estimatedHours"`
	Factors             []PredictionFactor `json:"factors"`
	UnmetPrerequisites  []string           `json:"unmetPrerequisites"`
	LikelyFailurePoints []string           `json:"likelyFailurePoints"`
}
