package controller

import (
	"edu_insight_backend/internal/model"
	"edu_insight_backend/internal/service"
	"edu_insight_backend/internal/util"
	"time"

	"github.com/gin-gonic/gin"
)

type SignalController struct {
	Comprehension *service.ComprehensionService
}

func NewSignalController(comprehension *service.ComprehensionService) *SignalController {
	return &SignalController{Comprehension: comprehension}
}

// SignalRequest 行为信号上报请求，按 type 区分变体字段
// swagger:model SignalRequest
type SignalRequest struct {
	Type      model.SignalType `json:"type" binding:"required,oneof=quiz playground video sectionTime errorPattern navigation"`
	CourseID  string           `json:"courseId"`
	SectionID string           `json:"sectionId"`
	Topic     string           `json:"topic"`
	Timestamp *time.Time       `json:"timestamp"`

	// quiz
	CorrectAnswers int `json:"correctAnswers"`
	TotalQuestions int `json:"totalQuestions"`
	AttemptsUsed   int `json:"attemptsUsed"`
	TimeSpentMs    int `json:"timeSpentMs"`
	ExpectedTimeMs int `json:"expectedTimeMs"`

	// playground
	PlaygroundID   string `json:"playgroundId"`
	RunCount       int    `json:"runCount"`
	SuccessfulRuns int    `json:"successfulRuns"`
	Modifications  int    `json:"modifications"`
	ErrorCount     int    `json:"errorCount"`

	// video
	VideoID           string  `json:"videoId"`
	WatchedPercentage float64 `json:"watchedPercentage"`
	Rewinds           int     `json:"rewinds"`
	Pauses            int     `json:"pauses"`
	SkippedSegments   int     `json:"skippedSegments"`
	PlaybackSpeed     float64 `json:"playbackSpeed"`

	// sectionTime
	CompletionPercentage float64 `json:"completionPercentage"`
	RevisitCount         int     `json:"revisitCount"`

	// errorPattern
	ErrorType     string `json:"errorType"`
	RepeatedCount int    `json:"repeatedCount"`

	// navigation
	FromSection       string `json:"fromSection"`
	ToSection         string `json:"toSection"`
	Backward          bool   `json:"backward"`
	PreviousSectionMs int    `json:"previousSectionMs"`
}

// RecordSignal godoc
// @Summary 上报学习行为信号
// @Description 写入信号并同步返回重算后的理解度模型
// @Tags 信号
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body SignalRequest true "行为信号"
// @Success 201 {object} util.Response{data=model.ComprehensionModel}
// @Failure 400 {object} util.Response "请求参数错误"
// @Failure 500 {object} util.Response "服务器内部错误"
// @Router /api/signals [post]
func (c *SignalController) RecordSignal(ctx *gin.Context) {
	var req SignalRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	claims := util.GetUserFromContext(ctx)
	signal := c.toSignal(&req, claims.UserID)

	m, err := c.Comprehension.Record(signal)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Created(ctx, m)
}

func (c *SignalController) toSignal(req *SignalRequest, userID uint) *model.BehaviorSignal {
	courseID := req.CourseID
	if courseID == "" {
		courseID = util.DefaultCourseID
	}

	signal := &model.BehaviorSignal{
		UserID:    userID,
		CourseID:  courseID,
		SectionID: req.SectionID,
		Topic:     req.Topic,
		Type:      req.Type,

		CorrectAnswers: req.CorrectAnswers,
		TotalQuestions: req.TotalQuestions,
		AttemptsUsed:   req.AttemptsUsed,
		TimeSpentMs:    req.TimeSpentMs,
		ExpectedTimeMs: req.ExpectedTimeMs,

		PlaygroundID:   req.PlaygroundID,
		RunCount:       req.RunCount,
		SuccessfulRuns: req.SuccessfulRuns,
		Modifications:  req.Modifications,
		ErrorCount:     req.ErrorCount,

		VideoID:           req.VideoID,
		WatchedPercentage: req.WatchedPercentage,
		Rewinds:           req.Rewinds,
		Pauses:            req.Pauses,
		SkippedSegments:   req.SkippedSegments,
		PlaybackSpeed:     req.PlaybackSpeed,

		CompletionPercentage: req.CompletionPercentage,
		RevisitCount:         req.RevisitCount,

		ErrorType:     req.ErrorType,
		RepeatedCount: req.RepeatedCount,

		FromSection:       req.FromSection,
		ToSection:         req.ToSection,
		Backward:          req.Backward,
		PreviousSectionMs: req.PreviousSectionMs,
	}
	if req.Timestamp != nil {
		signal.Timestamp = *req.Timestamp
	}
	return signal
}
