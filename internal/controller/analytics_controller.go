package controller

import (
	"edu_insight_backend/internal/service"
	"edu_insight_backend/internal/util"
	"errors"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// AnalyticsController 聚合理解度、缺口、预测与路径推荐的只读分析接口
type AnalyticsController struct {
	Comprehension *service.ComprehensionService
	SkillGap      *service.SkillGapService
	Prediction    *service.PredictionService
	Path          *service.PathService
}

func NewAnalyticsController(
	comprehension *service.ComprehensionService,
	skillGap *service.SkillGapService,
	prediction *service.PredictionService,
	path *service.PathService,
) *AnalyticsController {
	return &AnalyticsController{
		Comprehension: comprehension,
		SkillGap:      skillGap,
		Prediction:    prediction,
		Path:          path,
	}
}

// GetComprehension godoc
// @Summary 获取理解度模型
// @Description 无信号历史时返回中性默认模型
// @Tags 分析
// @Produce  json
// @Security BearerAuth
// @Param   courseId query string false "课程ID，缺省为 default"
// @Success 200 {object} util.Response{data=model.ComprehensionModel}
// @Router /api/analytics/comprehension [get]
func (c *AnalyticsController) GetComprehension(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	courseID := ctx.DefaultQuery("courseId", util.DefaultCourseID)

	m, err := c.Comprehension.GetComprehension(claims.UserID, courseID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, m)
}

// GetSkillGaps godoc
// @Summary 获取技能缺口分析
// @Description 对比已掌握技能与主目标角色的市场要求，无目标时返回空分析
// @Tags 分析
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=model.SkillGapAnalysis}
// @Router /api/analytics/skill-gaps [get]
func (c *AnalyticsController) GetSkillGaps(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	analysis, err := c.SkillGap.AnalyzeGaps(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, analysis)
}

// GetPrediction godoc
// @Summary 获取节点完成度预测
// @Tags 分析
// @Produce  json
// @Security BearerAuth
// @Param   nodeId path string true "课程节点ID"
// @Success 200 {object} util.Response{data=model.CompletionPrediction}
// @Failure 404 {object} util.Response "节点不存在"
// @Router /api/analytics/predictions/{nodeId} [get]
func (c *AnalyticsController) GetPrediction(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	nodeID := ctx.Param("nodeId")

	prediction, err := c.Prediction.Predict(claims.UserID, nodeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, prediction)
}

// GetRecommendations godoc
// @Summary 获取学习路径推荐
// @Description 多策略生成候选路径，按最优度降序返回
// @Tags 分析
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]model.PathRecommendation}
// @Router /api/analytics/recommendations [get]
func (c *AnalyticsController) GetRecommendations(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	recs, err := c.Path.GetRecommendations(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, recs)
}
