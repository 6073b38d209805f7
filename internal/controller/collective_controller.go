package controller

import (
	"edu_insight_backend/internal/model"
	"edu_insight_backend/internal/service"
	"edu_insight_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// CollectiveController 集体模式存储的管理接口，仅限教师与管理员
type CollectiveController struct {
	Collective *service.CollectiveService
}

func NewCollectiveController(collective *service.CollectiveService) *CollectiveController {
	return &CollectiveController{Collective: collective}
}

// ExportPatterns godoc
// @Summary 导出课程的集体模式快照
// @Tags 集体模式
// @Produce  json
// @Security BearerAuth
// @Param   courseId path string true "课程ID"
// @Success 200 {object} util.Response{data=model.VersionedPatterns}
// @Router /api/collective/{courseId}/export [get]
func (c *CollectiveController) ExportPatterns(ctx *gin.Context) {
	courseID := ctx.Param("courseId")

	blob, err := c.Collective.Export(courseID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, blob)
}

// ImportPatterns godoc
// @Summary 合并式导入集体模式快照
// @Description 同键实体按最近者或高频者胜出，双方数据都不丢失
// @Tags 集体模式
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   courseId path string true "课程ID"
// @Param   body body model.VersionedPatterns true "待导入快照"
// @Success 200 {object} util.Response
// @Failure 400 {object} util.Response "请求参数错误"
// @Router /api/collective/{courseId}/import [post]
func (c *CollectiveController) ImportPatterns(ctx *gin.Context) {
	courseID := ctx.Param("courseId")

	var incoming model.VersionedPatterns
	if err := ctx.ShouldBindJSON(&incoming); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	if incoming.Data.HelpfulByUser == nil {
		incoming.Data.HelpfulByUser = make(map[uint][]model.HelpfulContent)
	}

	if err := c.Collective.Import(courseID, &incoming); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// ClearPatterns godoc
// @Summary 清空课程的集体模式数据
// @Tags 集体模式
// @Produce  json
// @Security BearerAuth
// @Param   courseId path string true "课程ID"
// @Success 200 {object} util.Response
// @Router /api/collective/{courseId} [delete]
func (c *CollectiveController) ClearPatterns(ctx *gin.Context) {
	courseID := ctx.Param("courseId")

	if err := c.Collective.ClearCourse(courseID); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// PurgeLearner godoc
// @Summary 移除某学习者在课程内的全部集体数据
// @Description 数据清除请求的支撑接口
// @Tags 集体模式
// @Produce  json
// @Security BearerAuth
// @Param   courseId path string true "课程ID"
// @Param   userId path int true "用户ID"
// @Success 200 {object} util.Response
// @Router /api/collective/{courseId}/learners/{userId} [delete]
func (c *CollectiveController) PurgeLearner(ctx *gin.Context) {
	courseID := ctx.Param("courseId")
	userID, ok := util.ParseUintParam(ctx, "userId")
	if !ok {
		return
	}

	if err := c.Collective.PurgeLearner(courseID, userID); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}
