package controller

import (
	"edu_insight_backend/internal/model"
	"edu_insight_backend/internal/service"
	"edu_insight_backend/internal/util"
	"errors"
	"time"

	"github.com/gin-gonic/gin"
)

type GoalController struct {
	GoalService *service.GoalService
}

func NewGoalController(goalService *service.GoalService) *GoalController {
	return &GoalController{GoalService: goalService}
}

// CreateGoalRequest 创建职业目标请求
type CreateGoalRequest struct {
	Title      string `json:"title" binding:"required"`
	TargetRole string `json:"targetRole" binding:"required"`
	IsPrimary  bool   `json:"isPrimary"`
	TargetDate string `json:"targetDate"`
}

// CreateGoal godoc
// @Summary 创建职业目标
// @Description 首个目标自动成为主目标
// @Tags 目标
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body CreateGoalRequest true "目标信息"
// @Success 201 {object} util.Response{data=model.CareerGoal}
// @Failure 400 {object} util.Response "请求参数错误"
// @Router /api/goals [post]
func (c *GoalController) CreateGoal(ctx *gin.Context) {
	var req CreateGoalRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	claims := util.GetUserFromContext(ctx)
	goal := &model.CareerGoal{
		UserID:     claims.UserID,
		Title:      req.Title,
		TargetRole: req.TargetRole,
		IsPrimary:  req.IsPrimary,
	}
	if req.TargetDate != "" {
		t, err := time.Parse(util.DateFormat, req.TargetDate)
		if err != nil {
			util.BadRequest(ctx, "targetDate 格式应为 "+util.DateFormat)
			return
		}
		goal.TargetDate = t
	}

	if err := c.GoalService.CreateGoal(goal); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Created(ctx, goal)
}

// ListGoals godoc
// @Summary 获取当前用户的职业目标列表
// @Tags 目标
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]model.CareerGoal}
// @Router /api/goals [get]
func (c *GoalController) ListGoals(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	goals, err := c.GoalService.ListGoals(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, goals)
}

// UpdateGoalRequest 更新目标请求
type UpdateGoalRequest struct {
	Title      string `json:"title"`
	TargetRole string `json:"targetRole"`
}

// UpdateGoal godoc
// @Summary 更新职业目标
// @Tags 目标
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "目标ID"
// @Param   body body UpdateGoalRequest true "目标更新"
// @Success 200 {object} util.Response{data=model.CareerGoal}
// @Failure 404 {object} util.Response "目标不存在"
// @Router /api/goals/{id} [put]
func (c *GoalController) UpdateGoal(ctx *gin.Context) {
	goalID, ok := util.ParseUintParam(ctx, "id")
	if !ok {
		return
	}
	var req UpdateGoalRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	claims := util.GetUserFromContext(ctx)
	goal, err := c.GoalService.UpdateGoal(claims.UserID, goalID, req.Title, req.TargetRole)
	if err != nil {
		c.goalError(ctx, err)
		return
	}
	util.Success(ctx, goal)
}

// DeleteGoal godoc
// @Summary 删除职业目标
// @Tags 目标
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "目标ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response "目标不存在"
// @Router /api/goals/{id} [delete]
func (c *GoalController) DeleteGoal(ctx *gin.Context) {
	goalID, ok := util.ParseUintParam(ctx, "id")
	if !ok {
		return
	}

	claims := util.GetUserFromContext(ctx)
	if err := c.GoalService.DeleteGoal(claims.UserID, goalID); err != nil {
		c.goalError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// SetPrimaryGoal godoc
// @Summary 设为主目标
// @Description 缺口分析与路径推荐以主目标为准
// @Tags 目标
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "目标ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response "目标不存在"
// @Router /api/goals/{id}/primary [put]
func (c *GoalController) SetPrimaryGoal(ctx *gin.Context) {
	goalID, ok := util.ParseUintParam(ctx, "id")
	if !ok {
		return
	}

	claims := util.GetUserFromContext(ctx)
	if err := c.GoalService.SetPrimaryGoal(claims.UserID, goalID); err != nil {
		c.goalError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

func (c *GoalController) goalError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrGoalNotFound):
		util.NotFound(ctx)
	case errors.Is(err, util.ErrPermissionDenied):
		util.Forbidden(ctx)
	default:
		util.LogInternalError(ctx, err)
	}
}
