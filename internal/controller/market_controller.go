package controller

import (
	"edu_insight_backend/internal/model"
	"edu_insight_backend/internal/service"
	"edu_insight_backend/internal/util"
	"errors"

	"github.com/gin-gonic/gin"
)

type MarketController struct {
	Market *service.MarketService
}

func NewMarketController(market *service.MarketService) *MarketController {
	return &MarketController{Market: market}
}

// ListRoles godoc
// @Summary 市场角色列表
// @Tags 市场数据
// @Produce  json
// @Success 200 {object} util.Response{data=[]model.MarketRole}
// @Router /api/market/roles [get]
func (c *MarketController) ListRoles(ctx *gin.Context) {
	roles, err := c.Market.ListRoles()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, roles)
}

// GetRoleSkills godoc
// @Summary 角色的技能需求列表
// @Tags 市场数据
// @Produce  json
// @Param   role path string true "角色标识"
// @Success 200 {object} util.Response{data=[]model.MarketSkill}
// @Failure 404 {object} util.Response "角色不存在"
// @Router /api/market/roles/{role}/skills [get]
func (c *MarketController) GetRoleSkills(ctx *gin.Context) {
	skills, err := c.Market.GetRoleSkills(ctx.Param("role"))
	if err != nil {
		if errors.Is(err, util.ErrRoleNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, skills)
}

// UpsertRoleRequest 角色技能快照上报请求
type UpsertRoleRequest struct {
	Role        string  `json:"role" binding:"required"`
	AvgSalary   float64 `json:"avgSalary"`
	DemandIndex float64 `json:"demandIndex"`
	Skills      []struct {
		Skill     string  `json:"skill" binding:"required"`
		Frequency float64 `json:"frequency"`
	} `json:"skills" binding:"required"`
}

// UpsertRole godoc
// @Summary 写入或更新角色的市场技能快照
// @Description 全量替换该角色的技能需求列表，仅限管理员
// @Tags 市场数据
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body UpsertRoleRequest true "角色快照"
// @Success 200 {object} util.Response
// @Failure 400 {object} util.Response "请求参数错误"
// @Router /api/market/roles [put]
func (c *MarketController) UpsertRole(ctx *gin.Context) {
	var req UpsertRoleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	role := &model.MarketRole{
		Role:        req.Role,
		AvgSalary:   req.AvgSalary,
		DemandIndex: req.DemandIndex,
	}
	skills := make([]model.MarketSkill, len(req.Skills))
	for i, s := range req.Skills {
		skills[i] = model.MarketSkill{
			Skill:     s.Skill,
			Frequency: s.Frequency,
		}
	}

	if err := c.Market.UpsertRole(role, skills); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}
