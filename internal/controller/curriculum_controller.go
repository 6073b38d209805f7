package controller

import (
	"edu_insight_backend/internal/model"
	"edu_insight_backend/internal/service"
	"edu_insight_backend/internal/util"
	"errors"

	"github.com/gin-gonic/gin"
)

type CurriculumController struct {
	Curriculum *service.CurriculumService
}

func NewCurriculumController(curriculum *service.CurriculumService) *CurriculumController {
	return &CurriculumController{Curriculum: curriculum}
}

// NodeRequest 课程节点创建/更新请求
type NodeRequest struct {
	ID             string   `json:"id"`
	CourseID       string   `json:"courseId"`
	Title          string   `json:"title" binding:"required"`
	Description    string   `json:"description"`
	Skills         []string `json:"skills"`
	Prerequisites  []string `json:"prerequisites"`
	Tier           int      `json:"tier"`
	Difficulty     string   `json:"difficulty"`
	EstimatedHours float64  `json:"estimatedHours"`
}

// CreateNode godoc
// @Summary 创建课程图谱节点
// @Tags 课程图谱
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body NodeRequest true "节点信息"
// @Success 201 {object} util.Response{data=model.CurriculumNode}
// @Failure 400 {object} util.Response "请求参数错误"
// @Router /api/curriculum/nodes [post]
func (c *CurriculumController) CreateNode(ctx *gin.Context) {
	var req NodeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	node := c.toNode(&req)
	if err := c.Curriculum.CreateNode(node); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Created(ctx, node)
}

// ListNodes godoc
// @Summary 课程图谱节点列表
// @Tags 课程图谱
// @Produce  json
// @Param   courseId query string false "按课程过滤"
// @Success 200 {object} util.Response{data=[]model.CurriculumNode}
// @Router /api/curriculum/nodes [get]
func (c *CurriculumController) ListNodes(ctx *gin.Context) {
	nodes, err := c.Curriculum.ListNodes(ctx.Query("courseId"))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, nodes)
}

// GetNode godoc
// @Summary 获取单个课程节点
// @Tags 课程图谱
// @Produce  json
// @Param   id path string true "节点ID"
// @Success 200 {object} util.Response{data=model.CurriculumNode}
// @Failure 404 {object} util.Response "节点不存在"
// @Router /api/curriculum/nodes/{id} [get]
func (c *CurriculumController) GetNode(ctx *gin.Context) {
	node, err := c.Curriculum.GetNode(ctx.Param("id"))
	if err != nil {
		c.nodeError(ctx, err)
		return
	}
	util.Success(ctx, node)
}

// UpdateNode godoc
// @Summary 更新课程节点
// @Tags 课程图谱
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "节点ID"
// @Param   body body NodeRequest true "节点信息"
// @Success 200 {object} util.Response{data=model.CurriculumNode}
// @Failure 404 {object} util.Response "节点不存在"
// @Router /api/curriculum/nodes/{id} [put]
func (c *CurriculumController) UpdateNode(ctx *gin.Context) {
	var req NodeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	node := c.toNode(&req)
	node.ID = ctx.Param("id")
	if err := c.Curriculum.UpdateNode(node); err != nil {
		c.nodeError(ctx, err)
		return
	}
	util.Success(ctx, node)
}

// DeleteNode godoc
// @Summary 删除课程节点
// @Tags 课程图谱
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "节点ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response "节点不存在"
// @Router /api/curriculum/nodes/{id} [delete]
func (c *CurriculumController) DeleteNode(ctx *gin.Context) {
	if err := c.Curriculum.DeleteNode(ctx.Param("id")); err != nil {
		c.nodeError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// GetSuccessors godoc
// @Summary 节点的直接后继列表
// @Tags 课程图谱
// @Produce  json
// @Param   id path string true "节点ID"
// @Success 200 {object} util.Response{data=[]model.CurriculumNode}
// @Failure 404 {object} util.Response "节点不存在"
// @Router /api/curriculum/nodes/{id}/successors [get]
func (c *CurriculumController) GetSuccessors(ctx *gin.Context) {
	nodes, err := c.Curriculum.GetSuccessors(ctx.Param("id"))
	if err != nil {
		c.nodeError(ctx, err)
		return
	}
	util.Success(ctx, nodes)
}

// StartNode godoc
// @Summary 开始学习节点
// @Tags 课程图谱
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "节点ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response "节点不存在"
// @Router /api/curriculum/nodes/{id}/start [post]
func (c *CurriculumController) StartNode(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if err := c.Curriculum.StartNode(claims.UserID, ctx.Param("id")); err != nil {
		c.nodeError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// CompleteNode godoc
// @Summary 完成节点学习
// @Description 完成记录是技能证据累积的来源
// @Tags 课程图谱
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "节点ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response "节点不存在"
// @Router /api/curriculum/nodes/{id}/complete [post]
func (c *CurriculumController) CompleteNode(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if err := c.Curriculum.CompleteNode(claims.UserID, ctx.Param("id")); err != nil {
		c.nodeError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// GetProgress godoc
// @Summary 当前用户的节点进度列表
// @Tags 课程图谱
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]model.UserNodeProgress}
// @Router /api/curriculum/progress [get]
func (c *CurriculumController) GetProgress(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	progress, err := c.Curriculum.GetProgress(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, progress)
}

func (c *CurriculumController) toNode(req *NodeRequest) *model.CurriculumNode {
	return &model.CurriculumNode{
		UUIDBase:       model.UUIDBase{ID: req.ID},
		CourseID:       req.CourseID,
		Title:          req.Title,
		Description:    req.Description,
		Skills:         req.Skills,
		Prerequisites:  req.Prerequisites,
		Tier:           req.Tier,
		Difficulty:     model.NodeDifficulty(req.Difficulty),
		EstimatedHours: req.EstimatedHours,
	}
}

func (c *CurriculumController) nodeError(ctx *gin.Context, err error) {
	if errors.Is(err, util.ErrNodeNotFound) {
		util.NotFound(ctx)
		return
	}
	util.LogInternalError(ctx, err)
}
