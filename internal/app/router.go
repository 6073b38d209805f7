package app

import (
	"edu_insight_backend/internal/config"
	"edu_insight_backend/internal/middleware"
	"edu_insight_backend/internal/model"

	"edu_insight_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 1. 公共路由(无需登录)
	a.registerPublicRoutes(router, c)

	// 2. 需要授权的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg), middleware.ActivityMiddleware(repos.user))
	{
		a.registerStudentRoutes(authGroup, c)
		a.registerTeacherRoutes(authGroup, c)
	}
}

func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers) {
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)

		// 图谱与市场数据可匿名浏览
		public.GET("/curriculum/nodes", c.curriculum.ListNodes)
		public.GET("/curriculum/nodes/:id", c.curriculum.GetNode)
		public.GET("/curriculum/nodes/:id/successors", c.curriculum.GetSuccessors)
		public.GET("/market/roles", c.market.ListRoles)
		public.GET("/market/roles/:role/skills", c.market.GetRoleSkills)
	}
}

func (a *App) registerStudentRoutes(rg *gin.RouterGroup, c *controllers) {
	rg.GET("/user/profile", c.user.GetProfile)
	rg.PUT("/user/profile", c.user.UpdateProfile)
	rg.PUT("/user/study-hours", c.user.UpdateStudyHours)

	// 职业目标
	rg.POST("/goals", c.goal.CreateGoal)
	rg.GET("/goals", c.goal.ListGoals)
	rg.PUT("/goals/:id", c.goal.UpdateGoal)
	rg.DELETE("/goals/:id", c.goal.DeleteGoal)
	rg.PUT("/goals/:id/primary", c.goal.SetPrimaryGoal)

	// 行为信号与分析
	rg.POST("/signals", c.signal.RecordSignal)
	rg.GET("/analytics/comprehension", c.analytics.GetComprehension)
	rg.GET("/analytics/skill-gaps", c.analytics.GetSkillGaps)
	rg.GET("/analytics/predictions/:nodeId", c.analytics.GetPrediction)
	rg.GET("/analytics/recommendations", c.analytics.GetRecommendations)

	// 节点进度
	rg.POST("/curriculum/nodes/:id/start", c.curriculum.StartNode)
	rg.POST("/curriculum/nodes/:id/complete", c.curriculum.CompleteNode)
	rg.GET("/curriculum/progress", c.curriculum.GetProgress)
}

func (a *App) registerTeacherRoutes(rg *gin.RouterGroup, c *controllers) {
	// 图谱维护：教师与管理员
	teacher := rg.Group("/")
	teacher.Use(middleware.RoleMiddleware(model.Teacher))
	{
		teacher.POST("/curriculum/nodes", c.curriculum.CreateNode)
		teacher.PUT("/curriculum/nodes/:id", c.curriculum.UpdateNode)
		teacher.DELETE("/curriculum/nodes/:id", c.curriculum.DeleteNode)

		// 集体模式管理
		teacher.GET("/collective/:courseId/export", c.collective.ExportPatterns)
		teacher.POST("/collective/:courseId/import", c.collective.ImportPatterns)
		teacher.DELETE("/collective/:courseId", c.collective.ClearPatterns)
		teacher.DELETE("/collective/:courseId/learners/:userId", c.collective.PurgeLearner)
	}

	// 市场数据写入：仅限管理员
	admin := rg.Group("/")
	admin.Use(middleware.RoleMiddleware(model.Admin))
	{
		admin.PUT("/market/roles", c.market.UpsertRole)
	}
}
