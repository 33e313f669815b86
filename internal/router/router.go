package router

import (
	"github.com/gin-gonic/gin"
	"github.com/yusupov7274-oss/mvp-crm-ru/config"
	"github.com/yusupov7274-oss/mvp-crm-ru/internal/app/controller"
	"github.com/yusupov7274-oss/mvp-crm-ru/internal/app/model"
	"github.com/yusupov7274-oss/mvp-crm-ru/internal/middleware"
)

type Router struct {
	authController      *controller.AuthController
	accountController   *controller.AccountController
	businessController  *controller.BusinessController
	financialController *controller.FinancialController
	funnelController    *controller.FunnelController
	dashboardController *controller.DashboardController
	summaryController   *controller.SummaryController
	taskController      *controller.TaskController
	uploadController    *controller.UploadController
	feedController      *controller.FeedController
	authMiddleware      *middleware.AuthMiddleware
	config              *config.Config
}

func NewRouter(
	authController *controller.AuthController,
	accountController *controller.AccountController,
	businessController *controller.BusinessController,
	financialController *controller.FinancialController,
	funnelController *controller.FunnelController,
	dashboardController *controller.DashboardController,
	summaryController *controller.SummaryController,
	taskController *controller.TaskController,
	uploadController *controller.UploadController,
	feedController *controller.FeedController,
	authMiddleware *middleware.AuthMiddleware,
	cfg *config.Config,
) *Router {
	return &Router{
		authController:      authController,
		accountController:   accountController,
		businessController:  businessController,
		financialController: financialController,
		funnelController:    funnelController,
		dashboardController: dashboardController,
		summaryController:   summaryController,
		taskController:      taskController,
		uploadController:    uploadController,
		feedController:      feedController,
		authMiddleware:      authMiddleware,
		config:              cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(corsMiddleware(r.config.CORS.AllowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"message": "CRM API is running",
		})
	})

	auth := r.authMiddleware.Authenticate()
	perm := r.authMiddleware.RequirePermission

	v1 := router.Group("/api/v1")
	{
		authGroup := v1.Group("/auth")
		{
			authGroup.POST("/login", r.authController.Login)
			authGroup.POST("/logout", auth, r.authController.Logout)
			authGroup.GET("/me", auth, r.authController.Me)
			authGroup.PUT("/me", auth, r.authController.UpdateMe)
		}

		accounts := v1.Group("/accounts", auth, perm(model.PermManageAccounts))
		{
			accounts.GET("", r.accountController.List)
			accounts.GET("/:id", r.accountController.Get)
			accounts.POST("", r.accountController.Create)
			accounts.PUT("/:id", r.accountController.Update)
			accounts.DELETE("/:id", r.accountController.Delete)
		}

		businesses := v1.Group("/businesses", auth)
		{
			businesses.GET("", perm(model.PermViewBusiness), r.businessController.List)
			businesses.GET("/statuses", perm(model.PermViewBusiness), r.businessController.Statuses)
			businesses.GET("/pool", perm(model.PermViewAllBusinesses), r.businessController.Pool)
			businesses.GET("/:id", perm(model.PermViewBusiness), r.businessController.Get)
			businesses.POST("", perm(model.PermEditBusiness), r.businessController.Create)
			businesses.PUT("/:id", perm(model.PermEditBusiness), r.businessController.Update)
			businesses.PUT("/:id/status", perm(model.PermEditBusiness), r.businessController.UpdateStatus)
			businesses.POST("/:id/assign", perm(model.PermAssignBusinesses), r.businessController.Assign)
			businesses.POST("/:id/unassign", perm(model.PermAssignBusinesses), r.businessController.Unassign)
			businesses.DELETE("/:id", perm(model.PermEditBusiness), r.businessController.Delete)

			businesses.GET("/:id/financials", perm(model.PermViewFinancials), r.financialController.List)
			businesses.GET("/:id/financials/:year/:month", perm(model.PermViewFinancials), r.financialController.Get)
			businesses.PUT("/:id/financials/:year/:month", perm(model.PermEditFinancials), r.financialController.Upsert)
			businesses.DELETE("/:id/financials/:year/:month", perm(model.PermEditFinancials), r.financialController.Delete)

			businesses.GET("/:id/funnel", perm(model.PermViewFunnel), r.funnelController.List)
			businesses.GET("/:id/funnel/:year/:month", perm(model.PermViewFunnel), r.funnelController.Get)
			businesses.PUT("/:id/funnel/:year/:month", perm(model.PermEditFunnel), r.funnelController.Upsert)
			businesses.DELETE("/:id/funnel/:year/:month", perm(model.PermEditFunnel), r.funnelController.Delete)

			businesses.GET("/:id/summary", perm(model.PermViewSummary), r.summaryController.Grid)
			businesses.GET("/:id/summary/export", perm(model.PermExportData), r.summaryController.Export)

			businesses.GET("/:id/tasks", perm(model.PermViewBusiness), r.taskController.List)
			businesses.POST("/:id/tasks", perm(model.PermManageTasks), r.taskController.Create)

			businesses.POST("/:id/documents/upload-url", perm(model.PermManageFiles), r.uploadController.UploadURL)
			businesses.POST("/:id/documents", perm(model.PermManageFiles), r.uploadController.Register)
			businesses.GET("/:id/documents", perm(model.PermViewBusiness), r.uploadController.List)
		}

		tasks := v1.Group("/tasks", auth, perm(model.PermManageTasks))
		{
			tasks.PUT("/:id", r.taskController.Update)
			tasks.PUT("/:id/done", r.taskController.SetDone)
			tasks.DELETE("/:id", r.taskController.Delete)
		}

		documents := v1.Group("/documents", auth, perm(model.PermManageFiles))
		{
			documents.DELETE("/:id", r.uploadController.Delete)
		}

		v1.GET("/dashboard", auth, perm(model.PermViewSummary), r.dashboardController.Get)
		v1.GET("/summary/metrics", auth, perm(model.PermViewSummary), r.summaryController.Metrics)

		// websocket: the token travels as a query parameter
		v1.GET("/feed", auth, r.feedController.Connect)
	}

	return router
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		allowed := false
		for _, allowedOrigin := range allowedOrigins {
			if origin == allowedOrigin || allowedOrigin == "*" {
				allowed = true
				break
			}
		}

		if allowed {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
