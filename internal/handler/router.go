package handler

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/noah-isme/makeup-api/internal/middleware"
	"github.com/noah-isme/makeup-api/internal/models"
)

// Routes groups the handlers mounted by Register.
type Routes struct {
	APIPrefix  string
	EnableDocs bool
	CronToken  string

	Auth       middleware.Authenticator
	Requests   *MakeupRequestHandler
	Extensions *ExtensionHandler
	Accounts   *AccountHandler
	Courses    *CourseHandler
	Metrics    *MetricsHandler
}

// Register mounts every endpoint on r.
func (rt Routes) Register(r *gin.Engine) {
	r.GET("/health", rt.Metrics.Health)
	r.GET("/ready", rt.Metrics.Ready)
	r.GET("/metrics", rt.Metrics.Prometheus)
	if rt.EnableDocs {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(rt.APIPrefix)

	// The sweep is reachable by the external scheduler without a session.
	api.POST("/extensions/cleanup", middleware.OptionalIdentity(rt.Auth), middleware.AdminOrCronToken(rt.CronToken), rt.Extensions.Sweep)

	authed := api.Group("")
	authed.Use(middleware.Identity(rt.Auth))

	authed.GET("/account", rt.Accounts.Me)
	authed.GET("/account/mailing-list", rt.Accounts.MailingListStatus)
	authed.POST("/account/mailing-list/opt-out", rt.Accounts.OptOut)
	authed.POST("/account/mailing-list/opt-in", rt.Accounts.OptIn)

	authed.GET("/courses/codes", rt.Courses.Codes)

	requests := authed.Group("/requests")
	requests.POST("", middleware.RequireAccount(models.AccountStudent), rt.Requests.Submit)
	requests.GET("", rt.Requests.List)
	requests.GET("/export", rt.Requests.Export)
	requests.GET("/:id/attachments", rt.Requests.Attachments)
	requests.POST("/:id/faculty-decision", rt.Requests.FacultyDecide)
	requests.POST("/:id/admin-decision", rt.Requests.AdminDecide)

	extensions := authed.Group("/extensions")
	extensions.GET("/status", rt.Extensions.Status)
	admin := extensions.Group("")
	admin.Use(middleware.RequireAccount(models.AccountAdmin))
	admin.GET("", rt.Extensions.ListActive)
	admin.POST("", rt.Extensions.Grant)
	admin.POST("/close", rt.Extensions.Close)
}
