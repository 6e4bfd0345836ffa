package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"staffdesk/config"
	"staffdesk/internal/api/handler"
	"staffdesk/internal/api/middleware"
	"staffdesk/internal/model"
	"staffdesk/pkg/jwt"
	"staffdesk/pkg/redis"
)

const (
	loginRateLimit  = 10
	loginRateWindow = time.Minute
)

// Setup builds the gin engine. blacklist and rdb may be nil when Redis is
// disabled.
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, blacklist middleware.Blacklist, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── global middleware ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.BodyLimit(cfg.Server.BodyLimit))

	r.GET("/health", h.Health.Health)

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/login", middleware.RateLimit(rdb, loginRateLimit, loginRateWindow), h.Auth.Login)
			auth.POST("/refresh", h.Auth.Refresh)
		}

		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr, blacklist, logger))
		{
			authorized.POST("/auth/logout", h.Auth.Logout)
			authorized.GET("/auth/me", h.Auth.Me)
			authorized.GET("/changes", h.Changes.Stream)

			// operator self-service
			me := authorized.Group("/me", middleware.RoleAuth(model.RoleOperator))
			{
				me.GET("/shifts", h.Me.Shifts)
				me.GET("/shifts.ics", h.Me.ShiftsICS)
				me.GET("/payments", h.Me.Payments)
				me.GET("/attendance", h.Me.AttendanceStatus)
				me.POST("/attendance", h.Me.Check)
				me.GET("/attendance/records", h.Me.AttendanceRecords)
			}

			admin := authorized.Group("", middleware.RoleAuth(model.RoleAdmin))

			clients := admin.Group("/clients")
			{
				clients.GET("", h.Client.ListClients)
				clients.GET("/:id", h.Client.GetClient)
				clients.POST("", h.Client.CreateClient)
				clients.PUT("/:id", h.Client.UpdateClient)
				clients.DELETE("/:id", h.Client.DeleteClient)
			}

			events := admin.Group("/events")
			{
				events.GET("", h.Event.ListEvents)
				events.GET("/:id", h.Event.GetEvent)
				events.POST("", h.Event.CreateEvent)
				events.PUT("/:id", h.Event.UpdateEvent)
				events.DELETE("/:id", h.Event.DeleteEvent)
				events.POST("/:id/close", h.Event.CloseEvent)
				events.GET("/:id/assignments", h.Event.ListAssignments)
				events.POST("/:id/assignments", h.Event.CreateAssignment)
			}

			operators := admin.Group("/operators")
			{
				operators.GET("", h.Operator.ListOperators)
				operators.GET("/:id", h.Operator.GetOperator)
				operators.POST("", h.Operator.CreateOperator)
				operators.PUT("/:id", h.Operator.UpdateOperator)
				operators.DELETE("/:id", h.Operator.DeleteOperator)
				operators.GET("/:id/payments", h.Operator.ListPayments)
				operators.GET("/:id/shifts", h.Operator.ListShifts)
				operators.GET("/:id/attendance", h.Operator.ListAttendance)
			}

			assignments := admin.Group("/assignments")
			{
				assignments.PUT("/:id", h.Assignment.AdjustAssignment)
				assignments.DELETE("/:id", h.Assignment.DeleteAssignment)
			}

			payroll := admin.Group("/payroll")
			{
				payroll.GET("", h.Payroll.GetPayroll)
				payroll.GET("/summary", h.Payroll.GetSummary)
				payroll.GET("/export.xlsx", h.Payroll.ExportXLSX)
				payroll.GET("/export.csv", h.Payroll.ExportCSV)
			}

			sync := admin.Group("/sync")
			{
				sync.GET("/status", h.Sync.Status)
				sync.POST("/retry", h.Sync.Retry)
			}
		}
	}

	return r
}
