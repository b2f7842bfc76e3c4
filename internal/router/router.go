package router

import (
	"park-with-ease/internal/cache"
	"park-with-ease/internal/database"
	"park-with-ease/internal/handler"
	"park-with-ease/internal/handler/admin"
	"park-with-ease/internal/handler/auth"
	"park-with-ease/internal/handler/users"
	"park-with-ease/internal/middleware"
	"park-with-ease/internal/queue"

	"github.com/labstack/echo/v4"
)

// Setup 註冊所有路由與中介層
func Setup(e *echo.Echo, db database.DB, c cache.Cache, q queue.Client, exportDir string) {
	api := e.Group("/api")

	// 健康檢查
	api.GET("/ping", handler.PingHandler(db, c))

	// 註冊與登入
	api.POST("/register", auth.RegisterHandler(db))
	api.POST("/login", auth.LoginHandler(db))

	requireAuth := middleware.RequireAuth(db)

	// 管理員專屬
	apiAdmin := api.Group("/admin", requireAuth, middleware.RequireAdmin)
	apiAdmin.GET("/dashboard_summary", admin.DashboardSummaryHandler(db))
	apiAdmin.GET("/spots", admin.SpotsHandler(db))
	apiAdmin.GET("/spot-details/:id", admin.SpotDetailHandler(db))
	apiAdmin.GET("/users", admin.UsersHandler(db))
	apiAdmin.GET("/lots", admin.LotsHandler(db))
	apiAdmin.POST("/create_lot", admin.CreateLotHandler(db))
	apiAdmin.PUT("/update_lot/:id", admin.UpdateLotHandler(db))
	apiAdmin.DELETE("/delete_lot/:id", admin.DeleteLotHandler(db))

	// 一般使用者
	apiUser := api.Group("/user", requireAuth)
	apiUser.GET("/lots", users.LotsHandler(db))
	apiUser.POST("/book/:lot_id", users.BookHandler(db))
	apiUser.POST("/release/:reservation_id", users.ReleaseHandler(db))
	apiUser.GET("/history", users.HistoryHandler(db))
	apiUser.GET("/dashboard_summary", users.DashboardSummaryHandler(db))
	apiUser.POST("/export_csv", users.ExportCSVHandler(q))
	apiUser.GET("/export_status/:task_id", users.ExportStatusHandler(q))
	apiUser.GET("/download_csv/:task_id", users.DownloadCSVHandler(q))

	// 匯出檔下載不需登入，檔名含隨機 task id
	e.GET("/exports/:filename", handler.ExportFileHandler(exportDir))
}
