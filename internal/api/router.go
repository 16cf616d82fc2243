package api

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"cozyminds/internal/api/controllers"
	"cozyminds/internal/config"
	"cozyminds/internal/metrics"
	mem "cozyminds/pkg/memcache"
	"cozyminds/pkg/middleware"
	"cozyminds/pkg/utils"
)

// RouterParams collects everything the HTTP surface needs.
type RouterParams struct {
	fx.In

	Config      *config.Config
	Logger      *zap.Logger
	Metrics     *metrics.Metrics
	Tokens      *utils.TokenIssuer
	Denylist    mem.TokenDenylist
	AuthLimiter *middleware.RateLimiter

	Accounts  *controllers.AccountController
	Journals  *controllers.JournalController
	Tags      *controllers.TagController
	Shop      *controllers.ShopController
	Mail      *controllers.MailController
	Dashboard *controllers.DashboardController
}

func NewRouter(p RouterParams) (*gin.Engine, error) {
	r := gin.New()
	// gin trusts every proxy unless told otherwise; the auth rate limiter keys on ClientIP.
	if err := r.SetTrustedProxies(p.Config.TrustedProxies); err != nil {
		return nil, err
	}
	r.Use(middleware.TraceIDMiddleware())
	r.Use(middleware.RequestLogger(p.Logger))
	r.Use(middleware.Recovery(p.Logger))
	r.Use(middleware.CORSMiddleware(p.Config.CORSOrigin))
	r.Use(p.Metrics.Middleware())

	RegisterRoutes(r, p)
	return r, nil
}

func RegisterRoutes(r *gin.Engine, p RouterParams) {
	auth := middleware.JWTAuthMiddleware(p.Tokens, p.Denylist)

	r.GET("/stats", p.Dashboard.GetStats)

	accountsGroup := r.Group("/accounts")
	accountsGroup.POST("/register", p.AuthLimiter.Handler(), p.Accounts.Register)
	accountsGroup.POST("/login", p.AuthLimiter.Handler(), p.Accounts.Login)

	me := accountsGroup.Group("", auth)
	me.POST("/logout", p.Accounts.Logout)
	me.GET("/me", p.Accounts.GetMe)
	me.PUT("/me", p.Accounts.UpdateMe)
	me.DELETE("/me", p.Accounts.DeleteMe)
	me.PUT("/me/password", p.Accounts.ChangePassword)
	me.POST("/me/verify-password", p.Accounts.VerifyPassword)
	me.PUT("/me/active-theme", p.Accounts.ActivateTheme)
	me.PUT("/me/active-mail-theme", p.Accounts.ActivateMailTheme)

	journalsGroup := r.Group("/journals", auth)
	journalsGroup.POST("", p.Journals.SaveJournal)
	journalsGroup.GET("", p.Journals.ListJournals)
	journalsGroup.GET("/recent", p.Journals.RecentJournals)
	journalsGroup.GET("/tags", p.Tags.ListAllTagsHandler)
	journalsGroup.DELETE("/tags/:tag", p.Tags.RemoveTagHandler)
	journalsGroup.DELETE("/collections/:name", p.Journals.DeleteCollection)
	journalsGroup.GET("/:id", p.Journals.GetJournal)
	journalsGroup.PUT("/:id", p.Journals.UpdateJournal)
	journalsGroup.DELETE("/:id", p.Journals.DeleteJournal)

	shopGroup := r.Group("/shop", auth)
	shopGroup.GET("/items", p.Shop.ListItems)
	shopGroup.POST("/purchase", p.Shop.Purchase)
	shopGroup.GET("/inventory", p.Shop.Inventory)

	mailGroup := r.Group("/mail", auth)
	mailGroup.GET("", p.Mail.ListMail)
	mailGroup.PUT("/:id/read", p.Mail.MarkRead)
	mailGroup.DELETE("/:id", p.Mail.DeleteMail)

	adminGroup := r.Group("/admin", auth, middleware.RoleMiddleware(middleware.RoleAdmin))
	adminGroup.POST("/mail/broadcast", p.Mail.Broadcast)
	adminGroup.GET("/dashboard", p.Dashboard.GetDashboard)
}
