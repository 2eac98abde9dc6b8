package router

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/PGMA10/rrak-website/config"
	"github.com/PGMA10/rrak-website/internal/domain"
	"github.com/PGMA10/rrak-website/internal/handler"
	"github.com/PGMA10/rrak-website/internal/metrics"
	"github.com/PGMA10/rrak-website/internal/middleware"
	"github.com/PGMA10/rrak-website/internal/models"
	"github.com/PGMA10/rrak-website/internal/repository"
	"github.com/PGMA10/rrak-website/internal/service"
	"github.com/PGMA10/rrak-website/internal/session"
	"github.com/PGMA10/rrak-website/internal/ws"
	"github.com/PGMA10/rrak-website/pkg/cloudinary"
	"github.com/PGMA10/rrak-website/pkg/mailer"
	"github.com/PGMA10/rrak-website/pkg/markdown"
)

// Deps are the outbound integrations, chosen by the caller from config.
type Deps struct {
	Mailer mailer.Sender
	Images cloudinary.Client
}

// App is the wired HTTP surface plus the background pieces main needs to
// start and drain.
type App struct {
	Engine   *gin.Engine
	Notifier *service.Notifier
	Sessions *session.GormStore
	Feed     *ws.Feed
}

func Setup(cfg *config.Config, db *gorm.DB, deps Deps) *App {
	if cfg.Server.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	if err := r.SetTrustedProxies(cfg.Server.TrustedProxies); err != nil {
		log.Error().Err(err).Strs("proxies", cfg.Server.TrustedProxies).Msg("invalid TRUSTED_PROXIES, trusting none")
		_ = r.SetTrustedProxies(nil)
	}
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(metrics.Middleware())

	if deps.Mailer == nil {
		deps.Mailer = mailer.NoopSender{}
	}
	if deps.Images == nil {
		deps.Images = cloudinary.Disabled()
	}

	// Repositories
	blogRepo := repository.NewBlogRepository(db)
	campaignRepo := repository.NewCampaignRepository(db)
	sessionRepo := repository.NewSessionRepository(db)

	// Services
	store := session.NewGormStore(sessionRepo, cfg.Session.TTL)
	sessions := session.NewManager(store, &cfg.Session)
	feed := ws.NewFeed()
	notifier := service.NewNotifier(deps.Mailer, &cfg.Mail)
	authSvc := service.NewAuthService(&cfg.Admin, store)
	blogSvc := service.NewBlogService(blogRepo, markdown.NewRenderer(), deps.Images, cfg.Cloudinary.Folder)
	campaignSvc := service.NewCampaignService(campaignRepo, cfg.Campaign.Timezone)

	// Handlers
	adminHandler := handler.NewAdminHandler(sessions, authSvc)
	blogHandler := handler.NewBlogHandler(blogSvc)
	campaignHandler := handler.NewCampaignHandler(campaignSvc)

	limiter := middleware.NewInMemoryRateLimiter(cfg.RateLimit.Requests, cfg.RateLimit.Window)
	api := r.Group("/api")
	intake := api.Group("", middleware.RateLimit(limiter))

	registerSubmission[models.Lead](intake, "/submit-lead", adminHandler, db, notifier, feed)
	registerSubmission[models.NewsletterSubscriber](intake, "/subscribe-newsletter", adminHandler, db, notifier, feed)
	registerSubmission[models.PrintQuoteRequest](intake, "/request-quote", adminHandler, db, notifier, feed)
	registerSubmission[models.ConsultationBooking](intake, "/book-consultation", adminHandler, db, notifier, feed)
	registerSubmission[models.EmailMarketingWaitlist](intake, "/email-marketing-waitlist", adminHandler, db, notifier, feed)
	registerSubmission[models.PrintMaterialsWaitlist](intake, "/print-materials-waitlist", adminHandler, db, notifier, feed)
	registerSubmission[models.SoloMailerWaitlist](intake, "/solo-mailer-waitlist", adminHandler, db, notifier, feed)
	registerSubmission[models.LandingPagesWaitlist](intake, "/landing-pages-waitlist", adminHandler, db, notifier, feed)
	adminHandler.Register(domain.EntityBlogPosts, handler.NewDataset(blogSvc.ListAll, blogSvc.Count))

	// Public
	api.GET("/health", handler.Health(db))
	api.GET("/form-schemas", handler.FormSchemas)
	api.GET("/blog-posts", blogHandler.ListPublished)
	api.GET("/blog-posts/:slug", blogHandler.GetPublished)
	api.GET("/campaign-settings", campaignHandler.Get)

	// Session
	intake.POST("/admin/login", adminHandler.Login)
	api.POST("/admin/logout", adminHandler.Logout)
	api.GET("/admin/status", adminHandler.Status)

	// Admin
	admin := api.Group("/admin", middleware.AdminRequired(sessions))
	for _, entity := range adminHandler.Entities() {
		admin.GET("/"+string(entity), adminHandler.List(entity))
		admin.GET("/export/"+string(entity), adminHandler.Export(entity))
	}
	admin.GET("/summary", adminHandler.Summary)
	admin.GET("/feed", ws.ServeFeed(feed, sessions))
	admin.POST("/blog-posts", blogHandler.Create)
	admin.PATCH("/blog-posts/:id", blogHandler.Update)
	admin.PUT("/blog-posts/:id", blogHandler.Update)
	admin.DELETE("/blog-posts/:id", blogHandler.Delete)
	admin.POST("/blog-posts/:id/cover", blogHandler.UploadCover)
	admin.PUT("/campaign-settings", campaignHandler.Update)

	r.GET("/metrics", metrics.Handler())

	return &App{Engine: r, Notifier: notifier, Sessions: store, Feed: feed}
}

func registerSubmission[T models.Submission](intake *gin.RouterGroup, path string, admin *handler.AdminHandler, db *gorm.DB, notifier service.Dispatcher, feed service.Publisher) {
	svc := service.NewSubmissionService(repository.NewSubmissionRepository[T](db), notifier, feed)
	intake.POST(path, handler.Submit(svc))
	admin.Register(svc.Entity(), handler.NewDataset(svc.List, svc.Count))
}
