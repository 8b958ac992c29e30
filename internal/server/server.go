package server

import (
	"net/http"
	"strings"
	"time"

	"anoa.com/blogfeed/internal/config"
	"anoa.com/blogfeed/internal/middleware"
	"anoa.com/blogfeed/pkg/feedcache"
	"anoa.com/blogfeed/pkg/logger"
	"anoa.com/blogfeed/pkg/storage"
	"anoa.com/blogfeed/pkg/validator"

	commentHttp "anoa.com/blogfeed/internal/modules/comment/delivery/http"
	commentRepo "anoa.com/blogfeed/internal/modules/comment/repository"
	commentService "anoa.com/blogfeed/internal/modules/comment/service"

	feedHttp "anoa.com/blogfeed/internal/modules/feed/delivery/http"
	feedService "anoa.com/blogfeed/internal/modules/feed/service"

	followHttp "anoa.com/blogfeed/internal/modules/follow/delivery/http"
	followRepo "anoa.com/blogfeed/internal/modules/follow/repository"
	followService "anoa.com/blogfeed/internal/modules/follow/service"

	groupHttp "anoa.com/blogfeed/internal/modules/group/delivery/http"
	groupRepo "anoa.com/blogfeed/internal/modules/group/repository"
	groupService "anoa.com/blogfeed/internal/modules/group/service"

	postHttp "anoa.com/blogfeed/internal/modules/post/delivery/http"
	postRepo "anoa.com/blogfeed/internal/modules/post/repository"
	postService "anoa.com/blogfeed/internal/modules/post/service"

	searchHttp "anoa.com/blogfeed/internal/modules/search/delivery/http"
	searchService "anoa.com/blogfeed/internal/modules/search/service"

	userHttp "anoa.com/blogfeed/internal/modules/user/delivery/http"
	userRepo "anoa.com/blogfeed/internal/modules/user/repository"
	userService "anoa.com/blogfeed/internal/modules/user/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/meilisearch/meilisearch-go"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Server struct {
	engine      *gin.Engine
	db          *gorm.DB
	redisClient *redis.Client
	cache       feedcache.Cache
}

// NewServer wires every module. Redis, Cloudinary and Meilisearch are optional:
// without them the feed cache stays in process, uploads are refused and search
// answers 503.
func NewServer(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*Server, error) {
	if err := validator.RegisterCustomValidations(); err != nil {
		return nil, err
	}

	var cache feedcache.Cache
	if redisClient != nil {
		cache = feedcache.NewRedis(redisClient, "feedcache", cfg.FeedCacheTTL)
	} else {
		cache = feedcache.NewMemory(cfg.FeedCacheTTL)
	}

	var imageStorage storage.ImageStorage
	if cfg.CloudinaryURL != "" {
		s, err := storage.NewCloudinaryStorage(cfg.CloudinaryURL, cfg.CloudinaryUploadFolder)
		if err != nil {
			return nil, err
		}
		imageStorage = s
	} else {
		logger.Warn().Msg("CLOUDINARY_URL is not set, image uploads are disabled")
	}

	var meiliSvc searchService.MeiliSearchService
	if cfg.MeiliSearchHost != "" {
		meiliHost := cfg.MeiliSearchHost
		if !strings.HasPrefix(meiliHost, "http") {
			meiliHost = "http://" + meiliHost + ":7700"
		}
		meiliClient := meilisearch.New(meiliHost, meilisearch.WithAPIKey(cfg.MeiliMasterKey))
		meiliSvc = searchService.NewMeiliSearchService(meiliClient)
	} else {
		logger.Warn().Msg("MEILISEARCH_HOST is not set, search is disabled")
	}

	userRepo := userRepo.NewUserRepository(db)
	groupRepo := groupRepo.NewGroupRepository(db)
	postRepo := postRepo.NewPostRepository(db)
	commentRepo := commentRepo.NewCommentRepository(db)
	followRepo := followRepo.NewFollowRepository(db)

	authSvc := userService.NewAuthService(userRepo, cfg.JWTSecret, cfg.JWTTTL)
	userSvc := userService.NewUserService(userRepo, cache)
	authHandler := userHttp.NewAuthHandler(authSvc, userSvc, !cfg.IsDevelopment())

	groupSvc := groupService.NewGroupService(groupRepo, cache, cfg.GroupSlugMaxLength)
	groupHandler := groupHttp.NewGroupHandler(groupSvc)

	postSvc := postService.NewPostService(postRepo, groupRepo, commentRepo, userRepo, imageStorage, redisClient, cache, meiliSvc, postService.Options{
		RateLimit: cfg.RateLimitPost,
	})
	postHandler := postHttp.NewPostHandler(postSvc)

	commentSvc := commentService.NewCommentService(commentRepo, postRepo, redisClient, commentService.Options{
		RateLimit: cfg.RateLimitComment,
	})
	commentHandler := commentHttp.NewCommentHandler(commentSvc)

	followSvc := followService.NewFollowService(followRepo, userRepo)
	followHandler := followHttp.NewFollowHandler(followSvc)

	feedSvc := feedService.NewFeedService(postRepo, groupRepo, userRepo, followSvc, cache, cfg.PostsPerPage)
	feedHandler := feedHttp.NewFeedHandler(feedSvc)

	searchSvc := searchService.NewSearchService(meiliSvc, postRepo, cfg.PostsPerPage)
	searchHandler := searchHttp.NewSearchHandler(searchSvc)

	router := gin.New()

	setupCORS(router, cfg.AllowedOrigins)

	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger())

	authMiddleware := middleware.NewAuthMiddleware(userRepo, cfg.JWTSecret, cfg.LoginURL)

	// Public routes (no auth required)
	auth := router.Group("/auth")
	{
		auth.POST("/signup/", authHandler.Signup)
		auth.GET("/login/", authHandler.LoginPage)
		auth.POST("/login/", authHandler.Login)
	}

	router.GET("/", feedHandler.Index)
	router.GET("/group/:slug/", feedHandler.GroupPosts)
	router.GET("/groups/", groupHandler.ListGroups)
	router.GET("/posts/:id/", postHandler.GetPostDetail)
	router.GET("/posts/:id/comments/", commentHandler.ListComments)
	router.GET("/profile/:username/", authMiddleware.OptionalAuth(), feedHandler.Profile)
	router.GET("/search/", searchHandler.SearchPosts)

	// Protected routes
	protected := router.Group("")
	protected.Use(authMiddleware.RequireAuth())
	{
		protected.GET("/create/", postHandler.CreateForm)
		protected.POST("/create/", postHandler.CreatePost)
		protected.GET("/posts/:id/edit/", postHandler.EditForm)
		protected.POST("/posts/:id/edit/", postHandler.UpdatePost)
		protected.POST("/posts/:id/delete/", postHandler.DeletePost)
		protected.POST("/posts/:id/comment/", commentHandler.AddComment)

		protected.GET("/follow/", feedHandler.FollowIndex)
		protected.GET("/profile/:username/follow/", followHandler.Follow)
		protected.GET("/profile/:username/unfollow/", followHandler.Unfollow)

		adminGroup := protected.Group("/admin")
		adminGroup.Use(authMiddleware.RequireAdmin())
		{
			adminGroup.POST("/groups/", groupHandler.CreateGroup)
			adminGroup.PUT("/groups/:slug/", groupHandler.UpdateGroup)
			adminGroup.DELETE("/groups/:slug/", groupHandler.DeleteGroup)
			adminGroup.DELETE("/users/:username/", authHandler.DeleteUser)
		}
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "resource not found"})
	})

	return &Server{
		engine:      router,
		db:          db,
		redisClient: redisClient,
		cache:       cache,
	}, nil
}

// Handler exposes the router, mostly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) Run(addr string) error {
	return s.engine.Run(addr)
}

func setupCORS(router *gin.Engine, allowedOrigins string) {
	var origins []string
	if allowedOrigins != "" {
		origins = strings.Split(allowedOrigins, ",")
	} else {
		origins = []string{"http://localhost:3000"}
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Retry-After"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
}
