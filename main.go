package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/devfolio/portfolio-api/config"
	"github.com/devfolio/portfolio-api/controller"
	"github.com/devfolio/portfolio-api/logger"
	"github.com/devfolio/portfolio-api/service"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/go-github/v66/github"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

func main() {
	// a local .env file can provide GITHUB_USERNAME and GITHUB_TOKEN
	// missing file is fine, the values can come from the config or the environment
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.WithError(err).Warning("unable to load .env file")
	}

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Error("unable to load configuration. will use the default values")
		cfg = config.GetDefault()
	}

	// configure logger
	logger.Setup(*cfg)

	// setup github client
	// we do here and pass the client to Github service to easily improve tests with mock client
	githubClient := github.NewClient(nil)

	if cfg.Github.Token != "" {
		log.Debug("will setup github client with authorization token")
		githubClient = githubClient.WithAuthToken(cfg.Github.Token)
	}

	// setup local rate limiter
	// execute first request to github to fetch current rate limits
	log.Debug("loading current rate limit from github")
	rateLimiter := rate.NewLimiter(rate.Every(time.Hour), 60)

	rateLimits, _, err := githubClient.RateLimit.Get(context.Background())
	if err != nil {
		log.WithError(err).Warning("unable to load current github rate limits. will use the unauthenticated defaults")
	} else {
		log.WithFields(log.Fields{
			"totalAvailable":    rateLimits.Core.Limit,
			"remainingRequests": rateLimits.Core.Remaining,
		}).Debug("will setup local rate limiter with rate limits infos from github")

		// consume X tokens according to the number of remaining tokens
		// this help us to have a right rate limiter even if external requests are made
		rateLimiter = rate.NewLimiter(rate.Every(time.Hour), rateLimits.Core.Limit)

		if !rateLimiter.AllowN(time.Now(), rateLimits.Core.Limit-rateLimits.Core.Remaining) {
			log.Warning("unable to configure the github rate limiter")
		}
	}

	// setup handlers and services
	githubService := service.NewGithubService(*cfg, githubClient, rateLimiter)
	skillService := service.NewSkillService()
	portfolioService := service.NewPortfolioService(*cfg, githubService, skillService)
	apiController := controller.NewAPIController(*cfg, portfolioService)

	// trigger the single portfolio load for this process lifecycle
	// the API serve the loading state until the fetch and the scoring are done
	go portfolioService.Load(context.Background())

	// setup server and define all routes
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	server := &http.Server{
		Addr:    ":" + cfg.API.ListenPort,
		Handler: router,
	}

	router.Use(
		cors.New(cors.Config{
			AllowOrigins: []string{"*"},
			AllowMethods: []string{"GET"},
			AllowHeaders: []string{"Content-Type, Content-Length, Accept-Encoding, Host, accept, Origin, Cache-Control, X-Requested-With"},
			MaxAge:       12 * time.Hour,
		}),
	)

	api := router.Group("")
	{
		api.GET("/portfolio", apiController.GetPortfolio)
		api.GET("/profile", apiController.GetProfile)
	}

	// start with configuration
	go func() {
		log.Info("server listening on port " + cfg.API.ListenPort)

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Error("error while starting server")
		}

	}()

	// create context with 15 seconds timeout
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	// wait for interrupt signal to gracefully shut down the server with a timeout of 15 seconds.
	// kill default send syscall.SIGTERM
	// kill -2 is syscall.SIGINT
	quit := make(chan os.Signal, 1)

	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("SIGINT, SIGTERM received, will shut down server ...")

	if err := server.Shutdown(ctx); err != nil {
		log.WithError(err).Error("Server forced to shutdown")
	} else {
		log.Info("Application stopped gracefully !")
	}
}
