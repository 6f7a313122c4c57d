package controller

import (
	"net/http"

	"github.com/devfolio/portfolio-api/config"
	"github.com/devfolio/portfolio-api/service"
	"github.com/gin-gonic/gin"
)

type APIController interface {
	GetPortfolio(ctx *gin.Context)
	GetProfile(ctx *gin.Context)
}

type apiController struct {
	portfolioService service.PortfolioService
	config           config.Config
}

func NewAPIController(config config.Config, portfolioService service.PortfolioService) APIController {
	return apiController{
		portfolioService: portfolioService,
		config:           config,
	}
}

// GetPortfolio return the aggregated portfolio data
// always answer 200, the frontend read the loading and error fields of the payload
func (s apiController) GetPortfolio(c *gin.Context) {
	c.JSON(http.StatusOK, s.portfolioService.Snapshot())
}

// GetProfile return the static bio configured by the portfolio owner
func (s apiController) GetProfile(c *gin.Context) {
	c.JSON(http.StatusOK, s.config.Profile)
}
