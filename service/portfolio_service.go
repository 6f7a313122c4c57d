package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/devfolio/portfolio-api/config"
	"github.com/devfolio/portfolio-api/model"
	log "github.com/sirupsen/logrus"
)

type PortfolioService interface {
	Load(ctx context.Context)
	Snapshot() model.PortfolioData
}

type portfolioService struct {
	githubService GithubService
	skillService  SkillService
	config        config.Config

	// lifecycle state: idle -> loading -> (ready | failed)
	// a single load is allowed per instance, guarded by loadOnce
	mu       sync.RWMutex
	loadOnce sync.Once
	data     model.PortfolioData
}

func NewPortfolioService(config config.Config, githubService GithubService, skillService SkillService) PortfolioService {
	return &portfolioService{
		githubService: githubService,
		skillService:  skillService,
		config:        config,
		data: model.PortfolioData{
			Repositories: []model.Repository{},
			Skills:       []model.SkillStat{},
			Languages:    []string{},
		},
	}
}

// Load fetch the repositories with languages, run the skill detection and publish the result
// any failure on the configuration check or on the repositories list fail the whole load
// the error is kept as a human readable message, no partial result is ever published
func (s *portfolioService) Load(ctx context.Context) {
	s.loadOnce.Do(func() {
		s.setLoading()

		username := s.config.Github.Username

		if username == "" {
			log.Error("no github username configured, unable to load the portfolio data")
			s.setFailed(fmt.Errorf("CONFIGURATION_ERROR"))
			return
		}

		repos, err := s.githubService.ListRepositoriesWithLanguages(ctx, username, s.config.Github.RepositoryLimit)

		if err != nil {
			s.setFailed(err)
			return
		}

		// profile load is best effort, the hero section can live without it
		profile, err := s.githubService.FetchUserProfile(ctx, username)

		if err != nil {
			log.WithError(err).Warning("unable to load the github user profile. portfolio load continue without it")
			profile = nil
		}

		skills := s.skillService.DetectSkills(repos)
		languages := s.skillService.UniqueLanguages(repos)

		log.WithFields(log.Fields{
			"username":             username,
			"numberOfRepositories": len(repos),
			"numberOfSkills":       len(skills),
			"numberOfLanguages":    len(languages),
		}).Info("portfolio data loaded")

		s.mu.Lock()
		defer s.mu.Unlock()

		s.data = model.PortfolioData{
			Repositories: repos,
			Skills:       skills,
			Languages:    languages,
			Profile:      profile,
		}
	})
}

// Snapshot return the current lifecycle state and data, safe for concurrent reads
func (s *portfolioService) Snapshot() model.PortfolioData {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.data
}

func (s *portfolioService) setLoading() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data.Loading = true
	s.data.Error = nil
}

func (s *portfolioService) setFailed(err error) {
	apiErr := model.NewAPIError(err)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.data.Loading = false
	s.data.Error = &apiErr.Message
}
