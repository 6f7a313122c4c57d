package service

import (
	"context"
	"fmt"
	"time"

	"github.com/devfolio/portfolio-api/config"
	"github.com/devfolio/portfolio-api/model"
	"github.com/google/go-github/v66/github"

	"github.com/remeh/sizedwaitgroup"
	log "github.com/sirupsen/logrus"

	"golang.org/x/time/rate"
)

// defaultRepositoryLimit is how many repositories are kept for language loading and scoring
// maxRepositoriesPerPage is the hard cap of the Github list endpoint
const (
	defaultRepositoryLimit = 40
	maxRepositoriesPerPage = 100
)

type GithubService interface {
	ListRepositories(ctx context.Context, username string, limit int) ([]model.Repository, error)
	ListRepositoriesWithLanguages(ctx context.Context, username string, limit int) ([]model.Repository, error)
	FetchLanguagesForSingleRepository(ctx context.Context, r model.Repository, swg *sizedwaitgroup.SizedWaitGroup, ch chan<- model.RepositoryLanguages) error
	FetchUserProfile(ctx context.Context, username string) (*model.GithubUser, error)

	HandleRequestErrors(err error) error
}

type githubService struct {
	githubClient      *github.Client
	githubRateLimiter *rate.Limiter
	config            config.Config
}

// we have two kind of github requests with different cost against the quota
// the list endpoint is one request, but loading languages is one request per repository
// ListLanguages rate limit = 60 calls per hour for non-authenticated and 5000 calls for authenticated
func NewGithubService(config config.Config, githubClient *github.Client, rateLimiter *rate.Limiter) GithubService {
	return githubService{
		githubClient:      githubClient,
		githubRateLimiter: rateLimiter,
		config:            config,
	}
}

// ListRepositories fetch the public repositories of a user sorted by last update
// forked, archived and disabled repositories are filtered out and never reach the scoring
func (s githubService) ListRepositories(ctx context.Context, username string, limit int) ([]model.Repository, error) {
	if !s.githubRateLimiter.Allow() {
		log.Warning("the Github rate limit has been reached. Use a token or wait until the limit reset")
		return []model.Repository{}, fmt.Errorf("RATE_LIMIT_REACHED")
	}

	if limit <= 0 || limit > maxRepositoriesPerPage {
		limit = maxRepositoriesPerPage
	}

	log.WithFields(log.Fields{
		"username": username,
		"limit":    limit,
	}).Info("fetch public repositories from github sorted by last update")

	repos, _, err := s.githubClient.Repositories.ListByUser(
		ctx,
		username,
		&github.RepositoryListByUserOptions{
			Type:      "public",
			Sort:      "updated",
			Direction: "desc",
			ListOptions: github.ListOptions{
				Page:    1,
				PerPage: limit,
			},
		},
	)

	if err != nil {
		return []model.Repository{}, s.HandleRequestErrors(err)
	}

	// build output format for each repo
	// forks, archived and disabled repositories are skipped here
	repositoriesAggregated := make([]model.Repository, 0)

	for _, r := range repos {

		if r == nil || r.Name == nil || r.FullName == nil || r.Owner == nil || r.Owner.Login == nil {
			log.WithFields(log.Fields{
				"repositoryID": r.GetID(),
			}).Debug("repository found with invalid information. skipped")

			continue
		}

		if r.GetFork() || r.GetArchived() || r.GetDisabled() {
			log.WithFields(log.Fields{
				"repository": r.GetFullName(),
			}).Debug("repository is a fork, archived or disabled. skipped")

			continue
		}

		repositoryAggregated := model.Repository{
			ID:          r.GetID(),
			Name:        r.GetName(),
			FullName:    r.GetFullName(),
			Owner:       r.Owner.GetLogin(),
			Description: r.Description,
			HTMLURL:     r.GetHTMLURL(),
			Topics:      r.Topics,
			Language:    r.Language,
			Stars:       r.GetStargazersCount(),
			Forks:       r.GetForksCount(),
			CreatedAt:   r.GetCreatedAt().Time,
			UpdatedAt:   r.GetUpdatedAt().Time,
		}

		// homepage can be nil or an empty string for most repositories
		if r.Homepage != nil && *r.Homepage != "" {
			repositoryAggregated.Homepage = r.Homepage
		}

		repositoriesAggregated = append(repositoriesAggregated, repositoryAggregated)
	}

	return repositoriesAggregated, nil
}

// ListRepositoriesWithLanguages fetch the repositories then load the languages for each of them
// the list is truncated to limit (most recently updated first) before loading languages
// a repository for which the languages request failed is dropped from the result entirely
func (s githubService) ListRepositoriesWithLanguages(ctx context.Context, username string, limit int) ([]model.Repository, error) {
	repos, err := s.ListRepositories(ctx, username, maxRepositoriesPerPage)

	if err != nil {
		return []model.Repository{}, err
	}

	if limit <= 0 {
		limit = defaultRepositoryLimit
	}

	if len(repos) > limit {
		repos = repos[:limit]
	}

	// count number of repositories where the languages are available for loading
	// if there is not enought request on rate limiter to load all of them, return an error here
	// this avoid to load the languages not completly
	reposWithLanguagesToLoad := 0

	for _, r := range repos {
		if r.Language != nil {
			reposWithLanguagesToLoad += 1
		}
	}

	if !s.githubRateLimiter.AllowN(time.Now(), reposWithLanguagesToLoad) {
		log.WithField("repositoriesToLoad", reposWithLanguagesToLoad).Warning("not enought requests in rate limiter to load languages for all repositories")
		return []model.Repository{}, fmt.Errorf("RATE_LIMIT_REACHED")
	}

	log.WithFields(log.Fields{
		"numberOfRepositories": reposWithLanguagesToLoad,
	}).Debug("will load languages for all repositories found with main language available")

	// create a group to wait for all goroutines to finish
	swg := sizedwaitgroup.New(s.config.Tasks.MaxParallelTasksAllowed)

	// create a channel to collect response for all repositories
	// each response hold the repository ID, the languages and the request error if any
	// we will assign together when all tasks are finished
	results := make(chan model.RepositoryLanguages, len(repos))

	for _, r := range repos {

		// check if the main language (most used) is available for the repo
		// if not, the languages request will return an empty map and we can avoid executing it
		// this will save some requests regarding to the rate limit
		if r.Language == nil {
			log.WithFields(log.Fields{
				"repositoryID": r.ID,
			}).Debug("repository without main language. skipped from loading languages list")

			results <- model.RepositoryLanguages{RepositoryID: r.ID, Languages: map[string]int{}}
		} else {
			swg.Add()
			go s.FetchLanguagesForSingleRepository(ctx, r, &swg, results)
		}
	}

	// wait for all tasks to be finished
	// a failed task never cancel the siblings, we only collect its error
	log.Debug("waiting for all threads for loading repositories languages to be finished")
	swg.Wait()
	log.Debug("all threads for loading repositories languages finished")

	// close the channel
	close(results)

	// associate languages with repositories, keeping the input order
	// repositories for which the languages could not be loaded are excluded from the result
	langMap := make(map[int64]map[string]int)
	failed := make(map[int64]bool)

	for result := range results {
		if result.Err != nil {
			failed[result.RepositoryID] = true
		} else {
			langMap[result.RepositoryID] = result.Languages
		}
	}

	repositoriesWithLanguages := make([]model.Repository, 0, len(repos))

	for _, r := range repos {
		if failed[r.ID] {
			log.WithFields(log.Fields{
				"repository": r.FullName,
			}).Warning("languages could not be loaded for repository. excluded from the result")

			continue
		}

		if lang, found := langMap[r.ID]; found {
			r.Languages = lang
		}

		repositoriesWithLanguages = append(repositoriesWithLanguages, r)
	}

	return repositoriesWithLanguages, nil
}

// FetchLanguagesForSingleRepository get the languages for a specific repository
// It will add the results to a channel and use a goroutine
// note: we are not checking the rate limit in this function, because done in the parent function
// note: take care if you call this function from another function
func (s githubService) FetchLanguagesForSingleRepository(ctx context.Context, r model.Repository, swg *sizedwaitgroup.SizedWaitGroup, ch chan<- model.RepositoryLanguages) error {
	defer swg.Done()

	log.WithFields(log.Fields{
		"repositoryID": r.ID,
		"mainLanguage": r.Language,
	}).Debug("fetch languages for repository")

	res, _, err := s.githubClient.Repositories.ListLanguages(
		ctx,
		r.Owner,
		r.Name,
	)

	if err != nil {
		ch <- model.RepositoryLanguages{RepositoryID: r.ID, Err: err}
		return s.HandleRequestErrors(err)
	}

	// an empty map is a valid answer for repositories without detected languages
	if res == nil {
		res = map[string]int{}
	}

	ch <- model.RepositoryLanguages{RepositoryID: r.ID, Languages: res}
	return nil
}

// FetchUserProfile get the public profile of the portfolio owner
// used by the frontend hero section, a failure here never fail the whole load
func (s githubService) FetchUserProfile(ctx context.Context, username string) (*model.GithubUser, error) {
	if !s.githubRateLimiter.Allow() {
		log.Warning("the Github rate limit has been reached. Use a token or wait until the limit reset")
		return nil, fmt.Errorf("RATE_LIMIT_REACHED")
	}

	user, _, err := s.githubClient.Users.Get(ctx, username)

	if err != nil {
		return nil, s.HandleRequestErrors(err)
	}

	return &model.GithubUser{
		Login:     user.GetLogin(),
		Name:      user.Name,
		Bio:       user.Bio,
		Location:  user.Location,
		AvatarURL: user.GetAvatarURL(),
		HTMLURL:   user.GetHTMLURL(),
		Followers: user.GetFollowers(),
	}, nil
}

// HandleRequestErrors manage errors including github rate limit errors at the same location
// If error is a rate limit error, this function will update the local rate limiter to consume all available requests
// this can help us to keep the local rate limiter up to date
func (s githubService) HandleRequestErrors(err error) error {
	if _, ok := err.(*github.RateLimitError); ok {
		if !s.githubRateLimiter.AllowN(time.Now(), s.githubRateLimiter.Burst()) {
			return fmt.Errorf("RATE_LIMITER_ERROR")
		}

		log.Warning("the Github rate limit has been reached. Use a token or wait until the limit reset")
		return fmt.Errorf("RATE_LIMIT_REACHED")
	}

	log.WithError(err).Error("error catched when fetching data from github")
	return fmt.Errorf("FETCH_ERROR")
}
