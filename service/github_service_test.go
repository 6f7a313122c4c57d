package service

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/devfolio/portfolio-api/config"
	"github.com/devfolio/portfolio-api/model"
	"github.com/google/go-github/v66/github"
	githubMock "github.com/migueleliasweb/go-github-mock/src/mock"
	"github.com/remeh/sizedwaitgroup"
	"github.com/stretchr/testify/assert"
	"golang.org/x/time/rate"
)

// TestListRepositories will test function ListRepositories
func TestListRepositories(t *testing.T) {
	tests := []struct {
		name           string
		username       string
		limit          int
		rateLimit      int
		mockResponse   []*github.Repository
		expectedRepos  []model.Repository
		expectError    bool
		expectedErrMsg string
	}{
		{
			name:      "Single repository",
			username:  "test-owner",
			limit:     100,
			rateLimit: 60,
			mockResponse: []*github.Repository{
				{
					ID:       github.Int64(1),
					Name:     github.String("repo1"),
					FullName: github.String("test-owner/repo1"),
					Owner:    &github.User{Login: github.String("test-owner")},
					Language: github.String("Go"),
					HTMLURL:  github.String("https://github.com/test-owner/repo1"),
				},
			},
			expectedRepos: []model.Repository{
				{
					ID:       1,
					Name:     "repo1",
					FullName: "test-owner/repo1",
					Owner:    "test-owner",
					HTMLURL:  "https://github.com/test-owner/repo1",
					Language: github.String("Go"),
				},
			},
			expectError: false,
		},
		{
			name:      "Forked, archived and disabled repositories are filtered out",
			username:  "test-owner",
			limit:     100,
			rateLimit: 60,
			mockResponse: []*github.Repository{
				{
					ID:       github.Int64(1),
					Name:     github.String("fork"),
					FullName: github.String("test-owner/fork"),
					Owner:    &github.User{Login: github.String("test-owner")},
					Fork:     github.Bool(true),
				},
				{
					ID:       github.Int64(2),
					Name:     github.String("archived"),
					FullName: github.String("test-owner/archived"),
					Owner:    &github.User{Login: github.String("test-owner")},
					Archived: github.Bool(true),
				},
				{
					ID:       github.Int64(3),
					Name:     github.String("disabled"),
					FullName: github.String("test-owner/disabled"),
					Owner:    &github.User{Login: github.String("test-owner")},
					Disabled: github.Bool(true),
				},
				{
					ID:          github.Int64(4),
					Name:        github.String("kept"),
					FullName:    github.String("test-owner/kept"),
					Owner:       &github.User{Login: github.String("test-owner")},
					Language:    github.String("Rust"),
					Description: github.String("a keeper"),
				},
			},
			expectedRepos: []model.Repository{
				{
					ID:          4,
					Name:        "kept",
					FullName:    "test-owner/kept",
					Owner:       "test-owner",
					Language:    github.String("Rust"),
					Description: github.String("a keeper"),
				},
			},
			expectError: false,
		},
		{
			name:           "Rate limiter exhausted",
			username:       "test-owner",
			limit:          100,
			rateLimit:      0,
			mockResponse:   []*github.Repository{},
			expectedRepos:  []model.Repository{},
			expectError:    true,
			expectedErrMsg: "RATE_LIMIT_REACHED",
		},
	}

	// execute tests
	for _, tt := range tests {

		t.Run(tt.name, func(t *testing.T) {
			mockedHTTPClient := githubMock.NewMockedHTTPClient(
				githubMock.WithRequestMatchHandler(
					githubMock.GetUsersReposByUsername,
					http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
						_, err := w.Write(githubMock.MustMarshal(tt.mockResponse))

						if err != nil {
							t.Error("unable to configure mock http client")
						}
					}),
				),
			)

			// setup github service using default config and mocked client
			mockedRateLimiter := rate.NewLimiter(rate.Every(time.Hour), tt.rateLimit)
			mockedGithubClient := github.NewClient(mockedHTTPClient)
			conf := config.GetDefault()
			svc := NewGithubService(*conf, mockedGithubClient, mockedRateLimiter)

			repos, err := svc.ListRepositories(context.Background(), tt.username, tt.limit)

			if tt.expectError {
				assert.Error(t, err)
				assert.EqualError(t, err, tt.expectedErrMsg)
			} else {
				assert.NoError(t, err)
			}

			assert.Equal(t, tt.expectedRepos, repos)
		})
	}
}

// TestFetchLanguagesForSingleRepository test the function called FetchLanguagesForSingleRepository
func TestFetchLanguagesForSingleRepository(t *testing.T) {
	tests := []struct {
		name           string
		repo           model.Repository
		mockResponse   map[string]int
		expectError    bool
		expectedErrMsg string
	}{
		{
			name: "Fetch languages successfully",
			repo: model.Repository{
				ID:    1,
				Owner: "Owner1",
				Name:  "Repo1",
			},
			mockResponse: map[string]int{
				"Go":     10000,
				"Python": 5000,
			},
			expectError: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockedHTTPClient := githubMock.NewMockedHTTPClient(
				githubMock.WithRequestMatchHandler(
					githubMock.GetReposLanguagesByOwnerByRepo,
					http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
						_, err := w.Write(githubMock.MustMarshal(tt.mockResponse))

						if err != nil {
							t.Error("unable to configure mock http client")
						}
					}),
				),
			)

			mockedRateLimiter := rate.NewLimiter(rate.Every(time.Hour), 60)
			mockedGithubClient := github.NewClient(mockedHTTPClient)
			conf := config.GetDefault()
			svc := NewGithubService(*conf, mockedGithubClient, mockedRateLimiter)

			// Prepare wait group and channel
			swg := sizedwaitgroup.New(1)
			ch := make(chan model.RepositoryLanguages, 1)

			// execute the function
			swg.Add()
			err := svc.FetchLanguagesForSingleRepository(context.Background(), tt.repo, &swg, ch)

			if tt.expectError {
				assert.Error(t, err)
				assert.EqualError(t, err, tt.expectedErrMsg)
			} else {
				assert.NoError(t, err)

				// check that the expected result was sent to the channel
				langResult := <-ch
				assert.Equal(t, tt.repo.ID, langResult.RepositoryID)
				assert.Equal(t, tt.mockResponse, langResult.Languages)
				assert.NoError(t, langResult.Err)
			}
		})
	}
}

// TestListRepositoriesWithLanguages test function called ListRepositoriesWithLanguages
func TestListRepositoriesWithLanguages(t *testing.T) {

	t.Run("Repositories with a failing languages request are dropped from the result", func(t *testing.T) {
		mockResponse := []*github.Repository{}
		for _, name := range []string{"repo1", "repo2", "broken", "repo4", "repo5"} {
			id := int64(len(mockResponse) + 1)
			mockResponse = append(mockResponse, &github.Repository{
				ID:       github.Int64(id),
				Name:     github.String(name),
				FullName: github.String("owner/" + name),
				Owner:    &github.User{Login: github.String("owner")},
				Language: github.String("Go"),
			})
		}

		mockedHTTPClient := githubMock.NewMockedHTTPClient(
			githubMock.WithRequestMatchHandler(
				githubMock.GetUsersReposByUsername,
				http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
					_, err := w.Write(githubMock.MustMarshal(mockResponse))

					if err != nil {
						t.Error("unable to configure mock http client")
					}
				}),
			),
			githubMock.WithRequestMatchHandler(
				githubMock.GetReposLanguagesByOwnerByRepo,
				http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					// the languages request fail for one specific repository only
					if strings.Contains(r.URL.Path, "broken") {
						w.WriteHeader(http.StatusInternalServerError)
						_, _ = w.Write([]byte(`{"message": "boom"}`))
						return
					}

					_, err := w.Write(githubMock.MustMarshal(map[string]int{"Go": 1000}))

					if err != nil {
						t.Error("unable to configure mock http client")
					}
				}),
			),
		)

		mockedRateLimiter := rate.NewLimiter(rate.Every(time.Hour), 60)
		mockedGithubClient := github.NewClient(mockedHTTPClient)
		conf := config.GetDefault()
		svc := NewGithubService(*conf, mockedGithubClient, mockedRateLimiter)

		repos, err := svc.ListRepositoriesWithLanguages(context.Background(), "owner", 40)

		assert.NoError(t, err)
		assert.Len(t, repos, 4)

		// input order is kept and the broken repository is not substituted with an empty map
		names := make([]string, 0, len(repos))
		for _, r := range repos {
			names = append(names, r.Name)
			assert.Equal(t, map[string]int{"Go": 1000}, r.Languages)
		}
		assert.Equal(t, []string{"repo1", "repo2", "repo4", "repo5"}, names)
	})

	t.Run("Repositories without main language get an empty map without any request", func(t *testing.T) {
		mockResponse := []*github.Repository{
			{
				ID:       github.Int64(1),
				Name:     github.String("repo1"),
				FullName: github.String("owner/repo1"),
				Owner:    &github.User{Login: github.String("owner")},
				Language: github.String("Go"),
			},
			{
				ID:       github.Int64(2),
				Name:     github.String("repo2"),
				FullName: github.String("owner/repo2"),
				Owner:    &github.User{Login: github.String("owner")},
			},
		}

		mockedHTTPClient := githubMock.NewMockedHTTPClient(
			githubMock.WithRequestMatchHandler(
				githubMock.GetUsersReposByUsername,
				http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
					_, err := w.Write(githubMock.MustMarshal(mockResponse))

					if err != nil {
						t.Error("unable to configure mock http client")
					}
				}),
			),
			githubMock.WithRequestMatchHandler(
				githubMock.GetReposLanguagesByOwnerByRepo,
				http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
					_, err := w.Write(githubMock.MustMarshal(map[string]int{"Go": 10000, "HTML": 500}))

					if err != nil {
						t.Error("unable to configure mock http client")
					}
				}),
			),
		)

		mockedRateLimiter := rate.NewLimiter(rate.Every(time.Hour), 60)
		mockedGithubClient := github.NewClient(mockedHTTPClient)
		conf := config.GetDefault()
		svc := NewGithubService(*conf, mockedGithubClient, mockedRateLimiter)

		repos, err := svc.ListRepositoriesWithLanguages(context.Background(), "owner", 40)

		assert.NoError(t, err)
		assert.Len(t, repos, 2)
		assert.Equal(t, map[string]int{"Go": 10000, "HTML": 500}, repos[0].Languages)
		assert.Equal(t, map[string]int{}, repos[1].Languages)
	})

	t.Run("Result is truncated to the configured limit keeping the most recently updated", func(t *testing.T) {
		mockResponse := []*github.Repository{}
		for _, name := range []string{"newest", "older", "oldest"} {
			id := int64(len(mockResponse) + 1)
			mockResponse = append(mockResponse, &github.Repository{
				ID:       github.Int64(id),
				Name:     github.String(name),
				FullName: github.String("owner/" + name),
				Owner:    &github.User{Login: github.String("owner")},
				Language: github.String("Go"),
			})
		}

		mockedHTTPClient := githubMock.NewMockedHTTPClient(
			githubMock.WithRequestMatchHandler(
				githubMock.GetUsersReposByUsername,
				http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
					_, err := w.Write(githubMock.MustMarshal(mockResponse))

					if err != nil {
						t.Error("unable to configure mock http client")
					}
				}),
			),
			githubMock.WithRequestMatchHandler(
				githubMock.GetReposLanguagesByOwnerByRepo,
				http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
					_, err := w.Write(githubMock.MustMarshal(map[string]int{"Go": 1000}))

					if err != nil {
						t.Error("unable to configure mock http client")
					}
				}),
			),
		)

		mockedRateLimiter := rate.NewLimiter(rate.Every(time.Hour), 60)
		mockedGithubClient := github.NewClient(mockedHTTPClient)
		conf := config.GetDefault()
		svc := NewGithubService(*conf, mockedGithubClient, mockedRateLimiter)

		repos, err := svc.ListRepositoriesWithLanguages(context.Background(), "owner", 2)

		assert.NoError(t, err)
		assert.Len(t, repos, 2)
		assert.Equal(t, "newest", repos[0].Name)
		assert.Equal(t, "older", repos[1].Name)
	})
}

// TestFetchUserProfile test function called FetchUserProfile
func TestFetchUserProfile(t *testing.T) {
	mockedHTTPClient := githubMock.NewMockedHTTPClient(
		githubMock.WithRequestMatchHandler(
			githubMock.GetUsersByUsername,
			http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				_, err := w.Write(githubMock.MustMarshal(github.User{
					Login:     github.String("octocat"),
					Name:      github.String("The Octocat"),
					Bio:       github.String("building things"),
					AvatarURL: github.String("https://avatars.githubusercontent.com/u/583231"),
					HTMLURL:   github.String("https://github.com/octocat"),
					Followers: github.Int(42),
				}))

				if err != nil {
					t.Error("unable to configure mock http client")
				}
			}),
		),
	)

	mockedRateLimiter := rate.NewLimiter(rate.Every(time.Hour), 60)
	mockedGithubClient := github.NewClient(mockedHTTPClient)
	conf := config.GetDefault()
	svc := NewGithubService(*conf, mockedGithubClient, mockedRateLimiter)

	user, err := svc.FetchUserProfile(context.Background(), "octocat")

	assert.NoError(t, err)
	assert.Equal(t, "octocat", user.Login)
	assert.Equal(t, github.String("The Octocat"), user.Name)
	assert.Equal(t, 42, user.Followers)
}
