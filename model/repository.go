package model

import "time"

type Repository struct {
	ID          int64          `json:"-"` // ignored from json, only used to join language fetch results
	Name        string         `json:"name"`
	FullName    string         `json:"fullName"`
	Owner       string         `json:"owner"`
	Description *string        `json:"description"` // can be nil for repositories without description
	HTMLURL     string         `json:"htmlUrl"`
	Homepage    *string        `json:"homepage,omitempty"`
	Topics      []string       `json:"topics"`
	Language    *string        `json:"language"` // primary language computed by Github, nil when none
	Stars       int            `json:"stars"`
	Forks       int            `json:"forks"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
	Languages   map[string]int `json:"languages"` // byte count per language, empty until fetched
}

type RepositoryLanguages struct {
	RepositoryID int64
	Languages    map[string]int
	Err          error
}

type GithubUser struct {
	Login     string  `json:"login"`
	Name      *string `json:"name"`
	Bio       *string `json:"bio"`
	Location  *string `json:"location"`
	AvatarURL string  `json:"avatarUrl"`
	HTMLURL   string  `json:"htmlUrl"`
	Followers int     `json:"followers"`
}
