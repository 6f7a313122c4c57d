package model

type SkillCategory string

const (
	CategoryLanguage  SkillCategory = "language"
	CategoryFramework SkillCategory = "framework"
	CategoryTool      SkillCategory = "tool"
	CategoryOther     SkillCategory = "other"
)

type SkillStat struct {
	Name     string        `json:"name"`
	Score    float64       `json:"score"`
	Category SkillCategory `json:"category"`
}

// PortfolioData is the single payload handed to the presentation layer
type PortfolioData struct {
	Repositories []Repository `json:"repositories"`
	Skills       []SkillStat  `json:"skills"`
	Languages    []string     `json:"languages"`
	Profile      *GithubUser  `json:"profile,omitempty"`
	Loading      bool         `json:"loading"`
	Error        *string      `json:"error"`
}
