package service

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/devfolio/portfolio-api/model"
	log "github.com/sirupsen/logrus"
)

// weights for each scoring signal
const (
	primaryLanguageWeight = 3.0
	breakdownWeight       = 2.0
	topicMatchWeight      = 2.0
	textMatchWeight       = 1.5
)

// minimum rounded score a skill must reach to be kept in the result
const minSkillScore = 1.0

type SkillService interface {
	DetectSkills(repos []model.Repository) []model.SkillStat
	UniqueLanguages(repos []model.Repository) []string
}

type skillService struct {
	now func() time.Time
}

func NewSkillService() SkillService {
	return skillService{
		now: time.Now,
	}
}

// DetectSkills compute a ranked list of skills from the repositories metadata
// each repository add to the running scores through independent signals:
// the main language, the languages byte breakdown, the topics and the name/description keywords
// recent and popular repositories give a bonus to their main language
func (s skillService) DetectSkills(repos []model.Repository) []model.SkillStat {
	scores := make(map[string]float64)
	categories := make(map[string]model.SkillCategory)

	// remember the order skills were first scored
	// used as a stable tie break when two skills end up with the same score
	firstSeen := make(map[string]int)

	addScore := func(skill string, points float64) {
		if _, known := scores[skill]; !known {
			firstSeen[skill] = len(firstSeen)
		}

		scores[skill] += points
		categories[skill] = skillCategory(skill)
	}

	now := s.now()

	for _, r := range repos {

		// main language signal
		if r.Language != nil {
			addScore(*r.Language, primaryLanguageWeight)
		}

		// languages breakdown signal, weighted by the share of bytes per language
		// a missing or empty breakdown add nothing for this repository
		if len(r.Languages) > 0 {
			totalBytes := 0
			for _, bytes := range r.Languages {
				totalBytes += bytes
			}

			// an all zero breakdown would divide by zero, skip it
			if totalBytes > 0 {
				for language, bytes := range r.Languages {
					addScore(language, float64(bytes)/float64(totalBytes)*breakdownWeight)
				}
			}
		}

		// topics signal, exact match against the keyword table
		for _, topic := range r.Topics {
			if skill, found := skillForKeyword(topic); found {
				addScore(skill, topicMatchWeight)
			}
		}

		// name and description signal, substring match against the keyword table
		textToAnalyze := r.Name + " "
		if r.Description != nil {
			textToAnalyze += *r.Description
		}
		textToAnalyze = strings.ToLower(textToAnalyze)

		for _, entry := range skillKeywordTable {
			matches := 0

			for _, keyword := range entry.Keywords {
				if strings.Contains(textToAnalyze, keyword) {
					matches += 1
				}
			}

			if matches > 0 {
				addScore(entry.Skill, float64(matches)*textMatchWeight)
			}
		}

		// bonus for recent activity and popularity, credited to the main language only
		if r.Language != nil {
			monthsAgo := now.Sub(r.UpdatedAt).Hours() / (24 * 30)
			recencyBonus := math.Max(0, 2-monthsAgo/6)
			popularityBonus := math.Log(float64(r.Stars)+1) * 0.5

			addScore(*r.Language, recencyBonus+popularityBonus)
		}
	}

	// round, drop the low scores and sort by score descending
	skills := make([]model.SkillStat, 0, len(scores))

	for skill, score := range scores {
		rounded := math.Round(score*10) / 10

		if rounded < minSkillScore {
			continue
		}

		skills = append(skills, model.SkillStat{
			Name:     skill,
			Score:    rounded,
			Category: categories[skill],
		})
	}

	sort.SliceStable(skills, func(i, j int) bool {
		if skills[i].Score != skills[j].Score {
			return skills[i].Score > skills[j].Score
		}

		return firstSeen[skills[i].Name] < firstSeen[skills[j].Name]
	})

	log.WithFields(log.Fields{
		"numberOfRepositories": len(repos),
		"numberOfSkills":       len(skills),
	}).Debug("skills detected from repositories metadata")

	return skills
}

// UniqueLanguages extract the distinct main languages across repositories
// result is sorted ascending and used by the frontend project filters
func (s skillService) UniqueLanguages(repos []model.Repository) []string {
	languagesSet := make(map[string]bool)

	for _, r := range repos {
		if r.Language != nil && *r.Language != "" {
			languagesSet[*r.Language] = true
		}
	}

	languages := make([]string, 0, len(languagesSet))
	for language := range languagesSet {
		languages = append(languages, language)
	}

	sort.Strings(languages)
	return languages
}

// skillCategory classify a skill name using the static category tables
// unknown names fall back to some substring checks before ending as "other"
func skillCategory(skill string) model.SkillCategory {
	for category, skills := range skillCategories {
		for _, s := range skills {
			if strings.EqualFold(s, skill) {
				return category
			}
		}
	}

	skillLower := strings.ToLower(skill)

	if strings.Contains(skillLower, "react") || strings.Contains(skillLower, "vue") || strings.Contains(skillLower, "angular") {
		return model.CategoryFramework
	}

	if strings.Contains(skillLower, "docker") || strings.Contains(skillLower, "aws") || strings.Contains(skillLower, "git") {
		return model.CategoryTool
	}

	return model.CategoryOther
}

// skillForKeyword find the skill owning a topic, using a case insensitive exact match
// the table order decide when a keyword belongs to several skills
func skillForKeyword(topic string) (string, bool) {
	topicLower := strings.ToLower(topic)

	for _, entry := range skillKeywordTable {
		for _, keyword := range entry.Keywords {
			if keyword == topicLower {
				return entry.Skill, true
			}
		}
	}

	return "", false
}
