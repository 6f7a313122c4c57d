package service

import "github.com/devfolio/portfolio-api/model"

// static classification of the well known skill names
// loaded once, never written at runtime
var skillCategories = map[model.SkillCategory][]string{
	model.CategoryLanguage: {
		"JavaScript", "TypeScript", "Python", "Java", "C++", "C#", "C", "Go", "Rust", "Ruby", "PHP", "Swift", "Kotlin", "Dart",
	},
	model.CategoryFramework: {
		"React", "Vue", "Angular", "Next.js", "Nuxt.js", "Express", "Django", "Flask", "Spring", "Laravel", "Rails", "ASP.NET",
	},
	model.CategoryTool: {
		"Docker", "Kubernetes", "AWS", "Azure", "GCP", "Jenkins", "Git", "Webpack", "Vite", "Babel", "ESLint", "Prettier",
	},
}

type skillKeywordEntry struct {
	Skill    string
	Keywords []string
}

// keyword fragments matched against topics (exact) and name/description (substring)
// kept as an ordered slice: a topic matching keywords of several skills
// must always resolve to the same one
var skillKeywordTable = []skillKeywordEntry{
	{"React", []string{"react", "jsx", "tsx", "react-dom", "nextjs", "next.js"}},
	{"Vue", []string{"vue", "vuejs", "nuxt", "nuxtjs"}},
	{"Angular", []string{"angular", "ng", "typescript"}},
	{"Node.js", []string{"node", "nodejs", "express", "npm"}},
	{"Python", []string{"python", "django", "flask", "fastapi", "py"}},
	{"Docker", []string{"docker", "dockerfile", "container"}},
	{"TypeScript", []string{"typescript", "ts", "tsx"}},
	{"JavaScript", []string{"javascript", "js", "jsx"}},
	{"CSS", []string{"css", "scss", "sass", "styled-components", "tailwind"}},
	{"HTML", []string{"html", "html5"}},
	{"MongoDB", []string{"mongo", "mongodb", "mongoose"}},
	{"PostgreSQL", []string{"postgres", "postgresql", "pg"}},
	{"MySQL", []string{"mysql"}},
	{"Redis", []string{"redis"}},
	{"GraphQL", []string{"graphql", "apollo"}},
	{"REST API", []string{"api", "rest", "restful"}},
	{"AWS", []string{"aws", "amazon", "lambda", "s3", "ec2"}},
	{"Azure", []string{"azure", "microsoft"}},
	{"GCP", []string{"gcp", "google-cloud"}},
	{"Git", []string{"git", "github", "gitlab"}},
	{"CI/CD", []string{"ci", "cd", "jenkins", "github-actions", "gitlab-ci"}},
	{"Testing", []string{"test", "jest", "mocha", "cypress", "selenium", "pytest"}},
	{"Webpack", []string{"webpack", "bundler"}},
	{"Vite", []string{"vite"}},
	{"Tailwind CSS", []string{"tailwind", "tailwindcss"}},
	{"Material-UI", []string{"material-ui", "mui"}},
	{"Bootstrap", []string{"bootstrap"}},
	{"Framer Motion", []string{"framer-motion", "framer"}},
	{"Prisma", []string{"prisma"}},
	{"Firebase", []string{"firebase", "firestore"}},
	{"Vercel", []string{"vercel"}},
	{"Netlify", []string{"netlify"}},
}
