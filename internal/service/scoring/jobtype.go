package scoring

import "strings"

// JobType groups roles that share recruiter and hiring-manager taxonomies.
type JobType string

const (
	JobTypeIntern      JobType = "intern"
	JobTypeEngineering JobType = "engineering"
	JobTypeSales       JobType = "sales"
	JobTypeMarketing   JobType = "marketing"
	JobTypeFinance     JobType = "finance"
	JobTypeGeneral     JobType = "general"
)

type jobTypeKeywords struct {
	jobType  JobType
	keywords []string
}

// Checked in order; the first group with a hit wins.
var jobTypeGroups = []jobTypeKeywords{
	{JobTypeIntern, []string{"intern", "internship", "co-op", "new grad", "new graduate", "summer analyst", "apprentice"}},
	{JobTypeEngineering, []string{
		"engineer", "engineering", "developer", "software", "swe", "sre", "devops", "backend", "frontend",
		"full stack", "fullstack", "data scientist", "machine learning", "ml", "programmer", "architect",
	}},
	{JobTypeSales, []string{"sales", "account executive", "account manager", "business development", "sdr", "bdr", "customer success"}},
	{JobTypeMarketing, []string{"marketing", "brand", "growth", "content", "seo", "communications", "social media"}},
	{JobTypeFinance, []string{"finance", "financial", "accountant", "accounting", "analyst", "controller", "treasury", "audit", "auditor"}},
}

// ClassifyJobType maps a job title and description onto a JobType.
func ClassifyJobType(title, description string) JobType {
	text := normalizeText(title + " " + description)
	for _, group := range jobTypeGroups {
		for _, kw := range group.keywords {
			if containsWord(text, kw) {
				return group.jobType
			}
		}
	}
	return JobTypeGeneral
}

// ParseJobType accepts a job type name, defaulting to general.
func ParseJobType(raw string) JobType {
	switch jt := JobType(strings.ToLower(strings.TrimSpace(raw))); jt {
	case JobTypeIntern, JobTypeEngineering, JobTypeSales, JobTypeMarketing, JobTypeFinance:
		return jt
	}
	return JobTypeGeneral
}

// Ordered most specific first; the position sets the title-match bonus.
var recruiterTitles = map[JobType][]string{
	JobTypeEngineering: {
		"technical recruiter", "engineering recruiter", "tech recruiter", "software recruiter",
		"technical sourcer", "technical talent acquisition", "recruiter", "talent acquisition",
	},
	JobTypeIntern: {
		"university recruiter", "campus recruiter", "early career recruiter", "early careers recruiter",
		"early talent", "university programs", "recruiter", "talent acquisition",
	},
	JobTypeSales: {
		"sales recruiter", "go-to-market recruiter", "gtm recruiter", "business recruiter",
		"recruiter", "talent acquisition",
	},
	JobTypeMarketing: {
		"marketing recruiter", "creative recruiter", "business recruiter", "recruiter", "talent acquisition",
	},
	JobTypeFinance: {
		"finance recruiter", "accounting recruiter", "corporate recruiter", "business recruiter",
		"recruiter", "talent acquisition",
	},
	JobTypeGeneral: {
		"recruiter", "talent acquisition", "talent partner", "sourcer", "recruiting coordinator",
	},
}

// RecruiterTitles returns the ordered recruiter titles searched for jobType.
func RecruiterTitles(jobType JobType) []string {
	titles, ok := recruiterTitles[jobType]
	if !ok {
		titles = recruiterTitles[JobTypeGeneral]
	}
	return append([]string(nil), titles...)
}

// HRTitles are searched when a company has no dedicated recruiters.
var HRTitles = []string{
	"hr manager", "hr director", "human resources", "hr business partner", "hr generalist",
	"people operations", "people partner", "head of people",
}

// ExecutiveTitles are the last-resort contacts.
var ExecutiveTitles = []string{
	"ceo", "chief executive officer", "cto", "chief technology officer", "founder", "co-founder",
	"coo", "president", "owner",
}

var departmentManagerTitles = map[JobType][]string{
	JobTypeEngineering: {"engineering manager", "software engineering manager", "development manager", "technical lead", "tech lead"},
	JobTypeIntern:      {"university programs manager", "early careers manager", "engineering manager", "program manager"},
	JobTypeSales:       {"sales manager", "regional sales manager", "sales director", "account executive manager"},
	JobTypeMarketing:   {"marketing manager", "growth manager", "brand manager", "content manager"},
	JobTypeFinance:     {"finance manager", "controller", "accounting manager", "fp&a manager"},
	JobTypeGeneral:     {"hiring manager", "general manager", "operations manager", "team lead"},
}

var departmentLeaderTitles = map[JobType][]string{
	JobTypeEngineering: {"director of engineering", "head of engineering", "vp of engineering", "vp engineering"},
	JobTypeIntern:      {"director of engineering", "head of university recruiting", "head of early careers"},
	JobTypeSales:       {"director of sales", "head of sales", "vp of sales", "vp sales", "chief revenue officer"},
	JobTypeMarketing:   {"director of marketing", "head of marketing", "vp of marketing", "chief marketing officer"},
	JobTypeFinance:     {"director of finance", "head of finance", "vp of finance", "chief financial officer"},
	JobTypeGeneral:     {"director of operations", "head of operations", "vp of operations"},
}

func titlesFor(table map[JobType][]string, jobType JobType) []string {
	if titles, ok := table[jobType]; ok {
		return titles
	}
	return table[JobTypeGeneral]
}
