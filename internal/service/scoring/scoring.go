package scoring

import (
	"sort"
	"strings"
	"unicode"

	"github.com/octobees/outreach-api/internal/entity"
)

const (
	categoryEmployer   = "current_employer"
	categoryLocation   = "location"
	categoryLeadership = "recruiting_leadership"
	categoryTitle      = "title_match"
	categoryKeyword    = "recruiting_keyword"
	categorySeniority  = "seniority"
	categoryHRPenalty  = "hr_only_penalty"
	categorySpecialty  = "specialty"
	categoryTier       = "tier"
	categoryDepartment = "department_manager"
)

var (
	leadershipPhrases = []string{
		"recruiting manager", "recruitment manager", "head of talent acquisition", "head of recruiting",
		"director of recruiting", "director of talent acquisition", "recruiting director",
		"talent acquisition manager", "talent acquisition director", "vp of talent", "vp talent",
		"head of talent",
	}
	recruitingKeywords = []string{"recruiter", "talent acquisition", "talent partner", "talent sourcer", "sourcer"}
	seniorityKeywords  = []string{"senior", "lead", "manager", "director", "head"}
	hrOnlyPhrases      = []string{"hr manager", "hr director", "human resources", "people operations"}
	engineeringMarkers = []string{"technical", "engineering", "tech"}
	campusMarkers      = []string{"campus", "university", "college", "early"}
)

// Location is the job location used for proximity bonuses.
type Location struct {
	City  string
	State string
}

// RankRecruiters scores every candidate against the recruiter rules and
// returns them best first. Equal scores keep their input order.
func RankRecruiters(candidates []entity.Contact, jobType JobType, targetCompany string, loc Location) []entity.RankedContact {
	ranked := make([]entity.RankedContact, 0, len(candidates))
	for _, c := range candidates {
		breakdown := ScoreRecruiter(c, jobType, targetCompany, loc)
		ranked = append(ranked, entity.RankedContact{Contact: c, Score: total(breakdown), Breakdown: breakdown})
	}
	sortRanked(ranked)
	return ranked
}

// ScoreRecruiter returns the per-rule points for one candidate. Every rule is
// evaluated; rules that award nothing are omitted.
func ScoreRecruiter(c entity.Contact, jobType JobType, targetCompany string, loc Location) map[string]int {
	title := normalizeText(c.Title)
	breakdown := map[string]int{}
	add := func(category string, points int) {
		if points != 0 {
			breakdown[category] += points
		}
	}

	add(categoryEmployer, employerPoints(c, targetCompany))
	add(categoryLocation, locationPoints(c.Location, loc))

	if containsAny(title, leadershipPhrases) {
		add(categoryLeadership, 40)
	}
	for i, t := range RecruiterTitles(jobType) {
		if strings.Contains(title, t) {
			add(categoryTitle, 30-i)
			break
		}
	}
	if containsAny(title, recruitingKeywords) && !containsWord(title, "hr") {
		add(categoryKeyword, 25)
	}

	// HR-only titles take the penalty instead of seniority points. A current
	// "HR Manager" therefore totals 30 (50 employer, -20 penalty) and ranks
	// below a former "Technical Recruiter" at 55.
	hrOnly := containsAny(title, hrOnlyPhrases) && !strings.Contains(title, "recruit")
	if hrOnly {
		add(categoryHRPenalty, -20)
	} else if containsAny(title, seniorityKeywords) {
		add(categorySeniority, 10)
	}

	switch jobType {
	case JobTypeEngineering:
		if containsAny(title, engineeringMarkers) {
			add(categorySpecialty, 15)
		}
	case JobTypeIntern:
		if containsAny(title, campusMarkers) {
			add(categorySpecialty, 15)
		}
	}
	return breakdown
}

// employerPoints favours people who work at the target now over those who
// only list it in their history.
func employerPoints(c entity.Contact, targetCompany string) int {
	if c.IsCurrentlyAtTarget {
		return 50
	}
	target := normalizeText(targetCompany)
	if target == "" {
		return 0
	}
	if strings.Contains(normalizeText(c.Company), target) {
		return 10
	}
	for _, past := range c.PastCompanies {
		if strings.Contains(normalizeText(past), target) {
			return 10
		}
	}
	return 0
}

// locationPoints awards the city bonus, or the state bonus when the city
// does not match.
func locationPoints(candidate entity.Location, job Location) int {
	if matchesPlace(candidate.City, job.City) {
		return 20
	}
	if matchesPlace(candidate.State, job.State) {
		return 10
	}
	return 0
}

func matchesPlace(candidate, wanted string) bool {
	c, w := normalizeText(candidate), normalizeText(wanted)
	if c == "" || w == "" {
		return false
	}
	return strings.Contains(c, w) || strings.Contains(w, c)
}

func total(breakdown map[string]int) int {
	sum := 0
	for _, v := range breakdown {
		sum += v
	}
	return sum
}

func sortRanked(ranked []entity.RankedContact) {
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
}

func containsAny(text string, phrases []string) bool {
	for _, p := range phrases {
		if strings.Contains(text, p) {
			return true
		}
	}
	return false
}

// containsWord reports whether phrase occurs in text on word boundaries.
func containsWord(text, phrase string) bool {
	if phrase == "" {
		return false
	}
	for start := 0; start < len(text); {
		i := strings.Index(text[start:], phrase)
		if i < 0 {
			return false
		}
		i += start
		end := i + len(phrase)
		if boundary(text, i-1) && boundary(text, end) {
			return true
		}
		start = i + 1
	}
	return false
}

func boundary(text string, i int) bool {
	if i < 0 || i >= len(text) {
		return true
	}
	r := rune(text[i])
	return !unicode.IsLetter(r) && !unicode.IsDigit(r)
}

// normalizeText lowercases and collapses whitespace.
func normalizeText(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}
