package scoring

import "github.com/octobees/outreach-api/internal/entity"

// Hiring-manager tiers, most likely to respond first.
const (
	TierRecruiting = iota + 1
	TierDepartmentManager
	TierDepartmentLeader
	TierHR
	TierExecutive
)

// TierCount is the number of hiring-manager tiers.
const TierCount = TierExecutive

var tierBase = map[int]int{
	TierRecruiting:        100,
	TierDepartmentManager: 75,
	TierDepartmentLeader:  50,
	TierHR:                25,
	TierExecutive:         10,
}

// TierTitles returns the titles searched for tier when hiring for jobType.
func TierTitles(tier int, jobType JobType) []string {
	switch tier {
	case TierRecruiting:
		return RecruiterTitles(jobType)
	case TierDepartmentManager:
		return append([]string(nil), titlesFor(departmentManagerTitles, jobType)...)
	case TierDepartmentLeader:
		return append([]string(nil), titlesFor(departmentLeaderTitles, jobType)...)
	case TierHR:
		return append([]string(nil), HRTitles...)
	case TierExecutive:
		return append([]string(nil), ExecutiveTitles...)
	}
	return nil
}

// ClassifyTier places a title in the first tier whose titles it contains.
// Titles matching no tier are treated as executives.
func ClassifyTier(title string, jobType JobType) int {
	t := normalizeText(title)
	for tier := TierRecruiting; tier <= TierExecutive; tier++ {
		for _, candidate := range TierTitles(tier, jobType) {
			if containsWord(t, candidate) {
				return tier
			}
		}
	}
	return TierExecutive
}

// IsExecutive reports whether title names an executive.
func IsExecutive(title string) bool {
	t := normalizeText(title)
	for _, candidate := range ExecutiveTitles {
		if containsWord(t, candidate) {
			return true
		}
	}
	return false
}

// RankHiringManagers scores candidates with the tiered hiring-manager rules
// and returns them best first.
func RankHiringManagers(candidates []entity.Contact, jobType JobType, targetCompany string, loc Location) []entity.RankedContact {
	ranked := make([]entity.RankedContact, 0, len(candidates))
	for _, c := range candidates {
		tier := ClassifyTier(c.Title, jobType)
		breakdown := ScoreHiringManager(c, tier, jobType, targetCompany, loc)
		ranked = append(ranked, entity.RankedContact{Contact: c, Score: total(breakdown), Breakdown: breakdown, Tier: tier})
	}
	sortRanked(ranked)
	return ranked
}

// ScoreHiringManager returns the per-rule points for one candidate in tier.
func ScoreHiringManager(c entity.Contact, tier int, jobType JobType, targetCompany string, loc Location) map[string]int {
	title := normalizeText(c.Title)
	breakdown := map[string]int{categoryTier: tierBase[tier]}
	if points := employerPoints(c, targetCompany); points == 50 {
		breakdown[categoryEmployer] = points
	}
	for _, t := range titlesFor(departmentManagerTitles, jobType) {
		if title == t {
			breakdown[categoryDepartment] = 30
			break
		}
	}
	if points := locationPoints(c.Location, loc); points > 0 {
		breakdown[categoryLocation] = points
	}
	if containsAny(title, seniorityKeywords) {
		breakdown[categorySeniority] = 10
	}
	return breakdown
}
