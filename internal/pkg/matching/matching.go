package matching

import (
	"sort"
	"strings"

	"github.com/craftmatch/CraftMatch/app/models"
)

// Score weights. Trade is a hard gate, the rest is additive up to 100.
const (
	skillWeight      = 40
	cityWeight       = 20
	rateWeight       = 20
	experienceWeight = 20
)

// Match pairs a worker profile with its compatibility score for a job.
type Match struct {
	Profile       models.WorkerProfile `json:"profile"`
	Score         int                  `json:"score"`
	MatchedSkills []string             `json:"matched_skills"`
}

// ScoreProfile computes the compatibility of a worker profile against a job.
// A trade mismatch scores zero outright; everything else degrades gradually.
func ScoreProfile(job *models.Job, profile *models.WorkerProfile) (int, []string) {
	if job == nil || profile == nil {
		return 0, nil
	}
	if !strings.EqualFold(strings.TrimSpace(job.Trade), strings.TrimSpace(profile.Trade)) {
		return 0, nil
	}

	score := 0

	matched := matchedSkills(job.SkillList(), profile.SkillList())
	if required := len(job.SkillList()); required > 0 {
		score += skillWeight * len(matched) / required
	} else {
		// Jobs without listed skills treat the trade gate as sufficient.
		score += skillWeight
	}

	if strings.EqualFold(strings.TrimSpace(job.City), strings.TrimSpace(profile.City)) {
		score += cityWeight
	}

	score += rateFit(job, profile)

	if job.MinYearsOfExp <= 0 || profile.YearsOfExp >= job.MinYearsOfExp {
		score += experienceWeight
	} else if job.MinYearsOfExp > 0 {
		score += experienceWeight * profile.YearsOfExp / job.MinYearsOfExp
	}

	return score, matched
}

// RankProfiles scores all candidate profiles against the job and returns them
// ordered best-first. Zero-score profiles are dropped. Boosted profiles win
// ties, which is the visibility elevation a paid worker subscription buys.
func RankProfiles(job *models.Job, profiles []models.WorkerProfile) []Match {
	matches := make([]Match, 0, len(profiles))
	for i := range profiles {
		score, skills := ScoreProfile(job, &profiles[i])
		if score <= 0 {
			continue
		}
		matches = append(matches, Match{
			Profile:       profiles[i],
			Score:         score,
			MatchedSkills: skills,
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		if matches[i].Profile.Boosted != matches[j].Profile.Boosted {
			return matches[i].Profile.Boosted
		}
		return matches[i].Profile.YearsOfExp > matches[j].Profile.YearsOfExp
	})

	return matches
}

func matchedSkills(required, offered []string) []string {
	if len(required) == 0 || len(offered) == 0 {
		return nil
	}
	offeredSet := make(map[string]struct{}, len(offered))
	for _, s := range offered {
		offeredSet[s] = struct{}{}
	}
	var matched []string
	for _, s := range required {
		if _, ok := offeredSet[s]; ok {
			matched = append(matched, s)
		}
	}
	return matched
}

// rateFit rewards profiles whose rate expectation overlaps the job's range.
// Profiles without a stated rate get the benefit of the doubt.
func rateFit(job *models.Job, profile *models.WorkerProfile) int {
	if profile.HourlyRateMin <= 0 && profile.HourlyRateMax <= 0 {
		return rateWeight
	}
	if job.HourlyRateMax <= 0 {
		return rateWeight
	}

	profMin := profile.HourlyRateMin
	profMax := profile.HourlyRateMax
	if profMax <= 0 {
		profMax = profMin
	}

	// Ranges overlap: full marks.
	if profMin <= job.HourlyRateMax && profMax >= job.HourlyRateMin {
		return rateWeight
	}
	// Worker asks more than the job pays: half marks when within 25%.
	if profMin > job.HourlyRateMax && profMin*4 <= job.HourlyRateMax*5 {
		return rateWeight / 2
	}
	return 0
}
