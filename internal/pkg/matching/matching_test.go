package matching

import (
	"testing"

	"github.com/craftmatch/CraftMatch/app/models"
)

func testJob() *models.Job {
	return &models.Job{
		Title:          "Journeyman Electrician",
		Trade:          "electrician",
		RequiredSkills: "wiring,panel installation,conduit bending,troubleshooting",
		City:           "Leipzig",
		HourlyRateMin:  30,
		HourlyRateMax:  45,
		MinYearsOfExp:  4,
	}
}

func testProfile() models.WorkerProfile {
	return models.WorkerProfile{
		Trade:         "electrician",
		Skills:        "wiring,panel installation,conduit bending,troubleshooting",
		City:          "Leipzig",
		HourlyRateMin: 32,
		HourlyRateMax: 40,
		YearsOfExp:    6,
		Visible:       true,
	}
}

func TestScoreProfile_PerfectMatch(t *testing.T) {
	job := testJob()
	profile := testProfile()

	score, matched := ScoreProfile(job, &profile)
	if score != 100 {
		t.Fatalf("perfect match score = %d, want 100", score)
	}
	if len(matched) != 4 {
		t.Fatalf("expected all 4 skills matched, got %v", matched)
	}
}

func TestScoreProfile_TradeMismatchIsZero(t *testing.T) {
	job := testJob()
	profile := testProfile()
	profile.Trade = "plumber"

	score, matched := ScoreProfile(job, &profile)
	if score != 0 || matched != nil {
		t.Fatalf("trade mismatch must zero the score, got %d (%v)", score, matched)
	}
}

func TestScoreProfile_PartialSkills(t *testing.T) {
	job := testJob()
	profile := testProfile()
	profile.Skills = "wiring,panel installation"

	score, matched := ScoreProfile(job, &profile)
	// 2 of 4 skills: half of the skill weight, everything else full.
	if score != 80 {
		t.Fatalf("partial skill score = %d, want 80", score)
	}
	if len(matched) != 2 {
		t.Fatalf("expected 2 matched skills, got %v", matched)
	}
}

func TestScoreProfile_CityMismatch(t *testing.T) {
	job := testJob()
	profile := testProfile()
	profile.City = "Dresden"

	score, _ := ScoreProfile(job, &profile)
	if score != 80 {
		t.Fatalf("city mismatch score = %d, want 80", score)
	}
}

func TestScoreProfile_UnderExperienced(t *testing.T) {
	job := testJob()
	profile := testProfile()
	profile.YearsOfExp = 2

	score, _ := ScoreProfile(job, &profile)
	// 2 of 4 required years: half of the experience weight.
	if score != 90 {
		t.Fatalf("under-experienced score = %d, want 90", score)
	}
}

func TestScoreProfile_RateOutOfReach(t *testing.T) {
	job := testJob()
	profile := testProfile()
	profile.HourlyRateMin = 80
	profile.HourlyRateMax = 95

	score, _ := ScoreProfile(job, &profile)
	if score != 80 {
		t.Fatalf("unaffordable profile score = %d, want 80", score)
	}
}

func TestScoreProfile_SlightlyOverBudgetGetsHalfRate(t *testing.T) {
	job := testJob()
	profile := testProfile()
	profile.HourlyRateMin = 50 // within 25% above the job max of 45
	profile.HourlyRateMax = 55

	score, _ := ScoreProfile(job, &profile)
	if score != 90 {
		t.Fatalf("slightly-over-budget score = %d, want 90", score)
	}
}

func TestRankProfiles_OrdersByScoreThenBoost(t *testing.T) {
	job := testJob()

	strong := testProfile()
	strong.UserID = 1

	weaker := testProfile()
	weaker.UserID = 2
	weaker.Skills = "wiring"

	boosted := testProfile()
	boosted.UserID = 3
	boosted.Boosted = true

	unrelated := testProfile()
	unrelated.UserID = 4
	unrelated.Trade = "carpenter"

	matches := RankProfiles(job, []models.WorkerProfile{weaker, strong, boosted, unrelated})
	if len(matches) != 3 {
		t.Fatalf("expected 3 matches, got %d", len(matches))
	}
	if matches[0].Profile.UserID != 3 {
		t.Fatalf("boosted profile should win the tie, got user %d first", matches[0].Profile.UserID)
	}
	if matches[1].Profile.UserID != 1 || matches[2].Profile.UserID != 2 {
		t.Fatalf("unexpected order: %d, %d", matches[1].Profile.UserID, matches[2].Profile.UserID)
	}
}

func TestRankProfiles_NoSkillsListed(t *testing.T) {
	job := testJob()
	job.RequiredSkills = ""
	profile := testProfile()
	profile.Skills = "anything"

	score, matched := ScoreProfile(job, &profile)
	if score != 100 {
		t.Fatalf("jobs without listed skills should not penalize, got %d", score)
	}
	if matched != nil {
		t.Fatalf("expected no matched skills, got %v", matched)
	}
}
