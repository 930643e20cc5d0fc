package services

import (
	"hash/fnv"
	"math"
	"slices"
	"strings"

	"gcccs/careerlink/internal/models"
)

const (
	baseMatchScore = 50

	resumeBonus        = 10
	experienceBonus    = 10
	educationBonus     = 10
	skillsBonus        = 10
	verifiedEmailBonus = 5
	maxJitter          = 10

	maxSkillOverlapBonus = 30
	jobTypeBonus         = 10
	locationBonus        = 10
)

// JitterFunc returns a value in [0, 10) added to the employer fallback score.
type JitterFunc func(candidate models.Candidate, job models.JobPosting) int

// HashJitter derives the jitter from the candidate and job, so repeated
// requests rank the same candidates identically.
func HashJitter(candidate models.Candidate, job models.JobPosting) int {
	h := fnv.New32a()
	key := candidate.ID()
	if key == "" {
		key = candidate.Text("email") + "|" + candidate.Text("name")
	}
	h.Write([]byte(key))
	h.Write([]byte{0})
	h.Write([]byte(job.Text("title")))
	return int(h.Sum32() % maxJitter)
}

// EmployerBaseScore is the additive part of the employer fallback score.
func EmployerBaseScore(candidate models.Candidate) int {
	score := baseMatchScore

	if candidate.Truthy("resume") || candidate.Truthy("resumeData") {
		score += resumeBonus
	}
	if candidate.Truthy("experience") {
		score += experienceBonus
	}
	if candidate.Truthy("education") {
		score += educationBonus
	}
	if candidate.IsNonEmptyArray("skills") {
		score += skillsBonus
	}
	if candidate.Truthy("emailVerified") {
		score += verifiedEmailBonus
	}

	return score
}

// EmployerFallbackScore scores a candidate without the AI.
func EmployerFallbackScore(candidate models.Candidate, job models.JobPosting, jitter JitterFunc) int {
	score := EmployerBaseScore(candidate)
	if jitter != nil {
		j := jitter(candidate, job)
		if j < 0 {
			j = 0
		}
		if j >= maxJitter {
			j = maxJitter - 1
		}
		score += j
	}
	return clampScore(float64(score))
}

// SkillOverlapBonus is up to 30 points for the share of job requirements
// covered by the student's skills, matched by substring in either direction.
func SkillOverlapBonus(skills, requirements []string) float64 {
	skills = lowerAll(skills)
	requirements = lowerAll(requirements)
	if len(skills) == 0 || len(requirements) == 0 {
		return 0
	}

	overlap := 0
	for _, req := range requirements {
		for _, skill := range skills {
			if strings.Contains(req, skill) || strings.Contains(skill, req) {
				overlap++
				break
			}
		}
	}

	return float64(overlap) / float64(len(requirements)) * maxSkillOverlapBonus
}

// StudentFallbackScore scores a job for a student without the AI.
func StudentFallbackScore(profile models.MatchProfile, job models.JobPosting) int {
	score := float64(baseMatchScore)

	score += SkillOverlapBonus(profile.List("skills"), job.List("requirements"))

	preferredTypes := lowerAll(profile.List("jobTypes"))
	if len(preferredTypes) > 0 && slices.Contains(preferredTypes, strings.ToLower(job.Text("type"))) {
		score += jobTypeBonus
	}

	preferredLocations := lowerAll(profile.List("locations"))
	jobLocation := strings.ToLower(job.Text("location"))
	for _, loc := range preferredLocations {
		if strings.Contains(jobLocation, loc) {
			score += locationBonus
			break
		}
	}

	return clampScore(score)
}

func clampScore(score float64) int {
	if math.IsNaN(score) {
		return 0
	}
	return int(math.Min(100, math.Max(0, math.Round(score))))
}

func lowerAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		out = append(out, strings.ToLower(v))
	}
	return out
}
