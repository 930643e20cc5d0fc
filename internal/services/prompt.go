package services

import (
	"fmt"
	"strings"

	"gcccs/careerlink/internal/models"
)

const notSpecified = "Not specified"

type PromptBuilder struct{}

func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{}
}

// BuildCandidateMatchPrompt asks the model to score a candidate for an employer's job.
func (pb *PromptBuilder) BuildCandidateMatchPrompt(candidate models.Candidate, job models.JobPosting) string {
	department := job.TextOr("department", job.TextOr("company", notSpecified))

	return fmt.Sprintf(`You are an expert HR recruiter and candidate evaluation AI. Analyze the following candidate profile against the job requirements to determine fit.

Job Requirements:
- Title: %s
- Department: %s
- Type: %s
- Location: %s
- Description: %s
- Requirements: %s
- Experience Level: %s

Candidate Profile:
- Name: %s
- Education: %s
- Experience: %s
- Skills: %s
- Current Role: %s
- Location: %s
- Expected Salary: %s
- Availability: %s

Based on this information, provide:
1. An overall match score from 0-100 (higher is better)
2. Individual scores for:
   - Skill Match (0-100): How well do their skills align with job requirements?
   - Experience Match (0-100): Is their experience level appropriate?
   - Education Match (0-100): Does their education meet requirements?
   - Culture Fit (0-100): Based on available info, would they fit the role?
3. A brief overall assessment (2-3 sentences)
4. Top 3 key strengths that make them suitable
5. Top 3 areas of concern or gaps

Return ONLY a valid JSON object in this exact format:
{
  "matchScore": <number 0-100>,
  "skillMatch": <number 0-100>,
  "experienceMatch": <number 0-100>,
  "educationMatch": <number 0-100>,
  "cultureFit": <number 0-100>,
  "assessment": "<string>",
  "strengths": ["<string>", "<string>", "<string>"],
  "concerns": ["<string>", "<string>", "<string>"]
}`,
		job.Text("title"),
		department,
		job.TextOr("type", notSpecified),
		job.TextOr("location", notSpecified),
		job.TextOr("description", notSpecified),
		listOr(job.List("requirements")),
		job.TextOr("experienceLevel", notSpecified),
		candidate.Text("name"),
		candidate.TextOr("education", notSpecified),
		candidate.TextOr("experience", notSpecified),
		listOr(candidate.List("skills")),
		candidate.TextOr("currentRole", notSpecified),
		candidate.TextOr("location", notSpecified),
		candidate.TextOr("salary", notSpecified),
		candidate.TextOr("availability", notSpecified),
	)
}

// BuildJobMatchPrompt asks the model to score a job for a student.
func (pb *PromptBuilder) BuildJobMatchPrompt(profile models.MatchProfile, job models.JobPosting) string {
	return fmt.Sprintf(`You are an expert career counselor and job matching AI. Analyze the following student profile and job posting to determine compatibility.

Student Profile:
- Skills: %s
- Education: %s
- Experience: %s
- Preferred Job Types: %s
- Preferred Locations: %s
- Career Goals: %s

Job Posting:
- Title: %s
- Company: %s
- Type: %s
- Location: %s
- Description: %s
- Requirements: %s
- Salary: %s

Based on this information, provide:
1. A match score from 0-100 (higher is better)
2. A brief explanation (2-3 sentences) of why this is a good or poor match
3. Key strengths that make the candidate suitable
4. Areas for improvement or missing qualifications

Return ONLY a valid JSON object in this exact format:
{
  "matchScore": <number 0-100>,
  "explanation": "<string>",
  "strengths": ["<string>", "<string>"],
  "improvements": ["<string>", "<string>"]
}`,
		listOr(profile.List("skills")),
		profile.TextOr("education", notSpecified),
		profile.TextOr("experience", notSpecified),
		listOr(profile.List("jobTypes")),
		listOr(profile.List("locations")),
		profile.TextOr("careerGoals", notSpecified),
		job.Text("title"),
		job.Text("company"),
		job.Text("type"),
		job.Text("location"),
		job.Text("description"),
		listOr(job.List("requirements")),
		job.TextOr("salary", notSpecified),
	)
}

// BuildJobDocument is the text embedded for semantic job search.
func (pb *PromptBuilder) BuildJobDocument(job models.Job) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s at %s\n", job.Title, job.Company)
	if job.Type != "" || job.Location != "" {
		fmt.Fprintf(&b, "%s, %s\n", job.Type, job.Location)
	}
	if job.ExperienceLevel != "" {
		fmt.Fprintf(&b, "Experience level: %s\n", job.ExperienceLevel)
	}
	if len(job.Requirements) > 0 {
		fmt.Fprintf(&b, "Requirements: %s\n", strings.Join(job.Requirements, ", "))
	}
	b.WriteString("\n")
	b.WriteString(strings.TrimSpace(job.Description))
	return b.String()
}

func listOr(items []string) string {
	if len(items) == 0 {
		return notSpecified
	}
	return strings.Join(items, ", ")
}
