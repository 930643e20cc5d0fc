package models

// Candidate is an applicant as sent by the employer dashboard.
type Candidate struct{ Entity }

// JobPosting is a job as sent by a client for matching, either side.
type JobPosting struct{ Entity }

// MatchProfile is the student's preferences as sent for matching.
type MatchProfile struct{ Entity }

// ID returns the client identifier of the entity, if any.
func (e Entity) ID() string { return e.Text("id") }

type MatchSource string

const (
	MatchSourceAI       MatchSource = "ai"
	MatchSourceFallback MatchSource = "fallback"
)

const FallbackExplanation = "AI analysis unavailable, using basic matching algorithm"

type EmployerMatchRequest struct {
	Candidates []Candidate `json:"candidates" validate:"required,min=1"`
	JobDetails *JobPosting `json:"jobDetails" validate:"required"`
}

type StudentMatchRequest struct {
	Jobs    []JobPosting  `json:"jobs" validate:"required,min=1"`
	Profile *MatchProfile `json:"profile" validate:"required"`
}

type CandidateInsights struct {
	SkillMatch      int `json:"skillMatch"`
	ExperienceMatch int `json:"experienceMatch"`
	EducationMatch  int `json:"educationMatch"`
	CultureFit      int `json:"cultureFit"`
}

// CandidateMatch is a candidate scored against one job.
type CandidateMatch struct {
	Candidate  Candidate
	MatchScore int
	Insights   CandidateInsights
	Assessment string
	Strengths  []string
	Concerns   []string
	Source     MatchSource
}

func (m CandidateMatch) MarshalJSON() ([]byte, error) {
	return mergeFields(m.Candidate.Entity, map[string]any{
		"matchScore":   m.MatchScore,
		"matchSource":  m.Source,
		"aiInsights":   m.Insights,
		"aiAssessment": m.Assessment,
		"aiStrengths":  nonNil(m.Strengths),
		"aiConcerns":   nonNil(m.Concerns),
	})
}

// JobMatch is a job scored against one student profile.
type JobMatch struct {
	Job          JobPosting
	MatchScore   int
	Explanation  string
	Strengths    []string
	Improvements []string
	Source       MatchSource
}

func (m JobMatch) MarshalJSON() ([]byte, error) {
	return mergeFields(m.Job.Entity, map[string]any{
		"matchScore":     m.MatchScore,
		"matchSource":    m.Source,
		"aiExplanation":  m.Explanation,
		"aiStrengths":    nonNil(m.Strengths),
		"aiImprovements": nonNil(m.Improvements),
	})
}

type CandidateMatchResponse struct {
	Success bool             `json:"success"`
	Matches []CandidateMatch `json:"matches"`
}

type JobMatchResponse struct {
	Success bool       `json:"success"`
	Matches []JobMatch `json:"matches"`
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
