package matching

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func datePtr(t time.Time) *time.Time { return &t }

func TestScoreCandidate_Qualified(t *testing.T) {
	reqs := []Requirement{
		{SkillID: 1, MinimumProficiency: Intermediate, CertificationRequired: true},
	}
	candidate := Candidate{
		ID: 10,
		Skills: []SkillRecord{
			{SkillID: 1, Proficiency: Advanced, IsCertified: true},
		},
	}

	res := ScoreCandidate(candidate, reqs, now)
	require.NotNil(t, res)
	assert.Equal(t, 4, res.Score, "advanced(3) + certification(1)")
}

func TestScoreCandidate_Disqualified(t *testing.T) {
	reqs := []Requirement{
		{SkillID: 1, MinimumProficiency: Intermediate, CertificationRequired: true},
		{SkillID: 2, MinimumProficiency: Beginner},
	}

	t.Run("below minimum proficiency", func(t *testing.T) {
		c := Candidate{Skills: []SkillRecord{
			{SkillID: 1, Proficiency: Beginner, IsCertified: true},
			{SkillID: 2, Proficiency: Expert, IsCertified: true},
		}}
		assert.Nil(t, ScoreCandidate(c, reqs, now))
	})

	t.Run("missing one skill disqualifies regardless of the rest", func(t *testing.T) {
		c := Candidate{Skills: []SkillRecord{
			{SkillID: 1, Proficiency: Expert, IsCertified: true},
		}}
		assert.Nil(t, ScoreCandidate(c, reqs, now))
	})

	t.Run("missing required certification", func(t *testing.T) {
		c := Candidate{Skills: []SkillRecord{
			{SkillID: 1, Proficiency: Expert, IsCertified: false},
			{SkillID: 2, Proficiency: Beginner},
		}}
		assert.Nil(t, ScoreCandidate(c, reqs, now))
	})

	t.Run("expired certification counts as uncertified", func(t *testing.T) {
		c := Candidate{Skills: []SkillRecord{
			{SkillID: 1, Proficiency: Expert, IsCertified: true, CertificationExpiry: datePtr(now.AddDate(0, -1, 0))},
			{SkillID: 2, Proficiency: Beginner},
		}}
		assert.Nil(t, ScoreCandidate(c, reqs, now))
	})

	t.Run("expiry exactly now is still valid", func(t *testing.T) {
		c := Candidate{Skills: []SkillRecord{
			{SkillID: 1, Proficiency: Expert, IsCertified: true, CertificationExpiry: datePtr(now)},
			{SkillID: 2, Proficiency: Beginner},
		}}
		res := ScoreCandidate(c, reqs, now)
		require.NotNil(t, res)
		assert.Equal(t, 4+1+1, res.Score)
	})
}

// Raising a proficiency on a required skill never lowers the score.
func TestScoreMonotonicity(t *testing.T) {
	reqs := []Requirement{{SkillID: 1, MinimumProficiency: Beginner}}

	prev := -1
	for _, p := range []Proficiency{Beginner, Intermediate, Advanced, Expert} {
		c := Candidate{Skills: []SkillRecord{{SkillID: 1, Proficiency: p}}}
		res := ScoreCandidate(c, reqs, now)
		require.NotNil(t, res)
		assert.Greater(t, res.Score, prev)
		prev = res.Score
	}
}

func TestRankCandidates(t *testing.T) {
	reqs := []Requirement{{SkillID: 1, MinimumProficiency: Intermediate}}

	pool := []Candidate{
		{ID: 1, Workload: 5, Skills: []SkillRecord{{SkillID: 1, Proficiency: Advanced}}},
		{ID: 2, Workload: 0, Skills: []SkillRecord{{SkillID: 1, Proficiency: Beginner}}},
		{ID: 3, Workload: 2, Skills: []SkillRecord{{SkillID: 1, Proficiency: Expert}}},
		{ID: 4, Workload: 1, Skills: []SkillRecord{{SkillID: 1, Proficiency: Advanced}}},
	}

	ranked := RankCandidates(pool, reqs, now)
	require.Len(t, ranked, 3, "unqualified candidate is filtered out")
	assert.Equal(t, uint64(3), ranked[0].CandidateID, "highest score first")
	assert.Equal(t, uint64(4), ranked[1].CandidateID, "tie broken by lower workload")
	assert.Equal(t, uint64(1), ranked[2].CandidateID)
}

func TestRankCandidates_StableOnFullTie(t *testing.T) {
	reqs := []Requirement{{SkillID: 1, MinimumProficiency: Beginner}}
	pool := []Candidate{
		{ID: 9, Workload: 1, Skills: []SkillRecord{{SkillID: 1, Proficiency: Intermediate}}},
		{ID: 5, Workload: 1, Skills: []SkillRecord{{SkillID: 1, Proficiency: Intermediate}}},
	}
	ranked := RankCandidates(pool, reqs, now)
	require.Len(t, ranked, 2)
	assert.Equal(t, uint64(9), ranked[0].CandidateID, "full tie keeps input order")
}

func TestParseProficiency(t *testing.T) {
	p, ok := ParseProficiency("expert")
	require.True(t, ok)
	assert.Equal(t, Expert, p)
	assert.Equal(t, "expert", p.String())

	_, ok = ParseProficiency("grandmaster")
	assert.False(t, ok)
}
