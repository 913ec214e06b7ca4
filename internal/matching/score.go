// Package matching ranks technicians against the skill requirements of a
// piece of equipment.
package matching

import (
	"sort"
	"time"
)

// Proficiency is the ordinal rank of a skill level.
type Proficiency int

const (
	Beginner     Proficiency = 1
	Intermediate Proficiency = 2
	Advanced     Proficiency = 3
	Expert       Proficiency = 4
)

var proficiencyNames = map[string]Proficiency{
	"beginner":     Beginner,
	"intermediate": Intermediate,
	"advanced":     Advanced,
	"expert":       Expert,
}

func ParseProficiency(s string) (Proficiency, bool) {
	p, ok := proficiencyNames[s]
	return p, ok
}

func (p Proficiency) String() string {
	switch p {
	case Beginner:
		return "beginner"
	case Intermediate:
		return "intermediate"
	case Advanced:
		return "advanced"
	case Expert:
		return "expert"
	}
	return "unknown"
}

// Requirement is what a technician must hold to operate a resource.
type Requirement struct {
	SkillID               uint64
	MinimumProficiency    Proficiency
	CertificationRequired bool
}

// SkillRecord is a technician's holding of one skill.
type SkillRecord struct {
	SkillID             uint64
	Proficiency         Proficiency
	IsCertified         bool
	CertificationExpiry *time.Time
}

// CertifiedAt reports whether the record counts as certified at the given
// instant: an expiry strictly in the past voids the certification.
func (r SkillRecord) CertifiedAt(now time.Time) bool {
	if !r.IsCertified {
		return false
	}
	if r.CertificationExpiry != nil && r.CertificationExpiry.Before(now) {
		return false
	}
	return true
}

// Candidate is a technician with their skill records and current workload
// (open assignment count), used only for tie-breaking.
type Candidate struct {
	ID       uint64
	Skills   []SkillRecord
	Workload int
}

// ScoreResult is a qualified candidate's total match score.
type ScoreResult struct {
	CandidateID uint64
	Score       int
	Workload    int
}

// ScoreCandidate computes the weighted match score of a candidate against a
// requirement set. It returns nil when the candidate is disqualified:
// missing any required skill, holding one below the minimum proficiency, or
// lacking a required (non-expired) certification. Otherwise the score is the
// sum over requirements of the held proficiency ordinal plus one per valid
// certification.
func ScoreCandidate(candidate Candidate, requirements []Requirement, now time.Time) *ScoreResult {
	bySkill := make(map[uint64]SkillRecord, len(candidate.Skills))
	for _, rec := range candidate.Skills {
		bySkill[rec.SkillID] = rec
	}

	score := 0
	for _, req := range requirements {
		rec, ok := bySkill[req.SkillID]
		if !ok {
			return nil
		}
		if rec.Proficiency < req.MinimumProficiency {
			return nil
		}
		certified := rec.CertifiedAt(now)
		if req.CertificationRequired && !certified {
			return nil
		}
		score += int(rec.Proficiency)
		if certified {
			score++
		}
	}

	return &ScoreResult{CandidateID: candidate.ID, Score: score, Workload: candidate.Workload}
}

// RankCandidates filters out disqualified candidates and orders the rest by
// score descending, ties by ascending workload, remaining ties stable on
// input order.
func RankCandidates(pool []Candidate, requirements []Requirement, now time.Time) []ScoreResult {
	results := make([]ScoreResult, 0, len(pool))
	for _, c := range pool {
		if res := ScoreCandidate(c, requirements, now); res != nil {
			results = append(results, *res)
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].Workload < results[j].Workload
	})

	return results
}
