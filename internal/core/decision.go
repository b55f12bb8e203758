package core

import (
	"github.com/soreahq/sorea/internal/model"
)

// Branch is the pipeline's reply path. Exactly one branch is taken per call.
type Branch int

const (
	// BranchRedirect: the conversation is out of scope; the fixed redirect
	// is returned without escalation or generation.
	BranchRedirect Branch = iota
	// BranchCrisis: maximum urgency on an in-scope message.
	BranchCrisis
	// BranchNormal: in-scope, non-crisis; the regular generation path.
	BranchNormal
)

func (b Branch) String() string {
	switch b {
	case BranchRedirect:
		return "redirect"
	case BranchCrisis:
		return "crisis"
	default:
		return "normal"
	}
}

// CrisisUrgency is the sole escalation trigger.
const CrisisUrgency = 5

// Decide applies the branch priority: redirect over crisis over normal. A
// message only reaches the crisis branch when it passed the topic filter.
// Both the concurrent pipeline and the degraded fallback route through this
// one function so the two paths cannot drift.
func Decide(topic model.TopicVerdict, verdict model.Verdict) Branch {
	if !topic.Relevant {
		return BranchRedirect
	}
	if verdict.Urgency >= CrisisUrgency {
		return BranchCrisis
	}
	return BranchNormal
}
