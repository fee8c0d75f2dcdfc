package model

// ReviewFlag is a single caveat raised by the reasoning service.
// A flag can only ever request review; there is deliberately no way to
// express a rejection here.
type ReviewFlag struct {
	Code     string `json:"code"`               // Short machine tag, e.g. "illegible_photo"
	Detail   string `json:"detail,omitempty"`   // Human-readable explanation
	Resolved bool   `json:"resolved,omitempty"` // A reviewer already dismissed this flag
}

// ReasoningJudgment is the advisory output of the external reasoning
// service. It is never authoritative over deterministic findings: the
// type carries no status and no severity, so a judgment structurally
// cannot represent "reject".
type ReasoningJudgment struct {
	Narrative string       `json:"narrative"`
	Flags     []ReviewFlag `json:"flags,omitempty"`
	Provider  string       `json:"provider,omitempty"`
	Model     string       `json:"model,omitempty"`
}

// HasUnresolvedFlags reports whether any flag still needs a human
func (j *ReasoningJudgment) HasUnresolvedFlags() bool {
	if j == nil {
		return false
	}
	for _, f := range j.Flags {
		if !f.Resolved {
			return true
		}
	}
	return false
}
