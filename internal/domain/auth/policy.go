package auth

import "github.com/westcairo/scoreboard/internal/domain/model"

// Policy wraps the role predicates with deployment-level configuration.
//
// The only knob today is strict sub-team scoping: with it enabled, a branch
// leader may manage a sub-team only when it belongs to their own team. The
// shipped behavior leaves that unchecked, so strict mode is off by default
// pending a product decision.
type Policy struct {
	strictSubTeamScope bool
}

// Option applies a configuration option to the Policy.
type Option func(*Policy)

// WithStrictSubTeamScope enables ownership checking for branch leaders in
// CanManageSubTeam.
func WithStrictSubTeamScope(enabled bool) Option {
	return func(p *Policy) {
		p.strictSubTeamScope = enabled
	}
}

// NewPolicy constructs a Policy with default (loose) configuration.
func NewPolicy(opts ...Option) *Policy {
	p := &Policy{}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// StrictSubTeamScope reports whether ownership checking is enabled.
func (p *Policy) StrictSubTeamScope() bool {
	return p.strictSubTeamScope
}

// CanManageSubTeam evaluates sub-team management for r. ownerTeamID is the
// team the sub-team belongs to; it is consulted only in strict mode.
func (p *Policy) CanManageSubTeam(r Role, subTeamID, ownerTeamID string) bool {
	if !r.CanManageSubTeam(subTeamID) {
		return false
	}
	if p.strictSubTeamScope && r.Type == model.LeaderBranch {
		return r.TeamID == ownerTeamID
	}
	return true
}
