// Package guard holds the pre-checks that may stop a request before the
// protected operation runs.
package guard

import "github.com/martijn/quill/internal/core/domain"

type Decision int

const (
	Continue Decision = iota
	Redirect          // caller must log in first
	Forbidden
	NotFound
)

func (d Decision) String() string {
	switch d {
	case Continue:
		return "continue"
	case Redirect:
		return "redirect"
	case Forbidden:
		return "forbidden"
	case NotFound:
		return "not_found"
	default:
		return "unknown"
	}
}

// Outcome is the result of a check. Identity is set when Decision is Continue.
type Outcome struct {
	Decision Decision
	Identity domain.Identity
}

func (o Outcome) Allowed() bool {
	return o.Decision == Continue
}

// Check is a deferred guard; Evaluate only runs it if every earlier check passed
type Check func() Outcome

func RequireAuthenticated(identity domain.Identity) Outcome {
	if !identity.Authenticated() {
		return Outcome{Decision: Redirect}
	}
	return Outcome{Decision: Continue, Identity: identity}
}

// RequireExists must run before RequireAuthor so a missing post is reported
// as NotFound regardless of who asks.
func RequireExists(post *domain.Post, identity domain.Identity) Outcome {
	if post == nil {
		return Outcome{Decision: NotFound}
	}
	return Outcome{Decision: Continue, Identity: identity}
}

func RequireAuthor(post *domain.Post, identity domain.Identity) Outcome {
	if post == nil {
		return Outcome{Decision: NotFound}
	}
	if !post.IsAuthoredBy(identity.UserID()) {
		return Outcome{Decision: Forbidden}
	}
	return Outcome{Decision: Continue, Identity: identity}
}

// Evaluate runs checks in order and returns the first outcome that is not
// Continue, or the last outcome when all pass.
func Evaluate(checks ...Check) Outcome {
	var outcome Outcome
	for _, check := range checks {
		outcome = check()
		if !outcome.Allowed() {
			return outcome
		}
	}
	return outcome
}

// PostOwner is the chain used before showing, changing or deleting a post
func PostOwner(post *domain.Post, identity domain.Identity) Outcome {
	return Evaluate(
		func() Outcome { return RequireAuthenticated(identity) },
		func() Outcome { return RequireExists(post, identity) },
		func() Outcome { return RequireAuthor(post, identity) },
	)
}
