// ABOUTME: PointAction kinds and their default point values
// ABOUTME: Also records which kinds credit the content author instead of the actor
package models

// ActionKind identifies a qualifying community action
type ActionKind string

const (
	// ActionCreatePost is awarded to the author of a new post
	ActionCreatePost ActionKind = "create_post"
	// ActionAddComment is awarded to the commenter
	ActionAddComment ActionKind = "add_comment"
	// ActionAddReaction credits the author of the reacted-to content
	ActionAddReaction ActionKind = "add_reaction"
	// ActionRetractReaction removes the points an earlier reaction granted
	ActionRetractReaction ActionKind = "retract_reaction"
	// ActionLike credits the author of the liked post
	ActionLike ActionKind = "like"
	// ActionUnlike removes the points an earlier like granted
	ActionUnlike ActionKind = "unlike"
	// ActionShare is awarded to the member sharing content
	ActionShare ActionKind = "share"
)

// defaultDeltas holds the point value attached to every kind
var defaultDeltas = map[ActionKind]int64{
	ActionCreatePost:      10,
	ActionAddComment:      5,
	ActionAddReaction:     2,
	ActionRetractReaction: -2,
	ActionLike:            1,
	ActionUnlike:          -1,
	ActionShare:           3,
}

// AllActionKinds lists every kind in display order
func AllActionKinds() []ActionKind {
	return []ActionKind{
		ActionCreatePost,
		ActionAddComment,
		ActionAddReaction,
		ActionRetractReaction,
		ActionLike,
		ActionUnlike,
		ActionShare,
	}
}

// IsValid reports whether k is a known kind
func (k ActionKind) IsValid() bool {
	_, ok := defaultDeltas[k]
	return ok
}

// CreditsAuthor reports whether the kind transfers points to the author of
// the target content rather than to the acting member
func (k ActionKind) CreditsAuthor() bool {
	switch k {
	case ActionAddReaction, ActionRetractReaction, ActionLike, ActionUnlike:
		return true
	}
	return false
}

// Inverse returns the kind that cancels k, or k itself when none exists
func (k ActionKind) Inverse() ActionKind {
	switch k {
	case ActionAddReaction:
		return ActionRetractReaction
	case ActionRetractReaction:
		return ActionAddReaction
	case ActionLike:
		return ActionUnlike
	case ActionUnlike:
		return ActionLike
	}
	return k
}

// PointAction pairs a kind with the signed delta it applies
type PointAction struct {
	Kind  ActionKind `json:"kind"`
	Delta int64      `json:"delta"`
}

// NewPointAction returns the action for kind with its default delta.
// Unknown kinds carry a zero delta.
func NewPointAction(kind ActionKind) PointAction {
	return PointAction{Kind: kind, Delta: defaultDeltas[kind]}
}
