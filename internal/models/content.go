// ABOUTME: Community content rows: posts, comments and emoji reactions
// ABOUTME: Likes are modeled as presence of the acting user's id in a set
package models

import "time"

// ReactionEmojis are the emoji a member may react with
var ReactionEmojis = []string{"❤️", "👍", "👏", "🔥", "💯", "🙏", "✨", "💪"}

// IsReactionEmoji reports whether emoji is one of ReactionEmojis
func IsReactionEmoji(emoji string) bool {
	for _, e := range ReactionEmojis {
		if e == emoji {
			return true
		}
	}
	return false
}

// Post is a member's published post
type Post struct {
	PostID       string         `json:"post_id" yaml:"post_id"`
	AuthorID     string         `json:"author_id" yaml:"author_id"`
	AuthorName   string         `json:"author_name" yaml:"author_name"`
	AuthorBadge  string         `json:"author_badge,omitempty" yaml:"author_badge,omitempty"`
	Title        string         `json:"title,omitempty" yaml:"title,omitempty"`
	Content      string         `json:"content" yaml:"content"`
	Likes        []string       `json:"likes,omitempty" yaml:"likes,omitempty"`
	LikeCount    int            `json:"like_count" yaml:"like_count"`
	CommentCount int            `json:"comment_count" yaml:"comment_count"`
	Reactions    map[string]int `json:"reactions,omitempty" yaml:"reactions,omitempty"`
	CreatedAt    time.Time      `json:"created_at" yaml:"created_at"`
}

// LikedBy reports whether userID is in the post's like set
func (p *Post) LikedBy(userID string) bool {
	for _, id := range p.Likes {
		if id == userID {
			return true
		}
	}
	return false
}

// Comment is a reply to a post
type Comment struct {
	CommentID string    `json:"comment_id"`
	PostID    string    `json:"post_id"`
	AuthorID  string    `json:"author_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// TargetKind names what a reaction points at
type TargetKind string

const (
	TargetPost    TargetKind = "post"
	TargetComment TargetKind = "comment"
)

// Target identifies a post or comment
type Target struct {
	Kind TargetKind `json:"kind"`
	ID   string     `json:"id"`
}

// Reaction is one member's emoji on a target; a member holds at most one
// reaction per target
type Reaction struct {
	UserID    string    `json:"user_id"`
	Target    Target    `json:"target"`
	Emoji     string    `json:"emoji"`
	CreatedAt time.Time `json:"created_at"`
}
