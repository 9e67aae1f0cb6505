// ABOUTME: Tests for ActionKind helpers and PointAction defaults
// ABOUTME: Verifies kind validation, author crediting and inverse pairs

package models

import "testing"

func TestActionKind_IsValid(t *testing.T) {
	tests := []struct {
		name string
		kind ActionKind
		want bool
	}{
		{"create_post", ActionCreatePost, true},
		{"add_comment", ActionAddComment, true},
		{"add_reaction", ActionAddReaction, true},
		{"retract_reaction", ActionRetractReaction, true},
		{"like", ActionLike, true},
		{"unlike", ActionUnlike, true},
		{"share", ActionShare, true},
		{"empty string", ActionKind(""), false},
		{"unknown", ActionKind("follow"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.kind.IsValid(); got != tt.want {
				t.Errorf("IsValid() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNewPointAction_Deltas(t *testing.T) {
	want := map[ActionKind]int64{
		ActionCreatePost:      10,
		ActionAddComment:      5,
		ActionAddReaction:     2,
		ActionRetractReaction: -2,
		ActionLike:            1,
		ActionUnlike:          -1,
		ActionShare:           3,
	}

	for kind, delta := range want {
		action := NewPointAction(kind)
		if action.Kind != kind {
			t.Errorf("Kind = %q, want %q", action.Kind, kind)
		}
		if action.Delta != delta {
			t.Errorf("%s: Delta = %d, want %d", kind, action.Delta, delta)
		}
	}

	if got := NewPointAction(ActionKind("bogus")).Delta; got != 0 {
		t.Errorf("unknown kind Delta = %d, want 0", got)
	}
}

func TestActionKind_InversesCancel(t *testing.T) {
	for _, kind := range AllActionKinds() {
		inv := kind.Inverse()
		if inv == kind {
			continue
		}
		if inv.Inverse() != kind {
			t.Errorf("%s: Inverse().Inverse() = %s", kind, inv.Inverse())
		}
		sum := NewPointAction(kind).Delta + NewPointAction(inv).Delta
		if sum != 0 {
			t.Errorf("%s + %s = %d, want 0", kind, inv, sum)
		}
		if kind.CreditsAuthor() != inv.CreditsAuthor() {
			t.Errorf("%s and %s disagree on CreditsAuthor", kind, inv)
		}
	}
}

func TestActionKind_CreditsAuthor(t *testing.T) {
	if ActionCreatePost.CreditsAuthor() {
		t.Error("create_post should credit the actor")
	}
	if ActionShare.CreditsAuthor() {
		t.Error("share should credit the actor")
	}
	if !ActionLike.CreditsAuthor() {
		t.Error("like should credit the author")
	}
}

func TestIsReactionEmoji(t *testing.T) {
	if !IsReactionEmoji("🔥") {
		t.Error("🔥 should be accepted")
	}
	if IsReactionEmoji("😡") {
		t.Error("😡 should be rejected")
	}
}

func TestPost_LikedBy(t *testing.T) {
	p := &Post{Likes: []string{"u1", "u2"}}
	if !p.LikedBy("u2") {
		t.Error("LikedBy(u2) = false, want true")
	}
	if p.LikedBy("u3") {
		t.Error("LikedBy(u3) = true, want false")
	}
}
