// ABOUTME: Engagement service: community actions that earn or move growth points
// ABOUTME: Persists content first, then credits through the ledger; points failures never fail the action
package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/harper/growth-tribe/internal/ledger"
	"github.com/harper/growth-tribe/internal/logging"
	"github.com/harper/growth-tribe/internal/metrics"
	"github.com/harper/growth-tribe/internal/models"
	"github.com/harper/growth-tribe/internal/storage"
	"github.com/sirupsen/logrus"
)

var (
	// ErrEmptyContent is returned for posts or comments without text
	ErrEmptyContent = errors.New("content is empty")
	// ErrInvalidEmoji is returned for reactions outside models.ReactionEmojis
	ErrInvalidEmoji = errors.New("unsupported reaction emoji")
)

// DefaultWelcomeBonus is granted when an account is created
const DefaultWelcomeBonus int64 = 100

// Credit describes what happened to the points side of an action
type Credit struct {
	UserID  string             `json:"user_id,omitempty"`
	Action  models.PointAction `json:"action"`
	Result  ledger.Result      `json:"result"`
	Applied bool               `json:"applied"`
	Exempt  bool               `json:"exempt,omitempty"` // self-action rule zeroed the delta
	Err     error              `json:"-"`
}

// Engagement runs community actions and their point credits
type Engagement struct {
	accounts     storage.AccountStore
	content      storage.ContentStore
	pointsLog    storage.PointsLog
	ledger       *ledger.Ledger
	notifier     Notifier
	welcomeBonus int64
	log          *logrus.Entry
	now          func() time.Time
}

// EngagementOption customizes an Engagement
type EngagementOption func(*Engagement)

// WithLedger sets the ledger (and so the tier table)
func WithLedger(l *ledger.Ledger) EngagementOption {
	return func(e *Engagement) { e.ledger = l }
}

// WithNotifier sets the badge unlock notifier
func WithNotifier(n Notifier) EngagementOption {
	return func(e *Engagement) { e.notifier = n }
}

// WithWelcomeBonus sets the points granted at account creation
func WithWelcomeBonus(points int64) EngagementOption {
	return func(e *Engagement) { e.welcomeBonus = points }
}

// WithLogger sets the logger
func WithLogger(log logrus.FieldLogger) EngagementOption {
	return func(e *Engagement) { e.log = logging.Component(log, "engagement") }
}

// NewEngagement creates the service over its stores
func NewEngagement(accounts storage.AccountStore, content storage.ContentStore, pointsLog storage.PointsLog, opts ...EngagementOption) *Engagement {
	e := &Engagement{
		accounts:     accounts,
		content:      content,
		pointsLog:    pointsLog,
		ledger:       ledger.New(nil),
		welcomeBonus: DefaultWelcomeBonus,
		log:          logging.Component(nil, "engagement"),
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Ledger returns the service's ledger
func (e *Engagement) Ledger() *ledger.Ledger {
	return e.ledger
}

// EnsureAccount returns the member's account, creating it with the welcome
// bonus on first sign-in. created reports whether this call created it.
func (e *Engagement) EnsureAccount(ctx context.Context, userID, username string) (account *models.Account, created bool, err error) {
	if strings.TrimSpace(userID) == "" {
		return nil, false, fmt.Errorf("user id is required")
	}

	account, err = e.accounts.ReadAccount(ctx, userID)
	if err == nil {
		return account, false, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return nil, false, fmt.Errorf("failed to read account: %w", err)
	}

	if username == "" {
		username = userID
	}
	account, err = e.accounts.CreateAccount(ctx, userID, username, e.welcomeBonus)
	if errors.Is(err, storage.ErrAlreadyExists) {
		// lost a race with another sign-in
		account, err = e.accounts.ReadAccount(ctx, userID)
		if err != nil {
			return nil, false, fmt.Errorf("failed to read account: %w", err)
		}
		return account, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to create account: %w", err)
	}

	if e.welcomeBonus > 0 {
		e.appendLog(ctx, &models.PointsLogEntry{
			UserID:      userID,
			Kind:        models.LogWelcomeBonus,
			Delta:       e.welcomeBonus,
			Applied:     e.welcomeBonus,
			Description: "Welcome bonus",
		})
	}
	e.log.WithField("user_id", userID).Info("account created")
	return account, true, nil
}

// CreatePost publishes a post stamped with the author's current badge and
// credits create_post to the author
func (e *Engagement) CreatePost(ctx context.Context, actorID, title, content string) (*models.Post, Credit, error) {
	if strings.TrimSpace(content) == "" {
		return nil, Credit{}, ErrEmptyContent
	}

	account, err := e.accounts.ReadAccount(ctx, actorID)
	if err != nil {
		return nil, Credit{}, fmt.Errorf("failed to read author account: %w", err)
	}

	post := &models.Post{
		AuthorID:    actorID,
		AuthorName:  account.Username,
		AuthorBadge: e.ledger.TierFor(account.TotalPoints).Name,
		Title:       strings.TrimSpace(title),
		Content:     content,
		CreatedAt:   e.now().UTC(),
	}
	if err := e.content.CreatePost(ctx, post); err != nil {
		return nil, Credit{}, fmt.Errorf("failed to create post: %w", err)
	}

	credit := e.credit(ctx, actorID, models.NewPointAction(models.ActionCreatePost), post.PostID, "Created a post")
	return post, credit, nil
}

// AddComment adds a comment to a post and credits add_comment to the commenter
func (e *Engagement) AddComment(ctx context.Context, actorID, postID, content string) (*models.Comment, Credit, error) {
	if strings.TrimSpace(content) == "" {
		return nil, Credit{}, ErrEmptyContent
	}

	comment := &models.Comment{
		PostID:    postID,
		AuthorID:  actorID,
		Content:   content,
		CreatedAt: e.now().UTC(),
	}
	if err := e.content.AddComment(ctx, comment); err != nil {
		return nil, Credit{}, fmt.Errorf("failed to add comment: %w", err)
	}

	credit := e.credit(ctx, actorID, models.NewPointAction(models.ActionAddComment), comment.CommentID, "Commented on a post")
	return comment, credit, nil
}

// Share builds the share text for a post and credits share to the sharer
func (e *Engagement) Share(ctx context.Context, actorID, postID string) (string, Credit, error) {
	post, err := e.content.GetPost(ctx, postID)
	if err != nil {
		return "", Credit{}, fmt.Errorf("failed to load post: %w", err)
	}

	credit := e.credit(ctx, actorID, models.NewPointAction(models.ActionShare), postID, "Shared a post")
	return ShareText(post.Title, post.Content), credit, nil
}

// ToggleLike flips the actor's like on a post. like or unlike is applied to
// the post's author exactly once per state transition; liking your own post
// earns nothing.
func (e *Engagement) ToggleLike(ctx context.Context, actorID, postID string) (storage.LikeChange, Credit, error) {
	post, err := e.content.GetPost(ctx, postID)
	if err != nil {
		return storage.LikeChange{}, Credit{}, fmt.Errorf("failed to load post: %w", err)
	}

	change, err := e.content.ToggleLike(ctx, postID, actorID)
	if err != nil {
		return storage.LikeChange{}, Credit{}, fmt.Errorf("failed to toggle like: %w", err)
	}
	if !change.Changed {
		return change, Credit{}, nil
	}

	kind, desc := models.ActionUnlike, "Post unliked"
	if change.Liked {
		kind, desc = models.ActionLike, "Post liked"
	}
	action := ledger.EngagementDelta(actorID, post.AuthorID, models.NewPointAction(kind))
	return change, e.credit(ctx, post.AuthorID, action, postID, desc), nil
}

// React applies the reaction picker rules to a post or comment: the same
// emoji again removes the reaction, a different one replaces it. The
// content's author gains add_reaction only when a reaction appears and
// loses it (retract_reaction) only when one disappears.
func (e *Engagement) React(ctx context.Context, actorID string, target models.Target, emoji string) (storage.ReactionChange, Credit, error) {
	if !models.IsReactionEmoji(emoji) {
		return storage.ReactionChange{}, Credit{}, fmt.Errorf("%w: %q", ErrInvalidEmoji, emoji)
	}

	authorID, err := e.authorOf(ctx, target)
	if err != nil {
		return storage.ReactionChange{}, Credit{}, err
	}

	change, err := e.content.ToggleReaction(ctx, actorID, target, emoji)
	if err != nil {
		return storage.ReactionChange{}, Credit{}, fmt.Errorf("failed to toggle reaction: %w", err)
	}

	var kind models.ActionKind
	switch {
	case change.Previous == "" && change.Current != "":
		kind = models.ActionAddReaction
	case change.Previous != "" && change.Current == "":
		kind = models.ActionRetractReaction
	default:
		// replaced one emoji with another
		return change, Credit{}, nil
	}

	action := ledger.EngagementDelta(actorID, authorID, models.NewPointAction(kind))
	return change, e.credit(ctx, authorID, action, target.ID, fmt.Sprintf("Reaction %s on %s", change.Previous+change.Current, target.Kind)), nil
}

// authorOf resolves who is credited for engagement on target
func (e *Engagement) authorOf(ctx context.Context, target models.Target) (string, error) {
	switch target.Kind {
	case models.TargetPost:
		post, err := e.content.GetPost(ctx, target.ID)
		if err != nil {
			return "", fmt.Errorf("failed to load post: %w", err)
		}
		return post.AuthorID, nil
	case models.TargetComment:
		comment, err := e.content.GetComment(ctx, target.ID)
		if err != nil {
			return "", fmt.Errorf("failed to load comment: %w", err)
		}
		return comment.AuthorID, nil
	default:
		return "", fmt.Errorf("unknown target kind %q", target.Kind)
	}
}

// credit applies action to userID's account. Store failures are logged and
// reported on the Credit but never returned as errors.
func (e *Engagement) credit(ctx context.Context, userID string, action models.PointAction, referenceID, description string) Credit {
	c := Credit{UserID: userID, Action: action}
	if action.Delta == 0 {
		c.Exempt = action.Kind.CreditsAuthor()
		return c
	}

	entry := e.log.WithFields(logrus.Fields{
		"user_id": userID,
		"kind":    action.Kind,
		"delta":   action.Delta,
	})

	account, err := e.accounts.ReadAccount(ctx, userID)
	if err != nil {
		metrics.RecordStoreFailure("read_account")
		entry.WithError(err).Warn("points not applied: account unavailable")
		c.Err = err
		return c
	}

	result, err := e.ledger.ApplyAction(account.TotalPoints, action)
	if err != nil {
		entry.WithError(err).Error("points not applied")
		c.Err = err
		return c
	}

	before, after, err := e.accounts.IncrementPoints(ctx, userID, action.Delta)
	if err != nil {
		metrics.RecordStoreFailure("increment_points")
		entry.WithError(err).Warn("points not applied: store update failed")
		c.Err = err
		return c
	}
	if before != account.TotalPoints || after != result.NewTotal {
		// another credit landed between the read and the update; the
		// committed totals are authoritative
		result.NewTotal = after
		result.Applied = after - before
		result.TierBefore = e.ledger.TierFor(before)
		result.TierAfter = e.ledger.TierFor(after)
		result.TierChanged = result.TierAfter != result.TierBefore
	}
	c.Result = result
	c.Applied = true
	metrics.RecordAction(string(action.Kind))

	e.appendLog(ctx, &models.PointsLogEntry{
		UserID:      userID,
		Kind:        action.Kind,
		Delta:       action.Delta,
		Applied:     result.Applied,
		Description: description,
		ReferenceID: referenceID,
	})

	if result.Unlocked() {
		metrics.RecordBadgeUnlock(result.TierAfter.Name)
		entry.WithField("tier", result.TierAfter.Name).Info("badge unlocked")
		if e.notifier != nil {
			e.notifier.BadgeUnlocked(ctx, BadgeUnlocked{
				UserID:      userID,
				Tier:        result.TierAfter,
				Previous:    result.TierBefore,
				TotalPoints: result.NewTotal,
				UnlockedAt:  e.now().UTC(),
			})
		}
	}
	return c
}

func (e *Engagement) appendLog(ctx context.Context, entry *models.PointsLogEntry) {
	entry.CreatedAt = e.now().UTC()
	if err := e.pointsLog.AppendLog(ctx, entry); err != nil {
		metrics.RecordStoreFailure("append_log")
		e.log.WithError(err).WithField("user_id", entry.UserID).Warn("points log entry dropped")
	}
}
