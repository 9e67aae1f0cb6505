// ABOUTME: MCP tool handler implementations for the growth tribe server
// ABOUTME: Tool failures are reported as tool results; handlers never return Go errors
package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/harper/growth-tribe/internal/core"
	"github.com/harper/growth-tribe/internal/logging"
	"github.com/harper/growth-tribe/internal/models"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/sirupsen/logrus"
)

const errCoachUnavailable = "AI coach is not configured: set GEMINI_API_KEY or OPENAI_API_KEY"

// Handlers contains the handler functions for all MCP tools
type Handlers struct {
	engagement *core.Engagement
	coach      *core.Coach
	userID     string // member used when a call names none
	log        *logrus.Entry
}

// NewHandlers creates handlers acting for userID by default. coach may be
// nil when no AI provider is configured.
func NewHandlers(engagement *core.Engagement, coach *core.Coach, userID string, log logrus.FieldLogger) *Handlers {
	return &Handlers{
		engagement: engagement,
		coach:      coach,
		userID:     userID,
		log:        logging.Component(log, "mcp"),
	}
}

// creditView is the points side of an action as reported to clients
type creditView struct {
	UserID        string `json:"user_id,omitempty"`
	Action        string `json:"action,omitempty"`
	PointsApplied int64  `json:"points_applied"`
	TotalPoints   int64  `json:"total_points,omitempty"`
	Badge         string `json:"badge,omitempty"`
	BadgeUnlocked bool   `json:"badge_unlocked,omitempty"`
	Exempt        bool   `json:"exempt,omitempty"`
	Error         string `json:"error,omitempty"`
}

func newCreditView(c core.Credit) creditView {
	v := creditView{
		UserID: c.UserID,
		Action: string(c.Action.Kind),
		Exempt: c.Exempt,
	}
	if c.Applied {
		v.PointsApplied = c.Result.Applied
		v.TotalPoints = c.Result.NewTotal
		v.Badge = c.Result.TierAfter.Name
		v.BadgeUnlocked = c.Result.Unlocked()
	}
	if c.Err != nil {
		v.Error = "points could not be updated"
	}
	return v
}

// actor resolves and signs in the member a call acts for
func (h *Handlers) actor(ctx context.Context, request mcp.CallToolRequest) (string, error) {
	userID := request.GetString("user_id", h.userID)
	if userID == "" {
		return "", fmt.Errorf("user_id is required")
	}
	if _, created, err := h.engagement.EnsureAccount(ctx, userID, userID); err != nil {
		h.log.WithError(err).WithField("user_id", userID).Warn("sign-in failed")
		return "", err
	} else if created {
		h.log.WithField("user_id", userID).Info("new member signed in")
	}
	return userID, nil
}

// GetAccount handles the get_account tool
func (h *Handlers) GetAccount(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	userID, err := h.actor(ctx, request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	board, err := h.engagement.Badges(ctx, userID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to load account: %v", err)), nil
	}

	response := map[string]interface{}{
		"user_id":      userID,
		"total_points": board.Points,
		"badge":        board.Current.Name,
		"progress":     board.Progress,
	}
	if board.Next != nil {
		response["next_badge"] = board.Next.Name
		response["points_to_next"] = board.Next.MinPoints - board.Points
	}
	return jsonResult(response)
}

// GetWallet handles the get_wallet tool
func (h *Handlers) GetWallet(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	userID, err := h.actor(ctx, request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	wallet, err := h.engagement.Wallet(ctx, userID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to load wallet: %v", err)), nil
	}
	return jsonResult(wallet)
}

// ListBadges handles the list_badges tool
func (h *Handlers) ListBadges(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	userID, err := h.actor(ctx, request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	board, err := h.engagement.Badges(ctx, userID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to load badges: %v", err)), nil
	}
	return jsonResult(board)
}

// CreatePost handles the create_post tool
func (h *Handlers) CreatePost(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	content, err := request.RequireString("content")
	if err != nil {
		return mcp.NewToolResultError("content argument is required and must be a string"), nil
	}
	userID, err := h.actor(ctx, request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	post, credit, err := h.engagement.CreatePost(ctx, userID, request.GetString("title", ""), content)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to create post: %v", err)), nil
	}

	return jsonResult(map[string]interface{}{
		"post_id": post.PostID,
		"badge":   post.AuthorBadge,
		"points":  newCreditView(credit),
	})
}

// AddComment handles the add_comment tool
func (h *Handlers) AddComment(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	postID, err := request.RequireString("post_id")
	if err != nil {
		return mcp.NewToolResultError("post_id argument is required and must be a string"), nil
	}
	content, err := request.RequireString("content")
	if err != nil {
		return mcp.NewToolResultError("content argument is required and must be a string"), nil
	}
	userID, err := h.actor(ctx, request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	comment, credit, err := h.engagement.AddComment(ctx, userID, postID, content)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to add comment: %v", err)), nil
	}

	return jsonResult(map[string]interface{}{
		"comment_id": comment.CommentID,
		"points":     newCreditView(credit),
	})
}

// ToggleLike handles the toggle_like tool
func (h *Handlers) ToggleLike(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	postID, err := request.RequireString("post_id")
	if err != nil {
		return mcp.NewToolResultError("post_id argument is required and must be a string"), nil
	}
	userID, err := h.actor(ctx, request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	change, credit, err := h.engagement.ToggleLike(ctx, userID, postID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to toggle like: %v", err)), nil
	}

	return jsonResult(map[string]interface{}{
		"post_id": postID,
		"liked":   change.Liked,
		"points":  newCreditView(credit),
	})
}

// React handles the react tool
func (h *Handlers) React(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	targetID, err := request.RequireString("target_id")
	if err != nil {
		return mcp.NewToolResultError("target_id argument is required and must be a string"), nil
	}
	emoji, err := request.RequireString("emoji")
	if err != nil {
		return mcp.NewToolResultError("emoji argument is required and must be a string"), nil
	}
	kind := models.TargetKind(request.GetString("target_kind", string(models.TargetPost)))
	if kind != models.TargetPost && kind != models.TargetComment {
		return mcp.NewToolResultError(fmt.Sprintf("target_kind must be post or comment, got %q", kind)), nil
	}
	userID, err := h.actor(ctx, request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	change, credit, err := h.engagement.React(ctx, userID, models.Target{Kind: kind, ID: targetID}, emoji)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to react: %v", err)), nil
	}

	return jsonResult(map[string]interface{}{
		"target_id": targetID,
		"previous":  change.Previous,
		"current":   change.Current,
		"points":    newCreditView(credit),
	})
}

// SharePost handles the share_post tool
func (h *Handlers) SharePost(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	postID, err := request.RequireString("post_id")
	if err != nil {
		return mcp.NewToolResultError("post_id argument is required and must be a string"), nil
	}
	userID, err := h.actor(ctx, request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	text, credit, err := h.engagement.Share(ctx, userID, postID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to share post: %v", err)), nil
	}

	return jsonResult(map[string]interface{}{
		"text":   text,
		"points": newCreditView(credit),
	})
}

// AskCoach handles the ask_coach tool
func (h *Handlers) AskCoach(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	question, err := request.RequireString("question")
	if err != nil {
		return mcp.NewToolResultError("question argument is required and must be a string"), nil
	}
	if h.coach == nil {
		return mcp.NewToolResultError(errCoachUnavailable), nil
	}
	userID := request.GetString("user_id", h.userID)

	res, err := h.coach.Ask(ctx, userID, question)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return coachResult(res.Message(), res.OK(), res.Attempts)
}

// DraftPost handles the draft_post tool
func (h *Handlers) DraftPost(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if h.coach == nil {
		return mcp.NewToolResultError(errCoachUnavailable), nil
	}
	userID := request.GetString("user_id", h.userID)
	res := h.coach.Draft(ctx, userID)
	return coachResult(res.Message(), res.OK(), res.Attempts)
}

// coachResult reports coach text. Busy and failure messages are returned as
// normal text so clients can display them.
func coachResult(text string, ok bool, attempts int) (*mcp.CallToolResult, error) {
	return jsonResult(map[string]interface{}{
		"text":      text,
		"generated": ok,
		"attempts":  attempts,
	})
}

func jsonResult(v interface{}) (*mcp.CallToolResult, error) {
	responseJSON, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
	}
	return mcp.NewToolResultText(string(responseJSON)), nil
}
