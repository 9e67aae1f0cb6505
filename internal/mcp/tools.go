// ABOUTME: MCP tool definitions and registration for the growth tribe server
// ABOUTME: Exposes accounts, community actions and the AI coach as MCP tools
package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

var userIDProperty = map[string]interface{}{
	"type":        "string",
	"description": "Member to act as (defaults to the server's member)",
}

// RegisterTools registers all MCP tools with the server
func RegisterTools(server *mcpserver.MCPServer, handlers *Handlers) {
	// 1. get_account - account snapshot with tier
	server.AddTool(mcp.Tool{
		Name:        "get_account",
		Description: "Get a member's growth points account, current badge and progress to the next badge. Creates the account with the welcome bonus on first use.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"user_id": userIDProperty,
			},
		},
	}, handlers.GetAccount)

	// 2. get_wallet - peso value of points
	server.AddTool(mcp.Tool{
		Name:        "get_wallet",
		Description: "Get a member's wallet: points, peso value (100 points = 1 peso) and progress to the next peso.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"user_id": userIDProperty,
			},
		},
	}, handlers.GetWallet)

	// 3. list_badges - badge catalogue
	server.AddTool(mcp.Tool{
		Name:        "list_badges",
		Description: "List every badge tier with whether the member has unlocked it.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"user_id": userIDProperty,
			},
		},
	}, handlers.ListBadges)

	// 4. create_post - publish to the feed
	server.AddTool(mcp.Tool{
		Name:        "create_post",
		Description: "Publish a post to the community feed. Earns the author 10 points.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"title": map[string]interface{}{
					"type":        "string",
					"description": "Optional post title",
				},
				"content": map[string]interface{}{
					"type":        "string",
					"description": "Post body",
				},
				"user_id": userIDProperty,
			},
			Required: []string{"content"},
		},
	}, handlers.CreatePost)

	// 5. add_comment - comment on a post
	server.AddTool(mcp.Tool{
		Name:        "add_comment",
		Description: "Comment on a post. Earns the commenter 5 points.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"post_id": map[string]interface{}{
					"type":        "string",
					"description": "Post to comment on",
				},
				"content": map[string]interface{}{
					"type":        "string",
					"description": "Comment text",
				},
				"user_id": userIDProperty,
			},
			Required: []string{"post_id", "content"},
		},
	}, handlers.AddComment)

	// 6. toggle_like - like or unlike
	server.AddTool(mcp.Tool{
		Name:        "toggle_like",
		Description: "Like a post, or remove the like if already liked. The post's author gains or loses 1 point; liking your own post earns nothing.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"post_id": map[string]interface{}{
					"type":        "string",
					"description": "Post to like",
				},
				"user_id": userIDProperty,
			},
			Required: []string{"post_id"},
		},
	}, handlers.ToggleLike)

	// 7. react - emoji reaction picker
	server.AddTool(mcp.Tool{
		Name:        "react",
		Description: "React to a post or comment with an emoji. The same emoji again removes the reaction; a different emoji replaces it. The author gains 2 points when a reaction appears and loses them when it is removed.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"target_kind": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"post", "comment"},
					"description": "What is being reacted to",
					"default":     "post",
				},
				"target_id": map[string]interface{}{
					"type":        "string",
					"description": "Post or comment id",
				},
				"emoji": map[string]interface{}{
					"type":        "string",
					"description": "One of ❤️ 👍 👏 🔥 💯 🙏 ✨ 💪",
				},
				"user_id": userIDProperty,
			},
			Required: []string{"target_id", "emoji"},
		},
	}, handlers.React)

	// 8. share_post - share text
	server.AddTool(mcp.Tool{
		Name:        "share_post",
		Description: "Build share text for a post. Earns the sharer 3 points.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"post_id": map[string]interface{}{
					"type":        "string",
					"description": "Post to share",
				},
				"user_id": userIDProperty,
			},
			Required: []string{"post_id"},
		},
	}, handlers.SharePost)

	// 9. ask_coach - AI growth coach
	server.AddTool(mcp.Tool{
		Name:        "ask_coach",
		Description: "Ask the AI growth coach for a supportive reply and one small growth step. Always returns displayable text, even when the AI service is busy.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"question": map[string]interface{}{
					"type":        "string",
					"description": "What is on the member's mind",
				},
				"user_id": userIDProperty,
			},
			Required: []string{"question"},
		},
	}, handlers.AskCoach)

	// 10. draft_post - AI post draft
	server.AddTool(mcp.Tool{
		Name:        "draft_post",
		Description: "Draft a short uplifting post about growth, resilience or self-care.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"user_id": userIDProperty,
			},
		},
	}, handlers.DraftPost)
}

// NewServer creates an MCP server with every tool registered
func NewServer(handlers *Handlers, version string) *mcpserver.MCPServer {
	server := mcpserver.NewMCPServer(
		"Growth Tribe",
		version,
		mcpserver.WithToolCapabilities(true),
	)
	RegisterTools(server, handlers)
	return server
}
