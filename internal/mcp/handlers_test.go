// ABOUTME: Tests for MCP tool handlers and registration
// ABOUTME: Reads tool results with gjson

package mcp

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/harper/growth-tribe/internal/core"
	"github.com/harper/growth-tribe/internal/llm"
	"github.com/harper/growth-tribe/internal/logging"
	"github.com/harper/growth-tribe/internal/storage/sqlite"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func newTestHandlers(t *testing.T, gen llm.Generator) *Handlers {
	t.Helper()
	store, err := sqlite.NewStorageInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	if gen == nil {
		gen = llm.GeneratorFunc(func(ctx context.Context, prompt string) llm.Result {
			return llm.Result{Kind: llm.ResultSuccess, Text: "Keep going.", Attempts: 1}
		})
	}
	engagement := core.NewEngagement(store, store, store)
	coach := core.NewCoach(gen, logging.Discard())
	return NewHandlers(engagement, coach, "maya", logging.Discard())
}

func call(args map[string]interface{}) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, res)
	require.NotEmpty(t, res.Content)
	text, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected text content")
	return text.Text
}

func TestGetAccount_SignsInWithWelcomeBonus(t *testing.T) {
	h := newTestHandlers(t, nil)

	res, err := h.GetAccount(context.Background(), call(nil))
	require.NoError(t, err)
	require.False(t, res.IsError)

	body := resultText(t, res)
	assert.Equal(t, "maya", gjson.Get(body, "user_id").String())
	assert.Equal(t, int64(100), gjson.Get(body, "total_points").Int())
	assert.Equal(t, "Seedling", gjson.Get(body, "badge").String())
	assert.Equal(t, "Sprout", gjson.Get(body, "next_badge").String())
	assert.Equal(t, int64(400), gjson.Get(body, "points_to_next").Int())
}

func TestPostLikeReactFlow(t *testing.T) {
	ctx := context.Background()
	h := newTestHandlers(t, nil)

	res, err := h.CreatePost(ctx, call(map[string]interface{}{"title": "Hi", "content": "First post"}))
	require.NoError(t, err)
	require.False(t, res.IsError, resultText(t, res))
	body := resultText(t, res)
	postID := gjson.Get(body, "post_id").String()
	require.NotEmpty(t, postID)
	assert.Equal(t, int64(10), gjson.Get(body, "points.points_applied").Int())
	assert.Equal(t, int64(110), gjson.Get(body, "points.total_points").Int())

	res, err = h.ToggleLike(ctx, call(map[string]interface{}{"post_id": postID, "user_id": "leo"}))
	require.NoError(t, err)
	body = resultText(t, res)
	assert.True(t, gjson.Get(body, "liked").Bool())
	assert.Equal(t, "maya", gjson.Get(body, "points.user_id").String())
	assert.Equal(t, int64(111), gjson.Get(body, "points.total_points").Int())

	res, err = h.ToggleLike(ctx, call(map[string]interface{}{"post_id": postID}))
	require.NoError(t, err)
	body = resultText(t, res)
	assert.True(t, gjson.Get(body, "points.exempt").Bool())

	res, err = h.React(ctx, call(map[string]interface{}{"target_id": postID, "emoji": "🔥", "user_id": "leo"}))
	require.NoError(t, err)
	body = resultText(t, res)
	assert.Equal(t, "🔥", gjson.Get(body, "current").String())
	assert.Equal(t, int64(113), gjson.Get(body, "points.total_points").Int())

	res, err = h.SharePost(ctx, call(map[string]interface{}{"post_id": postID, "user_id": "leo"}))
	require.NoError(t, err)
	body = resultText(t, res)
	assert.Contains(t, gjson.Get(body, "text").String(), core.ShareTagline)
	assert.Equal(t, int64(103), gjson.Get(body, "points.total_points").Int())
}

func TestToolErrors(t *testing.T) {
	ctx := context.Background()
	h := newTestHandlers(t, nil)

	tests := []struct {
		name string
		run  func() (*mcp.CallToolResult, error)
	}{
		{"post without content", func() (*mcp.CallToolResult, error) {
			return h.CreatePost(ctx, call(map[string]interface{}{}))
		}},
		{"like missing post", func() (*mcp.CallToolResult, error) {
			return h.ToggleLike(ctx, call(map[string]interface{}{"post_id": "nope"}))
		}},
		{"unknown emoji", func() (*mcp.CallToolResult, error) {
			return h.React(ctx, call(map[string]interface{}{"target_id": "x", "emoji": "🤖"}))
		}},
		{"bad target kind", func() (*mcp.CallToolResult, error) {
			return h.React(ctx, call(map[string]interface{}{"target_id": "x", "emoji": "🔥", "target_kind": "story"}))
		}},
		{"empty question", func() (*mcp.CallToolResult, error) {
			return h.AskCoach(ctx, call(map[string]interface{}{"question": "  "}))
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := tt.run()
			require.NoError(t, err)
			assert.True(t, res.IsError)
		})
	}
}

func TestAskCoach_BusyIsStillText(t *testing.T) {
	busy := llm.GeneratorFunc(func(ctx context.Context, prompt string) llm.Result {
		return llm.Result{Kind: llm.ResultExhausted, Text: llm.BusyMessage, Attempts: 6}
	})
	h := newTestHandlers(t, busy)

	res, err := h.AskCoach(context.Background(), call(map[string]interface{}{"question": "I feel stuck"}))
	require.NoError(t, err)
	assert.False(t, res.IsError)

	body := resultText(t, res)
	assert.Equal(t, llm.BusyMessage, gjson.Get(body, "text").String())
	assert.False(t, gjson.Get(body, "generated").Bool())
	assert.Equal(t, int64(6), gjson.Get(body, "attempts").Int())
}

func TestDraftPost(t *testing.T) {
	h := newTestHandlers(t, nil)
	res, err := h.DraftPost(context.Background(), call(nil))
	require.NoError(t, err)
	assert.Equal(t, "Keep going.", gjson.Get(resultText(t, res), "text").String())
}

func TestRegisterTools(t *testing.T) {
	s := NewServer(newTestHandlers(t, nil), "test")

	ctx := context.Background()
	s.HandleMessage(ctx, json.RawMessage(`{"jsonrpc":"2.0","id":1,"method":"initialize","params":{"protocolVersion":"2024-11-05","capabilities":{},"clientInfo":{"name":"test","version":"1"}}}`))
	resp := s.HandleMessage(ctx, json.RawMessage(`{"jsonrpc":"2.0","id":2,"method":"tools/list"}`))

	raw, err := json.Marshal(resp)
	require.NoError(t, err)

	var names []string
	for _, tool := range gjson.GetBytes(raw, "result.tools").Array() {
		names = append(names, tool.Get("name").String())
	}
	assert.ElementsMatch(t, []string{
		"get_account", "get_wallet", "list_badges", "create_post", "add_comment",
		"toggle_like", "react", "share_post", "ask_coach", "draft_post",
	}, names)
}

func TestCoachTools_WithoutCoach(t *testing.T) {
	h := newTestHandlers(t, nil)
	h.coach = nil

	res, err := h.AskCoach(context.Background(), call(map[string]interface{}{"question": "hi"}))
	require.NoError(t, err)
	assert.True(t, res.IsError)

	res, err = h.DraftPost(context.Background(), call(nil))
	require.NoError(t, err)
	assert.True(t, res.IsError)
}
