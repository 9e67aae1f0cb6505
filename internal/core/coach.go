// ABOUTME: AI growth coach: answers a member's question and drafts uplifting posts
// ABOUTME: Every call goes through the resilient generator and always yields display text
package core

import (
	"context"
	"fmt"
	"strings"

	"github.com/harper/growth-tribe/internal/llm"
	"github.com/harper/growth-tribe/internal/logging"
	"github.com/sirupsen/logrus"
)

// DraftPrompt asks for a short post a member can publish as-is
const DraftPrompt = "Write a short, uplifting social media post about personal growth, resilience, or self-care. " +
	"Use 1-2 emojis. Keep it under 40 words. Tone: Warm, authentic, encouraging."

// CoachPrompt wraps a member's message in the coach persona
func CoachPrompt(question string) string {
	return fmt.Sprintf("Act as a wise, empathetic, and resilient personal growth coach for the 'GROWTH Tribe'.\n"+
		"The user says: %q.\n"+
		"Provide a warm, supportive response (max 3 sentences) validating their feelings, "+
		"followed by ONE small, actionable 'Growth Step' they can take right now.\n"+
		"Format: \"Response... \\n\\n🌱 **Growth Step:** ...\"", question)
}

// Coach talks to the generator on behalf of a member
type Coach struct {
	gen llm.Generator
	log *logrus.Entry
}

// NewCoach creates a coach over gen
func NewCoach(gen llm.Generator, log logrus.FieldLogger) *Coach {
	return &Coach{
		gen: gen,
		log: logging.Component(log, "coach"),
	}
}

// Ask sends the member's question to the coach. The returned result's
// Message is always displayable; ErrEmptyContent is the only error.
func (c *Coach) Ask(ctx context.Context, userID, question string) (llm.Result, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return llm.Result{}, ErrEmptyContent
	}

	res := c.gen.Generate(llm.WithUserID(ctx, userID), CoachPrompt(question))
	c.logResult(userID, "ask", res)
	return res, nil
}

// Draft asks for a post draft. Quote characters are stripped from
// generated text so it can be published directly.
func (c *Coach) Draft(ctx context.Context, userID string) llm.Result {
	res := c.gen.Generate(llm.WithUserID(ctx, userID), DraftPrompt)
	if res.OK() {
		res.Text = strings.TrimSpace(strings.ReplaceAll(res.Text, `"`, ""))
	}
	c.logResult(userID, "draft", res)
	return res
}

func (c *Coach) logResult(userID, op string, res llm.Result) {
	entry := c.log.WithFields(logrus.Fields{
		"user_id":  userID,
		"op":       op,
		"result":   res.Kind.String(),
		"attempts": res.Attempts,
	})
	if res.OK() {
		entry.Debug("coach replied")
		return
	}
	entry.WithError(res.Err).Warn("coach unavailable")
}
