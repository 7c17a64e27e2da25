package runner

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"

	"github.com/taskline/taskline/internal/assembler"
	"github.com/taskline/taskline/internal/core"
	"github.com/taskline/taskline/internal/logger"
	"github.com/taskline/taskline/internal/metrics"
	"github.com/taskline/taskline/tools"
)

const defaultMaxTokens = 1024

// Runner drives one agent turn against the Anthropic Messages API with a
// toolbox already bound to a store handle and conversation.
type Runner struct {
	Client *anthropic.Client
	Tools  []tools.ToolDefinition
	log    *logger.Logger
}

func New(client *anthropic.Client, toolDefs []tools.ToolDefinition, log *logger.Logger) *Runner {
	if log == nil {
		log = logger.Nop()
	}
	return &Runner{Client: client, Tools: toolDefs, log: log.Component("runner")}
}

func (r *Runner) anthropicTools() []anthropic.ToolUnionParam {
	out := make([]anthropic.ToolUnionParam, 0, len(r.Tools))
	for _, t := range r.Tools {
		out = append(out, anthropic.ToolUnionParam{OfTool: &anthropic.ToolParam{
			Name:        t.Name,
			Description: anthropic.String(t.Description),
			InputSchema: t.InputSchema,
		}})
	}
	return out
}

// RunTurn sends the assembled context and loops until the model finishes a
// response without tool use. Tool invocations are executed between steps and
// their results fed back as a user message of tool_result blocks; the final
// reply is the concatenation of the assistant's text blocks.
//
// Failed tools, including references to nonexistent tasks, surface to the
// model as is_error tool results so the failure comes back as a
// natural-language explanation, never as a crash.
func (r *Runner) RunTurn(ctx context.Context, model anthropic.Model, asm assembler.Context) (string, int, error) {
	conv := append([]anthropic.MessageParam(nil), asm.Turns...)

	var replyParts []string
	toolCalls := 0
	start := time.Now()

	for {
		params := anthropic.MessageNewParams{
			Model:     model,
			MaxTokens: int64(defaultMaxTokens),
			System:    []anthropic.TextBlockParam{{Text: asm.System}},
			Messages:  conv,
			Tools:     r.anthropicTools(),
		}

		msg, err := r.Client.Messages.New(ctx, params)
		if err != nil {
			metrics.AgentTurns.WithLabelValues("error").Inc()
			return "", toolCalls, fmt.Errorf("%w: %v", core.ErrAgentInvocation, err)
		}
		conv = append(conv, msg.ToParam())

		toolResults := []anthropic.ContentBlockParamUnion{}
		for _, block := range msg.Content {
			switch v := block.AsAny().(type) {
			case anthropic.TextBlock:
				if v.Text != "" {
					replyParts = append(replyParts, v.Text)
				}
			case anthropic.ToolUseBlock:
				input := json.RawMessage(v.JSON.Input.Raw())
				res := r.execTool(v.ID, v.Name, input)
				toolCalls++
				toolResults = append(toolResults, res)
			}
		}

		if len(toolResults) == 0 {
			break
		}
		conv = append(conv, anthropic.NewUserMessage(toolResults...))
	}

	metrics.AgentTurns.WithLabelValues("ok").Inc()
	metrics.AgentTurnDuration.Observe(time.Since(start).Seconds())
	return strings.Join(replyParts, "\n"), toolCalls, nil
}

func (r *Runner) execTool(id, name string, input json.RawMessage) anthropic.ContentBlockParamUnion {
	var def *tools.ToolDefinition
	for i := range r.Tools {
		if r.Tools[i].Name == name {
			def = &r.Tools[i]
			break
		}
	}

	start := time.Now()
	if def == nil {
		r.log.Warn().Str("tool", name).Msg("tool not found")
		metrics.ToolExecutions.WithLabelValues(name, "not_found").Inc()
		return anthropic.NewToolResultBlock(id, "tool not found", true)
	}

	resp, err := def.Function(input)
	if err != nil {
		r.log.Debug().
			Str("tool", name).
			Dur("duration", time.Since(start)).
			Err(err).
			Msg("tool execution failed")
		metrics.ToolExecutions.WithLabelValues(name, "error").Inc()
		// The detailed error travels to the model, which phrases the failure
		// for the user.
		return anthropic.NewToolResultBlock(id, err.Error(), true)
	}

	r.log.Debug().
		Str("tool", name).
		Dur("duration", time.Since(start)).
		Int("output_size", len(resp)).
		Msg("tool executed")
	metrics.ToolExecutions.WithLabelValues(name, "ok").Inc()
	return anthropic.NewToolResultBlock(id, resp, false)
}
