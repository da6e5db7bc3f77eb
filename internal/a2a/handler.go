package a2a

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/BerylCAtieno/sellboost-agent/internal/agent"
	"github.com/BerylCAtieno/sellboost-agent/internal/models"
	"github.com/BerylCAtieno/sellboost-agent/internal/pack"
	"github.com/BerylCAtieno/sellboost-agent/internal/pipeline"
	"github.com/BerylCAtieno/sellboost-agent/internal/safeerr"
)

const (
	analyzeFailedMessage = "产品分析失败，请稍后重试"
	failedMessage        = "带货内容包生成失败，请稍后重试"
	needInputMessage     = "请提供产品/服务描述文本，可附上产品链接"
)

// urlPattern stops at the first non-URL rune, so CJK text glued to a link
// is not swallowed.
var urlPattern = regexp.MustCompile(`https?://[A-Za-z0-9\-._~:/?#\[\]@!$&'()*+,;=%]+`)

// Runner executes one full generation.
type Runner interface {
	Run(ctx context.Context, req pipeline.Request) (*models.GenerateHistoryItem, error)
}

type A2AHandler struct {
	runner      Runner
	development bool
	log         zerolog.Logger
}

func NewA2AHandler(runner Runner, development bool, log zerolog.Logger) *A2AHandler {
	return &A2AHandler{
		runner:      runner,
		development: development,
		log:         log,
	}
}

// HandleSellingPack processes A2A messages
func (h *A2AHandler) HandleSellingPack(c *gin.Context) {
	var rpcReq JSONRPCRequest
	if err := c.ShouldBindJSON(&rpcReq); err != nil {
		h.log.Warn().Err(err).Msg("invalid JSON-RPC request")
		h.sendErrorResponse(c, "", "Invalid request format", CodeParseError)
		return
	}

	if rpcReq.JSONRPC != "2.0" {
		h.sendErrorResponse(c, rpcReq.ID, "Invalid JSON-RPC version", CodeInvalidRequest)
		return
	}

	switch rpcReq.Method {
	case "agent/task", "message/send":
		h.handleTask(c, rpcReq)
	default:
		h.sendErrorResponse(c, rpcReq.ID, fmt.Sprintf("Method not found: %s", rpcReq.Method), CodeMethodNotFound)
	}
}

func (h *A2AHandler) handleTask(c *gin.Context, rpcReq JSONRPCRequest) {
	paramsJSON, err := json.Marshal(rpcReq.Params)
	if err != nil {
		h.sendErrorResponse(c, rpcReq.ID, "Failed to parse parameters", CodeInvalidParams)
		return
	}
	var msgParams MessageParams
	if err := json.Unmarshal(paramsJSON, &msgParams); err != nil {
		h.log.Warn().Err(err).Msg("invalid message params")
		h.sendErrorResponse(c, rpcReq.ID, "Invalid parameters", CodeInvalidParams)
		return
	}

	taskID := uuid.NewString()
	if msgParams.Message.TaskID != nil && *msgParams.Message.TaskID != "" {
		taskID = *msgParams.Message.TaskID
	}
	var contextID string
	if msgParams.Message.ContextID != nil {
		contextID = *msgParams.Message.ContextID
	}

	text, link := splitLink(extractText(msgParams.Message))
	if text == "" {
		result := h.taskResult(taskID, contextID, StateInputRequired, needInputMessage)
		h.sendSuccessResponse(c, rpcReq.ID, result)
		return
	}

	h.log.Info().Str("task_id", taskID).Bool("has_link", link != "").Msg("a2a selling pack task")

	item, err := h.runner.Run(c.Request.Context(), pipeline.Request{Text: text, URL: link})
	if err != nil {
		h.log.Error().Err(err).Str("task_id", taskID).Msg("a2a task failed")
		fallback := failedMessage
		if stage, _ := pipeline.FailedStage(err); stage == pipeline.StageAnalysis {
			fallback = analyzeFailedMessage
		}
		result := h.taskResult(taskID, contextID, StateFailed, safeerr.Message(err, fallback, h.development))
		h.sendSuccessResponse(c, rpcReq.ID, result)
		return
	}

	h.sendSuccessResponse(c, rpcReq.ID, h.completedTask(taskID, contextID, item))
}

// ServeAgentCard serves the agent card using Gin
func (h *A2AHandler) ServeAgentCard(c *gin.Context) {
	if err := agent.LoadAgentCard(); err != nil {
		h.log.Error().Err(err).Msg("agent card unavailable")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Agent card not available"})
		return
	}
	c.Data(http.StatusOK, "application/json", agent.AgentCardData)
}

// extractText joins the text parts of msg. When there are none it falls back
// to the newest text entry found in data parts, which some clients use to
// carry conversation history.
func extractText(msg A2AMessage) string {
	var texts []string
	for _, part := range msg.Parts {
		if part.Kind == "text" {
			if t := strings.TrimSpace(part.Text); t != "" {
				texts = append(texts, t)
			}
		}
	}
	if len(texts) > 0 {
		return strings.Join(texts, "\n")
	}

	for _, part := range msg.Parts {
		if part.Kind != "data" || part.Data == nil {
			continue
		}
		if t := lastDataText(part.Data); t != "" {
			return t
		}
	}
	return ""
}

func lastDataText(data any) string {
	raw, err := json.Marshal(data)
	if err != nil {
		return ""
	}
	var items []map[string]any
	if err := json.Unmarshal(raw, &items); err != nil {
		return ""
	}
	for i := len(items) - 1; i >= 0; i-- {
		if kind, _ := items[i]["kind"].(string); kind != "text" {
			continue
		}
		text, _ := items[i]["text"].(string)
		text = strings.NewReplacer("<p>", "", "</p>", "").Replace(text)
		if text = strings.TrimSpace(text); text != "" {
			return text
		}
	}
	return ""
}

// splitLink pulls the first http(s) link out of text. The link also stays in
// the description. Text that is only links yields an empty description.
func splitLink(text string) (string, string) {
	text = strings.TrimSpace(text)
	link := urlPattern.FindString(text)
	if strings.TrimSpace(urlPattern.ReplaceAllString(text, "")) == "" {
		return "", link
	}
	return text, strings.TrimRight(link, ".,;:!?)")
}

func (h *A2AHandler) completedTask(taskID, contextID string, item *models.GenerateHistoryItem) TaskResult {
	markdown := pack.Markdown(item.Pack)

	return TaskResult{
		ID:        taskID,
		ContextID: contextID,
		Kind:      "task",
		Status: TaskStatus{
			State:     StateCompleted,
			Timestamp: Timestamp(),
			Message: &A2AMessage{
				Kind:      "message",
				Role:      RoleAgent,
				MessageID: uuid.NewString(),
				TaskID:    &taskID,
				Parts:     []MessagePart{TextPart(markdown)},
			},
		},
		Artifacts: []Artifact{
			{
				ArtifactID: uuid.NewString(),
				Name:       "Selling Pack",
				Parts:      []MessagePart{TextPart(markdown)},
			},
			{
				ArtifactID: uuid.NewString(),
				Name:       "Selling Pack Data",
				Parts:      []MessagePart{DataPart(item)},
			},
		},
	}
}

func (h *A2AHandler) taskResult(taskID, contextID, state, text string) TaskResult {
	return TaskResult{
		ID:        taskID,
		ContextID: contextID,
		Kind:      "task",
		Status: TaskStatus{
			State:     state,
			Timestamp: Timestamp(),
			Message: &A2AMessage{
				Kind:      "message",
				Role:      RoleAgent,
				MessageID: uuid.NewString(),
				TaskID:    &taskID,
				Parts:     []MessagePart{TextPart(text)},
			},
		},
	}
}

func (h *A2AHandler) sendSuccessResponse(c *gin.Context, id string, result any) {
	c.JSON(http.StatusOK, JSONRPCResponse{
		JSONRPC: "2.0",
		ID:      id,
		Result:  result,
	})
}

// JSON-RPC errors are sent with 200 OK
func (h *A2AHandler) sendErrorResponse(c *gin.Context, id string, message string, code int) {
	h.log.Debug().Int("code", code).Str("message", message).Msg("sending JSON-RPC error")
	c.JSON(http.StatusOK, JSONRPCResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error:   &JSONRPCError{Code: code, Message: message},
	})
}
