// Package a2a serves the selling-pack agent over the A2A JSON-RPC protocol.
package a2a

import (
	"time"
)

// JSONRPCRequest is a JSON-RPC 2.0 call. Params stays untyped until the
// method is known.
type JSONRPCRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      string `json:"id"`
	Method  string `json:"method"`
	Params  any    `json:"params"`
}

// JSONRPCResponse carries either Result or Error, never both.
type JSONRPCResponse struct {
	JSONRPC string        `json:"jsonrpc"`
	ID      string        `json:"id"`
	Result  any           `json:"result,omitempty"`
	Error   *JSONRPCError `json:"error,omitempty"`
}

// JSONRPCError is the error member of a response.
type JSONRPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Standard JSON-RPC 2.0 error codes.
const (
	CodeParseError     = -32700
	CodeInvalidRequest = -32600
	CodeMethodNotFound = -32601
	CodeInvalidParams  = -32602
)

// MessageParams are the params of message/send and agent/task.
type MessageParams struct {
	Message       A2AMessage           `json:"message"`
	Configuration MessageConfiguration `json:"configuration"`
}

// A2AMessage is one user or agent turn.
type A2AMessage struct {
	Kind      string        `json:"kind"`
	Role      string        `json:"role"`
	Parts     []MessagePart `json:"parts"`
	MessageID string        `json:"messageId,omitempty"`
	TaskID    *string       `json:"taskId,omitempty"`
	ContextID *string       `json:"contextId,omitempty"`
}

// MessagePart is a text or data part. Data is left untyped since clients
// send both objects and arrays of prior messages.
type MessagePart struct {
	Kind string `json:"kind"`
	Text string `json:"text,omitempty"`
	Data any    `json:"data,omitempty"`
}

// MessageConfiguration is accepted for compatibility; every call is
// answered synchronously.
type MessageConfiguration struct {
	AcceptedOutputModes []string `json:"acceptedOutputModes,omitempty"`
	HistoryLength       int      `json:"historyLength,omitempty"`
	Blocking            bool     `json:"blocking,omitempty"`
}

// TaskResult is the result of a task call: its final status plus any
// artifacts produced.
type TaskResult struct {
	ID        string       `json:"id"`
	ContextID string       `json:"contextId,omitempty"`
	Status    TaskStatus   `json:"status"`
	Artifacts []Artifact   `json:"artifacts,omitempty"`
	History   []A2AMessage `json:"history,omitempty"`
	Kind      string       `json:"kind"`
}

// TaskStatus holds one of the State* values and the agent's reply.
type TaskStatus struct {
	State     string      `json:"state"`
	Timestamp string      `json:"timestamp"`
	Message   *A2AMessage `json:"message,omitempty"`
}

// Artifact is a named output attached to a task.
type Artifact struct {
	ArtifactID string        `json:"artifactId"`
	Name       string        `json:"name"`
	Parts      []MessagePart `json:"parts"`
}

// TextPart wraps text as a message part.
func TextPart(text string) MessagePart {
	return MessagePart{Kind: "text", Text: text}
}

// DataPart wraps a JSON-encodable value as a structured message part.
func DataPart(data any) MessagePart {
	return MessagePart{Kind: "data", Data: data}
}

// Timestamp is the current UTC time in RFC 3339, as used in TaskStatus.
func Timestamp() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// Task states.
const (
	StateWorking       = "working"
	StateInputRequired = "input-required"
	StateCompleted     = "completed"
	StateFailed        = "failed"
)

// Message roles.
const (
	RoleUser  = "user"
	RoleAgent = "agent"
)
