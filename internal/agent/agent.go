// Package agent serves the A2A agent card.
package agent

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"sync"
)

//go:embed agent.json
var rawCard []byte

// AgentCardData is the compacted card, set by LoadAgentCard.
var AgentCardData []byte

var requiredFields = []string{"name", "description", "version", "capabilities", "endpoints"}

var (
	loadOnce sync.Once
	loadErr  error
)

// LoadAgentCard validates the embedded card once and fills AgentCardData.
func LoadAgentCard() error {
	loadOnce.Do(func() {
		AgentCardData, loadErr = parseCard(rawCard)
	})
	return loadErr
}

func parseCard(data []byte) ([]byte, error) {
	var card map[string]any
	if err := json.Unmarshal(data, &card); err != nil {
		return nil, fmt.Errorf("parse agent card: %w", err)
	}
	for _, field := range requiredFields {
		if _, ok := card[field]; !ok {
			return nil, fmt.Errorf("agent card missing %q", field)
		}
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, data); err != nil {
		return nil, fmt.Errorf("compact agent card: %w", err)
	}
	return buf.Bytes(), nil
}
