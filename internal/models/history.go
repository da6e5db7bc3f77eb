package models

import (
	"strings"
	"time"
)

// BrandVoice is a user-authored style profile forwarded to copy generation.
type BrandVoice struct {
	ProfileName  string   `json:"profileName,omitempty"`
	BrandVoice   string   `json:"brandVoice"`
	Audience     string   `json:"audience"`
	ToneKeywords []string `json:"toneKeywords,omitempty"`
	AvoidWords   []string `json:"avoidWords,omitempty"`
	SampleCopy   string   `json:"sampleCopy,omitempty"`
}

// HasContent reports whether any field that shapes tone is filled in.
// The profile name alone does not count.
func (b *BrandVoice) HasContent() bool {
	if b == nil {
		return false
	}
	if strings.TrimSpace(b.BrandVoice) != "" ||
		strings.TrimSpace(b.Audience) != "" ||
		strings.TrimSpace(b.SampleCopy) != "" {
		return true
	}
	for _, list := range [][]string{b.ToneKeywords, b.AvoidWords} {
		for _, s := range list {
			if strings.TrimSpace(s) != "" {
				return true
			}
		}
	}
	return false
}

// GenerateHistoryItem records the inputs and output of one successful run.
type GenerateHistoryItem struct {
	ID             string         `json:"id"`
	CreatedAt      time.Time      `json:"createdAt"`
	ProductText    string         `json:"productText"`
	ProductURL     string         `json:"productUrl"`
	Platforms      []PlatformID   `json:"platforms"`
	UseBrandVoice  bool           `json:"useBrandVoice"`
	BrandProfileID *string        `json:"brandProfileId"`
	PublishMode    PublishMode    `json:"publishMode"`
	ConversionGoal ConversionGoal `json:"conversionGoal"`
	FocusAngle     string         `json:"focusAngle"`
	Pack           SellingPack    `json:"pack"`
}
