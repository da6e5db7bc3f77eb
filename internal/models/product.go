package models

import "time"

// DefaultProductName keeps product headings non-empty when the model omits a name.
const DefaultProductName = "未命名产品"

type AudienceSegment struct {
	Label       string   `json:"label"`
	Description string   `json:"description"`
	PainPoints  []string `json:"painPoints"`
}

type AnalyzedProduct struct {
	Name              string            `json:"name"`
	Category          string            `json:"category"`
	USPs              []string          `json:"usps"`
	AudienceSegments  []AudienceSegment `json:"audienceSegments"`
	PricePositioning  string            `json:"pricePositioning"`
	EmotionalTriggers []string          `json:"emotionalTriggers"`
	Differentiators   []string          `json:"differentiators"`
	Summary           string            `json:"summary"`
}

// VariantID tags one of the three fixed tonal variants.
type VariantID string

const (
	VariantRational  VariantID = "A"
	VariantEmotional VariantID = "B"
	VariantUrgency   VariantID = "C"
)

// VariantIDs lists the variant tags in display order.
var VariantIDs = []VariantID{VariantRational, VariantEmotional, VariantUrgency}

func (v VariantID) Valid() bool {
	switch v {
	case VariantRational, VariantEmotional, VariantUrgency:
		return true
	}
	return false
}

// Label returns the short human label of the tone.
func (v VariantID) Label() string {
	switch v {
	case VariantRational:
		return "理性版"
	case VariantEmotional:
		return "情感版"
	case VariantUrgency:
		return "紧迫版"
	}
	return string(v)
}

const (
	MinEngagementScore = 0
	MaxEngagementScore = 100
)

type CopyVariant struct {
	ID              VariantID `json:"id"`
	Title           string    `json:"title"`
	Body            string    `json:"body"`
	Hook            string    `json:"hook"`
	CTA             string    `json:"cta"`
	Tags            []string  `json:"tags"`
	PostingTime     string    `json:"postingTime"`
	EngagementScore float64   `json:"engagementScore"`
}

type PlatformContent struct {
	PlatformID   PlatformID    `json:"platformId"`
	PlatformName string        `json:"platformName"`
	Variants     []CopyVariant `json:"variants"`
}

type SellingPack struct {
	Product     AnalyzedProduct   `json:"product"`
	Platforms   []PlatformContent `json:"platforms"`
	GeneratedAt time.Time         `json:"generatedAt"`
}

// Platform returns the content generated for id, if the pack carries it.
func (p SellingPack) Platform(id PlatformID) (PlatformContent, bool) {
	for _, pc := range p.Platforms {
		if pc.PlatformID == id {
			return pc, true
		}
	}
	return PlatformContent{}, false
}
