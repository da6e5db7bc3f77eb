package models

// PlatformID identifies a target publishing platform.
type PlatformID string

const (
	PlatformXiaohongshu PlatformID = "xiaohongshu"
	PlatformDouyin      PlatformID = "douyin"
	PlatformWechat      PlatformID = "wechat"
	PlatformBilibili    PlatformID = "bilibili"
	PlatformKuaishou    PlatformID = "kuaishou"
)

// AllPlatforms is the closed platform set in selector order.
var AllPlatforms = []PlatformID{
	PlatformXiaohongshu,
	PlatformDouyin,
	PlatformWechat,
	PlatformBilibili,
	PlatformKuaishou,
}

// DefaultPlatforms returns the fallback pair used when a stored or requested
// platform list is unusable.
func DefaultPlatforms() []PlatformID {
	return []PlatformID{PlatformXiaohongshu, PlatformDouyin}
}

func (p PlatformID) Valid() bool {
	for _, id := range AllPlatforms {
		if id == p {
			return true
		}
	}
	return false
}

type PublishMode string

const (
	PublishImageText PublishMode = "image_text"
	PublishSpoken    PublishMode = "spoken"
	PublishReview    PublishMode = "review"
)

// ParsePublishMode maps unknown values to image_text.
func ParsePublishMode(s string) PublishMode {
	switch m := PublishMode(s); m {
	case PublishSpoken, PublishReview:
		return m
	}
	return PublishImageText
}

type ConversionGoal string

const (
	GoalAwareness  ConversionGoal = "awareness"
	GoalEngagement ConversionGoal = "engagement"
	GoalLeads      ConversionGoal = "leads"
	GoalSales      ConversionGoal = "sales"
)

// ParseConversionGoal maps unknown values to awareness.
func ParseConversionGoal(s string) ConversionGoal {
	switch g := ConversionGoal(s); g {
	case GoalEngagement, GoalLeads, GoalSales:
		return g
	}
	return GoalAwareness
}
