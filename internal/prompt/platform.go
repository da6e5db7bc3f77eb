package prompt

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/BerylCAtieno/sellboost-agent/internal/models"
	"github.com/BerylCAtieno/sellboost-agent/internal/platforms"
)

var publishModeGuide = map[models.PublishMode]string{
	models.PublishImageText: "图文笔记：标题 + 分段正文，适合配图阅读",
	models.PublishSpoken:    "口播脚本：按镜头/段落写可直接念出的台词，开头 3 秒抓人",
	models.PublishReview:    "测评内容：体验过程、优缺点对比、适合与不适合的人群，客观可信",
}

var conversionGoalGuide = map[models.ConversionGoal]string{
	models.GoalAwareness:  "品牌曝光：让更多人记住产品名和核心卖点",
	models.GoalEngagement: "互动涨粉：引导评论、点赞、关注，设置互动话题",
	models.GoalLeads:      "留资获客：引导私信、领取资料或预约咨询",
	models.GoalSales:      "直接转化：突出优惠与购买理由，行动指令明确",
}

// PlatformSystemPrompt builds the copywriting instructions for one platform.
// brand is only included when it carries tone-shaping content.
func PlatformSystemPrompt(rule platforms.Rule, mode models.PublishMode, goal models.ConversionGoal, brand *models.BrandVoice) string {
	var b strings.Builder

	fmt.Fprintf(&b, "你是一位精通%s平台的带货文案专家。根据产品分析结果，为%s写 3 个不同风格的文案变体。\n\n", rule.Name, rule.Name)

	b.WriteString("平台规则：\n")
	fmt.Fprintf(&b, "- 风格：%s\n", rule.Tone)
	if rule.TitleLimit > 0 {
		fmt.Fprintf(&b, "- 标题不超过 %d 字\n", rule.TitleLimit)
	}
	if rule.TagCount != "" {
		fmt.Fprintf(&b, "- 话题标签 %s 个\n", rule.TagCount)
	}
	if len(rule.PostingTimes) > 0 {
		fmt.Fprintf(&b, "- 推荐发布时段：%s\n", strings.Join(rule.PostingTimes, "、"))
	}

	fmt.Fprintf(&b, "\n内容形式：%s\n", publishModeGuide[models.ParsePublishMode(string(mode))])
	fmt.Fprintf(&b, "转化目标：%s\n", conversionGoalGuide[models.ParseConversionGoal(string(goal))])

	if brand.HasContent() {
		b.WriteString("\n品牌调性（必须遵守）：\n")
		if brand.BrandVoice != "" {
			fmt.Fprintf(&b, "- 品牌语气：%s\n", brand.BrandVoice)
		}
		if brand.Audience != "" {
			fmt.Fprintf(&b, "- 目标受众：%s\n", brand.Audience)
		}
		if kw := nonEmpty(brand.ToneKeywords); len(kw) > 0 {
			fmt.Fprintf(&b, "- 调性关键词：%s\n", strings.Join(kw, "、"))
		}
		if avoid := nonEmpty(brand.AvoidWords); len(avoid) > 0 {
			fmt.Fprintf(&b, "- 禁用词：%s\n", strings.Join(avoid, "、"))
		}
		if brand.SampleCopy != "" {
			fmt.Fprintf(&b, "- 参考文案：%s\n", brand.SampleCopy)
		}
	}

	b.WriteString(`
变体要求：
- A：理性版，用数据、成分、参数和对比说服
- B：情感版，用场景、故事和情绪共鸣打动
- C：紧迫版，用限时、稀缺和行动号召推动下单

每个变体包含 title、body、hook（开头钩子）、cta（行动号召）、tags（话题标签数组）、postingTime（建议发布时间）、engagementScore（0-100 的预估互动分）。

只输出合法 JSON，不要 markdown 包裹。格式如下：
{
  "variants": [
    { "id": "A", "title": "", "body": "", "hook": "", "cta": "", "tags": [""], "postingTime": "", "engagementScore": 80 },
    { "id": "B", "title": "", "body": "", "hook": "", "cta": "", "tags": [""], "postingTime": "", "engagementScore": 80 },
    { "id": "C", "title": "", "body": "", "hook": "", "cta": "", "tags": [""], "postingTime": "", "engagementScore": 80 }
  ]
}`)
	return b.String()
}

// PlatformUserMessage embeds the analyzed product and the optional focus angle.
func PlatformUserMessage(product models.AnalyzedProduct, focusAngle string) (string, error) {
	data, err := json.MarshalIndent(product, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode product profile: %w", err)
	}

	var b strings.Builder
	b.WriteString("产品分析结果：\n")
	b.Write(data)
	if focusAngle != "" {
		b.WriteString("\n\n本次重点切入角度：")
		b.WriteString(focusAngle)
	}
	return b.String(), nil
}

func nonEmpty(list []string) []string {
	out := make([]string, 0, len(list))
	for _, s := range list {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
