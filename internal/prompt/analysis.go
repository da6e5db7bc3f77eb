// Package prompt composes the system and user messages sent to the model.
package prompt

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/BerylCAtieno/sellboost-agent/internal/safeerr"
)

const (
	MaxDescriptionLength = 8000
	MaxFocusAngleLength  = 200
)

// AnalysisSystemPrompt is the extraction contract for the product analysis call.
const AnalysisSystemPrompt = `你是一位资深电商与营销分析师。根据用户提供的产品/服务描述，做一次结构化分析，用于后续生成多平台带货文案。

分析维度：
1. name：产品/服务名称（简短准确）
2. category：所属品类（如美妆、食品、数码、课程等）
3. usps：核心卖点列表，3-6 条，每条一句话
4. audienceSegments：目标受众画像，2-4 个细分人群，每项包含 label（人群标签）、description（简要描述）、painPoints（痛点列表，2-4 条）
5. pricePositioning：价格定位描述（如平价、轻奢、高端、性价比等）
6. emotionalTriggers：可打的情感触发点，3-5 个（如省心、变美、身份认同、安全感等）
7. differentiators：与竞品的差异化优势，2-4 条
8. summary：一段话总结（50-80 字），便于后续写文案时快速抓重点

只输出合法 JSON，不要 markdown 包裹。格式如下：
{
  "name": "产品名",
  "category": "品类",
  "usps": ["卖点1", "卖点2"],
  "audienceSegments": [
    { "label": "人群标签", "description": "描述", "painPoints": ["痛点1", "痛点2"] }
  ],
  "pricePositioning": "价格定位",
  "emotionalTriggers": ["情感1", "情感2"],
  "differentiators": ["差异1", "差异2"],
  "summary": "一段话总结"
}`

// ValidateDescription trims text and enforces the length ceiling. Over-long
// input is rejected rather than truncated.
func ValidateDescription(text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", safeerr.Input("请提供产品/服务描述文本")
	}
	if utf8.RuneCountInString(text) > MaxDescriptionLength {
		return "", safeerr.Input(fmt.Sprintf("描述文本过长，最多 %d 字", MaxDescriptionLength))
	}
	return text, nil
}

// ValidateFocusAngle trims the optional focus angle and enforces its ceiling.
func ValidateFocusAngle(angle string) (string, error) {
	angle = strings.TrimSpace(angle)
	if utf8.RuneCountInString(angle) > MaxFocusAngleLength {
		return "", safeerr.Input(fmt.Sprintf("文本长度超过限制：切入角度最多 %d 字", MaxFocusAngleLength))
	}
	return angle, nil
}

// AnalysisUserMessage assembles the description with the optional page
// context. url is empty when the link was rejected; snippet is empty when the
// page could not be reduced, in which case only the bare link is referenced.
func AnalysisUserMessage(text, url, snippet string) string {
	var b strings.Builder
	b.WriteString("产品/服务描述：\n")
	b.WriteString(text)

	switch {
	case url != "" && snippet != "":
		b.WriteString("\n\n【来自产品链接的大致内容摘要】\n")
		b.WriteString("链接：")
		b.WriteString(url)
		b.WriteString("\n")
		b.WriteString(snippet)
	case url != "":
		b.WriteString("\n\n【参考链接】\n")
		b.WriteString(url)
	}
	return b.String()
}
