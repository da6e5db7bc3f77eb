package prompt

import (
	"strings"
	"testing"

	"github.com/BerylCAtieno/sellboost-agent/internal/models"
	"github.com/BerylCAtieno/sellboost-agent/internal/platforms"
	"github.com/BerylCAtieno/sellboost-agent/internal/safeerr"
)

func TestValidateDescription(t *testing.T) {
	if _, err := ValidateDescription("   "); err == nil || !safeerr.IsInput(err) || !strings.HasPrefix(err.Error(), "请") {
		t.Errorf("blank text: err = %v, want input error starting with 请", err)
	}

	atLimit := strings.Repeat("好", MaxDescriptionLength)
	if got, err := ValidateDescription(" " + atLimit + " "); err != nil || got != atLimit {
		t.Errorf("text at limit must pass trimmed, err = %v", err)
	}

	_, err := ValidateDescription(strings.Repeat("a", MaxDescriptionLength+1))
	if err == nil || !safeerr.IsInput(err) || !strings.Contains(err.Error(), "8000") {
		t.Errorf("over-length: err = %v, want input error naming the cap", err)
	}
}

func TestValidateFocusAngle(t *testing.T) {
	if got, err := ValidateFocusAngle("  学生党  "); err != nil || got != "学生党" {
		t.Errorf("got %q, %v", got, err)
	}
	if _, err := ValidateFocusAngle(strings.Repeat("角", MaxFocusAngleLength+1)); !safeerr.IsInput(err) {
		t.Errorf("expected input error, got %v", err)
	}
}

func TestAnalysisUserMessage(t *testing.T) {
	bare := AnalysisUserMessage("保温杯", "", "")
	if strings.Contains(bare, "链接") {
		t.Errorf("no url: message must not reference a link: %q", bare)
	}
	if !strings.HasPrefix(bare, "产品/服务描述：\n保温杯") {
		t.Errorf("unexpected message: %q", bare)
	}

	ref := AnalysisUserMessage("保温杯", "https://shop.example.com/cup", "")
	if !strings.Contains(ref, "【参考链接】\nhttps://shop.example.com/cup") {
		t.Errorf("reference block missing: %q", ref)
	}
	if strings.Contains(ref, "摘要") {
		t.Errorf("reference-only message must not have snippet block: %q", ref)
	}

	full := AnalysisUserMessage("保温杯", "https://shop.example.com/cup", "316 不锈钢 12 小时保温")
	for _, want := range []string{"【来自产品链接的大致内容摘要】", "链接：https://shop.example.com/cup", "316 不锈钢"} {
		if !strings.Contains(full, want) {
			t.Errorf("snippet message missing %q: %q", want, full)
		}
	}
}

func TestPlatformSystemPrompt(t *testing.T) {
	rule, _ := platforms.Default().Rule(models.PlatformXiaohongshu)

	withoutBrand := PlatformSystemPrompt(rule, models.PublishSpoken, models.GoalSales, &models.BrandVoice{ProfileName: "空档案"})
	if strings.Contains(withoutBrand, "品牌调性") {
		t.Error("empty brand profile must not be forwarded")
	}
	if !strings.Contains(withoutBrand, "小红书") || !strings.Contains(withoutBrand, "口播脚本") || !strings.Contains(withoutBrand, "直接转化") {
		t.Errorf("prompt lacks platform, mode or goal guidance:\n%s", withoutBrand)
	}

	withBrand := PlatformSystemPrompt(rule, "bogus", "bogus", &models.BrandVoice{BrandVoice: "温柔克制", AvoidWords: []string{"", "最"}})
	if !strings.Contains(withBrand, "品牌语气：温柔克制") || !strings.Contains(withBrand, "禁用词：最") {
		t.Errorf("brand block missing:\n%s", withBrand)
	}
	if !strings.Contains(withBrand, "图文笔记") || !strings.Contains(withBrand, "品牌曝光") {
		t.Error("unknown mode/goal must fall back to defaults")
	}
}

func TestPlatformUserMessage(t *testing.T) {
	msg, err := PlatformUserMessage(models.AnalyzedProduct{Name: "面霜", USPs: []string{"保湿"}}, "换季修护")
	if err != nil {
		t.Fatalf("PlatformUserMessage failed: %v", err)
	}
	if !strings.Contains(msg, `"name": "面霜"`) || !strings.Contains(msg, "本次重点切入角度：换季修护") {
		t.Errorf("unexpected message:\n%s", msg)
	}
}
