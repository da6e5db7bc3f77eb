package pack

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/BerylCAtieno/sellboost-agent/internal/llm"
	"github.com/BerylCAtieno/sellboost-agent/internal/models"
	"github.com/BerylCAtieno/sellboost-agent/internal/platforms"
	"github.com/BerylCAtieno/sellboost-agent/internal/safeerr"
)

const variantsJSON = `{"variants":[
	{"id":"A","title":"理性标题","body":"b","hook":"h","cta":"c","tags":["#1"],"postingTime":"20:00","engagementScore":81},
	{"id":"B","title":"情感标题","body":"b","hook":"h","cta":"c","tags":["#2"],"postingTime":"21:00","engagementScore":77},
	{"id":"C","title":"紧迫标题","body":"b","hook":"h","cta":"c","tags":["#3"],"postingTime":"22:00","engagementScore":90}
]}`

// platformGenerator answers per platform, keyed by the platform name found in
// the system prompt.
type platformGenerator struct {
	mu      sync.Mutex
	systems []string
	fail    string
	active  int32
	peak    int32
	delay   time.Duration
}

func (g *platformGenerator) Generate(ctx context.Context, system, user string, _ llm.Options) (string, error) {
	n := atomic.AddInt32(&g.active, 1)
	defer atomic.AddInt32(&g.active, -1)
	for {
		p := atomic.LoadInt32(&g.peak)
		if n <= p || atomic.CompareAndSwapInt32(&g.peak, p, n) {
			break
		}
	}

	g.mu.Lock()
	g.systems = append(g.systems, system)
	g.mu.Unlock()

	if g.delay > 0 {
		select {
		case <-time.After(g.delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if g.fail != "" && strings.Contains(system, "精通"+g.fail+"平台") {
		return "", errors.New("upstream 502")
	}
	return "```json\n" + variantsJSON + "\n```", nil
}

var fixedNow = time.Date(2025, 5, 20, 8, 0, 0, 0, time.UTC)

func newTestOrchestrator(gen llm.Generator, opts ...Option) *Orchestrator {
	opts = append([]Option{WithClock(func() time.Time { return fixedNow })}, opts...)
	return New(gen, platforms.Default(), opts...)
}

func TestGenerate_AllPlatforms(t *testing.T) {
	gen := &platformGenerator{}
	o := newTestOrchestrator(gen)

	req := Request{
		Product:   models.AnalyzedProduct{Name: "面霜"},
		Platforms: []models.PlatformID{models.PlatformWechat, models.PlatformDouyin, models.PlatformWechat, models.PlatformBilibili},
	}
	pack, err := o.Generate(context.Background(), req)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	wantOrder := []models.PlatformID{models.PlatformWechat, models.PlatformDouyin, models.PlatformBilibili}
	if len(pack.Platforms) != len(wantOrder) {
		t.Fatalf("got %d platforms, want %d", len(pack.Platforms), len(wantOrder))
	}
	for i, pc := range pack.Platforms {
		if pc.PlatformID != wantOrder[i] {
			t.Errorf("platform %d = %s, want %s", i, pc.PlatformID, wantOrder[i])
		}
		if pc.PlatformName == "" || pc.PlatformName == string(pc.PlatformID) {
			t.Errorf("platform %s lacks display name", pc.PlatformID)
		}
		if len(pc.Variants) != 3 || pc.Variants[2].EngagementScore != 90 {
			t.Errorf("platform %s variants = %+v", pc.PlatformID, pc.Variants)
		}
	}
	if len(gen.systems) != 3 {
		t.Errorf("model called %d times, want 3", len(gen.systems))
	}
	if pack.Product.Name != "面霜" || !pack.GeneratedAt.Equal(fixedNow) {
		t.Errorf("pack header = %s / %v", pack.Product.Name, pack.GeneratedAt)
	}
}

func TestGenerate_OneFailureFailsPack(t *testing.T) {
	gen := &platformGenerator{fail: "抖音"}
	o := newTestOrchestrator(gen)

	pack, err := o.Generate(context.Background(), Request{
		Product:   models.AnalyzedProduct{Name: "面霜"},
		Platforms: []models.PlatformID{models.PlatformXiaohongshu, models.PlatformDouyin, models.PlatformKuaishou},
	})
	if err == nil {
		t.Fatal("expected failure")
	}
	if pack != nil {
		t.Errorf("partial pack returned: %+v", pack)
	}
	if safeerr.IsInput(err) {
		t.Errorf("upstream failure reported as input error: %v", err)
	}
	if got := safeerr.Message(err, "带货内容包生成失败，请稍后重试", false); got != "带货内容包生成失败，请稍后重试" {
		t.Errorf("client message = %q", got)
	}
}

func TestGenerate_MalformedPlatformOutputFailsPack(t *testing.T) {
	gen := llm.GeneratorFunc(func(_ context.Context, system, _ string, _ llm.Options) (string, error) {
		if strings.Contains(system, "精通微信平台") {
			return `["array"]`, nil
		}
		return variantsJSON, nil
	})
	_, err := newTestOrchestrator(gen).Generate(context.Background(), Request{
		Platforms: []models.PlatformID{models.PlatformDouyin, models.PlatformWechat},
	})
	if err == nil {
		t.Fatal("expected failure for non-object platform output")
	}
}

func TestGenerate_InputValidation(t *testing.T) {
	o := newTestOrchestrator(&platformGenerator{})

	tests := []struct {
		name string
		req  Request
	}{
		{"no platforms", Request{}},
		{"unknown platform", Request{Platforms: []models.PlatformID{"myspace"}}},
		{"focus angle too long", Request{Platforms: []models.PlatformID{models.PlatformDouyin}, FocusAngle: strings.Repeat("角", 201)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := o.Generate(context.Background(), tt.req)
			if !safeerr.IsInput(err) {
				t.Errorf("err = %v, want input error", err)
			}
		})
	}
}

func TestGenerate_BrandVoiceOnlyWhenFilled(t *testing.T) {
	gen := &platformGenerator{}
	o := newTestOrchestrator(gen)

	_, err := o.Generate(context.Background(), Request{
		Platforms:  []models.PlatformID{models.PlatformDouyin},
		BrandVoice: &models.BrandVoice{ProfileName: "默认", ToneKeywords: []string{"  "}},
	})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if strings.Contains(gen.systems[0], "品牌调性") {
		t.Error("empty brand profile forwarded")
	}

	gen = &platformGenerator{}
	o = newTestOrchestrator(gen)
	_, err = o.Generate(context.Background(), Request{
		Platforms:  []models.PlatformID{models.PlatformDouyin},
		BrandVoice: &models.BrandVoice{Audience: "新手妈妈"},
	})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if !strings.Contains(gen.systems[0], "目标受众：新手妈妈") {
		t.Error("filled brand profile not forwarded")
	}
}

func TestGenerate_RespectsConcurrencyLimit(t *testing.T) {
	gen := &platformGenerator{delay: 20 * time.Millisecond}
	o := newTestOrchestrator(gen, WithMaxConcurrency(2))

	_, err := o.Generate(context.Background(), Request{Platforms: models.AllPlatforms})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if peak := atomic.LoadInt32(&gen.peak); peak > 2 {
		t.Errorf("peak concurrency = %d, want <= 2", peak)
	}
}

func TestMarkdown(t *testing.T) {
	pack, err := newTestOrchestrator(&platformGenerator{}).Generate(context.Background(), Request{
		Product:   models.AnalyzedProduct{Name: "面霜", Summary: "修护面霜"},
		Platforms: []models.PlatformID{models.PlatformXiaohongshu},
	})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	md := Markdown(*pack)
	for _, want := range []string{"# 面霜 — 全平台带货内容包", "## 小红书", "### 变体 A（理性版）", "**标题：** 紧迫标题", "> 修护面霜"} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown missing %q:\n%s", want, md)
		}
	}
	if !strings.Contains(md, fmt.Sprintf("生成时间：%s", fixedNow.Format(time.RFC3339))) {
		t.Error("markdown missing timestamp")
	}
}
