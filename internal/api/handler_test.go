package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/BerylCAtieno/sellboost-agent/internal/history"
	"github.com/BerylCAtieno/sellboost-agent/internal/llm"
	"github.com/BerylCAtieno/sellboost-agent/internal/models"
	"github.com/BerylCAtieno/sellboost-agent/internal/pack"
	"github.com/BerylCAtieno/sellboost-agent/internal/pipeline"
	"github.com/BerylCAtieno/sellboost-agent/internal/platforms"
	"github.com/BerylCAtieno/sellboost-agent/internal/profiler"
)

const (
	analysisJSON = `{"name":"保温杯","category":"家居","usps":["12 小时保温"],"summary":"通勤好物"}`
	variantsJSON = "```json\n" + `{"variants":[{"id":"A","title":"理性"},{"id":"B","title":"情感"},{"id":"C","title":"紧迫","engagementScore":130}]}` + "\n```"
)

// failAnalysis makes the analysis call fail instead of a platform call.
const failAnalysis = "analysis"

type fixture struct {
	router  *gin.Engine
	history *history.Store
	calls   []string
}

// newFixture wires real components around a scripted model. failOn names a
// platform whose call fails with an internal-looking error, or failAnalysis.
func newFixture(t *testing.T, failOn string, dev bool) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	f := &fixture{}
	gen := llm.GeneratorFunc(func(_ context.Context, system, user string, _ llm.Options) (string, error) {
		f.calls = append(f.calls, user)
		if strings.Contains(system, "营销分析师") {
			if failOn == failAnalysis {
				return "", errors.New("rpc error: code = ResourceExhausted desc = quota for project 1234")
			}
			return analysisJSON, nil
		}
		if failOn != "" && strings.Contains(system, "精通"+failOn+"平台") {
			return "", errors.New("rpc error: code = Unavailable desc = upstream at 10.0.0.7 down")
		}
		return variantsJSON, nil
	})

	table := platforms.Default()
	prof := profiler.New(gen, nil)
	orch := pack.New(gen, table, pack.WithMaxConcurrency(1))
	f.history = history.New(history.NewMemoryStorage(nil))
	runner := pipeline.New(prof, orch, f.history)

	f.router = gin.New()
	NewHandler(prof, orch, runner, f.history, table, WithDevelopment(dev)).Register(f.router)
	return f
}

func (f *fixture) do(t *testing.T, method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	var out map[string]any
	if strings.HasPrefix(strings.TrimSpace(w.Body.String()), "{") {
		if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
			t.Fatalf("invalid JSON response %q: %v", w.Body.String(), err)
		}
	}
	return w, out
}

func TestAnalyzeProduct_InputErrors(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantText string
	}{
		{"empty text", `{"text":""}`, "请"},
		{"blank text", `{"text":"   "}`, "请"},
		{"too long", `{"text":"` + strings.Repeat("字", 8001) + `"}`, "8000"},
		{"not JSON", `text=hello`, "请"},
		{"empty body", ``, "请"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, "", false)
			w, out := f.do(t, http.MethodPost, "/api/analyze-product", tt.body)

			if w.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", w.Code)
			}
			msg, _ := out["error"].(string)
			if tt.wantText == "请" && !strings.HasPrefix(msg, "请") {
				t.Errorf("error = %q, want 请 prefix", msg)
			}
			if !strings.Contains(msg, tt.wantText) {
				t.Errorf("error = %q, want mention of %q", msg, tt.wantText)
			}
			if len(f.calls) != 0 {
				t.Errorf("model called %d times for invalid input", len(f.calls))
			}
		})
	}
}

func TestAnalyzeProduct_UnsafeURLIgnored(t *testing.T) {
	f := newFixture(t, "", false)
	w, out := f.do(t, http.MethodPost, "/api/analyze-product", `{"text":"保温杯","url":"http://127.0.0.1/product"}`)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	if out["name"] != "保温杯" {
		t.Errorf("name = %v", out["name"])
	}
	if len(f.calls) != 1 || strings.Contains(f.calls[0], "127.0.0.1") || strings.Contains(f.calls[0], "参考链接") {
		t.Errorf("analysis message = %q", f.calls)
	}
}

func TestGenerateSellingPack(t *testing.T) {
	f := newFixture(t, "", false)
	body := `{"product":` + analysisJSON + `,"platforms":["douyin","bilibili"],"publishMode":"spoken","conversionGoal":"sales"}`
	w, _ := f.do(t, http.MethodPost, "/api/generate-selling-pack", body)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	var sp models.SellingPack
	if err := json.Unmarshal(w.Body.Bytes(), &sp); err != nil {
		t.Fatalf("decode pack: %v", err)
	}
	if len(sp.Platforms) != 2 || sp.Platforms[0].PlatformName != "抖音" || sp.Platforms[1].PlatformName != "B站" {
		t.Fatalf("platforms = %+v", sp.Platforms)
	}
	c := sp.Platforms[0].Variants[2]
	if c.ID != models.VariantUrgency || c.EngagementScore != 100 {
		t.Errorf("variant C = %+v", c)
	}
}

func TestGenerateSellingPack_Rejects(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing product", `{"platforms":["douyin"]}`},
		{"unknown platform", `{"product":{"name":"x"},"platforms":["tiktok"]}`},
		{"no platforms", `{"product":{"name":"x"},"platforms":[]}`},
		{"long focus angle", `{"product":{"name":"x"},"platforms":["douyin"],"focusAngle":"` + strings.Repeat("角", 201) + `"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, "", false)
			w, out := f.do(t, http.MethodPost, "/api/generate-selling-pack", tt.body)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
			}
			if msg, _ := out["error"].(string); msg == "" {
				t.Error("missing error message")
			}
		})
	}
}

func TestGenerate_PartialFailureFailsWhole(t *testing.T) {
	f := newFixture(t, "微信", false)
	body := `{"text":"保温杯","platforms":["douyin","wechat","kuaishou"]}`
	w, out := f.do(t, http.MethodPost, "/api/generate", body)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}
	if out["error"] != packFallback {
		t.Errorf("error = %v, want fallback", out["error"])
	}
	if strings.Contains(w.Body.String(), "10.0.0.7") {
		t.Error("internal detail leaked")
	}
	if _, ok := out["pack"]; ok {
		t.Error("partial pack returned")
	}
	if n := len(f.history.Items()); n != 0 {
		t.Errorf("history has %d items", n)
	}
}

func TestGenerate_AnalysisFailureUsesAnalysisFallback(t *testing.T) {
	f := newFixture(t, failAnalysis, false)
	w, out := f.do(t, http.MethodPost, "/api/generate", `{"text":"保温杯"}`)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}
	if out["error"] != analyzeFallback {
		t.Errorf("error = %v, want %q", out["error"], analyzeFallback)
	}
	if len(f.calls) != 1 {
		t.Errorf("model called %d times, want only the analysis call", len(f.calls))
	}
}

func TestGenerate_InputErrorKeepsMessage(t *testing.T) {
	f := newFixture(t, "", false)
	w, out := f.do(t, http.MethodPost, "/api/generate", `{"text":"保温杯","platforms":["tiktok"]}`)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if msg, _ := out["error"].(string); !strings.HasPrefix(msg, "请选择有效的平台") {
		t.Errorf("error = %q", msg)
	}
}

func TestGenerate_DevelopmentShowsRawError(t *testing.T) {
	f := newFixture(t, "抖音", true)
	w, out := f.do(t, http.MethodPost, "/api/generate", `{"text":"保温杯"}`)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", w.Code)
	}
	if msg, _ := out["error"].(string); !strings.Contains(msg, "Unavailable") {
		t.Errorf("error = %q, want raw message in development", msg)
	}
}

func TestGenerate_HistoryLifecycle(t *testing.T) {
	f := newFixture(t, "", false)

	w, out := f.do(t, http.MethodPost, "/api/generate", `{"text":"保温杯","publishMode":"review","focusAngle":"通勤"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("generate status = %d, body %s", w.Code, w.Body.String())
	}
	id, _ := out["id"].(string)
	if id == "" {
		t.Fatal("missing id")
	}

	w, _ = f.do(t, http.MethodGet, "/api/history", "")
	var items []models.GenerateHistoryItem
	if err := json.Unmarshal(w.Body.Bytes(), &items); err != nil || len(items) != 1 || items[0].ID != id {
		t.Fatalf("list = %s (%v)", w.Body.String(), err)
	}
	if items[0].PublishMode != models.PublishReview || items[0].FocusAngle != "通勤" {
		t.Errorf("item = %+v", items[0])
	}

	if w, _ = f.do(t, http.MethodGet, "/api/history/"+id, ""); w.Code != http.StatusOK {
		t.Errorf("get status = %d", w.Code)
	}
	if w, _ = f.do(t, http.MethodDelete, "/api/history/"+id, ""); w.Code != http.StatusNoContent {
		t.Errorf("delete status = %d", w.Code)
	}
	if w, _ = f.do(t, http.MethodGet, "/api/history/"+id, ""); w.Code != http.StatusNotFound {
		t.Errorf("get after delete = %d", w.Code)
	}
	if w, _ = f.do(t, http.MethodDelete, "/api/history/"+id, ""); w.Code != http.StatusNotFound {
		t.Errorf("second delete = %d", w.Code)
	}
}

func TestListPlatforms(t *testing.T) {
	f := newFixture(t, "", false)
	w, _ := f.do(t, http.MethodGet, "/api/platforms", "")

	var got []platformView
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got) != len(models.AllPlatforms) || got[0].ID != models.PlatformXiaohongshu || got[0].Icon == "" {
		t.Errorf("platforms = %+v", got)
	}
}
