package ai

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"

	"auto_apply_go/config"
	"auto_apply_go/model"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func TestGenerateGreeting(t *testing.T) {
	var gotPath, gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"chatcmpl-1","model":"test-model","choices":[{"message":{"role":"assistant","content":"您好，我有五年Go开发经验，希望加入云帆科技。"}}],"usage":{"prompt_tokens":10,"completion_tokens":20,"total_tokens":30}}`))
	}))
	defer server.Close()

	g := NewGreeter(&config.AIConfig{
		Enabled: true,
		BaseURL: server.URL,
		APIKey:  "sk-test",
		Model:   "test-model",
		Prompt:  "请为{company}的{position}岗位写一段求职打招呼语",
	}, testLogger())

	p := model.Posting{Title: "Go开发工程师", Company: "云帆科技"}
	got := g.GenerateGreeting(p, "模板打招呼语")

	if got != "您好，我有五年Go开发经验，希望加入云帆科技。" {
		t.Errorf("GenerateGreeting() = %q", got)
	}
	if gotPath != "/v1/chat/completions" {
		t.Errorf("请求路径 = %q, 期望 /v1/chat/completions", gotPath)
	}
	if gotAuth != "Bearer sk-test" {
		t.Errorf("Authorization = %q", gotAuth)
	}
}

func TestGenerateGreetingFallback(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"rate limited"}`, http.StatusTooManyRequests)
	}))
	defer server.Close()

	g := NewGreeter(&config.AIConfig{
		Enabled: true,
		BaseURL: server.URL,
		APIKey:  "sk-test",
		Model:   "test-model",
	}, testLogger())

	got := g.GenerateGreeting(model.Posting{Title: "测试"}, "模板打招呼语")
	if got != "模板打招呼语" {
		t.Errorf("请求失败时应回退到模板, 实际 %q", got)
	}
}

func TestGenerateGreetingDisabled(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
	}))
	defer server.Close()

	tests := []struct {
		name string
		cfg  config.AIConfig
	}{
		{"未启用", config.AIConfig{Enabled: false, BaseURL: server.URL, APIKey: "k", Model: "m"}},
		{"缺少APIKey", config.AIConfig{Enabled: true, BaseURL: server.URL, Model: "m"}},
		{"缺少Model", config.AIConfig{Enabled: true, BaseURL: server.URL, APIKey: "k"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewGreeter(&tt.cfg, testLogger())
			if got := g.GenerateGreeting(model.Posting{}, "模板"); got != "模板" {
				t.Errorf("GenerateGreeting() = %q, 期望回退模板", got)
			}
		})
	}

	if requests != 0 {
		t.Errorf("配置不完整时不应发起请求, 实际请求 %d 次", requests)
	}
}

func TestBuildEndpoint(t *testing.T) {
	tests := []struct {
		baseURL string
		want    string
	}{
		{"https://api.openai.com", "https://api.openai.com/v1/chat/completions"},
		{"https://api.openai.com/v1", "https://api.openai.com/v1/chat/completions"},
		{"https://api.openai.com/v1/", "https://api.openai.com/v1/chat/completions"},
		{"https://proxy.example.com/ ", "https://proxy.example.com/v1/chat/completions"},
	}

	for _, tt := range tests {
		if got := buildEndpoint(tt.baseURL); got != tt.want {
			t.Errorf("buildEndpoint(%q) = %q, want %q", tt.baseURL, got, tt.want)
		}
	}
}
