package ai

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"auto_apply_go/config"
	"auto_apply_go/model"
)

// Greeter 调用OpenAI兼容接口生成个性化打招呼语
// 任何失败都回退到模板打招呼语，不会中断投递流程
type Greeter struct {
	cfg        *config.AIConfig
	httpClient *http.Client
	log        *logrus.Logger
}

func NewGreeter(cfg *config.AIConfig, logger *logrus.Logger) *Greeter {
	return &Greeter{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		log: logger,
	}
}

// Enabled AI生成是否可用，配置不完整时视为关闭
func (g *Greeter) Enabled() bool {
	if g == nil || !g.cfg.Enabled {
		return false
	}
	return g.cfg.BaseURL != "" && g.cfg.APIKey != "" && g.cfg.Model != ""
}

// GenerateGreeting 生成针对指定职位的打招呼语，失败时返回 fallback
func (g *Greeter) GenerateGreeting(p model.Posting, fallback string) string {
	if !g.Enabled() {
		return fallback
	}

	content, err := g.sendRequest(g.buildPrompt(p))
	if err != nil {
		g.log.Warnf("AI生成打招呼语失败，使用模板: %v", err)
		return fallback
	}

	content = strings.TrimSpace(content)
	if content == "" {
		return fallback
	}
	return content
}

// buildPrompt 渲染提示词，模板中没有占位符时追加职位信息
func (g *Greeter) buildPrompt(p model.Posting) string {
	prompt := g.cfg.Prompt
	if strings.Contains(prompt, "{position}") || strings.Contains(prompt, "{company}") {
		prompt = strings.ReplaceAll(prompt, "{position}", p.Title)
		prompt = strings.ReplaceAll(prompt, "{company}", p.Company)
		return prompt
	}
	return fmt.Sprintf("%s\n\n职位名称: %s\n公司名称: %s", prompt, p.Title, p.Company)
}

// ==================== 请求/响应结构 ====================

type chatRequest struct {
	Model       string        `json:"model"`
	Temperature float64       `json:"temperature,omitempty"`
	Messages    []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	ID      string       `json:"id"`
	Model   string       `json:"model"`
	Choices []chatChoice `json:"choices,omitempty"`
	Usage   chatUsage    `json:"usage,omitempty"`
}

type chatChoice struct {
	Message chatMessage `json:"message"`
}

type chatUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// sendRequest 调用 chat/completions 接口并返回回复内容
func (g *Greeter) sendRequest(content string) (string, error) {
	endpoint := buildEndpoint(g.cfg.BaseURL)

	requestData := chatRequest{
		Model:       g.cfg.Model,
		Temperature: 0.5,
		Messages: []chatMessage{
			{Role: "user", Content: content},
		},
	}

	jsonData, err := json.Marshal(requestData)
	if err != nil {
		return "", fmt.Errorf("序列化请求失败: %w", err)
	}

	req, err := http.NewRequest("POST", endpoint, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("创建HTTP请求失败: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.cfg.APIKey)
	req.Header.Set("api-key", g.cfg.APIKey) // 兼容Azure OpenAI

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("AI请求失败: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("读取响应体失败: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("AI请求失败，状态码 %d，详情: %s", resp.StatusCode, string(body))
	}

	var responseObj chatResponse
	if err := json.Unmarshal(body, &responseObj); err != nil {
		return "", fmt.Errorf("解析响应JSON失败: %w", err)
	}
	if len(responseObj.Choices) == 0 {
		return "", fmt.Errorf("响应中没有choices字段")
	}

	g.log.Debugf("AI响应: id=%s, model=%s, promptTokens=%d, completionTokens=%d, totalTokens=%d",
		responseObj.ID, responseObj.Model,
		responseObj.Usage.PromptTokens, responseObj.Usage.CompletionTokens, responseObj.Usage.TotalTokens)

	return responseObj.Choices[0].Message.Content, nil
}

// buildEndpoint 规范化 base_url 并拼接 chat/completions 路径
func buildEndpoint(baseURL string) string {
	normalized := strings.TrimSuffix(strings.TrimSpace(baseURL), "/")
	if strings.Contains(normalized, "/v1") {
		return normalized + "/chat/completions"
	}
	return normalized + "/v1/chat/completions"
}
