package browser

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
)

// 统一使用桌面Chrome的UA，避免被识别为自动化工具
const chromeUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// 页面默认超时
const defaultTimeout = 30 * time.Second

// Cookie 会话Cookie
type Cookie struct {
	Name   string
	Value  string
	Domain string
	Path   string
}

// Engine 浏览器引擎，管理浏览器生命周期并创建页面
type Engine interface {
	Start() error
	NewPage(cookies []Cookie) (Page, error)
	Close() error
}

// Page 页面操作能力
// 平台适配器只依赖这组操作，不感知具体引擎
type Page interface {
	Navigate(url string) error
	URL() string
	// QueryOne 查找第一个匹配元素，找不到返回 nil
	QueryOne(selector string) Element
	QueryAll(selector string) []Element
	// WaitFor 在超时内等待元素可见，超时返回 false
	WaitFor(selector string, timeout time.Duration) bool
	Screenshot(path string) error
	// Content 返回整页HTML，仅用于诊断
	Content() (string, error)
	Close() error
}

// Element 元素操作能力
type Element interface {
	Text() string
	Attribute(name string) string
	Click() error
	Fill(text string) error
	IsVisible() bool
	QueryOne(selector string) Element
	QueryAll(selector string) []Element
}

// NewEngine 按配置选择浏览器引擎
func NewEngine(engine string, headless bool, logger *logrus.Logger) (Engine, error) {
	switch engine {
	case "", "playwright":
		return NewPlaywrightEngine(headless, logger), nil
	case "chromedp":
		return NewChromedpEngine(headless, logger), nil
	default:
		return nil, fmt.Errorf("不支持的浏览器引擎: %s", engine)
	}
}
