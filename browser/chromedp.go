package browser

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
	"github.com/sirupsen/logrus"
)

// 单次元素操作的超时，避免节点失效时长时间阻塞
const queryTimeout = 5 * time.Second

// ChromedpEngine 备选浏览器引擎，直接驱动本机Chrome
type ChromedpEngine struct {
	headless bool
	log      *logrus.Logger

	allocCtx    context.Context
	allocCancel context.CancelFunc
	browserCtx  context.Context
	browserStop context.CancelFunc
}

// NewChromedpEngine 创建chromedp引擎
func NewChromedpEngine(headless bool, logger *logrus.Logger) *ChromedpEngine {
	return &ChromedpEngine{headless: headless, log: logger}
}

// Start 启动浏览器进程
func (e *ChromedpEngine) Start() error {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", e.headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.UserAgent(chromeUserAgent),
		chromedp.WindowSize(1920, 1080),
	)

	e.allocCtx, e.allocCancel = chromedp.NewExecAllocator(context.Background(), opts...)
	e.browserCtx, e.browserStop = chromedp.NewContext(e.allocCtx)

	// 空Run拉起浏览器进程，尽早暴露启动失败
	if err := chromedp.Run(e.browserCtx); err != nil {
		return fmt.Errorf("启动浏览器失败: %w", err)
	}

	e.log.Info("浏览器启动成功 (chromedp)")
	return nil
}

// NewPage 新开标签页，Cookie通过CDP协议注入
func (e *ChromedpEngine) NewPage(cookies []Cookie) (Page, error) {
	ctx, cancel := chromedp.NewContext(e.browserCtx)

	if len(cookies) > 0 {
		params := make([]*network.CookieParam, 0, len(cookies))
		for _, c := range cookies {
			params = append(params, &network.CookieParam{
				Name:   c.Name,
				Value:  c.Value,
				Domain: c.Domain,
				Path:   c.Path,
			})
		}
		if err := chromedp.Run(ctx, network.SetCookies(params)); err != nil {
			cancel()
			return nil, fmt.Errorf("注入Cookie失败: %w", err)
		}
		e.log.Infof("已设置 %d 个Cookie", len(cookies))
	}

	return &chromedpPage{ctx: ctx, cancel: cancel}, nil
}

// Close 关闭浏览器进程
func (e *ChromedpEngine) Close() error {
	if e.browserStop != nil {
		e.browserStop()
	}
	if e.allocCancel != nil {
		e.allocCancel()
	}
	e.log.Info("浏览器已关闭")
	return nil
}

type chromedpPage struct {
	ctx    context.Context
	cancel context.CancelFunc
}

func (p *chromedpPage) Navigate(url string) error {
	if err := chromedp.Run(p.ctx, chromedp.Navigate(url)); err != nil {
		return fmt.Errorf("导航到 %s 失败: %w", url, err)
	}
	return nil
}

func (p *chromedpPage) URL() string {
	var current string
	ctx, cancel := context.WithTimeout(p.ctx, queryTimeout)
	defer cancel()
	if err := chromedp.Run(ctx, chromedp.Location(&current)); err != nil {
		return ""
	}
	return current
}

func (p *chromedpPage) QueryOne(selector string) Element {
	nodes := p.queryNodes(selector)
	if len(nodes) == 0 {
		return nil
	}
	return &chromedpElement{ctx: p.ctx, node: nodes[0]}
}

func (p *chromedpPage) QueryAll(selector string) []Element {
	nodes := p.queryNodes(selector)
	elements := make([]Element, 0, len(nodes))
	for _, n := range nodes {
		elements = append(elements, &chromedpElement{ctx: p.ctx, node: n})
	}
	return elements
}

func (p *chromedpPage) queryNodes(selector string) []*cdp.Node {
	var nodes []*cdp.Node
	ctx, cancel := context.WithTimeout(p.ctx, queryTimeout)
	defer cancel()
	if err := chromedp.Run(ctx,
		chromedp.Nodes(selector, &nodes, chromedp.ByQueryAll, chromedp.AtLeast(0)),
	); err != nil {
		return nil
	}
	return nodes
}

func (p *chromedpPage) WaitFor(selector string, timeout time.Duration) bool {
	ctx, cancel := context.WithTimeout(p.ctx, timeout)
	defer cancel()
	return chromedp.Run(ctx, chromedp.WaitVisible(selector, chromedp.ByQuery)) == nil
}

func (p *chromedpPage) Screenshot(path string) error {
	var buf []byte
	if err := chromedp.Run(p.ctx, chromedp.FullScreenshot(&buf, 90)); err != nil {
		return fmt.Errorf("截图失败: %w", err)
	}
	return os.WriteFile(path, buf, 0o644)
}

func (p *chromedpPage) Content() (string, error) {
	var html string
	ctx, cancel := context.WithTimeout(p.ctx, queryTimeout)
	defer cancel()
	if err := chromedp.Run(ctx, chromedp.OuterHTML("html", &html, chromedp.ByQuery)); err != nil {
		return "", fmt.Errorf("获取页面HTML失败: %w", err)
	}
	return html, nil
}

func (p *chromedpPage) Close() error {
	p.cancel()
	return nil
}

type chromedpElement struct {
	ctx  context.Context
	node *cdp.Node
}

func (e *chromedpElement) Text() string {
	var text string
	ctx, cancel := context.WithTimeout(e.ctx, queryTimeout)
	defer cancel()
	if err := chromedp.Run(ctx,
		chromedp.Text([]cdp.NodeID{e.node.NodeID}, &text, chromedp.ByNodeID),
	); err != nil {
		return ""
	}
	return strings.TrimSpace(text)
}

func (e *chromedpElement) Attribute(name string) string {
	var value string
	var ok bool
	ctx, cancel := context.WithTimeout(e.ctx, queryTimeout)
	defer cancel()
	if err := chromedp.Run(ctx,
		chromedp.AttributeValue([]cdp.NodeID{e.node.NodeID}, name, &value, &ok, chromedp.ByNodeID),
	); err != nil || !ok {
		return ""
	}
	return value
}

func (e *chromedpElement) Click() error {
	ctx, cancel := context.WithTimeout(e.ctx, queryTimeout)
	defer cancel()
	return chromedp.Run(ctx, chromedp.Click([]cdp.NodeID{e.node.NodeID}, chromedp.ByNodeID))
}

func (e *chromedpElement) Fill(text string) error {
	ctx, cancel := context.WithTimeout(e.ctx, queryTimeout)
	defer cancel()
	return chromedp.Run(ctx,
		chromedp.SetValue([]cdp.NodeID{e.node.NodeID}, "", chromedp.ByNodeID),
		chromedp.SendKeys([]cdp.NodeID{e.node.NodeID}, text, chromedp.ByNodeID),
	)
}

// IsVisible 通过XPath定位节点并检查渲染尺寸
func (e *chromedpElement) IsVisible() bool {
	js := fmt.Sprintf(`(() => {
		const node = document.evaluate(%s, document, null, XPathResult.FIRST_ORDERED_NODE_TYPE, null).singleNodeValue;
		if (!node) return false;
		const rect = node.getBoundingClientRect();
		return rect.width > 0 && rect.height > 0;
	})()`, strconv.Quote(e.node.FullXPath()))

	var visible bool
	ctx, cancel := context.WithTimeout(e.ctx, queryTimeout)
	defer cancel()
	if err := chromedp.Run(ctx, chromedp.Evaluate(js, &visible)); err != nil {
		return false
	}
	return visible
}

func (e *chromedpElement) QueryOne(selector string) Element {
	nodes := e.queryNodes(selector)
	if len(nodes) == 0 {
		return nil
	}
	return &chromedpElement{ctx: e.ctx, node: nodes[0]}
}

func (e *chromedpElement) QueryAll(selector string) []Element {
	nodes := e.queryNodes(selector)
	elements := make([]Element, 0, len(nodes))
	for _, n := range nodes {
		elements = append(elements, &chromedpElement{ctx: e.ctx, node: n})
	}
	return elements
}

func (e *chromedpElement) queryNodes(selector string) []*cdp.Node {
	var nodes []*cdp.Node
	ctx, cancel := context.WithTimeout(e.ctx, queryTimeout)
	defer cancel()
	if err := chromedp.Run(ctx,
		chromedp.Nodes(selector, &nodes, chromedp.ByQueryAll, chromedp.FromNode(e.node), chromedp.AtLeast(0)),
	); err != nil {
		return nil
	}
	return nodes
}
