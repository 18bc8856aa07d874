package browser

import (
	"fmt"
	"strings"
	"time"

	"github.com/playwright-community/playwright-go"
	"github.com/sirupsen/logrus"
)

// PlaywrightEngine 默认浏览器引擎
type PlaywrightEngine struct {
	headless bool
	log      *logrus.Logger

	pw      *playwright.Playwright
	browser playwright.Browser
	context playwright.BrowserContext
}

// NewPlaywrightEngine 创建Playwright引擎
func NewPlaywrightEngine(headless bool, logger *logrus.Logger) *PlaywrightEngine {
	return &PlaywrightEngine{headless: headless, log: logger}
}

// Start 启动浏览器并创建上下文
func (e *PlaywrightEngine) Start() error {
	pw, err := playwright.Run()
	if err != nil {
		return fmt.Errorf("启动Playwright失败: %w", err)
	}
	e.pw = pw

	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(e.headless),
		Args: []string{
			"--disable-blink-features=AutomationControlled",
		},
	})
	if err != nil {
		return fmt.Errorf("启动浏览器失败: %w", err)
	}
	e.browser = browser

	context, err := browser.NewContext(playwright.BrowserNewContextOptions{
		Viewport:  &playwright.Size{Width: 1920, Height: 1080},
		UserAgent: playwright.String(chromeUserAgent),
	})
	if err != nil {
		return fmt.Errorf("创建浏览器上下文失败: %w", err)
	}
	e.context = context

	e.log.Info("浏览器启动成功 (playwright)")
	return nil
}

// NewPage 创建页面，Cookie在首次导航前注入浏览器上下文
func (e *PlaywrightEngine) NewPage(cookies []Cookie) (Page, error) {
	if len(cookies) > 0 {
		optional := make([]playwright.OptionalCookie, 0, len(cookies))
		for _, c := range cookies {
			optional = append(optional, playwright.OptionalCookie{
				Name:   c.Name,
				Value:  c.Value,
				Domain: playwright.String(c.Domain),
				Path:   playwright.String(c.Path),
			})
		}
		if err := e.context.AddCookies(optional); err != nil {
			return nil, fmt.Errorf("注入Cookie失败: %w", err)
		}
		e.log.Infof("已设置 %d 个Cookie", len(cookies))
	}

	page, err := e.context.NewPage()
	if err != nil {
		return nil, fmt.Errorf("创建页面失败: %w", err)
	}
	page.SetDefaultTimeout(float64(defaultTimeout.Milliseconds()))

	return &playwrightPage{page: page}, nil
}

// Close 按 页面上下文->浏览器->Playwright 的顺序释放资源
func (e *PlaywrightEngine) Close() error {
	if e.context != nil {
		e.context.Close()
	}
	if e.browser != nil {
		e.browser.Close()
	}
	if e.pw != nil {
		e.pw.Stop()
	}
	e.log.Info("浏览器已关闭")
	return nil
}

type playwrightPage struct {
	page playwright.Page
}

func (p *playwrightPage) Navigate(url string) error {
	_, err := p.page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
		Timeout:   playwright.Float(60000),
	})
	if err != nil {
		return fmt.Errorf("导航到 %s 失败: %w", url, err)
	}
	return nil
}

func (p *playwrightPage) URL() string {
	return p.page.URL()
}

func (p *playwrightPage) QueryOne(selector string) Element {
	loc := p.page.Locator(selector).First()
	count, err := loc.Count()
	if err != nil || count == 0 {
		return nil
	}
	return &playwrightElement{loc: loc}
}

func (p *playwrightPage) QueryAll(selector string) []Element {
	locs, err := p.page.Locator(selector).All()
	if err != nil {
		return nil
	}
	elements := make([]Element, 0, len(locs))
	for _, loc := range locs {
		elements = append(elements, &playwrightElement{loc: loc})
	}
	return elements
}

func (p *playwrightPage) WaitFor(selector string, timeout time.Duration) bool {
	err := p.page.Locator(selector).First().WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateVisible,
		Timeout: playwright.Float(float64(timeout.Milliseconds())),
	})
	return err == nil
}

func (p *playwrightPage) Screenshot(path string) error {
	_, err := p.page.Screenshot(playwright.PageScreenshotOptions{
		Path:     playwright.String(path),
		FullPage: playwright.Bool(true),
	})
	return err
}

func (p *playwrightPage) Content() (string, error) {
	return p.page.Content()
}

func (p *playwrightPage) Close() error {
	return p.page.Close()
}

type playwrightElement struct {
	loc playwright.Locator
}

func (e *playwrightElement) Text() string {
	text, err := e.loc.TextContent()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(text)
}

func (e *playwrightElement) Attribute(name string) string {
	value, err := e.loc.GetAttribute(name)
	if err != nil {
		return ""
	}
	return value
}

func (e *playwrightElement) Click() error {
	return e.loc.Click()
}

func (e *playwrightElement) Fill(text string) error {
	return e.loc.Fill(text)
}

func (e *playwrightElement) IsVisible() bool {
	visible, err := e.loc.IsVisible()
	return err == nil && visible
}

func (e *playwrightElement) QueryOne(selector string) Element {
	loc := e.loc.Locator(selector).First()
	count, err := loc.Count()
	if err != nil || count == 0 {
		return nil
	}
	return &playwrightElement{loc: loc}
}

func (e *playwrightElement) QueryAll(selector string) []Element {
	locs, err := e.loc.Locator(selector).All()
	if err != nil {
		return nil
	}
	elements := make([]Element, 0, len(locs))
	for _, loc := range locs {
		elements = append(elements, &playwrightElement{loc: loc})
	}
	return elements
}
