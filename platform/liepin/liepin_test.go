package liepin

import (
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"auto_apply_go/browser"
	"auto_apply_go/config"
)

// fakeElement 可编排的页面元素
type fakeElement struct {
	text     string
	attrs    map[string]string
	children map[string][]*fakeElement
	visible  bool
}

func (e *fakeElement) Text() string                 { return e.text }
func (e *fakeElement) Attribute(name string) string { return e.attrs[name] }
func (e *fakeElement) Click() error                 { return nil }
func (e *fakeElement) Fill(text string) error       { return nil }
func (e *fakeElement) IsVisible() bool              { return e.visible }

func (e *fakeElement) QueryOne(selector string) browser.Element {
	if els := e.children[selector]; len(els) > 0 {
		return els[0]
	}
	return nil
}

func (e *fakeElement) QueryAll(selector string) []browser.Element {
	els := e.children[selector]
	out := make([]browser.Element, 0, len(els))
	for _, el := range els {
		out = append(out, el)
	}
	return out
}

// fakePage 预置选择器到元素的映射
type fakePage struct {
	url      string
	elements map[string][]*fakeElement
}

func (p *fakePage) Navigate(url string) error { return nil }
func (p *fakePage) URL() string               { return p.url }

func (p *fakePage) QueryOne(selector string) browser.Element {
	if els := p.elements[selector]; len(els) > 0 {
		return els[0]
	}
	return nil
}

func (p *fakePage) QueryAll(selector string) []browser.Element {
	els := p.elements[selector]
	out := make([]browser.Element, 0, len(els))
	for _, el := range els {
		out = append(out, el)
	}
	return out
}

func (p *fakePage) WaitFor(selector string, timeout time.Duration) bool {
	return len(p.elements[selector]) > 0
}

func (p *fakePage) Screenshot(path string) error { return nil }
func (p *fakePage) Content() (string, error)     { return "<html></html>", nil }
func (p *fakePage) Close() error                 { return nil }

func newTestLiepin(t *testing.T, page browser.Page) *Liepin {
	t.Helper()

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	cfg := &config.PlatformConfig{
		Search: config.SearchConfig{
			City:       "北京",
			Salary:     "31-50万",
			Experience: "3-5年",
			Degree:     "本科",
		},
	}
	return New(page, cfg, []string{"您好，我对{position}很感兴趣"}, nil, t.TempDir(), logger)
}

func TestBuildSearchURL(t *testing.T) {
	l := newTestLiepin(t, &fakePage{})

	got := l.BuildSearchURL("Golang")
	want := "https://www.liepin.com/zhaopin/?key=Golang" +
		"&dqs=010&salaryCode=5&workYearCode=3$5&eduLevel=40"
	if got != want {
		t.Errorf("BuildSearchURL() = %q, want %q", got, want)
	}
}

func TestJobIDFromHref(t *testing.T) {
	tests := []struct {
		href string
		want string
	}{
		{"/job/1234567.shtml?d_sfrom=search", "1234567"},
		{"https://www.liepin.com/job/9876543.shtml", "9876543"},
		{"/job/555?from=list", "555"},
		{"/company/123.html", ""},
		{"", ""},
	}

	for _, tt := range tests {
		if got := jobIDFromHref(tt.href); got != tt.want {
			t.Errorf("jobIDFromHref(%q) = %q, want %q", tt.href, got, tt.want)
		}
	}
}

func TestParseJobCard(t *testing.T) {
	l := newTestLiepin(t, &fakePage{})

	card := &fakeElement{
		children: map[string][]*fakeElement{
			"a.ellipsis-1": {{
				text:  "Go开发工程师  ",
				attrs: map[string]string{"href": "/job/1234567.shtml?d_sfrom=search"},
			}},
			".job-salary, .salary, span[class*=\"salary\"]": {{text: "30-50k·14薪"}},
			".company-name a, .company-name, a[href*=\"/company/\"]": {{text: "星河\n 网络"}},
			".job-dq, .area, [class*=\"city\"]":                      {{text: "北京"}},
		},
	}

	p, ok := l.parseJobCard(card)
	if !ok {
		t.Fatal("parseJobCard() ok = false")
	}
	if p.ID != "1234567" {
		t.Errorf("ID = %q, want 1234567", p.ID)
	}
	if p.Title != "Go开发工程师" {
		t.Errorf("Title = %q, 应去除多余空白", p.Title)
	}
	if p.Company != "星河 网络" {
		t.Errorf("Company = %q, 应压缩空白", p.Company)
	}
	if p.URL != "https://www.liepin.com/job/1234567.shtml?d_sfrom=search" {
		t.Errorf("URL = %q", p.URL)
	}
	if p.Platform != "liepin" {
		t.Errorf("Platform = %q", p.Platform)
	}
}

func TestParseJobCardTitleAttribute(t *testing.T) {
	l := newTestLiepin(t, &fakePage{})

	// title 属性优先于链接文本
	card := &fakeElement{
		children: map[string][]*fakeElement{
			"a.ellipsis-1": {{
				attrs: map[string]string{
					"href":  "/job/888.shtml",
					"title": "资深Go工程师",
				},
			}},
		},
	}

	p, ok := l.parseJobCard(card)
	if !ok || p.Title != "资深Go工程师" {
		t.Errorf("parseJobCard() = (%+v, %v), 应使用title属性", p, ok)
	}
}

func TestParseJobLinks(t *testing.T) {
	page := &fakePage{
		elements: map[string][]*fakeElement{
			"a[href*=\"/job/\"]": {
				{text: "Go开发工程师", attrs: map[string]string{"href": "/job/111.shtml"}},
				{text: "Go开发工程师(重复)", attrs: map[string]string{"href": "/job/111.shtml?from=x"}},
				{text: "详", attrs: map[string]string{"href": "/job/222.shtml"}},
				{text: "服务端工程师", attrs: map[string]string{"href": "/job/333.shtml"}},
			},
		},
	}
	l := newTestLiepin(t, page)

	postings := l.parseJobLinks()
	// 重复ID去重，单字标题跳过
	if len(postings) != 2 {
		t.Fatalf("len(postings) = %d, want 2", len(postings))
	}
	if postings[0].ID != "111" || postings[1].ID != "333" {
		t.Errorf("postings = %v", postings)
	}
}

func TestLoginRequired(t *testing.T) {
	tests := []struct {
		name string
		page *fakePage
		want bool
	}{
		{"跳转到登录页", &fakePage{url: "https://passport.liepin.com/login"}, true},
		{
			"页面出现登录按钮",
			&fakePage{
				url:      "https://www.liepin.com/zhaopin/?key=Golang",
				elements: map[string][]*fakeElement{`.login-btn, .btn-login, [data-nick="登录"]`: {{text: "登录"}}},
			},
			true,
		},
		{"已登录", &fakePage{url: "https://www.liepin.com/zhaopin/?key=Golang"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := newTestLiepin(t, tt.page)
			if got := l.loginRequired(); got != tt.want {
				t.Errorf("loginRequired() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLooksLikeApplyButton(t *testing.T) {
	l := newTestLiepin(t, &fakePage{})

	tests := []struct {
		name   string
		btn    *fakeElement
		strict bool
		want   bool
	}{
		{"投递按钮", &fakeElement{text: "立即沟通", visible: true}, true, true},
		{"宽松模式命中部分词", &fakeElement{text: "和HR聊聊", visible: true}, false, true},
		{"严格模式要求完整文案", &fakeElement{text: "和HR聊聊", visible: true}, true, false},
		{"不可见按钮", &fakeElement{text: "立即沟通", visible: false}, true, false},
		{"文本过长说明是容器", &fakeElement{text: "立即沟通海投简历快人一步马上注册体验全新功能", visible: true}, false, false},
		{"已投递也算命中", &fakeElement{text: "已投递", visible: true}, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := l.looksLikeApplyButton(tt.btn, tt.strict); got != tt.want {
				t.Errorf("looksLikeApplyButton(%q, strict=%v) = %v, want %v",
					tt.btn.text, tt.strict, got, tt.want)
			}
		})
	}
}
