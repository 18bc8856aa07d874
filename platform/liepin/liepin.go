package liepin

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	locators "auto_apply_go/Locators"
	"auto_apply_go/browser"
	"auto_apply_go/config"
	"auto_apply_go/model"
	"auto_apply_go/platform"
	"auto_apply_go/utils"
)

const (
	platformName = "liepin"
	baseURL      = "https://www.liepin.com"
)

// 投递入口按钮的文本特征
var applyTexts = []string{"聊一聊", "立即沟通", "投递简历"}

// 已投递过的按钮文本特征，命中则幂等跳过
var appliedTexts = []string{"已投递", "已沟通", "已申请"}

// Liepin 猎聘平台适配器
type Liepin struct {
	page      browser.Page
	search    *config.SearchConfig
	greetings []string
	greeter   platform.GreetingGenerator
	logsDir   string
	log       *logrus.Logger
}

var _ platform.Platform = (*Liepin)(nil)

// New 创建猎聘适配器，greeter 可为 nil
func New(page browser.Page, cfg *config.PlatformConfig, greetings []string, greeter platform.GreetingGenerator, logsDir string, logger *logrus.Logger) *Liepin {
	return &Liepin{
		page:      page,
		search:    &cfg.Search,
		greetings: greetings,
		greeter:   greeter,
		logsDir:   logsDir,
		log:       logger,
	}
}

func (l *Liepin) Name() string { return platformName }

// BuildSearchURL 构建搜索URL
// 猎聘薪资参数是年薪区间编码，经验参数形如 "1$3"
func (l *Liepin) BuildSearchURL(keyword string) string {
	u := fmt.Sprintf("%s/zhaopin/?key=%s", baseURL, url.QueryEscape(keyword))
	u += utils.AppendParam("dqs", config.LookupCode(platformName, "city", l.search.City))
	u += utils.AppendParam("salaryCode", config.LookupCode(platformName, "salary", l.search.Salary))
	u += utils.AppendParam("workYearCode", config.LookupCode(platformName, "experience", l.search.Experience))
	u += utils.AppendParam("eduLevel", config.LookupCode(platformName, "degree", l.search.Degree))
	return u
}

// SearchPostings 搜索职位，登录失效时告警并返回空列表
func (l *Liepin) SearchPostings(keyword string) ([]model.Posting, error) {
	searchURL := l.BuildSearchURL(keyword)
	l.log.Infof("[猎聘] 搜索关键词: %s", keyword)
	l.log.Infof("[猎聘] 访问 URL: %s", searchURL)

	if err := l.page.Navigate(searchURL); err != nil {
		l.log.Warnf("[猎聘] 页面加载异常: %v", err)
	}
	// 猎聘页面加载较慢
	utils.Sleep(3)

	if l.loginRequired() {
		l.log.Error("[猎聘] 登录状态已失效，请更新 cookie_liepin.txt")
		return nil, nil
	}

	postings := l.parseJobList()
	l.log.Infof("[猎聘] 找到 %d 个职位", len(postings))
	return postings, nil
}

func (l *Liepin) loginRequired() bool {
	current := l.page.URL()
	if strings.Contains(current, "login") || strings.Contains(current, "passport") {
		return true
	}
	return l.page.QueryOne(locators.LIEPIN_LOGIN_BTN) != nil
}

// parseJobList 依次尝试各版本页面结构的卡片选择器
// 全部落空时退回整页链接扫描
func (l *Liepin) parseJobList() []model.Posting {
	var cards []browser.Element
	for _, selector := range locators.LIEPIN_JOB_CARDS {
		if !l.page.WaitFor(selector, 10*time.Second) {
			continue
		}
		if cards = l.page.QueryAll(selector); len(cards) > 0 {
			l.log.Infof("[猎聘] 使用选择器: %s, 找到 %d 个卡片", selector, len(cards))
			break
		}
	}

	if len(cards) == 0 {
		l.log.Warn("[猎聘] 未找到职位列表，尝试直接解析页面链接...")
		platform.DumpDiagnostics(l.page, l.logsDir, "liepin_debug", l.log)
		return l.parseJobLinks()
	}

	postings := make([]model.Posting, 0, len(cards))
	for _, card := range cards {
		if p, ok := l.parseJobCard(card); ok {
			postings = append(postings, p)
		}
	}
	return postings
}

// parseJobCard 解析单个职位卡片
func (l *Liepin) parseJobCard(card browser.Element) (model.Posting, bool) {
	var link browser.Element
	for _, selector := range locators.LIEPIN_JOB_LINKS {
		if link = card.QueryOne(selector); link != nil {
			break
		}
	}
	if link == nil {
		return model.Posting{}, false
	}

	href := link.Attribute("href")
	id := jobIDFromHref(href)

	title := link.Attribute("title")
	if title == "" {
		title = link.Text()
	}
	title = utils.CollapseSpaces(title)

	if id == "" || title == "" {
		return model.Posting{}, false
	}

	p := model.Posting{
		ID:       id,
		Title:    title,
		URL:      absoluteURL(href),
		Platform: platformName,
	}
	if el := card.QueryOne(locators.LIEPIN_SALARY); el != nil {
		p.Salary = el.Text()
	}
	if el := card.QueryOne(locators.LIEPIN_COMPANY); el != nil {
		p.Company = utils.CollapseSpaces(el.Text())
	}
	if el := card.QueryOne(locators.LIEPIN_LOCATION); el != nil {
		p.Location = el.Text()
	}
	return p, true
}

// parseJobLinks 兜底：扫描整页职位链接，按提取的ID去重
func (l *Liepin) parseJobLinks() []model.Posting {
	var postings []model.Posting
	seen := make(map[string]struct{})

	for _, link := range l.page.QueryAll(locators.LIEPIN_JOB_LINK_FALLBACK) {
		href := link.Attribute("href")
		id := jobIDFromHref(href)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}

		title := utils.CollapseSpaces(link.Text())
		if len([]rune(title)) < 2 {
			continue
		}
		seen[id] = struct{}{}

		postings = append(postings, model.Posting{
			ID:       id,
			Title:    title,
			URL:      absoluteURL(href),
			Platform: platformName,
		})
	}

	l.log.Infof("[猎聘] 通过链接解析找到 %d 个职位", len(postings))
	return postings
}

// jobIDFromHref 从 /job/1234567.shtml?d_sfrom=... 形式的链接提取职位ID
func jobIDFromHref(href string) string {
	if !strings.Contains(href, "/job/") {
		return ""
	}
	id := href[strings.Index(href, "/job/")+len("/job/"):]
	if i := strings.IndexAny(id, ".?"); i >= 0 {
		id = id[:i]
	}
	return id
}

func absoluteURL(href string) string {
	if href == "" || strings.HasPrefix(href, "http") {
		return href
	}
	return baseURL + href
}

// ApplyToPosting 打开职位详情页并点击投递入口
// 点击后进入聊天页则发送打招呼；出现确认弹窗则点击确认
func (l *Liepin) ApplyToPosting(p model.Posting) (bool, error) {
	if p.URL == "" {
		return false, nil
	}

	if err := l.page.Navigate(p.URL); err != nil {
		l.log.Warnf("[猎聘] 页面加载异常: %v", err)
	}
	utils.Sleep(3)

	applyBtn := l.findApplyButton()
	if applyBtn == nil {
		l.log.Warn("[猎聘] 未找到投递按钮")
		platform.DumpDiagnostics(l.page, l.logsDir, "liepin_apply_debug", l.log)
		return false, nil
	}

	text := applyBtn.Text()
	if containsAny(text, appliedTexts) {
		l.log.Debug("[猎聘] 已投递过，跳过")
		return false, nil
	}
	l.log.Infof("[猎聘] 找到按钮: %q", text)

	if err := applyBtn.Click(); err != nil {
		return false, fmt.Errorf("点击投递按钮失败: %w", err)
	}
	utils.Sleep(3)

	// 点击后可能直接进入聊天页面
	current := l.page.URL()
	if strings.Contains(current, "im.") || strings.Contains(current, "chat") {
		l.log.Info("[猎聘] 已进入聊天页面")
		return l.SendGreeting(p)
	}

	// 投递确认弹窗
	if confirm := l.findButtonByText("确认", "确定"); confirm != nil {
		l.log.Info("[猎聘] 找到确认按钮，点击...")
		if err := confirm.Click(); err == nil {
			utils.Sleep(2)
		}
	}
	return true, nil
}

// findApplyButton 先按固定选择器找，再按文本扫描按钮和链接
func (l *Liepin) findApplyButton() browser.Element {
	for _, selector := range locators.LIEPIN_APPLY_BUTTONS {
		for _, btn := range l.page.QueryAll(selector) {
			if l.looksLikeApplyButton(btn, false) {
				return btn
			}
		}
	}
	for _, tag := range []string{"button", "a"} {
		for _, btn := range l.page.QueryAll(tag) {
			if l.looksLikeApplyButton(btn, true) {
				return btn
			}
		}
	}
	return nil
}

// looksLikeApplyButton 过长文本说明是容器而不是按钮
// strict 模式要求命中完整按钮文案，用于整页扫描防误报
func (l *Liepin) looksLikeApplyButton(btn browser.Element, strict bool) bool {
	if !btn.IsVisible() {
		return false
	}
	text := btn.Text()
	if text == "" || len([]rune(text)) >= 20 {
		return false
	}
	if containsAny(text, appliedTexts) {
		return true
	}
	if strict {
		return containsAny(text, applyTexts)
	}
	return strings.Contains(text, "聊") || strings.Contains(text, "沟通") || strings.Contains(text, "投递")
}

func (l *Liepin) findButtonByText(texts ...string) browser.Element {
	for _, btn := range l.page.QueryAll("button") {
		if !btn.IsVisible() {
			continue
		}
		if containsAny(btn.Text(), texts) {
			return btn
		}
	}
	return nil
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// SendGreeting 填写并发送打招呼消息，没有输入框视为动作已完成
func (l *Liepin) SendGreeting(p model.Posting) (bool, error) {
	greeting := platform.RenderGreeting(l.greetings, p)
	if greeting == "" {
		l.log.Warn("[猎聘] 未配置打招呼模板")
		return true, nil
	}
	if l.greeter != nil {
		greeting = l.greeter.GenerateGreeting(p, greeting)
	}

	var input browser.Element
	for _, selector := range locators.LIEPIN_CHAT_INPUTS {
		if input = l.page.QueryOne(selector); input != nil {
			break
		}
	}
	if input == nil {
		return true, nil
	}

	if err := input.Fill(greeting); err != nil {
		return false, fmt.Errorf("填写打招呼消息失败: %w", err)
	}
	time.Sleep(500 * time.Millisecond)

	for _, selector := range locators.LIEPIN_SEND_BUTTONS {
		btn := l.page.QueryOne(selector)
		if btn == nil {
			continue
		}
		if err := btn.Click(); err != nil {
			continue
		}
		utils.Sleep(1)
		l.log.Debugf("[猎聘] 已发送打招呼: %s", utils.TruncateString(greeting, 30))
		return true, nil
	}

	if btn := l.findButtonByText("发送"); btn != nil {
		if err := btn.Click(); err == nil {
			utils.Sleep(1)
			l.log.Debugf("[猎聘] 已发送打招呼: %s", utils.TruncateString(greeting, 30))
		}
	}
	return true, nil
}
