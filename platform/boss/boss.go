package boss

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
	platformName = "boss"
	baseURL      = "https://www.zhipin.com"
)

// Boss Boss直聘平台适配器
type Boss struct {
	page      browser.Page
	search    *config.SearchConfig
	greetings []string
	greeter   platform.GreetingGenerator
	logsDir   string
	log       *logrus.Logger
}

var _ platform.Platform = (*Boss)(nil)

// New 创建Boss直聘适配器，greeter 可为 nil
func New(page browser.Page, cfg *config.PlatformConfig, greetings []string, greeter platform.GreetingGenerator, logsDir string, logger *logrus.Logger) *Boss {
	return &Boss{
		page:      page,
		search:    &cfg.Search,
		greetings: greetings,
		greeter:   greeter,
		logsDir:   logsDir,
		log:       logger,
	}
}

func (b *Boss) Name() string { return platformName }

// BuildSearchURL 构建搜索URL，未知的中文标签不贡献参数
func (b *Boss) BuildSearchURL(keyword string) string {
	u := fmt.Sprintf("%s/web/geek/jobs?query=%s", baseURL, url.QueryEscape(keyword))
	u += utils.AppendParam("city", config.LookupCode(platformName, "city", b.search.City))
	u += utils.AppendParam("salary", config.LookupCode(platformName, "salary", b.search.Salary))
	u += utils.AppendParam("experience", config.LookupCode(platformName, "experience", b.search.Experience))
	u += utils.AppendParam("degree", config.LookupCode(platformName, "degree", b.search.Degree))
	return u
}

// SearchPostings 搜索职位，登录失效时告警并返回空列表
func (b *Boss) SearchPostings(keyword string) ([]model.Posting, error) {
	searchURL := b.BuildSearchURL(keyword)
	b.log.Infof("搜索关键词: %s", keyword)
	b.log.Infof("访问 URL: %s", searchURL)

	if err := b.page.Navigate(searchURL); err != nil {
		return nil, fmt.Errorf("导航到搜索页面失败: %w", err)
	}
	utils.Sleep(2)

	if b.loginRequired() {
		b.log.Error("登录状态已失效，请更新 cookie.txt")
		return nil, nil
	}

	postings := b.parseJobList()
	b.log.Infof("找到 %d 个职位", len(postings))
	return postings, nil
}

// loginRequired 跳到登录页或出现登录按钮都视为未登录
func (b *Boss) loginRequired() bool {
	if strings.Contains(b.page.URL(), "login") {
		return true
	}
	return b.page.QueryOne(locators.BOSS_LOGIN_BTN) != nil
}

func (b *Boss) parseJobList() []model.Posting {
	if !b.page.WaitFor(locators.BOSS_JOB_CARD, 10*time.Second) {
		b.log.Warn("未找到职位列表，可能没有匹配的职位或页面结构已变化")
		platform.DumpDiagnostics(b.page, b.logsDir, "boss_debug", b.log)
		return nil
	}

	cards := b.page.QueryAll(locators.BOSS_JOB_CARD)
	postings := make([]model.Posting, 0, len(cards))
	for _, card := range cards {
		if p, ok := b.parseJobCard(card); ok {
			postings = append(postings, p)
		}
	}
	return postings
}

// parseJobCard 解析单个职位卡片，缺少职位链接的卡片跳过
func (b *Boss) parseJobCard(card browser.Element) (model.Posting, bool) {
	link := card.QueryOne(locators.BOSS_JOB_NAME)
	if link == nil {
		return model.Posting{}, false
	}

	href := link.Attribute("href")
	id := jobIDFromHref(href)
	title := link.Text()
	if id == "" || title == "" {
		return model.Posting{}, false
	}

	p := model.Posting{
		ID:       id,
		Title:    title,
		URL:      absoluteURL(href),
		Platform: platformName,
	}
	if el := card.QueryOne(locators.BOSS_JOB_SALARY); el != nil {
		p.Salary = el.Text()
	}
	if el := card.QueryOne(locators.BOSS_COMPANY_NAME); el != nil {
		p.Company = el.Text()
	}
	if el := card.QueryOne(locators.BOSS_COMPANY_LOCATION); el != nil {
		p.Location = el.Text()
	}
	for _, t := range card.QueryAll(locators.BOSS_TAG_LIST) {
		if tag := t.Text(); tag != "" {
			p.Tags = append(p.Tags, tag)
		}
	}
	return p, true
}

// jobIDFromHref 从 /job_detail/xxx.html?ka=yyy 形式的链接提取职位ID
func jobIDFromHref(href string) string {
	if href == "" {
		return ""
	}
	if i := strings.Index(href, "?"); i >= 0 {
		href = href[:i]
	}
	seg := href[strings.LastIndex(href, "/")+1:]
	return strings.TrimSuffix(seg, ".html")
}

func absoluteURL(href string) string {
	if href == "" || strings.HasPrefix(href, "http") {
		return href
	}
	return baseURL + href
}

// ApplyToPosting 打开职位详情页并发起沟通
// 没有沟通按钮返回 false；按钮显示"继续沟通"说明已聊过，幂等跳过
func (b *Boss) ApplyToPosting(p model.Posting) (bool, error) {
	if p.URL == "" {
		return false, nil
	}

	if err := b.page.Navigate(p.URL); err != nil {
		return false, fmt.Errorf("打开职位详情页失败: %w", err)
	}
	utils.Sleep(2)

	chatBtn := b.page.QueryOne(locators.BOSS_CHAT_BUTTON)
	if chatBtn == nil {
		b.log.Debug("未找到立即沟通按钮")
		return false, nil
	}
	if strings.Contains(chatBtn.Text(), "继续沟通") {
		b.log.Debug("已经沟通过，跳过")
		return false, nil
	}

	if err := chatBtn.Click(); err != nil {
		return false, fmt.Errorf("点击沟通按钮失败: %w", err)
	}
	utils.Sleep(2)

	return b.SendGreeting(p)
}

// SendGreeting 填写并发送打招呼消息
// 部分职位点击沟通后不弹输入框，此时沟通动作已完成，视为成功
func (b *Boss) SendGreeting(p model.Posting) (bool, error) {
	greeting := platform.RenderGreeting(b.greetings, p)
	if greeting == "" {
		b.log.Warn("未配置打招呼模板")
		return true, nil
	}
	if b.greeter != nil {
		greeting = b.greeter.GenerateGreeting(p, greeting)
	}

	var input browser.Element
	for _, selector := range locators.BOSS_CHAT_INPUTS {
		if input = b.page.QueryOne(selector); input != nil {
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

	for _, selector := range locators.BOSS_SEND_BUTTONS {
		btn := b.page.QueryOne(selector)
		if btn == nil {
			continue
		}
		if err := btn.Click(); err != nil {
			continue
		}
		utils.Sleep(1)
		b.log.Debugf("已发送打招呼: %s", utils.TruncateString(greeting, 30))
		return true, nil
	}

	// 固定选择器都未命中时按文本扫描发送按钮
	for _, btn := range b.page.QueryAll("button") {
		if !strings.Contains(btn.Text(), "发送") {
			continue
		}
		if err := btn.Click(); err != nil {
			continue
		}
		utils.Sleep(1)
		b.log.Debugf("已发送打招呼: %s", utils.TruncateString(greeting, 30))
		return true, nil
	}

	return true, nil
}
