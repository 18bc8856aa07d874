package platform

import (
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"auto_apply_go/browser"
	"auto_apply_go/model"
)

// Platform 招聘平台统一能力
// 编排器只依赖这组操作，站点差异全部封装在各平台适配器内
type Platform interface {
	Name() string
	// BuildSearchURL 由关键词和搜索配置构建搜索URL
	BuildSearchURL(keyword string) string
	// SearchPostings 搜索职位，登录失效时告警并返回空列表，不报错
	SearchPostings(keyword string) ([]model.Posting, error)
	// ApplyToPosting 投递职位：没有沟通入口或已沟通过返回 false
	ApplyToPosting(p model.Posting) (bool, error)
	// SendGreeting 发送打招呼消息，没有输入框视为动作已完成
	SendGreeting(p model.Posting) (bool, error)
}

// GreetingGenerator 打招呼语生成器，生成失败时返回 fallback
// 适配器拿到 nil 时直接使用模板打招呼语
type GreetingGenerator interface {
	GenerateGreeting(p model.Posting, fallback string) string
}

// KeywordPause 关键词搜索之间的等待，避免请求过快
const KeywordPause = 2 * time.Second

// SearchAllKeywords 依次搜索全部关键词，按职位ID去重（先出现者保留）
func SearchAllKeywords(p Platform, keywords []string, pause time.Duration, logger *logrus.Logger) []model.Posting {
	var all []model.Posting
	seen := make(map[string]struct{})

	for i, keyword := range keywords {
		postings, err := p.SearchPostings(keyword)
		if err != nil {
			logger.Errorf("搜索关键词 %q 失败: %v", keyword, err)
			continue
		}

		for _, posting := range postings {
			if _, ok := seen[posting.ID]; ok {
				continue
			}
			seen[posting.ID] = struct{}{}
			all = append(all, posting)
		}

		if pause > 0 && i < len(keywords)-1 {
			time.Sleep(pause)
		}
	}

	logger.Infof("所有关键词搜索完成，共找到 %d 个不重复职位", len(all))
	return all
}

// RenderGreeting 随机选择一条打招呼模板并替换 {position}/{company} 占位符
// 未配置模板返回空串
func RenderGreeting(greetings []string, p model.Posting) string {
	if len(greetings) == 0 {
		return ""
	}
	g := greetings[rand.Intn(len(greetings))]
	g = strings.ReplaceAll(g, "{position}", p.Title)
	g = strings.ReplaceAll(g, "{company}", p.Company)
	return g
}

// DumpDiagnostics 保存当前页面截图和HTML到日志目录，用于排查页面结构变化
func DumpDiagnostics(page browser.Page, logsDir, prefix string, logger *logrus.Logger) {
	if err := os.MkdirAll(logsDir, 0o755); err != nil {
		logger.Debugf("创建日志目录失败: %v", err)
		return
	}

	shotPath := filepath.Join(logsDir, prefix+".png")
	if err := page.Screenshot(shotPath); err == nil {
		logger.Infof("已保存调试截图: %s", shotPath)
	}

	if html, err := page.Content(); err == nil {
		htmlPath := filepath.Join(logsDir, prefix+".html")
		if err := os.WriteFile(htmlPath, []byte(html), 0o644); err == nil {
			logger.Infof("已保存页面HTML: %s", htmlPath)
		}
	}
}
