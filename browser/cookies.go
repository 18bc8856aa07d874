package browser

import (
	"fmt"
	"os"
	"strings"
)

// 平台Cookie域名映射
var platformDomains = map[string]string{
	"boss":   ".zhipin.com",
	"liepin": ".liepin.com",
}

// CookieDomain 返回平台对应的Cookie域名
func CookieDomain(platform string) string {
	if domain, ok := platformDomains[platform]; ok {
		return domain
	}
	return ".zhipin.com"
}

// LoadCookies 从cookie文件读取会话Cookie
// 文件内容为浏览器复制的 "name=value; name=value" 字符串，
// 取第一行非注释、非空白内容。文件缺失返回 (nil, nil)，
// 调用方按未登录告警处理，不视为错误。
func LoadCookies(path, domain string) ([]Cookie, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("读取Cookie文件失败: %w", err)
	}

	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		return ParseCookieLine(line, domain), nil
	}
	return nil, nil
}

// ParseCookieLine 解析一行Cookie字符串
// 按分号切分，每段按第一个等号拆成名值对，无等号的片段忽略
func ParseCookieLine(line, domain string) []Cookie {
	var cookies []Cookie
	for _, item := range strings.Split(line, ";") {
		item = strings.TrimSpace(item)
		if !strings.Contains(item, "=") {
			continue
		}
		parts := strings.SplitN(item, "=", 2)
		name := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])
		if name == "" {
			continue
		}
		cookies = append(cookies, Cookie{
			Name:   name,
			Value:  value,
			Domain: domain,
			Path:   "/",
		})
	}
	return cookies
}
