package config

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed url_params.yaml
var urlParamsRaw []byte

// urlParams 平台 → 参数类型 → 标签 → 编码
var urlParams map[string]map[string]map[string]string

func init() {
	if err := yaml.Unmarshal(urlParamsRaw, &urlParams); err != nil {
		panic(fmt.Sprintf("解析url_params.yaml失败: %v", err))
	}
}

// LookupCode 将配置中的中文标签转换为URL参数编码
// 未知的平台、参数类型或标签返回空字符串，不产生错误
func LookupCode(platform, paramType, label string) string {
	params, ok := urlParams[platform]
	if !ok {
		return ""
	}
	table, ok := params[paramType]
	if !ok {
		return ""
	}
	return table[label]
}
