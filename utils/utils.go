package utils

import (
	"fmt"
	"math/rand"
	"strings"
	"time"
)

// UNLIMITED_CODE 不限选项的代码
const UNLIMITED_CODE = "0"

// AppendParam 追加URL参数，值为空或"不限"时不追加
func AppendParam(name, value string) string {
	if value == "" || value == UNLIMITED_CODE {
		return ""
	}
	return "&" + name + "=" + value
}

// FormatDuration 计算并格式化耗时
// 返回格式化后的时间字符串，格式为 "HH时mm分ss秒"
func FormatDuration(startTime, endTime time.Time) string {
	duration := endTime.Sub(startTime)

	hours := int(duration.Hours())
	minutes := int(duration.Minutes()) % 60
	seconds := int(duration.Seconds()) % 60

	return fmt.Sprintf("%d时%d分%d秒", hours, minutes, seconds)
}

// GetRandomNumberInRange 获取指定范围内的随机数（含两端）
func GetRandomNumberInRange(min, max int) int {
	if min > max {
		min, max = max, min
	}
	return rand.Intn(max-min+1) + min
}

// Sleep 睡眠指定秒数
func Sleep(seconds int) {
	time.Sleep(time.Duration(seconds) * time.Second)
}

// SleepRandom 在指定范围内随机睡眠
func SleepRandom(minSeconds, maxSeconds int) {
	duration := GetRandomNumberInRange(minSeconds, maxSeconds)
	time.Sleep(time.Duration(duration) * time.Second)
}

// ContainsString 检查字符串切片是否包含指定字符串
func ContainsString(slice []string, str string) bool {
	for _, s := range slice {
		if s == str {
			return true
		}
	}
	return false
}

// IsEmpty 检查字符串是否为空（去除空格后）
func IsEmpty(s string) bool {
	return strings.TrimSpace(s) == ""
}

// TruncateString 按字符数截断字符串，超出部分以省略号结尾
func TruncateString(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}

// CollapseSpaces 把连续空白（含换行）压缩为单个空格
func CollapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
