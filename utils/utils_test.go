package utils

import (
	"testing"
	"time"
)

func TestAppendParam(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  string
	}{
		{"city", "101010100", "&city=101010100"},
		{"city", "", ""},
		{"salary", UNLIMITED_CODE, ""},
		{"degree", "203", "&degree=203"},
	}

	for _, tt := range tests {
		if got := AppendParam(tt.name, tt.value); got != tt.want {
			t.Errorf("AppendParam(%q, %q) = %q, want %q", tt.name, tt.value, got, tt.want)
		}
	}
}

func TestGetRandomNumberInRange(t *testing.T) {
	for i := 0; i < 100; i++ {
		got := GetRandomNumberInRange(30, 60)
		if got < 30 || got > 60 {
			t.Fatalf("GetRandomNumberInRange(30, 60) = %d, 超出范围", got)
		}
	}

	// 上下界颠倒时自动交换
	if got := GetRandomNumberInRange(5, 5); got != 5 {
		t.Errorf("GetRandomNumberInRange(5, 5) = %d, want 5", got)
	}
	got := GetRandomNumberInRange(10, 1)
	if got < 1 || got > 10 {
		t.Errorf("GetRandomNumberInRange(10, 1) = %d, 超出范围", got)
	}
}

func TestFormatDuration(t *testing.T) {
	start := time.Date(2025, 1, 1, 10, 0, 0, 0, time.Local)
	end := start.Add(1*time.Hour + 2*time.Minute + 3*time.Second)

	if got := FormatDuration(start, end); got != "1时2分3秒" {
		t.Errorf("FormatDuration = %q, want %q", got, "1时2分3秒")
	}
}

func TestContainsString(t *testing.T) {
	slice := []string{"外包公司", "培训机构"}

	if !ContainsString(slice, "外包公司") {
		t.Error("ContainsString 应命中已有元素")
	}
	if ContainsString(slice, "某科技公司") {
		t.Error("ContainsString 不应命中未知元素")
	}
	if ContainsString(nil, "任意") {
		t.Error("ContainsString 对 nil 切片应返回 false")
	}
}

func TestTruncateString(t *testing.T) {
	tests := []struct {
		s    string
		max  int
		want string
	}{
		{"hello", 10, "hello"},
		{"hello world", 5, "hello..."},
		{"你好，我对贵公司的岗位很感兴趣", 5, "你好，我对..."},
		{"", 5, ""},
	}

	for _, tt := range tests {
		if got := TruncateString(tt.s, tt.max); got != tt.want {
			t.Errorf("TruncateString(%q, %d) = %q, want %q", tt.s, tt.max, got, tt.want)
		}
	}
}

func TestCollapseSpaces(t *testing.T) {
	tests := []struct {
		s    string
		want string
	}{
		{"  Go开发工程师  ", "Go开发工程师"},
		{"云帆\n  科技", "云帆 科技"},
		{"a \t b  c", "a b c"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := CollapseSpaces(tt.s); got != tt.want {
			t.Errorf("CollapseSpaces(%q) = %q, want %q", tt.s, got, tt.want)
		}
	}
}
