package browser

import (
	"os"
	"path/filepath"
	"testing"
)

func TestParseCookieLine(t *testing.T) {
	cookies := ParseCookieLine("wt2=abc123; ab_guid=x-y-z ; token=a=b; bad; =novalue", ".zhipin.com")

	want := []Cookie{
		{Name: "wt2", Value: "abc123", Domain: ".zhipin.com", Path: "/"},
		{Name: "ab_guid", Value: "x-y-z", Domain: ".zhipin.com", Path: "/"},
		{Name: "token", Value: "a=b", Domain: ".zhipin.com", Path: "/"},
	}
	if len(cookies) != len(want) {
		t.Fatalf("ParseCookieLine() returned %d cookies, want %d", len(cookies), len(want))
	}
	for i, c := range cookies {
		if c != want[i] {
			t.Errorf("cookie[%d] = %+v, want %+v", i, c, want[i])
		}
	}
}

func TestLoadCookies(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cookie.txt")
	content := "# 浏览器登录后从F12复制Cookie到下一行\n\n  \nname1=v1; name2=v2\nname3=v3\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cookies, err := LoadCookies(path, ".liepin.com")
	if err != nil {
		t.Fatalf("LoadCookies() error = %v", err)
	}
	// 只取第一行有效内容，后续行忽略
	if len(cookies) != 2 {
		t.Fatalf("LoadCookies() returned %d cookies, want 2", len(cookies))
	}
	if cookies[0].Name != "name1" || cookies[1].Name != "name2" {
		t.Errorf("cookie names = %s, %s, want name1, name2", cookies[0].Name, cookies[1].Name)
	}
	if cookies[0].Domain != ".liepin.com" {
		t.Errorf("domain = %s, want .liepin.com", cookies[0].Domain)
	}
}

func TestLoadCookiesMissingFile(t *testing.T) {
	cookies, err := LoadCookies(filepath.Join(t.TempDir(), "nope.txt"), ".zhipin.com")
	if err != nil {
		t.Errorf("LoadCookies(missing) error = %v, want nil", err)
	}
	if cookies != nil {
		t.Errorf("LoadCookies(missing) = %v, want nil", cookies)
	}
}

func TestLoadCookiesOnlyComments(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cookie.txt")
	if err := os.WriteFile(path, []byte("# 说明\n# 另一行说明\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cookies, err := LoadCookies(path, ".zhipin.com")
	if err != nil {
		t.Errorf("LoadCookies() error = %v", err)
	}
	if len(cookies) != 0 {
		t.Errorf("LoadCookies() = %v, want empty", cookies)
	}
}

func TestCookieDomain(t *testing.T) {
	tests := []struct {
		platform string
		want     string
	}{
		{"boss", ".zhipin.com"},
		{"liepin", ".liepin.com"},
		{"unknown", ".zhipin.com"},
	}
	for _, tt := range tests {
		if got := CookieDomain(tt.platform); got != tt.want {
			t.Errorf("CookieDomain(%q) = %q, want %q", tt.platform, got, tt.want)
		}
	}
}
