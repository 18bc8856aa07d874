package platform

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"

	"auto_apply_go/model"
)

// fakePlatform 预置每个关键词的搜索结果
type fakePlatform struct {
	results map[string][]model.Posting
	errs    map[string]error
	calls   []string
}

func (f *fakePlatform) Name() string                               { return "fake" }
func (f *fakePlatform) BuildSearchURL(keyword string) string       { return "https://example.com/" + keyword }
func (f *fakePlatform) ApplyToPosting(model.Posting) (bool, error) { return false, nil }
func (f *fakePlatform) SendGreeting(model.Posting) (bool, error)   { return false, nil }

func (f *fakePlatform) SearchPostings(keyword string) ([]model.Posting, error) {
	f.calls = append(f.calls, keyword)
	if err := f.errs[keyword]; err != nil {
		return nil, err
	}
	return f.results[keyword], nil
}

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func TestSearchAllKeywordsDedup(t *testing.T) {
	fake := &fakePlatform{
		results: map[string][]model.Posting{
			"golang": {
				{ID: "1", Title: "Go开发", Platform: "fake"},
				{ID: "2", Title: "后端开发", Platform: "fake"},
			},
			"后端": {
				{ID: "2", Title: "后端开发(重复)", Platform: "fake"},
				{ID: "3", Title: "服务端开发", Platform: "fake"},
			},
		},
	}

	postings := SearchAllKeywords(fake, []string{"golang", "后端"}, 0, testLogger())

	if len(fake.calls) != 2 {
		t.Fatalf("搜索调用次数 = %d, 期望 2", len(fake.calls))
	}
	if len(postings) != 3 {
		t.Fatalf("去重后职位数 = %d, 期望 3", len(postings))
	}
	// 重复ID保留先出现的版本
	if postings[1].Title != "后端开发" {
		t.Errorf("重复职位应保留先出现的版本, 实际 %q", postings[1].Title)
	}
	wantIDs := []string{"1", "2", "3"}
	for i, want := range wantIDs {
		if postings[i].ID != want {
			t.Errorf("postings[%d].ID = %q, 期望 %q", i, postings[i].ID, want)
		}
	}
}

func TestSearchAllKeywordsErrorContinues(t *testing.T) {
	fake := &fakePlatform{
		results: map[string][]model.Posting{
			"运维": {{ID: "9", Title: "运维工程师", Platform: "fake"}},
		},
		errs: map[string]error{
			"golang": errors.New("页面超时"),
		},
	}

	postings := SearchAllKeywords(fake, []string{"golang", "运维"}, 0, testLogger())

	if len(postings) != 1 || postings[0].ID != "9" {
		t.Fatalf("单个关键词失败不应中断其余搜索, 实际结果 %v", postings)
	}
}

func TestRenderGreeting(t *testing.T) {
	p := model.Posting{Title: "Go开发工程师", Company: "云帆科技"}

	got := RenderGreeting([]string{"您好，我对{company}的{position}岗位很感兴趣"}, p)
	want := "您好，我对云帆科技的Go开发工程师岗位很感兴趣"
	if got != want {
		t.Errorf("RenderGreeting() = %q, 期望 %q", got, want)
	}

	if got := RenderGreeting(nil, p); got != "" {
		t.Errorf("未配置模板应返回空串, 实际 %q", got)
	}
}

func TestRenderGreetingPicksFromTemplates(t *testing.T) {
	p := model.Posting{Title: "测试工程师", Company: "星河网络"}
	greetings := []string{
		"模板一: {position}",
		"模板二: {company}",
	}

	for i := 0; i < 20; i++ {
		got := RenderGreeting(greetings, p)
		if got != "模板一: 测试工程师" && got != "模板二: 星河网络" {
			t.Fatalf("渲染结果不在模板集合中: %q", got)
		}
		if strings.Contains(got, "{") {
			t.Fatalf("占位符未替换: %q", got)
		}
	}
}
