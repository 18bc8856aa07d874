package filter

import (
	"strings"

	"github.com/sirupsen/logrus"

	"auto_apply_go/config"
	"auto_apply_go/model"
	"auto_apply_go/storage"
	"auto_apply_go/utils"
)

// Filter 投递前置过滤器，依据簿记状态和过滤配置裁决职位
type Filter struct {
	cfg   *config.FilterConfig
	store *storage.Store
	log   *logrus.Logger
}

// New 创建过滤器
func New(cfg *config.FilterConfig, store *storage.Store, logger *logrus.Logger) *Filter {
	return &Filter{cfg: cfg, store: store, log: logger}
}

// FilterPostings 过滤职位列表，保留应投递的职位
func (f *Filter) FilterPostings(postings []model.Posting) []model.Posting {
	kept := make([]model.Posting, 0, len(postings))
	for _, p := range postings {
		if f.ShouldApply(p) {
			kept = append(kept, p)
		}
	}
	f.log.Infof("过滤完成: %d -> %d 个职位", len(postings), len(kept))
	return kept
}

// ShouldApply 判断是否应该投递该职位
// 按顺序短路求值，任一条件不满足即拒绝
func (f *Filter) ShouldApply(p model.Posting) bool {
	// 1. 已投递过
	if f.store.IsApplied(p.Key()) {
		f.log.Debugf("跳过已投递职位: %s - %s", p.Title, p.Company)
		return false
	}

	// 2. 公司在持久黑名单
	if f.store.IsCompanyBlacklisted(p.Company) {
		f.log.Debugf("跳过黑名单公司: %s", p.Company)
		return false
	}

	// 3. HR在持久黑名单
	if p.HrName != "" && f.store.IsHrBlacklisted(p.HrName) {
		f.log.Debugf("跳过黑名单HR: %s - %s", p.HrName, p.Company)
		return false
	}

	// 4. 公司名包含黑名单关键词
	for _, kw := range f.cfg.CompanyKeywordBlacklist {
		if kw != "" && strings.Contains(p.Company, kw) {
			f.log.Debugf("跳过公司名包含 %q: %s", kw, p.Company)
			return false
		}
	}

	// 5. 公司在配置黑名单
	if utils.ContainsString(f.cfg.CompanyBlacklist, p.Company) {
		f.log.Debugf("跳过配置黑名单公司: %s", p.Company)
		return false
	}

	// 6. 薪资范围
	if !f.salaryAdmissible(p.Salary) {
		f.log.Debugf("跳过薪资不达标职位: %s - %s", p.Title, p.Salary)
		return false
	}

	// 7. 必须包含的关键词 / 8. 必须排除的关键词
	text := strings.ToLower(p.Title + " " + strings.Join(p.Tags, " "))
	for _, kw := range f.cfg.MustInclude {
		if !strings.Contains(text, strings.ToLower(kw)) {
			f.log.Debugf("跳过不包含关键词 %q: %s", kw, p.Title)
			return false
		}
	}
	for _, kw := range f.cfg.MustExclude {
		if kw != "" && strings.Contains(text, strings.ToLower(kw)) {
			f.log.Debugf("跳过包含排除词 %q: %s", kw, p.Title)
			return false
		}
	}

	return true
}

// salaryAdmissible 薪资条件：解析失败放行，解析成功则下限与上限都需达标
func (f *Filter) salaryAdmissible(salaryText string) bool {
	sr := ParseSalary(salaryText)
	if sr == nil {
		return true
	}
	return sr.LowK >= f.cfg.MinSalaryStart && sr.HighK >= f.cfg.MinSalaryMax
}
