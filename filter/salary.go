package filter

import (
	"regexp"
	"strconv"
	"strings"
)

// SalaryRange 解析后的月薪范围（单位：K）
type SalaryRange struct {
	LowK  int
	HighK int
}

var (
	monthsRegex = regexp.MustCompile(`[·\.\-]?([0-9]+)薪`)
	rangeRegex  = regexp.MustCompile(`(\d+)-(\d+)`)
	singleRegex = regexp.MustCompile(`(\d+)`)
)

// ParseSalary 解析薪资文本，如 "20-50K"、"15-20k·13薪"、"30K"
// 空串、"面议" 等不含数字的文本无法解析，返回 nil
func ParseSalary(salary string) *SalaryRange {
	s := strings.TrimSpace(salary)
	if s == "" || strings.Contains(s, "面议") {
		return nil
	}

	// 去掉 "·13薪" 一类的月数后缀
	if loc := monthsRegex.FindStringIndex(s); loc != nil {
		s = s[:loc[0]]
	}

	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, "k", "")
	s = strings.ReplaceAll(s, " ", "")

	if m := rangeRegex.FindStringSubmatch(s); len(m) > 2 {
		low, err1 := strconv.Atoi(m[1])
		high, err2 := strconv.Atoi(m[2])
		if err1 == nil && err2 == nil {
			return &SalaryRange{LowK: low, HighK: high}
		}
	}
	if m := singleRegex.FindStringSubmatch(s); len(m) > 1 {
		if val, err := strconv.Atoi(m[1]); err == nil {
			return &SalaryRange{LowK: val, HighK: val}
		}
	}
	return nil
}
