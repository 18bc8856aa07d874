package filter

import (
	"sort"

	"auto_apply_go/model"
)

// RankByPriority 按优先级排序职位，未联系过的HR优先
// 稳定排序：同分职位保持原有顺序
func (f *Filter) RankByPriority(postings []model.Posting) []model.Posting {
	ranked := make([]model.Posting, len(postings))
	copy(ranked, postings)

	sort.SliceStable(ranked, func(i, j int) bool {
		return f.priorityScore(ranked[i]) > f.priorityScore(ranked[j])
	})
	return ranked
}

func (f *Filter) priorityScore(p model.Posting) int {
	score := 0
	if !f.store.HasHrContact(p.HrName) {
		score += 10
	}
	return score
}
