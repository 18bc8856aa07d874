package model

// Posting 搜索结果中的单个职位，身份由 (Platform, ID) 唯一确定
type Posting struct {
	ID       string   `json:"job_id"`   //职位ID
	Title    string   `json:"job_name"` //职位名称
	Company  string   `json:"company"`  //公司名字
	Salary   string   `json:"salary"`   //薪资原文
	Location string   `json:"location"` //工作地点
	Tags     []string `json:"tags"`     //职位标签（经验、学历等）
	HrName   string   `json:"hr_name"`  //HR名称
	URL      string   `json:"url"`      //职位链接
	Platform string   `json:"platform"` //平台名称
}

// Key 返回跨平台唯一键
func (p Posting) Key() string {
	return p.Platform + ":" + p.ID
}

// String 实现Stringer接口，用于日志输出
func (p Posting) String() string {
	return "【" + p.Title + ", " + p.Company + ", " + p.Salary + "】"
}
