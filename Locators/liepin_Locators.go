package locators

/**
 * 猎聘网页元素定位器
 */

// 登录入口，出现则说明Cookie已失效
const LIEPIN_LOGIN_BTN = `.login-btn, .btn-login, [data-nick="登录"]`

// 职位卡片候选选择器，新版页面结构在前
var LIEPIN_JOB_CARDS = []string{
	".job-card-pc-container",
	".job-list-box .job-card",
	`[class*="job-card"]`,
	".job-detail-box",
}

// 卡片内职位链接候选
var LIEPIN_JOB_LINKS = []string{
	"a.ellipsis-1",
	".job-title-box a",
	`a[href*="/job/"]`,
}

// 兜底方案：整页扫描职位链接
const LIEPIN_JOB_LINK_FALLBACK = `a[href*="/job/"]`

// 薪资
const LIEPIN_SALARY = `.job-salary, .salary, span[class*="salary"]`

// 公司名称
const LIEPIN_COMPANY = `.company-name a, .company-name, a[href*="/company/"]`

// 工作地点
const LIEPIN_LOCATION = `.job-dq, .area, [class*="city"]`

/**
 * 职位详情页与聊天
 */

// 投递按钮候选选择器，文本匹配的兜底扫描在适配器内完成
var LIEPIN_APPLY_BUTTONS = []string{
	".job-apply-btn",
	".btn-chat",
}

// 聊天输入框候选选择器
var LIEPIN_CHAT_INPUTS = []string{
	".chat-input textarea",
	".message-input textarea",
	".im-input textarea",
	`textarea[placeholder*="输入"]`,
}

// 发送按钮候选选择器
var LIEPIN_SEND_BUTTONS = []string{
	".send-btn",
	".btn-send",
}
