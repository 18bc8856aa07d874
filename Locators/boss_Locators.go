package locators

/**
 * Boss直聘网页元素定位器
 * 集中管理所有页面元素的定位表达式
 */

// 登录入口，出现则说明Cookie已失效
const BOSS_LOGIN_BTN = ".btn-sign"

/**
 * 搜索结果页
 */
// 职位卡片
const BOSS_JOB_CARD = ".job-card-wrap"
// 职位名称链接，href中携带职位ID
const BOSS_JOB_NAME = ".job-name"
// 薪资
const BOSS_JOB_SALARY = ".job-salary"
// 公司名称
const BOSS_COMPANY_NAME = ".boss-name"
// 工作地点
const BOSS_COMPANY_LOCATION = ".company-location"
// 职位标签（经验、学历等）
const BOSS_TAG_LIST = ".tag-list li"

/**
 * 职位详情页与聊天
 */
// 立即沟通/继续沟通按钮
const BOSS_CHAT_BUTTON = ".btn-startchat"

// 聊天输入框候选选择器，按顺序尝试
var BOSS_CHAT_INPUTS = []string{
	".chat-input textarea",
	".message-input textarea",
	"#chat-input",
	"textarea.input-area",
}

// 发送按钮候选选择器
var BOSS_SEND_BUTTONS = []string{
	".btn-send",
	".send-btn",
}
