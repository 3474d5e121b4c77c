package questionnaire

// GroupKind 字段组类型
type GroupKind string

const (
	KindText       GroupKind = "TEXT"        // 自由文本
	KindAmount     GroupKind = "AMOUNT"      // 非负金额
	KindDate       GroupKind = "DATE"        // ISO 日期 YYYY-MM-DD
	KindBool       GroupKind = "BOOL"        // 单个布尔确认项
	KindBoolSingle GroupKind = "BOOL_SINGLE" // 布尔映射，恰好选一项
	KindBoolMulti  GroupKind = "BOOL_MULTI"  // 布尔映射，至少选一项
	KindSignature  GroupKind = "SIGNATURE"   // 签名块 {typedSignature, printedName, date}
	KindList       GroupKind = "LIST"        // 重复子记录列表
)

// TextFormat 文本字段格式约束
type TextFormat string

const (
	FormatNone    TextFormat = ""
	FormatEmail   TextFormat = "EMAIL"
	FormatPhone   TextFormat = "PHONE"
	FormatCountry TextFormat = "COUNTRY" // 两位大写字母国家码
)

// Context 跨表单的外部上下文：预填值、遗留列回退、外部派生标志
type Context struct {
	// 预填值，仅写入仍为空的目标字段
	Prefill map[string]string
	// 遗留数据库列的值，按字段键索引，作为回退链的最后一环
	Legacy map[string]any
	// 由另一表单的账户类型派生：是否要求共同持有人签名
	RequiresJointOwnerSignature bool
}

// Condition 基于当前字段状态与外部上下文的谓词
type Condition func(fields FieldRecord, ctx Context) bool

// FieldSpec 单个字段的声明式描述
type FieldSpec struct {
	// 字段键
	Key string
	// 字段组类型
	Kind GroupKind
	// 是否必填（文本/日期/金额/确认项/列表）
	Required bool
	// 条件必填；返回 false 时跳过该字段的全部校验
	RequiredIf Condition
	// 文本格式约束
	Format TextFormat
	// 布尔映射的选项键集合
	Keys []string
	// 日期不得晚于今天（UTC 零点比较）
	NonFuture bool
	// 签名块允许三项全空（全有或全无语义）
	OptionalBlock bool
	// 列表元素的字段描述
	Elem []FieldSpec
	// 归一化时的回退键链：按序取第一个非空的原始键（嵌套 JSON → 扁平遗留键）
	Fallbacks []string
}

// QuestionSchema 单个问题：一个稳定的点分 ID 绑定一组字段
type QuestionSchema struct {
	// 稳定问题 ID，如 step1.orderBasics
	ID string
	// 问题绑定的字段集合
	Fields []FieldSpec
	// 可见性谓词；nil 表示静态可见
	VisibleWhen Condition
	// 跨字段自定义校验，在通用字段校验之后执行
	// view 为当前记录叠加归一化后答案的合并视图
	Validate func(view FieldRecord, ctx Context) FieldErrors
}

// StepSchema 表单步骤：有序问题列表加步骤级清理规则
type StepSchema struct {
	// 表单标识
	Form string
	// 步骤标识
	Step string
	// 有序问题列表
	Questions []QuestionSchema
	// 清理规则：当判别字段切换后清除不再相关的分支数据
	// 在每次归一化与答案应用之后重新执行，保证记录中不残留失效分支的数据
	Sanitize func(fields FieldRecord) FieldRecord
}

// Question 按 ID 查找问题
func (s *StepSchema) Question(id string) (*QuestionSchema, bool) {
	for i := range s.Questions {
		if s.Questions[i].ID == id {
			return &s.Questions[i], true
		}
	}
	return nil, false
}
