// Package questionnaire 问卷步骤引擎
// 生成摘要：
// 1) 声明式问题组 schema（单选/多选布尔映射、文本、金额、日期、签名块、重复列表）
// 2) 归一化、可见性推导、答案校验与应用、完成度校验均为纯函数
package questionnaire

// FieldRecord 表单步骤的字段记录，以动态 JSON 结构存储
// 归一化之后的取值类型：string、float64、bool、map[string]bool、FieldRecord（签名块）、[]FieldRecord（列表）
type FieldRecord map[string]any

// String 读取字符串字段，类型不符时返回空串
func (f FieldRecord) String(key string) string {
	if s, ok := f[key].(string); ok {
		return s
	}
	return ""
}

// Amount 读取金额字段，类型不符时返回 0
func (f FieldRecord) Amount(key string) float64 {
	switch v := f[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	}
	return 0
}

// Bool 读取布尔字段，仅字面量 true 生效
func (f FieldRecord) Bool(key string) bool {
	b, _ := f[key].(bool)
	return b
}

// BoolMap 读取布尔选择映射，兼容未归一化的 map[string]any 形态
func (f FieldRecord) BoolMap(key string) map[string]bool {
	switch v := f[key].(type) {
	case map[string]bool:
		return v
	case map[string]any:
		m := make(map[string]bool, len(v))
		for k, raw := range v {
			if b, ok := raw.(bool); ok {
				m[k] = b
			}
		}
		return m
	}
	return map[string]bool{}
}

// Flag 读取布尔选择映射中某个选项的值
func (f FieldRecord) Flag(key, option string) bool {
	return f.BoolMap(key)[option]
}

// Block 读取嵌套块（签名块），兼容 map[string]any 形态
func (f FieldRecord) Block(key string) FieldRecord {
	switch v := f[key].(type) {
	case FieldRecord:
		return v
	case map[string]any:
		return FieldRecord(v)
	}
	return FieldRecord{}
}

// List 读取重复列表，兼容 []any 形态
func (f FieldRecord) List(key string) []FieldRecord {
	switch v := f[key].(type) {
	case []FieldRecord:
		return v
	case []any:
		out := make([]FieldRecord, 0, len(v))
		for _, item := range v {
			if m, ok := item.(map[string]any); ok {
				out = append(out, FieldRecord(m))
			}
		}
		return out
	}
	return nil
}

// Clone 深拷贝字段记录
func (f FieldRecord) Clone() FieldRecord {
	if f == nil {
		return FieldRecord{}
	}
	out := make(FieldRecord, len(f))
	for k, v := range f {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch val := v.(type) {
	case FieldRecord:
		return val.Clone()
	case map[string]any:
		return FieldRecord(val).Clone()
	case map[string]bool:
		m := make(map[string]bool, len(val))
		for k, b := range val {
			m[k] = b
		}
		return m
	case []FieldRecord:
		out := make([]FieldRecord, len(val))
		for i, item := range val {
			out[i] = item.Clone()
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = cloneValue(item)
		}
		return out
	default:
		return v
	}
}
