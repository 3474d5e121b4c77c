package questionnaire

// ApplyPrefill 将跨表单预填值合并进字段记录
// 只写入仍为空的目标文本字段，绝不覆盖用户已录入的值
func ApplyPrefill(fields FieldRecord, prefill map[string]string) FieldRecord {
	if len(prefill) == 0 {
		return fields
	}
	out := fields.Clone()
	for key, val := range prefill {
		if val == "" {
			continue
		}
		// 仅针对文本字段：目标存在非字符串值时不做预填
		if existing, ok := out[key]; ok {
			if s, isStr := existing.(string); !isStr || s != "" {
				continue
			}
		}
		out[key] = val
	}
	return out
}
