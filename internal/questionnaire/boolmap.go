package questionnaire

// CreateBooleanMap 基于选项键集合构建完整布尔映射
// 每个键默认 false，仅当 source 中对应值为字面量布尔时覆盖
func CreateBooleanMap(keys []string, source any) map[string]bool {
	m := make(map[string]bool, len(keys))
	for _, k := range keys {
		m[k] = false
	}

	var src map[string]any
	switch v := source.(type) {
	case map[string]any:
		src = v
	case FieldRecord:
		src = map[string]any(v)
	case map[string]bool:
		for _, k := range keys {
			if b, ok := v[k]; ok {
				m[k] = b
			}
		}
		return m
	default:
		return m
	}

	for _, k := range keys {
		if b, ok := src[k].(bool); ok {
			m[k] = b
		}
	}
	return m
}

// CountTrueFlags 统计布尔映射中为 true 的选项数
func CountTrueFlags(m map[string]bool) int {
	count := 0
	for _, b := range m {
		if b {
			count++
		}
	}
	return count
}
