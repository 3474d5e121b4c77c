package questionnaire

import "strings"

// Normalize 将任意持久化 JSON 归一化为完整的类型安全字段记录
// 永不失败：缺失或畸形的输入退化为字段组默认值（空串、全 false 映射、0、空列表）
// 随后执行步骤级 Sanitize，清除失效分支残留的数据
func (s *StepSchema) Normalize(raw map[string]any, ctx Context) FieldRecord {
	out := FieldRecord{}
	for qi := range s.Questions {
		q := &s.Questions[qi]
		for fi := range q.Fields {
			spec := &q.Fields[fi]
			out[spec.Key] = normalizeField(spec, resolveRaw(spec, raw, ctx))
		}
	}
	return s.sanitize(out)
}

// normalizeAnswer 归一化单个问题的答案片段（永不失败）
func normalizeAnswer(q *QuestionSchema, raw map[string]any) FieldRecord {
	out := FieldRecord{}
	for fi := range q.Fields {
		spec := &q.Fields[fi]
		out[spec.Key] = normalizeField(spec, raw[spec.Key])
	}
	return out
}

func (s *StepSchema) sanitize(fields FieldRecord) FieldRecord {
	if s.Sanitize != nil {
		return s.Sanitize(fields)
	}
	return fields
}

// resolveRaw 解析字段的原始值，按回退链取第一个非空来源：
// 主键 → 扁平遗留键 → 遗留数据库列（ctx.Legacy）
func resolveRaw(spec *FieldSpec, raw map[string]any, ctx Context) any {
	if raw != nil {
		if v, ok := raw[spec.Key]; ok && !isEmptyRaw(v) {
			return v
		}
		for _, fb := range spec.Fallbacks {
			if v, ok := raw[fb]; ok && !isEmptyRaw(v) {
				return v
			}
		}
	}
	if v, ok := ctx.Legacy[spec.Key]; ok && !isEmptyRaw(v) {
		return v
	}
	if raw == nil {
		return nil
	}
	return raw[spec.Key]
}

// isEmptyRaw 回退链意义上的"空"：nil 或纯空白字符串
func isEmptyRaw(v any) bool {
	if v == nil {
		return true
	}
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s) == ""
	}
	return false
}

func normalizeField(spec *FieldSpec, raw any) any {
	switch spec.Kind {
	case KindText:
		return normalizeText(raw, spec.Format)
	case KindAmount:
		return NormalizeAmount(raw)
	case KindDate:
		return normalizeText(raw, FormatNone)
	case KindBool:
		b, _ := raw.(bool)
		return b
	case KindBoolSingle, KindBoolMulti:
		return CreateBooleanMap(spec.Keys, raw)
	case KindSignature:
		return normalizeSignature(raw)
	case KindList:
		return normalizeList(spec, raw)
	default:
		return nil
	}
}

func normalizeText(raw any, format TextFormat) string {
	s, ok := raw.(string)
	if !ok {
		return ""
	}
	s = strings.TrimSpace(s)
	if format == FormatCountry {
		s = strings.ToUpper(s)
	}
	return s
}

func normalizeSignature(raw any) FieldRecord {
	var src FieldRecord
	switch v := raw.(type) {
	case FieldRecord:
		src = v
	case map[string]any:
		src = FieldRecord(v)
	default:
		src = FieldRecord{}
	}
	return FieldRecord{
		"typedSignature": normalizeText(src["typedSignature"], FormatNone),
		"printedName":    normalizeText(src["printedName"], FormatNone),
		"date":           normalizeText(src["date"], FormatNone),
	}
}

// normalizeList 归一化重复列表：逐项按元素 schema 归一化，过滤掉全空条目
func normalizeList(spec *FieldSpec, raw any) []FieldRecord {
	var items []FieldRecord
	switch v := raw.(type) {
	case []FieldRecord:
		items = v
	case []any:
		for _, item := range v {
			switch m := item.(type) {
			case FieldRecord:
				items = append(items, m)
			case map[string]any:
				items = append(items, FieldRecord(m))
			}
		}
	default:
		return []FieldRecord{}
	}

	out := make([]FieldRecord, 0, len(items))
	for _, item := range items {
		entry := FieldRecord{}
		for ei := range spec.Elem {
			elem := &spec.Elem[ei]
			entry[elem.Key] = normalizeField(elem, item[elem.Key])
		}
		if !isEmptyEntry(spec.Elem, entry) {
			out = append(out, entry)
		}
	}
	return out
}

// isEmptyEntry 条目是否全部为零值（此类条目在归一化时被过滤）
func isEmptyEntry(specs []FieldSpec, entry FieldRecord) bool {
	for i := range specs {
		spec := &specs[i]
		switch spec.Kind {
		case KindText, KindDate:
			if entry.String(spec.Key) != "" {
				return false
			}
		case KindAmount:
			if entry.Amount(spec.Key) != 0 {
				return false
			}
		case KindBool:
			if entry.Bool(spec.Key) {
				return false
			}
		case KindBoolSingle, KindBoolMulti:
			if CountTrueFlags(entry.BoolMap(spec.Key)) > 0 {
				return false
			}
		}
	}
	return true
}
