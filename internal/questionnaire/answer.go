package questionnaire

// ValidateAnswer 校验某个问题的单条新答案
// 未知问题 ID 返回通用字段错误而非崩溃；失败以 Result 数据值表示
func (s *StepSchema) ValidateAnswer(questionID string, rawAnswer any, ctx Context) Result {
	return s.ValidateAnswerAgainst(nil, questionID, rawAnswer, ctx)
}

// ValidateAnswerAgainst 校验新答案，条件判定基于已有记录叠加归一化答案后的合并视图
// 用于需要参考此前答案的判别字段（例如此前已选定的账户类型）
func (s *StepSchema) ValidateAnswerAgainst(fields FieldRecord, questionID string, rawAnswer any, ctx Context) Result {
	q, ok := s.Question(questionID)
	if !ok {
		return Fail(FieldErrors{questionID: MsgUnsupportedQuestion})
	}

	var rawMap map[string]any
	switch v := rawAnswer.(type) {
	case map[string]any:
		rawMap = v
	case FieldRecord:
		rawMap = map[string]any(v)
	case nil:
		rawMap = map[string]any{}
	default:
		return Fail(FieldErrors{questionID: MsgInvalidPayload})
	}

	fragment := normalizeAnswer(q, rawMap)

	view := fields.Clone()
	for k, v := range fragment {
		view[k] = v
	}

	if errs := validateQuestion(q, view, rawMap, ctx); len(errs) > 0 {
		return Fail(errs)
	}
	return Succeed(fragment)
}

// ApplyAnswer 将已通过校验的答案合并进字段记录
// 深拷贝后写入，再整体重跑归一化与清理
// 不变式：记录中绝不残留已不再选中分支的数据，靠重算保证而非差量清除
func (s *StepSchema) ApplyAnswer(fields FieldRecord, questionID string, value FieldRecord, ctx Context) FieldRecord {
	merged := fields.Clone()
	for k, v := range value {
		merged[k] = cloneValue(v)
	}
	return s.Normalize(map[string]any(merged), ctx)
}
