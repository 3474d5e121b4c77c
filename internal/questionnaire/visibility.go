package questionnaire

// VisibleQuestionIDs 计算当前应当呈现的问题 ID 有序列表
// 当前字段状态的确定性纯函数：静态前缀加上由判别字段门控的条件后缀
// 列表永不为空：若所有问题都被隐藏则回退到第一个静态问题
func (s *StepSchema) VisibleQuestionIDs(fields FieldRecord, ctx Context) []string {
	ids := make([]string, 0, len(s.Questions))
	for i := range s.Questions {
		q := &s.Questions[i]
		if q.VisibleWhen == nil || q.VisibleWhen(fields, ctx) {
			ids = append(ids, q.ID)
		}
	}

	if len(ids) == 0 && len(s.Questions) > 0 {
		for i := range s.Questions {
			if s.Questions[i].VisibleWhen == nil {
				return []string{s.Questions[i].ID}
			}
		}
		return []string{s.Questions[0].ID}
	}

	return ids
}

// ClampQuestionIndex 将问题索引收敛到可见列表范围内
// 越界或负值退化为 0（空列表）或收敛到 [0, len-1]
func ClampQuestionIndex(index int, visible []string) int {
	if len(visible) == 0 {
		return 0
	}
	if index < 0 {
		return 0
	}
	if index >= len(visible) {
		return len(visible) - 1
	}
	return index
}
