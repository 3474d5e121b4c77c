package questionnaire

// ValidateCompletion 完成度校验：对当前可见的全部问题重跑校验
// 返回点分路径到错误消息的映射，空映射即步骤可标记完成
// 与可见性推导共用同一套分支判定，被隐藏的问题组不参与完成度要求
func (s *StepSchema) ValidateCompletion(fields FieldRecord, ctx Context) FieldErrors {
	errs := FieldErrors{}
	for i := range s.Questions {
		q := &s.Questions[i]
		if q.VisibleWhen != nil && !q.VisibleWhen(fields, ctx) {
			continue
		}
		errs.Merge(validateQuestion(q, fields, nil, ctx))
	}
	return errs
}
