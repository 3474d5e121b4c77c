package questionnaire

// FieldErrors 字段校验错误：点分路径 → 单条人类可读消息
type FieldErrors map[string]string

// Merge 合并另一组错误，已有路径不覆盖
func (e FieldErrors) Merge(other FieldErrors) FieldErrors {
	for path, msg := range other {
		if _, exists := e[path]; !exists {
			e[path] = msg
		}
	}
	return e
}

// Result 答案校验结果：失败以数据值表示，核心从不抛异常
type Result struct {
	Success     bool
	Value       FieldRecord
	FieldErrors FieldErrors
}

// Succeed 构造成功结果
func Succeed(value FieldRecord) Result {
	return Result{Success: true, Value: value}
}

// Fail 构造失败结果
func Fail(errs FieldErrors) Result {
	return Result{Success: false, FieldErrors: errs}
}
