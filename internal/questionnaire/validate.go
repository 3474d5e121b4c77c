package questionnaire

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// 校验错误消息
const (
	MsgRequired            = "This field is required."
	MsgSelectExactlyOne    = "Select exactly one option."
	MsgSelectAtLeastOne    = "Select at least one option."
	MsgInvalidDate         = "Enter a valid date in YYYY-MM-DD format."
	MsgFutureDate          = "Date cannot be in the future."
	MsgInvalidAmount       = "Enter a valid non-negative amount."
	MsgInvalidEmail        = "Enter a valid email address."
	MsgInvalidPhone        = "Enter a valid phone number."
	MsgInvalidCountry      = "Enter a valid two-letter country code."
	MsgEntryRequired       = "At least one entry is required."
	MsgUnsupportedQuestion = "Unsupported onboarding question."
	MsgInvalidPayload      = "Invalid answer payload."
)

// DateLayout ISO 日期布局
const DateLayout = "2006-01-02"

var (
	dateRegexp    = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	emailRegexp   = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phoneRegexp   = regexp.MustCompile(`^[+\d()\-.\s]{7,20}$`)
	countryRegexp = regexp.MustCompile(`^[A-Z]{2}$`)
)

// IsValidDate 日历日期有效性：正则匹配、UTC 零点解析、往返相等三者同时成立
// 往返相等排除 2023-02-30 之类会被宽松解析器滚动到下月的输入
func IsValidDate(s string) bool {
	if !dateRegexp.MatchString(s) {
		return false
	}
	t, err := time.ParseInLocation(DateLayout, s, time.UTC)
	if err != nil {
		return false
	}
	return t.Format(DateLayout) == s
}

// IsFutureDate 日期是否晚于今天；今天与"现在"均截断到 UTC 零点比较，等于今天不算未来
func IsFutureDate(s string) bool {
	t, err := time.ParseInLocation(DateLayout, s, time.UTC)
	if err != nil {
		return false
	}
	now := time.Now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return t.After(today)
}

// IsValidEmail 邮箱格式校验
func IsValidEmail(s string) bool {
	return emailRegexp.MatchString(s)
}

// IsValidPhone 电话格式校验
func IsValidPhone(s string) bool {
	return phoneRegexp.MatchString(s)
}

// IsValidCountryCode 两位大写字母国家码校验
func IsValidCountryCode(s string) bool {
	return countryRegexp.MatchString(s)
}

// NormalizeAmount 金额宽容归一化：nil/空串 → 0；数字字符串解析；非有限或负值 → 0
// 归一化永不失败，严格性留给 HasInvalidAmountInput
func NormalizeAmount(v any) float64 {
	switch val := v.(type) {
	case nil:
		return 0
	case float64:
		if math.IsNaN(val) || math.IsInf(val, 0) || val < 0 {
			return 0
		}
		return val
	case float32:
		return NormalizeAmount(float64(val))
	case int:
		return NormalizeAmount(float64(val))
	case int64:
		return NormalizeAmount(float64(val))
	case string:
		trimmed := strings.TrimSpace(val)
		if trimmed == "" {
			return 0
		}
		parsed, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			return 0
		}
		return NormalizeAmount(parsed)
	default:
		return 0
	}
}

// HasInvalidAmountInput 判断输入是否应当作为金额错误上报
// 与归一化刻意不对称：空输入合法（默认 0），而负数、非数字字符串等
// 会被归一化静默置零的输入在校验新答案时必须报错
func HasInvalidAmountInput(v any) bool {
	switch val := v.(type) {
	case nil:
		return false
	case float64:
		return math.IsNaN(val) || math.IsInf(val, 0) || val < 0
	case float32:
		return HasInvalidAmountInput(float64(val))
	case int:
		return val < 0
	case int64:
		return val < 0
	case string:
		trimmed := strings.TrimSpace(val)
		if trimmed == "" {
			return false
		}
		parsed, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			return true
		}
		return math.IsNaN(parsed) || math.IsInf(parsed, 0) || parsed < 0
	case bool:
		return true
	default:
		// 非空的结构化垃圾输入
		return true
	}
}

// validateQuestion 对单个问题的全部字段执行通用校验
// view 为当前记录（完成度校验）或记录叠加归一化答案的合并视图（答案校验）
// rawAnswer 仅在校验新答案时非 nil，用于上报归一化会静默吞掉的金额错误
func validateQuestion(q *QuestionSchema, view FieldRecord, rawAnswer map[string]any, ctx Context) FieldErrors {
	errs := FieldErrors{}

	for i := range q.Fields {
		spec := &q.Fields[i]
		path := q.ID + "." + spec.Key

		conditionMet := spec.RequiredIf == nil || spec.RequiredIf(view, ctx)

		// 签名块在条件不满足时仍保留全有或全无校验，其余字段组整体跳过
		if !conditionMet && spec.Kind != KindSignature {
			continue
		}
		required := spec.Required || (spec.RequiredIf != nil && conditionMet)

		switch spec.Kind {
		case KindText:
			validateText(errs, path, view.String(spec.Key), required, spec.Format)

		case KindAmount:
			if rawAnswer != nil && HasInvalidAmountInput(rawAnswer[spec.Key]) {
				errs[path] = MsgInvalidAmount
			} else if required && view.Amount(spec.Key) <= 0 {
				errs[path] = MsgRequired
			}

		case KindDate:
			validateDate(errs, path, view.String(spec.Key), required, spec.NonFuture)

		case KindBool:
			if required && !view.Bool(spec.Key) {
				errs[path] = MsgRequired
			}

		case KindBoolSingle:
			if CountTrueFlags(CreateBooleanMap(spec.Keys, view[spec.Key])) != 1 {
				errs[path] = MsgSelectExactlyOne
			}

		case KindBoolMulti:
			if CountTrueFlags(CreateBooleanMap(spec.Keys, view[spec.Key])) < 1 {
				errs[path] = MsgSelectAtLeastOne
			}

		case KindSignature:
			optional := spec.OptionalBlock && !required
			validateSignature(errs, path, view.Block(spec.Key), optional)

		case KindList:
			validateList(errs, path, view.List(spec.Key), spec, required)
		}
	}

	if q.Validate != nil {
		errs.Merge(q.Validate(view, ctx))
	}

	return errs
}

func validateText(errs FieldErrors, path, val string, required bool, format TextFormat) {
	if val == "" {
		if required {
			errs[path] = MsgRequired
		}
		return
	}
	switch format {
	case FormatEmail:
		if !IsValidEmail(val) {
			errs[path] = MsgInvalidEmail
		}
	case FormatPhone:
		if !IsValidPhone(val) {
			errs[path] = MsgInvalidPhone
		}
	case FormatCountry:
		if !IsValidCountryCode(val) {
			errs[path] = MsgInvalidCountry
		}
	}
}

func validateDate(errs FieldErrors, path, val string, required, nonFuture bool) {
	if val == "" {
		if required {
			errs[path] = MsgRequired
		}
		return
	}
	if !IsValidDate(val) {
		errs[path] = MsgInvalidDate
		return
	}
	if nonFuture && IsFutureDate(val) {
		errs[path] = MsgFutureDate
	}
}

// validateSignature 签名块校验：全有或全无
// 全空视为未触碰（仅限可选块），否则三项全部必填且日期有效、不得晚于今天
func validateSignature(errs FieldErrors, path string, block FieldRecord, optional bool) {
	typed := strings.TrimSpace(block.String("typedSignature"))
	printed := strings.TrimSpace(block.String("printedName"))
	date := strings.TrimSpace(block.String("date"))

	if optional && typed == "" && printed == "" && date == "" {
		return
	}

	if typed == "" {
		errs[path+".typedSignature"] = MsgRequired
	}
	if printed == "" {
		errs[path+".printedName"] = MsgRequired
	}
	validateDate(errs, path+".date", date, true, true)
}

func validateList(errs FieldErrors, path string, entries []FieldRecord, spec *FieldSpec, required bool) {
	if required && len(entries) == 0 {
		errs[path] = MsgEntryRequired
		return
	}
	for i, entry := range entries {
		for j := range spec.Elem {
			elem := &spec.Elem[j]
			entryPath := path + "." + strconv.Itoa(i) + "." + elem.Key
			switch elem.Kind {
			case KindText:
				validateText(errs, entryPath, entry.String(elem.Key), elem.Required, elem.Format)
			case KindAmount:
				if elem.Required && entry.Amount(elem.Key) <= 0 {
					errs[entryPath] = MsgRequired
				}
			case KindDate:
				validateDate(errs, entryPath, entry.String(elem.Key), elem.Required, elem.NonFuture)
			case KindBool:
				if elem.Required && !entry.Bool(elem.Key) {
					errs[entryPath] = MsgRequired
				}
			}
		}
	}
}
