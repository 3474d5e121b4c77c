// Package investorprofile 投资者概况表的步骤定义
// 生成摘要：
// 1) 步骤一个人信息，含嵌套 JSON → 扁平遗留键 → 遗留数据库列的三级回退
// 2) 步骤二账户类型判别字段门控的分支组（共同持有/信托/托管）
// 3) 步骤三受托联系人（拒绝单选门控）、步骤四投资概况、步骤五签名
package investorprofile

import (
	"github.com/wyfcoding/clientonboarding/internal/questionnaire"
)

// FormID 表单标识
const FormID = "investor-profile"

// 账户类型选项
var primaryAccountTypeKeys = []string{"individual", "joint", "trust", "custodial"}

// Steps 返回表单全部步骤的 schema，按呈现顺序排列
func Steps() []*questionnaire.StepSchema {
	return []*questionnaire.StepSchema{
		step1(),
		step2(),
		step3(),
		step4(),
		step5(),
	}
}

func step1() *questionnaire.StepSchema {
	return &questionnaire.StepSchema{
		Form: FormID,
		Step: "step1",
		Questions: []questionnaire.QuestionSchema{
			{
				ID: "step1.personalInfo",
				Fields: []questionnaire.FieldSpec{
					{Key: "firstName", Kind: questionnaire.KindText, Required: true, Fallbacks: []string{"legacyFirstName"}},
					{Key: "lastName", Kind: questionnaire.KindText, Required: true, Fallbacks: []string{"legacyLastName"}},
					{Key: "email", Kind: questionnaire.KindText, Required: true, Format: questionnaire.FormatEmail},
					{Key: "phone", Kind: questionnaire.KindText, Required: true, Format: questionnaire.FormatPhone},
					{Key: "dateOfBirth", Kind: questionnaire.KindDate, Required: true, NonFuture: true},
					{Key: "countryOfCitizenship", Kind: questionnaire.KindText, Required: true, Format: questionnaire.FormatCountry, Fallbacks: []string{"citizenshipCountry"}},
				},
			},
			{
				ID: "step1.advisor",
				Fields: []questionnaire.FieldSpec{
					// 从顾问上下文预填，用户已录入的值不被覆盖
					{Key: "rrName", Kind: questionnaire.KindText, Required: true},
					{Key: "rrNumber", Kind: questionnaire.KindText},
				},
			},
		},
	}
}

func step2() *questionnaire.StepSchema {
	return &questionnaire.StepSchema{
		Form: FormID,
		Step: "step2",
		Questions: []questionnaire.QuestionSchema{
			{
				ID: "step2.primaryAccountType",
				Fields: []questionnaire.FieldSpec{
					{Key: "primaryAccountType", Kind: questionnaire.KindBoolSingle, Keys: primaryAccountTypeKeys},
				},
			},
			{
				ID:          "step2.jointOwner",
				VisibleWhen: accountTypeIs("joint"),
				Fields: []questionnaire.FieldSpec{
					{Key: "jointOwnerName", Kind: questionnaire.KindText, RequiredIf: accountTypeIs("joint")},
					{Key: "jointOwnerRelationship", Kind: questionnaire.KindText, RequiredIf: accountTypeIs("joint")},
				},
			},
			{
				ID:          "step2.trustDetails",
				VisibleWhen: accountTypeIs("trust"),
				Fields: []questionnaire.FieldSpec{
					{Key: "trustName", Kind: questionnaire.KindText, RequiredIf: accountTypeIs("trust")},
					{Key: "trustEstablishmentDate", Kind: questionnaire.KindDate, RequiredIf: accountTypeIs("trust"), NonFuture: true},
				},
			},
			{
				ID:          "step2.custodialDetails",
				VisibleWhen: accountTypeIs("custodial"),
				Fields: []questionnaire.FieldSpec{
					{Key: "custodialMinorName", Kind: questionnaire.KindText, RequiredIf: accountTypeIs("custodial")},
					{Key: "custodialGifts", Kind: questionnaire.KindList, Elem: []questionnaire.FieldSpec{
						{Key: "donorName", Kind: questionnaire.KindText, Required: true},
						{Key: "amount", Kind: questionnaire.KindAmount, Required: true},
						{Key: "giftDate", Kind: questionnaire.KindDate, NonFuture: true},
					}},
				},
			},
		},
		Sanitize: sanitizeStep2,
	}
}

// sanitizeStep2 账户类型切换后清除此前类型专属的字段
func sanitizeStep2(f questionnaire.FieldRecord) questionnaire.FieldRecord {
	if !f.Flag("primaryAccountType", "joint") {
		f["jointOwnerName"] = ""
		f["jointOwnerRelationship"] = ""
	}
	if !f.Flag("primaryAccountType", "trust") {
		f["trustName"] = ""
		f["trustEstablishmentDate"] = ""
	}
	if !f.Flag("primaryAccountType", "custodial") {
		f["custodialMinorName"] = ""
		f["custodialGifts"] = []questionnaire.FieldRecord{}
	}
	return f
}

func step3() *questionnaire.StepSchema {
	declinedContact := func(f questionnaire.FieldRecord, _ questionnaire.Context) bool {
		return f.Flag("declineTrustedContact", "no")
	}
	return &questionnaire.StepSchema{
		Form: FormID,
		Step: "step3",
		Questions: []questionnaire.QuestionSchema{
			{
				ID: "step3.trustedContactDecision",
				Fields: []questionnaire.FieldSpec{
					{Key: "declineTrustedContact", Kind: questionnaire.KindBoolSingle, Keys: []string{"yes", "no"}},
				},
			},
			{
				ID:          "step3.trustedContactDetails",
				VisibleWhen: declinedContact,
				Fields: []questionnaire.FieldSpec{
					{Key: "trustedContactName", Kind: questionnaire.KindText, RequiredIf: declinedContact},
					{Key: "trustedContactPhone", Kind: questionnaire.KindText, Format: questionnaire.FormatPhone, RequiredIf: declinedContact},
					{Key: "trustedContactEmail", Kind: questionnaire.KindText, Format: questionnaire.FormatEmail},
				},
			},
		},
		Sanitize: func(f questionnaire.FieldRecord) questionnaire.FieldRecord {
			if f.Flag("declineTrustedContact", "yes") {
				f["trustedContactName"] = ""
				f["trustedContactPhone"] = ""
				f["trustedContactEmail"] = ""
			}
			return f
		},
	}
}

func step4() *questionnaire.StepSchema {
	return &questionnaire.StepSchema{
		Form: FormID,
		Step: "step4",
		Questions: []questionnaire.QuestionSchema{
			{
				ID: "step4.investmentProfile",
				Fields: []questionnaire.FieldSpec{
					{Key: "investmentObjectives", Kind: questionnaire.KindBoolMulti, Keys: []string{"income", "growth", "speculation", "preservation"}},
					{Key: "riskTolerance", Kind: questionnaire.KindBoolSingle, Keys: []string{"conservative", "moderate", "aggressive"}},
					{Key: "investmentExperienceYears", Kind: questionnaire.KindAmount},
				},
			},
		},
	}
}

func step5() *questionnaire.StepSchema {
	jointSignatureRequired := func(_ questionnaire.FieldRecord, ctx questionnaire.Context) bool {
		return ctx.RequiresJointOwnerSignature
	}
	return &questionnaire.StepSchema{
		Form: FormID,
		Step: "step5",
		Questions: []questionnaire.QuestionSchema{
			{
				ID: "step5.signatures",
				Fields: []questionnaire.FieldSpec{
					{Key: "clientSignature", Kind: questionnaire.KindSignature, Required: true},
					{Key: "jointOwnerSignature", Kind: questionnaire.KindSignature, OptionalBlock: true, RequiredIf: jointSignatureRequired},
				},
			},
		},
	}
}

// accountTypeIs 账户类型判别谓词
func accountTypeIs(option string) questionnaire.Condition {
	return func(f questionnaire.FieldRecord, _ questionnaire.Context) bool {
		return f.Flag("primaryAccountType", option)
	}
}
