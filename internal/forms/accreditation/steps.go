// Package accreditation 合格投资者核实表的步骤定义
// 生成摘要：
// 1) 步骤一认定依据多选，依据对应的收入/净资产金额条件必填
// 2) 步骤二核实方式单选与签名（日期不得晚于今天）
package accreditation

import (
	"github.com/wyfcoding/clientonboarding/internal/questionnaire"
)

// FormID 表单标识
const FormID = "accredited-investor"

// Steps 返回表单全部步骤的 schema
func Steps() []*questionnaire.StepSchema {
	return []*questionnaire.StepSchema{
		step1(),
		step2(),
	}
}

func step1() *questionnaire.StepSchema {
	basisSelected := func(option string) questionnaire.Condition {
		return func(f questionnaire.FieldRecord, _ questionnaire.Context) bool {
			return f.Flag("accreditationBasis", option)
		}
	}
	return &questionnaire.StepSchema{
		Form: FormID,
		Step: "step1",
		Questions: []questionnaire.QuestionSchema{
			{
				ID: "step1.accreditationBasis",
				Fields: []questionnaire.FieldSpec{
					{Key: "accreditationBasis", Kind: questionnaire.KindBoolMulti, Keys: []string{"incomeTest", "netWorthTest", "professionalLicense", "entityAccreditation"}},
					{Key: "annualIncome", Kind: questionnaire.KindAmount, RequiredIf: basisSelected("incomeTest")},
					{Key: "netWorthExcludingResidence", Kind: questionnaire.KindAmount, RequiredIf: basisSelected("netWorthTest")},
					{Key: "licenseNumber", Kind: questionnaire.KindText, RequiredIf: basisSelected("professionalLicense")},
				},
			},
		},
		Sanitize: func(f questionnaire.FieldRecord) questionnaire.FieldRecord {
			if !f.Flag("accreditationBasis", "incomeTest") {
				f["annualIncome"] = float64(0)
			}
			if !f.Flag("accreditationBasis", "netWorthTest") {
				f["netWorthExcludingResidence"] = float64(0)
			}
			if !f.Flag("accreditationBasis", "professionalLicense") {
				f["licenseNumber"] = ""
			}
			return f
		},
	}
}

func step2() *questionnaire.StepSchema {
	thirdParty := func(f questionnaire.FieldRecord, _ questionnaire.Context) bool {
		return f.Flag("verificationMethod", "thirdPartyLetter")
	}
	return &questionnaire.StepSchema{
		Form: FormID,
		Step: "step2",
		Questions: []questionnaire.QuestionSchema{
			{
				ID: "step2.verification",
				Fields: []questionnaire.FieldSpec{
					{Key: "verificationMethod", Kind: questionnaire.KindBoolSingle, Keys: []string{"thirdPartyLetter", "documentation"}},
					{Key: "verifierName", Kind: questionnaire.KindText, RequiredIf: thirdParty},
				},
			},
			{
				ID: "step2.signature",
				Fields: []questionnaire.FieldSpec{
					{Key: "clientSignature", Kind: questionnaire.KindSignature, Required: true},
				},
			},
		},
		Sanitize: func(f questionnaire.FieldRecord) questionnaire.FieldRecord {
			if !f.Flag("verificationMethod", "thirdPartyLetter") {
				f["verifierName"] = ""
			}
			return f
		},
	}
}
