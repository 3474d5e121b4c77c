// Package altinvestment 另类投资认购及披露表的步骤定义
// 生成摘要：
// 1) 步骤一订单要素：本金金额、合格账户单选、RMD 认证（条件必填）
// 2) 步骤三其他投资（是/否判别门控的重复列表）
// 3) 步骤四披露确认、步骤五客户与共同持有人签名
package altinvestment

import (
	"github.com/wyfcoding/clientonboarding/internal/questionnaire"
)

// FormID 表单标识
const FormID = "alternative-investment"

// Steps 返回表单全部步骤的 schema
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
	qualifiedYes := func(f questionnaire.FieldRecord, _ questionnaire.Context) bool {
		return f.Flag("qualifiedAccount", "yes")
	}
	return &questionnaire.StepSchema{
		Form: FormID,
		Step: "step1",
		Questions: []questionnaire.QuestionSchema{
			{
				ID: "step1.orderBasics",
				Fields: []questionnaire.FieldSpec{
					{Key: "proposedPrincipalAmount", Kind: questionnaire.KindAmount, Required: true},
					{Key: "qualifiedAccount", Kind: questionnaire.KindBoolSingle, Keys: []string{"yes", "no"}},
					// 合格账户（IRA 等）须确认知晓强制最低提取（RMD）要求
					{Key: "qualifiedAccountRmdCertification", Kind: questionnaire.KindBool, RequiredIf: qualifiedYes},
				},
			},
		},
		Sanitize: func(f questionnaire.FieldRecord) questionnaire.FieldRecord {
			if !f.Flag("qualifiedAccount", "yes") {
				f["qualifiedAccountRmdCertification"] = false
			}
			return f
		},
	}
}

func step2() *questionnaire.StepSchema {
	return &questionnaire.StepSchema{
		Form: FormID,
		Step: "step2",
		Questions: []questionnaire.QuestionSchema{
			{
				ID: "step2.custodianAndProduct",
				Fields: []questionnaire.FieldSpec{
					{Key: "custodianName", Kind: questionnaire.KindText, Required: true},
					{Key: "custodianAccountNumber", Kind: questionnaire.KindText, Required: true},
					{Key: "productName", Kind: questionnaire.KindText, Required: true},
					{Key: "productSponsor", Kind: questionnaire.KindText, Required: true},
				},
			},
		},
	}
}

func step3() *questionnaire.StepSchema {
	hasOther := func(f questionnaire.FieldRecord, _ questionnaire.Context) bool {
		return f.Flag("hasOtherInvestments", "yes")
	}
	return &questionnaire.StepSchema{
		Form: FormID,
		Step: "step3",
		Questions: []questionnaire.QuestionSchema{
			{
				ID: "step3.otherInvestmentsDecision",
				Fields: []questionnaire.FieldSpec{
					{Key: "hasOtherInvestments", Kind: questionnaire.KindBoolSingle, Keys: []string{"yes", "no"}},
				},
			},
			{
				ID:          "step3.otherInvestmentEntries",
				VisibleWhen: hasOther,
				Fields: []questionnaire.FieldSpec{
					{Key: "otherInvestmentEntries", Kind: questionnaire.KindList, RequiredIf: hasOther, Elem: []questionnaire.FieldSpec{
						{Key: "investmentName", Kind: questionnaire.KindText, Required: true},
						{Key: "sponsor", Kind: questionnaire.KindText},
						{Key: "amount", Kind: questionnaire.KindAmount, Required: true},
						{Key: "purchaseDate", Kind: questionnaire.KindDate, NonFuture: true},
					}},
				},
			},
		},
		Sanitize: func(f questionnaire.FieldRecord) questionnaire.FieldRecord {
			// 切换为"无其他投资"后清空列表
			if !f.Flag("hasOtherInvestments", "yes") {
				f["otherInvestmentEntries"] = []questionnaire.FieldRecord{}
			}
			return f
		},
	}
}

func step4() *questionnaire.StepSchema {
	conflictDisclosed := func(f questionnaire.FieldRecord, _ questionnaire.Context) bool {
		return f.Flag("conflictOfInterestSelection", "disclosed")
	}
	return &questionnaire.StepSchema{
		Form: FormID,
		Step: "step4",
		Questions: []questionnaire.QuestionSchema{
			{
				ID: "step4.disclosures",
				Fields: []questionnaire.FieldSpec{
					{Key: "liquidityAcknowledgement", Kind: questionnaire.KindBool, Required: true},
					{Key: "risksAcknowledgement", Kind: questionnaire.KindBool, Required: true},
					{Key: "conflictOfInterestSelection", Kind: questionnaire.KindBoolSingle, Keys: []string{"none", "disclosed"}},
					{Key: "conflictOfInterestDetail", Kind: questionnaire.KindText, RequiredIf: conflictDisclosed},
				},
			},
		},
		Sanitize: func(f questionnaire.FieldRecord) questionnaire.FieldRecord {
			// 控制选项切回"无"后清空披露详情
			if !f.Flag("conflictOfInterestSelection", "disclosed") {
				f["conflictOfInterestDetail"] = ""
			}
			return f
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
					// 是否要求共同持有人签名由投资者概况表的账户类型派生
					{Key: "jointOwnerSignature", Kind: questionnaire.KindSignature, OptionalBlock: true, RequiredIf: jointSignatureRequired},
				},
			},
		},
	}
}
