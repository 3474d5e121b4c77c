// Package sfc 财务状况声明表（Statement of Financial Condition）的步骤定义
// 生成摘要：
// 1) 步骤一资产负债金额矩阵（流动/非流动非合格资产、合格资产、负债）
// 2) 衍生合计使用 decimal 计算，避免浮点漂移
// 3) 步骤二签名
package sfc

import (
	"github.com/wyfcoding/clientonboarding/internal/questionnaire"
)

// FormID 表单标识
const FormID = "statement-of-financial-condition"

// 步骤一各金额组的字段键
var (
	liquidAssetKeys   = []string{"cashMoneyMarketsCds", "brokerageNonManaged", "managedAccounts", "annuities"}
	illiquidAssetKeys = []string{"primaryResidence", "investmentRealEstate", "privateBusiness", "limitedPartnerships"}
	qualifiedKeys     = []string{"retirementAccounts", "pensionValue"}
	liabilityKeys     = []string{"mortgages", "creditCards", "loans", "otherLiabilities"}
)

// Steps 返回表单全部步骤的 schema
func Steps() []*questionnaire.StepSchema {
	return []*questionnaire.StepSchema{
		step1(),
		step2(),
	}
}

func step1() *questionnaire.StepSchema {
	return &questionnaire.StepSchema{
		Form: FormID,
		Step: "step1",
		Questions: []questionnaire.QuestionSchema{
			{ID: "step1.liquidNonQualifiedAssets", Fields: amountFields(liquidAssetKeys)},
			{ID: "step1.illiquidNonQualifiedAssets", Fields: amountFields(illiquidAssetKeys)},
			{ID: "step1.qualifiedAssets", Fields: amountFields(qualifiedKeys)},
			{ID: "step1.liabilities", Fields: amountFields(liabilityKeys)},
		},
	}
}

func step2() *questionnaire.StepSchema {
	return &questionnaire.StepSchema{
		Form: FormID,
		Step: "step2",
		Questions: []questionnaire.QuestionSchema{
			{
				ID: "step2.certification",
				Fields: []questionnaire.FieldSpec{
					{Key: "accuracyCertification", Kind: questionnaire.KindBool, Required: true},
					{Key: "clientSignature", Kind: questionnaire.KindSignature, Required: true},
				},
			},
		},
	}
}

func amountFields(keys []string) []questionnaire.FieldSpec {
	specs := make([]questionnaire.FieldSpec, len(keys))
	for i, key := range keys {
		specs[i] = questionnaire.FieldSpec{Key: key, Kind: questionnaire.KindAmount}
	}
	return specs
}
