package sfc

import (
	"github.com/shopspring/decimal"
	"github.com/wyfcoding/clientonboarding/internal/questionnaire"
)

// Step1Totals 步骤一的衍生合计
type Step1Totals struct {
	TotalLiquidAssets             decimal.Decimal `json:"totalLiquidAssets"`
	TotalIlliquidAssets           decimal.Decimal `json:"totalIlliquidAssets"`
	TotalQualifiedAssets          decimal.Decimal `json:"totalQualifiedAssets"`
	TotalLiabilities              decimal.Decimal `json:"totalLiabilities"`
	TotalAssetsLessPrimaryResidence decimal.Decimal `json:"totalAssetsLessPrimaryResidence"`
	TotalNetWorth                 decimal.Decimal `json:"totalNetWorth"`
}

// GetStep1Totals 基于归一化后的步骤一记录计算合计
// 纯函数，每次读取时重算而非缓存
func GetStep1Totals(fields questionnaire.FieldRecord) Step1Totals {
	liquid := sumAmounts(fields, liquidAssetKeys)
	illiquid := sumAmounts(fields, illiquidAssetKeys)
	qualified := sumAmounts(fields, qualifiedKeys)
	liabilities := sumAmounts(fields, liabilityKeys)

	totalAssets := liquid.Add(illiquid).Add(qualified)
	primaryResidence := decimal.NewFromFloat(fields.Amount("primaryResidence"))

	return Step1Totals{
		TotalLiquidAssets:               liquid,
		TotalIlliquidAssets:             illiquid,
		TotalQualifiedAssets:            qualified,
		TotalLiabilities:                liabilities,
		TotalAssetsLessPrimaryResidence: totalAssets.Sub(primaryResidence),
		TotalNetWorth:                   totalAssets.Sub(liabilities),
	}
}

func sumAmounts(fields questionnaire.FieldRecord, keys []string) decimal.Decimal {
	total := decimal.Zero
	for _, key := range keys {
		total = total.Add(decimal.NewFromFloat(fields.Amount(key)))
	}
	return total
}
