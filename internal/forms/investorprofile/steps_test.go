package investorprofile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wyfcoding/clientonboarding/internal/questionnaire"
)

func stepByID(t *testing.T, stepID string) *questionnaire.StepSchema {
	t.Helper()
	for _, s := range Steps() {
		if s.Step == stepID {
			return s
		}
	}
	t.Fatalf("step %s not found", stepID)
	return nil
}

func TestPersonalInfoFallbacks(t *testing.T) {
	s := stepByID(t, "step1")

	t.Run("nested key wins over flat legacy key", func(t *testing.T) {
		fields := s.Normalize(map[string]any{
			"firstName":       "Ada",
			"legacyFirstName": "Augusta",
		}, questionnaire.Context{})
		assert.Equal(t, "Ada", fields.String("firstName"))
	})

	t.Run("flat legacy key wins over legacy database column", func(t *testing.T) {
		ctx := questionnaire.Context{Legacy: map[string]any{"firstName": "FromColumn"}}
		fields := s.Normalize(map[string]any{"legacyFirstName": "Augusta"}, ctx)
		assert.Equal(t, "Augusta", fields.String("firstName"))
	})

	t.Run("legacy database column is the last resort", func(t *testing.T) {
		ctx := questionnaire.Context{Legacy: map[string]any{
			"firstName":            "FromColumn",
			"countryOfCitizenship": "gb",
		}}
		fields := s.Normalize(map[string]any{}, ctx)
		assert.Equal(t, "FromColumn", fields.String("firstName"))
		assert.Equal(t, "GB", fields.String("countryOfCitizenship"))
	})

	t.Run("citizenship falls back through its flat legacy key", func(t *testing.T) {
		fields := s.Normalize(map[string]any{"citizenshipCountry": "us"}, questionnaire.Context{})
		assert.Equal(t, "US", fields.String("countryOfCitizenship"))
	})

	t.Run("invalid email and birth dates are rejected", func(t *testing.T) {
		res := s.ValidateAnswer("step1.personalInfo", map[string]any{
			"firstName":            "Ada",
			"lastName":             "Lovelace",
			"email":                "not-an-email",
			"phone":                "+1 555 123 4567",
			"dateOfBirth":          "2023-02-30",
			"countryOfCitizenship": "GB",
		}, questionnaire.Context{})
		require.False(t, res.Success)
		assert.Equal(t, questionnaire.MsgInvalidEmail, res.FieldErrors["step1.personalInfo.email"])
		assert.Equal(t, questionnaire.MsgInvalidDate, res.FieldErrors["step1.personalInfo.dateOfBirth"])
	})
}

func TestAdvisorPrefill(t *testing.T) {
	s := stepByID(t, "step1")
	fields := s.Normalize(map[string]any{"rrName": ""}, questionnaire.Context{})

	out := questionnaire.ApplyPrefill(fields, map[string]string{"rrName": "Morgan Reed"})
	assert.Equal(t, "Morgan Reed", out.String("rrName"))

	fields["rrName"] = "Typed By User"
	out = questionnaire.ApplyPrefill(fields, map[string]string{"rrName": "Morgan Reed"})
	assert.Equal(t, "Typed By User", out.String("rrName"))
}

func TestAccountTypeBranches(t *testing.T) {
	s := stepByID(t, "step2")

	t.Run("only the selected branch is visible", func(t *testing.T) {
		fields := s.Normalize(map[string]any{"primaryAccountType": map[string]any{"trust": true}}, questionnaire.Context{})
		assert.Equal(t,
			[]string{"step2.primaryAccountType", "step2.trustDetails"},
			s.VisibleQuestionIDs(fields, questionnaire.Context{}))
	})

	t.Run("switching account type clears the previous branch", func(t *testing.T) {
		fields := s.Normalize(map[string]any{
			"primaryAccountType":     map[string]any{"trust": true},
			"trustName":              "Lovelace Family Trust",
			"trustEstablishmentDate": "2015-06-01",
		}, questionnaire.Context{})
		require.Equal(t, "2015-06-01", fields.String("trustEstablishmentDate"))

		updated := s.ApplyAnswer(fields, "step2.primaryAccountType",
			questionnaire.FieldRecord{"primaryAccountType": map[string]bool{"individual": true}},
			questionnaire.Context{})
		assert.Equal(t, "", updated.String("trustName"))
		assert.Equal(t, "", updated.String("trustEstablishmentDate"))
	})

	t.Run("joint branch fields required once joint is selected", func(t *testing.T) {
		fields := s.Normalize(map[string]any{"primaryAccountType": map[string]any{"joint": true}}, questionnaire.Context{})
		errs := s.ValidateCompletion(fields, questionnaire.Context{})
		assert.Equal(t, questionnaire.MsgRequired, errs["step2.jointOwner.jointOwnerName"])
		assert.Equal(t, questionnaire.MsgRequired, errs["step2.jointOwner.jointOwnerRelationship"])
	})

	t.Run("custodial gifts normalize as a filtered list", func(t *testing.T) {
		fields := s.Normalize(map[string]any{
			"primaryAccountType": map[string]any{"custodial": true},
			"custodialMinorName": "Sam",
			"custodialGifts": []any{
				map[string]any{"donorName": "", "amount": float64(0)},
				map[string]any{"donorName": "Alex", "amount": float64(250), "giftDate": "2024-01-10"},
			},
		}, questionnaire.Context{})
		gifts := fields.List("custodialGifts")
		require.Len(t, gifts, 1)
		assert.Equal(t, "Alex", gifts[0].String("donorName"))
	})
}

func TestTrustedContactDecision(t *testing.T) {
	s := stepByID(t, "step3")

	t.Run("empty decline map fails exactly-one", func(t *testing.T) {
		res := s.ValidateAnswer("step3.trustedContactDecision", map[string]any{
			"declineTrustedContact": map[string]any{"yes": false, "no": false},
		}, questionnaire.Context{})
		require.False(t, res.Success)
		assert.Equal(t, "Select exactly one option.", res.FieldErrors["step3.trustedContactDecision.declineTrustedContact"])
	})

	t.Run("declining clears any captured contact details", func(t *testing.T) {
		fields := s.Normalize(map[string]any{
			"declineTrustedContact": map[string]any{"no": true},
			"trustedContactName":    "Grace Hopper",
			"trustedContactPhone":   "+1 555 987 6543",
		}, questionnaire.Context{})
		require.Equal(t, "Grace Hopper", fields.String("trustedContactName"))

		updated := s.ApplyAnswer(fields, "step3.trustedContactDecision",
			questionnaire.FieldRecord{"declineTrustedContact": map[string]bool{"yes": true, "no": false}},
			questionnaire.Context{})
		assert.Equal(t, "", updated.String("trustedContactName"))
		assert.Equal(t, "", updated.String("trustedContactPhone"))
	})
}

func TestInvestmentProfile(t *testing.T) {
	s := stepByID(t, "step4")

	t.Run("objectives require at least one selection", func(t *testing.T) {
		res := s.ValidateAnswer("step4.investmentProfile", map[string]any{
			"investmentObjectives": map[string]any{},
			"riskTolerance":        map[string]any{"moderate": true},
		}, questionnaire.Context{})
		require.False(t, res.Success)
		assert.Equal(t, questionnaire.MsgSelectAtLeastOne, res.FieldErrors["step4.investmentProfile.investmentObjectives"])
	})

	t.Run("multiple objectives are allowed", func(t *testing.T) {
		res := s.ValidateAnswer("step4.investmentProfile", map[string]any{
			"investmentObjectives": map[string]any{"income": true, "growth": true},
			"riskTolerance":        map[string]any{"moderate": true},
		}, questionnaire.Context{})
		assert.True(t, res.Success)
	})
}
