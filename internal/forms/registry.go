// Package forms 表单注册表：按表单标识索引各表单的步骤 schema
package forms

import (
	"fmt"

	"github.com/wyfcoding/clientonboarding/internal/forms/accreditation"
	"github.com/wyfcoding/clientonboarding/internal/forms/altinvestment"
	"github.com/wyfcoding/clientonboarding/internal/forms/investorprofile"
	"github.com/wyfcoding/clientonboarding/internal/forms/sfc"
	"github.com/wyfcoding/clientonboarding/internal/questionnaire"
)

// registry 全部已注册表单，键为表单标识
var registry = map[string][]*questionnaire.StepSchema{
	investorprofile.FormID: investorprofile.Steps(),
	sfc.FormID:             sfc.Steps(),
	altinvestment.FormID:   altinvestment.Steps(),
	accreditation.FormID:   accreditation.Steps(),
}

// Lookup 按表单标识取步骤列表
func Lookup(formID string) ([]*questionnaire.StepSchema, error) {
	steps, ok := registry[formID]
	if !ok {
		return nil, fmt.Errorf("unknown onboarding form: %s", formID)
	}
	return steps, nil
}

// LookupStep 按表单标识与步骤标识取单个步骤
func LookupStep(formID, stepID string) (*questionnaire.StepSchema, error) {
	steps, err := Lookup(formID)
	if err != nil {
		return nil, err
	}
	for _, s := range steps {
		if s.Step == stepID {
			return s, nil
		}
	}
	return nil, fmt.Errorf("unknown step %s for form %s", stepID, formID)
}

// FormIDs 返回全部表单标识
func FormIDs() []string {
	ids := make([]string, 0, len(registry))
	for id := range registry {
		ids = append(ids, id)
	}
	return ids
}
