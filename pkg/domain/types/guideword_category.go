package types

import "github.com/m-mizutani/goerr/v2"

// GuidewordCategory groups guidewords by the part of an AI system they probe
type GuidewordCategory string

const (
	GuidewordCategoryData      GuidewordCategory = "Data"
	GuidewordCategoryModel     GuidewordCategory = "Model"
	GuidewordCategoryOperation GuidewordCategory = "Operation"
)

// AllGuidewordCategories returns all guideword categories in prompt order
func AllGuidewordCategories() []GuidewordCategory {
	return []GuidewordCategory{
		GuidewordCategoryData,
		GuidewordCategoryModel,
		GuidewordCategoryOperation,
	}
}

// IsValid checks if the category is one of the known categories
func (c GuidewordCategory) IsValid() bool {
	switch c {
	case GuidewordCategoryData, GuidewordCategoryModel, GuidewordCategoryOperation:
		return true
	default:
		return false
	}
}

func (c GuidewordCategory) String() string {
	return string(c)
}

// ParseGuidewordCategory parses a string into a GuidewordCategory
func ParseGuidewordCategory(s string) (GuidewordCategory, error) {
	c := GuidewordCategory(s)
	if !c.IsValid() {
		return "", goerr.New("invalid guideword category", goerr.V("category", s))
	}
	return c, nil
}
