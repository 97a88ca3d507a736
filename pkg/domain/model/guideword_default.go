package model

import "github.com/secmon-lab/riskscope/pkg/domain/types"

var defaultGuidewords = []Guideword{
	{
		Category:    types.GuidewordCategoryData,
		Name:        "Coverage",
		Description: "Training data does not sufficiently cover the target domain",
		Example:     "A vision model trained only on daytime images is used at night",
	},
	{
		Category:    types.GuidewordCategoryData,
		Name:        "Distribution Shift",
		Description: "Data distribution differs between training and operation",
		Example:     "Customer behavior changes after a new product launch",
	},
	{
		Category:    types.GuidewordCategoryData,
		Name:        "Discrimination and Bias",
		Description: "Data contains social biases",
		Example:     "Historical hiring data under-represents some groups",
	},
	{
		Category:    types.GuidewordCategoryData,
		Name:        "Copyright",
		Description: "Training data has copyright issues",
		Example:     "Scraped articles are used without a license",
	},
	{
		Category:    types.GuidewordCategoryData,
		Name:        "Sensitive Information",
		Description: "Data contains personal or confidential information",
		Example:     "Support tickets with customer addresses are used for fine-tuning",
	},
	{
		Category:    types.GuidewordCategoryModel,
		Name:        "Lack of Safety Consideration",
		Description: "Insufficient consideration of safety or ethics",
		Example:     "A chatbot gives medical advice without caveats",
	},
	{
		Category:    types.GuidewordCategoryModel,
		Name:        "Exception Handling",
		Description: "Unexpected inputs are not handled adequately",
		Example:     "A form parser crashes on handwritten entries",
	},
	{
		Category:    types.GuidewordCategoryModel,
		Name:        "Spurious Patterns",
		Description: "The model overfits to noise or irrelevant data",
		Example:     "A classifier keys on image watermarks instead of content",
	},
	{
		Category:    types.GuidewordCategoryModel,
		Name:        "Fairness",
		Description: "Results are unfair to specific groups",
		Example:     "Loan approval rates differ by postal code",
	},
	{
		Category:    types.GuidewordCategoryOperation,
		Name:        "Misuse",
		Description: "The system is used for unintended purposes",
		Example:     "A summarization tool is used to generate fake reviews",
	},
	{
		Category:    types.GuidewordCategoryOperation,
		Name:        "Human Oversight",
		Description: "Human supervision is insufficient",
		Example:     "Automated decisions are never reviewed by an operator",
	},
	{
		Category:    types.GuidewordCategoryOperation,
		Name:        "Reputational Damage",
		Description: "Loss of trust in the service",
		Example:     "An offensive output is shared widely on social media",
	},
	{
		Category:    types.GuidewordCategoryOperation,
		Name:        "Fundamental Rights Infringement",
		Description: "Violation of human rights or privacy",
		Example:     "Face recognition is used for covert surveillance",
	},
}

// DefaultGuidewords returns a copy of the built-in guideword list
func DefaultGuidewords() []Guideword {
	out := make([]Guideword, len(defaultGuidewords))
	copy(out, defaultGuidewords)
	return out
}

// DefaultGuidewordCatalog returns a catalog built from the built-in list
func DefaultGuidewordCatalog() *GuidewordCatalog {
	c, err := NewGuidewordCatalog(defaultGuidewords)
	if err != nil {
		panic(err)
	}
	return c
}
