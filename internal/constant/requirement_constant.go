package constant

const (
	RequirementStatusDraft    = "draft"
	RequirementStatusApproved = "approved"
	RequirementStatusRejected = "rejected"
	RequirementStatusInReview = "in-review"
)

const (
	RequirementCategoryFunctional  = "functional"
	RequirementCategoryPerformance = "performance"
	RequirementCategoryUsability   = "usability"
	RequirementCategorySecurity    = "security"
	RequirementCategoryTechnical   = "technical"
)

const (
	RequirementPriorityMust   = "must"
	RequirementPriorityShould = "should"
	RequirementPriorityCould  = "could"
	RequirementPriorityWont   = "wont"
)

const (
	RequirementMutationReplace = "replace"
	RequirementMutationAppend  = "append"
)
