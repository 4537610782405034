package internal

import "context"

// FieldUnspecified marks a comparison value that is not present in the
// source data. The engine never guesses missing values.
const FieldUnspecified = "unspecified"

type AttributeEntry struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

type ProductRecord struct {
	ID           string           `json:"id"`
	Code         string           `json:"code"`
	Name         string           `json:"name"`
	Manufacturer *string          `json:"manufacturer,omitempty"`
	Description  *string          `json:"description,omitempty"`
	Price        *float64         `json:"price,omitempty"`
	Attributes   []AttributeEntry `json:"attributes,omitempty"`
}

// SearchCriteria is built once per questionnaire completion and treated as
// immutable afterwards. ProductGroups is a union of category-code prefixes.
type SearchCriteria struct {
	ProductGroups []string       `json:"productGroups"`
	Filters       map[string]any `json:"filters"`
}

type CategoryFacet struct {
	Code  string `json:"code"`
	Label string `json:"label"`
	Count int    `json:"count"`
}

type SearchResult struct {
	Products       []ProductRecord `json:"products"`
	Total          int             `json:"total"`
	Page           int             `json:"page"`
	PageSize       int             `json:"pageSize"`
	PageCount      int             `json:"pageCount"`
	CategoryFacets []CategoryFacet `json:"categoryFacets"`
	FeatureFacets  map[string]int  `json:"featureFacets"`
}

// ComparisonField is one row of the dynamically discovered comparison
// schema. Key is stable and normalized, Label is the best human-readable
// variant seen among near-duplicate attribute labels.
type ComparisonField struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Icon  string `json:"icon"`
}

// ExtractedSpec maps ComparisonField.Key to a cleaned value, or
// FieldUnspecified when the item carries no matching attribute.
type ExtractedSpec map[string]string

// Answer is one questionnaire answer. Values are scalars or []string.
// Question IDs with a leading underscore are questionnaire metadata and
// skipped by the criteria builder.
type Answer struct {
	QuestionID string
	Value      any
}

// Explainer is the generative-text collaborator (natural-language product
// explanations, price research). Implementations live outside this module;
// callers may ignore failures.
type Explainer interface {
	Explain(ctx context.Context, product ProductRecord, profile map[string]string) (string, error)
}
