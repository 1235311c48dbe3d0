package model

// ElementType is the closed set of survey item types the editor supports.
type ElementType string

const (
	ElementInfoText        ElementType = "INFO_TEXT"
	ElementFreeResponse    ElementType = "FREE_RESPONSE"
	ElementEssay           ElementType = "ESSAY"
	ElementMultipleChoice  ElementType = "MULTIPLE_CHOICE"
	ElementMatrixOfChoices ElementType = "MATRIX_OF_CHOICES"
	ElementSliderBar       ElementType = "SLIDER_BAR"
	ElementTrueFalse       ElementType = "TRUE_FALSE"
	ElementRatingScale     ElementType = "RATING_SCALE"
)

// Valid reports whether the element type is one the editor knows how to build.
func (t ElementType) Valid() bool {
	switch t {
	case ElementInfoText, ElementFreeResponse, ElementEssay,
		ElementMultipleChoice, ElementMatrixOfChoices, ElementSliderBar,
		ElementTrueFalse, ElementRatingScale:
		return true
	}
	return false
}

// ResponseType is the kind of input a free response field accepts.
type ResponseType string

const (
	ResponseNumeric  ResponseType = "NUMERIC"
	ResponseFreeText ResponseType = "FREE_TEXT"
)

// Element is one item on a survey page. Type-specific data lives in the
// Properties bag under well-known keys.
type Element struct {
	ID         string         `json:"id" bson:"id"`
	Type       ElementType    `json:"type" bson:"type"`
	Text       string         `json:"text" bson:"text"`
	Properties ItemProperties `json:"properties" bson:"properties"`
}

// BankQuestion is a standalone question stored in the question bank so it can
// be reused across surveys.
type BankQuestion struct {
	ID         string         `json:"id" bson:"_id,omitempty"`
	OwnerID    string         `json:"ownerId" bson:"ownerId"`
	Type       ElementType    `json:"type" bson:"type"`
	Text       string         `json:"text" bson:"text"`
	Properties ItemProperties `json:"properties" bson:"properties"`
}
