package model

import "time"

// SurveyType mirrors the dialog options an author picks when creating a
// survey. Only the scored types carry a SurveyScorer.
type SurveyType string

const (
	SurveyCollectInfo       SurveyType = "COLLECT_INFO_NOT_SCORED"
	SurveyCollectInfoScored SurveyType = "COLLECT_INFO_SCORED"
	SurveyAssessLearner     SurveyType = "ASSESS_LEARNER_STATIC"
	SurveyQuestionBank      SurveyType = "QUESTION_BANK"
)

// Scored reports whether surveys of this type carry scoring rules.
func (t SurveyType) Scored() bool {
	return t == SurveyCollectInfoScored || t == SurveyAssessLearner
}

// Page is one page of survey elements, shown to respondents in order.
type Page struct {
	Name     string    `json:"name" bson:"name"`
	Elements []Element `json:"elements" bson:"elements"`
}

// Survey is the persisted authoring document.
type Survey struct {
	ID        string        `json:"id" bson:"_id,omitempty"`
	OwnerID   string        `json:"ownerId" bson:"ownerId"`
	Name      string        `json:"name" bson:"name"`
	Type      SurveyType    `json:"type" bson:"type"`
	Pages     []Page        `json:"pages" bson:"pages"`
	Scorer    *SurveyScorer `json:"scorer,omitempty" bson:"scorer,omitempty"`
	CreatedAt time.Time     `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt" bson:"updatedAt"`
}

// Element returns the element with the given id, searching every page.
func (s *Survey) Element(id string) *Element {
	for pi := range s.Pages {
		for ei := range s.Pages[pi].Elements {
			if s.Pages[pi].Elements[ei].ID == id {
				return &s.Pages[pi].Elements[ei]
			}
		}
	}
	return nil
}
