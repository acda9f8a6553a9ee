package api

import (
	"fmt"

	"github.com/autoscheduler/autoscheduler/internal/coursecard"
	"github.com/autoscheduler/autoscheduler/internal/domain"
	"github.com/autoscheduler/autoscheduler/internal/domain/sorting"
)

// CourseCardResponse is one card together with its slot index.
type CourseCardResponse struct {
	Index int `json:"index"`
	*domain.CourseCardOptions
}

// CourseCardsResponse lists a session's cards in index order.
type CourseCardsResponse struct {
	NumCardsCreated int                  `json:"num_cards_created"`
	Cards           []CourseCardResponse `json:"cards"`
}

// AddCourseCardRequest holds a new card's initial settings. Sections come
// from a fetch, never from the client.
type AddCourseCardRequest struct {
	coursecard.CourseCardUpdate
}

// Validate implements the self-validation hook used by shared.ValidateRequest.
func (r *AddCourseCardRequest) Validate() error {
	if r.Sections != nil {
		return fmt.Errorf("%w: a new card cannot carry sections", domain.ErrInvalidFormat)
	}
	return r.CourseCardUpdate.Validate()
}

// UpdateCourseCardRequest is a partial card update. SelectedCRNs, when
// present, replaces the card's selection.
type UpdateCourseCardRequest struct {
	coursecard.CourseCardUpdate
	SelectedCRNs []int `json:"selected_crns,omitempty"`
}

// Validate implements the self-validation hook used by shared.ValidateRequest.
func (r *UpdateCourseCardRequest) Validate() error {
	if r.Sections != nil {
		return fmt.Errorf("%w: select sections with selected_crns", domain.ErrInvalidFormat)
	}
	return r.CourseCardUpdate.Validate()
}

// SortRequest changes a card's sort. A missing direction selects the sort
// type's default direction.
type SortRequest struct {
	SortType      string `json:"sort_type" validate:"required"`
	SortDirection *bool  `json:"sort_direction,omitempty"`
}

// ReplaceCourseCardsRequest restores a saved card list.
type ReplaceCourseCardsRequest struct {
	Term  string                               `json:"term,omitempty" validate:"omitempty,len=6,numeric"`
	Cards []domain.SerializedCourseCardOptions `json:"cards" validate:"max=64"`
}

// Validate implements the self-validation hook used by shared.ValidateRequest.
func (r *ReplaceCourseCardsRequest) Validate() error {
	return validateSerializedCards(r.Cards)
}

// SaveCoursesRequest saves cards for a term. Without Cards, the session's
// current cards are saved.
type SaveCoursesRequest struct {
	Term  string                               `json:"term,omitempty" validate:"omitempty,len=6,numeric"`
	Cards []domain.SerializedCourseCardOptions `json:"cards,omitempty" validate:"max=64"`
}

// Validate implements the self-validation hook used by shared.ValidateRequest.
func (r *SaveCoursesRequest) Validate() error {
	return validateSerializedCards(r.Cards)
}

func validateSerializedCards(cards []domain.SerializedCourseCardOptions) error {
	for i := range cards {
		if err := cards[i].Validate(); err != nil {
			return fmt.Errorf("cards[%d]: %w", i, err)
		}
	}
	return nil
}

// GroupedSectionsResponse is a card's sections grouped by instructor.
type GroupedSectionsResponse struct {
	Index  int                       `json:"index"`
	Groups []sorting.InstructorGroup `json:"groups"`
}

// AddCourseCardResponse reports the slot a new card went into.
type AddCourseCardResponse struct {
	Index int `json:"index"`
}

// LastTermResponse is the term the session last picked.
type LastTermResponse struct {
	Term string `json:"term"`
}

// PageTestResponse reports the layout variant assigned to the session.
type PageTestResponse struct {
	Layout string `json:"layout"`
}

// SavedCoursesResponse holds the saved cards for a term.
type SavedCoursesResponse struct {
	Term  string                               `json:"term"`
	Cards []domain.SerializedCourseCardOptions `json:"cards"`
}

func newCourseCardsResponse(a coursecard.CourseCardArray) CourseCardsResponse {
	resp := CourseCardsResponse{
		NumCardsCreated: a.NumCardsCreated,
		Cards:           make([]CourseCardResponse, 0, len(a.Cards)),
	}
	for _, i := range a.Indices() {
		resp.Cards = append(resp.Cards, CourseCardResponse{Index: i, CourseCardOptions: a.Cards[i]})
	}
	return resp
}
