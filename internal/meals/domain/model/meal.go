package model

import (
	"strings"

	"mealtrack/internal/shared/errors"
)

// Rating is a meal rating on a half-point grid between 1.0 and 5.0.
type Rating float64

// Valid reports whether the rating lies in {1.0, 1.5, ..., 5.0}.
func (r Rating) Valid() bool {
	if r < 1.0 || r > 5.0 {
		return false
	}
	doubled := float64(r) * 2
	return doubled == float64(int64(doubled))
}

// Meal represents one meal record owned by a user.
// Wire field names follow the remote meal service.
type Meal struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Source      string   `json:"source"`
	Ingredients []string `json:"ingredients"`
	LastEaten   *Date    `json:"last_eaten,omitempty"`
	Rating      Rating   `json:"rating"`
	ImageURL    string   `json:"image,omitempty"`
	CreatedBy   string   `json:"created_by,omitempty"`
}

// Clone returns a deep copy so cached state cannot be mutated through
// a projected or snapshotted record.
func (m *Meal) Clone() *Meal {
	if m == nil {
		return nil
	}
	cp := *m
	if m.Ingredients != nil {
		cp.Ingredients = make([]string, len(m.Ingredients))
		copy(cp.Ingredients, m.Ingredients)
	}
	if m.LastEaten != nil {
		d := *m.LastEaten
		cp.LastEaten = &d
	}
	return &cp
}

// Mutable field names accepted by UpdateField and the PATCH endpoint.
const (
	FieldName        = "name"
	FieldSource      = "source"
	FieldIngredients = "ingredients"
	FieldLastEaten   = "last_eaten"
	FieldRating      = "rating"
	FieldImage       = "image"
)

var mutableFields = map[string]struct{}{
	FieldName:        {},
	FieldSource:      {},
	FieldIngredients: {},
	FieldLastEaten:   {},
	FieldRating:      {},
	FieldImage:       {},
}

// IsMutableField reports whether field can be patched on an existing meal.
func IsMutableField(field string) bool {
	_, ok := mutableFields[field]
	return ok
}

// ValidateFieldValue checks a candidate value against the field's domain
// before any optimistic apply or network call.
func ValidateFieldValue(field string, value interface{}) error {
	switch field {
	case FieldName:
		s, ok := value.(string)
		if !ok {
			return errors.NewValidationError("name must be a string")
		}
		if strings.TrimSpace(s) == "" {
			return errors.NewValidationError(errors.ErrEmptyName.Error())
		}
	case FieldSource:
		s, ok := value.(string)
		if !ok {
			return errors.NewValidationError("source must be a string")
		}
		if strings.TrimSpace(s) == "" {
			return errors.NewValidationError(errors.ErrEmptySource.Error())
		}
	case FieldIngredients:
		if _, ok := value.([]string); !ok {
			return errors.NewValidationError("ingredients must be a list of strings")
		}
	case FieldLastEaten:
		switch value.(type) {
		case *Date, Date, nil:
		default:
			return errors.NewValidationError("last_eaten must be a date")
		}
	case FieldRating:
		r, ok := ratingValue(value)
		if !ok {
			return errors.NewValidationError("rating must be numeric")
		}
		if !r.Valid() {
			return errors.NewValidationError(errors.ErrRatingOutOfRange.Error())
		}
	case FieldImage:
		if _, ok := value.(string); !ok {
			return errors.NewValidationError("image must be a URL string")
		}
	default:
		return errors.NewValidationError(errors.ErrUnknownField.Error()).WithDetail("field", field)
	}
	return nil
}

func ratingValue(value interface{}) (Rating, bool) {
	switch v := value.(type) {
	case Rating:
		return v, true
	case float64:
		return Rating(v), true
	case int:
		return Rating(v), true
	}
	return 0, false
}

// FieldValue returns the meal's current value for a mutable field.
// Used to snapshot state before an optimistic apply.
func (m *Meal) FieldValue(field string) interface{} {
	switch field {
	case FieldName:
		return m.Name
	case FieldSource:
		return m.Source
	case FieldIngredients:
		if m.Ingredients == nil {
			return []string(nil)
		}
		cp := make([]string, len(m.Ingredients))
		copy(cp, m.Ingredients)
		return cp
	case FieldLastEaten:
		if m.LastEaten == nil {
			return (*Date)(nil)
		}
		d := *m.LastEaten
		return &d
	case FieldRating:
		return m.Rating
	case FieldImage:
		return m.ImageURL
	}
	return nil
}

// SetField applies a validated value to the meal in place.
func (m *Meal) SetField(field string, value interface{}) error {
	if err := ValidateFieldValue(field, value); err != nil {
		return err
	}
	switch field {
	case FieldName:
		m.Name = value.(string)
	case FieldSource:
		m.Source = value.(string)
	case FieldIngredients:
		m.Ingredients = value.([]string)
	case FieldLastEaten:
		switch v := value.(type) {
		case *Date:
			m.LastEaten = v
		case Date:
			m.LastEaten = &v
		case nil:
			m.LastEaten = nil
		}
	case FieldRating:
		r, _ := ratingValue(value)
		m.Rating = r
	case FieldImage:
		m.ImageURL = value.(string)
	}
	return nil
}

// MealDraft is the payload for creating a new meal. The id is assigned by
// the remote store on confirmation.
type MealDraft struct {
	Name        string   `json:"name"`
	Source      string   `json:"source"`
	Ingredients []string `json:"ingredients"`
	LastEaten   *Date    `json:"last_eaten,omitempty"`
	Rating      Rating   `json:"rating"`
	ImageURL    string   `json:"image,omitempty"`
	CreatedBy   string   `json:"created_by,omitempty"`
}

// Validate checks the draft before any create call is issued.
func (d *MealDraft) Validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return errors.NewValidationError(errors.ErrEmptyName.Error())
	}
	if strings.TrimSpace(d.Source) == "" {
		return errors.NewValidationError(errors.ErrEmptySource.Error())
	}
	if !d.Rating.Valid() {
		return errors.NewValidationError(errors.ErrRatingOutOfRange.Error())
	}
	return nil
}

// Meal builds the transient optimistic record held in the cache while the
// create round-trip is in flight.
func (d *MealDraft) Meal(localID string) *Meal {
	m := &Meal{
		ID:          localID,
		Name:        d.Name,
		Source:      d.Source,
		Rating:      d.Rating,
		ImageURL:    d.ImageURL,
		CreatedBy:   d.CreatedBy,
		LastEaten:   d.LastEaten,
		Ingredients: d.Ingredients,
	}
	return m.Clone()
}
