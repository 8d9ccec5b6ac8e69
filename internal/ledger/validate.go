package ledger

import (
	"fmt"
	"strings"

	"github.com/tally-dev/tally/internal/model"
)

// ValidationError describes one rejected input field.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// CategoryChecker tests whether a category key exists for a transaction type.
type CategoryChecker interface {
	Exists(t model.TransactionType, key string) bool
}

// ValidateInput checks user input before it reaches the store: a non-empty
// name, a positive amount, a known type and a category of that type.
func ValidateInput(in Input, categories CategoryChecker) []ValidationError {
	var errs []ValidationError

	if strings.TrimSpace(in.Name) == "" {
		errs = append(errs, ValidationError{Field: "name", Message: "must not be empty"})
	}

	if !in.Amount.IsPositive() {
		errs = append(errs, ValidationError{
			Field:   "amount",
			Message: fmt.Sprintf("must be greater than zero, got %s", in.Amount),
		})
	}

	switch {
	case !in.Type.Valid():
		errs = append(errs, ValidationError{Field: "type", Message: fmt.Sprintf("unknown type %q", in.Type)})
	case in.Description == "":
		errs = append(errs, ValidationError{Field: "category", Message: "must be selected"})
	case !categories.Exists(in.Type, in.Description):
		errs = append(errs, ValidationError{
			Field:   "category",
			Message: fmt.Sprintf("unknown %s category %q", in.Type, in.Description),
		})
	}

	return errs
}

// JoinErrors folds validation errors into a single error, or nil.
func JoinErrors(errs []ValidationError) error {
	if len(errs) == 0 {
		return nil
	}
	msgs := make([]string, len(errs))
	for i, e := range errs {
		msgs[i] = e.Error()
	}
	return fmt.Errorf("invalid transaction: %s", strings.Join(msgs, "; "))
}

// InputOf returns the editable fields of t.
func InputOf(t model.Transaction) Input {
	return Input{
		Date:        t.Date,
		Name:        t.Name,
		Description: t.Description,
		Amount:      t.Amount,
		Type:        t.Type,
	}
}
