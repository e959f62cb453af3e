package models

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/dmitrijs2005/steamkeeper/internal/common"
)

var validate = validator.New()

// Validate checks the fields a user can type in by hand: the SteamID64 must
// be 17 digits and the email a valid address, both only when set. Imported
// records are not validated; the batch format accepts empty fields.
func (a Account) Validate() error {
	err := validate.Struct(a)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", common.ErrValidation, err)
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Field(), fe.Tag()))
	}
	return fmt.Errorf("%w: %s", common.ErrValidation, strings.Join(msgs, "; "))
}
