package errs

import (
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

var validate *validator.Validate
var translator ut.Translator

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())
	translator, _ = ut.New(en.New(), en.New()).GetTranslator("en")
	en_translations.RegisterDefaultTranslations(validate, translator)

	//use json tag names instead of struct field names
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		tag := field.Tag.Get("json")
		name := strings.SplitN(tag, ",", 2)[0]

		if name == "-" {
			return ""
		}
		return name
	})
}

// Check runs struct validation against the value and returns per-field
// messages, nil when the value is valid.
func Check(value any) map[string]string {
	if err := validate.Struct(value); err != nil {
		verrors, ok := err.(validator.ValidationErrors)
		if !ok {
			return map[string]string{"err": err.Error()}
		}

		fieldErrs := make(map[string]string, len(verrors))
		for _, e := range verrors {
			fieldErrs[e.Field()] = e.Translate(translator)
		}

		return fieldErrs
	}

	return nil
}
