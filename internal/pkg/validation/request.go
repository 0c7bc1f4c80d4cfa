package validation

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"

	"github.com/yigit/materias/internal/app/models"
)

var (
	// Validate checks request DTOs through their `binding` tags.
	Validate   *validator.Validate
	Translator ut.Translator

	// custom validation tags
	notBlankTag = "notblank"
	programTag  = "program"
)

func init() {
	Validate = validator.New()
	Validate.SetTagName("binding")

	_en := en.New()
	uni := ut.New(_en, _en)
	Translator, _ = uni.GetTranslator("en")
	_ = en_translations.RegisterDefaultTranslations(Validate, Translator)

	// Use JSON (or form) tag names for errors instead of Go struct names.
	Validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		tag := fld.Tag.Get("json")
		if tag == "" {
			tag = fld.Tag.Get("form")
		}
		name := strings.SplitN(tag, ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = Validate.RegisterValidation(notBlankTag, notBlankValidation)
	_ = Validate.RegisterValidation(programTag, programValidation)
	registerCustomTranslations(notBlankTag, programTag)
}

// registerCustomTranslations registers messages for the custom tags. The register func is a
// noop because the default translations are already installed.
func registerCustomTranslations(tags ...string) {
	registerFn := func(ut.Translator) error { return nil }
	for _, tag := range tags {
		_ = Validate.RegisterTranslation(tag, Translator, registerFn, translateCustomErrs)
	}
}

func translateCustomErrs(_ ut.Translator, fe validator.FieldError) string {
	switch fe.Tag() {
	case notBlankTag:
		return fe.Field() + " cannot be blank"
	case programTag:
		return fe.Field() + " must be one of the offered programs"
	default:
		return ""
	}
}

func notBlankValidation(fl validator.FieldLevel) bool {
	if str, ok := fl.Field().Interface().(string); ok {
		return strings.TrimSpace(str) != ""
	}
	return false
}

// programValidation accepts an empty value so it can be combined with omitempty-style filters.
func programValidation(fl validator.FieldLevel) bool {
	v := strings.TrimSpace(fl.Field().String())
	return v == "" || models.Program(v).IsValid()
}

// TranslateErrors converts validator errors into a field -> message map.
// It returns nil when err does not come from the validator.
func TranslateErrors(err error) map[string]string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}
	out := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		out[fe.Field()] = fe.Translate(Translator)
	}
	return out
}

// GinValidator plugs Validate into gin's binding package.
type GinValidator struct{}

// ValidateStruct validates structs and pointers to structs; other values pass.
func (GinValidator) ValidateStruct(obj any) error {
	if obj == nil {
		return nil
	}
	val := reflect.ValueOf(obj)
	for val.Kind() == reflect.Ptr {
		if val.IsNil() {
			return nil
		}
		val = val.Elem()
	}
	if val.Kind() != reflect.Struct {
		return nil
	}
	return Validate.Struct(val.Interface())
}

// Engine returns the underlying validator.
func (GinValidator) Engine() any {
	return Validate
}
