package http

import (
	"encoding/json"
	"reflect"
	"strings"

	"github.com/google/uuid"

	"github.com/mrrabbitte/pooly/common"

	"github.com/gofiber/fiber/v2"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	en2 "github.com/go-playground/validator/translations/en"

	"gopkg.in/go-playground/validator.v9"
)

// DecodeHandlerFunc is a handler which works with withBody decorator.
// It receives a struct which was decoded by withBody decorator before.
// Ex: json -> withBody -> DecodeHandlerFunc.
type DecodeHandlerFunc func(p any, c *fiber.Ctx) error

// PayloadContextValue is a wrapper type used to keep Context.Locals safe.
type PayloadContextValue string

// ConstructorFunc representing a constructor of any type.
type ConstructorFunc func() any

// decoderHandler decodes payload coming from requests.
type decoderHandler struct {
	handler      DecodeHandlerFunc
	constructor  ConstructorFunc
	structSource any
}

func newOfType(s any) any {
	t := reflect.TypeOf(s)
	v := reflect.New(t.Elem())

	return v.Interface()
}

// FiberHandlerFunc decodes the incoming request's body to a Go struct, rejects
// fields the struct doesn't recognize, validates it, then calls the wrapped handler.
func (d *decoderHandler) FiberHandlerFunc(c *fiber.Ctx) error {
	var s any

	if d.constructor != nil {
		s = d.constructor()
	} else {
		s = newOfType(d.structSource)
	}

	bodyBytes := c.Body()

	if err := json.Unmarshal(bodyBytes, s); err != nil {
		return err
	}

	marshaled, err := json.Marshal(s)
	if err != nil {
		return err
	}

	var originalMap, marshaledMap map[string]any

	if err := json.Unmarshal(bodyBytes, &originalMap); err != nil {
		return err
	}

	if err := json.Unmarshal(marshaled, &marshaledMap); err != nil {
		return err
	}

	unknownFields := make(UnknownFields)

	for key, value := range originalMap {
		if _, ok := marshaledMap[key]; !ok {
			unknownFields[key] = value
		}
	}

	if len(unknownFields) > 0 {
		return BadRequest(c, ValidationUnknownFieldsError{
			Title:         "Unknown Fields",
			Code:          "0001",
			Message:       "request body carries fields not recognized by this endpoint",
			Fields:        unknownFields,
			CorrelationID: c.Get(headerCorrelationID),
		})
	}

	if err := ValidateStruct(s); err != nil {
		if knownFieldsErr, ok := err.(ValidationKnownFieldsError); ok {
			knownFieldsErr.CorrelationID = c.Get(headerCorrelationID)

			return BadRequest(c, knownFieldsErr)
		}

		return BadRequest(c, err)
	}

	return d.handler(s, c)
}

// WithDecode wraps a handler function, providing it with a struct instance created using the provided constructor function.
func WithDecode(c ConstructorFunc, h DecodeHandlerFunc) fiber.Handler {
	d := &decoderHandler{
		handler:     h,
		constructor: c,
	}

	return d.FiberHandlerFunc
}

// WithBody wraps a handler function, providing it with an instance of the specified struct.
func WithBody(s any, h DecodeHandlerFunc) fiber.Handler {
	d := &decoderHandler{
		handler:      h,
		structSource: s,
	}

	return d.FiberHandlerFunc
}

// SetBodyInContext is a higher-order function that wraps a Fiber handler, injecting the decoded body into the request context.
func SetBodyInContext(handler fiber.Handler) DecodeHandlerFunc {
	return func(s any, c *fiber.Ctx) error {
		c.Locals(string(PayloadContextValue("payload")), s)
		return handler(c)
	}
}

// GetPayloadFromContext retrieves the decoded request payload from the Fiber context.
func GetPayloadFromContext(c *fiber.Ctx) any {
	return c.Locals(string(PayloadContextValue("payload")))
}

// ValidateStruct validates a struct against defined validation rules, using the validator package.
func ValidateStruct(s any) error {
	v, trans := newValidator()

	k := reflect.ValueOf(s).Kind()
	if k == reflect.Ptr {
		k = reflect.ValueOf(s).Elem().Kind()
	}

	if k != reflect.Struct {
		return nil
	}

	if err := v.Struct(s); err != nil {
		validationErrors, ok := err.(validator.ValidationErrors)
		if !ok {
			return err
		}

		return malformedRequestErr(validationErrors, trans)
	}

	return nil
}

// ParseUUIDPathParameters parses all path parameters as UUIDs, storing the parsed
// value back into the fiber context locals under the same parameter name.
func ParseUUIDPathParameters(c *fiber.Ctx) error {
	params := c.AllParams()

	var invalidUUIDs []string

	for param, value := range params {
		parsedUUID, err := uuid.Parse(value)
		if err != nil {
			invalidUUIDs = append(invalidUUIDs, param)
			continue
		}

		c.Locals(param, parsedUUID)
	}

	if len(invalidUUIDs) > 0 {
		return BadRequest(c, ValidationKnownFieldsError{
			Title:         "Invalid Path Parameter",
			Code:          "0002",
			Message:       "path parameter is not a valid UUID: " + strings.Join(invalidUUIDs, ", "),
			CorrelationID: c.Get(headerCorrelationID),
		})
	}

	return c.Next()
}

//nolint:ireturn
func newValidator() (*validator.Validate, ut.Translator) {
	locale := en.New()
	uni := ut.New(locale, locale)

	trans, _ := uni.GetTranslator("en")

	v := validator.New()

	if err := en2.RegisterDefaultTranslations(v, trans); err != nil {
		panic(err)
	}

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}

		return name
	})

	return v, trans
}

func malformedRequestErr(errs validator.ValidationErrors, trans ut.Translator) ValidationKnownFieldsError {
	invalidFields := fields(errs, trans)

	return ValidationKnownFieldsError{
		Title:   "Validation Error",
		Code:    "0001",
		Message: "one or more fields failed validation",
		Fields:  invalidFields,
	}
}

func fields(errs validator.ValidationErrors, trans ut.Translator) FieldValidations {
	l := len(errs)
	if l == 0 {
		return nil
	}

	fields := make(FieldValidations, l)
	for _, e := range errs {
		fields[e.Field()] = e.Translate(trans)
	}

	return fields
}
