package rules

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

const (
	DateLayout     = "2006-01-02"
	DateTimeLayout = time.RFC3339
	TimeLayout     = "15:04:05"
)

var validate = newValidate()

func newValidate() *validator.Validate {
	v := validator.New()
	// byte length, for values bounded in bytes rather than characters
	_ = v.RegisterValidation("maxbytes", func(fl validator.FieldLevel) bool {
		n, err := strconv.Atoi(fl.Param())
		return err == nil && len(fl.Field().String()) <= n
	})
	return v
}

// FieldError is one entry of the itemised validation error list
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Rule is a single constraint expressed as a validator tag. Numeric rules apply to
// Int and Float fields; length rules to String fields.
type Rule struct {
	required bool
	raw      bool
	tag      string
	suffix   string
	message  string
}

// WithMessage replaces the generated message for this rule
func (r Rule) WithMessage(msg string) Rule {
	r.message = msg
	return r
}

func (r Rule) text(label string) string {
	if r.message != "" {
		return r.message
	}
	return label + " " + r.suffix
}

func Required() Rule {
	return Rule{required: true, suffix: "is required"}
}

func Min(n float64) Rule {
	return Rule{tag: "gte=" + num(n), suffix: "must be at least " + num(n)}
}

func Max(n float64) Rule {
	return Rule{tag: "lte=" + num(n), suffix: "must be at most " + num(n)}
}

func Gt(n float64) Rule {
	return Rule{tag: "gt=" + num(n), suffix: "must be greater than " + num(n)}
}

func MinLen(n int) Rule {
	return Rule{tag: fmt.Sprintf("min=%d", n), suffix: fmt.Sprintf("must be at least %d characters", n)}
}

func MaxLen(n int) Rule {
	return Rule{tag: fmt.Sprintf("max=%d", n), suffix: fmt.Sprintf("must not exceed %d characters", n)}
}

// MaxBytes bounds the UTF-8 encoded size of a string
func MaxBytes(n int) Rule {
	return Rule{tag: fmt.Sprintf("maxbytes=%d", n), suffix: fmt.Sprintf("must not exceed %d bytes", n)}
}

// Raw keeps a string exactly as sent instead of trimming it
func Raw() Rule {
	return Rule{raw: true}
}

func Email() Rule {
	return Rule{tag: "email", suffix: "must be a valid email address"}
}

func OneOf(values ...string) Rule {
	return Rule{
		tag:    "oneof=" + strings.Join(values, " "),
		suffix: "must be one of: " + strings.Join(values, ", "),
	}
}

func num(n float64) string {
	return strconv.FormatFloat(n, 'f', -1, 64)
}

// Checker reads raw request input and accumulates at most one error per field,
// in the order fields are checked
type Checker struct {
	input  map[string]interface{}
	errors []FieldError
	failed map[string]bool
}

func New(input map[string]interface{}) *Checker {
	if input == nil {
		input = map[string]interface{}{}
	}
	return &Checker{input: input, failed: map[string]bool{}}
}

// FromBody decodes a JSON object body keeping numbers as json.Number. An empty
// body is treated as an empty object.
func FromBody(c *fiber.Ctx) (*Checker, error) {
	input := map[string]interface{}{}
	body := bytes.TrimSpace(c.Body())
	if len(body) > 0 {
		dec := json.NewDecoder(bytes.NewReader(body))
		dec.UseNumber()
		if err := dec.Decode(&input); err != nil {
			return nil, err
		}
	}
	return New(input), nil
}

func FromQuery(c *fiber.Ctx) *Checker {
	return New(fromStrings(c.Queries()))
}

func FromParams(c *fiber.Ctx) *Checker {
	return New(fromStrings(c.AllParams()))
}

func fromStrings(values map[string]string) map[string]interface{} {
	input := make(map[string]interface{}, len(values))
	for k, v := range values {
		if v == "" {
			continue
		}
		input[k] = v
	}
	return input
}

func (ch *Checker) Errors() []FieldError {
	return ch.errors
}

func (ch *Checker) Valid() bool {
	return len(ch.errors) == 0
}

// Has reports whether the key is present with a non-null value
func (ch *Checker) Has(key string) bool {
	_, ok := ch.lookup(key)
	return ok
}

// HasAny reports whether at least one of the keys is present
func (ch *Checker) HasAny(keys ...string) bool {
	for _, k := range keys {
		if ch.Has(k) {
			return true
		}
	}
	return false
}

// Failed reports whether the field already carries an error
func (ch *Checker) Failed(key string) bool {
	return ch.failed[key]
}

// Add records a custom error unless the field already failed
func (ch *Checker) Add(key, message string) {
	if ch.failed[key] {
		return
	}
	ch.failed[key] = true
	ch.errors = append(ch.errors, FieldError{Field: key, Message: message})
}

func (ch *Checker) lookup(key string) (interface{}, bool) {
	v, ok := ch.input[key]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

func (ch *Checker) absent(key, label string, rules []Rule) {
	for _, r := range rules {
		if r.required {
			ch.Add(key, r.text(label))
			return
		}
	}
}

func isRaw(rules []Rule) bool {
	for _, r := range rules {
		if r.raw {
			return true
		}
	}
	return false
}

func isRequired(rules []Rule) bool {
	for _, r := range rules {
		if r.required {
			return true
		}
	}
	return false
}

func (ch *Checker) apply(key, label string, value interface{}, rules []Rule) bool {
	for _, r := range rules {
		if r.tag == "" {
			continue
		}
		if err := validate.Var(value, r.tag); err != nil {
			ch.Add(key, r.text(label))
			return false
		}
	}
	return true
}

// Int reads an integer given as a JSON number or a numeric string
func (ch *Checker) Int(key, label string, rules ...Rule) *int {
	raw, ok := ch.lookup(key)
	if !ok {
		ch.absent(key, label, rules)
		return nil
	}
	n, ok := toInt(raw)
	if !ok {
		ch.Add(key, label+" must be an integer")
		return nil
	}
	if !ch.apply(key, label, n, rules) {
		return nil
	}
	return &n
}

func toInt(raw interface{}) (int, bool) {
	switch v := raw.(type) {
	case json.Number:
		n, err := strconv.Atoi(v.String())
		return n, err == nil
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		return n, err == nil
	case float64:
		if v != math.Trunc(v) || math.IsInf(v, 0) {
			return 0, false
		}
		return int(v), true
	case int:
		return v, true
	}
	return 0, false
}

// Float reads a number given as a JSON number or a numeric string
func (ch *Checker) Float(key, label string, rules ...Rule) *float64 {
	raw, ok := ch.lookup(key)
	if !ok {
		ch.absent(key, label, rules)
		return nil
	}
	f, ok := toFloat(raw)
	if !ok {
		ch.Add(key, label+" must be a number")
		return nil
	}
	if !ch.apply(key, label, f, rules) {
		return nil
	}
	return &f
}

func toFloat(raw interface{}) (float64, bool) {
	var (
		f   float64
		err error
	)
	switch v := raw.(type) {
	case json.Number:
		f, err = v.Float64()
	case string:
		f, err = strconv.ParseFloat(strings.TrimSpace(v), 64)
	case float64:
		f = v
	case int:
		f = float64(v)
	default:
		return 0, false
	}
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// String reads a trimmed string, or the string as sent with Raw. A required
// string must also be non-empty.
func (ch *Checker) String(key, label string, rules ...Rule) *string {
	raw, ok := ch.lookup(key)
	if !ok {
		ch.absent(key, label, rules)
		return nil
	}
	s, ok := raw.(string)
	if !ok {
		ch.Add(key, label+" must be a string")
		return nil
	}
	if !isRaw(rules) {
		s = strings.TrimSpace(s)
	}
	if s == "" && isRequired(rules) {
		ch.Add(key, label+" must not be empty")
		return nil
	}
	if !ch.apply(key, label, s, rules) {
		return nil
	}
	return &s
}

// Bool reads true/false, or the strings and numbers "true", "false", "1", "0"
func (ch *Checker) Bool(key, label string, rules ...Rule) *bool {
	raw, ok := ch.lookup(key)
	if !ok {
		ch.absent(key, label, rules)
		return nil
	}
	var b bool
	switch v := raw.(type) {
	case bool:
		b = v
	case string, json.Number:
		switch strings.ToLower(strings.TrimSpace(fmt.Sprint(v))) {
		case "true", "1":
			b = true
		case "false", "0":
			b = false
		default:
			ch.Add(key, label+" must be a boolean")
			return nil
		}
	default:
		ch.Add(key, label+" must be a boolean")
		return nil
	}
	return &b
}

func (ch *Checker) layout(key, label, layout, message string, rules []Rule) *time.Time {
	s := ch.String(key, label, rules...)
	if s == nil || *s == "" {
		return nil
	}
	if err := validate.Var(*s, "datetime="+layout); err != nil {
		ch.Add(key, label+" "+message)
		return nil
	}
	t, err := time.Parse(layout, *s)
	if err != nil {
		ch.Add(key, label+" "+message)
		return nil
	}
	t = t.UTC()
	return &t
}

// Date reads a YYYY-MM-DD calendar date at UTC midnight
func (ch *Checker) Date(key, label string, rules ...Rule) *time.Time {
	return ch.layout(key, label, DateLayout, "must be a valid date (YYYY-MM-DD)", rules)
}

// DateTime reads an RFC 3339 timestamp, normalised to UTC
func (ch *Checker) DateTime(key, label string, rules ...Rule) *time.Time {
	return ch.layout(key, label, DateTimeLayout, "must be a valid RFC 3339 date-time", rules)
}

// Time reads a clock time as HH:MM or HH:MM:SS
func (ch *Checker) Time(key, label string, rules ...Rule) *time.Time {
	s := ch.String(key, label, rules...)
	if s == nil || *s == "" {
		return nil
	}
	value := *s
	if len(value) == len("15:04") {
		value += ":00"
	}
	if err := validate.Var(value, "datetime="+TimeLayout); err != nil {
		ch.Add(key, label+" must be a valid time (HH:MM or HH:MM:SS)")
		return nil
	}
	t, err := time.Parse(TimeLayout, value)
	if err != nil {
		ch.Add(key, label+" must be a valid time (HH:MM or HH:MM:SS)")
		return nil
	}
	return &t
}

// Object reads a JSON object and returns it re-encoded
func (ch *Checker) Object(key, label string, rules ...Rule) json.RawMessage {
	raw, ok := ch.lookup(key)
	if !ok {
		ch.absent(key, label, rules)
		return nil
	}
	obj, ok := raw.(map[string]interface{})
	if !ok {
		ch.Add(key, label+" must be an object")
		return nil
	}
	b, err := json.Marshal(obj)
	if err != nil {
		ch.Add(key, label+" must be an object")
		return nil
	}
	return b
}

// Pagination reads page and limit with defaults 1 and 10
func (ch *Checker) Pagination() (page, limit int) {
	page, limit = 1, 10
	if p := ch.Int("page", "Page", Min(1)); p != nil {
		page = *p
	}
	if l := ch.Int("limit", "Limit", Min(1), Max(100)); l != nil {
		limit = *l
	}
	return page, limit
}

// Value dereferences p, returning the zero value for nil
func Value[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}
