package engine

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"
	"time"

	"github.com/Veraticus/khru/internal/common"
	"github.com/Veraticus/khru/internal/model"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// Config holds the score policy of the gradebook.
type Config struct {
	DefaultMaxScores model.MaxScores
	TermTotal        float64
}

// DefaultConfig returns the default configuration: 30 classwork + 20 exam per term.
func DefaultConfig() Config {
	return Config{
		TermTotal:        50,
		DefaultMaxScores: model.MaxScores{Classwork: 30, Exam: 20},
	}
}

// Validate checks that the defaults respect the term total.
func (c Config) Validate() error {
	if c.TermTotal <= 0 {
		return fmt.Errorf("%w: term total must be positive", common.ErrInvalidConfig)
	}
	if c.DefaultMaxScores.Classwork < 0 || c.DefaultMaxScores.Exam < 0 {
		return fmt.Errorf("%w: default maxima must not be negative", common.ErrInvalidConfig)
	}
	if !sameTotal(c.DefaultMaxScores.TermTotal(), c.TermTotal) {
		return fmt.Errorf("%w: default maxima %v+%v do not add up to %v",
			common.ErrInvalidConfig, c.DefaultMaxScores.Classwork, c.DefaultMaxScores.Exam, c.TermTotal)
	}
	return nil
}

// Engine applies gradebook mutations. It holds no state of its own: every
// mutation takes a snapshot and returns the next one, or an error and no change.
type Engine struct {
	validate *validator.Validate
	now      func() time.Time
	newID    func() string
	config   Config
}

// Option customizes an Engine.
type Option func(*Engine)

// WithClock replaces the time source used for update timestamps.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithIDGenerator replaces the generator of profile, subject, and indicator ids.
func WithIDGenerator(newID func() string) Option {
	return func(e *Engine) { e.newID = newID }
}

// New creates an engine with the default configuration.
func New(opts ...Option) *Engine {
	return NewWithConfig(DefaultConfig(), opts...)
}

// NewWithConfig creates an engine with a custom score policy.
func NewWithConfig(config Config, opts ...Option) *Engine {
	e := &Engine{
		config:   config,
		validate: newValidator(),
		now:      time.Now,
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Config returns the engine's score policy.
func (e *Engine) Config() Config {
	return e.config
}

func authorize(authorized bool, op string) error {
	if !authorized {
		return fmt.Errorf("%s: %w", op, common.ErrUnauthorized)
	}
	return nil
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = v.RegisterValidation("score_field", func(fl validator.FieldLevel) bool {
		return model.ScoreField(fl.Field().String()).Valid()
	})
	_ = v.RegisterValidation("indicator_source", func(fl validator.FieldLevel) bool {
		s := model.IndicatorSource(fl.Field().String())
		return s == model.IndicatorManual || s == model.IndicatorAI
	})

	return v
}

// check runs struct validation and reports violations as ErrInvalidInput.
func (e *Engine) check(v any) error {
	err := e.validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return common.Invalidf("%v", err)
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, describe(fe))
	}
	return common.Invalidf("%s", strings.Join(msgs, "; "))
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "gt":
		return fe.Field() + " must be greater than " + fe.Param()
	case "gte":
		return fe.Field() + " must be at least " + fe.Param()
	case "ltefield":
		return fe.Field() + " must not exceed " + fe.Param()
	case "datetime":
		return fe.Field() + " must be a date in " + fe.Param() + " form"
	default:
		return fmt.Sprintf("%s is not a valid %s", fe.Field(), fe.Tag())
	}
}

func sameTotal(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}
