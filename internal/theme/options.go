package theme

import (
	gomath "math"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/Faultbox/facestyle/internal/faceerr"
)

// Quality trades detail for speed.
type Quality string

// Quality levels.
const (
	QualityFast     Quality = "fast"
	QualityBalanced Quality = "balanced"
	QualityHigh     Quality = "high"
)

// Output formats.
const (
	FormatPNG  = "png"
	FormatJPEG = "jpeg"
	FormatTGA  = "tga"
)

// Options are the caller's per-request processing options. They are never
// modified by this package.
type Options struct {
	Quality          Quality `yaml:"quality" validate:"required,oneof=fast balanced high"`
	StyleIntensity   float64 `yaml:"style_intensity" validate:"unit"`
	PreserveIdentity float64 `yaml:"preserve_identity" validate:"unit"`
	OutputFormat     string  `yaml:"output_format" validate:"omitempty,oneof=png jpeg tga"`
	TargetWidth      int     `yaml:"target_width" validate:"gte=0,lte=8192"`
	TargetHeight     int     `yaml:"target_height" validate:"gte=0,lte=8192"`
}

// DefaultOptions returns balanced options at 0.8 intensity.
func DefaultOptions() Options {
	return Options{
		Quality:          QualityBalanced,
		StyleIntensity:   0.8,
		PreserveIdentity: 0.9,
		OutputFormat:     FormatPNG,
	}
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

// Validator returns the shared validator with the package's custom rules
// registered.
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		_ = validate.RegisterValidation("unit", validateUnit)
	})
	return validate
}

// validateUnit accepts a finite float in [0,1].
func validateUnit(fl validator.FieldLevel) bool {
	v := fl.Field().Float()
	return !gomath.IsNaN(v) && v >= 0 && v <= 1
}

// Validate checks every field and reports failures as InvalidOptions.
func (o Options) Validate() error {
	if err := Validator().Struct(o); err != nil {
		return faceerr.Wrap(faceerr.KindInvalidOptions, "theme.Options", err)
	}
	return nil
}
