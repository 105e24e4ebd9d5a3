package theme

import (
	"errors"
	gomath "math"
	"testing"

	"github.com/Faultbox/facestyle/internal/faceerr"
)

func TestOptionsValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Options)
		wantErr bool
	}{
		{"defaults", func(*Options) {}, false},
		{"fast", func(o *Options) { o.Quality = QualityFast }, false},
		{"jpeg sized", func(o *Options) { o.OutputFormat = FormatJPEG; o.TargetWidth = 256; o.TargetHeight = 256 }, false},
		{"tga", func(o *Options) { o.OutputFormat = FormatTGA }, false},
		{"no format", func(o *Options) { o.OutputFormat = "" }, false},
		{"missing quality", func(o *Options) { o.Quality = "" }, true},
		{"unknown quality", func(o *Options) { o.Quality = "ultra" }, true},
		{"intensity above 1", func(o *Options) { o.StyleIntensity = 1.5 }, true},
		{"intensity NaN", func(o *Options) { o.StyleIntensity = gomath.NaN() }, true},
		{"negative identity", func(o *Options) { o.PreserveIdentity = -0.1 }, true},
		{"gif", func(o *Options) { o.OutputFormat = "gif" }, true},
		{"negative width", func(o *Options) { o.TargetWidth = -1 }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := DefaultOptions()
			tt.mutate(&opts)
			err := opts.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, faceerr.ErrInvalidOptions) {
				t.Errorf("err = %v, want InvalidOptions", err)
			}
		})
	}
}

func TestNew(t *testing.T) {
	for _, id := range IDs() {
		s, err := New(id)
		if err != nil {
			t.Fatalf("New(%q): %v", id, err)
		}
		if s.ID() != id {
			t.Errorf("New(%q).ID() = %q", id, s.ID())
		}
	}
	if _, err := New("baroque"); !errors.Is(err, faceerr.ErrInvalidOptions) {
		t.Errorf("New(unknown) err = %v, want InvalidOptions", err)
	}
}

func TestParseID(t *testing.T) {
	if id, err := ParseID("classical"); err != nil || id != Classical {
		t.Errorf("ParseID(classical) = %q, %v", id, err)
	}
	if _, err := ParseID("Classical"); err == nil {
		t.Error("ParseID is case sensitive")
	}
}
