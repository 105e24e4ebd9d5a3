package faceerr

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestIsMatchesKind(t *testing.T) {
	err := New(KindInsufficientLandmarks, "facemesh.Build", "got %d landmarks", 26)

	if !errors.Is(err, ErrInsufficientLandmarks) {
		t.Error("expected errors.Is to match ErrInsufficientLandmarks")
	}
	if errors.Is(err, ErrLandmarkOutOfRange) {
		t.Error("did not expect match with ErrLandmarkOutOfRange")
	}
}

func TestWrappedChain(t *testing.T) {
	cause := errors.New("engine unavailable")
	err := fmt.Errorf("stylize: %w", Wrap(KindThemeStyleFailed, "theme.Stylize", cause))

	if !errors.Is(err, ErrThemeStyleFailed) {
		t.Error("expected wrapped error to match ErrThemeStyleFailed")
	}
	if !errors.Is(err, cause) {
		t.Error("expected wrapped error to expose its cause")
	}
	if KindOf(err) != KindThemeStyleFailed {
		t.Errorf("KindOf = %v, want ThemeStyleFailed", KindOf(err))
	}
}

func TestErrorMessage(t *testing.T) {
	err := Wrap(KindTextureSynthesisFailed, "texture.Synthesize", errors.New("size 0"))
	msg := err.Error()
	for _, want := range []string{"texture.Synthesize", "TextureSynthesisFailed", "size 0"} {
		if !strings.Contains(msg, want) {
			t.Errorf("message %q missing %q", msg, want)
		}
	}
}

func TestKindOfPlainError(t *testing.T) {
	if KindOf(errors.New("plain")) != KindUnknown {
		t.Error("expected KindUnknown for plain errors")
	}
}
