package errors

import (
	"errors"
	"testing"
)

func TestClassifiedError(t *testing.T) {
	t.Run("Basic error creation", func(t *testing.T) {
		err := NewError(CategoryInput, "stream unreadable").
			WithSeverity(SeverityFatal).
			WithContext("document", "readme").
			Build()

		if err.Category() != CategoryInput {
			t.Errorf("expected category %s, got %s", CategoryInput, err.Category())
		}
		if err.Severity() != SeverityFatal {
			t.Errorf("expected severity %s, got %s", SeverityFatal, err.Severity())
		}
		if err.Message() != "stream unreadable" {
			t.Errorf("expected message 'stream unreadable', got %s", err.Message())
		}
		doc, exists := err.Context().GetString("document")
		if !exists || doc != "readme" {
			t.Errorf("expected context document=readme, got %v", doc)
		}
	})

	t.Run("Error detection through wrapping", func(t *testing.T) {
		err := fmtWrap(OptionError("unknown flag").Build())

		if !IsClassified(err) {
			t.Error("expected wrapped error to be classified")
		}
		if !HasCategory(err, CategoryOption) {
			t.Error("expected error to have option category")
		}
		if GetCategory(errors.New("plain")) != CategoryInternal {
			t.Error("expected plain errors to be internal")
		}
	})

	t.Run("WithContext copies", func(t *testing.T) {
		base := RenderError("sink closed").Build()
		derived := base.WithContext("target", "toc")
		if _, ok := base.Context().Get("target"); ok {
			t.Error("expected base context to stay untouched")
		}
		if v, _ := derived.Context().GetString("target"); v != "toc" {
			t.Errorf("expected target=toc, got %q", v)
		}
	})
}

func TestErrorBuilder(t *testing.T) {
	original := errors.New("broken pipe")
	err := WrapError(original, CategoryRender, "write failed").
		Warning().
		WithContext("bytes", 42).
		Build()

	if err.Severity() != SeverityWarning {
		t.Errorf("expected severity %s, got %s", SeverityWarning, err.Severity())
	}
	if !errors.Is(err, original) {
		t.Error("expected error to wrap original error")
	}
	if !errors.Is(err, RenderError("write failed").Build()) {
		t.Error("expected category+message equality")
	}
}

func TestStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, StatusOK},
		{"input", InputError("x").Build(), StatusInput},
		{"option", OptionError("x").Build(), StatusOption},
		{"render", RenderError("x").Build(), StatusFailed},
		{"state", StateError("x").Build(), StatusFailed},
		{"plain", errors.New("x"), StatusInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Status(tt.err); got != tt.want {
				t.Errorf("Status() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestErrorContext(t *testing.T) {
	ctx1 := ErrorContext{}.Set("key1", "value1").Set("shared", "original")
	ctx2 := ErrorContext{}.Set("key2", "value2").Set("shared", "overridden")

	merged := ctx1.Merge(ctx2)
	for key, want := range map[string]string{"key1": "value1", "key2": "value2", "shared": "overridden"} {
		if got, _ := merged.GetString(key); got != want {
			t.Errorf("expected %s=%s, got %s", key, want, got)
		}
	}
	if _, ok := ErrorContext(nil).Get("missing"); ok {
		t.Error("expected nil context lookups to miss")
	}
}

type wrapped struct{ err error }

func (w wrapped) Error() string { return "outer: " + w.err.Error() }
func (w wrapped) Unwrap() error { return w.err }

func fmtWrap(err error) error { return wrapped{err} }
