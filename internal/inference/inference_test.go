package inference

import (
	"context"
	"errors"
	"testing"
)

func validRequest() Request {
	img := make([]float32, TensorLength(ImageSize))
	for i := range img {
		img[i] = 0.5
	}
	style := make([]float32, StyleVectorLength)
	for i := range style {
		style[i] = 0.25
	}
	return Request{ImageTensor: img, StyleVector: style}
}

func TestRequestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Request)
		wantErr bool
	}{
		{"valid", func(*Request) {}, false},
		{"short image", func(r *Request) { r.ImageTensor = r.ImageTensor[:10] }, true},
		{"long style", func(r *Request) { r.StyleVector = append(r.StyleVector, 1) }, true},
		{"empty", func(r *Request) { *r = Request{} }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(&req)
			if err := req.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestTintDeterministic(t *testing.T) {
	engine := NewTint()
	req := validRequest()

	a, err := engine.Infer(context.Background(), req)
	if err != nil {
		t.Fatalf("Infer: %v", err)
	}
	b, err := engine.Infer(context.Background(), req)
	if err != nil {
		t.Fatalf("Infer: %v", err)
	}
	if len(a.StyledImage) != len(req.ImageTensor) {
		t.Fatalf("styled length = %d, want %d", len(a.StyledImage), len(req.ImageTensor))
	}
	for i := range a.StyledImage {
		if a.StyledImage[i] != b.StyledImage[i] {
			t.Fatalf("value %d differs: %v vs %v", i, a.StyledImage[i], b.StyledImage[i])
		}
		if v := a.StyledImage[i]; v < 0 || v > 1 {
			t.Fatalf("value %d = %v out of [0,1]", i, v)
		}
	}
}

func TestTintStyleShiftsOutput(t *testing.T) {
	engine := NewTint()
	req := validRequest()
	low, _ := engine.Infer(context.Background(), req)

	for i := range req.StyleVector {
		req.StyleVector[i] = 0.5
	}
	high, _ := engine.Infer(context.Background(), req)

	if high.StyledImage[0] <= low.StyledImage[0] {
		t.Errorf("higher style bias did not brighten: %v <= %v", high.StyledImage[0], low.StyledImage[0])
	}
}

func TestTintHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewTint().Infer(ctx, validRequest())
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestTintRejectsBadShape(t *testing.T) {
	_, err := NewTint().Infer(context.Background(), Request{})
	if err == nil {
		t.Error("expected shape error")
	}
}

func TestEngineFunc(t *testing.T) {
	want := errors.New("model offline")
	var e Engine = EngineFunc(func(context.Context, Request) (*Result, error) {
		return nil, want
	})
	if _, err := e.Infer(context.Background(), validRequest()); !errors.Is(err, want) {
		t.Errorf("err = %v, want %v", err, want)
	}
}
