package tools

import (
	"context"
	"errors"
	"testing"
)

type echoInput struct {
	Text  string `json:"text"`
	Count int    `json:"count"`
}

func TestNew_Execute(t *testing.T) {
	tool, err := New(
		"echo",
		"Repeat text a number of times.",
		func(_ context.Context, in echoInput) (any, error) {
			return map[string]any{"text": in.Text, "count": in.Count}, nil
		},
	)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	if tool.Name() != "echo" {
		t.Errorf("Name() = %q, want echo", tool.Name())
	}
	if tool.Parameters() == nil {
		t.Error("Parameters() = nil, want derived schema")
	}

	result, err := tool.Execute(context.Background(), map[string]any{
		"text":  "hello",
		"count": 3,
	})
	if err != nil {
		t.Fatalf("Execute() failed: %v", err)
	}

	out, ok := result.(map[string]any)
	if !ok {
		t.Fatalf("result type = %T, want map[string]any", result)
	}
	if out["text"] != "hello" {
		t.Errorf("text = %v, want hello", out["text"])
	}
	if out["count"] != 3 {
		t.Errorf("count = %v, want 3", out["count"])
	}
}

func TestNew_Execute_MismatchedParameters(t *testing.T) {
	tool, err := New(
		"echo",
		"Repeat text a number of times.",
		func(_ context.Context, in echoInput) (any, error) {
			return in, nil
		},
	)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	_, err = tool.Execute(context.Background(), map[string]any{
		"count": "three",
	})
	if err == nil {
		t.Fatal("expected error for mismatched parameter types")
	}

	var toolErr *ToolError
	if !errors.As(err, &toolErr) {
		t.Fatalf("error type = %T, want *ToolError", err)
	}
	if toolErr.ErrorType != "InvalidArguments" {
		t.Errorf("ErrorType = %q, want InvalidArguments", toolErr.ErrorType)
	}
}

func TestToolError_Error(t *testing.T) {
	err := &ToolError{ErrorType: "EmptyData", Message: "data must be a non-empty array"}
	got := err.Error()
	if got == "" {
		t.Fatal("Error() returned empty string")
	}
}
