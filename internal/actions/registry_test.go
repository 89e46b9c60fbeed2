package actions

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecute_Success(t *testing.T) {
	registry := NewRegistry(nil)

	var gotParams map[string]string
	registry.Register("approve", func(params map[string]string) error {
		gotParams = params
		return nil
	})

	var completedID int64 = -1
	var result Result
	registry.Execute("appscheme://approve?docId=42", 7, true,
		func(id int64) { completedID = id },
		func(r Result) { result = r })

	require.NotNil(t, gotParams)
	assert.Equal(t, map[string]string{"docId": "42"}, gotParams)
	assert.Equal(t, int64(7), completedID)
	assert.True(t, result.Success())
	assert.Equal(t, "approve", result.Action)
}

func TestExecute_MarkAsReadFalseSkipsOnComplete(t *testing.T) {
	registry := NewRegistry(nil)
	registry.Register("approve", func(map[string]string) error { return nil })

	completed := false
	registry.Execute("appscheme://approve", 7, false,
		func(int64) { completed = true },
		func(Result) {})

	assert.False(t, completed)
}

func TestExecute_NilOnCompleteIsSafe(t *testing.T) {
	registry := NewRegistry(nil)
	registry.Register("approve", func(map[string]string) error { return nil })

	var result Result
	registry.Execute("appscheme://approve", 7, true, nil, func(r Result) { result = r })

	assert.True(t, result.Success())
}

func TestExecute_UnknownAction(t *testing.T) {
	registry := NewRegistry(nil)

	completed := false
	var result Result
	registry.Execute("appscheme://unknown", 1, true,
		func(int64) { completed = true },
		func(r Result) { result = r })

	assert.Equal(t, ResultNotFound, result.Kind)
	assert.False(t, result.Success())
	assert.False(t, completed)
}

func TestExecute_MalformedURL(t *testing.T) {
	registry := NewRegistry(nil)
	registry.Register("approve", func(map[string]string) error { return nil })

	tests := []struct {
		name string
		url  string
	}{
		{"wrong scheme", "https://approve?docId=1"},
		{"no scheme", "not-a-scheme-url"},
		{"missing action name", "appscheme://"},
		{"bad query encoding", "appscheme://approve?a=%zz"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			completed := false
			var result Result
			registry.Execute(tt.url, 1, true,
				func(int64) { completed = true },
				func(r Result) { result = r })

			assert.Equal(t, ResultError, result.Kind)
			assert.False(t, completed)
		})
	}
}

func TestExecute_ParameterDecoding(t *testing.T) {
	registry := NewRegistry(nil)

	var gotParams map[string]string
	registry.Register("open", func(params map[string]string) error {
		gotParams = params
		return nil
	})

	registry.Execute("appscheme://open?title=hello%20world&empty=&path=%2Fdocs%2F1", 1, false, nil, func(Result) {})

	assert.Equal(t, map[string]string{
		"title": "hello world",
		"empty": "",
		"path":  "/docs/1",
	}, gotParams)
}

func TestExecute_HandlerErrorReported(t *testing.T) {
	registry := NewRegistry(nil)
	registry.Register("approve", func(map[string]string) error {
		return errors.New("backend said no")
	})

	completed := false
	var result Result
	registry.Execute("appscheme://approve", 1, true,
		func(int64) { completed = true },
		func(r Result) { result = r })

	assert.Equal(t, ResultError, result.Kind)
	assert.Contains(t, result.Message, "backend said no")
	assert.False(t, completed)
}

func TestExecute_HandlerPanicContained(t *testing.T) {
	registry := NewRegistry(nil)
	registry.Register("explode", func(map[string]string) error {
		panic("boom")
	})

	var result Result
	assert.NotPanics(t, func() {
		registry.Execute("appscheme://explode", 1, false, nil, func(r Result) { result = r })
	})
	assert.Equal(t, ResultError, result.Kind)
	assert.Contains(t, result.Message, "boom")
}

func TestRegister_LastRegistrationWins(t *testing.T) {
	registry := NewRegistry(nil)

	fired := ""
	registry.Register("approve", func(map[string]string) error {
		fired = "first"
		return nil
	})
	registry.Register("approve", func(map[string]string) error {
		fired = "second"
		return nil
	})

	registry.Execute("appscheme://approve", 1, false, nil, func(Result) {})

	assert.Equal(t, "second", fired)
	assert.True(t, registry.Registered("approve"))
	assert.False(t, registry.Registered("reject"))
}

func TestExecute_NilNotifyIsSafe(t *testing.T) {
	registry := NewRegistry(nil)
	registry.Register("approve", func(map[string]string) error { return nil })

	assert.NotPanics(t, func() {
		registry.Execute("appscheme://approve", 1, false, nil, nil)
	})
}
