package service

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/userintake/internal/model"
	"github.com/dtroode/userintake/internal/testutil"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestAggregator_ProcessUserFiles_MixedBatch(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	missing := filepath.Join(dir, "missing.json")
	broken := writeFile(t, dir, "broken.json", `{"users": [`)
	good := writeFile(t, dir, "good.json", `{"users":[{"value":5},{"value":"x"},{"novalue":1}]}`)

	agg := NewAggregator(testutil.MakeNoopLogger(), 0)
	result := agg.ProcessUserFiles(context.Background(), []string{missing, broken, good})

	require.Len(t, result.Summaries, 1)
	assert.Equal(t, model.FileSummary{File: good, UserCount: 3, TotalValue: 5}, result.Summaries[0])

	require.Len(t, result.Errors, 2)
	assert.Equal(t, missing, result.Errors[0].File)
	assert.Equal(t, model.ReasonNotAccessible, result.Errors[0].Reason)
	assert.Equal(t, broken, result.Errors[1].File)
	assert.True(t, strings.HasPrefix(result.Errors[1].Reason, model.ReasonInvalidJSON+": "), result.Errors[1].Reason)

	require.Len(t, result.Diagnostics, 1)
	assert.Equal(t, good, result.Diagnostics[0].File)
	assert.Equal(t, 1, result.Diagnostics[0].Index)
}

func TestAggregator_ProcessUserFiles_FileErrors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	tests := []struct {
		name       string
		path       string
		wantReason string
	}{
		{
			name:       "directory",
			path:       dir,
			wantReason: model.ReasonNotAccessible,
		},
		{
			name:       "empty path",
			path:       "",
			wantReason: model.ReasonNotAccessible,
		},
		{
			name:       "array at top level",
			path:       writeFile(t, dir, "array.json", `[{"value": 1}]`),
			wantReason: model.ReasonNotObject,
		},
		{
			name:       "string at top level",
			path:       writeFile(t, dir, "string.json", `"users"`),
			wantReason: model.ReasonNotObject,
		},
		{
			name:       "users is an object",
			path:       writeFile(t, dir, "users-object.json", `{"users": {"value": 1}}`),
			wantReason: model.ReasonUsersNotList,
		},
		{
			name:       "users is null",
			path:       writeFile(t, dir, "users-null.json", `{"users": null}`),
			wantReason: model.ReasonUsersNotList,
		},
		{
			name:       "invalid utf-8",
			path:       writeFile(t, dir, "latin1.json", "{\"users\": [], \"name\": \"caf\xe9\"}"),
			wantReason: model.ReasonEncoding,
		},
		{
			name:       "empty file",
			path:       writeFile(t, dir, "empty.json", ""),
			wantReason: model.ReasonInvalidJSON + ": unexpected end of JSON input",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			agg := NewAggregator(testutil.MakeNoopLogger(), 0)
			result := agg.ProcessUserFiles(context.Background(), []string{tt.path})

			assert.Empty(t, result.Summaries)
			require.Len(t, result.Errors, 1)
			assert.Equal(t, tt.path, result.Errors[0].File)
			assert.Equal(t, tt.wantReason, result.Errors[0].Reason)
		})
	}
}

func TestAggregator_ProcessUserFiles_NonStandardNumbers(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	paths := []string{
		writeFile(t, dir, "nan.json", `{"users": [{"value": NaN}]}`),
		writeFile(t, dir, "inf.json", `{"users": [{"value": Infinity}]}`),
		writeFile(t, dir, "huge.json", `{"users": [{"value": 1e400}]}`),
	}

	agg := NewAggregator(testutil.MakeNoopLogger(), 0)
	result := agg.ProcessUserFiles(context.Background(), paths)

	assert.Empty(t, result.Summaries)
	require.Len(t, result.Errors, len(paths))
	for i, perr := range result.Errors {
		assert.Equal(t, paths[i], perr.File)
		assert.True(t, strings.HasPrefix(perr.Reason, model.ReasonInvalidJSON+": "), perr.Reason)
	}
}

func TestAggregator_ProcessUserFiles_PermissionDenied(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("root ignores file permissions")
	}
	t.Parallel()

	path := writeFile(t, t.TempDir(), "secret.json", `{"users": []}`)
	require.NoError(t, os.Chmod(path, 0o000))

	agg := NewAggregator(testutil.MakeNoopLogger(), 0)
	result := agg.ProcessUserFiles(context.Background(), []string{path})

	require.Len(t, result.Errors, 1)
	assert.Equal(t, model.ReasonPermissionDenied, result.Errors[0].Reason)
}

func TestAggregator_ProcessUserFiles_Values(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	tests := []struct {
		name      string
		content   string
		wantCount int
		wantTotal float64
		wantDiags int
	}{
		{
			name:      "no users key",
			content:   `{"other": 1}`,
			wantCount: 0,
			wantTotal: 0,
		},
		{
			name:      "empty users",
			content:   `{"users": []}`,
			wantCount: 0,
			wantTotal: 0,
		},
		{
			name:      "numbers and numeric strings",
			content:   `{"users": [{"value": 1.5}, {"value": "2.5"}, {"value": " 3 "}, {"value": -1}]}`,
			wantCount: 4,
			wantTotal: 6,
		},
		{
			name:      "booleans count as one and zero",
			content:   `{"users": [{"value": true}, {"value": false}]}`,
			wantCount: 2,
			wantTotal: 1,
		},
		{
			name:      "non-object entries are counted but skipped",
			content:   `{"users": [1, "two", null, [3], {"value": 4}]}`,
			wantCount: 5,
			wantTotal: 4,
			wantDiags: 4,
		},
		{
			name:      "non-finite strings are skipped",
			content:   `{"users": [{"value": "nan"}, {"value": "inf"}, {"value": "-Infinity"}, {"value": "1e999"}, {"value": 2}]}`,
			wantCount: 5,
			wantTotal: 2,
			wantDiags: 4,
		},
		{
			name:      "value overflowing the total is skipped",
			content:   `{"users": [{"value": 1e308}, {"value": 1e308}, {"value": 1}]}`,
			wantCount: 3,
			wantTotal: 1e308 + 1,
			wantDiags: 1,
		},
		{
			name:      "unconvertible values are skipped",
			content:   `{"users": [{"value": null}, {"value": {}}, {"value": []}, {"value": ""}, {"value": 10}]}`,
			wantCount: 5,
			wantTotal: 10,
			wantDiags: 4,
		},
	}

	for i, tt := range tests {
		tt := tt
		path := writeFile(t, dir, strings.Repeat("f", i+1)+".json", tt.content)
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			agg := NewAggregator(testutil.MakeNoopLogger(), 0)
			result := agg.ProcessUserFiles(context.Background(), []string{path})

			assert.Empty(t, result.Errors)
			require.Len(t, result.Summaries, 1)
			assert.Equal(t, tt.wantCount, result.Summaries[0].UserCount)
			assert.InDelta(t, tt.wantTotal, result.Summaries[0].TotalValue, 1e-9)
			assert.Len(t, result.Diagnostics, tt.wantDiags)
		})
	}
}

func TestAggregator_ProcessUserFiles_Empty(t *testing.T) {
	t.Parallel()

	agg := NewAggregator(testutil.MakeNoopLogger(), 0)

	result := agg.ProcessUserFiles(context.Background(), nil)
	assert.NotNil(t, result.Summaries)
	assert.Empty(t, result.Summaries)
	assert.Empty(t, result.Errors)
}

func TestAggregator_ProcessUserFiles_OnePerPath(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	a := writeFile(t, dir, "a.json", `{"users": [{"value": 1}]}`)
	b := writeFile(t, dir, "b.json", `{"users": [{"value": 2}, {"value": 3}]}`)
	paths := []string{a, filepath.Join(dir, "nope.json"), b, a}

	agg := NewAggregator(testutil.MakeNoopLogger(), 0)
	result := agg.ProcessUserFiles(context.Background(), paths)

	assert.Equal(t, len(paths), len(result.Summaries)+len(result.Errors))
	require.Len(t, result.Summaries, 3)
	assert.Equal(t, []string{a, b, a}, []string{result.Summaries[0].File, result.Summaries[1].File, result.Summaries[2].File})
}

func TestAggregator_ProcessUserFiles_Idempotent(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	paths := []string{
		writeFile(t, dir, "a.json", `{"users": [{"value": 0.1}, {"value": 0.2}]}`),
		writeFile(t, dir, "b.json", `{"users": [{"value": "7"}, 5]}`),
	}

	agg := NewAggregator(testutil.MakeNoopLogger(), 0)
	first := agg.ProcessUserFiles(context.Background(), paths)
	second := agg.ProcessUserFiles(context.Background(), paths)

	assert.Equal(t, first.Summaries, second.Summaries)
}

func TestAggregator_ProcessUserFiles_SizeLimit(t *testing.T) {
	t.Parallel()

	path := writeFile(t, t.TempDir(), "big.json", `{"users": [{"value": 1}, {"value": 2}]}`)

	agg := NewAggregator(testutil.MakeNoopLogger(), 10)
	result := agg.ProcessUserFiles(context.Background(), []string{path})

	assert.Empty(t, result.Summaries)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0].Reason, "exceeds 10 bytes")
}

func TestAggregator_ProcessUserFiles_Cancelled(t *testing.T) {
	t.Parallel()

	path := writeFile(t, t.TempDir(), "a.json", `{"users": []}`)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	agg := NewAggregator(testutil.MakeNoopLogger(), 0)
	result := agg.ProcessUserFiles(ctx, []string{path, path})

	assert.Empty(t, result.Summaries)
	require.Len(t, result.Errors, 2)
	assert.Equal(t, model.ReasonCancelled, result.Errors[0].Reason)
	assert.ErrorIs(t, &result.Errors[0], context.Canceled)
}

func TestAggregator_ProcessUserFiles_LogsSkippedEntries(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	path := writeFile(t, t.TempDir(), "a.json", `{"users": ["x", {"value": "y"}]}`)

	agg := NewAggregator(testutil.MakeBufferLogger(&buf), 0)
	agg.ProcessUserFiles(context.Background(), []string{path})

	out := buf.String()
	assert.Contains(t, out, "invalid user entry")
	assert.Contains(t, out, "invalid user value")
	assert.Contains(t, out, "run_id=")
	assert.Contains(t, out, "processing complete")
}

func TestAggregator_ProcessManifest(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	good := writeFile(t, dir, "good.json", `{"users": [{"value": 2}]}`)

	agg := NewAggregator(testutil.MakeNoopLogger(), 0)

	manifest := `["` + filepath.ToSlash(good) + `", 42, null]`
	result, err := agg.ProcessManifest(context.Background(), strings.NewReader(manifest))
	require.NoError(t, err)

	require.Len(t, result.Summaries, 1)
	assert.Equal(t, 1, result.Summaries[0].UserCount)

	require.Len(t, result.Errors, 2)
	assert.Equal(t, model.ProcessingError{File: "42", Reason: model.ReasonInvalidPathType}, withoutCause(result.Errors[0]))
	assert.Equal(t, model.ProcessingError{File: "<nil>", Reason: model.ReasonInvalidPathType}, withoutCause(result.Errors[1]))
}

func TestAggregator_ProcessManifest_NotAList(t *testing.T) {
	t.Parallel()

	agg := NewAggregator(testutil.MakeNoopLogger(), 0)

	for _, manifest := range []string{`"not-a-list"`, `{"paths": []}`, `null`, `[`, ``, `["a.json"] trailing-garbage`, `["a.json"]]`, `[] []`} {
		_, err := agg.ProcessManifest(context.Background(), strings.NewReader(manifest))
		assert.ErrorIs(t, err, model.ErrPathsNotList, manifest)
	}

	result, err := agg.ProcessManifest(context.Background(), strings.NewReader(`[]`))
	require.NoError(t, err)
	assert.Empty(t, result.Summaries)
	assert.Empty(t, result.Errors)
}

func withoutCause(e model.ProcessingError) model.ProcessingError {
	e.Cause = nil
	return e
}
