package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"math"
	"os"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/dtroode/userintake/internal/logger"
	"github.com/dtroode/userintake/internal/model"
)

const usersKey, valueKey = "users", "value"

// Aggregator counts users and sums their values across JSON files.
// Files are processed one at a time in input order. A failing file is
// recorded and never stops the batch.
type Aggregator struct {
	logger       *logger.Logger
	maxFileBytes int64
}

// NewAggregator creates Aggregator. Files larger than maxFileBytes are
// rejected; a non-positive limit disables the check.
func NewAggregator(logger *logger.Logger, maxFileBytes int64) *Aggregator {
	return &Aggregator{
		logger:       logger,
		maxFileBytes: maxFileBytes,
	}
}

// ProcessUserFiles processes every path and returns one summary or one
// error per path.
func (a *Aggregator) ProcessUserFiles(ctx context.Context, paths []string) model.BatchResult {
	entries := make([]any, len(paths))
	for i, p := range paths {
		entries[i] = p
	}
	return a.process(ctx, entries)
}

// ProcessManifest reads a JSON array of file paths from r and processes it.
// A document that is not an array fails with model.ErrPathsNotList; array
// elements that are not strings are reported per entry.
func (a *Aggregator) ProcessManifest(ctx context.Context, r io.Reader) (model.BatchResult, error) {
	dec := json.NewDecoder(r)

	var doc any
	if err := dec.Decode(&doc); err != nil {
		return model.BatchResult{}, fmt.Errorf("%w: failed to decode manifest: %w", model.ErrPathsNotList, err)
	}

	var extra json.RawMessage
	if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
		return model.BatchResult{}, fmt.Errorf("%w: unexpected data after manifest", model.ErrPathsNotList)
	}

	entries, ok := doc.([]any)
	if !ok {
		return model.BatchResult{}, fmt.Errorf("%w: got %s", model.ErrPathsNotList, jsonKind(doc))
	}

	return a.process(ctx, entries), nil
}

func (a *Aggregator) process(ctx context.Context, entries []any) model.BatchResult {
	log := a.logger.With("run_id", uuid.NewString())

	result := model.BatchResult{
		Summaries: []model.FileSummary{},
		Errors:    []model.ProcessingError{},
	}

	if len(entries) == 0 {
		log.WarnContext(ctx, "empty file path list provided")
		return result
	}

	log.InfoContext(ctx, "processing files", "count", len(entries))

	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			result.Errors = append(result.Errors, *model.NewProcessingError(fmt.Sprint(entry), model.ReasonCancelled, err))
			continue
		}

		summary, diagnostics, err := a.processEntry(ctx, log, entry)
		result.Diagnostics = append(result.Diagnostics, diagnostics...)
		if err != nil {
			var procErr *model.ProcessingError
			if !errors.As(err, &procErr) {
				procErr = model.NewProcessingError(fmt.Sprint(entry), model.ReasonUnexpected+": "+err.Error(), err)
			}
			log.WarnContext(ctx, "file skipped", "file", procErr.File, "error", procErr.Reason, "cause", procErr.Cause)
			result.Errors = append(result.Errors, *procErr)
			continue
		}

		log.InfoContext(ctx, "file processed",
			"file", summary.File,
			"user_count", summary.UserCount,
			"total_value", summary.TotalValue)
		result.Summaries = append(result.Summaries, summary)
	}

	log.InfoContext(ctx, "processing complete",
		"succeeded", len(result.Summaries),
		"failed", len(result.Errors))

	return result
}

func (a *Aggregator) processEntry(ctx context.Context, log *logger.Logger, entry any) (summary model.FileSummary, diagnostics []model.Diagnostic, err error) {
	path, ok := entry.(string)
	if !ok {
		return model.FileSummary{}, nil, model.NewProcessingError(fmt.Sprint(entry), model.ReasonInvalidPathType, fmt.Errorf("unexpected path type %T", entry))
	}

	defer func() {
		if r := recover(); r != nil {
			err = model.NewProcessingError(path, fmt.Sprintf("%s: %v", model.ReasonUnexpected, r), fmt.Errorf("panic: %v", r))
		}
	}()

	if err := checkPath(path); err != nil {
		return model.FileSummary{}, nil, model.NewProcessingError(path, model.ReasonNotAccessible, err)
	}

	data, err := a.loadJSON(path)
	if err != nil {
		return model.FileSummary{}, nil, err
	}

	return extractUsers(ctx, log, path, data)
}

func checkPath(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("failed to stat file: %w", err)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("not a regular file: %s", info.Mode().Type())
	}
	return nil
}

// loadJSON reads the whole file and decodes it as a JSON object. The file is
// closed before returning.
func (a *Aggregator) loadJSON(path string) (map[string]any, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, openError(path, err)
	}
	defer f.Close()

	var r io.Reader = f
	if a.maxFileBytes > 0 {
		r = io.LimitReader(f, a.maxFileBytes+1)
	}

	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, openError(path, err)
	}
	if a.maxFileBytes > 0 && int64(len(raw)) > a.maxFileBytes {
		return nil, model.NewProcessingError(path, fmt.Sprintf("%s: file exceeds %d bytes", model.ReasonUnexpected, a.maxFileBytes), nil)
	}

	if !utf8.Valid(raw) {
		return nil, model.NewProcessingError(path, model.ReasonEncoding, errors.New("invalid UTF-8"))
	}

	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, model.NewProcessingError(path, model.ReasonInvalidJSON+": "+err.Error(), err)
	}

	obj, ok := doc.(map[string]any)
	if !ok {
		return nil, model.NewProcessingError(path, model.ReasonNotObject, fmt.Errorf("top-level value is %s", jsonKind(doc)))
	}

	return obj, nil
}

func openError(path string, err error) *model.ProcessingError {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return model.NewProcessingError(path, model.ReasonNotFound, err)
	case errors.Is(err, fs.ErrPermission):
		return model.NewProcessingError(path, model.ReasonPermissionDenied, err)
	default:
		return model.NewProcessingError(path, model.ReasonUnexpected+": "+err.Error(), err)
	}
}

// extractUsers counts every entry of the users array but sums only the
// values that can be read as numbers.
func extractUsers(ctx context.Context, log *logger.Logger, path string, data map[string]any) (model.FileSummary, []model.Diagnostic, error) {
	raw, ok := data[usersKey]
	if !ok {
		log.WarnContext(ctx, "no users key, using empty list", "file", path)
		raw = []any{}
	}

	users, ok := raw.([]any)
	if !ok {
		return model.FileSummary{}, nil, model.NewProcessingError(path, model.ReasonUsersNotList, fmt.Errorf("users is %s", jsonKind(raw)))
	}

	var (
		total       float64
		diagnostics []model.Diagnostic
	)
	for idx, u := range users {
		user, ok := u.(map[string]any)
		if !ok {
			d := model.Diagnostic{File: path, Index: idx, Message: "user entry is " + jsonKind(u) + ", not an object"}
			log.WarnContext(ctx, "invalid user entry", "file", d.File, "index", d.Index, "reason", d.Message)
			diagnostics = append(diagnostics, d)
			continue
		}

		value, err := coerceValue(user)
		if err != nil {
			d := model.Diagnostic{File: path, Index: idx, Message: err.Error()}
			log.WarnContext(ctx, "invalid user value", "file", d.File, "index", d.Index, "reason", d.Message)
			diagnostics = append(diagnostics, d)
			continue
		}
		if math.IsInf(total+value, 0) {
			d := model.Diagnostic{File: path, Index: idx, Message: "value overflows the running total"}
			log.WarnContext(ctx, "invalid user value", "file", d.File, "index", d.Index, "reason", d.Message)
			diagnostics = append(diagnostics, d)
			continue
		}
		total += value
	}

	return model.FileSummary{
		File:       path,
		UserCount:  len(users),
		TotalValue: total,
	}, diagnostics, nil
}

// coerceValue reads the value field of a user entry. A missing field counts
// as zero; numeric strings and booleans are converted. NaN and infinities
// are rejected so totals stay finite.
func coerceValue(user map[string]any) (float64, error) {
	v, ok := user[valueKey]
	if !ok {
		return 0, nil
	}

	switch val := v.(type) {
	case float64:
		return val, nil
	case bool:
		if val {
			return 1, nil
		}
		return 0, nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			return 0, fmt.Errorf("could not convert string to float: %q", val)
		}
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, fmt.Errorf("value is not a finite number: %q", val)
		}
		return f, nil
	default:
		return 0, fmt.Errorf("value must be a number, got %s", jsonKind(v))
	}
}

func jsonKind(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case float64, json.Number:
		return "number"
	case string:
		return "string"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return fmt.Sprintf("%T", v)
	}
}
