package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/googleapi"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var (
	// ErrRejected means the upstream refused the request itself (bad input,
	// blocked prompt). Retrying the same request will not help.
	ErrRejected = errors.New("generation rejected")
	// ErrUpstream covers outages, quota exhaustion and timeouts.
	ErrUpstream = errors.New("generation upstream failure")
)

// Classify wraps err with ErrRejected or ErrUpstream while keeping the original
// error in the chain. Context cancellation is passed through untouched.
func Classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) {
		return err
	}
	var blocked *genai.BlockedError
	if errors.As(err, &blocked) {
		return fmt.Errorf("%w: %w", ErrRejected, err)
	}
	var gErr *googleapi.Error
	if errors.As(err, &gErr) {
		if gErr.Code == http.StatusBadRequest || gErr.Code == http.StatusNotFound {
			return fmt.Errorf("%w: %w", ErrRejected, err)
		}
		return fmt.Errorf("%w: %w", ErrUpstream, err)
	}
	switch status.Code(err) {
	case codes.InvalidArgument, codes.NotFound, codes.FailedPrecondition:
		return fmt.Errorf("%w: %w", ErrRejected, err)
	default:
		return fmt.Errorf("%w: %w", ErrUpstream, err)
	}
}
