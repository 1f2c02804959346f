package rpc

import (
	"context"

	gopagestash "github.com/nordveil/goPageStash"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// StashHandler serves the PageCache service from a [gopagestash.Fetcher].
type StashHandler struct {
	fetcher *gopagestash.Fetcher
}

// NewStashHandler creates a Handler backed by f.
func NewStashHandler(f *gopagestash.Fetcher) *StashHandler {
	return &StashHandler{fetcher: f}
}

// Fetch runs the count-then-cache-then-fetch pipeline for the requested URL.
// Pipeline failures (transport or store) surface as codes.Unavailable with
// the underlying error message.
func (h *StashHandler) Fetch(ctx context.Context, req *FetchRequest) (*FetchResponse, error) {
	if req.URL == "" {
		return nil, status.Error(codes.InvalidArgument, "url is required")
	}
	content, err := h.fetcher.Fetch(ctx, req.URL)
	if err != nil {
		return nil, status.Error(codes.Unavailable, err.Error())
	}
	return &FetchResponse{Content: content}, nil
}
