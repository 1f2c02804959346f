// Package rpc exposes the page stash over gRPC as the stash.PageCache
// service. It uses [grpc.ServiceDesc] registration so that no protobuf code
// generation is required.
//
// Because the request/response types are plain Go structs (not generated
// protobuf messages), the package registers a thin codec wrapper that
// JSON-encodes stash types while delegating all other messages to the
// standard proto codec. Import this package (or call [Register]) to
// activate the codec automatically.
package rpc

import (
	"context"
	"encoding/json"
	"fmt"

	"google.golang.org/grpc"
	grpcEncoding "google.golang.org/grpc/encoding"
	_ "google.golang.org/grpc/encoding/proto" // ensure default proto codec is registered first
	"google.golang.org/protobuf/proto"
)

// FetchRequest is the input for the Fetch method.
type FetchRequest struct {
	URL string `json:"url"`
}

// FetchResponse is the output of the Fetch method.
type FetchResponse struct {
	Content string `json:"content"`
}

// stashMsg is a marker interface satisfied by FetchRequest and FetchResponse.
type stashMsg interface {
	isStashMsg()
}

func (*FetchRequest) isStashMsg()  {}
func (*FetchResponse) isStashMsg() {}

// Handler is the interface that a PageCache service implementation must
// satisfy.
type Handler interface {
	Fetch(ctx context.Context, req *FetchRequest) (*FetchResponse, error)
}

// ServiceDesc is the grpc.ServiceDesc for the stash.PageCache service.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: "stash.PageCache",
	HandlerType: (*Handler)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "Fetch",
			Handler:    fetchHandler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "stash/pagecache.proto",
}

func fetchHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	req := new(FetchRequest)
	if err := dec(req); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(Handler).Fetch(ctx, req)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: "/stash.PageCache/Fetch",
	}
	handler := func(ctx context.Context, r any) (any, error) {
		return srv.(Handler).Fetch(ctx, r.(*FetchRequest))
	}
	return interceptor(ctx, req, info, handler)
}

// Register registers a PageCache service implementation on the given gRPC
// server.
func Register(s *grpc.Server, h Handler) {
	s.RegisterService(&ServiceDesc, h)
}

// ---------- codec wrapper ----------

func init() {
	// Replace the default proto codec with a thin wrapper that JSON-encodes
	// stash types and delegates all other (protobuf) messages to proto.Marshal.
	grpcEncoding.RegisterCodec(stashCodec{})
}

// stashCodec wraps the default proto codec. It handles FetchRequest and
// FetchResponse via JSON, and delegates all other types to proto.Marshal/Unmarshal.
type stashCodec struct{}

func (stashCodec) Name() string { return "proto" }

func (stashCodec) Marshal(v any) ([]byte, error) {
	if _, ok := v.(stashMsg); ok {
		return json.Marshal(v)
	}
	if m, ok := v.(proto.Message); ok {
		return proto.Marshal(m)
	}
	return nil, fmt.Errorf("stash codec: unsupported message type %T", v)
}

func (stashCodec) Unmarshal(data []byte, v any) error {
	if _, ok := v.(stashMsg); ok {
		return json.Unmarshal(data, v)
	}
	if m, ok := v.(proto.Message); ok {
		return proto.Unmarshal(data, m)
	}
	return fmt.Errorf("stash codec: unsupported message type %T", v)
}
