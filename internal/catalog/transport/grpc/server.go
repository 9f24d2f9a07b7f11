// Package grpc provides a gRPC server for the catalog service.
package grpc

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	catalogerrors "github.com/abgdnv/catalog/internal/catalog/errors"
	"github.com/abgdnv/catalog/internal/catalog/service"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

const (
	serviceName      = "catalog.v1.CatalogService"
	getProductMethod = "/" + serviceName + "/GetProduct"
)

// CatalogServiceServer is the server API of catalog.v1.CatalogService.
// Messages are protobuf well-known types, so no generated code is involved.
type CatalogServiceServer interface {
	GetProduct(ctx context.Context, req *wrapperspb.Int64Value) (*structpb.Struct, error)
}

// ServiceDesc describes catalog.v1.CatalogService for grpc.Server.RegisterService.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*CatalogServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "GetProduct",
			Handler:    getProductHandler,
		},
	},
	Streams: []grpc.StreamDesc{},
}

func getProductHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(wrapperspb.Int64Value)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(CatalogServiceServer).GetProduct(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: getProductMethod,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(CatalogServiceServer).GetProduct(ctx, req.(*wrapperspb.Int64Value))
	}
	return interceptor(ctx, in, info, handler)
}

// Register adds the catalog service to s.
func Register(s grpc.ServiceRegistrar, srv CatalogServiceServer) {
	s.RegisterService(&ServiceDesc, srv)
}

// ProductService defines the part of the product service exposed over gRPC.
type ProductService interface {
	FindByID(ctx context.Context, id int64) (*service.ProductDetailsDto, error)
}

// Server implements CatalogServiceServer on top of the product service.
type Server struct {
	service ProductService
}

// NewServer creates a gRPC catalog server backed by service.
func NewServer(service ProductService) *Server {
	return &Server{service: service}
}

// GetProduct returns the product with its inventory as a Struct shaped like the REST representation.
func (s *Server) GetProduct(ctx context.Context, req *wrapperspb.Int64Value) (*structpb.Struct, error) {
	logger := slog.With(slog.Int64("product_id", req.GetValue()))
	logger.InfoContext(ctx, "received grpc request GetProduct")
	if req.GetValue() <= 0 {
		return nil, status.Errorf(codes.InvalidArgument, "invalid product ID: %d", req.GetValue())
	}

	found, err := s.service.FindByID(ctx, req.GetValue())
	if err != nil {
		if errors.Is(err, catalogerrors.ErrProductNotFound) {
			return nil, status.Errorf(codes.NotFound, "product with ID %d not found", req.GetValue())
		}
		logger.ErrorContext(ctx, "service.FindByID failed", slog.Any("error", err))
		return nil, status.Errorf(codes.Internal, "internal server error")
	}

	data, err := json.Marshal(found)
	if err != nil {
		logger.ErrorContext(ctx, "failed to encode product", slog.Any("error", err))
		return nil, status.Errorf(codes.Internal, "internal server error")
	}
	product := &structpb.Struct{}
	if err := protojson.Unmarshal(data, product); err != nil {
		logger.ErrorContext(ctx, "failed to convert product", slog.Any("error", err))
		return nil, status.Errorf(codes.Internal, "internal server error")
	}
	logger.InfoContext(ctx, "send grpc response for GetProduct")
	return product, nil
}

// Client calls catalog.v1.CatalogService.
type Client struct {
	cc grpc.ClientConnInterface
}

// NewClient creates a catalog client over an established connection.
func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

// GetProduct fetches one product by id. Errors carry the server status code.
func (c *Client) GetProduct(ctx context.Context, id int64, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, getProductMethod, wrapperspb.Int64(id), out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
