package grpcserver

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// OrderServiceName is the fully qualified gRPC service name.
const OrderServiceName = "marketplace.orders.v1.OrderService"

// Messages are google.protobuf.Struct values; handlers decode them into typed requests.
type OrderServiceServer interface {
	UpdateStatus(context.Context, *structpb.Struct) (*structpb.Struct, error)
	PayOut(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListStatuses(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListStatusNames(context.Context, *structpb.Struct) (*structpb.Struct, error)
	UpdateStatusDefinition(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListOrders(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetOrder(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

// RegisterOrderServiceServer registers srv on s.
func RegisterOrderServiceServer(s grpc.ServiceRegistrar, srv OrderServiceServer) {
	s.RegisterService(&OrderService_ServiceDesc, srv)
}

type unaryMethod func(OrderServiceServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

// methodHandler matches the unexported handler type of grpc.MethodDesc.
type methodHandler = func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error)

func unaryHandler(name string, call unaryMethod) methodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(OrderServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + OrderServiceName + "/" + name}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(OrderServiceServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// OrderService_ServiceDesc is the grpc.ServiceDesc for the order service.
var OrderService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: OrderServiceName,
	HandlerType: (*OrderServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "UpdateStatus", Handler: unaryHandler("UpdateStatus", OrderServiceServer.UpdateStatus)},
		{MethodName: "PayOut", Handler: unaryHandler("PayOut", OrderServiceServer.PayOut)},
		{MethodName: "ListStatuses", Handler: unaryHandler("ListStatuses", OrderServiceServer.ListStatuses)},
		{MethodName: "ListStatusNames", Handler: unaryHandler("ListStatusNames", OrderServiceServer.ListStatusNames)},
		{MethodName: "UpdateStatusDefinition", Handler: unaryHandler("UpdateStatusDefinition", OrderServiceServer.UpdateStatusDefinition)},
		{MethodName: "ListOrders", Handler: unaryHandler("ListOrders", OrderServiceServer.ListOrders)},
		{MethodName: "GetOrder", Handler: unaryHandler("GetOrder", OrderServiceServer.GetOrder)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "marketplace/orders/v1/orders.proto",
}

// OrderServiceClient calls the order service over a client connection.
type OrderServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewOrderServiceClient(cc grpc.ClientConnInterface) *OrderServiceClient {
	return &OrderServiceClient{cc: cc}
}

// Call invokes method (e.g. "UpdateStatus") with the given request.
func (c *OrderServiceClient) Call(ctx context.Context, method string, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	if in == nil {
		in = &structpb.Struct{}
	}
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, "/"+OrderServiceName+"/"+method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
