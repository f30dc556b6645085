package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

const ServiceName = "splitbill.v1.SplitBillService"

// SplitBillServiceServer is the server API. Every message is a
// google.protobuf.Struct whose fields follow the JSON names of the HTTP API.
type SplitBillServiceServer interface {
	Signup(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Login(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListEvents(context.Context, *structpb.Struct) (*structpb.Struct, error)
	CreateEvent(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetEventDetails(context.Context, *structpb.Struct) (*structpb.Struct, error)
	AddParticipant(context.Context, *structpb.Struct) (*structpb.Struct, error)
	LockEvent(context.Context, *structpb.Struct) (*structpb.Struct, error)
	AddExpense(context.Context, *structpb.Struct) (*structpb.Struct, error)
	MarkSharePaid(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetReconciliation(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListFriends(context.Context, *structpb.Struct) (*structpb.Struct, error)
	AddFriend(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

type unaryMethod func(SplitBillServiceServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func methodHandler(name string, call unaryMethod) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(structpb.Struct)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(SplitBillServiceServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{
				Server:     srv,
				FullMethod: FullMethod(name),
			}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(SplitBillServiceServer), ctx, req.(*structpb.Struct))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

// FullMethod returns the fully qualified gRPC method name.
func FullMethod(name string) string {
	return "/" + ServiceName + "/" + name
}

var SplitBillServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*SplitBillServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		methodHandler("Signup", SplitBillServiceServer.Signup),
		methodHandler("Login", SplitBillServiceServer.Login),
		methodHandler("ListEvents", SplitBillServiceServer.ListEvents),
		methodHandler("CreateEvent", SplitBillServiceServer.CreateEvent),
		methodHandler("GetEventDetails", SplitBillServiceServer.GetEventDetails),
		methodHandler("AddParticipant", SplitBillServiceServer.AddParticipant),
		methodHandler("LockEvent", SplitBillServiceServer.LockEvent),
		methodHandler("AddExpense", SplitBillServiceServer.AddExpense),
		methodHandler("MarkSharePaid", SplitBillServiceServer.MarkSharePaid),
		methodHandler("GetReconciliation", SplitBillServiceServer.GetReconciliation),
		methodHandler("ListFriends", SplitBillServiceServer.ListFriends),
		methodHandler("AddFriend", SplitBillServiceServer.AddFriend),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "splitbill/v1/splitbill.proto",
}

func RegisterSplitBillServiceServer(s grpc.ServiceRegistrar, srv SplitBillServiceServer) {
	s.RegisterService(&SplitBillServiceDesc, srv)
}
