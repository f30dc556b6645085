package grpc

import (
	"context"

	"google.golang.org/protobuf/types/known/structpb"

	"splitbill-backend/internal/domain"
	"splitbill-backend/internal/service"
)

type eventIDRequest struct {
	EventID string `json:"event_id"`
}

type friendRequest struct {
	FriendEmail string `json:"friend_email"`
}

type credentialsRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name"`
}

// SplitBillHandler implements SplitBillServiceServer on top of the services.
type SplitBillHandler struct {
	authSvc   service.AuthService
	ledgerSvc service.LedgerService
	reconSvc  service.ReconciliationService
	friendSvc service.FriendService
}

func NewSplitBillHandler(
	authSvc service.AuthService,
	ledgerSvc service.LedgerService,
	reconSvc service.ReconciliationService,
	friendSvc service.FriendService,
) *SplitBillHandler {
	return &SplitBillHandler{
		authSvc:   authSvc,
		ledgerSvc: ledgerSvc,
		reconSvc:  reconSvc,
		friendSvc: friendSvc,
	}
}

func (h *SplitBillHandler) Signup(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in credentialsRequest
	if err := decodeRequest(req, &in); err != nil {
		return nil, err
	}
	user, token, err := h.authSvc.Signup(ctx, in.Email, in.Password, in.DisplayName)
	if err != nil {
		return nil, toStatus(err)
	}
	return encodeResponse(map[string]any{"user": MapDomainUserToStruct(user), "access_token": token})
}

func (h *SplitBillHandler) Login(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in credentialsRequest
	if err := decodeRequest(req, &in); err != nil {
		return nil, err
	}
	user, token, err := h.authSvc.Login(ctx, in.Email, in.Password)
	if err != nil {
		return nil, toStatus(err)
	}
	return encodeResponse(map[string]any{"user": MapDomainUserToStruct(user), "access_token": token})
}

func (h *SplitBillHandler) ListEvents(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	userID, err := GetUserIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	events, err := h.ledgerSvc.ListEvents(ctx, userID)
	if err != nil {
		return nil, toStatus(err)
	}
	out := make([]any, len(events))
	for i := range events {
		out[i] = MapDomainEventToStruct(&events[i])
	}
	return encodeResponse(map[string]any{"events": out})
}

func (h *SplitBillHandler) CreateEvent(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	userID, err := GetUserIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	var in domain.CreateEventRequest
	if err := decodeRequest(req, &in); err != nil {
		return nil, err
	}
	event, err := h.ledgerSvc.CreateEvent(ctx, userID, &in)
	if err != nil {
		return nil, toStatus(err)
	}
	return encodeResponse(MapDomainEventToStruct(event))
}

func (h *SplitBillHandler) GetEventDetails(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in eventIDRequest
	if err := decodeRequest(req, &in); err != nil {
		return nil, err
	}
	details, err := h.ledgerSvc.GetEventDetails(ctx, in.EventID)
	if err != nil {
		return nil, toStatus(err)
	}
	return encodeResponse(MapDomainEventDetailsToStruct(details))
}

func (h *SplitBillHandler) AddParticipant(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in domain.AddParticipantRequest
	if err := decodeRequest(req, &in); err != nil {
		return nil, err
	}
	userID, err := h.ledgerSvc.AddParticipant(ctx, &in)
	if err != nil {
		return nil, toStatus(err)
	}
	return encodeResponse(map[string]any{"event_id": in.EventID, "user_id": userID})
}

func (h *SplitBillHandler) LockEvent(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in eventIDRequest
	if err := decodeRequest(req, &in); err != nil {
		return nil, err
	}
	event, err := h.ledgerSvc.LockEvent(ctx, in.EventID)
	if err != nil {
		return nil, toStatus(err)
	}
	return encodeResponse(MapDomainEventToStruct(event))
}

func (h *SplitBillHandler) AddExpense(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in domain.AddExpenseRequest
	if err := decodeRequest(req, &in); err != nil {
		return nil, err
	}
	expense, err := h.ledgerSvc.AddExpense(ctx, &in)
	if err != nil {
		return nil, toStatus(err)
	}
	return encodeResponse(MapDomainExpenseToStruct(expense))
}

func (h *SplitBillHandler) MarkSharePaid(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	userID, err := GetUserIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	var in domain.MarkSharePaidRequest
	if err := decodeRequest(req, &in); err != nil {
		return nil, err
	}
	outcome, err := h.ledgerSvc.MarkSharePaid(ctx, userID, &in)
	if err != nil {
		return nil, toStatus(err)
	}
	return encodeResponse(map[string]any{
		"success":        true,
		"expense_paid":   outcome.ExpensePaid,
		"event_finished": outcome.EventFinished,
	})
}

func (h *SplitBillHandler) GetReconciliation(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in eventIDRequest
	if err := decodeRequest(req, &in); err != nil {
		return nil, err
	}
	if in.EventID == "" {
		return nil, toStatus(domain.NewValidationError("event_id", "must not be empty"))
	}
	rec, err := h.reconSvc.GetReconciliation(ctx, in.EventID)
	if err != nil {
		return nil, toStatus(err)
	}
	return encodeResponse(MapDomainReconciliationToStruct(rec))
}

func (h *SplitBillHandler) ListFriends(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	userID, err := GetUserIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	friends, err := h.friendSvc.ListFriends(ctx, userID)
	if err != nil {
		return nil, toStatus(err)
	}
	out := make([]any, len(friends))
	for i := range friends {
		out[i] = MapDomainUserToStruct(&friends[i])
	}
	return encodeResponse(map[string]any{"friends": out})
}

func (h *SplitBillHandler) AddFriend(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	userID, err := GetUserIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	var in friendRequest
	if err := decodeRequest(req, &in); err != nil {
		return nil, err
	}
	friend, err := h.friendSvc.AddFriend(ctx, userID, in.FriendEmail)
	if err != nil {
		return nil, toStatus(err)
	}
	return encodeResponse(map[string]any{"success": true, "friend": MapDomainUserToStruct(friend)})
}
