package grpc

import (
	"encoding/json"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"splitbill-backend/internal/domain"
)

// decodeRequest copies the fields of a Struct message into a request struct
// through its JSON form.
func decodeRequest(in *structpb.Struct, v any) error {
	data, err := protojson.Marshal(in)
	if err != nil {
		return status.Errorf(codes.InvalidArgument, "malformed request: %v", err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return status.Errorf(codes.InvalidArgument, "malformed request: %v", err)
	}
	return nil
}

func encodeResponse(m map[string]any) (*structpb.Struct, error) {
	out, err := structpb.NewStruct(m)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "failed to encode response: %v", err)
	}
	return out, nil
}

func stringList(ids []string) []any {
	out := make([]any, len(ids))
	for i, id := range ids {
		out[i] = id
	}
	return out
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func MapDomainEventToStruct(e *domain.Event) map[string]any {
	return map[string]any{
		"event_id":     e.ID,
		"owner_id":     e.OwnerID,
		"name":         e.Name,
		"status":       string(e.Status),
		"created_at":   formatTime(e.CreatedAt),
		"participants": stringList(e.Participants),
	}
}

func MapDomainExpenseToStruct(x *domain.Expense) map[string]any {
	shares := make([]any, len(x.Shares))
	for i, s := range x.Shares {
		shares[i] = map[string]any{
			"user_id": s.UserID,
			"is_paid": s.IsPaid,
		}
	}
	return map[string]any{
		"expense_id":    x.ID,
		"event_id":      x.EventID,
		"name":          x.Name,
		"amount":        x.Amount.StringFixed(2),
		"payer_id":      x.PayerID,
		"status":        string(x.Status),
		"is_paid":       x.IsPaid,
		"share":         x.Share().StringFixed(2),
		"created_at":    formatTime(x.CreatedAt),
		"beneficiaries": stringList(x.Beneficiaries()),
		"shares":        shares,
	}
}

func MapDomainEventDetailsToStruct(d *domain.EventDetails) map[string]any {
	out := MapDomainEventToStruct(&d.Event)
	expenses := make([]any, len(d.Expenses))
	for i := range d.Expenses {
		expenses[i] = MapDomainExpenseToStruct(&d.Expenses[i])
	}
	out["expenses"] = expenses
	return out
}

func MapDomainReconciliationToStruct(r *domain.Reconciliation) map[string]any {
	balances := make([]any, len(r.Balances))
	for i, b := range r.Balances {
		balances[i] = map[string]any{
			"user_id": b.UserID,
			"label":   b.Label,
			"paid":    b.Paid.StringFixed(2),
			"owed":    b.Owed.StringFixed(2),
			"net":     b.Net.StringFixed(2),
		}
	}
	return map[string]any{
		"event_id": r.EventID,
		"status":   string(r.Status),
		"balances": balances,
	}
}

func MapDomainUserToStruct(u *domain.User) map[string]any {
	return map[string]any{
		"uid":   u.ID,
		"email": u.Email,
		"name":  u.DisplayName,
	}
}
