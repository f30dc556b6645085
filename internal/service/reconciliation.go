package service

import (
	"context"
	"fmt"

	"splitbill-backend/internal/domain"
	"splitbill-backend/internal/logger"
	"splitbill-backend/internal/reconcile"
	"splitbill-backend/internal/repository"
)

type reconciliationService struct {
	eventRepo   repository.EventRepository
	expenseRepo repository.ExpenseRepository
	resolver    IdentityResolver
}

func NewReconciliationService(eventRepo repository.EventRepository, expenseRepo repository.ExpenseRepository, resolver IdentityResolver) ReconciliationService {
	return &reconciliationService{
		eventRepo:   eventRepo,
		expenseRepo: expenseRepo,
		resolver:    resolver,
	}
}

func (s *reconciliationService) GetReconciliation(ctx context.Context, eventID string) (*domain.Reconciliation, error) {
	logger.EnterMethod("reconciliationService.GetReconciliation", "eventID", eventID)

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		logger.ExitMethodWithError("reconciliationService.GetReconciliation", err, "eventID", eventID)
		return nil, err
	}
	expenses, err := s.expenseRepo.ListByEvent(ctx, eventID)
	if err != nil {
		logger.ExitMethodWithError("reconciliationService.GetReconciliation", err, "eventID", eventID)
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}

	// The owner is a member even when not listed as a participant.
	members := append([]string{event.OwnerID}, event.Participants...)
	ids := append([]string{}, members...)
	for _, x := range expenses {
		ids = append(ids, x.PayerID)
		ids = append(ids, x.Beneficiaries()...)
	}
	labels := s.resolver.Labels(ctx, ids)

	balances := reconcile.Compute(members, expenses, labels)

	logger.ExitMethod("reconciliationService.GetReconciliation", "eventID", eventID, "rows", len(balances))
	return &domain.Reconciliation{EventID: event.ID, Status: event.Status, Balances: balances}, nil
}
