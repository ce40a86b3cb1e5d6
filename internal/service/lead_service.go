package service

import (
	"context"
	"fmt"
	"time"

	"github.com/juicefit/juice-platform/internal/domain"
	"github.com/juicefit/juice-platform/internal/forms"
	"github.com/juicefit/juice-platform/internal/repo/postgres"
	"github.com/juicefit/juice-platform/pkg/events"
	"github.com/juicefit/juice-platform/pkg/logger"
)

type LeadService interface {
	CaptureLead(ctx context.Context, req *domain.LeadReq) (*domain.Lead, error)
	RecordStep(ctx context.Context, flowName string, stepIndex int, stepName string)
	ListLeads(ctx context.Context, limit, offset int) ([]domain.Lead, error)
}

type leadService struct {
	leadRepo postgres.LeadRepository
	eventBus events.Publisher
}

func NewLeadService(leadRepo postgres.LeadRepository, eventBus events.Publisher) LeadService {
	return &leadService{
		leadRepo: leadRepo,
		eventBus: eventBus,
	}
}

// IntakeSteps is the canonical client-intake funnel: the same field groups
// and checks every variant of the form uses.
func IntakeSteps() []forms.Step {
	return []forms.Step{
		{Name: "about_you", Fields: []forms.Field{
			{Name: "full_name", Required: true, MaxLen: domain.MaxNameLen},
			{Name: "email", Required: true, Kind: forms.Email},
			{Name: "phone"},
		}},
		{Name: "your_goal", Fields: []forms.Field{
			{Name: "goal", Required: true},
			{Name: "city"},
		}},
		{Name: "details", Fields: []forms.Field{
			{Name: "notes", MaxLen: domain.MaxNotesLen},
		}},
	}
}

// CaptureLead replays the submitted object through the intake flow so the
// server applies exactly the per-step checks the client did, then persists
// and publishes the capture.
func (s *leadService) CaptureLead(ctx context.Context, req *domain.LeadReq) (*domain.Lead, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	flow := forms.NewFlow("client_intake", IntakeSteps(), s.stepRecorder(ctx))
	flow.Set("full_name", req.FullName)
	flow.Set("email", req.Email)
	flow.Set("phone", req.Phone)
	flow.Set("goal", req.Goal)
	flow.Set("city", req.City)
	flow.Set("notes", req.Notes)

	for flow.StepIndex() < len(IntakeSteps())-1 {
		if err := flow.Next(); err != nil {
			return nil, err
		}
	}

	var lead *domain.Lead
	err := flow.Submit(ctx, func(ctx context.Context, _ map[string]string) error {
		created, err := s.leadRepo.Create(ctx, req)
		if err != nil {
			return fmt.Errorf("failed to store lead: %w", err)
		}
		lead = created
		return nil
	})
	if err != nil {
		return nil, err
	}

	event := events.LeadCapturedEvent{
		LeadID:    lead.ID,
		Email:     lead.Email,
		Source:    lead.Source,
		City:      lead.City,
		CreatedAt: lead.CreatedAt,
	}
	if err := s.eventBus.Publish(ctx, events.LeadCaptured, event); err != nil {
		logger.ErrorContext(ctx, "Failed to publish lead captured event", "error", err, "lead_id", lead.ID)
	}

	return lead, nil
}

// RecordStep publishes a step-completion analytics event reported by the
// client-side funnel.
func (s *leadService) RecordStep(ctx context.Context, flowName string, stepIndex int, stepName string) {
	event := events.LeadStepCompletedEvent{
		FlowName:    flowName,
		StepIndex:   stepIndex,
		StepName:    stepName,
		CompletedAt: time.Now(),
	}
	if err := s.eventBus.Publish(ctx, events.LeadStepCompleted, event); err != nil {
		logger.WarnContext(ctx, "Failed to publish step event", "error", err, "flow", flowName, "step", stepIndex)
	}
}

func (s *leadService) ListLeads(ctx context.Context, limit, offset int) ([]domain.Lead, error) {
	return s.leadRepo.List(ctx, limit, offset)
}

func (s *leadService) stepRecorder(ctx context.Context) forms.Recorder {
	return func(flowName string, stepIndex int, stepName string) {
		s.RecordStep(ctx, flowName, stepIndex, stepName)
	}
}
