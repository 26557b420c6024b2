package report

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/findosh/stockpulse/internal/models"
	"github.com/findosh/stockpulse/internal/services/agent"
	"github.com/rs/zerolog"
)

// Service generates reports with the coordinator agent and delivers them
type Service struct {
	invoker  agent.Invoker
	registry *agent.Registry
	logger   zerolog.Logger
	now      func() time.Time
}

// NewService creates a report service
func NewService(invoker agent.Invoker, registry *agent.Registry, logger zerolog.Logger) *Service {
	return &Service{
		invoker:  invoker,
		registry: registry,
		logger:   logger.With().Str("component", "report").Logger(),
		now:      time.Now,
	}
}

// Generate requests a report for the watchlist, with the ledger as context
func (s *Service) Generate(ctx context.Context, tickers []string, ledger models.Ledger) (models.Report, error) {
	agentID := s.registry.ID(agent.RoleCoordinator)

	resp, err := agent.Call(ctx, s.invoker, agentID, "generate report", ReportMessage(tickers, ledger))
	if err != nil {
		return models.Report{}, err
	}

	payload := agent.Unwrap(resp)
	r, err := ParseReport(payload, s.now())
	if err != nil {
		s.logger.Warn().Str("shape", string(payload.Shape)).Msg("agent response is not a report")
		return models.Report{}, err
	}

	s.logger.Info().
		Str("shape", string(payload.Shape)).
		Int("tickers", len(tickers)).
		Int("recommendations", len(r.Recommendations)).
		Msg("report generated")
	return r, nil
}

// Deliver asks the delivery agent to email the report
func (s *Service) Deliver(ctx context.Context, email string, r models.Report) error {
	if email == "" {
		return fmt.Errorf("no delivery email configured")
	}
	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}

	_, err = agent.Call(ctx, s.invoker, s.registry.ID(agent.RoleDelivery), "deliver report", DeliveryMessage(email, string(data)))
	if err != nil {
		return err
	}

	s.logger.Info().Str("email", email).Msg("report delivered")
	return nil
}
