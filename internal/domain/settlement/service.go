package settlement

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Entry is one order of a batch, keyed by the caller's order identifier.
type Entry struct {
	ID    string
	Draft Draft
}

// Result is the outcome for one entry. Exactly one of Report and Err is set.
type Result struct {
	ID     string
	Report *Report
	Err    error
}

// ServiceConfig controls batch settlement.
type ServiceConfig struct {
	// Workers bounds how many orders are settled concurrently.
	Workers int
	// FailOnInvalid aborts the batch on the first invalid order instead of
	// recording the error on its Result.
	FailOnInvalid bool
}

// Service settles batches of orders.
type Service struct {
	lg      *zap.Logger
	tracer  trace.Tracer
	cfg     ServiceConfig
	settled metric.Int64Counter
	invalid metric.Int64Counter
	warned  metric.Int64Counter
}

// NewService creates a Service reporting to the given logger and providers.
func NewService(lg *zap.Logger, mp metric.MeterProvider, tp trace.TracerProvider, cfg ServiceConfig) (*Service, error) {
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}

	meter := mp.Meter("settlement")
	settled, err := meter.Int64Counter("settlement.orders.settled",
		metric.WithDescription("Orders settled successfully"),
	)
	if err != nil {
		return nil, errors.Wrap(err, "settled counter")
	}
	invalid, err := meter.Int64Counter("settlement.orders.rejected",
		metric.WithDescription("Orders rejected at validation"),
	)
	if err != nil {
		return nil, errors.Wrap(err, "rejected counter")
	}
	warned, err := meter.Int64Counter("settlement.warnings",
		metric.WithDescription("Anomaly warnings raised on settled orders"),
	)
	if err != nil {
		return nil, errors.Wrap(err, "warnings counter")
	}

	return &Service{
		lg:      lg,
		tracer:  tp.Tracer("settlement"),
		cfg:     cfg,
		settled: settled,
		invalid: invalid,
		warned:  warned,
	}, nil
}

// Settle builds and assembles a single order.
func (s *Service) Settle(ctx context.Context, e Entry) (*Report, error) {
	return s.settle(ctx, e, entryLabel(e, -1))
}

// entryLabel names an entry in errors and logs. Entries without an ID are
// named by their batch position, or "(no id)" outside a batch.
func entryLabel(e Entry, index int) string {
	switch {
	case e.ID != "":
		return e.ID
	case index >= 0:
		return fmt.Sprintf("#%d", index)
	default:
		return "(no id)"
	}
}

func (s *Service) settle(ctx context.Context, e Entry, label string) (*Report, error) {
	o, err := e.Draft.Build()
	if err != nil {
		s.invalid.Add(ctx, 1)
		return nil, errors.Wrapf(err, "order %s", label)
	}

	r := Assemble(o)
	s.settled.Add(ctx, 1)
	for _, w := range r.Warnings {
		s.warned.Add(ctx, 1, metric.WithAttributes(attribute.String("warning", string(w))))
		s.lg.Warn("Settlement anomaly",
			zap.String("order_id", label),
			zap.String("warning", string(w)),
		)
	}
	s.lg.Debug("Order settled",
		zap.String("order_id", label),
		zap.Stringer("total_paid_local", r.TotalPaidLocal),
		zap.Stringer("amount_due_local", r.AmountDueLocal),
		zap.Stringer("grand_profit_foreign", r.GrandProfitForeign),
	)
	return &r, nil
}

// SettleAll settles entries concurrently and returns results in input order.
// Invalid orders are recorded on their Result unless FailOnInvalid is set.
func (s *Service) SettleAll(ctx context.Context, entries []Entry) ([]Result, error) {
	batchID := uuid.New().String()
	ctx, span := s.tracer.Start(ctx, "settlement.SettleAll",
		trace.WithAttributes(
			attribute.String("batch_id", batchID),
			attribute.Int("orders", len(entries)),
		),
	)
	defer span.End()

	lg := s.lg.With(zap.String("batch_id", batchID))
	lg.Info("Settling batch", zap.Int("orders", len(entries)), zap.Int("workers", s.cfg.Workers))

	results := make([]Result, len(entries))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.Workers)

	for i, e := range entries {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			label := entryLabel(e, i)
			r, err := s.settle(gctx, e, label)
			results[i] = Result{ID: e.ID, Report: r, Err: err}
			if err != nil {
				if s.cfg.FailOnInvalid {
					return err
				}
				lg.Warn("Order rejected", zap.String("order_id", label), zap.Error(err))
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, errors.Wrap(err, "settle batch")
	}

	lg.Info("Batch settled", zap.Int("orders", len(entries)))
	return results, nil
}
