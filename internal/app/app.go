package app

import (
	"context"
	"io"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/go-faster/sdk/app"
	"go.uber.org/zap"

	"github.com/xenking/korzinka-settlement/internal/codec"
	"github.com/xenking/korzinka-settlement/internal/domain/settlement"
	"github.com/xenking/korzinka-settlement/internal/source"
)

// decodeBufSize is the read buffer for streaming order exports.
const decodeBufSize = 64 * 1024

// Summary counts the outcome of a settlement run.
type Summary struct {
	Orders   int
	Settled  int
	Rejected int
	Warnings int
}

// Run reads the configured order export, settles every order and writes the
// results. It is the single wiring point for the settle command.
func Run(ctx context.Context, lg *zap.Logger, m *app.Telemetry, cfg *Config) error {
	lg.Info("Initializing",
		zap.String("input", cfg.Input),
		zap.String("output", cfg.Output),
		zap.Int("workers", cfg.Workers),
	)

	svc, err := settlement.NewService(lg, m.MeterProvider(), m.TracerProvider(), settlement.ServiceConfig{
		Workers:       cfg.Workers,
		FailOnInvalid: cfg.FailOnInvalid,
	})
	if err != nil {
		return errors.Wrap(err, "create settlement service")
	}

	in, err := source.Open(cfg.Input)
	if err != nil {
		return errors.Wrapf(err, "input %s", cfg.Input)
	}
	defer func() { _ = in.Close() }()

	// Output is only moved into place on success; a failed run leaves any
	// previous file at cfg.Output untouched.
	out, err := source.Create(cfg.Output)
	if err != nil {
		return errors.Wrapf(err, "output %s", cfg.Output)
	}
	defer func() { _ = out.Close() }()

	sum, err := Process(ctx, svc, in, out, cfg.Indent)
	if err != nil {
		return err
	}
	if err := out.Commit(); err != nil {
		return errors.Wrapf(err, "output %s", cfg.Output)
	}

	lg.Info("Settlement complete",
		zap.Int("orders", sum.Orders),
		zap.Int("settled", sum.Settled),
		zap.Int("rejected", sum.Rejected),
		zap.Int("warnings", sum.Warnings),
	)
	return nil
}

// Process decodes orders from r, settles them with svc and encodes the
// results to w.
func Process(ctx context.Context, svc *settlement.Service, r io.Reader, w io.Writer, indent int) (Summary, error) {
	entries, err := codec.DecodeOrders(jx.Decode(r, decodeBufSize))
	if err != nil {
		return Summary{}, errors.Wrap(err, "decode orders")
	}

	results, err := svc.SettleAll(ctx, entries)
	if err != nil {
		return Summary{}, err
	}

	var e jx.Encoder
	e.SetIdent(indent)
	codec.EncodeResults(&e, results)
	if _, err := w.Write(append(e.Bytes(), '\n')); err != nil {
		return Summary{}, errors.Wrap(err, "write results")
	}

	sum := Summary{Orders: len(results)}
	for _, res := range results {
		if res.Err != nil {
			sum.Rejected++
			continue
		}
		sum.Settled++
		sum.Warnings += len(res.Report.Warnings)
	}
	return sum, nil
}
