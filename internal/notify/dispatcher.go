package notify

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/stirlingv/honey-biz/internal/entities"
)

const (
	channelSMS   = "sms"
	channelEmail = "email"
)

type Options struct {
	// SMSTo is an email-to-SMS gateway address. Empty disables short alerts.
	SMSTo string
	// AdminTo receives the detailed message. Empty disables it.
	AdminTo string
	// AdminBaseURL prefixes admin edit links.
	AdminBaseURL string
	Timeout      time.Duration
}

// Dispatcher sends staff notifications. Sending never fails from the
// caller's point of view: problems are logged and counted.
type Dispatcher struct {
	logger *slog.Logger
	sender Sender
	opts   Options
	format Formatter
	wg     sync.WaitGroup
}

func NewDispatcher(logger *slog.Logger, sender Sender, opts Options) *Dispatcher {
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	return &Dispatcher{
		logger: logger.With(slog.String("service", "notify")),
		sender: sender,
		opts:   opts,
		format: Formatter{BaseURL: opts.AdminBaseURL},
	}
}

// Dispatch sends n in the background. The send outlives ctx cancellation but
// is bounded by the configured timeout.
func (d *Dispatcher) Dispatch(ctx context.Context, n Notice) {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()

		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), d.opts.Timeout)
		defer cancel()
		d.Send(ctx, n)
	}()
}

// Send delivers the short alert and the detailed message synchronously.
func (d *Dispatcher) Send(ctx context.Context, n Notice) {
	logger := d.logger.With(slog.String("kind", string(n.Kind)), slog.Int64("id", n.ID))
	if n.ID == 0 {
		logger.Warn("notification skipped: record is not persisted")
		return
	}

	d.deliver(ctx, logger, channelSMS, d.opts.SMSTo, "", Short(n.Short))
	d.deliver(ctx, logger, channelEmail, d.opts.AdminTo, n.Subject, n.Body)
}

func (d *Dispatcher) deliver(ctx context.Context, logger *slog.Logger, channel, to, subject, body string) {
	if to == "" {
		logger.Warn("notification destination not configured", slog.String("channel", channel))
		notificationsTotal.WithLabelValues(channel, "skipped").Inc()
		return
	}

	if err := d.sender.Send(ctx, to, subject, body); err != nil {
		logger.Error("failed to send notification", slog.String("channel", channel), slog.Any("error", err))
		notificationsTotal.WithLabelValues(channel, "failed").Inc()
		return
	}
	logger.Info("notification sent", slog.String("channel", channel))
	notificationsTotal.WithLabelValues(channel, "sent").Inc()
}

// Wait blocks until background sends finish.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

func (d *Dispatcher) OrderCreated(ctx context.Context, o entities.Order) {
	d.dispatchFormatted(ctx, entities.KindOrder, o.ID)(d.format.Order(o))
}

func (d *Dispatcher) NucRequestCreated(ctx context.Context, r entities.NucRequest) {
	d.dispatchFormatted(ctx, entities.KindNuc, r.ID)(d.format.NucRequest(r))
}

func (d *Dispatcher) PollinationRequestCreated(ctx context.Context, r entities.PollinationRequest) {
	d.dispatchFormatted(ctx, entities.KindPollination, r.ID)(d.format.PollinationRequest(r))
}

func (d *Dispatcher) BeeRemovalRequestCreated(ctx context.Context, r entities.BeeRemovalRequest) {
	d.dispatchFormatted(ctx, entities.KindBeeRemoval, r.ID)(d.format.BeeRemovalRequest(r))
}

func (d *Dispatcher) CallbackRequestCreated(ctx context.Context, r entities.CallbackRequest) {
	d.dispatchFormatted(ctx, entities.KindCallback, r.ID)(d.format.CallbackRequest(r))
}

func (d *Dispatcher) dispatchFormatted(ctx context.Context, kind entities.Kind, id int64) func(Notice, error) {
	return func(n Notice, err error) {
		if err != nil {
			d.logger.Error("failed to format notification",
				slog.String("kind", string(kind)), slog.Int64("id", id), slog.Any("error", err))
			return
		}
		d.Dispatch(ctx, n)
	}
}
