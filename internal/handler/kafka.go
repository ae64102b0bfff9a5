package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/stirlingv/honey-biz/internal/config"
	"github.com/stirlingv/honey-biz/internal/service"
	"github.com/stirlingv/honey-biz/pkg/tracing"
)

type PaymentReconciler interface {
	Reconcile(ctx context.Context, p service.InvoicePayment) error
}

type kafkaHandler struct {
	dlq        *kafka.Writer
	reader     *kafka.Reader
	logger     *slog.Logger
	tracer     trace.Tracer
	validate   *validator.Validate
	reconciler PaymentReconciler
}

func NewKafkaHandler(logger *slog.Logger, cfg config.Kafka, reconciler PaymentReconciler) *kafkaHandler {
	return &kafkaHandler{
		logger: logger.With(slog.String("handler", "kafka")),
		tracer: otel.Tracer("payment-reconciler"),
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers: cfg.Brokers,
			GroupID: cfg.GroupID,
			Topic:   cfg.Topic,
			MaxWait: cfg.ReaderMaxWait,
		}),
		dlq: &kafka.Writer{
			Addr:         kafka.TCP(cfg.Brokers...),
			Balancer:     &kafka.LeastBytes{},
			BatchTimeout: cfg.BatchTimeout,
		},
		validate:   validator.New(),
		reconciler: reconciler,
	}
}

// Consume reconciles invoice payment messages until ctx is cancelled.
// Messages that cannot be handled go to the "<topic>-dlq" topic.
func (h *kafkaHandler) Consume(ctx context.Context) {
	for {
		m, err := h.reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, context.Canceled) {
				break
			}
			h.logger.Error("failed to fetch message", slog.Any("error", err))
			continue
		}

		msgCtx := tracing.ExtractKafkaHeaders(ctx, m.Headers)
		msgCtx, span := h.tracer.Start(msgCtx, "ReconcileInvoicePayment",
			trace.WithSpanKind(trace.SpanKindConsumer),
			trace.WithAttributes(
				attribute.String("messaging.destination", m.Topic),
				attribute.Int64("messaging.kafka.offset", m.Offset),
			),
		)

		began := time.Now()
		err = h.handleInvoicePayment(msgCtx, m)
		paymentProcessingDuration.Observe(time.Since(began).Seconds())

		if err != nil {
			paymentsFailed.Inc()
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			h.logger.Error("failed to handle message", slog.Any("error", err))

			if err := h.WriteToDLQ(msgCtx, m); err != nil {
				h.logger.Error("failed to write message to DLQ", slog.Any("error", err))
				span.End()
				continue
			}
			paymentsDLQ.Inc()
		} else {
			paymentsProcessed.Inc()
		}
		span.End()

		if err := h.reader.CommitMessages(ctx, m); err != nil {
			commitErrors.Inc()
			h.logger.Error("failed to commit message", slog.Any("error", err))
		}
	}
}

func (h *kafkaHandler) handleInvoicePayment(ctx context.Context, m kafka.Message) error {
	var msg InvoicePaymentMessage
	if err := json.Unmarshal(m.Value, &msg); err != nil {
		return fmt.Errorf("failed to unmarshal invoice payment: %w", err)
	}

	if err := h.validate.Struct(msg); err != nil {
		return fmt.Errorf("invalid invoice payment data: %w", err)
	}

	return h.reconciler.Reconcile(ctx, service.InvoicePayment{
		InvoiceID: msg.InvoiceID,
		RealmID:   msg.RealmID,
		PaymentID: msg.PaymentID,
	})
}

func (h *kafkaHandler) WriteToDLQ(ctx context.Context, m kafka.Message) error {
	m.Topic = fmt.Sprintf("%s-dlq", m.Topic)
	m.Headers = tracing.InjectKafkaHeaders(ctx, m.Headers)
	return h.dlq.WriteMessages(ctx, m)
}

func (h *kafkaHandler) Close() error {
	if err := h.reader.Close(); err != nil {
		return err
	}
	return h.dlq.Close()
}
