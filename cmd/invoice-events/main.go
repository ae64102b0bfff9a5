// Command invoice-events publishes an invoice payment notification to the
// reconciliation topic. It stands in for the provider webhook bridge when
// testing checkout end to end.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"github.com/stirlingv/honey-biz/internal/config"
	"github.com/stirlingv/honey-biz/internal/handler"
	"github.com/stirlingv/honey-biz/pkg/tracing"
)

func main() {
	godotenv.Load()
	conf := config.New()
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	var msg handler.InvoicePaymentMessage
	flag.StringVar(&msg.InvoiceID, "invoice", "", "provider invoice id")
	flag.StringVar(&msg.RealmID, "realm", conf.QuickBooks.CompanyID, "provider company id")
	flag.StringVar(&msg.PaymentID, "payment", "", "provider payment id")
	flag.Parse()

	if msg.InvoiceID == "" {
		logger.Error("-invoice is required")
		os.Exit(2)
	}

	if err := publish(conf.Kafka, msg); err != nil {
		logger.Error("failed to publish invoice payment", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("invoice payment published", slog.String("invoice_id", msg.InvoiceID), slog.String("topic", conf.Kafka.Topic))
}

func publish(cfg config.Kafka, msg handler.InvoicePaymentMessage) error {
	otel.SetTextMapPropagator(propagation.TraceContext{})
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	ctx, span := otel.Tracer("invoice-events").Start(ctx, "PublishInvoicePayment")
	defer span.End()

	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		BatchTimeout: cfg.BatchTimeout,
	}
	defer writer.Close()

	return writer.WriteMessages(ctx, kafka.Message{
		Key:     []byte(msg.InvoiceID),
		Value:   data,
		Headers: tracing.InjectKafkaHeaders(ctx, nil),
	})
}
