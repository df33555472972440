//nolint:mnd
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/go-resty/resty/v2"

	"github.com/tammimikun/kids-worksheet-store/internal/orderid"
	"github.com/tammimikun/kids-worksheet-store/internal/signature"
)

// notification-sender posts signed settlement notifications to a running
// payment service, the way the gateway would after a successful payment.
func main() {
	target := flag.String("url", "http://localhost:8080/payment-webhook", "Webhook endpoint")
	serverKey := flag.String("server-key", os.Getenv("MIDTRANS_SERVER_KEY"), "Gateway server key used to sign notifications")
	status := flag.String("status", "settlement", "transaction_status to send")
	email := flag.String("email", "", "Customer email (random when empty)")
	modulesFlag := flag.String("modules", "", "Comma separated module names (random when empty)")
	numMessages := flag.Int("count", 1, "Number of notifications to send")
	interval := flag.Duration("interval", 1*time.Second, "Interval between notifications")

	flag.Parse()

	if *serverKey == "" {
		log.Fatal("server key is required: pass -server-key or set MIDTRANS_SERVER_KEY")
	}

	client := resty.New().
		SetTimeout(10*time.Second).
		SetHeader("Content-Type", "application/json")
	ids := orderid.New("SIM")

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	log.Printf("Sending %d %s notification(s) to %s every %v\n", *numMessages, *status, *target, *interval)

	ticker := time.NewTicker(*interval)
	defer ticker.Stop()

	for sent := 0; sent < *numMessages; sent++ {
		if sent > 0 {
			select {
			case <-ctx.Done():
				log.Println("Shutting down sender...")
				return
			case <-ticker.C:
			}
		}
		n := generateNotification(ids.Next(), *status, *serverKey, *email, *modulesFlag)
		sendNotification(ctx, client, *target, n)
	}
	log.Printf("Sent all %d notifications. Exiting.\n", *numMessages)
}

func sendNotification(ctx context.Context, client *resty.Client, target string, n map[string]any) {
	resp, err := client.R().SetContext(ctx).SetBody(n).Post(target)
	if err != nil {
		log.Printf("Failed to send notification %s: %v", n["order_id"], err)
		return
	}
	log.Printf("order_id=%s status=%d body=%s", n["order_id"], resp.StatusCode(), resp.String())
}

func generateNotification(orderID, status, serverKey, email, moduleList string) map[string]any {
	if email == "" {
		email = gofakeit.Email()
	}

	var names []string
	for _, name := range strings.Split(moduleList, ",") {
		if name = strings.TrimSpace(name); name != "" {
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		for range gofakeit.Number(1, 3) {
			names = append(names, gofakeit.ProductName())
		}
	}

	var total int64
	items := make([]map[string]any, 0, len(names))
	for i, name := range names {
		price := int64(gofakeit.Number(10, 60)) * 1000
		total += price
		items = append(items, map[string]any{
			"id":       fmt.Sprintf("MOD-%02d", i+1),
			"name":     name,
			"price":    price,
			"quantity": 1,
		})
	}

	const statusCode = "200"
	gross := fmt.Sprintf("%d.00", total)

	return map[string]any{
		"order_id":           orderID,
		"status_code":        statusCode,
		"gross_amount":       gross,
		"signature_key":      signature.Compute(orderID, statusCode, gross, serverKey),
		"transaction_status": status,
		"transaction_id":     gofakeit.UUID(),
		"payment_type":       "bank_transfer",
		"fraud_status":       "accept",
		"settlement_time":    time.Now().Format(time.DateTime),
		"customer_details": map[string]any{
			"first_name": gofakeit.FirstName(),
			"email":      email,
		},
		"item_details": items,
	}
}
