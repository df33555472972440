package httpt

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/tammimikun/kids-worksheet-store/internal/entity"
)

var errMissingFields = errors.New("missing required fields")

var requiredCreateFields = []string{"gross_amount", "customer_details", "item_details"}

type ErrorResponse struct {
	Error    string   `json:"error"`
	Details  any      `json:"details,omitempty"`
	Required []string `json:"required,omitempty"`
}

type createTransactionRequest struct {
	TransactionDetails *struct {
		OrderID     entity.FlexString `json:"order_id"`
		GrossAmount entity.FlexString `json:"gross_amount"`
	} `json:"transaction_details"`
	CustomerDetails *customerDetails  `json:"customer_details"`
	ItemDetails     []itemDetail      `json:"item_details"`
	ModulDipilih    []json.RawMessage `json:"modulDipilih"`

	// Flat fields sent by older storefront builds.
	OrderID     entity.FlexString `json:"order_id"`
	GrossAmount entity.FlexString `json:"gross_amount"`
	Nama        string            `json:"nama"`
	Email       string            `json:"email"`
}

type customerDetails struct {
	FirstName string `json:"first_name"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
}

type itemDetail struct {
	ID       entity.FlexString `json:"id"`
	Name     string            `json:"name"`
	Price    entity.FlexString `json:"price"`
	Quantity int               `json:"quantity"`
}

// toEntity applies the legacy fallbacks. Amounts arrive as numbers or numeric
// strings and are charged in whole rupiah.
func (r *createTransactionRequest) toEntity() (*entity.TransactionRequest, error) {
	gross, clientOrderID := r.GrossAmount, r.OrderID
	if td := r.TransactionDetails; td != nil {
		if td.GrossAmount != "" {
			gross = td.GrossAmount
		}
		if td.OrderID != "" {
			clientOrderID = td.OrderID
		}
	}

	if gross == "" || r.CustomerDetails == nil || len(r.ItemDetails) == 0 {
		return nil, errMissingFields
	}

	amount, err := parseAmount(gross)
	if err != nil || amount <= 0 {
		return nil, errMissingFields
	}

	customer := entity.Customer{
		FirstName: strings.TrimSpace(r.CustomerDetails.FirstName),
		Name:      strings.TrimSpace(r.CustomerDetails.Name),
		Email:     strings.TrimSpace(r.CustomerDetails.Email),
		Phone:     r.CustomerDetails.Phone,
	}
	if customer.DisplayName() == "" {
		customer.FirstName = strings.TrimSpace(r.Nama)
	}
	if customer.Email == "" {
		customer.Email = strings.TrimSpace(r.Email)
	}

	items := make([]entity.Item, 0, len(r.ItemDetails))
	for _, it := range r.ItemDetails {
		var price int64
		if it.Price != "" {
			if price, err = parseAmount(it.Price); err != nil {
				return nil, errMissingFields
			}
		}
		qty := it.Quantity
		if qty == 0 {
			qty = 1
		}
		items = append(items, entity.Item{
			ID:       it.ID.String(),
			Name:     strings.TrimSpace(it.Name),
			Price:    price,
			Quantity: qty,
		})
	}

	return &entity.TransactionRequest{
		ClientOrderID: clientOrderID.String(),
		GrossAmount:   amount,
		Customer:      customer,
		Items:         items,
		Selection:     r.ModulDipilih,
	}, nil
}

func parseAmount(v entity.FlexString) (int64, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(v.String()))
	if err != nil {
		return 0, err
	}
	return d.Round(0).IntPart(), nil
}

type createTransactionResponse struct {
	Success     bool   `json:"success"`
	Token       string `json:"token"`
	RedirectURL string `json:"redirect_url,omitempty"`
	OrderID     string `json:"order_id"`
	ClientKey   string `json:"client_key"`
}

// webhookResponse carries success for delivered and suppressed notifications
// and error for rejected ones.
type webhookResponse struct {
	Success bool           `json:"success,omitempty"`
	Error   string         `json:"error,omitempty"`
	Message string         `json:"message,omitempty"`
	OrderID string         `json:"order_id,omitempty"`
	Outcome entity.Outcome `json:"outcome"`
}

func newWebhookResponse(res *entity.Reconciliation) webhookResponse {
	out := webhookResponse{OrderID: res.OrderID, Outcome: res.Outcome}
	if res.Outcome == entity.OutcomeRejected {
		out.Error = res.Message
		return out
	}
	out.Success = true
	out.Message = res.Message
	return out
}

type healthResponse struct {
	Message     string `json:"message"`
	Timestamp   string `json:"timestamp"`
	Environment string `json:"environment"`
}
