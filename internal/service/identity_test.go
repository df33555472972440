package service

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tammimikun/kids-worksheet-store/internal/entity"
)

func TestResolveIdentity(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		payload   string
		wantName  string
		wantEmail string
	}{
		{
			name:      "customer details",
			payload:   `{"customer_details":{"first_name":"Rina","email":"rina@example.com"}}`,
			wantName:  "Rina",
			wantEmail: "rina@example.com",
		},
		{
			name:      "capitalised email key",
			payload:   `{"customer_details":{"name":"Rina","Email":"rina@example.com"}}`,
			wantName:  "Rina",
			wantEmail: "rina@example.com",
		},
		{
			name:      "top level customer_email",
			payload:   `{"customer_email":"top@example.com","email":"second@example.com"}`,
			wantName:  defaultCustomerName,
			wantEmail: "top@example.com",
		},
		{
			name:      "custom_field1 json string",
			payload:   `{"custom_field1":"{\"nama\":\"Dewi\",\"email\":\"dewi@example.com\"}"}`,
			wantName:  "Dewi",
			wantEmail: "dewi@example.com",
		},
		{
			name:      "custom_field1 name does not override real name",
			payload:   `{"customer_details":{"first_name":"Rina"},"custom_field1":{"nama":"Dewi","email":"dewi@example.com"}}`,
			wantName:  "Rina",
			wantEmail: "dewi@example.com",
		},
		{
			name:      "lowercase default name replaced",
			payload:   `{"customer_details":{"first_name":"pelanggan","email":"a@b.com"},"custom_field1":{"nama":"Dewi"}}`,
			wantName:  "Dewi",
			wantEmail: "a@b.com",
		},
		{
			name:      "custom_field1 contact",
			payload:   `{"custom_field1":{"contact":{"email":"contact@example.com"}}}`,
			wantName:  defaultCustomerName,
			wantEmail: "contact@example.com",
		},
		{
			name:      "regex over free text",
			payload:   `{"custom_field1":"buyer: Ayu <ayu.putri@example.co.id>"}`,
			wantName:  defaultCustomerName,
			wantEmail: "ayu.putri@example.co.id",
		},
		{
			name:      "legacy custom fields",
			payload:   `{"customField1":{"Email":"legacy@example.com"}}`,
			wantName:  defaultCustomerName,
			wantEmail: "legacy@example.com",
		},
		{
			name:      "nothing",
			payload:   `{"customer_details":{"first_name":"  "}}`,
			wantName:  defaultCustomerName,
			wantEmail: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var n entity.PaymentNotification
			require.NoError(t, json.Unmarshal([]byte(tt.payload), &n))

			got := resolveIdentity(&n)
			assert.Equal(t, tt.wantName, got.name)
			assert.Equal(t, tt.wantEmail, got.email)
		})
	}
}
