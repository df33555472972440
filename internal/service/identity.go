package service

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/tammimikun/kids-worksheet-store/internal/entity"
)

const defaultCustomerName = "Pelanggan"

var emailRe = regexp.MustCompile(`(?i)[A-Z0-9._%+-]+@[A-Z0-9.-]+\.[A-Z]{2,}`)

type identity struct {
	name  string
	email string
}

// resolveIdentity prefers the gateway's customer_details and falls back to
// the metadata the storefront stashed in custom fields.
func resolveIdentity(n *entity.PaymentNotification) identity {
	customer := objectOf(n.CustomerDetails)
	cf1 := objectOf(n.CustomField1)

	name := stringField(customer, "first_name", "name")
	if name == "" {
		name = defaultCustomerName
	}
	if strings.EqualFold(name, defaultCustomerName) {
		if alt := stringField(cf1, "nama", "name"); alt != "" {
			name = alt
		}
	}

	return identity{name: name, email: resolveEmail(n, customer, cf1)}
}

func resolveEmail(n *entity.PaymentNotification, customer, cf1 map[string]any) string {
	if email := stringField(customer, "email", "Email"); email != "" {
		return email
	}
	for _, v := range []entity.FlexString{n.CustomerEmail, n.Email} {
		if email := strings.TrimSpace(v.String()); email != "" {
			return email
		}
	}
	if email := stringField(cf1, "email", "Email"); email != "" {
		return email
	}
	if contact, ok := cf1["contact"].(map[string]any); ok {
		if email := stringField(contact, "email"); email != "" {
			return email
		}
	}
	if email := emailRe.FindString(rawText(n.CustomField1)); email != "" {
		return email
	}
	for _, raw := range []json.RawMessage{n.CustomFields, n.CustomField, n.CustomFieldOne} {
		if email := stringField(objectOf(raw), "email", "Email"); email != "" {
			return email
		}
	}
	return ""
}

// objectOf decodes a JSON object, also when it arrives wrapped in a JSON
// string. Anything else yields nil.
func objectOf(raw json.RawMessage) map[string]any {
	if len(raw) == 0 {
		return nil
	}
	var obj map[string]any
	if err := json.Unmarshal(raw, &obj); err == nil {
		return obj
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil
	}
	if err := json.Unmarshal([]byte(s), &obj); err != nil {
		return nil
	}
	return obj
}

// rawText is the field's string value, or its JSON text for non-strings.
func rawText(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}

func stringField(obj map[string]any, keys ...string) string {
	for _, key := range keys {
		if v, ok := obj[key].(string); ok {
			if v = strings.TrimSpace(v); v != "" {
				return v
			}
		}
	}
	return ""
}
