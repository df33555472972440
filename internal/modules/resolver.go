package modules

import (
	"encoding/json"
	"strings"

	"github.com/tammimikun/kids-worksheet-store/internal/entity"
	"github.com/tammimikun/kids-worksheet-store/pkg/logger"
)

// UnknownItem marks an entry whose name could not be read. It never survives
// Resolve.
const UnknownItem = "Unknown Item"

type Source string

const (
	SourceNone        Source = "none"
	SourceItemDetails Source = "item_details"
	SourceSelection   Source = "selection"
	SourceSideChannel Source = "side_channel"
)

type Option func(*Resolver)

func WithLogger(log logger.Logger) Option {
	return func(r *Resolver) {
		r.log = log
	}
}

// Resolver recovers the purchased module list from a notification. Sources are
// tried in order and the first one that yields at least one readable name wins;
// they are never merged.
type Resolver struct {
	log logger.Logger
}

func NewResolver(opts ...Option) *Resolver {
	r := &Resolver{log: logger.NewNop()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve never fails; an empty slice means nothing could be recovered.
func (r *Resolver) Resolve(n *entity.PaymentNotification) []entity.ModuleItem {
	items, _ := r.ResolveWithSource(n)
	return items
}

func (r *Resolver) ResolveWithSource(n *entity.PaymentNotification) ([]entity.ModuleItem, Source) {
	if n == nil {
		return []entity.ModuleItem{}, SourceNone
	}

	if names := clean(namesFromList(n.ItemDetails, itemName)); len(names) > 0 {
		return toItems(names), SourceItemDetails
	}
	if names := clean(namesFromList(n.ModuleSelection, itemName)); len(names) > 0 {
		return toItems(names), SourceSelection
	}

	raw, kind := decodeSideChannel(n.CustomField2)
	if names := clean(raw); len(names) > 0 {
		if kind == encodingSummary {
			r.log.Infow("module list recovered from summary, abbreviated tail dropped",
				"order_id", n.OrderID.String(),
				"count", len(names),
			)
		}
		return toItems(names), SourceSideChannel
	}

	return []entity.ModuleItem{}, SourceNone
}

// namesFromList decodes a JSON array and extracts a name per element. Anything
// that is not an array yields nil.
func namesFromList(raw json.RawMessage, extract func(any) string) []string {
	if len(raw) == 0 {
		return nil
	}
	var list []any
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil
	}
	return extractAll(list, extract)
}

func extractAll(list []any, extract func(any) string) []string {
	names := make([]string, 0, len(list))
	for _, v := range list {
		names = append(names, extract(v))
	}
	return names
}

// itemName reads a string, .name/.nama, or a nested .name.name/.nama.nama.
func itemName(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case map[string]any:
		for _, key := range []string{"name", "nama"} {
			switch field := t[key].(type) {
			case string:
				return field
			case map[string]any:
				if nested, ok := field[key].(string); ok {
					return nested
				}
			}
		}
	}
	return UnknownItem
}

// sideChannelName additionally accepts an id when no name is present.
func sideChannelName(v any) string {
	name := itemName(v)
	if name != UnknownItem {
		return name
	}
	if obj, ok := v.(map[string]any); ok {
		if id, ok := obj["id"].(string); ok {
			return id
		}
	}
	return UnknownItem
}

// clean trims, drops empty and unknown entries, and removes case-insensitive
// duplicates keeping the first occurrence.
func clean(names []string) []string {
	out := make([]string, 0, len(names))
	seen := make(map[string]struct{}, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" || name == UnknownItem {
			continue
		}
		key := strings.ToLower(name)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, name)
	}
	return out
}

func toItems(names []string) []entity.ModuleItem {
	items := make([]entity.ModuleItem, len(names))
	for i, name := range names {
		items[i] = entity.ModuleItem{Name: name}
	}
	return items
}

// SelectionNames reads the names out of a client-supplied selection list,
// cleaned the same way Resolve cleans its sources.
func SelectionNames(selection []json.RawMessage) []string {
	names := make([]string, 0, len(selection))
	for _, raw := range selection {
		var v any
		if err := json.Unmarshal(raw, &v); err != nil {
			continue
		}
		names = append(names, itemName(v))
	}
	return clean(names)
}
