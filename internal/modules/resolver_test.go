package modules

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tammimikun/kids-worksheet-store/internal/entity"
)

func names(items []entity.ModuleItem) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Name
	}
	return out
}

func quoted(t *testing.T, s string) json.RawMessage {
	t.Helper()
	b, err := json.Marshal(s)
	require.NoError(t, err)
	return b
}

func TestResolver_Resolve(t *testing.T) {
	r := NewResolver()

	tests := []struct {
		desc       string
		n          entity.PaymentNotification
		want       []string
		wantSource Source
	}{
		{
			desc:       "item details objects",
			n:          entity.PaymentNotification{ItemDetails: json.RawMessage(`[{"id":"m1","name":"Math Basics","price":10000,"quantity":1},{"name":"Reading"}]`)},
			want:       []string{"Math Basics", "Reading"},
			wantSource: SourceItemDetails,
		},
		{
			desc:       "item details strings and nested names",
			n:          entity.PaymentNotification{ItemDetails: json.RawMessage(`["Alpha",{"name":{"name":"Beta"}},{"nama":{"nama":"Gamma"}}]`)},
			want:       []string{"Alpha", "Beta", "Gamma"},
			wantSource: SourceItemDetails,
		},
		{
			desc: "empty items fall back to selection with case-insensitive dedup",
			n: entity.PaymentNotification{
				ItemDetails:     json.RawMessage(`[]`),
				ModuleSelection: json.RawMessage(`[{"nama":"A"},{"nama":"a"}]`),
			},
			want:       []string{"A"},
			wantSource: SourceSelection,
		},
		{
			desc: "all unreadable items fall through to selection",
			n: entity.PaymentNotification{
				ItemDetails:     json.RawMessage(`[{"price":1},42,null]`),
				ModuleSelection: json.RawMessage(`["Science"]`),
			},
			want:       []string{"Science"},
			wantSource: SourceSelection,
		},
		{
			desc: "sources are not merged",
			n: entity.PaymentNotification{
				ItemDetails:     json.RawMessage(`[{"name":"One"}]`),
				ModuleSelection: json.RawMessage(`["Two"]`),
				CustomField2:    quoted(t, `["Three"]`),
			},
			want:       []string{"One"},
			wantSource: SourceItemDetails,
		},
		{
			desc:       "summary drops abbreviated tail",
			n:          entity.PaymentNotification{CustomField2: quoted(t, `{"summary":"X, Y, Z +2 more"}`)},
			want:       []string{"X", "Y", "Z"},
			wantSource: SourceSideChannel,
		},
		{
			desc:       "legacy summary key",
			n:          entity.PaymentNotification{CustomField2: quoted(t, `{"modulSummary":"Modul 1, Modul 2, Modul 3 +9 modul lainnya"}`)},
			want:       []string{"Modul 1", "Modul 2", "Modul 3"},
			wantSource: SourceSideChannel,
		},
		{
			desc:       "side channel array with ids",
			n:          entity.PaymentNotification{CustomField2: quoted(t, `["Art",{"nama":"Music"},{"id":"Coding"},{}]`)},
			want:       []string{"Art", "Music", "Coding"},
			wantSource: SourceSideChannel,
		},
		{
			desc:       "side channel object list",
			n:          entity.PaymentNotification{CustomField2: quoted(t, `{"modules":["P","Q"],"more":3}`)},
			want:       []string{"P", "Q"},
			wantSource: SourceSideChannel,
		},
		{
			desc:       "side channel raw object",
			n:          entity.PaymentNotification{CustomField2: json.RawMessage(`{"selection":[{"name":"R"}]}`)},
			want:       []string{"R"},
			wantSource: SourceSideChannel,
		},
		{
			desc:       "bare comma string",
			n:          entity.PaymentNotification{CustomField2: quoted(t, "Shapes, Colors , shapes,,")},
			want:       []string{"Shapes", "Colors"},
			wantSource: SourceSideChannel,
		},
		{
			desc:       "sentinel names are dropped",
			n:          entity.PaymentNotification{ModuleSelection: json.RawMessage(`["Unknown Item"," Letters "]`)},
			want:       []string{"Letters"},
			wantSource: SourceSelection,
		},
		{
			desc:       "nothing recoverable",
			n:          entity.PaymentNotification{ItemDetails: json.RawMessage(`"oops"`), CustomField2: quoted(t, "  ")},
			want:       []string{},
			wantSource: SourceNone,
		},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			items, source := r.ResolveWithSource(&tt.n)
			require.Equal(t, tt.want, names(items))
			require.Equal(t, tt.wantSource, source)
		})
	}
}

func TestResolver_Resolve_Nil(t *testing.T) {
	require.Empty(t, NewResolver().Resolve(nil))
}

func TestSelectionNames(t *testing.T) {
	selection := []json.RawMessage{
		json.RawMessage(`"Math Basics"`),
		json.RawMessage(`{"nama":"Reading"}`),
		json.RawMessage(`{"name":"math basics"}`),
		json.RawMessage(`{"price":1}`),
		json.RawMessage(`not json`),
	}
	require.Equal(t, []string{"Math Basics", "Reading"}, SelectionNames(selection))
}
