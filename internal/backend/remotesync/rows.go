package remotesync

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/jo-hoe/shelfintake/internal/backend/rowstore"
)

// ToRows converts fetched records into rows followed by one blank row.
// Keys are trimmed; "images" also fills the picker field "image"; unknown
// columns are kept in Extra.
func (r *FetchResponse) ToRows() []rowstore.Row {
	rows := make([]rowstore.Row, 0, len(r.Data)+1)
	for _, item := range r.Data {
		rows = append(rows, recordToRow(item))
	}
	return append(rows, rowstore.BlankRow())
}

func recordToRow(item map[string]any) rowstore.Row {
	var row rowstore.Row
	for _, key := range recordKeys(item) {
		text := stringValue(item[key])
		switch strings.TrimSpace(key) {
		case "barcode":
			row.Barcode = text
		case "frontImage":
			row.FrontImage = text
		case "backImage":
			row.BackImage = text
		case "images":
			row.Images = text
		case "image":
			// derived from images
		default:
			if row.Extra == nil {
				row.Extra = make(map[string]string)
			}
			row.Extra[strings.TrimSpace(key)] = text
		}
	}
	row.Image = row.Images
	return row
}

// recordKeys orders keys so that, among keys trimming to the same name, an
// exact key is applied last and wins; padded variants are applied in sorted order.
func recordKeys(item map[string]any) []string {
	keys := slices.Collect(maps.Keys(item))
	slices.SortFunc(keys, func(a, b string) int {
		aExact, bExact := a == strings.TrimSpace(a), b == strings.TrimSpace(b)
		if aExact != bExact {
			if aExact {
				return 1
			}
			return -1
		}
		return strings.Compare(a, b)
	})
	return keys
}

func stringValue(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		encoded, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprint(v)
		}
		return string(encoded)
	}
}
