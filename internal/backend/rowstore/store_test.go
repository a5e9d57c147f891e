package rowstore

import (
	"errors"
	"reflect"
	"testing"
)

func TestNewBlankStore(t *testing.T) {
	store := NewBlankStore()
	if store.Len() != 1 {
		t.Fatalf("expected 1 row, got %d", store.Len())
	}
	row, err := store.Get(0)
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if !row.IsBlank() {
		t.Errorf("expected blank row, got %+v", row)
	}
}

func TestStore_SetField(t *testing.T) {
	store := NewStore(BlankRow(), BlankRow())

	if err := store.SetField(1, FieldBarcode, "4006381333931"); err != nil {
		t.Fatalf("SetField error: %v", err)
	}
	row, _ := store.Get(1)
	if row.Barcode != "4006381333931" {
		t.Errorf("expected barcode to be written, got %q", row.Barcode)
	}
	first, _ := store.Get(0)
	if !first.IsBlank() {
		t.Errorf("expected other rows untouched, got %+v", first)
	}
}

func TestStore_SetField_Errors(t *testing.T) {
	tests := []struct {
		name    string
		index   int
		field   Field
		wantErr error
	}{
		{name: "negative index", index: -1, field: FieldBarcode, wantErr: ErrIndexOutOfRange},
		{name: "index past end", index: 1, field: FieldBarcode, wantErr: ErrIndexOutOfRange},
		{name: "unknown field", index: 0, field: Field("price"), wantErr: ErrUnknownField},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := NewBlankStore()
			before := store.Snapshot()

			err := store.SetField(tt.index, tt.field, "value")
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}

			after := store.Snapshot()
			if !reflect.DeepEqual(before, after) {
				t.Errorf("store was mutated on error: %+v -> %+v", before, after)
			}
		})
	}
}

func TestStore_SnapshotDoesNotAlias(t *testing.T) {
	store := NewStore(Row{Barcode: "a", Extra: map[string]string{"name": "milk"}})

	snapshot := store.Snapshot()
	snapshot[0].Barcode = "changed"
	snapshot[0].Extra["name"] = "changed"

	row, _ := store.Get(0)
	if row.Barcode != "a" || row.Extra["name"] != "milk" {
		t.Errorf("store changed through snapshot: %+v", row)
	}

	before := store.Snapshot()
	if err := store.SetField(0, FieldBarcode, "b"); err != nil {
		t.Fatalf("SetField error: %v", err)
	}
	if before[0].Barcode != "a" {
		t.Errorf("earlier snapshot observed a later mutation: %+v", before[0])
	}
}

func TestStore_AppendReplaceReset(t *testing.T) {
	store := NewBlankStore()
	store.Append(BlankRow())
	if store.Len() != 2 {
		t.Fatalf("expected 2 rows after append, got %d", store.Len())
	}

	rows := []Row{{Barcode: "1"}, {Barcode: "2"}, {Barcode: "3"}}
	store.ReplaceAll(rows)
	rows[0].Barcode = "mutated"
	if store.Len() != 3 {
		t.Fatalf("expected 3 rows after replace, got %d", store.Len())
	}
	row, _ := store.Get(0)
	if row.Barcode != "1" {
		t.Errorf("expected ReplaceAll to copy input, got %q", row.Barcode)
	}

	store.Reset()
	if store.Len() != 1 {
		t.Fatalf("expected 1 row after reset, got %d", store.Len())
	}
	row, _ = store.Get(0)
	if !row.IsBlank() {
		t.Errorf("expected blank row after reset, got %+v", row)
	}
}

func TestParseField(t *testing.T) {
	for _, f := range Fields {
		got, err := ParseField(string(f))
		if err != nil || got != f {
			t.Errorf("ParseField(%q) = %q, %v", f, got, err)
		}
	}
	if _, err := ParseField("nope"); !errors.Is(err, ErrUnknownField) {
		t.Errorf("expected ErrUnknownField, got %v", err)
	}
}

func TestRow_Value(t *testing.T) {
	row := Row{Barcode: "b", FrontImage: "f", BackImage: "k", Images: "s", Image: "i"}
	want := map[Field]string{
		FieldBarcode:    "b",
		FieldFrontImage: "f",
		FieldBackImage:  "k",
		FieldImages:     "s",
		FieldImage:      "i",
	}
	for field, expected := range want {
		got, err := row.Value(field)
		if err != nil || got != expected {
			t.Errorf("Value(%q) = %q, %v; want %q", field, got, err, expected)
		}
	}
}
