// Package rowstore holds the ordered table of intake rows.
package rowstore

import "maps"

// Field names a writable column of a Row
type Field string

const (
	FieldBarcode    Field = "barcode"
	FieldFrontImage Field = "frontImage"
	FieldBackImage  Field = "backImage"
	FieldImages     Field = "images"
	FieldImage      Field = "image"
)

// Fields lists every writable field in column order
var Fields = []Field{FieldBarcode, FieldFrontImage, FieldBackImage, FieldImages, FieldImage}

// ParseField maps a column name to a Field
func ParseField(name string) (Field, error) {
	for _, f := range Fields {
		if string(f) == name {
			return f, nil
		}
	}
	return "", ErrUnknownField
}

// Row is one product entry. An empty string stands for "no value"; image
// fields hold either "" or a data URI.
type Row struct {
	Barcode    string            `json:"barcode"`
	FrontImage string            `json:"frontImage"`
	BackImage  string            `json:"backImage"`
	Images     string            `json:"images"`
	Image      string            `json:"image"`
	Extra      map[string]string `json:"extra,omitempty"`
}

// BlankRow returns a row with every field empty
func BlankRow() Row {
	return Row{}
}

// IsBlank reports whether no field carries a value
func (r Row) IsBlank() bool {
	return r.Barcode == "" && r.FrontImage == "" && r.BackImage == "" &&
		r.Images == "" && r.Image == "" && len(r.Extra) == 0
}

// Value returns the content of a field
func (r Row) Value(field Field) (string, error) {
	switch field {
	case FieldBarcode:
		return r.Barcode, nil
	case FieldFrontImage:
		return r.FrontImage, nil
	case FieldBackImage:
		return r.BackImage, nil
	case FieldImages:
		return r.Images, nil
	case FieldImage:
		return r.Image, nil
	}
	return "", ErrUnknownField
}

func (r *Row) set(field Field, value string) error {
	switch field {
	case FieldBarcode:
		r.Barcode = value
	case FieldFrontImage:
		r.FrontImage = value
	case FieldBackImage:
		r.BackImage = value
	case FieldImages:
		r.Images = value
	case FieldImage:
		r.Image = value
	default:
		return ErrUnknownField
	}
	return nil
}

func (r Row) clone() Row {
	if r.Extra != nil {
		r.Extra = maps.Clone(r.Extra)
	}
	return r
}

func cloneRows(rows []Row) []Row {
	out := make([]Row, len(rows))
	for i, r := range rows {
		out[i] = r.clone()
	}
	return out
}
