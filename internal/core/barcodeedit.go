package core

import "strings"

// EditState describes the barcode edit dialog
type EditState struct {
	Editing bool   `json:"editing"`
	Index   int    `json:"index"`
	Draft   string `json:"draft"`
}

var (
	errNoBarcodeSelected = newIntakeError(KindValidationError, "Error", "No barcode selected for updating.", nil)
	errEmptyBarcode      = newIntakeError(KindValidationError, "Validation Error", "Barcode cannot be empty.", nil)
)

// barcodeEdit is Idle until begin, then EditingBarcode(index, draft) until a
// successful confirm or a cancel.
type barcodeEdit struct {
	editing bool
	index   int
	draft   string
}

func (b *barcodeEdit) begin(index int, current string) {
	b.editing = true
	b.index = index
	b.draft = current
}

func (b *barcodeEdit) setDraft(value string) error {
	if !b.editing {
		return errNoBarcodeSelected
	}
	b.draft = value
	return nil
}

// confirm returns the row index and the untrimmed draft and goes back to Idle.
// An empty draft keeps the edit open.
func (b *barcodeEdit) confirm() (int, string, error) {
	if !b.editing {
		return 0, "", errNoBarcodeSelected
	}
	if strings.TrimSpace(b.draft) == "" {
		return 0, "", errEmptyBarcode
	}
	index, draft := b.index, b.draft
	b.cancel()
	return index, draft, nil
}

func (b *barcodeEdit) cancel() {
	*b = barcodeEdit{}
}

func (b *barcodeEdit) state() EditState {
	if !b.editing {
		return EditState{Index: -1}
	}
	return EditState{Editing: true, Index: b.index, Draft: b.draft}
}
