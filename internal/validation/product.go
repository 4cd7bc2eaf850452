package validation

import (
	"encoding/json"
	"strconv"
	"strings"

	"gudang/internal/models"
)

// rawProduct holds numeric fields undecoded so they can be coerced
// from either JSON numbers or numeric strings ("5" and 5 both pass).
type rawProduct struct {
	Name          *string         `json:"name"`
	Quantity      json.RawMessage `json:"quantity"`
	PurchasePrice json.RawMessage `json:"purchase_price"`
	SalePrice     json.RawMessage `json:"sale_price"`
	Code          *string         `json:"code"`
}

// ProductInsert decodes and validates a creation payload. It returns
// the typed payload or an *Error naming every violated field.
func ProductInsert(body []byte) (*models.ProductInsert, *Error) {
	raw, verr := decodeProduct(body)
	if verr != nil {
		return nil, verr
	}

	verr = newError()
	payload := &models.ProductInsert{
		Quantity:      coerceInt(raw.Quantity, "quantity", verr),
		PurchasePrice: coerceFloat(raw.PurchasePrice, "purchase_price", verr),
		SalePrice:     coerceFloat(raw.SalePrice, "sale_price", verr),
		Code:          raw.Code,
	}
	if raw.Name != nil {
		payload.Name = *raw.Name
	}

	rejectEmpty(raw.Code, "code", verr)
	mergeStruct(payload, verr)
	if verr := verr.orNil(); verr != nil {
		return nil, verr
	}
	return payload, nil
}

// ProductUpdate decodes and validates a partial update payload. Fields
// absent from the body stay nil and are left untouched by the update.
func ProductUpdate(body []byte) (*models.ProductUpdate, *Error) {
	raw, verr := decodeProduct(body)
	if verr != nil {
		return nil, verr
	}

	verr = newError()
	payload := &models.ProductUpdate{
		Name:          raw.Name,
		Quantity:      coerceInt(raw.Quantity, "quantity", verr),
		PurchasePrice: coerceFloat(raw.PurchasePrice, "purchase_price", verr),
		SalePrice:     coerceFloat(raw.SalePrice, "sale_price", verr),
		Code:          raw.Code,
	}

	rejectEmpty(raw.Name, "name", verr)
	rejectEmpty(raw.Code, "code", verr)
	mergeStruct(payload, verr)
	if verr := verr.orNil(); verr != nil {
		return nil, verr
	}
	return payload, nil
}

func decodeProduct(body []byte) (*rawProduct, *Error) {
	var raw rawProduct
	if err := json.Unmarshal(body, &raw); err != nil {
		verr := newError()
		verr.add("body", "must be a valid JSON object")
		return nil, verr
	}
	return &raw, nil
}

// mergeStruct runs constraint checks and folds the results in, keeping
// the coercion message when a field already failed to parse.
func mergeStruct(payload interface{}, verr *Error) {
	serr := Struct(payload)
	if serr == nil {
		return
	}
	for field, msg := range serr.Fields {
		if !verr.has(field) {
			verr.add(field, msg)
		}
	}
}

// rejectEmpty flags optional string fields that were sent as "". The
// validator's omitempty treats a pointer to the empty string as absent,
// so the check has to happen before constraint merging.
func rejectEmpty(value *string, field string, verr *Error) {
	if value != nil && *value == "" {
		verr.add(field, "must not be empty")
	}
}

func coerceInt(raw json.RawMessage, field string, verr *Error) *int64 {
	s, ok := rawNumber(raw)
	if !ok {
		return nil
	}

	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		if _, ferr := strconv.ParseFloat(s, 64); ferr == nil {
			verr.add(field, "must be an integer")
		} else {
			verr.add(field, "must be a number")
		}
		return nil
	}
	return &n
}

func coerceFloat(raw json.RawMessage, field string, verr *Error) *float64 {
	s, ok := rawNumber(raw)
	if !ok {
		return nil
	}

	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		verr.add(field, "must be a number")
		return nil
	}
	return &n
}

// rawNumber unwraps a raw JSON value into candidate numeric text.
// Missing fields and JSON null report not-present; quoted values are
// unquoted so numeric strings coerce.
func rawNumber(raw json.RawMessage) (string, bool) {
	if len(raw) == 0 {
		return "", false
	}
	s := strings.TrimSpace(string(raw))
	if s == "null" {
		return "", false
	}
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	return s, true
}
