package adcatalog

// Method is the per-item mutation verb carried in a batch-upsert request.
type Method string

const (
	MethodCreate Method = "CREATE"
	MethodUpdate Method = "UPDATE"
	MethodDelete Method = "DELETE"
)

// BatchRequest is one item inside a Batch-upsert call.
type BatchRequest struct {
	Method     Method
	RetailerID string
	Data       map[string]interface{}
}

func (r BatchRequest) wire() wireBatchRequest {
	data := make(map[string]interface{}, len(r.Data)+1)
	for k, v := range r.Data {
		data[k] = v
	}
	// The remote API requires the data block's own id to equal the
	// top-level retailer-id in addition to the retailer_id field.
	data["id"] = r.RetailerID

	return wireBatchRequest{
		Method:     string(r.Method),
		RetailerID: r.RetailerID,
		Data:       data,
	}
}

type wireBatchRequest struct {
	Method     string                 `json:"method"`
	RetailerID string                 `json:"retailer_id"`
	Data       map[string]interface{} `json:"data"`
}

type wireBatchEnvelope struct {
	ItemType string             `json:"item_type"`
	Requests []wireBatchRequest `json:"requests"`
}

// APIError is the error shape the remote side embeds either at the
// response's top level or per validation-status entry.
type APIError struct {
	Message string `json:"message"`
	Code    int    `json:"code"`
}

// ValidationStatus is one item's CREATE/UPDATE outcome in a synchronous
// batch response.
type ValidationStatus struct {
	RetailerID string     `json:"retailer_id"`
	Errors     []APIError `json:"errors,omitempty"`
}

// BatchResponse is the raw, uninterpreted response to a batch-upsert call.
// Exactly one of Error, ValidationStatus, or Handles is expected to be
// populated; interpreting which is the replication engine's job, not this
// client's.
type BatchResponse struct {
	Error            *APIError          `json:"error,omitempty"`
	ValidationStatus []ValidationStatus `json:"validation_status,omitempty"`
	Handles          []string           `json:"handles,omitempty"`
}

// RemoteRow is one entry returned by Enumerate or Lookup-by-retailer-id.
type RemoteRow struct {
	RetailerID   string `json:"retailer_id"`
	Availability string `json:"availability"`
	Inventory    int    `json:"inventory"`
}

type listResponse struct {
	Data   []RemoteRow `json:"data"`
	Paging struct {
		Next string `json:"next"`
	} `json:"paging"`
}
