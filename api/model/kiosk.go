package model

import (
	"encoding/json"

	"github.com/ofte-auth/ponto/internal/model"
)

// Status values of JSON API responses.
const (
	StatusOK = "ok"
)

// RFIDRequest is the body of a card lookup. Readers may send the card id as a
// string or a number.
type RFIDRequest struct {
	RFID json.RawMessage `json:"rfid"`
}

// IdentifyResponse answers a successful card lookup.
type IdentifyResponse struct {
	Status   string      `json:"status"`
	Usuario  *model.User `json:"usuario"`
	Projetos []string    `json:"projetos"`
}

// ProjectResources lists the allocations of the selected project.
type ProjectResources struct {
	Projeto  string              `json:"projeto"`
	Recursos []*model.Allocation `json:"recursos"`
}

// AccessRequest is the body of an access registration. The allocation id
// may be sent as a number or a numeric string.
type AccessRequest struct {
	IDAlocacao json.RawMessage `json:"id_alocacao"`
}

// AccessResponse confirms an access registration.
type AccessResponse struct {
	Status string       `json:"status"`
	Acesso AccessRecord `json:"acesso"`
}

// AccessRecord echoes the registered allocation.
type AccessRecord struct {
	IDAlocacao json.RawMessage `json:"id_alocacao"`
	DataHora   string          `json:"data_hora"`
	Sucesso    bool            `json:"sucesso"`
}

// ErrorResponse is the body of a failed JSON API call.
type ErrorResponse struct {
	Error string `json:"error"`
}
