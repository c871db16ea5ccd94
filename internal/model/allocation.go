package model

import (
	"encoding/json"

	"github.com/mitchellh/mapstructure"
	"github.com/ofte-auth/ponto/internal/util"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
)

// Field names used by the records API allocations view.
const (
	FieldUserID       = "usuário_idUsuario"
	FieldUserName     = "nomeUsuario"
	FieldRFID         = "NFCId"
	FieldProject      = "descProjeto"
	FieldResource     = "descRecurso"
	FieldAllocationID = "idUsuarioXProjetoXRecurso"
)

// Record is a raw row as returned by the records API.
type Record map[string]interface{}

// Allocation links a user to a project and a resource. The raw remote row is
// kept so it can be echoed back to kiosk clients untouched.
type Allocation struct {
	ID       string `mapstructure:"idUsuarioXProjetoXRecurso"`
	UserID   string `mapstructure:"usuário_idUsuario" validate:"required"`
	UserName string `mapstructure:"nomeUsuario"`
	RFID     string `mapstructure:"NFCId"`
	Project  string `mapstructure:"descProjeto" validate:"required"`
	Resource string `mapstructure:"descRecurso"`

	Record Record `mapstructure:"-"`
}

// NewAllocation decodes and validates a remote row.
func NewAllocation(record Record) (*Allocation, error) {
	a := &Allocation{}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           a,
	})
	if err != nil {
		return nil, errors.Wrap(err, "creating record decoder")
	}
	if err = decoder.Decode(map[string]interface{}(record)); err != nil {
		return nil, errors.Wrap(err, "decoding allocation record")
	}
	if err = util.Validate.Struct(a); err != nil {
		return nil, errors.Wrap(err, "validating allocation record")
	}
	a.Record = record
	return a, nil
}

// NewAllocations decodes a list of remote rows. All row errors are reported.
func NewAllocations(records []Record) ([]*Allocation, error) {
	allocations, err := DecodeAllocations(records)
	if err != nil {
		return nil, err
	}
	return allocations, nil
}

// DecodeAllocations decodes the rows it can. Rows that fail are left out and
// their errors are combined in the returned error.
func DecodeAllocations(records []Record) ([]*Allocation, error) {
	var errs error
	allocations := make([]*Allocation, 0, len(records))
	for n, record := range records {
		a, err := NewAllocation(record)
		if err != nil {
			errs = multierr.Append(errs, errors.Wrapf(err, "record %d", n))
			continue
		}
		allocations = append(allocations, a)
	}
	return allocations, errs
}

// User returns the user this allocation row belongs to.
func (a *Allocation) User() *User {
	return &User{
		ID:     a.UserID,
		Name:   a.UserName,
		RFID:   a.RFID,
		Record: a.Record,
	}
}

// MarshalJSON echoes the remote row when there is one.
func (a *Allocation) MarshalJSON() ([]byte, error) {
	if a.Record != nil {
		return json.Marshal(map[string]interface{}(a.Record))
	}
	return json.Marshal(map[string]interface{}{
		FieldAllocationID: a.ID,
		FieldUserID:       a.UserID,
		FieldUserName:     a.UserName,
		FieldRFID:         a.RFID,
		FieldProject:      a.Project,
		FieldResource:     a.Resource,
	})
}

// Projects returns the distinct projects of `allocations`, first seen first.
func Projects(allocations []*Allocation) []string {
	projects := make([]string, 0, len(allocations))
	for _, a := range allocations {
		projects = append(projects, a.Project)
	}
	return util.Distinct(projects)
}

// FilterByProject returns the allocations of `project` in their original order.
func FilterByProject(allocations []*Allocation, project string) []*Allocation {
	result := make([]*Allocation, 0)
	for _, a := range allocations {
		if a.Project == project {
			result = append(result, a)
		}
	}
	return result
}
