package model

import "time"

// FieldAccessAllocation is the foreign key of an access row.
const FieldAccessAllocation = "UsuarioXProjetoXRecurso_idUsuarioXProjetoXRecurso"

// AccessEvent confirms an access written to the records API.
type AccessEvent struct {
	AllocationID int64     `json:"allocationId"`
	RemoteID     string    `json:"remoteId,omitempty"`
	RegisteredAt time.Time `json:"registeredAt"`
}
