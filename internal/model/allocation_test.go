package model

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
)

func decodeRecord(t *testing.T, s string) Record {
	var r Record
	d := json.NewDecoder(strings.NewReader(s))
	d.UseNumber()
	require.NoError(t, d.Decode(&r))
	return r
}

func Test_NewAllocation(t *testing.T) {
	tests := []struct {
		name    string
		record  string
		want    *Allocation
		wantErr string
	}{
		{
			name:   "numeric ids",
			record: `{"idUsuarioXProjetoXRecurso": 42, "usuário_idUsuario": 7, "nomeUsuario": "Ana", "NFCId": "ABC123", "descProjeto": "Projeto X", "descRecurso": "Bancada 2", "extra": true}`,
			want: &Allocation{
				ID:       "42",
				UserID:   "7",
				UserName: "Ana",
				RFID:     "ABC123",
				Project:  "Projeto X",
				Resource: "Bancada 2",
			},
		},
		{
			name:   "optional fields missing",
			record: `{"usuário_idUsuario": "7", "descProjeto": "Projeto X"}`,
			want:   &Allocation{UserID: "7", Project: "Projeto X"},
		},
		{
			name:    "no project",
			record:  `{"usuário_idUsuario": 7, "NFCId": "ABC123"}`,
			wantErr: "descProjeto",
		},
		{
			name:    "null user id",
			record:  `{"usuário_idUsuario": null, "descProjeto": "Projeto X"}`,
			wantErr: FieldUserID,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewAllocation(decodeRecord(t, tt.record))
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err, spew.Sdump(got))
			assert.NotNil(t, got.Record)
			got.Record = nil
			assert.Equal(t, tt.want, got)
		})
	}
}

func Test_NewAllocations(t *testing.T) {
	records := []Record{
		decodeRecord(t, `{"usuário_idUsuario": 7, "descProjeto": "Projeto X"}`),
		decodeRecord(t, `{"usuário_idUsuario": 7}`),
		decodeRecord(t, `{"descProjeto": "Projeto Y"}`),
	}
	_, err := NewAllocations(records)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "record 1")
	assert.Contains(t, err.Error(), "record 2")

	allocations, err := NewAllocations(records[:1])
	require.NoError(t, err)
	assert.Len(t, allocations, 1)
}

func Test_DecodeAllocations(t *testing.T) {
	records := []Record{
		decodeRecord(t, `{"usuário_idUsuario": 9, "NFCId": "XYZ999", "descProjeto": null}`),
		decodeRecord(t, `{"usuário_idUsuario": 7, "NFCId": "ABC123", "descProjeto": "Projeto X"}`),
		decodeRecord(t, `{"NFCId": "ABC123", "descProjeto": "Projeto Y"}`),
	}
	allocations, err := DecodeAllocations(records)
	require.Error(t, err)
	assert.Len(t, multierr.Errors(err), 2)
	assert.Contains(t, err.Error(), "record 0")
	assert.Contains(t, err.Error(), "record 2")
	require.Len(t, allocations, 1)
	assert.Equal(t, "7", allocations[0].UserID)

	allocations, err = DecodeAllocations(nil)
	assert.NoError(t, err)
	assert.Empty(t, allocations)
}

func Test_AllocationMarshalJSON(t *testing.T) {
	raw := `{"descProjeto":"Projeto X","extra":"kept","usuário_idUsuario":7}`
	a, err := NewAllocation(decodeRecord(t, raw))
	require.NoError(t, err)

	b, err := json.Marshal(a)
	require.NoError(t, err)
	assert.JSONEq(t, raw, string(b))

	user := a.User()
	b, err = json.Marshal(user)
	require.NoError(t, err)
	assert.JSONEq(t, raw, string(b))

	b, err = json.Marshal(&User{ID: "7", Name: "Ana", RFID: "ABC123"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"7","name":"Ana","rfid":"ABC123"}`, string(b))
}

func Test_Projects(t *testing.T) {
	assert.Equal(t, []string{"Projeto X", "Projeto Y"}, Projects(testAllocations()))
	assert.Empty(t, Projects(nil))
}
