package tenantconfig_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/condobill/internal/tenantconfig"
)

func TestEncode(t *testing.T) {
	tests := []struct {
		name    string
		kind    tenantconfig.DataType
		in      any
		want    string
		wantErr bool
	}{
		{name: "BoolTrue", kind: tenantconfig.TypeBoolean, in: true, want: "true"},
		{name: "BoolFromString", kind: tenantconfig.TypeBoolean, in: "FALSE", want: "false"},
		{name: "BoolInvalid", kind: tenantconfig.TypeBoolean, in: "maybe", wantErr: true},
		{name: "NumberFloat", kind: tenantconfig.TypeNumber, in: 45.0, want: "45"},
		{name: "NumberFraction", kind: tenantconfig.TypeNumber, in: 2.5, want: "2.5"},
		{name: "NumberString", kind: tenantconfig.TypeNumber, in: " 15 ", want: "15"},
		{name: "NumberJSON", kind: tenantconfig.TypeNumber, in: json.Number("60"), want: "60"},
		{name: "NumberInvalid", kind: tenantconfig.TypeNumber, in: "soon", wantErr: true},
		{name: "JSONList", kind: tenantconfig.TypeJSON, in: []any{"app", "line"}, want: `["app","line"]`},
		{name: "JSONString", kind: tenantconfig.TypeJSON, in: "x", want: `"x"`},
		{name: "String", kind: tenantconfig.TypeString, in: 12, want: "12"},
		{name: "StringNil", kind: tenantconfig.TypeString, in: nil, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tenantconfig.Encode(tt.kind, tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, tenantconfig.ErrInvalidValue)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.kind, got.Kind)
			assert.Equal(t, tt.want, got.Raw)
		})
	}
}

func TestEncode_UnknownType(t *testing.T) {
	_, err := tenantconfig.Encode("date", "2025-01-01")
	assert.ErrorIs(t, err, tenantconfig.ErrInvalidDataType)
}

func TestValue_Decode(t *testing.T) {
	tests := []struct {
		name    string
		value   tenantconfig.Value
		want    any
		wantErr bool
	}{
		{name: "Bool", value: tenantconfig.Value{Kind: tenantconfig.TypeBoolean, Raw: "true"}, want: true},
		{name: "BoolMismatch", value: tenantconfig.Value{Kind: tenantconfig.TypeBoolean, Raw: "yes"}, wantErr: true},
		{name: "Number", value: tenantconfig.Value{Kind: tenantconfig.TypeNumber, Raw: "30"}, want: 30.0},
		{name: "NumberMismatch", value: tenantconfig.Value{Kind: tenantconfig.TypeNumber, Raw: "thirty"}, wantErr: true},
		{name: "JSON", value: tenantconfig.Value{Kind: tenantconfig.TypeJSON, Raw: `["app"]`}, want: []any{"app"}},
		{name: "JSONMismatch", value: tenantconfig.Value{Kind: tenantconfig.TypeJSON, Raw: `[`}, wantErr: true},
		{name: "String", value: tenantconfig.Value{Kind: tenantconfig.TypeString, Raw: "hello"}, want: "hello"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.value.Decode()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseDataType(t *testing.T) {
	dt, err := tenantconfig.ParseDataType("Boolean")
	require.NoError(t, err)
	assert.Equal(t, tenantconfig.TypeBoolean, dt)

	_, err = tenantconfig.ParseDataType("list")
	assert.ErrorIs(t, err, tenantconfig.ErrInvalidDataType)
}
