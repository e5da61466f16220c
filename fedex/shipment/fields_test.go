package shipment

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/egorka-gh/fedexship/fedex/xmldoc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFieldsKeepOrder(t *testing.T) {
	src := `{"Zeta":"1","Alpha":{"B":2,"A":[true,false]},"Mid":null}`
	var f Fields
	require.NoError(t, json.Unmarshal([]byte(src), &f))
	require.Len(t, f, 3)
	assert.Equal(t, "Zeta", f[0].Name)
	assert.Equal(t, "Alpha", f[1].Name)
	assert.Equal(t, "Mid", f[2].Name)
	assert.Nil(t, f[2].Value)

	nested, ok := f[1].Value.(Fields)
	require.True(t, ok)
	assert.Equal(t, "B", nested[0].Name)
	assert.Equal(t, json.Number("2"), nested[0].Value)

	out, err := json.Marshal(f)
	require.NoError(t, err)
	assert.Equal(t, src, string(out))
}

func TestFieldsNotObject(t *testing.T) {
	var f Fields
	assert.Error(t, json.Unmarshal([]byte(`["a"]`), &f))
	assert.Error(t, json.Unmarshal([]byte(`{"a":`), &f))
}

func TestFieldsInStruct(t *testing.T) {
	var spec ShipmentSpec
	require.NoError(t, json.Unmarshal([]byte(`{"service_type":"X","customer_specified_detail":{"B":"1","A":"2"}}`), &spec))
	assert.Equal(t, Fields{{Name: "B", Value: "1"}, {Name: "A", Value: "2"}}, spec.CustomerSpecifiedDetail)
}

func TestAppendFields(t *testing.T) {
	el := xmldoc.New("Root")
	err := appendFields(el, Fields{
		{Name: "S", Value: "text"},
		{Name: "N", Value: json.Number("1.50")},
		{Name: "I", Value: 7},
		{Name: "F", Value: 2.25},
		{Name: "Skip", Value: nil},
		{Name: "L", Value: []interface{}{"a", Fields{{Name: "X", Value: "y"}}}},
	})
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, el.Encode(&buf))
	assert.Equal(t, "<Root><S>text</S><N>1.50</N><I>7</I><F>2.25</F><L>a</L><L><X>y</X></L></Root>", buf.String())

	err = appendFields(xmldoc.New("Root"), Fields{{Name: "", Value: "x"}})
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "empty name"))
}
