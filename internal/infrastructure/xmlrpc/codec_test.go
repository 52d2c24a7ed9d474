package xmlrpc

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/beevik/etree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeCall_Scalars(t *testing.T) {
	body, err := EncodeCall("authenticate", "erp", "admin@example.com", "s3cret & <key>", map[string]any{})
	require.NoError(t, err)

	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromBytes(body))

	root := doc.Root()
	require.NotNil(t, root)
	assert.Equal(t, "methodCall", root.Tag)
	assert.Equal(t, "authenticate", root.SelectElement("methodName").Text())

	params := root.SelectElement("params").SelectElements("param")
	require.Len(t, params, 4)
	assert.Equal(t, "s3cret & <key>", params[2].SelectElement("value").SelectElement("string").Text())
	assert.NotNil(t, params[3].SelectElement("value").SelectElement("struct"))
}

func TestEncodeCall_TypeMapping(t *testing.T) {
	type named string
	stamp := time.Date(2026, 3, 1, 10, 30, 0, 0, time.UTC)

	tests := []struct {
		name  string
		value any
		tag   string
		text  string
	}{
		{name: "int", value: 42, tag: "int", text: "42"},
		{name: "int64 small", value: int64(-7), tag: "int", text: "-7"},
		{name: "int64 large", value: int64(1) << 40, tag: "i8", text: "1099511627776"},
		{name: "bool true", value: true, tag: "boolean", text: "1"},
		{name: "bool false", value: false, tag: "boolean", text: "0"},
		{name: "double", value: 2.5, tag: "double", text: "2.5"},
		{name: "named string", value: named("res.partner"), tag: "string", text: "res.partner"},
		{name: "datetime", value: stamp, tag: "dateTime.iso8601", text: "20260301T10:30:00"},
		{name: "base64", value: []byte("hi"), tag: "base64", text: "aGk="},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, err := EncodeCall("m", tt.value)
			require.NoError(t, err)

			doc := etree.NewDocument()
			require.NoError(t, doc.ReadFromBytes(body))
			value := doc.FindElement("//param/value")
			require.NotNil(t, value)
			typed := value.ChildElements()
			require.Len(t, typed, 1)
			assert.Equal(t, tt.tag, typed[0].Tag)
			assert.Equal(t, tt.text, typed[0].Text())
		})
	}
}

func TestEncodeCall_NilAndCollections(t *testing.T) {
	body, err := EncodeCall("m", nil, []int64{6, 0}, map[string]string{"b": "2", "a": "1"})
	require.NoError(t, err)

	s := string(body)
	assert.Contains(t, s, "<nil/>")
	assert.Contains(t, s, "<array><data><value><int>6</int></value><value><int>0</int></value></data></array>")
	// struct members are sorted by name
	assert.Less(t, strings.Index(s, "<name>a</name>"), strings.Index(s, "<name>b</name>"))
}

func TestEncodeCall_UnsupportedType(t *testing.T) {
	_, err := EncodeCall("m", map[int]string{1: "x"})
	assert.ErrorIs(t, err, ErrUnsupportedType)

	_, err = EncodeCall("m", struct{ A int }{A: 1})
	assert.ErrorIs(t, err, ErrUnsupportedType)
}

func TestDecodeResponse_Values(t *testing.T) {
	body := `<?xml version="1.0"?>
<methodResponse>
  <params>
    <param>
      <value><struct>
        <member><name>id</name><value><int>17</int></value></member>
        <member><name>name</name><value><string>Acme &amp; Co</string></value></member>
        <member><name>plain</name><value>untyped</value></member>
        <member><name>active</name><value><boolean>1</boolean></value></member>
        <member><name>rate</name><value><double>0.19</double></value></member>
        <member><name>parent</name><value><nil/></value></member>
        <member><name>tags</name><value><array><data>
          <value><i4>1</i4></value>
          <value><string>x</string></value>
        </data></array></value></member>
        <member><name>when</name><value><dateTime.iso8601>20260102T03:04:05</dateTime.iso8601></value></member>
        <member><name>blob</name><value><base64>aGVs
bG8=</base64></value></member>
      </struct></value>
    </param>
  </params>
</methodResponse>`

	result, err := DecodeResponse([]byte(body))
	require.NoError(t, err)

	m, ok := result.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, int64(17), m["id"])
	assert.Equal(t, "Acme & Co", m["name"])
	assert.Equal(t, "untyped", m["plain"])
	assert.Equal(t, true, m["active"])
	assert.InDelta(t, 0.19, m["rate"], 1e-9)
	assert.Nil(t, m["parent"])
	assert.Equal(t, []any{int64(1), "x"}, m["tags"])
	assert.Equal(t, time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC), m["when"])
	assert.Equal(t, []byte("hello"), m["blob"])
}

func TestDecodeResponse_Fault(t *testing.T) {
	tests := []struct {
		name    string
		code    string
		wantMsg string
		wantNum int
	}{
		{name: "numeric code", code: "<int>1</int>", wantMsg: "Access Denied", wantNum: 1},
		{name: "string code", code: "<string>warning</string>", wantMsg: "warning: Access Denied", wantNum: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := `<methodResponse><fault><value><struct>
<member><name>faultCode</name><value>` + tt.code + `</value></member>
<member><name>faultString</name><value><string>Access Denied</string></value></member>
</struct></value></fault></methodResponse>`

			_, err := DecodeResponse([]byte(body))
			var fault *Fault
			require.True(t, errors.As(err, &fault))
			assert.Equal(t, tt.wantNum, fault.Code)
			assert.Equal(t, tt.wantMsg, fault.Message)
		})
	}
}

func TestDecodeResponse_Malformed(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "not xml", body: "<<<"},
		{name: "wrong root", body: "<methodCall/>"},
		{name: "no params", body: "<methodResponse/>"},
		{name: "bad int", body: "<methodResponse><params><param><value><int>x</int></value></param></params></methodResponse>"},
		{name: "bad boolean", body: "<methodResponse><params><param><value><boolean>yes</boolean></value></param></params></methodResponse>"},
		{name: "unknown type", body: "<methodResponse><params><param><value><bigdecimal>1</bigdecimal></value></param></params></methodResponse>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeResponse([]byte(tt.body))
			assert.ErrorIs(t, err, ErrMalformedResponse)
		})
	}
}

func TestDecodeCall_RoundTripsEncodeCall(t *testing.T) {
	body, err := EncodeCall("execute_kw", "erp", 2, "key", "res.partner", "create",
		[]any{map[string]any{"name": "Acme", "is_company": true}}, map[string]any{})
	require.NoError(t, err)

	method, params, err := DecodeCall(body)
	require.NoError(t, err)
	assert.Equal(t, "execute_kw", method)
	require.Len(t, params, 7)
	assert.Equal(t, int64(2), params[1])
	assert.Equal(t, "res.partner", params[3])

	args, ok := params[5].([]any)
	require.True(t, ok)
	values, ok := args[0].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Acme", values["name"])
	assert.Equal(t, true, values["is_company"])
}

func TestEncodeResponseAndFault(t *testing.T) {
	body, err := EncodeResponse([]any{int64(3), "x"})
	require.NoError(t, err)
	result, err := DecodeResponse(body)
	require.NoError(t, err)
	assert.Equal(t, []any{int64(3), "x"}, result)

	body, err = EncodeFault(&Fault{Code: 1, Message: "Access Denied"})
	require.NoError(t, err)
	_, err = DecodeResponse(body)
	var fault *Fault
	require.True(t, errors.As(err, &fault))
	assert.Equal(t, 1, fault.Code)
	assert.Equal(t, "Access Denied", fault.Message)
}

func TestDecodeCall_Malformed(t *testing.T) {
	_, _, err := DecodeCall([]byte("<methodResponse/>"))
	assert.ErrorIs(t, err, ErrMalformedResponse)

	_, _, err = DecodeCall([]byte("<methodCall><params/></methodCall>"))
	assert.ErrorIs(t, err, ErrMalformedResponse)
}
