// Package xmlrpc implements the subset of XML-RPC spoken by Odoo's external API:
// encoding method calls from Go values and decoding method responses and faults.
package xmlrpc

import (
	"encoding/base64"
	"errors"
	"fmt"
	"math"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/beevik/etree"
)

// dateTimeLayout is the XML-RPC dateTime.iso8601 layout used by Python's xmlrpc.client
const dateTimeLayout = "20060102T15:04:05"

// Codec errors
var (
	ErrUnsupportedType   = errors.New("xmlrpc: unsupported value type")
	ErrMalformedResponse = errors.New("xmlrpc: malformed response")
)

// Fault is an XML-RPC fault returned by the remote side
type Fault struct {
	Code    int
	Message string
}

// Error implements the error interface
func (f *Fault) Error() string {
	return fmt.Sprintf("xmlrpc fault %d: %s", f.Code, f.Message)
}

// EncodeCall builds a methodCall document for method with the given params
func EncodeCall(method string, params ...any) ([]byte, error) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	call := doc.CreateElement("methodCall")
	call.CreateElement("methodName").SetText(method)
	ps := call.CreateElement("params")

	for i, p := range params {
		value := ps.CreateElement("param").CreateElement("value")
		if err := encodeValue(value, p); err != nil {
			return nil, fmt.Errorf("param %d: %w", i, err)
		}
	}

	return doc.WriteToBytes()
}

// encodeValue writes v as the typed child of a <value> element
func encodeValue(value *etree.Element, v any) error {
	switch t := v.(type) {
	case nil:
		value.CreateElement("nil")
	case bool:
		b := "0"
		if t {
			b = "1"
		}
		value.CreateElement("boolean").SetText(b)
	case string:
		value.CreateElement("string").SetText(t)
	case int:
		encodeInt(value, int64(t))
	case int32:
		encodeInt(value, int64(t))
	case int64:
		encodeInt(value, t)
	case float64:
		value.CreateElement("double").SetText(strconv.FormatFloat(t, 'f', -1, 64))
	case time.Time:
		value.CreateElement("dateTime.iso8601").SetText(t.UTC().Format(dateTimeLayout))
	case []byte:
		value.CreateElement("base64").SetText(base64.StdEncoding.EncodeToString(t))
	case []any:
		data := value.CreateElement("array").CreateElement("data")
		for i, item := range t {
			if err := encodeValue(data.CreateElement("value"), item); err != nil {
				return fmt.Errorf("array item %d: %w", i, err)
			}
		}
	case map[string]any:
		return encodeStruct(value, t)
	default:
		return encodeReflect(value, reflect.ValueOf(v))
	}
	return nil
}

// encodeInt emits <int> for 32-bit values and the <i8> extension otherwise
func encodeInt(value *etree.Element, n int64) {
	tag := "int"
	if n > math.MaxInt32 || n < math.MinInt32 {
		tag = "i8"
	}
	value.CreateElement(tag).SetText(strconv.FormatInt(n, 10))
}

func encodeStruct(value *etree.Element, m map[string]any) error {
	st := value.CreateElement("struct")

	names := make([]string, 0, len(m))
	for k := range m {
		names = append(names, k)
	}
	sort.Strings(names)

	for _, name := range names {
		member := st.CreateElement("member")
		member.CreateElement("name").SetText(name)
		if err := encodeValue(member.CreateElement("value"), m[name]); err != nil {
			return fmt.Errorf("member %q: %w", name, err)
		}
	}
	return nil
}

// encodeReflect handles typed slices, string-keyed maps, pointers and named scalar types
func encodeReflect(value *etree.Element, rv reflect.Value) error {
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			value.CreateElement("nil")
			return nil
		}
		return encodeValue(value, rv.Elem().Interface())
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			value.CreateElement("array").CreateElement("data")
			return nil
		}
		items := make([]any, rv.Len())
		for i := range items {
			items[i] = rv.Index(i).Interface()
		}
		return encodeValue(value, items)
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return fmt.Errorf("%w: map key %s", ErrUnsupportedType, rv.Type().Key())
		}
		m := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			m[iter.Key().String()] = iter.Value().Interface()
		}
		return encodeStruct(value, m)
	case reflect.Bool:
		return encodeValue(value, rv.Bool())
	case reflect.String:
		return encodeValue(value, rv.String())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		encodeInt(value, rv.Int())
		return nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		u := rv.Uint()
		if u > math.MaxInt64 {
			return fmt.Errorf("%w: %d overflows int64", ErrUnsupportedType, u)
		}
		encodeInt(value, int64(u))
		return nil
	case reflect.Float32, reflect.Float64:
		return encodeValue(value, rv.Float())
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedType, rv.Type())
	}
}

// DecodeResponse parses a methodResponse document.
// A fault response is returned as a *Fault error.
func DecodeResponse(body []byte) (any, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(body); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	root := doc.Root()
	if root == nil || root.Tag != "methodResponse" {
		return nil, fmt.Errorf("%w: missing methodResponse", ErrMalformedResponse)
	}

	if fault := root.SelectElement("fault"); fault != nil {
		return nil, decodeFault(fault)
	}

	params := root.SelectElement("params")
	if params == nil {
		return nil, fmt.Errorf("%w: missing params", ErrMalformedResponse)
	}
	param := params.SelectElement("param")
	if param == nil {
		return nil, nil
	}
	value := param.SelectElement("value")
	if value == nil {
		return nil, fmt.Errorf("%w: param without value", ErrMalformedResponse)
	}
	return decodeValue(value)
}

func decodeFault(fault *etree.Element) error {
	value := fault.SelectElement("value")
	if value == nil {
		return fmt.Errorf("%w: fault without value", ErrMalformedResponse)
	}
	decoded, err := decodeValue(value)
	if err != nil {
		return err
	}
	members, ok := decoded.(map[string]any)
	if !ok {
		return fmt.Errorf("%w: fault value is not a struct", ErrMalformedResponse)
	}

	f := &Fault{}
	switch code := members["faultCode"].(type) {
	case int64:
		f.Code = int(code)
	case string:
		// Odoo sometimes puts the exception text in faultCode
		f.Message = code
	}
	if msg, ok := members["faultString"].(string); ok && msg != "" {
		if f.Message != "" && f.Message != msg {
			f.Message = f.Message + ": " + msg
		} else {
			f.Message = msg
		}
	}
	return f
}

func decodeValue(value *etree.Element) (any, error) {
	children := value.ChildElements()
	if len(children) == 0 {
		return value.Text(), nil
	}

	typed := children[0]
	text := typed.Text()

	switch typed.Tag {
	case "int", "i4", "i8":
		n, err := strconv.ParseInt(strings.TrimSpace(text), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: bad %s %q", ErrMalformedResponse, typed.Tag, text)
		}
		return n, nil
	case "boolean":
		switch strings.TrimSpace(text) {
		case "1":
			return true, nil
		case "0":
			return false, nil
		}
		return nil, fmt.Errorf("%w: bad boolean %q", ErrMalformedResponse, text)
	case "string":
		return text, nil
	case "double":
		f, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: bad double %q", ErrMalformedResponse, text)
		}
		return f, nil
	case "dateTime.iso8601":
		return parseDateTime(strings.TrimSpace(text))
	case "base64":
		b, err := base64.StdEncoding.DecodeString(strings.Join(strings.Fields(text), ""))
		if err != nil {
			return nil, fmt.Errorf("%w: bad base64: %v", ErrMalformedResponse, err)
		}
		return b, nil
	case "nil":
		return nil, nil
	case "array":
		return decodeArray(typed)
	case "struct":
		return decodeStruct(typed)
	default:
		return nil, fmt.Errorf("%w: unknown type <%s>", ErrMalformedResponse, typed.Tag)
	}
}

func decodeArray(array *etree.Element) ([]any, error) {
	items := []any{}
	data := array.SelectElement("data")
	if data == nil {
		return items, nil
	}
	for i, v := range data.SelectElements("value") {
		item, err := decodeValue(v)
		if err != nil {
			return nil, fmt.Errorf("array item %d: %w", i, err)
		}
		items = append(items, item)
	}
	return items, nil
}

func decodeStruct(st *etree.Element) (map[string]any, error) {
	members := make(map[string]any)
	for _, member := range st.SelectElements("member") {
		name := member.SelectElement("name")
		value := member.SelectElement("value")
		if name == nil || value == nil {
			return nil, fmt.Errorf("%w: incomplete struct member", ErrMalformedResponse)
		}
		v, err := decodeValue(value)
		if err != nil {
			return nil, fmt.Errorf("member %q: %w", name.Text(), err)
		}
		members[name.Text()] = v
	}
	return members, nil
}

func parseDateTime(s string) (time.Time, error) {
	for _, layout := range []string{dateTimeLayout, "2006-01-02T15:04:05", "20060102T15:04:05Z07:00", time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: bad dateTime %q", ErrMalformedResponse, s)
}

// DecodeCall parses a methodCall document into its method name and params.
// It is the server-side counterpart of EncodeCall.
func DecodeCall(body []byte) (string, []any, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(body); err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	root := doc.Root()
	if root == nil || root.Tag != "methodCall" {
		return "", nil, fmt.Errorf("%w: missing methodCall", ErrMalformedResponse)
	}
	name := root.SelectElement("methodName")
	if name == nil {
		return "", nil, fmt.Errorf("%w: missing methodName", ErrMalformedResponse)
	}

	params := []any{}
	if ps := root.SelectElement("params"); ps != nil {
		for i, p := range ps.SelectElements("param") {
			value := p.SelectElement("value")
			if value == nil {
				return "", nil, fmt.Errorf("%w: param %d without value", ErrMalformedResponse, i)
			}
			v, err := decodeValue(value)
			if err != nil {
				return "", nil, fmt.Errorf("param %d: %w", i, err)
			}
			params = append(params, v)
		}
	}
	return strings.TrimSpace(name.Text()), params, nil
}

// EncodeResponse builds a methodResponse document carrying v
func EncodeResponse(v any) ([]byte, error) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	value := doc.CreateElement("methodResponse").
		CreateElement("params").
		CreateElement("param").
		CreateElement("value")
	if err := encodeValue(value, v); err != nil {
		return nil, err
	}
	return doc.WriteToBytes()
}

// EncodeFault builds a methodResponse document carrying a fault
func EncodeFault(f *Fault) ([]byte, error) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	value := doc.CreateElement("methodResponse").
		CreateElement("fault").
		CreateElement("value")
	if err := encodeStruct(value, map[string]any{
		"faultCode":   f.Code,
		"faultString": f.Message,
	}); err != nil {
		return nil, err
	}
	return doc.WriteToBytes()
}
