package models

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"go.mongodb.org/mongo-driver/bson"
)

// Documents are schemaless: keys without a typed field are kept in an inline
// bson.M and written back out unchanged, both to MongoDB and to JSON.

var knownKeys sync.Map // reflect.Type -> map[string]bool

func jsonKeys(t reflect.Type) map[string]bool {
	if keys, ok := knownKeys.Load(t); ok {
		return keys.(map[string]bool)
	}
	keys := make(map[string]bool)
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		tag := f.Tag.Get("json")
		if !f.IsExported() || tag == "-" {
			continue
		}
		name := strings.Split(tag, ",")[0]
		if name == "" {
			name = f.Name
		}
		keys[name] = true
	}
	knownKeys.Store(t, keys)
	return keys
}

// decodeDocument fills the typed fields of v, a pointer to a struct, and
// returns every other top-level key of data
func decodeDocument(data []byte, v interface{}) (bson.M, error) {
	if err := json.Unmarshal(data, v); err != nil {
		return nil, err
	}
	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	keys := jsonKeys(reflect.TypeOf(v).Elem())
	var extra bson.M
	for k, val := range raw {
		if keys[k] {
			continue
		}
		if extra == nil {
			extra = bson.M{}
		}
		extra[k] = val
	}
	return extra, nil
}

// encodeDocument marshals v and merges extra into the resulting object
func encodeDocument(v interface{}, extra bson.M) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil || len(extra) == 0 {
		return data, err
	}

	var out map[string]json.RawMessage
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	for k, val := range extra {
		if _, ok := out[k]; ok {
			continue
		}
		b, err := json.Marshal(val)
		if err != nil {
			return nil, err
		}
		out[k] = b
	}
	return json.Marshal(out)
}

// Amount is a decimal price that decodes from a JSON number or numeric string
type Amount float64

// UnmarshalJSON implements json.Unmarshaler
func (a *Amount) UnmarshalJSON(data []byte) error {
	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		f, err := n.Float64()
		if err != nil {
			return fmt.Errorf("invalid amount %s: %w", data, err)
		}
		*a = Amount(f)
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("invalid amount %s", data)
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return fmt.Errorf("invalid amount %q: %w", s, err)
	}
	*a = Amount(f)
	return nil
}
