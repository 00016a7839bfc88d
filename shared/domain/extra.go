package domain

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"go.mongodb.org/mongo-driver/bson"
)

// Team records are schemaless: keys the typed struct does not know are kept in
// Extra and travel at the top level of the JSON object, next to the typed ones.

var jsonNamesCache sync.Map // reflect.Type -> map[string]bool

func jsonNames(t reflect.Type) map[string]bool {
	if names, ok := jsonNamesCache.Load(t); ok {
		return names.(map[string]bool)
	}
	names := map[string]bool{"_id": true}
	for i := 0; i < t.NumField(); i++ {
		name, _, _ := strings.Cut(t.Field(i).Tag.Get("json"), ",")
		if name != "" && name != "-" {
			names[name] = true
		}
	}
	jsonNamesCache.Store(t, names)
	return names
}

// marshalFlat encodes known and adds the extra keys it does not already have.
func marshalFlat(known any, extra bson.M) ([]byte, error) {
	data, err := json.Marshal(known)
	if err != nil || len(extra) == 0 {
		return data, err
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, err
	}
	taken := jsonNames(reflect.Indirect(reflect.ValueOf(known)).Type())
	for k, v := range extra {
		if taken[k] {
			continue
		}
		raw, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", k, err)
		}
		fields[k] = raw
	}
	return json.Marshal(fields)
}

// unmarshalFlat decodes data into known and returns the keys known has no
// field for.
func unmarshalFlat(data []byte, known any) (bson.M, error) {
	if err := json.Unmarshal(data, known); err != nil {
		return nil, err
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, err
	}
	taken := jsonNames(reflect.Indirect(reflect.ValueOf(known)).Type())
	var extra bson.M
	for k, raw := range fields {
		if taken[k] {
			continue
		}
		if k == "" || strings.HasPrefix(k, "$") || strings.Contains(k, ".") {
			return nil, fmt.Errorf("field name %q is not allowed", k)
		}
		var v any
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		if extra == nil {
			extra = bson.M{}
		}
		extra[k] = v
	}
	return extra, nil
}

type (
	companyFields  Company
	incidentFields Incident
	devFields      DevProject
)

func (c Company) MarshalJSON() ([]byte, error) {
	return marshalFlat(companyFields(c), c.Extra)
}

func (c *Company) UnmarshalJSON(data []byte) error {
	var known companyFields
	extra, err := unmarshalFlat(data, &known)
	if err != nil {
		return err
	}
	*c = Company(known)
	c.Extra = extra
	return nil
}

func (i Incident) MarshalJSON() ([]byte, error) {
	return marshalFlat(incidentFields(i), i.Extra)
}

func (i *Incident) UnmarshalJSON(data []byte) error {
	var known incidentFields
	extra, err := unmarshalFlat(data, &known)
	if err != nil {
		return err
	}
	*i = Incident(known)
	i.Extra = extra
	return nil
}

func (d DevProject) MarshalJSON() ([]byte, error) {
	return marshalFlat(devFields(d), d.Extra)
}

func (d *DevProject) UnmarshalJSON(data []byte) error {
	var known devFields
	extra, err := unmarshalFlat(data, &known)
	if err != nil {
		return err
	}
	*d = DevProject(known)
	d.Extra = extra
	return nil
}
