package load

import (
	"github.com/huangsam/genviz/schema"
	"github.com/tidwall/gjson"
)

// Top-level keys of a survey export.
const (
	metadataKey = "metadata"
	dataKey     = "data"
)

// ParseDocument parses a survey export of the form
//
//	{"metadata": {...}, "data": {"<group>": {"<label>": <number>, ...}, ...}}
//
// Group and label order follow the document. A repeated group name keeps the
// position of its first occurrence and the entries of its last one, as a JSON
// object would. Metadata is optional; data is required and every leaf must be a number.
func ParseDocument(doc []byte) (schema.RawDataset, error) {
	if !gjson.ValidBytes(doc) {
		return schema.RawDataset{}, schema.NewError(schema.MalformedInput, "document is not valid JSON")
	}
	root := gjson.ParseBytes(doc)
	if !root.IsObject() {
		return schema.RawDataset{}, schema.NewError(schema.MalformedInput, "document must be a JSON object")
	}

	meta, err := parseMetadata(root.Get(metadataKey))
	if err != nil {
		return schema.RawDataset{}, err
	}

	data := root.Get(dataKey)
	if !data.Exists() {
		return schema.RawDataset{}, schema.NewError(schema.MalformedInput, "document has no %q object", dataKey)
	}
	if !data.IsObject() {
		return schema.RawDataset{}, schema.NewError(schema.MalformedInput, "%q must be an object, got %s", dataKey, data.Type)
	}

	var groups []schema.GroupRecord
	index := make(map[string]int)
	data.ForEach(func(key, value gjson.Result) bool {
		var group schema.GroupRecord
		group, err = parseGroup(key.String(), value)
		if err != nil {
			return false
		}
		if i, seen := index[group.Name]; seen {
			groups[i] = group
			return true
		}
		index[group.Name] = len(groups)
		groups = append(groups, group)
		return true
	})
	if err != nil {
		return schema.RawDataset{}, err
	}

	return schema.RawDataset{Metadata: meta, Groups: groups}, nil
}

func parseMetadata(value gjson.Result) (schema.Metadata, error) {
	meta := schema.Metadata{}
	if !value.Exists() || value.Type == gjson.Null {
		return meta, nil
	}
	if !value.IsObject() {
		return nil, schema.NewError(schema.MalformedInput, "%q must be an object, got %s", metadataKey, value.Type)
	}
	value.ForEach(func(key, v gjson.Result) bool {
		meta[key.String()] = v.Value()
		return true
	})
	return meta, nil
}

func parseGroup(name string, value gjson.Result) (schema.GroupRecord, error) {
	if !value.IsObject() {
		return schema.GroupRecord{}, schema.NewError(schema.MalformedInput, "group %q must be an object, got %s", name, value.Type)
	}

	group := schema.GroupRecord{Name: name, Entries: []schema.LabelValue{}}
	var err error
	value.ForEach(func(label, v gjson.Result) bool {
		if v.Type != gjson.Number {
			err = schema.NewError(schema.MalformedInput, "group %q label %q: value must be a number, got %s", name, label.String(), v.Type)
			return false
		}
		group.Entries = append(group.Entries, schema.LabelValue{Label: label.String(), Value: v.Float()})
		return true
	})
	return group, err
}
