package tools

import (
	"path/filepath"
	"reflect"
	"strings"
)

// LoadConfig decodes filename as JSON when it has a .json extension and as YAML otherwise, then fills `default` tags.
func LoadConfig(filename string, v interface{}) error {
	var err error
	if strings.EqualFold(filepath.Ext(filename), ".json") {
		err = UnmarshalFileJson(filename, v)
	} else {
		err = UnmarshalFileYaml(filename, v)
	}
	if err != nil {
		return err
	}

	return DoTagFunc(v, []func(reflect.StructField, reflect.Value) error{SetDefaultValueIfNil})
}
