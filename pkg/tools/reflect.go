package tools

import (
	"fmt"
	"reflect"
	"strconv"
	"time"

	"github.com/modern-go/reflect2"
)

var durationType = reflect.TypeOf(time.Duration(0))

// DoTagFunc calls every fn on each field of the struct v points to. v must be a non-nil pointer to a struct.
func DoTagFunc(v interface{}, fn []func(reflect.StructField, reflect.Value) error) error {
	if reflect2.IsNil(v) {
		return nil
	}

	vType := reflect2.TypeOf(v).Type1()
	if vType.Kind() != reflect.Ptr || vType.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("DoTagFunc: %s is not a pointer to struct", vType)
	}

	indirect := reflect.Indirect(reflect.ValueOf(v))
	for i := 0; i < indirect.NumField(); i++ {
		for _, f := range fn {
			if err := f(vType.Elem().Field(i), indirect.Field(i)); err != nil {
				return err
			}
		}
	}
	return nil
}

// SetDefaultValueIfNil sets the `default` tag value on zero valued fields and walks nested structs.
// bool fields are left alone since false cannot be told apart from unset.
func SetDefaultValueIfNil(structField reflect.StructField, vValue reflect.Value) error {
	if !vValue.CanSet() {
		return nil
	}

	def, hasDefault := structField.Tag.Lookup("default")
	switch {
	case vValue.Kind() == reflect.Struct:
		for i := 0; i < vValue.NumField(); i++ {
			if err := SetDefaultValueIfNil(vValue.Type().Field(i), vValue.Field(i)); err != nil {
				return err
			}
		}
		return nil
	case vValue.Kind() == reflect.Ptr && vValue.Type().Elem().Kind() == reflect.Struct:
		if vValue.IsNil() {
			return nil
		}
		elem := vValue.Elem()
		for i := 0; i < elem.NumField(); i++ {
			if err := SetDefaultValueIfNil(elem.Type().Field(i), elem.Field(i)); err != nil {
				return err
			}
		}
		return nil
	case !hasDefault || !vValue.IsZero():
		return nil
	}

	if vValue.Type() == durationType {
		d, err := time.ParseDuration(def)
		if err != nil {
			return fmt.Errorf("field %s: %w", structField.Name, err)
		}
		vValue.SetInt(int64(d))
		return nil
	}

	switch vValue.Kind() {
	case reflect.String:
		vValue.SetString(def)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(def, 10, vValue.Type().Bits())
		if err != nil {
			return fmt.Errorf("field %s: %w", structField.Name, err)
		}
		vValue.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(def, 10, vValue.Type().Bits())
		if err != nil {
			return fmt.Errorf("field %s: %w", structField.Name, err)
		}
		vValue.SetUint(n)
	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(def, vValue.Type().Bits())
		if err != nil {
			return fmt.Errorf("field %s: %w", structField.Name, err)
		}
		vValue.SetFloat(f)
	}
	return nil
}
