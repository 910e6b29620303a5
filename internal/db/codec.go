package db

import (
	"fmt"
	"reflect"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsoncodec"
	"go.mongodb.org/mongo-driver/bson/bsonrw"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

var tTime = reflect.TypeOf(time.Time{})

// Registry returns a BSON registry that stores time.Time values as
// ISO-8601 strings. Reads accept both strings and native BSON datetimes,
// so documents written by other tooling still decode.
func Registry() *bsoncodec.Registry {
	reg := bson.NewRegistry()
	reg.RegisterTypeEncoder(tTime, isoTimeCodec{})
	reg.RegisterTypeDecoder(tTime, isoTimeCodec{})
	return reg
}

type isoTimeCodec struct{}

func (isoTimeCodec) EncodeValue(_ bsoncodec.EncodeContext, vw bsonrw.ValueWriter, val reflect.Value) error {
	if !val.IsValid() || val.Type() != tTime {
		return bsoncodec.ValueEncoderError{
			Name:     "isoTimeCodec",
			Types:    []reflect.Type{tTime},
			Received: val,
		}
	}
	t := val.Interface().(time.Time)
	return vw.WriteString(t.UTC().Format(time.RFC3339Nano))
}

func (isoTimeCodec) DecodeValue(_ bsoncodec.DecodeContext, vr bsonrw.ValueReader, val reflect.Value) error {
	if !val.CanSet() || val.Type() != tTime {
		return bsoncodec.ValueDecoderError{
			Name:     "isoTimeCodec",
			Types:    []reflect.Type{tTime},
			Received: val,
		}
	}

	var t time.Time
	switch vr.Type() {
	case bsontype.String:
		raw, err := vr.ReadString()
		if err != nil {
			return err
		}
		parsed, err := ParseISOTime(raw)
		if err != nil {
			return fmt.Errorf("invalid stored timestamp %q: %w", raw, err)
		}
		t = parsed
	case bsontype.DateTime:
		ms, err := vr.ReadDateTime()
		if err != nil {
			return err
		}
		t = time.UnixMilli(ms).UTC()
	case bsontype.Null:
		if err := vr.ReadNull(); err != nil {
			return err
		}
	default:
		return fmt.Errorf("cannot decode %v into a time.Time", vr.Type())
	}

	val.Set(reflect.ValueOf(t))
	return nil
}

// ParseISOTime parses an ISO-8601 timestamp, tolerating values without a
// zone offset (legacy writers stored naive timestamps).
func ParseISOTime(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02T15:04:05.999999999", raw)
}
