// Package convert turns loosely typed values into concrete scalars. Every
// conversion reports failure as an error and, when the Converter has a sink,
// logs it as well.
package convert

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
	"unsafe"

	"golang.org/x/text/width"

	"github.com/rawbytedev/segment/internal/util"
)

var (
	ErrOverflow    = errors.New("value out of range")
	ErrFormat      = errors.New("malformed input")
	ErrUnsupported = errors.New("unsupported conversion")
)

// Converter performs conversions and reports failures to an optional sink.
// The zero value converts without logging.
type Converter struct {
	log func(error)
}

// NewConverter returns a Converter that passes every failure to log. A nil
// log disables reporting.
func NewConverter(log func(error)) *Converter {
	return &Converter{log: log}
}

// Logged returns a Converter reporting to the shared package logger.
func Logged() *Converter {
	return NewConverter(func(err error) { util.Log.Print(err) })
}

func (c *Converter) fail(v any, target string, kind error) error {
	err := fmt.Errorf("convert: %T to %s: %w", v, target, kind)
	if c != nil && c.log != nil {
		c.log(err)
	}
	return err
}

func (c *Converter) ToBool(v any) (bool, error) {
	switch x := v.(type) {
	case nil:
		return false, nil
	case bool:
		return x, nil
	case string:
		s := normalize(x)
		switch {
		case strings.EqualFold(s, "true"):
			return true, nil
		case strings.EqualFold(s, "false"):
			return false, nil
		}
		return false, c.fail(v, "bool", ErrFormat)
	}
	n, ok := numberOf(v)
	if !ok {
		return false, c.fail(v, "bool", ErrUnsupported)
	}
	switch n.kind {
	case kindInt:
		return n.i != 0, nil
	case kindUint:
		return n.u != 0, nil
	default:
		return n.f != 0, nil
	}
}

func (c *Converter) ToInt8(v any) (int8, error)   { return toSigned[int8](c, v, "int8") }
func (c *Converter) ToInt16(v any) (int16, error) { return toSigned[int16](c, v, "int16") }
func (c *Converter) ToInt32(v any) (int32, error) { return toSigned[int32](c, v, "int32") }
func (c *Converter) ToInt64(v any) (int64, error) { return toSigned[int64](c, v, "int64") }

func (c *Converter) ToUint8(v any) (uint8, error)   { return toUnsigned[uint8](c, v, "uint8") }
func (c *Converter) ToUint16(v any) (uint16, error) { return toUnsigned[uint16](c, v, "uint16") }
func (c *Converter) ToUint32(v any) (uint32, error) { return toUnsigned[uint32](c, v, "uint32") }
func (c *Converter) ToUint64(v any) (uint64, error) { return toUnsigned[uint64](c, v, "uint64") }

func (c *Converter) ToFloat32(v any) (float32, error) {
	f, err := c.toFloat(v, "float32")
	if err != nil {
		return 0, err
	}
	if !math.IsInf(f, 0) && math.Abs(f) > math.MaxFloat32 {
		return 0, c.fail(v, "float32", ErrOverflow)
	}
	return float32(f), nil
}

func (c *Converter) ToFloat64(v any) (float64, error) {
	return c.toFloat(v, "float64")
}

// ToRune converts a code point number or a one-character string.
func (c *Converter) ToRune(v any) (rune, error) {
	switch x := v.(type) {
	case nil:
		return 0, nil
	case string:
		s := width.Narrow.String(x)
		r, size := utf8.DecodeRuneInString(s)
		if size == 0 || size != len(s) || r == utf8.RuneError {
			return 0, c.fail(v, "rune", ErrFormat)
		}
		return r, nil
	}
	if k := reflect.ValueOf(v).Kind(); k == reflect.Float32 || k == reflect.Float64 {
		return 0, c.fail(v, "rune", ErrUnsupported)
	}
	r, err := toSigned[int32](c, v, "rune")
	if err != nil {
		return 0, err
	}
	if r < 0 || !utf8.ValidRune(r) {
		return 0, c.fail(v, "rune", ErrOverflow)
	}
	return r, nil
}

// ToString formats v. nil yields the empty string.
func (c *Converter) ToString(v any) (string, error) {
	switch x := v.(type) {
	case nil:
		return "", nil
	case string:
		return x, nil
	case fmt.Stringer:
		return x.String(), nil
	case bool:
		return strconv.FormatBool(x), nil
	case []byte:
		return string(x), nil
	case error:
		return x.Error(), nil
	}
	n, ok := numberOf(v)
	if !ok {
		return "", c.fail(v, "string", ErrUnsupported)
	}
	switch n.kind {
	case kindInt:
		return strconv.FormatInt(n.i, 10), nil
	case kindUint:
		return strconv.FormatUint(n.u, 10), nil
	default:
		return strconv.FormatFloat(n.f, 'g', -1, 64), nil
	}
}

var timeLayouts = []string{
	time.RFC3339Nano,
	time.DateTime,
	time.DateOnly,
	time.RFC1123Z,
	time.RFC1123,
}

// ToTime accepts time.Time values and strings in common layouts. nil yields
// the zero time.
func (c *Converter) ToTime(v any) (time.Time, error) {
	switch x := v.(type) {
	case nil:
		return time.Time{}, nil
	case time.Time:
		return x, nil
	case *time.Time:
		if x == nil {
			return time.Time{}, nil
		}
		return *x, nil
	case string:
		s := normalize(x)
		for _, layout := range timeLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t, nil
			}
		}
		return time.Time{}, c.fail(v, "time.Time", ErrFormat)
	}
	return time.Time{}, c.fail(v, "time.Time", ErrUnsupported)
}

func (c *Converter) toFloat(v any, target string) (float64, error) {
	n, err := c.parse(v, target, true)
	if err != nil {
		return 0, err
	}
	switch n.kind {
	case kindInt:
		return float64(n.i), nil
	case kindUint:
		return float64(n.u), nil
	default:
		return n.f, nil
	}
}

type signed interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64
}

type unsigned interface {
	~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64
}

func toSigned[T signed](c *Converter, v any, target string) (T, error) {
	n, err := c.parse(v, target, false)
	if err != nil {
		return 0, err
	}
	var i int64
	switch n.kind {
	case kindInt:
		i = n.i
	case kindUint:
		if n.u > math.MaxInt64 {
			return 0, c.fail(v, target, ErrOverflow)
		}
		i = int64(n.u)
	default:
		f := math.RoundToEven(n.f)
		if math.IsNaN(f) || f < math.MinInt64 || f >= math.MaxInt64 {
			return 0, c.fail(v, target, ErrOverflow)
		}
		i = int64(f)
	}
	t := T(i)
	if int64(t) != i {
		return 0, c.fail(v, target, ErrOverflow)
	}
	return t, nil
}

func toUnsigned[T unsigned](c *Converter, v any, target string) (T, error) {
	n, err := c.parse(v, target, false)
	if err != nil {
		return 0, err
	}
	var u uint64
	switch n.kind {
	case kindInt:
		if n.i < 0 {
			return 0, c.fail(v, target, ErrOverflow)
		}
		u = uint64(n.i)
	case kindUint:
		u = n.u
	default:
		f := math.RoundToEven(n.f)
		if math.IsNaN(f) || f < 0 || f >= math.MaxUint64 {
			return 0, c.fail(v, target, ErrOverflow)
		}
		u = uint64(f)
	}
	var zero T
	if unsafe.Sizeof(zero) < 8 && u>>(unsafe.Sizeof(zero)*8) != 0 {
		return 0, c.fail(v, target, ErrOverflow)
	}
	return T(u), nil
}

// parse reduces v to a number. Strings are parsed as integers, or as floats
// when allowFloat is set.
func (c *Converter) parse(v any, target string, allowFloat bool) (number, error) {
	switch x := v.(type) {
	case nil:
		return number{kind: kindInt}, nil
	case string:
		return c.parseString(v, normalize(x), target, allowFloat)
	}
	if n, ok := numberOf(v); ok {
		return n, nil
	}
	if x, ok := v.(fmt.Stringer); ok {
		return c.parseString(v, normalize(x.String()), target, allowFloat)
	}
	return number{}, c.fail(v, target, ErrUnsupported)
}

func (c *Converter) parseString(v any, s, target string, allowFloat bool) (number, error) {
	if allowFloat {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			if errors.Is(err, strconv.ErrRange) {
				return number{}, c.fail(v, target, ErrOverflow)
			}
			return number{}, c.fail(v, target, ErrFormat)
		}
		return number{kind: kindFloat, f: f}, nil
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return number{kind: kindInt, i: i}, nil
	} else if !errors.Is(err, strconv.ErrRange) {
		return number{}, c.fail(v, target, ErrFormat)
	}
	if u, err := strconv.ParseUint(s, 10, 64); err == nil {
		return number{kind: kindUint, u: u}, nil
	}
	return number{}, c.fail(v, target, ErrOverflow)
}

// normalize trims s and folds full-width forms such as "１２３" to ASCII.
func normalize(s string) string {
	return strings.TrimSpace(width.Narrow.String(s))
}

type numberKind uint8

const (
	kindInt numberKind = iota
	kindUint
	kindFloat
)

type number struct {
	kind numberKind
	i    int64
	u    uint64
	f    float64
}

// numberOf reads v by kind, so named types such as time.Duration count as
// numbers.
func numberOf(v any) (number, bool) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Bool:
		if rv.Bool() {
			return number{kind: kindInt, i: 1}, true
		}
		return number{kind: kindInt}, true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return number{kind: kindInt, i: rv.Int()}, true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return number{kind: kindUint, u: rv.Uint()}, true
	case reflect.Float32, reflect.Float64:
		return number{kind: kindFloat, f: rv.Float()}, true
	}
	return number{}, false
}

// Or returns other when s is empty.
func Or(s, other string) string {
	if s == "" {
		return other
	}
	return s
}
