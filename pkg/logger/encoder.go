package logger

import (
	"fmt"
	"math"
	"time"

	"go.uber.org/zap/buffer"
	"go.uber.org/zap/zapcore"
)

var bufferpool = buffer.NewPool()

// kvConsoleEncoder prints "[time] [LEVEL] caller msg key=value ..." lines.
type kvConsoleEncoder struct {
	zapcore.Encoder
	cfg zapcore.EncoderConfig
}

func newKVConsoleEncoder(cfg zapcore.EncoderConfig) zapcore.Encoder {
	return &kvConsoleEncoder{
		Encoder: zapcore.NewConsoleEncoder(cfg),
		cfg:     cfg,
	}
}

// Clone creates a copy of the encoder
func (e *kvConsoleEncoder) Clone() zapcore.Encoder {
	return &kvConsoleEncoder{
		Encoder: e.Encoder.Clone(),
		cfg:     e.cfg,
	}
}

// EncodeEntry encodes a log entry with key=value format for fields
func (e *kvConsoleEncoder) EncodeEntry(entry zapcore.Entry, fields []zapcore.Field) (*buffer.Buffer, error) {
	buf := bufferpool.Get()

	arr := &stringArrayEncoder{}
	if e.cfg.TimeKey != "" && e.cfg.EncodeTime != nil {
		e.cfg.EncodeTime(entry.Time, arr)
	}
	if e.cfg.LevelKey != "" && e.cfg.EncodeLevel != nil {
		e.cfg.EncodeLevel(entry.Level, arr)
	}
	if e.cfg.CallerKey != "" && entry.Caller.Defined && e.cfg.EncodeCaller != nil {
		e.cfg.EncodeCaller(entry.Caller, arr)
	}
	for _, s := range arr.elems {
		buf.AppendString(s)
		buf.AppendString(e.cfg.ConsoleSeparator)
	}

	if entry.LoggerName != "" {
		buf.AppendString(entry.LoggerName)
		buf.AppendString(": ")
	}
	buf.AppendString(entry.Message)

	for _, field := range fields {
		buf.AppendString(e.cfg.ConsoleSeparator)
		buf.AppendString(field.Key)
		buf.AppendByte('=')
		appendFieldValue(buf, field)
	}

	if entry.Stack != "" && e.cfg.StacktraceKey != "" {
		buf.AppendByte('\n')
		buf.AppendString(entry.Stack)
	}

	if e.cfg.LineEnding != "" {
		buf.AppendString(e.cfg.LineEnding)
	} else {
		buf.AppendString(zapcore.DefaultLineEnding)
	}

	return buf, nil
}

// stringArrayEncoder collects the output of time, level and caller encoders
type stringArrayEncoder struct {
	elems []string
}

func (s *stringArrayEncoder) add(v any)                     { s.elems = append(s.elems, fmt.Sprint(v)) }
func (s *stringArrayEncoder) AppendBool(v bool)             { s.add(v) }
func (s *stringArrayEncoder) AppendByteString(v []byte)     { s.elems = append(s.elems, string(v)) }
func (s *stringArrayEncoder) AppendComplex128(v complex128) { s.add(v) }
func (s *stringArrayEncoder) AppendComplex64(v complex64)   { s.add(v) }
func (s *stringArrayEncoder) AppendFloat64(v float64)       { s.add(v) }
func (s *stringArrayEncoder) AppendFloat32(v float32)       { s.add(v) }
func (s *stringArrayEncoder) AppendInt(v int)               { s.add(v) }
func (s *stringArrayEncoder) AppendInt64(v int64)           { s.add(v) }
func (s *stringArrayEncoder) AppendInt32(v int32)           { s.add(v) }
func (s *stringArrayEncoder) AppendInt16(v int16)           { s.add(v) }
func (s *stringArrayEncoder) AppendInt8(v int8)             { s.add(v) }
func (s *stringArrayEncoder) AppendString(v string)         { s.elems = append(s.elems, v) }
func (s *stringArrayEncoder) AppendUint(v uint)             { s.add(v) }
func (s *stringArrayEncoder) AppendUint64(v uint64)         { s.add(v) }
func (s *stringArrayEncoder) AppendUint32(v uint32)         { s.add(v) }
func (s *stringArrayEncoder) AppendUint16(v uint16)         { s.add(v) }
func (s *stringArrayEncoder) AppendUint8(v uint8)           { s.add(v) }
func (s *stringArrayEncoder) AppendUintptr(v uintptr)       { s.add(v) }

// appendFieldValue appends the field value to the buffer in key=value format
func appendFieldValue(buf *buffer.Buffer, field zapcore.Field) {
	switch field.Type {
	case zapcore.StringType:
		buf.AppendString(field.String)
	case zapcore.Int64Type, zapcore.Int32Type, zapcore.Int16Type, zapcore.Int8Type:
		buf.AppendInt(field.Integer)
	case zapcore.Uint64Type, zapcore.Uint32Type, zapcore.Uint16Type, zapcore.Uint8Type:
		buf.AppendUint(uint64(field.Integer))
	case zapcore.Float64Type:
		buf.AppendFloat(math.Float64frombits(uint64(field.Integer)), 64)
	case zapcore.BoolType:
		buf.AppendBool(field.Integer == 1)
	case zapcore.DurationType:
		buf.AppendString(time.Duration(field.Integer).String())
	case zapcore.TimeType:
		t := time.Unix(0, field.Integer)
		if loc, ok := field.Interface.(*time.Location); ok {
			t = t.In(loc)
		}
		buf.AppendString(t.Format(time.RFC3339Nano))
	case zapcore.TimeFullType:
		buf.AppendString(field.Interface.(time.Time).Format(time.RFC3339Nano))
	case zapcore.ErrorType:
		if err, ok := field.Interface.(error); ok && err != nil {
			buf.AppendString(err.Error())
		} else {
			buf.AppendString("<nil>")
		}
	case zapcore.StringerType:
		if stringer, ok := field.Interface.(fmt.Stringer); ok {
			buf.AppendString(stringer.String())
		}
	default:
		if field.Interface != nil {
			buf.AppendString(fmt.Sprint(field.Interface))
		}
	}
}
