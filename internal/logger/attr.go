package logger

import (
	"fmt"
	"log/slog"
)

/*
Log attribute key values. Generally shouldn't be used directly, use the
attribute constructor functions instead.
*/
const (
	ModuleKey   = "module"
	ErrorKey    = "err"
	AddressKey  = "address"
	SizeKey     = "size"
	OffsetKey   = "offset"
	EncodingKey = "encoding"
)

/*
Module creates a sub-logger attribute naming the emitting package.

	log := logger.L.With(logger.Module("freelist"))
*/
func Module(name string) slog.Attr {
	return slog.String(ModuleKey, name)
}

/*
Error adds error to the log

	if err := f(); err != nil {
		log.Error("calling f", logger.Error(err))
	}
*/
func Error(err error) slog.Attr {
	return slog.Any(ErrorKey, err)
}

// Address formats a heap address as hex, matching how layouts are printed.
func Address(a uint32) slog.Attr {
	return slog.String(AddressKey, fmt.Sprintf("0x%X", a))
}

// Size is a byte count.
func Size(n int) slog.Attr {
	return slog.Int(SizeKey, n)
}

// Offset is a header offset inside the managed range.
func Offset(off int) slog.Attr {
	return slog.Int(OffsetKey, off)
}

// Encoding names a header encoding.
func Encoding(name fmt.Stringer) slog.Attr {
	return slog.String(EncodingKey, name.String())
}
