package boomerang

import (
	"context"
	"time"

	"github.com/zoobzio/capitan"
)

// Signals for relay events.
var (
	SignalRelayCreated     = capitan.NewSignal("boomerang.relay.created", "Relay instantiated")
	SignalRedirectStart    = capitan.NewSignal("boomerang.redirect.start", "Redirect operation beginning")
	SignalRedirectComplete = capitan.NewSignal("boomerang.redirect.complete", "Redirect operation finished")
	SignalLoadStart        = capitan.NewSignal("boomerang.load.start", "Load operation beginning")
	SignalLoadComplete     = capitan.NewSignal("boomerang.load.complete", "Load operation finished")
	SignalRecordRestored   = capitan.NewSignal("boomerang.record.restored", "Redirected object rebuilt and bound")
	SignalRecordDiscarded  = capitan.NewSignal("boomerang.record.discarded", "Redirected object consumed without a target")
	SignalStateReset       = capitan.NewSignal("boomerang.state.reset", "Undecodable stored state replaced")
)

// Keys for typed event data.
var (
	KeyContentType   = capitan.NewStringKey("content_type")
	KeyStoreKey      = capitan.NewStringKey("store_key")
	KeyIdentifier    = capitan.NewStringKey("identifier")
	KeyTypeName      = capitan.NewStringKey("type_name")
	KeyFieldCount    = capitan.NewIntKey("field_count")
	KeyRestoredCount = capitan.NewIntKey("restored_count")
	KeyDuration      = capitan.NewDurationKey("duration")
	KeyError         = capitan.NewErrorKey("error")
)

// emitRelayCreated emits an event when a relay is created.
func emitRelayCreated(ctx context.Context, contentType, storeKey string) {
	capitan.Emit(ctx, SignalRelayCreated,
		KeyContentType.Field(contentType),
		KeyStoreKey.Field(storeKey),
	)
}

// emitRedirectStart emits an event when redirect begins.
func emitRedirectStart(ctx context.Context, contentType, identifier string) {
	capitan.Emit(ctx, SignalRedirectStart,
		KeyContentType.Field(contentType),
		KeyIdentifier.Field(identifier),
	)
}

// emitRedirectComplete emits an event when redirect finishes.
func emitRedirectComplete(ctx context.Context, contentType, identifier string, duration time.Duration, fieldCount int, err error) {
	fields := []capitan.Field{
		KeyContentType.Field(contentType),
		KeyIdentifier.Field(identifier),
		KeyDuration.Field(duration),
		KeyFieldCount.Field(fieldCount),
	}
	if err != nil {
		fields = append(fields, KeyError.Field(err))
		capitan.Error(ctx, SignalRedirectComplete, fields...)
	} else {
		capitan.Emit(ctx, SignalRedirectComplete, fields...)
	}
}

// emitLoadStart emits an event when load begins.
func emitLoadStart(ctx context.Context, contentType, storeKey string) {
	capitan.Emit(ctx, SignalLoadStart,
		KeyContentType.Field(contentType),
		KeyStoreKey.Field(storeKey),
	)
}

// emitLoadComplete emits an event when load finishes.
func emitLoadComplete(ctx context.Context, contentType, storeKey string, duration time.Duration, restored int, err error) {
	fields := []capitan.Field{
		KeyContentType.Field(contentType),
		KeyStoreKey.Field(storeKey),
		KeyDuration.Field(duration),
		KeyRestoredCount.Field(restored),
	}
	if err != nil {
		fields = append(fields, KeyError.Field(err))
		capitan.Error(ctx, SignalLoadComplete, fields...)
	} else {
		capitan.Emit(ctx, SignalLoadComplete, fields...)
	}
}

// emitRecordRestored emits an event when a stored object is bound to its target.
func emitRecordRestored(ctx context.Context, identifier, typeName string) {
	capitan.Emit(ctx, SignalRecordRestored,
		KeyIdentifier.Field(identifier),
		KeyTypeName.Field(typeName),
	)
}

// emitRecordDiscarded emits an event when a stored object had no target.
func emitRecordDiscarded(ctx context.Context, identifier string) {
	capitan.Emit(ctx, SignalRecordDiscarded,
		KeyIdentifier.Field(identifier),
	)
}

// emitStateReset emits a warning when stored state could not be decoded and
// is being replaced.
func emitStateReset(ctx context.Context, storeKey string, err error) {
	capitan.Warn(ctx, SignalStateReset,
		KeyStoreKey.Field(storeKey),
		KeyError.Field(err),
	)
}
