// Package protocol implements the native-messaging surface between the
// browser extension and the host.
//
// Native messaging frames every message as a 4-byte little-endian length
// followed by a JSON document. The extension sends trigger requests on
// stdin; the host answers on stdout and additionally emits unsolicited
// "status" notifications for transient UI feedback (toasts).
//
// Supported actions:
//   - copy: copy the referenced image to the clipboard; replies {ok} or
//     {ok:false, error}
//   - prewarm: start acquiring the referenced image ahead of the copy
//     gesture; replies {ok:true} immediately, the fetch continues in the
//     background and lands in the raster cache
//   - ping: health check
//
// Logging goes to stderr; stdout belongs to the protocol.
package protocol
