package telemetry

import "go.opentelemetry.io/otel/attribute"

// Span and metric attribute keys. Route labels always use the route
// pattern, never the raw path, so account identities stay out of metrics.
var (
	AttrHTTPMethod  = attribute.Key("http.method")
	AttrHTTPStatus  = attribute.Key("http.status_code")
	AttrHTTPRoute   = attribute.Key("http.route")
	AttrRequestID   = attribute.Key("http.request_id")
	AttrPeerService = attribute.Key("peer.service")
	AttrRequest     = attribute.Key("request.name")
	AttrStoreOp     = attribute.Key("store.operation")
	AttrResult      = attribute.Key("result")
)
