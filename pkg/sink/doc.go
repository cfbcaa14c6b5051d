// Package sink delivers encoded recordings to a live session.
//
// A [Sink] receives the JSON document together with a point [Geometry]
// payload: one point per logged entry carrying the attributes the host-side
// parser node reads (P, name, time, kind, metadata).
//
// # Usage
//
// Push to the live-session bridge running next to the host application:
//
//	s := sink.NewHTTPSink("http://127.0.0.1:9090", httpClient, logger)
//	err := s.Send(ctx, doc, geo, sink.Metadata{
//	    SessionID: id,
//	    NodePath:  sink.DefaultNodePath,
//	    NodeName:  sink.DefaultNodeName,
//	})
//
// Or write the recording to disk:
//
//	s := sink.NewFileSink("/tmp/recording.json", logger)
//
// Sinks never retry. A bridge that cannot be reached yields an error
// wrapping [ErrSessionUnavailable].
package sink
