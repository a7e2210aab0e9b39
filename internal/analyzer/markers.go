package analyzer

import (
	"fmt"

	"github.com/funvibe/distcheck/internal/config"
)

// MarkerProtocol identifies a protocol whose conformances are checked by
// ad-hoc matching, or the DistributedActor root the actors' requirement is
// looked up through.
type MarkerProtocol int

const (
	MarkerActorSystem MarkerProtocol = iota
	MarkerInvocationEncoder
	MarkerInvocationDecoder
	MarkerInvocationResultHandler
	MarkerDistributedActor
)

// MarkerProtocols are the four protocols with ad-hoc requirements.
var MarkerProtocols = []MarkerProtocol{
	MarkerActorSystem,
	MarkerInvocationEncoder,
	MarkerInvocationDecoder,
	MarkerInvocationResultHandler,
}

var markerNames = map[MarkerProtocol]string{
	MarkerActorSystem:             config.ActorSystemProtocol,
	MarkerInvocationEncoder:       config.InvocationEncoderProtocol,
	MarkerInvocationDecoder:       config.InvocationDecoderProtocol,
	MarkerInvocationResultHandler: config.InvocationResultHandlerProtocol,
	MarkerDistributedActor:        config.DistributedActorProtocol,
}

// ProtocolName is the declared name of the protocol.
func (m MarkerProtocol) ProtocolName() string {
	if name, ok := markerNames[m]; ok {
		return name
	}
	return fmt.Sprintf("MarkerProtocol(%d)", int(m))
}

func (m MarkerProtocol) String() string { return m.ProtocolName() }

// MarkerByName maps a protocol name to its marker.
func MarkerByName(name string) (MarkerProtocol, bool) {
	for m, n := range markerNames {
		if n == name {
			return m, true
		}
	}
	return 0, false
}
