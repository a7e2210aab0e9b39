package config

// UnitFileExtensions are all recognized unit file extensions
var UnitFileExtensions = []string{".yaml", ".yml"}

// DistributedModuleName is the runtime support module that must be
// imported before any distributed declaration makes sense.
const DistributedModuleName = "Distributed"

// Marker and root protocol names
const (
	DistributedActorProtocol        = "DistributedActor"
	ActorSystemProtocol             = "DistributedActorSystem"
	InvocationEncoderProtocol       = "DistributedTargetInvocationEncoder"
	InvocationDecoderProtocol       = "DistributedTargetInvocationDecoder"
	InvocationResultHandlerProtocol = "DistributedTargetInvocationResultHandler"
)

// Well-known protocols and types
const (
	EncodableProtocol    = "Encodable"
	DecodableProtocol    = "Decodable"
	CodableAlias         = "Codable"
	ErrorProtocol        = "Error"
	AnyTypeName          = "Any"
	VoidTypeName         = "Void"
	RemoteCallTargetType = "RemoteCallTarget"
)

// Associated type names
const (
	SerializationRequirementName      = "SerializationRequirement"
	ActorIDName                       = "ActorID"
	ActorSystemName                   = "ActorSystem"
	InvocationEncoderName             = "InvocationEncoder"
	InvocationDecoderName             = "InvocationDecoder"
	DefaultDistributedActorSystemName = "DefaultDistributedActorSystem"
	ActorIDMemberName                 = "ID"
	SelfTypeName                      = "Self"
)

// Ad-hoc operation names
const (
	RemoteCallName         = "remoteCall"
	RemoteCallVoidName     = "remoteCallVoid"
	RecordArgumentName     = "recordArgument"
	RecordReturnTypeName   = "recordReturnType"
	RecordErrorTypeName    = "recordErrorType"
	DecodeNextArgumentName = "decodeNextArgument"
	OnReturnName           = "onReturn"
	OnReturnVoidName       = "onReturnVoid"
	OnThrowName            = "onThrow"
)

// Reserved distributed actor members
const (
	ActorSystemPropertyName = "actorSystem"
	IDPropertyName          = "id"
	MangledNameLabel        = "_mangledName"
)
