package analyzer

import (
	"fmt"

	"github.com/funvibe/distcheck/internal/config"
)

// Operation is one ad-hoc requirement: a function a conforming type must
// provide but which the protocol cannot declare, because its generic
// constraints depend on the conformer's SerializationRequirement.
type Operation int

const (
	OpRemoteCall Operation = iota
	OpRemoteCallVoid
	OpRecordArgument
	OpRecordReturnType
	OpRecordErrorType
	OpDecodeNextArgument
	OpOnReturn
	OpOnReturnVoid
	OpOnThrow
)

func (op Operation) String() string {
	if t, ok := templates[op]; ok {
		return t.Name
	}
	return fmt.Sprintf("Operation(%d)", int(op))
}

// Template returns the matching rules for op.
func (op Operation) Template() *Template {
	return templates[op]
}

// OperationByName maps a requirement name to its operation.
func OperationByName(name string) (Operation, bool) {
	for op, t := range templates {
		if t.Name == name {
			return op, true
		}
	}
	return 0, false
}

// ParamRole says what a parameter position must hold.
type ParamRole int

const (
	RoleGenericValue ParamRole = iota // a bare generic parameter
	RoleGenericMeta                   // the metatype of a generic parameter
	RoleTarget                        // RemoteCallTarget
	RoleInvocation                    // inout InvocationEncoder
)

// GenericRole names a generic parameter position of a template.
type GenericRole string

const (
	GenericActor  GenericRole = "Act"
	GenericError  GenericRole = "Err"
	GenericResult GenericRole = "Res"
	GenericValue  GenericRole = "Value"
)

// Constraint is a requirement a bound generic parameter must carry.
type Constraint int

const (
	ConstrainDistributedActor Constraint = iota // Act: DistributedActor
	ConstrainActorID                            // Act.ID == ActorID
	ConstrainError                              // Err: Error
	ConstrainSerialization                      // T: every protocol of the requirement
)

type ParamSlot struct {
	Label   string
	Role    ParamRole
	Generic GenericRole // bound by RoleGenericValue and RoleGenericMeta
}

type GenericSlot struct {
	Role        GenericRole
	Constraints []Constraint
}

// Effect is a rule for async or throws.
type Effect int

const (
	EffectAny Effect = iota
	EffectRequired
	EffectForbidden
)

func (e Effect) admits(present bool) bool {
	switch e {
	case EffectRequired:
		return present
	case EffectForbidden:
		return !present
	}
	return true
}

// ResultRule constrains the declared return type.
type ResultRule int

const (
	ResultAbsent       ResultRule = iota // no return type written
	ResultAbsentOrVoid                   // none written, or Void
	ResultGeneric                        // exactly the generic named by Template.ResultRole
)

// Template is the declarative shape of an ad-hoc operation.
type Template struct {
	Name   string
	Marker MarkerProtocol

	Params      []ParamSlot
	CheckLabels bool
	Generics    []GenericSlot

	Result     ResultRule
	ResultRole GenericRole

	Async  Effect
	Throws Effect
	// MutatingCapable requires `mutating` unless the conformer is a
	// reference type.
	MutatingCapable bool
	// CountCoverage matches serialization constraints by counting those
	// that name a protocol of the requirement instead of checking each.
	CountCoverage bool

	// Skeleton is the expected signature shown in missing-witness notes.
	Skeleton string
}

var templates = map[Operation]*Template{
	OpRemoteCall: {
		Name:   config.RemoteCallName,
		Marker: MarkerActorSystem,
		Params: []ParamSlot{
			{Label: "on", Role: RoleGenericValue, Generic: GenericActor},
			{Label: "target", Role: RoleTarget},
			{Label: "invocation", Role: RoleInvocation},
			{Label: "throwing", Role: RoleGenericMeta, Generic: GenericError},
			{Label: "returning", Role: RoleGenericMeta, Generic: GenericResult},
		},
		CheckLabels: true,
		Generics: []GenericSlot{
			{Role: GenericActor, Constraints: []Constraint{ConstrainDistributedActor, ConstrainActorID}},
			{Role: GenericError, Constraints: []Constraint{ConstrainError}},
			{Role: GenericResult, Constraints: []Constraint{ConstrainSerialization}},
		},
		Result:     ResultGeneric,
		ResultRole: GenericResult,
		Async:      EffectRequired,
		Throws:     EffectRequired,
		Skeleton: "func remoteCall<Act, Err, Res>(\n" +
			"    on actor: Act,\n" +
			"    target: RemoteCallTarget,\n" +
			"    invocation: inout InvocationEncoder,\n" +
			"    throwing: Err.Type,\n" +
			"    returning: Res.Type\n" +
			") async throws -> Res\n" +
			"  where Act: DistributedActor,\n" +
			"        Act.ID == ActorID,\n" +
			"        Err: Error,\n" +
			"        Res: SerializationRequirement\n",
	},
	OpRemoteCallVoid: {
		Name:   config.RemoteCallVoidName,
		Marker: MarkerActorSystem,
		Params: []ParamSlot{
			{Label: "on", Role: RoleGenericValue, Generic: GenericActor},
			{Label: "target", Role: RoleTarget},
			{Label: "invocation", Role: RoleInvocation},
			{Label: "throwing", Role: RoleGenericMeta, Generic: GenericError},
		},
		CheckLabels: true,
		Generics: []GenericSlot{
			{Role: GenericActor, Constraints: []Constraint{ConstrainDistributedActor, ConstrainActorID}},
			{Role: GenericError, Constraints: []Constraint{ConstrainError}},
		},
		Result: ResultAbsent,
		Async:  EffectRequired,
		Throws: EffectRequired,
		Skeleton: "func remoteCallVoid<Act, Err>(\n" +
			"    on actor: Act,\n" +
			"    target: RemoteCallTarget,\n" +
			"    invocation: inout InvocationEncoder,\n" +
			"    throwing: Err.Type\n" +
			") async throws\n" +
			"  where Act: DistributedActor,\n" +
			"        Act.ID == ActorID,\n" +
			"        Err: Error\n",
	},
	OpRecordArgument: {
		Name:   config.RecordArgumentName,
		Marker: MarkerInvocationEncoder,
		Params: []ParamSlot{
			{Role: RoleGenericValue, Generic: GenericValue},
		},
		Generics: []GenericSlot{
			{Role: GenericValue, Constraints: []Constraint{ConstrainSerialization}},
		},
		Result:          ResultAbsentOrVoid,
		Throws:          EffectRequired,
		MutatingCapable: true,
		Skeleton:        "mutating func recordArgument<Argument: SerializationRequirement>(_ argument: Argument) throws\n",
	},
	OpRecordReturnType: {
		Name:   config.RecordReturnTypeName,
		Marker: MarkerInvocationEncoder,
		Params: []ParamSlot{
			{Role: RoleGenericMeta, Generic: GenericResult},
		},
		Generics: []GenericSlot{
			{Role: GenericResult, Constraints: []Constraint{ConstrainSerialization}},
		},
		Result:          ResultAbsentOrVoid,
		Throws:          EffectRequired,
		MutatingCapable: true,
		Skeleton:        "mutating func recordReturnType<Res: SerializationRequirement>(_ resultType: Res.Type) throws\n",
	},
	OpRecordErrorType: {
		Name:   config.RecordErrorTypeName,
		Marker: MarkerInvocationEncoder,
		Params: []ParamSlot{
			{Role: RoleGenericMeta, Generic: GenericError},
		},
		Generics: []GenericSlot{
			{Role: GenericError, Constraints: []Constraint{ConstrainError}},
		},
		Result:          ResultAbsentOrVoid,
		Throws:          EffectRequired,
		MutatingCapable: true,
		Skeleton:        "mutating func recordErrorType<Err: Error>(_ errorType: Err.Type) throws\n",
	},
	OpDecodeNextArgument: {
		Name:   config.DecodeNextArgumentName,
		Marker: MarkerInvocationDecoder,
		Generics: []GenericSlot{
			{Role: GenericValue, Constraints: []Constraint{ConstrainSerialization}},
		},
		Result:        ResultGeneric,
		ResultRole:    GenericValue,
		Async:         EffectForbidden,
		Throws:        EffectRequired,
		CountCoverage: true,
		Skeleton:      "mutating func decodeNextArgument<Argument: SerializationRequirement>() throws -> Argument\n",
	},
	OpOnReturn: {
		Name:   config.OnReturnName,
		Marker: MarkerInvocationResultHandler,
		Params: []ParamSlot{
			{Label: "value", Role: RoleGenericValue, Generic: GenericResult},
		},
		CheckLabels: true,
		Generics: []GenericSlot{
			{Role: GenericResult, Constraints: []Constraint{ConstrainSerialization}},
		},
		Result:   ResultAbsentOrVoid,
		Async:    EffectRequired,
		Throws:   EffectRequired,
		Skeleton: "func onReturn<Success: SerializationRequirement>(value: Success) async throws\n",
	},
	OpOnReturnVoid: {
		Name:     config.OnReturnVoidName,
		Marker:   MarkerInvocationResultHandler,
		Result:   ResultAbsentOrVoid,
		Async:    EffectRequired,
		Throws:   EffectRequired,
		Skeleton: "func onReturnVoid() async throws\n",
	},
	OpOnThrow: {
		Name:   config.OnThrowName,
		Marker: MarkerInvocationResultHandler,
		Params: []ParamSlot{
			{Label: "error", Role: RoleGenericValue, Generic: GenericError},
		},
		CheckLabels: true,
		Generics: []GenericSlot{
			{Role: GenericError, Constraints: []Constraint{ConstrainError}},
		},
		Result:   ResultAbsentOrVoid,
		Async:    EffectRequired,
		Throws:   EffectRequired,
		Skeleton: "func onThrow<Err: Error>(error: Err) async throws\n",
	},
}

// markerOperations lists, in checking order, the ad-hoc operations each
// marker protocol demands.
var markerOperations = map[MarkerProtocol][]Operation{
	MarkerActorSystem:             {OpRemoteCall, OpRemoteCallVoid},
	MarkerInvocationEncoder:       {OpRecordArgument, OpRecordErrorType, OpRecordReturnType},
	MarkerInvocationDecoder:       {OpDecodeNextArgument},
	MarkerInvocationResultHandler: {OpOnReturn, OpOnReturnVoid, OpOnThrow},
}

// Operations returns the ad-hoc operations of m in checking order.
func (m MarkerProtocol) Operations() []Operation {
	return markerOperations[m]
}
