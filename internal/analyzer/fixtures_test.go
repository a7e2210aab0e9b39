package analyzer

import "strings"

// Unit fragments. Type blocks are list items of `types:`; member blocks are
// list items of a type's `members:`.

const unitHeader = "module: Main\nimports: [Distributed]\n"

const addressType = `  - name: ActorAddress
    kind: struct
    inherits: [Hashable, Codable, Sendable]
`

const pointType = `  - name: Point
    kind: struct
`

const encoderHeader = `  - name: FakeInvocationEncoder
    kind: struct
    inherits: [DistributedTargetInvocationEncoder]
    members:
      - typealias: SerializationRequirement
        type: Codable
`

const recordArgumentMember = `      - func: recordArgument
        generics: [Value]
        params: ["_ argument: Value"]
        where: ["Value: SerializationRequirement"]
        mutating: true
        throws: true
`

const recordReturnTypeMember = `      - func: recordReturnType
        generics: [R]
        params: ["_ type: R.Type"]
        where: ["R: SerializationRequirement"]
        mutating: true
        throws: true
`

const recordErrorTypeMember = `      - func: recordErrorType
        generics: [E]
        params: ["_ type: E.Type"]
        where: ["E: Error"]
        mutating: true
        throws: true
`

const decoderHeader = `  - name: FakeInvocationDecoder
    kind: class
    inherits: [DistributedTargetInvocationDecoder]
    members:
      - typealias: SerializationRequirement
        type: Codable
`

const decodeNextArgumentMember = `      - func: decodeNextArgument
        generics: [Argument]
        where: ["Argument: SerializationRequirement"]
        returns: Argument
        throws: true
`

const handlerType = `  - name: FakeResultHandler
    kind: struct
    inherits: [DistributedTargetInvocationResultHandler]
    members:
      - typealias: SerializationRequirement
        type: Codable
      - func: onReturn
        generics: [Success]
        params: ["value: Success"]
        where: ["Success: SerializationRequirement"]
        async: true
        throws: true
      - func: onReturnVoid
        async: true
        throws: true
      - func: onThrow
        generics: [Err]
        params: ["error: Err"]
        where: ["Err: Error"]
        async: true
        throws: true
`

const systemHeader = `  - name: FakeActorSystem
    kind: struct
    inherits: [DistributedActorSystem]
    members:
      - typealias: ActorID
        type: ActorAddress
      - typealias: InvocationEncoder
        type: FakeInvocationEncoder
      - typealias: InvocationDecoder
        type: FakeInvocationDecoder
      - typealias: ResultHandler
        type: FakeResultHandler
      - typealias: SerializationRequirement
        type: Codable
`

const remoteCallMember = `      - func: remoteCall
        generics: [Act, Err, Res]
        params:
          - "on actor: Act"
          - "target: RemoteCallTarget"
          - "invocation: inout InvocationEncoder"
          - "throwing: Err.Type"
          - "returning: Res.Type"
        where:
          - "Act: DistributedActor"
          - "Act.ID == ActorID"
          - "Err: Error"
          - "Res: SerializationRequirement"
        returns: Res
        async: true
        throws: true
`

const remoteCallVoidMember = `      - func: remoteCallVoid
        generics: [Act, Err]
        params:
          - "on actor: Act"
          - "target: RemoteCallTarget"
          - "invocation: inout InvocationEncoder"
          - "throwing: Err.Type"
        where:
          - "Act: DistributedActor"
          - "Act.ID == ActorID"
          - "Err: Error"
        async: true
        throws: true
`

const greeterHeader = `  - name: Greeter
    kind: actor
    distributed: true
    members:
      - typealias: ActorSystem
        type: FakeActorSystem
      - init: true
        params: ["actorSystem: FakeActorSystem"]
`

const greetMember = `      - func: greet
        distributed: true
        params: ["name: String"]
        returns: String
`

func encoderType(members ...string) string {
	return encoderHeader + strings.Join(members, "")
}

func decoderType(members ...string) string {
	return decoderHeader + strings.Join(members, "")
}

func systemType(members ...string) string {
	return systemHeader + strings.Join(members, "")
}

func greeterType(members ...string) string {
	return greeterHeader + strings.Join(members, "")
}

func standardEncoder() string {
	return encoderType(recordArgumentMember, recordReturnTypeMember, recordErrorTypeMember)
}

func standardDecoder() string {
	return decoderType(decodeNextArgumentMember)
}

func standardSystem() string {
	return systemType(remoteCallMember, remoteCallVoidMember)
}

// unitWith assembles a unit from type blocks plus optional extra top-level
// sections.
func unitWith(types []string, extra ...string) string {
	return unitHeader + "types:\n" + strings.Join(types, "") + strings.Join(extra, "")
}

// supportTypes are the types every well-formed actor system needs besides
// the system itself.
func supportTypes() []string {
	return []string{addressType, pointType, standardEncoder(), standardDecoder(), handlerType}
}

// unitWithSystem swaps in a system block and actor block.
func unitWithSystem(system, actor string, extra ...string) string {
	types := append(supportTypes(), system, actor)
	return unitWith(types, extra...)
}

func wellFormedUnit() string {
	return unitWithSystem(standardSystem(), greeterType(greetMember))
}

// withoutImport drops the Distributed import.
func withoutImport(src string) string {
	return strings.Replace(src, "imports: [Distributed]\n", "", 1)
}
