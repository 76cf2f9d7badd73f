package types

import "velac/report"

// Member is a single named member of a complex type: a struct field, an enum
// variant, a trait or impl method, or a module-level named declaration.
type Member struct {
	// The member's name.
	Name string

	// The member's type.  For enum variants this is the payload type (the
	// unit type for payload-free variants).
	Type Type

	// Whether the member carries a default value: an initialized struct field
	// or a trait method with a default body.
	HasDefault bool
}

// ComplexType is the capability shared by all nominal types with members:
// structs, enums, traits, impls, and modules.  It provides a uniform member
// view used by field accesses, trait dispatch, and the structural queries.
type ComplexType interface {
	Type

	// DeclKey returns the opaque identity of the referenced declaration.
	DeclKey() any

	// MemberCount returns the number of members.
	MemberCount() int

	// MemberName returns the name of the i-th member.
	MemberName(i int) string

	// MemberType returns the type of the i-th member.
	MemberType(i int) Type

	// FindMember returns the index of the member with the given name.
	FindMember(name string) (int, bool)

	// HasDefaultValue returns whether the i-th member has a default value.
	HasDefaultValue(i int) bool

	// TypeParams returns the type variables of the declaration's type
	// parameters, in declaration order.  Empty for unparameterized types.
	TypeParams() []*TypeVar
}

// complexBase is the shared implementation of ComplexType.  Nominal types are
// interned by declaration identity, so the member list is attached after
// construction (declarations may be mutually recursive) and is written
// exactly once.
type complexBase struct {
	// The referenced declaration.  Compared by identity only.
	decl any

	// The display name of the declaration.
	name string

	// The universe-assigned identity used for hashing.
	id uint64

	// The type parameters of the declaration.
	params []*TypeVar

	// The member list and its name index.
	members    []Member
	byName     map[string]int
	membersSet bool
}

func (cb *complexBase) DeclKey() any {
	return cb.decl
}

func (cb *complexBase) Repr() string {
	return cb.name
}

func (cb *complexBase) MemberCount() int {
	return len(cb.members)
}

func (cb *complexBase) MemberName(i int) string {
	return cb.members[i].Name
}

func (cb *complexBase) MemberType(i int) Type {
	return cb.members[i].Type
}

func (cb *complexBase) FindMember(name string) (int, bool) {
	i, ok := cb.byName[name]
	return i, ok
}

func (cb *complexBase) HasDefaultValue(i int) bool {
	return cb.members[i].HasDefault
}

func (cb *complexBase) TypeParams() []*TypeVar {
	return cb.params
}

// SetTypeParams attaches the declaration's type parameters.  Must be called
// at most once, before the type participates in applications.
func (cb *complexBase) SetTypeParams(params []*TypeVar) {
	cb.params = params
}

// SetMembers attaches the member list.  Members are write-once: the universe
// model requires that no member list be observably replaced.
func (cb *complexBase) SetMembers(members []Member) {
	if cb.membersSet {
		report.ReportICE("member list of `%s` set twice", cb.name)
	}

	cb.members = members
	cb.byName = make(map[string]int, len(members))
	for i, m := range members {
		cb.byName[m.Name] = i
	}

	cb.membersSet = true
}

func (cb *complexBase) hash() uint64 {
	return hashCombine(hashSeedNominal, cb.id)
}

/* -------------------------------------------------------------------------- */

// StructType represents a structure type.
type StructType struct {
	complexBase

	// Whether the struct is tuple-like: its fields are positional and
	// unnamed in source.
	TupleLike bool
}

func (st *StructType) equals(other Type) bool {
	ost, ok := other.(*StructType)
	return ok && st.decl == ost.decl
}

// EnumType represents an enumeration (sum) type.  Its members are the enum's
// options; a member type is the option's payload type.
type EnumType struct {
	complexBase
}

func (et *EnumType) equals(other Type) bool {
	oet, ok := other.(*EnumType)
	return ok && et.decl == oet.decl
}

// TraitType represents a trait.  Its members are the trait's method
// declarations; a member has a default value if the trait provides a default
// body for it.
type TraitType struct {
	complexBase
}

func (tt *TraitType) equals(other Type) bool {
	ott, ok := other.(*TraitType)
	return ok && tt.decl == ott.decl
}

// ImplType represents an impl block associating a trait to a type.  Its
// members are the impl's method definitions.
type ImplType struct {
	complexBase

	// The trait obligation this impl discharges: a TraitType or an AppType
	// over one.  Set once after construction.
	impledType Type

	// The where clauses of the impl, instantiated over the impl's own type
	// parameters.  Discharged recursively during resolution.
	whereClauses []Type

	// The identity of the enclosing module declaration.
	modKey any
}

func (it *ImplType) equals(other Type) bool {
	oit, ok := other.(*ImplType)
	return ok && it.decl == oit.decl
}

// ImpledType returns the trait obligation this impl discharges.
func (it *ImplType) ImpledType() Type {
	return it.impledType
}

// WhereClauses returns the impl's where clauses.
func (it *ImplType) WhereClauses() []Type {
	return it.whereClauses
}

// ModKey returns the identity of the impl's enclosing module declaration.
func (it *ImplType) ModKey() any {
	return it.modKey
}

// SetImpledType attaches the impl's trait obligation and enclosing module.
// Must be called exactly once before the impl is registered for resolution.
func (it *ImplType) SetImpledType(impled Type, modKey any) {
	if it.impledType != nil {
		report.ReportICE("impled type of `%s` set twice", it.name)
	}

	it.impledType = impled
	it.modKey = modKey
}

// SetWhereClauses attaches the impl's where clauses.
func (it *ImplType) SetWhereClauses(clauses []Type) {
	it.whereClauses = clauses
}

// ModType represents a module as a type.  Its member list is computed lazily
// on first access by filtering the module's named declarations: modules are
// large and most are never introspected.
type ModType struct {
	complexBase

	// memberFn produces the member list on first access.
	memberFn func() []Member
}

func (mt *ModType) equals(other Type) bool {
	omt, ok := other.(*ModType)
	return ok && mt.decl == omt.decl
}

// SetMemberFunc installs the lazy member producer.  The producer runs at most
// once; the model is single threaded so a plain guard suffices.
func (mt *ModType) SetMemberFunc(fn func() []Member) {
	mt.memberFn = fn
}

// materialize forces the lazy member list.
func (mt *ModType) materialize() {
	if !mt.membersSet && mt.memberFn != nil {
		mt.SetMembers(mt.memberFn())
	}
}

func (mt *ModType) MemberCount() int {
	mt.materialize()
	return mt.complexBase.MemberCount()
}

func (mt *ModType) MemberName(i int) string {
	mt.materialize()
	return mt.complexBase.MemberName(i)
}

func (mt *ModType) MemberType(i int) Type {
	mt.materialize()
	return mt.complexBase.MemberType(i)
}

func (mt *ModType) FindMember(name string) (int, bool) {
	mt.materialize()
	return mt.complexBase.FindMember(name)
}

func (mt *ModType) HasDefaultValue(i int) bool {
	mt.materialize()
	return mt.complexBase.HasDefaultValue(i)
}
